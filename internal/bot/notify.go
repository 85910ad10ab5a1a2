package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"taxiwatch/internal/modules/watch"
	"taxiwatch/internal/types"
)

const (
	priceDroppedHeader = "Цена снизилась!"
	tripLine           = "Поездка от %s (%s)\nдо %s (%s)\nбудет стоить %s"
	bestPriceLine      = "Лучшая цена за поиск: %s"
	startPriceLine     = "В начале поиска: %s"
	minPriceLine       = "Минимальная стоимость: %s"
	durationLine       = "В пути: %s"
)

// Notify implements watch.Notifier. Quotes that are not a drop are delivered
// without sound.
func (b *Bot) Notify(ctx context.Context, n watch.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(int64(n.ConversationID), notificationText(n))
	msg.DisableNotification = n.Silent
	msg.DisableWebPagePreview = true
	if n.OrderURL != "" {
		msg.ReplyMarkup = orderKeyboard(n.OrderURL)
	}
	if _, err := b.client.Send(msg); err != nil {
		return types.NewTransportError("telegram send", err)
	}
	return nil
}

func notificationText(n watch.Notification) string {
	price := n.PriceText
	if price == "" {
		price = formatPrice(n.Price, n.Currency)
	}

	var sb strings.Builder
	if n.Dropped {
		sb.WriteString(priceDroppedHeader)
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, tripLine,
		n.Route.OriginName, n.Route.Origin.String(),
		n.Route.DestinationName, n.Route.Destination.String(),
		price)
	if n.BestPrice > 0 {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, bestPriceLine, formatPrice(n.BestPrice, n.Currency))
	}
	if n.StartPrice > 0 && n.StartPrice != n.Price {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, startPriceLine, formatPrice(n.StartPrice, n.Currency))
	}
	if n.MinPrice > 0 {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, minPriceLine, formatPrice(n.MinPrice, n.Currency))
	}
	if n.DurationText != "" {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, durationLine, n.DurationText)
	}
	return sb.String()
}

func formatPrice(v float64, currency string) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if currency == "" {
		return s
	}
	return s + " " + currency
}
