package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"taxiwatch/internal/modules/conversation"
)

const orderButtonText = "Заказать"

func renderReply(chatID int64, r conversation.Reply) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, r.Text)
	switch {
	case r.RemoveKeyboard:
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	case len(r.Keyboard) > 0:
		msg.ReplyMarkup = replyKeyboard(r.Keyboard)
	}
	return msg
}

func replyKeyboard(rows [][]conversation.Button) tgbotapi.ReplyKeyboardMarkup {
	kb := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, b := range row {
			if b.RequestLocation {
				buttons = append(buttons, tgbotapi.NewKeyboardButtonLocation(b.Text))
				continue
			}
			buttons = append(buttons, tgbotapi.NewKeyboardButton(b.Text))
		}
		kb = append(kb, tgbotapi.NewKeyboardButtonRow(buttons...))
	}
	markup := tgbotapi.NewReplyKeyboard(kb...)
	markup.OneTimeKeyboard = true
	return markup
}

func orderKeyboard(url string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonURL(orderButtonText, url)))
}
