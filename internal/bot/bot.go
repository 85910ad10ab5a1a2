// README: Telegram transport; turns updates into dialog inputs and replies into messages.
package bot

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"taxiwatch/internal/modules/conversation"
	"taxiwatch/internal/types"
)

// Sender delivers one outgoing Telegram request.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Client is the subset of *tgbotapi.BotAPI the bot loop uses.
type Client interface {
	Sender
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Dialog advances a conversation by one input.
type Dialog interface {
	Handle(ctx context.Context, conv types.ConversationID, in conversation.Input) conversation.Reply
}

type Bot struct {
	client Client
	dialog Dialog
	// pollTimeout is the long polling timeout in seconds.
	pollTimeout int
}

func New(client Client, dialog Dialog) *Bot {
	return &Bot{client: client, dialog: dialog, pollTimeout: 60}
}

// SetDialog attaches the dialog after construction; the dialog depends on the
// watch scheduler, which in turn notifies through the bot.
func (b *Bot) SetDialog(d Dialog) {
	b.dialog = d
}

// Run consumes updates until ctx is done or the update channel closes.
// Messages are handled in arrival order.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout
	updates := b.client.GetUpdatesChan(u)
	defer b.client.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	in, ok := inputFromMessage(msg)
	if !ok {
		return
	}
	conv := types.ConversationID(msg.Chat.ID)
	slog.Debug("telegram message", "conversation", conv, "kind", in.Kind, "text", in.Text)

	reply := b.dialog.Handle(ctx, conv, in)
	if reply.Text == "" {
		return
	}
	if _, err := b.client.Send(renderReply(msg.Chat.ID, reply)); err != nil {
		slog.Error("sending reply failed", "conversation", conv, "err", err)
	}
}

func inputFromMessage(msg *tgbotapi.Message) (conversation.Input, bool) {
	switch {
	case msg.Location != nil:
		return conversation.LocationInput(types.Point{
			Lon: msg.Location.Longitude,
			Lat: msg.Location.Latitude,
		}), true
	case msg.Text != "":
		return conversation.TextInput(msg.Text), true
	default:
		return conversation.Input{}, false
	}
}
