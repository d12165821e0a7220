package bot

import (
	"context"
	"voltabot/internal/conversation"
	"voltabot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const errorText = "⚠️ خطایی رخ داد. لطفاً دوباره تلاش کنید یا /start را بزنید."

func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	log := b.logger.With(zap.String("event_id", uuid.NewString()))
	ctx = logger.WithContext(ctx, log)

	switch {
	case update.CallbackQuery != nil:
		b.processCallback(ctx, log, update.CallbackQuery)
	case update.Message != nil:
		b.processMessage(ctx, log, update.Message)
	}
}

func (b *Bot) processMessage(ctx context.Context, log *zap.Logger, msg *tgbotapi.Message) {
	user := userFromMessage(msg)
	log = log.With(zap.Int64("user_id", user.ID), zap.Int64("chat_id", user.ChatID))

	var (
		reply conversation.Reply
		err   error
	)
	switch {
	case msg.IsCommand() && msg.Command() == "start":
		log.Debug("Processing start command")
		reply, err = b.machine.Start(ctx, user)
		b.deleteMessage(log, msg.Chat.ID, msg.MessageID)
	case len(msg.Photo) > 0:
		log.Debug("Processing photo", zap.Int("variants", len(msg.Photo)))
		reply, err = b.machine.Image(ctx, user, imageVariants(msg.Photo))
	case msg.Text != "" && !msg.IsCommand():
		log.Debug("Processing message", zap.String("text", msg.Text))
		reply, err = b.machine.Text(ctx, user, msg.Text)
	default:
		return
	}

	if err != nil {
		log.Error("Failed to handle message", zap.Error(err))
		b.sendError(log, msg.Chat.ID)
		return
	}
	if reply.Screen != nil {
		b.sendScreen(log, msg.Chat.ID, reply.Screen)
	}
	if reply.Notice != nil {
		b.sendMessage(log, tgbotapi.NewMessage(msg.Chat.ID, reply.Notice.Text))
	}
}

func (b *Bot) processCallback(ctx context.Context, log *zap.Logger, cb *tgbotapi.CallbackQuery) {
	user := userFromCallback(cb)
	log = log.With(zap.Int64("user_id", user.ID), zap.String("choice", cb.Data))
	log.Debug("Processing callback")

	reply, err := b.machine.Select(ctx, user, cb.Data)
	if err != nil {
		log.Error("Failed to handle callback", zap.Error(err))
		b.answerCallback(log, cb.ID, &conversation.Notice{Text: errorText, Alert: true})
		return
	}

	// every callback is answered so the client stops its spinner
	b.answerCallback(log, cb.ID, reply.Notice)

	if reply.Screen == nil {
		return
	}
	if cb.Message == nil {
		b.sendScreen(log, user.ChatID, reply.Screen)
		return
	}
	b.editScreen(log, cb.Message.Chat.ID, cb.Message.MessageID, reply.Screen)
}

func (b *Bot) sendScreen(log *zap.Logger, chatID int64, screen *conversation.Screen) {
	msg := tgbotapi.NewMessage(chatID, screen.Text)
	if len(screen.Choices) > 0 {
		msg.ReplyMarkup = inlineKeyboard(screen.Choices)
	}
	b.sendMessage(log, msg)
}

func (b *Bot) editScreen(log *zap.Logger, chatID int64, messageID int, screen *conversation.Screen) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, screen.Text)
	if len(screen.Choices) > 0 {
		markup := inlineKeyboard(screen.Choices)
		edit.ReplyMarkup = &markup
	}
	if _, err := b.api.Request(edit); err != nil {
		if isNotModified(err) {
			return
		}
		log.Warn("Failed to edit message, sending a new one", zap.Error(err))
		b.sendScreen(log, chatID, screen)
	}
}

func (b *Bot) sendMessage(log *zap.Logger, msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		log.Error("Failed to send message",
			zap.Int64("chat_id", msg.ChatID),
			zap.Error(err))
	}
}

func (b *Bot) sendError(log *zap.Logger, chatID int64) {
	b.sendMessage(log, tgbotapi.NewMessage(chatID, errorText))
}

// answerCallback is best effort: a lost answer only leaves the spinner on.
func (b *Bot) answerCallback(log *zap.Logger, callbackID string, notice *conversation.Notice) {
	cfg := tgbotapi.NewCallback(callbackID, "")
	if notice != nil {
		cfg.Text = notice.Text
		cfg.ShowAlert = notice.Alert
	}
	if _, err := b.api.Request(cfg); err != nil {
		log.Warn("Failed to answer callback", zap.Error(err))
	}
}

// deleteMessage is best effort: the bot may lack the right to delete.
func (b *Bot) deleteMessage(log *zap.Logger, chatID int64, messageID int) {
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		log.Warn("Failed to delete command message", zap.Error(err))
	}
}
