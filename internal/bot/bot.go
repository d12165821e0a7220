package bot

import (
	"context"
	"fmt"
	"voltabot/internal/conversation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// telegramAPI is the part of *tgbotapi.BotAPI the gateway uses.
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Machine is the conversation core driven by the gateway.
type Machine interface {
	Start(ctx context.Context, user conversation.User) (conversation.Reply, error)
	Select(ctx context.Context, user conversation.User, choiceID string) (conversation.Reply, error)
	Text(ctx context.Context, user conversation.User, text string) (conversation.Reply, error)
	Image(ctx context.Context, user conversation.User, variants []conversation.Image) (conversation.Reply, error)
}

type Bot struct {
	bot     *tgbotapi.BotAPI
	api     telegramAPI
	machine Machine
	logger  *zap.Logger
	workers int
}

// NewAPI authorizes the token and returns the raw client. It is created
// before the machine because the machine's sender needs it.
func NewAPI(token string, debug bool, logger *zap.Logger) (*tgbotapi.BotAPI, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	botAPI.Debug = debug

	logger.Info("Bot authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))

	return botAPI, nil
}

func New(botAPI *tgbotapi.BotAPI, machine Machine, workers int, logger *zap.Logger) *Bot {
	return &Bot{
		bot:     botAPI,
		api:     botAPI,
		machine: machine,
		logger:  logger,
		workers: workers,
	}
}

// Start polls updates until ctx is done. Updates of one user are handled in
// arrival order; different users are handled in parallel.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot", zap.Int("workers", b.workers))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.bot.GetUpdatesChan(u)

	d := newDispatcher(ctx, b.workers, 64)
	defer d.close()

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Shutting down bot")
			b.bot.StopReceivingUpdates()
			return nil

		case update, ok := <-updates:
			if !ok {
				return nil
			}
			userID, ok := updateUserID(update)
			if !ok {
				continue
			}
			d.dispatch(userID, func(ctx context.Context) {
				b.processUpdate(ctx, update)
			})
		}
	}
}

func updateUserID(update tgbotapi.Update) (int64, bool) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID, true
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		return update.CallbackQuery.From.ID, true
	}
	return 0, false
}
