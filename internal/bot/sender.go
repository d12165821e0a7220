package bot

import (
	"context"
	"fmt"
	"time"
	"voltabot/internal/conversation"
	"voltabot/pkg/logger"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender delivers conversation side effects through the Bot API. Transient
// failures are retried until the context expires.
type Sender struct {
	api            telegramAPI
	merchantChatID int64
	logger         *zap.Logger
	initialBackoff time.Duration
}

func NewSender(api telegramAPI, merchantChatID int64, logger *zap.Logger) *Sender {
	return &Sender{
		api:            api,
		merchantChatID: merchantChatID,
		logger:         logger,
		initialBackoff: 200 * time.Millisecond,
	}
}

func (s *Sender) Deliver(ctx context.Context, d conversation.Delivery) error {
	msg, err := s.buildMessage(d)
	if err != nil {
		return err
	}
	log := logger.FromContext(ctx, s.logger).With(zap.Stringer("recipient", d.Recipient))

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.initialBackoff
	// the caller's deadline bounds the retries
	policy.MaxElapsedTime = 0

	attempt := 0
	op := func() error {
		attempt++
		err := s.send(ctx, log, msg)
		if err == nil {
			return nil
		}
		if !shouldRetry(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, next time.Duration) {
		log.Warn("Delivery failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("next_attempt_in", next),
			zap.Error(err))
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(policy, ctx), notify); err != nil {
		return fmt.Errorf("send %s message: %w", d.Recipient, err)
	}
	if attempt > 1 {
		log.Info("Delivery succeeded after retry", zap.Int("attempt", attempt))
	}
	return nil
}

// send runs one API call but stops waiting when ctx is done; the HTTP call
// itself cannot be cancelled by the client library, so a call that still
// succeeds after the deadline is logged.
func (s *Sender) send(ctx context.Context, log *zap.Logger, msg tgbotapi.Chattable) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		_, err := s.api.Send(msg)
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		go func() {
			if err := <-done; err == nil {
				log.Warn("Delivery completed after its deadline")
			}
		}()
		return ctx.Err()
	}
}
