package bot

import (
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"voltabot/internal/conversation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func userFromMessage(msg *tgbotapi.Message) conversation.User {
	user := conversation.User{ChatID: msg.Chat.ID}
	if msg.From != nil {
		fillUser(&user, msg.From)
	}
	return user
}

func userFromCallback(cb *tgbotapi.CallbackQuery) conversation.User {
	var user conversation.User
	fillUser(&user, cb.From)
	user.ChatID = user.ID
	if cb.Message != nil && cb.Message.Chat != nil {
		user.ChatID = cb.Message.Chat.ID
	}
	return user
}

func fillUser(user *conversation.User, from *tgbotapi.User) {
	user.ID = from.ID
	user.FirstName = from.FirstName
	user.LastName = from.LastName
	user.Username = from.UserName
}

func imageVariants(photos []tgbotapi.PhotoSize) []conversation.Image {
	variants := make([]conversation.Image, 0, len(photos))
	for _, p := range photos {
		variants = append(variants, conversation.Image{
			Ref:      p.FileID,
			Width:    p.Width,
			Height:   p.Height,
			FileSize: p.FileSize,
		})
	}
	return variants
}

// shouldRetry reports whether a failed API call is worth repeating: network
// timeouts, dial failures, rate limiting and server-side errors.
func shouldRetry(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && (opErr.Timeout() || opErr.Op == "dial") {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isNotModified(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}
