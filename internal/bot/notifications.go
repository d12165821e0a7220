package bot

import (
	"errors"
	"fmt"
	"strings"
	"voltabot/internal/conversation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var errNoChat = errors.New("delivery has no destination chat")

// chatFor resolves a recipient to a Telegram chat id. In Telegram the
// private chat with a user has the user's id.
func (s *Sender) chatFor(d conversation.Delivery) (int64, error) {
	var chatID int64
	switch d.Recipient {
	case conversation.RecipientUser:
		chatID = d.ChatID
		if chatID == 0 {
			chatID = d.UserID
		}
	case conversation.RecipientPrivate:
		chatID = d.UserID
	case conversation.RecipientMerchant:
		chatID = s.merchantChatID
	}
	if chatID == 0 {
		return 0, fmt.Errorf("%w: %s", errNoChat, d.Recipient)
	}
	return chatID, nil
}

// buildMessage turns a delivery into the matching Telegram request.
func (s *Sender) buildMessage(d conversation.Delivery) (tgbotapi.Chattable, error) {
	chatID, err := s.chatFor(d)
	if err != nil {
		return nil, err
	}

	var markup any
	if len(d.Choices) > 0 {
		markup = inlineKeyboard(d.Choices)
	}

	switch {
	case d.Document != nil:
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: d.Document.Name, Bytes: d.Document.Data})
		doc.Caption = d.Text
		doc.ReplyMarkup = markup
		return doc, nil
	case d.ImageRef != "":
		photo := tgbotapi.NewPhoto(chatID, photoFile(d.ImageRef))
		photo.Caption = d.Text
		photo.ReplyMarkup = markup
		return photo, nil
	default:
		msg := tgbotapi.NewMessage(chatID, d.Text)
		msg.ReplyMarkup = markup
		return msg, nil
	}
}

// photoFile treats URLs as remote files and anything else as a file id.
func photoFile(ref string) tgbotapi.RequestFileData {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return tgbotapi.FileURL(ref)
	}
	return tgbotapi.FileID(ref)
}
