package bot

import (
	"voltabot/internal/conversation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// inlineKeyboard renders one button per row.
func inlineKeyboard(choices []conversation.Choice) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(choices))
	for _, c := range choices {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(c.Label, c.ID),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
