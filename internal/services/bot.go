package services

import (
	"context"
	"fmt"
	"html"

	tele "gopkg.in/telebot.v3"

	"pointsdraw/internal/models"
)

const textPrizeSent = `🎁 <b>Prize delivered!</b>

<code>%s</code> won item <b>%s</b> (draw <code>%s</code>).`

// Bot posts winner announcements to a Telegram chat. A Bot built without a
// token or chat is disabled and announces nothing.
type Bot struct {
	bot    *tele.Bot
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	if token == "" || chatID == 0 {
		return &Bot{}, nil
	}

	b, err := tele.NewBot(tele.Settings{
		Token:   token,
		Offline: true,
	})
	if err != nil {
		return nil, err
	}

	return &Bot{b, chatID}, nil
}

func (bot *Bot) Enabled() bool {
	return bot.bot != nil
}

func (bot *Bot) AnnounceTransfer(ctx context.Context, transfer *models.PrizeTransfer) error {
	if !bot.Enabled() {
		return nil
	}

	text := fmt.Sprintf(textPrizeSent,
		html.EscapeString(transfer.Recipient),
		html.EscapeString(transfer.ItemID),
		html.EscapeString(transfer.JobID),
	)
	_, err := bot.bot.Send(&tele.Chat{ID: bot.chatID}, text, &tele.SendOptions{
		ParseMode: tele.ModeHTML,
	})
	return err
}
