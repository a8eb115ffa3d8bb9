package report

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"yieldScope/internal/model"
)

const telegramTop = 10

// Sender is the part of the bot API used to deliver messages.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts a short ranking summary to a chat.
type Telegram struct {
	bot    Sender
	chatID int64
	links  Links
}

// NewTelegram connects to the bot API with token.
func NewTelegram(token string, chatID int64, links Links) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return NewTelegramWithSender(bot, chatID, links), nil
}

// NewTelegramWithSender wraps an existing sender.
func NewTelegramWithSender(bot Sender, chatID int64, links Links) *Telegram {
	return &Telegram{bot: bot, chatID: chatID, links: links}
}

// Send delivers the top entries of r. Nothing is retried.
func (t *Telegram) Send(r model.Report) error {
	msg := tgbotapi.NewMessage(t.chatID, t.Format(r))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// Format renders the MarkdownV2 message body.
func (t *Telegram) Format(r model.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Top pools by %s APY*\n", escapeMarkdownV2(r.RankBy))
	fmt.Fprintf(&b, "%s\n\n", escapeMarkdownV2(r.GeneratedAt.Format("2006-01-02 15:04 MST")))

	if len(r.Entries) == 0 {
		b.WriteString(escapeMarkdownV2(emptyMessage(r)))
		return b.String()
	}

	entries := r.Entries
	if len(entries) > telegramTop {
		entries = entries[:telegramTop]
	}
	for _, e := range entries {
		y, _ := e.Yield(r.RankBy)
		apy := percent(y.APY)
		if y.Estimated {
			apy += " est."
		}
		fmt.Fprintf(&b, "%d\\. [%s](%s)\n", e.Rank, escapeMarkdownV2(e.Pool.Name), t.links.PoolURL(e.Pool.Address))
		fmt.Fprintf(&b, "   APY *%s*, TVL %s\n", escapeMarkdownV2(apy), escapeMarkdownV2(money(e.Pool.Reserve)))
	}
	return b.String()
}

func escapeMarkdownV2(text string) string {
	var b strings.Builder
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
