package bot

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/amirtrade/tradeoffice-bot/internal/auth"
	"github.com/amirtrade/tradeoffice-bot/internal/dialog"
)

func (b *Bot) promptLogin(ctx context.Context, chatID int64) {
	_ = b.states.Set(ctx, chatID, dialog.StateLoginUsername, dialog.Payload{})
	m := tgbotapi.NewMessage(chatID, "Please log in. Enter your username:")
	m.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	b.send(m)
}

func (b *Bot) handleLoginUsername(ctx context.Context, chatID int64, text string) {
	_ = b.states.Set(ctx, chatID, dialog.StateLoginPassword, dialog.Payload{"username": text})
	b.send(tgbotapi.NewMessage(chatID, "Enter your password:"))
}

func (b *Bot) handleLoginPassword(ctx context.Context, chatID int64, text string) {
	st, _ := b.states.Get(ctx, chatID)
	username, _ := dialog.GetString(st.Payload, "username")

	user, err := b.auth.Login(ctx, chatID, username, text)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			b.promptLogin(ctx, chatID)
			b.send(tgbotapi.NewMessage(chatID, "Invalid username or password, try again."))
			return
		}
		b.log.Error("login", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Login failed, try again later."))
		return
	}

	_ = b.states.Reset(ctx, chatID)
	b.showMainMenu(chatID, "Welcome, "+user.Username+"!")
}

func (b *Bot) handleLogout(ctx context.Context, chatID int64) {
	if err := b.auth.Logout(ctx, chatID); err != nil {
		b.log.Error("logout", "err", err)
	}
	_ = b.states.Reset(ctx, chatID)
	m := tgbotapi.NewMessage(chatID, "Logged out.")
	m.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	b.send(m)
}
