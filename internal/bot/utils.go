package bot

import (
	"context"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/amirtrade/tradeoffice-bot/internal/dialog"
	"github.com/amirtrade/tradeoffice-bot/internal/domain/ledger"
)

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string, alert bool) error {
	resp := tgbotapi.NewCallback(cb.ID, text)
	resp.ShowAlert = alert
	_, err := b.api.Request(resp)
	return err
}

// clearPrevStep removes the inline keyboard of the previous bot message so
// stale buttons cannot be pressed.
func (b *Bot) clearPrevStep(ctx context.Context, chatID int64) {
	st, _ := b.states.Get(ctx, chatID)
	if st == nil || st.Payload == nil {
		return
	}
	if mid, ok := dialog.GetInt64(st.Payload, "last_mid"); ok {
		rm := tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
		b.send(tgbotapi.NewEditMessageReplyMarkup(chatID, int(mid), rm))
	}
}

// saveLastStep records the id of the message just sent as the current step.
func (b *Bot) saveLastStep(ctx context.Context, chatID int64, nextState dialog.State, payload dialog.Payload, newMID int) {
	if payload == nil {
		payload = dialog.Payload{}
	}
	payload["last_mid"] = float64(newMID)
	_ = b.states.Set(ctx, chatID, nextState, payload)
}

func (b *Bot) editTextAndClear(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		chatID, messageID, text,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}},
	)
	b.send(edit)
}

func (b *Bot) editTextWithNav(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, navKeyboard(true, true))
	b.send(edit)
}

// sendStep sends a flow message with a keyboard and advances the dialog,
// remembering the message id for clearPrevStep.
func (b *Bot) sendStep(ctx context.Context, chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup,
	next dialog.State, payload dialog.Payload) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = kb
	sent, err := b.api.Send(m)
	if err != nil {
		b.log.Error("send failed", "err", err)
		return
	}
	b.saveLastStep(ctx, chatID, next, payload, sent.MessageID)
}

// parseCartItems restores []map[string]any from a JSON round-tripped payload.
func parseCartItems(v any) []map[string]any {
	items := []map[string]any{}
	arr, ok := v.([]any)
	if !ok {
		if mm, ok2 := v.([]map[string]any); ok2 {
			return mm
		}
		return items
	}
	for _, e := range arr {
		if m, ok := e.(map[string]any); ok {
			items = append(items, m)
		}
	}
	return items
}

func parseAmount(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

func parseQty(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func balanceLine(bal ledger.Balance) string {
	return money(bal[ledger.USD]) + " USD | " + money(bal[ledger.CNY]) + " CNY | " + money(bal[ledger.IRT]) + " IRT"
}
