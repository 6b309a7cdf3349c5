package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/amirtrade/tradeoffice-bot/internal/dialog"
	"github.com/amirtrade/tradeoffice-bot/internal/domain/ledger"
	"github.com/amirtrade/tradeoffice-bot/internal/infra/metrics"
)

const txPageSize = 5

func (b *Bot) showTxMenu(ctx context.Context, chatID int64, editMsgID *int) {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Record", "tx:add"),
			tgbotapi.NewInlineKeyboardButtonData("📜 History", "tx:list:0"),
		),
		navKeyboard(false, true).InlineKeyboard[0],
	)
	text := "Transactions — record a new one or browse the history:"
	if editMsgID != nil {
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, *editMsgID, text, kb))
	} else {
		m := tgbotapi.NewMessage(chatID, text)
		m.ReplyMarkup = kb
		b.send(m)
	}
	_ = b.states.Set(ctx, chatID, dialog.StateTxMenu, dialog.Payload{})
}

func (b *Bot) showTxPersonPick(ctx context.Context, chatID int64, mid int, prefix, title string, st dialog.Payload, next dialog.State) {
	people, err := b.persons.List(ctx)
	if err != nil {
		b.editTextAndClear(chatID, mid, "Could not load persons.")
		return
	}
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, p := range people {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(p.Name, fmt.Sprintf("%s%d", prefix, p.ID)),
		))
	}
	rows = append(rows, navKeyboard(true, true).InlineKeyboard[0])
	b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, title, tgbotapi.NewInlineKeyboardMarkup(rows...)))
	_ = b.states.Set(ctx, chatID, next, st)
}

func (b *Bot) txCallback(ctx context.Context, chatID int64, mid int, data string) {
	st, _ := b.states.Get(ctx, chatID)

	switch {
	case data == "tx:add":
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, "Transaction type:", txTypeKeyboard()))
		_ = b.states.Set(ctx, chatID, dialog.StateTxType, dialog.Payload{})

	case strings.HasPrefix(data, "tx:type:"):
		txType := strings.TrimPrefix(data, "tx:type:")
		st.Payload["type"] = txType
		if txType == string(ledger.TxInternalTransfer) {
			b.showTxPersonPick(ctx, chatID, mid, "tx:from:", "Transfer from:", st.Payload, dialog.StateTxPickFrom)
		} else {
			b.showTxPersonPick(ctx, chatID, mid, "tx:person:", "Person account:", st.Payload, dialog.StateTxPickPerson)
		}

	case strings.HasPrefix(data, "tx:person:"):
		id, _ := strconv.ParseInt(strings.TrimPrefix(data, "tx:person:"), 10, 64)
		st.Payload["entity_id"] = float64(id)
		b.editTextWithNav(chatID, mid, "Amount:")
		_ = b.states.Set(ctx, chatID, dialog.StateTxAmount, st.Payload)

	case strings.HasPrefix(data, "tx:from:"):
		id, _ := strconv.ParseInt(strings.TrimPrefix(data, "tx:from:"), 10, 64)
		st.Payload["from_id"] = float64(id)
		b.showTxPersonPick(ctx, chatID, mid, "tx:to:", "Transfer to:", st.Payload, dialog.StateTxPickTo)

	case strings.HasPrefix(data, "tx:to:"):
		id, _ := strconv.ParseInt(strings.TrimPrefix(data, "tx:to:"), 10, 64)
		st.Payload["to_id"] = float64(id)
		b.editTextWithNav(chatID, mid, "Amount:")
		_ = b.states.Set(ctx, chatID, dialog.StateTxAmount, st.Payload)

	case strings.HasPrefix(data, "tx:cur:"):
		cur := strings.TrimPrefix(data, "tx:cur:")
		st.Payload["currency"] = cur
		txType, _ := dialog.GetString(st.Payload, "type")
		if txType == string(ledger.TxConversion) {
			b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, "Convert into:",
				currencyKeyboard("tx:tocur:", otherCurrencies(ledger.Currency(cur)))))
			_ = b.states.Set(ctx, chatID, dialog.StateTxToCurrency, st.Payload)
			return
		}
		b.editTextWithNav(chatID, mid, "Description (or \"-\" for none):")
		_ = b.states.Set(ctx, chatID, dialog.StateTxDesc, st.Payload)

	case strings.HasPrefix(data, "tx:tocur:"):
		st.Payload["to_currency"] = strings.TrimPrefix(data, "tx:tocur:")
		b.editTextWithNav(chatID, mid, "Rate (converted = amount × rate, \"-\" for 1):")
		_ = b.states.Set(ctx, chatID, dialog.StateTxRate, st.Payload)

	case data == "tx:save":
		b.finishTxSave(ctx, chatID, mid, st.Payload)

	case strings.HasPrefix(data, "tx:list:"):
		page, _ := strconv.Atoi(strings.TrimPrefix(data, "tx:list:"))
		b.showTxHistory(ctx, chatID, mid, page)

	case strings.HasPrefix(data, "tx:del:"):
		id := strings.TrimPrefix(data, "tx:del:")
		if err := b.ledger.Delete(ctx, id); err != nil {
			b.log.Error("delete transaction", "err", err)
			b.editTextAndClear(chatID, mid, "Could not delete the transaction.")
			return
		}
		b.showTxHistory(ctx, chatID, mid, 0)

	case strings.HasPrefix(data, "tx:edit:"):
		// Edit relaunches the record flow; saving replaces the record whole.
		id := strings.TrimPrefix(data, "tx:edit:")
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, "Transaction type:", txTypeKeyboard()))
		_ = b.states.Set(ctx, chatID, dialog.StateTxType, dialog.Payload{"edit_id": id})
	}
}

func otherCurrencies(c ledger.Currency) []ledger.Currency {
	out := make([]ledger.Currency, 0, len(ledger.AllCurrencies)-1)
	for _, cc := range ledger.AllCurrencies {
		if cc != c {
			out = append(out, cc)
		}
	}
	return out
}

func (b *Bot) handleTxAmount(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	amount, ok := parseAmount(strings.TrimSpace(text))
	if !ok {
		b.send(tgbotapi.NewMessage(chatID, "Enter a non-negative number:"))
		return
	}
	st.Payload["amount"] = amount.String()
	b.sendStep(ctx, chatID, "Currency:", currencyKeyboard("tx:cur:", ledger.AllCurrencies),
		dialog.StateTxCurrency, st.Payload)
}

func (b *Bot) handleTxRate(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	text = strings.TrimSpace(text)
	if text == "-" {
		st.Payload["rate"] = "1"
	} else {
		rate, ok := parseAmount(text)
		if !ok {
			b.send(tgbotapi.NewMessage(chatID, "Enter a non-negative rate, or \"-\" for 1:"))
			return
		}
		st.Payload["rate"] = rate.String()
	}
	b.sendStep(ctx, chatID, "Description (or \"-\" for none):", navKeyboard(true, true),
		dialog.StateTxDesc, st.Payload)
}

func (b *Bot) handleTxDesc(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	desc := strings.TrimSpace(text)
	if desc == "-" {
		desc = ""
	}
	st.Payload["desc"] = desc

	b.sendStep(ctx, chatID, b.txSummary(ctx, st.Payload), confirmKeyboard("tx:save"),
		dialog.StateTxConfirm, st.Payload)
}

func (b *Bot) txSummary(ctx context.Context, p dialog.Payload) string {
	txType, _ := dialog.GetString(p, "type")
	amount, _ := dialog.GetString(p, "amount")
	cur, _ := dialog.GetString(p, "currency")
	desc, _ := dialog.GetString(p, "desc")

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s %s\n", txType, amount, cur))
	if id, ok := dialog.GetInt64(p, "entity_id"); ok {
		sb.WriteString("Person: " + b.personName(ctx, id) + "\n")
	}
	if id, ok := dialog.GetInt64(p, "from_id"); ok {
		sb.WriteString("From: " + b.personName(ctx, id) + "\n")
	}
	if id, ok := dialog.GetInt64(p, "to_id"); ok {
		sb.WriteString("To: " + b.personName(ctx, id) + "\n")
	}
	if toCur, ok := dialog.GetString(p, "to_currency"); ok {
		rate, _ := dialog.GetString(p, "rate")
		sb.WriteString(fmt.Sprintf("Into: %s at rate %s\n", toCur, rate))
	}
	if desc != "" {
		sb.WriteString("Description: " + desc + "\n")
	}
	sb.WriteString("\nSave?")
	return sb.String()
}

func (b *Bot) personName(ctx context.Context, id int64) string {
	p, _ := b.persons.GetByID(ctx, id)
	if p == nil {
		return fmt.Sprintf("#%d", id)
	}
	return p.Name
}

func (b *Bot) finishTxSave(ctx context.Context, chatID int64, mid int, p dialog.Payload) {
	tx, err := txFromPayload(p)
	if err != nil {
		b.log.Error("assemble transaction", "err", err)
		b.editTextAndClear(chatID, mid, "Something went wrong, start over.")
		_ = b.states.Reset(ctx, chatID)
		return
	}

	if editID, ok := dialog.GetString(p, "edit_id"); ok && editID != "" {
		tx.ID = editID
		err = b.ledger.Replace(ctx, tx)
	} else {
		err = b.ledger.Create(ctx, tx)
	}
	if err != nil {
		b.log.Error("save transaction", "err", err)
		b.editTextAndClear(chatID, mid, "Could not save the transaction.")
		return
	}

	metrics.TransactionsRecorded.WithLabelValues(string(tx.Type)).Inc()
	_ = b.states.Reset(ctx, chatID)
	b.editTextAndClear(chatID, mid, "Transaction saved.")
}

func txFromPayload(p dialog.Payload) (*ledger.Transaction, error) {
	txType, _ := dialog.GetString(p, "type")
	amountStr, _ := dialog.GetString(p, "amount")
	curStr, _ := dialog.GetString(p, "currency")

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("amount %q: %w", amountStr, err)
	}
	cur := ledger.Currency(curStr)
	if !cur.Valid() {
		return nil, fmt.Errorf("currency %q", curStr)
	}

	tx := &ledger.Transaction{
		Date:     time.Now(),
		Type:     ledger.TxType(txType),
		Amount:   amount,
		Currency: cur,
	}
	if desc, ok := dialog.GetString(p, "desc"); ok {
		tx.Description = desc
	}
	if id, ok := dialog.GetInt64(p, "entity_id"); ok {
		tx.EntityID = &id
	}
	if id, ok := dialog.GetInt64(p, "from_id"); ok {
		tx.FromEntityID = &id
	}
	if id, ok := dialog.GetInt64(p, "to_id"); ok {
		tx.ToEntityID = &id
	}
	if toCurStr, ok := dialog.GetString(p, "to_currency"); ok {
		toCur := ledger.Currency(toCurStr)
		if !toCur.Valid() {
			return nil, fmt.Errorf("target currency %q", toCurStr)
		}
		tx.ToCurrency = &toCur
	}
	if rateStr, ok := dialog.GetString(p, "rate"); ok {
		rate, err := decimal.NewFromString(rateStr)
		if err != nil {
			return nil, fmt.Errorf("rate %q: %w", rateStr, err)
		}
		tx.Rate = &rate
	}
	return tx, nil
}

func (b *Bot) showTxHistory(ctx context.Context, chatID int64, mid int, page int) {
	txs, err := b.ledger.List(ctx)
	if err != nil {
		b.editTextAndClear(chatID, mid, "Could not load transactions.")
		return
	}
	if len(txs) == 0 {
		b.editTextWithNav(chatID, mid, "No transactions yet.")
		return
	}

	start := page * txPageSize
	if start >= len(txs) {
		start = 0
		page = 0
	}
	end := start + txPageSize
	if end > len(txs) {
		end = len(txs)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("History %d–%d of %d:\n\n", start+1, end, len(txs)))
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for i, tx := range txs[start:end] {
		sb.WriteString(fmt.Sprintf("%d. %s  %s %s %s\n", start+i+1,
			tx.Date.Format("2006-01-02"), tx.Type, money(tx.Amount), tx.Currency))
		if tx.Description != "" {
			sb.WriteString("   " + tx.Description + "\n")
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✏️ %d", start+i+1), "tx:edit:"+tx.ID),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🗑 %d", start+i+1), "tx:del:"+tx.ID),
		))
	}

	navRow := []tgbotapi.InlineKeyboardButton{}
	if page > 0 {
		navRow = append(navRow, tgbotapi.NewInlineKeyboardButtonData("⏪ Prev", fmt.Sprintf("tx:list:%d", page-1)))
	}
	if end < len(txs) {
		navRow = append(navRow, tgbotapi.NewInlineKeyboardButtonData("⏩ Next", fmt.Sprintf("tx:list:%d", page+1)))
	}
	if len(navRow) > 0 {
		rows = append(rows, navRow)
	}
	rows = append(rows, navKeyboard(true, true).InlineKeyboard[0])

	b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)))
	_ = b.states.Set(ctx, chatID, dialog.StateTxList, dialog.Payload{})
}
