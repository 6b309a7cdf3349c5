package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/amirtrade/tradeoffice-bot/internal/dialog"
	"github.com/amirtrade/tradeoffice-bot/internal/domain/ledger"
	"github.com/amirtrade/tradeoffice-bot/internal/infra/metrics"
)

func (b *Bot) showExpensesMenu(ctx context.Context, chatID int64, editMsgID *int) {
	sums, err := b.categories.Summaries(ctx)
	if err != nil {
		b.log.Error("expense summaries", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Could not load expense categories."))
		return
	}

	var sb strings.Builder
	sb.WriteString("Partner expenses by category:\n\n")
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, s := range sums {
		sb.WriteString(fmt.Sprintf("• %s — %s CNY (%d expenses)\n",
			s.Category.Name, money(s.TotalSpent), s.Expenses))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(s.Category.Name, "exp:cat:"+s.Category.ID),
		))
	}
	if len(sums) == 0 {
		sb.WriteString("No categories yet.\n")
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("➕ New category", "exp:newcat"),
	))
	rows = append(rows, navKeyboard(false, true).InlineKeyboard[0])
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)

	if editMsgID != nil {
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, *editMsgID, sb.String(), kb))
	} else {
		m := tgbotapi.NewMessage(chatID, sb.String())
		m.ReplyMarkup = kb
		b.send(m)
	}
	_ = b.states.Set(ctx, chatID, dialog.StateExpMenu, dialog.Payload{})
}

func (b *Bot) showExpenseCategory(ctx context.Context, chatID int64, mid int, catID string) {
	cat, err := b.categories.GetByID(ctx, catID)
	if err != nil || cat == nil {
		b.editTextAndClear(chatID, mid, "Category not found.")
		return
	}
	txs, err := b.ledger.ListByCategory(ctx, catID)
	if err != nil {
		b.log.Error("list category expenses", "err", err)
		b.editTextAndClear(chatID, mid, "Could not load expenses.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Category: " + cat.Name + "\n\n")
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for i, tx := range txs {
		sb.WriteString(fmt.Sprintf("%d. %s  %s %s", i+1,
			tx.Date.Format("2006-01-02"), money(tx.Amount), tx.Currency))
		if tx.Description != "" {
			sb.WriteString("  " + tx.Description)
		}
		sb.WriteString("\n")
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🗑 %d", i+1), "exp:rm:"+tx.ID),
		))
	}
	if len(txs) == 0 {
		sb.WriteString("No expenses recorded.\n")
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Add expense", "exp:add:"+catID),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Rename", "exp:ren:"+catID),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete category", "exp:del:"+catID),
		),
		navKeyboard(true, true).InlineKeyboard[0],
	)

	b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)))
	_ = b.states.Set(ctx, chatID, dialog.StateExpCatView, dialog.Payload{"cat_id": catID})
}

func (b *Bot) expCallback(ctx context.Context, chatID int64, mid int, data string) {
	st, _ := b.states.Get(ctx, chatID)

	switch {
	case data == "exp:newcat":
		b.editTextWithNav(chatID, mid, "Name for the new category:")
		_ = b.states.Set(ctx, chatID, dialog.StateExpCatName, dialog.Payload{})

	case strings.HasPrefix(data, "exp:cat:"):
		b.showExpenseCategory(ctx, chatID, mid, strings.TrimPrefix(data, "exp:cat:"))

	case strings.HasPrefix(data, "exp:add:"):
		catID := strings.TrimPrefix(data, "exp:add:")
		b.editTextWithNav(chatID, mid, "Expense amount (CNY):")
		_ = b.states.Set(ctx, chatID, dialog.StateExpAmount, dialog.Payload{"cat_id": catID})

	case strings.HasPrefix(data, "exp:ren:"):
		catID := strings.TrimPrefix(data, "exp:ren:")
		b.editTextWithNav(chatID, mid, "New category name:")
		_ = b.states.Set(ctx, chatID, dialog.StateExpCatRen, dialog.Payload{"cat_id": catID})

	case strings.HasPrefix(data, "exp:del:"):
		catID := strings.TrimPrefix(data, "exp:del:")
		// Past expenses keep their row; category_id goes null.
		if err := b.categories.Delete(ctx, catID); err != nil {
			b.log.Error("delete category", "err", err)
			b.editTextAndClear(chatID, mid, "Could not delete the category.")
			return
		}
		b.showExpensesMenu(ctx, chatID, &mid)

	case strings.HasPrefix(data, "exp:rm:"):
		txID := strings.TrimPrefix(data, "exp:rm:")
		if err := b.ledger.Delete(ctx, txID); err != nil {
			b.log.Error("delete expense", "err", err)
			b.editTextAndClear(chatID, mid, "Could not delete the expense.")
			return
		}
		if catID, ok := dialog.GetString(st.Payload, "cat_id"); ok {
			b.showExpenseCategory(ctx, chatID, mid, catID)
			return
		}
		b.showExpensesMenu(ctx, chatID, &mid)
	}
}

func (b *Bot) handleExpCatName(ctx context.Context, chatID int64, text string) {
	name := strings.TrimSpace(text)
	if name == "" {
		b.send(tgbotapi.NewMessage(chatID, "Name cannot be empty, try again:"))
		return
	}
	if _, err := b.categories.Create(ctx, name); err != nil {
		b.log.Error("create category", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Could not save the category."))
		return
	}
	_ = b.states.Reset(ctx, chatID)
	b.showExpensesMenu(ctx, chatID, nil)
}

func (b *Bot) handleExpCatRename(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	name := strings.TrimSpace(text)
	if name == "" {
		b.send(tgbotapi.NewMessage(chatID, "Name cannot be empty, try again:"))
		return
	}
	catID, ok := dialog.GetString(st.Payload, "cat_id")
	if !ok {
		_ = b.states.Reset(ctx, chatID)
		return
	}
	if err := b.categories.Rename(ctx, catID, name); err != nil {
		b.log.Error("rename category", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Could not rename the category."))
		return
	}
	_ = b.states.Reset(ctx, chatID)
	b.showExpensesMenu(ctx, chatID, nil)
}

func (b *Bot) handleExpAmount(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	amount, ok := parseAmount(strings.TrimSpace(text))
	if !ok {
		b.send(tgbotapi.NewMessage(chatID, "Enter a non-negative amount:"))
		return
	}
	st.Payload["amount"] = amount.String()
	b.sendStep(ctx, chatID, "Description (or \"-\" for none):", navKeyboard(true, true),
		dialog.StateExpDesc, st.Payload)
}

func (b *Bot) handleExpDesc(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	desc := strings.TrimSpace(text)
	if desc == "-" {
		desc = ""
	}
	catID, _ := dialog.GetString(st.Payload, "cat_id")
	amountStr, _ := dialog.GetString(st.Payload, "amount")
	amount, ok := parseAmount(amountStr)
	if catID == "" || !ok {
		_ = b.states.Reset(ctx, chatID)
		b.send(tgbotapi.NewMessage(chatID, "Something went wrong, start over."))
		return
	}

	// A partner expense is a regular CNY payment against the partner account.
	partnerID := b.partnerPersonID
	tx := &ledger.Transaction{
		Date:        time.Now(),
		Type:        ledger.TxPaymentOut,
		Amount:      amount,
		Currency:    ledger.CNY,
		Description: desc,
		EntityID:    &partnerID,
		CategoryID:  &catID,
	}
	if err := b.ledger.Create(ctx, tx); err != nil {
		b.log.Error("create expense", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Could not save the expense."))
		return
	}

	metrics.TransactionsRecorded.WithLabelValues(string(ledger.TxPaymentOut)).Inc()
	_ = b.states.Reset(ctx, chatID)
	b.send(tgbotapi.NewMessage(chatID, "Expense saved."))
	b.showExpensesMenu(ctx, chatID, nil)
}
