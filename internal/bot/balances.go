package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/amirtrade/tradeoffice-bot/internal/domain/ledger"
)

// showDashboard prints the per-currency payment totals and the balances
// table. Balances are folded from the full transaction list on every call,
// never cached.
func (b *Bot) showDashboard(ctx context.Context, chatID int64) {
	people, err := b.persons.List(ctx)
	if err != nil {
		b.log.Error("list persons", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Could not load persons."))
		return
	}
	txs, err := b.ledger.List(ctx)
	if err != nil {
		b.log.Error("list transactions", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Could not load transactions."))
		return
	}

	totals := ledger.Totals(txs)
	balances := ledger.Balances(people, txs)
	rows := ledger.SortZeroLast(ledger.BalanceRows(people, balances), b.balanceLimit)

	var sb strings.Builder
	sb.WriteString("💰 Account totals\n")
	for _, c := range ledger.AllCurrencies {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", c, money(totals[c])))
	}

	sb.WriteString("\n📒 Balances")
	if len(rows) < len(people) {
		sb.WriteString(fmt.Sprintf(" (top %d of %d)", len(rows), len(people)))
	}
	sb.WriteString("\n")
	if len(rows) == 0 {
		sb.WriteString("  no persons yet\n")
	}
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("  %s — %s\n", row.PersonName, balanceLine(row.Balance)))
	}

	b.send(tgbotapi.NewMessage(chatID, sb.String()))
}
