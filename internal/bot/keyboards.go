package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/amirtrade/tradeoffice-bot/internal/domain/ledger"
)

// Main menu button labels; onMessage matches on these.
const (
	menuDashboard    = "📊 Dashboard"
	menuPersons      = "👥 Persons"
	menuTransactions = "💸 Transactions"
	menuExpenses     = "🧾 Partner expenses"
	menuProducts     = "📦 Products"
	menuInventory    = "🏷 Inventory"
	menuInvoices     = "🧮 Invoices"
	menuDeliveries   = "🚚 Deliveries"
	menuLogout       = "🚪 Logout"
)

func mainReplyKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.ReplyKeyboardMarkup{
		ResizeKeyboard: true,
		Keyboard: [][]tgbotapi.KeyboardButton{
			{tgbotapi.NewKeyboardButton(menuDashboard)},
			{tgbotapi.NewKeyboardButton(menuPersons), tgbotapi.NewKeyboardButton(menuTransactions)},
			{tgbotapi.NewKeyboardButton(menuExpenses), tgbotapi.NewKeyboardButton(menuDeliveries)},
			{tgbotapi.NewKeyboardButton(menuProducts), tgbotapi.NewKeyboardButton(menuInventory)},
			{tgbotapi.NewKeyboardButton(menuInvoices), tgbotapi.NewKeyboardButton(menuLogout)},
		},
	}
}

func navKeyboard(back bool, cancel bool) tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{}
	if back {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", "nav:back"))
	}
	if cancel {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("✖️ Cancel", "nav:cancel"))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func currencyKeyboard(prefix string, currencies []ledger.Currency) tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{}
	for _, c := range currencies {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(string(c), prefix+string(c)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row, navKeyboard(false, true).InlineKeyboard[0])
}

func txTypeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬇️ Payment in", "tx:type:PaymentIn"),
			tgbotapi.NewInlineKeyboardButtonData("⬆️ Payment out", "tx:type:PaymentOut"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 Conversion", "tx:type:Conversion"),
			tgbotapi.NewInlineKeyboardButtonData("↔️ Internal transfer", "tx:type:InternalTransfer"),
		),
		navKeyboard(false, true).InlineKeyboard[0],
	)
}

func confirmKeyboard(saveData string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Save", saveData),
		),
		navKeyboard(false, true).InlineKeyboard[0],
	)
}
