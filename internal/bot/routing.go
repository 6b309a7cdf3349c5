package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/amirtrade/tradeoffice-bot/internal/dialog"
)

func (b *Bot) onMessage(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			_ = b.states.Reset(ctx, chatID)
			if user, _ := b.auth.CurrentUser(ctx, chatID); user != nil {
				b.showMainMenu(chatID, "Welcome back, "+user.Username+"!")
			} else {
				b.promptLogin(ctx, chatID)
			}
		case "cancel":
			_ = b.states.Reset(ctx, chatID)
			b.send(tgbotapi.NewMessage(chatID, "Cancelled."))
		}
		return
	}

	st, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.log.Error("dialog state", "err", err)
		return
	}

	user, err := b.auth.CurrentUser(ctx, chatID)
	if err != nil {
		b.log.Error("session lookup", "err", err)
		return
	}
	if user == nil {
		switch st.State {
		case dialog.StateLoginUsername:
			b.handleLoginUsername(ctx, chatID, msg.Text)
		case dialog.StateLoginPassword:
			b.handleLoginPassword(ctx, chatID, msg.Text)
		default:
			b.promptLogin(ctx, chatID)
		}
		return
	}

	// Uploaded spreadsheets during import steps.
	if msg.Document != nil {
		switch st.State {
		case dialog.StateProdImportFile:
			b.handleProductsImportUpload(ctx, chatID, msg.Document.FileID)
		case dialog.StateStockImportFile:
			b.handleInventoryImportUpload(ctx, chatID, msg.Document.FileID)
		default:
			b.send(tgbotapi.NewMessage(chatID, "Not expecting a file right now."))
		}
		return
	}

	// Photos during the delivery flow.
	if len(msg.Photo) > 0 && st.State == dialog.StateDelPhotos {
		b.handleDeliveryPhoto(ctx, chatID, st, msg.Photo[len(msg.Photo)-1].FileID)
		return
	}

	// Text input steps.
	switch st.State {
	case dialog.StatePersonName:
		b.handlePersonName(ctx, chatID, msg.Text)
		return
	case dialog.StatePersonRename:
		b.handlePersonRename(ctx, chatID, st, msg.Text)
		return
	case dialog.StateTxAmount:
		b.handleTxAmount(ctx, chatID, st, msg.Text)
		return
	case dialog.StateTxRate:
		b.handleTxRate(ctx, chatID, st, msg.Text)
		return
	case dialog.StateTxDesc:
		b.handleTxDesc(ctx, chatID, st, msg.Text)
		return
	case dialog.StateExpCatName:
		b.handleExpCatName(ctx, chatID, msg.Text)
		return
	case dialog.StateExpCatRen:
		b.handleExpCatRename(ctx, chatID, st, msg.Text)
		return
	case dialog.StateExpAmount:
		b.handleExpAmount(ctx, chatID, st, msg.Text)
		return
	case dialog.StateExpDesc:
		b.handleExpDesc(ctx, chatID, st, msg.Text)
		return
	case dialog.StateProdCode:
		b.handleProdCode(ctx, chatID, msg.Text)
		return
	case dialog.StateProdSpec:
		b.handleProdSpec(ctx, chatID, st, msg.Text)
		return
	case dialog.StateProdCNYPrice:
		b.handleProdCNYPrice(ctx, chatID, st, msg.Text)
		return
	case dialog.StateProdUSDPrice:
		b.handleProdUSDPrice(ctx, chatID, st, msg.Text)
		return
	case dialog.StateStockSetQty:
		b.handleStockSetQty(ctx, chatID, st, msg.Text)
		return
	case dialog.StateInvQty:
		b.handleInvQty(ctx, chatID, st, msg.Text)
		return
	case dialog.StateInvPrice:
		b.handleInvPrice(ctx, chatID, st, msg.Text)
		return
	case dialog.StateInvDiscount:
		b.handleInvDiscount(ctx, chatID, st, msg.Text)
		return
	case dialog.StateDelCatName:
		b.handleDelCatName(ctx, chatID, msg.Text)
		return
	case dialog.StateDelDate:
		b.handleDelDate(ctx, chatID, st, msg.Text)
		return
	case dialog.StateDelCartons:
		b.handleDelCartons(ctx, chatID, st, msg.Text)
		return
	case dialog.StateDelWeight:
		b.handleDelWeight(ctx, chatID, st, msg.Text)
		return
	case dialog.StateDelReceipt:
		b.handleDelReceipt(ctx, chatID, st, msg.Text)
		return
	case dialog.StateDelDesc:
		b.handleDelDesc(ctx, chatID, st, msg.Text)
		return
	}

	// Main menu labels from the reply keyboard.
	switch msg.Text {
	case menuDashboard:
		b.showDashboard(ctx, chatID)
	case menuPersons:
		b.showPersonsMenu(ctx, chatID, nil)
	case menuTransactions:
		b.showTxMenu(ctx, chatID, nil)
	case menuExpenses:
		b.showExpensesMenu(ctx, chatID, nil)
	case menuProducts:
		b.showProductsMenu(ctx, chatID, nil)
	case menuInventory:
		b.showStockMenu(ctx, chatID, nil)
	case menuInvoices:
		b.showInvoicesMenu(ctx, chatID, nil)
	case menuDeliveries:
		b.showDeliveriesMenu(ctx, chatID, nil)
	case menuLogout:
		b.handleLogout(ctx, chatID)
	default:
		b.showMainMenu(chatID, "Pick a section from the menu below.")
	}
}

func (b *Bot) onCallback(ctx context.Context, upd tgbotapi.Update) {
	cb := upd.CallbackQuery
	data := cb.Data
	chatID := cb.Message.Chat.ID
	mid := cb.Message.MessageID
	_ = b.answerCallback(cb, "", false)

	if data == "nav:cancel" {
		_ = b.states.Reset(ctx, chatID)
		b.editTextAndClear(chatID, mid, "Cancelled.")
		return
	}

	user, err := b.auth.CurrentUser(ctx, chatID)
	if err != nil {
		b.log.Error("session lookup", "err", err)
		return
	}
	if user == nil {
		b.promptLogin(ctx, chatID)
		return
	}

	if data == "nav:back" {
		b.handleBack(ctx, chatID, mid)
		return
	}

	switch {
	case strings.HasPrefix(data, "pe:"):
		b.personCallback(ctx, chatID, mid, data)
	case strings.HasPrefix(data, "tx:"):
		b.txCallback(ctx, chatID, mid, data)
	case strings.HasPrefix(data, "exp:"):
		b.expCallback(ctx, chatID, mid, data)
	case strings.HasPrefix(data, "pr:"):
		b.prodCallback(ctx, chatID, mid, data)
	case strings.HasPrefix(data, "st:"):
		b.stockCallback(ctx, chatID, mid, data)
	case strings.HasPrefix(data, "inv:"):
		b.invCallback(ctx, chatID, mid, data)
	case strings.HasPrefix(data, "dl:"):
		b.delCallback(ctx, chatID, mid, data)
	}
}

// handleBack returns to the section menu of the current flow.
func (b *Bot) handleBack(ctx context.Context, chatID int64, mid int) {
	st, _ := b.states.Get(ctx, chatID)
	section := strings.SplitN(string(st.State), "_", 2)[0]
	_ = b.states.Reset(ctx, chatID)

	msgID := &mid
	switch section {
	case "person":
		b.showPersonsMenu(ctx, chatID, msgID)
	case "tx":
		b.showTxMenu(ctx, chatID, msgID)
	case "exp":
		b.showExpensesMenu(ctx, chatID, msgID)
	case "prod":
		b.showProductsMenu(ctx, chatID, msgID)
	case "stock":
		b.showStockMenu(ctx, chatID, msgID)
	case "inv":
		b.showInvoicesMenu(ctx, chatID, msgID)
	case "del":
		b.showDeliveriesMenu(ctx, chatID, msgID)
	default:
		b.editTextAndClear(chatID, mid, "Back to the main menu.")
	}
}

func (b *Bot) showMainMenu(chatID int64, text string) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = mainReplyKeyboard()
	b.send(m)
}
