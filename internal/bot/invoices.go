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
	"github.com/amirtrade/tradeoffice-bot/internal/domain/invoices"
	"github.com/amirtrade/tradeoffice-bot/internal/domain/ledger"
	"github.com/amirtrade/tradeoffice-bot/internal/infra/metrics"
	"github.com/amirtrade/tradeoffice-bot/internal/infra/pdf"
)

// invoiceCurrencies is the subset invoices may be issued in.
var invoiceCurrencies = []ledger.Currency{ledger.USD, ledger.IRT}

func (b *Bot) showInvoicesMenu(ctx context.Context, chatID int64, editMsgID *int) {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🆕 New invoice", "inv:new"),
			tgbotapi.NewInlineKeyboardButtonData("📜 List", "inv:list"),
		),
		navKeyboard(false, true).InlineKeyboard[0],
	)
	text := "Invoices — issue a new one or browse saved ones:"
	if editMsgID != nil {
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, *editMsgID, text, kb))
	} else {
		m := tgbotapi.NewMessage(chatID, text)
		m.ReplyMarkup = kb
		b.send(m)
	}
	_ = b.states.Set(ctx, chatID, dialog.StateInvMenu, dialog.Payload{})
}

// showInvoiceCart renders the product picker with the cart so far.
func (b *Bot) showInvoiceCart(ctx context.Context, chatID int64, mid *int, p dialog.Payload) {
	prods, err := b.products.List(ctx)
	if err != nil {
		b.log.Error("list products", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Could not load products."))
		return
	}
	stock, _, err := b.currentStock(ctx)
	if err != nil {
		b.log.Error("derive stock", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Could not derive stock."))
		return
	}

	cart := parseCartItems(p["items"])
	var sb strings.Builder
	if len(cart) == 0 {
		sb.WriteString("Cart is empty. Pick a product:\n")
	} else {
		sb.WriteString("Cart:\n")
		for _, it := range cart {
			name, _ := dialog.GetString(it, "name")
			qty, _ := dialog.GetInt64(it, "qty")
			price, _ := dialog.GetString(it, "price")
			sb.WriteString(fmt.Sprintf("• %s × %d @ %s\n", name, qty, price))
		}
		sb.WriteString("\nAdd another product or finish:\n")
	}

	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, pr := range prods {
		if stock[pr.ID] == 0 {
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s (%d left)", pr.Label(), stock[pr.ID]), "inv:prod:"+pr.ID),
		))
	}
	if len(cart) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Done", "inv:done"),
		))
	}
	rows = append(rows, navKeyboard(false, true).InlineKeyboard[0])
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)

	if mid != nil {
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, *mid, sb.String(), kb))
		_ = b.states.Set(ctx, chatID, dialog.StateInvPickProd, p)
	} else {
		b.sendStep(ctx, chatID, sb.String(), kb, dialog.StateInvPickProd, p)
	}
}

func (b *Bot) invCallback(ctx context.Context, chatID int64, mid int, data string) {
	st, _ := b.states.Get(ctx, chatID)

	switch {
	case data == "inv:new":
		b.showTxPersonPick(ctx, chatID, mid, "inv:person:", "Invoice customer:",
			dialog.Payload{}, dialog.StateInvPickPerson)

	case strings.HasPrefix(data, "inv:person:"):
		id, _ := strconv.ParseInt(strings.TrimPrefix(data, "inv:person:"), 10, 64)
		st.Payload["person_id"] = float64(id)
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, "Invoice currency:",
			currencyKeyboard("inv:cur:", invoiceCurrencies)))
		_ = b.states.Set(ctx, chatID, dialog.StateInvCurrency, st.Payload)

	case strings.HasPrefix(data, "inv:cur:"):
		st.Payload["currency"] = strings.TrimPrefix(data, "inv:cur:")
		b.showInvoiceCart(ctx, chatID, &mid, st.Payload)

	case strings.HasPrefix(data, "inv:prod:"):
		id := strings.TrimPrefix(data, "inv:prod:")
		p, err := b.products.GetByID(ctx, id)
		if err != nil || p == nil {
			b.editTextAndClear(chatID, mid, "Product not found.")
			return
		}
		st.Payload["pick_id"] = p.ID
		st.Payload["pick_name"] = p.Label()
		st.Payload["pick_price"] = p.USDSellingPrice.String()
		b.editTextWithNav(chatID, mid, fmt.Sprintf("Quantity of %s:", p.Label()))
		_ = b.states.Set(ctx, chatID, dialog.StateInvQty, st.Payload)

	case data == "inv:done":
		b.editTextWithNav(chatID, mid, "Discount (or \"-\" for none):")
		_ = b.states.Set(ctx, chatID, dialog.StateInvDiscount, st.Payload)

	case data == "inv:save":
		b.finishInvoiceSave(ctx, chatID, mid, st.Payload)

	case data == "inv:list":
		b.showInvoiceList(ctx, chatID, mid)

	case strings.HasPrefix(data, "inv:item:"):
		b.showInvoiceItem(ctx, chatID, mid, strings.TrimPrefix(data, "inv:item:"))

	case strings.HasPrefix(data, "inv:pdf:"):
		b.sendInvoicePDF(ctx, chatID, mid, strings.TrimPrefix(data, "inv:pdf:"))

	case strings.HasPrefix(data, "inv:del:"):
		id := strings.TrimPrefix(data, "inv:del:")
		// The companion payment transaction stays on the ledger.
		if err := b.invoices.Delete(ctx, id); err != nil {
			b.log.Error("delete invoice", "err", err)
			b.editTextAndClear(chatID, mid, "Could not delete the invoice.")
			return
		}
		b.showInvoiceList(ctx, chatID, mid)
	}
}

func (b *Bot) handleInvQty(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	qty, ok := parseQty(strings.TrimSpace(text))
	if !ok {
		b.send(tgbotapi.NewMessage(chatID, "Enter a positive whole number:"))
		return
	}
	pickID, _ := dialog.GetString(st.Payload, "pick_id")

	stock, _, err := b.currentStock(ctx)
	if err != nil {
		b.log.Error("derive stock", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Could not derive stock."))
		return
	}
	available := stock[pickID]
	for _, it := range parseCartItems(st.Payload["items"]) {
		if id, _ := dialog.GetString(it, "id"); id == pickID {
			if q, ok := dialog.GetInt64(it, "qty"); ok {
				available -= q
			}
		}
	}
	if qty > available {
		b.send(tgbotapi.NewMessage(chatID,
			fmt.Sprintf("Only %d on hand, enter a smaller quantity:", available)))
		return
	}

	st.Payload["pick_qty"] = float64(qty)
	defPrice, _ := dialog.GetString(st.Payload, "pick_price")
	b.sendStep(ctx, chatID,
		fmt.Sprintf("Unit price (\"-\" for catalog price %s):", defPrice),
		navKeyboard(true, true), dialog.StateInvPrice, st.Payload)
}

func (b *Bot) handleInvPrice(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	text = strings.TrimSpace(text)
	var price decimal.Decimal
	if text == "-" {
		defPrice, _ := dialog.GetString(st.Payload, "pick_price")
		price, _ = decimal.NewFromString(defPrice)
	} else {
		var ok bool
		price, ok = parseAmount(text)
		if !ok {
			b.send(tgbotapi.NewMessage(chatID, "Enter a non-negative price, or \"-\" for the catalog price:"))
			return
		}
	}

	id, _ := dialog.GetString(st.Payload, "pick_id")
	name, _ := dialog.GetString(st.Payload, "pick_name")
	qty, _ := dialog.GetInt64(st.Payload, "pick_qty")

	cart := parseCartItems(st.Payload["items"])
	cart = append(cart, map[string]any{
		"id": id, "name": name, "qty": float64(qty), "price": price.String(),
	})
	st.Payload["items"] = cart
	delete(st.Payload, "pick_id")
	delete(st.Payload, "pick_name")
	delete(st.Payload, "pick_price")
	delete(st.Payload, "pick_qty")

	b.showInvoiceCart(ctx, chatID, nil, st.Payload)
}

func (b *Bot) handleInvDiscount(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	text = strings.TrimSpace(text)
	discount := decimal.Zero
	if text != "-" {
		var ok bool
		discount, ok = parseAmount(text)
		if !ok {
			b.send(tgbotapi.NewMessage(chatID, "Enter a non-negative discount, or \"-\" for none:"))
			return
		}
	}
	st.Payload["discount"] = discount.String()

	items := cartToItems(parseCartItems(st.Payload["items"]))
	cur, _ := dialog.GetString(st.Payload, "currency")
	personID, _ := dialog.GetInt64(st.Payload, "person_id")

	var sb strings.Builder
	sb.WriteString("Invoice for " + b.personName(ctx, personID) + " (" + cur + "):\n\n")
	for _, it := range items {
		sb.WriteString(fmt.Sprintf("• %s × %d @ %s = %s\n",
			it.ProductName, it.Quantity, money(it.UnitPrice), money(it.LineTotal())))
	}
	sb.WriteString("\nSubtotal: " + money(invoices.Subtotal(items)) + "\n")
	if !discount.IsZero() {
		sb.WriteString("Discount: -" + money(discount) + "\n")
	}
	sb.WriteString("Total: " + money(invoices.Total(items, discount)) + " " + cur + "\n\nSave?")

	b.sendStep(ctx, chatID, sb.String(), confirmKeyboard("inv:save"),
		dialog.StateInvConfirm, st.Payload)
}

func cartToItems(cart []map[string]any) []invoices.Item {
	items := make([]invoices.Item, 0, len(cart))
	for _, m := range cart {
		id, _ := dialog.GetString(m, "id")
		name, _ := dialog.GetString(m, "name")
		qty, _ := dialog.GetInt64(m, "qty")
		priceStr, _ := dialog.GetString(m, "price")
		price, _ := decimal.NewFromString(priceStr)
		items = append(items, invoices.Item{
			ProductID: id, ProductName: name, Quantity: qty, UnitPrice: price,
		})
	}
	return items
}

func (b *Bot) finishInvoiceSave(ctx context.Context, chatID int64, mid int, p dialog.Payload) {
	items := cartToItems(parseCartItems(p["items"]))
	curStr, _ := dialog.GetString(p, "currency")
	personID, _ := dialog.GetInt64(p, "person_id")
	discountStr, _ := dialog.GetString(p, "discount")
	discount, _ := decimal.NewFromString(discountStr)

	cur := ledger.Currency(curStr)
	if len(items) == 0 || !cur.Valid() {
		_ = b.states.Reset(ctx, chatID)
		b.editTextAndClear(chatID, mid, "Something went wrong, start over.")
		return
	}

	n, err := b.invoices.Count(ctx)
	if err != nil {
		b.log.Error("count invoices", "err", err)
		b.editTextAndClear(chatID, mid, "Could not number the invoice.")
		return
	}

	inv := &invoices.Invoice{
		InvoiceNumber: invoices.NumberFor(n + 1),
		PersonID:      personID,
		PersonName:    b.personName(ctx, personID),
		Date:          time.Now(),
		Currency:      cur,
		Items:         items,
		Discount:      discount,
		TotalAmount:   invoices.Total(items, discount),
	}
	if err := b.invoices.Save(ctx, inv); err != nil {
		b.log.Error("save invoice", "err", err)
		b.editTextAndClear(chatID, mid, "Could not save the invoice.")
		return
	}

	metrics.InvoicesSaved.Inc()
	_ = b.states.Reset(ctx, chatID)
	b.editTextAndClear(chatID, mid, fmt.Sprintf(
		"Saved %s, total %s %s. Stock and the customer balance are updated.",
		inv.InvoiceNumber, money(inv.TotalAmount), inv.Currency))
}

func (b *Bot) showInvoiceList(ctx context.Context, chatID int64, mid int) {
	invs, err := b.invoices.List(ctx)
	if err != nil {
		b.log.Error("list invoices", "err", err)
		b.editTextAndClear(chatID, mid, "Could not load invoices.")
		return
	}
	if len(invs) == 0 {
		b.editTextWithNav(chatID, mid, "No invoices yet.")
		return
	}

	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, inv := range invs {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s — %s — %s %s", inv.InvoiceNumber, inv.PersonName,
					money(inv.TotalAmount), inv.Currency),
				"inv:item:"+inv.ID),
		))
	}
	rows = append(rows, navKeyboard(true, true).InlineKeyboard[0])
	b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, "Saved invoices:",
		tgbotapi.NewInlineKeyboardMarkup(rows...)))
	_ = b.states.Set(ctx, chatID, dialog.StateInvList, dialog.Payload{})
}

func (b *Bot) showInvoiceItem(ctx context.Context, chatID int64, mid int, id string) {
	inv, err := b.invoices.GetByID(ctx, id)
	if err != nil || inv == nil {
		b.editTextAndClear(chatID, mid, "Invoice not found.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s — %s\n%s\n\n", inv.InvoiceNumber, inv.PersonName,
		inv.Date.Format("2006-01-02")))
	for _, it := range inv.Items {
		sb.WriteString(fmt.Sprintf("• %s × %d @ %s = %s\n",
			it.ProductName, it.Quantity, money(it.UnitPrice), money(it.LineTotal())))
	}
	if !inv.Discount.IsZero() {
		sb.WriteString("Discount: -" + money(inv.Discount) + "\n")
	}
	sb.WriteString("Total: " + money(inv.TotalAmount) + " " + string(inv.Currency) + "\n")

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📄 PDF", "inv:pdf:"+id),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", "inv:del:"+id),
		),
		navKeyboard(true, true).InlineKeyboard[0],
	)
	b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, sb.String(), kb))
}

func (b *Bot) sendInvoicePDF(ctx context.Context, chatID int64, mid int, id string) {
	inv, err := b.invoices.GetByID(ctx, id)
	if err != nil || inv == nil {
		b.editTextAndClear(chatID, mid, "Invoice not found.")
		return
	}

	html, err := pdf.InvoiceHTML(*inv)
	if err != nil {
		b.log.Error("render invoice html", "err", err)
		b.editTextAndClear(chatID, mid, "Could not render the invoice.")
		return
	}
	raw, err := b.pdf.RenderHTML(ctx, html)
	if err != nil {
		b.log.Error("render invoice pdf", "err", err)
		b.editTextAndClear(chatID, mid, "Could not render the PDF.")
		return
	}

	metrics.PDFsRendered.Inc()
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  inv.InvoiceNumber + ".pdf",
		Bytes: raw,
	})
	doc.Caption = inv.InvoiceNumber + " for " + inv.PersonName
	b.send(doc)
}
