package bot

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"

	"github.com/amirtrade/tradeoffice-bot/internal/dialog"
	"github.com/amirtrade/tradeoffice-bot/internal/domain/inventory"
	"github.com/amirtrade/tradeoffice-bot/internal/infra/metrics"
)

var stockHeader = []string{"item_code", "specifications", "base_quantity", "current_stock"}

// currentStock loads everything the derived quantities depend on.
func (b *Bot) currentStock(ctx context.Context) (map[string]int64, map[string]int64, error) {
	prods, err := b.products.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	base, err := b.inventory.Base(ctx)
	if err != nil {
		return nil, nil, err
	}
	invs, err := b.invoices.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	return inventory.CurrentStock(prods, base, invs), base, nil
}

func (b *Bot) showStockMenu(ctx context.Context, chatID int64, editMsgID *int) {
	prods, err := b.products.List(ctx)
	if err != nil {
		b.log.Error("list products", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Could not load products."))
		return
	}
	stock, base, err := b.currentStock(ctx)
	if err != nil {
		b.log.Error("derive stock", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Could not derive stock."))
		return
	}

	var sb strings.Builder
	sb.WriteString("Inventory (current = base − invoiced, floored at 0):\n\n")
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, p := range prods {
		sb.WriteString(fmt.Sprintf("• %s: %d on hand (base %d)\n", p.Label(), stock[p.ID], base[p.ID]))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s — %d", p.ItemCode, stock[p.ID]), "st:item:"+p.ID),
		))
	}
	if len(prods) == 0 {
		sb.WriteString("No products in the catalog.\n")
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📤 Export xlsx", "st:export"),
			tgbotapi.NewInlineKeyboardButtonData("📥 Import xlsx", "st:import"),
		),
		navKeyboard(false, true).InlineKeyboard[0],
	)
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)

	if editMsgID != nil {
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, *editMsgID, sb.String(), kb))
	} else {
		m := tgbotapi.NewMessage(chatID, sb.String())
		m.ReplyMarkup = kb
		b.send(m)
	}
	_ = b.states.Set(ctx, chatID, dialog.StateStockMenu, dialog.Payload{})
}

func (b *Bot) showStockItem(ctx context.Context, chatID int64, mid int, id string) {
	p, err := b.products.GetByID(ctx, id)
	if err != nil || p == nil {
		b.editTextAndClear(chatID, mid, "Product not found.")
		return
	}
	stock, base, err := b.currentStock(ctx)
	if err != nil {
		b.log.Error("derive stock", "err", err)
		b.editTextAndClear(chatID, mid, "Could not derive stock.")
		return
	}

	text := fmt.Sprintf("%s\nBase quantity: %d\nInvoiced: %d\nOn hand: %d",
		p.Label(), base[id], base[id]-stock[id], stock[id])
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Set base quantity", "st:set:"+id),
		),
		navKeyboard(true, true).InlineKeyboard[0],
	)
	b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, text, kb))
	_ = b.states.Set(ctx, chatID, dialog.StateStockItem, dialog.Payload{"product_id": id})
}

func (b *Bot) stockCallback(ctx context.Context, chatID int64, mid int, data string) {
	switch {
	case strings.HasPrefix(data, "st:item:"):
		b.showStockItem(ctx, chatID, mid, strings.TrimPrefix(data, "st:item:"))

	case strings.HasPrefix(data, "st:set:"):
		id := strings.TrimPrefix(data, "st:set:")
		b.editTextWithNav(chatID, mid, "New base quantity:")
		_ = b.states.Set(ctx, chatID, dialog.StateStockSetQty, dialog.Payload{"product_id": id})

	case data == "st:export":
		b.exportStock(ctx, chatID, mid)

	case data == "st:import":
		b.editTextWithNav(chatID, mid, "Send the inventory .xlsx file. Rows are matched by item_code and overwrite the base quantity.")
		_ = b.states.Set(ctx, chatID, dialog.StateStockImportFile, dialog.Payload{})
	}
}

func (b *Bot) handleStockSetQty(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	qty, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || qty < 0 {
		b.send(tgbotapi.NewMessage(chatID, "Enter a non-negative whole number:"))
		return
	}
	id, ok := dialog.GetString(st.Payload, "product_id")
	if !ok {
		_ = b.states.Reset(ctx, chatID)
		return
	}
	if err := b.inventory.Set(ctx, id, qty); err != nil {
		b.log.Error("set base quantity", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Could not save the quantity."))
		return
	}
	_ = b.states.Reset(ctx, chatID)
	b.send(tgbotapi.NewMessage(chatID, "Base quantity saved."))
	b.showStockMenu(ctx, chatID, nil)
}

func (b *Bot) exportStock(ctx context.Context, chatID int64, mid int) {
	prods, err := b.products.List(ctx)
	if err != nil {
		b.editTextAndClear(chatID, mid, "Could not load products.")
		return
	}
	stock, base, err := b.currentStock(ctx)
	if err != nil {
		b.editTextAndClear(chatID, mid, "Could not derive stock.")
		return
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)
	for i, h := range stockHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for r, p := range prods {
		vals := []any{p.ItemCode, p.Specifications, base[p.ID], stock[p.ID]}
		for c, v := range vals {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		b.log.Error("write inventory xlsx", "err", err)
		b.editTextAndClear(chatID, mid, "Could not build the export file.")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: "inventory.xlsx", Bytes: buf.Bytes()})
	doc.Caption = fmt.Sprintf("Inventory, %d products.", len(prods))
	b.send(doc)
	b.editTextAndClear(chatID, mid, "Export sent.")
}

func (b *Bot) handleInventoryImportUpload(ctx context.Context, chatID int64, fileID string) {
	data, err := b.downloadTelegramFile(fileID)
	if err != nil {
		b.log.Error("download inventory", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Could not download the file, send it again."))
		return
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "That is not a readable .xlsx file."))
		return
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil || len(rows) < 2 {
		b.send(tgbotapi.NewMessage(chatID, "The sheet has no data rows."))
		return
	}

	quantities := map[string]int64{}
	skipped := 0
	for _, row := range rows[1:] {
		if len(row) < 3 {
			skipped++
			continue
		}
		code := strings.TrimSpace(row[0])
		qty, err := strconv.ParseInt(strings.TrimSpace(row[2]), 10, 64)
		if code == "" || err != nil || qty < 0 {
			skipped++
			continue
		}
		p, err := b.products.GetByItemCode(ctx, code)
		if err != nil || p == nil {
			skipped++
			continue
		}
		quantities[p.ID] = qty
	}

	if len(quantities) > 0 {
		if err := b.inventory.SetBulk(ctx, quantities); err != nil {
			b.log.Error("bulk set inventory", "err", err)
			b.send(tgbotapi.NewMessage(chatID, "Could not save the imported quantities."))
			return
		}
	}

	metrics.SheetImports.WithLabelValues("inventory").Inc()
	_ = b.states.Reset(ctx, chatID)
	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"Import done: %d quantities set, %d rows skipped.", len(quantities), skipped)))
	b.showStockMenu(ctx, chatID, nil)
}
