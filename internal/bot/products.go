package bot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/amirtrade/tradeoffice-bot/internal/dialog"
	"github.com/amirtrade/tradeoffice-bot/internal/domain/products"
	"github.com/amirtrade/tradeoffice-bot/internal/infra/metrics"
)

var catalogHeader = []string{
	"item_code", "brand_name", "specifications", "category_name", "source",
	"order_number", "cny_purchase_price", "usd_selling_price", "description", "warehouse_name",
}

func (b *Bot) showProductsMenu(ctx context.Context, chatID int64, editMsgID *int) {
	prods, err := b.products.List(ctx)
	if err != nil {
		b.log.Error("list products", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Could not load products."))
		return
	}

	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, p := range prods {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(p.Label(), "pr:item:"+p.ID),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Add product", "pr:add"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📤 Export xlsx", "pr:export"),
			tgbotapi.NewInlineKeyboardButtonData("📥 Import xlsx", "pr:import"),
		),
		navKeyboard(false, true).InlineKeyboard[0],
	)
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)

	text := fmt.Sprintf("Products (%d in catalog):", len(prods))
	if editMsgID != nil {
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, *editMsgID, text, kb))
	} else {
		m := tgbotapi.NewMessage(chatID, text)
		m.ReplyMarkup = kb
		b.send(m)
	}
	_ = b.states.Set(ctx, chatID, dialog.StateProdMenu, dialog.Payload{})
}

func (b *Bot) showProductItem(ctx context.Context, chatID int64, mid int, id string) {
	p, err := b.products.GetByID(ctx, id)
	if err != nil || p == nil {
		b.editTextAndClear(chatID, mid, "Product not found.")
		return
	}

	var sb strings.Builder
	sb.WriteString(p.ItemCode + "\n")
	if p.Specifications != "" {
		sb.WriteString(p.Specifications + "\n")
	}
	if p.BrandName != "" {
		sb.WriteString("Brand: " + p.BrandName + "\n")
	}
	sb.WriteString("Purchase: " + money(p.CNYPurchasePrice) + " CNY\n")
	sb.WriteString("Selling: " + money(p.USDSellingPrice) + " USD\n")
	if p.WarehouseName != "" {
		sb.WriteString("Warehouse: " + p.WarehouseName + "\n")
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", "pr:del:"+id),
		),
		navKeyboard(true, true).InlineKeyboard[0],
	)
	b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, sb.String(), kb))
	_ = b.states.Set(ctx, chatID, dialog.StateProdItem, dialog.Payload{"product_id": id})
}

func (b *Bot) prodCallback(ctx context.Context, chatID int64, mid int, data string) {
	switch {
	case data == "pr:add":
		b.editTextWithNav(chatID, mid, "Item code for the new product:")
		_ = b.states.Set(ctx, chatID, dialog.StateProdCode, dialog.Payload{})

	case strings.HasPrefix(data, "pr:item:"):
		b.showProductItem(ctx, chatID, mid, strings.TrimPrefix(data, "pr:item:"))

	case strings.HasPrefix(data, "pr:del:"):
		id := strings.TrimPrefix(data, "pr:del:")
		// Inventory row goes with it; saved invoice lines keep their copy.
		if err := b.products.Delete(ctx, id); err != nil {
			b.log.Error("delete product", "err", err)
			b.editTextAndClear(chatID, mid, "Could not delete the product.")
			return
		}
		b.showProductsMenu(ctx, chatID, &mid)

	case data == "pr:export":
		b.exportProducts(ctx, chatID, mid)

	case data == "pr:import":
		b.editTextWithNav(chatID, mid, "Send the catalog .xlsx file. Rows are matched by item_code: known codes are updated, new ones created.")
		_ = b.states.Set(ctx, chatID, dialog.StateProdImportFile, dialog.Payload{})
	}
}

func (b *Bot) handleProdCode(ctx context.Context, chatID int64, text string) {
	code := strings.TrimSpace(text)
	if code == "" {
		b.send(tgbotapi.NewMessage(chatID, "Item code cannot be empty, try again:"))
		return
	}
	b.sendStep(ctx, chatID, "Specifications (or \"-\" for none):", navKeyboard(true, true),
		dialog.StateProdSpec, dialog.Payload{"item_code": code})
}

func (b *Bot) handleProdSpec(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	spec := strings.TrimSpace(text)
	if spec == "-" {
		spec = ""
	}
	st.Payload["spec"] = spec
	b.sendStep(ctx, chatID, "Purchase price (CNY):", navKeyboard(true, true),
		dialog.StateProdCNYPrice, st.Payload)
}

func (b *Bot) handleProdCNYPrice(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	price, ok := parseAmount(strings.TrimSpace(text))
	if !ok {
		b.send(tgbotapi.NewMessage(chatID, "Enter a non-negative price:"))
		return
	}
	st.Payload["cny_price"] = price.String()
	b.sendStep(ctx, chatID, "Selling price (USD):", navKeyboard(true, true),
		dialog.StateProdUSDPrice, st.Payload)
}

func (b *Bot) handleProdUSDPrice(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	usd, ok := parseAmount(strings.TrimSpace(text))
	if !ok {
		b.send(tgbotapi.NewMessage(chatID, "Enter a non-negative price:"))
		return
	}
	code, _ := dialog.GetString(st.Payload, "item_code")
	spec, _ := dialog.GetString(st.Payload, "spec")
	cnyStr, _ := dialog.GetString(st.Payload, "cny_price")
	cny, _ := decimal.NewFromString(cnyStr)

	p := &products.Product{
		ItemCode:         code,
		Specifications:   spec,
		CNYPurchasePrice: cny,
		USDSellingPrice:  usd,
	}
	if err := b.products.Create(ctx, p); err != nil {
		b.log.Error("create product", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Could not save the product."))
		return
	}
	_ = b.states.Reset(ctx, chatID)
	b.send(tgbotapi.NewMessage(chatID, "Added "+p.Label()+"."))
	b.showProductsMenu(ctx, chatID, nil)
}

func (b *Bot) exportProducts(ctx context.Context, chatID int64, mid int) {
	prods, err := b.products.List(ctx)
	if err != nil {
		b.editTextAndClear(chatID, mid, "Could not load products.")
		return
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)
	for i, h := range catalogHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for r, p := range prods {
		vals := []any{
			p.ItemCode, p.BrandName, p.Specifications, p.CategoryName, p.Source,
			p.OrderNumber, p.CNYPurchasePrice.String(), p.USDSellingPrice.String(),
			p.Description, p.WarehouseName,
		}
		for c, v := range vals {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		b.log.Error("write catalog xlsx", "err", err)
		b.editTextAndClear(chatID, mid, "Could not build the export file.")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: "products.xlsx", Bytes: buf.Bytes()})
	doc.Caption = fmt.Sprintf("Catalog, %d products.", len(prods))
	b.send(doc)
	b.editTextAndClear(chatID, mid, "Export sent.")
}

func (b *Bot) handleProductsImportUpload(ctx context.Context, chatID int64, fileID string) {
	data, err := b.downloadTelegramFile(fileID)
	if err != nil {
		b.log.Error("download catalog", "err", err)
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

	created, updated, skipped := 0, 0, 0
	for _, row := range rows[1:] {
		p := productFromRow(row)
		if p == nil {
			skipped++
			continue
		}
		existing, err := b.products.GetByItemCode(ctx, p.ItemCode)
		if err != nil {
			b.log.Error("lookup product", "code", p.ItemCode, "err", err)
			skipped++
			continue
		}
		if existing != nil {
			p.ID = existing.ID
			err = b.products.Update(ctx, p)
			updated++
		} else {
			err = b.products.Create(ctx, p)
			created++
		}
		if err != nil {
			b.log.Error("import product", "code", p.ItemCode, "err", err)
			skipped++
		}
	}

	metrics.SheetImports.WithLabelValues("products").Inc()
	_ = b.states.Reset(ctx, chatID)
	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"Import done: %d created, %d updated, %d skipped.", created, updated, skipped)))
	b.showProductsMenu(ctx, chatID, nil)
}

// productFromRow maps one sheet row onto a product, column order as exported.
func productFromRow(row []string) *products.Product {
	col := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	code := col(0)
	if code == "" {
		return nil
	}
	cny, err := decimal.NewFromString(col(6))
	if err != nil {
		cny = decimal.Zero
	}
	usd, err := decimal.NewFromString(col(7))
	if err != nil {
		usd = decimal.Zero
	}
	return &products.Product{
		ItemCode:         code,
		BrandName:        col(1),
		Specifications:   col(2),
		CategoryName:     col(3),
		Source:           col(4),
		OrderNumber:      col(5),
		CNYPurchasePrice: cny,
		USDSellingPrice:  usd,
		Description:      col(8),
		WarehouseName:    col(9),
	}
}
