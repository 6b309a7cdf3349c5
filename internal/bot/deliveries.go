package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/amirtrade/tradeoffice-bot/internal/dialog"
	"github.com/amirtrade/tradeoffice-bot/internal/domain/deliveries"
)

func (b *Bot) showDeliveriesMenu(ctx context.Context, chatID int64, editMsgID *int) {
	cats, err := b.deliveries.ListCategories(ctx)
	if err != nil {
		b.log.Error("list order categories", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Could not load order categories."))
		return
	}

	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, c := range cats {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(c.Name, "dl:cat:"+c.ID),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ New category", "dl:newcat"),
			tgbotapi.NewInlineKeyboardButtonData("📜 All deliveries", "dl:list"),
		),
		navKeyboard(false, true).InlineKeyboard[0],
	)
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)

	text := "Deliveries — pick an order category:"
	if editMsgID != nil {
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, *editMsgID, text, kb))
	} else {
		m := tgbotapi.NewMessage(chatID, text)
		m.ReplyMarkup = kb
		b.send(m)
	}
	_ = b.states.Set(ctx, chatID, dialog.StateDelMenu, dialog.Payload{})
}

func deliveryLine(d deliveries.Delivery) string {
	mark := "🚚"
	if d.Arrived {
		mark = "✅"
	}
	return fmt.Sprintf("%s %s  %s/%s  %d cartons, %s kg",
		mark, d.DeliveryDate.Format("2006-01-02"), d.Type, d.Destination,
		d.CartonCount, money(d.Weight))
}

func (b *Bot) showDeliveryCategory(ctx context.Context, chatID int64, mid int, catID string) {
	cat, err := b.deliveries.GetCategory(ctx, catID)
	if err != nil || cat == nil {
		b.editTextAndClear(chatID, mid, "Category not found.")
		return
	}
	all, err := b.deliveries.List(ctx)
	if err != nil {
		b.log.Error("list deliveries", "err", err)
		b.editTextAndClear(chatID, mid, "Could not load deliveries.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Order category: " + cat.Name + "\n\n")
	rows := [][]tgbotapi.InlineKeyboardButton{}
	n := 0
	for _, d := range all {
		if d.OrderCategoryID != catID {
			continue
		}
		n++
		sb.WriteString(fmt.Sprintf("%d. %s\n", n, deliveryLine(d)))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("📦 %d", n), "dl:item:"+d.ID),
		))
	}
	if n == 0 {
		sb.WriteString("No deliveries in this category.\n")
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Add delivery", "dl:add:"+catID),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete category", "dl:delcat:"+catID),
		),
		navKeyboard(true, true).InlineKeyboard[0],
	)

	b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)))
	_ = b.states.Set(ctx, chatID, dialog.StateDelPickCat, dialog.Payload{"cat_id": catID})
}

func (b *Bot) delCallback(ctx context.Context, chatID int64, mid int, data string) {
	st, _ := b.states.Get(ctx, chatID)

	switch {
	case data == "dl:newcat":
		b.editTextWithNav(chatID, mid, "Name for the new order category:")
		_ = b.states.Set(ctx, chatID, dialog.StateDelCatName, dialog.Payload{})

	case strings.HasPrefix(data, "dl:cat:"):
		b.showDeliveryCategory(ctx, chatID, mid, strings.TrimPrefix(data, "dl:cat:"))

	case strings.HasPrefix(data, "dl:delcat:"):
		catID := strings.TrimPrefix(data, "dl:delcat:")
		if err := b.deliveries.DeleteCategory(ctx, catID); err != nil {
			b.log.Error("delete order category", "err", err)
			b.editTextAndClear(chatID, mid, "Could not delete the category.")
			return
		}
		b.showDeliveriesMenu(ctx, chatID, &mid)

	case strings.HasPrefix(data, "dl:add:"):
		catID := strings.TrimPrefix(data, "dl:add:")
		b.editTextWithNav(chatID, mid, "Delivery date (YYYY-MM-DD):")
		_ = b.states.Set(ctx, chatID, dialog.StateDelDate, dialog.Payload{"cat_id": catID})

	case strings.HasPrefix(data, "dl:type:"):
		st.Payload["type"] = strings.TrimPrefix(data, "dl:type:")
		kb := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🇦🇪 Dubai", "dl:dest:dubai"),
				tgbotapi.NewInlineKeyboardButtonData("🇮🇶 Iraq", "dl:dest:iraq"),
			),
			navKeyboard(false, true).InlineKeyboard[0],
		)
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, "Destination:", kb))
		_ = b.states.Set(ctx, chatID, dialog.StateDelDest, st.Payload)

	case strings.HasPrefix(data, "dl:dest:"):
		st.Payload["dest"] = strings.TrimPrefix(data, "dl:dest:")
		b.editTextWithNav(chatID, mid, "Description (or \"-\" for none):")
		_ = b.states.Set(ctx, chatID, dialog.StateDelDesc, st.Payload)

	case data == "dl:skip":
		b.showDeliveryConfirm(ctx, chatID, st.Payload)

	case data == "dl:save":
		b.finishDeliverySave(ctx, chatID, mid, st.Payload)

	case data == "dl:list":
		b.showDeliveryList(ctx, chatID, mid)

	case strings.HasPrefix(data, "dl:item:"):
		b.showDeliveryItem(ctx, chatID, mid, strings.TrimPrefix(data, "dl:item:"))

	case strings.HasPrefix(data, "dl:arr:"):
		id := strings.TrimPrefix(data, "dl:arr:")
		d, err := b.deliveries.GetByID(ctx, id)
		if err != nil || d == nil {
			b.editTextAndClear(chatID, mid, "Delivery not found.")
			return
		}
		if err := b.deliveries.SetArrived(ctx, id, !d.Arrived); err != nil {
			b.log.Error("toggle arrived", "err", err)
			b.editTextAndClear(chatID, mid, "Could not update the delivery.")
			return
		}
		b.showDeliveryItem(ctx, chatID, mid, id)

	case strings.HasPrefix(data, "dl:photos:"):
		b.sendDeliveryPhotos(ctx, chatID, strings.TrimPrefix(data, "dl:photos:"))

	case strings.HasPrefix(data, "dl:del:"):
		id := strings.TrimPrefix(data, "dl:del:")
		if err := b.deliveries.Delete(ctx, id); err != nil {
			b.log.Error("delete delivery", "err", err)
			b.editTextAndClear(chatID, mid, "Could not delete the delivery.")
			return
		}
		b.showDeliveryList(ctx, chatID, mid)
	}
}

func (b *Bot) handleDelCatName(ctx context.Context, chatID int64, text string) {
	name := strings.TrimSpace(text)
	if name == "" {
		b.send(tgbotapi.NewMessage(chatID, "Name cannot be empty, try again:"))
		return
	}
	if _, err := b.deliveries.CreateCategory(ctx, name); err != nil {
		b.log.Error("create order category", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Could not save the category."))
		return
	}
	_ = b.states.Reset(ctx, chatID)
	b.showDeliveriesMenu(ctx, chatID, nil)
}

func (b *Bot) handleDelDate(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	if _, ok := parseDate(strings.TrimSpace(text)); !ok {
		b.send(tgbotapi.NewMessage(chatID, "Enter the date as YYYY-MM-DD:"))
		return
	}
	st.Payload["date"] = strings.TrimSpace(text)
	b.sendStep(ctx, chatID, "Carton count:", navKeyboard(true, true),
		dialog.StateDelCartons, st.Payload)
}

func (b *Bot) handleDelCartons(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	n, ok := parseQty(strings.TrimSpace(text))
	if !ok {
		b.send(tgbotapi.NewMessage(chatID, "Enter a positive whole number:"))
		return
	}
	st.Payload["cartons"] = float64(n)
	b.sendStep(ctx, chatID, "Total weight in kg:", navKeyboard(true, true),
		dialog.StateDelWeight, st.Payload)
}

func (b *Bot) handleDelWeight(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	w, ok := parseAmount(strings.TrimSpace(text))
	if !ok {
		b.send(tgbotapi.NewMessage(chatID, "Enter a non-negative weight:"))
		return
	}
	st.Payload["weight"] = w.String()
	b.sendStep(ctx, chatID, "Receipt number (or \"-\" for none):", navKeyboard(true, true),
		dialog.StateDelReceipt, st.Payload)
}

func (b *Bot) handleDelReceipt(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	receipt := strings.TrimSpace(text)
	if receipt == "-" {
		receipt = ""
	}
	st.Payload["receipt"] = receipt

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚢 Sea", "dl:type:sea"),
			tgbotapi.NewInlineKeyboardButtonData("✈️ Air", "dl:type:air"),
		),
		navKeyboard(false, true).InlineKeyboard[0],
	)
	b.sendStep(ctx, chatID, "Shipping type:", kb, dialog.StateDelType, st.Payload)
}

func (b *Bot) handleDelDesc(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	desc := strings.TrimSpace(text)
	if desc == "-" {
		desc = ""
	}
	st.Payload["desc"] = desc

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏭ Skip photos", "dl:skip"),
		),
		navKeyboard(false, true).InlineKeyboard[0],
	)
	b.sendStep(ctx, chatID,
		"Send the receipt photo, then the cargo photo. Or skip.",
		kb, dialog.StateDelPhotos, st.Payload)
}

// handleDeliveryPhoto stores receipt then cargo photo ids in that order.
func (b *Bot) handleDeliveryPhoto(ctx context.Context, chatID int64, st *dialog.Item, fileID string) {
	if _, ok := dialog.GetString(st.Payload, "receipt_photo"); !ok {
		st.Payload["receipt_photo"] = fileID
		kb := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("⏭ Done with photos", "dl:skip"),
			),
			navKeyboard(false, true).InlineKeyboard[0],
		)
		b.sendStep(ctx, chatID, "Receipt photo saved. Now the cargo photo, or finish.",
			kb, dialog.StateDelPhotos, st.Payload)
		return
	}
	st.Payload["cargo_photo"] = fileID
	_ = b.states.Set(ctx, chatID, dialog.StateDelPhotos, st.Payload)
	b.showDeliveryConfirm(ctx, chatID, st.Payload)
}

func (b *Bot) showDeliveryConfirm(ctx context.Context, chatID int64, p dialog.Payload) {
	date, _ := dialog.GetString(p, "date")
	cartons, _ := dialog.GetInt64(p, "cartons")
	weight, _ := dialog.GetString(p, "weight")
	delType, _ := dialog.GetString(p, "type")
	dest, _ := dialog.GetString(p, "dest")
	receipt, _ := dialog.GetString(p, "receipt")
	desc, _ := dialog.GetString(p, "desc")

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Delivery on %s: %d cartons, %s kg, %s to %s\n",
		date, cartons, weight, delType, dest))
	if receipt != "" {
		sb.WriteString("Receipt: " + receipt + "\n")
	}
	if desc != "" {
		sb.WriteString("Description: " + desc + "\n")
	}
	photos := 0
	if _, ok := dialog.GetString(p, "receipt_photo"); ok {
		photos++
	}
	if _, ok := dialog.GetString(p, "cargo_photo"); ok {
		photos++
	}
	sb.WriteString(fmt.Sprintf("Photos attached: %d\n\nSave?", photos))

	b.sendStep(ctx, chatID, sb.String(), confirmKeyboard("dl:save"),
		dialog.StateDelConfirm, p)
}

func (b *Bot) finishDeliverySave(ctx context.Context, chatID int64, mid int, p dialog.Payload) {
	catID, _ := dialog.GetString(p, "cat_id")
	dateStr, _ := dialog.GetString(p, "date")
	date, ok := parseDate(dateStr)
	weightStr, _ := dialog.GetString(p, "weight")
	weight, err := decimal.NewFromString(weightStr)
	if catID == "" || !ok || err != nil {
		_ = b.states.Reset(ctx, chatID)
		b.editTextAndClear(chatID, mid, "Something went wrong, start over.")
		return
	}
	cartons, _ := dialog.GetInt64(p, "cartons")
	delType, _ := dialog.GetString(p, "type")
	dest, _ := dialog.GetString(p, "dest")
	receipt, _ := dialog.GetString(p, "receipt")
	desc, _ := dialog.GetString(p, "desc")
	receiptPhoto, _ := dialog.GetString(p, "receipt_photo")
	cargoPhoto, _ := dialog.GetString(p, "cargo_photo")

	d := &deliveries.Delivery{
		OrderCategoryID: catID,
		DeliveryDate:    date,
		CartonCount:     cartons,
		Weight:          weight,
		ReceiptNumber:   receipt,
		Type:            deliveries.Type(delType),
		Destination:     deliveries.Destination(dest),
		Description:     desc,
		ReceiptPhotoID:  receiptPhoto,
		CargoPhotoID:    cargoPhoto,
	}
	if err := b.deliveries.Create(ctx, d); err != nil {
		b.log.Error("create delivery", "err", err)
		b.editTextAndClear(chatID, mid, "Could not save the delivery.")
		return
	}

	_ = b.states.Reset(ctx, chatID)
	b.editTextAndClear(chatID, mid, "Delivery saved.")
	b.showDeliveriesMenu(ctx, chatID, nil)
}

func (b *Bot) showDeliveryList(ctx context.Context, chatID int64, mid int) {
	all, err := b.deliveries.List(ctx)
	if err != nil {
		b.log.Error("list deliveries", "err", err)
		b.editTextAndClear(chatID, mid, "Could not load deliveries.")
		return
	}
	if len(all) == 0 {
		b.editTextWithNav(chatID, mid, "No deliveries yet.")
		return
	}

	var sb strings.Builder
	sb.WriteString("All deliveries:\n\n")
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for i, d := range all {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, deliveryLine(d)))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("📦 %d", i+1), "dl:item:"+d.ID),
		))
	}
	rows = append(rows, navKeyboard(true, true).InlineKeyboard[0])

	b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)))
	_ = b.states.Set(ctx, chatID, dialog.StateDelList, dialog.Payload{})
}

func (b *Bot) showDeliveryItem(ctx context.Context, chatID int64, mid int, id string) {
	d, err := b.deliveries.GetByID(ctx, id)
	if err != nil || d == nil {
		b.editTextAndClear(chatID, mid, "Delivery not found.")
		return
	}

	var sb strings.Builder
	sb.WriteString(deliveryLine(*d) + "\n")
	if d.ReceiptNumber != "" {
		sb.WriteString("Receipt: " + d.ReceiptNumber + "\n")
	}
	if d.Description != "" {
		sb.WriteString(d.Description + "\n")
	}

	arrivedLabel := "✅ Mark arrived"
	if d.Arrived {
		arrivedLabel = "↩️ Mark in transit"
	}
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(arrivedLabel, "dl:arr:"+id),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", "dl:del:"+id),
		),
	}
	if d.ReceiptPhotoID != "" || d.CargoPhotoID != "" {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🖼 Photos", "dl:photos:"+id),
		))
	}
	rows = append(rows, navKeyboard(true, true).InlineKeyboard[0])

	b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)))
}

func (b *Bot) sendDeliveryPhotos(ctx context.Context, chatID int64, id string) {
	d, err := b.deliveries.GetByID(ctx, id)
	if err != nil || d == nil {
		b.send(tgbotapi.NewMessage(chatID, "Delivery not found."))
		return
	}
	if d.ReceiptPhotoID != "" {
		ph := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(d.ReceiptPhotoID))
		ph.Caption = "Receipt"
		b.send(ph)
	}
	if d.CargoPhotoID != "" {
		ph := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(d.CargoPhotoID))
		ph.Caption = "Cargo"
		b.send(ph)
	}
}
