package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/amirtrade/tradeoffice-bot/internal/dialog"
)

func (b *Bot) showPersonsMenu(ctx context.Context, chatID int64, editMsgID *int) {
	people, err := b.persons.List(ctx)
	if err != nil {
		b.log.Error("list persons", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Could not load persons."))
		return
	}

	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, p := range people {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(p.Name, fmt.Sprintf("pe:item:%d", p.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("➕ Add person", "pe:add"),
	))
	rows = append(rows, navKeyboard(false, true).InlineKeyboard[0])
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)

	text := "Persons — pick one or add a new one:"
	if editMsgID != nil {
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, *editMsgID, text, kb))
	} else {
		m := tgbotapi.NewMessage(chatID, text)
		m.ReplyMarkup = kb
		b.send(m)
	}
	_ = b.states.Set(ctx, chatID, dialog.StatePersonMenu, dialog.Payload{})
}

func (b *Bot) showPersonItem(ctx context.Context, chatID int64, editMsgID int, id int64) {
	p, err := b.persons.GetByID(ctx, id)
	if err != nil || p == nil {
		b.editTextAndClear(chatID, editMsgID, "Person not found.")
		return
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Rename", fmt.Sprintf("pe:ren:%d", id)),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", fmt.Sprintf("pe:del:%d", id)),
		),
		navKeyboard(true, true).InlineKeyboard[0],
	)
	b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, editMsgID,
		fmt.Sprintf("Person #%d: %s", p.ID, p.Name), kb))
}

func (b *Bot) personCallback(ctx context.Context, chatID int64, mid int, data string) {
	switch {
	case data == "pe:add":
		b.clearPrevStep(ctx, chatID)
		b.sendStep(ctx, chatID, "Enter the person's name:", navKeyboard(true, true),
			dialog.StatePersonName, dialog.Payload{})

	case strings.HasPrefix(data, "pe:item:"):
		id, _ := strconv.ParseInt(strings.TrimPrefix(data, "pe:item:"), 10, 64)
		b.showPersonItem(ctx, chatID, mid, id)

	case strings.HasPrefix(data, "pe:ren:"):
		id, _ := strconv.ParseInt(strings.TrimPrefix(data, "pe:ren:"), 10, 64)
		b.editTextWithNav(chatID, mid, "Enter the new name:")
		_ = b.states.Set(ctx, chatID, dialog.StatePersonRename, dialog.Payload{"person_id": float64(id)})

	case strings.HasPrefix(data, "pe:del:"):
		id, _ := strconv.ParseInt(strings.TrimPrefix(data, "pe:del:"), 10, 64)
		// No cascade: the person's transactions stay and drop out of the fold.
		if err := b.persons.Delete(ctx, id); err != nil {
			b.log.Error("delete person", "err", err)
			b.editTextAndClear(chatID, mid, "Could not delete the person.")
			return
		}
		b.showPersonsMenu(ctx, chatID, &mid)
	}
}

func (b *Bot) handlePersonName(ctx context.Context, chatID int64, text string) {
	name := strings.TrimSpace(text)
	if name == "" {
		b.send(tgbotapi.NewMessage(chatID, "Name cannot be empty, try again:"))
		return
	}
	p, err := b.persons.Create(ctx, name)
	if err != nil {
		b.log.Error("create person", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Could not save the person."))
		return
	}
	_ = b.states.Reset(ctx, chatID)
	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Added %s (#%d).", p.Name, p.ID)))
	b.showPersonsMenu(ctx, chatID, nil)
}

func (b *Bot) handlePersonRename(ctx context.Context, chatID int64, st *dialog.Item, text string) {
	name := strings.TrimSpace(text)
	if name == "" {
		b.send(tgbotapi.NewMessage(chatID, "Name cannot be empty, try again:"))
		return
	}
	id, ok := dialog.GetInt64(st.Payload, "person_id")
	if !ok {
		_ = b.states.Reset(ctx, chatID)
		return
	}
	if err := b.persons.Rename(ctx, id, name); err != nil {
		b.log.Error("rename person", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Could not rename the person."))
		return
	}
	_ = b.states.Reset(ctx, chatID)
	b.send(tgbotapi.NewMessage(chatID, "Renamed."))
	b.showPersonsMenu(ctx, chatID, nil)
}
