package bot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/amirtrade/tradeoffice-bot/internal/auth"
	"github.com/amirtrade/tradeoffice-bot/internal/dialog"
	"github.com/amirtrade/tradeoffice-bot/internal/domain/deliveries"
	"github.com/amirtrade/tradeoffice-bot/internal/domain/inventory"
	"github.com/amirtrade/tradeoffice-bot/internal/domain/invoices"
	"github.com/amirtrade/tradeoffice-bot/internal/domain/ledger"
	"github.com/amirtrade/tradeoffice-bot/internal/domain/persons"
	"github.com/amirtrade/tradeoffice-bot/internal/domain/products"
	"github.com/amirtrade/tradeoffice-bot/internal/infra/pdf"
)

type Bot struct {
	api    *tgbotapi.BotAPI
	log    *slog.Logger
	states *dialog.Repo

	auth       *auth.Service
	persons    *persons.Repo
	ledger     *ledger.Repo
	categories *ledger.CategoryRepo
	products   *products.Repo
	inventory  *inventory.Repo
	invoices   *invoices.Repo
	deliveries *deliveries.Repo
	pdf        *pdf.Renderer

	adminChat       int64
	partnerPersonID int64
	balanceLimit    int
}

type Deps struct {
	API    *tgbotapi.BotAPI
	Log    *slog.Logger
	States *dialog.Repo

	Auth       *auth.Service
	Persons    *persons.Repo
	Ledger     *ledger.Repo
	Categories *ledger.CategoryRepo
	Products   *products.Repo
	Inventory  *inventory.Repo
	Invoices   *invoices.Repo
	Deliveries *deliveries.Repo
	PDF        *pdf.Renderer

	AdminChatID     int64
	PartnerPersonID int64
	BalanceLimit    int
}

func New(d Deps) *Bot {
	return &Bot{
		api: d.API, log: d.Log, states: d.States,
		auth: d.Auth, persons: d.Persons, ledger: d.Ledger, categories: d.Categories,
		products: d.Products, inventory: d.Inventory, invoices: d.Invoices,
		deliveries: d.Deliveries, pdf: d.PDF,
		adminChat: d.AdminChatID, partnerPersonID: d.PartnerPersonID, balanceLimit: d.BalanceLimit,
	}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	if b.adminChat != 0 {
		b.send(tgbotapi.NewMessage(b.adminChat, "Bot is online."))
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			if upd.Message != nil {
				b.onMessage(ctx, upd)
			} else if upd.CallbackQuery != nil {
				b.onCallback(ctx, upd)
			}
		}
	}
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

// downloadTelegramFile fetches the raw bytes of an uploaded document.
func (b *Bot) downloadTelegramFile(fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file url: %w", err)
	}

	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram returned status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}
