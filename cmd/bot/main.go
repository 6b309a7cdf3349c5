package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/subosito/gotenv"

	"github.com/amirtrade/tradeoffice-bot/internal/auth"
	"github.com/amirtrade/tradeoffice-bot/internal/bot"
	"github.com/amirtrade/tradeoffice-bot/internal/config"
	"github.com/amirtrade/tradeoffice-bot/internal/dialog"
	"github.com/amirtrade/tradeoffice-bot/internal/domain/deliveries"
	"github.com/amirtrade/tradeoffice-bot/internal/domain/inventory"
	"github.com/amirtrade/tradeoffice-bot/internal/domain/invoices"
	"github.com/amirtrade/tradeoffice-bot/internal/domain/ledger"
	"github.com/amirtrade/tradeoffice-bot/internal/domain/persons"
	"github.com/amirtrade/tradeoffice-bot/internal/domain/products"
	"github.com/amirtrade/tradeoffice-bot/internal/infra/db"
	httpx "github.com/amirtrade/tradeoffice-bot/internal/infra/http"
	"github.com/amirtrade/tradeoffice-bot/internal/infra/logger"
	"github.com/amirtrade/tradeoffice-bot/internal/infra/pdf"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

func runMigrations(dsn string, log *slog.Logger) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN, log); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled)
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("telegram auth failed", "err", err)
		return
	}
	log.Info("telegram connected", "bot", api.Self.UserName)

	renderer := pdf.NewRenderer()
	defer renderer.Close()

	authRepo := auth.NewRepo(pool)
	b := bot.New(bot.Deps{
		API:    api,
		Log:    log,
		States: dialog.NewRepo(pool),

		Auth:       auth.NewService(authRepo),
		Persons:    persons.NewRepo(pool),
		Ledger:     ledger.NewRepo(pool),
		Categories: ledger.NewCategoryRepo(pool),
		Products:   products.NewRepo(pool),
		Inventory:  inventory.NewRepo(pool),
		Invoices:   invoices.NewRepo(pool),
		Deliveries: deliveries.NewRepo(pool),
		PDF:        renderer,

		AdminChatID:     cfg.Telegram.AdminChatID,
		PartnerPersonID: cfg.Ledger.PartnerPersonID,
		BalanceLimit:    cfg.Ledger.BalanceLimit,
	})

	go func() {
		if err := b.Run(ctx, 30); err != nil && ctx.Err() == nil {
			log.Error("bot stopped", "err", err)
		}
	}()
	log.Info("bot started")

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
