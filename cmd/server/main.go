package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"negoce/internal/config"
	"negoce/internal/db"
	"negoce/internal/handlers"
	"negoce/internal/money"
	"negoce/internal/services"
	"negoce/internal/store"
	"negoce/internal/websocket"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	accounts := store.NewAccountStore(database)
	currencies := store.NewCurrencyStore(database)
	categories := store.NewCategoryStore(database)
	products := store.NewProductStore(database)
	lots := store.NewLotStore(database)
	orders := store.NewOrderStore(database)
	expenses := store.NewExpenseStore(database)
	loans := store.NewLoanStore(database)
	credits := store.NewCreditStore(database)
	audit := store.NewAuditStore(database)
	sequences := store.NewSequenceStore()
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()

	caisse, err := resolveCaisse(cfg, accounts)
	if err != nil {
		log.Fatalf("failed to resolve caisse account: %v", err)
	}
	stampDuty, err := money.Parse(cfg.StampDutyDZD)
	if err != nil {
		log.Fatalf("invalid STAMP_DUTY_DZD: %v", err)
	}

	accountService := services.NewAccountService(txRunner, accounts, credits, sequences, audit, hub, caisse)
	currencyService := services.NewCurrencyService(txRunner, currencies, sequences)
	inventoryService := services.NewInventoryService(txRunner, lots, products, categories, accounts, sequences, audit, hub, stampDuty)
	orderService := services.NewOrderService(txRunner, orders, lots, products, accounts, sequences, audit, hub, caisse)
	expenseService := services.NewExpenseService(txRunner, expenses, accounts, sequences, audit, hub)
	loanService := services.NewLoanService(txRunner, loans, accounts, credits, sequences, audit, hub)

	handler := handlers.New(cfg, accountService, currencyService, inventoryService, orderService, expenseService, loanService,
		accounts, currencies, lots, categories, expenses, loans, database, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("negoce API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}

func resolveCaisse(cfg config.Config, accounts *store.AccountStore) (services.Caisse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if cfg.CaisseAccountID > 0 {
		account, err := accounts.GetByID(ctx, cfg.CaisseAccountID)
		if err != nil {
			return services.Caisse{}, err
		}
		return services.Caisse{ID: account.ID, Currency: account.Currency}, nil
	}
	account, err := accounts.FindByDesignation(ctx, cfg.CaisseDesignation, cfg.BaseCurrency)
	if err != nil {
		return services.Caisse{}, err
	}
	return services.Caisse{ID: account.ID, Currency: account.Currency}, nil
}
