package handlers

import (
	"net/http"

	"negoce/internal/config"
	"negoce/internal/store"
	"negoce/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handler struct {
	cfg        config.Config
	accounts   AccountService
	currencies CurrencyService
	inventory  InventoryService
	orders     OrderService
	expenses   ExpenseService
	loans      LoanService

	accountStore  AccountStore
	currencyStore CurrencyStore
	lotStore      LotStore
	categoryStore CategoryStore
	expenseStore  ExpenseStore
	loanStore     LoanStore
	db            store.Selecter

	hub *websocket.Hub
}

func New(cfg config.Config, accounts AccountService, currencies CurrencyService, inventory InventoryService, orders OrderService, expenses ExpenseService, loans LoanService, accountStore AccountStore, currencyStore CurrencyStore, lotStore LotStore, categoryStore CategoryStore, expenseStore ExpenseStore, loanStore LoanStore, db store.Selecter, hub *websocket.Hub) *Handler {
	return &Handler{
		cfg:           cfg,
		accounts:      accounts,
		currencies:    currencies,
		inventory:     inventory,
		orders:        orders,
		expenses:      expenses,
		loans:         loans,
		accountStore:  accountStore,
		currencyStore: currencyStore,
		lotStore:      lotStore,
		categoryStore: categoryStore,
		expenseStore:  expenseStore,
		loanStore:     loanStore,
		db:            db,
		hub:           hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/comptes", func(r chi.Router) {
		r.Post("/", h.CreateAccount)
		r.Get("/", h.ListAccounts)
		r.Post("/crediter", h.CreditAccount)
	})
	router.Route("/devises", func(r chi.Router) {
		r.Post("/", h.CreateCurrency)
		r.Get("/", h.ListCurrencies)
		r.Post("/taux", h.SetRate)
		r.Get("/taux", h.ListActiveRates)
	})
	router.Route("/categories", func(r chi.Router) {
		r.Post("/", h.CreateCategory)
		r.Get("/", h.ListCategories)
	})
	router.Route("/colis", func(r chi.Router) {
		r.Post("/", h.AddLot)
		r.Get("/en-route", h.ListLotsEnRoute)
		r.Put("/{id}/stock", h.StockLot)
		r.Put("/{id}/prix", h.EditLotPrice)
		r.Delete("/{id}", h.CancelLot)
	})
	router.Post("/commandes", h.FulfillOrder)
	router.Route("/depenses", func(r chi.Router) {
		r.Post("/", h.AddExpense)
		r.Post("/natures", h.CreateNature)
		r.Get("/natures", h.ListNatures)
	})
	router.Route("/emprunts", func(r chi.Router) {
		r.Post("/", h.AddLoan)
		r.Get("/", h.ListLoans)
		r.Post("/{id}/remboursements", h.AddRepayment)
	})
	router.Get("/ws/soldes", h.WSBalances)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}

func (h *Handler) WSBalances(w http.ResponseWriter, r *http.Request) {
	websocket.ServeWS(w, r, h.hub)
}
