package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"billing-backend/internal/handlers"
	"billing-backend/internal/middleware"
)

func NewRouter(
	invoiceHandler *handlers.InvoiceHandler,
	contractHandler *handlers.ContractHandler,
	expenseHandler *handlers.ExpenseHandler,
	userHandler *handlers.UserHandler,
	supportChatHandler *handlers.SupportChatHandler,
	healthHandler *handlers.HealthHandler,
	logger zerolog.Logger,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.PanicRecovery)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.MetricsMiddleware)

	// Health checks and metrics
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Invoices
	invoicesAPI := r.PathPrefix("/api/invoices").Subrouter()
	invoicesAPI.HandleFunc("", invoiceHandler.List).Methods("GET")
	invoicesAPI.HandleFunc("", invoiceHandler.Create).Methods("POST")
	invoicesAPI.HandleFunc("/projection", invoiceHandler.Projection).Methods("GET")
	invoicesAPI.HandleFunc("/export", invoiceHandler.Export).Methods("GET")
	invoicesAPI.HandleFunc("/view/{token}", invoiceHandler.View).Methods("GET")
	invoicesAPI.HandleFunc("/{id:[0-9]+}", invoiceHandler.Get).Methods("GET")
	invoicesAPI.HandleFunc("/{id:[0-9]+}", invoiceHandler.Update).Methods("PATCH")
	invoicesAPI.HandleFunc("/{id:[0-9]+}", invoiceHandler.Delete).Methods("DELETE")
	invoicesAPI.HandleFunc("/{id:[0-9]+}/send", invoiceHandler.Send).Methods("POST")
	invoicesAPI.HandleFunc("/{id:[0-9]+}/paid", invoiceHandler.MarkPaid).Methods("POST")
	invoicesAPI.HandleFunc("/{id:[0-9]+}/cancel", invoiceHandler.Cancel).Methods("POST")
	invoicesAPI.HandleFunc("/{id:[0-9]+}/share-link", invoiceHandler.ShareLink).Methods("GET")
	invoicesAPI.HandleFunc("/{id:[0-9]+}/document", invoiceHandler.Document).Methods("GET")

	// Contracts
	contractsAPI := r.PathPrefix("/api/contracts").Subrouter()
	contractsAPI.HandleFunc("", contractHandler.List).Methods("GET")
	contractsAPI.HandleFunc("", contractHandler.Create).Methods("POST")
	contractsAPI.HandleFunc("/projection", contractHandler.Projection).Methods("GET")
	contractsAPI.HandleFunc("/export", contractHandler.Export).Methods("GET")
	contractsAPI.HandleFunc("/view/{token}", contractHandler.View).Methods("GET")
	contractsAPI.HandleFunc("/{id:[0-9]+}", contractHandler.Get).Methods("GET")
	contractsAPI.HandleFunc("/{id:[0-9]+}", contractHandler.Update).Methods("PATCH")
	contractsAPI.HandleFunc("/{id:[0-9]+}", contractHandler.Delete).Methods("DELETE")
	contractsAPI.HandleFunc("/{id:[0-9]+}/send", contractHandler.Send).Methods("POST")
	contractsAPI.HandleFunc("/{id:[0-9]+}/sign", contractHandler.Sign).Methods("POST")
	contractsAPI.HandleFunc("/{id:[0-9]+}/cancel", contractHandler.Cancel).Methods("POST")
	contractsAPI.HandleFunc("/{id:[0-9]+}/share-link", contractHandler.ShareLink).Methods("GET")
	contractsAPI.HandleFunc("/{id:[0-9]+}/document", contractHandler.Document).Methods("GET")
	contractsAPI.HandleFunc("/{id:[0-9]+}/file", contractHandler.UploadFile).Methods("POST")
	contractsAPI.HandleFunc("/{id:[0-9]+}/file", contractHandler.DownloadFile).Methods("GET")
	contractsAPI.HandleFunc("/{id:[0-9]+}/file", contractHandler.DeleteFile).Methods("DELETE")

	// Expenses
	expensesAPI := r.PathPrefix("/api/expenses").Subrouter()
	expensesAPI.HandleFunc("", expenseHandler.List).Methods("GET")
	expensesAPI.HandleFunc("", expenseHandler.Create).Methods("POST")
	expensesAPI.HandleFunc("/projection", expenseHandler.Projection).Methods("GET")
	expensesAPI.HandleFunc("/export", expenseHandler.Export).Methods("GET")
	expensesAPI.HandleFunc("/extract", expenseHandler.Extract).Methods("POST")
	expensesAPI.HandleFunc("/{id:[0-9]+}", expenseHandler.Get).Methods("GET")
	expensesAPI.HandleFunc("/{id:[0-9]+}", expenseHandler.Update).Methods("PATCH")
	expensesAPI.HandleFunc("/{id:[0-9]+}", expenseHandler.Delete).Methods("DELETE")
	expensesAPI.HandleFunc("/{id:[0-9]+}/pdf", expenseHandler.UploadPDF).Methods("POST")
	expensesAPI.HandleFunc("/{id:[0-9]+}/pdf", expenseHandler.DownloadPDF).Methods("GET")

	// Users and their view preferences
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.HandleFunc("", userHandler.ListUsers).Methods("GET")
	usersAPI.HandleFunc("/preference-keys", userHandler.PreferenceKeys).Methods("GET")
	usersAPI.HandleFunc("/{id:[0-9]+}", userHandler.GetUser).Methods("GET")
	usersAPI.HandleFunc("/{id:[0-9]+}/preferences/{kind}/groups/{group}/toggle", userHandler.ToggleGroup).Methods("POST")
	usersAPI.HandleFunc("/{id:[0-9]+}/preferences/{kind}/seen", userHandler.MarkSeen).Methods("POST")
	usersAPI.HandleFunc("/{id:[0-9]+}/preferences/{key}", userHandler.GetPreference).Methods("GET")
	usersAPI.HandleFunc("/{id:[0-9]+}/preferences/{key}", userHandler.SetPreference).Methods("PUT")
	usersAPI.HandleFunc("/{id:[0-9]+}/preferences/{key}", userHandler.DeletePreference).Methods("DELETE")

	// Support chat widget
	supportAPI := r.PathPrefix("/api/support-chat").Subrouter()
	supportAPI.HandleFunc("/config", supportChatHandler.GetConfig).Methods("GET")
	supportAPI.HandleFunc("/config", supportChatHandler.UpdateConfig).Methods("PUT")

	return r
}
