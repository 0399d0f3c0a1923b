// Package httpapi exposes the service over HTTP and owns the mapping from
// business-rule failures to status codes and response text.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	app "github.com/bankapp/transfer_service/internal/app"
	"github.com/bankapp/transfer_service/internal/app/metrics"
	"github.com/bankapp/transfer_service/internal/app/services/auth"
	"github.com/bankapp/transfer_service/internal/app/services/transfer"
	"github.com/bankapp/transfer_service/internal/app/storage"
)

// handler bundles HTTP endpoints for the application services.
type handler struct {
	app *app.Application
}

// NewHandler returns the service router wrapped with HTTP metrics collection.
func NewHandler(application *app.Application) http.Handler {
	h := &handler{app: application}

	r := mux.NewRouter()
	r.HandleFunc("/transactions/clients", h.listClients).Methods(http.MethodGet)
	r.HandleFunc("/transactions/select-recipient", h.selectRecipient).Methods(http.MethodPost)
	r.HandleFunc("/transactions/transfer", h.transfer).Methods(http.MethodPost)
	r.HandleFunc("/accounts/create", h.createAccount).Methods(http.MethodPost)
	r.HandleFunc("/hello", h.hello).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)

	return metrics.InstrumentHandler(r)
}

func (h *handler) listClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.app.Transfers.ListClients(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

func (h *handler) selectRecipient(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	accountNumber := strings.TrimSpace(r.URL.Query().Get("accountNumber"))
	if username == "" || accountNumber == "" {
		writeError(w, http.StatusBadRequest, "username and accountNumber are required")
		return
	}

	confirmation, err := h.app.Transfers.SelectRecipient(r.Context(), username, accountNumber)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": confirmation})
}

func (h *handler) transfer(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("amount"))
	if raw == "" {
		writeError(w, http.StatusBadRequest, "amount is required")
		return
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "amount must be a decimal number")
		return
	}

	confirmation, err := h.app.Transfers.Transfer(r.Context(), amount)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": confirmation})
}

func (h *handler) createAccount(w http.ResponseWriter, r *http.Request) {
	clientID := strings.TrimSpace(r.URL.Query().Get("clientId"))
	if clientID == "" {
		writeError(w, http.StatusBadRequest, "clientId is required")
		return
	}

	acct, err := h.app.Accounts.Create(r.Context(), clientID)
	if err != nil {
		if errors.Is(err, storage.ErrClientNotFound) {
			writeError(w, http.StatusBadRequest, "client not found")
			return
		}
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

func (h *handler) hello(w http.ResponseWriter, r *http.Request) {
	greeting := h.app.Greeter.Greet(r.URL.Query().Get("name"))
	writeJSON(w, http.StatusOK, map[string]string{"message": greeting})
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeFailure maps a service error to its caller-visible outcome. Every
// signal keeps a distinct status/text pair; unknown errors become 500s.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrUnavailable):
		writeError(w, http.StatusInternalServerError, "Could not determine authentication status.")
	case errors.Is(err, transfer.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "Log in first!")
	case errors.Is(err, transfer.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "Transfer amount must be positive!")
	case errors.Is(err, transfer.ErrRecipientNotFound):
		writeError(w, http.StatusBadRequest, "Recipient not found!")
	case errors.Is(err, transfer.ErrRecipientAccountNotFound):
		writeError(w, http.StatusBadRequest, "Recipient has no such account!")
	case errors.Is(err, transfer.ErrRecipientNotSelected):
		writeError(w, http.StatusNotFound, "Select a recipient first!")
	case errors.Is(err, transfer.ErrNoSenderAccount):
		writeError(w, http.StatusBadRequest, "You have no account!")
	case errors.Is(err, transfer.ErrInsufficientFunds):
		writeError(w, http.StatusBadRequest, "Insufficient funds!")
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error.")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
