// Package storage defines persistence contracts for the transfer service.
package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/bankapp/transfer_service/internal/app/domain/client"
)

var (
	// ErrClientNotFound is returned when a client lookup misses.
	ErrClientNotFound = errors.New("client not found")
	// ErrAccountNotFound is returned when an account lookup misses.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInsufficientFunds is returned when a debit would overdraw an account.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// ClientStore persists clients and their accounts.
type ClientStore interface {
	SaveClient(ctx context.Context, c client.Client) (client.Client, error)
	GetClientByID(ctx context.Context, id string) (client.Client, error)
	GetClientByUsername(ctx context.Context, username string) (client.Client, error)
	ListClients(ctx context.Context) ([]client.Client, error)
	AddAccount(ctx context.Context, clientID string, acct client.Account) (client.Account, error)

	// ApplyTransfer debits fromAccount and credits toAccount as one atomic
	// unit. Partial application is never observable; concurrent transfers
	// touching either account serialise on per-account locks.
	ApplyTransfer(ctx context.Context, fromAccount, toAccount string, amount decimal.Decimal) error
}
