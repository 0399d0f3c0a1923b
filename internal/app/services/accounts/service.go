// Package accounts opens new accounts for existing clients.
package accounts

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bankapp/transfer_service/internal/app/domain/client"
	"github.com/bankapp/transfer_service/internal/app/metrics"
	"github.com/bankapp/transfer_service/internal/app/storage"
	"github.com/bankapp/transfer_service/pkg/logger"
)

// Service creates accounts.
type Service struct {
	store storage.ClientStore
	log   *logger.Logger
}

// New creates the accounts service.
func New(store storage.ClientStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("accounts")
	}
	return &Service{store: store, log: log}
}

// Create opens a zero-balance account for the client.
func (s *Service) Create(ctx context.Context, clientID string) (client.Account, error) {
	metrics.IncAccountCreateCalls()
	metrics.IncActiveCreations()
	defer metrics.DecActiveCreations()

	var acct client.Account
	err := metrics.Timed(metrics.AccountCreateDuration, func() error {
		created, err := s.store.AddAccount(ctx, clientID, client.NewAccount(decimal.Zero))
		if err != nil {
			return fmt.Errorf("add account: %w", err)
		}
		acct = created
		return nil
	})
	if err != nil {
		return client.Account{}, err
	}

	s.log.WithField("account", acct.AccountNumber).Info("account created")
	return acct, nil
}
