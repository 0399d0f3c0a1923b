// Package transfer implements the two-phase transfer protocol: select a
// recipient, then move money, with the auth oracle consulted before each step.
package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bankapp/transfer_service/internal/app/domain/client"
	"github.com/bankapp/transfer_service/internal/app/metrics"
	"github.com/bankapp/transfer_service/internal/app/storage"
	"github.com/bankapp/transfer_service/pkg/logger"
)

// AuthGateway answers whether the current caller is logged in and who they
// are. Both calls are blocking network round-trips; the service never makes
// them while holding session or account locks.
type AuthGateway interface {
	IsAuthenticated(ctx context.Context) (bool, error)
	CurrentUser(ctx context.Context) (string, error)
}

// Service drives the select-then-transfer protocol.
type Service struct {
	store    storage.ClientStore
	auth     AuthGateway
	sessions *sessionStore
	log      *logger.Logger
}

// New creates the transfer service.
func New(store storage.ClientStore, gateway AuthGateway, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("transfer")
	}
	return &Service{
		store:    store,
		auth:     gateway,
		sessions: newSessionStore(),
		log:      log,
	}
}

// ListClients returns a snapshot of all clients.
func (s *Service) ListClients(ctx context.Context) ([]client.Client, error) {
	metrics.IncClientsCalls()

	var clients []client.Client
	err := metrics.Timed(metrics.ClientsDuration, func() error {
		var err error
		clients, err = s.store.ListClients(ctx)
		return err
	})
	return clients, err
}

// SelectRecipient resolves and pins the transfer recipient for the caller.
func (s *Service) SelectRecipient(ctx context.Context, username, accountNumber string) (string, error) {
	metrics.IncSelectRecipientCalls()

	var confirmation string
	err := metrics.Timed(metrics.SelectRecipientDuration, func() error {
		logged, err := s.auth.IsAuthenticated(ctx)
		if err != nil {
			return err
		}
		if !logged {
			return ErrUnauthenticated
		}

		caller, err := s.auth.CurrentUser(ctx)
		if err != nil {
			return err
		}

		recipient, err := s.store.GetClientByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, storage.ErrClientNotFound) {
				return ErrRecipientNotFound
			}
			return err
		}

		// First match wins; duplicate numbers are not expected but not
		// rejected either.
		var acct *client.Account
		for i := range recipient.Accounts {
			if recipient.Accounts[i].AccountNumber == accountNumber {
				acct = &recipient.Accounts[i]
				break
			}
		}
		if acct == nil {
			return ErrRecipientAccountNotFound
		}

		s.sessions.set(caller, selection{
			RecipientUsername: recipient.Username,
			RecipientName:     recipient.FullName,
			AccountNumber:     acct.AccountNumber,
		})

		confirmation = fmt.Sprintf("Recipient selected: %s (%s), account %s",
			recipient.FullName, recipient.Username, acct.AccountNumber)
		return nil
	})
	if err != nil {
		return "", err
	}
	return confirmation, nil
}

// Transfer moves amount from the caller's first account to the previously
// selected recipient account.
func (s *Service) Transfer(ctx context.Context, amount decimal.Decimal) (string, error) {
	metrics.IncTransferCalls()
	metrics.IncCurrentTransfers()
	// Released exactly once, on every exit path.
	defer metrics.DecCurrentTransfers()

	var confirmation string
	err := metrics.Timed(metrics.TransferDuration, func() error {
		if !amount.IsPositive() {
			return ErrInvalidAmount
		}

		logged, err := s.auth.IsAuthenticated(ctx)
		if err != nil {
			return err
		}
		if !logged {
			return ErrUnauthenticated
		}

		caller, err := s.auth.CurrentUser(ctx)
		if err != nil {
			return err
		}

		sel, ok := s.sessions.get(caller)
		if !ok {
			return ErrRecipientNotSelected
		}

		sender, err := s.store.GetClientByUsername(ctx, caller)
		if err != nil {
			if errors.Is(err, storage.ErrClientNotFound) {
				s.log.WithField("username", caller).
					Error("authenticated user missing from client directory")
				return fmt.Errorf("%w: authenticated user %q has no directory entry", ErrInternal, caller)
			}
			return err
		}

		if len(sender.Accounts) == 0 {
			return ErrNoSenderAccount
		}
		from := sender.Accounts[0].AccountNumber

		if err := s.store.ApplyTransfer(ctx, from, sel.AccountNumber, amount); err != nil {
			switch {
			case errors.Is(err, storage.ErrInsufficientFunds):
				return ErrInsufficientFunds
			case errors.Is(err, storage.ErrAccountNotFound):
				// The selected account no longer resolves; the selection is
				// stale, so drop it.
				s.sessions.clear(caller)
				return ErrRecipientNotSelected
			}
			return err
		}

		confirmation = fmt.Sprintf("Transfer complete! %s sent to account %s",
			amount.String(), sel.AccountNumber)
		return nil
	})
	if err != nil {
		return "", err
	}
	return confirmation, nil
}
