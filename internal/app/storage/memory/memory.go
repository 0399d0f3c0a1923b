// Package memory provides the in-memory client store. It is safe for
// concurrent use; the process holds no other persistence.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bankapp/transfer_service/internal/app/domain/client"
	"github.com/bankapp/transfer_service/internal/app/storage"
)

// Store is an in-memory implementation of storage.ClientStore.
type Store struct {
	mu           sync.RWMutex
	clients      map[string]client.Client // keyed by client ID
	idByUsername map[string]string
	idByAccount  map[string]string // account number -> owning client ID

	// One lock per account number. Transfers acquire both ends in account
	// number order so mirror-image transfers cannot deadlock.
	accountLocks map[string]*sync.Mutex
}

var _ storage.ClientStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		clients:      make(map[string]client.Client),
		idByUsername: make(map[string]string),
		idByAccount:  make(map[string]string),
		accountLocks: make(map[string]*sync.Mutex),
	}
}

// SaveClient stores a new client. Usernames are unique.
func (s *Store) SaveClient(_ context.Context, c client.Client) (client.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, exists := s.clients[c.ID]; exists {
		return client.Client{}, fmt.Errorf("client %s already exists", c.ID)
	}
	if _, exists := s.idByUsername[c.Username]; exists {
		return client.Client{}, fmt.Errorf("username %s already taken", c.Username)
	}

	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Accounts = cloneAccounts(c.Accounts)

	s.clients[c.ID] = c
	s.idByUsername[c.Username] = c.ID
	for _, acct := range c.Accounts {
		s.idByAccount[acct.AccountNumber] = c.ID
		s.accountLocks[acct.AccountNumber] = &sync.Mutex{}
	}
	return cloneClient(c), nil
}

// GetClientByID retrieves a client by its identifier.
func (s *Store) GetClientByID(_ context.Context, id string) (client.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.clients[id]
	if !ok {
		return client.Client{}, fmt.Errorf("client %s: %w", id, storage.ErrClientNotFound)
	}
	return cloneClient(c), nil
}

// GetClientByUsername retrieves a client by login.
func (s *Store) GetClientByUsername(_ context.Context, username string) (client.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.idByUsername[username]
	if !ok {
		return client.Client{}, fmt.Errorf("client %s: %w", username, storage.ErrClientNotFound)
	}
	return cloneClient(s.clients[id]), nil
}

// ListClients returns a snapshot copy of every client, ordered by username.
func (s *Store) ListClients(_ context.Context) ([]client.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]client.Client, 0, len(s.clients))
	for _, c := range s.clients {
		result = append(result, cloneClient(c))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	return result, nil
}

// AddAccount appends an account to an existing client.
func (s *Store) AddAccount(_ context.Context, clientID string, acct client.Account) (client.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[clientID]
	if !ok {
		return client.Account{}, fmt.Errorf("client %s: %w", clientID, storage.ErrClientNotFound)
	}
	if acct.AccountNumber == "" {
		acct = client.NewAccount(acct.Balance)
	}
	if _, exists := s.idByAccount[acct.AccountNumber]; exists {
		return client.Account{}, fmt.Errorf("account %s already exists", acct.AccountNumber)
	}

	c.Accounts = append(c.Accounts, acct)
	c.UpdatedAt = time.Now().UTC()
	s.clients[clientID] = c
	s.idByAccount[acct.AccountNumber] = clientID
	s.accountLocks[acct.AccountNumber] = &sync.Mutex{}
	return acct, nil
}

// ApplyTransfer moves amount from one account to the other, or does nothing.
func (s *Store) ApplyTransfer(_ context.Context, fromAccount, toAccount string, amount decimal.Decimal) error {
	s.mu.RLock()
	fromLock, fromOK := s.accountLocks[fromAccount]
	toLock, toOK := s.accountLocks[toAccount]
	s.mu.RUnlock()

	if !fromOK {
		return fmt.Errorf("account %s: %w", fromAccount, storage.ErrAccountNotFound)
	}
	if !toOK {
		return fmt.Errorf("account %s: %w", toAccount, storage.ErrAccountNotFound)
	}

	first, second := fromLock, toLock
	if toAccount < fromAccount {
		first, second = toLock, fromLock
	}
	first.Lock()
	defer first.Unlock()
	if second != first {
		second.Lock()
		defer second.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fromOwner, ok := s.idByAccount[fromAccount]
	if !ok {
		return fmt.Errorf("account %s: %w", fromAccount, storage.ErrAccountNotFound)
	}
	toOwner, ok := s.idByAccount[toAccount]
	if !ok {
		return fmt.Errorf("account %s: %w", toAccount, storage.ErrAccountNotFound)
	}

	sender := s.clients[fromOwner]
	recipient := s.clients[toOwner]
	if fromOwner == toOwner {
		recipient = sender
	}

	fromIdx := accountIndex(sender.Accounts, fromAccount)
	toIdx := accountIndex(recipient.Accounts, toAccount)
	if fromIdx < 0 {
		return fmt.Errorf("account %s: %w", fromAccount, storage.ErrAccountNotFound)
	}
	if toIdx < 0 {
		return fmt.Errorf("account %s: %w", toAccount, storage.ErrAccountNotFound)
	}

	if sender.Accounts[fromIdx].Balance.LessThan(amount) {
		return fmt.Errorf("account %s: %w", fromAccount, storage.ErrInsufficientFunds)
	}

	sender.Accounts[fromIdx].Balance = sender.Accounts[fromIdx].Balance.Sub(amount)
	recipient.Accounts[toIdx].Balance = recipient.Accounts[toIdx].Balance.Add(amount)

	now := time.Now().UTC()
	sender.UpdatedAt = now
	recipient.UpdatedAt = now
	s.clients[fromOwner] = sender
	s.clients[toOwner] = recipient
	return nil
}

func accountIndex(accounts []client.Account, number string) int {
	for i, acct := range accounts {
		if acct.AccountNumber == number {
			return i
		}
	}
	return -1
}

func cloneClient(c client.Client) client.Client {
	c.Accounts = cloneAccounts(c.Accounts)
	return c
}

func cloneAccounts(accounts []client.Account) []client.Account {
	return append([]client.Account(nil), accounts...)
}
