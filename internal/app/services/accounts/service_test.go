package accounts

import (
	"context"
	"errors"
	"testing"

	"github.com/bankapp/transfer_service/internal/app/domain/client"
	"github.com/bankapp/transfer_service/internal/app/metrics"
	"github.com/bankapp/transfer_service/internal/app/storage"
	"github.com/bankapp/transfer_service/internal/app/storage/memory"
)

func TestService_Create(t *testing.T) {
	store := memory.New()
	owner, err := store.SaveClient(context.Background(), client.Client{Username: "user1", FullName: "First User"})
	if err != nil {
		t.Fatalf("save client: %v", err)
	}

	svc := New(store, nil)
	acct, err := svc.Create(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if acct.AccountNumber == "" || len(acct.CardNumber) != 16 {
		t.Fatalf("account identifiers not generated: %+v", acct)
	}
	if !acct.Balance.IsZero() {
		t.Fatalf("new account should open at zero, got %s", acct.Balance)
	}

	reloaded, err := store.GetClientByID(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("reload client: %v", err)
	}
	if len(reloaded.Accounts) != 1 {
		t.Fatalf("account not attached: %+v", reloaded.Accounts)
	}

	if n := metrics.ActiveCreations(); n != 0 {
		t.Fatalf("active creations gauge not released: %d", n)
	}
}

func TestService_CreateUnknownClient(t *testing.T) {
	svc := New(memory.New(), nil)

	_, err := svc.Create(context.Background(), "missing")
	if !errors.Is(err, storage.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
	if n := metrics.ActiveCreations(); n != 0 {
		t.Fatalf("active creations gauge not released on failure: %d", n)
	}
}
