// Package app ties the domain services together.
package app

import (
	"github.com/bankapp/transfer_service/internal/app/services/accounts"
	"github.com/bankapp/transfer_service/internal/app/services/greeter"
	"github.com/bankapp/transfer_service/internal/app/services/transfer"
	"github.com/bankapp/transfer_service/internal/app/storage"
	"github.com/bankapp/transfer_service/internal/app/storage/memory"
	"github.com/bankapp/transfer_service/pkg/logger"
)

// Application bundles the service layer. A nil store defaults to the
// in-memory implementation.
type Application struct {
	log *logger.Logger

	Store     storage.ClientStore
	Transfers *transfer.Service
	Accounts  *accounts.Service
	Greeter   *greeter.Service
}

// New builds a fully initialised application.
func New(store storage.ClientStore, gateway transfer.AuthGateway, log *logger.Logger) *Application {
	if log == nil {
		log = logger.NewDefault("app")
	}
	if store == nil {
		store = memory.New()
	}

	return &Application{
		log:       log,
		Store:     store,
		Transfers: transfer.New(store, gateway, log),
		Accounts:  accounts.New(store, log),
		Greeter:   greeter.New(log),
	}
}
