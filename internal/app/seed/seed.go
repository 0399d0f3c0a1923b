// Package seed generates demonstration clients and accounts at startup.
package seed

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"

	"github.com/bankapp/transfer_service/internal/app/domain/client"
	"github.com/bankapp/transfer_service/internal/app/storage"
	"github.com/bankapp/transfer_service/pkg/logger"
)

// Registrar registers seeded users with the external auth service.
type Registrar interface {
	Register(ctx context.Context, fullName, phone, username, password string) error
}

// Run creates n clients (user1..userN with pass1..passN), each holding one to
// three accounts with an opening balance between 1000 and 10000 whole units.
// Auth registration is best effort: failures are logged, not fatal, so the
// service still starts when the auth oracle is down.
func Run(ctx context.Context, store storage.ClientStore, registrar Registrar, n int, log *logger.Logger) error {
	if log == nil {
		log = logger.NewDefault("seed")
	}
	log.Info("generating demonstration data")

	for i := 1; i <= n; i++ {
		fullName := gofakeit.Name()
		phone := fmt.Sprintf("+79%09d", rand.Intn(900000000)+100000000)
		username := fmt.Sprintf("user%d", i)
		password := fmt.Sprintf("pass%d", i)

		if registrar != nil {
			if err := registrar.Register(ctx, fullName, phone, username, password); err != nil {
				log.WithError(err).WithField("username", username).Warn("auth registration failed")
			}
		}

		accounts := make([]client.Account, 0, 3)
		for j := 0; j < rand.Intn(3)+1; j++ {
			balance := decimal.NewFromInt(int64(rand.Intn(9000) + 1000))
			accounts = append(accounts, client.NewAccount(balance))
		}

		saved, err := store.SaveClient(ctx, client.Client{
			Username: username,
			FullName: fullName,
			Phone:    phone,
			Password: password,
			Accounts: accounts,
		})
		if err != nil {
			return fmt.Errorf("seed client %s: %w", username, err)
		}

		log.WithField("username", saved.Username).
			WithField("accounts", len(saved.Accounts)).
			Info("client created")
	}

	log.Info("demonstration data ready")
	return nil
}
