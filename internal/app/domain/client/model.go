// Package client defines the bank client and account models.
package client

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is a single balance-holding account owned by a client. Balances are
// decimal; binary floats never touch money.
type Account struct {
	AccountNumber string          `json:"account_number"`
	CardNumber    string          `json:"card_number"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Client is a bank customer. Identity fields are immutable after creation;
// only account balances change.
type Client struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Password  string    `json:"-"`
	Accounts  []Account `json:"accounts"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAccountNumber generates a short account number, twelve hex characters.
func NewAccountNumber() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// NewCardNumber generates a sixteen-digit card number.
func NewCardNumber() string {
	id := uuid.New()
	digits := make([]byte, 16)
	for i, b := range id[:16] {
		digits[i] = '0' + b%10
	}
	return string(digits)
}

// NewAccount creates an account with fresh identifiers and the given opening
// balance.
func NewAccount(balance decimal.Decimal) Account {
	return Account{
		AccountNumber: NewAccountNumber(),
		CardNumber:    NewCardNumber(),
		Balance:       balance,
		CreatedAt:     time.Now().UTC(),
	}
}
