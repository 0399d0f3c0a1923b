package transfer

import "errors"

// Business-rule failures. Each maps to a distinct caller-visible outcome; the
// HTTP layer owns the status codes and wording.
var (
	// ErrUnauthenticated means the auth oracle definitively said "not logged
	// in". Transport failures surface as auth.ErrUnavailable instead.
	ErrUnauthenticated = errors.New("caller is not authenticated")

	// ErrInvalidAmount rejects non-positive transfer amounts.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrRecipientNotFound means the requested recipient username is unknown.
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrRecipientAccountNotFound means the recipient exists but owns no
	// account with the requested number.
	ErrRecipientAccountNotFound = errors.New("recipient has no such account")

	// ErrRecipientNotSelected means transfer was called before a successful
	// select-recipient. A sequencing error, not bad data.
	ErrRecipientNotSelected = errors.New("no recipient selected")

	// ErrNoSenderAccount means the authenticated caller owns no accounts.
	ErrNoSenderAccount = errors.New("sender has no account")

	// ErrInsufficientFunds means the sender's first account cannot cover the
	// amount.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInternal marks internal-consistency breaks, such as an authenticated
	// identity missing from the client directory. Logged and surfaced as a
	// generic server error.
	ErrInternal = errors.New("internal inconsistency")
)
