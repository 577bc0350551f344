package ledger

import "errors"

// These errors are returned by PayInvoice when one of the six ordered
// checks fails. The message text is part of the observable contract for
// clients, so these are fixed strings rather than free-form wraps.
var (
	ErrInvoiceInvalid     = errors.New("invoice not found")
	ErrInvoiceAlreadyPaid = errors.New("invoice already paid")
	ErrInvoiceWrongAgent  = errors.New("Invoice belongs to another agent")
	ErrAgentNotFound      = errors.New("agent not found")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrBudgetExceeded     = errors.New("Budget cap exceeded")
)
