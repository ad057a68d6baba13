package ledger

import "errors"

// Every failure the bank surfaces wraps one of these sentinels, so callers
// branch with errors.Is rather than matching message text.
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountClosed       = errors.New("account is closed")
	ErrDuplicateAccountID  = errors.New("account id already exists")
	ErrUnknownAccountType  = errors.New("unknown account type")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInsufficientFunds   = errors.New("insufficient funds or overdraft limit")
	ErrSameAccountTransfer = errors.New("transfer to the same account is not allowed")
	ErrAccountNotClosable  = errors.New("account cannot be closed")
	ErrJournalInconsistent = errors.New("journal inconsistency")
)
