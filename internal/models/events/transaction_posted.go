package events

import (
	"time"

	"github.com/sheikh-saqib/bank-ledger-system/internal/money"
)

// TransactionPosted is emitted after a ledger transaction has committed.
type TransactionPosted struct {
	TransactionID int64        `json:"transaction_id"`
	Sequence      int64        `json:"sequence"`
	Kind          string       `json:"kind"`
	FromAccount   string       `json:"from_account,omitempty"`
	ToAccount     string       `json:"to_account"`
	Amount        money.Amount `json:"amount"`
	OccurredAt    time.Time    `json:"occurred_at"`
}
