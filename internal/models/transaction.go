package models

import (
	"time"

	"github.com/sheikh-saqib/bank-ledger-system/internal/money"
)

// TransactionKind classifies a journal transaction.
type TransactionKind string

const (
	KindCashDeposit TransactionKind = "CASH_DEPOSIT"
	KindTransfer    TransactionKind = "TRANSFER"
	KindFee         TransactionKind = "FEE"
	KindInterest    TransactionKind = "INTEREST"
)

// Transaction is one immutable record in the bank-wide journal.
// ID and Sequence are assigned together when the transaction commits;
// Sequence defines the total commit order across the whole ledger.
// From is empty for cash deposits, which have no counter-account.
type Transaction struct {
	ID        int64           `json:"id"`
	Sequence  int64           `json:"sequence"`
	Timestamp time.Time       `json:"timestamp"`
	Kind      TransactionKind `json:"kind"`
	From      string          `json:"from_account,omitempty"`
	To        string          `json:"to_account"`
	Amount    money.Amount    `json:"amount"`
	Purpose   string          `json:"purpose,omitempty"`
}
