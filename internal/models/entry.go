package models

import (
	"time"

	"github.com/sheikh-saqib/bank-ledger-system/internal/money"
)

// AccountEntry is a single account's projection of a journal transaction.
// AmountSigned is positive for a credit to the account and negative for a
// debit; Counterparty names the account on the other side and is empty for
// cash deposits.
type AccountEntry struct {
	TransactionID int64           `json:"transaction_id"`
	Sequence      int64           `json:"sequence"`
	Timestamp     time.Time       `json:"timestamp"`
	Kind          TransactionKind `json:"kind"`
	AccountID     string          `json:"account_id"`
	AmountSigned  money.Amount    `json:"amount_signed"`
	Counterparty  string          `json:"counterparty,omitempty"`
	Purpose       string          `json:"purpose,omitempty"`
}

// EntriesFor derives the per-account entries a transaction posts.
// A cash deposit produces a single unbalanced credit on the destination;
// every other kind produces a debit on the source and a matching credit on
// the destination, so the signed amounts sum to zero.
func EntriesFor(tx Transaction) []AccountEntry {
	if tx.Kind == KindCashDeposit {
		return []AccountEntry{{
			TransactionID: tx.ID,
			Sequence:      tx.Sequence,
			Timestamp:     tx.Timestamp,
			Kind:          tx.Kind,
			AccountID:     tx.To,
			AmountSigned:  tx.Amount,
			Purpose:       tx.Purpose,
		}}
	}
	return []AccountEntry{
		{
			TransactionID: tx.ID,
			Sequence:      tx.Sequence,
			Timestamp:     tx.Timestamp,
			Kind:          tx.Kind,
			AccountID:     tx.From,
			AmountSigned:  tx.Amount.Neg(),
			Counterparty:  tx.To,
			Purpose:       tx.Purpose,
		},
		{
			TransactionID: tx.ID,
			Sequence:      tx.Sequence,
			Timestamp:     tx.Timestamp,
			Kind:          tx.Kind,
			AccountID:     tx.To,
			AmountSigned:  tx.Amount,
			Counterparty:  tx.From,
			Purpose:       tx.Purpose,
		},
	}
}
