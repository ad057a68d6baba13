package ledger

import (
	"fmt"

	"github.com/sheikh-saqib/bank-ledger-system/internal/models"
	"github.com/sheikh-saqib/bank-ledger-system/internal/money"
)

// AuditJournal runs the bank's consistency checks over the whole journal:
//
//   - every CASH_DEPOSIT has no source and a destination; every other kind
//     has both sides set,
//   - for every balanced transaction the signed amounts booked against the
//     involved accounts sum to exactly zero,
//   - every account's stored balance equals the running sum of its entries.
//
// The first violation is reported wrapping ErrJournalInconsistent with the
// offending transaction or account id.
func (b *Bank) AuditJournal() error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	// Signed sums per transaction, rebuilt from the account journals rather
	// than from the transaction records, so a divergence between the two
	// shows up.
	sums := make(map[int64]money.Amount)
	for _, account := range b.accounts {
		total := money.Zero()
		for _, e := range account.Entries() {
			total = total.Add(e.AmountSigned)
			if e.Kind != models.KindCashDeposit {
				sums[e.TransactionID] = sums[e.TransactionID].Add(e.AmountSigned)
			}
		}
		if !total.Equal(account.Balance()) {
			return fmt.Errorf("%w: account %q balance %s does not match entry sum %s",
				ErrJournalInconsistent, account.ID(), account.Balance(), total)
		}
	}

	for _, tx := range b.journal {
		if tx.Kind == models.KindCashDeposit {
			if tx.From != "" || tx.To == "" {
				return fmt.Errorf("%w: malformed CASH_DEPOSIT #%d", ErrJournalInconsistent, tx.ID)
			}
			continue
		}
		if tx.From == "" || tx.To == "" {
			return fmt.Errorf("%w: transaction #%d is missing from/to", ErrJournalInconsistent, tx.ID)
		}
		sum, ok := sums[tx.ID]
		if !ok {
			return fmt.Errorf("%w: transaction #%d has no account entries", ErrJournalInconsistent, tx.ID)
		}
		if !sum.IsZero() {
			return fmt.Errorf("%w: transaction #%d entries sum to %s, want 0.00",
				ErrJournalInconsistent, tx.ID, sum)
		}
	}
	return nil
}
