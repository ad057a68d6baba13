package memory

import (
	"context"
	"sync"

	"github.com/sheikh-saqib/bank-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/bank-ledger-system/internal/ledger"
	"github.com/sheikh-saqib/bank-ledger-system/internal/models"
)

// Archive is an in-memory journal archive. It backs the service when no
// database is configured and the tests everywhere else.
type Archive struct {
	mu           sync.Mutex
	accounts     []ledger.AccountRecord
	transactions []models.Transaction
	entries      []models.AccountEntry
}

func NewArchive() *Archive {
	return &Archive{}
}

func (a *Archive) SaveAccount(_ context.Context, rec ledger.AccountRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.accounts = append(a.accounts, rec)
	return nil
}

func (a *Archive) SaveTransaction(_ context.Context, tx models.Transaction, entries []models.AccountEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.transactions = append(a.transactions, tx)
	a.entries = append(a.entries, entries...)
	return nil
}

func (a *Archive) LoadAccounts(context.Context) ([]ledger.AccountRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]ledger.AccountRecord, len(a.accounts))
	copy(out, a.accounts)
	return out, nil
}

// LoadTransactions returns a copy of the archived transactions. They were
// appended in commit order, which is sequence order.
func (a *Archive) LoadTransactions(context.Context) ([]models.Transaction, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]models.Transaction, len(a.transactions))
	copy(out, a.transactions)
	return out, nil
}

// Entries returns a copy of every archived account entry, for inspection.
func (a *Archive) Entries() []models.AccountEntry {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]models.AccountEntry, len(a.entries))
	copy(out, a.entries)
	return out
}

var _ interfaces.JournalArchive = (*Archive)(nil)
