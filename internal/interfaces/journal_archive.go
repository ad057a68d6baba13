package interfaces

import (
	"context"

	"github.com/sheikh-saqib/bank-ledger-system/internal/ledger"
	"github.com/sheikh-saqib/bank-ledger-system/internal/models"
)

// JournalArchive is an append-only external record of opened accounts and
// committed transactions. It is the sole source of truth for rebuilding a
// bank: accounts are re-opened and transactions replayed in sequence order.
type JournalArchive interface {
	ledger.TransactionSource

	SaveAccount(ctx context.Context, rec ledger.AccountRecord) error
	SaveTransaction(ctx context.Context, tx models.Transaction, entries []models.AccountEntry) error
}
