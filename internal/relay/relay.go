package relay

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/sheikh-saqib/bank-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/bank-ledger-system/internal/ledger"
	"github.com/sheikh-saqib/bank-ledger-system/internal/models"
	"github.com/sheikh-saqib/bank-ledger-system/internal/models/events"
)

// Relay forwards newly committed transactions out of the bank: into the
// journal archive and, when a publisher is configured, onto the event
// stream. The bank itself never performs I/O; the relay drains its journal
// through JournalSince after the fact, outside the bank's locks.
type Relay struct {
	bank      *ledger.Bank
	archive   interfaces.JournalArchive
	publisher interfaces.EventPublisher
	topic     string
	log       *zap.Logger

	mu     sync.Mutex
	cursor int64
}

// New creates a relay starting at the bank's current last sequence, so
// transactions already present (for example after a restore) are not
// forwarded again. publisher may be nil.
func New(bank *ledger.Bank, archive interfaces.JournalArchive, publisher interfaces.EventPublisher, topic string, log *zap.Logger) *Relay {
	return &Relay{
		bank:      bank,
		archive:   archive,
		publisher: publisher,
		topic:     topic,
		log:       log,
		cursor:    bank.LastSequence(),
	}
}

// RecordAccount forwards a newly opened account to the archive.
func (r *Relay) RecordAccount(ctx context.Context, rec ledger.AccountRecord) error {
	if err := r.archive.SaveAccount(ctx, rec); err != nil {
		return fmt.Errorf("archive account %q: %w", rec.ID, err)
	}
	return nil
}

// Drain archives and publishes every transaction committed since the last
// drain. Archiving failures stop the drain with the cursor unmoved past the
// failed transaction, so the next drain retries it; publish failures are
// logged and do not block archiving.
func (r *Relay) Drain(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, tx := range r.bank.JournalSince(r.cursor) {
		if err := r.archive.SaveTransaction(ctx, tx, models.EntriesFor(tx)); err != nil {
			return fmt.Errorf("archive transaction %d: %w", tx.ID, err)
		}
		r.cursor = tx.Sequence

		if r.publisher == nil {
			continue
		}
		event := events.TransactionPosted{
			TransactionID: tx.ID,
			Sequence:      tx.Sequence,
			Kind:          string(tx.Kind),
			FromAccount:   tx.From,
			ToAccount:     tx.To,
			Amount:        tx.Amount,
			OccurredAt:    tx.Timestamp,
		}
		if err := r.publisher.Publish(r.topic, event); err != nil {
			r.log.Warn("publish transaction event failed",
				zap.Int64("transaction_id", tx.ID), zap.Error(err))
		}
	}
	return nil
}
