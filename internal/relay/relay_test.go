package relay

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/sheikh-saqib/bank-ledger-system/internal/ledger"
	"github.com/sheikh-saqib/bank-ledger-system/internal/models"
	"github.com/sheikh-saqib/bank-ledger-system/internal/money"
	"github.com/sheikh-saqib/bank-ledger-system/internal/storage/memory"
)

type capturePublisher struct {
	events []any
	fail   bool
}

func (p *capturePublisher) Publish(_ string, event any) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.events = append(p.events, event)
	return nil
}

type failingArchive struct {
	*memory.Archive
	failAfter int
	saved     int
}

func (a *failingArchive) SaveTransaction(ctx context.Context, tx models.Transaction, entries []models.AccountEntry) error {
	if a.saved >= a.failAfter {
		return errors.New("archive down")
	}
	a.saved++
	return a.Archive.SaveTransaction(ctx, tx, entries)
}

func seedBank(t *testing.T) (*ledger.Bank, string, string) {
	t.Helper()
	b := ledger.NewBank()
	from, err := b.OpenAccount(ledger.TypePrivate, "", ledger.AccountParams{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	to, err := b.OpenAccount(ledger.TypeYouth, "", ledger.AccountParams{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := b.DepositCash(from, money.FromInt(100), ""); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	return b, from, to
}

func TestDrainForwardsCommittedTransactionsOnce(t *testing.T) {
	ctx := context.Background()
	bank, from, to := seedBank(t)
	archive := memory.NewArchive()
	pub := &capturePublisher{}
	r := New(bank, archive, pub, "ledger.transactions", zap.NewNop())

	if _, err := bank.Transfer(from, to, money.FromInt(10), ""); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if err := r.Drain(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}

	// Deposit + transfer + fee.
	txs, _ := archive.LoadTransactions(ctx)
	if len(txs) != 3 {
		t.Fatalf("archived = %d transactions, want 3", len(txs))
	}
	if len(pub.events) != 3 {
		t.Fatalf("published = %d events, want 3", len(pub.events))
	}

	// A second drain with nothing new is a no-op.
	if err := r.Drain(ctx); err != nil {
		t.Fatalf("second drain: %v", err)
	}
	if txs, _ = archive.LoadTransactions(ctx); len(txs) != 3 {
		t.Fatalf("second drain duplicated transactions: %d", len(txs))
	}
}

func TestDrainRetriesAfterArchiveFailure(t *testing.T) {
	ctx := context.Background()
	bank, from, to := seedBank(t)
	archive := &failingArchive{Archive: memory.NewArchive(), failAfter: 1}
	r := New(bank, archive, nil, "", zap.NewNop())

	if _, err := bank.Transfer(from, to, money.FromInt(10), ""); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	// First drain archives the deposit, then fails on the transfer.
	if err := r.Drain(ctx); err == nil {
		t.Fatal("expected drain to fail")
	}
	txs, _ := archive.LoadTransactions(ctx)
	if len(txs) != 1 {
		t.Fatalf("archived = %d transactions, want 1 before failure", len(txs))
	}

	// After the archive recovers, the next drain picks up where it stopped.
	archive.failAfter = 100
	if err := r.Drain(ctx); err != nil {
		t.Fatalf("drain after recovery: %v", err)
	}
	if txs, _ = archive.LoadTransactions(ctx); len(txs) != 3 {
		t.Fatalf("archived = %d transactions after recovery, want 3", len(txs))
	}
}

func TestPublishFailureDoesNotBlockArchiving(t *testing.T) {
	ctx := context.Background()
	bank, from, to := seedBank(t)
	archive := memory.NewArchive()
	r := New(bank, archive, &capturePublisher{fail: true}, "", zap.NewNop())

	if _, err := bank.Transfer(from, to, money.FromInt(10), ""); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if err := r.Drain(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if txs, _ := archive.LoadTransactions(ctx); len(txs) != 3 {
		t.Fatalf("archived = %d transactions, want 3 despite publish failures", len(txs))
	}
}

func TestRelayStartsAtRestoredSequence(t *testing.T) {
	ctx := context.Background()
	bank, _, _ := seedBank(t)
	archive := memory.NewArchive()
	r := New(bank, archive, nil, "", zap.NewNop())

	// The deposit was committed before the relay existed, so it is treated
	// as already persisted.
	if err := r.Drain(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if txs, _ := archive.LoadTransactions(ctx); len(txs) != 0 {
		t.Fatalf("archived = %d transactions, want 0", len(txs))
	}
}
