package ledger

import (
	"errors"
	"testing"

	"github.com/sheikh-saqib/bank-ledger-system/internal/models"
	"github.com/sheikh-saqib/bank-ledger-system/internal/money"
)

// These tests corrupt bank state directly; the public API cannot produce a
// malformed journal, which is the point of the posting discipline.

func TestAuditDetectsMalformedTransferShape(t *testing.T) {
	b := NewBank()
	id, err := b.OpenAccount(TypeYouth, "", AccountParams{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := b.DepositCash(id, money.FromInt(10), ""); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	b.journal = append(b.journal, models.Transaction{
		ID:       99,
		Sequence: 99,
		Kind:     models.KindTransfer,
		To:       id,
		Amount:   money.FromInt(5),
	})

	if err := b.AuditJournal(); !errors.Is(err, ErrJournalInconsistent) {
		t.Fatalf("audit err = %v, want ErrJournalInconsistent", err)
	}
}

func TestAuditDetectsMalformedDepositShape(t *testing.T) {
	b := NewBank()
	id, err := b.OpenAccount(TypeYouth, "", AccountParams{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	b.journal = append(b.journal, models.Transaction{
		ID:       99,
		Sequence: 99,
		Kind:     models.KindCashDeposit,
		From:     b.feeIncomeID,
		To:       id,
		Amount:   money.FromInt(5),
	})

	if err := b.AuditJournal(); !errors.Is(err, ErrJournalInconsistent) {
		t.Fatalf("audit err = %v, want ErrJournalInconsistent", err)
	}
}

func TestAuditDetectsBrokenBalanceIdentity(t *testing.T) {
	b := NewBank()
	id, err := b.OpenAccount(TypeYouth, "", AccountParams{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	txID, err := b.DepositCash(id, money.FromInt(10), "")
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}

	// An extra entry without the matching balance update breaks the
	// balance == sum(entries) identity.
	account := b.accounts[id].(*YouthAccount)
	account.entries = append(account.entries, models.AccountEntry{
		TransactionID: txID,
		Sequence:      1,
		Kind:          models.KindCashDeposit,
		AccountID:     id,
		AmountSigned:  money.FromInt(7),
	})

	if err := b.AuditJournal(); !errors.Is(err, ErrJournalInconsistent) {
		t.Fatalf("audit err = %v, want ErrJournalInconsistent", err)
	}
}
