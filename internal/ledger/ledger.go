package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/bank-ledger-system/internal/models"
	"github.com/sheikh-saqib/bank-ledger-system/internal/money"
)

// Built-in account type names and the ids of the bank-owned accounts that
// absorb fees and fund interest.
const (
	TypeYouth   = "youth"
	TypePrivate = "private"
	TypeSavings = "savings"

	FeeIncomeAccountID       = "BANK:FEE_INCOME"
	InterestExpenseAccountID = "BANK:INTEREST_EXPENSE"
)

// AccountParams carries the kind-specific options accepted by the built-in
// factories. Nil fields fall back to the kind's defaults; kinds ignore
// fields they do not understand.
type AccountParams struct {
	OverdraftLimit *money.Amount
	FeePercent     *decimal.Decimal
	MinFee         *money.Amount
	RatePerPeriod  *decimal.Decimal
}

// AccountFactory constructs an account of one registered kind.
type AccountFactory func(id string, params AccountParams) (Account, error)

// AccountRecord describes an opened account for external persistence, so a
// bank can be rebuilt by re-opening accounts and replaying the journal.
type AccountRecord struct {
	ID     string
	Kind   string
	Params AccountParams
}

// TransactionSource yields the state needed to rebuild a bank: the accounts
// that were opened and every committed transaction in sequence order.
type TransactionSource interface {
	LoadAccounts(ctx context.Context) ([]AccountRecord, error)
	LoadTransactions(ctx context.Context) ([]models.Transaction, error)
}

// Bank owns every account and the append-only bank-wide journal. All state
// is guarded by a single RWMutex: mutating operations take the write lock
// for validation through posting, so a transaction's full effect becomes
// visible atomically and sequence order equals commit order. Reads take the
// shared lock and hand out defensive copies.
type Bank struct {
	mu sync.RWMutex

	accounts  map[string]Account
	journal   []models.Transaction
	factories map[string]AccountFactory

	nextTxnID    int64
	nextSequence int64

	feeIncomeID       string
	interestExpenseID string

	now func() time.Time
}

// NewBank creates an empty bank with the two internal accounts and the
// built-in youth, private and savings factories registered.
func NewBank() *Bank {
	b := &Bank{
		accounts:          make(map[string]Account),
		factories:         make(map[string]AccountFactory),
		nextTxnID:         1,
		nextSequence:      1,
		feeIncomeID:       FeeIncomeAccountID,
		interestExpenseID: InterestExpenseAccountID,
		now:               time.Now,
	}
	b.accounts[b.feeIncomeID] = newInternalAccount(b.feeIncomeID)
	b.accounts[b.interestExpenseID] = newInternalAccount(b.interestExpenseID)

	b.RegisterAccountType(TypeYouth, func(id string, _ AccountParams) (Account, error) {
		return NewYouthAccount(id), nil
	})
	b.RegisterAccountType(TypePrivate, func(id string, p AccountParams) (Account, error) {
		limit := money.FromInt(500)
		percent := decimal.RequireFromString("0.01")
		minFee := money.MustParse("0.50")
		if p.OverdraftLimit != nil {
			limit = *p.OverdraftLimit
		}
		if p.FeePercent != nil {
			percent = *p.FeePercent
		}
		if p.MinFee != nil {
			minFee = *p.MinFee
		}
		return NewPrivateAccount(id, limit, percent, minFee), nil
	})
	b.RegisterAccountType(TypeSavings, func(id string, p AccountParams) (Account, error) {
		rate := decimal.RequireFromString("0.01")
		if p.RatePerPeriod != nil {
			rate = *p.RatePerPeriod
		}
		return NewSavingsAccount(id, rate), nil
	})
	return b
}

// FeeIncomeID returns the id of the internal account credited with fees.
func (b *Bank) FeeIncomeID() string { return b.feeIncomeID }

// InterestExpenseID returns the id of the internal account debited for interest.
func (b *Bank) InterestExpenseID() string { return b.interestExpenseID }

// RegisterAccountType inserts or overwrites a factory under the given name,
// allowing new account kinds at runtime without changes to the bank.
func (b *Bank) RegisterAccountType(name string, factory AccountFactory) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.factories[normalizeTypeName(name)] = factory
}

func normalizeTypeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// OpenAccount creates an active zero-balance account of a registered kind.
// An empty id asks the bank to generate one.
func (b *Bank) OpenAccount(kind, id string, params AccountParams) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	factory, ok := b.factories[normalizeTypeName(kind)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAccountType, kind)
	}
	if id == "" {
		id = "AC-" + uuid.New().String()
	}
	if _, exists := b.accounts[id]; exists {
		return "", fmt.Errorf("%w: %q", ErrDuplicateAccountID, id)
	}
	account, err := factory(id, params)
	if err != nil {
		return "", err
	}
	b.accounts[id] = account
	return id, nil
}

// CloseAccount deactivates an account. Closing requires a zero balance and
// is forbidden for internal accounts; a closed account cannot be reopened.
func (b *Bank) CloseAccount(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	account, err := b.activeAccount(id)
	if err != nil {
		return err
	}
	return account.Close()
}

// DepositCash credits external cash to an account. It posts the only
// unbalanced entry kind in the system: one credit with no counterparty.
func (b *Bank) DepositCash(toID string, amount money.Amount, purpose string) (int64, error) {
	if !amount.IsPositive() {
		return 0, fmt.Errorf("%w: cash deposit of %s", ErrInvalidAmount, amount)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	account, err := b.activeAccount(toID)
	if err != nil {
		return 0, err
	}
	if purpose == "" {
		purpose = "Cash deposit"
	}
	tx := b.commit(models.KindCashDeposit, "", account.ID(), amount, purpose)
	return tx.ID, nil
}

// Transfer moves amount from one account to another, charging the source
// account's withdrawal fee as a second FEE transaction when it is non-zero.
// Every precondition is checked before anything is posted; a failed transfer
// leaves the ledger untouched. The returned ids are in creation order.
func (b *Bank) Transfer(fromID, toID string, amount money.Amount, purpose string) ([]int64, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: transfer of %s", ErrInvalidAmount, amount)
	}
	if fromID == toID {
		return nil, fmt.Errorf("%w: %q", ErrSameAccountTransfer, fromID)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	from, err := b.activeAccount(fromID)
	if err != nil {
		return nil, err
	}
	to, err := b.activeAccount(toID)
	if err != nil {
		return nil, err
	}

	fee := from.WithdrawFee(amount)
	if !from.CanWithdraw(amount.Add(fee)) {
		return nil, fmt.Errorf("%w: %s plus fee %s from %q", ErrInsufficientFunds, amount, fee, fromID)
	}

	tx := b.commit(models.KindTransfer, from.ID(), to.ID(), amount, purpose)
	ids := []int64{tx.ID}

	if fee.IsPositive() {
		feeTx := b.commit(models.KindFee, from.ID(), b.feeIncomeID, fee, fmt.Sprintf("Fee for txn %d", tx.ID))
		ids = append(ids, feeTx.ID)
	}
	return ids, nil
}

// ApplyInterestToAllSavings runs one interest sweep: every active account
// gets the chance to accrue interest, in sorted-id order so repeated sweeps
// over the same state book identically. Accounts with no due interest
// contribute nothing. Returns the booked transaction ids.
func (b *Bank) ApplyInterestToAllSavings() ([]int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := make([]string, 0, len(b.accounts))
	for id := range b.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var txIDs []int64
	for _, id := range ids {
		account := b.accounts[id]
		if !account.Active() {
			continue
		}
		tx, err := account.AccrueInterest(b)
		if err != nil {
			return txIDs, err
		}
		if tx != nil {
			txIDs = append(txIDs, tx.ID)
		}
	}
	return txIDs, nil
}

// Balance returns the current balance of an account, closed or not.
func (b *Bank) Balance(id string) (money.Amount, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	account, err := b.account(id)
	if err != nil {
		return money.Zero(), err
	}
	return account.Balance(), nil
}

// AccountEntries returns an account's journal. A positive limit returns only
// the most recent limit entries.
func (b *Bank) AccountEntries(id string, limit int) ([]models.AccountEntry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	account, err := b.account(id)
	if err != nil {
		return nil, err
	}
	return tail(account.Entries(), limit), nil
}

// Journal returns a copy of the bank-wide journal. A positive limit returns
// only the most recent limit transactions.
func (b *Bank) Journal(limit int) []models.Transaction {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.Transaction, len(b.journal))
	copy(out, b.journal)
	return tail(out, limit)
}

// JournalSince returns every transaction with a sequence strictly greater
// than seq, in commit order. It is the feed for external archiving and
// event publishing.
func (b *Bank) JournalSince(seq int64) []models.Transaction {
	b.mu.RLock()
	defer b.mu.RUnlock()

	idx := sort.Search(len(b.journal), func(i int) bool {
		return b.journal[i].Sequence > seq
	})
	out := make([]models.Transaction, len(b.journal)-idx)
	copy(out, b.journal[idx:])
	return out
}

// LastSequence returns the sequence of the most recently committed
// transaction, or zero for an empty journal.
func (b *Bank) LastSequence() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.journal) == 0 {
		return 0
	}
	return b.journal[len(b.journal)-1].Sequence
}

// DescribeAccount returns a one-line diagnostic description of an account.
func (b *Bank) DescribeAccount(id string) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	account, err := b.account(id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s: %s | active=%t | balance=%s",
		account.ID(), account.Describe(), account.Active(), account.Balance()), nil
}

// Restore rebuilds the bank from a transaction source: accounts are
// re-opened through the registered factories, then every transaction is
// re-posted in sequence order with its original id, sequence and timestamp.
// It must be called on a freshly constructed bank.
func (b *Bank) Restore(ctx context.Context, src TransactionSource) error {
	records, err := src.LoadAccounts(ctx)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}
	for _, rec := range records {
		if _, err := b.OpenAccount(rec.Kind, rec.ID, rec.Params); err != nil {
			return fmt.Errorf("restore account %q: %w", rec.ID, err)
		}
	}

	txs, err := src.LoadTransactions(ctx)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, tx := range txs {
		if err := b.replay(tx); err != nil {
			return err
		}
	}
	return nil
}

// activeAccount is account plus an activity check; callers hold b.mu.
func (b *Bank) activeAccount(id string) (Account, error) {
	account, err := b.account(id)
	if err != nil {
		return nil, err
	}
	if !account.Active() {
		return nil, fmt.Errorf("%w: %q", ErrAccountClosed, id)
	}
	return account, nil
}

func (b *Bank) account(id string) (Account, error) {
	account, ok := b.accounts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrAccountNotFound, id)
	}
	return account, nil
}

// commit assigns the next transaction id and sequence, appends the
// transaction to the journal and posts its entries to the involved
// accounts. Callers hold the write lock, which makes the id assignment,
// journal append and balance updates one atomic unit.
func (b *Bank) commit(kind models.TransactionKind, from, to string, amount money.Amount, purpose string) models.Transaction {
	tx := models.Transaction{
		ID:        b.nextTxnID,
		Sequence:  b.nextSequence,
		Timestamp: b.now().UTC(),
		Kind:      kind,
		From:      from,
		To:        to,
		Amount:    amount,
		Purpose:   purpose,
	}
	b.nextTxnID++
	b.nextSequence++
	b.post(tx)
	return tx
}

// replay re-posts an already committed transaction, preserving its id and
// sequence and advancing the counters past them.
func (b *Bank) replay(tx models.Transaction) error {
	if tx.Sequence < b.nextSequence {
		return fmt.Errorf("%w: replayed transaction %d out of sequence order", ErrJournalInconsistent, tx.ID)
	}
	for _, e := range models.EntriesFor(tx) {
		if _, ok := b.accounts[e.AccountID]; !ok {
			return fmt.Errorf("%w: transaction %d references unknown account %q", ErrJournalInconsistent, tx.ID, e.AccountID)
		}
	}
	b.nextSequence = tx.Sequence + 1
	if tx.ID >= b.nextTxnID {
		b.nextTxnID = tx.ID + 1
	}
	b.post(tx)
	return nil
}

// post appends tx to the journal and its derived entries to the accounts.
func (b *Bank) post(tx models.Transaction) {
	b.journal = append(b.journal, tx)
	for _, e := range models.EntriesFor(tx) {
		b.accounts[e.AccountID].post(e)
	}
}

// bookInternalTransfer posts a transfer from a bank-owned account without
// overdraft checks. Called with the write lock held, from AccrueInterest
// implementations running inside a sweep.
func (b *Bank) bookInternalTransfer(fromID, toID string, amount money.Amount, kind models.TransactionKind, purpose string) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: internal transfer of %s", ErrInvalidAmount, amount)
	}
	if _, err := b.account(fromID); err != nil {
		return nil, err
	}
	if _, err := b.account(toID); err != nil {
		return nil, err
	}
	tx := b.commit(kind, fromID, toID, amount, purpose)
	return &tx, nil
}

func tail[T any](s []T, limit int) []T {
	if limit > 0 && limit < len(s) {
		return s[len(s)-limit:]
	}
	return s
}
