package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/bank-ledger-system/internal/models"
	"github.com/sheikh-saqib/bank-ledger-system/internal/money"
)

// Account is the capability set the bank requires of every account kind.
// Policy (overdraft, fees, interest) lives on the account so that new kinds
// can be registered without touching the bank's transfer logic. Custom kinds
// embed BaseAccount (or one of the built-in variants) to satisfy the
// unexported posting hook, which keeps balance mutation exclusive to the
// bank.
type Account interface {
	ID() string
	Active() bool
	Balance() money.Amount
	Entries() []models.AccountEntry

	// CanWithdraw reports whether debiting amount would respect the
	// account's overdraft policy. Always false for non-positive amounts.
	CanWithdraw(amount money.Amount) bool
	// WithdrawFee prices a withdrawal of amount, independent of CanWithdraw.
	WithdrawFee(amount money.Amount) money.Amount
	// AccrueInterest lets the account book due interest through the bank
	// during a periodic sweep. It returns nil when nothing is due. The bank
	// invokes it with its own lock held; implementations must only call
	// back through the *Bank it is handed.
	AccrueInterest(b *Bank) (*models.Transaction, error)
	// Close deactivates the account. It fails unless the balance is zero,
	// or unconditionally for kinds that forbid closing.
	Close() error
	Describe() string

	post(e models.AccountEntry)
}

// BaseAccount carries the state common to all account kinds: identity,
// active flag, balance and the ordered private journal. The balance always
// equals the running sum of the journal's signed amounts because both are
// only ever changed together in post.
type BaseAccount struct {
	id      string
	active  bool
	balance money.Amount
	entries []models.AccountEntry
}

func newBaseAccount(id string) BaseAccount {
	return BaseAccount{id: id, active: true}
}

func (a *BaseAccount) ID() string            { return a.id }
func (a *BaseAccount) Active() bool          { return a.active }
func (a *BaseAccount) Balance() money.Amount { return a.balance }

// Entries returns a copy of the account's journal so callers cannot mutate
// ledger-owned history.
func (a *BaseAccount) Entries() []models.AccountEntry {
	out := make([]models.AccountEntry, len(a.entries))
	copy(out, a.entries)
	return out
}

// CanWithdraw default policy: no overdraft.
func (a *BaseAccount) CanWithdraw(amount money.Amount) bool {
	if !amount.IsPositive() {
		return false
	}
	return !a.balance.Sub(amount).IsNegative()
}

// WithdrawFee default policy: free.
func (a *BaseAccount) WithdrawFee(money.Amount) money.Amount {
	return money.Zero()
}

// AccrueInterest default policy: no interest.
func (a *BaseAccount) AccrueInterest(*Bank) (*models.Transaction, error) {
	return nil, nil
}

func (a *BaseAccount) Close() error {
	if !a.balance.IsZero() {
		return fmt.Errorf("%w: balance %s is not zero", ErrAccountNotClosable, a.balance)
	}
	a.active = false
	return nil
}

func (a *BaseAccount) Describe() string {
	return "Generic Account"
}

// post appends a journal entry and adjusts the balance in the same step.
// Only the bank calls this, inside its posting critical section.
func (a *BaseAccount) post(e models.AccountEntry) {
	a.entries = append(a.entries, e)
	a.balance = a.balance.Add(e.AmountSigned)
}

// YouthAccount never overdraws and charges no fees.
type YouthAccount struct {
	BaseAccount
}

func NewYouthAccount(id string) *YouthAccount {
	return &YouthAccount{BaseAccount: newBaseAccount(id)}
}

func (a *YouthAccount) Describe() string {
	return "Youth Account (no overdraft, no fees)"
}

// PrivateAccount may overdraw up to a configured limit and pays a
// percentage fee, with a floor, on withdrawals.
type PrivateAccount struct {
	BaseAccount
	overdraftLimit money.Amount
	feePercent     decimal.Decimal
	minFee         money.Amount
}

func NewPrivateAccount(id string, overdraftLimit money.Amount, feePercent decimal.Decimal, minFee money.Amount) *PrivateAccount {
	return &PrivateAccount{
		BaseAccount:    newBaseAccount(id),
		overdraftLimit: overdraftLimit,
		feePercent:     feePercent,
		minFee:         minFee,
	}
}

func (a *PrivateAccount) CanWithdraw(amount money.Amount) bool {
	if !amount.IsPositive() {
		return false
	}
	return a.Balance().Sub(amount).Cmp(a.overdraftLimit.Neg()) >= 0
}

func (a *PrivateAccount) WithdrawFee(amount money.Amount) money.Amount {
	fee := amount.MulRate(a.feePercent)
	if fee.Cmp(a.minFee) < 0 {
		return a.minFee
	}
	return fee
}

func (a *PrivateAccount) Describe() string {
	return fmt.Sprintf("Private Account (overdraft to -%s, fee=%s%% min %s)",
		a.overdraftLimit, a.feePercent.Mul(decimal.NewFromInt(100)).StringFixed(2), a.minFee)
}

// SavingsAccount never overdraws, charges no fees and earns interest on a
// positive balance once per sweep period.
type SavingsAccount struct {
	BaseAccount
	rate decimal.Decimal
}

func NewSavingsAccount(id string, ratePerPeriod decimal.Decimal) *SavingsAccount {
	return &SavingsAccount{BaseAccount: newBaseAccount(id), rate: ratePerPeriod}
}

func (a *SavingsAccount) AccrueInterest(b *Bank) (*models.Transaction, error) {
	if !a.Balance().IsPositive() {
		return nil, nil
	}
	interest := a.Balance().MulRate(a.rate)
	if interest.IsZero() {
		return nil, nil
	}
	purpose := fmt.Sprintf("Interest @ %s%%", a.rate.Mul(decimal.NewFromInt(100)).StringFixed(2))
	return b.bookInternalTransfer(b.interestExpenseID, a.ID(), interest, models.KindInterest, purpose)
}

func (a *SavingsAccount) Describe() string {
	return fmt.Sprintf("Savings Account (no overdraft, interest %s%%/period)",
		a.rate.Mul(decimal.NewFromInt(100)).StringFixed(2))
}

// InternalAccount is a bank-owned account for fee income and interest
// expense. It is never exposed to customer operations, is debited without
// overdraft checks by internal bookings, and cannot be closed.
type InternalAccount struct {
	BaseAccount
}

func newInternalAccount(id string) *InternalAccount {
	return &InternalAccount{BaseAccount: newBaseAccount(id)}
}

func (a *InternalAccount) Close() error {
	return fmt.Errorf("%w: internal bank accounts cannot be closed", ErrAccountNotClosable)
}

func (a *InternalAccount) Describe() string {
	return "Internal Bank Account"
}
