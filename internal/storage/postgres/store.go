package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/bank-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/bank-ledger-system/internal/ledger"
	"github.com/sheikh-saqib/bank-ledger-system/internal/models"
	"github.com/sheikh-saqib/bank-ledger-system/internal/money"
)

// Archive persists the journal to postgres as an append-only log. Each
// ledger transaction and its entries are written inside one database
// transaction so the archive never holds a partial posting.
type Archive struct {
	db *sql.DB
}

func NewArchive(db *sql.DB) *Archive {
	return &Archive{db: db}
}

// EnsureSchema creates the archive tables if they do not exist yet.
func (a *Archive) EnsureSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS accounts (
		id              TEXT PRIMARY KEY,
		kind            TEXT NOT NULL,
		overdraft_limit NUMERIC(20,2),
		fee_percent     NUMERIC(10,6),
		min_fee         NUMERIC(20,2),
		rate_per_period NUMERIC(10,6),
		opened_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE TABLE IF NOT EXISTS transactions (
		id           BIGINT PRIMARY KEY,
		sequence     BIGINT NOT NULL UNIQUE,
		ts           TIMESTAMPTZ NOT NULL,
		kind         TEXT NOT NULL,
		from_account TEXT,
		to_account   TEXT NOT NULL,
		amount       NUMERIC(20,2) NOT NULL,
		purpose      TEXT
	);
	CREATE TABLE IF NOT EXISTS ledger_entries (
		transaction_id BIGINT NOT NULL REFERENCES transactions(id),
		sequence       BIGINT NOT NULL,
		ts             TIMESTAMPTZ NOT NULL,
		kind           TEXT NOT NULL,
		account_id     TEXT NOT NULL,
		amount_signed  NUMERIC(20,2) NOT NULL,
		counterparty   TEXT,
		purpose        TEXT
	);`

	if _, err := a.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure archive schema: %w", err)
	}
	return nil
}

func (a *Archive) SaveAccount(ctx context.Context, rec ledger.AccountRecord) error {
	const query = `INSERT INTO accounts (id, kind, overdraft_limit, fee_percent, min_fee, rate_per_period)
	VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := a.db.ExecContext(ctx, query,
		rec.ID,
		rec.Kind,
		amountString(rec.Params.OverdraftLimit),
		decimalString(rec.Params.FeePercent),
		amountString(rec.Params.MinFee),
		decimalString(rec.Params.RatePerPeriod),
	)
	return err
}

func (a *Archive) SaveTransaction(ctx context.Context, tx models.Transaction, entries []models.AccountEntry) error {
	dbTx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	const txQuery = `INSERT INTO transactions (id, sequence, ts, kind, from_account, to_account, amount, purpose)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = dbTx.ExecContext(ctx, txQuery,
		tx.ID, tx.Sequence, tx.Timestamp, string(tx.Kind),
		nullString(tx.From), tx.To, tx.Amount.String(), nullString(tx.Purpose))
	if err != nil {
		return err
	}

	const entryQuery = `INSERT INTO ledger_entries (transaction_id, sequence, ts, kind, account_id, amount_signed, counterparty, purpose)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, e := range entries {
		_, err = dbTx.ExecContext(ctx, entryQuery,
			e.TransactionID, e.Sequence, e.Timestamp, string(e.Kind),
			e.AccountID, e.AmountSigned.String(), nullString(e.Counterparty), nullString(e.Purpose))
		if err != nil {
			return err
		}
	}
	return dbTx.Commit()
}

func (a *Archive) LoadAccounts(ctx context.Context) ([]ledger.AccountRecord, error) {
	const query = `SELECT id, kind, overdraft_limit, fee_percent, min_fee, rate_per_period
	FROM accounts ORDER BY opened_at, id`

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ledger.AccountRecord
	for rows.Next() {
		var (
			rec                          ledger.AccountRecord
			limit, percent, minFee, rate sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Kind, &limit, &percent, &minFee, &rate); err != nil {
			return nil, err
		}
		if rec.Params.OverdraftLimit, err = scanAmount(limit); err != nil {
			return nil, err
		}
		if rec.Params.FeePercent, err = scanDecimal(percent); err != nil {
			return nil, err
		}
		if rec.Params.MinFee, err = scanAmount(minFee); err != nil {
			return nil, err
		}
		if rec.Params.RatePerPeriod, err = scanDecimal(rate); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (a *Archive) LoadTransactions(ctx context.Context) ([]models.Transaction, error) {
	const query = `SELECT id, sequence, ts, kind, from_account, to_account, amount, purpose
	FROM transactions ORDER BY sequence`

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var (
			tx            models.Transaction
			kind          string
			from, purpose sql.NullString
			amount        string
		)
		if err := rows.Scan(&tx.ID, &tx.Sequence, &tx.Timestamp, &kind, &from, &tx.To, &amount, &purpose); err != nil {
			return nil, err
		}
		tx.Kind = models.TransactionKind(kind)
		tx.From = from.String
		tx.Purpose = purpose.String
		if tx.Amount, err = money.Parse(amount); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func amountString(a *money.Amount) sql.NullString {
	if a == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: a.String(), Valid: true}
}

func decimalString(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func scanAmount(s sql.NullString) (*money.Amount, error) {
	if !s.Valid {
		return nil, nil
	}
	a, err := money.Parse(s.String)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanDecimal(s sql.NullString) (*decimal.Decimal, error) {
	if !s.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

var _ interfaces.JournalArchive = (*Archive)(nil)
