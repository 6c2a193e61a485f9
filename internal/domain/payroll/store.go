package payroll

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"hrdesk/internal/domain/apperr"
	"hrdesk/internal/domain/listing"
	"hrdesk/internal/platform/crypto"
	"hrdesk/internal/platform/querier"
)

type Store struct {
	DB     querier.Querier
	Cipher *crypto.Cipher
}

func NewStore(db querier.Querier, cipher *crypto.Cipher) *Store {
	return &Store{DB: db, Cipher: cipher}
}

const columns = `id, employee_id, employee_name, department, basic_salary::float8, allowances::float8,
       deductions::float8, net_salary::float8, pay_date, status,
       COALESCE(bank_account, ''), bank_account_enc, created_at, updated_at`

func (s *Store) scan(row pgx.Row) (Payroll, error) {
	var rec Payroll
	var bankEnc []byte
	err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &rec.Department, &rec.BasicSalary,
		&rec.Allowances, &rec.Deductions, &rec.NetSalary, &rec.PayDate, &rec.Status,
		&rec.BankAccount, &bankEnc, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payroll{}, apperr.NotFound("payroll record")
	}
	if err != nil {
		return Payroll{}, err
	}
	if len(bankEnc) > 0 && s.Cipher.Configured() {
		plain, err := s.Cipher.OpenString(bankEnc)
		if err != nil {
			return Payroll{}, err
		}
		rec.BankAccount = plain
	}
	return rec, nil
}

// bankColumns splits the account into the plaintext and sealed columns;
// only one of them is populated.
func (s *Store) bankColumns(account string) (any, []byte, error) {
	if account == "" {
		return nil, nil, nil
	}
	if !s.Cipher.Configured() {
		return account, nil, nil
	}
	sealed, err := s.Cipher.SealString(account)
	if err != nil {
		return nil, nil, err
	}
	return nil, sealed, nil
}

func (s *Store) List(ctx context.Context, filter Filter, page listing.Page) ([]Payroll, int, error) {
	f := &querier.Filter{}
	if search := strings.TrimSpace(filter.Search); search != "" {
		p := f.Arg(querier.Contains(search))
		f.Where("(employee_name ILIKE " + p + " OR department ILIKE " + p + ")")
	}
	if filter.Status != "" {
		f.Where("status = " + f.Arg(filter.Status))
	}
	if filter.Month != "" {
		from, to, err := MonthRange(filter.Month)
		if err != nil {
			return nil, 0, apperr.Invalid("month", "must be in YYYY-MM format")
		}
		f.Where("pay_date >= " + f.Arg(from) + " AND pay_date < " + f.Arg(to))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM payroll"+f.SQL(), f.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + columns + " FROM payroll" + f.SQL() +
		" ORDER BY pay_date DESC, created_at DESC LIMIT " + f.Arg(page.Limit) + " OFFSET " + f.Arg(page.Offset())
	rows, err := s.DB.Query(ctx, query, f.Args()...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Payroll
	for rows.Next() {
		rec, err := s.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	return out, total, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Payroll, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Payroll{}, apperr.NotFound("payroll record")
	}
	return s.scan(s.DB.QueryRow(ctx, "SELECT "+columns+" FROM payroll WHERE id = $1", id))
}

func (s *Store) Create(ctx context.Context, rec Payroll) (Payroll, error) {
	bankPlain, bankEnc, err := s.bankColumns(rec.BankAccount)
	if err != nil {
		return Payroll{}, err
	}
	return s.scan(s.DB.QueryRow(ctx, `
    INSERT INTO payroll (employee_id, employee_name, department, basic_salary, allowances, deductions,
      net_salary, pay_date, status, bank_account, bank_account_enc)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    RETURNING `+columns,
		rec.EmployeeID, rec.EmployeeName, rec.Department, rec.BasicSalary, rec.Allowances, rec.Deductions,
		rec.NetSalary, rec.PayDate, rec.Status, bankPlain, bankEnc,
	))
}

func (s *Store) Update(ctx context.Context, rec Payroll) (Payroll, error) {
	bankPlain, bankEnc, err := s.bankColumns(rec.BankAccount)
	if err != nil {
		return Payroll{}, err
	}
	return s.scan(s.DB.QueryRow(ctx, `
    UPDATE payroll
    SET basic_salary = $1,
        allowances = $2,
        deductions = $3,
        net_salary = $4,
        pay_date = $5,
        status = $6,
        bank_account = $7,
        bank_account_enc = $8,
        updated_at = now()
    WHERE id = $9
    RETURNING `+columns,
		rec.BasicSalary, rec.Allowances, rec.Deductions, rec.NetSalary, rec.PayDate, rec.Status,
		bankPlain, bankEnc, rec.ID,
	))
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.NotFound("payroll record")
	}
	tag, err := s.DB.Exec(ctx, "DELETE FROM payroll WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("payroll record")
	}
	return nil
}
