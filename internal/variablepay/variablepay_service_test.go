package variablepay_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-payroll/internal/variablepay"
	variablepayerrors "go-payroll/internal/variablepay/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakeVariablePayRepository struct {
	createOvertimeFn       func(ctx context.Context, rec *variablepay.OvertimeRecord) error
	findOvertimeByIDFn     func(ctx context.Context, id string) (*variablepay.OvertimeRecord, error)
	updateOvertimeFn       func(ctx context.Context, rec *variablepay.OvertimeRecord) error
	listApprovedOvertimeFn func(ctx context.Context, employeeID string, start, end time.Time) ([]variablepay.OvertimeRecord, error)
	createBonusFn          func(ctx context.Context, b *variablepay.Bonus) error
	listBonusesFn          func(ctx context.Context, employeeID string, start, end time.Time) ([]variablepay.Bonus, error)
	createCommissionFn     func(ctx context.Context, cm *variablepay.Commission) error
	listCommissionsFn      func(ctx context.Context, employeeID string, start, end time.Time) ([]variablepay.Commission, error)
	createDeductionFn      func(ctx context.Context, d *variablepay.Deduction) error
	findDeductionByIDFn    func(ctx context.Context, id string) (*variablepay.Deduction, error)
	updateDeductionFn      func(ctx context.Context, d *variablepay.Deduction) error
	listActiveDeductionsFn func(ctx context.Context, employeeID string) ([]variablepay.Deduction, error)
}

func (f *fakeVariablePayRepository) WithTx(tx *sql.Tx) variablepay.Repository { return f }

func (f *fakeVariablePayRepository) CreateOvertime(ctx context.Context, rec *variablepay.OvertimeRecord) error {
	if f.createOvertimeFn != nil {
		return f.createOvertimeFn(ctx, rec)
	}
	return nil
}

func (f *fakeVariablePayRepository) FindOvertimeByID(ctx context.Context, id string) (*variablepay.OvertimeRecord, error) {
	if f.findOvertimeByIDFn != nil {
		return f.findOvertimeByIDFn(ctx, id)
	}
	return nil, sql.ErrNoRows
}

func (f *fakeVariablePayRepository) UpdateOvertime(ctx context.Context, rec *variablepay.OvertimeRecord) error {
	if f.updateOvertimeFn != nil {
		return f.updateOvertimeFn(ctx, rec)
	}
	return nil
}

func (f *fakeVariablePayRepository) ListApprovedOvertime(ctx context.Context, employeeID string, start, end time.Time) ([]variablepay.OvertimeRecord, error) {
	if f.listApprovedOvertimeFn != nil {
		return f.listApprovedOvertimeFn(ctx, employeeID, start, end)
	}
	return nil, nil
}

func (f *fakeVariablePayRepository) CreateBonus(ctx context.Context, b *variablepay.Bonus) error {
	if f.createBonusFn != nil {
		return f.createBonusFn(ctx, b)
	}
	return nil
}

func (f *fakeVariablePayRepository) ListBonuses(ctx context.Context, employeeID string, start, end time.Time) ([]variablepay.Bonus, error) {
	if f.listBonusesFn != nil {
		return f.listBonusesFn(ctx, employeeID, start, end)
	}
	return nil, nil
}

func (f *fakeVariablePayRepository) CreateCommission(ctx context.Context, cm *variablepay.Commission) error {
	if f.createCommissionFn != nil {
		return f.createCommissionFn(ctx, cm)
	}
	return nil
}

func (f *fakeVariablePayRepository) ListCommissions(ctx context.Context, employeeID string, start, end time.Time) ([]variablepay.Commission, error) {
	if f.listCommissionsFn != nil {
		return f.listCommissionsFn(ctx, employeeID, start, end)
	}
	return nil, nil
}

func (f *fakeVariablePayRepository) CreateDeduction(ctx context.Context, d *variablepay.Deduction) error {
	if f.createDeductionFn != nil {
		return f.createDeductionFn(ctx, d)
	}
	return nil
}

func (f *fakeVariablePayRepository) FindDeductionByID(ctx context.Context, id string) (*variablepay.Deduction, error) {
	if f.findDeductionByIDFn != nil {
		return f.findDeductionByIDFn(ctx, id)
	}
	return nil, sql.ErrNoRows
}

func (f *fakeVariablePayRepository) UpdateDeduction(ctx context.Context, d *variablepay.Deduction) error {
	if f.updateDeductionFn != nil {
		return f.updateDeductionFn(ctx, d)
	}
	return nil
}

func (f *fakeVariablePayRepository) ListActiveDeductions(ctx context.Context, employeeID string) ([]variablepay.Deduction, error) {
	if f.listActiveDeductionsFn != nil {
		return f.listActiveDeductionsFn(ctx, employeeID)
	}
	return nil, nil
}

func setupService(t *testing.T, repo *fakeVariablePayRepository) (variablepay.Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return variablepay.NewService(db, repo), mock
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestSubmitOvertimeRejectsInvalidMultiplier(t *testing.T) {
	svc, _ := setupService(t, &fakeVariablePayRepository{})

	_, err := svc.SubmitOvertime(context.Background(), variablepay.SubmitOvertimeRequest{
		EmployeeID: uuid.NewString(),
		Date:       "2026-01-15",
		Hours:      dec("4"),
		Multiplier: dec("1.75"),
	})
	assert.ErrorIs(t, err, variablepayerrors.ErrInvalidMultiplier)
}

func TestSubmitOvertimeRejectsNonPositiveHours(t *testing.T) {
	svc, _ := setupService(t, &fakeVariablePayRepository{})

	_, err := svc.SubmitOvertime(context.Background(), variablepay.SubmitOvertimeRequest{
		EmployeeID: uuid.NewString(),
		Date:       "2026-01-15",
		Hours:      dec("0"),
		Multiplier: dec("1.5"),
	})
	assert.ErrorIs(t, err, variablepayerrors.ErrInvalidHours)
}

func TestSubmitOvertimeStartsUnapproved(t *testing.T) {
	var created *variablepay.OvertimeRecord
	repo := &fakeVariablePayRepository{
		createOvertimeFn: func(ctx context.Context, rec *variablepay.OvertimeRecord) error {
			created = rec
			return nil
		},
	}
	svc, _ := setupService(t, repo)

	resp, err := svc.SubmitOvertime(context.Background(), variablepay.SubmitOvertimeRequest{
		EmployeeID: uuid.NewString(),
		Date:       "2026-01-15",
		Hours:      dec("4"),
		Multiplier: dec("2.0"),
	})
	assert.NoError(t, err)
	assert.False(t, resp.Approved)
	assert.NotNil(t, created)
	assert.False(t, created.Approved)
}

func TestApproveOvertimeIsIdempotent(t *testing.T) {
	approvedAt := time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC)
	rec := variablepay.OvertimeRecord{
		ID:         uuid.New(),
		EmployeeID: uuid.New(),
		Date:       time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Hours:      dec("4"),
		Multiplier: dec("1.5"),
		Approved:   true,
		ApprovedAt: &approvedAt,
	}

	updated := false
	repo := &fakeVariablePayRepository{
		findOvertimeByIDFn: func(ctx context.Context, id string) (*variablepay.OvertimeRecord, error) {
			cp := rec
			return &cp, nil
		},
		updateOvertimeFn: func(ctx context.Context, r *variablepay.OvertimeRecord) error {
			updated = true
			return nil
		},
	}
	svc, mock := setupService(t, repo)
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.ApproveOvertime(context.Background(), rec.ID.String())
	assert.NoError(t, err)
	assert.True(t, resp.Approved)
	assert.False(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitDeductionRequiresAmountXorPercentage(t *testing.T) {
	svc, _ := setupService(t, &fakeVariablePayRepository{})

	amount := dec("750")
	pct := dec("2")

	_, err := svc.SubmitDeduction(context.Background(), variablepay.SubmitDeductionRequest{
		EmployeeID: uuid.NewString(),
		Category:   "canteen",
	})
	assert.ErrorIs(t, err, variablepayerrors.ErrAmountOrPercentage)

	_, err = svc.SubmitDeduction(context.Background(), variablepay.SubmitDeductionRequest{
		EmployeeID: uuid.NewString(),
		Category:   "canteen",
		Amount:     &amount,
		Percentage: &pct,
	})
	assert.ErrorIs(t, err, variablepayerrors.ErrAmountOrPercentage)
}

func TestSubmitDeductionRejectsOutOfRangePercentage(t *testing.T) {
	svc, _ := setupService(t, &fakeVariablePayRepository{})

	pct := dec("120")
	_, err := svc.SubmitDeduction(context.Background(), variablepay.SubmitDeductionRequest{
		EmployeeID: uuid.NewString(),
		Category:   "loan_repayment",
		Percentage: &pct,
	})
	assert.ErrorIs(t, err, variablepayerrors.ErrInvalidPercentage)
}

func TestCancelDeductionDeactivates(t *testing.T) {
	d := variablepay.Deduction{
		ID:         uuid.New(),
		EmployeeID: uuid.New(),
		Category:   "canteen",
		IsActive:   true,
	}
	amount := dec("300")
	d.Amount = &amount

	var saved *variablepay.Deduction
	repo := &fakeVariablePayRepository{
		findDeductionByIDFn: func(ctx context.Context, id string) (*variablepay.Deduction, error) {
			cp := d
			return &cp, nil
		},
		updateDeductionFn: func(ctx context.Context, upd *variablepay.Deduction) error {
			saved = upd
			return nil
		},
	}
	svc, mock := setupService(t, repo)
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.CancelDeduction(context.Background(), d.ID.String())
	assert.NoError(t, err)
	assert.False(t, resp.IsActive)
	assert.NotNil(t, saved)
	assert.False(t, saved.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInputsForPeriodAssemblesAllComponents(t *testing.T) {
	employeeID := uuid.New()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	amount := dec("500")
	repo := &fakeVariablePayRepository{
		listApprovedOvertimeFn: func(ctx context.Context, id string, s, e time.Time) ([]variablepay.OvertimeRecord, error) {
			assert.Equal(t, employeeID.String(), id)
			assert.Equal(t, start, s)
			assert.Equal(t, end, e)
			return []variablepay.OvertimeRecord{
				{EmployeeID: employeeID, Date: start.AddDate(0, 0, 14), Hours: dec("4"), Multiplier: dec("1.5"), Approved: true},
			}, nil
		},
		listBonusesFn: func(ctx context.Context, id string, s, e time.Time) ([]variablepay.Bonus, error) {
			return []variablepay.Bonus{
				{EmployeeID: employeeID, Date: start.AddDate(0, 0, 9), Amount: dec("2000"), Category: "performance"},
			}, nil
		},
		listCommissionsFn: func(ctx context.Context, id string, s, e time.Time) ([]variablepay.Commission, error) {
			return []variablepay.Commission{
				{EmployeeID: employeeID, Date: start.AddDate(0, 0, 19), Amount: dec("1500")},
			}, nil
		},
		listActiveDeductionsFn: func(ctx context.Context, id string) ([]variablepay.Deduction, error) {
			return []variablepay.Deduction{
				{EmployeeID: employeeID, Category: "canteen", Amount: &amount, IsActive: true},
			}, nil
		},
	}
	svc, _ := setupService(t, repo)

	inputs, err := svc.InputsForPeriod(context.Background(), employeeID.String(), start, end)
	assert.NoError(t, err)
	assert.Len(t, inputs.Overtime, 1)
	assert.Len(t, inputs.Bonuses, 1)
	assert.Len(t, inputs.Commissions, 1)
	assert.Len(t, inputs.Deductions, 1)
	assert.True(t, inputs.Bonuses[0].Amount.Equal(dec("2000")))
	assert.True(t, inputs.Overtime[0].Approved)
}
