package employee_test

import (
	"context"
	"database/sql"
	"testing"

	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakeEmployeeRepository struct {
	createFn     func(ctx context.Context, emp *employee.Employee) error
	findAllFn    func(ctx context.Context) ([]employee.Employee, error)
	listActiveFn func(ctx context.Context) ([]employee.Employee, error)
	findByIDFn   func(ctx context.Context, id string) (*employee.Employee, error)
	updateFn     func(ctx context.Context, emp *employee.Employee) error
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository { return f }

func (f *fakeEmployeeRepository) Create(ctx context.Context, emp *employee.Employee) error {
	if f.createFn != nil {
		return f.createFn(ctx, emp)
	}
	return nil
}

func (f *fakeEmployeeRepository) FindAll(ctx context.Context) ([]employee.Employee, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	if f.listActiveFn != nil {
		return f.listActiveFn(ctx)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, sql.ErrNoRows
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, emp *employee.Employee) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, emp)
	}
	return nil
}

func (f *fakeEmployeeRepository) Delete(ctx context.Context, id string) error { return nil }

type fakeCounter struct{ next int64 }

func (f *fakeCounter) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

func setupService(t *testing.T, repo *fakeEmployeeRepository) (employee.Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return employee.NewService(db, repo, &fakeCounter{}), mock
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestCreateIssuesEmployeeNumber(t *testing.T) {
	var created *employee.Employee
	repo := &fakeEmployeeRepository{
		createFn: func(ctx context.Context, emp *employee.Employee) error {
			created = emp
			return nil
		},
	}
	svc, mock := setupService(t, repo)
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Create(context.Background(), employee.CreateEmployeeRequest{
		FullName:    "Asha Nair",
		Department:  "Cardiology",
		Position:    "Staff Nurse",
		BasicSalary: dec("50000"),
	})
	assert.NoError(t, err)
	assert.Equal(t, "EMP-0001", resp.EmployeeNumber)
	assert.True(t, resp.IsActive)
	assert.NotNil(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateKeepsProvidedEmployeeNumber(t *testing.T) {
	repo := &fakeEmployeeRepository{}
	svc, mock := setupService(t, repo)
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Create(context.Background(), employee.CreateEmployeeRequest{
		EmployeeNumber: "EMP-9001",
		FullName:       "Ravi Menon",
		Department:     "Radiology",
		Position:       "Technician",
		BasicSalary:    dec("32000"),
	})
	assert.NoError(t, err)
	assert.Equal(t, "EMP-9001", resp.EmployeeNumber)
}

func TestCreateRejectsNonPositiveSalary(t *testing.T) {
	svc, _ := setupService(t, &fakeEmployeeRepository{})

	_, err := svc.Create(context.Background(), employee.CreateEmployeeRequest{
		FullName:    "Asha Nair",
		Department:  "Cardiology",
		Position:    "Staff Nurse",
		BasicSalary: dec("0"),
	})
	assert.ErrorIs(t, err, employeeerrors.ErrInvalidBasicSalary)
}

func TestDeactivateFlagsEmployeeInactive(t *testing.T) {
	emp := employee.Employee{
		ID:          uuid.New(),
		FullName:    "Asha Nair",
		BasicSalary: dec("50000"),
		IsActive:    true,
	}

	var saved *employee.Employee
	repo := &fakeEmployeeRepository{
		findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
			cp := emp
			return &cp, nil
		},
		updateFn: func(ctx context.Context, e *employee.Employee) error {
			saved = e
			return nil
		},
	}
	svc, mock := setupService(t, repo)
	mock.ExpectBegin()
	mock.ExpectCommit()

	err := svc.Deactivate(context.Background(), emp.ID.String())
	assert.NoError(t, err)
	assert.NotNil(t, saved)
	assert.False(t, saved.IsActive)
}

func TestListActiveProfilesMapsPayParameters(t *testing.T) {
	hourly := dec("320")
	repo := &fakeEmployeeRepository{
		listActiveFn: func(ctx context.Context) ([]employee.Employee, error) {
			return []employee.Employee{
				{ID: uuid.New(), BasicSalary: dec("50000")},
				{ID: uuid.New(), BasicSalary: dec("48000"), HourlyRate: &hourly},
			}, nil
		},
	}
	svc, _ := setupService(t, repo)

	profiles, err := svc.ListActiveProfiles(context.Background())
	assert.NoError(t, err)
	assert.Len(t, profiles, 2)
	assert.Nil(t, profiles[0].HourlyRate)
	assert.True(t, profiles[1].HourlyRate.Equal(hourly))
	assert.True(t, profiles[1].EffectiveHourlyRate().Equal(hourly))
}
