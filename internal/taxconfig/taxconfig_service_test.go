package taxconfig_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-payroll/internal/taxconfig"
	taxconfigerrors "go-payroll/internal/taxconfig/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakeTaxConfigRepository struct {
	withTxFn           func(tx *sql.Tx) taxconfig.Repository
	createFn           func(ctx context.Context, cfg *taxconfig.TaxConfiguration) error
	findByIDFn         func(ctx context.Context, id string) (*taxconfig.TaxConfiguration, error)
	findAllFn          func(ctx context.Context, taxType string) ([]taxconfig.TaxConfiguration, error)
	listActiveByTypeFn func(ctx context.Context, taxType string) ([]taxconfig.TaxConfiguration, error)
	existsFn           func(ctx context.Context, taxType string, effectiveFrom time.Time) (bool, error)
	updateFn           func(ctx context.Context, cfg *taxconfig.TaxConfiguration) error
}

func (f *fakeTaxConfigRepository) WithTx(tx *sql.Tx) taxconfig.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeTaxConfigRepository) Create(ctx context.Context, cfg *taxconfig.TaxConfiguration) error {
	if f.createFn != nil {
		return f.createFn(ctx, cfg)
	}
	return nil
}

func (f *fakeTaxConfigRepository) FindByID(ctx context.Context, id string) (*taxconfig.TaxConfiguration, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, sql.ErrNoRows
}

func (f *fakeTaxConfigRepository) FindAll(ctx context.Context, taxType string) ([]taxconfig.TaxConfiguration, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, taxType)
	}
	return nil, nil
}

func (f *fakeTaxConfigRepository) ListActiveByType(ctx context.Context, taxType string) ([]taxconfig.TaxConfiguration, error) {
	if f.listActiveByTypeFn != nil {
		return f.listActiveByTypeFn(ctx, taxType)
	}
	return nil, nil
}

func (f *fakeTaxConfigRepository) ExistsActiveForTypeAndFrom(ctx context.Context, taxType string, effectiveFrom time.Time) (bool, error) {
	if f.existsFn != nil {
		return f.existsFn(ctx, taxType, effectiveFrom)
	}
	return false, nil
}

func (f *fakeTaxConfigRepository) Update(ctx context.Context, cfg *taxconfig.TaxConfiguration) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, cfg)
	}
	return nil
}

func date(t *testing.T, v string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", v)
	assert.NoError(t, err)
	return d
}

func activeConfig(t *testing.T, taxType, rate, from string, to *string) taxconfig.TaxConfiguration {
	t.Helper()
	cfg := taxconfig.TaxConfiguration{
		ID:            uuid.New(),
		TaxType:       taxType,
		Rate:          decimal.RequireFromString(rate),
		IsPercentage:  true,
		EffectiveFrom: date(t, from),
		IsActive:      true,
	}
	if to != nil {
		d := date(t, *to)
		cfg.EffectiveTo = &d
	}
	return cfg
}

func setupService(t *testing.T, repo *fakeTaxConfigRepository) (taxconfig.Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return taxconfig.NewService(db, repo, nil), mock
}

func TestResolveLatestEffectiveFromWinsOnOverlap(t *testing.T) {
	old := activeConfig(t, "income_tax", "5", "2024-04-01", nil)
	current := activeConfig(t, "income_tax", "10", "2025-04-01", nil)

	repo := &fakeTaxConfigRepository{
		listActiveByTypeFn: func(ctx context.Context, taxType string) ([]taxconfig.TaxConfiguration, error) {
			return []taxconfig.TaxConfiguration{old, current}, nil
		},
	}
	svc, _ := setupService(t, repo)

	rule, err := svc.Resolve(context.Background(), "income_tax", date(t, "2026-01-31"))
	assert.NoError(t, err)
	assert.True(t, rule.Rate.Equal(decimal.RequireFromString("10")))
}

func TestResolveIsDeterministic(t *testing.T) {
	cfg := activeConfig(t, "pf", "12", "2025-04-01", nil)
	repo := &fakeTaxConfigRepository{
		listActiveByTypeFn: func(ctx context.Context, taxType string) ([]taxconfig.TaxConfiguration, error) {
			return []taxconfig.TaxConfiguration{cfg}, nil
		},
	}
	svc, _ := setupService(t, repo)

	asOf := date(t, "2026-01-31")
	first, err := svc.Resolve(context.Background(), "pf", asOf)
	assert.NoError(t, err)
	second, err := svc.Resolve(context.Background(), "pf", asOf)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveMissingConfiguration(t *testing.T) {
	repo := &fakeTaxConfigRepository{
		listActiveByTypeFn: func(ctx context.Context, taxType string) ([]taxconfig.TaxConfiguration, error) {
			return nil, nil
		},
	}
	svc, _ := setupService(t, repo)

	_, err := svc.Resolve(context.Background(), "esi", date(t, "2026-01-31"))
	assert.ErrorIs(t, err, taxconfigerrors.ErrMissingConfiguration)
}

func TestResolveAmbiguousOnEffectiveFromTie(t *testing.T) {
	a := activeConfig(t, "income_tax", "10", "2025-04-01", nil)
	b := activeConfig(t, "income_tax", "12", "2025-04-01", nil)

	repo := &fakeTaxConfigRepository{
		listActiveByTypeFn: func(ctx context.Context, taxType string) ([]taxconfig.TaxConfiguration, error) {
			return []taxconfig.TaxConfiguration{a, b}, nil
		},
	}
	svc, _ := setupService(t, repo)

	_, err := svc.Resolve(context.Background(), "income_tax", date(t, "2026-01-31"))
	assert.ErrorIs(t, err, taxconfigerrors.ErrAmbiguousConfiguration)
}

func TestResolveRespectsValidityWindow(t *testing.T) {
	to := "2025-03-31"
	expired := activeConfig(t, "income_tax", "5", "2024-04-01", &to)
	future := activeConfig(t, "income_tax", "12", "2027-04-01", nil)
	inactive := activeConfig(t, "income_tax", "8", "2025-04-01", nil)
	inactive.IsActive = false

	repo := &fakeTaxConfigRepository{
		listActiveByTypeFn: func(ctx context.Context, taxType string) ([]taxconfig.TaxConfiguration, error) {
			return []taxconfig.TaxConfiguration{expired, future, inactive}, nil
		},
	}
	svc, _ := setupService(t, repo)

	_, err := svc.Resolve(context.Background(), "income_tax", date(t, "2026-01-31"))
	assert.ErrorIs(t, err, taxconfigerrors.ErrMissingConfiguration)
}

func TestCreateRejectsDuplicateEffectiveFrom(t *testing.T) {
	repo := &fakeTaxConfigRepository{
		existsFn: func(ctx context.Context, taxType string, effectiveFrom time.Time) (bool, error) {
			return true, nil
		},
	}
	svc, mock := setupService(t, repo)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), taxconfig.CreateTaxConfigurationRequest{
		TaxType:       "income_tax",
		Rate:          decimal.RequireFromString("10"),
		IsPercentage:  true,
		EffectiveFrom: "2025-04-01",
	})
	assert.ErrorIs(t, err, taxconfigerrors.ErrAmbiguousConfiguration)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAllowedAfterDeactivatingSameEffectiveFrom(t *testing.T) {
	retired := activeConfig(t, "income_tax", "10", "2025-04-01", nil)

	var updated *taxconfig.TaxConfiguration
	var created *taxconfig.TaxConfiguration
	repo := &fakeTaxConfigRepository{
		findByIDFn: func(ctx context.Context, id string) (*taxconfig.TaxConfiguration, error) {
			cp := retired
			return &cp, nil
		},
		updateFn: func(ctx context.Context, cfg *taxconfig.TaxConfiguration) error {
			updated = cfg
			return nil
		},
		// Active-scoped existence check: the retired row no longer counts.
		existsFn: func(ctx context.Context, taxType string, effectiveFrom time.Time) (bool, error) {
			return updated == nil || updated.IsActive, nil
		},
		createFn: func(ctx context.Context, cfg *taxconfig.TaxConfiguration) error {
			created = cfg
			return nil
		},
	}
	svc, mock := setupService(t, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := svc.Deactivate(context.Background(), retired.ID.String())
	assert.NoError(t, err)
	assert.NotNil(t, updated)
	assert.False(t, updated.IsActive)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(context.Background(), taxconfig.CreateTaxConfigurationRequest{
		TaxType:       "income_tax",
		Rate:          decimal.RequireFromString("11"),
		IsPercentage:  true,
		EffectiveFrom: "2025-04-01",
	})
	assert.NoError(t, err)
	assert.True(t, resp.IsActive)
	assert.NotNil(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsBadDates(t *testing.T) {
	svc, _ := setupService(t, &fakeTaxConfigRepository{})

	_, err := svc.Create(context.Background(), taxconfig.CreateTaxConfigurationRequest{
		TaxType:       "income_tax",
		Rate:          decimal.RequireFromString("10"),
		EffectiveFrom: "01-04-2025",
	})
	assert.ErrorIs(t, err, taxconfigerrors.ErrInvalidDateFormat)

	to := "2025-03-01"
	_, err = svc.Create(context.Background(), taxconfig.CreateTaxConfigurationRequest{
		TaxType:       "income_tax",
		Rate:          decimal.RequireFromString("10"),
		EffectiveFrom: "2025-04-01",
		EffectiveTo:   &to,
	})
	assert.ErrorIs(t, err, taxconfigerrors.ErrInvalidEffectiveRange)
}
