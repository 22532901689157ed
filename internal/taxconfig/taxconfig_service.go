package taxconfig

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-payroll/internal/salary"
	taxconfigerrors "go-payroll/internal/taxconfig/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const resolveCacheTTL = 10 * time.Minute

//go:generate mockgen -source=taxconfig_service.go -destination=mock/taxconfig_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateTaxConfigurationRequest) (TaxConfigurationResponse, error)
	GetAll(ctx context.Context, taxType string) ([]TaxConfigurationResponse, error)
	Activate(ctx context.Context, id string) (TaxConfigurationResponse, error)
	Deactivate(ctx context.Context, id string) (TaxConfigurationResponse, error)

	// Resolve implements salary.RuleResolver: deterministic selection of
	// the statutory rule applicable at asOf.
	Resolve(ctx context.Context, taxType string, asOf time.Time) (salary.TaxRule, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("taxconfig.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("taxconfig.service")
	}
	return &service{db: db, repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) Create(
	ctx context.Context,
	req CreateTaxConfigurationRequest,
) (TaxConfigurationResponse, error) {
	if req.Rate.IsNegative() {
		return TaxConfigurationResponse{}, taxconfigerrors.ErrInvalidRate
	}
	if req.MinThreshold != nil && req.MaxThreshold != nil && req.MinThreshold.GreaterThan(*req.MaxThreshold) {
		return TaxConfigurationResponse{}, taxconfigerrors.ErrInvalidThresholds
	}

	effectiveFrom, err := parseDate(req.EffectiveFrom)
	if err != nil {
		return TaxConfigurationResponse{}, err
	}

	var effectiveTo *time.Time
	if req.EffectiveTo != nil && *req.EffectiveTo != "" {
		to, err := parseDate(*req.EffectiveTo)
		if err != nil {
			return TaxConfigurationResponse{}, err
		}
		if effectiveFrom.After(to) {
			return TaxConfigurationResponse{}, taxconfigerrors.ErrInvalidEffectiveRange
		}
		effectiveTo = &to
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TaxConfigurationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Two active rules of one type sharing an effective_from can never be
	// resolved deterministically, so the write is rejected outright.
	exists, err := qtx.ExistsActiveForTypeAndFrom(ctx, req.TaxType, effectiveFrom)
	if err != nil {
		return TaxConfigurationResponse{}, err
	}
	if exists {
		return TaxConfigurationResponse{}, taxconfigerrors.ErrAmbiguousConfiguration
	}

	cfg := &TaxConfiguration{
		ID:            uuid.New(),
		TaxType:       req.TaxType,
		Rate:          req.Rate,
		IsPercentage:  req.IsPercentage,
		MinThreshold:  req.MinThreshold,
		MaxThreshold:  req.MaxThreshold,
		EffectiveFrom: effectiveFrom,
		EffectiveTo:   effectiveTo,
		IsActive:      true,
		Description:   req.Description,
	}

	if err := qtx.Create(ctx, cfg); err != nil {
		if isUniqueEffectiveViolation(err) {
			return TaxConfigurationResponse{}, taxconfigerrors.ErrAmbiguousConfiguration
		}
		return TaxConfigurationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return TaxConfigurationResponse{}, err
	}

	s.bumpResolveGeneration(ctx, cfg.TaxType)

	return mapToResponse(*cfg), nil
}

func (s *service) GetAll(ctx context.Context, taxType string) ([]TaxConfigurationResponse, error) {
	configs, err := s.repo.FindAll(ctx, taxType)
	if err != nil {
		return nil, err
	}

	resp := make([]TaxConfigurationResponse, len(configs))
	for i, cfg := range configs {
		resp[i] = mapToResponse(cfg)
	}
	return resp, nil
}

func (s *service) Activate(ctx context.Context, id string) (TaxConfigurationResponse, error) {
	return s.setActive(ctx, id, true)
}

func (s *service) Deactivate(ctx context.Context, id string) (TaxConfigurationResponse, error) {
	return s.setActive(ctx, id, false)
}

// setActive flips activation. Deactivation is the only retirement path:
// a configuration already referenced by completed runs stays on record
// and the change applies prospectively only.
func (s *service) setActive(ctx context.Context, id string, active bool) (TaxConfigurationResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return TaxConfigurationResponse{}, taxconfigerrors.ErrInvalidConfigurationID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TaxConfigurationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	cfg, err := qtx.FindByID(ctx, id)
	if err != nil {
		return TaxConfigurationResponse{}, taxconfigerrors.ErrConfigurationNotFound
	}

	if active {
		exists, err := qtx.ExistsActiveForTypeAndFrom(ctx, cfg.TaxType, cfg.EffectiveFrom)
		if err != nil {
			return TaxConfigurationResponse{}, err
		}
		if exists && !cfg.IsActive {
			return TaxConfigurationResponse{}, taxconfigerrors.ErrAmbiguousConfiguration
		}
	}

	cfg.IsActive = active
	if err := qtx.Update(ctx, cfg); err != nil {
		return TaxConfigurationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return TaxConfigurationResponse{}, err
	}

	s.bumpResolveGeneration(ctx, cfg.TaxType)

	return mapToResponse(*cfg), nil
}

func (s *service) Resolve(ctx context.Context, taxType string, asOf time.Time) (salary.TaxRule, error) {
	key := s.resolveKey(ctx, taxType, asOf)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var rule salary.TaxRule
			if err := json.Unmarshal([]byte(cached), &rule); err == nil {
				return rule, nil
			}
		}
	}

	// Collapse concurrent resolutions of the same (type, date) during a
	// payroll run into one repository round trip.
	v, err, _ := s.sf.Do(key, func() (any, error) {
		configs, err := s.repo.ListActiveByType(ctx, taxType)
		if err != nil {
			return nil, err
		}

		cfg, err := pickApplicable(configs, asOf)
		if err != nil {
			return nil, err
		}

		rule := cfg.Rule()
		if s.rdb != nil {
			if payload, err := json.Marshal(rule); err == nil {
				_ = s.rdb.Set(ctx, key, payload, resolveCacheTTL).Err()
			}
		}
		return rule, nil
	})
	if err != nil {
		return salary.TaxRule{}, err
	}

	return v.(salary.TaxRule), nil
}

// pickApplicable selects the candidate with the latest effective_from:
// the most recently enacted rule wins on overlap. A tie on
// effective_from is a data-entry error and resolves to nothing.
func pickApplicable(configs []TaxConfiguration, asOf time.Time) (*TaxConfiguration, error) {
	var best *TaxConfiguration
	ambiguous := false

	for i := range configs {
		cfg := &configs[i]
		if !cfg.AppliesAt(asOf) {
			continue
		}
		switch {
		case best == nil, cfg.EffectiveFrom.After(best.EffectiveFrom):
			best = cfg
			ambiguous = false
		case cfg.EffectiveFrom.Equal(best.EffectiveFrom):
			ambiguous = true
		}
	}

	if best == nil {
		return nil, taxconfigerrors.ErrMissingConfiguration
	}
	if ambiguous {
		return nil, taxconfigerrors.ErrAmbiguousConfiguration
	}
	return best, nil
}

// resolveKey embeds a per-type generation counter so configuration
// writes invalidate every cached date in one INCR.
func (s *service) resolveKey(ctx context.Context, taxType string, asOf time.Time) string {
	gen := "0"
	if s.rdb != nil {
		if v, err := s.rdb.Get(ctx, generationKey(taxType)).Result(); err == nil {
			gen = v
		}
	}
	return fmt.Sprintf("taxconfig:resolve:%s:%s:%s", gen, taxType, asOf.Format("2006-01-02"))
}

func (s *service) bumpResolveGeneration(ctx context.Context, taxType string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Incr(ctx, generationKey(taxType)).Err(); err != nil {
		s.logger.Warn("bump resolve generation failed",
			zap.String("tax_type", taxType),
			zap.Error(err),
		)
	}
}

func generationKey(taxType string) string {
	return "taxconfig:gen:" + taxType
}

func isUniqueEffectiveViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_tax_config_type_effective"
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_tax_config_type_effective")
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, taxconfigerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(cfg TaxConfiguration) TaxConfigurationResponse {
	resp := TaxConfigurationResponse{
		ID:            cfg.ID.String(),
		TaxType:       cfg.TaxType,
		Rate:          cfg.Rate.String(),
		IsPercentage:  cfg.IsPercentage,
		EffectiveFrom: cfg.EffectiveFrom.Format("2006-01-02"),
		IsActive:      cfg.IsActive,
		Description:   cfg.Description,
	}

	if cfg.MinThreshold != nil {
		v := cfg.MinThreshold.String()
		resp.MinThreshold = &v
	}
	if cfg.MaxThreshold != nil {
		v := cfg.MaxThreshold.String()
		resp.MaxThreshold = &v
	}
	if cfg.EffectiveTo != nil {
		v := cfg.EffectiveTo.Format("2006-01-02")
		resp.EffectiveTo = &v
	}

	return resp
}
