package payrollrun

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	payrollrunerrors "go-payroll/internal/payrollrun/errors"
	"go-payroll/internal/salary"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultWorkers  = 8
	previewCacheTTL = time.Minute
)

// EmployeeDirectory supplies the active employee snapshot a run is
// calculated against, and single profiles for previews.
type EmployeeDirectory interface {
	ListActiveProfiles(ctx context.Context) ([]salary.EmployeeProfile, error)
	Profile(ctx context.Context, employeeID string) (salary.EmployeeProfile, error)
}

// VariablePaySource supplies the per-employee variable components for
// the run's pay period.
type VariablePaySource interface {
	InputsForPeriod(ctx context.Context, employeeID string, start, end time.Time) (salary.Inputs, error)
}

//go:generate mockgen -source=payrollrun_service.go -destination=mock/payrollrun_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateRunRequest) (RunResponse, error)
	GetAll(ctx context.Context) ([]RunResponse, error)
	GetByID(ctx context.Context, id string) (RunDetailResponse, error)
	Process(ctx context.Context, id string) (RunResponse, error)
	Approve(ctx context.Context, id string) (RunResponse, error)
	MarkProcessed(ctx context.Context, id string) (RunResponse, error)
	Complete(ctx context.Context, id string) (RunResponse, error)
	Correct(ctx context.Context, entryID string, req CorrectionRequest) (EntryResponse, error)

	// GetEntry and ListEntries serve the payslip generator: entries plus
	// the run context needed to decide whether a payslip may be issued.
	GetEntry(ctx context.Context, entryID string) (EntryResponse, error)
	ListEntries(ctx context.Context, runID string) ([]EntryResponse, error)

	// Preview calculates one employee's breakdown for a hypothetical
	// period without persisting anything.
	Preview(ctx context.Context, req PreviewRequest) (PreviewResponse, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	counter     counter.Repository
	employees   EmployeeDirectory
	variablePay VariablePaySource
	calc        *salary.Calculator
	rdb         *redis.Client
	workers     int
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	employees EmployeeDirectory,
	variablePay VariablePaySource,
	calc *salary.Calculator,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payrollrun.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payrollrun.service")
	}
	return &service{
		db:          db,
		repo:        repo,
		counter:     counterRepo,
		employees:   employees,
		variablePay: variablePay,
		calc:        calc,
		rdb:         rdb,
		workers:     defaultWorkers,
		logger:      l,
	}
}

func (s *service) Create(ctx context.Context, req CreateRunRequest) (RunResponse, error) {
	start, err := parseDate(req.PeriodStart)
	if err != nil {
		return RunResponse{}, err
	}
	end, err := parseDate(req.PeriodEnd)
	if err != nil {
		return RunResponse{}, err
	}
	payDate, err := parseDate(req.PayDate)
	if err != nil {
		return RunResponse{}, err
	}
	if start.After(end) {
		return RunResponse{}, payrollrunerrors.ErrInvalidPeriod
	}
	if payDate.Before(end) {
		return RunResponse{}, payrollrunerrors.ErrInvalidPayDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	nextVal, err := s.counter.GetNextValue(ctx, "payroll_run_number")
	if err != nil {
		return RunResponse{}, err
	}

	run := &PayrollRun{
		ID:              uuid.New(),
		RunNumber:       fmt.Sprintf("RUN-%04d", nextVal),
		PeriodStart:     start,
		PeriodEnd:       end,
		PayDate:         payDate,
		Frequency:       req.Frequency,
		Status:          StatusDraft,
		TotalGross:      decimal.Zero,
		TotalDeductions: decimal.Zero,
		TotalNet:        decimal.Zero,
	}

	if err := qtx.CreateRun(ctx, run); err != nil {
		return RunResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}

	return mapRun(*run), nil
}

func (s *service) GetAll(ctx context.Context) ([]RunResponse, error) {
	runs, err := s.repo.FindAllRuns(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]RunResponse, len(runs))
	for i, run := range runs {
		resp[i] = mapRun(run)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (RunDetailResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return RunDetailResponse{}, payrollrunerrors.ErrInvalidRunID
	}

	run, err := s.repo.FindRunByID(ctx, id)
	if err != nil {
		return RunDetailResponse{}, payrollrunerrors.ErrRunNotFound
	}

	entries, err := s.repo.ListEntriesForRun(ctx, id)
	if err != nil {
		return RunDetailResponse{}, err
	}

	detail := RunDetailResponse{RunResponse: mapRun(*run)}
	detail.Entries = make([]EntryResponse, len(entries))
	for i, entry := range entries {
		detail.Entries[i] = mapEntry(entry, *run)
	}
	return detail, nil
}

type entryResult struct {
	employeeID uuid.UUID
	breakdown  salary.Breakdown
	err        error
}

// Process calculates the whole run. Employees are calculated in
// parallel with a bounded worker pool; one employee's failure is
// recorded on their entry and never aborts the batch. Cancelling the
// context stops scheduling new employees and the run stays
// recalculable.
func (s *service) Process(ctx context.Context, id string) (RunResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return RunResponse{}, payrollrunerrors.ErrInvalidRunID
	}

	run, err := s.repo.FindRunByID(ctx, id)
	if err != nil {
		return RunResponse{}, payrollrunerrors.ErrRunNotFound
	}

	switch run.Status {
	case StatusDraft, StatusCalculated, StatusCalculatedWithErrors:
	default:
		return RunResponse{}, payrollrunerrors.ErrRunAlreadyProcessed
	}

	profiles, err := s.employees.ListActiveProfiles(ctx)
	if err != nil {
		return RunResponse{}, err
	}

	rid := contextutil.GetRequestID(ctx)
	s.logger.Info("payroll run processing started",
		zap.String("request_id", rid),
		zap.String("run_number", run.RunNumber),
		zap.Int("employees", len(profiles)),
	)

	results := make([]entryResult, len(profiles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, profile := range profiles {
		i, profile := i, profile
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = s.calculateOne(gctx, *run, profile)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		s.logger.Warn("payroll run processing cancelled",
			zap.String("run_number", run.RunNumber),
			zap.Error(err),
		)
		return RunResponse{}, err
	}

	entries, failed, reviewed := buildEntries(run.ID, results)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Recalculation replaces the previous outcome wholesale.
	if err := qtx.DeleteEntriesForRun(ctx, run.ID.String()); err != nil {
		return RunResponse{}, err
	}
	if err := qtx.CreateEntries(ctx, entries); err != nil {
		return RunResponse{}, err
	}

	run.EmployeeCount = len(entries)
	run.FailedCount = failed
	run.TotalGross, run.TotalDeductions, run.TotalNet = sumEntries(entries)
	if failed > 0 {
		run.Status = StatusCalculatedWithErrors
	} else {
		run.Status = StatusCalculated
	}

	if err := qtx.UpdateRun(ctx, run); err != nil {
		return RunResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}

	s.logger.Info("payroll run processed",
		zap.String("request_id", rid),
		zap.String("run_number", run.RunNumber),
		zap.String("status", run.Status),
		zap.Int("calculated", len(entries)-failed),
		zap.Int("failed", failed),
		zap.Int("needs_review", reviewed),
	)

	return mapRun(*run), nil
}

func (s *service) calculateOne(ctx context.Context, run PayrollRun, profile salary.EmployeeProfile) entryResult {
	inputs, err := s.variablePay.InputsForPeriod(ctx, profile.EmployeeID.String(), run.PeriodStart, run.PeriodEnd)
	if err != nil {
		return entryResult{employeeID: profile.EmployeeID, err: err}
	}

	breakdown, err := s.calc.Calculate(ctx, profile, inputs, run.PayDate)
	if err != nil {
		return entryResult{employeeID: profile.EmployeeID, err: err}
	}

	return entryResult{employeeID: profile.EmployeeID, breakdown: breakdown}
}

func buildEntries(runID uuid.UUID, results []entryResult) (entries []PayrollEntry, failed, reviewed int) {
	entries = make([]PayrollEntry, 0, len(results))
	for _, res := range results {
		if res.employeeID == uuid.Nil {
			// Slot never scheduled before cancellation.
			continue
		}

		entry := PayrollEntry{
			ID:          uuid.New(),
			RunID:       runID,
			EmployeeID:  res.employeeID,
			Corrections: "[]",
		}

		if res.err != nil {
			entry.Status = EntryStatusFailed
			entry.ErrorMessage = res.err.Error()
			failed++
			entries = append(entries, entry)
			continue
		}

		payload, err := json.Marshal(res.breakdown)
		if err != nil {
			entry.Status = EntryStatusFailed
			entry.ErrorMessage = err.Error()
			failed++
			entries = append(entries, entry)
			continue
		}

		entry.Breakdown = string(payload)
		entry.GrossSalary = res.breakdown.GrossSalary
		entry.TotalDeductions = res.breakdown.TotalDeductions
		entry.NetSalary = res.breakdown.NetSalary
		if res.breakdown.NeedsReview {
			entry.Status = EntryStatusNeedsReview
			reviewed++
		} else {
			entry.Status = EntryStatusCalculated
		}
		entries = append(entries, entry)
	}
	return entries, failed, reviewed
}

func sumEntries(entries []PayrollEntry) (gross, deductions, net decimal.Decimal) {
	gross, deductions, net = decimal.Zero, decimal.Zero, decimal.Zero
	for _, entry := range entries {
		if entry.Status == EntryStatusFailed {
			continue
		}
		gross = gross.Add(entry.GrossSalary)
		deductions = deductions.Add(entry.TotalDeductions)
		net = net.Add(entry.NetSalary)
	}
	return gross, deductions, net
}

func (s *service) Approve(ctx context.Context, id string) (RunResponse, error) {
	return s.transition(ctx, id, StatusApproved, StatusCalculated, StatusCalculatedWithErrors)
}

func (s *service) MarkProcessed(ctx context.Context, id string) (RunResponse, error) {
	return s.transition(ctx, id, StatusProcessed, StatusApproved)
}

func (s *service) Complete(ctx context.Context, id string) (RunResponse, error) {
	return s.transition(ctx, id, StatusCompleted, StatusProcessed)
}

func (s *service) transition(ctx context.Context, id, target string, allowedFrom ...string) (RunResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return RunResponse{}, payrollrunerrors.ErrInvalidRunID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	run, err := qtx.FindRunByID(ctx, id)
	if err != nil {
		return RunResponse{}, payrollrunerrors.ErrRunNotFound
	}

	allowed := false
	for _, from := range allowedFrom {
		if run.Status == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return RunResponse{}, payrollrunerrors.ErrInvalidTransition
	}

	run.Status = target
	if err := qtx.UpdateRun(ctx, run); err != nil {
		return RunResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}

	s.logger.Info("payroll run transitioned",
		zap.String("run_number", run.RunNumber),
		zap.String("status", target),
	)

	return mapRun(*run), nil
}

// Correct appends an adjustment to an entry. The stored breakdown is
// untouched; only the denormalized net and the run totals move.
func (s *service) Correct(ctx context.Context, entryID string, req CorrectionRequest) (EntryResponse, error) {
	if _, err := uuid.Parse(entryID); err != nil {
		return EntryResponse{}, payrollrunerrors.ErrEntryNotFound
	}
	if req.Reason == "" {
		return EntryResponse{}, payrollrunerrors.ErrMissingCorrectionReason
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	entry, err := qtx.FindEntryByID(ctx, entryID)
	if err != nil {
		return EntryResponse{}, payrollrunerrors.ErrEntryNotFound
	}

	run, err := qtx.FindRunByID(ctx, entry.RunID.String())
	if err != nil {
		return EntryResponse{}, payrollrunerrors.ErrRunNotFound
	}
	if run.Status == StatusCompleted {
		return EntryResponse{}, payrollrunerrors.ErrCorrectionNotAllowed
	}
	if entry.Status == EntryStatusFailed {
		return EntryResponse{}, payrollrunerrors.ErrCorrectionOnFailedEntry
	}

	var corrections []Correction
	if err := json.Unmarshal([]byte(entry.Corrections), &corrections); err != nil {
		return EntryResponse{}, err
	}
	corrections = append(corrections, Correction{
		Reason:      req.Reason,
		Amount:      req.Amount,
		CorrectedBy: contextutil.GetActorID(ctx),
		CorrectedAt: time.Now().UTC(),
	})

	payload, err := json.Marshal(corrections)
	if err != nil {
		return EntryResponse{}, err
	}
	entry.Corrections = string(payload)
	entry.NetSalary = entry.NetSalary.Add(req.Amount)

	if err := qtx.UpdateEntry(ctx, entry); err != nil {
		return EntryResponse{}, err
	}

	run.TotalNet = run.TotalNet.Add(req.Amount)
	if err := qtx.UpdateRun(ctx, run); err != nil {
		return EntryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return EntryResponse{}, err
	}

	return mapEntry(*entry, *run), nil
}

func (s *service) GetEntry(ctx context.Context, entryID string) (EntryResponse, error) {
	if _, err := uuid.Parse(entryID); err != nil {
		return EntryResponse{}, payrollrunerrors.ErrEntryNotFound
	}

	entry, err := s.repo.FindEntryByID(ctx, entryID)
	if err != nil {
		return EntryResponse{}, payrollrunerrors.ErrEntryNotFound
	}

	run, err := s.repo.FindRunByID(ctx, entry.RunID.String())
	if err != nil {
		return EntryResponse{}, payrollrunerrors.ErrRunNotFound
	}

	return mapEntry(*entry, *run), nil
}

func (s *service) ListEntries(ctx context.Context, runID string) ([]EntryResponse, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return nil, payrollrunerrors.ErrInvalidRunID
	}

	run, err := s.repo.FindRunByID(ctx, runID)
	if err != nil {
		return nil, payrollrunerrors.ErrRunNotFound
	}

	entries, err := s.repo.ListEntriesForRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	resp := make([]EntryResponse, len(entries))
	for i, entry := range entries {
		resp[i] = mapEntry(entry, *run)
	}
	return resp, nil
}

// Preview backs the administrative UI's what-if view: the full
// breakdown for one employee and period, computed on the fly and never
// written anywhere. Results are cached briefly; variable pay submitted
// in the meantime shows up once the entry expires.
func (s *service) Preview(ctx context.Context, req PreviewRequest) (PreviewResponse, error) {
	start, err := parseDate(req.PeriodStart)
	if err != nil {
		return PreviewResponse{}, err
	}
	end, err := parseDate(req.PeriodEnd)
	if err != nil {
		return PreviewResponse{}, err
	}
	payDate, err := parseDate(req.PayDate)
	if err != nil {
		return PreviewResponse{}, err
	}
	if start.After(end) {
		return PreviewResponse{}, payrollrunerrors.ErrInvalidPeriod
	}

	key := previewKey(req)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var resp PreviewResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	profile, err := s.employees.Profile(ctx, req.EmployeeID)
	if err != nil {
		return PreviewResponse{}, err
	}

	inputs, err := s.variablePay.InputsForPeriod(ctx, req.EmployeeID, start, end)
	if err != nil {
		return PreviewResponse{}, err
	}

	breakdown, err := s.calc.Calculate(ctx, profile, inputs, payDate)
	if err != nil {
		return PreviewResponse{}, err
	}

	resp := PreviewResponse{
		EmployeeID:  req.EmployeeID,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		PayDate:     req.PayDate,
		Breakdown:   breakdown,
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(resp); err == nil {
			_ = s.rdb.Set(ctx, key, payload, previewCacheTTL).Err()
		}
	}

	return resp, nil
}

func previewKey(req PreviewRequest) string {
	return fmt.Sprintf("payroll:preview:%s:%s:%s:%s",
		req.EmployeeID, req.PeriodStart, req.PeriodEnd, req.PayDate)
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, payrollrunerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapRun(run PayrollRun) RunResponse {
	return RunResponse{
		ID:              run.ID.String(),
		RunNumber:       run.RunNumber,
		PeriodStart:     run.PeriodStart.Format("2006-01-02"),
		PeriodEnd:       run.PeriodEnd.Format("2006-01-02"),
		PayDate:         run.PayDate.Format("2006-01-02"),
		Frequency:       run.Frequency,
		Status:          run.Status,
		EmployeeCount:   run.EmployeeCount,
		FailedCount:     run.FailedCount,
		TotalGross:      run.TotalGross.StringFixed(2),
		TotalDeductions: run.TotalDeductions.StringFixed(2),
		TotalNet:        run.TotalNet.StringFixed(2),
	}
}

func mapEntry(entry PayrollEntry, run PayrollRun) EntryResponse {
	resp := EntryResponse{
		ID:              entry.ID.String(),
		RunID:           entry.RunID.String(),
		EmployeeID:      entry.EmployeeID.String(),
		Status:          entry.Status,
		GrossSalary:     entry.GrossSalary.StringFixed(2),
		TotalDeductions: entry.TotalDeductions.StringFixed(2),
		NetSalary:       entry.NetSalary.StringFixed(2),
		ErrorMessage:    entry.ErrorMessage,
		RunStatus:       run.Status,
		PeriodStart:     run.PeriodStart.Format("2006-01-02"),
		PeriodEnd:       run.PeriodEnd.Format("2006-01-02"),
		PayDate:         run.PayDate.Format("2006-01-02"),
	}

	if entry.Breakdown != "" {
		resp.Breakdown = json.RawMessage(entry.Breakdown)
	}
	if entry.Corrections != "" && entry.Corrections != "[]" {
		_ = json.Unmarshal([]byte(entry.Corrections), &resp.Corrections)
	}

	return resp
}
