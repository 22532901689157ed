package payslip

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-payroll/internal/payrollrun"
	paysliperrors "go-payroll/internal/payslip/errors"
	"go-payroll/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

const generateWorkers = 8

// EntrySource supplies the payroll entries a payslip freezes. The run
// processor implements it.
type EntrySource interface {
	GetEntry(ctx context.Context, entryID string) (payrollrun.EntryResponse, error)
	ListEntries(ctx context.Context, runID string) ([]payrollrun.EntryResponse, error)
}

//go:generate mockgen -source=payslip_service.go -destination=mock/payslip_service_mock.go -package=mock
type Service interface {
	CreateTemplate(ctx context.Context, req CreateTemplateRequest) (TemplateResponse, error)
	ListTemplates(ctx context.Context) ([]TemplateResponse, error)

	// Generate is idempotent: repeating the call for the same entry and
	// template returns the existing payslip instead of minting another.
	Generate(ctx context.Context, req GeneratePayslipRequest) (PayslipResponse, error)

	// GenerateForRun issues payslips for every payable entry of a run.
	// Failed and needs_review entries are skipped and reported in the
	// summary; the batch never aborts on one entry.
	GenerateForRun(ctx context.Context, req GenerateRunRequest) (RunGenerationResponse, error)
	Regenerate(ctx context.Context, payslipID string) (PayslipResponse, error)
	GetByID(ctx context.Context, id string) (PayslipResponse, error)
	ListForEmployee(ctx context.Context, employeeID string) ([]PayslipResponse, error)
	ListCurrentForRun(ctx context.Context, runID string) ([]PayslipResponse, error)

	// AdvanceStatus and AdvanceEmailStatus are forward-only. A
	// confirmation that would move the status backwards, or repeat the
	// current one, returns the payslip unchanged.
	AdvanceStatus(ctx context.Context, id string, status string) (PayslipResponse, error)
	AdvanceEmailStatus(ctx context.Context, id string, status string) (PayslipResponse, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	entries EntrySource
	logger  *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	entries EntrySource,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payslip.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payslip.service")
	}
	return &service{db: db, repo: repo, counter: counterRepo, entries: entries, logger: l}
}

func (s *service) CreateTemplate(ctx context.Context, req CreateTemplateRequest) (TemplateResponse, error) {
	if _, err := s.repo.FindTemplateByCode(ctx, req.Code); err == nil {
		return TemplateResponse{}, paysliperrors.ErrDuplicateTemplateCode
	}

	name := req.Name
	if name == "" {
		name = cases.Title(language.English).String(req.Code)
	}

	tpl := &PayslipTemplate{
		ID:       uuid.New(),
		Code:     req.Code,
		Name:     name,
		Version:  1,
		IsActive: true,
	}
	if err := s.repo.CreateTemplate(ctx, tpl); err != nil {
		return TemplateResponse{}, err
	}

	return mapTemplate(*tpl), nil
}

func (s *service) ListTemplates(ctx context.Context) ([]TemplateResponse, error) {
	templates, err := s.repo.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]TemplateResponse, len(templates))
	for i, tpl := range templates {
		resp[i] = mapTemplate(tpl)
	}
	return resp, nil
}

// payslipContent is the frozen document payload.
type payslipContent struct {
	PayslipNumber string          `json:"payslip_number"`
	EmployeeID    string          `json:"employee_id"`
	PeriodStart   string          `json:"period_start"`
	PeriodEnd     string          `json:"period_end"`
	PayDate       string          `json:"pay_date"`
	Breakdown     json.RawMessage `json:"breakdown"`
	TemplateCode  string          `json:"template_code"`
}

func (s *service) Generate(ctx context.Context, req GeneratePayslipRequest) (PayslipResponse, error) {
	tpl, err := s.repo.FindTemplateByCode(ctx, req.TemplateCode)
	if err != nil {
		return PayslipResponse{}, paysliperrors.ErrTemplateNotFound
	}

	entry, err := s.entries.GetEntry(ctx, req.EntryID)
	if err != nil {
		return PayslipResponse{}, err
	}
	if err := payableCheck(entry); err != nil {
		return PayslipResponse{}, err
	}

	return s.generateForEntry(ctx, *tpl, entry)
}

// generateForEntry is the idempotent per-entry issue path shared by the
// single and the run-scoped generate operations.
func (s *service) generateForEntry(ctx context.Context, tpl PayslipTemplate, entry payrollrun.EntryResponse) (PayslipResponse, error) {
	if existing, err := s.repo.FindCurrentForEntryAndTemplate(ctx, entry.ID, tpl.ID.String()); err == nil {
		return mapPayslip(*existing), nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) && !errors.Is(err, sql.ErrNoRows) {
		return PayslipResponse{}, err
	}

	return s.issue(ctx, tpl, entry, 1)
}

func (s *service) GenerateForRun(ctx context.Context, req GenerateRunRequest) (RunGenerationResponse, error) {
	tpl, err := s.repo.FindTemplateByCode(ctx, req.TemplateCode)
	if err != nil {
		return RunGenerationResponse{}, paysliperrors.ErrTemplateNotFound
	}

	entries, err := s.entries.ListEntries(ctx, req.RunID)
	if err != nil {
		return RunGenerationResponse{}, err
	}
	if len(entries) > 0 {
		// One run, one status: an unapproved run fails the whole batch
		// instead of reporting every entry skipped.
		if err := payableCheck(entries[0]); errors.Is(err, paysliperrors.ErrRunNotApproved) {
			return RunGenerationResponse{}, err
		}
	}

	results := make([]runGenerationResult, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(generateWorkers)
	for i, entry := range entries {
		i, entry := i, entry
		if err := payableCheck(entry); err != nil {
			results[i] = runGenerationResult{entry: entry, skipReason: skipReason(entry, err)}
			continue
		}
		g.Go(func() error {
			slip, err := s.generateForEntry(gctx, *tpl, entry)
			results[i] = runGenerationResult{entry: entry, slip: slip, err: err}
			return nil
		})
	}
	_ = g.Wait()

	resp := RunGenerationResponse{RunID: req.RunID}
	for _, res := range results {
		switch {
		case res.skipReason != "":
			resp.Skipped = append(resp.Skipped, SkippedEntryResponse{
				EntryID: res.entry.ID,
				Status:  res.entry.Status,
				Reason:  res.skipReason,
			})
		case res.err != nil:
			resp.Skipped = append(resp.Skipped, SkippedEntryResponse{
				EntryID: res.entry.ID,
				Status:  res.entry.Status,
				Reason:  res.err.Error(),
			})
		default:
			resp.Generated = append(resp.Generated, res.slip)
		}
	}

	s.logger.Info("run payslips generated",
		zap.String("run_id", req.RunID),
		zap.String("template_code", tpl.Code),
		zap.Int("generated", len(resp.Generated)),
		zap.Int("skipped", len(resp.Skipped)),
	)

	return resp, nil
}

type runGenerationResult struct {
	entry      payrollrun.EntryResponse
	slip       PayslipResponse
	err        error
	skipReason string
}

func skipReason(entry payrollrun.EntryResponse, err error) string {
	if entry.Status == payrollrun.EntryStatusFailed && entry.ErrorMessage != "" {
		return entry.ErrorMessage
	}
	return err.Error()
}

// Regenerate supersedes the current document and issues the next
// version against the entry's present state. The superseded row stays
// on record.
func (s *service) Regenerate(ctx context.Context, payslipID string) (PayslipResponse, error) {
	if _, err := uuid.Parse(payslipID); err != nil {
		return PayslipResponse{}, paysliperrors.ErrPayslipNotFound
	}

	current, err := s.repo.FindPayslipByID(ctx, payslipID)
	if err != nil {
		return PayslipResponse{}, paysliperrors.ErrPayslipNotFound
	}

	entry, err := s.entries.GetEntry(ctx, current.EntryID.String())
	if err != nil {
		return PayslipResponse{}, err
	}
	if err := payableCheck(entry); err != nil {
		return PayslipResponse{}, err
	}

	tpl, err := s.repo.FindTemplateByID(ctx, current.TemplateID.String())
	if err != nil {
		return PayslipResponse{}, paysliperrors.ErrTemplateNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayslipResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	current.Superseded = true
	if err := qtx.UpdatePayslip(ctx, current); err != nil {
		return PayslipResponse{}, err
	}

	next, err := s.issueTx(ctx, qtx, *tpl, entry, current.Version+1)
	if err != nil {
		return PayslipResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayslipResponse{}, err
	}

	return next, nil
}

func (s *service) issue(ctx context.Context, tpl PayslipTemplate, entry payrollrun.EntryResponse, version int) (PayslipResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayslipResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	resp, err := s.issueTx(ctx, qtx, tpl, entry, version)
	if err != nil {
		return PayslipResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayslipResponse{}, err
	}

	return resp, nil
}

func (s *service) issueTx(ctx context.Context, qtx Repository, tpl PayslipTemplate, entry payrollrun.EntryResponse, version int) (PayslipResponse, error) {
	nextVal, err := s.counter.GetNextValue(ctx, "payslip_number")
	if err != nil {
		return PayslipResponse{}, err
	}
	number := fmt.Sprintf("PS-%06d", nextVal)

	content, err := json.Marshal(payslipContent{
		PayslipNumber: number,
		EmployeeID:    entry.EmployeeID,
		PeriodStart:   entry.PeriodStart,
		PeriodEnd:     entry.PeriodEnd,
		PayDate:       entry.PayDate,
		Breakdown:     entry.Breakdown,
		TemplateCode:  tpl.Code,
	})
	if err != nil {
		return PayslipResponse{}, err
	}

	p := &Payslip{
		ID:            uuid.New(),
		PayslipNumber: number,
		EntryID:       uuid.MustParse(entry.ID),
		TemplateID:    tpl.ID,
		Version:       version,
		EmployeeID:    uuid.MustParse(entry.EmployeeID),
		RunID:         uuid.MustParse(entry.RunID),
		Status:        StatusGenerated,
		EmailStatus:   EmailStatusPending,
		Content:       string(content),
		GeneratedAt:   time.Now().UTC(),
	}
	if err := qtx.CreatePayslip(ctx, p); err != nil {
		return PayslipResponse{}, err
	}

	s.logger.Info("payslip issued",
		zap.String("payslip_number", number),
		zap.String("entry_id", entry.ID),
		zap.Int("version", version),
	)

	return mapPayslip(*p), nil
}

func payableCheck(entry payrollrun.EntryResponse) error {
	switch entry.Status {
	case payrollrun.EntryStatusFailed:
		return paysliperrors.ErrEntryNotPayable
	case payrollrun.EntryStatusNeedsReview:
		return paysliperrors.ErrEntryNeedsReview
	}

	switch entry.RunStatus {
	case payrollrun.StatusApproved, payrollrun.StatusProcessed, payrollrun.StatusCompleted:
		return nil
	default:
		return paysliperrors.ErrRunNotApproved
	}
}

func (s *service) GetByID(ctx context.Context, id string) (PayslipResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PayslipResponse{}, paysliperrors.ErrPayslipNotFound
	}

	p, err := s.repo.FindPayslipByID(ctx, id)
	if err != nil {
		return PayslipResponse{}, paysliperrors.ErrPayslipNotFound
	}

	return mapPayslip(*p), nil
}

func (s *service) ListForEmployee(ctx context.Context, employeeID string) ([]PayslipResponse, error) {
	payslips, err := s.repo.ListForEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapPayslips(payslips), nil
}

func (s *service) ListCurrentForRun(ctx context.Context, runID string) ([]PayslipResponse, error) {
	payslips, err := s.repo.ListCurrentForRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	return mapPayslips(payslips), nil
}

func (s *service) AdvanceStatus(ctx context.Context, id string, status string) (PayslipResponse, error) {
	targetRank, ok := statusRank[status]
	if !ok {
		return PayslipResponse{}, paysliperrors.ErrInvalidStatus
	}

	return s.advance(ctx, id, func(p *Payslip) bool {
		if targetRank <= statusRank[p.Status] {
			return false
		}
		p.Status = status
		return true
	})
}

func (s *service) AdvanceEmailStatus(ctx context.Context, id string, status string) (PayslipResponse, error) {
	targetRank, ok := emailStatusRank[status]
	if !ok {
		return PayslipResponse{}, paysliperrors.ErrInvalidEmailStatus
	}

	return s.advance(ctx, id, func(p *Payslip) bool {
		if targetRank <= emailStatusRank[p.EmailStatus] {
			return false
		}
		p.EmailStatus = status
		return true
	})
}

func (s *service) advance(ctx context.Context, id string, apply func(p *Payslip) bool) (PayslipResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PayslipResponse{}, paysliperrors.ErrPayslipNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayslipResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindPayslipByID(ctx, id)
	if err != nil {
		return PayslipResponse{}, paysliperrors.ErrPayslipNotFound
	}

	if apply(p) {
		if err := qtx.UpdatePayslip(ctx, p); err != nil {
			return PayslipResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return PayslipResponse{}, err
	}

	return mapPayslip(*p), nil
}

func mapTemplate(tpl PayslipTemplate) TemplateResponse {
	return TemplateResponse{
		ID:       tpl.ID.String(),
		Code:     tpl.Code,
		Name:     tpl.Name,
		Version:  tpl.Version,
		IsActive: tpl.IsActive,
	}
}

func mapPayslip(p Payslip) PayslipResponse {
	resp := PayslipResponse{
		ID:            p.ID.String(),
		PayslipNumber: p.PayslipNumber,
		EntryID:       p.EntryID.String(),
		TemplateID:    p.TemplateID.String(),
		Version:       p.Version,
		EmployeeID:    p.EmployeeID.String(),
		RunID:         p.RunID.String(),
		Status:        p.Status,
		EmailStatus:   p.EmailStatus,
		Superseded:    p.Superseded,
		GeneratedAt:   p.GeneratedAt.Format(time.RFC3339),
	}
	if p.Content != "" {
		resp.Content = json.RawMessage(p.Content)
	}
	return resp
}

func mapPayslips(payslips []Payslip) []PayslipResponse {
	resp := make([]PayslipResponse, len(payslips))
	for i, p := range payslips {
		resp[i] = mapPayslip(p)
	}
	return resp
}
