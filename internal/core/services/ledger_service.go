package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/site_workflow_app/internal/apperrors"
	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/site_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/site_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/site_workflow_app/internal/dto"
	"github.com/SscSPs/site_workflow_app/internal/platform/metrics"
	"github.com/SscSPs/site_workflow_app/internal/utils/accounting"
	"github.com/SscSPs/site_workflow_app/internal/utils/pagination"
)

// ledgerService reads the settlement ledger and appends corrections to it.
type ledgerService struct {
	BaseService
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	projectRepo portsrepo.ProjectReader
	taskRepo    portsrepo.TaskReader
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(repos portsrepo.RepositoryProvider, access portssvc.AccessResolverSvc) portssvc.LedgerSvcFacade {
	return &ledgerService{
		BaseService: BaseService{Access: access},
		ledgerRepo:  repos.LedgerRepo,
		projectRepo: repos.ProjectRepo,
		taskRepo:    repos.TaskRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// pageToken validates a client supplied token and returns it in repository form.
func pageToken(raw string) (*string, error) {
	if raw == "" {
		return nil, nil
	}
	if _, err := pagination.DecodeToken(raw); err != nil {
		return nil, apperrors.NewValidationFailedError("invalid nextToken")
	}
	return &raw, nil
}

func (s *ledgerService) ListProjectLedger(ctx context.Context, actor domain.User, projectID string, params dto.ListLedgerParams) (*dto.ListLedgerResponse, error) {
	if err := s.AuthorizeResource(ctx, actor, domain.ResourceProject, projectID); err != nil {
		return nil, err
	}
	if err := denyFinancials(actor); err != nil {
		return nil, err
	}
	token, err := pageToken(params.NextToken)
	if err != nil {
		return nil, err
	}

	entries, next, err := s.ledgerRepo.ListLedgerEntriesByProject(ctx, projectID, pagination.NormalizeLimit(params.Limit), token)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger entries", slog.String("project_id", projectID))
		return nil, fmt.Errorf("list ledger of project %s: %w", projectID, err)
	}
	return &dto.ListLedgerResponse{Entries: dto.ToLedgerEntryResponses(entries), NextToken: next}, nil
}

// RecordAdjustment appends an ADJUSTMENT or REFUND entry. Replaying a request
// with the same idempotency key is reported as a duplicate, never re-applied.
func (s *ledgerService) RecordAdjustment(ctx context.Context, actor domain.User, projectID string, req dto.RecordAdjustmentRequest) (*domain.LedgerEntry, error) {
	if !actor.IsAdmin() {
		return nil, &apperrors.AccessDeniedError{Code: string(domain.DecisionRoleDenied), Reason: "only admins may record ledger adjustments"}
	}
	if _, err := s.projectRepo.FindProjectByID(ctx, projectID); err != nil {
		return nil, fmt.Errorf("get project %s: %w", projectID, err)
	}

	var problems []string
	if !req.Amount.IsPositive() {
		problems = append(problems, "amount must be positive")
	}
	if strings.TrimSpace(req.Description) == "" {
		problems = append(problems, "description is required")
	}
	entryType := domain.EntryType(req.EntryType)
	if entryType != domain.Credit && entryType != domain.Debit {
		problems = append(problems, "entryType must be CREDIT or DEBIT")
	}
	category := domain.LedgerCategory(req.Category)
	if category != domain.CategoryAdjustment && category != domain.CategoryRefund {
		problems = append(problems, "category must be ADJUSTMENT or REFUND")
	}
	if req.TaskID != nil {
		task, err := s.taskRepo.FindTaskByID(ctx, *req.TaskID)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			problems = append(problems, "task does not exist")
		case err != nil:
			return nil, fmt.Errorf("load task: %w", err)
		case task.ProjectID != projectID:
			problems = append(problems, "task does not belong to the project")
		}
	}
	if len(problems) > 0 {
		return nil, apperrors.NewValidationErrors(problems...)
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	if key == "" {
		key = "adjustment:" + uuid.NewString()
	}

	entry := domain.NewLedgerEntry(uuid.NewString(), projectID, req.TaskID, entryType, category,
		accounting.Round2(req.Amount), key, actor.UserID, s.now())
	entry.Description = strings.TrimSpace(req.Description)
	entry.Status = domain.LedgerProcessed

	written, err := s.ledgerRepo.AppendLedgerEntries(ctx, []domain.LedgerEntry{entry})
	if err != nil {
		s.LogError(ctx, err, "Failed to append adjustment", slog.String("project_id", projectID))
		return nil, fmt.Errorf("record adjustment: %w", err)
	}
	if written == 0 {
		return nil, apperrors.NewAppError(http.StatusConflict, "an entry with this idempotency key already exists", apperrors.ErrDuplicate)
	}
	metrics.LedgerEntriesWritten.WithLabelValues(string(category)).Inc()

	s.LogInfo(ctx, "Ledger adjustment recorded",
		slog.String("project_id", projectID),
		slog.String("entry_id", entry.EntryID),
		slog.String("category", string(category)),
		slog.String("amount", entry.Amount.String()))
	return &entry, nil
}

// PreviewSettlement runs the payout cascade on caller supplied inputs.
// Inputs are range checked here so the calculator never panics on user data.
func (s *ledgerService) PreviewSettlement(ctx context.Context, req dto.SettlementPreviewRequest) (*domain.PayoutBreakdown, error) {
	hundred := decimal.NewFromInt(100)
	var problems []string
	if req.GrossAmount.IsNegative() {
		problems = append(problems, "grossAmount must not be negative")
	}
	if req.PreviousPaid.IsNegative() {
		problems = append(problems, "previousPaid must not be negative")
	}
	if req.ProjectTotal.IsNegative() {
		problems = append(problems, "projectTotal must not be negative")
	}
	if req.Progress.IsNegative() || req.Progress.GreaterThan(hundred) {
		problems = append(problems, "progress must be between 0 and 100")
	}
	if req.PenaltyPercent.IsNegative() || req.PenaltyPercent.GreaterThan(hundred) {
		problems = append(problems, "penaltyPercent must be between 0 and 100")
	}
	if len(problems) > 0 {
		return nil, apperrors.NewValidationErrors(problems...)
	}

	b := accounting.ComputePayoutBreakdown(accounting.PayoutInput{
		GrossAmount:    req.GrossAmount,
		Progress:       req.Progress,
		PreviousPaid:   req.PreviousPaid,
		ProjectTotal:   req.ProjectTotal,
		PenaltyPercent: req.PenaltyPercent,
		PenaltyReason:  strings.TrimSpace(req.PenaltyReason),
	})
	return &b, nil
}
