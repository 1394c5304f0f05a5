package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/site_workflow_app/internal/apperrors"
	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/site_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/site_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/site_workflow_app/internal/dto"
	"github.com/SscSPs/site_workflow_app/internal/utils/accounting"
)

// projectService implements project reads, creation, derived progress and
// site measurements.
type projectService struct {
	BaseService
	src             recordSources
	projectRepo     portsrepo.ProjectRepositoryFacade
	taskRepo        portsrepo.TaskReader
	ledgerRepo      portsrepo.LedgerReader
	transactionRepo portsrepo.TransactionReader
	measurementRepo portsrepo.SiteMeasurementRepositoryFacade
	userRepo        portsrepo.UserReader
}

// NewProjectService creates a new project service.
func NewProjectService(repos portsrepo.RepositoryProvider, access portssvc.AccessResolverSvc) portssvc.ProjectSvcFacade {
	return &projectService{
		BaseService:     BaseService{Access: access},
		src:             sourcesFrom(repos),
		projectRepo:     repos.ProjectRepo,
		taskRepo:        repos.TaskRepo,
		ledgerRepo:      repos.LedgerRepo,
		transactionRepo: repos.TransactionRepo,
		measurementRepo: repos.MeasurementRepo,
		userRepo:        repos.UserRepo,
	}
}

var _ portssvc.ProjectSvcFacade = (*projectService)(nil)

func (s *projectService) GetProject(ctx context.Context, actor domain.User, projectID string) (*domain.Project, error) {
	ctx, lookup := withRecordLookup(ctx, s.src)
	if err := s.AuthorizeResource(ctx, actor, domain.ResourceProject, projectID); err != nil {
		return nil, err
	}
	project, err := lookup.Project(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", projectID, err)
	}
	return project, nil
}

// GetProgress computes completion from the project's current tasks without
// touching the stored progress field.
func (s *projectService) GetProgress(ctx context.Context, actor domain.User, projectID string) (*domain.ProgressSummary, error) {
	ctx, lookup := withRecordLookup(ctx, s.src)
	if err := s.AuthorizeResource(ctx, actor, domain.ResourceProject, projectID); err != nil {
		return nil, err
	}
	if _, err := lookup.Project(ctx, projectID); err != nil {
		return nil, fmt.Errorf("get project %s: %w", projectID, err)
	}
	tasks, err := s.taskRepo.ListTasksByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks of project %s: %w", projectID, err)
	}
	summary := accounting.ComputeProgress(tasks)
	return &summary, nil
}

func (s *projectService) GetFinancials(ctx context.Context, actor domain.User, projectID string) (*dto.FinancialsResponse, error) {
	ctx, lookup := withRecordLookup(ctx, s.src)
	if err := s.AuthorizeResource(ctx, actor, domain.ResourceProject, projectID); err != nil {
		return nil, err
	}
	if err := denyFinancials(actor); err != nil {
		return nil, err
	}

	project, err := lookup.Project(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", projectID, err)
	}
	entries, err := s.ledgerRepo.ListAllLedgerEntriesByProject(ctx, projectID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load project ledger", slog.String("project_id", projectID))
		return nil, fmt.Errorf("list ledger of project %s: %w", projectID, err)
	}
	txns, err := s.transactionRepo.ListAllTransactionsByProject(ctx, projectID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load project transactions", slog.String("project_id", projectID))
		return nil, fmt.Errorf("list transactions of project %s: %w", projectID, err)
	}

	byCategory := make(map[string]decimal.Decimal)
	for category, total := range accounting.TotalsByCategory(entries) {
		byCategory[string(category)] = accounting.Round2(total)
	}

	in, out := decimal.Zero, decimal.Zero
	for _, t := range txns {
		if t.TransactionType.IsInflow() {
			in = in.Add(t.Amount)
		} else {
			out = out.Add(t.Amount)
		}
	}

	return &dto.FinancialsResponse{
		ProjectID:         project.ProjectID,
		ContractValue:     project.ContractValue,
		Progress:          project.Progress,
		LedgerByCategory:  byCategory,
		NetPaid:           accounting.NetPaid(entries),
		TransactionsIn:    accounting.Round2(in),
		TransactionsOut:   accounting.Round2(out),
		TransactionsCount: len(txns),
	}, nil
}

// CreateProject creates a project led by an architect. Professionals lead
// the projects they create; admins must name the architect.
func (s *projectService) CreateProject(ctx context.Context, actor domain.User, req dto.CreateProjectRequest) (*domain.Project, error) {
	if err := requireCategory(actor, "create projects", domain.CategoryProfessional); err != nil {
		return nil, err
	}

	var problems []string
	if strings.TrimSpace(req.Name) == "" {
		problems = append(problems, "name is required")
	}
	if req.ContractValue.IsNegative() {
		problems = append(problems, "contractValue must not be negative")
	}

	architectID := req.ArchitectID
	switch {
	case !actor.IsAdmin() && architectID == "":
		architectID = actor.UserID
	case !actor.IsAdmin() && architectID != actor.UserID:
		problems = append(problems, "professionals may only create projects they lead")
	case actor.IsAdmin() && architectID == "":
		problems = append(problems, "architectID is required")
	}
	if architectID != "" && architectID != actor.UserID {
		architect, err := s.userRepo.FindUserByID(ctx, architectID)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			problems = append(problems, "architect does not exist")
		case err != nil:
			return nil, fmt.Errorf("load architect: %w", err)
		case architect.Role.Category() != domain.CategoryProfessional:
			problems = append(problems, "architectID must reference an architect")
		}
	}
	if len(problems) > 0 {
		return nil, apperrors.NewValidationErrors(problems...)
	}

	if req.QuoteID != nil {
		ctx, lookup := withRecordLookup(ctx, s.src)
		if err := s.AuthorizeResource(ctx, actor, domain.ResourceQuote, *req.QuoteID); err != nil {
			return nil, err
		}
		if _, err := lookup.Quote(ctx, *req.QuoteID); err != nil {
			return nil, fmt.Errorf("get quote %s: %w", *req.QuoteID, err)
		}
	}

	project := domain.Project{
		ProjectID:     uuid.NewString(),
		Name:          strings.TrimSpace(req.Name),
		ArchitectID:   architectID,
		QuoteID:       req.QuoteID,
		Client:        strings.TrimSpace(req.Client),
		ContractValue: accounting.Round2(req.ContractValue),
		Progress:      decimal.Zero,
		AuditFields:   domain.NewAuditFields(actor.UserID, s.now()),
	}
	if err := s.projectRepo.SaveProject(ctx, project); err != nil {
		s.LogError(ctx, err, "Failed to save project")
		return nil, fmt.Errorf("create project: %w", err)
	}
	s.LogInfo(ctx, "Project created", slog.String("project_id", project.ProjectID), slog.String("architect_id", architectID))
	return &project, nil
}

// RefreshProgress recomputes and stores the derived progress field.
func (s *projectService) RefreshProgress(ctx context.Context, projectID, updatedBy string) (*domain.ProgressSummary, error) {
	tasks, err := s.taskRepo.ListTasksByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks of project %s: %w", projectID, err)
	}
	summary := accounting.ComputeProgress(tasks)
	if err := s.projectRepo.UpdateProjectProgress(ctx, projectID, summary.Progress, updatedBy, s.now()); err != nil {
		return nil, fmt.Errorf("update progress of project %s: %w", projectID, err)
	}
	s.LogDebug(ctx, "Project progress refreshed", slog.String("project_id", projectID), slog.String("progress", summary.Progress.String()))
	return &summary, nil
}

func (s *projectService) RecordSiteMeasurement(ctx context.Context, actor domain.User, projectID string, req dto.RecordSiteMeasurementRequest) (*domain.SiteMeasurement, error) {
	if err := requireCategory(actor, "record site measurements", domain.CategoryProfessional, domain.CategorySiteStaff); err != nil {
		return nil, err
	}
	ctx, lookup := withRecordLookup(ctx, s.src)
	if err := s.AuthorizeResource(ctx, actor, domain.ResourceProject, projectID); err != nil {
		return nil, err
	}
	if _, err := lookup.Project(ctx, projectID); err != nil {
		return nil, fmt.Errorf("get project %s: %w", projectID, err)
	}

	var problems []string
	if !req.Area.IsPositive() {
		problems = append(problems, "area must be positive")
	}
	if strings.TrimSpace(req.Unit) == "" {
		problems = append(problems, "unit is required")
	}
	if len(problems) > 0 {
		return nil, apperrors.NewValidationErrors(problems...)
	}

	m := domain.SiteMeasurement{
		MeasurementID: uuid.NewString(),
		ProjectID:     projectID,
		TakenBy:       actor.UserID,
		Area:          req.Area,
		Unit:          strings.TrimSpace(req.Unit),
		Notes:         req.Notes,
		AuditFields:   domain.NewAuditFields(actor.UserID, s.now()),
	}
	if err := s.measurementRepo.SaveSiteMeasurement(ctx, m); err != nil {
		s.LogError(ctx, err, "Failed to save site measurement", slog.String("project_id", projectID))
		return nil, fmt.Errorf("record site measurement: %w", err)
	}
	return &m, nil
}

func (s *projectService) GetSiteMeasurement(ctx context.Context, actor domain.User, measurementID string) (*domain.SiteMeasurement, error) {
	ctx, lookup := withRecordLookup(ctx, s.src)
	if err := s.AuthorizeResource(ctx, actor, domain.ResourceSiteMeasurement, measurementID); err != nil {
		return nil, err
	}
	m, err := lookup.SiteMeasurement(ctx, measurementID)
	if err != nil {
		return nil, fmt.Errorf("get site measurement %s: %w", measurementID, err)
	}
	return m, nil
}
