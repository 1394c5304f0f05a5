package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/SscSPs/site_workflow_app/internal/apperrors"
	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/site_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/site_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/site_workflow_app/internal/dto"
	"github.com/SscSPs/site_workflow_app/internal/utils/accounting"
	"github.com/SscSPs/site_workflow_app/internal/utils/pagination"
)

// transactionService records and reads manual cash movements.
type transactionService struct {
	BaseService
	src             recordSources
	transactionRepo portsrepo.TransactionRepositoryFacade
	userRepo        portsrepo.UserReader
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(repos portsrepo.RepositoryProvider, access portssvc.AccessResolverSvc) portssvc.TransactionSvcFacade {
	return &transactionService{
		BaseService:     BaseService{Access: access},
		src:             sourcesFrom(repos),
		transactionRepo: repos.TransactionRepo,
		userRepo:        repos.UserRepo,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) GetTransaction(ctx context.Context, actor domain.User, transactionID string) (*domain.Transaction, error) {
	ctx, lookup := withRecordLookup(ctx, s.src)
	if err := s.AuthorizeResource(ctx, actor, domain.ResourceTransaction, transactionID); err != nil {
		return nil, err
	}
	txn, err := lookup.Transaction(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("get transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

func (s *transactionService) ListProjectTransactions(ctx context.Context, actor domain.User, projectID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
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

	txns, next, err := s.transactionRepo.ListTransactionsByProject(ctx, projectID, pagination.NormalizeLimit(params.Limit), token)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("project_id", projectID))
		return nil, fmt.Errorf("list transactions of project %s: %w", projectID, err)
	}
	resp := dto.ToListTransactionsResponse(txns, next)
	return &resp, nil
}

// RecordTransaction books a manual cash movement against a project.
func (s *transactionService) RecordTransaction(ctx context.Context, actor domain.User, projectID string, req dto.RecordTransactionRequest) (*domain.Transaction, error) {
	if err := requireCategory(actor, "record transactions", domain.CategoryProfessional); err != nil {
		return nil, err
	}
	ctx, lookup := withRecordLookup(ctx, s.src)
	if err := s.AuthorizeResource(ctx, actor, domain.ResourceProject, projectID); err != nil {
		return nil, err
	}
	// admins skip the graph walk, so existence is confirmed here
	if _, err := lookup.Project(ctx, projectID); err != nil {
		return nil, fmt.Errorf("get project %s: %w", projectID, err)
	}

	var problems []string
	if !req.Amount.IsPositive() {
		problems = append(problems, "amount must be positive")
	}
	switch domain.TransactionType(req.TransactionType) {
	case domain.PaymentIn, domain.PaymentOut, domain.MaterialPurchase, domain.Labour, domain.Expense, domain.OtherTransaction:
	default:
		problems = append(problems, "unknown transactionType")
	}
	if req.VendorID != nil {
		vendor, err := s.userRepo.FindUserByID(ctx, *req.VendorID)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			problems = append(problems, "vendor does not exist")
		case err != nil:
			return nil, fmt.Errorf("load vendor: %w", err)
		case !vendor.IsVendor():
			problems = append(problems, "vendorID must reference a vendor or supplier")
		}
	}
	if len(problems) > 0 {
		return nil, apperrors.NewValidationErrors(problems...)
	}

	now := s.now()
	date := now
	if req.TransactionDate != nil {
		date = req.TransactionDate.UTC()
	}

	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		ProjectID:       projectID,
		VendorID:        req.VendorID,
		PartyID:         req.PartyID,
		TransactionType: domain.TransactionType(req.TransactionType),
		Amount:          accounting.Round2(req.Amount),
		TransactionDate: date,
		Notes:           strings.TrimSpace(req.Notes),
		AuditFields:     domain.NewAuditFields(actor.UserID, now),
	}
	if err := s.transactionRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("project_id", projectID))
		return nil, fmt.Errorf("record transaction: %w", err)
	}
	s.LogInfo(ctx, "Transaction recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("project_id", projectID),
		slog.String("type", string(txn.TransactionType)))
	return &txn, nil
}
