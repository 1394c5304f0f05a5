package services

import (
	"context"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	"github.com/SscSPs/site_workflow_app/internal/dto"
)

// LedgerReaderSvc defines read operations for ledger data
type LedgerReaderSvc interface {
	ListProjectLedger(ctx context.Context, actor domain.User, projectID string, params dto.ListLedgerParams) (*dto.ListLedgerResponse, error)
}

// LedgerWriterSvc appends correcting entries. There is no way to edit an entry.
type LedgerWriterSvc interface {
	RecordAdjustment(ctx context.Context, actor domain.User, projectID string, req dto.RecordAdjustmentRequest) (*domain.LedgerEntry, error)
}

// SettlementCalculatorSvc exposes the payout cascade without side effects.
type SettlementCalculatorSvc interface {
	PreviewSettlement(ctx context.Context, req dto.SettlementPreviewRequest) (*domain.PayoutBreakdown, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
	SettlementCalculatorSvc
}
