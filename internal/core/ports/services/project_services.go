package services

import (
	"context"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	"github.com/SscSPs/site_workflow_app/internal/dto"
)

// ProjectReaderSvc defines read operations for project data
type ProjectReaderSvc interface {
	GetProject(ctx context.Context, actor domain.User, projectID string) (*domain.Project, error)

	// GetProgress computes completion from the project's tasks.
	GetProgress(ctx context.Context, actor domain.User, projectID string) (*domain.ProgressSummary, error)

	// GetFinancials reports ledger and transaction totals side by side.
	GetFinancials(ctx context.Context, actor domain.User, projectID string) (*dto.FinancialsResponse, error)
}

// ProjectWriterSvc defines write operations for project data
type ProjectWriterSvc interface {
	CreateProject(ctx context.Context, actor domain.User, req dto.CreateProjectRequest) (*domain.Project, error)

	// RefreshProgress recomputes and stores the derived progress field.
	RefreshProgress(ctx context.Context, projectID, updatedBy string) (*domain.ProgressSummary, error)
}

// SiteMeasurementSvc defines operations on site measurements
type SiteMeasurementSvc interface {
	RecordSiteMeasurement(ctx context.Context, actor domain.User, projectID string, req dto.RecordSiteMeasurementRequest) (*domain.SiteMeasurement, error)
	GetSiteMeasurement(ctx context.Context, actor domain.User, measurementID string) (*domain.SiteMeasurement, error)
}

// ProjectSvcFacade combines all project-related service interfaces
type ProjectSvcFacade interface {
	ProjectReaderSvc
	ProjectWriterSvc
	SiteMeasurementSvc
}
