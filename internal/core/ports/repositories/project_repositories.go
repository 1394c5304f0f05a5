package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ProjectReader defines read operations for project data
type ProjectReader interface {
	// FindProjectByID retrieves a specific project by its ID.
	FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error)
}

// ProjectWriter defines write operations for project data
type ProjectWriter interface {
	// SaveProject persists a new project.
	SaveProject(ctx context.Context, project domain.Project) error

	// UpdateProjectProgress overwrites the derived progress field only.
	UpdateProjectProgress(ctx context.Context, projectID string, progress decimal.Decimal, updatedBy string, updatedAt time.Time) error
}

// ProjectRepositoryFacade combines all project-related repository interfaces
type ProjectRepositoryFacade interface {
	ProjectReader
	ProjectWriter
}

// QuoteReader defines read operations for quotes and the leads behind them
type QuoteReader interface {
	FindQuoteByID(ctx context.Context, quoteID string) (*domain.Quote, error)
	FindLeadByID(ctx context.Context, leadID string) (*domain.Lead, error)
}

// QuoteWriter defines write operations for quotes and leads
type QuoteWriter interface {
	SaveQuote(ctx context.Context, quote domain.Quote) error
	SaveLead(ctx context.Context, lead domain.Lead) error
}

// QuoteRepositoryFacade combines all quote-related repository interfaces
type QuoteRepositoryFacade interface {
	QuoteReader
	QuoteWriter
}

// SiteMeasurementReader defines read operations for site measurements
type SiteMeasurementReader interface {
	FindSiteMeasurementByID(ctx context.Context, measurementID string) (*domain.SiteMeasurement, error)
	ListSiteMeasurementsByProject(ctx context.Context, projectID string) ([]domain.SiteMeasurement, error)
}

// SiteMeasurementWriter defines write operations for site measurements
type SiteMeasurementWriter interface {
	SaveSiteMeasurement(ctx context.Context, measurement domain.SiteMeasurement) error
}

// SiteMeasurementRepositoryFacade combines all measurement-related repository interfaces
type SiteMeasurementRepositoryFacade interface {
	SiteMeasurementReader
	SiteMeasurementWriter
}
