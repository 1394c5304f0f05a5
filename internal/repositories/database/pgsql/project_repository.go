package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/site_workflow_app/internal/apperrors"
	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/site_workflow_app/internal/core/ports/repositories"
	"github.com/SscSPs/site_workflow_app/internal/models"
	"github.com/SscSPs/site_workflow_app/internal/utils/mapping"
)

// PgxProjectRepository stores projects together with the quotes, leads and
// site measurements hanging off them.
type PgxProjectRepository struct {
	BaseRepository
}

func newPgxProjectRepository(pool *pgxpool.Pool, timeout time.Duration) *PgxProjectRepository {
	return &PgxProjectRepository{BaseRepository: BaseRepository{Pool: pool, Timeout: timeout}}
}

var (
	_ portsrepo.ProjectRepositoryFacade         = (*PgxProjectRepository)(nil)
	_ portsrepo.QuoteRepositoryFacade           = (*PgxProjectRepository)(nil)
	_ portsrepo.SiteMeasurementRepositoryFacade = (*PgxProjectRepository)(nil)
)

// --- Projects ---

func (r *PgxProjectRepository) SaveProject(ctx context.Context, project domain.Project) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m := mapping.ToModelProject(project)
	query := `
		INSERT INTO projects (project_id, name, architect_id, quote_id, client, contract_value, progress,
		                      created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ProjectID, m.Name, m.ArchitectID, m.QuoteID, m.Client, m.ContractValue, m.Progress,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return mapError(err, "insert project "+m.ProjectID)
}

func (r *PgxProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT project_id, name, architect_id, quote_id, client, contract_value, progress,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM projects
		WHERE project_id = $1;
	`
	var m models.Project
	err := r.Pool.QueryRow(ctx, query, projectID).Scan(
		&m.ProjectID, &m.Name, &m.ArchitectID, &m.QuoteID, &m.Client, &m.ContractValue, &m.Progress,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapError(err, "find project "+projectID)
	}
	p := mapping.ToDomainProject(m)
	return &p, nil
}

// UpdateProjectProgress overwrites the derived progress column only.
func (r *PgxProjectRepository) UpdateProjectProgress(ctx context.Context, projectID string, progress decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `UPDATE projects SET progress = $2, last_updated_at = $3, last_updated_by = $4 WHERE project_id = $1;`
	tag, err := r.Pool.Exec(ctx, query, projectID, progress, updatedAt, updatedBy)
	if err != nil {
		return mapError(err, "update progress of project "+projectID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// --- Quotes and leads ---

func (r *PgxProjectRepository) SaveQuote(ctx context.Context, quote domain.Quote) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m := mapping.ToModelQuote(quote)
	query := `
		INSERT INTO quotes (quote_id, lead_id, assigned, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query, m.QuoteID, m.LeadID, m.Assigned, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	return mapError(err, "insert quote "+m.QuoteID)
}

func (r *PgxProjectRepository) FindQuoteByID(ctx context.Context, quoteID string) (*domain.Quote, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT quote_id, lead_id, assigned, created_at, created_by, last_updated_at, last_updated_by
		FROM quotes
		WHERE quote_id = $1;
	`
	var m models.Quote
	err := r.Pool.QueryRow(ctx, query, quoteID).Scan(
		&m.QuoteID, &m.LeadID, &m.Assigned, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapError(err, "find quote "+quoteID)
	}
	q := mapping.ToDomainQuote(m)
	return &q, nil
}

func (r *PgxProjectRepository) SaveLead(ctx context.Context, lead domain.Lead) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m := mapping.ToModelLead(lead)
	query := `
		INSERT INTO leads (lead_id, name, assigned, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query, m.LeadID, m.Name, m.Assigned, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	return mapError(err, "insert lead "+m.LeadID)
}

func (r *PgxProjectRepository) FindLeadByID(ctx context.Context, leadID string) (*domain.Lead, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT lead_id, name, assigned, created_at, created_by, last_updated_at, last_updated_by
		FROM leads
		WHERE lead_id = $1;
	`
	var m models.Lead
	err := r.Pool.QueryRow(ctx, query, leadID).Scan(
		&m.LeadID, &m.Name, &m.Assigned, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapError(err, "find lead "+leadID)
	}
	l := mapping.ToDomainLead(m)
	return &l, nil
}

// --- Site measurements ---

const measurementColumns = `measurement_id, project_id, taken_by, area, unit, notes,
		created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxProjectRepository) SaveSiteMeasurement(ctx context.Context, measurement domain.SiteMeasurement) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m := mapping.ToModelSiteMeasurement(measurement)
	query := `INSERT INTO site_measurements (` + measurementColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`
	_, err := r.Pool.Exec(ctx, query,
		m.MeasurementID, m.ProjectID, m.TakenBy, m.Area, m.Unit, m.Notes,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	return mapError(err, "insert site measurement "+m.MeasurementID)
}

func scanMeasurement(row interface{ Scan(...any) error }) (models.SiteMeasurement, error) {
	var m models.SiteMeasurement
	err := row.Scan(
		&m.MeasurementID, &m.ProjectID, &m.TakenBy, &m.Area, &m.Unit, &m.Notes,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxProjectRepository) FindSiteMeasurementByID(ctx context.Context, measurementID string) (*domain.SiteMeasurement, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + measurementColumns + ` FROM site_measurements WHERE measurement_id = $1;`
	m, err := scanMeasurement(r.Pool.QueryRow(ctx, query, measurementID))
	if err != nil {
		return nil, mapError(err, "find site measurement "+measurementID)
	}
	d := mapping.ToDomainSiteMeasurement(m)
	return &d, nil
}

func (r *PgxProjectRepository) ListSiteMeasurementsByProject(ctx context.Context, projectID string) ([]domain.SiteMeasurement, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + measurementColumns + ` FROM site_measurements WHERE project_id = $1 ORDER BY created_at, measurement_id;`
	rows, err := r.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, mapError(err, "list site measurements of project "+projectID)
	}
	defer rows.Close()

	out := []domain.SiteMeasurement{}
	for rows.Next() {
		m, err := scanMeasurement(rows)
		if err != nil {
			return nil, mapError(err, "scan site measurement")
		}
		out = append(out, mapping.ToDomainSiteMeasurement(m))
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate site measurements")
	}
	return out, nil
}
