package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/site_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/site_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/site_workflow_app/internal/core/services"
	"github.com/SscSPs/site_workflow_app/internal/repositories/memory"
)

var (
	siteStart = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	clockNow  = time.Date(2024, 4, 15, 10, 30, 0, 0, time.UTC)
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// recordingPublisher keeps every published event for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.NotificationEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e domain.NotificationEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) Events() []domain.NotificationEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.NotificationEvent(nil), p.events...)
}

// world is a seeded store with one actor per role and a small project graph:
//
//	lead (owned by client) <- quote (assigned: architect2) <- project
//	legacyProject (client matched by email, no quote)
//	reviewTask (REVIEW, value 100000, weight 50) assigned to siteEngineer
//	todoTask (TODO, value 50000, weight 30) assigned to siteEngineer2
//	zeroTask (REVIEW, value 0) assigned to siteEngineer
type world struct {
	store     *memory.Store
	repos     portsrepo.RepositoryProvider
	svc       *portssvc.ServiceContainer
	publisher *recordingPublisher

	admin, architect, architect2, client, otherClient domain.User
	siteEngineer, siteEngineer2, vendor, otherVendor  domain.User

	lead          domain.Lead
	quote         domain.Quote
	project       domain.Project
	legacyProject domain.Project
	reviewTask    domain.Task
	todoTask      domain.Task
	zeroTask      domain.Task
	transaction   domain.Transaction
	measurement   domain.SiteMeasurement
}

func newUser(role domain.Role, name, email string) domain.User {
	return domain.User{UserID: uuid.NewString(), Name: name, Email: email, Role: role}
}

func newWorld(t *testing.T) *world {
	t.Helper()
	ctx := context.Background()
	w := &world{store: memory.NewStore(), publisher: &recordingPublisher{}}
	w.repos = memory.NewRepositoryProvider(w.store)

	w.admin = newUser(domain.RoleAdmin, "Ada Admin", "ada@example.com")
	w.architect = newUser(domain.RoleArchitect, "Arun Architect", "arun@example.com")
	w.architect2 = newUser(domain.RoleArchitect, "Bela Architect", "bela@example.com")
	w.client = newUser(domain.RoleClient, "Hana Owner", "hana@example.com")
	w.otherClient = newUser(domain.RoleClient, "Ivo Other", "ivo@example.com")
	w.siteEngineer = newUser(domain.RoleSiteEngineer, "Sam Site", "sam@example.com")
	w.siteEngineer2 = newUser(domain.RoleSupervisor, "Sid Super", "sid@example.com")
	w.vendor = newUser(domain.RoleVendor, "Vik Vendor", "vik@example.com")
	w.otherVendor = newUser(domain.RoleSupplier, "Sia Supplier", "sia@example.com")
	for _, u := range []domain.User{w.admin, w.architect, w.architect2, w.client, w.otherClient, w.siteEngineer, w.siteEngineer2, w.vendor, w.otherVendor} {
		require.NoError(t, w.store.SaveUser(ctx, u))
	}

	audit := domain.NewAuditFields(w.admin.UserID, siteStart)

	w.lead = domain.Lead{LeadID: uuid.NewString(), Name: "Kitchen remodel", Assigned: w.client.UserID, AuditFields: audit}
	w.quote = domain.Quote{QuoteID: uuid.NewString(), LeadID: w.lead.LeadID, Assigned: []string{w.architect2.UserID}, AuditFields: audit}
	require.NoError(t, w.store.SaveLead(ctx, w.lead))
	require.NoError(t, w.store.SaveQuote(ctx, w.quote))

	w.project = domain.Project{
		ProjectID:     uuid.NewString(),
		Name:          "Kitchen remodel",
		ArchitectID:   w.architect.UserID,
		QuoteID:       &w.quote.QuoteID,
		ContractValue: dec("200000"),
		Progress:      decimal.Zero,
		AuditFields:   audit,
	}
	w.legacyProject = domain.Project{
		ProjectID:     uuid.NewString(),
		Name:          "Garden wall",
		ArchitectID:   w.architect2.UserID,
		Client:        "HANA@example.com",
		ContractValue: dec("10000"),
		Progress:      decimal.Zero,
		AuditFields:   audit,
	}
	require.NoError(t, w.store.SaveProject(ctx, w.project))
	require.NoError(t, w.store.SaveProject(ctx, w.legacyProject))

	start := siteStart
	w.reviewTask = domain.Task{
		TaskID: uuid.NewString(), ProjectID: w.project.ProjectID, Title: "Tiling",
		Status: domain.TaskReview, AssignedTo: w.siteEngineer.UserID,
		Value: dec("100000"), WeightPct: decPtr("50"), StartDate: &start,
		AuditFields: domain.NewAuditFields(w.architect.UserID, siteStart.Add(time.Hour)),
	}
	w.todoTask = domain.Task{
		TaskID: uuid.NewString(), ProjectID: w.project.ProjectID, Title: "Plumbing",
		Status: domain.TaskTodo, AssignedTo: w.siteEngineer2.UserID,
		Value: dec("50000"), WeightPct: decPtr("30"), StartDate: &start,
		AuditFields: domain.NewAuditFields(w.architect.UserID, siteStart.Add(2*time.Hour)),
	}
	w.zeroTask = domain.Task{
		TaskID: uuid.NewString(), ProjectID: w.project.ProjectID, Title: "Site survey",
		Status: domain.TaskReview, AssignedTo: w.siteEngineer.UserID,
		Value: decimal.Zero, WeightPct: decPtr("20"), StartDate: &start,
		AuditFields: domain.NewAuditFields(w.architect.UserID, siteStart.Add(3*time.Hour)),
	}
	for _, task := range []domain.Task{w.reviewTask, w.todoTask, w.zeroTask} {
		require.NoError(t, w.store.SaveTask(ctx, task))
	}

	w.transaction = domain.Transaction{
		TransactionID: uuid.NewString(), ProjectID: w.project.ProjectID, VendorID: &w.vendor.UserID,
		TransactionType: domain.MaterialPurchase, Amount: dec("1500"), TransactionDate: siteStart,
		AuditFields: domain.NewAuditFields(w.architect.UserID, siteStart),
	}
	require.NoError(t, w.store.SaveTransaction(ctx, w.transaction))

	w.measurement = domain.SiteMeasurement{
		MeasurementID: uuid.NewString(), ProjectID: w.project.ProjectID, TakenBy: w.siteEngineer.UserID,
		Area: dec("42.5"), Unit: "sqm", AuditFields: domain.NewAuditFields(w.siteEngineer.UserID, siteStart),
	}
	require.NoError(t, w.store.SaveSiteMeasurement(ctx, w.measurement))

	w.svc = services.NewServiceContainer(w.repos, w.publisher, services.WithTaskClock(func() time.Time { return clockNow }))
	return w
}

// seedPriorPayout books an earlier settlement so previousPaid is non-zero.
func (w *world) seedPriorPayout(t *testing.T, amount string) {
	t.Helper()
	entry := domain.NewLedgerEntry(uuid.NewString(), w.project.ProjectID, nil, domain.Credit, domain.CategoryTaskPayout,
		dec(amount), "seed:"+uuid.NewString(), w.admin.UserID, siteStart)
	n, err := w.store.AppendLedgerEntries(context.Background(), []domain.LedgerEntry{entry})
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

// validPhotos returns n photos taken on site after the task start date.
func validPhotos(n int) []domain.Proof {
	out := make([]domain.Proof, n)
	for i := range out {
		out[i] = domain.Proof{
			Type:      domain.ProofPhoto,
			URL:       "https://media.example.com/p/" + uuid.NewString(),
			GPS:       &domain.GPS{Latitude: 12.97, Longitude: 77.59},
			Timestamp: "2024-03-10T09:15:00Z",
		}
	}
	return out
}
