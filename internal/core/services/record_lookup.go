package services

import (
	"context"
	"errors"
	"sync"

	"github.com/SscSPs/site_workflow_app/internal/apperrors"
	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/site_workflow_app/internal/core/ports/repositories"
)

// recordSources are the readers the access graph walk needs.
type recordSources struct {
	projects     portsrepo.ProjectReader
	quotes       portsrepo.QuoteReader
	tasks        portsrepo.TaskReader
	transactions portsrepo.TransactionReader
	measurements portsrepo.SiteMeasurementReader
}

func sourcesFrom(repos portsrepo.RepositoryProvider) recordSources {
	return recordSources{
		projects:     repos.ProjectRepo,
		quotes:       repos.QuoteRepo,
		tasks:        repos.TaskRepo,
		transactions: repos.TransactionRepo,
		measurements: repos.MeasurementRepo,
	}
}

type cached[T any] struct {
	val *T
	err error
}

// RecordLookup memoises record fetches for the lifetime of one request, so a
// Task check that walks into its Project and Quote fetches each record once.
// Only hits and not-found results are remembered.
type RecordLookup struct {
	src recordSources

	mu           sync.Mutex
	projects     map[string]cached[domain.Project]
	quotes       map[string]cached[domain.Quote]
	leads        map[string]cached[domain.Lead]
	tasks        map[string]cached[domain.Task]
	transactions map[string]cached[domain.Transaction]
	measurements map[string]cached[domain.SiteMeasurement]
}

func newRecordLookup(src recordSources) *RecordLookup {
	return &RecordLookup{
		src:          src,
		projects:     map[string]cached[domain.Project]{},
		quotes:       map[string]cached[domain.Quote]{},
		leads:        map[string]cached[domain.Lead]{},
		tasks:        map[string]cached[domain.Task]{},
		transactions: map[string]cached[domain.Transaction]{},
		measurements: map[string]cached[domain.SiteMeasurement]{},
	}
}

type lookupCtxKey struct{}

// withRecordLookup attaches a fresh lookup to ctx unless one is already there.
func withRecordLookup(ctx context.Context, src recordSources) (context.Context, *RecordLookup) {
	if l, ok := ctx.Value(lookupCtxKey{}).(*RecordLookup); ok {
		return ctx, l
	}
	l := newRecordLookup(src)
	return context.WithValue(ctx, lookupCtxKey{}, l), l
}

func fetch[T any](ctx context.Context, l *RecordLookup, cache map[string]cached[T], id string, load func(context.Context, string) (*T, error)) (*T, error) {
	l.mu.Lock()
	if c, ok := cache[id]; ok {
		l.mu.Unlock()
		return c.val, c.err
	}
	l.mu.Unlock()

	val, err := load(ctx, id)
	if err == nil || errors.Is(err, apperrors.ErrNotFound) {
		l.mu.Lock()
		cache[id] = cached[T]{val: val, err: err}
		l.mu.Unlock()
	}
	return val, err
}

func (l *RecordLookup) Project(ctx context.Context, id string) (*domain.Project, error) {
	return fetch(ctx, l, l.projects, id, l.src.projects.FindProjectByID)
}

func (l *RecordLookup) Quote(ctx context.Context, id string) (*domain.Quote, error) {
	return fetch(ctx, l, l.quotes, id, l.src.quotes.FindQuoteByID)
}

func (l *RecordLookup) Lead(ctx context.Context, id string) (*domain.Lead, error) {
	return fetch(ctx, l, l.leads, id, l.src.quotes.FindLeadByID)
}

func (l *RecordLookup) Task(ctx context.Context, id string) (*domain.Task, error) {
	return fetch(ctx, l, l.tasks, id, l.src.tasks.FindTaskByID)
}

func (l *RecordLookup) Transaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return fetch(ctx, l, l.transactions, id, l.src.transactions.FindTransactionByID)
}

func (l *RecordLookup) SiteMeasurement(ctx context.Context, id string) (*domain.SiteMeasurement, error) {
	return fetch(ctx, l, l.measurements, id, l.src.measurements.FindSiteMeasurementByID)
}
