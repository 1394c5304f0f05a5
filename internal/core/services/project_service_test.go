package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/site_workflow_app/internal/apperrors"
	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	"github.com/SscSPs/site_workflow_app/internal/dto"
)

func TestGetProgress_DerivedFromTasks(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	summary, err := w.svc.Project.GetProgress(ctx, w.client, w.project.ProjectID)
	require.NoError(t, err)
	assert.True(t, summary.Progress.IsZero())
	assert.Equal(t, 3, summary.TotalCount)
	assert.Equal(t, 0, summary.CompletedCount)

	_, err = w.svc.Task.ApproveTask(ctx, w.architect, w.reviewTask.TaskID, dto.ApproveTaskRequest{})
	require.NoError(t, err)

	summary, err = w.svc.Project.GetProgress(ctx, w.client, w.project.ProjectID)
	require.NoError(t, err)
	assert.True(t, summary.Progress.Equal(dec("50")), summary.Progress.String())
	assert.Equal(t, 1, summary.CompletedCount)

	_, err = w.svc.Project.GetProgress(ctx, w.admin, uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetFinancials(t *testing.T) {
	w := newWorld(t)
	w.seedPriorPayout(t, "20000")
	ctx := context.Background()

	fin, err := w.svc.Project.GetFinancials(ctx, w.architect, w.project.ProjectID)
	require.NoError(t, err)
	assert.True(t, fin.NetPaid.Equal(dec("20000")))
	assert.True(t, fin.LedgerByCategory[string(domain.CategoryTaskPayout)].Equal(dec("20000")))
	assert.True(t, fin.TransactionsOut.Equal(dec("1500")))
	assert.True(t, fin.TransactionsIn.IsZero())
	assert.Equal(t, 1, fin.TransactionsCount)
	assert.True(t, fin.ContractValue.Equal(dec("200000")))

	t.Run("site staff are denied", func(t *testing.T) {
		_, err := w.svc.Project.GetFinancials(ctx, w.siteEngineer, w.project.ProjectID)
		var denied *apperrors.AccessDeniedError
		require.True(t, errors.As(err, &denied))
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("unrelated client is denied", func(t *testing.T) {
		_, err := w.svc.Project.GetFinancials(ctx, w.otherClient, w.project.ProjectID)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestCreateProject(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	t.Run("architect leads own project", func(t *testing.T) {
		p, err := w.svc.Project.CreateProject(ctx, w.architect, dto.CreateProjectRequest{
			Name:          " Loft conversion ",
			QuoteID:       &w.quote.QuoteID,
			ContractValue: dec("75000.555"),
		})
		require.NoError(t, err)
		assert.Equal(t, w.architect.UserID, p.ArchitectID)
		assert.Equal(t, "Loft conversion", p.Name)
		assert.True(t, p.ContractValue.Equal(dec("75000.56")))
		assert.True(t, p.Progress.IsZero())

		stored, err := w.store.FindProjectByID(ctx, p.ProjectID)
		require.NoError(t, err)
		assert.Equal(t, p.Name, stored.Name)
	})

	t.Run("architect may not assign another architect", func(t *testing.T) {
		_, err := w.svc.Project.CreateProject(ctx, w.architect, dto.CreateProjectRequest{Name: "x", ArchitectID: w.architect2.UserID})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("admin must name an architect", func(t *testing.T) {
		_, err := w.svc.Project.CreateProject(ctx, w.admin, dto.CreateProjectRequest{Name: "x"})
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		_, err = w.svc.Project.CreateProject(ctx, w.admin, dto.CreateProjectRequest{Name: "x", ArchitectID: w.client.UserID})
		var verrs *apperrors.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Contains(t, verrs.Errors, "architectID must reference an architect")

		p, err := w.svc.Project.CreateProject(ctx, w.admin, dto.CreateProjectRequest{Name: "x", ArchitectID: w.architect2.UserID})
		require.NoError(t, err)
		assert.Equal(t, w.architect2.UserID, p.ArchitectID)
	})

	t.Run("missing quote", func(t *testing.T) {
		missing := uuid.NewString()
		_, err := w.svc.Project.CreateProject(ctx, w.admin, dto.CreateProjectRequest{Name: "x", ArchitectID: w.architect.UserID, QuoteID: &missing})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("clients cannot create projects", func(t *testing.T) {
		_, err := w.svc.Project.CreateProject(ctx, w.client, dto.CreateProjectRequest{Name: "x"})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestSiteMeasurements(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	m, err := w.svc.Project.RecordSiteMeasurement(ctx, w.siteEngineer2, w.project.ProjectID, dto.RecordSiteMeasurementRequest{
		Area: dec("18.25"), Unit: " sqm ", Notes: "bathroom",
	})
	require.NoError(t, err)
	assert.Equal(t, w.siteEngineer2.UserID, m.TakenBy)
	assert.Equal(t, "sqm", m.Unit)

	got, err := w.svc.Project.GetSiteMeasurement(ctx, w.siteEngineer2, m.MeasurementID)
	require.NoError(t, err)
	assert.True(t, got.Area.Equal(dec("18.25")))

	_, err = w.svc.Project.GetSiteMeasurement(ctx, w.siteEngineer, m.MeasurementID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = w.svc.Project.RecordSiteMeasurement(ctx, w.siteEngineer, w.project.ProjectID, dto.RecordSiteMeasurementRequest{Unit: ""})
	var verrs *apperrors.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.ElementsMatch(t, []string{"area must be positive", "unit is required"}, verrs.Errors)

	_, err = w.svc.Project.RecordSiteMeasurement(ctx, w.client, w.project.ProjectID, dto.RecordSiteMeasurementRequest{Area: dec("1"), Unit: "sqm"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestRefreshProgress_StoresDerivedValue(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	done := w.todoTask
	done.Status = domain.TaskDone
	require.NoError(t, w.store.SaveTransition(ctx, done, domain.TaskTodo))

	summary, err := w.svc.Project.RefreshProgress(ctx, w.project.ProjectID, w.admin.UserID)
	require.NoError(t, err)
	assert.True(t, summary.Progress.Equal(dec("30")))

	p, err := w.store.FindProjectByID(ctx, w.project.ProjectID)
	require.NoError(t, err)
	assert.True(t, p.Progress.Equal(dec("30")))
	assert.Equal(t, w.admin.UserID, p.LastUpdatedBy)
}
