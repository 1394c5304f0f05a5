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
)

func TestAccessResolver_Table(t *testing.T) {
	w := newWorld(t)
	missingID := uuid.NewString()

	tests := []struct {
		name     string
		actor    domain.User
		kind     domain.ResourceKind
		id       string
		wantCode domain.DecisionCode
	}{
		{"admin bypasses existence", w.admin, domain.ResourceProject, missingID, domain.DecisionGranted},
		{"superadmin flag bypasses", domain.User{UserID: uuid.NewString(), Role: domain.RoleVendor, SuperAdmin: true}, domain.ResourceProject, w.project.ProjectID, domain.DecisionGranted},

		{"architect owns project", w.architect, domain.ResourceProject, w.project.ProjectID, domain.DecisionGranted},
		{"architect assigned on quote", w.architect2, domain.ResourceProject, w.project.ProjectID, domain.DecisionGranted},
		{"architect unrelated to legacy project", w.architect, domain.ResourceProject, w.legacyProject.ProjectID, domain.DecisionForbidden},
		{"architect views any quote", w.architect, domain.ResourceQuote, w.quote.QuoteID, domain.DecisionGranted},
		{"architect task via project", w.architect, domain.ResourceTask, w.reviewTask.TaskID, domain.DecisionGranted},
		{"architect transaction via project", w.architect2, domain.ResourceTransaction, w.transaction.TransactionID, domain.DecisionGranted},
		{"architect missing project", w.architect, domain.ResourceProject, missingID, domain.DecisionNotFound},

		{"client via quote lead", w.client, domain.ResourceProject, w.project.ProjectID, domain.DecisionGranted},
		{"client via legacy email match", w.client, domain.ResourceProject, w.legacyProject.ProjectID, domain.DecisionGranted},
		{"other client forbidden", w.otherClient, domain.ResourceProject, w.project.ProjectID, domain.DecisionForbidden},
		{"client owns quote lead", w.client, domain.ResourceQuote, w.quote.QuoteID, domain.DecisionGranted},
		{"other client quote", w.otherClient, domain.ResourceQuote, w.quote.QuoteID, domain.DecisionForbidden},
		{"client measurement via project", w.client, domain.ResourceSiteMeasurement, w.measurement.MeasurementID, domain.DecisionGranted},

		{"site staff see any project", w.siteEngineer2, domain.ResourceProject, w.legacyProject.ProjectID, domain.DecisionGranted},
		{"site staff assigned task", w.siteEngineer, domain.ResourceTask, w.reviewTask.TaskID, domain.DecisionGranted},
		{"site staff unassigned task", w.siteEngineer2, domain.ResourceTask, w.reviewTask.TaskID, domain.DecisionForbidden},
		{"site staff own measurement", w.siteEngineer, domain.ResourceSiteMeasurement, w.measurement.MeasurementID, domain.DecisionGranted},
		{"site staff other measurement", w.siteEngineer2, domain.ResourceSiteMeasurement, w.measurement.MeasurementID, domain.DecisionForbidden},
		{"site staff never see quotes", w.siteEngineer, domain.ResourceQuote, w.quote.QuoteID, domain.DecisionRoleDenied},
		{"site staff never see transactions", w.siteEngineer, domain.ResourceTransaction, w.transaction.TransactionID, domain.DecisionRoleDenied},

		{"vendor own transaction", w.vendor, domain.ResourceTransaction, w.transaction.TransactionID, domain.DecisionGranted},
		{"other vendor transaction", w.otherVendor, domain.ResourceTransaction, w.transaction.TransactionID, domain.DecisionForbidden},
		{"vendor never sees tasks", w.vendor, domain.ResourceTask, w.reviewTask.TaskID, domain.DecisionRoleDenied},
		{"vendor never sees quotes", w.vendor, domain.ResourceQuote, w.quote.QuoteID, domain.DecisionRoleDenied},

		{"malformed id", w.architect, domain.ResourceProject, "not-a-uuid", domain.DecisionInvalidID},
		{"role hard deny wins over malformed id", w.vendor, domain.ResourceProject, "not-a-uuid", domain.DecisionRoleDenied},
		{"unknown role", domain.User{UserID: uuid.NewString(), Role: domain.Role("intern")}, domain.ResourceProject, w.project.ProjectID, domain.DecisionRoleDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := w.svc.Access.Resolve(context.Background(), tt.actor, tt.kind, tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, d.Code, d.Reason)
			assert.Equal(t, tt.wantCode == domain.DecisionGranted, d.Allowed)
			assert.NotEmpty(t, d.Reason)
		})
	}
}

func TestAccessResolver_VendorNeverSeesProjects(t *testing.T) {
	w := newWorld(t)
	// Even a project naming the vendor as its client stays hidden.
	named := w.legacyProject
	named.ProjectID = uuid.NewString()
	named.Client = w.vendor.Email
	require.NoError(t, w.store.SaveProject(context.Background(), named))

	for _, id := range []string{w.project.ProjectID, named.ProjectID, uuid.NewString()} {
		for _, vendor := range []domain.User{w.vendor, w.otherVendor} {
			d, err := w.svc.Access.Resolve(context.Background(), vendor, domain.ResourceProject, id)
			require.NoError(t, err)
			assert.False(t, d.Allowed)
			assert.Equal(t, domain.DecisionRoleDenied, d.Code)
		}
	}
}

func TestAccessResolver_AssignedSiteStaffWithoutProjectRelation(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	// A task on the legacy project, which the engineer has no other tie to.
	task := w.todoTask
	task.TaskID = uuid.NewString()
	task.ProjectID = w.legacyProject.ProjectID
	task.AssignedTo = w.siteEngineer.UserID
	require.NoError(t, w.store.SaveTask(ctx, task))

	d, err := w.svc.Access.Resolve(ctx, w.siteEngineer, domain.ResourceTask, task.TaskID)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestAccessResolver_AuthorizeErrors(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()

	err := w.svc.Access.Authorize(ctx, w.otherClient, domain.ResourceProject, w.project.ProjectID)
	require.Error(t, err)
	var denied *apperrors.AccessDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, string(domain.DecisionForbidden), denied.Code)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	err = w.svc.Access.Authorize(ctx, w.architect, domain.ResourceTask, uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = w.svc.Access.Authorize(ctx, w.architect, domain.ResourceTask, "42")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.NoError(t, w.svc.Access.Authorize(ctx, w.architect, domain.ResourceTask, w.reviewTask.TaskID))
}
