package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/site_workflow_app/internal/apperrors"
	"github.com/SscSPs/site_workflow_app/internal/core/domain"
)

// accessRule walks the relation graph for one role category and resource
// kind. It runs only after the admin bypass, the role hard deny and id
// validation, and it is responsible for the existence check of the resource.
type accessRule func(ctx context.Context, l *RecordLookup, actor domain.User, id string) (domain.AccessDecision, error)

// capabilities is the complete access table. A missing (category, kind)
// pair is an unconditional deny evaluated before any record is fetched:
// vendors never see projects, tasks, quotes or measurements, and site staff
// never see quotes or transactions.
var capabilities = map[domain.RoleCategory]map[domain.ResourceKind]accessRule{
	domain.CategoryProfessional: {
		domain.ResourceProject:         professionalProject,
		domain.ResourceQuote:           professionalQuote,
		domain.ResourceTask:            taskViaProject(professionalProject),
		domain.ResourceTransaction:     transactionViaProject(professionalProject),
		domain.ResourceSiteMeasurement: measurementViaProject(professionalProject),
	},
	domain.CategoryClient: {
		domain.ResourceProject:         clientProject,
		domain.ResourceQuote:           clientQuote,
		domain.ResourceTask:            taskViaProject(clientProject),
		domain.ResourceTransaction:     transactionViaProject(clientProject),
		domain.ResourceSiteMeasurement: measurementViaProject(clientProject),
	},
	domain.CategorySiteStaff: {
		domain.ResourceProject:         siteStaffProject,
		domain.ResourceTask:            siteStaffTask,
		domain.ResourceSiteMeasurement: siteStaffMeasurement,
	},
	domain.CategoryVendor: {
		domain.ResourceTransaction: vendorTransaction,
	},
}

func notFound(kind domain.ResourceKind) domain.AccessDecision {
	return domain.Deny(domain.DecisionNotFound, fmt.Sprintf("%s not found", kind))
}

// missing folds a not-found fetch into a decision; other errors stay errors.
func missing(kind domain.ResourceKind, err error) (domain.AccessDecision, error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		return notFound(kind), nil
	}
	return domain.AccessDecision{}, fmt.Errorf("load %s: %w", kind, err)
}

// --- Project ---

func professionalProject(ctx context.Context, l *RecordLookup, actor domain.User, id string) (domain.AccessDecision, error) {
	project, err := l.Project(ctx, id)
	if err != nil {
		return missing(domain.ResourceProject, err)
	}
	if project.ArchitectID == actor.UserID {
		return domain.Allow("project architect"), nil
	}
	if project.QuoteID != nil {
		quote, err := l.Quote(ctx, *project.QuoteID)
		switch {
		case err == nil && quote.HasAssigned(actor.UserID):
			return domain.Allow("assigned on the project's quote"), nil
		case err != nil && !errors.Is(err, apperrors.ErrNotFound):
			return domain.AccessDecision{}, fmt.Errorf("load quote: %w", err)
		}
	}
	return domain.Deny(domain.DecisionForbidden, "not the project architect or a professional assigned on its quote"), nil
}

func clientProject(ctx context.Context, l *RecordLookup, actor domain.User, id string) (domain.AccessDecision, error) {
	project, err := l.Project(ctx, id)
	if err != nil {
		return missing(domain.ResourceProject, err)
	}
	if project.QuoteID != nil {
		owns, err := ownsQuoteLead(ctx, l, actor, *project.QuoteID)
		if err != nil {
			return domain.AccessDecision{}, err
		}
		if owns {
			return domain.Allow("owner of the project's lead"), nil
		}
	}
	if clientMatches(project.Client, actor) {
		return domain.Allow("named as the project client"), nil
	}
	return domain.Deny(domain.DecisionForbidden, "not the client of this project"), nil
}

// clientMatches is the legacy ownership check for projects created before
// quote linkage existed.
func clientMatches(client string, actor domain.User) bool {
	client = strings.TrimSpace(client)
	if client == "" {
		return false
	}
	for _, candidate := range []string{actor.Name, actor.Email} {
		if c := strings.TrimSpace(candidate); c != "" && strings.EqualFold(c, client) {
			return true
		}
	}
	return false
}

func siteStaffProject(ctx context.Context, l *RecordLookup, _ domain.User, id string) (domain.AccessDecision, error) {
	if _, err := l.Project(ctx, id); err != nil {
		return missing(domain.ResourceProject, err)
	}
	return domain.Allow("site staff see project context"), nil
}

// --- Quote ---

// ownsQuoteLead reports whether actor is the lead owner behind quoteID.
// Dangling quote or lead references count as not owned.
func ownsQuoteLead(ctx context.Context, l *RecordLookup, actor domain.User, quoteID string) (bool, error) {
	quote, err := l.Quote(ctx, quoteID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load quote: %w", err)
	}
	return ownsLead(ctx, l, actor, quote.LeadID)
}

func ownsLead(ctx context.Context, l *RecordLookup, actor domain.User, leadID string) (bool, error) {
	if leadID == "" {
		return false, nil
	}
	lead, err := l.Lead(ctx, leadID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load lead: %w", err)
	}
	return lead.Assigned == actor.UserID, nil
}

func professionalQuote(ctx context.Context, l *RecordLookup, actor domain.User, id string) (domain.AccessDecision, error) {
	quote, err := l.Quote(ctx, id)
	if err != nil {
		return missing(domain.ResourceQuote, err)
	}
	if quote.HasAssigned(actor.UserID) {
		return domain.Allow("assigned on the quote"), nil
	}
	owns, err := ownsLead(ctx, l, actor, quote.LeadID)
	if err != nil {
		return domain.AccessDecision{}, err
	}
	if owns {
		return domain.Allow("owner of the quote's lead"), nil
	}
	// Architects may view every quote so unassigned work can be picked up.
	return domain.Allow("architects may view all quotes"), nil
}

func clientQuote(ctx context.Context, l *RecordLookup, actor domain.User, id string) (domain.AccessDecision, error) {
	quote, err := l.Quote(ctx, id)
	if err != nil {
		return missing(domain.ResourceQuote, err)
	}
	owns, err := ownsLead(ctx, l, actor, quote.LeadID)
	if err != nil {
		return domain.AccessDecision{}, err
	}
	if owns {
		return domain.Allow("owner of the quote's lead"), nil
	}
	return domain.Deny(domain.DecisionForbidden, "not the owner of this quote's lead"), nil
}

// --- Project children ---

// viaProject grants access to a child resource through its parent project
// first, then through the child's own assignment field.
func viaProject(ctx context.Context, l *RecordLookup, actor domain.User, kind domain.ResourceKind, projectRule accessRule, projectID, assignee, assigneeLabel string) (domain.AccessDecision, error) {
	decision, err := projectRule(ctx, l, actor, projectID)
	if err != nil {
		return domain.AccessDecision{}, err
	}
	if decision.Allowed {
		return domain.Allow(fmt.Sprintf("%s via project: %s", kind, decision.Reason)), nil
	}
	if assignee != "" && assignee == actor.UserID {
		return domain.Allow(assigneeLabel), nil
	}
	return domain.Deny(domain.DecisionForbidden, fmt.Sprintf("no access to the %s's project and not its %s", kind, strings.TrimPrefix(assigneeLabel, "the "))), nil
}

func taskViaProject(projectRule accessRule) accessRule {
	return func(ctx context.Context, l *RecordLookup, actor domain.User, id string) (domain.AccessDecision, error) {
		task, err := l.Task(ctx, id)
		if err != nil {
			return missing(domain.ResourceTask, err)
		}
		return viaProject(ctx, l, actor, domain.ResourceTask, projectRule, task.ProjectID, task.AssignedTo, "the assignee")
	}
}

func transactionViaProject(projectRule accessRule) accessRule {
	return func(ctx context.Context, l *RecordLookup, actor domain.User, id string) (domain.AccessDecision, error) {
		txn, err := l.Transaction(ctx, id)
		if err != nil {
			return missing(domain.ResourceTransaction, err)
		}
		return viaProject(ctx, l, actor, domain.ResourceTransaction, projectRule, txn.ProjectID, txn.CreatedBy, "the recorder")
	}
}

func measurementViaProject(projectRule accessRule) accessRule {
	return func(ctx context.Context, l *RecordLookup, actor domain.User, id string) (domain.AccessDecision, error) {
		m, err := l.SiteMeasurement(ctx, id)
		if err != nil {
			return missing(domain.ResourceSiteMeasurement, err)
		}
		return viaProject(ctx, l, actor, domain.ResourceSiteMeasurement, projectRule, m.ProjectID, m.TakenBy, "the surveyor")
	}
}

// --- Site staff and vendors: assignment only ---

func siteStaffTask(ctx context.Context, l *RecordLookup, actor domain.User, id string) (domain.AccessDecision, error) {
	task, err := l.Task(ctx, id)
	if err != nil {
		return missing(domain.ResourceTask, err)
	}
	if task.AssignedTo == actor.UserID {
		return domain.Allow("the assignee"), nil
	}
	return domain.Deny(domain.DecisionForbidden, "site staff may only act on tasks assigned to them"), nil
}

func siteStaffMeasurement(ctx context.Context, l *RecordLookup, actor domain.User, id string) (domain.AccessDecision, error) {
	m, err := l.SiteMeasurement(ctx, id)
	if err != nil {
		return missing(domain.ResourceSiteMeasurement, err)
	}
	if m.TakenBy == actor.UserID {
		return domain.Allow("the surveyor"), nil
	}
	return domain.Deny(domain.DecisionForbidden, "site staff may only access measurements they took"), nil
}

func vendorTransaction(ctx context.Context, l *RecordLookup, actor domain.User, id string) (domain.AccessDecision, error) {
	txn, err := l.Transaction(ctx, id)
	if err != nil {
		return missing(domain.ResourceTransaction, err)
	}
	if txn.VendorID != nil && *txn.VendorID == actor.UserID {
		return domain.Allow("the transaction's vendor"), nil
	}
	return domain.Deny(domain.DecisionForbidden, "vendors may only access their own transactions"), nil
}
