package services

import (
	portsrepo "github.com/SscSPs/site_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/site_workflow_app/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, publisher portssvc.NotificationPublisher, taskOptions ...TaskServiceOption) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The resolver is shared: every other service authorizes through it
	container.Access = NewAccessService(repos)

	container.Project = NewProjectService(repos, container.Access)
	container.Ledger = NewLedgerService(repos, container.Access)
	container.Transaction = NewTransactionService(repos, container.Access)

	// Approvals refresh stored progress through the project service
	options := append([]TaskServiceOption{WithNotificationPublisher(publisher)}, taskOptions...)
	container.Task = NewTaskService(repos, container.Access, container.Project, options...)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccessResolverSvc    = (*accessService)(nil)
	_ portssvc.TaskSvcFacade        = (*taskService)(nil)
	_ portssvc.ProjectSvcFacade     = (*projectService)(nil)
	_ portssvc.LedgerSvcFacade      = (*ledgerService)(nil)
	_ portssvc.TransactionSvcFacade = (*transactionService)(nil)
)
