package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/site_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/site_workflow_app/internal/dto"
	"github.com/SscSPs/site_workflow_app/internal/middleware"
	"github.com/SscSPs/site_workflow_app/internal/utils/pagination"
	"github.com/gin-gonic/gin"
)

// taskHandler handles HTTP requests related to tasks and their lifecycle.
type taskHandler struct {
	taskService portssvc.TaskSvcFacade
}

// newTaskHandler creates a new taskHandler.
func newTaskHandler(ts portssvc.TaskSvcFacade) *taskHandler {
	return &taskHandler{
		taskService: ts,
	}
}

// registerTaskRoutes registers routes related to tasks.
func registerTaskRoutes(rg *gin.RouterGroup, taskService portssvc.TaskSvcFacade) {
	h := newTaskHandler(taskService)

	rg.GET("/projects/:projectID/tasks", h.listTasks)
	rg.POST("/projects/:projectID/tasks", h.createTask)

	tasks := rg.Group("/tasks")
	{
		tasks.GET("/:taskID", h.getTask)
		tasks.POST("/:taskID/submit", h.submitTask)
		tasks.POST("/:taskID/approve", h.approveTask)
		tasks.POST("/:taskID/reject", h.rejectTask)
	}
}

// registerReconcileRoutes registers the admin-only settlement reconciliation route.
func registerReconcileRoutes(rg *gin.RouterGroup, taskService portssvc.TaskSvcFacade) {
	h := newTaskHandler(taskService)
	rg.POST("/settlements/reconcile", h.reconcileSettlements)
}

// listTasks godoc
// @Summary List a project's tasks
// @Description Site staff only see the tasks assigned to them
// @Tags tasks
// @Produce  json
// @Param   projectID path string true "Project ID"
// @Success 200 {object} dto.ListTasksResponse
// @Security BearerAuth
// @Router /projects/{projectID}/tasks [get]
func (h *taskHandler) listTasks(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListProjectTasks(c.Request.Context(), actor, c.Param("projectID"))
	if err != nil {
		respondError(c, err, "to list tasks")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTasksResponse(tasks))
}

// createTask godoc
// @Summary Create a task
// @Tags tasks
// @Accept  json
// @Produce  json
// @Param   projectID path string true "Project ID"
// @Param   task body dto.CreateTaskRequest true "Task details"
// @Success 201 {object} dto.TaskResponse
// @Failure 400 {object} map[string]any "Validation failed"
// @Security BearerAuth
// @Router /projects/{projectID}/tasks [post]
func (h *taskHandler) createTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTaskRequest
	if !bindJSON(c, &req, "CreateTask") {
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), actor, c.Param("projectID"), req)
	if err != nil {
		respondError(c, err, "to create task")
		return
	}

	logger.Info("Task created successfully", slog.String("task_id", task.TaskID))
	c.JSON(http.StatusCreated, dto.ToTaskResponse(task))
}

// getTask godoc
// @Summary Get a task by ID
// @Tags tasks
// @Produce  json
// @Param   taskID path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 404 {object} map[string]string "Task not found"
// @Security BearerAuth
// @Router /tasks/{taskID} [get]
func (h *taskHandler) getTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), actor, c.Param("taskID"))
	if err != nil {
		respondError(c, err, "to retrieve task")
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskResponse(task))
}

// submitTask godoc
// @Summary Submit a task for review
// @Description Attaches proof of work and moves the task to REVIEW
// @Tags tasks
// @Accept  json
// @Produce  json
// @Param   taskID path string true "Task ID"
// @Param   submission body dto.SubmitTaskRequest true "Proofs"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} map[string]any "Proofs failed validation"
// @Failure 409 {object} map[string]string "Task is not in a submittable status"
// @Security BearerAuth
// @Router /tasks/{taskID}/submit [post]
func (h *taskHandler) submitTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SubmitTaskRequest
	if !bindJSON(c, &req, "SubmitTask") {
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	logger = logger.With(slog.String("actor_id", actor.UserID))

	// The service validates proofs and reports every failure at once
	task, err := h.taskService.SubmitTask(c.Request.Context(), actor, c.Param("taskID"), req.ToDomainProofs())
	if err != nil {
		respondError(c, err, "to submit task")
		return
	}

	logger.Info("Task submitted for review", slog.String("task_id", task.TaskID))
	c.JSON(http.StatusOK, dto.ToTaskResponse(task))
}

// approveTask godoc
// @Summary Approve a task
// @Description Moves a REVIEW task to DONE and settles its payout
// @Tags tasks
// @Accept  json
// @Produce  json
// @Param   taskID path string true "Task ID"
// @Param   approval body dto.ApproveTaskRequest false "Optional penalty"
// @Success 200 {object} dto.ApprovalResponse
// @Failure 409 {object} map[string]string "Task is not in REVIEW"
// @Security BearerAuth
// @Router /tasks/{taskID}/approve [post]
func (h *taskHandler) approveTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	// An empty body approves without a penalty
	var req dto.ApproveTaskRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req, "ApproveTask") {
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	logger = logger.With(slog.String("actor_id", actor.UserID))

	result, err := h.taskService.ApproveTask(c.Request.Context(), actor, c.Param("taskID"), req)
	if err != nil {
		respondError(c, err, "to approve task")
		return
	}

	// Pending settlements are picked up by reconciliation
	logger.Info("Task approved",
		slog.String("task_id", result.Task.TaskID),
		slog.Bool("settlement_pending", result.SettlementPending))
	c.JSON(http.StatusOK, dto.ToApprovalResponse(result))
}

// rejectTask godoc
// @Summary Reject a task
// @Tags tasks
// @Accept  json
// @Produce  json
// @Param   taskID path string true "Task ID"
// @Param   rejection body dto.RejectTaskRequest true "Reason"
// @Success 200 {object} dto.TaskResponse
// @Security BearerAuth
// @Router /tasks/{taskID}/reject [post]
func (h *taskHandler) rejectTask(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RejectTaskRequest
	if !bindJSON(c, &req, "RejectTask") {
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	logger = logger.With(slog.String("actor_id", actor.UserID))

	// Reason is trimmed and checked by the service
	task, err := h.taskService.RejectTask(c.Request.Context(), actor, c.Param("taskID"), req.Reason)
	if err != nil {
		respondError(c, err, "to reject task")
		return
	}

	logger.Info("Task rejected", slog.String("task_id", task.TaskID))
	c.JSON(http.StatusOK, dto.ToTaskResponse(task))
}

type reconcileParams struct {
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

func (h *taskHandler) reconcileSettlements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params reconcileParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ReconcileSettlements", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	// Missing limit means the default page size
	summary, err := h.taskService.ReconcileSettlements(c.Request.Context(), pagination.NormalizeLimit(params.Limit))
	if err != nil {
		respondError(c, err, "to reconcile settlements")
		return
	}

	logger.Info("Settlement reconciliation finished",
		slog.Int("scanned", summary.Scanned),
		slog.Int("settled", summary.Settled),
		slog.Int("failed", len(summary.Failed)))
	c.JSON(http.StatusOK, summary)
}
