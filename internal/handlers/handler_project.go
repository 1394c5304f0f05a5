package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/site_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/site_workflow_app/internal/dto"
	"github.com/SscSPs/site_workflow_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// projectHandler handles HTTP requests related to projects and their site measurements.
type projectHandler struct {
	projectService portssvc.ProjectSvcFacade
}

// newProjectHandler creates a new projectHandler.
func newProjectHandler(ps portssvc.ProjectSvcFacade) *projectHandler {
	return &projectHandler{
		projectService: ps,
	}
}

// registerProjectRoutes registers routes related to projects.
func registerProjectRoutes(rg *gin.RouterGroup, projectService portssvc.ProjectSvcFacade) {
	h := newProjectHandler(projectService)

	projects := rg.Group("/projects")
	{
		projects.POST("", h.createProject)
		projects.GET("/:projectID", h.getProject)
		projects.GET("/:projectID/progress", h.getProgress)
		projects.GET("/:projectID/financials", h.getFinancials)
		projects.POST("/:projectID/measurements", h.recordMeasurement)
	}
	rg.GET("/measurements/:measurementID", h.getMeasurement)
}

// createProject godoc
// @Summary Create a project
// @Description Creates a project led by an architect, optionally converted from an accepted quote
// @Tags projects
// @Accept  json
// @Produce  json
// @Param   project body dto.CreateProjectRequest true "Project details"
// @Success 201 {object} dto.ProjectResponse
// @Failure 400 {object} map[string]any "Validation failed"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /projects [post]
func (h *projectHandler) createProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateProjectRequest
	if !bindJSON(c, &req, "CreateProject") {
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	// Role and architect checks live in the service
	project, err := h.projectService.CreateProject(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "to create project")
		return
	}

	logger.Info("Project created successfully", slog.String("project_id", project.ProjectID))
	c.JSON(http.StatusCreated, dto.ToProjectResponse(project))
}

// getProject godoc
// @Summary Get a project by ID
// @Tags projects
// @Produce  json
// @Param   projectID path string true "Project ID"
// @Success 200 {object} dto.ProjectResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Project not found"
// @Security BearerAuth
// @Router /projects/{projectID} [get]
func (h *projectHandler) getProject(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(c.Request.Context(), actor, c.Param("projectID"))
	if err != nil {
		respondError(c, err, "to retrieve project")
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// getProgress godoc
// @Summary Get project progress
// @Description Computes completion from the project's tasks
// @Tags projects
// @Produce  json
// @Param   projectID path string true "Project ID"
// @Success 200 {object} domain.ProgressSummary
// @Security BearerAuth
// @Router /projects/{projectID}/progress [get]
func (h *projectHandler) getProgress(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	summary, err := h.projectService.GetProgress(c.Request.Context(), actor, c.Param("projectID"))
	if err != nil {
		respondError(c, err, "to compute progress")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getFinancials godoc
// @Summary Get project financials
// @Description Ledger totals by category and manual transaction totals, side by side
// @Tags projects
// @Produce  json
// @Param   projectID path string true "Project ID"
// @Success 200 {object} dto.FinancialsResponse
// @Security BearerAuth
// @Router /projects/{projectID}/financials [get]
func (h *projectHandler) getFinancials(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	financials, err := h.projectService.GetFinancials(c.Request.Context(), actor, c.Param("projectID"))
	if err != nil {
		respondError(c, err, "to retrieve financials")
		return
	}
	c.JSON(http.StatusOK, financials)
}

func (h *projectHandler) recordMeasurement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordSiteMeasurementRequest
	if !bindJSON(c, &req, "RecordSiteMeasurement") {
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	m, err := h.projectService.RecordSiteMeasurement(c.Request.Context(), actor, c.Param("projectID"), req)
	if err != nil {
		respondError(c, err, "to record site measurement")
		return
	}

	logger.Info("Site measurement recorded", slog.String("measurement_id", m.MeasurementID))
	c.JSON(http.StatusCreated, dto.ToSiteMeasurementResponse(m))
}

func (h *projectHandler) getMeasurement(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	m, err := h.projectService.GetSiteMeasurement(c.Request.Context(), actor, c.Param("measurementID"))
	if err != nil {
		respondError(c, err, "to retrieve site measurement")
		return
	}
	c.JSON(http.StatusOK, dto.ToSiteMeasurementResponse(m))
}
