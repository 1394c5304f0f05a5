package handlers

import (
	"net/http"

	"github.com/SscSPs/site_workflow_app/internal/core/domain"
	portssvc "github.com/SscSPs/site_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/site_workflow_app/internal/dto"
	"github.com/gin-gonic/gin"
)

type accessHandler struct {
	accessService portssvc.AccessResolverSvc
}

func registerAccessRoutes(rg *gin.RouterGroup, accessService portssvc.AccessResolverSvc) {
	h := &accessHandler{accessService: accessService}
	rg.GET("/access/:kind/:resourceID", h.checkAccess)
}

// checkAccess godoc
// @Summary Check access to a resource
// @Description Reports whether the caller may act on the resource. A denial is a 200 with allowed=false.
// @Tags access
// @Produce  json
// @Param   kind path string true "Resource kind" Enums(project, task, quote, transaction, site_measurement)
// @Param   resourceID path string true "Resource ID"
// @Success 200 {object} dto.AccessCheckResponse
// @Failure 400 {object} map[string]string "Unknown resource kind"
// @Security BearerAuth
// @Router /access/{kind}/{resourceID} [get]
func (h *accessHandler) checkAccess(c *gin.Context) {
	// Validate the kind before touching the resolver
	kind, ok := domain.ParseResourceKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown resource kind: " + c.Param("kind")})
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	resourceID := c.Param("resourceID")
	decision, err := h.accessService.Resolve(c.Request.Context(), actor, kind, resourceID)
	// Only store failures are errors here; denials come back as decisions
	if err != nil {
		respondError(c, err, "to resolve access")
		return
	}
	c.JSON(http.StatusOK, dto.AccessCheckResponse{Kind: string(kind), ResourceID: resourceID, AccessDecision: decision})
}
