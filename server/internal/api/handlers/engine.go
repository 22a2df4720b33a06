package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/server/internal/service"
)

// EngineHandler serves database-engines, the operator upgrade plan and
// pod-scheduling-policies.
type EngineHandler struct {
	engines  service.DatabaseEngineHandler
	policies service.PodSchedulingPolicyHandler
}

// NewEngineHandler returns an EngineHandler.
func NewEngineHandler(engines service.DatabaseEngineHandler, policies service.PodSchedulingPolicyHandler) *EngineHandler {
	return &EngineHandler{engines: engines, policies: policies}
}

// ListDatabaseEngines handles GET database-engines.
func (h *EngineHandler) ListDatabaseEngines(c *gin.Context) {
	list, err := h.engines.ListDatabaseEngines(c.Request.Context(), c.Param(paramNamespace))
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetDatabaseEngine handles GET database-engines/:name.
func (h *EngineHandler) GetDatabaseEngine(c *gin.Context) {
	e, err := h.engines.GetDatabaseEngine(c.Request.Context(), c.Param(paramNamespace), c.Param(paramName))
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// UpdateDatabaseEngine handles PUT database-engines/:name.
func (h *EngineHandler) UpdateDatabaseEngine(c *gin.Context) {
	e := &models.DatabaseEngine{}
	if !bindNamedObject(c, e) {
		return
	}
	updated, err := h.engines.UpdateDatabaseEngine(c.Request.Context(), e)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// GetUpgradePlan handles GET database-engines/upgrade-plan.
func (h *EngineHandler) GetUpgradePlan(c *gin.Context) {
	plan, err := h.engines.GetUpgradePlan(c.Request.Context(), c.Param(paramNamespace))
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// ApproveUpgradePlan handles PUT database-engines/upgrade-plan/approval.
func (h *EngineHandler) ApproveUpgradePlan(c *gin.Context) {
	if err := h.engines.ApproveUpgradePlan(c.Request.Context(), c.Param(paramNamespace)); err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListPodSchedulingPolicies handles GET pod-scheduling-policies.
func (h *EngineHandler) ListPodSchedulingPolicies(c *gin.Context) {
	list, err := h.policies.ListPodSchedulingPolicies(c.Request.Context(), c.Param(paramNamespace))
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetPodSchedulingPolicy handles GET pod-scheduling-policies/:name.
func (h *EngineHandler) GetPodSchedulingPolicy(c *gin.Context) {
	p, err := h.policies.GetPodSchedulingPolicy(c.Request.Context(), c.Param(paramNamespace), c.Param(paramName))
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// CreatePodSchedulingPolicy handles POST pod-scheduling-policies.
func (h *EngineHandler) CreatePodSchedulingPolicy(c *gin.Context) {
	p := &models.PodSchedulingPolicy{}
	if !bindObject(c, p) {
		return
	}
	created, err := h.policies.CreatePodSchedulingPolicy(c.Request.Context(), p)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdatePodSchedulingPolicy handles PUT pod-scheduling-policies/:name.
func (h *EngineHandler) UpdatePodSchedulingPolicy(c *gin.Context) {
	p := &models.PodSchedulingPolicy{}
	if !bindNamedObject(c, p) {
		return
	}
	updated, err := h.policies.UpdatePodSchedulingPolicy(c.Request.Context(), p)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeletePodSchedulingPolicy handles DELETE pod-scheduling-policies/:name.
func (h *EngineHandler) DeletePodSchedulingPolicy(c *gin.Context) {
	if err := h.policies.DeletePodSchedulingPolicy(c.Request.Context(), c.Param(paramNamespace), c.Param(paramName)); err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
