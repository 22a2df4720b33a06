package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/server/internal/service"
)

// BackupStorageHandler serves backup-storages and monitoring-instances.
// Both are created from flat request bodies that carry credentials, which
// the service stores in Secrets.
type BackupStorageHandler struct {
	storages   service.BackupStorageHandler
	monitoring service.MonitoringInstanceHandler
}

// NewBackupStorageHandler returns a BackupStorageHandler.
func NewBackupStorageHandler(storages service.BackupStorageHandler, monitoring service.MonitoringInstanceHandler) *BackupStorageHandler {
	return &BackupStorageHandler{storages: storages, monitoring: monitoring}
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondInvalid(c, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

// ListBackupStorages handles GET backup-storages.
func (h *BackupStorageHandler) ListBackupStorages(c *gin.Context) {
	list, err := h.storages.ListBackupStorages(c.Request.Context(), c.Param(paramNamespace))
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetBackupStorage handles GET backup-storages/:name.
func (h *BackupStorageHandler) GetBackupStorage(c *gin.Context) {
	bs, err := h.storages.GetBackupStorage(c.Request.Context(), c.Param(paramNamespace), c.Param(paramName))
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, bs)
}

// CreateBackupStorage handles POST backup-storages.
func (h *BackupStorageHandler) CreateBackupStorage(c *gin.Context) {
	req := &models.CreateBackupStorageRequest{}
	if !bindJSON(c, req) {
		return
	}
	bs, err := h.storages.CreateBackupStorage(c.Request.Context(), c.Param(paramNamespace), req)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, bs)
}

// UpdateBackupStorage handles PUT backup-storages/:name.
func (h *BackupStorageHandler) UpdateBackupStorage(c *gin.Context) {
	req := &models.UpdateBackupStorageRequest{}
	if !bindJSON(c, req) {
		return
	}
	bs, err := h.storages.UpdateBackupStorage(c.Request.Context(), c.Param(paramNamespace), c.Param(paramName), req)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, bs)
}

// DeleteBackupStorage handles DELETE backup-storages/:name.
func (h *BackupStorageHandler) DeleteBackupStorage(c *gin.Context) {
	if err := h.storages.DeleteBackupStorage(c.Request.Context(), c.Param(paramNamespace), c.Param(paramName)); err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMonitoringInstances handles GET monitoring-instances.
func (h *BackupStorageHandler) ListMonitoringInstances(c *gin.Context) {
	list, err := h.monitoring.ListMonitoringInstances(c.Request.Context(), c.Param(paramNamespace))
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetMonitoringInstance handles GET monitoring-instances/:name.
func (h *BackupStorageHandler) GetMonitoringInstance(c *gin.Context) {
	mc, err := h.monitoring.GetMonitoringInstance(c.Request.Context(), c.Param(paramNamespace), c.Param(paramName))
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, mc)
}

// CreateMonitoringInstance handles POST monitoring-instances.
func (h *BackupStorageHandler) CreateMonitoringInstance(c *gin.Context) {
	req := &models.CreateMonitoringInstanceRequest{}
	if !bindJSON(c, req) {
		return
	}
	mc, err := h.monitoring.CreateMonitoringInstance(c.Request.Context(), c.Param(paramNamespace), req)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, mc)
}

// UpdateMonitoringInstance handles PUT monitoring-instances/:name.
func (h *BackupStorageHandler) UpdateMonitoringInstance(c *gin.Context) {
	req := &models.UpdateMonitoringInstanceRequest{}
	if !bindJSON(c, req) {
		return
	}
	mc, err := h.monitoring.UpdateMonitoringInstance(c.Request.Context(), c.Param(paramNamespace), c.Param(paramName), req)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, mc)
}

// DeleteMonitoringInstance handles DELETE monitoring-instances/:name.
func (h *BackupStorageHandler) DeleteMonitoringInstance(c *gin.Context) {
	if err := h.monitoring.DeleteMonitoringInstance(c.Request.Context(), c.Param(paramNamespace), c.Param(paramName)); err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
