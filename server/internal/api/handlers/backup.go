package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/server/internal/service"
)

// BackupHandler serves database-cluster-backups and database-cluster-restores.
type BackupHandler struct {
	backups  service.DatabaseClusterBackupHandler
	restores service.DatabaseClusterRestoreHandler
}

// NewBackupHandler returns a BackupHandler.
func NewBackupHandler(backups service.DatabaseClusterBackupHandler, restores service.DatabaseClusterRestoreHandler) *BackupHandler {
	return &BackupHandler{backups: backups, restores: restores}
}

// ListBackups handles GET database-cluster-backups.
func (h *BackupHandler) ListBackups(c *gin.Context) {
	list, err := h.backups.ListBackups(c.Request.Context(), c.Param(paramNamespace))
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetBackup handles GET database-cluster-backups/:name.
func (h *BackupHandler) GetBackup(c *gin.Context) {
	b, err := h.backups.GetBackup(c.Request.Context(), c.Param(paramNamespace), c.Param(paramName))
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CreateBackup handles POST database-cluster-backups.
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	b := &models.DatabaseClusterBackup{}
	if !bindObject(c, b) {
		return
	}
	created, err := h.backups.CreateBackup(c.Request.Context(), b)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// DeleteBackup handles DELETE database-cluster-backups/:name.
func (h *BackupHandler) DeleteBackup(c *gin.Context) {
	if err := h.backups.DeleteBackup(c.Request.Context(), c.Param(paramNamespace), c.Param(paramName)); err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListRestores handles GET database-cluster-restores.
func (h *BackupHandler) ListRestores(c *gin.Context) {
	list, err := h.restores.ListRestores(c.Request.Context(), c.Param(paramNamespace))
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetRestore handles GET database-cluster-restores/:name.
func (h *BackupHandler) GetRestore(c *gin.Context) {
	r, err := h.restores.GetRestore(c.Request.Context(), c.Param(paramNamespace), c.Param(paramName))
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// CreateRestore handles POST database-cluster-restores.
func (h *BackupHandler) CreateRestore(c *gin.Context) {
	r := &models.DatabaseClusterRestore{}
	if !bindObject(c, r) {
		return
	}
	created, err := h.restores.CreateRestore(c.Request.Context(), r)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateRestore handles PUT database-cluster-restores/:name.
func (h *BackupHandler) UpdateRestore(c *gin.Context) {
	r := &models.DatabaseClusterRestore{}
	if !bindNamedObject(c, r) {
		return
	}
	updated, err := h.restores.UpdateRestore(c.Request.Context(), r)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteRestore handles DELETE database-cluster-restores/:name.
func (h *BackupHandler) DeleteRestore(c *gin.Context) {
	if err := h.restores.DeleteRestore(c.Request.Context(), c.Param(paramNamespace), c.Param(paramName)); err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
