package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/server/internal/service"
)

// DatabaseClusterHandler serves /v1/namespaces/:namespace/database-clusters.
type DatabaseClusterHandler struct {
	svc service.DatabaseClusterHandler
}

// NewDatabaseClusterHandler returns a DatabaseClusterHandler.
func NewDatabaseClusterHandler(svc service.DatabaseClusterHandler) *DatabaseClusterHandler {
	return &DatabaseClusterHandler{svc: svc}
}

// List handles GET database-clusters.
func (h *DatabaseClusterHandler) List(c *gin.Context) {
	list, err := h.svc.ListDatabaseClusters(c.Request.Context(), c.Param(paramNamespace))
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get handles GET database-clusters/:name.
func (h *DatabaseClusterHandler) Get(c *gin.Context) {
	db, err := h.svc.GetDatabaseCluster(c.Request.Context(), c.Param(paramNamespace), c.Param(paramName))
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, db)
}

// Create handles POST database-clusters.
func (h *DatabaseClusterHandler) Create(c *gin.Context) {
	db := &models.DatabaseCluster{}
	if !bindObject(c, db) {
		return
	}
	created, err := h.svc.CreateDatabaseCluster(c.Request.Context(), db)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update handles PUT database-clusters/:name. The body must carry the
// resourceVersion it was read with.
func (h *DatabaseClusterHandler) Update(c *gin.Context) {
	db := &models.DatabaseCluster{}
	if !bindNamedObject(c, db) {
		return
	}
	updated, err := h.svc.UpdateDatabaseCluster(c.Request.Context(), db)
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE database-clusters/:name[?cleanupBackupStorage=bool].
func (h *DatabaseClusterHandler) Delete(c *gin.Context) {
	params := &models.DeleteDatabaseClusterParams{}
	if err := c.ShouldBindQuery(params); err != nil {
		respondInvalid(c, err)
		return
	}
	if err := h.svc.DeleteDatabaseCluster(c.Request.Context(), c.Param(paramNamespace), c.Param(paramName), params); err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Credentials handles GET database-clusters/:name/credentials.
func (h *DatabaseClusterHandler) Credentials(c *gin.Context) {
	creds, err := h.svc.GetDatabaseClusterCredentials(c.Request.Context(), c.Param(paramNamespace), c.Param(paramName))
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, creds)
}

// Backups handles GET database-clusters/:name/backups.
func (h *DatabaseClusterHandler) Backups(c *gin.Context) {
	list, err := h.svc.ListDatabaseClusterBackups(c.Request.Context(), c.Param(paramNamespace), c.Param(paramName))
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Restores handles GET database-clusters/:name/restores.
func (h *DatabaseClusterHandler) Restores(c *gin.Context) {
	list, err := h.svc.ListDatabaseClusterRestores(c.Request.Context(), c.Param(paramNamespace), c.Param(paramName))
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
