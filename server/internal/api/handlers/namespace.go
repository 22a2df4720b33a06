package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/server/internal/service"
)

// NamespaceHandler serves the cluster wide endpoints.
type NamespaceHandler struct {
	svc     service.NamespaceHandler
	version models.Version
}

// NewNamespaceHandler returns a NamespaceHandler reporting version.
func NewNamespaceHandler(svc service.NamespaceHandler, version models.Version) *NamespaceHandler {
	return &NamespaceHandler{svc: svc, version: version}
}

// Version handles GET /v1/version.
func (h *NamespaceHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, h.version)
}

// ListNamespaces handles GET /v1/namespaces. Namespaces the caller cannot
// read are left out.
func (h *NamespaceHandler) ListNamespaces(c *gin.Context) {
	namespaces, err := h.svc.ListNamespaces(c.Request.Context())
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	if namespaces == nil {
		namespaces = []string{}
	}
	c.JSON(http.StatusOK, namespaces)
}

// GetClusterInfo handles GET /v1/cluster-info.
func (h *NamespaceHandler) GetClusterInfo(c *gin.Context) {
	info, err := h.svc.GetClusterInfo(c.Request.Context())
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// GetUserPermissions handles GET /v1/permissions.
func (h *NamespaceHandler) GetUserPermissions(c *gin.Context) {
	perms, err := h.svc.GetUserPermissions(c.Request.Context())
	if err != nil {
		mapErrorToResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, perms)
}
