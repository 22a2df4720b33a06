package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/server/internal/service"
)

type stubClusters struct {
	service.DatabaseClusterHandler

	created *models.DatabaseCluster
	updated *models.DatabaseCluster
	deleted *models.DeleteDatabaseClusterParams
}

func (s *stubClusters) CreateDatabaseCluster(_ context.Context, db *models.DatabaseCluster) (*models.DatabaseCluster, error) {
	s.created = db
	return db, nil
}

func (s *stubClusters) UpdateDatabaseCluster(_ context.Context, db *models.DatabaseCluster) (*models.DatabaseCluster, error) {
	s.updated = db
	return db, nil
}

func (s *stubClusters) DeleteDatabaseCluster(_ context.Context, _, _ string, params *models.DeleteDatabaseClusterParams) error {
	s.deleted = params
	return nil
}

func newClusterRouter(svc service.DatabaseClusterHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewDatabaseClusterHandler(svc)
	router := gin.New()
	g := router.Group("/v1/namespaces/:namespace/database-clusters")
	g.POST("", h.Create)
	g.PUT("/:name", h.Update)
	g.DELETE("/:name", h.Delete)
	return router
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateDatabaseClusterUsesPathNamespace(t *testing.T) {
	svc := &stubClusters{}
	router := newClusterRouter(svc)

	w := serve(router, http.MethodPost, "/v1/namespaces/dev/database-clusters",
		`{"apiVersion":"everest.percona.com/v1alpha1","kind":"DatabaseCluster","metadata":{"name":"db1"}}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.created)
	assert.Equal(t, "dev", svc.created.GetNamespace())
	assert.Equal(t, "db1", svc.created.GetName())

	w = serve(router, http.MethodPost, "/v1/namespaces/dev/database-clusters",
		`{"metadata":{"name":"db1","namespace":"prod"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Message, `"prod"`)

	w = serve(router, http.MethodPost, "/v1/namespaces/dev/database-clusters", `{`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateDatabaseClusterNameMismatch(t *testing.T) {
	svc := &stubClusters{}
	router := newClusterRouter(svc)

	w := serve(router, http.MethodPut, "/v1/namespaces/dev/database-clusters/db1", `{"metadata":{"name":"db2"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.updated)

	w = serve(router, http.MethodPut, "/v1/namespaces/dev/database-clusters/db1", `{"metadata":{}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "db1", svc.updated.GetName())
}

func TestDeleteDatabaseClusterQuery(t *testing.T) {
	svc := &stubClusters{}
	router := newClusterRouter(svc)

	w := serve(router, http.MethodDelete, "/v1/namespaces/dev/database-clusters/db1?cleanupBackupStorage=true", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	require.NotNil(t, svc.deleted.CleanupBackupStorage)
	assert.True(t, *svc.deleted.CleanupBackupStorage)

	w = serve(router, http.MethodDelete, "/v1/namespaces/dev/database-clusters/db1?cleanupBackupStorage=maybe", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
