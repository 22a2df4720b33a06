package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/pkg/kubernetes"
	"github.com/everest-platform/console/pkg/versionservice"
)

const (
	defaultRetryInterval = 5 * time.Second
	defaultMaxRetries    = 5
)

// k8sHandler is the innermost handler. It reads and writes Kubernetes objects
// and assumes every request was already authorized and validated.
type k8sHandler struct {
	kube           *kubernetes.Kubernetes
	versionService versionservice.Interface
	l              *zap.Logger

	// approveInstallPlan is replaced in tests; OLM types are not served by the fake client.
	approveInstallPlan func(ctx context.Context, namespace, name string) (bool, error)
	retryInterval      time.Duration
	maxRetries         uint64
}

var _ Handler = (*k8sHandler)(nil)

// NewK8sHandler returns a handler that serves every operation from Kubernetes.
func NewK8sHandler(kube *kubernetes.Kubernetes, vs versionservice.Interface, l *zap.Logger) Handler {
	return newK8sHandler(kube, vs, l)
}

func newK8sHandler(kube *kubernetes.Kubernetes, vs versionservice.Interface, l *zap.Logger) *k8sHandler {
	return &k8sHandler{
		kube:               kube,
		versionService:     vs,
		l:                  l.With(zap.String("handler", "k8s")),
		approveInstallPlan: kube.ApproveInstallPlan,
		retryInterval:      defaultRetryInterval,
		maxRetries:         defaultMaxRetries,
	}
}

// ensureClusterExists turns a missing cluster into a bad request.
func (h *k8sHandler) ensureClusterExists(ctx context.Context, namespace, name string) error {
	if name == "" {
		return errors.Join(models.ErrInvalidRequest, errors.New("database cluster name is required"))
	}
	_, err := h.kube.GetDatabaseCluster(ctx, namespace, name)
	if k8serrors.IsNotFound(err) {
		return errors.Join(models.ErrInvalidRequest, fmt.Errorf("database cluster %s does not exist", name))
	}
	return err
}

func (h *k8sHandler) ListNamespaces(ctx context.Context) ([]string, error) {
	return h.kube.GetDBNamespaces(ctx)
}

func (h *k8sHandler) GetClusterInfo(ctx context.Context) (*models.ClusterInfo, error) {
	clusterType, err := h.kube.GetClusterType(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to detect cluster type: %w", err)
	}
	info := &models.ClusterInfo{ClusterType: string(clusterType)}
	v, err := h.kube.GetServerVersion()
	switch {
	case err == nil:
		info.ServerVersion = v.GitVersion
	case errors.Is(err, kubernetes.ErrServerVersionUnavailable):
	default:
		h.l.Warn("failed to get kubernetes server version", zap.Error(err))
	}
	return info, nil
}

// GetUserPermissions reports RBAC as disabled; the rbac handler answers for real.
func (h *k8sHandler) GetUserPermissions(context.Context) (*models.UserPermissions, error) {
	return &models.UserPermissions{Enabled: false, Permissions: []models.Permission{}}, nil
}
