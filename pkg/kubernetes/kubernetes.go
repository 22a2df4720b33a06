// Package kubernetes wraps a controller-runtime client with the operations
// the console performs against the Kubernetes API server.
package kubernetes

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	corev1 "k8s.io/api/core/v1"
	storagev1 "k8s.io/api/storage/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/version"
	"k8s.io/client-go/discovery"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/pkg/accounts"
	"github.com/everest-platform/console/pkg/common"
)

// ClusterType is the flavour of the underlying Kubernetes cluster.
type ClusterType string

const (
	// ClusterTypeUnknown is returned when detection fails.
	ClusterTypeUnknown ClusterType = "unknown"
	// ClusterTypeMinikube is a local minikube or kind style cluster.
	ClusterTypeMinikube ClusterType = "minikube"
	// ClusterTypeEKS is Amazon EKS.
	ClusterTypeEKS ClusterType = "eks"
	// ClusterTypeGKE is Google GKE.
	ClusterTypeGKE ClusterType = "gke"
	// ClusterTypeOpenShift is Red Hat OpenShift.
	ClusterTypeOpenShift ClusterType = "openshift"
	// ClusterTypeGeneric is any other cluster.
	ClusterTypeGeneric ClusterType = "generic"

	openShiftCatalogNamespace = "openshift-marketplace"
)

// ErrServerVersionUnavailable is returned when no discovery client is configured.
var ErrServerVersionUnavailable = errors.New("kubernetes server version is unavailable")

// RequestObserver is notified after every API request.
// verb is one of get, list, create, update, delete.
type RequestObserver func(verb, resource string, duration time.Duration, err error)

// Kubernetes is a client for the Kubernetes API server.
type Kubernetes struct {
	client     ctrlclient.Client
	discovery  discovery.ServerVersionInterface
	l          *zap.SugaredLogger
	kubeconfig string
	observe    RequestObserver
}

// CreateScheme returns a scheme with the core Kubernetes types and the
// Everest custom resources registered.
func CreateScheme() *runtime.Scheme {
	scheme := runtime.NewScheme()
	if err := clientgoscheme.AddToScheme(scheme); err != nil {
		panic(err)
	}
	if err := models.AddToScheme(scheme); err != nil {
		panic(err)
	}
	return scheme
}

// New returns a client for the cluster in kubeconfigPath.
// An empty path uses the in-cluster configuration.
func New(kubeconfigPath string, l *zap.SugaredLogger) (*Kubernetes, error) {
	cfg, err := restConfig(kubeconfigPath)
	if err != nil {
		return nil, err
	}
	c, err := ctrlclient.New(cfg, ctrlclient.Options{Scheme: CreateScheme()})
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}
	dc, err := discovery.NewDiscoveryClientForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery client: %w", err)
	}
	return &Kubernetes{
		client:     c,
		discovery:  dc,
		l:          l.With("component", "kubernetes"),
		kubeconfig: kubeconfigPath,
	}, nil
}

func restConfig(kubeconfigPath string) (*rest.Config, error) {
	if kubeconfigPath == "" {
		cfg, err := rest.InClusterConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load in-cluster config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := clientcmd.BuildConfigFromFlags("", kubeconfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig %s: %w", kubeconfigPath, err)
	}
	return cfg, nil
}

// NewEmpty returns a Kubernetes object without a client.
// Use WithKubernetesClient to attach one, typically a fake client in tests.
func NewEmpty(l *zap.SugaredLogger) *Kubernetes {
	return &Kubernetes{l: l.With("component", "kubernetes")}
}

// WithKubernetesClient sets the controller-runtime client.
func (k *Kubernetes) WithKubernetesClient(c ctrlclient.Client) *Kubernetes {
	k.client = c
	return k
}

// WithRequestObserver registers a hook called after every API request.
func (k *Kubernetes) WithRequestObserver(o RequestObserver) *Kubernetes {
	k.observe = o
	return k
}

// Kubeconfig returns the path to the kubeconfig, empty when in-cluster.
func (k *Kubernetes) Kubeconfig() string {
	return k.kubeconfig
}

// Accounts returns the account store backed by the accounts Secret.
func (k *Kubernetes) Accounts() *accounts.SecretStore {
	return accounts.NewSecretStore(k)
}

func (k *Kubernetes) record(verb, resource string, start time.Time, err error) {
	if k.observe != nil {
		k.observe(verb, resource, time.Since(start), err)
	}
}

func (k *Kubernetes) get(ctx context.Context, resource, namespace, name string, obj ctrlclient.Object) error {
	start := time.Now()
	err := k.client.Get(ctx, types.NamespacedName{Namespace: namespace, Name: name}, obj)
	k.record("get", resource, start, err)
	return err
}

func (k *Kubernetes) list(ctx context.Context, resource string, list ctrlclient.ObjectList, opts ...ctrlclient.ListOption) error {
	start := time.Now()
	err := k.client.List(ctx, list, opts...)
	k.record("list", resource, start, err)
	return err
}

func (k *Kubernetes) create(ctx context.Context, resource string, obj ctrlclient.Object) error {
	start := time.Now()
	err := k.client.Create(ctx, obj)
	k.record("create", resource, start, err)
	return err
}

func (k *Kubernetes) update(ctx context.Context, resource string, obj ctrlclient.Object) error {
	start := time.Now()
	err := k.client.Update(ctx, obj)
	k.record("update", resource, start, err)
	return err
}

func (k *Kubernetes) delete(ctx context.Context, resource string, obj ctrlclient.Object) error {
	start := time.Now()
	err := k.client.Delete(ctx, obj)
	k.record("delete", resource, start, err)
	return err
}

// GetServerVersion returns the version of the API server.
func (k *Kubernetes) GetServerVersion() (*version.Info, error) {
	if k.discovery == nil {
		return nil, ErrServerVersionUnavailable
	}
	return k.discovery.ServerVersion()
}

func (k *Kubernetes) isOpenshift(ctx context.Context) (bool, error) {
	_, err := k.GetNamespace(ctx, openShiftCatalogNamespace)
	if err == nil {
		return true, nil
	}
	return false, ctrlclient.IgnoreNotFound(err)
}

// GetClusterType guesses the flavour of the cluster from its storage classes.
func (k *Kubernetes) GetClusterType(ctx context.Context) (ClusterType, error) {
	if ok, err := k.isOpenshift(ctx); err != nil {
		return ClusterTypeUnknown, err
	} else if ok {
		return ClusterTypeOpenShift, nil
	}

	storageClasses, err := k.ListStorageClasses(ctx)
	if err != nil {
		return ClusterTypeUnknown, err
	}
	for _, sc := range storageClasses.Items {
		switch {
		case strings.Contains(sc.Provisioner, "aws"):
			return ClusterTypeEKS, nil
		case strings.Contains(sc.Provisioner, "gke"):
			return ClusterTypeGKE, nil
		case strings.Contains(sc.Provisioner, "minikube"),
			strings.Contains(sc.Provisioner, "kubevirt.io/hostpath-provisioner"),
			strings.Contains(sc.Provisioner, "standard"):
			return ClusterTypeMinikube, nil
		}
	}
	return ClusterTypeGeneric, nil
}

// ListStorageClasses lists the storage classes of the cluster.
func (k *Kubernetes) ListStorageClasses(ctx context.Context) (*storagev1.StorageClassList, error) {
	list := &storagev1.StorageClassList{}
	if err := k.list(ctx, "storageclasses", list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetNamespace returns a namespace by name.
func (k *Kubernetes) GetNamespace(ctx context.Context, name string) (*corev1.Namespace, error) {
	ns := &corev1.Namespace{}
	if err := k.get(ctx, "namespaces", "", name, ns); err != nil {
		return nil, err
	}
	return ns, nil
}

// ListNamespaces lists namespaces carrying all of the given labels.
func (k *Kubernetes) ListNamespaces(ctx context.Context, labels map[string]string) (*corev1.NamespaceList, error) {
	list := &corev1.NamespaceList{}
	if err := k.list(ctx, "namespaces", list, ctrlclient.MatchingLabels(labels)); err != nil {
		return nil, err
	}
	return list, nil
}

// CreateNamespace creates a namespace.
func (k *Kubernetes) CreateNamespace(ctx context.Context, ns *corev1.Namespace) error {
	return k.create(ctx, "namespaces", ns)
}

// UpdateNamespace updates a namespace.
func (k *Kubernetes) UpdateNamespace(ctx context.Context, ns *corev1.Namespace) error {
	return k.update(ctx, "namespaces", ns)
}

// DeleteNamespace deletes a namespace.
func (k *Kubernetes) DeleteNamespace(ctx context.Context, name string) error {
	return k.delete(ctx, "namespaces", &corev1.Namespace{ObjectMeta: objectMeta("", name)})
}

// GetDBNamespaces returns the namespaces managed by Everest that hold databases.
// The system and monitoring namespaces are excluded.
func (k *Kubernetes) GetDBNamespaces(ctx context.Context) ([]string, error) {
	list, err := k.ListNamespaces(ctx, map[string]string{
		common.KubernetesManagedByLabel: common.Everest,
	})
	if err != nil {
		return nil, errors.Join(err, errors.New("failed to get watched namespaces"))
	}
	internal := []string{common.SystemNamespace, common.MonitoringNamespace}
	result := make([]string, 0, len(list.Items))
	for _, ns := range list.Items {
		if slices.Contains(internal, ns.GetName()) {
			continue
		}
		result = append(result, ns.GetName())
	}
	slices.Sort(result)
	return result, nil
}
