package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"
	fakeclient "sigs.k8s.io/controller-runtime/pkg/client/fake"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/pkg/common"
	"github.com/everest-platform/console/pkg/kubernetes"
	"github.com/everest-platform/console/server/internal/storagecheck"
)

const testNamespace = "default"

func newKube(objs ...ctrlclient.Object) *kubernetes.Kubernetes {
	c := fakeclient.NewClientBuilder().WithScheme(kubernetes.CreateScheme()).WithObjects(objs...).Build()
	return kubernetes.NewEmpty(zap.NewNop().Sugar()).WithKubernetesClient(c)
}

type staticVersions map[string][]string

func (s staticVersions) GetSupportedEngineVersions(_ context.Context, operator, _ string) ([]string, error) {
	return s[operator], nil
}

func newTestK8sHandler(kube *kubernetes.Kubernetes, vs staticVersions) *k8sHandler {
	h := newK8sHandler(kube, vs, zap.NewNop())
	h.retryInterval = time.Millisecond
	h.maxRetries = 1
	return h
}

// recordingChecker records storage checks and fails with err.
type recordingChecker struct {
	calls []storagecheck.Params
	err   error
}

func (c *recordingChecker) Check(_ context.Context, p storagecheck.Params) error {
	c.calls = append(c.calls, p)
	return c.err
}

func testEngine(engineType models.EngineType, versions ...string) *models.DatabaseEngine {
	available := models.ComponentsMap{}
	for _, v := range versions {
		available[v] = &models.Component{Status: models.DBEngineComponentAvailable}
	}
	return &models.DatabaseEngine{
		ObjectMeta: metav1.ObjectMeta{Namespace: testNamespace, Name: common.OperatorTypeToName[engineType]},
		Spec:       models.DatabaseEngineSpec{Type: engineType},
		Status: models.DatabaseEngineStatus{
			State:             models.DBEngineStateInstalled,
			AvailableVersions: models.Versions{Engine: available},
		},
	}
}

func testCluster(name string, engineType models.EngineType, version string) *models.DatabaseCluster {
	return &models.DatabaseCluster{
		ObjectMeta: metav1.ObjectMeta{Namespace: testNamespace, Name: name},
		Spec: models.DatabaseClusterSpec{
			Engine: models.Engine{
				Type:     engineType,
				Version:  version,
				Replicas: 1,
				Storage:  models.Storage{Size: resource.MustParse("10G")},
				Resources: models.Resources{
					CPU:    resource.MustParse("1"),
					Memory: resource.MustParse("2G"),
				},
			},
		},
		Status: models.DatabaseClusterStatus{Status: models.AppStateReady},
	}
}

func testSecret(name string, data map[string]string) *corev1.Secret {
	return credentialsSecret(testNamespace, name, data)
}

func ptrTo[T any](v T) *T {
	return &v
}
