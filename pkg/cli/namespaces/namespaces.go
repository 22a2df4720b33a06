// Package namespaces adds, updates and removes the database namespaces
// managed by Everest.
package namespaces

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	corev1 "k8s.io/api/core/v1"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/validation"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/pkg/cli/steps"
	"github.com/everest-platform/console/pkg/common"
)

const (
	// FlagTakeOwnership lets add label a namespace that already exists.
	FlagTakeOwnership = "take-ownership"
	// FlagKeepNamespace makes remove strip the label instead of deleting.
	FlagKeepNamespace = "keep-namespace"
	// FlagForce makes remove delete the database clusters of the namespace.
	FlagForce = "force"

	FlagOperatorMongoDB       = "operator.mongodb"
	FlagOperatorPostgresql    = "operator.postgresql"
	FlagOperatorXtraDBCluster = "operator.xtradb-cluster"

	defaultPollInterval = 5 * time.Second
	defaultPollTimeout  = 5 * time.Minute
)

var (
	// ErrNamespaceAlreadyExists is returned by add for an unmanaged namespace
	// that already exists.
	ErrNamespaceAlreadyExists = errors.New("namespace already exists")
	// ErrNamespaceAlreadyManaged is returned by add for a namespace Everest
	// already manages.
	ErrNamespaceAlreadyManaged = errors.New("namespace already managed by Everest")
	// ErrNamespaceNotManaged is returned by update and remove for a
	// namespace Everest does not manage.
	ErrNamespaceNotManaged = errors.New("namespace is not managed by Everest")
	// ErrNamespaceReserved is returned for the system and monitoring namespaces.
	ErrNamespaceReserved = errors.New("namespace is reserved for Everest")
	// ErrNoOperatorsSelected is returned when every operator flag is off.
	ErrNoOperatorsSelected = errors.New("at least one operator must be selected")
	// ErrCannotRemoveOperators is returned by update when an installed
	// operator is deselected.
	ErrCannotRemoveOperators = errors.New("cannot remove operators from a namespace")
	// ErrDatabasesExist is returned by remove when clusters exist and force
	// is not set.
	ErrDatabasesExist = errors.New("namespace has database clusters")
)

// Operators selects the database operators of a namespace.
type Operators struct {
	MongoDB       bool `mapstructure:"mongodb"`
	PostgreSQL    bool `mapstructure:"postgresql"`
	XtraDBCluster bool `mapstructure:"xtradb-cluster"`
}

func (o Operators) engineTypes() []models.EngineType {
	var types []models.EngineType
	if o.XtraDBCluster {
		types = append(types, models.DatabaseEnginePXC)
	}
	if o.MongoDB {
		types = append(types, models.DatabaseEnginePSMDB)
	}
	if o.PostgreSQL {
		types = append(types, models.DatabaseEnginePostgresql)
	}
	return types
}

// Config holds the flags of the namespaces commands.
type Config struct {
	Namespace     string
	Operators     Operators `mapstructure:"operator"`
	TakeOwnership bool      `mapstructure:"take-ownership"`
	KeepNamespace bool      `mapstructure:"keep-namespace"`
	Force         bool      `mapstructure:"force"`
	// Pretty shows spinners instead of log lines.
	Pretty bool
}

// KubeClient is the part of the Kubernetes client the manager needs.
type KubeClient interface {
	GetNamespace(ctx context.Context, name string) (*corev1.Namespace, error)
	CreateNamespace(ctx context.Context, ns *corev1.Namespace) error
	UpdateNamespace(ctx context.Context, ns *corev1.Namespace) error
	DeleteNamespace(ctx context.Context, name string) error
	ListDatabaseEngines(ctx context.Context, namespace string) (*models.DatabaseEngineList, error)
	CreateDatabaseEngine(ctx context.Context, e *models.DatabaseEngine) (*models.DatabaseEngine, error)
	ListDatabaseClusters(ctx context.Context, namespace string) (*models.DatabaseClusterList, error)
	DeleteDatabaseCluster(ctx context.Context, namespace, name string) error
}

// Manager runs the namespaces commands.
type Manager struct {
	kube KubeClient
	l    *zap.SugaredLogger
	out  io.Writer

	pollInterval time.Duration
	pollTimeout  time.Duration
}

// NewManager returns a Manager. Spinner output goes to out.
func NewManager(kube KubeClient, l *zap.SugaredLogger, out io.Writer) *Manager {
	return &Manager{
		kube:         kube,
		l:            l,
		out:          out,
		pollInterval: defaultPollInterval,
		pollTimeout:  defaultPollTimeout,
	}
}

// ValidateNamespace checks that name can hold Everest databases.
func ValidateNamespace(name string) error {
	if name == common.SystemNamespace || name == common.MonitoringNamespace {
		return fmt.Errorf("%w: %s", ErrNamespaceReserved, name)
	}
	if errs := validation.IsDNS1123Label(name); len(errs) > 0 {
		return fmt.Errorf("invalid namespace name %q: %s", name, strings.Join(errs, "; "))
	}
	return nil
}

func isManaged(ns *corev1.Namespace) bool {
	return ns.GetLabels()[common.KubernetesManagedByLabel] == common.Everest
}

// Add creates the namespace, or takes ownership of an existing one, and
// installs the selected database engines in it.
func (m *Manager) Add(ctx context.Context, c Config) error {
	if err := ValidateNamespace(c.Namespace); err != nil {
		return err
	}
	engines := c.Operators.engineTypes()
	if len(engines) == 0 {
		return ErrNoOperatorsSelected
	}

	ns, err := m.kube.GetNamespace(ctx, c.Namespace)
	switch {
	case k8serrors.IsNotFound(err):
		ns = nil
	case err != nil:
		return err
	case isManaged(ns):
		return fmt.Errorf("%w: %s", ErrNamespaceAlreadyManaged, c.Namespace)
	case !c.TakeOwnership:
		return fmt.Errorf("%w: %s", ErrNamespaceAlreadyExists, c.Namespace)
	}

	s := []steps.Step{{
		Desc: fmt.Sprintf("Provisioning namespace '%s'", c.Namespace),
		F: func(ctx context.Context) error {
			if ns == nil {
				return m.kube.CreateNamespace(ctx, &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{
					Name:   c.Namespace,
					Labels: map[string]string{common.KubernetesManagedByLabel: common.Everest},
				}})
			}
			if ns.Labels == nil {
				ns.Labels = map[string]string{}
			}
			ns.Labels[common.KubernetesManagedByLabel] = common.Everest
			return m.kube.UpdateNamespace(ctx, ns)
		},
	}}
	s = append(s, m.engineSteps(c.Namespace, engines)...)
	if err := m.run(ctx, s); err != nil {
		return err
	}
	m.l.Infof("Namespace '%s' has been added", c.Namespace)
	return nil
}

// Update installs the selected engines that are missing from a managed
// namespace. Engines are never removed.
func (m *Manager) Update(ctx context.Context, c Config) error {
	if err := ValidateNamespace(c.Namespace); err != nil {
		return err
	}
	if err := m.ensureManaged(ctx, c.Namespace); err != nil {
		return err
	}
	wanted := c.Operators.engineTypes()
	if len(wanted) == 0 {
		return ErrNoOperatorsSelected
	}

	list, err := m.kube.ListDatabaseEngines(ctx, c.Namespace)
	if err != nil {
		return err
	}
	var installed []models.EngineType
	for _, e := range list.Items {
		installed = append(installed, e.Spec.Type)
	}
	var missing []models.EngineType
	for _, t := range installed {
		if !slices.Contains(wanted, t) {
			return fmt.Errorf("%w: %s is installed in namespace '%s'", ErrCannotRemoveOperators, common.OperatorTypeToName[t], c.Namespace)
		}
	}
	for _, t := range wanted {
		if !slices.Contains(installed, t) {
			missing = append(missing, t)
		}
	}
	if len(missing) == 0 {
		m.l.Infof("Namespace '%s' is up to date", c.Namespace)
		return nil
	}
	if err := m.run(ctx, m.engineSteps(c.Namespace, missing)); err != nil {
		return err
	}
	m.l.Infof("Namespace '%s' has been updated", c.Namespace)
	return nil
}

// Remove deletes a managed namespace. Database clusters in it are deleted
// first when Force is set. With KeepNamespace only the management label is
// removed.
func (m *Manager) Remove(ctx context.Context, c Config) error {
	if err := ValidateNamespace(c.Namespace); err != nil {
		return err
	}
	if err := m.ensureManaged(ctx, c.Namespace); err != nil {
		return err
	}

	dbs, err := m.kube.ListDatabaseClusters(ctx, c.Namespace)
	if err != nil {
		return err
	}
	var s []steps.Step
	if len(dbs.Items) > 0 {
		if !c.Force {
			names := make([]string, 0, len(dbs.Items))
			for _, db := range dbs.Items {
				names = append(names, db.GetName())
			}
			return fmt.Errorf("%w: %s. Set '--%s' to delete them", ErrDatabasesExist, strings.Join(names, ", "), FlagForce)
		}
		s = append(s, steps.Step{
			Desc: fmt.Sprintf("Deleting database clusters in namespace '%s'", c.Namespace),
			F: func(ctx context.Context) error {
				return m.deleteDBs(ctx, c.Namespace, dbs)
			},
		})
	}

	if c.KeepNamespace {
		s = append(s, steps.Step{
			Desc: fmt.Sprintf("Releasing namespace '%s'", c.Namespace),
			F: func(ctx context.Context) error {
				ns, err := m.kube.GetNamespace(ctx, c.Namespace)
				if err != nil {
					return err
				}
				delete(ns.Labels, common.KubernetesManagedByLabel)
				return m.kube.UpdateNamespace(ctx, ns)
			},
		})
	} else {
		s = append(s, steps.Step{
			Desc: fmt.Sprintf("Deleting namespace '%s'", c.Namespace),
			F: func(ctx context.Context) error {
				return m.deleteNamespace(ctx, c.Namespace)
			},
		})
	}

	if err := m.run(ctx, s); err != nil {
		return err
	}
	m.l.Infof("Namespace '%s' has been removed", c.Namespace)
	return nil
}

func (m *Manager) ensureManaged(ctx context.Context, name string) error {
	ns, err := m.kube.GetNamespace(ctx, name)
	if k8serrors.IsNotFound(err) || (err == nil && !isManaged(ns)) {
		return fmt.Errorf("%w: %s", ErrNamespaceNotManaged, name)
	}
	return err
}

func (m *Manager) engineSteps(namespace string, engines []models.EngineType) []steps.Step {
	s := make([]steps.Step, 0, len(engines))
	for _, t := range engines {
		name := common.OperatorTypeToName[t]
		s = append(s, steps.Step{
			Desc: fmt.Sprintf("Installing %s", name),
			F: func(ctx context.Context) error {
				_, err := m.kube.CreateDatabaseEngine(ctx, &models.DatabaseEngine{
					ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
					Spec:       models.DatabaseEngineSpec{Type: t},
				})
				if k8serrors.IsAlreadyExists(err) {
					return nil
				}
				return err
			},
		})
	}
	return s
}

func (m *Manager) deleteDBs(ctx context.Context, namespace string, dbs *models.DatabaseClusterList) error {
	for _, db := range dbs.Items {
		m.l.Infof("Deleting database cluster '%s' in namespace '%s'", db.GetName(), namespace)
		if err := m.kube.DeleteDatabaseCluster(ctx, namespace, db.GetName()); err != nil && !k8serrors.IsNotFound(err) {
			return err
		}
	}
	m.l.Info("Waiting for database clusters to be deleted")
	return wait.PollUntilContextTimeout(ctx, m.pollInterval, m.pollTimeout, true, func(ctx context.Context) (bool, error) {
		list, err := m.kube.ListDatabaseClusters(ctx, namespace)
		if err != nil {
			return false, err
		}
		return len(list.Items) == 0, nil
	})
}

func (m *Manager) deleteNamespace(ctx context.Context, name string) error {
	if err := m.kube.DeleteNamespace(ctx, name); err != nil {
		if k8serrors.IsNotFound(err) {
			return nil
		}
		return err
	}
	m.l.Infof("Waiting for namespace '%s' to be deleted", name)
	return wait.PollUntilContextTimeout(ctx, m.pollInterval, m.pollTimeout, true, func(ctx context.Context) (bool, error) {
		_, err := m.kube.GetNamespace(ctx, name)
		if k8serrors.IsNotFound(err) {
			return true, nil
		}
		return false, err
	})
}

func (m *Manager) run(ctx context.Context, s []steps.Step) error {
	out := m.out
	if out == nil {
		out = io.Discard
	}
	return steps.RunStepsWithSpinner(ctx, s, out)
}
