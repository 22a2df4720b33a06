// Package uninstall removes Everest and everything it manages from a
// Kubernetes cluster.
package uninstall

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/manifoldco/promptui"
	"go.uber.org/zap"
	corev1 "k8s.io/api/core/v1"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/pkg/cli/steps"
	"github.com/everest-platform/console/pkg/common"
)

const (
	pollInterval = 5 * time.Second
	pollTimeout  = 5 * time.Minute

	// FlagAssumeYes skips the confirmation prompt.
	FlagAssumeYes = "assume-yes"
	// FlagForce deletes database clusters without asking.
	FlagForce = "force"
)

// Config holds the flags of the uninstall command.
type Config struct {
	AssumeYes bool `mapstructure:"assume-yes"`
	Force     bool `mapstructure:"force"`
	// Pretty shows spinners and the final message on Out.
	Pretty bool
}

// KubeClient is the part of the Kubernetes client uninstall needs.
type KubeClient interface {
	GetDBNamespaces(ctx context.Context) ([]string, error)
	GetNamespace(ctx context.Context, name string) (*corev1.Namespace, error)
	DeleteNamespace(ctx context.Context, name string) error
	ListDatabaseClusters(ctx context.Context, namespace string) (*models.DatabaseClusterList, error)
	DeleteDatabaseCluster(ctx context.Context, namespace, name string) error
	ListBackupStorages(ctx context.Context, namespace string) (*models.BackupStorageList, error)
	DeleteBackupStorage(ctx context.Context, namespace, name string) error
	ListMonitoringConfigs(ctx context.Context, namespace string) (*models.MonitoringConfigList, error)
	DeleteMonitoringConfig(ctx context.Context, namespace, name string) error
}

// Uninstall runs the uninstall command.
type Uninstall struct {
	config Config
	kube   KubeClient
	l      *zap.SugaredLogger
	out    io.Writer

	// Confirm asks a yes/no question. It defaults to a terminal prompt.
	Confirm func(question string) (bool, error)

	pollInterval        time.Duration
	pollTimeout         time.Duration
	numResourcesDeleted int
}

// NewUninstall returns an Uninstall writing progress to out.
func NewUninstall(c Config, kube KubeClient, l *zap.SugaredLogger, out io.Writer) *Uninstall {
	u := &Uninstall{
		config:       c,
		kube:         kube,
		l:            l,
		out:          out,
		Confirm:      promptConfirm,
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
	}
	if !c.Pretty || out == nil {
		u.out = io.Discard
	}
	return u
}

func promptConfirm(question string) (bool, error) {
	p := promptui.Prompt{Label: question, IsConfirm: true}
	if _, err := p.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Run asks for confirmation and deletes database clusters, backup storages,
// monitoring configs, the database namespaces, the monitoring namespace and
// the system namespace, in that order.
func (u *Uninstall) Run(ctx context.Context) error {
	if !u.config.AssumeYes {
		ok, err := u.Confirm("Are you sure you want to uninstall Everest")
		if err != nil {
			return err
		}
		if !ok {
			u.l.Info("Exiting")
			return nil
		}
	}

	dbsExist, err := u.dbsExist(ctx)
	if err != nil {
		return err
	}
	if dbsExist && !u.config.Force {
		ok, err := u.Confirm("There are still database clusters managed by Everest. Do you want to delete them")
		if err != nil {
			return err
		}
		if !ok {
			u.l.Info("Can't proceed without deleting database clusters")
			return nil
		}
	}

	dbNamespaces, err := u.dbNamespaces(ctx)
	if err != nil {
		return err
	}

	s := []steps.Step{
		{Desc: "Deleting database clusters", F: u.deleteDBs},
		{Desc: "Deleting backup storages", F: func(ctx context.Context) error {
			return u.deleteBackupStorages(ctx, dbNamespaces)
		}},
		{Desc: "Deleting monitoring instances", F: func(ctx context.Context) error {
			return u.deleteMonitoringConfigs(ctx, dbNamespaces)
		}},
		{Desc: "Deleting database namespaces", F: func(ctx context.Context) error {
			return u.deleteNamespaces(ctx, dbNamespaces)
		}},
		{Desc: "Deleting monitoring namespace", F: func(ctx context.Context) error {
			return u.deleteNamespaces(ctx, []string{common.MonitoringNamespace})
		}},
		{Desc: "Deleting Everest system namespace", F: func(ctx context.Context) error {
			return u.deleteNamespaces(ctx, []string{common.SystemNamespace})
		}},
	}
	if err := steps.RunStepsWithSpinner(ctx, s, u.out); err != nil {
		return err
	}

	if u.numResourcesDeleted == 0 {
		u.l.Info("Everest was not installed")
		fmt.Fprintln(u.out, "Everest was not installed")
		return nil
	}
	u.l.Info("Everest has been uninstalled successfully")
	fmt.Fprintln(u.out, "Everest has been uninstalled successfully")
	return nil
}

func (u *Uninstall) dbNamespaces(ctx context.Context) ([]string, error) {
	namespaces, err := u.kube.GetDBNamespaces(ctx)
	if k8serrors.IsNotFound(err) {
		return nil, nil
	}
	return namespaces, err
}

func (u *Uninstall) getDBs(ctx context.Context) (map[string]*models.DatabaseClusterList, error) {
	namespaces, err := u.dbNamespaces(ctx)
	if err != nil {
		return nil, err
	}
	all := make(map[string]*models.DatabaseClusterList, len(namespaces))
	for _, ns := range namespaces {
		dbs, err := u.kube.ListDatabaseClusters(ctx, ns)
		if err != nil {
			return nil, err
		}
		all[ns] = dbs
	}
	return all, nil
}

func (u *Uninstall) dbsExist(ctx context.Context) (bool, error) {
	all, err := u.getDBs(ctx)
	if err != nil {
		return false, err
	}
	exist := false
	for ns, dbs := range all {
		if len(dbs.Items) == 0 {
			continue
		}
		exist = true
		u.l.Warnf("Database clusters in namespace '%s':", ns)
		for _, db := range dbs.Items {
			u.l.Warnf("  - %s", db.GetName())
		}
	}
	return exist, nil
}

func (u *Uninstall) deleteDBs(ctx context.Context) error {
	all, err := u.getDBs(ctx)
	if err != nil {
		return err
	}
	for ns, dbs := range all {
		for _, db := range dbs.Items {
			u.numResourcesDeleted++
			u.l.Infof("Deleting database cluster '%s' in namespace '%s'", db.GetName(), ns)
			if err := u.kube.DeleteDatabaseCluster(ctx, ns, db.GetName()); err != nil && !k8serrors.IsNotFound(err) {
				return err
			}
		}
	}

	u.l.Info("Waiting for database clusters to be deleted")
	return wait.PollUntilContextTimeout(ctx, u.pollInterval, u.pollTimeout, true, func(ctx context.Context) (bool, error) {
		all, err := u.getDBs(ctx)
		if err != nil {
			return false, err
		}
		for _, dbs := range all {
			if len(dbs.Items) > 0 {
				return false, nil
			}
		}
		return true, nil
	})
}

func (u *Uninstall) deleteBackupStorages(ctx context.Context, dbNamespaces []string) error {
	for _, ns := range append([]string{common.SystemNamespace}, dbNamespaces...) {
		list, err := u.kube.ListBackupStorages(ctx, ns)
		if err != nil {
			return err
		}
		for _, bs := range list.Items {
			u.numResourcesDeleted++
			u.l.Infof("Deleting backup storage '%s' in namespace '%s'", bs.GetName(), ns)
			if err := u.kube.DeleteBackupStorage(ctx, ns, bs.GetName()); err != nil && !k8serrors.IsNotFound(err) {
				return err
			}
		}
	}
	return nil
}

func (u *Uninstall) deleteMonitoringConfigs(ctx context.Context, dbNamespaces []string) error {
	for _, ns := range append([]string{common.MonitoringNamespace}, dbNamespaces...) {
		list, err := u.kube.ListMonitoringConfigs(ctx, ns)
		if err != nil {
			return err
		}
		for _, mc := range list.Items {
			u.numResourcesDeleted++
			u.l.Infof("Deleting monitoring instance '%s' in namespace '%s'", mc.GetName(), ns)
			if err := u.kube.DeleteMonitoringConfig(ctx, ns, mc.GetName()); err != nil && !k8serrors.IsNotFound(err) {
				return err
			}
		}
	}
	return nil
}

func (u *Uninstall) deleteNamespaces(ctx context.Context, namespaces []string) error {
	var pending []string
	for _, ns := range namespaces {
		u.l.Infof("Trying to delete namespace '%s'", ns)
		if err := u.kube.DeleteNamespace(ctx, ns); err != nil {
			if k8serrors.IsNotFound(err) {
				u.l.Infof("Namespace '%s' was not found", ns)
				continue
			}
			return err
		}
		u.numResourcesDeleted++
		pending = append(pending, ns)
	}
	if len(pending) == 0 {
		return nil
	}

	return wait.PollUntilContextTimeout(ctx, u.pollInterval, u.pollTimeout, true, func(ctx context.Context) (bool, error) {
		for _, ns := range pending {
			_, err := u.kube.GetNamespace(ctx, ns)
			if err == nil {
				return false, nil
			}
			if !k8serrors.IsNotFound(err) {
				return false, err
			}
		}
		return true, nil
	})
}
