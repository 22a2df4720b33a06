package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/cenkalti/backoff/v4"
	goversion "github.com/hashicorp/go-version"
	"go.uber.org/zap"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/pkg/common"
)

var (
	errDBEngineUpgradeUnavailable   = errors.New("provided target version is not available for upgrade")
	errDBEngineInvalidTargetVersion = errors.New("invalid target version provided for upgrade")
	errClustersNotReadyForUpgrade   = errors.New("one or more database clusters are not ready for upgrade")
)

func (h *k8sHandler) ListDatabaseEngines(ctx context.Context, namespace string) (*models.DatabaseEngineList, error) {
	return h.kube.ListDatabaseEngines(ctx, namespace)
}

func (h *k8sHandler) GetDatabaseEngine(ctx context.Context, namespace, name string) (*models.DatabaseEngine, error) {
	return h.kube.GetDatabaseEngine(ctx, namespace, name)
}

func (h *k8sHandler) UpdateDatabaseEngine(ctx context.Context, e *models.DatabaseEngine) (*models.DatabaseEngine, error) {
	return h.kube.UpdateDatabaseEngine(ctx, e)
}

func (h *k8sHandler) newBackoff(ctx context.Context) backoff.BackOffContext {
	return backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(h.retryInterval), h.maxRetries),
		ctx,
	)
}

// GetUpgradePlan lists the pending operator upgrades and the tasks every
// cluster needs before they can be approved. Without pending upgrades the
// plan holds the tasks left over from the last upgrade.
func (h *k8sHandler) GetUpgradePlan(ctx context.Context, namespace string) (*models.UpgradePlan, error) {
	plan, err := h.getUpgradePlan(ctx, namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to get upgrade plan: %w", err)
	}
	if len(plan.Upgrades) > 0 {
		return plan, nil
	}

	engines, err := h.kube.ListDatabaseEngines(ctx, namespace)
	if err != nil {
		return nil, err
	}
	for i := range engines.Items {
		tasks, err := h.postUpgradeTasks(ctx, &engines.Items[i])
		if err != nil {
			return nil, err
		}
		plan.PendingActions = append(plan.PendingActions, tasks...)
	}
	return plan, nil
}

// ApproveUpgradePlan locks the engines being upgraded and approves their
// install plans. The locks are released when any cluster is not ready or
// the approval fails.
func (h *k8sHandler) ApproveUpgradePlan(ctx context.Context, namespace string) error {
	plan, err := h.getUpgradePlan(ctx, namespace)
	if err != nil {
		return err
	}
	if err := h.lockEngines(ctx, namespace, plan, true); err != nil {
		return errors.Join(err, errors.New("failed to lock engines"))
	}

	if slices.ContainsFunc(plan.PendingActions, func(t models.UpgradeTask) bool {
		return t.PendingTask != models.UpgradeTaskReady
	}) {
		if err := h.lockEngines(ctx, namespace, plan, false); err != nil {
			return errors.Join(err, errors.New("failed to release lock"))
		}
		return errors.Join(models.ErrInvalidRequest, errClustersNotReadyForUpgrade)
	}

	if err := backoff.Retry(func() error {
		return h.approveInstallPlans(ctx, namespace)
	}, h.newBackoff(ctx)); err != nil {
		if unlockErr := h.lockEngines(ctx, namespace, plan, false); unlockErr != nil {
			return errors.Join(err, unlockErr, errors.New("failed to release lock"))
		}
		return err
	}
	h.l.Info("operator upgrade approved", zap.String("namespace", namespace), zap.Int("engines", len(plan.Upgrades)))
	return nil
}

func (h *k8sHandler) lockEngines(ctx context.Context, namespace string, plan *models.UpgradePlan, lock bool) error {
	return backoff.Retry(func() error {
		for _, u := range plan.Upgrades {
			if err := h.kube.SetDatabaseEngineLock(ctx, namespace, u.Name, lock); err != nil {
				return err
			}
		}
		return nil
	}, h.newBackoff(ctx))
}

func (h *k8sHandler) approveInstallPlans(ctx context.Context, namespace string) error {
	engines, err := h.kube.ListDatabaseEngines(ctx, namespace)
	if err != nil {
		return err
	}
	var plans []string
	for _, engine := range engines.Items {
		next := engine.Status.GetNextUpgradeVersion()
		if next == "" {
			continue
		}
		for _, pending := range engine.Status.PendingOperatorUpgrades {
			if pending.TargetVersion == next {
				plans = append(plans, pending.InstallPlanRef.Name)
			}
		}
	}
	slices.Sort(plans)
	plans = slices.Compact(plans)

	for _, name := range plans {
		if err := backoff.Retry(func() error {
			_, err := h.approveInstallPlan(ctx, namespace, name)
			return err
		}, h.newBackoff(ctx)); err != nil {
			return err
		}
	}
	return nil
}

func (h *k8sHandler) getUpgradePlan(ctx context.Context, namespace string) (*models.UpgradePlan, error) {
	engines, err := h.kube.ListDatabaseEngines(ctx, namespace)
	if err != nil {
		return nil, err
	}
	plan := &models.UpgradePlan{
		Upgrades:       []models.Upgrade{},
		PendingActions: []models.UpgradeTask{},
	}
	for i := range engines.Items {
		engine := &engines.Items[i]
		next := engine.Status.GetNextUpgradeVersion()
		if next == "" {
			continue
		}
		plan.Upgrades = append(plan.Upgrades, models.Upgrade{
			Name:           engine.GetName(),
			CurrentVersion: engine.Status.OperatorVersion,
			TargetVersion:  next,
		})
		tasks, err := h.upgradePreflight(ctx, next, engine)
		if err != nil {
			return nil, err
		}
		plan.PendingActions = append(plan.PendingActions, tasks...)
	}
	return plan, nil
}

func (h *k8sHandler) upgradePreflight(ctx context.Context, targetVersion string, engine *models.DatabaseEngine) ([]models.UpgradeTask, error) {
	if err := validateOperatorUpgradeVersion(engine.Status.OperatorVersion, targetVersion); err != nil {
		return nil, err
	}
	if engine.Status.GetPendingUpgrade(targetVersion) == nil {
		return nil, errDBEngineUpgradeUnavailable
	}

	dbs, err := h.kube.ListDatabaseClusters(ctx, engine.GetNamespace())
	if err != nil {
		return nil, err
	}
	tasks := make([]models.UpgradeTask, 0, len(dbs.Items))
	for i := range dbs.Items {
		db := &dbs.Items[i]
		if db.Spec.Engine.Type != engine.Spec.Type {
			continue
		}
		task, err := h.preflightTask(ctx, db, engine, targetVersion)
		if err != nil {
			return nil, errors.Join(err, errors.New("failed to run preflight checks"))
		}
		tasks = append(tasks, task)
	}
	slices.SortFunc(tasks, func(a, b models.UpgradeTask) int {
		return strings.Compare(a.Name, b.Name)
	})
	return tasks, nil
}

func validateOperatorUpgradeVersion(currentVersion, targetVersion string) error {
	target, err := goversion.NewSemver(targetVersion)
	if err != nil {
		return err
	}
	current, err := goversion.NewSemver(currentVersion)
	if err != nil {
		return err
	}
	if target.LessThanOrEqual(current) {
		return errors.Join(errDBEngineInvalidTargetVersion, errors.New("target version must be greater than the current version"))
	}
	return nil
}

func (h *k8sHandler) preflightTask(
	ctx context.Context,
	db *models.DatabaseCluster,
	engine *models.DatabaseEngine,
	targetVersion string,
) (models.UpgradeTask, error) {
	ok, minVersion, err := h.engineVersionSupported(ctx, db, engine, targetVersion)
	if err != nil {
		return models.UpgradeTask{}, errors.Join(err, errors.New("failed to validate database engine version for operator upgrade"))
	}
	switch {
	case !ok:
		return models.UpgradeTask{
			Name:        db.GetName(),
			PendingTask: models.UpgradeTaskUpgradeEngine,
			Message:     fmt.Sprintf("Upgrade DB version to %s or higher", minVersion),
		}, nil
	case db.Status.RecommendedCRVersion != nil:
		return models.UpgradeTask{
			Name:        db.GetName(),
			PendingTask: models.UpgradeTaskRestart,
			Message:     fmt.Sprintf("Update CRVersion to %s", *db.Status.RecommendedCRVersion),
		}, nil
	case db.Status.Status != models.AppStateReady:
		return models.UpgradeTask{
			Name:        db.GetName(),
			PendingTask: models.UpgradeTaskNotReady,
			Message:     "Database is not ready",
		}, nil
	}
	return models.UpgradeTask{Name: db.GetName(), PendingTask: models.UpgradeTaskReady}, nil
}

// engineVersionSupported reports whether the cluster's engine version is at
// least the smallest version the target operator supports within the same or
// a higher major version.
func (h *k8sHandler) engineVersionSupported(
	ctx context.Context,
	db *models.DatabaseCluster,
	engine *models.DatabaseEngine,
	targetVersion string,
) (bool, string, error) {
	operator, ok := common.OperatorTypeToName[engine.Spec.Type]
	if !ok {
		return false, "", fmt.Errorf("unsupported engine type %s", engine.Spec.Type)
	}
	supported, err := h.versionService.GetSupportedEngineVersions(ctx, operator, targetVersion)
	if err != nil {
		return false, "", errors.Join(err, errors.New("failed to get supported engine versions"))
	}
	current, err := goversion.NewVersion(db.Spec.Engine.Version)
	if err != nil {
		return false, "", err
	}

	var minVersion *goversion.Version
	for _, s := range supported {
		v, err := goversion.NewVersion(s)
		if err != nil {
			return false, "", err
		}
		if current.Segments()[0] > v.Segments()[0] {
			continue
		}
		if minVersion == nil || v.LessThan(minVersion) {
			minVersion = v
		}
	}
	if minVersion == nil {
		return false, "", fmt.Errorf("no minimum supported versions found for %s", operator)
	}
	return current.GreaterThanOrEqual(minVersion), minVersion.Original(), nil
}

func (h *k8sHandler) postUpgradeTasks(ctx context.Context, engine *models.DatabaseEngine) ([]models.UpgradeTask, error) {
	dbs, err := h.kube.ListDatabaseClusters(ctx, engine.GetNamespace())
	if err != nil {
		return nil, err
	}
	tasks := []models.UpgradeTask{}
	for _, db := range dbs.Items {
		if db.Spec.Engine.Type != engine.Spec.Type {
			continue
		}
		task := models.UpgradeTask{Name: db.GetName(), PendingTask: models.UpgradeTaskReady}
		if rec := db.Status.RecommendedCRVersion; rec != nil {
			task.PendingTask = models.UpgradeTaskRestart
			task.Message = fmt.Sprintf("Database needs restart to use CRVersion '%s'", *rec)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
