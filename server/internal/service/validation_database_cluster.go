package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	goversion "github.com/hashicorp/go-version"
	"golang.org/x/mod/semver"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/pkg/common"
	"github.com/everest-platform/console/server/internal/util"
)

const (
	minShardsNum                    = 1
	minConfigServersNumNNodeReplset = 3
	maxPXCEngineReplicas            = 5
	minPXCProxyReplicas             = 2
	minConfigServersNum1NodeReplset = 1
	pgReposLimit                    = 3
	minShardingVersion              = ">= 1.17.0"
)

func (h *validateHandler) ListDatabaseClusters(ctx context.Context, namespace string) (*models.DatabaseClusterList, error) {
	return h.next.ListDatabaseClusters(ctx, namespace)
}

func (h *validateHandler) GetDatabaseCluster(ctx context.Context, namespace, name string) (*models.DatabaseCluster, error) {
	return h.next.GetDatabaseCluster(ctx, namespace, name)
}

func (h *validateHandler) CreateDatabaseCluster(ctx context.Context, db *models.DatabaseCluster) (*models.DatabaseCluster, error) {
	if err := h.validateDatabaseClusterCR(ctx, db.GetNamespace(), db); err != nil {
		return nil, invalid(err)
	}

	current, err := h.kube.GetDatabaseCluster(ctx, db.GetNamespace(), db.GetName())
	switch {
	case k8serrors.IsNotFound(err):
	case err != nil:
		return nil, fmt.Errorf("failed to check if DB cluster with name already exists in namespace: %w", err)
	case current.GetName() != "":
		return nil, fmt.Errorf("%w: db cluster with name '%s' already exists in namespace '%s'",
			models.ErrConflict, db.GetName(), db.GetNamespace())
	}
	return h.next.CreateDatabaseCluster(ctx, db)
}

func (h *validateHandler) UpdateDatabaseCluster(ctx context.Context, db *models.DatabaseCluster) (*models.DatabaseCluster, error) {
	if err := h.validateDatabaseClusterCR(ctx, db.GetNamespace(), db); err != nil {
		return nil, invalid(err)
	}
	current, err := h.kube.GetDatabaseCluster(ctx, db.GetNamespace(), db.GetName())
	if err != nil {
		return nil, fmt.Errorf("failed to get database cluster: %w", err)
	}
	if err := validateDatabaseClusterOnUpdate(db, current); err != nil {
		return nil, invalid(err)
	}
	return h.next.UpdateDatabaseCluster(ctx, db)
}

func (h *validateHandler) DeleteDatabaseCluster(ctx context.Context, namespace, name string, params *models.DeleteDatabaseClusterParams) error {
	return h.next.DeleteDatabaseCluster(ctx, namespace, name, params)
}

func (h *validateHandler) GetDatabaseClusterCredentials(ctx context.Context, namespace, name string) (*models.DatabaseClusterCredential, error) {
	return h.next.GetDatabaseClusterCredentials(ctx, namespace, name)
}

func (h *validateHandler) ListDatabaseClusterBackups(ctx context.Context, namespace, cluster string) (*models.DatabaseClusterBackupList, error) {
	return h.next.ListDatabaseClusterBackups(ctx, namespace, cluster)
}

func (h *validateHandler) ListDatabaseClusterRestores(ctx context.Context, namespace, cluster string) (*models.DatabaseClusterRestoreList, error) {
	return h.next.ListDatabaseClusterRestores(ctx, namespace, cluster)
}

//nolint:cyclop
func (h *validateHandler) validateDatabaseClusterCR(ctx context.Context, namespace string, db *models.DatabaseCluster) error {
	if err := validateMetadata(db); err != nil {
		return err
	}
	if err := util.ValidateRFC1035(db.GetName(), "metadata.name"); err != nil {
		return err
	}

	engineName, ok := common.OperatorTypeToName[db.Spec.Engine.Type]
	if !ok {
		return errUnsupportedEngine
	}
	engine, err := h.kube.GetDatabaseEngine(ctx, namespace, engineName)
	if err != nil {
		return err
	}
	if err := validateEngine(db, engine); err != nil {
		return err
	}
	if db.Spec.Proxy.Type != "" {
		if err := validateProxy(db); err != nil {
			return err
		}
	}
	if err := validateBackupSpec(db); err != nil {
		return err
	}
	if err := h.validateBackupStoragesFor(ctx, namespace, db); err != nil {
		return err
	}
	if db.Spec.DataSource != nil {
		if err := validateDataSource(db.Spec.DataSource); err != nil {
			return err
		}
	}
	if db.Spec.Engine.Type == models.DatabaseEnginePostgresql {
		if err := h.validatePGSchedulesRestrictions(ctx, db); err != nil {
			return err
		}
		if err := h.validatePGRepos(ctx, db); err != nil {
			return err
		}
	}
	if err := validateSharding(db); err != nil {
		return err
	}
	return validateResourceLimits(db)
}

func validateEngine(db *models.DatabaseCluster, engine *models.DatabaseEngine) error {
	if err := validateVersion(db.Spec.Engine.Version, engine); err != nil {
		return err
	}
	replicas := db.Spec.Engine.Replicas
	switch db.Spec.Engine.Type {
	case models.DatabaseEnginePXC:
		if replicas > 0 && replicas%2 == 0 {
			return errEvenEngineReplicas
		}
		if replicas > maxPXCEngineReplicas {
			return errMaxPXCEngineReplicas
		}
	case models.DatabaseEnginePSMDB:
		if replicas > 0 && replicas%2 == 0 {
			return errEvenEngineReplicas
		}
	case models.DatabaseEnginePostgresql:
	}
	return nil
}

// validateVersion checks version against the engine's allowed versions, or
// against its available versions when no allowed versions are set.
func validateVersion(version string, engine *models.DatabaseEngine) error {
	if version == "" {
		return nil
	}
	if len(engine.Spec.AllowedVersions) > 0 {
		for _, v := range engine.Spec.AllowedVersions {
			if v == version {
				return nil
			}
		}
		return fmt.Errorf("using %s version for %s is not allowed", version, engine.Spec.Type)
	}
	if _, ok := engine.Status.AvailableVersions.Engine[version]; !ok {
		return fmt.Errorf("%s is not in available versions list", version)
	}
	return nil
}

func validateProxy(db *models.DatabaseCluster) error {
	if err := validateProxyType(db.Spec.Engine.Type, db.Spec.Proxy.Type); err != nil {
		return err
	}
	if db.Spec.Engine.Type == models.DatabaseEnginePXC &&
		db.Spec.Engine.Replicas > 1 &&
		db.Spec.Proxy.Replicas != nil && *db.Spec.Proxy.Replicas < minPXCProxyReplicas {
		return errMinPXCProxyReplicas
	}
	return nil
}

func validateProxyType(engineType models.EngineType, proxyType models.ProxyType) error {
	switch engineType {
	case models.DatabaseEnginePXC:
		if proxyType != models.ProxyTypeProxySQL && proxyType != models.ProxyTypeHAProxy {
			return errUnsupportedPXCProxy
		}
	case models.DatabaseEnginePostgresql:
		if proxyType != models.ProxyTypePGBouncer {
			return errUnsupportedPGProxy
		}
	case models.DatabaseEnginePSMDB:
		if proxyType != models.ProxyTypeMongos {
			return errUnsupportedPSMDBProxy
		}
	}
	return nil
}

func validateBackupSpec(db *models.DatabaseCluster) error {
	if err := validatePitrSpec(db); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(db.Spec.Backup.Schedules))
	for _, s := range db.Spec.Backup.Schedules {
		if s.Name == "" {
			return errNoNameInSchedule
		}
		if s.Enabled && s.BackupStorageName == "" {
			return errScheduleNoBackupStorageName
		}
	}
	for _, s := range db.Spec.Backup.Schedules {
		if _, ok := seen[s.Schedule]; ok {
			return errDuplicatedSchedules
		}
		seen[s.Schedule] = struct{}{}
	}
	return nil
}

func validatePitrSpec(db *models.DatabaseCluster) error {
	pitr := db.Spec.Backup.PITR
	if !pitr.Enabled {
		return nil
	}
	if db.Spec.Engine.Type == models.DatabaseEnginePXC && (pitr.BackupStorageName == nil || *pitr.BackupStorageName == "") {
		return errPitrNoBackupStorageName
	}
	if pitr.UploadIntervalSec != nil && *pitr.UploadIntervalSec <= 0 {
		return errPitrUploadInterval
	}
	return nil
}

func (h *validateHandler) validateBackupStoragesFor(ctx context.Context, namespace string, db *models.DatabaseCluster) error {
	storages := make(map[string]struct{})
	for _, s := range db.Spec.Backup.Schedules {
		storages[s.BackupStorageName] = struct{}{}
	}

	if db.Spec.Engine.Type == models.DatabaseEnginePSMDB {
		if len(storages) > 1 {
			return errPSMDBMultipleStorages
		}
		active := db.Status.ActiveStorage
		for name := range storages {
			if active != "" && name != active {
				return errPSMDBViolateActiveStorage
			}
		}
	}

	if !db.Spec.Backup.PITR.Enabled || db.Spec.Engine.Type != models.DatabaseEnginePXC {
		return nil
	}
	name := db.Spec.Backup.PITR.BackupStorageName
	if name == nil || *name == "" {
		return errPitrNoBackupStorageName
	}
	storage, err := h.kube.GetBackupStorage(ctx, namespace, *name)
	if err != nil {
		return err
	}
	if storage.Spec.Type != models.BackupStorageTypeS3 {
		return errPXCPitrS3Only
	}
	return nil
}

func validateDataSource(ds *models.DataSource) error {
	if ds == nil {
		return nil
	}
	if (ds.DBClusterBackupName == "") == (ds.BackupSource == nil) {
		return errDataSourceConfig
	}
	if ds.BackupSource != nil {
		if ds.BackupSource.BackupStorageName == "" {
			return errDataSourceNoBackupStorageName
		}
		if ds.BackupSource.Path == "" {
			return errDataSourceNoPath
		}
	}
	if ds.PITR == nil {
		return nil
	}
	if ds.PITR.Type != "" && ds.PITR.Type != models.PITRTypeDate {
		return errUnsupportedPitrType
	}
	if ds.PITR.Date == nil {
		return errDataSourceNoPitrDateSpecified
	}
	if ds.PITR.Date.IsZero() {
		return errDataSourceWrongDateFormat
	}
	return nil
}

// validatePGSchedulesRestrictions keeps every postgres schedule on its own
// storage. Existing schedules may not move to another storage.
func (h *validateHandler) validatePGSchedulesRestrictions(ctx context.Context, db *models.DatabaseCluster) error {
	existing, err := h.kube.GetDatabaseCluster(ctx, db.GetNamespace(), db.GetName())
	if err != nil {
		if k8serrors.IsNotFound(err) {
			return checkStorageDuplicates(db)
		}
		return err
	}
	return checkSchedulesChanges(existing, db)
}

func checkStorageDuplicates(db *models.DatabaseCluster) error {
	used := make(map[string]struct{}, len(db.Spec.Backup.Schedules))
	for _, s := range db.Spec.Backup.Schedules {
		if _, ok := used[s.BackupStorageName]; ok {
			return errDuplicatedStoragePG
		}
		used[s.BackupStorageName] = struct{}{}
	}
	return nil
}

func checkSchedulesChanges(old, db *models.DatabaseCluster) error {
	if len(db.Spec.Backup.Schedules) == 0 {
		return nil
	}
	for _, o := range old.Spec.Backup.Schedules {
		for _, n := range db.Spec.Backup.Schedules {
			if o.Name == n.Name && o.BackupStorageName != n.BackupStorageName {
				return errStorageChangePG
			}
		}
	}
	return checkStorageDuplicates(db)
}

// validatePGRepos limits the storages a postgres cluster writes to. Storages
// of existing backups count as well.
func (h *validateHandler) validatePGRepos(ctx context.Context, db *models.DatabaseCluster) error {
	storages := make(map[string]struct{})
	for _, s := range db.Spec.Backup.Schedules {
		storages[s.BackupStorageName] = struct{}{}
	}
	backups, err := h.kube.ListBackupsForCluster(ctx, db.GetNamespace(), db.GetName())
	if err != nil {
		return err
	}
	for _, b := range backups.Items {
		storages[b.Spec.BackupStorageName] = struct{}{}
	}
	if len(storages) > pgReposLimit {
		return errTooManyPGStorages
	}
	return nil
}

// validateSharding checks the sharding settings of a PSMDB cluster. The
// engine version is compared without its build suffix, so 7.0.12-7 counts
// as 7.0.12.
func validateSharding(db *models.DatabaseCluster) error {
	sharding := db.Spec.Sharding
	if sharding == nil || !sharding.Enabled {
		return nil
	}
	if db.Spec.Engine.Type != models.DatabaseEnginePSMDB {
		return errShardingIsNotSupported
	}
	if db.Spec.Engine.Version == "" {
		return errShardingVersion
	}
	v, err := goversion.NewVersion(db.Spec.Engine.Version)
	if err != nil {
		return errShardingVersion
	}
	constraint, err := goversion.NewConstraint(minShardingVersion)
	if err != nil {
		return err
	}
	if !constraint.Check(v.Core()) {
		return errShardingVersion
	}
	if sharding.Shards < minShardsNum {
		return errInsufficientShardsNumber
	}
	replicas := db.Spec.Engine.Replicas
	if replicas == 1 && sharding.ConfigServer.Replicas < minConfigServersNum1NodeReplset {
		return errInsufficientCfgSrvNumber1Node
	}
	if replicas > 1 && sharding.ConfigServer.Replicas < minConfigServersNumNNodeReplset {
		return errInsufficientCfgSrvNumber
	}
	if sharding.ConfigServer.Replicas%2 == 0 {
		return errEvenServersNumber
	}
	return nil
}

func validateResourceLimits(db *models.DatabaseCluster) error {
	res := db.Spec.Engine.Resources
	switch {
	case res.CPU.IsZero() && res.Memory.IsZero():
		return errNoResourceDefined
	case res.CPU.IsZero(), res.CPU.Cmp(minCPUQuantity) < 0:
		return errNotEnoughCPU
	case res.Memory.IsZero(), res.Memory.Cmp(minMemQuantity) < 0:
		return errNotEnoughMemory
	case db.Spec.Engine.Storage.Size.Cmp(minStorageQuantity) < 0:
		return errNotEnoughDiskSize
	}
	return nil
}

func validateDatabaseClusterOnUpdate(db, old *models.DatabaseCluster) error {
	switch old.Status.Status {
	case models.AppStateRestoring, models.AppStateDeleting, models.AppStateUpgrading, models.AppStateResizingVolumes:
		return fmt.Errorf("db operations are not allowed in current db state: %s", old.Status.Status)
	}

	newVersion, oldVersion := db.Spec.Engine.Version, old.Spec.Engine.Version
	if newVersion != "" && newVersion != oldVersion {
		if err := validateDBEngineVersionUpgrade(old.Spec.Engine.Type, newVersion, oldVersion); err != nil {
			return err
		}
	}
	if db.Spec.Engine.Replicas < old.Spec.Engine.Replicas && db.Spec.Engine.Replicas == 1 {
		return fmt.Errorf("cannot scale down %d node cluster to 1. The operation is not supported", old.Spec.Engine.Replicas)
	}
	if db.Spec.Engine.Storage.Size.Cmp(old.Spec.Engine.Storage.Size) < 0 {
		return errCannotShrinkStorageSize
	}
	return validateShardingOnUpdate(db, old)
}

// validateDBEngineVersionUpgrade rejects downgrades and major upgrades. PSMDB
// may move one major version at a time.
func validateDBEngineVersionUpgrade(engineType models.EngineType, newVersion, oldVersion string) error {
	if !strings.HasPrefix(newVersion, "v") {
		newVersion = "v" + newVersion
	}
	if !strings.HasPrefix(oldVersion, "v") {
		oldVersion = "v" + oldVersion
	}
	if !semver.IsValid(newVersion) {
		return errInvalidVersion
	}
	if semver.Compare(newVersion, oldVersion) < 0 {
		return errDBEngineDowngrade
	}
	if engineType != models.DatabaseEnginePSMDB && semver.Major(oldVersion) != semver.Major(newVersion) {
		return errDBEngineMajorVersionUpgrade
	}
	newMajor, _ := strconv.Atoi(semver.Major(newVersion)[1:])
	oldMajor, _ := strconv.Atoi(strings.TrimPrefix(semver.Major(oldVersion), "v"))
	if newMajor-oldMajor > 1 {
		return errDBEngineMajorUpgradeNotSeq
	}
	return nil
}

func validateShardingOnUpdate(db, old *models.DatabaseCluster) error {
	wasSharded := old.Spec.Sharding != nil && old.Spec.Sharding.Enabled
	isSharded := db.Spec.Sharding != nil && db.Spec.Sharding.Enabled
	switch {
	case !wasSharded && isSharded:
		return errShardingEnablingNotSupported
	case wasSharded && !isSharded:
		return errDisableShardingNotSupported
	}
	return nil
}

// validateRestoreDataSource is shared by restores and cluster data sources.
func validateRestoreDataSource(ds models.DataSource) error {
	if err := validateDataSource(&ds); err != nil {
		return errors.Join(errors.New("invalid dataSource"), err)
	}
	return nil
}
