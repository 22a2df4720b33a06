package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/api/resource"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/pkg/kubernetes"
	"github.com/everest-platform/console/server/internal/storagecheck"
)

var (
	errEmptyNamespace                = errors.New("namespace cannot be empty")
	errEmptyName                     = errors.New("name cannot be empty")
	errUnsupportedEngine             = errors.New("unsupported database engine")
	errEvenEngineReplicas            = errors.New("engine replicas cannot be even")
	errMaxPXCEngineReplicas          = fmt.Errorf("engine replicas cannot be greater than %d", maxPXCEngineReplicas)
	errUnsupportedPXCProxy           = errors.New("you can use either HAProxy or Proxy SQL for PXC clusters")
	errUnsupportedPGProxy            = errors.New("you can use only PGBouncer as a proxy type for Postgres clusters")
	errUnsupportedPSMDBProxy         = errors.New("you can use only Mongos as a proxy type for MongoDB clusters")
	errMinPXCProxyReplicas           = fmt.Errorf("proxy replicas cannot be less than %d", minPXCProxyReplicas)
	errNoNameInSchedule              = errors.New("'name' field for the backup schedules cannot be empty")
	errScheduleNoBackupStorageName   = errors.New("'backupStorageName' field cannot be empty when schedule is enabled")
	errDuplicatedSchedules           = errors.New("duplicated backup schedules are not allowed")
	errPitrNoBackupStorageName       = errors.New("'backupStorageName' field cannot be empty when pitr is enabled")
	errPitrUploadInterval            = errors.New("'uploadIntervalSec' should be a positive number")
	errPSMDBMultipleStorages         = errors.New("can't use more than one backup storage for PSMDB clusters")
	errPSMDBViolateActiveStorage     = errors.New("can't change the active storage for PSMDB clusters")
	errPXCPitrS3Only                 = errors.New("point-in-time recovery only supported for s3 compatible storages")
	errDataSourceConfig              = errors.New("either DBClusterBackupName or BackupSource must be specified in the DataSource field")
	errDataSourceNoBackupStorageName = errors.New("'backupStorageName' should be specified in .Spec.DataSource.BackupSource")
	errDataSourceNoPath              = errors.New("'path' should be specified in .Spec.DataSource.BackupSource")
	errDataSourceNoPitrDateSpecified = errors.New("pitr Date field cannot be empty")
	errDataSourceWrongDateFormat     = errors.New("failed to parse .Spec.DataSource.Pitr.Date as 2006-01-02T15:04:05Z")
	errUnsupportedPitrType           = errors.New("the given point-in-time recovery type is not supported")
	errDuplicatedStoragePG           = errors.New("postgres clusters can't use the same storage for the different schedules")
	errStorageChangePG               = errors.New("the existing postgres schedules can't change their storage")
	errTooManyPGStorages             = fmt.Errorf("only %d different storages are allowed in a postgres cluster", pgReposLimit)
	errShardingIsNotSupported        = errors.New("sharding is not supported")
	errShardingVersion               = errors.New("sharding is available starting PSMDB 1.17.0")
	errInsufficientShardsNumber      = errors.New("shards number should be greater than 0")
	errInsufficientCfgSrvNumber      = fmt.Errorf("minimum config servers number for clusters with more than 1 node is %d", minConfigServersNumNNodeReplset)
	errInsufficientCfgSrvNumber1Node = fmt.Errorf("minimum config servers number for 1 node clusters is %d", minConfigServersNum1NodeReplset)
	errEvenServersNumber             = errors.New("config servers number should be odd")
	errShardingEnablingNotSupported  = errors.New("sharding cannot be enabled for an existing cluster")
	errDisableShardingNotSupported   = errors.New("sharding cannot be disabled")
	errNoResourceDefined             = errors.New("please specify resource limits for the cluster")
	errNotEnoughCPU                  = fmt.Errorf("CPU limits should be above %s", minCPUQuantity.String())
	errNotEnoughMemory               = fmt.Errorf("memory limits should be above %s", minMemQuantity.String())
	errNotEnoughDiskSize             = fmt.Errorf("storage size should be above %s", minStorageQuantity.String())
	errCannotShrinkStorageSize       = errors.New("cannot shrink storage size")
	errInvalidVersion                = errors.New("invalid database engine version provided")
	errDBEngineDowngrade             = errors.New("database engine cannot be downgraded")
	errDBEngineMajorVersionUpgrade   = errors.New("database engine cannot be upgraded to a major version")
	errDBEngineMajorUpgradeNotSeq    = errors.New("database engine cannot be upgraded to a non-sequential major version")
	errStorageInUse                  = errors.New("backup storage is in use")
	errMonitoringInUse               = errors.New("monitoring instance is in use")
)

//nolint:gochecknoglobals
var (
	minCPUQuantity     = resource.MustParse("600m")
	minMemQuantity     = resource.MustParse("512M")
	minStorageQuantity = resource.MustParse("1G")
)

// validateHandler rejects malformed requests before they reach Kubernetes.
type validateHandler struct {
	next    Handler
	kube    *kubernetes.Kubernetes
	storage storagecheck.Checker
	l       *zap.Logger
}

var _ Handler = (*validateHandler)(nil)

// NewValidateHandler returns a handler that validates requests and passes
// them to next. storage verifies backup storage access.
func NewValidateHandler(next Handler, kube *kubernetes.Kubernetes, storage storagecheck.Checker, l *zap.Logger) Handler {
	return &validateHandler{
		next:    next,
		kube:    kube,
		storage: storage,
		l:       l.With(zap.String("handler", "validation")),
	}
}

func invalid(err error) error {
	return errors.Join(models.ErrInvalidRequest, err)
}

type metaObject interface {
	GetNamespace() string
	GetName() string
}

func validateMetadata(obj metaObject) error {
	if obj.GetNamespace() == "" {
		return errEmptyNamespace
	}
	if obj.GetName() == "" {
		return errEmptyName
	}
	return nil
}

func (h *validateHandler) ListNamespaces(ctx context.Context) ([]string, error) {
	return h.next.ListNamespaces(ctx)
}

func (h *validateHandler) GetClusterInfo(ctx context.Context) (*models.ClusterInfo, error) {
	return h.next.GetClusterInfo(ctx)
}

func (h *validateHandler) GetUserPermissions(ctx context.Context) (*models.UserPermissions, error) {
	return h.next.GetUserPermissions(ctx)
}
