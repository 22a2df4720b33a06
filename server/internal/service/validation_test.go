package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/pkg/kubernetes"
	"github.com/everest-platform/console/server/internal/storagecheck"
)

func newTestValidateHandler(kube *kubernetes.Kubernetes, checker storagecheck.Checker) Handler {
	return NewValidateHandler(newTestK8sHandler(kube, nil), kube, checker, zap.NewNop())
}

func TestValidateVersion(t *testing.T) {
	t.Parallel()

	available := testEngine(models.DatabaseEnginePXC, "8.0.32", "8.0.36")
	allowed := testEngine(models.DatabaseEnginePXC, "8.0.32", "8.0.36")
	allowed.Spec.AllowedVersions = []string{"8.0.32"}

	tests := []struct {
		name    string
		version string
		engine  *models.DatabaseEngine
		wantErr string
	}{
		{name: "empty version", engine: available},
		{name: "available", version: "8.0.36", engine: available},
		{name: "not available", version: "8.0.1", engine: available, wantErr: "8.0.1 is not in available versions list"},
		{name: "allowed", version: "8.0.32", engine: allowed},
		{name: "not allowed", version: "8.0.36", engine: allowed, wantErr: "using 8.0.36 version for pxc is not allowed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validateVersion(tt.version, tt.engine)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestValidateDBEngineVersionUpgrade(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		engine     models.EngineType
		newVersion string
		oldVersion string
		wantErr    error
	}{
		{name: "invalid", engine: models.DatabaseEnginePXC, newVersion: "1.2.3.4", oldVersion: "8.0.32", wantErr: errInvalidVersion},
		{name: "major upgrade", engine: models.DatabaseEnginePXC, newVersion: "9.0.0", oldVersion: "8.0.32", wantErr: errDBEngineMajorVersionUpgrade},
		{name: "downgrade", engine: models.DatabaseEnginePXC, newVersion: "8.0.31", oldVersion: "8.0.32", wantErr: errDBEngineDowngrade},
		{name: "minor upgrade", engine: models.DatabaseEnginePXC, newVersion: "8.0.36", oldVersion: "8.0.32"},
		{name: "v prefix", engine: models.DatabaseEnginePXC, newVersion: "v8.0.36", oldVersion: "8.0.32"},
		{name: "postgres major downgrade", engine: models.DatabaseEnginePostgresql, newVersion: "15.5", oldVersion: "16.1", wantErr: errDBEngineDowngrade},
		{name: "psmdb next major", engine: models.DatabaseEnginePSMDB, newVersion: "7.0.2", oldVersion: "6.0.5"},
		{name: "psmdb skips a major", engine: models.DatabaseEnginePSMDB, newVersion: "8.0.4", oldVersion: "6.0.5", wantErr: errDBEngineMajorUpgradeNotSeq},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validateDBEngineVersionUpgrade(tt.engine, tt.newVersion, tt.oldVersion)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateProxy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		engine   models.EngineType
		proxy    models.ProxyType
		replicas int32
		proxyN   *int32
		wantErr  error
	}{
		{name: "pxc haproxy", engine: models.DatabaseEnginePXC, proxy: models.ProxyTypeHAProxy, replicas: 3},
		{name: "pxc proxysql", engine: models.DatabaseEnginePXC, proxy: models.ProxyTypeProxySQL, replicas: 1},
		{name: "pxc mongos", engine: models.DatabaseEnginePXC, proxy: models.ProxyTypeMongos, wantErr: errUnsupportedPXCProxy},
		{name: "pg haproxy", engine: models.DatabaseEnginePostgresql, proxy: models.ProxyTypeHAProxy, wantErr: errUnsupportedPGProxy},
		{name: "psmdb pgbouncer", engine: models.DatabaseEnginePSMDB, proxy: models.ProxyTypePGBouncer, wantErr: errUnsupportedPSMDBProxy},
		{
			name: "pxc single proxy for three nodes", engine: models.DatabaseEnginePXC, proxy: models.ProxyTypeHAProxy,
			replicas: 3, proxyN: ptrTo(int32(1)), wantErr: errMinPXCProxyReplicas,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			db := testCluster("db", tt.engine, "")
			db.Spec.Engine.Replicas = tt.replicas
			db.Spec.Proxy = models.Proxy{Type: tt.proxy, Replicas: tt.proxyN}
			err := validateProxy(db)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateBackupSpec(t *testing.T) {
	t.Parallel()

	schedule := func(name, storage, cron string) models.BackupSchedule {
		return models.BackupSchedule{Enabled: true, Name: name, BackupStorageName: storage, Schedule: cron}
	}

	tests := []struct {
		name    string
		backup  models.Backup
		wantErr error
	}{
		{name: "empty"},
		{name: "valid", backup: models.Backup{Schedules: []models.BackupSchedule{
			schedule("daily", "s3", "0 0 * * *"),
			schedule("hourly", "s3", "0 * * * *"),
		}}},
		{name: "no name", backup: models.Backup{Schedules: []models.BackupSchedule{
			schedule("", "s3", "0 0 * * *"),
		}}, wantErr: errNoNameInSchedule},
		{name: "no storage", backup: models.Backup{Schedules: []models.BackupSchedule{
			schedule("daily", "", "0 0 * * *"),
		}}, wantErr: errScheduleNoBackupStorageName},
		{name: "duplicated", backup: models.Backup{Schedules: []models.BackupSchedule{
			schedule("a", "s3", "0 0 * * *"),
			schedule("b", "s3", "0 0 * * *"),
		}}, wantErr: errDuplicatedSchedules},
		{name: "pitr without storage", backup: models.Backup{
			PITR: models.PITRSpec{Enabled: true},
		}, wantErr: errPitrNoBackupStorageName},
		{name: "pitr bad interval", backup: models.Backup{
			PITR: models.PITRSpec{Enabled: true, BackupStorageName: ptrTo("s3"), UploadIntervalSec: ptrTo(0)},
		}, wantErr: errPitrUploadInterval},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			db := testCluster("db", models.DatabaseEnginePXC, "8.0.36")
			db.Spec.Backup = tt.backup
			err := validateBackupSpec(db)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateDataSource(t *testing.T) {
	t.Parallel()

	now := metav1.Now()
	tests := []struct {
		name    string
		ds      models.DataSource
		wantErr error
	}{
		{name: "backup name", ds: models.DataSource{DBClusterBackupName: "b1"}},
		{name: "neither", ds: models.DataSource{}, wantErr: errDataSourceConfig},
		{name: "both", ds: models.DataSource{
			DBClusterBackupName: "b1",
			BackupSource:        &models.BackupSource{Path: "/x", BackupStorageName: "s3"},
		}, wantErr: errDataSourceConfig},
		{name: "source without storage", ds: models.DataSource{
			BackupSource: &models.BackupSource{Path: "/x"},
		}, wantErr: errDataSourceNoBackupStorageName},
		{name: "source without path", ds: models.DataSource{
			BackupSource: &models.BackupSource{BackupStorageName: "s3"},
		}, wantErr: errDataSourceNoPath},
		{name: "pitr without date", ds: models.DataSource{
			DBClusterBackupName: "b1",
			PITR:                &models.PITR{Type: models.PITRTypeDate},
		}, wantErr: errDataSourceNoPitrDateSpecified},
		{name: "pitr unsupported type", ds: models.DataSource{
			DBClusterBackupName: "b1",
			PITR:                &models.PITR{Type: "latest", Date: &now},
		}, wantErr: errUnsupportedPitrType},
		{name: "pitr date", ds: models.DataSource{
			DBClusterBackupName: "b1",
			PITR:                &models.PITR{Type: models.PITRTypeDate, Date: &now},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validateRestoreDataSource(tt.ds)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), "invalid dataSource")
		})
	}
}

func TestValidateSharding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		engine   models.EngineType
		version  string
		replicas int32
		sharding *models.Sharding
		wantErr  error
	}{
		{name: "disabled", engine: models.DatabaseEnginePXC, version: "8.0.36"},
		{name: "not psmdb", engine: models.DatabaseEnginePXC, version: "8.0.36",
			sharding: &models.Sharding{Enabled: true}, wantErr: errShardingIsNotSupported},
		{name: "no engine version", engine: models.DatabaseEnginePSMDB, replicas: 3,
			sharding: &models.Sharding{Enabled: true, Shards: 2, ConfigServer: models.ConfigServer{Replicas: 3}}, wantErr: errShardingVersion},
		{name: "unparsable engine version", engine: models.DatabaseEnginePSMDB, version: "latest", replicas: 3,
			sharding: &models.Sharding{Enabled: true, Shards: 2, ConfigServer: models.ConfigServer{Replicas: 3}}, wantErr: errShardingVersion},
		{name: "old engine version", engine: models.DatabaseEnginePSMDB, version: "1.16.0", replicas: 3,
			sharding: &models.Sharding{Enabled: true, Shards: 2, ConfigServer: models.ConfigServer{Replicas: 3}}, wantErr: errShardingVersion},
		{name: "engine build suffix", engine: models.DatabaseEnginePSMDB, version: "7.0.12-7", replicas: 3,
			sharding: &models.Sharding{Enabled: true, Shards: 2, ConfigServer: models.ConfigServer{Replicas: 3}}},
		{name: "no shards", engine: models.DatabaseEnginePSMDB, version: "7.0.8", replicas: 3,
			sharding: &models.Sharding{Enabled: true, ConfigServer: models.ConfigServer{Replicas: 3}}, wantErr: errInsufficientShardsNumber},
		{name: "one config server for three nodes", engine: models.DatabaseEnginePSMDB, version: "7.0.8", replicas: 3,
			sharding: &models.Sharding{Enabled: true, Shards: 2, ConfigServer: models.ConfigServer{Replicas: 1}}, wantErr: errInsufficientCfgSrvNumber},
		{name: "no config servers for one node", engine: models.DatabaseEnginePSMDB, version: "7.0.8", replicas: 1,
			sharding: &models.Sharding{Enabled: true, Shards: 2}, wantErr: errInsufficientCfgSrvNumber1Node},
		{name: "even config servers", engine: models.DatabaseEnginePSMDB, version: "6.0.15-12", replicas: 3,
			sharding: &models.Sharding{Enabled: true, Shards: 2, ConfigServer: models.ConfigServer{Replicas: 4}}, wantErr: errEvenServersNumber},
		{name: "valid", engine: models.DatabaseEnginePSMDB, version: "7.0.8", replicas: 3,
			sharding: &models.Sharding{Enabled: true, Shards: 2, ConfigServer: models.ConfigServer{Replicas: 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			db := testCluster("db", tt.engine, tt.version)
			db.Spec.Engine.Replicas = tt.replicas
			db.Spec.Sharding = tt.sharding
			err := validateSharding(db)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateResourceLimits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cpu     string
		memory  string
		storage string
		wantErr error
	}{
		{name: "valid", cpu: "1", memory: "2G", storage: "10G"},
		{name: "at minimum", cpu: "600m", memory: "512M", storage: "1G"},
		{name: "nothing", cpu: "0", memory: "0", storage: "10G", wantErr: errNoResourceDefined},
		{name: "low cpu", cpu: "100m", memory: "2G", storage: "10G", wantErr: errNotEnoughCPU},
		{name: "low memory", cpu: "1", memory: "128M", storage: "10G", wantErr: errNotEnoughMemory},
		{name: "small disk", cpu: "1", memory: "2G", storage: "500M", wantErr: errNotEnoughDiskSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			db := testCluster("db", models.DatabaseEnginePXC, "8.0.36")
			db.Spec.Engine.Resources = models.Resources{
				CPU:    resource.MustParse(tt.cpu),
				Memory: resource.MustParse(tt.memory),
			}
			db.Spec.Engine.Storage.Size = resource.MustParse(tt.storage)
			err := validateResourceLimits(db)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateDatabaseClusterOnUpdate(t *testing.T) {
	t.Parallel()

	old := testCluster("db", models.DatabaseEnginePXC, "8.0.32")
	old.Spec.Engine.Replicas = 3

	restoring := old.DeepCopy()
	restoring.Status.Status = models.AppStateRestoring
	err := validateDatabaseClusterOnUpdate(old.DeepCopy(), restoring)
	assert.EqualError(t, err, "db operations are not allowed in current db state: restoring")

	scaledDown := old.DeepCopy()
	scaledDown.Spec.Engine.Replicas = 1
	err = validateDatabaseClusterOnUpdate(scaledDown, old)
	assert.EqualError(t, err, "cannot scale down 3 node cluster to 1. The operation is not supported")

	shrunk := old.DeepCopy()
	shrunk.Spec.Engine.Storage.Size = resource.MustParse("5G")
	assert.ErrorIs(t, validateDatabaseClusterOnUpdate(shrunk, old), errCannotShrinkStorageSize)

	downgraded := old.DeepCopy()
	downgraded.Spec.Engine.Version = "8.0.30"
	assert.ErrorIs(t, validateDatabaseClusterOnUpdate(downgraded, old), errDBEngineDowngrade)

	sharded := old.DeepCopy()
	sharded.Spec.Sharding = &models.Sharding{Enabled: true}
	assert.ErrorIs(t, validateDatabaseClusterOnUpdate(sharded, old), errShardingEnablingNotSupported)

	upgraded := old.DeepCopy()
	upgraded.Spec.Engine.Version = "8.0.36"
	upgraded.Spec.Engine.Storage.Size = resource.MustParse("20G")
	assert.NoError(t, validateDatabaseClusterOnUpdate(upgraded, old))
}

func TestCreateDatabaseCluster(t *testing.T) {
	t.Parallel()

	existing := testCluster("db1", models.DatabaseEnginePXC, "8.0.36")
	kube := newKube(testEngine(models.DatabaseEnginePXC, "8.0.36"), existing)
	h := newTestValidateHandler(kube, storagecheck.Noop{})
	ctx := context.Background()

	_, err := h.CreateDatabaseCluster(ctx, testCluster("db1", models.DatabaseEnginePXC, "8.0.36"))
	require.ErrorIs(t, err, models.ErrConflict)
	assert.Contains(t, err.Error(), "db cluster with name 'db1' already exists in namespace 'default'")

	_, err = h.CreateDatabaseCluster(ctx, testCluster("Bad_Name", models.DatabaseEnginePXC, "8.0.36"))
	assert.ErrorIs(t, err, models.ErrInvalidRequest)

	_, err = h.CreateDatabaseCluster(ctx, testCluster("db2", models.DatabaseEnginePXC, "5.7.44"))
	require.ErrorIs(t, err, models.ErrInvalidRequest)
	assert.Contains(t, err.Error(), "5.7.44 is not in available versions list")

	created, err := h.CreateDatabaseCluster(ctx, testCluster("db2", models.DatabaseEnginePXC, "8.0.36"))
	require.NoError(t, err)
	assert.Equal(t, "db2", created.GetName())
}

func TestCreateBackupValidation(t *testing.T) {
	t.Parallel()

	h := newTestValidateHandler(newKube(), storagecheck.Noop{})
	_, err := h.CreateBackup(context.Background(), &models.DatabaseClusterBackup{
		ObjectMeta: metav1.ObjectMeta{Namespace: testNamespace, Name: "b1"},
		Spec:       models.DatabaseClusterBackupSpec{DBClusterName: "db1"},
	})
	assert.ErrorIs(t, err, models.ErrInvalidRequest)
	assert.ErrorIs(t, err, errBackupNoStorageName)

	_, err = h.CreateRestore(context.Background(), &models.DatabaseClusterRestore{
		ObjectMeta: metav1.ObjectMeta{Namespace: testNamespace, Name: "r1"},
		Spec:       models.DatabaseClusterRestoreSpec{DBClusterName: "db1"},
	})
	assert.ErrorIs(t, err, models.ErrInvalidRequest)
	assert.ErrorIs(t, err, errDataSourceConfig)
}

func TestCreateBackupStorageChecksAccess(t *testing.T) {
	t.Parallel()

	req := &models.CreateBackupStorageRequest{
		Name:      "minio",
		Type:      models.BackupStorageTypeS3,
		Bucket:    "backups",
		URL:       "https://minio.example.com",
		AccessKey: "ak",
		SecretKey: "sk",
	}

	t.Run("denied", func(t *testing.T) {
		t.Parallel()
		kube := newKube()
		checker := &recordingChecker{err: errors.Join(storagecheck.ErrAccess, errors.New("403"))}
		h := newTestValidateHandler(kube, checker)

		_, err := h.CreateBackupStorage(context.Background(), testNamespace, req)
		require.ErrorIs(t, err, models.ErrInvalidRequest)
		require.ErrorIs(t, err, storagecheck.ErrAccess)
		require.Len(t, checker.calls, 1)
		assert.Equal(t, storagecheck.Params{
			Type:      models.BackupStorageTypeS3,
			Bucket:    "backups",
			URL:       "https://minio.example.com",
			AccessKey: "ak",
			SecretKey: "sk",
			VerifyTLS: true,
		}, checker.calls[0])

		_, err = kube.GetBackupStorage(context.Background(), testNamespace, "minio")
		assert.Error(t, err)
	})

	t.Run("invalid request skips the check", func(t *testing.T) {
		t.Parallel()
		checker := &recordingChecker{}
		h := newTestValidateHandler(newKube(), checker)

		bad := *req
		bad.Bucket = ""
		_, err := h.CreateBackupStorage(context.Background(), testNamespace, &bad)
		assert.ErrorIs(t, err, errNoBucket)

		bad = *req
		bad.Type = "gcs"
		_, err = h.CreateBackupStorage(context.Background(), testNamespace, &bad)
		assert.ErrorIs(t, err, models.ErrInvalidRequest)
		assert.Empty(t, checker.calls)
	})

	t.Run("created", func(t *testing.T) {
		t.Parallel()
		h := newTestValidateHandler(newKube(), &recordingChecker{})
		bs, err := h.CreateBackupStorage(context.Background(), testNamespace, req)
		require.NoError(t, err)
		assert.Equal(t, "minio", bs.Spec.CredentialsSecretName)
	})
}

func TestUpdateBackupStorageRechecksConnection(t *testing.T) {
	t.Parallel()

	bs := &models.BackupStorage{
		ObjectMeta: metav1.ObjectMeta{Namespace: testNamespace, Name: "s3"},
		Spec: models.BackupStorageSpec{
			Type:                  models.BackupStorageTypeS3,
			Bucket:                "backups",
			Region:                "eu-west-1",
			CredentialsSecretName: "s3",
			ForcePathStyle:        ptrTo(true),
		},
	}
	secret := testSecret("s3", map[string]string{s3AccessKeyID: "ak", s3SecretAccessKey: "sk"})
	checker := &recordingChecker{}
	h := newTestValidateHandler(newKube(bs, secret), checker)
	ctx := context.Background()

	_, err := h.UpdateBackupStorage(ctx, testNamespace, "s3", &models.UpdateBackupStorageRequest{
		Description: ptrTo("nightly"),
	})
	require.NoError(t, err)
	assert.Empty(t, checker.calls)

	_, err = h.UpdateBackupStorage(ctx, testNamespace, "s3", &models.UpdateBackupStorageRequest{
		SecretKey: ptrTo("rotated"),
	})
	require.NoError(t, err)
	require.Len(t, checker.calls, 1)
	assert.Equal(t, storagecheck.Params{
		Type:           models.BackupStorageTypeS3,
		Bucket:         "backups",
		Region:         "eu-west-1",
		AccessKey:      "ak",
		SecretKey:      "rotated",
		ForcePathStyle: true,
		VerifyTLS:      true,
	}, checker.calls[0])

	_, err = h.UpdateBackupStorage(ctx, testNamespace, "s3", &models.UpdateBackupStorageRequest{
		URL: ptrTo("not a url"),
	})
	assert.ErrorIs(t, err, models.ErrInvalidRequest)
}

func TestDeleteBackupStorageInUse(t *testing.T) {
	t.Parallel()

	db := testCluster("db1", models.DatabaseEnginePXC, "8.0.36")
	db.Spec.Backup.PITR = models.PITRSpec{Enabled: true, BackupStorageName: ptrTo("s3")}
	bs := &models.BackupStorage{
		ObjectMeta: metav1.ObjectMeta{Namespace: testNamespace, Name: "s3"},
		Spec:       models.BackupStorageSpec{Type: models.BackupStorageTypeS3, CredentialsSecretName: "s3"},
	}
	free := bs.DeepCopy()
	free.SetName("unused")
	h := newTestValidateHandler(newKube(db, bs, free), storagecheck.Noop{})

	err := h.DeleteBackupStorage(context.Background(), testNamespace, "s3")
	require.ErrorIs(t, err, errStorageInUse)
	assert.ErrorIs(t, err, models.ErrInvalidRequest)
	assert.Contains(t, err.Error(), "by database cluster db1")

	assert.NoError(t, h.DeleteBackupStorage(context.Background(), testNamespace, "unused"))
}

func TestMonitoringInstanceValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     models.CreateMonitoringInstanceRequest
		wantErr string
	}{
		{name: "valid key", req: models.CreateMonitoringInstanceRequest{
			Name: "pmm", Type: models.MonitoringTypePMM, URL: "https://pmm.local", PMM: &models.PMMCredentials{APIKey: "k"},
		}},
		{name: "valid user", req: models.CreateMonitoringInstanceRequest{
			Name: "pmm", Type: models.MonitoringTypePMM, URL: "https://pmm.local", PMM: &models.PMMCredentials{User: "u", Password: "p"},
		}},
		{name: "bad url", req: models.CreateMonitoringInstanceRequest{
			Name: "pmm", Type: models.MonitoringTypePMM, URL: "pmm", PMM: &models.PMMCredentials{APIKey: "k"},
		}, wantErr: "'url' is an invalid URL"},
		{name: "unknown type", req: models.CreateMonitoringInstanceRequest{
			Name: "pmm", Type: "datadog", URL: "https://pmm.local",
		}, wantErr: "monitoring type datadog is not supported"},
		{name: "no pmm", req: models.CreateMonitoringInstanceRequest{
			Name: "pmm", Type: models.MonitoringTypePMM, URL: "https://pmm.local",
		}, wantErr: "pmm key is required for type pmm"},
		{name: "user without password", req: models.CreateMonitoringInstanceRequest{
			Name: "pmm", Type: models.MonitoringTypePMM, URL: "https://pmm.local", PMM: &models.PMMCredentials{User: "u"},
		}, wantErr: errPMMCredentials.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validateCreateMonitoringInstance(&tt.req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDeleteMonitoringInstanceInUse(t *testing.T) {
	t.Parallel()

	mc := &models.MonitoringConfig{
		ObjectMeta: metav1.ObjectMeta{Namespace: testNamespace, Name: "pmm"},
		Spec:       models.MonitoringConfigSpec{Type: models.MonitoringTypePMM, CredentialsSecretName: "pmm"},
	}
	db := testCluster("db1", models.DatabaseEnginePXC, "8.0.36")
	db.Spec.Monitoring = &models.Monitoring{MonitoringConfigName: "pmm"}
	h := newTestValidateHandler(newKube(mc, db), storagecheck.Noop{})

	err := h.DeleteMonitoringInstance(context.Background(), testNamespace, "pmm")
	assert.ErrorIs(t, err, errMonitoringInUse)
	assert.ErrorIs(t, err, models.ErrInvalidRequest)
}
