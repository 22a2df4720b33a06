package console

import (
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/everest-platform/console/models"
)

func engineWithVersions(t models.EngineType, versions ...string) *models.DatabaseEngine {
	e := &models.DatabaseEngine{Spec: models.DatabaseEngineSpec{Type: t}}
	e.Status.AvailableVersions.Engine = models.ComponentsMap{}
	for _, v := range versions {
		e.Status.AvailableVersions.Engine[v] = &models.Component{Status: models.DBEngineComponentAvailable}
	}
	return e
}

func TestFilterUpgradeVersions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		engine  *models.DatabaseEngine
		current string
		want    []string
	}{
		{
			name:    "pxc stays on the same major",
			engine:  engineWithVersions(models.DatabaseEnginePXC, "8.0.32-24.2", "8.0.35-27.1", "8.4.2-2.1", "9.0.0", "5.7.44"),
			current: "8.0.32-24.2",
			want:    []string{"8.0.35-27.1", "8.4.2-2.1"},
		},
		{
			name:    "postgresql stays on the same major",
			engine:  engineWithVersions(models.DatabaseEnginePostgresql, "15.5", "16.1", "15.7"),
			current: "15.5",
			want:    []string{"15.7"},
		},
		{
			name:    "psmdb may move one major",
			engine:  engineWithVersions(models.DatabaseEnginePSMDB, "6.0.15-12", "7.0.8-5", "8.0.4-1", "6.0.9-7"),
			current: "6.0.9-7",
			want:    []string{"6.0.15-12", "7.0.8-5"},
		},
		{
			name:    "unparsable versions are kept",
			engine:  engineWithVersions(models.DatabaseEnginePSMDB, "latest", "7.0.8-5"),
			current: "7.0.2",
			want:    []string{"7.0.8-5", "latest"},
		},
		{
			name:    "unparsable current returns everything",
			engine:  engineWithVersions(models.DatabaseEnginePXC, "8.0.35", "5.7.44"),
			current: "unknown",
			want:    []string{"5.7.44", "8.0.35"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FilterUpgradeVersions(tt.engine, tt.current))
		})
	}
}

func TestSameScheduleAndStorage(t *testing.T) {
	t.Parallel()

	schedules := []models.BackupSchedule{
		{Name: "daily", Schedule: "0 0 * * *", BackupStorageName: "s3"},
		{Name: "weekly", Schedule: "0 0 * * 0", BackupStorageName: "azure"},
	}

	assert.NotNil(t, SameSchedule(schedules, ModeNew, "0 0 * * *", "new"))
	assert.Nil(t, SameSchedule(schedules, ModeEdit, "0 0 * * *", "daily"))
	assert.Equal(t, "daily", SameSchedule(schedules, ModeEdit, "0 0 * * *", "weekly").Name)
	assert.Nil(t, SameSchedule(schedules, ModeNew, "5 0 * * *", "new"))

	assert.Equal(t, "weekly", SameStorageLocation(schedules, ModeNew, "azure", "x").Name)
	assert.Nil(t, SameStorageLocation(schedules, ModeEdit, "azure", "weekly"))
	assert.Nil(t, SameStorageLocation(schedules, ModeNew, "gcs", "x"))
}

func TestScheduleModalDefaultValues(t *testing.T) {
	t.Parallel()

	form := ScheduleModalDefaultValues(ModeNew, nil)
	assert.Regexp(t, regexp.MustCompile(`^backup-[0-9a-f]{5}$`), form.Name)
	assert.Empty(t, form.StorageLocation)
	assert.Equal(t, "0", form.RetentionCopies)
	assert.Equal(t, DefaultTimeSelection(), form.TimeSelection)

	form = ScheduleModalDefaultValues(ModeEdit, &models.BackupSchedule{
		Name:              "nightly",
		Schedule:          "30 14 * * 3",
		BackupStorageName: "s3",
		RetentionCopies:   7,
	})
	assert.Equal(t, "nightly", form.Name)
	assert.Equal(t, "s3", form.StorageLocation)
	assert.Equal(t, "7", form.RetentionCopies)
	assert.Equal(t, FrequencyWeekly, form.Frequency)
	assert.Equal(t, 2, form.Hour)
	assert.Equal(t, PM, form.AmPm)
	assert.Equal(t, 30, form.Minute)

	form = ScheduleModalDefaultValues(ModeEdit, &models.BackupSchedule{Name: "custom", Schedule: "*/10 * * * *"})
	assert.Equal(t, "0", form.RetentionCopies)
	assert.Equal(t, DefaultTimeSelection(), form.TimeSelection)
}

func TestShortUID(t *testing.T) {
	t.Parallel()
	a, b := ShortUID(), ShortUID()
	assert.Len(t, a, 5)
	assert.NotEqual(t, a, b)
}

func testCluster() *models.DatabaseCluster {
	class := "standard"
	return &models.DatabaseCluster{
		ObjectMeta: metav1.ObjectMeta{Name: "db1", Namespace: "dev"},
		Spec: models.DatabaseClusterSpec{
			Engine: models.Engine{
				Type:     models.DatabaseEnginePSMDB,
				Version:  "6.0.9-7",
				Replicas: 3,
				Storage:  models.Storage{Size: resource.MustParse("10Gi"), Class: &class},
				Config:   "operationProfiling:\n  mode: slowOp",
			},
			Proxy: models.Proxy{
				Type:   models.ProxyTypeMongos,
				Expose: models.Expose{Type: models.ExposeTypeExternal, IPSourceRanges: []models.IPSourceRange{"10.0.0.0/8"}},
			},
			Backup: models.Backup{Schedules: []models.BackupSchedule{
				{Name: "nightly", Schedule: "0 2 * * *", BackupStorageName: "s3", Enabled: true},
			}},
		},
	}
}

func TestParamsPlaceholder(t *testing.T) {
	t.Parallel()
	assert.Contains(t, ParamsPlaceholder(models.DatabaseEnginePSMDB), "slowOpThresholdMs")
	assert.Contains(t, ParamsPlaceholder(models.DatabaseEnginePXC), "[mysqld]")
	assert.Contains(t, ParamsPlaceholder(models.DatabaseEnginePostgresql), "shared_buffers")
}

func TestAdvancedConfiguration(t *testing.T) {
	t.Parallel()

	db := testCluster()
	cfg := AdvancedConfigurationDefaults(db)
	assert.Equal(t, "standard", *cfg.StorageClass)
	assert.True(t, cfg.ExternalAccess)
	assert.True(t, cfg.EngineParametersEnabled)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.SourceRanges)

	cfg.EngineParametersEnabled = false
	cfg.SourceRanges = append(cfg.SourceRanges, "", "192.168.0.0/16")
	out := ApplyAdvancedConfiguration(db, cfg)
	assert.Empty(t, out.Spec.Engine.Config)
	assert.Equal(t, []models.IPSourceRange{"10.0.0.0/8", "192.168.0.0/16"}, out.Spec.Proxy.Expose.IPSourceRanges)
	assert.NotEmpty(t, db.Spec.Engine.Config, "input must not be modified")

	cfg.ExternalAccess = false
	out = ApplyAdvancedConfiguration(db, cfg)
	assert.Equal(t, models.ExposeTypeInternal, out.Spec.Proxy.Expose.Type)
	assert.Empty(t, out.Spec.Proxy.Expose.IPSourceRanges)

	internal := ApplyAdvancedConfiguration(db, cfg)
	assert.Equal(t, []string{""}, AdvancedConfigurationDefaults(internal).SourceRanges)
}

func TestMutators(t *testing.T) {
	t.Parallel()
	db := testCluster()

	assert.Equal(t, "6.0.15-12", ApplyEngineVersion(db, "6.0.15-12").Spec.Engine.Version)
	assert.Equal(t, "1.17.0", *ApplyCRVersion(db, "1.17.0").Spec.Engine.CRVersion)
	assert.Nil(t, db.Spec.Engine.CRVersion)

	assert.Equal(t, "pmm", ApplyMonitoring(db, "pmm").Spec.Monitoring.MonitoringConfigName)
	assert.Empty(t, ApplyMonitoring(db, "").Spec.Monitoring.MonitoringConfigName)

	out := ApplyResources(db, ResourcesUpdate{
		CPU:           resource.MustParse("1"),
		Memory:        resource.MustParse("2G"),
		Disk:          resource.MustParse("20Gi"),
		Replicas:      5,
		ProxyCPU:      resource.MustParse("500m"),
		ProxyMemory:   resource.MustParse("1G"),
		ProxyReplicas: 2,
		Sharding:      true,
	})
	assert.Equal(t, int32(5), out.Spec.Engine.Replicas)
	assert.Equal(t, "20Gi", out.Spec.Engine.Storage.Size.String())
	assert.Equal(t, "standard", *out.Spec.Engine.Storage.Class)
	assert.Equal(t, int32(2), *out.Spec.Proxy.Replicas)
	assert.Equal(t, models.ExposeTypeExternal, out.Spec.Proxy.Expose.Type)
	require.NotNil(t, out.Spec.Sharding)
	assert.Equal(t, int32(MinShards), out.Spec.Sharding.Shards)
	assert.Equal(t, int32(DefaultConfigServers), out.Spec.Sharding.ConfigServer.Replicas)

	pxc := testCluster()
	pxc.Spec.Engine.Type = models.DatabaseEnginePXC
	assert.Nil(t, ApplyResources(pxc, ResourcesUpdate{Sharding: true}).Spec.Sharding)

	pitr := ApplyPITR(db, true, "s3")
	assert.True(t, pitr.Spec.Backup.PITR.Enabled)
	assert.Equal(t, "s3", *pitr.Spec.Backup.PITR.BackupStorageName)
	off := ApplyPITR(pitr, false, "s3")
	assert.False(t, off.Spec.Backup.PITR.Enabled)
	assert.Empty(t, *off.Spec.Backup.PITR.BackupStorageName)

	assert.Equal(t, PitrForm{Enabled: true, StorageLocation: "s3"}, PitrEditDefaults(true, "s3"))
}

func TestApplySchedulesTimezone(t *testing.T) {
	t.Parallel()

	db := testCluster()
	out, err := ApplySchedulesTimezone(db, "UTC")
	require.NoError(t, err)
	assert.Equal(t, "0 2 * * *", out.Spec.Backup.Schedules[0].Schedule)

	_, err = ApplySchedulesTimezone(db, "Nowhere/Town")
	assert.Error(t, err)
}

func perms(enabled bool, rules ...models.Permission) *Permissions {
	return NewPermissions(&models.UserPermissions{Enabled: enabled, Permissions: rules})
}

func TestPermissions(t *testing.T) {
	t.Parallel()

	p := perms(true,
		models.Permission{Resource: "database-clusters", Action: "read", Object: "dev/*"},
		models.Permission{Resource: "*", Action: "*", Object: "sandbox/*"},
		models.Permission{Resource: "backup-storages", Action: "update", Object: "*"},
	)

	assert.True(t, p.CanRead("database-clusters", "dev/db1"))
	assert.False(t, p.CanUpdate("database-clusters", "dev/db1"))
	assert.False(t, p.CanRead("database-clusters", "prod/db1"))
	assert.True(t, p.CanDelete("monitoring-instances", "sandbox/pmm"))
	assert.True(t, p.CanUpdate("backup-storages", "prod/s3"))
	assert.False(t, p.CanCreate("backup-storages", "prod/s3"))

	assert.True(t, perms(false).CanDelete("database-clusters", "prod/db1"), "disabled rbac allows everything")
	assert.False(t, NewPermissions(nil).CanRead("database-clusters", "dev/db1"))
}

func TestDBActions(t *testing.T) {
	t.Parallel()

	all := perms(true, models.Permission{Resource: "*", Action: "*", Object: "dev/*"})
	readOnly := perms(true, models.Permission{Resource: "*", Action: "read", Object: "dev/*"})

	db := testCluster()
	assert.Equal(t, []MenuItem{
		{ActionEdit, true},
		{ActionRestart, true},
		{ActionCreateBackup, true},
		{ActionCreateFromBackup, true},
		{ActionRestore, true},
		{ActionSuspend, true},
		{ActionDelete, true},
	}, DBActions(db, all))

	assert.Nil(t, DBActions(db, readOnly))

	paused := testCluster()
	paused.Spec.Paused = true
	assert.Contains(t, DBActions(paused, all), MenuItem{ActionResume, true})

	restoring := testCluster()
	restoring.Status.Status = models.AppStateRestoring
	for _, item := range DBActions(restoring, all) {
		assert.Equal(t, item.Action == ActionDelete, item.Enabled, item.Action)
	}

	deleting := testCluster()
	deleting.Status.Status = models.AppStateDeleting
	for _, item := range DBActions(deleting, all) {
		assert.False(t, item.Enabled, item.Action)
	}

	deleter := perms(true, models.Permission{Resource: "database-clusters", Action: "delete", Object: "dev/db1"})
	assert.Equal(t, []MenuItem{{ActionDelete, true}}, DBActions(db, deleter))
}

func TestMutatorsDoNotModifyInput(t *testing.T) {
	t.Parallel()

	db := testCluster()
	before := db.DeepCopy()

	ApplyEngineVersion(db, "7.0.0")
	ApplyCRVersion(db, "1.18.0")
	ApplyMonitoring(db, "")
	ApplyResources(db, ResourcesUpdate{Replicas: 1, Sharding: true})
	ApplyPITR(db, false, "")
	ApplyAdvancedConfiguration(db, AdvancedConfiguration{})
	_, err := ApplySchedulesTimezone(db, "Asia/Tokyo")
	require.NoError(t, err)

	if diff := cmp.Diff(before, db); diff != "" {
		t.Errorf("input changed (-want +got):\n%s", diff)
	}
}
