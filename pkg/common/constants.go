// Package common holds names shared by the console server and everestctl.
package common

import "github.com/everest-platform/console/models"

const (
	// Everest is the value of the managed-by label.
	Everest = "everest"

	// SystemNamespace is the namespace the console and its secrets live in.
	SystemNamespace = "everest-system"
	// MonitoringNamespace holds the monitoring stack and shared monitoring configs.
	MonitoringNamespace = "everest-monitoring"
	// DefaultDBNamespaceName is the DB namespace created by a default install.
	DefaultDBNamespaceName = "everest"

	// PXCOperatorName is the name of the XtraDB Cluster operator and its engine.
	PXCOperatorName = "percona-xtradb-cluster-operator"
	// PSMDBOperatorName is the name of the MongoDB operator and its engine.
	PSMDBOperatorName = "percona-server-mongodb-operator"
	// PGOperatorName is the name of the PostgreSQL operator and its engine.
	PGOperatorName = "percona-postgresql-operator"

	// EverestAccountsSecretName is the Secret holding user accounts.
	EverestAccountsSecretName = "everest-accounts"
	// EverestJWTSecretName is the Secret holding the session signing key.
	EverestJWTSecretName = "everest-jwt"
	// EverestRBACConfigMapName is the ConfigMap holding the RBAC policy.
	EverestRBACConfigMapName = "everest-rbac"
	// EverestSettingsConfigMapName is the ConfigMap holding console settings.
	EverestSettingsConfigMapName = "everest-settings"

	// EverestRBACRolePrefix prefixes every role name.
	EverestRBACRolePrefix = "role:"
	// EverestAdminUser is the built-in admin account.
	EverestAdminUser = "admin"
	// EverestAdminRole is the role granted to the admin account.
	EverestAdminRole = EverestRBACRolePrefix + "admin"

	// KubernetesManagedByLabel marks namespaces managed by the console.
	KubernetesManagedByLabel = "app.kubernetes.io/managed-by"
	// DatabaseClusterNameLabel links backups and restores to their cluster.
	DatabaseClusterNameLabel = "clusterName"
	// BackupStorageNameLabel links backups to their storage.
	BackupStorageNameLabel = "percona.com/backup-storage-name"
	// UpgradeLockAnnotation is set on engines while an operator upgrade runs.
	UpgradeLockAnnotation = "everest.percona.com/upgrade-lock"
	// DBBStorageProtectionFinalizer keeps backup files in storage until the backup object is deleted.
	DBBStorageProtectionFinalizer = "everest.percona.com/dbb-storage-protection"
	// EverestSecretsPrefix prefixes the per-cluster credential secrets.
	EverestSecretsPrefix = "everest-secrets-"

	// UserCtxKey is the context key the authenticated user name is stored under.
	UserCtxKey = "user"
)

// OperatorTypeToName maps an engine type to the name of its operator.
//
//nolint:gochecknoglobals
var OperatorTypeToName = map[models.EngineType]string{
	models.DatabaseEnginePXC:        PXCOperatorName,
	models.DatabaseEnginePSMDB:      PSMDBOperatorName,
	models.DatabaseEnginePostgresql: PGOperatorName,
}

// InitialPasswordWarningMessage is printed after the admin account is created.
const InitialPasswordWarningMessage = "Run the following command to get the initial admin password:\n\n" +
	"\teverestctl accounts initial-admin-password\n\n" +
	"NOTE: The initial password is stored in plain text. Change it immediately using:\n\n" +
	"\teverestctl accounts set-password --username admin"
