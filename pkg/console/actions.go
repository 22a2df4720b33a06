package console

import (
	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/pkg/rbac"
)

// DBAction is an entry of a database cluster's action menu.
type DBAction string

const (
	ActionEdit             DBAction = "edit"
	ActionRestart          DBAction = "restart"
	ActionCreateBackup     DBAction = "create-backup"
	ActionCreateFromBackup DBAction = "create-from-backup"
	ActionRestore          DBAction = "restore"
	ActionSuspend          DBAction = "suspend"
	ActionResume           DBAction = "resume"
	ActionDelete           DBAction = "delete"
)

// MenuItem is a visible action and whether it can be clicked.
type MenuItem struct {
	Action  DBAction
	Enabled bool
}

// DBActions returns the action menu of db for the user. Actions the user
// lacks permission for are left out. Everything but delete is disabled while
// the cluster restores or deletes, and delete is disabled while it deletes.
// A nil menu means the user may not act on the cluster at all.
func DBActions(db *models.DatabaseCluster, perms *Permissions) []MenuItem {
	ns, name := db.GetNamespace(), db.GetName()
	object := rbac.ObjectName(ns, name)

	canUpdate := perms.CanUpdate(rbac.ResourceDatabaseClusters, object)
	canDelete := perms.CanDelete(rbac.ResourceDatabaseClusters, object)
	canCreateClusters := perms.CanCreate(rbac.ResourceDatabaseClusters, rbac.NamespaceObject(ns))
	canBackup := perms.CanCreate(rbac.ResourceDatabaseClusterBackups, object)
	canRestore := perms.CanCreate(rbac.ResourceDatabaseClusterRestores, object) &&
		perms.CanRead(rbac.ResourceDatabaseClusterCredentials, object)

	if !canUpdate && !canDelete && !canRestore && !canBackup {
		return nil
	}

	busy := db.Status.Status == models.AppStateRestoring || db.Status.Status == models.AppStateDeleting
	deleting := db.Status.Status == models.AppStateDeleting

	var items []MenuItem
	add := func(ok bool, a DBAction, enabled bool) {
		if ok {
			items = append(items, MenuItem{Action: a, Enabled: enabled})
		}
	}
	add(canUpdate, ActionEdit, !busy)
	add(canUpdate, ActionRestart, !busy)
	add(canBackup, ActionCreateBackup, !busy)
	add(canRestore && canCreateClusters, ActionCreateFromBackup, !busy)
	add(canRestore, ActionRestore, !busy)
	if db.Spec.Paused {
		add(canUpdate, ActionResume, !busy)
	} else {
		add(canUpdate, ActionSuspend, !busy)
	}
	add(canDelete, ActionDelete, !deleting)
	return items
}
