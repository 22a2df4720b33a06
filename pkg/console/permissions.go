package console

import (
	"github.com/casbin/casbin/v2/util"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/pkg/rbac"
)

// Permissions answers what the logged in user may do, from the policy lines
// returned by /v1/permissions. Globs follow the server's policy model.
type Permissions struct {
	enabled bool
	rules   []models.Permission
}

// NewPermissions wraps a /v1/permissions response. A nil response allows
// nothing.
func NewPermissions(up *models.UserPermissions) *Permissions {
	if up == nil {
		return &Permissions{enabled: true}
	}
	return &Permissions{enabled: up.Enabled, rules: up.Permissions}
}

// Can reports whether action on resource for object ("<namespace>/<name>")
// is allowed.
func (p *Permissions) Can(resource, action, object string) bool {
	if !p.enabled {
		return true
	}
	for _, r := range p.rules {
		if !matches(resource, r.Resource) {
			continue
		}
		if r.Action != action && r.Action != rbac.ActionAll {
			continue
		}
		if matches(object, r.Object) {
			return true
		}
	}
	return false
}

func matches(value, pattern string) bool {
	return pattern == "*" || util.KeyMatch(value, pattern)
}

func (p *Permissions) CanRead(resource, object string) bool {
	return p.Can(resource, rbac.ActionRead, object)
}

func (p *Permissions) CanCreate(resource, object string) bool {
	return p.Can(resource, rbac.ActionCreate, object)
}

func (p *Permissions) CanUpdate(resource, object string) bool {
	return p.Can(resource, rbac.ActionUpdate, object)
}

func (p *Permissions) CanDelete(resource, object string) bool {
	return p.Can(resource, rbac.ActionDelete, object)
}
