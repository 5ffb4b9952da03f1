package rbac

// Action is a namespaced permission identifier, e.g. "workspace:invite".
type Action string

// Actions gated by the permission table.
const (
	ActionWorkspaceUpdate      Action = "workspace:update"
	ActionWorkspaceDelete      Action = "workspace:delete"
	ActionWorkspaceInvite      Action = "workspace:invite"
	ActionWorkspaceRemove      Action = "workspace:remove_member"
	ActionWorkspaceUpdateRole  Action = "workspace:update_role"
	ActionWorkspaceIntegration Action = "workspace:manage_integrations"

	ActionTaskCreate Action = "task:create"
	ActionTaskUpdate Action = "task:update"
	ActionTaskDelete Action = "task:delete"

	ActionDocCreate Action = "doc:create"
	ActionDocUpdate Action = "doc:update"
	ActionDocDelete Action = "doc:delete"

	ActionChannelCreate Action = "channel:create"
	ActionChannelDelete Action = "channel:delete"
	ActionMessageSend   Action = "message:send"

	ActionFileUpload Action = "file:upload"
	ActionFileDelete Action = "file:delete"

	ActionEventCreate Action = "event:create"
	ActionEventUpdate Action = "event:update"
	ActionEventDelete Action = "event:delete"

	ActionAuditView Action = "audit:view"
)

type roleSet map[Role]struct{}

func grant(roles ...Role) roleSet {
	set := make(roleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// table is the single source of truth per action. Grants are explicit rather
// than derived from the hierarchy: several actions are deliberately open to
// roles below admin, while destructive ones are restricted further up.
var table = map[Action]roleSet{
	ActionWorkspaceUpdate:      grant(RoleOwner, RoleAdmin),
	ActionWorkspaceDelete:      grant(RoleOwner),
	ActionWorkspaceInvite:      grant(RoleOwner, RoleAdmin, RoleManager),
	ActionWorkspaceRemove:      grant(RoleOwner, RoleAdmin),
	ActionWorkspaceUpdateRole:  grant(RoleOwner, RoleAdmin),
	ActionWorkspaceIntegration: grant(RoleOwner, RoleAdmin),

	ActionTaskCreate: grant(RoleOwner, RoleAdmin, RoleManager, RoleMember),
	ActionTaskUpdate: grant(RoleOwner, RoleAdmin, RoleManager, RoleMember),
	ActionTaskDelete: grant(RoleOwner, RoleAdmin, RoleManager),

	ActionDocCreate: grant(RoleOwner, RoleAdmin, RoleManager, RoleMember),
	ActionDocUpdate: grant(RoleOwner, RoleAdmin, RoleManager, RoleMember),
	ActionDocDelete: grant(RoleOwner, RoleAdmin, RoleManager),

	ActionChannelCreate: grant(RoleOwner, RoleAdmin, RoleManager),
	ActionChannelDelete: grant(RoleOwner, RoleAdmin),
	ActionMessageSend:   grant(RoleOwner, RoleAdmin, RoleManager, RoleMember),

	ActionFileUpload: grant(RoleOwner, RoleAdmin, RoleManager, RoleMember),
	ActionFileDelete: grant(RoleOwner, RoleAdmin, RoleManager),

	ActionEventCreate: grant(RoleOwner, RoleAdmin, RoleManager, RoleMember),
	ActionEventUpdate: grant(RoleOwner, RoleAdmin, RoleManager, RoleMember),
	ActionEventDelete: grant(RoleOwner, RoleAdmin, RoleManager),

	ActionAuditView: grant(RoleOwner, RoleAdmin),
}

// HasPermission reports whether the role may perform the action. Unknown
// actions are denied to everyone, and membership is exact: the hierarchy is
// never consulted here.
func HasPermission(role Role, action Action) bool {
	set, ok := table[action]
	if !ok {
		return false
	}
	_, ok = set[role]
	return ok
}

// AllowedRoles returns the roles granted the action, ordered from lowest to
// highest privilege. Unknown actions yield an empty slice.
func AllowedRoles(action Action) []Role {
	set, ok := table[action]
	if !ok {
		return nil
	}
	var out []Role
	for _, r := range hierarchy {
		if _, granted := set[r]; granted {
			out = append(out, r)
		}
	}
	return out
}

// Actions returns every action present in the permission table.
func Actions() []Action {
	out := make([]Action, 0, len(table))
	for action := range table {
		out = append(out, action)
	}
	return out
}
