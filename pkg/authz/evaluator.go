// Package authz decides whether an already-authenticated actor may perform
// an action inside a project. It is a pure decision function; callers must
// evaluate it before any mutation and abort on a deny.
package authz

import (
	"github.com/loopwork/taskboard/dao/model"
)

// Action is one of the guarded operations.
type Action string

const (
	ActionView         Action = "view"
	ActionCreateItem   Action = "create_item"
	ActionUpdateItem   Action = "update_item"
	ActionDeleteItem   Action = "delete_item"
	ActionChangeStatus Action = "change_status"
	ActionReorder      Action = "reorder"
	ActionAddMember    Action = "add_member"
	ActionRemoveMember Action = "remove_member"
	ActionAssignRole   Action = "assign_role"

	// Project-level management falls through to the owner/admin rules.
	ActionUpdateProject Action = "update_project"
	ActionDeleteProject Action = "delete_project"
)

// Actor is the verified identity attached to a command.
type Actor struct {
	ID   uint
	Role model.Role
}

// Request carries everything one decision needs. TargetRole is set for
// add_member/assign_role; ItemCreatorID is set for delete_item.
type Request struct {
	Actor         Actor
	Project       *model.Project
	Membership    *model.Membership // actor's membership in Project, nil if none
	Action        Action
	TargetRole    model.ProjectRole
	ItemCreatorID uint
}

// Decision is a tagged allow/deny result.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision             { return Decision{Allowed: true} }
func deny(reason string) Decision { return Decision{Allowed: false, Reason: reason} }

// Evaluate applies the decision rules in order. The first matching rule
// wins; anything unmatched is denied.
func Evaluate(req Request) Decision {
	// Rule 1: platform admins may do anything.
	if req.Actor.Role == model.RoleAdmin {
		return allow()
	}

	// Rule 2: the project owner may do anything within their project.
	if req.Project != nil && req.Project.OwnerID == req.Actor.ID {
		return allow()
	}

	switch req.Action {
	case ActionAddMember, ActionAssignRole:
		// Rule 3: elevated roles may only be granted by the owner or a
		// platform admin, both already handled above.
		if req.TargetRole == model.ProjectRoleAdmin || req.TargetRole == model.ProjectRoleOwner {
			return deny("only the project owner may grant elevated roles")
		}
		// Rule 4: project admins may manage plain members.
		if req.Membership != nil && req.Membership.Role == model.ProjectRoleAdmin {
			return allow()
		}
		return deny("managing members requires a project admin role")

	case ActionView, ActionCreateItem, ActionUpdateItem, ActionChangeStatus, ActionReorder:
		// Rule 5: any project member may work on the board.
		if req.Membership != nil {
			return allow()
		}
		return deny("not a member of this project")

	case ActionDeleteItem:
		// Rule 6: deletion is restricted to the item's creator (owner and
		// platform admin are already handled above).
		if req.ItemCreatorID != 0 && req.ItemCreatorID == req.Actor.ID {
			return allow()
		}
		return deny("only the creator, project owner or an admin may delete an item")
	}

	// Rule 7: default deny.
	return deny("action not permitted")
}
