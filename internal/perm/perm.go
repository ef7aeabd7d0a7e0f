package perm

import (
	"strings"

	"plazo/internal/model"
)

// CanCreateTasks reports whether a user may create tasks. Plain
// "usuario" accounts only work tasks handed to them.
func CanCreateTasks(u model.User) bool {
	return u.Role.CanCreateTasks()
}

// CanSeeReports reports whether a user may read aggregate views
// (reports, other people's feeds).
func CanSeeReports(u model.User) bool {
	return u.Role.CanSeeReports()
}

// CanManageRecurring reports whether a user may create, pause or
// resume recurring definitions. Same bar as task creation.
func CanManageRecurring(u model.User) bool {
	return u.Role.CanCreateTasks()
}

// CanEditTask enforces ownership rules for mutating a task.
//
// Rules:
//   - Assignment acts as an edit lock: a task assigned to someone else
//     cannot be touched by a plain user.
//   - Otherwise the creator and the assignee can edit.
//   - Supervisors and gerentes can edit anything.
func CanEditTask(u model.User, t model.Task) bool {
	if strings.TrimSpace(u.ID) == "" {
		return false
	}
	if u.Role == model.RoleSupervisor || u.Role == model.RoleGerente {
		return true
	}
	if t.AssigneeID != nil && strings.TrimSpace(*t.AssigneeID) != "" {
		if *t.AssigneeID != u.ID {
			return false
		}
		return true
	}
	return t.CreatorID == u.ID
}
