package perm

import (
	"testing"

	"plazo/internal/model"
)

func TestCanCreateTasksByRole(t *testing.T) {
	cases := []struct {
		role model.Role
		want bool
	}{
		{model.RoleUsuario, false},
		{model.RoleUsuarioPlus, true},
		{model.RoleSupervisor, true},
		{model.RoleGerente, true},
	}
	for _, tc := range cases {
		u := model.User{ID: "user-x", Role: tc.role}
		if got := CanCreateTasks(u); got != tc.want {
			t.Errorf("CanCreateTasks(%s) = %v, want %v", tc.role, got, tc.want)
		}
	}
}

func TestCanEditTaskOwnership(t *testing.T) {
	creator := model.User{ID: "user-a", Role: model.RoleUsuario}
	other := model.User{ID: "user-b", Role: model.RoleUsuario}
	boss := model.User{ID: "user-c", Role: model.RoleSupervisor}

	task := model.Task{ID: "task-1", CreatorID: creator.ID}

	if !CanEditTask(creator, task) {
		t.Fatal("creator should edit their own task")
	}
	if CanEditTask(other, task) {
		t.Fatal("unrelated user should not edit")
	}
	if !CanEditTask(boss, task) {
		t.Fatal("supervisor should edit anything")
	}
}

func TestAssignmentLocksEdits(t *testing.T) {
	creator := model.User{ID: "user-a", Role: model.RoleUsuario}
	assignee := model.User{ID: "user-b", Role: model.RoleUsuario}

	task := model.Task{ID: "task-1", CreatorID: creator.ID}
	task.AssigneeID = &assignee.ID

	if CanEditTask(creator, task) {
		t.Fatal("assignment to someone else should lock out the creator")
	}
	if !CanEditTask(assignee, task) {
		t.Fatal("assignee should edit their assigned task")
	}

	boss := model.User{ID: "user-c", Role: model.RoleGerente}
	if !CanEditTask(boss, task) {
		t.Fatal("gerente bypasses the assignment lock")
	}
}

func TestCanEditTaskRejectsAnonymous(t *testing.T) {
	if CanEditTask(model.User{}, model.Task{ID: "task-1"}) {
		t.Fatal("empty user id should never edit")
	}
}
