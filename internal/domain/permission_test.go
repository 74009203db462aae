package domain

import (
	"testing"
)

func TestAccessLevel_Satisfies(t *testing.T) {
	tests := []struct {
		name     string
		stored   AccessLevel
		required AccessLevel
		want     bool
	}{
		{
			name:     "full satisfies manage",
			stored:   AccessFull,
			required: AccessManage,
			want:     true,
		},
		{
			name:     "full satisfies read_only",
			stored:   AccessFull,
			required: AccessReadOnly,
			want:     true,
		},
		{
			name:     "manage satisfies edit",
			stored:   AccessManage,
			required: AccessEdit,
			want:     true,
		},
		{
			name:     "edit satisfies read_only",
			stored:   AccessEdit,
			required: AccessReadOnly,
			want:     true,
		},
		{
			name:     "read_only does not satisfy edit",
			stored:   AccessReadOnly,
			required: AccessEdit,
			want:     false,
		},
		{
			name:     "edit does not satisfy manage",
			stored:   AccessEdit,
			required: AccessManage,
			want:     false,
		},
		{
			name:     "manage does not satisfy full",
			stored:   AccessManage,
			required: AccessFull,
			want:     false,
		},
		{
			name:     "level satisfies itself",
			stored:   AccessEdit,
			required: AccessEdit,
			want:     true,
		},
		{
			name:     "none requirement met by read_only",
			stored:   AccessReadOnly,
			required: AccessNone,
			want:     true,
		},
		{
			name:     "none stored does not satisfy read_only",
			stored:   AccessNone,
			required: AccessReadOnly,
			want:     false,
		},
		{
			name:     "unknown stored level never satisfies",
			stored:   AccessLevel("owner"),
			required: AccessNone,
			want:     false,
		},
		{
			name:     "unknown required level never satisfied",
			stored:   AccessFull,
			required: AccessLevel("write"),
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stored.Satisfies(tt.required); got != tt.want {
				t.Errorf("Satisfies(%q, %q) = %v, want %v", tt.stored, tt.required, got, tt.want)
			}
		})
	}
}

func TestAccessLevel_CanMutate(t *testing.T) {
	mutating := []AccessLevel{AccessEdit, AccessManage, AccessFull}
	for _, l := range mutating {
		if !l.CanMutate() {
			t.Errorf("expected %q to allow mutation", l)
		}
	}

	readOnly := []AccessLevel{AccessNone, AccessReadOnly, AccessLevel("bogus")}
	for _, l := range readOnly {
		if l.CanMutate() {
			t.Errorf("expected %q to deny mutation", l)
		}
	}
}

func TestModule_IsValid(t *testing.T) {
	for _, m := range []Module{ModuleAnimals, ModuleCrops, ModuleInventory, ModuleTasks, ModuleGoals, ModuleCosts, ModuleReports, ModuleAdministration} {
		if !m.IsValid() {
			t.Errorf("expected module %q to be valid", m)
		}
	}

	if Module("finance").IsValid() {
		t.Error("expected unknown module to be invalid")
	}
}

func TestRole_CanManageUsers(t *testing.T) {
	if !RoleSuperAdmin.CanManageUsers() {
		t.Error("expected super_admin to manage users")
	}
	if !RoleFarmAdmin.CanManageUsers() {
		t.Error("expected farm_admin to manage users")
	}
	for _, r := range []Role{RoleManager, RoleEmployee, RoleVeterinarian, RoleAgronomist, RoleConsultant} {
		if r.CanManageUsers() {
			t.Errorf("expected %q not to manage users", r)
		}
	}
}
