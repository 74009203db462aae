package domain

import (
	"time"
)

// Module is a functional area used as the grain of permission assignment.
type Module string

const (
	ModuleAnimals        Module = "animals"
	ModuleCrops          Module = "crops"
	ModuleInventory      Module = "inventory"
	ModuleTasks          Module = "tasks"
	ModuleGoals          Module = "goals"
	ModuleCosts          Module = "costs"
	ModuleReports        Module = "reports"
	ModuleAdministration Module = "administration"
)

var validModules = map[Module]bool{
	ModuleAnimals:        true,
	ModuleCrops:          true,
	ModuleInventory:      true,
	ModuleTasks:          true,
	ModuleGoals:          true,
	ModuleCosts:          true,
	ModuleReports:        true,
	ModuleAdministration: true,
}

// IsValid checks if the module is known.
func (m Module) IsValid() bool {
	return validModules[m]
}

// AccessLevel is an ordered grant strength.
// NONE < READ_ONLY < EDIT < MANAGE < FULL.
type AccessLevel string

const (
	AccessNone     AccessLevel = "none"
	AccessReadOnly AccessLevel = "read_only"
	AccessEdit     AccessLevel = "edit"
	AccessManage   AccessLevel = "manage"
	AccessFull     AccessLevel = "full"
)

// accessRank gives the total ordering used for level comparison. The
// enumeration is closed: an unknown level ranks below NONE and therefore
// never satisfies anything.
var accessRank = map[AccessLevel]int{
	AccessNone:     0,
	AccessReadOnly: 1,
	AccessEdit:     2,
	AccessManage:   3,
	AccessFull:     4,
}

// IsValid checks if the level is part of the closed scale.
func (l AccessLevel) IsValid() bool {
	_, ok := accessRank[l]
	return ok
}

// Satisfies reports whether a stored level meets a required level. A
// requirement of NONE is met by any valid stored level; FULL satisfies
// every requirement; READ_ONLY never satisfies a mutate-class requirement.
func (l AccessLevel) Satisfies(required AccessLevel) bool {
	stored, ok := accessRank[l]
	if !ok {
		return false
	}
	want, ok := accessRank[required]
	if !ok {
		return false
	}
	return stored >= want
}

// CanMutate reports whether the level allows write operations.
func (l AccessLevel) CanMutate() bool {
	return l.Satisfies(AccessEdit)
}

// Permission is a fine-grained grant scoped to one (user, farm, module).
// At most one row exists per triple; setting a permission is an upsert.
type Permission struct {
	ID        string
	UserID    string
	FarmID    string
	Module    Module
	Level     AccessLevel
	GrantedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}
