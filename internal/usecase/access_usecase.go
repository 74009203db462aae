package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/agrodesk/farmstock/internal/domain"
)

// AccessUseCase resolves whether an actor may perform an operation on a
// module within a farm, and manages the grants behind those decisions.
type AccessUseCase struct {
	txManager      TransactionManager
	farmRepo       FarmRepository
	membershipRepo MembershipRepository
	permRepo       PermissionRepository
	userRepo       UserRepository
	auditRepo      AuditRepository
	idGen          IDGenerator
	logger         zerolog.Logger
}

// NewAccessUseCase creates a new AccessUseCase.
func NewAccessUseCase(
	txManager TransactionManager,
	farmRepo FarmRepository,
	membershipRepo MembershipRepository,
	permRepo PermissionRepository,
	userRepo UserRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	logger zerolog.Logger,
) *AccessUseCase {
	return &AccessUseCase{
		txManager:      txManager,
		farmRepo:       farmRepo,
		membershipRepo: membershipRepo,
		permRepo:       permRepo,
		userRepo:       userRepo,
		auditRepo:      auditRepo,
		idGen:          idGen,
		logger:         logger,
	}
}

// CheckAccess decides allow/deny for (actor, farm, module, required level).
// It never returns an error: any unresolved case denies.
//
// Resolution order, short-circuiting on the first match:
//  1. super admins are always allowed
//  2. the farm's designated admin is always allowed on that farm
//  3. otherwise the stored permission row for (actor, farm, module) must
//     satisfy the required level; no row means deny
func (uc *AccessUseCase) CheckAccess(ctx context.Context, actor *domain.User, farmID string, module domain.Module, required domain.AccessLevel) bool {
	if actor == nil {
		return false
	}

	if actor.Role == domain.RoleSuperAdmin {
		return true
	}

	// A NONE requirement only asks for an authenticated actor.
	if required == domain.AccessNone {
		return true
	}

	if actor.Role == domain.RoleFarmAdmin {
		farm, err := uc.farmRepo.GetByID(ctx, farmID)
		if err == nil && farm.IsAdmin(actor.ID) {
			return true
		}
	}

	perm, err := uc.permRepo.Get(ctx, actor.ID, farmID, module)
	if err != nil {
		if err != domain.ErrPermissionNotFound {
			uc.logger.Error().Err(err).
				Str("user_id", actor.ID).
				Str("farm_id", farmID).
				Str("module", string(module)).
				Msg("permission lookup failed, denying")
		}

		return false
	}

	return perm.Level.Satisfies(required)
}

// GrantPermissionInput represents input for setting a permission.
type GrantPermissionInput struct {
	Actor  *domain.User
	UserID string
	FarmID string
	Module domain.Module
	Level  domain.AccessLevel
}

// GrantPermission upserts the single permission row for (user, farm, module).
// Only super admins and the farm's designated admin may grant.
func (uc *AccessUseCase) GrantPermission(ctx context.Context, input GrantPermissionInput) (*domain.Permission, error) {
	if !input.Module.IsValid() {
		return nil, domain.ErrInvalidModule
	}

	if !input.Level.IsValid() {
		return nil, domain.ErrInvalidLevel
	}

	if err := uc.authorizeGrant(ctx, input.Actor, input.FarmID); err != nil {
		return nil, err
	}

	if _, err := uc.userRepo.GetByID(ctx, input.UserID); err != nil {
		return nil, err
	}

	before, err := uc.permRepo.Get(ctx, input.UserID, input.FarmID, input.Module)
	if err != nil && err != domain.ErrPermissionNotFound {
		return nil, err
	}

	now := time.Now().UTC()
	perm := &domain.Permission{
		ID:        uc.idGen.Generate(),
		UserID:    input.UserID,
		FarmID:    input.FarmID,
		Module:    input.Module,
		Level:     input.Level,
		GrantedBy: input.Actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.permRepo.Upsert(ctx, perm); err != nil {
		return nil, err
	}

	uc.audit(ctx, input.Actor.ID, domain.AuditActionPermissionGrant, "permission", perm.ID, input.FarmID,
		permissionState(before), permissionState(perm))

	return perm, nil
}

// RevokePermissionInput represents input for revoking a permission.
type RevokePermissionInput struct {
	Actor  *domain.User
	UserID string
	FarmID string
	Module domain.Module
}

// RevokePermission removes the permission row for (user, farm, module).
func (uc *AccessUseCase) RevokePermission(ctx context.Context, input RevokePermissionInput) error {
	if err := uc.authorizeGrant(ctx, input.Actor, input.FarmID); err != nil {
		return err
	}

	before, err := uc.permRepo.Get(ctx, input.UserID, input.FarmID, input.Module)
	if err != nil {
		return err
	}

	if err := uc.permRepo.Delete(ctx, input.UserID, input.FarmID, input.Module); err != nil {
		return err
	}

	uc.audit(ctx, input.Actor.ID, domain.AuditActionPermissionRevoke, "permission", before.ID, input.FarmID,
		permissionState(before), nil)

	return nil
}

// AssignMembershipInput represents input for assigning a user to a farm.
type AssignMembershipInput struct {
	Actor  *domain.User
	UserID string
	FarmID string
	Role   domain.MembershipRole
}

// AssignMembership adds a user to a farm with a coarse membership role.
func (uc *AccessUseCase) AssignMembership(ctx context.Context, input AssignMembershipInput) (*domain.Membership, error) {
	if !input.Role.IsValid() {
		return nil, domain.ErrInvalidRole
	}

	if err := uc.authorizeGrant(ctx, input.Actor, input.FarmID); err != nil {
		return nil, err
	}

	if _, err := uc.userRepo.GetByID(ctx, input.UserID); err != nil {
		return nil, err
	}

	membership := &domain.Membership{
		ID:        uc.idGen.Generate(),
		UserID:    input.UserID,
		FarmID:    input.FarmID,
		Role:      input.Role,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.membershipRepo.Create(ctx, membership); err != nil {
		return nil, err
	}

	uc.audit(ctx, input.Actor.ID, domain.AuditActionMembershipAssign, "membership", membership.ID, input.FarmID,
		nil, domain.JSON{"user_id": input.UserID, "role": string(input.Role)})

	return membership, nil
}

// RemoveMembershipInput represents input for removing a user from a farm.
type RemoveMembershipInput struct {
	Actor  *domain.User
	UserID string
	FarmID string
}

// RemoveMembership removes a user from a farm. The membership row and every
// permission row for that (user, farm) pair are deleted in one database
// transaction so that no orphaned grants survive a removal.
func (uc *AccessUseCase) RemoveMembership(ctx context.Context, input RemoveMembershipInput) error {
	if err := uc.authorizeGrant(ctx, input.Actor, input.FarmID); err != nil {
		return err
	}

	membership, err := uc.membershipRepo.Get(ctx, input.UserID, input.FarmID)
	if err != nil {
		return err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.permRepo.DeleteByUserFarmTx(ctx, tx, input.UserID, input.FarmID); err != nil {
		return err
	}

	if err := uc.membershipRepo.DeleteTx(ctx, tx, input.UserID, input.FarmID); err != nil {
		return err
	}

	log := uc.auditLog(input.Actor.ID, domain.AuditActionMembershipRemove, "membership", membership.ID, input.FarmID,
		domain.JSON{"user_id": input.UserID, "role": string(membership.Role)}, nil)
	if err := uc.auditRepo.CreateTx(ctx, tx, log); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ListPermissions lists the permissions of a user within a farm.
func (uc *AccessUseCase) ListPermissions(ctx context.Context, userID, farmID string) ([]*domain.Permission, error) {
	return uc.permRepo.ListByUserFarm(ctx, userID, farmID)
}

// ListMembers lists the memberships of a farm.
func (uc *AccessUseCase) ListMembers(ctx context.Context, farmID string) ([]*domain.Membership, error) {
	return uc.membershipRepo.ListByFarm(ctx, farmID)
}

// authorizeGrant checks that the actor may manage grants on the farm:
// super admin, or farm admin of this specific farm.
func (uc *AccessUseCase) authorizeGrant(ctx context.Context, actor *domain.User, farmID string) error {
	if actor == nil {
		return domain.ErrUnauthorized
	}

	if actor.Role == domain.RoleSuperAdmin {
		return nil
	}

	if actor.Role == domain.RoleFarmAdmin {
		farm, err := uc.farmRepo.GetByID(ctx, farmID)
		if err != nil {
			return err
		}
		if farm.IsAdmin(actor.ID) {
			return nil
		}
	}

	return domain.ErrForbidden
}

func (uc *AccessUseCase) audit(ctx context.Context, actorID string, action domain.AuditAction, resourceType, resourceID, farmID string, before, after domain.JSON) {
	log := uc.auditLog(actorID, action, resourceType, resourceID, farmID, before, after)
	if err := uc.auditRepo.Create(ctx, log); err != nil {
		uc.logger.Error().Err(err).Str("action", string(action)).Msg("failed to write audit log")
	}
}

func (uc *AccessUseCase) auditLog(actorID string, action domain.AuditAction, resourceType, resourceID, farmID string, before, after domain.JSON) *domain.AuditLog {
	return &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		UserID:       actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		FarmID:       farmID,
		BeforeState:  before,
		AfterState:   after,
		Status:       domain.AuditStatusSuccess,
		CreatedAt:    time.Now().UTC(),
	}
}

func permissionState(p *domain.Permission) domain.JSON {
	if p == nil {
		return nil
	}
	return domain.JSON{
		"user_id": p.UserID,
		"module":  string(p.Module),
		"level":   string(p.Level),
	}
}
