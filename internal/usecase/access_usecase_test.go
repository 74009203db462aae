package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/agrodesk/farmstock/internal/domain"
	"github.com/agrodesk/farmstock/internal/usecase"
	"github.com/agrodesk/farmstock/internal/usecase/mocks"
)

type accessMocks struct {
	txManager      *mocks.MockTransactionManager
	tx             *mocks.MockTransaction
	farmRepo       *mocks.MockFarmRepository
	membershipRepo *mocks.MockMembershipRepository
	permRepo       *mocks.MockPermissionRepository
	userRepo       *mocks.MockUserRepository
	auditRepo      *mocks.MockAuditRepository
	idGen          *mocks.MockIDGenerator
}

func newAccessMocks(ctrl *gomock.Controller) *accessMocks {
	return &accessMocks{
		txManager:      mocks.NewMockTransactionManager(ctrl),
		tx:             mocks.NewMockTransaction(ctrl),
		farmRepo:       mocks.NewMockFarmRepository(ctrl),
		membershipRepo: mocks.NewMockMembershipRepository(ctrl),
		permRepo:       mocks.NewMockPermissionRepository(ctrl),
		userRepo:       mocks.NewMockUserRepository(ctrl),
		auditRepo:      mocks.NewMockAuditRepository(ctrl),
		idGen:          mocks.NewMockIDGenerator(ctrl),
	}
}

func (m *accessMocks) useCase() *usecase.AccessUseCase {
	return usecase.NewAccessUseCase(
		m.txManager, m.farmRepo, m.membershipRepo, m.permRepo,
		m.userRepo, m.auditRepo, m.idGen, zerolog.Nop(),
	)
}

func TestAccessUseCase_CheckAccess(t *testing.T) {
	superAdmin := &domain.User{ID: "user-sa", Role: domain.RoleSuperAdmin}
	farmAdmin := &domain.User{ID: "user-fa", Role: domain.RoleFarmAdmin}
	employee := &domain.User{ID: "user-emp", Role: domain.RoleEmployee}

	tests := []struct {
		name       string
		actor      *domain.User
		module     domain.Module
		required   domain.AccessLevel
		setupMocks func(m *accessMocks)
		want       bool
	}{
		{
			name:       "nil actor denied",
			actor:      nil,
			module:     domain.ModuleInventory,
			required:   domain.AccessReadOnly,
			setupMocks: func(m *accessMocks) {},
			want:       false,
		},
		{
			name:       "super admin bypasses everything",
			actor:      superAdmin,
			module:     domain.ModuleAdministration,
			required:   domain.AccessFull,
			setupMocks: func(m *accessMocks) {},
			want:       true,
		},
		{
			name:       "none requirement only needs authentication",
			actor:      employee,
			module:     domain.ModuleInventory,
			required:   domain.AccessNone,
			setupMocks: func(m *accessMocks) {},
			want:       true,
		},
		{
			name:     "farm admin allowed on own farm",
			actor:    farmAdmin,
			module:   domain.ModuleInventory,
			required: domain.AccessManage,
			setupMocks: func(m *accessMocks) {
				m.farmRepo.EXPECT().GetByID(gomock.Any(), "farm-1").
					Return(&domain.Farm{ID: "farm-1", AdminID: "user-fa"}, nil)
			},
			want: true,
		},
		{
			name:     "farm admin of another farm falls through to permissions",
			actor:    farmAdmin,
			module:   domain.ModuleInventory,
			required: domain.AccessEdit,
			setupMocks: func(m *accessMocks) {
				m.farmRepo.EXPECT().GetByID(gomock.Any(), "farm-1").
					Return(&domain.Farm{ID: "farm-1", AdminID: "someone-else"}, nil)
				m.permRepo.EXPECT().Get(gomock.Any(), "user-fa", "farm-1", domain.ModuleInventory).
					Return(nil, domain.ErrPermissionNotFound)
			},
			want: false,
		},
		{
			name:     "stored level satisfies requirement",
			actor:    employee,
			module:   domain.ModuleInventory,
			required: domain.AccessReadOnly,
			setupMocks: func(m *accessMocks) {
				m.permRepo.EXPECT().Get(gomock.Any(), "user-emp", "farm-1", domain.ModuleInventory).
					Return(&domain.Permission{Level: domain.AccessEdit}, nil)
			},
			want: true,
		},
		{
			name:     "read_only grant cannot edit",
			actor:    employee,
			module:   domain.ModuleInventory,
			required: domain.AccessEdit,
			setupMocks: func(m *accessMocks) {
				m.permRepo.EXPECT().Get(gomock.Any(), "user-emp", "farm-1", domain.ModuleInventory).
					Return(&domain.Permission{Level: domain.AccessReadOnly}, nil)
			},
			want: false,
		},
		{
			name:     "no permission row denies",
			actor:    employee,
			module:   domain.ModuleAnimals,
			required: domain.AccessReadOnly,
			setupMocks: func(m *accessMocks) {
				m.permRepo.EXPECT().Get(gomock.Any(), "user-emp", "farm-1", domain.ModuleAnimals).
					Return(nil, domain.ErrPermissionNotFound)
			},
			want: false,
		},
		{
			name:     "lookup failure denies",
			actor:    employee,
			module:   domain.ModuleInventory,
			required: domain.AccessReadOnly,
			setupMocks: func(m *accessMocks) {
				m.permRepo.EXPECT().Get(gomock.Any(), "user-emp", "farm-1", domain.ModuleInventory).
					Return(nil, errors.New("connection refused"))
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := newAccessMocks(ctrl)
			tt.setupMocks(m)

			got := m.useCase().CheckAccess(context.Background(), tt.actor, "farm-1", tt.module, tt.required)
			if got != tt.want {
				t.Errorf("CheckAccess() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccessUseCase_GrantPermission(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newAccessMocks(ctrl)

	actor := &domain.User{ID: "user-sa", Role: domain.RoleSuperAdmin}

	m.userRepo.EXPECT().GetByID(gomock.Any(), "user-emp").Return(&domain.User{ID: "user-emp"}, nil)
	m.permRepo.EXPECT().Get(gomock.Any(), "user-emp", "farm-1", domain.ModuleInventory).
		Return(nil, domain.ErrPermissionNotFound)
	m.idGen.EXPECT().Generate().Return("perm-1").Times(2)
	m.permRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, perm *domain.Permission) error {
			if perm.Level != domain.AccessEdit {
				t.Errorf("expected level edit, got %s", perm.Level)
			}
			if perm.GrantedBy != "user-sa" {
				t.Errorf("expected granted_by user-sa, got %s", perm.GrantedBy)
			}
			return nil
		})
	m.auditRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	perm, err := m.useCase().GrantPermission(context.Background(), usecase.GrantPermissionInput{
		Actor:  actor,
		UserID: "user-emp",
		FarmID: "farm-1",
		Module: domain.ModuleInventory,
		Level:  domain.AccessEdit,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if perm.Module != domain.ModuleInventory {
		t.Errorf("expected module inventory, got %s", perm.Module)
	}
}

func TestAccessUseCase_GrantPermission_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		input      usecase.GrantPermissionInput
		setupMocks func(m *accessMocks)
		errorType  error
	}{
		{
			name: "invalid module",
			input: usecase.GrantPermissionInput{
				Actor:  &domain.User{ID: "user-sa", Role: domain.RoleSuperAdmin},
				UserID: "user-emp",
				FarmID: "farm-1",
				Module: domain.Module("finance"),
				Level:  domain.AccessEdit,
			},
			setupMocks: func(m *accessMocks) {},
			errorType:  domain.ErrInvalidModule,
		},
		{
			name: "invalid level",
			input: usecase.GrantPermissionInput{
				Actor:  &domain.User{ID: "user-sa", Role: domain.RoleSuperAdmin},
				UserID: "user-emp",
				FarmID: "farm-1",
				Module: domain.ModuleInventory,
				Level:  domain.AccessLevel("owner"),
			},
			setupMocks: func(m *accessMocks) {},
			errorType:  domain.ErrInvalidLevel,
		},
		{
			name: "employee cannot grant",
			input: usecase.GrantPermissionInput{
				Actor:  &domain.User{ID: "user-emp", Role: domain.RoleEmployee},
				UserID: "user-other",
				FarmID: "farm-1",
				Module: domain.ModuleInventory,
				Level:  domain.AccessEdit,
			},
			setupMocks: func(m *accessMocks) {},
			errorType:  domain.ErrForbidden,
		},
		{
			name: "farm admin of another farm cannot grant",
			input: usecase.GrantPermissionInput{
				Actor:  &domain.User{ID: "user-fa", Role: domain.RoleFarmAdmin},
				UserID: "user-other",
				FarmID: "farm-1",
				Module: domain.ModuleInventory,
				Level:  domain.AccessEdit,
			},
			setupMocks: func(m *accessMocks) {
				m.farmRepo.EXPECT().GetByID(gomock.Any(), "farm-1").
					Return(&domain.Farm{ID: "farm-1", AdminID: "someone-else"}, nil)
			},
			errorType: domain.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := newAccessMocks(ctrl)
			tt.setupMocks(m)

			_, err := m.useCase().GrantPermission(context.Background(), tt.input)
			if !errors.Is(err, tt.errorType) {
				t.Errorf("expected %v, got %v", tt.errorType, err)
			}
		})
	}
}

func TestAccessUseCase_RevokePermission(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newAccessMocks(ctrl)

	actor := &domain.User{ID: "user-sa", Role: domain.RoleSuperAdmin}

	m.permRepo.EXPECT().Get(gomock.Any(), "user-emp", "farm-1", domain.ModuleInventory).
		Return(&domain.Permission{ID: "perm-1", UserID: "user-emp", Level: domain.AccessEdit}, nil)
	m.permRepo.EXPECT().Delete(gomock.Any(), "user-emp", "farm-1", domain.ModuleInventory).Return(nil)
	m.idGen.EXPECT().Generate().Return("audit-1")
	m.auditRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	err := m.useCase().RevokePermission(context.Background(), usecase.RevokePermissionInput{
		Actor:  actor,
		UserID: "user-emp",
		FarmID: "farm-1",
		Module: domain.ModuleInventory,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAccessUseCase_RemoveMembership_CascadesPermissions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newAccessMocks(ctrl)

	actor := &domain.User{ID: "user-sa", Role: domain.RoleSuperAdmin}

	m.membershipRepo.EXPECT().Get(gomock.Any(), "user-emp", "farm-1").
		Return(&domain.Membership{ID: "mem-1", UserID: "user-emp", FarmID: "farm-1", Role: domain.MembershipWorker}, nil)
	m.txManager.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
	m.tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
	m.permRepo.EXPECT().DeleteByUserFarmTx(gomock.Any(), m.tx, "user-emp", "farm-1").Return(nil)
	m.membershipRepo.EXPECT().DeleteTx(gomock.Any(), m.tx, "user-emp", "farm-1").Return(nil)
	m.idGen.EXPECT().Generate().Return("audit-1")
	m.auditRepo.EXPECT().CreateTx(gomock.Any(), m.tx, gomock.Any()).Return(nil)
	m.tx.EXPECT().Commit(gomock.Any()).Return(nil)

	err := m.useCase().RemoveMembership(context.Background(), usecase.RemoveMembershipInput{
		Actor:  actor,
		UserID: "user-emp",
		FarmID: "farm-1",
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAccessUseCase_RemoveMembership_AbortsOnPermissionDeleteFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newAccessMocks(ctrl)

	actor := &domain.User{ID: "user-sa", Role: domain.RoleSuperAdmin}

	m.membershipRepo.EXPECT().Get(gomock.Any(), "user-emp", "farm-1").
		Return(&domain.Membership{ID: "mem-1", UserID: "user-emp", FarmID: "farm-1"}, nil)
	m.txManager.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
	m.tx.EXPECT().Rollback(gomock.Any()).Return(nil)

	deleteErr := errors.New("delete failed")
	m.permRepo.EXPECT().DeleteByUserFarmTx(gomock.Any(), m.tx, "user-emp", "farm-1").Return(deleteErr)

	// No membership delete and no commit: the whole removal rolls back.
	err := m.useCase().RemoveMembership(context.Background(), usecase.RemoveMembershipInput{
		Actor:  actor,
		UserID: "user-emp",
		FarmID: "farm-1",
	})

	if !errors.Is(err, deleteErr) {
		t.Errorf("expected delete error, got %v", err)
	}
}

func TestAccessUseCase_AssignMembership(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newAccessMocks(ctrl)

	actor := &domain.User{ID: "user-fa", Role: domain.RoleFarmAdmin}

	m.farmRepo.EXPECT().GetByID(gomock.Any(), "farm-1").
		Return(&domain.Farm{ID: "farm-1", AdminID: "user-fa"}, nil)
	m.userRepo.EXPECT().GetByID(gomock.Any(), "user-emp").Return(&domain.User{ID: "user-emp"}, nil)
	m.idGen.EXPECT().Generate().Return("mem-1").Times(2)
	m.membershipRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	m.auditRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	membership, err := m.useCase().AssignMembership(context.Background(), usecase.AssignMembershipInput{
		Actor:  actor,
		UserID: "user-emp",
		FarmID: "farm-1",
		Role:   domain.MembershipWorker,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if membership.Role != domain.MembershipWorker {
		t.Errorf("expected worker role, got %s", membership.Role)
	}
}

func TestAccessUseCase_AssignMembership_InvalidRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newAccessMocks(ctrl)

	_, err := m.useCase().AssignMembership(context.Background(), usecase.AssignMembershipInput{
		Actor:  &domain.User{ID: "user-sa", Role: domain.RoleSuperAdmin},
		UserID: "user-emp",
		FarmID: "farm-1",
		Role:   domain.MembershipRole("overlord"),
	})

	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}
