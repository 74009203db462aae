package usecase

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/agrodesk/farmstock/internal/domain"
)

// UserUseCase handles user management operations.
type UserUseCase struct {
	userRepo  UserRepository
	auditRepo AuditRepository
	idGen     IDGenerator
}

// NewUserUseCase creates a new user use case.
func NewUserUseCase(userRepo UserRepository, auditRepo AuditRepository, idGen IDGenerator) *UserUseCase {
	return &UserUseCase{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		idGen:     idGen,
	}
}

// CreateUserInput represents input for creating a user. Actor is nil for
// self-registration.
type CreateUserInput struct {
	Actor    *domain.User
	Email    string
	Name     string
	Password string
	Role     domain.Role
}

// CreateUser creates a new user with a hashed password. Farm admins may not
// create super admin accounts; self-registration may not claim one either.
func (uc *UserUseCase) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	if !input.Role.IsValid() {
		return nil, domain.ErrInvalidRole
	}

	if input.Role == domain.RoleSuperAdmin {
		if input.Actor == nil || input.Actor.Role != domain.RoleSuperAdmin {
			return nil, domain.ErrSuperAdminProtected
		}
	}

	if input.Actor != nil && !input.Actor.Role.CanManageUsers() {
		return nil, domain.ErrForbidden
	}

	existing, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:             uc.idGen.Generate(),
		Email:          input.Email,
		Name:           input.Name,
		HashedPassword: hashedPassword,
		Role:           input.Role,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	user.HashedPassword = ""
	return user, nil
}

// AuthenticateInput represents authentication input.
type AuthenticateInput struct {
	Email    string
	Password string
}

// Authenticate verifies user credentials.
func (uc *UserUseCase) Authenticate(ctx context.Context, input AuthenticateInput) (*domain.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if err != nil || user == nil {
		return nil, domain.ErrUnauthorized
	}

	if !user.Active {
		return nil, domain.ErrUserInactive
	}

	if err := verifyPassword(user.HashedPassword, input.Password); err != nil {
		return nil, domain.ErrUnauthorized
	}

	user.HashedPassword = ""
	return user, nil
}

// UpdateUserInput represents input for updating a user.
type UpdateUserInput struct {
	Actor    *domain.User
	ID       string
	Name     *string
	Role     *domain.Role
	Active   *bool
	Password *string
}

// UpdateUser updates user information. Role changes are restricted: nobody
// changes their own role, and farm admins may neither touch an existing super
// admin account nor promote anyone to super admin.
func (uc *UserUseCase) UpdateUser(ctx context.Context, input UpdateUserInput) (*domain.User, error) {
	if input.Actor == nil {
		return nil, domain.ErrUnauthorized
	}

	user, err := uc.userRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Actor.Role != domain.RoleSuperAdmin && user.Role == domain.RoleSuperAdmin {
		return nil, domain.ErrSuperAdminProtected
	}

	roleChanged := false
	previousRole := user.Role

	if input.Role != nil && *input.Role != user.Role {
		if !input.Role.IsValid() {
			return nil, domain.ErrInvalidRole
		}
		if input.Actor.ID == user.ID {
			return nil, domain.ErrSelfRoleChange
		}
		if !input.Actor.Role.CanManageUsers() {
			return nil, domain.ErrForbidden
		}
		if *input.Role == domain.RoleSuperAdmin && input.Actor.Role != domain.RoleSuperAdmin {
			return nil, domain.ErrSuperAdminProtected
		}

		user.Role = *input.Role
		roleChanged = true
	}

	if input.Name != nil {
		user.Name = *input.Name
	}

	if input.Active != nil {
		user.Active = *input.Active
	}

	if input.Password != nil {
		if err := domain.ValidatePassword(*input.Password); err != nil {
			return nil, err
		}
		hashedPassword, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.HashedPassword = hashedPassword
	}

	user.UpdatedAt = time.Now().UTC()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if roleChanged {
		_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			UserID:       input.Actor.ID,
			Action:       domain.AuditActionUserRoleChange,
			ResourceType: "user",
			ResourceID:   user.ID,
			BeforeState:  domain.JSON{"role": string(previousRole)},
			AfterState:   domain.JSON{"role": string(user.Role)},
			Status:       domain.AuditStatusSuccess,
			CreatedAt:    time.Now().UTC(),
		})
	}

	user.HashedPassword = ""
	return user, nil
}

// GetUser retrieves a user by ID.
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.HashedPassword = ""
	return user, nil
}

// ListUsers lists all users with pagination.
func (uc *UserUseCase) ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	users, err := uc.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		user.HashedPassword = ""
	}

	return users, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func verifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
