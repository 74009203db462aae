package usecase

import (
	"context"
	"time"

	"github.com/agrodesk/farmstock/internal/domain"
)

// FarmUseCase handles farm lifecycle.
type FarmUseCase struct {
	txManager      TransactionManager
	farmRepo       FarmRepository
	membershipRepo MembershipRepository
	idGen          IDGenerator
}

// NewFarmUseCase creates a new FarmUseCase.
func NewFarmUseCase(txManager TransactionManager, farmRepo FarmRepository, membershipRepo MembershipRepository, idGen IDGenerator) *FarmUseCase {
	return &FarmUseCase{
		txManager:      txManager,
		farmRepo:       farmRepo,
		membershipRepo: membershipRepo,
		idGen:          idGen,
	}
}

// CreateFarmInput represents input for creating a farm.
type CreateFarmInput struct {
	Actor    *domain.User
	Name     string
	Location string
	AdminID  string // defaults to the creator
}

// CreateFarm creates a farm and its admin membership in one transaction. The
// creator is recorded; the designated admin defaults to the creator.
func (uc *FarmUseCase) CreateFarm(ctx context.Context, input CreateFarmInput) (*domain.Farm, error) {
	if input.Actor == nil {
		return nil, domain.ErrUnauthorized
	}

	if err := domain.ValidateFarmName(input.Name); err != nil {
		return nil, err
	}

	adminID := input.AdminID
	if adminID == "" {
		adminID = input.Actor.ID
	}

	now := time.Now().UTC()
	farm := &domain.Farm{
		ID:        uc.idGen.Generate(),
		Name:      input.Name,
		Location:  input.Location,
		AdminID:   adminID,
		CreatedBy: input.Actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.farmRepo.Create(ctx, tx, farm); err != nil {
		return nil, err
	}

	membership := &domain.Membership{
		ID:        uc.idGen.Generate(),
		UserID:    adminID,
		FarmID:    farm.ID,
		Role:      domain.MembershipAdmin,
		CreatedAt: now,
	}

	if err := uc.membershipRepo.CreateTx(ctx, tx, membership); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return farm, nil
}

// GetFarm retrieves a farm by ID.
func (uc *FarmUseCase) GetFarm(ctx context.Context, id string) (*domain.Farm, error) {
	return uc.farmRepo.GetByID(ctx, id)
}

// ListFarms lists the farms a user belongs to.
func (uc *FarmUseCase) ListFarms(ctx context.Context, userID string) ([]*domain.Farm, error) {
	return uc.farmRepo.ListByMember(ctx, userID)
}
