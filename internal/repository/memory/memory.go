// Package memory содержит потокобезопасные in-memory реализации репозиториев.
// Используются в тестах use case слоя вместо PostgreSQL.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vkotov/checkpoint/internal/domain"
)

// PassRepository - in-memory реализация repository.PassRepository
type PassRepository struct {
	mu     sync.Mutex
	passes map[uuid.UUID]*domain.Pass
}

func NewPassRepository() *PassRepository {
	return &PassRepository{passes: make(map[uuid.UUID]*domain.Pass)}
}

func (r *PassRepository) Create(_ context.Context, pass *domain.Pass) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if pass.ID == uuid.Nil {
		pass.ID = uuid.New()
	}
	pass.CreatedAt = time.Now()
	pass.UpdatedAt = pass.CreatedAt

	copied := *pass
	r.passes[pass.ID] = &copied
	return nil
}

func (r *PassRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Pass, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pass, ok := r.passes[id]
	if !ok {
		return nil, domain.ErrPassNotFound
	}
	copied := *pass
	return &copied, nil
}

func (r *PassRepository) GetByUserID(_ context.Context, userID uuid.UUID) ([]*domain.Pass, error) {
	return r.filter(func(p *domain.Pass) bool { return p.UserID == userID }), nil
}

func (r *PassRepository) GetOpenByUserID(_ context.Context, userID uuid.UUID) ([]*domain.Pass, error) {
	return r.filter(func(p *domain.Pass) bool { return p.UserID == userID && p.IsOpen() }), nil
}

func (r *PassRepository) GetByStatusWithStartBefore(_ context.Context, status domain.PassStatus, threshold time.Time) ([]*domain.Pass, error) {
	return r.filter(func(p *domain.Pass) bool {
		return p.Status == status && !p.StartTime.After(threshold)
	}), nil
}

func (r *PassRepository) GetByStatusWithEndBefore(_ context.Context, status domain.PassStatus, threshold time.Time) ([]*domain.Pass, error) {
	return r.filter(func(p *domain.Pass) bool {
		return p.Status == status && !p.EndTime.After(threshold)
	}), nil
}

func (r *PassRepository) Update(_ context.Context, pass *domain.Pass) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.passes[pass.ID]; !ok {
		return domain.ErrPassNotFound
	}

	pass.UpdatedAt = time.Now()
	copied := *pass
	r.passes[pass.ID] = &copied
	return nil
}

func (r *PassRepository) UpdateStatus(_ context.Context, id uuid.UUID, to domain.PassStatus, from ...domain.PassStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pass, ok := r.passes[id]
	if !ok {
		return domain.ErrPassNotFound
	}

	if len(from) > 0 {
		allowed := false
		for _, s := range from {
			if pass.Status == s {
				allowed = true
				break
			}
		}
		if !allowed {
			return domain.ErrPassNotFound
		}
	}

	pass.Status = to
	pass.UpdatedAt = time.Now()
	return nil
}

func (r *PassRepository) UpdateExpectedDirection(_ context.Context, id uuid.UUID, to domain.Direction, from ...domain.Direction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pass, ok := r.passes[id]
	if !ok {
		return domain.ErrPassNotFound
	}

	if len(from) > 0 {
		allowed := false
		for _, d := range from {
			if pass.ExpectedDirection == d {
				allowed = true
				break
			}
		}
		if !allowed {
			return domain.ErrWrongDirection
		}
	}

	pass.ExpectedDirection = to
	pass.UpdatedAt = time.Now()
	return nil
}

func (r *PassRepository) List(_ context.Context, limit, offset int) ([]*domain.Pass, error) {
	all := r.filter(func(*domain.Pass) bool { return true })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *PassRepository) filter(keep func(*domain.Pass) bool) []*domain.Pass {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*domain.Pass
	for _, pass := range r.passes {
		if keep(pass) {
			copied := *pass
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// CrossingRepository - in-memory реализация repository.CrossingRepository
type CrossingRepository struct {
	mu        sync.Mutex
	crossings []*domain.Crossing
	lastID    int64
}

func NewCrossingRepository() *CrossingRepository {
	return &CrossingRepository{}
}

func (r *CrossingRepository) Create(_ context.Context, crossing *domain.Crossing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	crossing.ID = r.lastID
	crossing.CreatedAt = time.Now()
	if crossing.Timestamp.IsZero() {
		crossing.Timestamp = crossing.CreatedAt
	}

	copied := *crossing
	r.crossings = append(r.crossings, &copied)
	return nil
}

func (r *CrossingRepository) GetByPassID(_ context.Context, passID uuid.UUID) ([]*domain.Crossing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*domain.Crossing
	for _, crossing := range r.crossings {
		if crossing.PassID == passID {
			copied := *crossing
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *CrossingRepository) GetLastByPassID(ctx context.Context, passID uuid.UUID) (*domain.Crossing, error) {
	crossings, _ := r.GetByPassID(ctx, passID)
	if len(crossings) == 0 {
		return nil, nil
	}
	return crossings[len(crossings)-1], nil
}

func (r *CrossingRepository) CountByPassID(ctx context.Context, passID uuid.UUID) (int64, error) {
	crossings, _ := r.GetByPassID(ctx, passID)
	return int64(len(crossings)), nil
}

// UserRepository - in-memory реализация repository.UserRepository
type UserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[uuid.UUID]*domain.User)}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) List(_ context.Context, limit, offset int) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var users []*domain.User
	for _, user := range r.users {
		copied := *user
		users = append(users, &copied)
	}
	return users, nil
}

func (r *UserRepository) UpdateLastLogin(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	now := time.Now()
	user.LastLoginAt = &now
	return nil
}

// TerritoryRepository - in-memory реализация repository.TerritoryRepository
type TerritoryRepository struct {
	mu          sync.Mutex
	territories map[uuid.UUID]*domain.Territory
}

func NewTerritoryRepository() *TerritoryRepository {
	return &TerritoryRepository{territories: make(map[uuid.UUID]*domain.Territory)}
}

func (r *TerritoryRepository) Create(_ context.Context, territory *domain.Territory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if territory.ID == uuid.Nil {
		territory.ID = uuid.New()
	}
	copied := *territory
	r.territories[territory.ID] = &copied
	return nil
}

func (r *TerritoryRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Territory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	territory, ok := r.territories[id]
	if !ok {
		return nil, domain.ErrTerritoryNotFound
	}
	copied := *territory
	return &copied, nil
}

func (r *TerritoryRepository) List(_ context.Context, limit, offset int) ([]*domain.Territory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var territories []*domain.Territory
	for _, territory := range r.territories {
		copied := *territory
		territories = append(territories, &copied)
	}
	return territories, nil
}

// CheckpointRepository - in-memory реализация repository.CheckpointRepository
type CheckpointRepository struct {
	mu          sync.Mutex
	checkpoints map[uuid.UUID]*domain.Checkpoint
}

func NewCheckpointRepository() *CheckpointRepository {
	return &CheckpointRepository{checkpoints: make(map[uuid.UUID]*domain.Checkpoint)}
}

func (r *CheckpointRepository) Create(_ context.Context, checkpoint *domain.Checkpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if checkpoint.ID == uuid.Nil {
		checkpoint.ID = uuid.New()
	}
	copied := *checkpoint
	r.checkpoints[checkpoint.ID] = &copied
	return nil
}

func (r *CheckpointRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Checkpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	checkpoint, ok := r.checkpoints[id]
	if !ok {
		return nil, domain.ErrCheckpointNotFound
	}
	copied := *checkpoint
	return &copied, nil
}

func (r *CheckpointRepository) GetByTerritoryID(_ context.Context, territoryID uuid.UUID) ([]*domain.Checkpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var checkpoints []*domain.Checkpoint
	for _, checkpoint := range r.checkpoints {
		if checkpoint.TerritoryID == territoryID {
			copied := *checkpoint
			checkpoints = append(checkpoints, &copied)
		}
	}
	return checkpoints, nil
}

// VehicleRepository - in-memory реализация repository.VehicleRepository
type VehicleRepository struct {
	mu       sync.Mutex
	vehicles map[uuid.UUID]*domain.Vehicle
}

func NewVehicleRepository() *VehicleRepository {
	return &VehicleRepository{vehicles: make(map[uuid.UUID]*domain.Vehicle)}
}

func (r *VehicleRepository) Create(_ context.Context, vehicle *domain.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if vehicle.ID == uuid.Nil {
		vehicle.ID = uuid.New()
	}
	copied := *vehicle
	r.vehicles[vehicle.ID] = &copied
	return nil
}

func (r *VehicleRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	vehicle, ok := r.vehicles[id]
	if !ok {
		return nil, domain.ErrVehicleNotFound
	}
	copied := *vehicle
	return &copied, nil
}

func (r *VehicleRepository) GetByLicensePlate(_ context.Context, licensePlate string) (*domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, vehicle := range r.vehicles {
		if vehicle.LicensePlate == licensePlate {
			copied := *vehicle
			return &copied, nil
		}
	}
	return nil, domain.ErrVehicleNotFound
}

// VehicleBrandRepository - in-memory реализация repository.VehicleBrandRepository
type VehicleBrandRepository struct {
	mu     sync.Mutex
	brands map[uuid.UUID]*domain.VehicleBrand
}

func NewVehicleBrandRepository() *VehicleBrandRepository {
	return &VehicleBrandRepository{brands: make(map[uuid.UUID]*domain.VehicleBrand)}
}

func (r *VehicleBrandRepository) Create(_ context.Context, brand *domain.VehicleBrand) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if brand.ID == uuid.Nil {
		brand.ID = uuid.New()
	}
	copied := *brand
	r.brands[brand.ID] = &copied
	return nil
}

func (r *VehicleBrandRepository) GetByName(_ context.Context, name string) (*domain.VehicleBrand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, brand := range r.brands {
		if strings.EqualFold(brand.Name, name) {
			copied := *brand
			return &copied, nil
		}
	}
	return nil, domain.ErrVehicleNotFound
}

func (r *VehicleBrandRepository) List(_ context.Context) ([]*domain.VehicleBrand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var brands []*domain.VehicleBrand
	for _, brand := range r.brands {
		copied := *brand
		brands = append(brands, &copied)
	}
	return brands, nil
}

// VisitorRepository - in-memory реализация repository.VisitorRepository
type VisitorRepository struct {
	mu       sync.Mutex
	visitors map[uuid.UUID]*domain.Visitor
}

func NewVisitorRepository() *VisitorRepository {
	return &VisitorRepository{visitors: make(map[uuid.UUID]*domain.Visitor)}
}

func (r *VisitorRepository) Create(_ context.Context, visitor *domain.Visitor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if visitor.ID == uuid.Nil {
		visitor.ID = uuid.New()
	}
	copied := *visitor
	r.visitors[visitor.ID] = &copied
	return nil
}

func (r *VisitorRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Visitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	visitor, ok := r.visitors[id]
	if !ok {
		return nil, domain.ErrVisitorNotFound
	}
	copied := *visitor
	return &copied, nil
}
