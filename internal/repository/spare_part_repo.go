package repository

import (
	"context"

	"fleetmaint/internal/dto"
	"fleetmaint/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SparePartRepository is the data access contract for the inventory ledger:
// parts, their append-only movements, and work-order part requests.
type SparePartRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.SparePart) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SparePart, error)
	FindByCode(ctx context.Context, code string) (*model.SparePart, error)
	FindHydrated(ctx context.Context, id uuid.UUID) (*model.SparePart, error)
	List(ctx context.Context, filter dto.SparePartFilter) ([]model.SparePart, int64, error)
	Update(ctx context.Context, p *model.SparePart) error
	ListLowStock(ctx context.Context) ([]model.SparePart, error)
	Stats(ctx context.Context) (*dto.SparePartStatsResponse, error)
	ListMovements(ctx context.Context, sparePartID uuid.UUID, limit int) ([]model.SparePartMovement, error)

	// Used inside transactions — callers must pass the tx instance.
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.SparePart, error)
	// DecrementStockTx applies `current_stock = current_stock - qty` guarded by
	// `current_stock >= qty` in the WHERE clause. Zero rows affected means the
	// decrement would have gone negative and nothing was written.
	DecrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) (int64, error)
	IncrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) error
	SetStockTx(tx *gorm.DB, id uuid.UUID, stock int) error
	CreateMovementTx(tx *gorm.DB, m *model.SparePartMovement) error

	// Work-order part requests.
	CreateRequest(ctx context.Context, req *model.WorkOrderSparePart) error
	FindRequestByID(ctx context.Context, id uuid.UUID) (*model.WorkOrderSparePart, error)
	FindRequestForUpdate(tx *gorm.DB, id uuid.UUID) (*model.WorkOrderSparePart, error)
	UpdateRequestTx(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type sparePartRepo struct{ db *gorm.DB }

func NewSparePartRepository(db *gorm.DB) SparePartRepository { return &sparePartRepo{db: db} }

func (r *sparePartRepo) DB() *gorm.DB { return r.db }

func (r *sparePartRepo) Create(ctx context.Context, tx *gorm.DB, p *model.SparePart) error {
	return tx.WithContext(ctx).Create(p).Error
}

func (r *sparePartRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SparePart, error) {
	var p model.SparePart
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *sparePartRepo) FindByCode(ctx context.Context, code string) (*model.SparePart, error) {
	var p model.SparePart
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindHydrated loads the part with its last 20 movements and last 10 linked
// work-order requests — the aggregate returned after every mutation.
func (r *sparePartRepo) FindHydrated(ctx context.Context, id uuid.UUID) (*model.SparePart, error) {
	var p model.SparePart
	err := r.db.WithContext(ctx).
		Preload("Movements", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Limit(20)
		}).
		Preload("WorkOrders", func(db *gorm.DB) *gorm.DB {
			return db.Order("requested_at DESC").Limit(10)
		}).
		Preload("WorkOrders.WorkOrder").
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *sparePartRepo) List(ctx context.Context, filter dto.SparePartFilter) ([]model.SparePart, int64, error) {
	var parts []model.SparePart
	var total int64

	q := r.db.WithContext(ctx).Model(&model.SparePart{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("code ILIKE ? OR name ILIKE ? OR description ILIKE ?", pattern, pattern, pattern)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.LowStock {
		q = q.Where("current_stock <= min_stock")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order(filter.SortBy + " " + filter.SortOrder).
		Limit(filter.Limit).Offset(offset).
		Find(&parts).Error
	return parts, total, err
}

func (r *sparePartRepo) Update(ctx context.Context, p *model.SparePart) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *sparePartRepo) ListLowStock(ctx context.Context) ([]model.SparePart, error) {
	var parts []model.SparePart
	err := r.db.WithContext(ctx).
		Where("activo = true AND current_stock <= min_stock").
		Order("current_stock ASC").
		Find(&parts).Error
	return parts, err
}

func (r *sparePartRepo) Stats(ctx context.Context) (*dto.SparePartStatsResponse, error) {
	stats := &dto.SparePartStatsResponse{}
	db := r.db.WithContext(ctx).Model(&model.SparePart{})

	if err := db.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("activo = true").Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("activo = true AND current_stock <= min_stock").Count(&stats.LowStock).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("activo = true AND current_stock = 0").Count(&stats.OutOfStock).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).
		Select("category, COUNT(*) AS count, COALESCE(SUM(current_stock), 0) AS total_stock").
		Group("category").
		Scan(&stats.ByCategory).Error; err != nil {
		return nil, err
	}
	for _, c := range stats.ByCategory {
		stats.TotalItems += c.TotalStock
	}
	return stats, nil
}

func (r *sparePartRepo) ListMovements(ctx context.Context, sparePartID uuid.UUID, limit int) ([]model.SparePartMovement, error) {
	var movs []model.SparePartMovement
	err := r.db.WithContext(ctx).
		Where("spare_part_id = ?", sparePartID).
		Order("created_at DESC").Limit(limit).
		Find(&movs).Error
	return movs, err
}

func (r *sparePartRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.SparePart, error) {
	var p model.SparePart
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *sparePartRepo) DecrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) (int64, error) {
	res := tx.Model(&model.SparePart{}).
		Where("id = ? AND current_stock >= ?", id, qty).
		Update("current_stock", gorm.Expr("current_stock - ?", qty))
	return res.RowsAffected, res.Error
}

func (r *sparePartRepo) IncrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) error {
	return tx.Model(&model.SparePart{}).Where("id = ?", id).
		Update("current_stock", gorm.Expr("current_stock + ?", qty)).Error
}

func (r *sparePartRepo) SetStockTx(tx *gorm.DB, id uuid.UUID, stock int) error {
	return tx.Model(&model.SparePart{}).Where("id = ?", id).
		Update("current_stock", stock).Error
}

func (r *sparePartRepo) CreateMovementTx(tx *gorm.DB, m *model.SparePartMovement) error {
	return tx.Create(m).Error
}

func (r *sparePartRepo) CreateRequest(ctx context.Context, req *model.WorkOrderSparePart) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *sparePartRepo) FindRequestByID(ctx context.Context, id uuid.UUID) (*model.WorkOrderSparePart, error) {
	var req model.WorkOrderSparePart
	err := r.db.WithContext(ctx).
		Preload("SparePart").
		Preload("WorkOrder").
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *sparePartRepo) FindRequestForUpdate(tx *gorm.DB, id uuid.UUID) (*model.WorkOrderSparePart, error) {
	var req model.WorkOrderSparePart
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *sparePartRepo) UpdateRequestTx(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return tx.Model(&model.WorkOrderSparePart{}).Where("id = ?", id).Updates(fields).Error
}
