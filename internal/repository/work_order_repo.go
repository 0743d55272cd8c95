package repository

import (
	"context"

	"fleetmaint/internal/dto"
	"fleetmaint/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WorkOrderRepository is the data access contract for work orders and their
// owned children (status events, pauses, photos). Services depend on this
// interface, not on the concrete GORM implementation.
type WorkOrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, o *model.WorkOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error)
	FindByOrderNumber(ctx context.Context, number string) (*model.WorkOrder, error)
	FindHydrated(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error)
	List(ctx context.Context, filter dto.WorkOrderFilter) ([]model.WorkOrder, int64, error)
	Update(ctx context.Context, o *model.WorkOrder) error

	// Used inside transactions — callers must pass the tx instance.
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.WorkOrder, error)
	UpdateFieldsTx(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	CreateStatusTx(tx *gorm.DB, s *model.WorkOrderStatus) error
	CreatePauseTx(tx *gorm.DB, p *model.WorkPause) error
	FindOpenPauseTx(tx *gorm.DB, workOrderID uuid.UUID) (*model.WorkPause, error)
	ClosePauseTx(tx *gorm.DB, pauseID uuid.UUID, fields map[string]interface{}) error

	CreatePhoto(ctx context.Context, p *model.WorkOrderPhoto) error

	CountByStatus(ctx context.Context, workshopID *uuid.UUID) (map[string]int64, error)
	CountByPriority(ctx context.Context, workshopID *uuid.UUID) (map[string]int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type workOrderRepo struct{ db *gorm.DB }

func NewWorkOrderRepository(db *gorm.DB) WorkOrderRepository { return &workOrderRepo{db: db} }

func (r *workOrderRepo) DB() *gorm.DB { return r.db }

func (r *workOrderRepo) Create(ctx context.Context, tx *gorm.DB, o *model.WorkOrder) error {
	return tx.WithContext(ctx).Create(o).Error
}

func (r *workOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error) {
	var o model.WorkOrder
	err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *workOrderRepo) FindByOrderNumber(ctx context.Context, number string) (*model.WorkOrder, error) {
	var o model.WorkOrder
	err := r.db.WithContext(ctx).Where("order_number = ?", number).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// FindHydrated loads the full aggregate the API returns after every mutation:
// references, status history (newest first), photos, spare-part requests with
// their parts, and pause history (newest first).
func (r *workOrderRepo) FindHydrated(ctx context.Context, id uuid.UUID) (*model.WorkOrder, error) {
	var o model.WorkOrder
	err := r.db.WithContext(ctx).
		Preload("Vehicle").
		Preload("Vehicle.Region").
		Preload("Entry").
		Preload("Workshop").
		Preload("AssignedTo").
		Preload("CreatedBy").
		Preload("Statuses", func(db *gorm.DB) *gorm.DB {
			return db.Order("changed_at DESC")
		}).
		Preload("Photos").
		Preload("SpareParts").
		Preload("SpareParts.SparePart").
		Preload("Pauses", func(db *gorm.DB) *gorm.DB {
			return db.Order("paused_at DESC")
		}).
		First(&o, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *workOrderRepo) List(ctx context.Context, filter dto.WorkOrderFilter) ([]model.WorkOrder, int64, error) {
	var orders []model.WorkOrder
	var total int64

	q := r.db.WithContext(ctx).Model(&model.WorkOrder{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(
			"order_number ILIKE ? OR description ILIKE ? OR vehicle_id IN (SELECT id FROM vehicles WHERE license_plate ILIKE ?)",
			pattern, pattern, pattern,
		)
	}
	if filter.Status != "" {
		q = q.Where("current_status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	if filter.WorkshopID != "" {
		q = q.Where("workshop_id = ?", filter.WorkshopID)
	}
	if filter.AssignedToID != "" {
		q = q.Where("assigned_to_id = ?", filter.AssignedToID)
	}
	if filter.DateFrom != "" {
		q = q.Where("created_at >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		q = q.Where("created_at <= ?", filter.DateTo+" 23:59:59")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Vehicle").Preload("Workshop").Preload("AssignedTo").Preload("CreatedBy").
		Order(filter.SortBy + " " + filter.SortOrder).
		Limit(filter.Limit).Offset(offset).
		Find(&orders).Error
	return orders, total, err
}

func (r *workOrderRepo) Update(ctx context.Context, o *model.WorkOrder) error {
	return r.db.WithContext(ctx).Save(o).Error
}

// FindByIDForUpdate takes a row lock so the status/pause read-modify-write
// span is serialized against concurrent writers on the same order.
func (r *workOrderRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.WorkOrder, error) {
	var o model.WorkOrder
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *workOrderRepo) UpdateFieldsTx(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return tx.Model(&model.WorkOrder{}).Where("id = ?", id).Updates(fields).Error
}

func (r *workOrderRepo) CreateStatusTx(tx *gorm.DB, s *model.WorkOrderStatus) error {
	return tx.Create(s).Error
}

func (r *workOrderRepo) CreatePauseTx(tx *gorm.DB, p *model.WorkPause) error {
	return tx.Create(p).Error
}

func (r *workOrderRepo) FindOpenPauseTx(tx *gorm.DB, workOrderID uuid.UUID) (*model.WorkPause, error) {
	var p model.WorkPause
	err := tx.Where("work_order_id = ? AND resumed_at IS NULL", workOrderID).
		Order("paused_at DESC").First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *workOrderRepo) ClosePauseTx(tx *gorm.DB, pauseID uuid.UUID, fields map[string]interface{}) error {
	return tx.Model(&model.WorkPause{}).Where("id = ?", pauseID).Updates(fields).Error
}

func (r *workOrderRepo) CreatePhoto(ctx context.Context, p *model.WorkOrderPhoto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

type statusCount struct {
	Key   string `gorm:"column:key"`
	Count int64  `gorm:"column:count"`
}

func (r *workOrderRepo) CountByStatus(ctx context.Context, workshopID *uuid.UUID) (map[string]int64, error) {
	return r.groupCount(ctx, "current_status", workshopID)
}

func (r *workOrderRepo) CountByPriority(ctx context.Context, workshopID *uuid.UUID) (map[string]int64, error) {
	return r.groupCount(ctx, "priority", workshopID)
}

func (r *workOrderRepo) groupCount(ctx context.Context, column string, workshopID *uuid.UUID) (map[string]int64, error) {
	q := r.db.WithContext(ctx).Model(&model.WorkOrder{}).
		Select(column + " AS key, COUNT(*) AS count").
		Group(column)
	if workshopID != nil {
		q = q.Where("workshop_id = ?", *workshopID)
	}
	var rows []statusCount
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Count
	}
	return out, nil
}
