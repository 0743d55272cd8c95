package repository

import (
	"context"

	"fleetmaint/internal/dto"
	"fleetmaint/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VehicleEntryRepository interface {
	Create(ctx context.Context, tx *gorm.DB, e *model.VehicleEntry) error
	CreateKeyControlTx(tx *gorm.DB, kc *model.KeyControl) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.VehicleEntry, error)
	FindByCode(ctx context.Context, code string) (*model.VehicleEntry, error)
	FindHydrated(ctx context.Context, id uuid.UUID) (*model.VehicleEntry, error)
	List(ctx context.Context, filter dto.EntryFilter) ([]model.VehicleEntry, int64, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type vehicleEntryRepo struct{ db *gorm.DB }

func NewVehicleEntryRepository(db *gorm.DB) VehicleEntryRepository { return &vehicleEntryRepo{db: db} }

func (r *vehicleEntryRepo) DB() *gorm.DB { return r.db }

func (r *vehicleEntryRepo) Create(ctx context.Context, tx *gorm.DB, e *model.VehicleEntry) error {
	return tx.WithContext(ctx).Create(e).Error
}

func (r *vehicleEntryRepo) CreateKeyControlTx(tx *gorm.DB, kc *model.KeyControl) error {
	return tx.Create(kc).Error
}

func (r *vehicleEntryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.VehicleEntry, error) {
	var e model.VehicleEntry
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *vehicleEntryRepo) FindByCode(ctx context.Context, code string) (*model.VehicleEntry, error) {
	var e model.VehicleEntry
	err := r.db.WithContext(ctx).Where("entry_code = ?", code).First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *vehicleEntryRepo) FindHydrated(ctx context.Context, id uuid.UUID) (*model.VehicleEntry, error) {
	var e model.VehicleEntry
	err := r.db.WithContext(ctx).
		Preload("Vehicle").
		Preload("Vehicle.Region").
		Preload("Workshop").
		Preload("CreatedBy").
		Preload("KeyControl").
		Preload("WorkOrders").
		Preload("WorkOrders.AssignedTo").
		First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *vehicleEntryRepo) List(ctx context.Context, filter dto.EntryFilter) ([]model.VehicleEntry, int64, error) {
	var entries []model.VehicleEntry
	var total int64

	q := r.db.WithContext(ctx).Model(&model.VehicleEntry{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(
			"entry_code ILIKE ? OR driver_name ILIKE ? OR driver_rut ILIKE ? OR vehicle_id IN (SELECT id FROM vehicles WHERE license_plate ILIKE ?)",
			pattern, pattern, pattern, pattern,
		)
	}
	if filter.WorkshopID != "" {
		q = q.Where("workshop_id = ?", filter.WorkshopID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.DateFrom != "" {
		q = q.Where("entry_date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		q = q.Where("entry_date <= ?", filter.DateTo+" 23:59:59")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Vehicle").Preload("Workshop").Preload("CreatedBy").Preload("KeyControl").
		Order("entry_date DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&entries).Error
	return entries, total, err
}

func (r *vehicleEntryRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.VehicleEntry{}).
		Where("id = ?", id).Updates(fields).Error
}
