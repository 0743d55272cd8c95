package repository

import (
	"context"

	"fleetmaint/internal/dto"
	"fleetmaint/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VehicleRepository interface {
	Create(ctx context.Context, v *model.Vehicle) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error)
	FindByPlate(ctx context.Context, plate string) (*model.Vehicle, error)
	List(ctx context.Context, filter dto.VehicleFilter) ([]model.Vehicle, int64, error)
	Update(ctx context.Context, v *model.Vehicle) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type vehicleRepo struct{ db *gorm.DB }

func NewVehicleRepository(db *gorm.DB) VehicleRepository { return &vehicleRepo{db: db} }

func (r *vehicleRepo) Create(ctx context.Context, v *model.Vehicle) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *vehicleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	var v model.Vehicle
	err := r.db.WithContext(ctx).Preload("Region").First(&v, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vehicleRepo) FindByPlate(ctx context.Context, plate string) (*model.Vehicle, error) {
	var v model.Vehicle
	err := r.db.WithContext(ctx).Where("license_plate = ?", plate).First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vehicleRepo) List(ctx context.Context, filter dto.VehicleFilter) ([]model.Vehicle, int64, error) {
	var vehicles []model.Vehicle
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Vehicle{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(
			"license_plate ILIKE ? OR brand ILIKE ? OR model ILIKE ? OR fleet_number ILIKE ? OR vin ILIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		)
	}
	if filter.VehicleType != "" {
		q = q.Where("vehicle_type = ?", filter.VehicleType)
	}
	if filter.RegionID != "" {
		q = q.Where("region_id = ?", filter.RegionID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Region").
		Order(filter.SortBy + " " + filter.SortOrder).
		Limit(filter.Limit).Offset(offset).
		Find(&vehicles).Error
	return vehicles, total, err
}

func (r *vehicleRepo) Update(ctx context.Context, v *model.Vehicle) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *vehicleRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.Vehicle{}).
		Where("id = ?", id).Update("status", status).Error
}
