package repository

import (
	"context"

	"fleetmaint/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkshopRepository is read-only here: workshop administration happens in a
// separate back-office flow, this service only validates references and lists.
type WorkshopRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Workshop, error)
	ListActive(ctx context.Context) ([]model.Workshop, error)
}

type workshopRepo struct{ db *gorm.DB }

func NewWorkshopRepository(db *gorm.DB) WorkshopRepository { return &workshopRepo{db: db} }

func (r *workshopRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Workshop, error) {
	var w model.Workshop
	err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *workshopRepo) ListActive(ctx context.Context) ([]model.Workshop, error) {
	var workshops []model.Workshop
	err := r.db.WithContext(ctx).Where("activo = true").Order("name ASC").Find(&workshops).Error
	return workshops, err
}
