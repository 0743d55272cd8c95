package service

import (
	"context"
	"encoding/json"
	"time"

	"fleetmaint/internal/dto"
	"fleetmaint/internal/model"
	"fleetmaint/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// VehicleEntryService handles gate intake: entry creation with a unique entry
// code, key custody, and exit registration.
type VehicleEntryService interface {
	Create(ctx context.Context, createdByID uuid.UUID, req dto.CreateEntryRequest) (*dto.EntryResponse, error)
	GetAll(ctx context.Context, filter dto.EntryFilter) (*dto.EntryListResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.EntryResponse, error)
	RegisterExit(ctx context.Context, id uuid.UUID) (*dto.EntryResponse, error)
}

type vehicleEntryService struct {
	repo         repository.VehicleEntryRepository
	vehicleRepo  repository.VehicleRepository
	workshopRepo repository.WorkshopRepository
}

func NewVehicleEntryService(
	repo repository.VehicleEntryRepository,
	vehicleRepo repository.VehicleRepository,
	workshopRepo repository.WorkshopRepository,
) VehicleEntryService {
	return &vehicleEntryService{repo: repo, vehicleRepo: vehicleRepo, workshopRepo: workshopRepo}
}

func (s *vehicleEntryService) Create(ctx context.Context, createdByID uuid.UUID, req dto.CreateEntryRequest) (*dto.EntryResponse, error) {
	vehicleID, err := uuid.Parse(req.VehicleID)
	if err != nil {
		return nil, ErrVehicleNotFound
	}
	workshopID, err := uuid.Parse(req.WorkshopID)
	if err != nil {
		return nil, ErrWorkshopNotFound
	}
	if _, err := s.vehicleRepo.FindByID(ctx, vehicleID); err != nil {
		return nil, ErrVehicleNotFound
	}
	if _, err := s.workshopRepo.FindByID(ctx, workshopID); err != nil {
		return nil, ErrWorkshopNotFound
	}

	entryCode, err := uniqueCode("ING", func(code string) bool {
		_, findErr := s.repo.FindByCode(ctx, code)
		return findErr == nil
	})
	if err != nil {
		return nil, err
	}

	var photos datatypes.JSON
	if len(req.Photos) > 0 {
		if b, marshalErr := json.Marshal(req.Photos); marshalErr == nil {
			photos = datatypes.JSON(b)
		}
	}

	entry := &model.VehicleEntry{
		EntryCode:    entryCode,
		VehicleID:    vehicleID,
		WorkshopID:   workshopID,
		DriverRut:    req.DriverRut,
		DriverName:   req.DriverName,
		DriverPhone:  req.DriverPhone,
		EntryKm:      req.EntryKm,
		FuelLevel:    req.FuelLevel,
		HasKeys:      req.HasKeys,
		Observations: req.Observations,
		Photos:       photos,
		EntryDate:    time.Now(),
		Status:       "ingresado",
		CreatedByID:  createdByID,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, entry); err != nil {
			return err
		}
		if req.HasKeys && req.KeyLocation != nil && *req.KeyLocation != "" {
			return s.repo.CreateKeyControlTx(tx, &model.KeyControl{
				EntryID:     entry.ID,
				KeyLocation: *req.KeyLocation,
			})
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// The vehicle is in the shop from this point on.
	_ = s.vehicleRepo.UpdateStatus(ctx, vehicleID, "en_mantenimiento")

	return s.GetByID(ctx, entry.ID)
}

func (s *vehicleEntryService) GetAll(ctx context.Context, filter dto.EntryFilter) (*dto.EntryListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.EntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, *entryToResponse(&entries[i]))
	}
	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &dto.EntryListResponse{
		Data:       items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *vehicleEntryService) GetByID(ctx context.Context, id uuid.UUID) (*dto.EntryResponse, error) {
	entry, err := s.repo.FindHydrated(ctx, id)
	if err != nil {
		return nil, ErrEntryNotFound
	}
	return entryToResponse(entry), nil
}

func (s *vehicleEntryService) RegisterExit(ctx context.Context, id uuid.UUID) (*dto.EntryResponse, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrEntryNotFound
	}
	if entry.ExitDate != nil {
		return nil, ErrAlreadyExited
	}

	now := time.Now()
	if err := s.repo.UpdateFields(ctx, id, map[string]interface{}{
		"exit_date": now,
		"status":    "salida",
	}); err != nil {
		return nil, err
	}
	_ = s.vehicleRepo.UpdateStatus(ctx, entry.VehicleID, "operativo")

	return s.GetByID(ctx, id)
}

func entryToResponse(e *model.VehicleEntry) *dto.EntryResponse {
	resp := &dto.EntryResponse{
		ID:           e.ID.String(),
		EntryCode:    e.EntryCode,
		VehicleID:    e.VehicleID.String(),
		WorkshopID:   e.WorkshopID.String(),
		DriverRut:    e.DriverRut,
		DriverName:   e.DriverName,
		DriverPhone:  e.DriverPhone,
		EntryKm:      e.EntryKm,
		FuelLevel:    e.FuelLevel,
		HasKeys:      e.HasKeys,
		Observations: e.Observations,
		EntryDate:    e.EntryDate.Format(time.RFC3339),
		ExitDate:     formatTimePtr(e.ExitDate),
		Status:       e.Status,
	}
	if len(e.Photos) > 0 {
		_ = json.Unmarshal(e.Photos, &resp.Photos)
	}
	if e.Vehicle != nil {
		resp.LicensePlate = e.Vehicle.LicensePlate
	}
	if e.Workshop != nil {
		resp.WorkshopName = e.Workshop.Name
	}
	if e.CreatedBy != nil {
		resp.CreatedBy = userToRef(e.CreatedBy)
	}
	if e.KeyControl != nil {
		resp.KeyLocation = &e.KeyControl.KeyLocation
	}
	return resp
}
