package service

import (
	"context"
	"strings"
	"time"

	"fleetmaint/internal/dto"
	"fleetmaint/internal/model"
	"fleetmaint/internal/repository"

	"github.com/google/uuid"
)

type VehicleService interface {
	Create(ctx context.Context, req dto.CreateVehicleRequest) (*dto.VehicleResponse, error)
	GetAll(ctx context.Context, filter dto.VehicleFilter) (*dto.VehicleListResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.VehicleResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateVehicleRequest) (*dto.VehicleResponse, error)
}

type vehicleService struct {
	repo repository.VehicleRepository
}

func NewVehicleService(repo repository.VehicleRepository) VehicleService {
	return &vehicleService{repo: repo}
}

func (s *vehicleService) Create(ctx context.Context, req dto.CreateVehicleRequest) (*dto.VehicleResponse, error) {
	plate := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(req.LicensePlate), " ", ""))

	if _, err := s.repo.FindByPlate(ctx, plate); err == nil {
		return nil, ErrDuplicatePlate
	}

	var regionID *uuid.UUID
	if req.RegionID != nil {
		id, err := uuid.Parse(*req.RegionID)
		if err != nil {
			return nil, ErrVehicleNotFound
		}
		regionID = &id
	}

	v := &model.Vehicle{
		LicensePlate: plate,
		Brand:        req.Brand,
		Model:        req.Model,
		Year:         req.Year,
		VehicleType:  req.VehicleType,
		FleetNumber:  req.FleetNumber,
		VIN:          req.VIN,
		RegionID:     regionID,
		Status:       "operativo",
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, v.ID)
}

func (s *vehicleService) GetAll(ctx context.Context, filter dto.VehicleFilter) (*dto.VehicleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	if filter.SortBy == "" {
		filter.SortBy = "created_at"
	}
	if filter.SortOrder == "" {
		filter.SortOrder = "desc"
	}

	vehicles, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VehicleResponse, 0, len(vehicles))
	for i := range vehicles {
		items = append(items, *vehicleToResponse(&vehicles[i]))
	}
	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &dto.VehicleListResponse{
		Data:       items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *vehicleService) GetByID(ctx context.Context, id uuid.UUID) (*dto.VehicleResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrVehicleNotFound
	}
	return vehicleToResponse(v), nil
}

func (s *vehicleService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateVehicleRequest) (*dto.VehicleResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrVehicleNotFound
	}

	if req.Brand != nil {
		v.Brand = *req.Brand
	}
	if req.Model != nil {
		v.Model = *req.Model
	}
	if req.Year != nil {
		v.Year = *req.Year
	}
	if req.VehicleType != nil {
		v.VehicleType = *req.VehicleType
	}
	if req.FleetNumber != nil {
		v.FleetNumber = req.FleetNumber
	}
	if req.VIN != nil {
		v.VIN = req.VIN
	}
	if req.RegionID != nil {
		regionID, parseErr := uuid.Parse(*req.RegionID)
		if parseErr != nil {
			return nil, ErrVehicleNotFound
		}
		v.RegionID = &regionID
	}
	if req.Status != nil {
		v.Status = *req.Status
	}

	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func vehicleToResponse(v *model.Vehicle) *dto.VehicleResponse {
	resp := &dto.VehicleResponse{
		ID:           v.ID.String(),
		LicensePlate: v.LicensePlate,
		Brand:        v.Brand,
		Model:        v.Model,
		Year:         v.Year,
		VehicleType:  v.VehicleType,
		FleetNumber:  v.FleetNumber,
		VIN:          v.VIN,
		Status:       v.Status,
		CreatedAt:    v.CreatedAt.Format(time.RFC3339),
	}
	if v.RegionID != nil {
		id := v.RegionID.String()
		resp.RegionID = &id
	}
	if v.Region != nil {
		resp.RegionName = v.Region.Name
	}
	return resp
}
