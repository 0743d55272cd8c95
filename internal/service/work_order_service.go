package service

import (
	"context"
	"time"

	"fleetmaint/internal/dto"
	"fleetmaint/internal/model"
	"fleetmaint/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WorkOrderService owns the work-order lifecycle: creation with a unique order
// number, the status machine with started/completed stamping, pause intervals,
// photos, and dashboard stats.
type WorkOrderService interface {
	Create(ctx context.Context, createdByID uuid.UUID, req dto.CreateWorkOrderRequest) (*dto.WorkOrderResponse, error)
	GetAll(ctx context.Context, filter dto.WorkOrderFilter) (*dto.WorkOrderListResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.WorkOrderResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateWorkOrderRequest) (*dto.WorkOrderResponse, error)
	ChangeStatus(ctx context.Context, id, actorID uuid.UUID, req dto.ChangeStatusRequest) (*dto.WorkOrderResponse, error)
	Pause(ctx context.Context, id uuid.UUID, req dto.PauseWorkOrderRequest) (*dto.WorkOrderResponse, error)
	Resume(ctx context.Context, id uuid.UUID) (*dto.WorkOrderResponse, error)
	AddPhoto(ctx context.Context, id uuid.UUID, req dto.AddPhotoRequest) (*dto.PhotoResponse, error)
	GetStats(ctx context.Context, workshopID *uuid.UUID) (*dto.WorkOrderStatsResponse, error)
}

type workOrderService struct {
	repo         repository.WorkOrderRepository
	vehicleRepo  repository.VehicleRepository
	entryRepo    repository.VehicleEntryRepository
	workshopRepo repository.WorkshopRepository
	usuarioRepo  repository.UsuarioRepository
}

func NewWorkOrderService(
	repo repository.WorkOrderRepository,
	vehicleRepo repository.VehicleRepository,
	entryRepo repository.VehicleEntryRepository,
	workshopRepo repository.WorkshopRepository,
	usuarioRepo repository.UsuarioRepository,
) WorkOrderService {
	return &workOrderService{
		repo:         repo,
		vehicleRepo:  vehicleRepo,
		entryRepo:    entryRepo,
		workshopRepo: workshopRepo,
		usuarioRepo:  usuarioRepo,
	}
}

// ── Create ───────────────────────────────────────────────────────────────────

func (s *workOrderService) Create(ctx context.Context, createdByID uuid.UUID, req dto.CreateWorkOrderRequest) (*dto.WorkOrderResponse, error) {
	vehicleID, err := uuid.Parse(req.VehicleID)
	if err != nil {
		return nil, ErrVehicleNotFound
	}
	entryID, err := uuid.Parse(req.EntryID)
	if err != nil {
		return nil, ErrEntryNotFound
	}
	workshopID, err := uuid.Parse(req.WorkshopID)
	if err != nil {
		return nil, ErrWorkshopNotFound
	}

	if _, err := s.vehicleRepo.FindByID(ctx, vehicleID); err != nil {
		return nil, ErrVehicleNotFound
	}
	if _, err := s.entryRepo.FindByID(ctx, entryID); err != nil {
		return nil, ErrEntryNotFound
	}
	if _, err := s.workshopRepo.FindByID(ctx, workshopID); err != nil {
		return nil, ErrWorkshopNotFound
	}

	orderNumber, err := uniqueCode("OT", func(code string) bool {
		_, findErr := s.repo.FindByOrderNumber(ctx, code)
		return findErr == nil
	})
	if err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedia
	}

	assignedToID, err := s.resolveAssignee(ctx, req.AssignedToID)
	if err != nil {
		return nil, err
	}

	order := &model.WorkOrder{
		OrderNumber:    orderNumber,
		VehicleID:      vehicleID,
		EntryID:        entryID,
		WorkshopID:     workshopID,
		WorkType:       req.WorkType,
		Priority:       priority,
		Description:    req.Description,
		CurrentStatus:  model.StatusPendiente,
		EstimatedHours: req.EstimatedHours,
		AssignedToID:   assignedToID,
		CreatedByID:    createdByID,
	}

	obs := "Orden creada"
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, order); err != nil {
			return err
		}
		return s.repo.CreateStatusTx(tx, &model.WorkOrderStatus{
			WorkOrderID:  order.ID,
			Status:       model.StatusPendiente,
			Observations: &obs,
			ChangedByID:  createdByID,
			ChangedAt:    time.Now(),
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.GetByID(ctx, order.ID)
}

// resolveAssignee validates that the referenced mechanic exists before an
// order is created or reassigned.
func (s *workOrderService) resolveAssignee(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if _, err := s.usuarioRepo.FindByID(ctx, id); err != nil {
		return nil, ErrUserNotFound
	}
	return &id, nil
}

// ── Reads ────────────────────────────────────────────────────────────────────

func (s *workOrderService) GetAll(ctx context.Context, filter dto.WorkOrderFilter) (*dto.WorkOrderListResponse, error) {
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

	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.WorkOrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *workOrderToResponse(&orders[i]))
	}
	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &dto.WorkOrderListResponse{
		Data:       items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *workOrderService) GetByID(ctx context.Context, id uuid.UUID) (*dto.WorkOrderResponse, error) {
	order, err := s.repo.FindHydrated(ctx, id)
	if err != nil {
		return nil, ErrWorkOrderNotFound
	}
	return workOrderToResponse(order), nil
}

// ── Update ───────────────────────────────────────────────────────────────────

func (s *workOrderService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateWorkOrderRequest) (*dto.WorkOrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrWorkOrderNotFound
	}

	if req.WorkType != nil {
		order.WorkType = *req.WorkType
	}
	if req.Priority != nil {
		order.Priority = *req.Priority
	}
	if req.Description != nil {
		order.Description = *req.Description
	}
	if req.EstimatedHours != nil {
		order.EstimatedHours = req.EstimatedHours
	}
	if req.AssignedToID != nil {
		assignedID, resolveErr := s.resolveAssignee(ctx, req.AssignedToID)
		if resolveErr != nil {
			return nil, resolveErr
		}
		order.AssignedToID = assignedID
	}

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// ── ChangeStatus ─────────────────────────────────────────────────────────────
// The transition graph is deliberately permissive: any status string the caller
// supplies is accepted, matching the behavior the workshops rely on (e.g.
// reopening a cancelled order). What IS guaranteed: started_at is stamped only
// on the first en_progreso, completed_at / total_hours only on the first
// completado, and every change appends exactly one audit event in the same
// transaction.

func (s *workOrderService) ChangeStatus(ctx context.Context, id, actorID uuid.UUID, req dto.ChangeStatusRequest) (*dto.WorkOrderResponse, error) {
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		order, err := s.repo.FindByIDForUpdate(tx, id)
		if err != nil {
			return ErrWorkOrderNotFound
		}

		now := time.Now()
		fields := map[string]interface{}{"current_status": req.Status}

		if req.Status == model.StatusEnProgreso && order.StartedAt == nil {
			fields["started_at"] = now
		}
		if req.Status == model.StatusCompletado && order.CompletedAt == nil {
			fields["completed_at"] = now
			if order.StartedAt != nil {
				total := decimal.NewFromFloat(now.Sub(*order.StartedAt).Hours()).Round(2)
				fields["total_hours"] = total
			}
		}

		if err := s.repo.UpdateFieldsTx(tx, id, fields); err != nil {
			return err
		}
		return s.repo.CreateStatusTx(tx, &model.WorkOrderStatus{
			WorkOrderID:  id,
			Status:       req.Status,
			Observations: req.Observations,
			ChangedByID:  actorID,
			ChangedAt:    now,
		})
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.GetByID(ctx, id)
}

// ── Pause / Resume ───────────────────────────────────────────────────────────

func (s *workOrderService) Pause(ctx context.Context, id uuid.UUID, req dto.PauseWorkOrderRequest) (*dto.WorkOrderResponse, error) {
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.repo.FindByIDForUpdate(tx, id); err != nil {
			return ErrWorkOrderNotFound
		}
		if _, err := s.repo.FindOpenPauseTx(tx, id); err == nil {
			return ErrAlreadyPaused
		}
		if err := s.repo.CreatePauseTx(tx, &model.WorkPause{
			WorkOrderID:  id,
			Reason:       req.Reason,
			Observations: req.Observations,
			PausedAt:     time.Now(),
		}); err != nil {
			return err
		}
		return s.repo.UpdateFieldsTx(tx, id, map[string]interface{}{
			"current_status": model.StatusPausado,
		})
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.GetByID(ctx, id)
}

func (s *workOrderService) Resume(ctx context.Context, id uuid.UUID) (*dto.WorkOrderResponse, error) {
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.repo.FindByIDForUpdate(tx, id); err != nil {
			return ErrWorkOrderNotFound
		}
		pause, err := s.repo.FindOpenPauseTx(tx, id)
		if err != nil {
			return ErrNotPaused
		}

		now := time.Now()
		duration := int(now.Sub(pause.PausedAt).Seconds()) / 60
		if err := s.repo.ClosePauseTx(tx, pause.ID, map[string]interface{}{
			"resumed_at": now,
			"duration":   duration,
		}); err != nil {
			return err
		}
		return s.repo.UpdateFieldsTx(tx, id, map[string]interface{}{
			"current_status": model.StatusEnProgreso,
		})
	})
	if txErr != nil {
		return nil, txErr
	}
	return s.GetByID(ctx, id)
}

// ── Photos ───────────────────────────────────────────────────────────────────

func (s *workOrderService) AddPhoto(ctx context.Context, id uuid.UUID, req dto.AddPhotoRequest) (*dto.PhotoResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, ErrWorkOrderNotFound
	}

	photoType := req.PhotoType
	if photoType == "" {
		photoType = "general"
	}
	photo := &model.WorkOrderPhoto{
		WorkOrderID: id,
		URL:         req.URL,
		Description: req.Description,
		PhotoType:   photoType,
	}
	if err := s.repo.CreatePhoto(ctx, photo); err != nil {
		return nil, err
	}
	resp := photoToResponse(photo)
	return &resp, nil
}

// ── Stats ────────────────────────────────────────────────────────────────────

func (s *workOrderService) GetStats(ctx context.Context, workshopID *uuid.UUID) (*dto.WorkOrderStatsResponse, error) {
	byStatus, err := s.repo.CountByStatus(ctx, workshopID)
	if err != nil {
		return nil, err
	}
	byPriority, err := s.repo.CountByPriority(ctx, workshopID)
	if err != nil {
		return nil, err
	}

	stats := &dto.WorkOrderStatsResponse{
		Pending:    byStatus[model.StatusPendiente],
		InProgress: byStatus[model.StatusEnProgreso],
		Paused:     byStatus[model.StatusPausado],
		Completed:  byStatus[model.StatusCompletado],
		Cancelled:  byStatus[model.StatusCancelado],
		ByPriority: byPriority,
	}
	for _, n := range byStatus {
		stats.Total += n
	}
	return stats, nil
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func workOrderToResponse(o *model.WorkOrder) *dto.WorkOrderResponse {
	resp := &dto.WorkOrderResponse{
		ID:             o.ID.String(),
		OrderNumber:    o.OrderNumber,
		VehicleID:      o.VehicleID.String(),
		EntryID:        o.EntryID.String(),
		WorkshopID:     o.WorkshopID.String(),
		WorkType:       o.WorkType,
		Priority:       o.Priority,
		Description:    o.Description,
		CurrentStatus:  o.CurrentStatus,
		StartedAt:      formatTimePtr(o.StartedAt),
		CompletedAt:    formatTimePtr(o.CompletedAt),
		EstimatedHours: o.EstimatedHours,
		TotalHours:     o.TotalHours,
		CreatedAt:      o.CreatedAt.Format(time.RFC3339),
	}
	if o.Vehicle != nil {
		resp.LicensePlate = o.Vehicle.LicensePlate
	}
	if o.Workshop != nil {
		resp.WorkshopName = o.Workshop.Name
	}
	if o.AssignedTo != nil {
		resp.AssignedTo = userToRef(o.AssignedTo)
	}
	if o.CreatedBy != nil {
		resp.CreatedBy = userToRef(o.CreatedBy)
	}
	for i := range o.Statuses {
		st := &o.Statuses[i]
		resp.Statuses = append(resp.Statuses, dto.StatusEventResponse{
			Status:       st.Status,
			Observations: st.Observations,
			ChangedByID:  st.ChangedByID.String(),
			ChangedAt:    st.ChangedAt.Format(time.RFC3339),
		})
	}
	for i := range o.Photos {
		resp.Photos = append(resp.Photos, photoToResponse(&o.Photos[i]))
	}
	for i := range o.SpareParts {
		resp.SpareParts = append(resp.SpareParts, requestToResponse(&o.SpareParts[i]))
	}
	for i := range o.Pauses {
		p := &o.Pauses[i]
		resp.Pauses = append(resp.Pauses, dto.PauseResponse{
			ID:           p.ID.String(),
			Reason:       p.Reason,
			Observations: p.Observations,
			PausedAt:     p.PausedAt.Format(time.RFC3339),
			ResumedAt:    formatTimePtr(p.ResumedAt),
			Duration:     p.Duration,
		})
	}
	return resp
}

func photoToResponse(p *model.WorkOrderPhoto) dto.PhotoResponse {
	return dto.PhotoResponse{
		ID:          p.ID.String(),
		URL:         p.URL,
		Description: p.Description,
		PhotoType:   p.PhotoType,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

func requestToResponse(r *model.WorkOrderSparePart) dto.SparePartRequestResponse {
	resp := dto.SparePartRequestResponse{
		ID:                r.ID.String(),
		SparePartID:       r.SparePartID.String(),
		QuantityRequested: r.QuantityRequested,
		QuantityDelivered: r.QuantityDelivered,
		Status:            r.Status,
		RequestedAt:       r.RequestedAt.Format(time.RFC3339),
		DeliveredAt:       formatTimePtr(r.DeliveredAt),
		Observations:      r.Observations,
	}
	if r.SparePart != nil {
		resp.SparePartCode = r.SparePart.Code
		resp.SparePartName = r.SparePart.Name
	}
	return resp
}

func userToRef(u *model.Usuario) *dto.UserRef {
	return &dto.UserRef{
		ID:        u.ID.String(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
