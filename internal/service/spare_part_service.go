package service

import (
	"context"
	"strings"
	"time"

	"fleetmaint/internal/dto"
	"fleetmaint/internal/model"
	"fleetmaint/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SparePartService owns spare-part stock and its append-only movement ledger.
// Every stock-affecting path writes the stock change and exactly one movement
// row in a single transaction, so replaying the ledger always reproduces the
// current stock.
type SparePartService interface {
	Create(ctx context.Context, req dto.CreateSparePartRequest) (*dto.SparePartResponse, error)
	GetAll(ctx context.Context, filter dto.SparePartFilter) (*dto.SparePartListResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.SparePartResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateSparePartRequest) (*dto.SparePartResponse, error)
	AdjustStock(ctx context.Context, id uuid.UUID, req dto.AdjustStockRequest) (*dto.SparePartResponse, error)
	RequestForWorkOrder(ctx context.Context, req dto.RequestSparePartRequest) (*dto.SparePartRequestResponse, error)
	DeliverForWorkOrder(ctx context.Context, requestID uuid.UUID, quantityDelivered int) (*dto.SparePartResponse, error)
	GetLowStock(ctx context.Context) ([]dto.SparePartResponse, error)
	GetStats(ctx context.Context) (*dto.SparePartStatsResponse, error)
}

type sparePartService struct {
	repo      repository.SparePartRepository
	orderRepo repository.WorkOrderRepository
	rdb       *redis.Client
}

func NewSparePartService(repo repository.SparePartRepository, orderRepo repository.WorkOrderRepository, rdb *redis.Client) SparePartService {
	return &sparePartService{repo: repo, orderRepo: orderRepo, rdb: rdb}
}

// ── Create ───────────────────────────────────────────────────────────────────

func (s *sparePartService) Create(ctx context.Context, req dto.CreateSparePartRequest) (*dto.SparePartResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	if _, err := s.repo.FindByCode(ctx, code); err == nil {
		return nil, ErrDuplicateCode
	}

	part := &model.SparePart{
		Code:          code,
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		UnitOfMeasure: req.UnitOfMeasure,
		UnitPrice:     req.UnitPrice,
		CurrentStock:  req.CurrentStock,
		MinStock:      req.MinStock,
		MaxStock:      req.MaxStock,
		Location:      req.Location,
		Activo:        true,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, part); err != nil {
			return err
		}
		// The ledger starts at the initial stock, never implicit.
		if req.CurrentStock > 0 {
			return s.repo.CreateMovementTx(tx, &model.SparePartMovement{
				SparePartID:   part.ID,
				MovementType:  model.MovementEntrada,
				Quantity:      req.CurrentStock,
				PreviousStock: 0,
				NewStock:      req.CurrentStock,
				Reason:        "Stock inicial",
			})
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.GetByID(ctx, part.ID)
}

// ── Reads ────────────────────────────────────────────────────────────────────

func (s *sparePartService) GetAll(ctx context.Context, filter dto.SparePartFilter) (*dto.SparePartListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	if filter.SortBy == "" {
		filter.SortBy = "name"
	}
	if filter.SortOrder == "" {
		filter.SortOrder = "asc"
	}

	parts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.SparePartResponse, 0, len(parts))
	for i := range parts {
		items = append(items, *sparePartToResponse(&parts[i]))
	}
	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &dto.SparePartListResponse{
		Data:       items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *sparePartService) GetByID(ctx context.Context, id uuid.UUID) (*dto.SparePartResponse, error) {
	part, err := s.repo.FindHydrated(ctx, id)
	if err != nil {
		return nil, ErrSparePartNotFound
	}
	return sparePartToResponse(part), nil
}

// ── Update ───────────────────────────────────────────────────────────────────
// Update never touches CurrentStock — stock only moves through AdjustStock and
// DeliverForWorkOrder so the ledger stays complete.

func (s *sparePartService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateSparePartRequest) (*dto.SparePartResponse, error) {
	part, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrSparePartNotFound
	}

	if req.Name != nil {
		part.Name = *req.Name
	}
	if req.Description != nil {
		part.Description = req.Description
	}
	if req.Category != nil {
		part.Category = *req.Category
	}
	if req.UnitOfMeasure != nil {
		part.UnitOfMeasure = *req.UnitOfMeasure
	}
	if req.UnitPrice != nil {
		part.UnitPrice = *req.UnitPrice
	}
	if req.MinStock != nil {
		part.MinStock = *req.MinStock
	}
	if req.MaxStock != nil {
		part.MaxStock = *req.MaxStock
	}
	if req.Location != nil {
		part.Location = req.Location
	}
	if req.Activo != nil {
		part.Activo = *req.Activo
	}

	if err := s.repo.Update(ctx, part); err != nil {
		return nil, err
	}
	s.invalidateConsulta(ctx, part.Code)
	return s.GetByID(ctx, id)
}

// ── AdjustStock ──────────────────────────────────────────────────────────────
// entrada adds, salida subtracts (guarded so stock never goes negative),
// ajuste sets an absolute target and records |target - previous| as quantity.

func (s *sparePartService) AdjustStock(ctx context.Context, id uuid.UUID, req dto.AdjustStockRequest) (*dto.SparePartResponse, error) {
	var code string
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		part, err := s.repo.FindByIDForUpdate(tx, id)
		if err != nil {
			return ErrSparePartNotFound
		}
		code = part.Code

		previous := part.CurrentStock
		var newStock, movQty int

		switch req.MovementType {
		case model.MovementEntrada:
			newStock = previous + req.Quantity
			movQty = req.Quantity
			if err := s.repo.IncrementStockTx(tx, id, req.Quantity); err != nil {
				return err
			}
		case model.MovementSalida:
			rows, err := s.repo.DecrementStockTx(tx, id, req.Quantity)
			if err != nil {
				return err
			}
			if rows == 0 {
				return ErrInsufficientStock
			}
			newStock = previous - req.Quantity
			movQty = req.Quantity
		case model.MovementAjuste:
			newStock = req.Quantity
			movQty = req.Quantity - previous
			if movQty < 0 {
				movQty = -movQty
			}
			if err := s.repo.SetStockTx(tx, id, newStock); err != nil {
				return err
			}
		default:
			return ErrInvalidMovementType
		}

		return s.repo.CreateMovementTx(tx, &model.SparePartMovement{
			SparePartID:   id,
			MovementType:  req.MovementType,
			Quantity:      movQty,
			PreviousStock: previous,
			NewStock:      newStock,
			Reason:        req.Reason,
			Reference:     req.Reference,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	s.invalidateConsulta(ctx, code)
	return s.GetByID(ctx, id)
}

// ── Work-order requests ──────────────────────────────────────────────────────

// RequestForWorkOrder creates a pending request. The stock check here is
// advisory only — nothing is held; the real decrement (and its guard) happens
// at delivery time.
func (s *sparePartService) RequestForWorkOrder(ctx context.Context, req dto.RequestSparePartRequest) (*dto.SparePartRequestResponse, error) {
	orderID, err := uuid.Parse(req.WorkOrderID)
	if err != nil {
		return nil, ErrWorkOrderNotFound
	}
	partID, err := uuid.Parse(req.SparePartID)
	if err != nil {
		return nil, ErrSparePartNotFound
	}

	if _, err := s.orderRepo.FindByID(ctx, orderID); err != nil {
		return nil, ErrWorkOrderNotFound
	}
	part, err := s.repo.FindByID(ctx, partID)
	if err != nil {
		return nil, ErrSparePartNotFound
	}
	if part.CurrentStock < req.Quantity {
		return nil, ErrInsufficientStock
	}

	request := &model.WorkOrderSparePart{
		WorkOrderID:       orderID,
		SparePartID:       partID,
		QuantityRequested: req.Quantity,
		Status:            model.RequestPendiente,
		RequestedAt:       time.Now(),
		Observations:      req.Observations,
	}
	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, err
	}
	request.SparePart = part
	resp := requestToResponse(request)
	return &resp, nil
}

func (s *sparePartService) DeliverForWorkOrder(ctx context.Context, requestID uuid.UUID, quantityDelivered int) (*dto.SparePartResponse, error) {
	var partID uuid.UUID
	var code string

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		request, err := s.repo.FindRequestForUpdate(tx, requestID)
		if err != nil {
			return ErrRequestNotFound
		}
		if request.Status == model.RequestEntregado {
			return ErrAlreadyDelivered
		}
		partID = request.SparePartID

		part, err := s.repo.FindByIDForUpdate(tx, partID)
		if err != nil {
			return ErrSparePartNotFound
		}
		code = part.Code

		rows, err := s.repo.DecrementStockTx(tx, partID, quantityDelivered)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInsufficientStock
		}

		now := time.Now()
		if err := s.repo.UpdateRequestTx(tx, requestID, map[string]interface{}{
			"status":             model.RequestEntregado,
			"quantity_delivered": quantityDelivered,
			"delivered_at":       now,
		}); err != nil {
			return err
		}

		reference := s.orderReference(ctx, request.WorkOrderID)
		return s.repo.CreateMovementTx(tx, &model.SparePartMovement{
			SparePartID:   partID,
			MovementType:  model.MovementSalida,
			Quantity:      quantityDelivered,
			PreviousStock: part.CurrentStock,
			NewStock:      part.CurrentStock - quantityDelivered,
			Reason:        "Entrega para orden de trabajo",
			Reference:     reference,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	s.invalidateConsulta(ctx, code)
	return s.GetByID(ctx, partID)
}

// orderReference resolves the human-readable order number for the movement
// reference; a failed lookup leaves the reference empty rather than failing
// the delivery.
func (s *sparePartService) orderReference(ctx context.Context, orderID uuid.UUID) *string {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil
	}
	return &order.OrderNumber
}

// ── Aggregates ───────────────────────────────────────────────────────────────

func (s *sparePartService) GetLowStock(ctx context.Context) ([]dto.SparePartResponse, error) {
	parts, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SparePartResponse, 0, len(parts))
	for i := range parts {
		out = append(out, *sparePartToResponse(&parts[i]))
	}
	return out, nil
}

func (s *sparePartService) GetStats(ctx context.Context) (*dto.SparePartStatsResponse, error) {
	return s.repo.Stats(ctx)
}

// ── Cache ────────────────────────────────────────────────────────────────────

// invalidateConsulta drops the public stock-check cache entry after any write.
// Best effort: a stale entry only survives until its TTL.
func (s *sparePartService) invalidateConsulta(ctx context.Context, code string) {
	if s.rdb == nil || code == "" {
		return
	}
	_ = s.rdb.Del(ctx, "stock:"+code).Err()
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func sparePartToResponse(p *model.SparePart) *dto.SparePartResponse {
	resp := &dto.SparePartResponse{
		ID:            p.ID.String(),
		Code:          p.Code,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		UnitOfMeasure: p.UnitOfMeasure,
		UnitPrice:     p.UnitPrice,
		CurrentStock:  p.CurrentStock,
		MinStock:      p.MinStock,
		MaxStock:      p.MaxStock,
		Location:      p.Location,
		Activo:        p.Activo,
	}
	for i := range p.Movements {
		m := &p.Movements[i]
		resp.Movements = append(resp.Movements, dto.MovementResponse{
			ID:            m.ID.String(),
			MovementType:  m.MovementType,
			Quantity:      m.Quantity,
			PreviousStock: m.PreviousStock,
			NewStock:      m.NewStock,
			Reason:        m.Reason,
			Reference:     m.Reference,
			CreatedAt:     m.CreatedAt.Format(time.RFC3339),
		})
	}
	for i := range p.WorkOrders {
		resp.WorkOrders = append(resp.WorkOrders, requestToResponse(&p.WorkOrders[i]))
	}
	return resp
}
