package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fleetmaint/internal/dto"
	"fleetmaint/internal/model"
	"fleetmaint/internal/repository"
	"fleetmaint/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory SparePartRepository stub ───────────────────────────────────────

type stubSparePartRepo struct {
	parts     map[uuid.UUID]*model.SparePart
	movements []model.SparePartMovement
	requests  map[uuid.UUID]*model.WorkOrderSparePart
}

func newStubSparePartRepo() *stubSparePartRepo {
	return &stubSparePartRepo{
		parts:    make(map[uuid.UUID]*model.SparePart),
		requests: make(map[uuid.UUID]*model.WorkOrderSparePart),
	}
}

func (r *stubSparePartRepo) Create(_ context.Context, _ *gorm.DB, p *model.SparePart) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.parts[p.ID] = p
	return nil
}

func (r *stubSparePartRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SparePart, error) {
	p, ok := r.parts[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return p, nil
}

func (r *stubSparePartRepo) FindByCode(_ context.Context, code string) (*model.SparePart, error) {
	for _, p := range r.parts {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubSparePartRepo) FindHydrated(_ context.Context, id uuid.UUID) (*model.SparePart, error) {
	p, ok := r.parts[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	hydrated := *p
	hydrated.Movements = nil
	for _, m := range r.movements {
		if m.SparePartID == id {
			hydrated.Movements = append(hydrated.Movements, m)
		}
	}
	return &hydrated, nil
}

func (r *stubSparePartRepo) List(_ context.Context, _ dto.SparePartFilter) ([]model.SparePart, int64, error) {
	var out []model.SparePart
	for _, p := range r.parts {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubSparePartRepo) Update(_ context.Context, p *model.SparePart) error {
	r.parts[p.ID] = p
	return nil
}

func (r *stubSparePartRepo) ListLowStock(_ context.Context) ([]model.SparePart, error) {
	var out []model.SparePart
	for _, p := range r.parts {
		if p.Activo && p.CurrentStock <= p.MinStock {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubSparePartRepo) Stats(_ context.Context) (*dto.SparePartStatsResponse, error) {
	stats := &dto.SparePartStatsResponse{}
	for _, p := range r.parts {
		stats.Total++
		if p.Activo {
			stats.Active++
		}
		if p.CurrentStock == 0 {
			stats.OutOfStock++
		} else if p.CurrentStock <= p.MinStock {
			stats.LowStock++
		}
		stats.TotalItems += int64(p.CurrentStock)
	}
	return stats, nil
}

func (r *stubSparePartRepo) ListMovements(_ context.Context, sparePartID uuid.UUID, limit int) ([]model.SparePartMovement, error) {
	var out []model.SparePartMovement
	for _, m := range r.movements {
		if m.SparePartID == sparePartID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubSparePartRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.SparePart, error) {
	p, ok := r.parts[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return p, nil
}

// Mirrors the conditional UPDATE: zero rows affected when the decrement would
// go negative.
func (r *stubSparePartRepo) DecrementStockTx(_ *gorm.DB, id uuid.UUID, qty int) (int64, error) {
	p, ok := r.parts[id]
	if !ok {
		return 0, errors.New("record not found")
	}
	if p.CurrentStock < qty {
		return 0, nil
	}
	p.CurrentStock -= qty
	return 1, nil
}

func (r *stubSparePartRepo) IncrementStockTx(_ *gorm.DB, id uuid.UUID, qty int) error {
	p, ok := r.parts[id]
	if !ok {
		return errors.New("record not found")
	}
	p.CurrentStock += qty
	return nil
}

func (r *stubSparePartRepo) SetStockTx(_ *gorm.DB, id uuid.UUID, stock int) error {
	p, ok := r.parts[id]
	if !ok {
		return errors.New("record not found")
	}
	p.CurrentStock = stock
	return nil
}

func (r *stubSparePartRepo) CreateMovementTx(_ *gorm.DB, m *model.SparePartMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubSparePartRepo) CreateRequest(_ context.Context, req *model.WorkOrderSparePart) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	r.requests[req.ID] = req
	return nil
}

func (r *stubSparePartRepo) FindRequestByID(_ context.Context, id uuid.UUID) (*model.WorkOrderSparePart, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return req, nil
}

func (r *stubSparePartRepo) FindRequestForUpdate(_ *gorm.DB, id uuid.UUID) (*model.WorkOrderSparePart, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return req, nil
}

func (r *stubSparePartRepo) UpdateRequestTx(_ *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	req, ok := r.requests[id]
	if !ok {
		return errors.New("record not found")
	}
	if v, ok := fields["status"]; ok {
		req.Status = v.(string)
	}
	if v, ok := fields["quantity_delivered"]; ok {
		q := v.(int)
		req.QuantityDelivered = &q
	}
	if v, ok := fields["delivered_at"]; ok {
		t := v.(time.Time)
		req.DeliveredAt = &t
	}
	return nil
}

func (r *stubSparePartRepo) DB() *gorm.DB { return nil }

var _ repository.SparePartRepository = (*stubSparePartRepo)(nil)

// ── Fixture ──────────────────────────────────────────────────────────────────

type partFixture struct {
	repo      *stubSparePartRepo
	orderRepo *stubWorkOrderRepo
	svc       service.SparePartService
}

func newPartFixture() *partFixture {
	repo := newStubSparePartRepo()
	orderRepo := newStubWorkOrderRepo()
	return &partFixture{
		repo:      repo,
		orderRepo: orderRepo,
		svc:       service.NewSparePartService(repo, orderRepo, nil), // nil Redis — invalidation is best-effort
	}
}

func (f *partFixture) createPart(t *testing.T, code string, stock int) *dto.SparePartResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), dto.CreateSparePartRequest{
		Code:          code,
		Name:          "Filtro de aceite",
		Category:      "filtros",
		UnitOfMeasure: "unidad",
		UnitPrice:     decimal.NewFromFloat(12500),
		CurrentStock:  stock,
		MinStock:      2,
		MaxStock:      50,
	})
	require.NoError(t, err)
	return resp
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestCrearRepuestoConStockInicial(t *testing.T) {
	f := newPartFixture()

	resp := f.createPart(t, "fil-001", 10)

	assert.Equal(t, "FIL-001", resp.Code)
	assert.Equal(t, 10, resp.CurrentStock)

	// The ledger opens with an explicit entrada for the initial stock.
	require.Len(t, resp.Movements, 1)
	assert.Equal(t, model.MovementEntrada, resp.Movements[0].MovementType)
	assert.Equal(t, 0, resp.Movements[0].PreviousStock)
	assert.Equal(t, 10, resp.Movements[0].NewStock)
	assert.Equal(t, "Stock inicial", resp.Movements[0].Reason)
}

func TestCrearRepuestoSinStockNoAbreLedger(t *testing.T) {
	f := newPartFixture()

	resp := f.createPart(t, "FIL-002", 0)
	assert.Empty(t, resp.Movements)
}

func TestCrearRepuestoCodigoDuplicado(t *testing.T) {
	f := newPartFixture()
	f.createPart(t, "FIL-003", 5)

	_, err := f.svc.Create(context.Background(), dto.CreateSparePartRequest{
		Code:          "fil-003", // same code, different case
		Name:          "Otro filtro",
		Category:      "filtros",
		UnitOfMeasure: "unidad",
		UnitPrice:     decimal.NewFromFloat(9900),
	})
	assert.ErrorIs(t, err, service.ErrDuplicateCode)
}

func TestAjusteSalida(t *testing.T) {
	f := newPartFixture()
	part := f.createPart(t, "FIL-010", 10)
	id := uuid.MustParse(part.ID)

	resp, err := f.svc.AdjustStock(context.Background(), id, dto.AdjustStockRequest{
		Quantity:     3,
		MovementType: model.MovementSalida,
		Reason:       "Consumo interno",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, resp.CurrentStock)

	require.Len(t, resp.Movements, 2)
	last := resp.Movements[1]
	assert.Equal(t, model.MovementSalida, last.MovementType)
	assert.Equal(t, 3, last.Quantity)
	assert.Equal(t, 10, last.PreviousStock)
	assert.Equal(t, 7, last.NewStock)
}

func TestSalidaStockInsuficiente(t *testing.T) {
	f := newPartFixture()
	part := f.createPart(t, "FIL-011", 10)
	id := uuid.MustParse(part.ID)

	_, err := f.svc.AdjustStock(context.Background(), id, dto.AdjustStockRequest{
		Quantity:     11,
		MovementType: model.MovementSalida,
		Reason:       "Consumo interno",
	})
	assert.ErrorIs(t, err, service.ErrInsufficientStock)

	// Nothing was written: stock intact, no salida row in the ledger.
	assert.Equal(t, 10, f.repo.parts[id].CurrentStock)
	assert.Len(t, f.repo.movements, 1)
}

func TestAjusteAbsoluto(t *testing.T) {
	f := newPartFixture()
	part := f.createPart(t, "FIL-012", 10)
	id := uuid.MustParse(part.ID)

	resp, err := f.svc.AdjustStock(context.Background(), id, dto.AdjustStockRequest{
		Quantity:     4,
		MovementType: model.MovementAjuste,
		Reason:       "Conteo fisico",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.CurrentStock)

	last := resp.Movements[len(resp.Movements)-1]
	assert.Equal(t, model.MovementAjuste, last.MovementType)
	assert.Equal(t, 6, last.Quantity) // |4 - 10|
	assert.Equal(t, 10, last.PreviousStock)
	assert.Equal(t, 4, last.NewStock)
}

func TestLedgerReproduceStock(t *testing.T) {
	f := newPartFixture()
	part := f.createPart(t, "FIL-013", 20)
	id := uuid.MustParse(part.ID)

	ops := []dto.AdjustStockRequest{
		{Quantity: 5, MovementType: model.MovementSalida, Reason: "Consumo"},
		{Quantity: 12, MovementType: model.MovementEntrada, Reason: "Compra"},
		{Quantity: 30, MovementType: model.MovementAjuste, Reason: "Conteo"},
		{Quantity: 8, MovementType: model.MovementSalida, Reason: "Consumo"},
	}
	for _, op := range ops {
		_, err := f.svc.AdjustStock(context.Background(), id, op)
		require.NoError(t, err)
	}

	// Each movement chains from the previous one and the last row lands on
	// the current stock.
	movements, err := f.repo.ListMovements(context.Background(), id, 0)
	require.NoError(t, err)
	require.NotEmpty(t, movements)
	for i := 1; i < len(movements); i++ {
		assert.Equal(t, movements[i-1].NewStock, movements[i].PreviousStock)
	}
	assert.Equal(t, f.repo.parts[id].CurrentStock, movements[len(movements)-1].NewStock)
	assert.Equal(t, 22, f.repo.parts[id].CurrentStock)
}

func TestMovimientoInvalido(t *testing.T) {
	f := newPartFixture()
	part := f.createPart(t, "FIL-014", 10)
	id := uuid.MustParse(part.ID)

	_, err := f.svc.AdjustStock(context.Background(), id, dto.AdjustStockRequest{
		Quantity:     1,
		MovementType: "prestamo",
		Reason:       "No aplica",
	})
	assert.ErrorIs(t, err, service.ErrInvalidMovementType)
}

func TestSolicitarYEntregar(t *testing.T) {
	f := newPartFixture()
	part := f.createPart(t, "FIL-020", 5)
	partID := uuid.MustParse(part.ID)

	order := &model.WorkOrder{OrderNumber: "OT-20260815-0042", CurrentStatus: model.StatusEnProgreso}
	require.NoError(t, f.orderRepo.Create(context.Background(), nil, order))

	reqResp, err := f.svc.RequestForWorkOrder(context.Background(), dto.RequestSparePartRequest{
		WorkOrderID: order.ID.String(),
		SparePartID: part.ID,
		Quantity:    5,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RequestPendiente, reqResp.Status)

	// Requesting holds nothing.
	assert.Equal(t, 5, f.repo.parts[partID].CurrentStock)

	resp, err := f.svc.DeliverForWorkOrder(context.Background(), uuid.MustParse(reqResp.ID), 5)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.CurrentStock)

	request := f.repo.requests[uuid.MustParse(reqResp.ID)]
	assert.Equal(t, model.RequestEntregado, request.Status)
	require.NotNil(t, request.QuantityDelivered)
	assert.Equal(t, 5, *request.QuantityDelivered)
	require.NotNil(t, request.DeliveredAt)

	last := f.repo.movements[len(f.repo.movements)-1]
	assert.Equal(t, model.MovementSalida, last.MovementType)
	assert.Equal(t, "Entrega para orden de trabajo", last.Reason)
	require.NotNil(t, last.Reference)
	assert.Equal(t, "OT-20260815-0042", *last.Reference)
}

func TestEntregarDosVeces(t *testing.T) {
	f := newPartFixture()
	part := f.createPart(t, "FIL-021", 10)

	order := &model.WorkOrder{OrderNumber: "OT-20260815-0043"}
	require.NoError(t, f.orderRepo.Create(context.Background(), nil, order))

	reqResp, err := f.svc.RequestForWorkOrder(context.Background(), dto.RequestSparePartRequest{
		WorkOrderID: order.ID.String(),
		SparePartID: part.ID,
		Quantity:    2,
	})
	require.NoError(t, err)

	requestID := uuid.MustParse(reqResp.ID)
	_, err = f.svc.DeliverForWorkOrder(context.Background(), requestID, 2)
	require.NoError(t, err)

	_, err = f.svc.DeliverForWorkOrder(context.Background(), requestID, 2)
	assert.ErrorIs(t, err, service.ErrAlreadyDelivered)
}

func TestSolicitarStockInsuficiente(t *testing.T) {
	f := newPartFixture()
	part := f.createPart(t, "FIL-022", 3)

	order := &model.WorkOrder{OrderNumber: "OT-20260815-0044"}
	require.NoError(t, f.orderRepo.Create(context.Background(), nil, order))

	_, err := f.svc.RequestForWorkOrder(context.Background(), dto.RequestSparePartRequest{
		WorkOrderID: order.ID.String(),
		SparePartID: part.ID,
		Quantity:    4,
	})
	assert.ErrorIs(t, err, service.ErrInsufficientStock)
}

func TestEntregarMasDeLoDisponible(t *testing.T) {
	f := newPartFixture()
	part := f.createPart(t, "FIL-023", 3)
	partID := uuid.MustParse(part.ID)

	order := &model.WorkOrder{OrderNumber: "OT-20260815-0045"}
	require.NoError(t, f.orderRepo.Create(context.Background(), nil, order))

	reqResp, err := f.svc.RequestForWorkOrder(context.Background(), dto.RequestSparePartRequest{
		WorkOrderID: order.ID.String(),
		SparePartID: part.ID,
		Quantity:    3,
	})
	require.NoError(t, err)

	// Stock dropped between request and delivery.
	f.repo.parts[partID].CurrentStock = 1

	_, err = f.svc.DeliverForWorkOrder(context.Background(), uuid.MustParse(reqResp.ID), 3)
	assert.ErrorIs(t, err, service.ErrInsufficientStock)
	assert.Equal(t, model.RequestPendiente, f.repo.requests[uuid.MustParse(reqResp.ID)].Status)
}

func TestStockBajo(t *testing.T) {
	f := newPartFixture()
	f.createPart(t, "FIL-030", 10) // min 2, above threshold
	low := f.createPart(t, "FIL-031", 1)

	out, err := f.svc.GetLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, low.Code, out[0].Code)
}
