package handler

import (
	"net/http"

	"fleetmaint/internal/dto"
	"fleetmaint/internal/service"

	"github.com/gin-gonic/gin"
)

type SparePartsHandler struct{ svc service.SparePartService }

func NewSparePartsHandler(svc service.SparePartService) *SparePartsHandler {
	return &SparePartsHandler{svc: svc}
}

func (h *SparePartsHandler) Crear(c *gin.Context) {
	var req dto.CreateSparePartRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SparePartsHandler) Listar(c *gin.Context) {
	var filter dto.SparePartFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.GetAll(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SparePartsHandler) ObtenerPorID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SparePartsHandler) Actualizar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateSparePartRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SparePartsHandler) AjustarStock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdjustStock(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SparePartsHandler) Solicitar(c *gin.Context) {
	var req dto.RequestSparePartRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RequestForWorkOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SparePartsHandler) Entregar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.DeliverSparePartRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.DeliverForWorkOrder(c.Request.Context(), id, req.QuantityDelivered)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SparePartsHandler) StockBajo(c *gin.Context) {
	resp, err := h.svc.GetLowStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SparePartsHandler) Estadisticas(c *gin.Context) {
	resp, err := h.svc.GetStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
