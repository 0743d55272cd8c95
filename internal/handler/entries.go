package handler

import (
	"net/http"

	"fleetmaint/internal/dto"
	"fleetmaint/internal/repository"
	"fleetmaint/internal/service"

	"github.com/gin-gonic/gin"
)

type EntriesHandler struct{ svc service.VehicleEntryService }

func NewEntriesHandler(svc service.VehicleEntryService) *EntriesHandler {
	return &EntriesHandler{svc: svc}
}

func (h *EntriesHandler) Crear(c *gin.Context) {
	var req dto.CreateEntryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *EntriesHandler) Listar(c *gin.Context) {
	var filter dto.EntryFilter
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

func (h *EntriesHandler) ObtenerPorID(c *gin.Context) {
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

func (h *EntriesHandler) RegistrarSalida(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.RegisterExit(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// WorkshopsHandler serves the read-only workshop list used by the dashboards.
type WorkshopsHandler struct{ repo repository.WorkshopRepository }

func NewWorkshopsHandler(repo repository.WorkshopRepository) *WorkshopsHandler {
	return &WorkshopsHandler{repo: repo}
}

func (h *WorkshopsHandler) Listar(c *gin.Context) {
	workshops, err := h.repo.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.WorkshopResponse, 0, len(workshops))
	for _, w := range workshops {
		out = append(out, dto.WorkshopResponse{
			ID:      w.ID.String(),
			Name:    w.Name,
			Address: w.Address,
			Activo:  w.Activo,
		})
	}
	c.JSON(http.StatusOK, out)
}
