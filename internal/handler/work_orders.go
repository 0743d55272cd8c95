package handler

import (
	"net/http"

	"fleetmaint/internal/apierror"
	"fleetmaint/internal/dto"
	"fleetmaint/internal/middleware"
	"fleetmaint/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WorkOrdersHandler struct{ svc service.WorkOrderService }

func NewWorkOrdersHandler(svc service.WorkOrderService) *WorkOrdersHandler {
	return &WorkOrdersHandler{svc: svc}
}

// actorID resolves the authenticated user from the JWT claims set by the auth
// middleware. Writes the 401 response itself on failure.
func actorID(c *gin.Context) (uuid.UUID, bool) {
	claims, ok := c.MustGet(middleware.ClaimsKey).(*middleware.JWTClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *WorkOrdersHandler) Crear(c *gin.Context) {
	var req dto.CreateWorkOrderRequest
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

func (h *WorkOrdersHandler) Listar(c *gin.Context) {
	var filter dto.WorkOrderFilter
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

func (h *WorkOrdersHandler) ObtenerPorID(c *gin.Context) {
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

func (h *WorkOrdersHandler) Actualizar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateWorkOrderRequest
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

func (h *WorkOrdersHandler) CambiarEstado(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ChangeStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ChangeStatus(c.Request.Context(), id, actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WorkOrdersHandler) Pausar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.PauseWorkOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Pause(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WorkOrdersHandler) Reanudar(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Resume(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WorkOrdersHandler) AgregarFoto(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AddPhotoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddPhoto(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *WorkOrdersHandler) Estadisticas(c *gin.Context) {
	var workshopID *uuid.UUID
	if raw := c.Query("workshop_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("workshop_id invalido"))
			return
		}
		workshopID = &id
	}
	resp, err := h.svc.GetStats(c.Request.Context(), workshopID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
