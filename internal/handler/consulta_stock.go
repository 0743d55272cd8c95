package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"fleetmaint/internal/apierror"
	"fleetmaint/internal/dto"
	"fleetmaint/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const stockCacheTTL = 15 * time.Minute

// ConsultaStockHandler serves the stock check endpoint used by the workshop
// floor scanners. Read-only; cached in Redis and invalidated by the spare-part
// service on every stock write.
type ConsultaStockHandler struct {
	repo repository.SparePartRepository
	rdb  *redis.Client
}

func NewConsultaStockHandler(repo repository.SparePartRepository, rdb *redis.Client) *ConsultaStockHandler {
	return &ConsultaStockHandler{repo: repo, rdb: rdb}
}

func (h *ConsultaStockHandler) GetStockPorCodigo(c *gin.Context) {
	code := strings.ToUpper(c.Param("code"))
	ctx := c.Request.Context()
	cacheKey := "stock:" + code

	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.ConsultaStockResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	part, err := h.repo.FindByCode(ctx, code)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Repuesto no encontrado"))
		return
	}

	resp := dto.ConsultaStockResponse{
		Code:         part.Code,
		Name:         part.Name,
		CurrentStock: part.CurrentStock,
		UnitPrice:    part.UnitPrice,
		Location:     part.Location,
		Category:     part.Category,
	}

	// Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, stockCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}
