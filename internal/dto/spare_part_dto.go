package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateSparePartRequest struct {
	Code          string          `json:"code"            validate:"required,min=3,max=30"`
	Name          string          `json:"name"            validate:"required,min=2,max=120"`
	Description   *string         `json:"description"`
	Category      string          `json:"category"        validate:"required"`
	UnitOfMeasure string          `json:"unit_of_measure" validate:"required"`
	UnitPrice     decimal.Decimal `json:"unit_price"      validate:"required"`
	CurrentStock  int             `json:"current_stock"   validate:"min=0"`
	MinStock      int             `json:"min_stock"       validate:"min=0"`
	MaxStock      int             `json:"max_stock"       validate:"min=0"`
	Location      *string         `json:"location"`
}

type UpdateSparePartRequest struct {
	Name          *string          `json:"name"            validate:"omitempty,min=2,max=120"`
	Description   *string          `json:"description"`
	Category      *string          `json:"category"`
	UnitOfMeasure *string          `json:"unit_of_measure"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	MinStock      *int             `json:"min_stock"  validate:"omitempty,min=0"`
	MaxStock      *int             `json:"max_stock"  validate:"omitempty,min=0"`
	Location      *string          `json:"location"`
	Activo        *bool            `json:"activo"`
}

type AdjustStockRequest struct {
	Quantity     int     `json:"quantity"      validate:"min=0"`
	MovementType string  `json:"movement_type" validate:"required,oneof=entrada salida ajuste"`
	Reason       string  `json:"reason"        validate:"required,min=3"`
	Reference    *string `json:"reference"`
}

type RequestSparePartRequest struct {
	WorkOrderID  string  `json:"work_order_id" validate:"required,uuid"`
	SparePartID  string  `json:"spare_part_id" validate:"required,uuid"`
	Quantity     int     `json:"quantity"      validate:"required,gt=0"`
	Observations *string `json:"observations"`
}

type DeliverSparePartRequest struct {
	QuantityDelivered int `json:"quantity_delivered" validate:"required,gt=0"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type SparePartFilter struct {
	Search    string `form:"search"`
	Category  string `form:"category"`
	LowStock  bool   `form:"low_stock"`
	SortBy    string `form:"sort_by,default=name"    validate:"omitempty,oneof=name code category current_stock"`
	SortOrder string `form:"sort_order,default=asc"  validate:"omitempty,oneof=asc desc"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=10" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovementResponse struct {
	ID            string  `json:"id"`
	MovementType  string  `json:"movement_type"`
	Quantity      int     `json:"quantity"`
	PreviousStock int     `json:"previous_stock"`
	NewStock      int     `json:"new_stock"`
	Reason        string  `json:"reason"`
	Reference     *string `json:"reference"`
	CreatedAt     string  `json:"created_at"`
}

type SparePartResponse struct {
	ID            string                     `json:"id"`
	Code          string                     `json:"code"`
	Name          string                     `json:"name"`
	Description   *string                    `json:"description"`
	Category      string                     `json:"category"`
	UnitOfMeasure string                     `json:"unit_of_measure"`
	UnitPrice     decimal.Decimal            `json:"unit_price"`
	CurrentStock  int                        `json:"current_stock"`
	MinStock      int                        `json:"min_stock"`
	MaxStock      int                        `json:"max_stock"`
	Location      *string                    `json:"location"`
	Activo        bool                       `json:"activo"`
	Movements     []MovementResponse         `json:"movements,omitempty"`
	WorkOrders    []SparePartRequestResponse `json:"work_orders,omitempty"`
}

type SparePartListResponse struct {
	Data       []SparePartResponse `json:"data"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
}

type CategoryStat struct {
	Category   string `json:"category"`
	Count      int64  `json:"count"`
	TotalStock int64  `json:"total_stock"`
}

type SparePartStatsResponse struct {
	Total      int64          `json:"total"`
	Active     int64          `json:"active"`
	LowStock   int64          `json:"low_stock"`
	OutOfStock int64          `json:"out_of_stock"`
	ByCategory []CategoryStat `json:"by_category"`
	TotalItems int64          `json:"total_items"`
}

// ConsultaStockResponse is returned by the public stock check endpoint.
type ConsultaStockResponse struct {
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	CurrentStock int             `json:"current_stock"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Location     *string         `json:"location"`
	Category     string          `json:"category"`
}
