package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateWorkOrderRequest struct {
	VehicleID      string           `json:"vehicle_id"      validate:"required,uuid"`
	EntryID        string           `json:"entry_id"        validate:"required,uuid"`
	WorkshopID     string           `json:"workshop_id"     validate:"required,uuid"`
	WorkType       string           `json:"work_type"       validate:"required"`
	Priority       string           `json:"priority"        validate:"omitempty,oneof=baja media alta critica"`
	Description    string           `json:"description"     validate:"required,min=5"`
	EstimatedHours *decimal.Decimal `json:"estimated_hours"`
	AssignedToID   *string          `json:"assigned_to_id"  validate:"omitempty,uuid"`
}

type UpdateWorkOrderRequest struct {
	WorkType       *string          `json:"work_type"`
	Priority       *string          `json:"priority"        validate:"omitempty,oneof=baja media alta critica"`
	Description    *string          `json:"description"     validate:"omitempty,min=5"`
	EstimatedHours *decimal.Decimal `json:"estimated_hours"`
	AssignedToID   *string          `json:"assigned_to_id"  validate:"omitempty,uuid"`
}

type ChangeStatusRequest struct {
	Status       string  `json:"status" validate:"required"`
	Observations *string `json:"observations"`
}

type PauseWorkOrderRequest struct {
	Reason       string  `json:"reason" validate:"required,min=3"`
	Observations *string `json:"observations"`
}

type AddPhotoRequest struct {
	URL         string  `json:"url"        validate:"required,url"`
	Description *string `json:"description"`
	PhotoType   string  `json:"photo_type" validate:"omitempty,oneof=general diagnostico progreso finalizado"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

// WorkOrderFilter enumerates every supported list restriction explicitly;
// unknown query params are ignored rather than forwarded to the store.
type WorkOrderFilter struct {
	Search       string `form:"search"`
	Status       string `form:"status"`
	Priority     string `form:"priority"`
	WorkshopID   string `form:"workshop_id"   validate:"omitempty,uuid"`
	AssignedToID string `form:"assigned_to_id" validate:"omitempty,uuid"`
	DateFrom     string `form:"date_from"     validate:"omitempty,datetime=2006-01-02"`
	DateTo       string `form:"date_to"       validate:"omitempty,datetime=2006-01-02"`
	SortBy       string `form:"sort_by,default=created_at" validate:"omitempty,oneof=created_at order_number priority current_status"`
	SortOrder    string `form:"sort_order,default=desc"    validate:"omitempty,oneof=asc desc"`
	Page         int    `form:"page,default=1"   validate:"min=1"`
	Limit        int    `form:"limit,default=10" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserRef struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
}

type StatusEventResponse struct {
	Status       string  `json:"status"`
	Observations *string `json:"observations"`
	ChangedByID  string  `json:"changed_by_id"`
	ChangedAt    string  `json:"changed_at"`
}

type PauseResponse struct {
	ID           string  `json:"id"`
	Reason       string  `json:"reason"`
	Observations *string `json:"observations"`
	PausedAt     string  `json:"paused_at"`
	ResumedAt    *string `json:"resumed_at"`
	Duration     *int    `json:"duration_minutes"`
}

type PhotoResponse struct {
	ID          string  `json:"id"`
	URL         string  `json:"url"`
	Description *string `json:"description"`
	PhotoType   string  `json:"photo_type"`
	CreatedAt   string  `json:"created_at"`
}

type SparePartRequestResponse struct {
	ID                string  `json:"id"`
	SparePartID       string  `json:"spare_part_id"`
	SparePartCode     string  `json:"spare_part_code,omitempty"`
	SparePartName     string  `json:"spare_part_name,omitempty"`
	QuantityRequested int     `json:"quantity_requested"`
	QuantityDelivered *int    `json:"quantity_delivered"`
	Status            string  `json:"status"`
	RequestedAt       string  `json:"requested_at"`
	DeliveredAt       *string `json:"delivered_at"`
	Observations      *string `json:"observations"`
}

type WorkOrderResponse struct {
	ID             string                     `json:"id"`
	OrderNumber    string                     `json:"order_number"`
	VehicleID      string                     `json:"vehicle_id"`
	LicensePlate   string                     `json:"license_plate,omitempty"`
	EntryID        string                     `json:"entry_id"`
	WorkshopID     string                     `json:"workshop_id"`
	WorkshopName   string                     `json:"workshop_name,omitempty"`
	WorkType       string                     `json:"work_type"`
	Priority       string                     `json:"priority"`
	Description    string                     `json:"description"`
	CurrentStatus  string                     `json:"current_status"`
	StartedAt      *string                    `json:"started_at"`
	CompletedAt    *string                    `json:"completed_at"`
	EstimatedHours *decimal.Decimal           `json:"estimated_hours"`
	TotalHours     *decimal.Decimal           `json:"total_hours"`
	AssignedTo     *UserRef                   `json:"assigned_to"`
	CreatedBy      *UserRef                   `json:"created_by"`
	Statuses       []StatusEventResponse      `json:"statuses,omitempty"`
	Photos         []PhotoResponse            `json:"photos,omitempty"`
	SpareParts     []SparePartRequestResponse `json:"spare_parts,omitempty"`
	Pauses         []PauseResponse            `json:"pauses,omitempty"`
	CreatedAt      string                     `json:"created_at"`
}

type WorkOrderListResponse struct {
	Data       []WorkOrderResponse `json:"data"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
}

// WorkOrderStatsResponse backs the workshop dashboards.
type WorkOrderStatsResponse struct {
	Total      int64            `json:"total"`
	Pending    int64            `json:"pending"`
	InProgress int64            `json:"in_progress"`
	Paused     int64            `json:"paused"`
	Completed  int64            `json:"completed"`
	Cancelled  int64            `json:"cancelled"`
	ByPriority map[string]int64 `json:"by_priority"`
}
