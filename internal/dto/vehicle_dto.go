package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateVehicleRequest struct {
	LicensePlate string  `json:"license_plate" validate:"required,min=5,max=10"`
	Brand        string  `json:"brand"         validate:"required"`
	Model        string  `json:"model"         validate:"required"`
	Year         int     `json:"year"          validate:"required,min=1950,max=2100"`
	VehicleType  string  `json:"vehicle_type"  validate:"required,oneof=camion camioneta auto maquinaria"`
	FleetNumber  *string `json:"fleet_number"`
	VIN          *string `json:"vin"`
	RegionID     *string `json:"region_id"     validate:"omitempty,uuid"`
}

type UpdateVehicleRequest struct {
	Brand       *string `json:"brand"`
	Model       *string `json:"model"`
	Year        *int    `json:"year"         validate:"omitempty,min=1950,max=2100"`
	VehicleType *string `json:"vehicle_type" validate:"omitempty,oneof=camion camioneta auto maquinaria"`
	FleetNumber *string `json:"fleet_number"`
	VIN         *string `json:"vin"`
	RegionID    *string `json:"region_id"    validate:"omitempty,uuid"`
	Status      *string `json:"status"       validate:"omitempty,oneof=operativo en_mantenimiento fuera_de_servicio"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type VehicleFilter struct {
	Search      string `form:"search"`
	VehicleType string `form:"vehicle_type"`
	RegionID    string `form:"region_id" validate:"omitempty,uuid"`
	Status      string `form:"status"`
	SortBy      string `form:"sort_by,default=created_at" validate:"omitempty,oneof=created_at license_plate brand year"`
	SortOrder   string `form:"sort_order,default=desc"    validate:"omitempty,oneof=asc desc"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=10" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VehicleResponse struct {
	ID           string  `json:"id"`
	LicensePlate string  `json:"license_plate"`
	Brand        string  `json:"brand"`
	Model        string  `json:"model"`
	Year         int     `json:"year"`
	VehicleType  string  `json:"vehicle_type"`
	FleetNumber  *string `json:"fleet_number"`
	VIN          *string `json:"vin"`
	RegionID     *string `json:"region_id"`
	RegionName   string  `json:"region_name,omitempty"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"created_at"`
}

type VehicleListResponse struct {
	Data       []VehicleResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}
