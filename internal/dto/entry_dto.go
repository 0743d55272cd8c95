package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateEntryRequest struct {
	VehicleID    string   `json:"vehicle_id"   validate:"required,uuid"`
	WorkshopID   string   `json:"workshop_id"  validate:"required,uuid"`
	DriverRut    string   `json:"driver_rut"   validate:"required"`
	DriverName   string   `json:"driver_name"  validate:"required,min=3"`
	DriverPhone  *string  `json:"driver_phone"`
	EntryKm      int      `json:"entry_km"     validate:"min=0"`
	FuelLevel    string   `json:"fuel_level"   validate:"required,oneof=vacio 1/4 1/2 3/4 lleno"`
	HasKeys      bool     `json:"has_keys"`
	KeyLocation  *string  `json:"key_location"`
	Observations *string  `json:"observations"`
	Photos       []string `json:"photos" validate:"omitempty,dive,url"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type EntryFilter struct {
	Search     string `form:"search"`
	WorkshopID string `form:"workshop_id" validate:"omitempty,uuid"`
	Status     string `form:"status"`
	DateFrom   string `form:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo     string `form:"date_to"   validate:"omitempty,datetime=2006-01-02"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=10" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EntryResponse struct {
	ID           string   `json:"id"`
	EntryCode    string   `json:"entry_code"`
	VehicleID    string   `json:"vehicle_id"`
	LicensePlate string   `json:"license_plate,omitempty"`
	WorkshopID   string   `json:"workshop_id"`
	WorkshopName string   `json:"workshop_name,omitempty"`
	DriverRut    string   `json:"driver_rut"`
	DriverName   string   `json:"driver_name"`
	DriverPhone  *string  `json:"driver_phone"`
	EntryKm      int      `json:"entry_km"`
	FuelLevel    string   `json:"fuel_level"`
	HasKeys      bool     `json:"has_keys"`
	KeyLocation  *string  `json:"key_location"`
	Observations *string  `json:"observations"`
	Photos       []string `json:"photos"`
	EntryDate    string   `json:"entry_date"`
	ExitDate     *string  `json:"exit_date"`
	Status       string   `json:"status"`
	CreatedBy    *UserRef `json:"created_by"`
}

type EntryListResponse struct {
	Data       []EntryResponse `json:"data"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// WorkshopResponse is the read-side projection used by dashboards.
type WorkshopResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Activo  bool   `json:"activo"`
}
