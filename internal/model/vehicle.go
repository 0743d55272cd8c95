package model

import (
	"time"

	"github.com/google/uuid"
)

// Region groups vehicles and workshops geographically.
type Region struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code string    `gorm:"uniqueIndex;not null"`
	Name string    `gorm:"not null"`
}

func (Region) TableName() string { return "regiones" }

// Vehicle is a fleet unit. Its repair history hangs off VehicleEntry and WorkOrder.
type Vehicle struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LicensePlate string    `gorm:"uniqueIndex;not null"`
	Brand        string    `gorm:"not null"`
	Model        string    `gorm:"not null"`
	Year         int       `gorm:"not null"`
	VehicleType  string    `gorm:"not null"` // camion | camioneta | auto | maquinaria
	FleetNumber  *string   `gorm:"index"`
	VIN          *string
	RegionID     *uuid.UUID `gorm:"type:uuid;index"`
	Status       string     `gorm:"not null;default:'operativo'"` // operativo | en_mantenimiento | fuera_de_servicio
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Region *Region `gorm:"foreignKey:RegionID"`
}

func (Vehicle) TableName() string { return "vehicles" }

// Workshop is a maintenance site. Work orders and entries are scoped to one workshop.
type Workshop struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name     string    `gorm:"not null"`
	Address  string
	RegionID  *uuid.UUID `gorm:"type:uuid;index"`
	Activo    bool       `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Region *Region `gorm:"foreignKey:RegionID"`
}

func (Workshop) TableName() string { return "workshops" }
