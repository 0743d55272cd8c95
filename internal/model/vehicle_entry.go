package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// VehicleEntry records one visit of a vehicle to a workshop (gate intake).
// Work orders reference the entry they originated from.
type VehicleEntry struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EntryCode    string    `gorm:"uniqueIndex;not null"` // ING-YYYYMMDD-XXXX
	VehicleID    uuid.UUID `gorm:"type:uuid;not null;index"`
	WorkshopID   uuid.UUID `gorm:"type:uuid;not null;index"`
	DriverRut    string    `gorm:"not null"`
	DriverName   string    `gorm:"not null"`
	DriverPhone  *string
	EntryKm      int    `gorm:"not null"`
	FuelLevel    string `gorm:"not null"` // vacio | 1/4 | 1/2 | 3/4 | lleno
	HasKeys      bool   `gorm:"not null;default:false"`
	Observations *string
	Photos       datatypes.JSON `gorm:"type:jsonb"` // array of photo URLs taken at the gate
	EntryDate    time.Time      `gorm:"not null;default:now()"`
	ExitDate     *time.Time
	Status       string    `gorm:"not null;default:'ingresado'"` // ingresado | en_reparacion | salida
	CreatedByID  uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Vehicle    *Vehicle    `gorm:"foreignKey:VehicleID"`
	Workshop   *Workshop   `gorm:"foreignKey:WorkshopID"`
	CreatedBy  *Usuario    `gorm:"foreignKey:CreatedByID"`
	KeyControl *KeyControl `gorm:"foreignKey:EntryID"`
	WorkOrders []WorkOrder `gorm:"foreignKey:EntryID"`
}

func (VehicleEntry) TableName() string { return "vehicle_entries" }

// KeyControl tracks where the keys of an entered vehicle are kept.
// At most one per entry; only created when the driver leaves the keys.
type KeyControl struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EntryID     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	KeyLocation string    `gorm:"not null"`
	CreatedAt   time.Time
}

func (KeyControl) TableName() string { return "key_controls" }
