package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stock movement types.
const (
	MovementEntrada = "entrada" // inbound increase
	MovementSalida  = "salida"  // outbound decrease
	MovementAjuste  = "ajuste"  // absolute correction
)

// Spare-part request statuses.
const (
	RequestPendiente = "pendiente"
	RequestEntregado = "entregado"
)

// SparePart is one inventory item. CurrentStock never goes negative: every
// decrement happens through a guarded conditional update inside the same
// transaction as its movement row.
type SparePart struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code          string    `gorm:"uniqueIndex;not null"` // stored upper-cased
	Name          string    `gorm:"index;not null"`
	Description   *string
	Category      string          `gorm:"not null;index"`
	UnitOfMeasure string          `gorm:"not null;default:'unidad'"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CurrentStock  int             `gorm:"not null;default:0"`
	MinStock      int             `gorm:"not null;default:0"`
	MaxStock      int             `gorm:"not null;default:0"`
	Location      *string
	Activo        bool `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Movements  []SparePartMovement  `gorm:"foreignKey:SparePartID"`
	WorkOrders []WorkOrderSparePart `gorm:"foreignKey:SparePartID"`
}

func (SparePart) TableName() string { return "spare_parts" }

// SparePartMovement is one immutable ledger row. Replaying a part's movements
// in creation order reproduces its CurrentStock exactly.
type SparePartMovement struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SparePartID   uuid.UUID `gorm:"type:uuid;not null;index"`
	MovementType  string    `gorm:"not null"` // entrada | salida | ajuste
	Quantity      int       `gorm:"not null"` // for ajuste: |target - previous|
	PreviousStock int       `gorm:"not null"`
	NewStock      int       `gorm:"not null"`
	Reason        string    `gorm:"not null"`
	Reference     *string   // e.g. the work-order number on deliveries
	CreatedAt     time.Time

	SparePart *SparePart `gorm:"foreignKey:SparePartID"`
}

func (SparePartMovement) TableName() string { return "spare_part_movements" }

// WorkOrderSparePart is a parts request against a work order. Requesting does
// not hold stock; the decrement happens at delivery time. Once entregado, the
// delivered quantity and timestamp are immutable.
type WorkOrderSparePart struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkOrderID       uuid.UUID `gorm:"type:uuid;not null;index"`
	SparePartID       uuid.UUID `gorm:"type:uuid;not null;index"`
	QuantityRequested int       `gorm:"not null"`
	QuantityDelivered *int
	Status            string    `gorm:"not null;default:'pendiente'"`
	RequestedAt       time.Time `gorm:"not null;default:now()"`
	DeliveredAt       *time.Time
	Observations      *string

	WorkOrder *WorkOrder `gorm:"foreignKey:WorkOrderID"`
	SparePart *SparePart `gorm:"foreignKey:SparePartID"`
}

func (WorkOrderSparePart) TableName() string { return "work_order_spare_parts" }
