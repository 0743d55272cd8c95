package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Work-order status values. The transition graph is intentionally not enforced
// here; see WorkOrderService.ChangeStatus.
const (
	StatusPendiente  = "pendiente"
	StatusEnProgreso = "en_progreso"
	StatusPausado    = "pausado"
	StatusCompletado = "completado"
	StatusCancelado  = "cancelado"
)

// Priority values.
const (
	PriorityBaja    = "baja"
	PriorityMedia   = "media"
	PriorityAlta    = "alta"
	PriorityCritica = "critica"
)

// WorkOrder is one unit of repair work against a vehicle entry.
//
// StartedAt is stamped exactly once, on the first transition to en_progreso.
// CompletedAt and TotalHours are stamped exactly once, on the first transition
// to completado; TotalHours is the wall-clock span since StartedAt rounded to
// two decimals and stays nil if the order was never started.
type WorkOrder struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNumber    string    `gorm:"uniqueIndex;not null"` // OT-YYYYMMDD-XXXX
	VehicleID      uuid.UUID `gorm:"type:uuid;not null;index"`
	EntryID        uuid.UUID `gorm:"type:uuid;not null;index"`
	WorkshopID     uuid.UUID `gorm:"type:uuid;not null;index"`
	WorkType       string    `gorm:"not null"` // preventivo | correctivo | revision
	Priority       string    `gorm:"not null;default:'media'"`
	Description    string    `gorm:"not null"`
	CurrentStatus  string    `gorm:"not null;default:'pendiente';index"`
	StartedAt      *time.Time
	CompletedAt    *time.Time
	EstimatedHours *decimal.Decimal `gorm:"type:decimal(6,2)"`
	TotalHours     *decimal.Decimal `gorm:"type:decimal(6,2)"`
	AssignedToID   *uuid.UUID       `gorm:"type:uuid;index"`
	CreatedByID    uuid.UUID        `gorm:"type:uuid;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Vehicle    *Vehicle             `gorm:"foreignKey:VehicleID"`
	Entry      *VehicleEntry        `gorm:"foreignKey:EntryID"`
	Workshop   *Workshop            `gorm:"foreignKey:WorkshopID"`
	AssignedTo *Usuario             `gorm:"foreignKey:AssignedToID"`
	CreatedBy  *Usuario             `gorm:"foreignKey:CreatedByID"`
	Statuses   []WorkOrderStatus    `gorm:"foreignKey:WorkOrderID"`
	Photos     []WorkOrderPhoto     `gorm:"foreignKey:WorkOrderID"`
	SpareParts []WorkOrderSparePart `gorm:"foreignKey:WorkOrderID"`
	Pauses     []WorkPause          `gorm:"foreignKey:WorkOrderID"`
}

func (WorkOrder) TableName() string { return "work_orders" }

// WorkOrderStatus is one append-only audit entry per status transition,
// including the initial pendiente event written at order creation.
type WorkOrderStatus struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkOrderID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Status       string    `gorm:"not null"`
	Observations *string
	ChangedByID  uuid.UUID `gorm:"type:uuid;not null"`
	ChangedAt    time.Time `gorm:"not null;default:now()"`

	ChangedBy *Usuario `gorm:"foreignKey:ChangedByID"`
}

func (WorkOrderStatus) TableName() string { return "work_order_statuses" }

// WorkPause is one pause interval. ResumedAt == nil means the pause is open;
// a work order has at most one open pause at any time. Duration is whole
// minutes, floor((resumedAt - pausedAt)/60s), set when the pause closes.
type WorkPause struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkOrderID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Reason       string    `gorm:"not null"`
	Observations *string
	PausedAt     time.Time `gorm:"not null;default:now()"`
	ResumedAt    *time.Time
	Duration     *int // minutes
}

func (WorkPause) TableName() string { return "work_pauses" }

// WorkOrderPhoto is an image attached to a work order (diagnosis, progress, done).
type WorkOrderPhoto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkOrderID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL         string    `gorm:"not null"`
	Description *string
	PhotoType   string `gorm:"not null;default:'general'"`
	CreatedAt   time.Time
}

func (WorkOrderPhoto) TableName() string { return "work_order_photos" }
