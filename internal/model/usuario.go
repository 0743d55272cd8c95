package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario is referenced by work orders (creator, assignee) and status events.
// Credential storage and token issuance live outside this service.
type Usuario struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email     string    `gorm:"uniqueIndex;not null"`
	FirstName string    `gorm:"not null"`
	LastName  string    `gorm:"not null"`
	Rol       string    `gorm:"not null"` // administrador | jefe_taller | mecanico | recepcionista | guardia
	Phone     *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Usuario) TableName() string { return "usuarios" }
