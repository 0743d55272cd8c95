package service

import "errors"

// Sentinel errors returned by the services. Handlers translate them to HTTP
// status codes with errors.Is; messages are user-facing.
var (
	ErrWorkOrderNotFound = errors.New("orden de trabajo no encontrada")
	ErrSparePartNotFound = errors.New("repuesto no encontrado")
	ErrRequestNotFound   = errors.New("solicitud no encontrada")
	ErrVehicleNotFound   = errors.New("vehiculo no encontrado")
	ErrEntryNotFound     = errors.New("ingreso no encontrado")
	ErrWorkshopNotFound  = errors.New("taller no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")

	ErrDuplicateCode  = errors.New("ya existe un repuesto con ese codigo")
	ErrDuplicatePlate = errors.New("ya existe un vehiculo con esa patente")

	ErrAlreadyPaused    = errors.New("la orden ya esta pausada")
	ErrNotPaused        = errors.New("la orden no esta pausada")
	ErrAlreadyDelivered = errors.New("la solicitud ya fue entregada")
	ErrAlreadyExited    = errors.New("el vehiculo ya registro su salida")

	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInvalidMovementType = errors.New("tipo de movimiento invalido")

	// ErrGenerationExhausted is returned when the unique-code generator hits
	// its retry cap instead of looping forever on collisions.
	ErrGenerationExhausted = errors.New("no se pudo generar un codigo unico")
)
