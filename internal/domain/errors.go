package domain

import "errors"

// Errores de dominio (sin dependencias externas). Todos son recuperables por el
// caller: reintentar, manejar asignación parcial o notificar al usuario. Solo la
// indisponibilidad del almacenamiento se propaga envuelta como error fatal de la
// operación en curso.
var (
	ErrNotFound                = errors.New("recurso no encontrado")
	ErrInvalidInput            = errors.New("entrada inválida")
	ErrInvalidMovement         = errors.New("movimiento de stock malformado")
	ErrInsufficientStock       = errors.New("stock insuficiente")
	ErrInsufficientReservation = errors.New("reserva insuficiente para la salida")
	ErrNegativeStock           = errors.New("el ajuste dejaría stock negativo")
	ErrInvalidState            = errors.New("operación inválida para el estado actual")
	ErrInvalidTransition       = errors.New("transición de estado no permitida")
	ErrConflict                = errors.New("conflicto con el estado actual")
	ErrDuplicate               = errors.New("recurso duplicado")
)
