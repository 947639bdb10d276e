package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrNoEffectiveTariff = errors.New("no existe tarifa vigente para la fecha de facturación")
	ErrChargeClaimed     = errors.New("el cargo ya fue aplicado a otra boleta")
	ErrBoletaExists      = errors.New("ya existe una boleta para el cliente y período")
	ErrBoletaFinalized   = errors.New("la boleta ya fue finalizada")
)
