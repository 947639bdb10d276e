package entity

import "time"

// SubsidyType tipo de subsidio estatal al consumo de agua potable.
type SubsidyType string

const (
	SubsidyNone SubsidyType = "NONE"
	SubsidyHalf SubsidyType = "HALF" // 50%
	SubsidyFull SubsidyType = "FULL" // 100%
)

// Multiplier factor que aplica la fórmula de cálculo: 1 para 50%, 2 para 100%.
func (s SubsidyType) Multiplier() int64 {
	switch s {
	case SubsidyHalf:
		return 1
	case SubsidyFull:
		return 2
	default:
		return 0
	}
}

// Tipos de cambio en el historial de asignaciones.
const (
	SubsidyChangeGranted  = "GRANTED"
	SubsidyChangeModified = "MODIFIED"
	SubsidyChangeRemoved  = "REMOVED"
)

// SubsidyAssignment es una entrada del historial de subsidio de un cliente.
// El historial es append-only: una quita de subsidio se registra como una
// entrada nueva con Change = REMOVED, nunca borrando las anteriores.
type SubsidyAssignment struct {
	ID            string
	CustomerID    string
	Type          SubsidyType
	Change        string // GRANTED, MODIFIED, REMOVED
	EffectiveFrom time.Time
	CreatedAt     time.Time
}

// EffectiveType tipo vigente que implica esta entrada: una quita equivale a
// no tener subsidio.
func (a *SubsidyAssignment) EffectiveType() SubsidyType {
	if a.Change == SubsidyChangeRemoved {
		return SubsidyNone
	}
	return a.Type
}
