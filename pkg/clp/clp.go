// Package clp formatea montos en pesos chilenos para respuestas y reportes.
// El peso no tiene subunidad en circulación: los montos del motor son enteros
// y acá solo se les da presentación con separador de miles local.
package clp

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.MustParse("es-CL"))

// Format devuelve el monto como "$1.234.567". El monto debe venir ya
// redondeado al peso entero (regla única del motor).
func Format(amount decimal.Decimal) string {
	return printer.Sprintf("$%d", amount.IntPart())
}

// FormatInt formatea un monto entero en pesos.
func FormatInt(amount int64) string {
	return printer.Sprintf("$%d", amount)
}
