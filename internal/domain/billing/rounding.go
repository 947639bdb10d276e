package billing

import "github.com/shopspring/decimal"

// RoundPeso redondea al peso entero más cercano (half-up). Es la ÚNICA regla
// de redondeo monetario del motor: todo monto que entra a una boleta pasa por
// acá, nunca se redondea ad-hoc en el punto de uso. Los montos del dominio son
// no negativos, por lo que Round (half away from zero) equivale a half-up.
func RoundPeso(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}
