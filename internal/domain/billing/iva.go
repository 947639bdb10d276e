package billing

import "github.com/shopspring/decimal"

// SplitIVA separa un monto bruto afecto en (neto, IVA) para una tasa
// fraccional (ej. 0.19):
//
//	neto = round_half_up(bruto / (1 + tasa))
//	iva  = bruto - neto
//
// El IVA se calcula como residuo y NO se redondea por separado, de modo que
// neto + iva == bruto se cumple exacto siempre.
func SplitIVA(gross, rate decimal.Decimal) (net, tax decimal.Decimal) {
	net = RoundPeso(gross.Div(decimal.NewFromInt(1).Add(rate)))
	tax = gross.Sub(net)
	return net, tax
}
