package billing_test

import (
	"testing"
	"time"

	"github.com/aguasaustral/facturacion-api/internal/domain/billing"
	"github.com/aguasaustral/facturacion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func separateTariff() *entity.Tariff {
	return &entity.Tariff{
		ID:          "t-sep",
		ValidFrom:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		FixedCharge: decimal.NewFromInt(2000),
		WaterRatePerM3: decimal.NewFromInt(500),
		Rates: entity.SeparateRates{
			SewageRatePerM3:    decimal.NewFromInt(300),
			TreatmentRatePerM3: decimal.NewFromInt(100),
		},
		ReconnectionCost1: decimal.NewFromInt(8000),
		ReconnectionCost2: decimal.NewFromInt(15000),
		TaxRate:           decimal.NewFromFloat(0.19),
	}
}

func combinedTariff() *entity.Tariff {
	t := separateTariff()
	t.ID = "t-comb"
	t.Rates = entity.CombinedRate{SewageTreatmentRatePerM3: decimal.NewFromInt(400)}
	return t
}

// Esquema separado: agua = 10*500, alcantarillado = 10*300, tratamiento =
// 10*100, subtotal = 2000+5000+3000+1000 = 11000.
func TestBaseCharges_EsquemaSeparado(t *testing.T) {
	b := billing.BaseCharges(decimal.NewFromInt(10), separateTariff())

	assert.True(t, decimal.NewFromInt(5000).Equal(b.WaterCharge))
	assert.True(t, decimal.NewFromInt(3000).Equal(b.SewageCharge))
	assert.True(t, decimal.NewFromInt(1000).Equal(b.TreatmentCharge))
	assert.True(t, decimal.NewFromInt(11000).Equal(b.Subtotal))
	assert.Equal(t, billing.StateDraft, b.State)
}

// Esquema combinado: el cargo combinado queda en alcantarillado y tratamiento
// es cero, así el subtotal sigue siendo aditivo sin un tercer término que
// duplique. Subtotal = 2000+5000+4000+0 = 11000.
func TestBaseCharges_EsquemaCombinado(t *testing.T) {
	b := billing.BaseCharges(decimal.NewFromInt(10), combinedTariff())

	assert.True(t, decimal.NewFromInt(5000).Equal(b.WaterCharge))
	assert.True(t, decimal.NewFromInt(4000).Equal(b.SewageCharge))
	assert.True(t, b.TreatmentCharge.IsZero(), "con tarifa combinada el tratamiento es cero")
	assert.True(t, decimal.NewFromInt(11000).Equal(b.Subtotal))
}

// El desglose inicial parte con descuento, subsidio e IVA en cero y ambos
// brutos iguales al subtotal.
func TestBaseCharges_CamposInicialesEnCero(t *testing.T) {
	b := billing.BaseCharges(decimal.NewFromInt(7), separateTariff())

	assert.True(t, b.DiscountAmount.IsZero())
	assert.True(t, b.SubsidyAmount.IsZero())
	assert.True(t, b.TaxAmount.IsZero())
	assert.True(t, b.GrossBeforeSubsidy.Equal(b.Subtotal))
	assert.True(t, b.GrossAfterSubsidy.Equal(b.Subtotal))
}

// Consumo cero: solo queda el cargo fijo.
func TestBaseCharges_ConsumoCero(t *testing.T) {
	b := billing.BaseCharges(decimal.Zero, separateTariff())
	assert.True(t, decimal.NewFromInt(2000).Equal(b.Subtotal))
}

// Tarifas fraccionales se redondean por componente al peso entero (half-up),
// nunca al final: 7 * 512.57 = 3587.99 → 3588.
func TestBaseCharges_RedondeoPorComponente(t *testing.T) {
	tf := separateTariff()
	tf.WaterRatePerM3 = decimal.NewFromFloat(512.57)
	b := billing.BaseCharges(decimal.NewFromInt(7), tf)
	assert.True(t, decimal.NewFromInt(3588).Equal(b.WaterCharge), "fue %s", b.WaterCharge)
}

// ReconnectionCost selecciona costo 1 o 2 según la secuencia; cero o negativa
// se trata como primera reposición.
func TestTariff_ReconnectionCost(t *testing.T) {
	tf := separateTariff()
	assert.True(t, decimal.NewFromInt(8000).Equal(tf.ReconnectionCost(1)))
	assert.True(t, decimal.NewFromInt(8000).Equal(tf.ReconnectionCost(0)))
	assert.True(t, decimal.NewFromInt(15000).Equal(tf.ReconnectionCost(2)))
	assert.True(t, decimal.NewFromInt(15000).Equal(tf.ReconnectionCost(5)))
}

// Covers usa rango semiabierto [desde, hasta).
func TestTariff_Covers(t *testing.T) {
	tf := separateTariff()
	hasta := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	tf.ValidTo = &hasta

	assert.True(t, tf.Covers(tf.ValidFrom))
	assert.True(t, tf.Covers(hasta.AddDate(0, 0, -1)))
	assert.False(t, tf.Covers(hasta), "el extremo superior es exclusivo")
	assert.False(t, tf.Covers(tf.ValidFrom.AddDate(0, 0, -1)))

	tf.ValidTo = nil
	assert.True(t, tf.Covers(time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)),
		"vigencia abierta cubre cualquier fecha posterior")
}
