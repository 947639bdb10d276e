package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/aguasaustral/facturacion-api/internal/application/billing"
	"github.com/aguasaustral/facturacion-api/internal/application/dto"
	"github.com/aguasaustral/facturacion-api/internal/domain"
	domainbilling "github.com/aguasaustral/facturacion-api/internal/domain/billing"
	"github.com/aguasaustral/facturacion-api/internal/domain/entity"
	"github.com/aguasaustral/facturacion-api/internal/domain/repository"
	"github.com/aguasaustral/facturacion-api/pkg/clp"
)

const dateLayout = "2006-01-02"

// BoletaHandler maneja las peticiones HTTP de cálculo y emisión de boletas.
type BoletaHandler struct {
	computeUC  *billing.ComputeBoletaUseCase
	finalizeUC *billing.FinalizeBoletaUseCase
	boletaRepo repository.BoletaRepository
}

// NewBoletaHandler construye el handler.
func NewBoletaHandler(
	computeUC *billing.ComputeBoletaUseCase,
	finalizeUC *billing.FinalizeBoletaUseCase,
	boletaRepo repository.BoletaRepository,
) *BoletaHandler {
	return &BoletaHandler{computeUC: computeUC, finalizeUC: finalizeUC, boletaRepo: boletaRepo}
}

// Preview calcula el desglose de cargos sin persistir ni consumir nada.
// POST /api/boletas/preview
func (h *BoletaHandler) Preview(c *fiber.Ctx) error {
	var in dto.PreviewBoletaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	period, ok := parsePeriod(in.PeriodStart, in.PeriodEnd)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fechas del período inválidas (YYYY-MM-DD)"})
	}

	preview, err := h.computeUC.Compute(c.Context(), in.CustomerID, period, in.ConsumptionM3)
	if err != nil {
		return boletaError(c, err)
	}
	return c.JSON(dto.PreviewBoletaResponse{
		CustomerID:           in.CustomerID,
		TariffID:             preview.TariffID,
		Subsidy:              string(preview.Subsidy),
		UseNewFormula:        preview.UseNewFormula,
		Breakdown:            toBreakdownResponse(preview.Breakdown),
		FineIDs:              preview.FineIDs,
		ReposicionIDs:        preview.ReposicionIDs,
		SkippedReposicionIDs: preview.SkippedReposicionIDs,
	})
}

// Emitir calcula y persiste la boleta, consumiendo multas y reposiciones.
// POST /api/boletas/emitir
func (h *BoletaHandler) Emitir(c *fiber.Ctx) error {
	var in dto.EmitirBoletaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	period, ok := parsePeriod(in.PeriodStart, in.PeriodEnd)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fechas del período inválidas (YYYY-MM-DD)"})
	}

	boleta, err := h.finalizeUC.Finalize(c.Context(), billing.FinalizeInput{
		CustomerID:          in.CustomerID,
		Period:              period,
		ConsumptionM3:       in.ConsumptionM3,
		PriorBalance:        in.PriorBalance,
		OtherCharges:        in.OtherCharges,
		RestructuringAmount: in.RestructuringAmount,
	})
	if err != nil {
		return boletaError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toBoletaResponse(boleta))
}

// GetByID obtiene una boleta emitida.
// GET /api/boletas/:id
func (h *BoletaHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	boleta, err := h.boletaRepo.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if boleta == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "boleta no encontrada"})
	}
	return c.JSON(toBoletaResponse(boleta))
}

func boletaError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNoEffectiveTariff):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "NO_TARIFF", Message: "no hay tarifa vigente para la fecha de facturación"})
	case errors.Is(err, domain.ErrBoletaExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "BOLETA_EXISTS", Message: "ya existe boleta para el cliente y período"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func parsePeriod(start, end string) (entity.Period, bool) {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return entity.Period{}, false
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return entity.Period{}, false
	}
	p := entity.Period{Start: s, End: e}
	return p, p.Valid()
}

func toBreakdownResponse(b domainbilling.ChargeBreakdown) dto.ChargeBreakdownResponse {
	return dto.ChargeBreakdownResponse{
		FixedCharge:        b.FixedCharge,
		WaterCharge:        b.WaterCharge,
		SewageCharge:       b.SewageCharge,
		TreatmentCharge:    b.TreatmentCharge,
		Subtotal:           b.Subtotal,
		DiscountAmount:     b.DiscountAmount,
		SubsidyAmount:      b.SubsidyAmount,
		GrossBeforeSubsidy: b.GrossBeforeSubsidy,
		GrossAfterSubsidy:  b.GrossAfterSubsidy,
		NetAmount:          b.NetAmount,
		TaxAmount:          b.TaxAmount,
		ExemptCharges:      b.ExemptCharges,
		TotalAmount:        b.TotalAmount,
		TotalFormatted:     clp.Format(b.TotalAmount),
	}
}

func toBoletaResponse(b *entity.Boleta) dto.BoletaResponse {
	return dto.BoletaResponse{
		ID:            b.ID,
		CustomerID:    b.CustomerID,
		Folio:         b.Folio,
		Status:        b.Status,
		PeriodStart:   b.PeriodStart.Format(dateLayout),
		PeriodEnd:     b.PeriodEnd.Format(dateLayout),
		IssueDate:     b.IssueDate.Format(dateLayout),
		DueDate:       b.DueDate.Format(dateLayout),
		ConsumptionM3: b.ConsumptionM3,
		Breakdown: dto.ChargeBreakdownResponse{
			FixedCharge:        b.FixedCharge,
			WaterCharge:        b.WaterCharge,
			SewageCharge:       b.SewageCharge,
			TreatmentCharge:    b.TreatmentCharge,
			Subtotal:           b.Subtotal,
			DiscountAmount:     b.DiscountAmount,
			SubsidyAmount:      b.SubsidyAmount,
			GrossBeforeSubsidy: b.GrossBeforeSubsidy,
			GrossAfterSubsidy:  b.GrossAfterSubsidy,
			NetAmount:          b.NetAmount,
			TaxAmount:          b.TaxAmount,
			ExemptCharges:      b.ExemptCharges,
			TotalAmount:        b.TotalAmount,
			TotalFormatted:     clp.Format(b.TotalAmount),
		},
		PriorBalance:        b.PriorBalance,
		OtherCharges:        b.OtherCharges,
		RestructuringAmount: b.RestructuringAmount,
	}
}
