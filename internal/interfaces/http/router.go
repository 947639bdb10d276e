package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aguasaustral/facturacion-api/internal/application/billing"
	"github.com/aguasaustral/facturacion-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ComputeBoleta  *billing.ComputeBoletaUseCase
	FinalizeBoleta *billing.FinalizeBoletaUseCase
	BoletaRepo     repository.BoletaRepository
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	boletas := api.Group("/boletas")
	boletaHandler := NewBoletaHandler(deps.ComputeBoleta, deps.FinalizeBoleta, deps.BoletaRepo)
	boletas.Post("/preview", boletaHandler.Preview)
	boletas.Post("/emitir", boletaHandler.Emitir)
	boletas.Get("/:id", boletaHandler.GetByID)
}
