package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RegisterMovement *inventory.RegisterMovementUseCase
	Reservations     *inventory.ReservationUseCase
	Transfers        *inventory.TransferUseCase
	Queries          *inventory.StockQueryUseCase
}

// Router registra las rutas de la API. La autenticación vive en el gateway;
// el actor llega como string opaco en X-User-Id.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	stockHandler := NewStockHandler(deps.RegisterMovement, deps.Reservations, deps.Queries)
	stock := api.Group("/stock")
	stock.Post("/adjust", stockHandler.Adjust)
	stock.Post("/reserve", stockHandler.Reserve)
	stock.Post("/release", stockHandler.Release)
	stock.Get("/", stockHandler.Get)
	stock.Get("/low", stockHandler.LowStock)
	stock.Get("/summary", stockHandler.Summary)
	stock.Get("/movements", stockHandler.Movements)
	stock.Get("/movements/monthly", stockHandler.MonthlyMovements)
	stock.Get("/movements/top", stockHandler.MostActive)

	transferHandler := NewTransferHandler(deps.Transfers)
	transfers := api.Group("/transfers")
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/stale", transferHandler.Stale)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Post("/:id/approve", transferHandler.Approve)
	transfers.Post("/:id/send", transferHandler.Send)
	transfers.Post("/:id/receive", transferHandler.Receive)
	transfers.Post("/:id/cancel", transferHandler.Cancel)
}
