package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// StockHandler maneja las peticiones HTTP de movimientos, reservas y consultas de stock.
type StockHandler struct {
	movements    *inventory.RegisterMovementUseCase
	reservations *inventory.ReservationUseCase
	queries      *inventory.StockQueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(
	movements *inventory.RegisterMovementUseCase,
	reservations *inventory.ReservationUseCase,
	queries *inventory.StockQueryUseCase,
) *StockHandler {
	return &StockHandler{movements: movements, reservations: reservations, queries: queries}
}

// Adjust godoc
// @Summary      Registrar un movimiento de stock
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, branch_id, type, quantity, unit_code"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	userID, err := RequireUser(c)
	if err != nil {
		return err
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.movements.RegisterMovement(c.Context(), inventory.MovementInputDTO{
		ProductID:     in.ProductID,
		BranchID:      in.BranchID,
		Type:          in.Type,
		Quantity:      in.Quantity,
		UnitCode:      in.UnitCode,
		UserID:        userID,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		UnitCost:      in.UnitCost,
		Notes:         in.Notes,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovementResponse(mov))
}

// Reserve godoc
// @Summary      Reservar stock disponible
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReservationRequest  true  "product_id, branch_id, quantity, unit_code"
// @Success      201   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/reserve [post]
func (h *StockHandler) Reserve(c *fiber.Ctx) error {
	return h.reservation(c, true)
}

// Release godoc
// @Summary      Liberar una reserva de stock
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReservationRequest  true  "product_id, branch_id, quantity, unit_code"
// @Success      201   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/release [post]
func (h *StockHandler) Release(c *fiber.Ctx) error {
	return h.reservation(c, false)
}

func (h *StockHandler) reservation(c *fiber.Ctx, reserve bool) error {
	userID, err := RequireUser(c)
	if err != nil {
		return err
	}
	var in dto.ReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := inventory.ReservationInputDTO{
		ProductID:     in.ProductID,
		BranchID:      in.BranchID,
		Quantity:      in.Quantity,
		UnitCode:      in.UnitCode,
		UserID:        userID,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Notes:         in.Notes,
	}
	apply := h.reservations.Release
	if reserve {
		apply = h.reservations.Reserve
	}
	mov, err := apply(c.Context(), input)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovementResponse(mov))
}

// Get godoc
// @Summary      Saldo de un producto en una sucursal, o listado por sucursal
// @Tags         stock
// @Produce      json
// @Param        product_id  query  string  false  "Con branch_id: saldo puntual"
// @Param        branch_id   query  string  true   "Sucursal"
// @Param        search      query  string  false  "Filtro por SKU o nombre (listado)"
// @Success      200  {object}  dto.StockResponse
// @Router       /api/stock [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	branchID := c.Query("branch_id")
	productID := c.Query("product_id")

	if productID != "" {
		stock, err := h.queries.GetStock(c.Context(), productID, branchID)
		if err != nil {
			return domainError(c, err)
		}
		return c.JSON(dto.NewStockResponse(stock))
	}

	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	rows, err := h.queries.ListBranchStocks(c.Context(), branchID, c.Query("search"), page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.BranchStockDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.NewBranchStockDTO(r))
	}
	return c.JSON(fiber.Map{"total": len(out), "stocks": out})
}

// LowStock godoc
// @Summary      Productos en o bajo su punto de reorden
// @Tags         stock
// @Produce      json
// @Param        branch_id  query  string  true   "Sucursal"
// @Param        threshold  query  string  false  "Umbral explícito en unidades base (anula el punto de reorden)"
// @Success      200  {array}  dto.BranchStockDTO
// @Router       /api/stock/low [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	var threshold *decimal.Decimal
	if raw := c.Query("threshold"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "threshold inválido"})
		}
		threshold = &d
	}
	rows, err := h.queries.GetLowStock(c.Context(), c.Query("branch_id"), threshold)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.BranchStockDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.NewBranchStockDTO(r))
	}
	return c.JSON(fiber.Map{"total": len(out), "stocks": out})
}

// Summary godoc
// @Summary      Resumen agregado del stock de una sucursal
// @Tags         stock
// @Produce      json
// @Param        branch_id  query  string  false  "Vacío = todas las sucursales"
// @Success      200  {object}  dto.StockSummaryDTO
// @Router       /api/stock/summary [get]
func (h *StockHandler) Summary(c *fiber.Ctx) error {
	res, err := h.queries.GetSummary(c.Context(), c.Query("branch_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.StockSummaryDTO{
		TotalProducts: res.TotalProducts,
		LowStockCount: res.LowStockCount,
		OutOfStock:    res.OutOfStock,
		TotalValue:    res.TotalValue,
	})
}

// Movements godoc
// @Summary      Historial del libro de movimientos
// @Tags         stock
// @Produce      json
// @Param        product_id   query  string  false  "Filtro por producto"
// @Param        branch_id    query  string  false  "Filtro por sucursal"
// @Param        type         query  string  false  "Filtro por tipo de movimiento"
// @Param        transfer_id  query  string  false  "Filtro por traslado"
// @Param        from         query  string  false  "Fecha inicial (RFC3339)"
// @Param        to           query  string  false  "Fecha final (RFC3339)"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) Movements(c *fiber.Ctx) error {
	filter := repository.MovementFilter{
		ProductID:  c.Query("product_id"),
		BranchID:   c.Query("branch_id"),
		Type:       c.Query("type"),
		TransferID: c.Query("transfer_id"),
	}
	for _, bound := range []struct {
		key string
		dst **time.Time
	}{{"from", &filter.From}, {"to", &filter.To}} {
		if raw := c.Query(bound.key); raw != "" {
			ts, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "fecha inválida: " + bound.key})
			}
			*bound.dst = &ts
		}
	}

	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	movs, err := h.queries.GetMovementHistory(c.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.NewMovementResponse(m))
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// MonthlyMovements godoc
// @Summary      Entradas y salidas agrupadas por mes
// @Tags         stock
// @Produce      json
// @Param        year       query  int     true   "Año"
// @Param        branch_id  query  string  false  "Vacío = todas las sucursales"
// @Success      200  {array}  dto.MonthlyMovementDTO
// @Router       /api/stock/movements/monthly [get]
func (h *StockHandler) MonthlyMovements(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "year inválido"})
	}
	rows, err := h.queries.GetMonthlyMovements(c.Context(), year, c.Query("branch_id"))
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.MonthlyMovementDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.MonthlyMovementDTO{Month: r.Month, Inbound: r.Inbound, Outbound: r.Outbound, Count: r.Count})
	}
	return c.JSON(out)
}

// MostActive godoc
// @Summary      Productos con más movimientos en la ventana consultada
// @Tags         stock
// @Produce      json
// @Param        branch_id  query  string  false  "Vacío = todas las sucursales"
// @Param        days       query  int     false  "Ventana en días (default 30)"
// @Param        limit      query  int     false  "Máximo de productos (default 10)"
// @Success      200  {array}  dto.ActiveProductDTO
// @Router       /api/stock/movements/top [get]
func (h *StockHandler) MostActive(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	limit := c.QueryInt("limit", 10)
	rows, err := h.queries.GetMostActiveProducts(c.Context(), c.Query("branch_id"), time.Duration(days)*24*time.Hour, limit)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.ActiveProductDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ActiveProductDTO{
			ProductID:     r.ProductID,
			SKU:           r.SKU,
			ProductName:   r.ProductName,
			MovementCount: r.MovementCount,
			TotalQuantity: r.TotalQuantity,
		})
	}
	return c.JSON(out)
}
