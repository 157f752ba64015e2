package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/application/inventory"
)

// TransferHandler maneja las peticiones HTTP del flujo de traslados entre sucursales.
type TransferHandler struct {
	uc *inventory.TransferUseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *inventory.TransferUseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Create godoc
// @Summary      Solicitar un traslado entre sucursales
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "product_id, from_branch_id, to_branch_id, quantity, unit_code"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	userID, err := RequireUser(c)
	if err != nil {
		return err
	}
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	t, err := h.uc.Request(c.Context(), inventory.CreateTransferInputDTO{
		ProductID:    in.ProductID,
		FromBranchID: in.FromBranchID,
		ToBranchID:   in.ToBranchID,
		Quantity:     in.Quantity,
		UnitCode:     in.UnitCode,
		UserID:       userID,
		Reason:       in.Reason,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTransferResponse(t))
}

// Approve godoc
// @Summary      Aprobar un traslado (reserva en origen, pasa a IN_TRANSIT)
// @Tags         transfers
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/approve [post]
func (h *TransferHandler) Approve(c *fiber.Ctx) error {
	userID, err := RequireUser(c)
	if err != nil {
		return err
	}
	t, err := h.uc.Approve(c.Context(), c.Params("id"), userID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.NewTransferResponse(t))
}

// Send godoc
// @Summary      Registrar la salida física del traslado en origen
// @Tags         transfers
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/send [post]
func (h *TransferHandler) Send(c *fiber.Ctx) error {
	userID, err := RequireUser(c)
	if err != nil {
		return err
	}
	t, err := h.uc.Send(c.Context(), c.Params("id"), userID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.NewTransferResponse(t))
}

// Receive godoc
// @Summary      Registrar la recepción en destino y completar el traslado
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true   "ID del traslado"
// @Param        body  body  dto.ReceiveTransferRequest  false  "received_quantity para registrar merma"
// @Success      200   {object}  dto.TransferResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/receive [post]
func (h *TransferHandler) Receive(c *fiber.Ctx) error {
	userID, err := RequireUser(c)
	if err != nil {
		return err
	}
	var in dto.ReceiveTransferRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	t, err := h.uc.Receive(c.Context(), c.Params("id"), userID, in.ReceivedQuantity)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.NewTransferResponse(t))
}

// Cancel godoc
// @Summary      Cancelar un traslado PENDING o IN_TRANSIT
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true   "ID del traslado"
// @Param        body  body  dto.CancelTransferRequest  false  "reason"
// @Success      200   {object}  dto.TransferResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	userID, err := RequireUser(c)
	if err != nil {
		return err
	}
	var in dto.CancelTransferRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	t, err := h.uc.Cancel(c.Context(), c.Params("id"), userID, in.Reason)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.NewTransferResponse(t))
}

// GetByID godoc
// @Summary      Consultar un traslado
// @Tags         transfers
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	t, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.NewTransferResponse(t))
}

// List godoc
// @Summary      Listar traslados
// @Tags         transfers
// @Produce      json
// @Param        status  query  string  false  "PENDING, IN_TRANSIT, COMPLETED o CANCELLED"
// @Success      200  {array}  dto.TransferResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.NewTransferResponse(t))
	}
	return c.JSON(fiber.Map{"total": len(out), "transfers": out})
}

// Stale godoc
// @Summary      Traslados no terminales con más antigüedad que max_age_hours
// @Description  Solo detección: la cancelación de un traslado estancado sigue
//
//	siendo una acción explícita del caller.
//
// @Tags         transfers
// @Produce      json
// @Param        max_age_hours  query  int  false  "Antigüedad mínima en horas (default 72)"
// @Success      200  {array}  dto.TransferResponse
// @Router       /api/transfers/stale [get]
func (h *TransferHandler) Stale(c *fiber.Ctx) error {
	hours := c.QueryInt("max_age_hours", 72)
	list, err := h.uc.FindStale(c.Context(), time.Duration(hours)*time.Hour)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.NewTransferResponse(t))
	}
	return c.JSON(fiber.Map{"total": len(out), "transfers": out})
}
