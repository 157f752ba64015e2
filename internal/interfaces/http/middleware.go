package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
)

// HeaderUserID header con la identidad del actor. La resolución de identidad y
// la autorización viven en el gateway (fuera de este servicio); aquí el usuario
// es un string opaco que viaja a los campos de auditoría.
const HeaderUserID = "X-User-Id"

// GetUserID devuelve el actor de la petición o "" si el header no viene.
func GetUserID(c *fiber.Ctx) string {
	return c.Get(HeaderUserID)
}

// RequireUser corta con 401 si la petición no trae actor.
func RequireUser(c *fiber.Ctx) (string, error) {
	userID := GetUserID(c)
	if userID == "" {
		return "", c.Status(fiber.StatusUnauthorized).
			JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "falta el header " + HeaderUserID})
	}
	return userID, nil
}

// domainError mapea errores de dominio a respuestas HTTP. Los errores no
// clasificados se loguean con contexto completo y se devuelven como INTERNAL
// genérico, sin filtrar detalles internos.
func domainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnitNotFound):
		return c.Status(fiber.StatusBadRequest).
			JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).
			JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrNegativeBalance),
		errors.Is(err, domain.ErrOverRelease),
		errors.Is(err, domain.ErrBelowReserved):
		return c.Status(fiber.StatusConflict).
			JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).
			JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).
			JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	default:
		log.Error().Err(err).
			Str("path", c.Path()).
			Str("method", c.Method()).
			Msg("error inesperado en handler")
		return c.Status(fiber.StatusInternalServerError).
			JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}
