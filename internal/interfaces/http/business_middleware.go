package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/scims-analytics/internal/application/dto"
	"github.com/jhoicas/scims-analytics/internal/domain/entity"
)

// businessLookup contrato mínimo que necesita el middleware; lo implementa repository.StoreDirectory.
type businessLookup interface {
	GetBusiness(ctx context.Context, businessID string) (*entity.Business, error)
}

// RequireActiveBusiness bloquea los reportes de negocios suspendidos o inactivos.
// Debe usarse DESPUÉS de AuthMiddleware (necesita LocalBusinessID).
//
// Comportamiento:
//   - 401 si el token no trae business_id.
//   - 403 BUSINESS_INACTIVE si el negocio no existe o su estado no es active.
//   - 503 si falla la consulta.
func RequireActiveBusiness(lookup businessLookup, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		businessID := GetBusinessID(c)
		if businessID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "business_id no encontrado en el token",
			})
		}

		business, err := lookup.GetBusiness(c.UserContext(), businessID)
		if err != nil {
			log.Error().Err(err).Str("business_id", businessID).Msg("verificar estado del negocio")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "BUSINESS_CHECK_FAILED",
				Message: "no se pudo verificar el negocio, intente más tarde",
			})
		}
		if business == nil || (business.Status != "" && business.Status != entity.BusinessStatusActive) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "BUSINESS_INACTIVE",
				Message: "el negocio no está activo",
			})
		}
		return c.Next()
	}
}
