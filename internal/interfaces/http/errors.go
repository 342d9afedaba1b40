package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/pkg/logger"
)

// ErrorHandler traduce los errores devueltos por los handlers a dto.ErrorResponse.
// Los errores de dominio llevan su payload en Details; el resto se registra y sale como 500.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	log = log.WithComponent("http")
	return func(c *fiber.Ctx, err error) error {
		status, body := mapError(err)
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
		}
		return c.Status(status).JSON(body)
	}
}

func mapError(err error) (int, dto.ErrorResponse) {
	var (
		verr     *domain.ValidationError
		mismatch *domain.AmountMismatchError
		over     *domain.OverPaymentError
		notDue   *domain.NotYetDueError
		conflict *domain.ConflictError
		blocked  *domain.CascadeBlockedError
		ferr     *fiber.Error
	)
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, dto.ErrorResponse{
			Code: "VALIDATION", Message: err.Error(),
			Details: fiber.Map{"field": verr.Field, "reason": verr.Reason},
		}
	case errors.As(err, &mismatch):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{
			Code: "AMOUNT_MISMATCH", Message: err.Error(),
			Details: fiber.Map{"total": mismatch.Total, "paid": mismatch.Paid},
		}
	case errors.As(err, &over):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{
			Code: "OVERPAYMENT", Message: err.Error(),
			Details: fiber.Map{"balance": over.Balance, "amount": over.Amount},
		}
	case errors.As(err, &notDue):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{
			Code: "NOT_YET_DUE", Message: err.Error(),
			Details: fiber.Map{"check_id": notDue.CheckID, "days_until_due": notDue.DaysUntilDue},
		}
	case errors.As(err, &conflict):
		return fiber.StatusConflict, dto.ErrorResponse{
			Code: "CONFLICT", Message: err.Error(),
			Details: fiber.Map{"entity": conflict.Entity, "id": conflict.ID},
		}
	case errors.As(err, &blocked):
		return fiber.StatusConflict, dto.ErrorResponse{
			Code: "CASCADE_BLOCKED", Message: err.Error(),
			Details: fiber.Map{"entity": blocked.Entity, "id": blocked.ID, "dependents": blocked.Dependents},
		}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrAmountMismatch):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: "AMOUNT_MISMATCH", Message: err.Error()}
	case errors.Is(err, domain.ErrOverPayment):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: "OVERPAYMENT", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidAccount):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: "INVALID_ACCOUNT", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidAmount):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: "INVALID_AMOUNT", Message: err.Error()}
	case errors.Is(err, domain.ErrNotYetDue):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: "NOT_YET_DUE", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()}
	case errors.Is(err, domain.ErrCascadeBlocked):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CASCADE_BLOCKED", Message: err.Error()}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()}
	case errors.As(err, &ferr):
		return ferr.Code, dto.ErrorResponse{Code: "HTTP_ERROR", Message: ferr.Message}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
}
