package checks

import (
	"context"
	"time"

	"github.com/jhoicas/taller-api/internal/application/ports"
	"github.com/jhoicas/taller-api/internal/domain"
	domainchecks "github.com/jhoicas/taller-api/internal/domain/checks"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/pkg/logger"
)

// UseCase consulta y cambio de estado de cheques. Los cambios de estado son siempre manuales.
type UseCase struct {
	tx  ports.TxRunner
	now ports.Clock
	log *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx ports.TxRunner, now ports.Clock, log *logger.Logger) *UseCase {
	if now == nil {
		now = time.Now
	}
	return &UseCase{tx: tx, now: now, log: log.WithComponent("checks")}
}

// Now hora del reloj del caso de uso (para calcular días al vencimiento en las respuestas).
func (uc *UseCase) Now() time.Time { return uc.now() }

// Get obtiene un cheque.
func (uc *UseCase) Get(ctx context.Context, id string) (*entity.Check, error) {
	c, err := uc.tx.Repos().Checks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// List cheques filtrados por estado y tipo, ordenados por vencimiento.
func (uc *UseCase) List(ctx context.Context, f repository.CheckFilter) ([]*entity.Check, error) {
	if f.Status != "" && !f.Status.IsValid() {
		return nil, domain.NewValidationError("status", "estado de cheque desconocido")
	}
	if f.Type != "" && f.Type != entity.CheckTypeReceived && f.Type != entity.CheckTypeIssued {
		return nil, domain.NewValidationError("type", "tipo de cheque desconocido (recibido, emitido)")
	}
	return uc.tx.Repos().Checks.List(ctx, f)
}

// Transition cambia el estado de un cheque. Salir de cartera exige que esté vencido (NotYetDue si no).
func (uc *UseCase) Transition(ctx context.Context, id string, to entity.CheckStatus) (*entity.Check, error) {
	var out *entity.Check
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		c, err := repos.Checks.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		from := c.Status
		if err := domainchecks.Transition(c, to, uc.now()); err != nil {
			return err
		}
		if err := repos.Checks.Update(ctx, c); err != nil {
			return err
		}
		uc.log.Info().
			Str("check_id", c.ID).
			Str("from", string(from)).
			Str("to", string(c.Status)).
			Msg("cambio de estado de cheque")
		out = c
		return nil
	})
	return out, err
}
