package documents

import (
	"context"

	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/numbering"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// assignNumber reserva el número del documento con la fila de secuencia bloqueada.
// Un número manual no consume la secuencia, pero sube la marca de agua si es mayor.
func assignNumber(ctx context.Context, repos repository.Repos, kind entity.DocumentKind, letter string, pos int, manual int64) (entity.DocumentNumber, error) {
	hw, err := repos.Sequences.HighWaterForUpdate(ctx, kind, letter, pos)
	if err != nil {
		return entity.DocumentNumber{}, err
	}
	seq := manual
	if seq == 0 {
		maxExisting, err := repos.Documents.MaxSequence(ctx, kind, letter, pos)
		if err != nil {
			return entity.DocumentNumber{}, err
		}
		if seq, err = numbering.Next(hw, maxExisting); err != nil {
			return entity.DocumentNumber{}, err
		}
	}
	if seq > hw {
		if err := repos.Sequences.SetHighWater(ctx, kind, letter, pos, seq); err != nil {
			return entity.DocumentNumber{}, err
		}
	}
	return entity.DocumentNumber{Letter: letter, PointOfSale: pos, Sequence: seq}, nil
}

// NextNumber vista previa del próximo número automático. El número definitivo se asigna al guardar.
func (uc *UseCase) NextNumber(ctx context.Context, kind entity.DocumentKind, letter string, pos int) (entity.DocumentNumber, error) {
	if err := validateKind(kind); err != nil {
		return entity.DocumentNumber{}, err
	}
	if err := numbering.ValidateHeader(letter, pos); err != nil {
		return entity.DocumentNumber{}, err
	}
	var out entity.DocumentNumber
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		hw, err := repos.Sequences.HighWaterForUpdate(ctx, kind, letter, pos)
		if err != nil {
			return err
		}
		maxExisting, err := repos.Documents.MaxSequence(ctx, kind, letter, pos)
		if err != nil {
			return err
		}
		seq, err := numbering.Next(hw, maxExisting)
		if err != nil {
			return err
		}
		out = entity.DocumentNumber{Letter: letter, PointOfSale: pos, Sequence: seq}
		return nil
	})
	return out, err
}
