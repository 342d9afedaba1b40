package documents

import (
	"context"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// DeleteDocument elimina el documento, sus cheques en cartera y revierte sus movimientos.
// Con cobros/pagos registrados o cheques que ya salieron de cartera la baja se bloquea.
// expectedVersion 0 omite el control de versión.
func (uc *UseCase) DeleteDocument(ctx context.Context, id string, expectedVersion int) error {
	err := uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		doc, err := repos.Documents.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if expectedVersion != 0 && doc.Version != expectedVersion {
			return &domain.ConflictError{Entity: "documento", ID: id}
		}

		var deps []domain.Dependent
		settlements, err := repos.Settlements.ListByDocument(ctx, id)
		if err != nil {
			return err
		}
		for _, s := range settlements {
			deps = append(deps, domain.Dependent{Type: string(s.Kind), ID: s.ID})
		}
		docChecks, err := repos.Checks.ListByDocument(ctx, id)
		if err != nil {
			return err
		}
		for _, c := range docChecks {
			if c.Status != entity.CheckStatusInPortfolio {
				deps = append(deps, domain.Dependent{Type: "cheque", ID: c.ID})
			}
		}
		if len(deps) > 0 {
			return &domain.CascadeBlockedError{Entity: "documento", ID: id, Dependents: deps}
		}

		if err := uc.ledger.ReverseRelatedInTx(ctx, repos, string(doc.Kind), id); err != nil {
			return err
		}
		for _, c := range docChecks {
			if err := repos.Checks.Delete(ctx, c.ID); err != nil {
				return err
			}
		}
		return repos.Documents.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("document_id", id).Msg("documento eliminado")
	return nil
}
