package documents

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/taller-api/internal/domain/checks"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// findCheck ubica el cheque de un medio del documento: primero por id del medio y,
// si no aparece, por el número original. Nunca devuelve cheques de cobros/pagos.
func findCheck(ctx context.Context, repos repository.Repos, documentID, paymentID, number string) (*entity.Check, error) {
	c, err := repos.Checks.FindByPayment(ctx, documentID, paymentID)
	if err != nil || c != nil {
		return c, err
	}
	c, err = repos.Checks.FindByNumber(ctx, documentID, number)
	if err != nil || c == nil {
		return nil, err
	}
	if c.PaymentID != "" && c.PaymentID != paymentID {
		return nil, nil
	}
	return c, nil
}

// refreshHolders pone como titular al cliente o proveedor vigente en los cheques en cartera
// que el plan no toca (los que se actualizan lo reciben en ApplyChange).
func refreshHolders(ctx context.Context, repos repository.Repos, doc *entity.Document, plan checks.Plan, now time.Time) error {
	touched := make(map[string]bool, len(plan.Update)+len(plan.Create))
	for _, ch := range plan.Update {
		touched[ch.Instrument.ID] = true
	}
	for _, p := range plan.Create {
		touched[p.ID] = true
	}
	for _, p := range doc.Payments {
		cd, ok := p.CheckDetails()
		if !ok || touched[p.ID] {
			continue
		}
		c, err := findCheck(ctx, repos, doc.ID, p.ID, cd.Number)
		if err != nil {
			return err
		}
		if c == nil || c.Status != entity.CheckStatusInPortfolio {
			continue
		}
		updated := *c
		if !checks.SetHolder(&updated, doc.CounterpartyName) {
			continue
		}
		updated.UpdatedAt = now
		if err := repos.Checks.Update(ctx, &updated); err != nil {
			return err
		}
	}
	return nil
}

// syncChecks aplica sobre la tabla de cheques el plan de reconciliación entre los medios previos y los nuevos.
func (uc *UseCase) syncChecks(ctx context.Context, repos repository.Repos, doc *entity.Document, prev []entity.PaymentInstrument) error {
	plan := checks.Reconcile(prev, doc.Payments)
	now := uc.now()
	if prev != nil {
		if err := refreshHolders(ctx, repos, doc, plan, now); err != nil {
			return err
		}
	}
	if plan.Empty() {
		return nil
	}

	for _, r := range plan.Delete {
		c, err := findCheck(ctx, repos, doc.ID, r.PaymentID, r.Number)
		if err != nil {
			return err
		}
		if c == nil {
			continue
		}
		if err := checks.EnsureEditable(*c); err != nil {
			return err
		}
		if err := repos.Checks.Delete(ctx, c.ID); err != nil {
			return err
		}
	}

	for _, ch := range plan.Update {
		c, err := findCheck(ctx, repos, doc.ID, ch.Instrument.ID, ch.OriginalNumber)
		if err != nil {
			return err
		}
		if c == nil {
			plan.Create = append(plan.Create, ch.Instrument)
			continue
		}
		updated := *c
		if !checks.ApplyChange(&updated, doc.CounterpartyName, ch.Instrument) {
			continue
		}
		if err := checks.EnsureEditable(*c); err != nil {
			return err
		}
		updated.UpdatedAt = now
		if err := repos.Checks.Update(ctx, &updated); err != nil {
			return err
		}
	}

	for _, p := range plan.Create {
		c := checks.NewCheck(doc, p, now)
		c.ID = uuid.New().String()
		if err := repos.Checks.Create(ctx, &c); err != nil {
			return err
		}
	}
	uc.log.Debug().
		Str("document_id", doc.ID).
		Int("created", len(plan.Create)).
		Int("updated", len(plan.Update)).
		Int("deleted", len(plan.Delete)).
		Msg("cheques reconciliados")
	return nil
}
