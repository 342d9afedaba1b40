package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.CounterpartyRepository = (*counterpartyRepo)(nil)

type counterpartyRepo struct{ view }

func (r *counterpartyRepo) taxIDTaken(c *entity.Counterparty) bool {
	if c.TaxID == "" {
		return false
	}
	for id, other := range r.s.st.counterparties {
		if id != c.ID && other.Kind == c.Kind && other.TaxID == c.TaxID {
			return true
		}
	}
	return false
}

func (r *counterpartyRepo) Create(_ context.Context, c *entity.Counterparty) error {
	defer r.lock()()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if _, ok := r.s.st.counterparties[c.ID]; ok || r.taxIDTaken(c) {
		return domain.ErrDuplicate
	}
	r.s.st.counterparties[c.ID] = *c
	return nil
}

func (r *counterpartyRepo) GetByID(_ context.Context, id string) (*entity.Counterparty, error) {
	defer r.lock()()
	c, ok := r.s.st.counterparties[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *counterpartyRepo) GetByKindAndTaxID(_ context.Context, kind entity.CounterpartyKind, taxID string) (*entity.Counterparty, error) {
	defer r.lock()()
	for _, c := range r.s.st.counterparties {
		if c.Kind == kind && c.TaxID == taxID {
			cc := c
			return &cc, nil
		}
	}
	return nil, nil
}

func (r *counterpartyRepo) List(_ context.Context, kind entity.CounterpartyKind, limit, offset int) ([]*entity.Counterparty, error) {
	defer r.lock()()
	list := make([]*entity.Counterparty, 0)
	for _, c := range r.s.st.counterparties {
		if kind == "" || c.Kind == kind {
			cc := c
			list = append(list, &cc)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), nil
}

func (r *counterpartyRepo) Update(_ context.Context, c *entity.Counterparty) error {
	defer r.lock()()
	if _, ok := r.s.st.counterparties[c.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.taxIDTaken(c) {
		return domain.ErrDuplicate
	}
	r.s.st.counterparties[c.ID] = *c
	return nil
}

func (r *counterpartyRepo) Delete(_ context.Context, id string) error {
	defer r.lock()()
	delete(r.s.st.counterparties, id)
	return nil
}
