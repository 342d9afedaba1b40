package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var (
	_ repository.CheckRepository      = (*checkRepo)(nil)
	_ repository.SettlementRepository = (*settlementRepo)(nil)
)

type checkRepo struct{ view }

func (r *checkRepo) Create(_ context.Context, c *entity.Check) error {
	defer r.lock()()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	r.s.st.checks[c.ID] = *c
	return nil
}

func (r *checkRepo) Update(_ context.Context, c *entity.Check) error {
	defer r.lock()()
	if _, ok := r.s.st.checks[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.checks[c.ID] = *c
	return nil
}

func (r *checkRepo) Delete(_ context.Context, id string) error {
	defer r.lock()()
	delete(r.s.st.checks, id)
	return nil
}

func (r *checkRepo) GetByID(_ context.Context, id string) (*entity.Check, error) {
	defer r.lock()()
	c, ok := r.s.st.checks[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *checkRepo) GetForUpdate(ctx context.Context, id string) (*entity.Check, error) {
	return r.GetByID(ctx, id)
}

func (r *checkRepo) ListByDocument(_ context.Context, documentID string) ([]*entity.Check, error) {
	defer r.lock()()
	return r.filter(func(c entity.Check) bool { return c.DocumentID == documentID }), nil
}

func (r *checkRepo) FindByPayment(_ context.Context, documentID, paymentID string) (*entity.Check, error) {
	defer r.lock()()
	if paymentID == "" {
		return nil, nil
	}
	list := r.filter(func(c entity.Check) bool { return c.DocumentID == documentID && c.PaymentID == paymentID })
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r *checkRepo) FindByNumber(_ context.Context, documentID, number string) (*entity.Check, error) {
	defer r.lock()()
	list := r.filter(func(c entity.Check) bool { return c.DocumentID == documentID && c.Number == number })
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r *checkRepo) List(_ context.Context, f repository.CheckFilter) ([]*entity.Check, error) {
	defer r.lock()()
	list := r.filter(func(c entity.Check) bool {
		return (f.Status == "" || c.Status == f.Status) && (f.Type == "" || c.Type == f.Type)
	})
	return page(list, f.Limit, f.Offset), nil
}

func (r *checkRepo) filter(keep func(entity.Check) bool) []*entity.Check {
	list := make([]*entity.Check, 0)
	for _, c := range r.s.st.checks {
		if keep(c) {
			cc := c
			list = append(list, &cc)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].DueDate.Equal(list[j].DueDate) {
			return list[i].DueDate.Before(list[j].DueDate)
		}
		return list[i].ID < list[j].ID
	})
	return list
}

type settlementRepo struct{ view }

func (r *settlementRepo) Create(_ context.Context, s *entity.Settlement) error {
	defer r.lock()()
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	r.s.st.settlements[s.ID] = *s
	return nil
}

func (r *settlementRepo) GetByID(_ context.Context, id string) (*entity.Settlement, error) {
	defer r.lock()()
	s, ok := r.s.st.settlements[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *settlementRepo) Delete(_ context.Context, id string) error {
	defer r.lock()()
	delete(r.s.st.settlements, id)
	return nil
}

func (r *settlementRepo) ListByDocument(_ context.Context, documentID string) ([]*entity.Settlement, error) {
	defer r.lock()()
	list := make([]*entity.Settlement, 0)
	for _, s := range r.s.st.settlements {
		if s.DocumentID == documentID {
			c := s
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}
