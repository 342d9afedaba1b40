package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var (
	_ repository.TreasuryAccountRepository = (*accountRepo)(nil)
	_ repository.CashMovementRepository    = (*movementRepo)(nil)
)

type accountRepo struct{ view }

func (r *accountRepo) Create(_ context.Context, a *entity.TreasuryAccount) error {
	defer r.lock()()
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if _, ok := r.s.st.accounts[a.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.st.accounts[a.ID] = *a
	return nil
}

func (r *accountRepo) GetByID(_ context.Context, id string) (*entity.TreasuryAccount, error) {
	defer r.lock()()
	a, ok := r.s.st.accounts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *accountRepo) GetForUpdate(ctx context.Context, id string) (*entity.TreasuryAccount, error) {
	return r.GetByID(ctx, id)
}

func (r *accountRepo) FirstByPaymentMethod(_ context.Context, method entity.PaymentMethod) (*entity.TreasuryAccount, error) {
	defer r.lock()()
	var first *entity.TreasuryAccount
	for _, a := range r.s.st.accounts {
		if a.PaymentMethod != method {
			continue
		}
		if first == nil || a.CreatedAt.Before(first.CreatedAt) ||
			(a.CreatedAt.Equal(first.CreatedAt) && a.ID < first.ID) {
			c := a
			first = &c
		}
	}
	return first, nil
}

func (r *accountRepo) List(_ context.Context) ([]*entity.TreasuryAccount, error) {
	defer r.lock()()
	list := make([]*entity.TreasuryAccount, 0, len(r.s.st.accounts))
	for _, a := range r.s.st.accounts {
		c := a
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *accountRepo) UpdateBalance(_ context.Context, id string, balance decimal.Decimal) error {
	defer r.lock()()
	a, ok := r.s.st.accounts[id]
	if !ok {
		return domain.ErrInvalidAccount
	}
	a.Balance = balance
	r.s.st.accounts[id] = a
	return nil
}

func (r *accountRepo) Delete(_ context.Context, id string) error {
	defer r.lock()()
	delete(r.s.st.accounts, id)
	return nil
}

type movementRepo struct{ view }

func (r *movementRepo) Create(_ context.Context, m *entity.CashMovement) error {
	defer r.lock()()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	r.s.st.lastSeq++
	m.Seq = r.s.st.lastSeq
	r.s.st.movements[m.ID] = *m
	return nil
}

func (r *movementRepo) GetByID(_ context.Context, id string) (*entity.CashMovement, error) {
	defer r.lock()()
	m, ok := r.s.st.movements[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *movementRepo) Delete(_ context.Context, id string) error {
	defer r.lock()()
	delete(r.s.st.movements, id)
	return nil
}

func (r *movementRepo) ListByAccount(_ context.Context, accountID string) ([]*entity.CashMovement, error) {
	defer r.lock()()
	return r.filter(func(m entity.CashMovement) bool {
		return m.OriginAccountID == accountID || m.DestinationAccountID == accountID
	}), nil
}

func (r *movementRepo) ListByRelated(_ context.Context, relatedType, relatedID string) ([]*entity.CashMovement, error) {
	defer r.lock()()
	return r.filter(func(m entity.CashMovement) bool {
		return m.RelatedDocumentType == relatedType && m.RelatedDocumentID == relatedID
	}), nil
}

func (r *movementRepo) filter(keep func(entity.CashMovement) bool) []*entity.CashMovement {
	list := make([]*entity.CashMovement, 0)
	for _, m := range r.s.st.movements {
		if keep(m) {
			c := m
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Seq < list[j].Seq })
	return list
}
