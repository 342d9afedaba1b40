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
	_ repository.DocumentRepository = (*documentRepo)(nil)
	_ repository.SequenceRepository = (*sequenceRepo)(nil)
)

type documentRepo struct{ view }

func (r *documentRepo) numberTaken(doc *entity.Document) bool {
	for id, d := range r.s.st.documents {
		if id != doc.ID && d.Kind == doc.Kind && d.Number == doc.Number {
			return true
		}
	}
	return false
}

func (r *documentRepo) Create(_ context.Context, doc *entity.Document) error {
	defer r.lock()()
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if _, ok := r.s.st.documents[doc.ID]; ok || r.numberTaken(doc) {
		return domain.ErrDuplicate
	}
	doc.Version = 1
	r.s.st.documents[doc.ID] = cloneDocument(*doc)
	return nil
}

func (r *documentRepo) Update(_ context.Context, doc *entity.Document, expectedVersion int) error {
	defer r.lock()()
	cur, ok := r.s.st.documents[doc.ID]
	if !ok || cur.Version != expectedVersion {
		return &domain.ConflictError{Entity: "documento", ID: doc.ID}
	}
	if r.numberTaken(doc) {
		return domain.ErrDuplicate
	}
	doc.Version = expectedVersion + 1
	r.s.st.documents[doc.ID] = cloneDocument(*doc)
	return nil
}

func (r *documentRepo) GetByID(_ context.Context, id string) (*entity.Document, error) {
	defer r.lock()()
	d, ok := r.s.st.documents[id]
	if !ok {
		return nil, nil
	}
	out := cloneDocument(d)
	return &out, nil
}

func (r *documentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return r.GetByID(ctx, id)
}

func (r *documentRepo) List(_ context.Context, f repository.DocumentFilter) ([]*entity.Document, error) {
	defer r.lock()()
	list := make([]*entity.Document, 0)
	for _, d := range r.s.st.documents {
		if f.Kind != "" && d.Kind != f.Kind {
			continue
		}
		if f.CounterpartyID != "" && d.CounterpartyID != f.CounterpartyID {
			continue
		}
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		c := cloneDocument(d)
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].Number.Sequence > list[j].Number.Sequence
	})
	return page(list, f.Limit, f.Offset), nil
}

func (r *documentRepo) Delete(_ context.Context, id string) error {
	defer r.lock()()
	delete(r.s.st.documents, id)
	return nil
}

func (r *documentRepo) MaxSequence(_ context.Context, kind entity.DocumentKind, letter string, pointOfSale int) (int64, error) {
	defer r.lock()()
	var top int64
	for _, d := range r.s.st.documents {
		if d.Kind == kind && d.Number.Letter == letter && d.Number.PointOfSale == pointOfSale && d.Number.Sequence > top {
			top = d.Number.Sequence
		}
	}
	return top, nil
}

func (r *documentRepo) IDsByCounterparty(_ context.Context, counterpartyID string, limit int) ([]string, error) {
	defer r.lock()()
	ids := make([]string, 0)
	for id, d := range r.s.st.documents {
		if d.CounterpartyID == counterpartyID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return page(ids, limit, 0), nil
}

type sequenceRepo struct{ view }

func (r *sequenceRepo) HighWaterForUpdate(_ context.Context, kind entity.DocumentKind, letter string, pointOfSale int) (int64, error) {
	defer r.lock()()
	return r.s.st.sequences[seqKey{kind, letter, pointOfSale}], nil
}

func (r *sequenceRepo) SetHighWater(_ context.Context, kind entity.DocumentKind, letter string, pointOfSale int, n int64) error {
	defer r.lock()()
	r.s.st.sequences[seqKey{kind, letter, pointOfSale}] = n
	return nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return list[:0]
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
