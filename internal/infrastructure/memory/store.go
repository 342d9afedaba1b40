// Package memory implementa los repositorios sobre mapas en memoria. Una sola transacción
// a la vez (mutex global); si la función falla se restaura la foto tomada al inicio.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/taller-api/internal/application/ports"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

type seqKey struct {
	kind        entity.DocumentKind
	letter      string
	pointOfSale int
}

type state struct {
	documents      map[string]entity.Document
	sequences      map[seqKey]int64
	checks         map[string]entity.Check
	accounts       map[string]entity.TreasuryAccount
	movements      map[string]entity.CashMovement
	settlements    map[string]entity.Settlement
	counterparties map[string]entity.Counterparty
	lastSeq        int64
}

func newState() *state {
	return &state{
		documents:      map[string]entity.Document{},
		sequences:      map[seqKey]int64{},
		checks:         map[string]entity.Check{},
		accounts:       map[string]entity.TreasuryAccount{},
		movements:      map[string]entity.CashMovement{},
		settlements:    map[string]entity.Settlement{},
		counterparties: map[string]entity.Counterparty{},
	}
}

func (s *state) clone() *state {
	out := newState()
	for k, v := range s.documents {
		out.documents[k] = cloneDocument(v)
	}
	for k, v := range s.sequences {
		out.sequences[k] = v
	}
	for k, v := range s.checks {
		out.checks[k] = v
	}
	for k, v := range s.accounts {
		out.accounts[k] = v
	}
	for k, v := range s.movements {
		out.movements[k] = v
	}
	for k, v := range s.settlements {
		out.settlements[k] = v
	}
	for k, v := range s.counterparties {
		out.counterparties[k] = v
	}
	out.lastSeq = s.lastSeq
	return out
}

func cloneDocument(d entity.Document) entity.Document {
	d.Items = append([]entity.LineItem(nil), d.Items...)
	d.Payments = append([]entity.PaymentInstrument(nil), d.Payments...)
	return d
}

// Store almacenamiento en memoria; implementa ports.TxRunner.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore construye un almacenamiento vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn con exclusión mutua. Error → se restaura el estado previo.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(ctx, s.repos(true)); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// Repos repositorios para lecturas fuera de transacción. No usar dentro de Run.
func (s *Store) Repos() repository.Repos {
	return s.repos(false)
}

func (s *Store) repos(inTx bool) repository.Repos {
	v := view{s: s, inTx: inTx}
	return repository.Repos{
		Documents:      &documentRepo{v},
		Sequences:      &sequenceRepo{v},
		Checks:         &checkRepo{v},
		Accounts:       &accountRepo{v},
		Movements:      &movementRepo{v},
		Settlements:    &settlementRepo{v},
		Counterparties: &counterpartyRepo{v},
	}
}

// view acceso al estado; fuera de transacción toma el mutex en cada llamada.
type view struct {
	s    *Store
	inTx bool
}

func (v view) lock() func() {
	if v.inTx {
		return func() {}
	}
	v.s.mu.Lock()
	return v.s.mu.Unlock
}
