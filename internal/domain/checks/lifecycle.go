// Package checks mantiene la tabla de cheques sincronizada con los medios de pago
// "cheque" de los documentos y controla su ciclo de vida.
package checks

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// Change medio de pago cheque modificado. OriginalNumber es el número previo a la edición,
// necesario para ubicar cheques cuyo PaymentID no se conoce.
type Change struct {
	Instrument     entity.PaymentInstrument
	OriginalNumber string
}

// Removal cheque que dejó de estar entre los medios del documento.
type Removal struct {
	PaymentID string
	Number    string
}

// Plan operaciones a aplicar sobre la tabla de cheques.
type Plan struct {
	Create []entity.PaymentInstrument
	Update []Change
	Delete []Removal
}

// Empty indica si no hay nada que hacer.
func (p Plan) Empty() bool {
	return len(p.Create) == 0 && len(p.Update) == 0 && len(p.Delete) == 0
}

func checkInstruments(in []entity.PaymentInstrument) ([]entity.PaymentInstrument, map[string]entity.PaymentInstrument) {
	list := make([]entity.PaymentInstrument, 0, len(in))
	byID := make(map[string]entity.PaymentInstrument, len(in))
	for _, p := range in {
		if _, ok := p.CheckDetails(); !ok {
			continue
		}
		list = append(list, p)
		if p.ID != "" {
			byID[p.ID] = p
		}
	}
	return list, byID
}

// Reconcile compara los medios anteriores y nuevos de un documento por id sintético
// (nunca por número de cheque). Con la misma entrada dos veces el plan es vacío.
func Reconcile(old, next []entity.PaymentInstrument) Plan {
	var plan Plan
	oldList, oldByID := checkInstruments(old)
	newList, newByID := checkInstruments(next)

	for _, p := range newList {
		prev, ok := oldByID[p.ID]
		if p.ID == "" || !ok {
			plan.Create = append(plan.Create, p)
			continue
		}
		if changed(prev, p) {
			pc, _ := prev.CheckDetails()
			plan.Update = append(plan.Update, Change{Instrument: p, OriginalNumber: pc.Number})
		}
	}
	for _, p := range oldList {
		if _, ok := newByID[p.ID]; ok && p.ID != "" {
			continue
		}
		c, _ := p.CheckDetails()
		plan.Delete = append(plan.Delete, Removal{PaymentID: p.ID, Number: c.Number})
	}
	return plan
}

func changed(a, b entity.PaymentInstrument) bool {
	ac, _ := a.CheckDetails()
	bc, _ := b.CheckDetails()
	return !a.Amount.Equal(b.Amount) ||
		ac.Number != bc.Number ||
		ac.Bank != bc.Bank ||
		!sameDay(ac.IssueDate, bc.IssueDate) ||
		!sameDay(ac.DueDate, bc.DueDate) ||
		ac.ThirdParty != bc.ThirdParty ||
		ac.ThirdPartyName != bc.ThirdPartyName
}

// NewCheck arma el cheque para un medio nuevo. El id lo asigna quien lo persiste.
func NewCheck(doc *entity.Document, p entity.PaymentInstrument, now time.Time) entity.Check {
	c, _ := p.CheckDetails()
	return entity.Check{
		Type:           doc.CheckType(),
		Number:         c.Number,
		Bank:           c.Bank,
		Amount:         p.Amount,
		IssueDate:      c.IssueDate,
		DueDate:        c.DueDate,
		HolderName:     doc.CounterpartyName,
		ThirdParty:     c.ThirdParty,
		ThirdPartyName: c.ThirdPartyName,
		Status:         entity.CheckStatusInPortfolio,
		DocumentID:     doc.ID,
		PaymentID:      p.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// SetHolder actualiza el titular (el cliente o proveedor del documento). Devuelve false si ya era ese.
func SetHolder(check *entity.Check, holder string) bool {
	if holder == "" || check.HolderName == holder {
		return false
	}
	check.HolderName = holder
	return true
}

// ApplyChange copia al cheque los datos editados del medio y el titular. Devuelve false si no cambió nada.
func ApplyChange(check *entity.Check, holder string, p entity.PaymentInstrument) bool {
	c, ok := p.CheckDetails()
	if !ok {
		return false
	}
	dirty := SetHolder(check, holder)
	setStr := func(dst *string, v string) {
		if *dst != v {
			*dst = v
			dirty = true
		}
	}
	setStr(&check.Number, c.Number)
	setStr(&check.Bank, c.Bank)
	setStr(&check.ThirdPartyName, c.ThirdPartyName)
	if check.ThirdParty != c.ThirdParty {
		check.ThirdParty = c.ThirdParty
		dirty = true
	}
	if !check.Amount.Equal(p.Amount) {
		check.Amount = p.Amount
		dirty = true
	}
	if !sameDay(check.IssueDate, c.IssueDate) {
		check.IssueDate = c.IssueDate
		dirty = true
	}
	if !sameDay(check.DueDate, c.DueDate) {
		check.DueDate = c.DueDate
		dirty = true
	}
	if check.PaymentID == "" && p.ID != "" {
		check.PaymentID = p.ID
		dirty = true
	}
	return dirty
}

// EnsureEditable solo los cheques en cartera se modifican o eliminan desde el documento.
func EnsureEditable(check entity.Check) error {
	if check.Status != entity.CheckStatusInPortfolio {
		return domain.NewValidationError("payments", "el cheque "+check.Number+" ya no está en cartera ("+string(check.Status)+")")
	}
	return nil
}

var transitions = map[entity.CheckType]map[entity.CheckStatus][]entity.CheckStatus{
	entity.CheckTypeReceived: {
		entity.CheckStatusInPortfolio: {entity.CheckStatusDeposited, entity.CheckStatusBounced},
		entity.CheckStatusDeposited:   {entity.CheckStatusCleared, entity.CheckStatusBounced},
	},
	entity.CheckTypeIssued: {
		entity.CheckStatusInPortfolio: {entity.CheckStatusCleared, entity.CheckStatusBounced},
	},
}

// Allowed indica si la transición existe para el tipo de cheque.
func Allowed(t entity.CheckType, from, to entity.CheckStatus) bool {
	for _, s := range transitions[t][from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition cambia el estado del cheque. Salir de cartera exige que el cheque esté vencido.
func Transition(check *entity.Check, to entity.CheckStatus, now time.Time) error {
	if !to.IsValid() {
		return domain.NewValidationError("status", "estado de cheque desconocido")
	}
	if !Allowed(check.Type, check.Status, to) {
		return domain.ErrInvalidTransition
	}
	if check.Status == entity.CheckStatusInPortfolio {
		if days := DaysUntilDue(check.DueDate, now); days > 0 {
			return &domain.NotYetDueError{CheckID: check.ID, DaysUntilDue: days}
		}
	}
	check.Status = to
	check.UpdatedAt = now
	return nil
}

// DaysUntilDue días calendario hasta el vencimiento (negativo si ya venció). Solo cuenta la fecha.
func DaysUntilDue(due, now time.Time) int {
	loc := now.Location()
	dy, dm, dd := due.In(loc).Date()
	ny, nm, nd := now.Date()
	a := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return int(a.Sub(b).Hours() / 24)
}

func sameDay(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return a.IsZero() == b.IsZero()
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Total suma los importes de una lista de cheques.
func Total(list []entity.Check) decimal.Decimal {
	sum := decimal.Zero
	for _, c := range list {
		sum = sum.Add(c.Amount)
	}
	return sum
}
