package counterparties

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/ports"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

const maxDependents = 20

// UseCase casos de uso para clientes y proveedores.
type UseCase struct {
	tx ports.TxRunner
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx ports.TxRunner) *UseCase {
	return &UseCase{tx: tx}
}

func toResponse(c *entity.Counterparty) *dto.CounterpartyResponse {
	return &dto.CounterpartyResponse{
		ID:        c.ID,
		Kind:      string(c.Kind),
		Name:      c.Name,
		TaxID:     c.TaxID,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}

// Create crea un nuevo cliente o proveedor. El CUIT no se repite dentro del mismo tipo.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateCounterpartyRequest) (*dto.CounterpartyResponse, error) {
	kind := entity.CounterpartyKind(in.Kind)
	if kind != entity.CounterpartyKindCustomer && kind != entity.CounterpartyKindSupplier {
		return nil, domain.NewValidationError("kind", "tipo desconocido (cliente, proveedor)")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "nombre requerido")
	}
	taxID := strings.TrimSpace(in.TaxID)
	repo := uc.tx.Repos().Counterparties
	if taxID != "" {
		existing, err := repo.GetByKindAndTaxID(ctx, kind, taxID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := time.Now()
	c := &entity.Counterparty{
		ID:        uuid.New().String(),
		Kind:      kind,
		Name:      name,
		TaxID:     taxID,
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toResponse(c), nil
}

// Get obtiene un cliente/proveedor.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.CounterpartyResponse, error) {
	c, err := uc.tx.Repos().Counterparties.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(c), nil
}

// List lista clientes o proveedores (kind vacío = todos).
func (uc *UseCase) List(ctx context.Context, kind string, limit, offset int) ([]*dto.CounterpartyResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.tx.Repos().Counterparties.List(ctx, entity.CounterpartyKind(kind), limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CounterpartyResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toResponse(c))
	}
	return out, nil
}

// Delete elimina un cliente/proveedor sin documentos.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(ctx context.Context, repos repository.Repos) error {
		c, err := repos.Counterparties.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		ids, err := repos.Documents.IDsByCounterparty(ctx, id, maxDependents)
		if err != nil {
			return err
		}
		if len(ids) > 0 {
			deps := make([]domain.Dependent, 0, len(ids))
			for _, docID := range ids {
				deps = append(deps, domain.Dependent{Type: "documento", ID: docID})
			}
			return &domain.CascadeBlockedError{Entity: string(c.Kind), ID: id, Dependents: deps}
		}
		return repos.Counterparties.Delete(ctx, id)
	})
}
