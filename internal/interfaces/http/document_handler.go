package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taller-api/internal/application/documents"
	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/reporting"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/numbering"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// DocumentHandler ventas y compras.
type DocumentHandler struct {
	uc     *documents.UseCase
	report *reporting.UseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *documents.UseCase, report *reporting.UseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc, report: report}
}

// parseDate fecha opcional en formato 2006-01-02; vacía = cero (el caso de uso pone hoy).
func parseDate(field, raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "fecha inválida, formato "+dateLayout)
	}
	return t, nil
}

func toSaveInput(req dto.SaveDocumentRequest, id, userID string) (documents.SaveInput, error) {
	date, err := parseDate("date", req.Date)
	if err != nil {
		return documents.SaveInput{}, err
	}
	var number int64
	if strings.TrimSpace(req.Number) != "" {
		number, _, err = numbering.ParseManual(req.Number)
		if err != nil {
			return documents.SaveInput{}, err
		}
	}
	items := make([]entity.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, it.ToEntity())
	}
	return documents.SaveInput{
		ID:              id,
		ExpectedVersion: req.ExpectedVersion,
		Kind:            entity.DocumentKind(req.Kind),
		CounterpartyID:  req.CounterpartyID,
		Date:            date,
		Letter:          strings.ToUpper(req.Letter),
		PointOfSale:     req.PointOfSale,
		Number:          number,
		PaymentType:     entity.PaymentType(req.PaymentType),
		Items:           items,
		Payments:        req.Payments,
		Notes:           req.Notes,
		UserID:          userID,
	}, nil
}

// NextNumber GET /api/documents/next-number?kind=venta&letter=B&point_of_sale=1
func (h *DocumentHandler) NextNumber(c *fiber.Ctx) error {
	pos, err := queryInt(c, "point_of_sale", 1)
	if err != nil {
		return err
	}
	kind := entity.DocumentKind(c.Query("kind", string(entity.DocumentKindSale)))
	n, err := h.uc.NextNumber(c.UserContext(), kind, strings.ToUpper(c.Query("letter")), pos)
	if err != nil {
		return err
	}
	return c.JSON(dto.NextNumberResponse{
		Letter:      n.Letter,
		PointOfSale: n.PointOfSale,
		Sequence:    n.Sequence,
		Number:      numbering.FormatNumber(n),
	})
}

// Create POST /api/documents
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	var req dto.SaveDocumentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	in, err := toSaveInput(req, "", GetUserID(c))
	if err != nil {
		return err
	}
	doc, err := h.uc.SaveDocument(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.DocumentFromEntity(doc))
}

// Update PUT /api/documents/:id (expected_version obligatorio)
func (h *DocumentHandler) Update(c *fiber.Ctx) error {
	var req dto.SaveDocumentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.ExpectedVersion <= 0 {
		return domain.NewValidationError("expected_version", "versión esperada requerida para editar")
	}
	in, err := toSaveInput(req, c.Params("id"), GetUserID(c))
	if err != nil {
		return err
	}
	doc, err := h.uc.SaveDocument(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(dto.DocumentFromEntity(doc))
}

// Get GET /api/documents/:id
func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	doc, err := h.uc.GetDocument(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.DocumentFromEntity(doc))
}

// List GET /api/documents?kind=&counterparty_id=&status=&limit=20&offset=0
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return err
	}
	list, err := h.uc.ListDocuments(c.UserContext(), repository.DocumentFilter{
		Kind:           entity.DocumentKind(c.Query("kind")),
		CounterpartyID: c.Query("counterparty_id"),
		Status:         entity.DocumentStatus(c.Query("status")),
		Limit:          page.Limit,
		Offset:         page.Offset,
	})
	if err != nil {
		return err
	}
	out := dto.DocumentListResponse{Items: make([]dto.DocumentResponse, 0, len(list)), Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}
	for _, d := range list {
		out.Items = append(out.Items, dto.DocumentFromEntity(d))
	}
	return c.JSON(out)
}

// Delete DELETE /api/documents/:id?expected_version=N
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	version, err := queryInt(c, "expected_version", 0)
	if err != nil {
		return err
	}
	if err := h.uc.DeleteDocument(c.UserContext(), c.Params("id"), version); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PDF GET /api/documents/:id/pdf
func (h *DocumentHandler) PDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.report.DocumentPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// pageFromQuery limit/offset con valores por defecto y validación.
func pageFromQuery(c *fiber.Ctx) (dto.PageRequest, error) {
	var page dto.PageRequest
	var err error
	if page.Limit, err = queryInt(c, "limit", 20); err != nil {
		return page, err
	}
	if page.Offset, err = queryInt(c, "offset", 0); err != nil {
		return page, err
	}
	if err := validateStruct(page); err != nil {
		return page, err
	}
	page.DefaultPage()
	return page, nil
}
