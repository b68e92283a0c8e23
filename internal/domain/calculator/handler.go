package calculator

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/wahidmansoor/mwov2-sub006/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/calculators", h.ListCalculators)
	api.GET("/calculators/:kind", h.GetCalculator)
	api.POST("/calculators/:kind", h.Calculate)
	api.POST("/calculate", h.CalculateSelected)

	// Audit trail only exists with a database behind it.
	if h.svc.AuditEnabled() {
		api.GET("/calculations", h.ListCalculations)
		api.GET("/calculations/:id", h.GetCalculation)
	}
}

// CalculateRequest carries a calculator selector plus raw fields.
type CalculateRequest struct {
	Calculator Kind   `json:"calculator"`
	Fields     Fields `json:"fields"`
}

func (h *Handler) ListCalculators(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Descriptors())
}

func (h *Handler) GetCalculator(c echo.Context) error {
	d, err := h.svc.Descriptor(Kind(c.Param("kind")))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) Calculate(c echo.Context) error {
	var raw Fields
	if err := (&echo.DefaultBinder{}).BindBody(c, &raw); err != nil {
		return bindError(err, "request body must be a JSON object of fields")
	}
	return h.respond(c, Kind(c.Param("kind")), raw)
}

func (h *Handler) CalculateSelected(c echo.Context) error {
	var req CalculateRequest
	if err := c.Bind(&req); err != nil {
		return bindError(err, `request body must be {"calculator": ..., "fields": {...}}`)
	}
	if req.Calculator == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "calculator is required")
	}
	return h.respond(c, req.Calculator, req.Fields)
}

// bindError keeps an oversized-body rejection intact and reports anything else
// as a malformed request.
func bindError(err error, msg string) error {
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code == http.StatusRequestEntityTooLarge {
		return he
	}
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}

func (h *Handler) respond(c echo.Context, kind Kind, raw Fields) error {
	res, err := h.svc.Calculate(c.Request().Context(), kind, raw)
	if err != nil {
		if errors.Is(err, ErrUnknownCalculator) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}
	// Invalid input is a normal outcome and still answers 200.
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) ListCalculations(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()
	if kind := c.QueryParam("calculator"); kind != "" {
		items, total, err := h.svc.ListRecordsByCalculator(ctx, Kind(kind), pg.Limit, pg.Offset)
		if err != nil {
			if errors.Is(err, ErrUnknownCalculator) {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset).
			WithLinks(c.Request().URL.Path, c.QueryParams()))
	}
	items, total, err := h.svc.ListRecords(ctx, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset).
		WithLinks(c.Request().URL.Path, c.QueryParams()))
}

func (h *Handler) GetCalculation(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rec, err := h.svc.GetRecord(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "calculation record not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}
	return c.JSON(http.StatusOK, rec)
}
