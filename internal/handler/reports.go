package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/museum-desk/internal/middleware"
	"github.com/iliyamo/museum-desk/internal/service"
)

// ReportHandler serves the read-only reports as JSON or CSV.
type ReportHandler struct {
	Reports *service.ReportService
	Log     *zap.Logger
}

func NewReportHandler(reports *service.ReportService, log *zap.Logger) *ReportHandler {
	return &ReportHandler{Reports: reports, Log: log}
}

// Authorize gates /reports/:name on the permissions of that report.
func (h *ReportHandler) Authorize(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		perms, ok := service.ReportPermissions(c.Param("name"))
		if !ok {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown report"})
		}
		if !identity(c).CanAny(perms...) {
			return middleware.Deny(c)
		}
		return next(c)
	}
}

// Show runs /reports/:name over ?from=&to= (YYYY-MM-DD). format=csv
// streams the same columns as a CSV attachment. It runs behind Authorize.
func (h *ReportHandler) Show(c echo.Context) error {
	name := c.Param("name")

	from, err := parseDate(c.QueryParam("from"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be YYYY-MM-DD"})
	}
	to, err := parseDate(c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be YYYY-MM-DD"})
	}
	rng, err := h.Reports.Range(from, to)
	if err != nil {
		return respondError(c, h.Log, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	rep, err := h.Reports.Run(ctx, name, rng)
	if err != nil {
		return respondError(c, h.Log, err)
	}

	if c.QueryParam("format") == "csv" {
		filename := name + "_" + rng.From.Format(dateLayout) + "_" + rng.To.Format(dateLayout) + ".csv"
		c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
		c.Response().WriteHeader(http.StatusOK)
		return service.WriteCSV(c.Response(), rep)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"report":  rep.Name,
		"from":    rng.From.Format(dateLayout),
		"to":      rng.To.Format(dateLayout),
		"columns": rep.Columns,
		"rows":    rep.Rows,
	})
}
