package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/salmannsharif/User-Profile-Manager/internal/api/metrics"
	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
	"github.com/salmannsharif/User-Profile-Manager/internal/core/ports"
)

// ReportHandler streams profile reports as PDF downloads.
type ReportHandler struct {
	service  ports.ProfileService
	renderer ports.ReportRenderer
}

func NewReportHandler(service ports.ProfileService, renderer ports.ReportRenderer) *ReportHandler {
	return &ReportHandler{service: service, renderer: renderer}
}

// Page handles GET /api/profiles/pdf.
//
// @Summary      PDF report of one page of profiles
// @Tags         reports
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        page  query  int  false  "Zero-based page"  default(0)
// @Param        size  query  int  false  "Page size"        default(5)
// @Success      200
// @Failure      400   {object}  errorBody
// @Router       /api/profiles/pdf [get]
func (h *ReportHandler) Page(c echo.Context) error {
	req, err := pageRequest(c)
	if err != nil {
		return err
	}
	return h.render(c, "page", &req, fmt.Sprintf("users_page_%d_size_%d.pdf", req.Page, req.Size))
}

// All handles GET /api/profiles/pdf/all.
//
// @Summary      PDF report of every profile
// @Tags         reports
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200
// @Router       /api/profiles/pdf/all [get]
func (h *ReportHandler) All(c echo.Context) error {
	return h.render(c, "all", nil, "all_users.pdf")
}

func (h *ReportHandler) render(c echo.Context, scope string, page *domain.PageRequest, filename string) error {
	start := time.Now()

	report, err := h.service.Report(c.Request().Context(), page)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, report); err != nil {
		return err
	}
	metrics.ReportRenderDuration.WithLabelValues(scope).Observe(time.Since(start).Seconds())
	metrics.ReportsRenderedTotal.WithLabelValues(scope).Inc()

	hdr := c.Response().Header()
	hdr.Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
	hdr.Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
	hdr.Set("Pragma", "no-cache")
	hdr.Set("Expires", "0")
	return c.Blob(http.StatusOK, h.renderer.ContentType(), buf.Bytes())
}
