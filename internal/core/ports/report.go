package ports

import (
	"io"

	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
)

// ReportRenderer writes a report document.
type ReportRenderer interface {
	ContentType() string
	Render(w io.Writer, report domain.ProfileReport) error
}
