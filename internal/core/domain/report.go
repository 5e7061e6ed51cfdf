package domain

const (
	ReportTitle       = "User Profile Manager"
	ReportPlaceholder = "N/A"
)

// ReportRow is one line of a profile report.
type ReportRow struct {
	Serial  int
	Name    string
	Email   string
	Address string
	Role    string
}

// ProfileReport is the renderer-neutral content of a report.
type ProfileReport struct {
	Title string
	Total int64
	Rows  []ReportRow
}

// NewProfileReport numbers profiles starting at firstSerial and fills
// missing address or role with the placeholder.
func NewProfileReport(profiles []*Profile, total int64, firstSerial int) ProfileReport {
	rows := make([]ReportRow, 0, len(profiles))
	for i, p := range profiles {
		rows = append(rows, ReportRow{
			Serial:  firstSerial + i,
			Name:    p.Name,
			Email:   p.Email,
			Address: orPlaceholder(p.Address),
			Role:    orPlaceholder(p.Role),
		})
	}
	return ProfileReport{Title: ReportTitle, Total: total, Rows: rows}
}

func orPlaceholder(s string) string {
	if s == "" {
		return ReportPlaceholder
	}
	return s
}
