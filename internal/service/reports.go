package service

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"time"

	"github.com/iliyamo/museum-desk/internal/auth"
	"github.com/iliyamo/museum-desk/internal/model"
	"github.com/iliyamo/museum-desk/internal/repository"
)

// ErrUnknownReport is returned for report names outside the catalogue.
var ErrUnknownReport = errors.New("unknown report")

// DefaultReportWindow is used when a report request omits "from".
const DefaultReportWindow = 30 * 24 * time.Hour

// reportAccess lists, per report, the permissions of which any one grants
// access.
var reportAccess = map[string][]auth.Permission{
	"sales":     {auth.PermViewSales, auth.PermViewReports},
	"tickets":   {auth.PermViewEvents, auth.PermViewReports},
	"members":   {auth.PermViewMembers, auth.PermViewReports},
	"inventory": {auth.PermViewInventory, auth.PermViewReports},
	"activity":  {auth.PermViewActivityLog},
}

// ReportPermissions returns the permissions guarding a report.
func ReportPermissions(name string) ([]auth.Permission, bool) {
	p, ok := reportAccess[name]
	return p, ok
}

// ReportRange is an inclusive range of calendar days.
type ReportRange struct {
	From time.Time
	To   time.Time
}

// ReportService runs the report readers.
type ReportService struct {
	Deps
	reports *repository.ReportRepo
}

func NewReportService(d Deps) *ReportService {
	d = d.withDefaults()
	return &ReportService{Deps: d, reports: repository.NewReportRepo(d.DB)}
}

// Range normalizes optional bounds: a zero To means today and a zero From
// means DefaultReportWindow before To.
func (s *ReportService) Range(from, to time.Time) (ReportRange, error) {
	if to.IsZero() {
		to = s.Now()
	}
	to = model.DateOnly(to)
	if from.IsZero() {
		from = to.Add(-DefaultReportWindow)
	}
	from = model.DateOnly(from)
	if from.After(to) {
		return ReportRange{}, invalid("from", "must not be after to")
	}
	return ReportRange{From: from, To: to}, nil
}

// Run executes a named report over r.
func (s *ReportService) Run(ctx context.Context, name string, r ReportRange) (model.Report, error) {
	end := r.To.AddDate(0, 0, 1)
	switch name {
	case "sales":
		return s.reports.Sales(ctx, r.From, end)
	case "tickets":
		return s.reports.Tickets(ctx, r.From, end)
	case "members":
		return s.reports.Members(ctx, s.Now())
	case "inventory":
		return s.reports.Inventory(ctx)
	case "activity":
		return s.reports.Activity(ctx, r.From, end)
	}
	return model.Report{}, ErrUnknownReport
}

// WriteCSV writes the report with its column names as the header row.
func WriteCSV(w io.Writer, rep model.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rep.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(rep.Rows); err != nil {
		return err
	}
	return cw.Error()
}
