package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/museum-desk/internal/auth"
	"github.com/iliyamo/museum-desk/internal/model"
)

func TestWriteCSVQuotesCells(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, model.Report{
		Columns: []string{"Item", "Price"},
		Rows:    [][]string{{"Mug, large", "12.50"}, {`Say "cheese"`, "3.00"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Item,Price\n\"Mug, large\",12.50\n\"Say \"\"cheese\"\"\",3.00\n", buf.String())
}

func TestReportRangeDefaults(t *testing.T) {
	f := newFixture(t)
	svc := NewReportService(f.deps)

	r, err := svc.Range(time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, day(2024, 5, 1), r.To)
	assert.Equal(t, day(2024, 4, 1), r.From)

	_, err = svc.Range(day(2024, 5, 2), day(2024, 5, 1))
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestRunSalesReport(t *testing.T) {
	f := newFixture(t)
	svc := NewReportService(f.deps)

	f.mock.ExpectQuery("FROM sales").
		WithArgs(day(2024, 4, 1), day(2024, 5, 2)).
		WillReturnRows(sqlmock.NewRows([]string{"day", "n", "disc", "total"}).
			AddRow("2024-04-30", 2, "2.50", "47.50"))

	rep, err := svc.Run(context.Background(), "sales", ReportRange{From: day(2024, 4, 1), To: day(2024, 5, 1)})
	require.NoError(t, err)
	f.verify(t)
	assert.Equal(t, []string{"Date", "Sales", "Discounts", "Revenue"}, rep.Columns)
	assert.Equal(t, [][]string{{"2024-04-30", "2", "2.50", "47.50"}}, rep.Rows)

	_, err = svc.Run(context.Background(), "payroll", ReportRange{})
	assert.ErrorIs(t, err, ErrUnknownReport)
}

func TestReportPermissions(t *testing.T) {
	perms, ok := ReportPermissions("activity")
	require.True(t, ok)
	curator := auth.Identity{AccountID: 1, Role: auth.RoleCurator}
	assert.False(t, curator.CanAny(perms...))

	perms, ok = ReportPermissions("sales")
	require.True(t, ok)
	assert.True(t, curator.CanAny(perms...))

	_, ok = ReportPermissions("payroll")
	assert.False(t, ok)
}
