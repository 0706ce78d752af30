// Package metrics exposes business counters on the default Prometheus
// registry.
package metrics

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SalesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "museum_sales_total",
		Help: "Completed gift-shop sales by payment method.",
	}, []string{"payment_method"})

	SaleAmount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "museum_sale_amount",
		Help:    "Sale totals after discount.",
		Buckets: []float64{5, 10, 25, 50, 100, 250, 500},
	})

	TicketsSold = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "museum_tickets_sold_total",
		Help: "Ticket seats sold, by purchaser kind.",
	}, []string{"purchaser"})

	CheckIns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "museum_checkins_total",
		Help: "Tickets checked in at the door.",
	})

	AccountsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "museum_accounts_created_total",
		Help: "Accounts created, by role.",
	}, []string{"role"})
)

// Handler serves the default registry in the exposition format.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
