package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StockOperationsTotal counts ledger operations by type and result.
	StockOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farmstock_stock_operations_total",
			Help: "Total number of stock operations by type and result",
		},
		[]string{"type", "result"},
	)

	// AccessChecksTotal counts access decisions by module and outcome.
	AccessChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farmstock_access_checks_total",
			Help: "Total number of access checks by module and decision",
		},
		[]string{"module", "decision"},
	)

	// PermissionGrantsTotal counts permission grants and revocations.
	PermissionGrantsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farmstock_permission_changes_total",
			Help: "Total number of permission grants and revocations",
		},
		[]string{"action"},
	)

	// CriticalItems tracks the number of items at or below their minimum
	// level per farm, updated by the critical-stock report.
	CriticalItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "farmstock_critical_items",
			Help: "Number of items at or below their minimum level",
		},
		[]string{"farm_id"},
	)
)
