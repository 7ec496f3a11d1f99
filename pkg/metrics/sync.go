package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	ActionInserted = "inserted"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionLinked   = "linked"
	ActionUnlinked = "unlinked"
)

// SyncMetrics counts rows touched by catalog reconciliation.
type SyncMetrics struct {
	rows     *prometheus.CounterVec
	products *prometheus.CounterVec
}

func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		return &SyncMetrics{}
	}
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_sync_rows_total",
		Help: "Rows written by catalog reconciliation, by collection and action.",
	}, []string{"collection", "action"})
	products := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_sync_products_total",
		Help: "Products reconciled, by payload variant.",
	}, []string{"variant"})
	reg.MustRegister(rows, products)
	return &SyncMetrics{rows: rows, products: products}
}

// AddRows adds n to the counter for collection/action. Zero is a no-op.
func (s *SyncMetrics) AddRows(collection, action string, n int) {
	if s == nil || s.rows == nil || n <= 0 {
		return
	}
	s.rows.WithLabelValues(normalizeLabel(collection), action).Add(float64(n))
}

func (s *SyncMetrics) AddProducts(variant string, n int) {
	if s == nil || s.products == nil || n <= 0 {
		return
	}
	s.products.WithLabelValues(normalizeLabel(variant)).Add(float64(n))
}
