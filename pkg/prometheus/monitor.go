package prometheus

import "github.com/prometheus/client_golang/prometheus"

// Monitor represents a Prometheus monitor
// It contains Prometheus registry and all available metrics
type Monitor struct {
	Registry *prometheus.Registry

	CatalogProducts   *prometheus.GaugeVec
	CatalogLoadedAt   *prometheus.GaugeVec
	ImageProbes       *prometheus.CounterVec
	CartAdditions     *prometheus.CounterVec
	CartRemovals      *prometheus.CounterVec
	CartCheckouts     *prometheus.CounterVec
	GallerySuperseded *prometheus.CounterVec
}

// New creates a new Monitor
func New() *Monitor {
	reg := prometheus.NewRegistry()
	monitor := &Monitor{
		Registry: reg,

		CatalogProducts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "storefront_catalog_products",
			Help: "Number of products in the loaded catalog",
		}, []string{}),

		CatalogLoadedAt: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "storefront_catalog_loaded_at",
			Help: "Unix time the catalog was loaded",
		}, []string{}),

		ImageProbes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_image_probes_total",
			Help: "Image existence probes by result (found, missing, error)",
		}, []string{"result"}),

		CartAdditions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_cart_additions_total",
			Help: "Items added to carts",
		}, []string{}),

		CartRemovals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_cart_removals_total",
			Help: "Items removed from carts",
		}, []string{}),

		CartCheckouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_cart_checkouts_total",
			Help: "Checkout button presses",
		}, []string{}),

		GallerySuperseded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_gallery_superseded_total",
			Help: "Gallery renders discarded because a newer color was selected",
		}, []string{}),
	}

	reg.MustRegister(
		monitor.CatalogProducts,
		monitor.CatalogLoadedAt,
		monitor.ImageProbes,
		monitor.CartAdditions,
		monitor.CartRemovals,
		monitor.CartCheckouts,
		monitor.GallerySuperseded,
	)

	return monitor
}
