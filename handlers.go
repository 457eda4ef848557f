package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/voltcrew/voltcrewdesigns/pkg/cart"
	"github.com/voltcrew/voltcrewdesigns/pkg/config"
	"github.com/voltcrew/voltcrewdesigns/pkg/prometheus"
	"github.com/voltcrew/voltcrewdesigns/pkg/store"
	"github.com/voltcrew/voltcrewdesigns/pkg/storefront"
	"github.com/voltcrew/voltcrewdesigns/pkg/utils"
)

type HandlerRepository struct {
	storefront *storefront.Storefront // nil when the catalog could not be loaded
	catalogErr error
	renderer   *storefront.Renderer
	cart       *cart.Cart
	config     *config.Config
	monitor    *prometheus.Monitor
	logger     *logrus.Logger
}

// metricsHandler returns HTTP handler for metrics endpoint
func (hr *HandlerRepository) metricsHandler() http.Handler {
	return promhttp.HandlerFor(
		hr.monitor.Registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			Registry:          hr.monitor.Registry,
		},
	)
}

func (hr *HandlerRepository) healthHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		if hr.storefront == nil {
			http.Error(w, "Catalog unavailable", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(utils.GetOkJSON()); err != nil {
			hr.logger.Errorf("Could not write response: %v", err)
		}
	}
}

// available answers 503 when the catalog is missing, no page is ever
// rendered from a partial catalog
func (hr *HandlerRepository) available(w http.ResponseWriter) bool {
	if hr.storefront != nil {
		return true
	}

	hr.logger.Warnf("Catalog unavailable: %v", hr.catalogErr)
	http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
	return false
}

func (hr *HandlerRepository) homepageHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if !hr.available(w) {
			return
		}

		ctx, cancel := hr.probeContext(r)
		defer cancel()

		hr.render(w, r, http.StatusOK, storefront.PageGrid, "", hr.storefront.Grid(ctx))
	}
}

func (hr *HandlerRepository) productHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if !hr.available(w) {
			return
		}

		q := r.URL.Query()
		ctx, cancel := hr.probeContext(r)
		defer cancel()

		view, ok := hr.storefront.Detail(ctx, q.Get("item"), q.Get("color"), q.Get("size"))
		if !ok {
			hr.render(w, r, http.StatusNotFound, storefront.PageBlank, "", nil)
			return
		}

		view.Added = q.Get("added") == "1"
		hr.render(w, r, http.StatusOK, storefront.PageDetail, view.Title, view)
	}
}

// galleryHandler renders only the gallery of the selected color.
// A request overtaken by a newer selection of the same session gets 204.
func (hr *HandlerRepository) galleryHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if !hr.available(w) {
			return
		}

		q := r.URL.Query()
		key := q.Get("item")
		if _, ok := hr.storefront.Product(key); !ok {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}

		ctx, cancel := hr.probeContext(r)
		defer cancel()

		gallery, err := hr.storefront.Gallery(ctx, sessionFromRequest(r), key, q.Get("color"))
		if errors.Is(err, storefront.ErrSuperseded) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err != nil {
			http.Error(w, "Could not render gallery", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := hr.renderer.RenderGallery(w, gallery); err != nil {
			hr.logger.Errorf("Could not write response: %v", err)
		}
	}
}

func (hr *HandlerRepository) cartAddHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		if !hr.available(w) {
			return
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Could not read post body", http.StatusBadRequest)
			return
		}

		key := r.PostForm.Get("item")
		color := r.PostForm.Get("color")
		size := r.PostForm.Get("size")

		product, ok := hr.storefront.Product(key)
		if !ok {
			hr.render(w, r, http.StatusNotFound, storefront.PageBlank, "", nil)
			return
		}

		_, err := hr.cart.Add(sessionFromRequest(r), key, product, color, size)
		if isSelectionError(err) {
			ctx, cancel := hr.probeContext(r)
			defer cancel()

			view, _ := hr.storefront.Detail(ctx, key, color, size)
			view.Message = err.Error()
			hr.render(w, r, http.StatusUnprocessableEntity, storefront.PageDetail, view.Title, view)
			return
		}
		if err != nil {
			hr.logger.Errorf("Could not add to cart: %v", err)
			http.Error(w, "Could not add to cart", http.StatusInternalServerError)
			return
		}

		q := url.Values{}
		q.Set("item", key)
		q.Set("color", color)
		q.Set("size", size)
		q.Set("added", "1")
		http.Redirect(w, r, "/product?"+q.Encode(), http.StatusSeeOther)
	}
}

func (hr *HandlerRepository) cartHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if !hr.available(w) {
			return
		}

		entries, err := hr.cart.Items(sessionFromRequest(r))
		if err != nil {
			hr.logger.Errorf("Could not load cart: %v", err)
			http.Error(w, "Could not load cart", http.StatusInternalServerError)
			return
		}

		ctx, cancel := hr.probeContext(r)
		defer cancel()

		view := hr.storefront.Cart(ctx, entries, r.URL.Query().Get("checkout") == "1")
		hr.render(w, r, http.StatusOK, storefront.PageCart, "Cart", view)
	}
}

func (hr *HandlerRepository) cartRemoveHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Could not read post body", http.StatusBadRequest)
			return
		}

		index, err := storefront.ParseIndex(r.PostForm.Get("idx"))
		if err != nil {
			http.Error(w, "Invalid cart index", http.StatusBadRequest)
			return
		}

		err = hr.cart.Remove(sessionFromRequest(r), index)
		if errors.Is(err, cart.ErrIndexOutOfRange) {
			// stale page, e.g. a double submitted remove button
			hr.logger.Warnf("Could not remove from cart: %v", err)
		} else if err != nil {
			hr.logger.Errorf("Could not remove from cart: %v", err)
			http.Error(w, "Could not remove from cart", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/cart", http.StatusSeeOther)
	}
}

// cartCheckoutHandler only acknowledges the checkout, the cart is kept
// and nothing leaves the server
func (hr *HandlerRepository) cartCheckoutHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}

		hr.monitor.CartCheckouts.WithLabelValues().Inc()
		http.Redirect(w, r, "/cart?checkout=1", http.StatusSeeOther)
	}
}

func (hr *HandlerRepository) apiCartHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFromRequest(r)

		switch r.Method {
		case http.MethodGet:
			entries, err := hr.cart.Items(session)
			if err != nil {
				http.Error(w, "Could not load cart", http.StatusInternalServerError)
				return
			}

			type output struct {
				Items []store.CartEntry `json:"items"`
				Total json.Number       `json:"total"`
			}

			res, err := json.Marshal(output{
				Items: entries,
				Total: json.Number(cart.Total(entries).String()),
			})
			if err != nil {
				http.Error(w, "Could not marshal data to JSON", http.StatusInternalServerError)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			if _, err = w.Write(res); err != nil {
				hr.logger.Errorf("Could not write response: %v", err)
			}
		case http.MethodDelete:
			if err := hr.cart.Clear(session); err != nil {
				http.Error(w, "Could not clear cart", http.StatusInternalServerError)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			if _, err := w.Write(utils.GetOkJSON()); err != nil {
				hr.logger.Errorf("Could not write response: %v", err)
			}
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	}
}

// catalogHandler serves the catalog document as it was loaded at startup
func (hr *HandlerRepository) catalogHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		if !hr.available(w) {
			return
		}

		res, err := json.Marshal(hr.storefront.Catalog())
		if err != nil {
			http.Error(w, "Could not marshal data to JSON", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if _, err = w.Write(res); err != nil {
			hr.logger.Errorf("Could not write response: %v", err)
		}
	}
}

func (hr *HandlerRepository) render(w http.ResponseWriter, r *http.Request, status int, name, title string, view any) {
	count := 0
	if entries, err := hr.cart.Items(sessionFromRequest(r)); err == nil {
		count = len(entries)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	err := hr.renderer.Render(w, name, storefront.Page{
		Title:     title,
		CartCount: count,
		View:      view,
	})
	if err != nil {
		hr.logger.Errorf("Could not write response: %v", err)
	}
}

// probeContext bounds the image probes of one request
func (hr *HandlerRepository) probeContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), hr.config.ProbeTimeout)
}

func isSelectionError(err error) bool {
	for _, target := range []error{
		cart.ErrColorRequired,
		cart.ErrSizeRequired,
		cart.ErrUnknownColor,
		cart.ErrUnknownSize,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
