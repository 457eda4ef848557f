package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/voltcrew/voltcrewdesigns/pkg/storefront"
)

type sessionKey struct{}

// NewRouter creates a new HTTP router
func NewRouter(hr *HandlerRepository) *mux.Router {
	router := mux.NewRouter()
	router.Use(func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			handler.ServeHTTP(w, r)
			d := time.Since(start)

			hr.logger.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"remoteAddr": r.RemoteAddr,
				"durationMs": d.Milliseconds(),
				"duration":   d.String(),
			}).Info("Request")
		})
	})
	router.Use(sessionMiddleware(hr.config.SessionCookie))

	router.Handle("/metrics", hr.metricsHandler())
	router.HandleFunc("/healthz", hr.healthHandler())

	router.HandleFunc("/", hr.homepageHandler())
	router.HandleFunc("/product", hr.productHandler())
	router.HandleFunc("/product/gallery", hr.galleryHandler())
	router.HandleFunc("/cart", hr.cartHandler())
	router.HandleFunc("/cart/add", hr.cartAddHandler())
	router.HandleFunc("/cart/remove", hr.cartRemoveHandler())
	router.HandleFunc("/cart/checkout", hr.cartCheckoutHandler())

	router.HandleFunc("/api/cart", hr.apiCartHandler())
	router.HandleFunc("/photos/photos.json", hr.catalogHandler())

	router.PathPrefix("/assets/").Handler(http.StripPrefix("/assets/", http.FileServer(storefront.Assets())))
	if hr.config.ImageBaseURL == "" {
		router.PathPrefix("/photos/").Handler(http.StripPrefix("/photos/", http.FileServer(http.Dir(hr.config.PhotosDir))))
	}

	return router
}

// sessionMiddleware makes sure every request carries a cart session id.
// A new id is issued as a cookie when the request has none.
func sessionMiddleware(cookieName string) mux.MiddlewareFunc {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := ""
			if c, err := r.Cookie(cookieName); err == nil {
				if _, err := uuid.Parse(c.Value); err == nil {
					session = c.Value
				}
			}

			if session == "" {
				session = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    session,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
					MaxAge:   int((30 * 24 * time.Hour).Seconds()),
				})
			}

			handler.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, session)))
		})
	}
}

func sessionFromRequest(r *http.Request) string {
	session, _ := r.Context().Value(sessionKey{}).(string)
	return session
}

// StartServer starts HTTP server
// It listens for SIGINT and SIGTERM signals and gracefully stops the server
func StartServer(router *mux.Router, port int, logger *logrus.Logger) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("listen: %s", err)
		}
	}()
	logger.Infof("Server Started on port %d", port)

	<-done
	logger.Info("Server Stopped")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server Shutdown Failed:%+v", err)
	}

	logger.Info("Server Exited Properly")
}
