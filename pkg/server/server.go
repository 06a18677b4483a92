// Package server exposes the shop directory over HTTP for the URL sync.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"reviewmsg/pkg/logger"
	"reviewmsg/pkg/shops"
	"reviewmsg/pkg/shopurl"
)

// Directory looks shops up by id.
type Directory interface {
	Get(ctx context.Context, id string) (shops.Shop, error)
	List(ctx context.Context) ([]shops.Shop, error)
}

type Config struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

var DefaultConfig = Config{
	Addr:              "0.0.0.0:5002",
	ReadHeaderTimeout: 5 * time.Second,
	ReadTimeout:       10 * time.Second,
	WriteTimeout:      10 * time.Second,
	IdleTimeout:       60 * time.Second,
	ShutdownTimeout:   5 * time.Second,
}

// NewHandler wires routes, metrics, request ids, access logs and tracing.
func NewHandler(dir Directory, reg *prometheus.Registry) http.Handler {
	m := newMetrics(reg)
	h := &handlers{dir: dir}

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+shopurl.UpdatePath, h.updateShopURL)
	mux.HandleFunc("GET /shops", h.listShops)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	var handler http.Handler = mux
	handler = m.middleware(handler)
	handler = accessLog(handler)
	handler = requestID(handler)
	return otelhttp.NewHandler(handler, "reviewmsg")
}

func New(cfg Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

func RunWithGracefulShutdown(srv *http.Server, shutdownTimeout time.Duration) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return RunWithGracefulShutdownContext(ctx, srv, shutdownTimeout)
}

func RunWithGracefulShutdownContext(stopCtx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-stopCtx.Done():
		logger.Info().Msg("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
	}
	return nil
}

type handlers struct {
	dir Directory
}

func (h *handlers) updateShopURL(w http.ResponseWriter, r *http.Request) {
	var req shopurl.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil || req.ShopID == "" {
		writeJSON(w, http.StatusBadRequest, shopurl.Resolution{Success: false})
		return
	}

	shop, err := h.dir.Get(r.Context(), req.ShopID)
	switch {
	case stderrors.Is(err, shops.ErrNotFound):
		writeJSON(w, http.StatusBadRequest, shopurl.Resolution{Success: false})
		return
	case err != nil:
		logger.Error().Err(err).Str("shop_id", req.ShopID).Msg("shop lookup failed")
		writeJSON(w, http.StatusInternalServerError, shopurl.Resolution{Success: false})
		return
	}

	writeJSON(w, http.StatusOK, shopurl.Resolution{
		Success:   true,
		URL:       shop.URL,
		SalonName: shop.SalonName,
	})
}

func (h *handlers) listShops(w http.ResponseWriter, r *http.Request) {
	list, err := h.dir.List(r.Context())
	if err != nil {
		logger.Error().Err(err).Msg("shop listing failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug().Err(err).Msg("write response failed")
	}
}
