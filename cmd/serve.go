package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sentinelsec/geomodel/internal/event"
	"github.com/sentinelsec/geomodel/internal/geomodel"
	"github.com/sentinelsec/geomodel/internal/reconciler"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the authentication-event webhook server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		rec := reconciler.New(s, s, reconcilerConfig(), zap.L())
		limiter := rate.NewLimiter(rate.Limit(cfg.Server.EventsPerSecond), cfg.Server.Burst)
		mux := newServeMux(rec, s, cfg.Locality.Index, limiter)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			zap.L().Info("webhook server listening", zap.Int("port", port))
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		return g.Wait()
	},
}

// newServeMux wires the webhook routes. The reconciler handles event
// ingestion; the querier serves ledger reads.
func newServeMux(rec *reconciler.Reconciler, querier geomodel.Querier, index string, limiter *rate.Limiter) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /events/auth", func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
			return
		}

		var evt event.Event
		if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		res, err := rec.Process(r.Context(), evt)
		if err != nil {
			if errors.Is(err, geomodel.ErrInvalidTimestamp) {
				http.Error(w, `{"error":"invalid event timestamp"}`, http.StatusBadRequest)
				return
			}
			zap.L().Error("reconciliation failed", zap.Error(err))
			http.Error(w, `{"error":"reconciliation failed"}`, http.StatusInternalServerError)
			return
		}
		if res == nil {
			writeJSON(w, http.StatusOK, map[string]any{"status": "skipped"})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status":     "ok",
			"username":   res.Username,
			"localities": res.Localities,
			"persisted":  res.Persisted,
		})
	})

	mux.HandleFunc("GET /localities/{username}", func(w http.ResponseWriter, r *http.Request) {
		username := r.PathValue("username")

		entry, err := geomodel.Find(r.Context(), querier, username, index)
		if err != nil {
			zap.L().Error("ledger lookup failed", zap.String("username", username), zap.Error(err))
			http.Error(w, `{"error":"lookup failed"}`, http.StatusInternalServerError)
			return
		}
		if entry == nil {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}

		doc, err := geomodel.EncodeState(entry.State)
		if err != nil {
			http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(doc)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (defaults to server.port)")
	rootCmd.AddCommand(serveCmd)
}
