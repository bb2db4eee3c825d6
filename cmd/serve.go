package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/halcyon-research/equity-cli/internal/model"
	"github.com/halcyon-research/equity-cli/internal/research"
	"github.com/halcyon-research/equity-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for research runs and job status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(ctx, env),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("server listening", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

// newRouter builds the API surface. Research runs are asynchronous: the
// POST handler answers immediately and the run reports through the jobs
// endpoints. runCtx outlives individual requests so an in-flight run
// survives its initiating request closing.
func newRouter(runCtx context.Context, env *pipelineEnv) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/research", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Symbol string `json:"symbol"`
			Force  bool   `json:"force"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		symbol := strings.ToUpper(strings.TrimSpace(body.Symbol))
		if symbol == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "symbol is required"})
			return
		}

		go func() {
			result, err := env.Pipeline.Run(runCtx, symbol, research.RunOptions{ForceRecompute: body.Force})
			if err != nil {
				zap.L().Error("async research failed", zap.String("symbol", symbol), zap.Error(err))
				return
			}
			zap.L().Info("async research complete",
				zap.String("symbol", symbol),
				zap.String("job_id", result.JobID),
				zap.Float64("estimated_cost_usd", result.EstimatedCost),
			)
		}()

		writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted", "symbol": symbol})
	})

	r.Get("/jobs", func(w http.ResponseWriter, req *http.Request) {
		filter := store.JobFilter{
			Symbol: strings.ToUpper(req.URL.Query().Get("symbol")),
			Status: model.JobStatus(req.URL.Query().Get("status")),
			Limit:  50,
		}
		jobs, err := env.Store.ListJobs(req.Context(), filter)
		if err != nil {
			zap.L().Error("list jobs failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list jobs failed"})
			return
		}
		writeJSON(w, http.StatusOK, jobs)
	})

	r.Get("/jobs/{id}", func(w http.ResponseWriter, req *http.Request) {
		job, err := env.Store.GetJob(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "job not found"})
				return
			}
			zap.L().Error("get job failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "get job failed"})
			return
		}
		writeJSON(w, http.StatusOK, job)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (defaults to server.port)")
	rootCmd.AddCommand(serveCmd)
}
