package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/peptidehackers/seo-audit-etl-actor/internal/pipeline"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for audit requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		p := pipeline.New(cfg)
		mux := newServeMux(p, st)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// newServeMux builds the API routes. Split out so handler tests can exercise
// them without a listener.
func newServeMux(p *pipeline.Pipeline, st store.Store) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /audits", func(w http.ResponseWriter, r *http.Request) {
		var job pipeline.Job
		if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if err := job.Validate(); err != nil {
			http.Error(w, `{"error":"client, domain, run_date, and zip_url are required"}`, http.StatusBadRequest)
			return
		}

		// Run the audit asynchronously; poll GET /runs for the result. The
		// request context dies with the response, so the worker gets its own.
		go func() {
			ctx := context.Background()
			result, err := p.Run(ctx, job)
			if err != nil {
				zap.L().Error("audit failed",
					zap.String("client", job.Client),
					zap.String("domain", job.Domain),
					zap.Error(err),
				)
				return
			}
			if err := st.SaveRun(ctx, result); err != nil {
				zap.L().Error("failed to save run",
					zap.String("run_id", result.ID),
					zap.Error(err),
				)
				return
			}
			zap.L().Info("audit complete",
				zap.String("run_id", result.ID),
				zap.Float64("onsite_score", result.Scores.Onsite.Score),
				zap.Float64("local_score", result.Scores.Local.Score),
			)
		}()

		writeJSON(w, http.StatusAccepted, map[string]string{
			"status": "accepted",
			"client": job.Client,
			"domain": job.Domain,
		})
	})

	mux.HandleFunc("GET /runs", func(w http.ResponseWriter, r *http.Request) {
		filter := store.RunFilter{
			Client: r.URL.Query().Get("client"),
			Domain: r.URL.Query().Get("domain"),
			Limit:  50,
		}
		runs, err := st.ListRuns(r.Context(), filter)
		if err != nil {
			zap.L().Error("list runs failed", zap.Error(err))
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
	})

	mux.HandleFunc("GET /runs/{id}", func(w http.ResponseWriter, r *http.Request) {
		run, err := st.GetRun(r.Context(), r.PathValue("id"))
		if eris.Is(err, store.ErrNotFound) {
			http.Error(w, `{"error":"run not found"}`, http.StatusNotFound)
			return
		}
		if err != nil {
			zap.L().Error("get run failed", zap.Error(err))
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, run)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
