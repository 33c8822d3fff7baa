package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/rmmh/chunkport/go/convert"
	"github.com/rmmh/chunkport/go/task"
)

var serveCmd = &cobra.Command{
	Use:   "serve [regiondir outputdir [filterstrings...]]",
	Short: "Serve task status and metrics, converting a world if given one",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return cobra.MinimumNArgs(2)(cmd, args)
		}
		return nil
	},
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "", "listen address, overriding the config")
}

type server struct {
	tasks *task.Registry
	log   *slog.Logger
}

func newServer(addr string, tasks *task.Registry) *http.Server {
	s := &server{tasks: tasks, log: slog.Default().With("component", "status")}
	return &http.Server{
		Handler:      s.router(),
		Addr:         addr,
		WriteTimeout: 120 * time.Second,
		ReadTimeout:  10 * time.Second,
	}
}

func (s *server) router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/tasks", s.listHandler).Methods(http.MethodGet)
	r.HandleFunc("/tasks/{id}", s.taskHandler).Methods(http.MethodGet)
	r.HandleFunc("/tasks/{id}/cancel", s.cancelHandler).Methods(http.MethodPost)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Add("Cache-Control", "no-cache")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("failed to write response", "err", err)
	}
}

func (s *server) listHandler(w http.ResponseWriter, r *http.Request) {
	tasks := s.tasks.List()
	out := make([]task.Snapshot, len(tasks))
	for i, t := range tasks {
		out[i] = t.Snapshot()
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *server) lookup(w http.ResponseWriter, r *http.Request) (*task.Tracked, bool) {
	id := mux.Vars(r)["id"]
	t, ok := s.tasks.Get(id)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "no task " + id})
	}
	return t, ok
}

func (s *server) taskHandler(w http.ResponseWriter, r *http.Request) {
	if t, ok := s.lookup(w, r); ok {
		s.writeJSON(w, http.StatusOK, t.Snapshot())
	}
}

func (s *server) cancelHandler(w http.ResponseWriter, r *http.Request) {
	t, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.log.Info("cancel requested", "task", t.Name, "id", t.ID)
	t.Cancel()
	s.writeJSON(w, http.StatusAccepted, t.Snapshot())
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("listen") {
		cfg.Listen, _ = cmd.Flags().GetString("listen")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := task.NewRegistry()
	srv := newServer(cfg.Listen, reg)
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	if len(args) >= 2 {
		s, err := convert.Build(cfg, slog.Default())
		if err != nil {
			return err
		}
		go func() {
			defer s.Close()
			if err := convertWorld(ctx, s, args[0], args[1], args[2:], reg); err != nil {
				slog.Error("conversion failed", "err", err)
				return
			}
			slog.Info("conversion finished; still serving status", "listen", cfg.Listen)
		}()
	}

	slog.Info("listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
