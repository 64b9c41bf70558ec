package cli

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/jtransform/deinflect"
	"github.com/jtransform/deinflect/config"
)

// engineHolder lets the HTTP handlers read the current Engine while a
// background watcher swaps it out on descriptor changes, without a
// mutex on the read path.
type engineHolder struct {
	ptr atomic.Pointer[deinflect.Engine]
}

func (h *engineHolder) get() *deinflect.Engine {
	return h.ptr.Load()
}

func (h *engineHolder) set(e *deinflect.Engine) {
	h.ptr.Store(e)
}

func newServeCommand(root *RootOptions) *cobra.Command {
	var addr string
	var watch bool
	var maxDepth int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the deinflection engine as a JSON HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), nil))

			descriptorPath := root.Descriptor
			if root.Config != "" {
				cfg, err := config.Load(root.Config)
				if err != nil {
					return err
				}
				if addr == ":8080" && cfg.Addr != "" {
					addr = cfg.Addr
				}
				if descriptorPath == "" {
					descriptorPath = cfg.Descriptor
				}
				if !watch {
					watch = cfg.Watch
				}
				if maxDepth == 0 {
					maxDepth = cfg.MaxDepth
				}
				logger.Info("config loaded", "path", root.Config)
			}

			holder := &engineHolder{}
			if err := reloadEngine(holder, descriptorPath, maxDepth, logger); err != nil {
				return err
			}

			if watch && descriptorPath != "" {
				go watchDescriptor(descriptorPath, maxDepth, holder, logger)
			}

			mux := http.NewServeMux()
			mux.HandleFunc("/api/transform", handleTransform(holder, logger))
			mux.HandleFunc("/api/condition", handleCondition(holder, logger))

			handler := cors.New(cors.Options{
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{http.MethodGet},
			}).Handler(mux)

			logger.Info("listening", "addr", addr)
			return http.ListenAndServe(addr, requestLogger(logger, handler))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&watch, "watch", false, "hot-reload the descriptor file on change")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "override the search's trace-depth guard (0 = engine default)")

	return cmd
}

func reloadEngine(holder *engineHolder, path string, maxDepth int, logger *slog.Logger) error {
	raw, err := loadDescriptorBytes(path)
	if err != nil {
		logger.Error("reading descriptor", "error", err)
		return err
	}
	var opts []deinflect.EngineOption
	if maxDepth > 0 {
		opts = append(opts, deinflect.WithMaxDepth(maxDepth))
	}
	e := deinflect.New(opts...)
	if err := e.AddDescriptor(raw); err != nil {
		logger.Error("compiling descriptor", "error", err)
		return err
	}
	holder.set(e)
	logger.Info("descriptor loaded", "hash", e.DescriptorHash())
	return nil
}

func watchDescriptor(path string, maxDepth int, holder *engineHolder, logger *slog.Logger) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("starting descriptor watcher", "error", err)
		return
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		logger.Error("watching descriptor", "path", path, "error", err)
		return
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Info("descriptor changed, reloading", "path", path)
			if err := reloadEngine(holder, path, maxDepth, logger); err != nil {
				logger.Error("hot reload failed, keeping previous descriptor", "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Error("descriptor watcher error", "error", err)
		}
	}
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Request-Id")
		if traceID == "" {
			traceID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", traceID)
		logger.Info("request", "trace_id", traceID, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func handleTransform(holder *engineHolder, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		source := r.URL.Query().Get("source")
		if source == "" {
			writeJSON(w, http.StatusBadRequest, CLIResponse{Status: "error", Error: &CLIError{Code: "E_MISSING_SOURCE", Message: "missing 'source' query parameter"}})
			return
		}

		var candidates []candidateJSON
		for s := range holder.get().Transform(source) {
			names := make([]string, len(s.Trace))
			for i, step := range s.Trace {
				names[i] = step.Rule
			}
			candidates = append(candidates, candidateJSON{Text: s.Text, Trace: names})
		}
		logger.Debug("transform", "source", source, "candidates", len(candidates))
		writeJSON(w, http.StatusOK, CLIResponse{Status: "ok", Data: candidates})
	}
}

func handleCondition(holder *engineHolder, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			writeJSON(w, http.StatusBadRequest, CLIResponse{Status: "error", Error: &CLIError{Code: "E_MISSING_NAME", Message: "missing 'name' query parameter"}})
			return
		}
		flags, ok := holder.get().ConditionFlagsOf(name)
		if !ok {
			writeJSON(w, http.StatusNotFound, CLIResponse{Status: "error", Error: &CLIError{Code: "E_UNKNOWN_CONDITION", Message: "no such condition: " + name}})
			return
		}
		writeJSON(w, http.StatusOK, CLIResponse{Status: "ok", Data: map[string]any{
			"name":  name,
			"flags": uint64(flags),
		}})
	}
}
