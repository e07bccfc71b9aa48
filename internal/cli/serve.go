package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchgraph/pkg/docio"
	"github.com/matzehuels/sketchgraph/pkg/session"
	"github.com/matzehuels/sketchgraph/pkg/store"
)

const (
	serveReadTimeout  = 15 * time.Second
	serveWriteTimeout = 30 * time.Second
	maxUploadBytes    = 10 << 20
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		docID    string
		withAuth bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagram over HTTP",
		Long: `Serve the working document over HTTP.

Endpoints:
  GET  /api/diagram   fetch the document as JSON
  PUT  /api/diagram   replace the document
  GET  /diagram.svg   rendered SVG
  POST /api/images    upload an image, returns its URL
  GET  /images/*      serve uploaded images

With --auth, writes require an Authorization: Bearer <session-id> header
matching a stored session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, addr, docID, withAuth)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&docID, "doc", store.DefaultDocumentID, "document id to serve")
	cmd.Flags().BoolVar(&withAuth, "auth", false, "require a session for writes")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, addr, docID string, withAuth bool) error {
	ctx := cmd.Context()

	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	blobs, err := store.NewLocalBlobStore("", "/images")
	if err != nil {
		return err
	}

	var sessions session.Store
	if withAuth {
		sessions, err = c.newSessionStore(ctx)
		if err != nil {
			return err
		}
		defer sessions.Close()
	}

	srv := newDiagramServer(st, blobs, sessions, docID, c.Logger)

	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      srv.routes(),
		ReadTimeout:  serveReadTimeout,
		WriteTimeout: serveWriteTimeout,
	}

	c.Logger.Info("serving diagram", "addr", addr, "doc", docID, "auth", withAuth)

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// =============================================================================
// HTTP Server
// =============================================================================

// diagramServer serves one document for shared viewing and editing.
type diagramServer struct {
	store    store.Store
	blobs    *store.LocalBlobStore
	sessions session.Store // nil disables auth
	docID    string
	logger   *log.Logger
}

func newDiagramServer(st store.Store, blobs *store.LocalBlobStore, sessions session.Store, docID string, logger *log.Logger) *diagramServer {
	return &diagramServer{
		store:    st,
		blobs:    blobs,
		sessions: sessions,
		docID:    docID,
		logger:   logger,
	}
}

func (s *diagramServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/diagram", s.getDiagram)
		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Put("/diagram", s.putDiagram)
			r.Post("/images", s.uploadImage)
		})
	})

	r.Get("/diagram.svg", s.getSVG)
	r.Handle("/images/*", http.StripPrefix("/images/",
		http.FileServer(http.Dir(s.blobs.Dir()))))

	return r
}

// logRequests attaches the logger to the request context and logs each
// request once served.
func (s *diagramServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		ctx := withLogger(r.Context(), s.logger)
		next.ServeHTTP(ww, r.WithContext(ctx))

		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}

// requireSession rejects writes without a valid session when auth is on.
func (s *diagramServer) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.sessions == nil {
			next.ServeHTTP(w, r)
			return
		}

		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" || token == r.Header.Get("Authorization") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		sess, err := s.sessions.Get(r.Context(), token)
		if err != nil || sess == nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *diagramServer) getDiagram(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Load(r.Context(), s.docID)
	if err != nil {
		loggerFromContext(r.Context()).Error("load document", "err", err)
		writeError(w, http.StatusInternalServerError, "load document")
		return
	}
	if doc == nil {
		writeJSON(w, http.StatusOK, map[string]any{"nodes": []any{}, "edges": []any{}, "paths": []any{}})
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *diagramServer) putDiagram(w http.ResponseWriter, r *http.Request) {
	doc, err := docio.ReadJSON(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.Save(r.Context(), s.docID, doc); err != nil {
		loggerFromContext(r.Context()).Error("save document", "err", err)
		writeError(w, http.StatusInternalServerError, "save document")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"nodes": len(doc.Nodes),
		"edges": len(doc.Edges),
		"paths": len(doc.Paths),
	})
}

func (s *diagramServer) getSVG(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Load(r.Context(), s.docID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load document")
		return
	}
	if doc == nil {
		writeError(w, http.StatusNotFound, "no document saved")
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	fmt.Fprint(w, renderPlaced(doc))
}

func (s *diagramServer) uploadImage(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload.png"
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil || len(data) == 0 {
		writeError(w, http.StatusBadRequest, "empty upload")
		return
	}

	url, err := s.blobs.Put(r.Context(), name, data)
	if err != nil {
		loggerFromContext(r.Context()).Error("store image", "err", err)
		writeError(w, http.StatusInternalServerError, "store image")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
