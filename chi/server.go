// Package chi provides the HTTP user interface: a form page for starting
// extraction runs, JSON endpoints for polling progress, and a download
// endpoint for the combined result.
package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/truxtai/webextract"
	"github.com/truxtai/webextract/fs"
	"github.com/truxtai/webextract/pipeline"
	"golang.org/x/sync/errgroup"
)

// Runner executes extraction runs. *pipeline.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context, startURL string, opts pipeline.Options, progress pipeline.ProgressFunc) (*webextract.ExtractionSession, error)
}

// Config controls the page rendered at / and the accepted run parameters.
type Config struct {
	// Title is shown on the form page.
	Title string

	// Modes lists the extraction modes this server accepts.
	Modes []webextract.Mode

	// DefaultMode is used when a run request names no mode.
	DefaultMode webextract.Mode

	// MaxPages caps the per-run page count. Zero means pipeline.MaxPagesLimit.
	MaxPages int

	// DefaultMaxPages is used when a run request names no page count.
	// Zero means pipeline.DefaultMaxPages.
	DefaultMaxPages int
}

// Run statuses reported by the polling endpoint.
const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// runState tracks one run for polling. Fields are guarded by Server.mu.
type runState struct {
	id        string
	status    string
	completed int
	total     int
	session   *webextract.ExtractionSession
	errMsg    string
}

// Server serves the extraction UI. One run is active at a time; starting a
// run while another is active returns 409.
type Server struct {
	addr     string
	runner   Runner
	sessions webextract.SessionService
	config   Config
	logger   *slog.Logger

	mu       sync.Mutex
	runs     map[string]*runState
	activeID string

	router chi.Router
}

// NewServer creates a new Server. sessions may be nil; the history endpoint
// then returns 404.
func NewServer(addr string, runner Runner, sessions webextract.SessionService, config Config, logger *slog.Logger) *Server {
	if config.DefaultMode == "" {
		config.DefaultMode = webextract.ModeSingle
	}
	if len(config.Modes) == 0 {
		config.Modes = []webextract.Mode{config.DefaultMode}
	}
	if config.MaxPages <= 0 {
		config.MaxPages = pipeline.MaxPagesLimit
	}
	if config.DefaultMaxPages <= 0 {
		config.DefaultMaxPages = pipeline.DefaultMaxPages
	}

	s := &Server{
		addr:     addr,
		runner:   runner,
		sessions: sessions,
		config:   config,
		logger:   logger,
		runs:     make(map[string]*runState),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE"},
	}))

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Post("/runs", s.handleCreateRun)
	r.Get("/runs/{id}", s.handleGetRun)
	r.Get("/runs/{id}/download", s.handleDownload)
	r.Get("/history", s.handleHistory)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler, mainly for tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.router,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("starting server", slog.String("addr", s.addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, s.config); err != nil {
		s.logger.Error("rendering index page", slog.String("error", err.Error()))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// createRunRequest is the POST /runs body.
type createRunRequest struct {
	URL         string `json:"url"`
	Mode        string `json:"mode"`
	MaxPages    int    `json:"maxPages"`
	Instruction string `json:"instruction"`
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req createRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	mode := webextract.Mode(req.Mode)
	if mode == "" {
		mode = s.config.DefaultMode
	}
	if !s.allowedMode(mode) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("mode %q not supported", mode))
		return
	}

	maxPages := req.MaxPages
	if maxPages <= 0 {
		maxPages = s.config.DefaultMaxPages
	}
	if maxPages > s.config.MaxPages {
		maxPages = s.config.MaxPages
	}

	s.mu.Lock()
	if s.activeID != "" {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "a run is already in progress")
		return
	}
	state := &runState{
		id:     uuid.New().String(),
		status: StatusRunning,
	}
	s.runs[state.id] = state
	s.activeID = state.id
	s.mu.Unlock()

	go s.execute(state.id, req.URL, pipeline.Options{
		Mode:        mode,
		MaxPages:    maxPages,
		Instruction: req.Instruction,
	})

	writeJSON(w, http.StatusAccepted, map[string]string{"id": state.id})
}

// execute runs the pipeline in the background and publishes progress into
// the run state. The run uses its own context: closing the browser tab must
// not cancel an extraction in flight.
func (s *Server) execute(id, url string, opts pipeline.Options) {
	session, err := s.runner.Run(context.Background(), url, opts, func(e pipeline.ProgressEvent) {
		s.mu.Lock()
		defer s.mu.Unlock()
		state := s.runs[id]
		state.completed = e.Completed
		state.total = e.Total
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.runs[id]
	state.session = session
	if err != nil {
		state.status = StatusFailed
		state.errMsg = webextract.ErrorMessage(err)
		s.logger.Warn("run failed",
			slog.String("id", id),
			slog.String("url", url),
			slog.String("error", err.Error()))
	} else {
		state.status = StatusDone
	}
	s.activeID = ""
}

// runResponse is the GET /runs/{id} body. Text carries the combined cleaned
// content of a finished run; it is served from the in-memory run state and
// never persisted.
type runResponse struct {
	ID        string                        `json:"id"`
	Status    string                        `json:"status"`
	Completed int                           `json:"completed"`
	Total     int                           `json:"total"`
	Error     string                        `json:"error,omitempty"`
	Text      string                        `json:"text,omitempty"`
	Session   *webextract.ExtractionSession `json:"session,omitempty"`
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	state, ok := s.runs[id]
	if !ok {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	resp := runResponse{
		ID:        state.id,
		Status:    state.status,
		Completed: state.completed,
		Total:     state.total,
		Error:     state.errMsg,
	}
	if state.status != StatusRunning {
		resp.Session = state.session
	}
	if state.status == StatusDone && state.session != nil {
		resp.Text = state.session.Combined()
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	state, ok := s.runs[id]
	var session *webextract.ExtractionSession
	if ok && state.status == StatusDone {
		session = state.session
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if session == nil {
		writeError(w, http.StatusConflict, "run has no downloadable content")
		return
	}

	filename := fs.FileName(session.StartURL, session.FinishedAt)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write([]byte(fs.FormatSession(session)))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		writeError(w, http.StatusNotFound, "history not enabled")
		return
	}

	sessions, err := s.sessions.FindSessions(r.Context(), webextract.SessionFilter{Limit: 50})
	if err != nil {
		writeError(w, http.StatusInternalServerError, webextract.ErrorMessage(err))
		return
	}
	if sessions == nil {
		sessions = []*webextract.ExtractionSession{}
	}

	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) allowedMode(mode webextract.Mode) bool {
	for _, m := range s.config.Modes {
		if m == mode {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// indexTemplate renders the extraction form. Polling and download are driven
// by a small inline script against the JSON endpoints.
var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 720px; margin: 2rem auto; padding: 0 1rem; }
input[type=url] { width: 100%; padding: 0.5rem; }
pre { white-space: pre-wrap; background: #f6f6f6; padding: 1rem; }
.error { color: #b00; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<form id="run-form">
<p><input type="url" id="url" placeholder="https://example.com" required></p>
<p>
<label>Mode:
<select id="mode">
{{range .Modes}}<option value="{{.}}"{{if eq . $.DefaultMode}} selected{{end}}>{{.}}</option>{{end}}
</select>
</label>
<label>Max pages:
<input type="number" id="maxPages" min="1" max="{{.MaxPages}}" value="{{.DefaultMaxPages}}">
</label>
<button type="submit">Extract</button>
</p>
</form>
<p id="status"></p>
<pre id="result" hidden></pre>
<p><a id="download" hidden>Download</a></p>
<script>
const form = document.getElementById('run-form');
const status = document.getElementById('status');
const result = document.getElementById('result');
const download = document.getElementById('download');

form.addEventListener('submit', async (e) => {
	e.preventDefault();
	result.hidden = true;
	download.hidden = true;
	status.textContent = 'Starting...';
	const resp = await fetch('/runs', {
		method: 'POST',
		headers: {'Content-Type': 'application/json'},
		body: JSON.stringify({
			url: document.getElementById('url').value,
			mode: document.getElementById('mode').value,
			maxPages: parseInt(document.getElementById('maxPages').value, 10),
		}),
	});
	const body = await resp.json();
	if (!resp.ok) {
		status.textContent = body.error;
		status.className = 'error';
		return;
	}
	status.className = '';
	poll(body.id);
});

async function poll(id) {
	const resp = await fetch('/runs/' + id);
	const body = await resp.json();
	if (body.status === 'running') {
		status.textContent = 'Processing page ' + body.completed + ' of ' + body.total + '...';
		setTimeout(() => poll(id), 1000);
		return;
	}
	if (body.status === 'failed') {
		status.textContent = 'Failed: ' + body.error;
		status.className = 'error';
		return;
	}
	const pages = body.session.pages || [];
	const ok = pages.filter(p => !p.error).length;
	status.textContent = 'Done: ' + ok + ' of ' + pages.length + ' pages extracted.';
	const failures = pages.filter(p => p.error).map(p => 'FAIL ' + p.url + ': ' + p.error);
	result.textContent = failures.length ? failures.join('\n') + '\n\n' + body.text : body.text;
	result.hidden = false;
	download.href = '/runs/' + id + '/download';
	download.hidden = false;
}
</script>
</body>
</html>
`))
