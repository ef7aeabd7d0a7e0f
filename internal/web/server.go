package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"plazo/internal/calendar"
	"plazo/internal/dateutil"
	"plazo/internal/export"
	"plazo/internal/log"
	"plazo/internal/model"
	"plazo/internal/notify"
	"plazo/internal/perm"
	"plazo/internal/store"
)

// ServerConfig configures the JSON API server.
type ServerConfig struct {
	Addr string

	// DueSoonDays is the lead window for /api/tasks/due_soon.
	DueSoonDays int
}

// Server exposes the task and expiration tracker over a JSON API.
type Server struct {
	cfg      ServerConfig
	store    *store.Store
	notifier *notify.Notifier
	now      func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithNow overrides the clock, which is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func NewServer(cfg ServerConfig, st *store.Store, opts ...Option) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if st == nil {
		return nil, errors.New("web: store is nil")
	}
	if cfg.DueSoonDays <= 0 {
		cfg.DueSoonDays = notify.DefaultLeadDays
	}
	srv := &Server{cfg: cfg, store: st, now: time.Now}
	for _, opt := range opts {
		opt(srv)
	}
	srv.notifier = notify.New(st,
		notify.WithLeadDays(cfg.DueSoonDays),
		notify.WithNow(srv.now))
	return srv, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/tasks", s.handleTaskList)
	mux.HandleFunc("POST /api/tasks", s.handleTaskCreate)
	mux.HandleFunc("GET /api/tasks/due_soon", s.handleDueSoon)
	mux.HandleFunc("GET /api/tasks/search", s.handleTaskSearch)
	mux.HandleFunc("GET /api/tasks/{taskId}", s.handleTaskGet)
	mux.HandleFunc("POST /api/tasks/{taskId}/toggle", s.handleTaskToggle)
	mux.HandleFunc("POST /api/tasks/{taskId}/postpone", s.handleTaskPostpone)
	mux.HandleFunc("POST /api/tasks/{taskId}/status", s.handleTaskStatus)
	mux.HandleFunc("POST /api/tasks/{taskId}/parent", s.handleTaskParent)
	mux.HandleFunc("GET /api/expirations", s.handleExpirationList)
	mux.HandleFunc("POST /api/expirations", s.handleExpirationCreate)
	mux.HandleFunc("POST /api/expirations/{expirationId}/complete", s.handleExpirationComplete)
	mux.HandleFunc("GET /api/calendar", s.handleCalendar)
	mux.HandleFunc("GET /export/ics", s.handleExportICS)
	return mux
}

// ListenAndServe blocks until the context ends or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	hs := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = hs.Shutdown(shutdownCtx)
	}()
	log.Info("listening", "addr", s.cfg.Addr)
	err := hs.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// storeError maps store failures onto status codes: missing rows are
// 404, everything else 500.
func storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// rangeFromQuery resolves the period query parameters shared by the
// list endpoints: period=all|today|week|month|custom plus
// start_date/end_date for custom.
func (s *Server) rangeFromQuery(r *http.Request) (dateutil.Range, error) {
	q := r.URL.Query()
	p, err := dateutil.ParsePeriod(q.Get("period"))
	if err != nil {
		return dateutil.Range{}, err
	}
	return dateutil.Resolve(p, s.now(), q.Get("start_date"), q.Get("end_date")), nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTaskList(w http.ResponseWriter, r *http.Request) {
	rng, err := s.rangeFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	f := store.TaskFilter{DateRange: rng}
	if v := r.URL.Query().Get("status"); v != "" {
		st := model.Status(v)
		if !st.Valid() {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid status %q", v))
			return
		}
		f.Status = st
	}
	f.OpenOnly = r.URL.Query().Get("open") == "true"
	tasks, err := s.store.ListTasks(r.Context(), f)
	if err != nil {
		storeError(w, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

type taskCreateRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Priority     string   `json:"priority"`
	DueDate      string   `json:"dueDate"`
	DueTime      string   `json:"dueTime"`
	PlannedStart string   `json:"plannedStart"`
	ParentID     string   `json:"parentId"`
	AssigneeID   string   `json:"assigneeId"`
	CreatorID    string   `json:"creatorId"`
	Tags         []string `json:"tags"`
}

func (s *Server) handleTaskCreate(w http.ResponseWriter, r *http.Request) {
	var req taskCreateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.CreatorID != "" {
		u, err := s.store.GetUser(r.Context(), req.CreatorID)
		if err != nil {
			storeError(w, err)
			return
		}
		if !perm.CanCreateTasks(u) {
			writeError(w, http.StatusForbidden, "role cannot create tasks")
			return
		}
	}
	t := model.Task{
		Title:       req.Title,
		Description: req.Description,
		Priority:    model.Priority(req.Priority),
		DueDate:     req.DueDate,
		CreatorID:   req.CreatorID,
	}
	if req.DueTime != "" {
		t.DueTime = &req.DueTime
	}
	if req.PlannedStart != "" {
		t.PlannedStart = &req.PlannedStart
	}
	if req.ParentID != "" {
		t.ParentID = &req.ParentID
	}
	if req.AssigneeID != "" {
		t.AssigneeID = &req.AssigneeID
	}
	for _, name := range req.Tags {
		tag, err := s.store.EnsureTag(r.Context(), name)
		if err != nil {
			storeError(w, err)
			return
		}
		t.Tags = append(t.Tags, tag)
	}
	created, err := s.store.CreateTask(r.Context(), t)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleTaskGet(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.GetTask(r.Context(), r.PathValue("taskId"))
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDueSoon(w http.ResponseWriter, r *http.Request) {
	feed, err := s.notifier.Build(r.Context())
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

func (s *Server) handleTaskSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	tasks, err := s.store.SearchTasks(r.Context(), q, limit)
	if err != nil {
		storeError(w, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (s *Server) handleTaskToggle(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.ToggleTask(r.Context(), r.PathValue("taskId"))
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type postponeRequest struct {
	// Action is one of one_day, next_business_day, one_week. Mutually
	// exclusive with Date.
	Action string `json:"action"`
	Date   string `json:"date"`
}

func (s *Server) handleTaskPostpone(w http.ResponseWriter, r *http.Request) {
	var req postponeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id := r.PathValue("taskId")
	if req.Date != "" {
		t, err := s.store.Postpone(r.Context(), id, req.Date)
		if err != nil {
			storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
		return
	}
	action, err := notify.ParsePostponeAction(req.Action)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := s.notifier.Postpone(r.Context(), id, action)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type statusRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	st := model.Status(req.Status)
	if !st.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid status %q", req.Status))
		return
	}
	id := r.PathValue("taskId")
	if err := s.store.SetStatus(r.Context(), id, st, req.Comment); err != nil {
		storeError(w, err)
		return
	}
	t, err := s.store.GetTask(r.Context(), id)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type parentRequest struct {
	ParentID string `json:"parentId"`
}

func (s *Server) handleTaskParent(w http.ResponseWriter, r *http.Request) {
	var req parentRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id := r.PathValue("taskId")
	if err := s.store.SetParent(r.Context(), id, req.ParentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			storeError(w, err)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := s.store.GetTask(r.Context(), id)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleExpirationList(w http.ResponseWriter, r *http.Request) {
	rng, err := s.rangeFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	includeCompleted := r.URL.Query().Get("include_completed") == "true"
	exps, err := s.store.ListExpirations(r.Context(), rng, includeCompleted)
	if err != nil {
		storeError(w, err)
		return
	}
	if exps == nil {
		exps = []model.Expiration{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"expirations": exps})
}

type expirationCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	CreatorID   string `json:"creatorId"`
}

func (s *Server) handleExpirationCreate(w http.ResponseWriter, r *http.Request) {
	var req expirationCreateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := s.store.CreateExpiration(r.Context(), model.Expiration{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		CreatorID:   req.CreatorID,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleExpirationComplete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("expirationId")
	if err := s.store.CompleteExpiration(r.Context(), id); err != nil {
		storeError(w, err)
		return
	}
	e, err := s.store.GetExpiration(r.Context(), id)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

type calendarVM struct {
	Year   int                `json:"year"`
	Month  int                `json:"month"`
	Cells  []calendar.DayCell `json:"cells"`
	Legend []string           `json:"legend"`
}

// handleCalendar renders one month of the grid. year and month (0-11)
// default to the current month; the period parameters drive the filter
// highlighting, and selected marks a chosen cell.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	now := s.now()
	year, month := now.Year(), int(now.Month())-1
	if v := q.Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = n
	}
	if v := q.Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 11 {
			writeError(w, http.StatusBadRequest, "invalid month (expected 0-11)")
			return
		}
		month = n
	}
	rng, err := s.rangeFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	dates, err := s.store.EventDates(r.Context())
	if err != nil {
		storeError(w, err)
		return
	}

	view := calendar.NewView(
		calendar.WithNow(s.now),
		calendar.WithEventDates(dates),
		calendar.WithFilterRange(rng.Start, rng.End))
	view.SetMonth(year, month)
	if sel := q.Get("selected"); sel != "" {
		view.Select(sel)
	}
	writeJSON(w, http.StatusOK, calendarVM{
		Year:   view.Year(),
		Month:  view.Month(),
		Cells:  view.Grid(),
		Legend: view.Legend(),
	})
}

func (s *Server) handleExportICS(w http.ResponseWriter, r *http.Request) {
	rng, err := s.rangeFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	payload, err := export.ICS(r.Context(), s.store, rng)
	if err != nil {
		storeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.Filename(s.now())))
	_, _ = w.Write([]byte(payload))
}
