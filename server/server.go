package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"story_assembler/generator"
	"story_assembler/publisher"
	"story_assembler/store"
)

// Library is the read/delete side of the story store.
type Library interface {
	Get(ctx context.Context, id string) (*store.Story, error)
	ListByUser(ctx context.Context, userID string) ([]*store.Story, error)
	Delete(ctx context.Context, id string) error
}

// Options wires the server's collaborators. Agent is required.
type Options struct {
	Agent     *generator.Agent
	Splitter  *generator.InterviewSplitter
	Publisher *publisher.Publisher
	Library   Library
	Metrics   http.Handler
	Logger    *zap.Logger
	// Timeout bounds each request to the generation service.
	Timeout time.Duration
}

type Server struct {
	opts  Options
	store *sessionStore
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*entry
}

// entry serialises work on one session; revisions must see the previous draft.
type entry struct {
	mu   sync.Mutex
	sess *generator.Session
}

func newStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*entry)}
}

func (s *sessionStore) set(id string, sess *generator.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &entry{sess: sess}
}

func (s *sessionStore) get(id string) (*entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	return e, ok
}

func New(opts Options) (*Server, error) {
	if opts.Agent == nil {
		return nil, errors.New("generator agent required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &Server{opts: opts, store: newStore()}, nil
}

func (s *Server) Routes() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler
	e.Use(middleware.Recover())
	e.Use(s.logMiddleware)

	api := e.Group("/api")
	api.POST("/sessions", s.handleSessionCreate)
	api.GET("/sessions/:id", s.handleSessionGet)
	api.POST("/sessions/:id/revise", s.handleSessionRevise)
	api.POST("/sessions/:id/save", s.handleSessionSave)
	api.POST("/interviews/split", s.handleInterviewSplit)
	api.GET("/library", s.handleLibraryList)
	api.GET("/library/:id", s.handleLibraryGet)
	api.DELETE("/library/:id", s.handleLibraryDelete)

	if s.opts.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(s.opts.Metrics))
	}
	return e
}

// --- Handlers ---

type sessionCreateReq struct {
	Fragments []generator.Fragment `json:"fragments"`
	Style     generator.Style      `json:"style"`
	MaxWords  int                  `json:"max_words"`
}

type sessionResp struct {
	SessionID string           `json:"session_id"`
	Draft     generator.Draft  `json:"draft"`
	History   []generator.Turn `json:"history"`
}

type reviseReq struct {
	Instruction string `json:"instruction"`
}

type saveReq struct {
	UserID       string `json:"user_id"`
	Title        string `json:"title"`
	InlineStyles bool   `json:"inline_styles"`
}

type splitReq struct {
	Transcript string `json:"transcript"`
	Rank       int    `json:"rank"`
}

type splitResp struct {
	Pairs     []generator.QAPair   `json:"pairs"`
	Fragments []generator.Fragment `json:"fragments,omitempty"`
}

func (s *Server) handleSessionCreate(c echo.Context) error {
	var req sessionCreateReq
	if err := c.Bind(&req); err != nil {
		return err
	}
	id := uuid.NewString()
	sess := generator.NewSession(id, generator.StoryRequest{
		Fragments: req.Fragments,
		Style:     req.Style,
		MaxWords:  req.MaxWords,
	}, s.opts.Agent)

	ctx, cancel := context.WithTimeout(c.Request().Context(), s.opts.Timeout)
	defer cancel()
	draft, err := sess.Propose(ctx)
	if err != nil {
		return err
	}
	s.store.set(id, sess)
	return c.JSON(http.StatusCreated, sessionResp{SessionID: id, Draft: draft, History: sess.History})
}

func (s *Server) handleSessionGet(c echo.Context) error {
	e, err := s.lookup(c)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return c.JSON(http.StatusOK, sessionResp{SessionID: e.sess.ID, Draft: e.sess.Draft, History: e.sess.History})
}

func (s *Server) handleSessionRevise(c echo.Context) error {
	e, err := s.lookup(c)
	if err != nil {
		return err
	}
	var req reviseReq
	if err := c.Bind(&req); err != nil {
		return err
	}
	// The instruction goes to the service as-is, blank or not.
	e.mu.Lock()
	defer e.mu.Unlock()
	ctx, cancel := context.WithTimeout(c.Request().Context(), s.opts.Timeout)
	defer cancel()
	draft, err := e.sess.Revise(ctx, req.Instruction)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResp{SessionID: e.sess.ID, Draft: draft, History: e.sess.History})
}

func (s *Server) handleSessionSave(c echo.Context) error {
	if s.opts.Publisher == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "story library not configured")
	}
	e, err := s.lookup(c)
	if err != nil {
		return err
	}
	var req saveReq
	if err := c.Bind(&req); err != nil {
		return err
	}

	e.mu.Lock()
	params := publisher.PublishParams{
		UserID:       req.UserID,
		Title:        req.Title,
		Style:        e.sess.Request.Style,
		MaxWords:     e.sess.Request.MaxWords,
		Draft:        e.sess.Draft,
		InlineStyles: req.InlineStyles,
	}
	e.mu.Unlock()

	story, err := s.opts.Publisher.Publish(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, story)
}

func (s *Server) handleInterviewSplit(c echo.Context) error {
	if s.opts.Splitter == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "interview splitting not configured")
	}
	var req splitReq
	if err := c.Bind(&req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Transcript) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "transcript is required")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), s.opts.Timeout)
	defer cancel()
	pairs, err := s.opts.Splitter.Split(ctx, req.Transcript)
	if err != nil {
		return err
	}
	resp := splitResp{Pairs: pairs}
	if req.Rank > 0 {
		resp.Fragments = generator.QAPairsToFragments(pairs, req.Rank)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleLibraryList(c echo.Context) error {
	if s.opts.Library == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "story library not configured")
	}
	userID := c.QueryParam("user_id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}
	list, err := s.opts.Library.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*store.Story{}
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) handleLibraryGet(c echo.Context) error {
	if s.opts.Library == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "story library not configured")
	}
	story, err := s.opts.Library.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, story)
}

func (s *Server) handleLibraryDelete(c echo.Context) error {
	if s.opts.Library == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "story library not configured")
	}
	if err := s.opts.Library.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Helpers ---

func (s *Server) lookup(c echo.Context) (*entry, error) {
	e, ok := s.store.get(c.Param("id"))
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return e, nil
}

type errorResp struct {
	Error string `json:"error"`
}

// errorHandler maps domain errors onto status codes; anything unknown came from the service.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusBadGateway
	msg := err.Error()

	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		code = he.Code
		msg = http.StatusText(code)
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	case errors.Is(err, generator.ErrNoFragments),
		errors.Is(err, generator.ErrInvalidMaxWords),
		errors.Is(err, generator.ErrNoDraft),
		errors.Is(err, publisher.ErrMissingUser),
		errors.Is(err, publisher.ErrMissingTitle):
		code = http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, store.ErrDuplicateTitle):
		code = http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		code = http.StatusGatewayTimeout
	}

	if code >= http.StatusInternalServerError {
		s.opts.Logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)
	}
	if werr := c.JSON(code, errorResp{Error: msg}); werr != nil {
		s.opts.Logger.Warn("write error response", zap.Error(werr))
	}
}

func (s *Server) logMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		s.opts.Logger.Debug("http request",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return err
	}
}
