package mockapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"eventhub.dev/cli/internal/application/ports"
	"eventhub.dev/cli/internal/core/category"
	"eventhub.dev/cli/internal/core/event"
	"eventhub.dev/cli/internal/infrastructure/api"
	"eventhub.dev/cli/internal/infrastructure/logging"
)

const (
	CreateCategoryPath = "/api/v1/category/create-category"
	EventPhotoPath     = "/api/v1/event/event-photo/:id"
)

// Options configures a Server
type Options struct {
	Store Store
	// JWTSecret enables admin auth on the create endpoints when set
	JWTSecret string
	Logger    ports.LoggingGateway
	Now       func() time.Time
}

// Server is a local stand-in for the event backend
type Server struct {
	engine *gin.Engine
	store  Store
	secret string
	logger ports.LoggingGateway
	now    func() time.Time
}

// NewServer creates the router with all routes registered
func NewServer(opts Options) *Server {
	s := &Server{
		store:  opts.Store,
		secret: opts.JWTSecret,
		logger: opts.Logger,
		now:    opts.Now,
	}
	if s.store == nil {
		s.store = NewMemoryStore()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = logging.NoopLogger{}
	}

	s.engine = gin.New()
	s.engine.Use(gin.Recovery(), s.requestLogger())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.engine

	r.GET(api.CategoryListPath, s.getCategories)
	r.GET(api.EventListPath, s.getEvents)
	r.GET(EventPhotoPath, s.getEventPhoto)

	admin := r.Group("/")
	if s.secret != "" {
		admin.Use(s.requireAdmin())
	}
	admin.POST(CreateCategoryPath, s.createCategory)
	admin.POST(api.CreateEventPath, s.createEvent)
}

// Handler returns the HTTP handler serving all routes
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Log(ports.LogLevelInfo, "Mock API listening", map[string]interface{}{
		"addr": addr,
	})

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("mock API failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down mock API: %w", err)
		}
		return nil
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Log(ports.LogLevelDebug, "Handled request", map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"request_id": c.GetHeader("X-Request-ID"),
		})
	}
}

func jsonFailure(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"success": false, "message": msg})
}

func (s *Server) getCategories(c *gin.Context) {
	list, err := s.store.ListCategories(c.Request.Context())
	if err != nil {
		s.logger.LogError(err, "Failed to list categories", nil)
		jsonFailure(c, http.StatusInternalServerError, "Error while getting all categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "All Categories List",
		"category": list,
	})
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

func (s *Server) createCategory(c *gin.Context) {
	var body createCategoryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonFailure(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if body.Name == "" {
		jsonFailure(c, http.StatusBadRequest, "Name is Required")
		return
	}

	ctx := c.Request.Context()
	existing, err := s.store.ListCategories(ctx)
	if err != nil {
		s.logger.LogError(err, "Failed to list categories", nil)
		jsonFailure(c, http.StatusInternalServerError, "Error in Category")
		return
	}
	for _, cat := range existing {
		if cat.Name == body.Name {
			jsonFailure(c, http.StatusConflict, "Category Already Exists")
			return
		}
	}

	created, err := s.store.CreateCategory(ctx, body.Name)
	if err != nil {
		s.logger.LogError(err, "Failed to create category", nil)
		jsonFailure(c, http.StatusInternalServerError, "Error in Category")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "New Category Created",
		"category": created,
	})
}

func (s *Server) createEvent(c *gin.Context) {
	draft, err := s.readDraft(c)
	if err != nil {
		jsonFailure(c, http.StatusBadRequest, err.Error())
		return
	}

	if verr := event.Validate(draft); verr != nil {
		jsonFailure(c, http.StatusBadRequest, verr.Message)
		return
	}
	if !ValidID(draft.Category) {
		jsonFailure(c, http.StatusBadRequest, "Invalid category id")
		return
	}

	ctx := c.Request.Context()
	if _, err := s.store.FindCategory(ctx, draft.Category); err != nil {
		if errors.Is(err, category.ErrNotFound) {
			jsonFailure(c, http.StatusNotFound, "Category not found")
			return
		}
		s.logger.LogError(err, "Failed to look up category", nil)
		jsonFailure(c, http.StatusInternalServerError, "Error in creating event")
		return
	}

	record, err := s.store.CreateEvent(ctx, event.NewRecord("", draft, s.now().UTC()), draft.Photo)
	if err != nil {
		s.logger.LogError(err, "Failed to store event", nil)
		jsonFailure(c, http.StatusInternalServerError, "Error in creating event")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Event Created Successfully",
		"event":   record,
	})
}

// readDraft rebuilds a draft from the form. Keys are accepted in either the
// wire or the camelCase spelling; the wire spelling wins when both are sent.
// The photo part is read only up to one byte past the size ceiling.
func (s *Server) readDraft(c *gin.Context) (event.Draft, error) {
	draft := event.Draft{}
	if _, err := c.MultipartForm(); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return draft, fmt.Errorf("invalid form: %w", err)
	}

	for key, values := range c.Request.PostForm {
		field, err := event.NewField(key)
		if err != nil {
			s.logger.Log(ports.LogLevelDebug, "Ignoring unknown form field", map[string]interface{}{"field": key})
			continue
		}
		if field == event.FieldPhoto || len(values) == 0 {
			continue
		}
		if key != field.FormKey() && draft.Get(field) != "" {
			continue
		}
		if draft, err = draft.Set(field, values[0]); err != nil {
			return draft, err
		}
	}

	header, err := c.FormFile(event.FieldPhoto.FormKey())
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return draft, nil
	}
	if err != nil {
		return draft, fmt.Errorf("invalid photo: %w", err)
	}

	f, err := header.Open()
	if err != nil {
		return draft, fmt.Errorf("invalid photo: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, event.MaxPhotoSize+1))
	if err != nil {
		return draft, fmt.Errorf("invalid photo: %w", err)
	}

	photo, err := event.NewPhoto(header.Filename, data)
	if err != nil {
		return draft, err
	}
	if !photo.IsImage() {
		return draft, event.ErrNotImage
	}
	return draft.SetPhoto(photo), nil
}

func (s *Server) getEvents(c *gin.Context) {
	records, err := s.store.ListEvents(c.Request.Context())
	if err != nil {
		s.logger.LogError(err, "Failed to list events", nil)
		jsonFailure(c, http.StatusInternalServerError, "Error while getting events")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "All Events",
		"events":  records,
	})
}

func (s *Server) getEventPhoto(c *gin.Context) {
	photo, err := s.store.Photo(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, ErrEventNotFound):
		jsonFailure(c, http.StatusNotFound, "Event not found")
		return
	case errors.Is(err, ErrNoPhoto):
		jsonFailure(c, http.StatusNotFound, "Event has no photo")
		return
	case err != nil:
		s.logger.LogError(err, "Failed to load photo", nil)
		jsonFailure(c, http.StatusInternalServerError, "Error while getting photo")
		return
	}

	c.Data(http.StatusOK, photo.ContentType(), photo.Data)
}
