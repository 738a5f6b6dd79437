package services

import (
	"context"
	"errors"
	"sync"

	"eventhub.dev/cli/internal/application/ports"
	"eventhub.dev/cli/internal/core/category"
	"eventhub.dev/cli/internal/core/event"
	"eventhub.dev/cli/internal/core/submission"
)

// Notification texts shown to the user
const (
	CategoriesFailedMessage = "Something went wrong in fetching categories"
	CreateFailedMessage     = "Something went wrong while creating the event"
	CreatedMessage          = "Event Created Successfully"
)

// DefaultListingRoute is where the admin lands after creating an event
const DefaultListingRoute = "/dashboard/admin/products"

// Result classifies how a submission attempt ended
type Result string

const (
	ResultCreated  Result = "created"
	ResultInvalid  Result = "invalid"
	ResultRejected Result = "rejected"
	ResultFailed   Result = "failed"
	ResultBusy     Result = "busy"
)

// Outcome describes a finished submission attempt
type Outcome struct {
	Result  Result
	Message string
	Route   string
	Field   event.Field
	Event   *event.Record
	Err     error
}

// Created reports whether the event was created
func (o Outcome) Created() bool {
	return o.Result == ResultCreated
}

// EventFormService drives one create-event form: it loads the category
// selection list and submits drafts.
type EventFormService struct {
	categories   ports.CategoryGateway
	events       ports.EventGateway
	notifier     ports.Notifier
	navigator    ports.Navigator
	logger       ports.LoggingGateway
	listingRoute string

	mu      sync.RWMutex
	options category.List
	tracker *submission.Tracker
}

// NewEventFormService creates a service for a single form instance
func NewEventFormService(
	categories ports.CategoryGateway,
	events ports.EventGateway,
	notifier ports.Notifier,
	navigator ports.Navigator,
	logger ports.LoggingGateway,
	listingRoute string,
) *EventFormService {
	if listingRoute == "" {
		listingRoute = DefaultListingRoute
	}
	return &EventFormService{
		categories:   categories,
		events:       events,
		notifier:     notifier,
		navigator:    navigator,
		logger:       logger,
		listingRoute: listingRoute,
		options:      category.List{},
		tracker:      submission.NewTracker(),
	}
}

// Categories returns the stored selection list
func (s *EventFormService) Categories() category.List {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.options.Clone()
}

// State returns the submission state of the form
func (s *EventFormService) State() submission.State {
	return s.tracker.State()
}

// Submitting reports whether a submission is in flight
func (s *EventFormService) Submitting() bool {
	return s.tracker.Busy()
}

// LoadCategories fetches the selection list. Failures are logged and shown
// to the user; the previous list is kept and never an error is returned.
func (s *EventFormService) LoadCategories(ctx context.Context) category.List {
	resp, err := s.categories.ListCategories(ctx)
	if err != nil {
		s.logger.LogError(err, "Failed to fetch categories", nil)
		s.notifier.Error(CategoriesFailedMessage)
		return s.Categories()
	}

	if !resp.Success {
		s.logger.Log(ports.LogLevelWarn, "Category listing was not successful", map[string]interface{}{
			"message": resp.Message,
		})
		s.notifier.Error(CategoriesFailedMessage)
		return s.Categories()
	}

	s.mu.Lock()
	s.options = category.List(resp.Category).Clone()
	if s.options == nil {
		s.options = category.List{}
	}
	s.mu.Unlock()

	s.logger.Log(ports.LogLevelDebug, "Categories loaded", map[string]interface{}{
		"count": len(resp.Category),
	})
	return s.Categories()
}

// Submit validates the draft and sends it. The draft itself is never
// modified; on any failure the caller keeps it for correction.
func (s *EventFormService) Submit(ctx context.Context, draft event.Draft) Outcome {
	if err := s.tracker.Begin(); err != nil {
		s.logger.Log(ports.LogLevelDebug, "Submission ignored", map[string]interface{}{
			"reason": err.Error(),
		})
		return Outcome{Result: ResultBusy, Err: err}
	}

	if verr := event.Validate(draft); verr != nil {
		s.mustMove(s.tracker.Reject())
		s.notifier.Error(verr.Message)
		return Outcome{Result: ResultInvalid, Message: verr.Message, Field: verr.Field, Err: verr}
	}

	s.mustMove(s.tracker.Send())
	resp, err := s.events.CreateEvent(ctx, draft)
	if err != nil {
		s.mustMove(s.tracker.Fail())
		s.logger.LogError(err, "Failed to create event", map[string]interface{}{
			"name": draft.Name,
		})
		s.notifier.Error(CreateFailedMessage)
		return Outcome{Result: ResultFailed, Message: CreateFailedMessage, Err: err}
	}

	if !resp.Success {
		s.mustMove(s.tracker.Fail())
		message := resp.Message
		if message == "" {
			message = CreateFailedMessage
		}
		s.logger.Log(ports.LogLevelWarn, "Event was rejected", map[string]interface{}{
			"name":    draft.Name,
			"message": resp.Message,
		})
		s.notifier.Error(message)
		return Outcome{Result: ResultRejected, Message: message, Err: errors.New(message)}
	}

	s.mustMove(s.tracker.Complete())
	s.logger.Log(ports.LogLevelInfo, "Event created", map[string]interface{}{
		"name":  draft.Name,
		"route": s.listingRoute,
	})
	s.notifier.Success(CreatedMessage)
	s.navigator.Navigate(s.listingRoute)
	return Outcome{Result: ResultCreated, Message: CreatedMessage, Route: s.listingRoute, Event: resp.Event}
}

// mustMove logs tracker transitions that should never fail while the
// tracker is owned by Submit.
func (s *EventFormService) mustMove(err error) {
	if err != nil {
		s.logger.LogError(err, "Unexpected submission state", nil)
	}
}
