package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"google.golang.org/api/option"
	"gorm.io/gorm"

	"github.com/faz-ai-biz/secretaria/internal/auth/google"
	"github.com/faz-ai-biz/secretaria/internal/calendar"
	"github.com/faz-ai-biz/secretaria/internal/db"
)

// CalendarAPI is the calendar proxy surface the handlers depend on.
// *calendar.Client is the production implementation; tests substitute a
// stub.
type CalendarAPI interface {
	ListEvents(ctx context.Context, day time.Time) ([]calendar.Event, error)
	CreateEvent(ctx context.Context, in calendar.EventInput) (*calendar.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
	CheckConflicts(ctx context.Context, start, end time.Time) ([]calendar.Event, error)
}

var _ CalendarAPI = (*calendar.Client)(nil)

// CalendarFactory builds a calendar proxy for already-refreshed
// credentials.
type CalendarFactory func(ctx context.Context, creds *google.Credentials) (CalendarAPI, error)

// NewCalendarFactory returns the production factory targeting the
// configured calendar.
func NewCalendarFactory(loc *time.Location, calendarID string) CalendarFactory {
	return func(ctx context.Context, creds *google.Credentials) (CalendarAPI, error) {
		return calendar.NewClient(ctx, loc, calendarID, option.WithTokenSource(creds.TokenSource()))
	}
}

// calendarForClient runs the shared preamble for every calendar route:
// client lookup, credential validation, refresh, persistence of the
// renewed blob and proxy construction. It writes the error response itself
// and reports success through ok.
func calendarForClient(w http.ResponseWriter, r *http.Request, database *gorm.DB, factory CalendarFactory) (svc CalendarAPI, ok bool) {
	email := chi.URLParam(r, "email")

	client, err := db.GetClientByEmail(database, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "client not found")
			return nil, false
		}
		writeError(w, r, http.StatusBadRequest, "failed to load client")
		return nil, false
	}

	if len(client.Credentials) == 0 {
		writeError(w, r, http.StatusUnauthorized, "client not authorized for calendar access")
		return nil, false
	}

	creds, err := google.ParseCredentials(client.Credentials)
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "stored credentials are invalid")
		return nil, false
	}

	refreshed, newExpiry, err := creds.Refresh(r.Context(), client.Expiry)
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "failed to refresh credentials")
		return nil, false
	}
	if refreshed {
		blob, err := creds.Marshal()
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "failed to encode refreshed credentials")
			return nil, false
		}
		if _, err := db.UpdateClient(database, email, db.ClientPatch{Credentials: &blob, Expiry: &newExpiry}); err != nil {
			writeError(w, r, http.StatusBadRequest, "failed to save refreshed credentials")
			return nil, false
		}
		log.Printf("refreshed calendar credentials for %s", email)
	}

	svc, err = factory(r.Context(), creds)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "failed to reach calendar service")
		return nil, false
	}
	return svc, true
}

// ListEventsHandler returns the events of a single calendar day.
func ListEventsHandler(database *gorm.DB, factory CalendarFactory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, err := time.Parse("2006-01-02", chi.URLParam(r, "date"))
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
			return
		}

		svc, ok := calendarForClient(w, r, database, factory)
		if !ok {
			return
		}

		events, err := svc.ListEvents(r.Context(), day)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, events)
	}
}

// CreateEventHandler creates an event on the client's calendar.
func CreateEventHandler(database *gorm.DB, factory CalendarFactory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, ok := decodeEventInput(w, r)
		if !ok {
			return
		}

		svc, ok := calendarForClient(w, r, database, factory)
		if !ok {
			return
		}

		created, err := svc.CreateEvent(r.Context(), input)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// DeleteEventHandler removes an event. A missing event is treated as
// already gone.
func DeleteEventHandler(database *gorm.DB, factory CalendarFactory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc, ok := calendarForClient(w, r, database, factory)
		if !ok {
			return
		}

		err := svc.DeleteEvent(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil && !errors.Is(err, calendar.ErrEventNotFound) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// CheckConflictsHandler reports the events overlapping the proposed slot.
func CheckConflictsHandler(database *gorm.DB, factory CalendarFactory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, ok := decodeEventInput(w, r)
		if !ok {
			return
		}

		svc, ok := calendarForClient(w, r, database, factory)
		if !ok {
			return
		}

		conflicts, err := svc.CheckConflicts(r.Context(), input.Start.DateTime, input.End.DateTime)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if conflicts == nil {
			conflicts = []calendar.Event{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"has_conflict":       len(conflicts) > 0,
			"conflicting_events": conflicts,
		})
	}
}

func decodeEventInput(w http.ResponseWriter, r *http.Request) (calendar.EventInput, bool) {
	var input calendar.EventInput
	if err := decodeJSONBody(r, &input); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid event payload")
		return input, false
	}
	if input.Summary == "" {
		writeError(w, r, http.StatusBadRequest, "summary is required")
		return input, false
	}
	if input.Start.DateTime.IsZero() || input.End.DateTime.IsZero() {
		writeError(w, r, http.StatusBadRequest, "start and end times are required")
		return input, false
	}
	if !input.End.DateTime.After(input.Start.DateTime) {
		writeError(w, r, http.StatusBadRequest, "end must be after start")
		return input, false
	}
	return input, true
}
