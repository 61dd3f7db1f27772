// Package calendar proxies event operations to the Google Calendar API,
// translating between local request shapes and the API's JSON.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// ErrEventNotFound indicates the event does not exist upstream (or was
// already deleted).
var ErrEventNotFound = errors.New("event not found")

// Client wraps the Google Calendar service for a single calendar.
type Client struct {
	svc        *gcal.Service
	calendarID string
	loc        *time.Location
}

// NewClient builds a calendar client. Authentication is supplied through
// opts, typically option.WithTokenSource; tests pass option.WithEndpoint
// plus option.WithoutAuthentication to target a local server.
func NewClient(ctx context.Context, loc *time.Location, calendarID string, opts ...option.ClientOption) (*Client, error) {
	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Client{svc: svc, calendarID: calendarID, loc: loc}, nil
}

// ListEvents returns the events starting within the calendar day of the
// given date, computed in the client's location, ordered by start time.
func (c *Client) ListEvents(ctx context.Context, day time.Time) ([]Event, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, c.loc)
	end := start.AddDate(0, 0, 1)

	res, err := c.svc.Events.List(c.calendarID).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	events := make([]Event, 0, len(res.Items))
	for _, item := range res.Items {
		events = append(events, fromGoogle(item))
	}
	return events, nil
}

// CreateEvent inserts a new event and returns the created representation,
// including the server-assigned link.
func (c *Client) CreateEvent(ctx context.Context, in EventInput) (*Event, error) {
	created, err := c.svc.Events.Insert(c.calendarID, in.toGoogle()).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	event := fromGoogle(created)
	return &event, nil
}

// DeleteEvent removes an event. A missing event is reported as
// ErrEventNotFound so callers can treat the delete as already applied.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	err := c.svc.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone) {
			return ErrEventNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// CheckConflicts returns the events overlapping the half-open interval
// [start, end).
func (c *Client) CheckConflicts(ctx context.Context, start, end time.Time) ([]Event, error) {
	res, err := c.svc.Events.List(c.calendarID).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("check conflicts: %w", err)
	}

	conflicts := make([]Event, 0, len(res.Items))
	for _, item := range res.Items {
		conflicts = append(conflicts, fromGoogle(item))
	}
	return conflicts, nil
}
