package calendar

import (
	"time"

	gcal "google.golang.org/api/calendar/v3"
)

// EventTime is an event boundary with its display time zone.
type EventTime struct {
	DateTime time.Time `json:"dateTime"`
	TimeZone string    `json:"timeZone,omitempty"`
}

// Attendee is an invited participant.
type Attendee struct {
	Email string `json:"email"`
}

// EventInput is the payload for creating an event or checking conflicts.
type EventInput struct {
	Summary     string     `json:"summary"`
	Description string     `json:"description,omitempty"`
	Start       EventTime  `json:"start"`
	End         EventTime  `json:"end"`
	Attendees   []Attendee `json:"attendees,omitempty"`
}

// Event is the local representation of a calendar event.
type Event struct {
	ID          string     `json:"id"`
	Summary     string     `json:"summary"`
	Description string     `json:"description,omitempty"`
	Start       EventTime  `json:"start"`
	End         EventTime  `json:"end"`
	Attendees   []Attendee `json:"attendees,omitempty"`
	HTMLLink    string     `json:"htmlLink,omitempty"`
}

func (in EventInput) toGoogle() *gcal.Event {
	event := &gcal.Event{
		Summary:     in.Summary,
		Description: in.Description,
		Start:       in.Start.toGoogle(),
		End:         in.End.toGoogle(),
	}
	for _, a := range in.Attendees {
		event.Attendees = append(event.Attendees, &gcal.EventAttendee{Email: a.Email})
	}
	return event
}

func (t EventTime) toGoogle() *gcal.EventDateTime {
	return &gcal.EventDateTime{
		DateTime: t.DateTime.Format(time.RFC3339),
		TimeZone: t.TimeZone,
	}
}

func fromGoogle(event *gcal.Event) Event {
	out := Event{
		ID:          event.Id,
		Summary:     event.Summary,
		Description: event.Description,
		HTMLLink:    event.HtmlLink,
	}
	if event.Start != nil {
		out.Start = eventTimeFromGoogle(event.Start)
	}
	if event.End != nil {
		out.End = eventTimeFromGoogle(event.End)
	}
	for _, a := range event.Attendees {
		if a != nil {
			out.Attendees = append(out.Attendees, Attendee{Email: a.Email})
		}
	}
	return out
}

func eventTimeFromGoogle(t *gcal.EventDateTime) EventTime {
	out := EventTime{TimeZone: t.TimeZone}
	if t.DateTime != "" {
		if parsed, err := time.Parse(time.RFC3339, t.DateTime); err == nil {
			out.DateTime = parsed
		}
	} else if t.Date != "" {
		// All-day events carry a date only.
		if parsed, err := time.Parse("2006-01-02", t.Date); err == nil {
			out.DateTime = parsed
		}
	}
	return out
}
