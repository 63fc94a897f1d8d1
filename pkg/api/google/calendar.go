package google

import (
	"context"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

type calendarAdapter struct {
	service *calendar.Service
}

// NewCalendar builds a calendar adapter over the user's primary calendar.
// With testMode set it returns a canned adapter that never leaves the
// process.
func NewCalendar(ctx context.Context, source oauth2.TokenSource, testMode bool) (CalendarService, error) {
	if testMode {
		return NewCannedCalendar(), nil
	}

	service, err := calendar.NewService(ctx, option.WithHTTPClient(adapterClient(ctx, source)))
	if err != nil {
		return nil, wrapError("calendar", "", err)
	}

	return &calendarAdapter{service: service}, nil
}

func (a *calendarAdapter) UpcomingEvents(ctx context.Context, max int64) ([]Event, error) {
	list, err := a.service.Events.List("primary").
		TimeMin(time.Now().Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(max).
		Context(ctx).Do()
	if err != nil {
		return nil, wrapError("calendar", "", err)
	}

	events := make([]Event, 0, len(list.Items))
	for _, item := range list.Items {
		event := Event{
			ID:          item.Id,
			Summary:     item.Summary,
			Description: item.Description,
			Location:    item.Location,
			Start:       parseEventTime(item.Start),
			End:         parseEventTime(item.End),
			MeetingLink: item.HangoutLink,
		}

		for _, attendee := range item.Attendees {
			event.Attendees = append(event.Attendees, attendee.Email)
		}

		events = append(events, event)
	}

	return events, nil
}

func (a *calendarAdapter) CreateEvent(ctx context.Context, event Event) (string, error) {
	payload := &calendar.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		Start:       &calendar.EventDateTime{DateTime: event.Start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: event.End.Format(time.RFC3339)},
	}

	for _, email := range event.Attendees {
		payload.Attendees = append(payload.Attendees, &calendar.EventAttendee{Email: email})
	}

	created, err := a.service.Events.Insert("primary", payload).Context(ctx).Do()
	if err != nil {
		return "", wrapError("calendar", "start", err)
	}

	return created.Id, nil
}

func parseEventTime(t *calendar.EventDateTime) time.Time {
	if t == nil {
		return time.Time{}
	}

	if t.DateTime != "" {
		if parsed, err := time.Parse(time.RFC3339, t.DateTime); err == nil {
			return parsed
		}
	}

	if t.Date != "" {
		if parsed, err := time.Parse("2006-01-02", t.Date); err == nil {
			return parsed
		}
	}

	return time.Time{}
}
