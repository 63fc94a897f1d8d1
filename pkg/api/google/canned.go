package google

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// Canned adapters serve fixed data without any network round trip. They back
// local development and the integration tests where a real Google account is
// not available.

type cannedGmail struct {
	sent atomic.Int64
}

func NewCannedGmail() GmailService {
	return &cannedGmail{}
}

func (c *cannedGmail) RecentMessages(_ context.Context, max int64) ([]Message, error) {
	now := time.Now()
	messages := []Message{
		{
			ID:       "canned-msg-1",
			ThreadID: "canned-thread-1",
			From:     "noreply@statuspage.io",
			To:       "dev@example.com",
			Subject:  "Monitor recovered: api.example.com",
			Snippet:  "The monitor api.example.com is back up.",
			Date:     now.Add(-10 * time.Minute),
			Labels:   []string{"INBOX", "UNREAD"},
		},
		{
			ID:       "canned-msg-2",
			ThreadID: "canned-thread-2",
			From:     "billing@vendor.example.com",
			To:       "dev@example.com",
			Subject:  "Your invoice for August",
			Snippet:  "Invoice #1042 is attached.",
			Date:     now.Add(-2 * time.Hour),
			Labels:   []string{"INBOX"},
		},
		{
			ID:       "canned-msg-3",
			ThreadID: "canned-thread-3",
			From:     "team@example.com",
			To:       "dev@example.com",
			Subject:  "Weekly sync notes",
			Snippet:  "Notes from today's sync are in the doc.",
			Date:     now.Add(-26 * time.Hour),
			Labels:   []string{"INBOX"},
		},
	}

	if max > 0 && int64(len(messages)) > max {
		messages = messages[:max]
	}

	return messages, nil
}

func (c *cannedGmail) SendMessage(context.Context, string, string, string) (string, error) {
	return fmt.Sprintf("canned-sent-%d", c.sent.Add(1)), nil
}

type cannedCalendar struct {
	created atomic.Int64
}

func NewCannedCalendar() CalendarService {
	return &cannedCalendar{}
}

func (c *cannedCalendar) UpcomingEvents(_ context.Context, max int64) ([]Event, error) {
	now := time.Now()
	events := []Event{
		{
			ID:          "canned-event-1",
			Summary:     "Daily standup",
			Start:       now.Add(30 * time.Minute),
			End:         now.Add(45 * time.Minute),
			Attendees:   []string{"dev@example.com", "team@example.com"},
			MeetingLink: "https://meet.example.com/canned-standup",
		},
		{
			ID:      "canned-event-2",
			Summary: "Design review",
			Start:   now.Add(3 * time.Hour),
			End:     now.Add(4 * time.Hour),
		},
	}

	if max > 0 && int64(len(events)) > max {
		events = events[:max]
	}

	return events, nil
}

func (c *cannedCalendar) CreateEvent(context.Context, Event) (string, error) {
	return fmt.Sprintf("canned-event-%d", 100+c.created.Add(1)), nil
}
