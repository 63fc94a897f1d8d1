package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mantra-lab/backend/pkg/api"
	"github.com/mantra-lab/backend/pkg/xcontext"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// Message is the domain view of a mail item.
type Message struct {
	ID       string
	ThreadID string
	From     string
	To       string
	Subject  string
	Snippet  string
	Date     time.Time
	Labels   []string
}

// Event is the domain view of a calendar entry.
type Event struct {
	ID          string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Attendees   []string
	MeetingLink string
}

type GmailService interface {
	RecentMessages(ctx context.Context, max int64) ([]Message, error)
	SendMessage(ctx context.Context, to, subject, body string) (string, error)
}

type CalendarService interface {
	UpcomingEvents(ctx context.Context, max int64) ([]Event, error)
	CreateEvent(ctx context.Context, event Event) (string, error)
}

// AdapterError means the vendor rejected the request. It is not retryable;
// transport-level failures come back as api.TransportError instead so
// callers can retry only those.
type AdapterError struct {
	Service string
	Field   string
	Err     error
}

func (e AdapterError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s rejected field %s: %v", e.Service, e.Field, e.Err)
	}
	return fmt.Sprintf("%s rejected the request: %v", e.Service, e.Err)
}

func (e AdapterError) Unwrap() error {
	return e.Err
}

// adapterClient authenticates with the token source and bounds every vendor
// call by the configured adapter timeout.
func adapterClient(ctx context.Context, source oauth2.TokenSource) *http.Client {
	client := oauth2.NewClient(ctx, source)
	client.Timeout = xcontext.Configs(ctx).Adapter.Timeout
	return client
}

// wrapError classifies a vendor SDK error. Vendor 4xx is a rejection; 5xx
// and anything non-HTTP is transport.
func wrapError(service, field string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code < 500 {
		return AdapterError{Service: service, Field: field, Err: err}
	}

	return api.TransportError{URL: service, Err: err}
}
