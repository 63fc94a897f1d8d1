package google

import (
	"context"
	"errors"
	"testing"

	"github.com/mantra-lab/backend/pkg/api"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestCannedGmail(t *testing.T) {
	service, err := NewGmail(context.Background(), nil, true)
	require.NoError(t, err)

	messages, err := service.RecentMessages(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.NotEmpty(t, messages[0].Subject)

	first, err := service.SendMessage(context.Background(), "x@example.com", "hi", "body")
	require.NoError(t, err)
	second, err := service.SendMessage(context.Background(), "x@example.com", "hi", "body")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestCannedCalendar(t *testing.T) {
	service, err := NewCalendar(context.Background(), nil, true)
	require.NoError(t, err)

	events, err := service.UpcomingEvents(context.Background(), 10)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	require.True(t, events[0].Start.Before(events[1].Start))

	id, err := service.CreateEvent(context.Background(), Event{Summary: "test"})
	require.NoError(t, err)
	require.NotEmpty(t, id)
}

func TestWrapErrorClassification(t *testing.T) {
	rejection := wrapError("gmail", "to", &googleapi.Error{Code: 400, Message: "invalid to"})
	var adapterErr AdapterError
	require.ErrorAs(t, rejection, &adapterErr)
	require.Equal(t, "to", adapterErr.Field)

	serverSide := wrapError("gmail", "", &googleapi.Error{Code: 503})
	var transportErr api.TransportError
	require.ErrorAs(t, serverSide, &transportErr)

	network := wrapError("calendar", "", errors.New("connection refused"))
	require.ErrorAs(t, network, &transportErr)
}
