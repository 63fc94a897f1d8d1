package google

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

type gmailAdapter struct {
	service *gmail.Service
}

// NewGmail builds a mail adapter executing as the user behind the token
// source. With testMode set it returns a canned adapter that never leaves
// the process.
func NewGmail(ctx context.Context, source oauth2.TokenSource, testMode bool) (GmailService, error) {
	if testMode {
		return NewCannedGmail(), nil
	}

	service, err := gmail.NewService(ctx, option.WithHTTPClient(adapterClient(ctx, source)))
	if err != nil {
		return nil, wrapError("gmail", "", err)
	}

	return &gmailAdapter{service: service}, nil
}

func (a *gmailAdapter) RecentMessages(ctx context.Context, max int64) ([]Message, error) {
	list, err := a.service.Users.Messages.List("me").
		Q("in:inbox").
		MaxResults(max).
		Context(ctx).Do()
	if err != nil {
		return nil, wrapError("gmail", "", err)
	}

	messages := make([]Message, 0, len(list.Messages))
	for _, ref := range list.Messages {
		full, err := a.service.Users.Messages.Get("me", ref.Id).
			Format("metadata").
			MetadataHeaders("From", "To", "Subject").
			Context(ctx).Do()
		if err != nil {
			return nil, wrapError("gmail", "", err)
		}

		message := Message{
			ID:       full.Id,
			ThreadID: full.ThreadId,
			Snippet:  full.Snippet,
			Date:     time.UnixMilli(full.InternalDate),
			Labels:   full.LabelIds,
		}

		if full.Payload != nil {
			for _, header := range full.Payload.Headers {
				switch header.Name {
				case "From":
					message.From = header.Value
				case "To":
					message.To = header.Value
				case "Subject":
					message.Subject = header.Value
				}
			}
		}

		messages = append(messages, message)
	}

	return messages, nil
}

func (a *gmailAdapter) SendMessage(ctx context.Context, to, subject, body string) (string, error) {
	raw := fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body)

	sent, err := a.service.Users.Messages.Send("me", &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}).Context(ctx).Do()
	if err != nil {
		return "", wrapError("gmail", "to", err)
	}

	return sent.Id, nil
}
