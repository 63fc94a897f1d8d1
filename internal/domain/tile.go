package domain

import (
	"context"
	"strings"

	"github.com/mantra-lab/backend/internal/model"
	"github.com/mantra-lab/backend/internal/repository"
	"github.com/mantra-lab/backend/pkg/api/google"
	"github.com/mantra-lab/backend/pkg/authenticator"
	"github.com/mantra-lab/backend/pkg/errorx"
	"github.com/mantra-lab/backend/pkg/xcontext"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

const (
	defaultTileLimit = 5
	maxTileLimit     = 20
)

type TileDomain interface {
	GetTiles(ctx context.Context, req *model.GetTilesRequest) (*model.GetTilesResponse, error)
}

type tileDomain struct {
	credentialResolver
}

func NewTileDomain(
	credentialRepo repository.CredentialRepository,
	google *authenticator.GoogleOAuth,
) *tileDomain {
	return &tileDomain{
		credentialResolver: credentialResolver{
			credentialRepo: credentialRepo,
			google:         google,
		},
	}
}

// GetTiles builds the dashboard cards. Provider calls run concurrently and a
// failing provider degrades its own tile instead of the whole response.
func (d *tileDomain) GetTiles(
	ctx context.Context, req *model.GetTilesRequest,
) (*model.GetTilesResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultTileLimit
	}
	if limit > maxTileLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum limit of %d", maxTileLimit)
	}

	wantMail, wantCalendar := true, true
	if req.Sources != "" {
		wantMail, wantCalendar = false, false
		for _, source := range strings.Split(req.Sources, ",") {
			switch strings.TrimSpace(source) {
			case "gmail":
				wantMail = true
			case "calendar":
				wantCalendar = true
			default:
				return nil, errorx.New(errorx.BadRequest, "Unknown tile source %s", source)
			}
		}
	}

	token, err := d.freshGoogleToken(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		return nil, err
	}

	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token.AccessToken})
	testMode := xcontext.Configs(ctx).Adapter.TestMode

	mailTile := model.Tile{Type: "mail", Title: "Recent mail"}
	calendarTile := model.Tile{Type: "calendar", Title: "Upcoming events"}

	group, groupCtx := errgroup.WithContext(ctx)

	if wantMail {
		group.Go(func() error {
			service, err := google.NewGmail(groupCtx, source, testMode)
			if err == nil {
				var messages []google.Message
				messages, err = service.RecentMessages(groupCtx, limit)
				for _, message := range messages {
					mailTile.Items = append(mailTile.Items, model.TileItem{
						ID:        message.ID,
						Title:     message.Subject,
						Subtitle:  message.From,
						Timestamp: message.Date.Unix(),
					})
				}
			}

			if err != nil {
				xcontext.Logger(ctx).Warnf("Cannot load the mail tile: %v", err)
				mailTile.Error = "Unable to load your recent mail"
			}

			return nil
		})
	}

	if wantCalendar {
		group.Go(func() error {
			service, err := google.NewCalendar(groupCtx, source, testMode)
			if err == nil {
				var events []google.Event
				events, err = service.UpcomingEvents(groupCtx, limit)
				for _, event := range events {
					calendarTile.Items = append(calendarTile.Items, model.TileItem{
						ID:        event.ID,
						Title:     event.Summary,
						Subtitle:  event.Location,
						Timestamp: event.Start.Unix(),
						Link:      event.MeetingLink,
					})
				}
			}

			if err != nil {
				xcontext.Logger(ctx).Warnf("Cannot load the calendar tile: %v", err)
				calendarTile.Error = "Unable to load your upcoming events"
			}

			return nil
		})
	}

	// Goroutines never return an error; Wait only synchronizes them.
	_ = group.Wait()

	var tiles []model.Tile
	if wantMail {
		tiles = append(tiles, mailTile)
	}
	if wantCalendar {
		tiles = append(tiles, calendarTile)
	}

	return &model.GetTilesResponse{Tiles: tiles}, nil
}
