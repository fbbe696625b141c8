package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/julianstephens/habittracker/internal/constants"
	"github.com/julianstephens/habittracker/internal/logger"
)

// GoogleConfig configures a GoogleSyncer
type GoogleConfig struct {
	// CredentialsFile is the OAuth client secret JSON downloaded from the Google console
	CredentialsFile string
	CalendarID      string
	Tokens          TokenStore
	// Prompt shows the consent URL during the first authorization
	Prompt func(authURL string)
	// Flow obtains the first token. Nil runs a LoopbackFlow with Prompt.
	Flow TokenSource
	// ClientOptions replace the OAuth flow entirely (tests, service accounts)
	ClientOptions []option.ClientOption
}

// GoogleSyncer is a Syncer backed by the Google Calendar API.
// The API client is built on first use.
type GoogleSyncer struct {
	cfg GoogleConfig
	svc *gcal.Service
}

var _ Syncer = (*GoogleSyncer)(nil)

func NewGoogleSyncer(cfg GoogleConfig) *GoogleSyncer {
	if cfg.CalendarID == "" {
		cfg.CalendarID = constants.DefaultCalendarID
	}
	return &GoogleSyncer{cfg: cfg}
}

func (g *GoogleSyncer) service(ctx context.Context) (*gcal.Service, error) {
	if g.svc != nil {
		return g.svc, nil
	}

	opts := g.cfg.ClientOptions
	if len(opts) == 0 {
		client, err := g.authorizedClient(ctx)
		if err != nil {
			return nil, err
		}
		opts = []option.ClientOption{option.WithHTTPClient(client)}
	}

	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar client: %w", err)
	}
	g.svc = svc
	return svc, nil
}

func (g *GoogleSyncer) authorizedClient(ctx context.Context) (*http.Client, error) {
	secret, err := os.ReadFile(g.cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar credentials: %w", err)
	}
	conf, err := OAuthConfig(secret)
	if err != nil {
		return nil, err
	}
	flow := g.cfg.Flow
	if flow == nil {
		flow = &LoopbackFlow{Prompt: g.cfg.Prompt}
	}
	return Client(ctx, conf, g.cfg.Tokens, flow)
}

func (g *GoogleSyncer) AddEvent(ctx context.Context, ev Event) (string, error) {
	svc, err := g.service(ctx)
	if err != nil {
		return "", err
	}

	duration := ev.Duration
	if duration <= 0 {
		duration = constants.DefaultEventDuration
	}
	zone := ev.Start.Location().String()
	if zone == "Local" {
		// RFC 3339 offsets carry the zone; Google rejects the name "Local"
		zone = ""
	}
	remote := &gcal.Event{
		Id:          ev.ID,
		Summary:     ev.Title,
		Description: ev.Description,
		Start:       &gcal.EventDateTime{DateTime: ev.Start.Format(time.RFC3339), TimeZone: zone},
		End:         &gcal.EventDateTime{DateTime: ev.Start.Add(duration).Format(time.RFC3339), TimeZone: zone},
		Recurrence:  ev.Recurrence,
	}

	created, err := svc.Events.Insert(g.cfg.CalendarID, remote).Context(ctx).Do()
	if err != nil {
		// A retried create with a pre-assigned id finds its own earlier event
		if ev.ID != "" && hasStatus(err, http.StatusConflict) {
			logger.Debug("Calendar event already exists", "event", ev.ID)
			return ev.ID, nil
		}
		return "", fmt.Errorf("failed to create calendar event: %w", err)
	}

	logger.Info("Calendar event created", "event", created.Id, "link", created.HtmlLink)
	return created.Id, nil
}

func (g *GoogleSyncer) UpdateEvent(ctx context.Context, eventID, title, description string) error {
	if eventID == "" {
		return nil
	}
	svc, err := g.service(ctx)
	if err != nil {
		return err
	}

	remote, err := svc.Events.Get(g.cfg.CalendarID, eventID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to fetch calendar event %s: %w", eventID, err)
	}
	remote.Summary = title
	remote.Description = description

	updated, err := svc.Events.Update(g.cfg.CalendarID, remote.Id, remote).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update calendar event %s: %w", eventID, err)
	}

	logger.Info("Calendar event updated", "event", updated.Id, "link", updated.HtmlLink)
	return nil
}

func (g *GoogleSyncer) DeleteEvent(ctx context.Context, eventID string) error {
	if eventID == "" {
		return nil
	}
	svc, err := g.service(ctx)
	if err != nil {
		return err
	}

	err = svc.Events.Delete(g.cfg.CalendarID, eventID).Context(ctx).Do()
	if err != nil && !hasStatus(err, http.StatusNotFound, http.StatusGone) {
		return fmt.Errorf("failed to delete calendar event %s: %w", eventID, err)
	}

	logger.Info("Calendar event deleted", "event", eventID)
	return nil
}

func hasStatus(err error, codes ...int) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range codes {
		if apiErr.Code == code {
			return true
		}
	}
	return false
}
