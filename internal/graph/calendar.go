package graph

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ListEvents returns calendar events between start and end, ordered by
// start time. calendarView expands recurring events into occurrences.
func (c *Client) ListEvents(ctx context.Context, start, end time.Time, top int) ([]Event, error) {
	query := url.Values{}
	query.Set("startDateTime", start.UTC().Format(time.RFC3339))
	query.Set("endDateTime", end.UTC().Format(time.RFC3339))
	query.Set("$orderby", "start/dateTime")
	if top > 0 {
		query.Set("$top", strconv.Itoa(top))
	}

	var resp listResponse[Event]
	if err := c.do(ctx, http.MethodGet, "/me/calendarView", query, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// CreateEventRequest are the writable fields for a new calendar event.
type CreateEventRequest struct {
	Subject   string
	Body      string
	Start     time.Time
	End       time.Time
	Location  string
	Attendees []string
}

// CreateEvent creates an event in the signed-in user's default calendar.
func (c *Client) CreateEvent(ctx context.Context, req CreateEventRequest) (*Event, error) {
	event := Event{
		Subject: req.Subject,
		Start:   &DateTimeZone{DateTime: req.Start.UTC().Format("2006-01-02T15:04:05"), TimeZone: "UTC"},
		End:     &DateTimeZone{DateTime: req.End.UTC().Format("2006-01-02T15:04:05"), TimeZone: "UTC"},
	}
	if req.Body != "" {
		event.Body = &ItemBody{ContentType: "text", Content: req.Body}
	}
	if req.Location != "" {
		event.Location = &Location{DisplayName: req.Location}
	}
	for _, addr := range req.Attendees {
		event.Attendees = append(event.Attendees, Attendee{
			Type:         "required",
			EmailAddress: EmailAddress{Address: addr},
		})
	}

	var created Event
	if err := c.do(ctx, http.MethodPost, "/me/events", nil, nil, event, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
