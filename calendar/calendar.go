// Package calendar checks a unit's external iCal feed for events that
// overlap a requested stay. The check is best-effort: an unreachable or
// malformed feed is an error the caller degrades on, never a hard stop for
// the booking flow.
package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/riaddisiena/backend/logger"
)

// Event is one busy range parsed from a feed.
type Event struct {
	UID     string    `json:"uid"`
	Summary string    `json:"summary"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// Checker fetches and parses iCal feeds.
type Checker struct {
	client *http.Client
}

func New() *Checker {
	return &Checker{client: &http.Client{Timeout: 10 * time.Second}}
}

// FetchEvents downloads and parses the feed at url.
func (c *Checker) FetchEvents(ctx context.Context, url string) ([]Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar feed unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar feed returned status %d", resp.StatusCode)
	}

	cal, err := ics.ParseCalendar(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar feed: %w", err)
	}

	var events []Event
	for _, ve := range cal.Events() {
		start, err := ve.GetStartAt()
		if err != nil {
			if start, err = ve.GetAllDayStartAt(); err != nil {
				logger.WarnLogger.Warnf("Skipping calendar event without start: %v", err)
				continue
			}
		}
		end, err := ve.GetEndAt()
		if err != nil {
			if end, err = ve.GetAllDayEndAt(); err != nil {
				// Events without an end block a single day.
				end = start.AddDate(0, 0, 1)
			}
		}

		var summary string
		if p := ve.GetProperty(ics.ComponentPropertySummary); p != nil {
			summary = p.Value
		}

		events = append(events, Event{
			UID:     ve.Id(),
			Summary: summary,
			Start:   start,
			End:     end,
		})
	}
	return events, nil
}

// Conflicts returns the events overlapping [checkIn, checkOut). Check-out
// day is exclusive, so back-to-back stays do not collide.
func Conflicts(events []Event, checkIn, checkOut time.Time) []Event {
	var conflicts []Event
	for _, ev := range events {
		if ev.Start.Before(checkOut) && ev.End.After(checkIn) {
			conflicts = append(conflicts, ev)
		}
	}
	return conflicts
}
