package calendarclient

import (
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/carebridge/rosterguard/pkg/core/model"
	"github.com/carebridge/rosterguard/pkg/core/timeutil"
)

const WRITE_INTERVAL = 500 * time.Millisecond

// weekPropertyKey tags every exported event with its roster week so a
// re-export can find and replace prior events.
const weekPropertyKey = "rosterguard_week"

// throttleWrite spaces out write requests to respect Calendar API rate limits
func (c *Client) throttleWrite() {
	if !c.lastWriteTime.IsZero() {
		elapsed := time.Since(c.lastWriteTime)
		if elapsed < WRITE_INTERVAL {
			time.Sleep(WRITE_INTERVAL - elapsed)
		}
	}
	c.lastWriteTime = time.Now()
}

// CreateShiftEvent creates a calendar event for a single shift.
func (c *Client) CreateShiftEvent(calendarID, timezone, weekStart string, shift *model.Shift) error {
	c.writeMutex.Lock()
	defer c.writeMutex.Unlock()
	c.throttleWrite()

	endDate := shift.Date
	if shift.CrossesMidnight() {
		var err error
		endDate, err = timeutil.AddDays(shift.Date, 1)
		if err != nil {
			return fmt.Errorf("failed to compute end date: %w", err)
		}
	}

	summary := fmt.Sprintf("%s (%s)", shift.Participant, shift.Ratio)
	description := fmt.Sprintf("Workers: %s", strings.Join(shift.Workers, ", "))
	if shift.Notes != "" {
		description += "\n" + shift.Notes
	}

	event := &calendar.Event{
		Summary:     summary,
		Description: description,
		Location:    shift.Location,
		Start: &calendar.EventDateTime{
			DateTime: fmt.Sprintf("%sT%s:00", shift.Date, shift.StartTime),
			TimeZone: timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: fmt.Sprintf("%sT%s:00", endDate, shift.EndTime),
			TimeZone: timezone,
		},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				weekPropertyKey: weekStart,
				"shift_id":      shift.ID,
			},
		},
	}

	_, err := c.service.Events.Insert(calendarID, event).Do()
	if err != nil {
		return fmt.Errorf("failed to insert event for shift %s: %w", shift.ID, err)
	}

	return nil
}

// DeleteWeekEvents removes every event previously exported for the given week.
// Returns the number of events deleted.
func (c *Client) DeleteWeekEvents(calendarID, weekStart string) (int, error) {
	c.writeMutex.Lock()
	defer c.writeMutex.Unlock()

	deleted := 0
	pageToken := ""
	for {
		call := c.service.Events.List(calendarID).
			PrivateExtendedProperty(weekPropertyKey + "=" + weekStart).
			MaxResults(250)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		events, err := call.Do()
		if err != nil {
			return deleted, fmt.Errorf("failed to list events for week %s: %w", weekStart, err)
		}

		for _, event := range events.Items {
			c.throttleWrite()
			if err := c.service.Events.Delete(calendarID, event.Id).Do(); err != nil {
				return deleted, fmt.Errorf("failed to delete event %s: %w", event.Id, err)
			}
			deleted++
		}

		if events.NextPageToken == "" {
			return deleted, nil
		}
		pageToken = events.NextPageToken
	}
}
