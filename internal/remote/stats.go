package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const (
	statsHourField  = "hour"
	statsTotalField = "total"
)

// HourStat is one row of the action log stats: the count of every recipe
// served within the hour. Recipe names are free form field names.
type HourStat struct {
	Hour   string
	Counts map[string]float64
	// Total is the explicit total, if sent, otherwise the sum of Counts.
	Total float64
}

func (hs *HourStat) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	hourRaw, ok := fields[statsHourField]
	if !ok {
		return errors.New("missing hour field")
	}
	if err := json.Unmarshal(hourRaw, &hs.Hour); err != nil {
		return fmt.Errorf("hour field: %w", err)
	}

	hs.Counts = make(map[string]float64, len(fields))
	hasTotal := false
	for name, raw := range fields {
		if name == statsHourField {
			continue
		}
		var value float64
		if err := json.Unmarshal(raw, &value); err != nil {
			// non numeric fields are not recipe counts
			continue
		}
		if name == statsTotalField {
			hs.Total = value
			hasTotal = true
			continue
		}
		hs.Counts[name] = value
	}

	if !hasTotal {
		hs.Total = 0
		for _, v := range hs.Counts {
			hs.Total += v
		}
	}

	return nil
}

func (hs HourStat) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(hs.Counts)+2)
	for name, v := range hs.Counts {
		fields[name] = v
	}
	fields[statsHourField] = hs.Hour
	fields[statsTotalField] = hs.Total
	return json.Marshal(fields)
}

func (c *Client) ActionLogStats(ctx context.Context) ([]HourStat, error) {
	var stats []HourStat
	if err := c.do(ctx, call{
		op:     "action_log_stats",
		method: http.MethodGet,
		path:   "/action-logs/stats",
		out:    &stats,
	}); err != nil {
		return nil, err
	}
	return stats, nil
}
