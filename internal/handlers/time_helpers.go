package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/timezone"
)

const dateLayout = "2006-01-02"

// parseQueryTime accepts an RFC3339 instant or a plain date, read in the
// default timezone. A plain date used as an upper bound covers the whole day.
func parseQueryTime(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}

	d, err := time.ParseInLocation(dateLayout, raw, timezone.Location(timezone.Default()))
	if err != nil {
		return nil, httperr.Validation("invalid_date", "expected RFC3339 or YYYY-MM-DD: "+raw)
	}
	if endOfDay {
		d = d.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &d, nil
}

func queryRange(c *gin.Context) (from, to *time.Time, err error) {
	if from, err = parseQueryTime(c.Query("from"), false); err != nil {
		return nil, nil, err
	}
	if to, err = parseQueryTime(c.Query("to"), true); err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, httperr.Validation("invalid_window", "to is before from")
	}
	return from, to, nil
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func queryUint(c *gin.Context, name string) (uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, httperr.Validation("invalid_"+name, name+" must be a positive integer")
	}
	return uint(v), nil
}
