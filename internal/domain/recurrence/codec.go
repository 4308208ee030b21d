package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
)

var dayCodes = map[time.Weekday]string{
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
	time.Sunday:    "SU",
}

var codeDays = map[string]time.Weekday{
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
	"SU": time.Sunday,
}

// Serialize encodes a rule as
// DTSTART=YYYYMMDDTHHMMSS;UNTIL=YYYYMMDDT235900;FREQ=WEEKLY;BYDAY=..;INTERVAL=n.
func Serialize(r Rule) string {
	r = r.Normalize()

	codes := make([]string, 0, len(r.Days))
	for _, d := range r.Days {
		codes = append(codes, dayCodes[d])
	}

	return fmt.Sprintf(
		"DTSTART=%04d%02d%02dT%02d%02d00;UNTIL=%04d%02d%02dT235900;FREQ=WEEKLY;BYDAY=%s;INTERVAL=%d",
		r.StartDate.Year, int(r.StartDate.Month), r.StartDate.Day,
		r.StartTime.Hour, r.StartTime.Minute,
		r.EndDate.Year, int(r.EndDate.Month), r.EndDate.Day,
		strings.Join(codes, ","),
		r.Interval,
	)
}

// Parse is the strict decoder used on the write path.
func Parse(s string) (Rule, error) {
	d := Describe(s)
	if !d.Valid {
		return Rule{}, httperr.Validation("invalid_recurrence_rule", "recurrence rule cannot be parsed")
	}
	if !d.HasEnd {
		return Rule{}, httperr.Validation("invalid_recurrence_rule", "recurrence rule requires UNTIL")
	}
	r := d.Rule()
	if err := r.Validate(); err != nil {
		return Rule{}, err
	}
	return r, nil
}

// Description is what can be recovered from a stored rule string for display.
// Rule strings may come from older, looser encoders, so decoding never fails:
// anything unreadable produces the zero value, whose Valid is false.
type Description struct {
	Valid     bool
	Days      []time.Weekday
	StartDate civil.Date
	StartTime civil.Time
	EndDate   civil.Date
	HasEnd    bool
	Interval  int
}

// Invalid is the sentinel returned for malformed rule strings.
var Invalid = Description{}

// Describe decodes a serialized rule. It is total.
func Describe(s string) Description {
	var (
		d        = Description{Valid: true, Interval: 1}
		seenDays bool
		seenFrom bool
	)

	for _, part := range strings.Split(strings.TrimSpace(s), ";") {
		key, value, found := strings.Cut(part, "=")
		key = strings.ToUpper(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "BYDAY":
			days, ok := decodeDays(value)
			if !found || !ok {
				return Invalid
			}
			d.Days = days
			seenDays = true
		case "DTSTART":
			date, clock, ok := decodeStamp(value)
			if !found || !ok {
				return Invalid
			}
			d.StartDate, d.StartTime = date, clock
			seenFrom = true
		case "UNTIL":
			date, _, ok := decodeStamp(value)
			if !found || !ok {
				return Invalid
			}
			d.EndDate = date
			d.HasEnd = true
		case "FREQ":
			if !found || !strings.EqualFold(value, "WEEKLY") {
				return Invalid
			}
		case "INTERVAL":
			n, err := strconv.Atoi(value)
			if !found || err != nil || n < 1 {
				return Invalid
			}
			d.Interval = n
		}
	}

	if !seenDays || !seenFrom {
		return Invalid
	}
	return d
}

// Rule converts a valid description back to a rule. An open-ended
// description yields a zero EndDate.
func (d Description) Rule() Rule {
	return Rule{
		Days:      d.Days,
		StartDate: d.StartDate,
		EndDate:   d.EndDate,
		StartTime: d.StartTime,
		Interval:  d.Interval,
	}
}

// Display holds the human readable rendering of a Description.
type Display struct {
	Days      string `json:"days"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	StartTime string `json:"start_time"`
}

func (d Description) Display() Display {
	if !d.Valid {
		return Display{Days: "Invalid RRule", StartDate: "-", EndDate: "-", StartTime: "-"}
	}

	names := make([]string, 0, len(d.Days))
	for _, day := range d.Days {
		names = append(names, day.String()[:3])
	}

	out := Display{
		Days:      strings.Join(names, ", "),
		StartDate: formatDate(d.StartDate),
		EndDate:   "Ongoing",
		StartTime: time.Date(2000, 1, 1, d.StartTime.Hour, d.StartTime.Minute, 0, 0, time.UTC).Format("03:04 PM"),
	}
	if d.HasEnd {
		out.EndDate = formatDate(d.EndDate)
	}
	return out
}

func formatDate(d civil.Date) string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, int(d.Month), d.Year)
}

func decodeDays(value string) ([]time.Weekday, bool) {
	if value == "" {
		return nil, false
	}
	var days []time.Weekday
	for _, code := range strings.Split(value, ",") {
		day, ok := codeDays[strings.ToUpper(strings.TrimSpace(code))]
		if !ok {
			return nil, false
		}
		days = append(days, day)
	}
	return days, true
}

// decodeStamp reads YYYYMMDD[THHMM[SS]][Z]. Only the date and the hour and
// minute are kept.
func decodeStamp(value string) (civil.Date, civil.Time, bool) {
	value = strings.TrimSuffix(value, "Z")
	if len(value) < 8 {
		return civil.Date{}, civil.Time{}, false
	}

	date, err := civil.ParseDate(value[0:4] + "-" + value[4:6] + "-" + value[6:8])
	if err != nil {
		return civil.Date{}, civil.Time{}, false
	}

	rest := value[8:]
	if rest == "" {
		return date, civil.Time{}, true
	}
	if len(rest) < 5 || rest[0] != 'T' {
		return civil.Date{}, civil.Time{}, false
	}

	hour, err1 := strconv.Atoi(rest[1:3])
	minute, err2 := strconv.Atoi(rest[3:5])
	clock := civil.Time{Hour: hour, Minute: minute}
	if err1 != nil || err2 != nil || !clock.IsValid() {
		return civil.Date{}, civil.Time{}, false
	}
	return date, clock, true
}
