package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidLead = errors.New("invalid notify_at")

// Lead is how long before the due date a reminder fires. It is stored as
// whole seconds and travels over JSON as a number of seconds. Strings such
// as "1h30m" and ISO-8601 "PT1H30M" / "P1D" are accepted on input.
type Lead time.Duration

func LeadOf(d time.Duration) *Lead {
	l := Lead(d.Truncate(time.Second))
	return &l
}

func (l Lead) Duration() time.Duration { return time.Duration(l) }

func (l Lead) Seconds() int64 { return int64(time.Duration(l) / time.Second) }

func (l Lead) String() string { return time.Duration(l).String() }

func (l Lead) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(l.Seconds(), 10)), nil
}

func (l *Lead) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var d time.Duration
	switch v := raw.(type) {
	case float64:
		parsed, err := secondsLead(v)
		if err != nil {
			return err
		}
		d = parsed
	case string:
		parsed, err := ParseLead(v)
		if err != nil {
			return err
		}
		d = parsed
	default:
		return fmt.Errorf("%w: %s", ErrInvalidLead, string(data))
	}
	if d < 0 {
		return fmt.Errorf("%w: negative", ErrInvalidLead)
	}
	*l = Lead(d.Truncate(time.Second))
	return nil
}

var isoDuration = regexp.MustCompile(`^P(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// ParseLead accepts Go duration strings, ISO-8601 durations (weeks, days,
// hours, minutes, seconds) and plain seconds.
func ParseLead(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidLead)
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return secondsLead(secs)
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	m := isoDuration.FindStringSubmatch(strings.ToUpper(s))
	if m == nil || s == "P" || strings.HasSuffix(strings.ToUpper(s), "T") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLead, s)
	}
	var d time.Duration
	units := []time.Duration{7 * 24 * time.Hour, 24 * time.Hour, time.Hour, time.Minute}
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil || n > math.MaxInt64/int64(unit) {
			return 0, fmt.Errorf("%w: %q out of range", ErrInvalidLead, s)
		}
		if d, err = addLead(d, time.Duration(n)*unit); err != nil {
			return 0, fmt.Errorf("%w: %q out of range", ErrInvalidLead, s)
		}
	}
	if m[5] != "" {
		secs, err := strconv.ParseFloat(m[5], 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidLead, s)
		}
		part, err := secondsLead(secs)
		if err != nil {
			return 0, err
		}
		if d, err = addLead(d, part); err != nil {
			return 0, fmt.Errorf("%w: %q out of range", ErrInvalidLead, s)
		}
	}
	return d, nil
}

// maxLeadSeconds is the largest lead, in seconds, a time.Duration can hold.
const maxLeadSeconds = float64(math.MaxInt64) / float64(time.Second)

func secondsLead(secs float64) (time.Duration, error) {
	if math.IsNaN(secs) || math.Abs(secs) >= maxLeadSeconds {
		return 0, fmt.Errorf("%w: %v seconds out of range", ErrInvalidLead, secs)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// addLead sums two non-negative parts, failing instead of wrapping.
func addLead(a, b time.Duration) (time.Duration, error) {
	if a > math.MaxInt64-b {
		return 0, ErrInvalidLead
	}
	return a + b, nil
}

func (Lead) GormDataType() string { return "bigint" }

// Value implements driver.Valuer
func (l Lead) Value() (driver.Value, error) {
	return l.Seconds(), nil
}

// Scan implements sql.Scanner
func (l *Lead) Scan(value interface{}) error {
	var secs int64
	switch v := value.(type) {
	case nil:
		*l = 0
		return nil
	case int64:
		secs = v
	case int32:
		secs = int64(v)
	case float64:
		secs = int64(v)
	case []byte:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return err
		}
		secs = n
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		secs = n
	default:
		return fmt.Errorf("cannot scan %T into Lead", value)
	}
	*l = Lead(time.Duration(secs) * time.Second)
	return nil
}
