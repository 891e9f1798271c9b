// Package jsontime provides a minute-granularity timestamp that travels as
// "HH:mm dd/MM/yyyy" in JSON and as a plain timestamp column in SQL.
package jsontime

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Layout is the wire format, e.g. "10:00 01/03/2024".
const Layout = "15:04 02/01/2006"

type Minute struct {
	time.Time
}

// New truncates t to the minute and normalises it to UTC.
func New(t time.Time) Minute {
	return Minute{Time: t.UTC().Truncate(time.Minute)}
}

// Parse accepts Layout first and RFC 3339 as a fallback.
func Parse(s string) (Minute, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(Layout, s, time.UTC); err == nil {
		return New(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Minute{}, fmt.Errorf("parsing time %q: expected %q or RFC 3339", s, Layout)
	}
	return New(t), nil
}

// MustParse is Parse for literals in tests and fixtures.
func MustParse(s string) Minute {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Minute) Before(o Minute) bool { return m.Time.Before(o.Time) }

func (m Minute) Equal(o Minute) bool { return m.Time.Equal(o.Time) }

func (m Minute) String() string { return m.Time.Format(Layout) }

func (m Minute) MarshalJSON() ([]byte, error) {
	if m.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(m.Time.Format(Layout))
}

func (m *Minute) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Minute{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("time must be a string: %w", err)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer.
func (m Minute) Value() (driver.Value, error) {
	if m.IsZero() {
		return nil, nil
	}
	return m.Time, nil
}

// Scan implements sql.Scanner. MySQL needs parseTime=true in the DSN to
// hand back time.Time; the string forms cover drivers that do not.
func (m *Minute) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = Minute{}
	case time.Time:
		*m = New(v)
	case []byte:
		return m.scanString(string(v))
	case string:
		return m.scanString(v)
	default:
		return fmt.Errorf("jsontime: cannot scan %T", src)
	}
	return nil
}

func (m *Minute) scanString(s string) error {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			*m = New(t)
			return nil
		}
	}
	return fmt.Errorf("jsontime: cannot parse %q", s)
}

// GormDataType maps the column to the dialect's native timestamp type.
func (Minute) GormDataType() string {
	return "time"
}
