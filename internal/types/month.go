// Package types implements special types for Walleta.
package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidMonth = errors.New("could not parse the month, use the YYYY-MM format")

// Month is a month in a specific year.
//
// It is persisted and serialized as its YYYY-MM key.
type Month time.Time

// NewMonth returns a new Month.
func NewMonth(year int, month time.Month) Month {
	return Month(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

// MonthOf returns the Month in which a time occurs in UTC.
func MonthOf(t time.Time) Month {
	year, month, _ := t.In(time.UTC).Date()
	return NewMonth(year, month)
}

// ParseMonth parses a "YYYY-MM" string and returns the Month value it represents
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %s", ErrInvalidMonth, s)
	}

	return MonthOf(t), nil
}

// String returns the month formatted as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", time.Time(m).Year(), time.Time(m).Month())
}

// Includes reports whether a date string belongs to the month.
//
// Membership is decided on the text only: a date belongs to the month
// if its first seven characters equal the month key. Strings that are
// not valid dates but share the prefix are included.
func (m Month) Includes(date string) bool {
	return strings.HasPrefix(date, m.String())
}

// MarshalJSON implements the json.Marshaler interface.
func (m Month) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
// The month is expected to be a string in the YYYY-MM format.
func (m *Month) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		return nil
	}

	month, err := ParseMonth(value)
	if err != nil {
		return err
	}

	*m = month
	return nil
}

// UnmarshalParam parses query and path parameters for gin.
func (m *Month) UnmarshalParam(p string) error {
	month, err := ParseMonth(p)
	if err != nil {
		return err
	}

	*m = month
	return nil
}

// Scan writes the value from the database.
func (m *Month) Scan(value any) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into a month", value)
	}

	month, err := ParseMonth(s)
	if err != nil {
		return err
	}

	*m = month
	return nil
}

// Value returns the value for the SQL driver to write to the database.
func (m Month) Value() (driver.Value, error) {
	return m.String(), nil
}

// GormDataType defines the data type used by gorm the type.
func (Month) GormDataType() string {
	return "string"
}

// IsZero reports if the month is the zero value.
func (m Month) IsZero() bool {
	return time.Time(m).IsZero()
}

// AddDate adds a specified amount of years and months.
func (m Month) AddDate(years, months int) Month {
	return Month(time.Time(m).AddDate(years, months, 0))
}

// Equal reports whether m and n represent the same month.
func (m Month) Equal(n Month) bool {
	return time.Time(m).Equal(time.Time(n))
}
