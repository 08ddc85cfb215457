// Package types implements special types for the salon backend.
package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/salonspa/backend/internal/models"
	"github.com/shopspring/decimal"
)

const (
	MinYear = 2020
	MaxYear = 3000
)

// Period is a calendar month of a specific year.
type Period struct {
	Month int `json:"mes" example:"5"`
	Year  int `json:"anio" example:"2024"`
}

// NewPeriod returns a new Period.
func NewPeriod(year int, month time.Month) Period {
	return Period{Month: int(month), Year: year}
}

// PeriodOf returns the Period in which t occurs in t's location.
func PeriodOf(t time.Time) Period {
	return NewPeriod(t.Year(), t.Month())
}

// String returns the period formatted as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Validate checks that the month and year are in range.
func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return models.NewValidationError("Mes inválido: debe ser un número entero entre 1 y 12")
	}

	if p.Year < MinYear || p.Year > MaxYear {
		return models.NewValidationError("Año inválido: debe ser un número entero entre %d y %d", MinYear, MaxYear)
	}

	return nil
}

// Start returns the first instant of the period in loc.
func (p Period) Start(loc *time.Location) time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, loc)
}

// End returns the first instant after the period in loc.
func (p Period) End(loc *time.Location) time.Time {
	return p.Start(loc).AddDate(0, 1, 0)
}

// ParsePeriod parses month and year strings, e.g. from the query string.
//
// Empty values default to the month and year of now.
func ParsePeriod(month, year string, now time.Time) (Period, error) {
	p := PeriodOf(now)

	if strings.TrimSpace(month) != "" {
		m, ok := wholeNumber(month)
		if !ok {
			return Period{}, models.NewValidationError("Mes inválido: debe ser un número entero entre 1 y 12")
		}
		p.Month = m
	}

	if strings.TrimSpace(year) != "" {
		y, ok := wholeNumber(year)
		if !ok {
			return Period{}, models.NewValidationError("Año inválido: debe ser un número entero entre %d y %d", MinYear, MaxYear)
		}
		p.Year = y
	}

	if err := p.Validate(); err != nil {
		return Period{}, err
	}

	return p, nil
}

var maxWhole = decimal.NewFromInt(100000)

// wholeNumber parses integers and whole-valued numbers such as "5.0" or "5e0".
func wholeNumber(s string) (int, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsInteger() || d.Abs().GreaterThan(maxWhole) {
		return 0, false
	}

	return int(d.IntPart()), true
}
