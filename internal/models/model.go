package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Money is rendered as JSON numbers, clients do arithmetic on it
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultModel is the base model for all resources.
type DefaultModel struct {
	ID        uint      `json:"id" gorm:"primaryKey" example:"42"`               // ID of the resource
	CreatedAt time.Time `json:"createdAt" example:"2024-04-02T19:28:44.491514Z"` // Time the resource was created
	UpdatedAt time.Time `json:"updatedAt" example:"2024-04-17T20:14:01.048145Z"` // Last time the resource was updated
}

// AfterFind updates the timestamps to use UTC as
// timezone, not +0000.
//
// We already store them in UTC, but reading them from
// the database returns them as +0000.
func (m *DefaultModel) AfterFind(_ *gorm.DB) (err error) {
	m.CreatedAt = m.CreatedAt.In(time.UTC)
	m.UpdatedAt = m.UpdatedAt.In(time.UTC)
	return nil
}

// Limits of the DECIMAL(20,8) money columns. SQLite stores numeric text as
// REAL when the first 15 significant digits survive, so amounts are also
// limited to 15 significant digits.
const (
	AmountScale         = 8
	AmountIntegerDigits = 12
	AmountSignificant   = 15
)

var maxAmount = decimal.New(1, AmountIntegerDigits)

// CheckAmount reports if d can be stored in a money column without losing
// precision.
func CheckAmount(d decimal.Decimal) error {
	if !d.Equal(d.Truncate(AmountScale)) {
		return fmt.Errorf("admite como máximo %d decimales", AmountScale)
	}

	if d.Abs().GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("admite como máximo %d dígitos enteros", AmountIntegerDigits)
	}

	if significantDigits(d) > AmountSignificant {
		return fmt.Errorf("admite como máximo %d dígitos significativos", AmountSignificant)
	}

	return nil
}

func significantDigits(d decimal.Decimal) int {
	digits := strings.Trim(strings.Replace(d.Abs().String(), ".", "", 1), "0")
	return len(digits)
}
