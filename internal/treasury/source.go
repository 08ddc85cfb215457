package treasury

import (
	"context"
	"database/sql"
	"time"

	"github.com/salonspa/backend/internal/models"
	"github.com/salonspa/backend/internal/types"
	"gorm.io/gorm"
)

// Dataset holds the rows one report reads. All slices are ordered by id.
type Dataset struct {
	// Appointments carry their Client, Employee, Service and
	// ProductLines (with Product). Missing references are nil.
	Appointments []models.Appointment
	Entries      []models.TreasuryEntry
	Expenses     []models.FixedExpense
}

// Filter restricts the rows loaded. A nil Period loads all time.
type Filter struct {
	Period *types.Period
}

// Source loads a consistent Dataset.
type Source interface {
	Load(ctx context.Context, filter Filter) (Dataset, error)
}

// GormSource is a Source reading from the database.
type GormSource struct {
	db  *gorm.DB
	loc *time.Location
}

// NewGormSource returns a GormSource. Period boundaries are computed in loc.
func NewGormSource(db *gorm.DB, loc *time.Location) *GormSource {
	if loc == nil {
		loc = time.UTC
	}

	return &GormSource{db: db, loc: loc}
}

// Load reads all rows inside a single transaction.
func (s *GormSource) Load(ctx context.Context, filter Filter) (Dataset, error) {
	d := Dataset{
		Appointments: make([]models.Appointment, 0),
		Entries:      make([]models.TreasuryEntry, 0),
		Expenses:     make([]models.FixedExpense, 0),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		appointments := tx.
			Preload("Client").
			Preload("Employee").
			Preload("Service").
			Preload("ProductLines.Product").
			Order("id ASC")

		entries := tx.Order("id ASC")
		expenses := tx.Order("id ASC")

		if p := filter.Period; p != nil {
			start, end := p.Start(s.loc).UTC(), p.End(s.loc).UTC()

			appointments = appointments.Where("date_time >= ? AND date_time < ?", start, end)
			entries = entries.Where("date >= ? AND date < ?", start, end)
			expenses = expenses.Where(&models.FixedExpense{Month: p.Month, Year: p.Year})
		}

		if err := appointments.Find(&d.Appointments).Error; err != nil {
			return err
		}

		if err := entries.Find(&d.Entries).Error; err != nil {
			return err
		}

		return expenses.Find(&d.Expenses).Error
	}, s.txOptions())
	if err != nil {
		return Dataset{}, err
	}

	return d, nil
}

// txOptions returns the options for report transactions. SQLite runs
// transactions serialized already and rejects explicit isolation levels.
func (s *GormSource) txOptions() *sql.TxOptions {
	if s.db.Dialector.Name() == "postgres" {
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}

	return nil
}
