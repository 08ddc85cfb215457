// Package expense implements the fixed expense policy: upserts per category,
// period listings and period summaries.
package expense

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/salonspa/backend/internal/models"
	"github.com/salonspa/backend/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

// Service reads and writes fixed expenses.
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

// NewService returns a Service using db.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// WithClock replaces the clock used for default periods.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Now returns the current time of the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}

// Result is the outcome of an upsert.
type Result struct {
	Created  bool                  // false if an existing row was updated in place
	Expenses []models.FixedExpense // rows written
}

// Upsert validates the input and applies it.
func (s *Service) Upsert(ctx context.Context, in Input) (Result, error) {
	cmd, err := in.Parse(s.now())
	if err != nil {
		return Result{}, err
	}

	return s.Apply(ctx, cmd)
}

// Apply writes a validated command.
func (s *Service) Apply(ctx context.Context, cmd Command) (Result, error) {
	if err := cmd.Period.Validate(); err != nil {
		return Result{}, err
	}

	var result Result
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error

		switch p := cmd.Payload.(type) {
		case ServiceLines:
			result, err = replaceServiceLines(tx, cmd.Period, p)
		case Miscellaneous:
			result, err = appendMiscellaneous(tx, cmd.Period, p)
		case Fixed:
			result, err = upsertFixed(tx, cmd.Period, p)
		default:
			err = errCategory
		}

		return err
	})
	if err != nil {
		return Result{}, err
	}

	log.Debug().
		Str("period", cmd.Period.String()).
		Str("category", string(cmd.Payload.Category())).
		Bool("created", result.Created).
		Int("rows", len(result.Expenses)).
		Msg("expense upsert")

	return result, nil
}

// replaceServiceLines deletes all Servicios rows of the period and recreates them.
//
// Runs inside the caller's transaction: a failure leaves the previous rows in place.
func replaceServiceLines(tx *gorm.DB, period types.Period, p ServiceLines) (Result, error) {
	err := tx.
		Where(&models.FixedExpense{Category: models.CategoryServices, Month: period.Month, Year: period.Year}).
		Delete(&models.FixedExpense{}).Error
	if err != nil {
		return Result{}, err
	}

	rows := make([]models.FixedExpense, 0, len(p.Lines))
	for _, line := range p.Lines {
		rows = append(rows, models.FixedExpense{
			Category:    models.CategoryServices,
			Month:       period.Month,
			Year:        period.Year,
			Subcategory: line.Subcategory,
			Note:        line.Note,
			Amount:      line.Amount,
		})
	}

	if err := tx.Create(&rows).Error; err != nil {
		return Result{}, err
	}

	return Result{Created: true, Expenses: rows}, nil
}

func appendMiscellaneous(tx *gorm.DB, period types.Period, p Miscellaneous) (Result, error) {
	row := models.FixedExpense{
		Category: models.CategoryOther,
		Month:    period.Month,
		Year:     period.Year,
		Note:     p.Note,
		Amount:   p.Amount,
	}

	if err := tx.Create(&row).Error; err != nil {
		return Result{}, err
	}

	return Result{Created: true, Expenses: []models.FixedExpense{row}}, nil
}

// upsertFixed updates the oldest row of the category and period or creates one.
func upsertFixed(tx *gorm.DB, period types.Period, p Fixed) (Result, error) {
	switch p.Kind {
	case models.CategorySalaries, models.CategoryRent, models.CategoryAdministrative:
	default:
		return Result{}, errCategory
	}

	var existing []models.FixedExpense
	err := tx.
		Where(&models.FixedExpense{Category: p.Kind, Month: period.Month, Year: period.Year}).
		Order("id ASC").
		Limit(1).
		Find(&existing).Error
	if err != nil {
		return Result{}, err
	}

	if len(existing) == 1 {
		row := existing[0]
		row.Amount = p.Amount
		row.Note = p.Note
		row.Subcategory = ""

		if err := tx.Save(&row).Error; err != nil {
			return Result{}, err
		}
		return Result{Created: false, Expenses: []models.FixedExpense{row}}, nil
	}

	row := models.FixedExpense{
		Category: p.Kind,
		Month:    period.Month,
		Year:     period.Year,
		Note:     p.Note,
		Amount:   p.Amount,
	}
	if err := tx.Create(&row).Error; err != nil {
		return Result{}, err
	}

	return Result{Created: true, Expenses: []models.FixedExpense{row}}, nil
}

// List returns all expenses of the period ordered by category, subcategory and id.
func (s *Service) List(ctx context.Context, period types.Period) ([]models.FixedExpense, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	expenses := make([]models.FixedExpense, 0)
	err := s.db.WithContext(ctx).
		Where(&models.FixedExpense{Month: period.Month, Year: period.Year}).
		Order("category ASC, subcategory ASC, id ASC").
		Find(&expenses).Error
	if err != nil {
		return nil, err
	}

	return expenses, nil
}

// Delete removes a single expense.
func (s *Service) Delete(ctx context.Context, id uint) error {
	var e models.FixedExpense
	err := s.db.WithContext(ctx).First(&e, id).Error
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Delete(&e).Error
}

// Summary is the total of a period split by category.
type Summary struct {
	TotalPeriod decimal.Decimal `json:"totalPeriod" example:"1500"`
	PerCategory []CategoryTotal `json:"porCategoria"`
}

// CategoryTotal is the total of one category.
//
// Detail is only set for Servicios (per subcategory) and Otros (per note).
type CategoryTotal struct {
	Category models.ExpenseCategory `json:"categoria" example:"Servicios"`
	Total    decimal.Decimal        `json:"total" example:"1500"`
	Detail   []DetailTotal          `json:"detalle,omitempty"`
}

// DetailTotal groups Servicios rows by subcategory or Otros rows by note.
type DetailTotal struct {
	Subcategory string          `json:"subcategoria,omitempty" example:"Luz"`
	Note        string          `json:"nota,omitempty"`
	Total       decimal.Decimal `json:"total" example:"1000"`
}

// Summarize totals the period.
//
// Categories are ordered ascending, detail groups in the order they were first
// written. Grouping ignores case and whitespace, the first label seen is kept.
func (s *Service) Summarize(ctx context.Context, period types.Period) (Summary, error) {
	if err := period.Validate(); err != nil {
		return Summary{}, err
	}

	var expenses []models.FixedExpense
	err := s.db.WithContext(ctx).
		Where(&models.FixedExpense{Month: period.Month, Year: period.Year}).
		Order("id ASC").
		Find(&expenses).Error
	if err != nil {
		return Summary{}, err
	}

	return summarize(expenses), nil
}

var fold = cases.Fold()

// groupKey normalizes labels for grouping.
func groupKey(s string) string {
	return fold.String(strings.Join(strings.Fields(s), " "))
}

func summarize(expenses []models.FixedExpense) Summary {
	summary := Summary{
		TotalPeriod: decimal.Zero,
		PerCategory: make([]CategoryTotal, 0),
	}

	totals := make(map[models.ExpenseCategory]*CategoryTotal)
	details := make(map[models.ExpenseCategory]map[string]int)

	for _, e := range expenses {
		summary.TotalPeriod = summary.TotalPeriod.Add(e.Amount)

		ct, ok := totals[e.Category]
		if !ok {
			ct = &CategoryTotal{Category: e.Category, Total: decimal.Zero}
			totals[e.Category] = ct
			details[e.Category] = make(map[string]int)
		}
		ct.Total = ct.Total.Add(e.Amount)

		var label DetailTotal
		switch e.Category {
		case models.CategoryServices:
			label = DetailTotal{Subcategory: e.Subcategory}
		case models.CategoryOther:
			label = DetailTotal{Note: e.Note}
		default:
			continue
		}

		key := groupKey(label.Subcategory + label.Note)
		idx, seen := details[e.Category][key]
		if !seen {
			label.Total = decimal.Zero
			ct.Detail = append(ct.Detail, label)
			idx = len(ct.Detail) - 1
			details[e.Category][key] = idx
		}
		ct.Detail[idx].Total = ct.Detail[idx].Total.Add(e.Amount)
	}

	for _, c := range models.ExpenseCategories {
		if ct, ok := totals[c]; ok {
			summary.PerCategory = append(summary.PerCategory, *ct)
		}
	}

	return summary
}
