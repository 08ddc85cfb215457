package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

// ExpenseCategory is the category of a fixed expense.
type ExpenseCategory string

const (
	CategoryServices       ExpenseCategory = "Servicios"
	CategorySalaries       ExpenseCategory = "Sueldos"
	CategoryRent           ExpenseCategory = "Alquiler"
	CategoryAdministrative ExpenseCategory = "Administrativo"
	CategoryOther          ExpenseCategory = "Otros"
)

// ExpenseCategories lists all categories in ascending order.
var ExpenseCategories = []ExpenseCategory{
	CategoryAdministrative,
	CategoryRent,
	CategoryOther,
	CategoryServices,
	CategorySalaries,
}

var fold = cases.Fold()

// ParseExpenseCategory returns the category matching s, ignoring case and surrounding whitespace.
func ParseExpenseCategory(s string) (ExpenseCategory, bool) {
	key := fold.String(strings.TrimSpace(s))
	for _, c := range ExpenseCategories {
		if fold.String(string(c)) == key {
			return c, true
		}
	}
	return "", false
}

// FixedExpense is an operating cost for a calendar month.
//
// Sueldos, Alquiler and Administrativo have one row per period, Servicios one row
// per subcategory and Otros any number of rows.
type FixedExpense struct {
	DefaultModel
	Category    ExpenseCategory `json:"categoria" gorm:"not null;index:idx_fixed_expense_period,priority:3" example:"Servicios"`
	Month       int             `json:"mes" gorm:"not null;index:idx_fixed_expense_period,priority:2" example:"5"`
	Year        int             `json:"anio" gorm:"not null;index:idx_fixed_expense_period,priority:1" example:"2024"`
	Subcategory string          `json:"subcategoria,omitempty" example:"Luz"` // Only used for Servicios
	Note        string          `json:"nota,omitempty" example:"Reparación de secador"`
	Amount      decimal.Decimal `json:"monto" gorm:"type:DECIMAL(20,8)" example:"1000"`
}

func (e *FixedExpense) BeforeSave(_ *gorm.DB) error {
	e.Subcategory = strings.TrimSpace(e.Subcategory)
	e.Note = strings.TrimSpace(e.Note)
	return nil
}
