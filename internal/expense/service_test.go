package expense_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/salonspa/backend/internal/expense"
	"github.com/salonspa/backend/internal/models"
	"github.com/salonspa/backend/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var may2024 = types.Period{Month: 5, Year: 2024}

func (suite *TestSuiteStandard) upsert(in expense.Input) expense.Result {
	r, err := suite.service.Upsert(context.Background(), in)
	suite.Require().NoError(err)
	return r
}

func (suite *TestSuiteStandard) TestFixedCategoriesUpdateInPlace() {
	for _, category := range []string{"Sueldos", "Alquiler", "Administrativo"} {
		suite.Run(category, func() {
			first := suite.upsert(expense.Input{Category: category, Month: raw("5"), Year: raw("2024"), Amount: raw("100"), Note: "primera"})
			suite.Assert().True(first.Created)

			second := suite.upsert(expense.Input{Category: category, Month: raw("5"), Year: raw("2024"), Amount: raw("250")})
			suite.Assert().False(second.Created)
			suite.Assert().Equal(first.Expenses[0].ID, second.Expenses[0].ID)

			c, _ := models.ParseExpenseCategory(category)
			var rows []models.FixedExpense
			suite.Require().NoError(suite.db.Where(&models.FixedExpense{Category: c, Month: 5, Year: 2024}).Find(&rows).Error)
			suite.Require().Len(rows, 1)
			suite.Assert().True(decimal.NewFromInt(250).Equal(rows[0].Amount))
			suite.Assert().Equal("", rows[0].Note, "the second write's note replaces the first")
		})
	}
}

func (suite *TestSuiteStandard) TestFixedCategoryOldestRowWins() {
	// Legacy data may contain duplicates
	for _, amount := range []int64{1, 2} {
		suite.Require().NoError(suite.db.Create(&models.FixedExpense{Category: models.CategoryRent, Month: 5, Year: 2024, Amount: decimal.NewFromInt(amount)}).Error)
	}

	r := suite.upsert(expense.Input{Category: "Alquiler", Month: raw("5"), Year: raw("2024"), Amount: raw("99")})

	var oldest models.FixedExpense
	suite.Require().NoError(suite.db.Order("id ASC").First(&oldest).Error)
	suite.Assert().Equal(oldest.ID, r.Expenses[0].ID)
	suite.Assert().True(decimal.NewFromInt(99).Equal(oldest.Amount))
}

func (suite *TestSuiteStandard) TestFixedCategoryPeriodsAreIndependent() {
	_ = suite.upsert(expense.Input{Category: "Sueldos", Month: raw("5"), Year: raw("2024"), Amount: raw("100")})
	r := suite.upsert(expense.Input{Category: "Sueldos", Month: raw("6"), Year: raw("2024"), Amount: raw("100")})

	suite.Assert().True(r.Created)
	suite.Assert().Equal(int64(2), suite.countRows())
}

func (suite *TestSuiteStandard) TestServiciosReplace() {
	items := func(subcategories ...string) []expense.ItemInput {
		var out []expense.ItemInput
		for i, s := range subcategories {
			out = append(out, expense.ItemInput{Subcategory: s, Amount: raw(fmt.Sprint(100 * (i + 1)))})
		}
		return out
	}

	_ = suite.upsert(expense.Input{Category: "Servicios", Month: raw("5"), Year: raw("2024"), Items: items("Luz", "Agua", "Gas")})
	_ = suite.upsert(expense.Input{Category: "Servicios", Month: raw("6"), Year: raw("2024"), Items: items("Internet")})
	r := suite.upsert(expense.Input{Category: "Servicios", Month: raw("5"), Year: raw("2024"), Items: items("Luz", "Agua")})
	suite.Assert().True(r.Created)

	list, err := suite.service.List(context.Background(), may2024)
	suite.Require().NoError(err)
	suite.Require().Len(list, 2)

	// Same payload again yields the same content
	_ = suite.upsert(expense.Input{Category: "Servicios", Month: raw("5"), Year: raw("2024"), Items: items("Luz", "Agua")})
	again, err := suite.service.List(context.Background(), may2024)
	suite.Require().NoError(err)
	suite.Require().Len(again, 2)
	for i := range list {
		suite.Assert().Equal(list[i].Subcategory, again[i].Subcategory)
		suite.Assert().True(list[i].Amount.Equal(again[i].Amount))
	}

	june, err := suite.service.List(context.Background(), types.Period{Month: 6, Year: 2024})
	suite.Require().NoError(err)
	suite.Assert().Len(june, 1, "other periods are untouched")
}

func (suite *TestSuiteStandard) TestServiciosReplaceIsAtomic() {
	_ = suite.upsert(expense.Input{Category: "Servicios", Month: raw("5"), Year: raw("2024"), Items: []expense.ItemInput{
		{Subcategory: "Luz", Amount: raw("1000")},
	}})

	// Make every insert fail after the delete has run
	suite.Require().NoError(suite.db.Callback().Create().Before("gorm:create").Register("test:fail_create", func(db *gorm.DB) {
		if db.Statement.Table == "fixed_expenses" {
			_ = db.AddError(errors.New("disk full"))
		}
	}))

	_, err := suite.service.Apply(context.Background(), expense.Command{
		Period:  may2024,
		Payload: expense.ServiceLines{Lines: []expense.ServiceLine{{Subcategory: "Agua", Amount: decimal.NewFromInt(5)}}},
	})
	suite.Require().Error(err)

	suite.Require().NoError(suite.db.Callback().Create().Remove("test:fail_create"))

	list, err := suite.service.List(context.Background(), may2024)
	suite.Require().NoError(err)
	suite.Require().Len(list, 1, "the delete must be rolled back")
	suite.Assert().Equal("Luz", list[0].Subcategory)
}

func (suite *TestSuiteStandard) TestOtrosAppends() {
	_ = suite.upsert(expense.Input{Category: "Otros", Month: raw("5"), Year: raw("2024"), Note: "Fumigación", Amount: raw("300")})
	_ = suite.upsert(expense.Input{Category: "Otros", Month: raw("5"), Year: raw("2024"), Note: "Fumigación", Amount: raw("200")})
	_ = suite.upsert(expense.Input{Category: "Otros", Month: raw("5"), Year: raw("2024"), Note: "Pintura", Amount: raw("50")})

	suite.Assert().Equal(int64(3), suite.countRows())

	s, err := suite.service.Summarize(context.Background(), may2024)
	suite.Require().NoError(err)
	suite.Require().Len(s.PerCategory, 1)
	suite.Assert().Equal([]string{"Fumigación=500", "Pintura=50"}, labels(s.PerCategory[0].Detail))
}

func (suite *TestSuiteStandard) TestRejectedInputsWriteNothing() {
	inputs := []expense.Input{
		{Category: "Sueldos", Amount: raw("0")},
		{Category: "Sueldos", Amount: raw("-5")},
		{Category: "Sueldos", Amount: raw(`"abc"`)},
		{Category: "Sueldos", Month: raw("13"), Amount: raw("1")},
		{Category: "Sueldos", Month: raw("0"), Amount: raw("1")},
		{Category: "Sueldos", Year: raw("2019"), Amount: raw("1")},
		{Category: "Sueldos", Year: raw("3001"), Amount: raw("1")},
		{Category: "Servicios", Items: []expense.ItemInput{{Subcategory: "Luz", Amount: raw("1")}, {Subcategory: "Agua", Amount: raw("0")}}},
	}

	for _, in := range inputs {
		_, err := suite.service.Upsert(context.Background(), in)
		suite.Assert().ErrorIs(err, models.ErrValidation)
	}

	suite.Assert().Equal(int64(0), suite.countRows())
}

func (suite *TestSuiteStandard) TestListOrder() {
	_ = suite.upsert(expense.Input{Category: "Sueldos", Month: raw("5"), Year: raw("2024"), Amount: raw("10")})
	_ = suite.upsert(expense.Input{Category: "Servicios", Month: raw("5"), Year: raw("2024"), Items: []expense.ItemInput{
		{Subcategory: "Luz", Amount: raw("1")},
		{Subcategory: "Agua", Amount: raw("2")},
	}})
	_ = suite.upsert(expense.Input{Category: "Administrativo", Month: raw("5"), Year: raw("2024"), Amount: raw("10")})
	_ = suite.upsert(expense.Input{Category: "Otros", Month: raw("5"), Year: raw("2024"), Note: "b", Amount: raw("10")})

	list, err := suite.service.List(context.Background(), may2024)
	suite.Require().NoError(err)

	var got []string
	for _, e := range list {
		got = append(got, fmt.Sprintf("%s/%s", e.Category, e.Subcategory))
	}
	suite.Assert().Equal([]string{"Administrativo/", "Otros/", "Servicios/Agua", "Servicios/Luz", "Sueldos/"}, got)
}

func (suite *TestSuiteStandard) TestSummaryExample() {
	_ = suite.upsert(expense.Input{Category: "Servicios", Month: raw("5"), Year: raw("2024"), Items: []expense.ItemInput{
		{Subcategory: "Luz", Amount: raw("1000")},
		{Subcategory: "Agua", Amount: raw("500")},
	}})

	list, err := suite.service.List(context.Background(), may2024)
	suite.Require().NoError(err)
	suite.Require().Len(list, 2)

	s, err := suite.service.Summarize(context.Background(), may2024)
	suite.Require().NoError(err)

	j, err := json.Marshal(s)
	suite.Require().NoError(err)
	suite.Assert().JSONEq(`{
		"totalPeriod": 1500,
		"porCategoria": [
			{"categoria": "Servicios", "total": 1500, "detalle": [
				{"subcategoria": "Luz", "total": 1000},
				{"subcategoria": "Agua", "total": 500}
			]}
		]
	}`, string(j))
}

func (suite *TestSuiteStandard) TestSummaryGroupingKeepsFirstLabel() {
	for _, note := range []string{"Limpieza  Vidrios", " limpieza vidrios", "LIMPIEZA VIDRIOS "} {
		_ = suite.upsert(expense.Input{Category: "Otros", Month: raw("5"), Year: raw("2024"), Note: note, Amount: raw("10")})
	}
	_ = suite.upsert(expense.Input{Category: "Alquiler", Month: raw("5"), Year: raw("2024"), Amount: raw("70")})

	s, err := suite.service.Summarize(context.Background(), may2024)
	suite.Require().NoError(err)

	suite.Require().Len(s.PerCategory, 2)
	suite.Assert().Equal(models.CategoryRent, s.PerCategory[0].Category)
	suite.Assert().Nil(s.PerCategory[0].Detail, "only Servicios and Otros carry detail")

	other := s.PerCategory[1]
	suite.Require().Len(other.Detail, 1)
	suite.Assert().Equal("Limpieza  Vidrios", other.Detail[0].Note)
	suite.Assert().True(decimal.NewFromInt(30).Equal(other.Detail[0].Total))
	suite.Assert().True(decimal.NewFromInt(100).Equal(s.TotalPeriod))
}

func (suite *TestSuiteStandard) TestSummaryTotalMatchesList() {
	periods := []types.Period{may2024, {Month: 6, Year: 2024}, {Month: 1, Year: 2030}}

	_ = suite.upsert(expense.Input{Category: "Sueldos", Month: raw("5"), Year: raw("2024"), Amount: raw("123.45")})
	_ = suite.upsert(expense.Input{Category: "Otros", Month: raw("5"), Year: raw("2024"), Note: "x", Amount: raw("0.55")})
	_ = suite.upsert(expense.Input{Category: "Servicios", Month: raw("6"), Year: raw("2024"), Items: []expense.ItemInput{{Subcategory: "Luz", Amount: raw("7")}}})

	for _, p := range periods {
		list, err := suite.service.List(context.Background(), p)
		suite.Require().NoError(err)

		sum := decimal.Zero
		for _, e := range list {
			sum = sum.Add(e.Amount)
		}

		s, err := suite.service.Summarize(context.Background(), p)
		suite.Require().NoError(err)
		suite.Assert().True(sum.Equal(s.TotalPeriod), "period %s: %s != %s", p, sum, s.TotalPeriod)
	}

	empty, err := suite.service.Summarize(context.Background(), periods[2])
	suite.Require().NoError(err)
	suite.Assert().True(empty.TotalPeriod.IsZero())
	suite.Assert().NotNil(empty.PerCategory)
	suite.Assert().Len(empty.PerCategory, 0)
}

func (suite *TestSuiteStandard) TestDelete() {
	r := suite.upsert(expense.Input{Category: "Sueldos", Amount: raw("10")})

	suite.Require().NoError(suite.service.Delete(context.Background(), r.Expenses[0].ID))
	suite.Assert().Equal(int64(0), suite.countRows())

	err := suite.service.Delete(context.Background(), r.Expenses[0].ID)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestDatabaseClosed() {
	suite.CloseDB()

	_, err := suite.service.List(context.Background(), may2024)
	suite.Assert().ErrorIs(err, models.ErrGeneral)
}

func labels(details []expense.DetailTotal) []string {
	out := make([]string, 0, len(details))
	for _, d := range details {
		out = append(out, fmt.Sprintf("%s%s=%s", d.Subcategory, d.Note, d.Total))
	}
	return out
}

func (suite *TestSuiteStandard) TestAmountsAtColumnLimits() {
	for _, amount := range []string{"999999999999.999", "1234567.12345678", "0.00000001"} {
		suite.Run(amount, func() {
			r := suite.upsert(expense.Input{Category: "Otros", Note: amount, Month: raw("5"), Year: raw("2024"), Amount: raw(fmt.Sprintf("%q", amount))})

			var stored models.FixedExpense
			suite.Require().NoError(suite.db.First(&stored, r.Expenses[0].ID).Error)
			suite.Assert().True(r.Expenses[0].Amount.Equal(stored.Amount), "written %s, stored %s", r.Expenses[0].Amount, stored.Amount)
			suite.Assert().True(decimal.RequireFromString(amount).Equal(stored.Amount))
		})
	}
}
