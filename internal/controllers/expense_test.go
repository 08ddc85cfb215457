package controllers_test

import (
	"fmt"
	"net/http"

	"github.com/salonspa/backend/internal/controllers"
	"github.com/salonspa/backend/internal/models"
	"github.com/salonspa/backend/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestExpenseServiceLines() {
	body := `{
		"categoria": "Servicios",
		"mes": 5,
		"anio": 2024,
		"items": [{"subcategoria": "Luz", "monto": 1000}, {"subcategoria": "Agua", "monto": "500"}]
	}`

	r := suite.request(http.MethodPost, "/expenses", body, models.RoleTreasurer)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var created []models.FixedExpense
	test.DecodeResponse(suite.T(), &r, &created)
	suite.Require().Len(created, 2)

	r = suite.request(http.MethodGet, "/expenses?month=5&year=2024", nil, models.RoleTreasurer)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var list []models.FixedExpense
	test.DecodeResponse(suite.T(), &r, &list)
	suite.Require().Len(list, 2)
	suite.Assert().Equal("Agua", list[0].Subcategory)
	suite.Assert().Equal("Luz", list[1].Subcategory)

	r = suite.request(http.MethodGet, "/expenses/summary?month=5&year=2024", nil, models.RoleTreasurer)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	suite.Assert().JSONEq(`{
		"totalPeriod": 1500,
		"porCategoria": [{
			"categoria": "Servicios",
			"total": 1500,
			"detalle": [{"subcategoria": "Luz", "total": 1000}, {"subcategoria": "Agua", "total": 500}]
		}]
	}`, r.Body.String())
}

func (suite *TestSuiteStandard) TestExpenseFixedUpsert() {
	r := suite.request(http.MethodPost, "/expenses", map[string]any{"categoria": "Sueldos", "monto": 300}, models.RoleAdmin)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	r = suite.request(http.MethodPost, "/expenses", map[string]any{"categoria": "sueldos", "monto": 350, "nota": "Aumento"}, models.RoleAdmin)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	// Month and year default to the current month
	r = suite.request(http.MethodGet, "/expenses", nil, models.RoleAdmin)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var list []models.FixedExpense
	test.DecodeResponse(suite.T(), &r, &list)
	suite.Require().Len(list, 1)
	suite.Assert().Equal(5, list[0].Month)
	suite.Assert().Equal(2024, list[0].Year)
	suite.Assert().True(decimal.NewFromInt(350).Equal(list[0].Amount))
	suite.Assert().Equal("Aumento", list[0].Note)
}

func (suite *TestSuiteStandard) TestExpenseRejects() {
	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"Unknown category", `{"categoria": "Impuestos", "monto": 1}`, "Categoría inválida"},
		{"Zero amount", `{"categoria": "Alquiler", "monto": 0}`, "Monto inválido"},
		{"Negative amount", `{"categoria": "Alquiler", "monto": -5}`, "Monto inválido"},
		{"Text amount", `{"categoria": "Alquiler", "monto": "abc"}`, "Monto inválido"},
		{"Month 13", `{"categoria": "Alquiler", "monto": 1, "mes": 13}`, "Mes inválido"},
		{"Year 2019", `{"categoria": "Alquiler", "monto": 1, "anio": 2019}`, "Año inválido"},
		{"Otros without note", `{"categoria": "Otros", "monto": 10}`, "nota"},
		{"Servicios without items", `{"categoria": "Servicios", "items": []}`, "al menos un ítem"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := suite.request(http.MethodPost, "/expenses", tt.body, models.RoleAdmin)
			suite.assertError(r, http.StatusBadRequest, tt.msg)
		})
	}

	var count int64
	suite.Require().NoError(suite.controller.DB.Model(&models.FixedExpense{}).Count(&count).Error)
	suite.Assert().Zero(count)
}

func (suite *TestSuiteStandard) TestExpenseInvalidPeriodQuery() {
	for _, query := range []string{"month=0", "month=abc", "year=3001", "month=13&year=2024"} {
		r := suite.request(http.MethodGet, "/expenses?"+query, nil, models.RoleAdmin)
		test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

		r = suite.request(http.MethodGet, "/expenses/summary?"+query, nil, models.RoleAdmin)
		test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	}
}

func (suite *TestSuiteStandard) TestExpenseDelete() {
	r := suite.request(http.MethodPost, "/expenses", map[string]any{"categoria": "Otros", "monto": 50, "nota": "Pintura"}, models.RoleAdmin)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var created []models.FixedExpense
	test.DecodeResponse(suite.T(), &r, &created)
	suite.Require().Len(created, 1)

	path := fmt.Sprintf("/expenses/%d", created[0].ID)
	r = suite.request(http.MethodDelete, path, nil, models.RoleAdmin)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var message controllers.MessageResponse
	test.DecodeResponse(suite.T(), &r, &message)
	suite.Assert().Equal("Gasto eliminado", message.Message)

	r = suite.request(http.MethodDelete, path, nil, models.RoleAdmin)
	suite.assertError(r, http.StatusNotFound, "no existe gasto fijo con ese identificador")

	r = suite.request(http.MethodDelete, "/expenses/abc", nil, models.RoleAdmin)
	suite.assertError(r, http.StatusBadRequest, "identificador")

	r = suite.request(http.MethodOptions, path, nil, models.RoleAdmin)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, DELETE", r.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestExpenseClosedDB() {
	suite.CloseDB()

	for _, path := range []string{"/expenses", "/expenses/summary"} {
		r := suite.request(http.MethodGet, path, nil, models.RoleAdmin)
		suite.assertError(r, http.StatusInternalServerError, models.ErrGeneral.Error())
	}

	r := suite.request(http.MethodDelete, "/expenses/1", nil, models.RoleAdmin)
	suite.assertError(r, http.StatusInternalServerError, models.ErrGeneral.Error())
}
