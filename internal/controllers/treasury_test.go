package controllers_test

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/salonspa/backend/internal/models"
	"github.com/salonspa/backend/internal/report"
	"github.com/salonspa/backend/internal/treasury"
	"github.com/salonspa/backend/test"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// seedTreasury creates one completed and one cancelled appointment, a sale,
// a purchase and an expense.
func (suite *TestSuiteStandard) seedTreasury() (salon, models.Appointment) {
	s := suite.seedCatalog()

	// 2024-05-14 is a Tuesday
	a := suite.book(s, "2024-05-14T15:30:00Z", map[string]any{"productoId": s.tint.ID, "cantidad": 2})
	r := suite.setStatus(a.ID, models.AppointmentCompleted)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	cancelled := suite.book(s, "2024-05-15T10:00:00Z")
	r = suite.setStatus(cancelled.ID, models.AppointmentCancelled)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = suite.request(http.MethodPost, "/sales", map[string]any{
		"productos": []map[string]any{{"productoId": s.shampoo.ID, "cantidad": 3}},
	}, models.RoleEmployee)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	r = suite.request(http.MethodPost, "/purchases", map[string]any{
		"proveedorId":   s.supplier.ID,
		"productoId":    s.shampoo.ID,
		"cantidad":      10,
		"costoUnitario": 4,
	}, models.RoleAdmin)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	r = suite.request(http.MethodPost, "/expenses", map[string]any{"categoria": "Sueldos", "monto": 50}, models.RoleTreasurer)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	return s, a
}

func (suite *TestSuiteStandard) TestTreasurySummary() {
	suite.seedTreasury()

	r := suite.request(http.MethodGet, "/treasury/summary", nil, models.RoleTreasurer)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var summary treasury.PeriodSummary
	test.DecodeResponse(suite.T(), &r, &summary)

	// 140 for the appointment, 30 for the sale, -40 for the purchase
	suite.Assert().True(decimal.NewFromInt(130).Equal(summary.IncomeTotal), summary.IncomeTotal.String())
	suite.Assert().True(decimal.NewFromInt(50).Equal(summary.ExpenseTotal), summary.ExpenseTotal.String())
	suite.Assert().True(decimal.NewFromInt(80).Equal(summary.NetProfit), summary.NetProfit.String())
	suite.Assert().Equal(1, summary.CompletedAppointments)
	suite.Assert().Equal(1, summary.CancelledAppointments)
	suite.Assert().Equal(2, summary.TotalAppointments)

	// Expenses of another month do not count
	r = suite.request(http.MethodGet, "/treasury/summary?month=4&year=2024", nil, models.RoleTreasurer)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &summary)
	suite.Assert().True(summary.ExpenseTotal.IsZero())
	suite.Assert().Zero(summary.TotalAppointments)

	r = suite.request(http.MethodGet, "/treasury/summary?month=13", nil, models.RoleTreasurer)
	suite.assertError(r, http.StatusBadRequest, "Mes inválido")
}

func (suite *TestSuiteStandard) TestTreasuryDetail() {
	suite.seedTreasury()

	r := suite.request(http.MethodGet, "/treasury/detail", nil, models.RoleAdmin)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	suite.Assert().JSONEq(`{
		"byDay": [
			{"dia": "Lun", "ingresos": 0, "egresos": 0},
			{"dia": "Mar", "ingresos": 140, "egresos": 0},
			{"dia": "Mié", "ingresos": 0, "egresos": 0},
			{"dia": "Jue", "ingresos": 0, "egresos": 0},
			{"dia": "Vie", "ingresos": 0, "egresos": 0},
			{"dia": "Sáb", "ingresos": 0, "egresos": 0},
			{"dia": "Dom", "ingresos": 0, "egresos": 0}
		],
		"byEmployee": [{"empleado": "Lucía Fernández", "ingresos": 140}],
		"bySpecialty": [{"especialidad": "Peluquería", "ingresos": 140}]
	}`, r.Body.String())
}

func (suite *TestSuiteStandard) TestTreasuryRankings() {
	s, _ := suite.seedTreasury()
	client := suite.users[models.RoleClient]

	r := suite.request(http.MethodGet, "/treasury/clients", nil, models.RoleAdmin)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	suite.Assert().JSONEq(fmt.Sprintf(`[{"clienteId": %d, "nombre": "Ana Gómez", "email": "cliente@example.com", "citas": 1}]`, client.ID), r.Body.String())

	r = suite.request(http.MethodGet, "/treasury/products?limit=1", nil, models.RoleAdmin)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	suite.Assert().JSONEq(fmt.Sprintf(`[{"productoId": %d, "nombre": "Tintura castaña", "cantidad": 2}]`, s.tint.ID), r.Body.String())

	for _, limit := range []string{"0", "-1", "abc"} {
		r = suite.request(http.MethodGet, "/treasury/clients?limit="+limit, nil, models.RoleAdmin)
		suite.assertError(r, http.StatusBadRequest, "limit")

		r = suite.request(http.MethodGet, "/treasury/products?limit="+limit, nil, models.RoleAdmin)
		suite.assertError(r, http.StatusBadRequest, "limit")
	}
}

func (suite *TestSuiteStandard) TestTreasuryEntries() {
	suite.seedTreasury()

	r := suite.request(http.MethodGet, "/treasury/entries", nil, models.RoleTreasurer)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var entries []models.TreasuryEntry
	test.DecodeResponse(suite.T(), &r, &entries)
	suite.Require().Len(entries, 3)

	// Newest first
	suite.Assert().True(decimal.NewFromInt(-40).Equal(entries[0].Total))
	suite.Assert().True(decimal.NewFromInt(30).Equal(entries[1].Total))
	suite.Assert().True(decimal.NewFromInt(140).Equal(entries[2].Total))

	// Entries are dated when they are recorded, none are in 2020
	r = suite.request(http.MethodGet, "/treasury/entries?month=1&year=2020", nil, models.RoleTreasurer)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	suite.Assert().JSONEq(`[]`, r.Body.String())
}

func (suite *TestSuiteStandard) TestTreasuryExport() {
	suite.seedTreasury()

	r := suite.request(http.MethodGet, "/treasury/export?month=5&year=2024", nil, models.RoleTreasurer)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	suite.Assert().Equal(report.ContentType, r.Header().Get("Content-Type"))
	suite.Assert().Equal(`attachment; filename="tesoreria-2024-05.xlsx"`, r.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(bytes.NewReader(r.Body.Bytes()))
	suite.Require().NoError(err)
	defer f.Close()

	suite.Assert().Equal([]string{
		report.SheetSummary,
		report.SheetDays,
		report.SheetEmployees,
		report.SheetSpecialty,
		report.SheetClients,
		report.SheetProducts,
	}, f.GetSheetList())

	r = suite.request(http.MethodGet, "/treasury/export", nil, models.RoleTreasurer)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	suite.Assert().Equal(`attachment; filename="tesoreria.xlsx"`, r.Header().Get("Content-Disposition"))
}

func (suite *TestSuiteStandard) TestTreasuryClosedDB() {
	suite.CloseDB()

	for _, path := range []string{
		"/treasury/summary",
		"/treasury/detail",
		"/treasury/clients",
		"/treasury/products",
		"/treasury/entries",
		"/treasury/export",
		"/clients/summary",
	} {
		r := suite.request(http.MethodGet, path, nil, models.RoleAdmin)
		suite.assertError(r, http.StatusInternalServerError, models.ErrGeneral.Error())
	}
}

func (suite *TestSuiteStandard) TestClientReports() {
	_, a := suite.seedTreasury()
	client := suite.users[models.RoleClient]

	r := suite.request(http.MethodGet, "/clients/summary", nil, models.RoleTreasurer)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var summaries []treasury.ClientSummary
	test.DecodeResponse(suite.T(), &r, &summaries)
	suite.Require().Len(summaries, 1)
	suite.Assert().Equal(client.ID, summaries[0].ClientID)
	suite.Assert().Equal(1, summaries[0].CompletedAppointments)
	suite.Assert().True(decimal.NewFromInt(140).Equal(summaries[0].TotalSpent))

	// The appointment was booked for a date before the account was created
	suite.Assert().True(summaries[0].ClientSince.Equal(a.DateTime), summaries[0].ClientSince)

	detail := fmt.Sprintf("/clients/%d/detail", client.ID)
	for _, role := range []models.Role{models.RoleAdmin, models.RoleTreasurer, models.RoleClient} {
		r = suite.request(http.MethodGet, detail, nil, role)
		test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

		var appointments []treasury.ClientAppointment
		test.DecodeResponse(suite.T(), &r, &appointments)
		suite.Require().Len(appointments, 1)
		suite.Assert().Equal(a.ID, appointments[0].AppointmentID)
		suite.Assert().Equal("Corte", appointments[0].Service)
		suite.Assert().Equal("Lucía Fernández", appointments[0].Employee)
		suite.Assert().True(decimal.NewFromInt(140).Equal(appointments[0].TotalPaid))
	}

	// Clients only see their own appointments, employees none
	other := suite.createUser("Otro Cliente", "otro@example.com", models.RoleClient)
	r = suite.requestWithToken(http.MethodGet, detail, nil, suite.token(other))
	suite.assertError(r, http.StatusForbidden, "permisos")

	r = suite.request(http.MethodGet, detail, nil, models.RoleEmployee)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusForbidden)

	// Without completed appointments, the list is empty
	r = suite.requestWithToken(http.MethodGet, fmt.Sprintf("/clients/%d/detail", other.ID), nil, suite.token(other))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	suite.Assert().JSONEq(`[]`, r.Body.String())

	r = suite.request(http.MethodGet, "/clients/abc/detail", nil, models.RoleAdmin)
	suite.assertError(r, http.StatusBadRequest, "identificador")
}
