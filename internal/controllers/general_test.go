package controllers_test

import (
	"net/http"
	"strings"

	"github.com/salonspa/backend/internal/models"
	"github.com/salonspa/backend/internal/router"
	"github.com/salonspa/backend/test"
)

func (suite *TestSuiteStandard) TestRoot() {
	r := suite.request(http.MethodGet, "/", nil, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var root router.RootResponse
	test.DecodeResponse(suite.T(), &r, &root)
	suite.Assert().Equal("http://example.com/docs/index.html", root.Links.Docs)
	suite.Assert().Equal("http://example.com/expenses", root.Links.Expenses)
	suite.Assert().Equal("http://example.com/suggestions", root.Links.Suggestions)

	r = suite.request(http.MethodOptions, "/", nil, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	suite.Assert().Equal("OPTIONS, GET", r.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestVersion() {
	r := suite.request(http.MethodGet, "/version", nil, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	suite.Assert().JSONEq(`{"data": {"version": "0.0.0"}}`, r.Body.String())

	r = suite.request(http.MethodPost, "/version", nil, "")
	suite.assertError(r, http.StatusMethodNotAllowed, "no está permitido")
}

func (suite *TestSuiteStandard) TestMetrics() {
	r := suite.request(http.MethodGet, "/version", nil, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = suite.request(http.MethodGet, "/metrics", nil, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	suite.Assert().Contains(r.Body.String(), `requests_total{code="200",method="GET",url="/version"}`)
}

func (suite *TestSuiteStandard) TestHealthz() {
	r := suite.request(http.MethodGet, "/healthz", nil, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = suite.request(http.MethodOptions, "/healthz", nil, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
}

func (suite *TestSuiteStandard) TestHealthzClosedDB() {
	suite.CloseDB()

	r := suite.request(http.MethodGet, "/healthz", nil, "")
	suite.assertError(r, http.StatusInternalServerError, models.ErrGeneral.Error())
}

func (suite *TestSuiteStandard) TestAccessControl() {
	tests := []struct {
		name   string
		method string
		path   string
		role   models.Role
		status int
	}{
		{"No token", http.MethodGet, "/expenses", "", http.StatusUnauthorized},
		{"Options without token", http.MethodOptions, "/expenses", "", http.StatusNoContent},
		{"Client on expenses", http.MethodGet, "/expenses", models.RoleClient, http.StatusForbidden},
		{"Employee on expenses", http.MethodGet, "/expenses", models.RoleEmployee, http.StatusForbidden},
		{"Treasurer on expenses", http.MethodGet, "/expenses", models.RoleTreasurer, http.StatusOK},
		{"Admin on treasury", http.MethodGet, "/treasury/summary", models.RoleAdmin, http.StatusOK},
		{"Employee on treasury", http.MethodGet, "/treasury/detail", models.RoleEmployee, http.StatusForbidden},
		{"Client on client summary", http.MethodGet, "/clients/summary", models.RoleClient, http.StatusForbidden},
		{"Treasurer on users", http.MethodGet, "/users", models.RoleTreasurer, http.StatusForbidden},
		{"Admin on users", http.MethodGet, "/users", models.RoleAdmin, http.StatusOK},
		{"Client on services", http.MethodGet, "/services", models.RoleClient, http.StatusOK},
		{"Employee creates service", http.MethodPost, "/services", models.RoleEmployee, http.StatusForbidden},
		{"Client on sales", http.MethodPost, "/sales", models.RoleClient, http.StatusForbidden},
		{"Employee on purchases", http.MethodPost, "/purchases", models.RoleEmployee, http.StatusForbidden},
		{"Client on appointment status", http.MethodPatch, "/appointments/1/status", models.RoleClient, http.StatusForbidden},
		{"Client on suggestions", http.MethodGet, "/suggestions", models.RoleClient, http.StatusOK},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := suite.request(tt.method, tt.path, nil, tt.role)
			test.AssertHTTPStatus(suite.T(), &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestInvalidToken() {
	r := suite.requestWithToken(http.MethodGet, "/suggestions", nil, "not-a-token")
	suite.assertError(r, http.StatusUnauthorized, "")

	r = suite.request(http.MethodGet, "/suggestions", nil, "")
	suite.assertError(r, http.StatusUnauthorized, "token")
}

func (suite *TestSuiteStandard) TestInternalErrorHasRequestID() {
	suite.CloseDB()

	r := suite.request(http.MethodGet, "/services", nil, models.RoleAdmin)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)

	id := r.Header().Get("X-Request-Id")
	suite.Require().NotEmpty(id)
	suite.Assert().True(strings.HasSuffix(strings.TrimSpace(r.Body.String()), `(id de solicitud: `+id+`)"}`), r.Body.String())
}
