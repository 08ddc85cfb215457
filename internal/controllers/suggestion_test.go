package controllers_test

import (
	"fmt"
	"net/http"

	"github.com/salonspa/backend/internal/models"
	"github.com/salonspa/backend/internal/suggestion"
	"github.com/salonspa/backend/test"
)

func (suite *TestSuiteStandard) TestSuggestions() {
	for i := 1; i <= suggestion.Capacity+1; i++ {
		r := suite.request(http.MethodPost, "/suggestions", map[string]string{"mensaje": fmt.Sprintf("Sugerencia %d", i)}, models.RoleClient)
		test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)
	}

	r := suite.request(http.MethodGet, "/suggestions", nil, models.RoleEmployee)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var suggestions []models.Suggestion
	test.DecodeResponse(suite.T(), &r, &suggestions)
	suite.Require().Len(suggestions, suggestion.Capacity)
	suite.Assert().Equal(fmt.Sprintf("Sugerencia %d", suggestion.Capacity+1), suggestions[0].Message)
	suite.Assert().Equal("Sugerencia 2", suggestions[len(suggestions)-1].Message)
}

func (suite *TestSuiteStandard) TestSuggestionRejects() {
	r := suite.request(http.MethodPost, "/suggestions", map[string]string{"mensaje": "   "}, models.RoleClient)
	suite.assertError(r, http.StatusBadRequest, "El mensaje es obligatorio")

	r = suite.request(http.MethodPost, "/suggestions", "", models.RoleClient)
	suite.assertError(r, http.StatusBadRequest, "no puede estar vacío")
}
