package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salonspa/backend/internal/httputil"
)

// RegisterSuggestionRoutes registers the routes for suggestions.
func (co Controller) RegisterSuggestionRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGetPost)
	r.GET("", co.GetSuggestions)
	r.POST("", co.CreateSuggestion)
}

// GetSuggestions returns the latest suggestions
//
//	@Summary		Get suggestions
//	@Description	Returns the latest suggestions, newest first
//	@Tags			Suggestions
//	@Produce		json
//	@Success		200	{array}		models.Suggestion
//	@Failure		500	{object}	httputil.HTTPError
//	@Security		BearerAuth
//	@Router			/suggestions [get]
func (co Controller) GetSuggestions(c *gin.Context) {
	suggestions, err := co.Suggestions.List(c.Request.Context())
	if err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusOK, suggestions)
}

// CreateSuggestion adds a suggestion
//
//	@Summary		Create suggestion
//	@Description	Adds a suggestion. Only the latest suggestions are kept.
//	@Tags			Suggestions
//	@Produce		json
//	@Success		201			{object}	models.Suggestion
//	@Failure		400			{object}	httputil.HTTPError
//	@Failure		500			{object}	httputil.HTTPError
//	@Param			suggestion	body		SuggestionEditable	true	"Suggestion"
//	@Security		BearerAuth
//	@Router			/suggestions [post]
func (co Controller) CreateSuggestion(c *gin.Context) {
	var editable SuggestionEditable
	if err := httputil.BindData(c, &editable); err != nil {
		httpError(c, err)
		return
	}

	suggestion, err := co.Suggestions.Add(c.Request.Context(), editable.Message)
	if err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusCreated, suggestion)
}
