package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salonspa/backend/internal/expense"
	"github.com/salonspa/backend/internal/httputil"
)

// RegisterExpenseRoutes registers the routes for fixed expenses.
func (co Controller) RegisterExpenseRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGetPost)
	r.GET("", co.GetExpenses)
	r.POST("", co.UpsertExpense)

	r.OPTIONS("/summary", httputil.OptionsGet)
	r.GET("/summary", co.GetExpenseSummary)

	r.OPTIONS("/:id", httputil.OptionsDelete)
	r.DELETE("/:id", co.DeleteExpense)
}

// GetExpenses returns the expenses of a month
//
//	@Summary		Get expenses
//	@Description	Returns the expenses of a month ordered by category, subcategory and ID. Month and year default to the current month.
//	@Tags			Expenses
//	@Produce		json
//	@Success		200		{array}		models.FixedExpense
//	@Failure		400		{object}	httputil.HTTPError
//	@Failure		500		{object}	httputil.HTTPError
//	@Param			month	query		int	false	"Month, 1 to 12"
//	@Param			year	query		int	false	"Year, 2020 to 3000"
//	@Security		BearerAuth
//	@Router			/expenses [get]
func (co Controller) GetExpenses(c *gin.Context) {
	period, err := co.queryPeriod(c)
	if err != nil {
		httpError(c, err)
		return
	}

	expenses, err := co.Expenses.List(c.Request.Context(), period)
	if err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusOK, expenses)
}

// UpsertExpense saves the expenses of one category
//
//	@Summary		Save expenses
//	@Description	Servicios replaces all service lines of the month, Otros adds one expense.
//	@Description	Sueldos, Alquiler and Administrativo update the expense of the month or create it.
//	@Tags			Expenses
//	@Produce		json
//	@Success		200		{array}		models.FixedExpense	"An existing expense was updated"
//	@Success		201		{array}		models.FixedExpense	"Expenses were created"
//	@Failure		400		{object}	httputil.HTTPError
//	@Failure		500		{object}	httputil.HTTPError
//	@Param			expense	body		expense.Input	true	"Expense"
//	@Security		BearerAuth
//	@Router			/expenses [post]
func (co Controller) UpsertExpense(c *gin.Context) {
	var in expense.Input
	if err := httputil.BindData(c, &in); err != nil {
		httpError(c, err)
		return
	}

	result, err := co.Expenses.Upsert(c.Request.Context(), in)
	if err != nil {
		httpError(c, err)
		return
	}

	s := http.StatusOK
	if result.Created {
		s = http.StatusCreated
	}

	c.JSON(s, result.Expenses)
}

// GetExpenseSummary returns the totals of a month
//
//	@Summary		Expense summary
//	@Description	Returns the total of a month and the totals per category. Servicios and Otros are detailed by subcategory and note.
//	@Tags			Expenses
//	@Produce		json
//	@Success		200		{object}	expense.Summary
//	@Failure		400		{object}	httputil.HTTPError
//	@Failure		500		{object}	httputil.HTTPError
//	@Param			month	query		int	false	"Month, 1 to 12"
//	@Param			year	query		int	false	"Year, 2020 to 3000"
//	@Security		BearerAuth
//	@Router			/expenses/summary [get]
func (co Controller) GetExpenseSummary(c *gin.Context) {
	period, err := co.queryPeriod(c)
	if err != nil {
		httpError(c, err)
		return
	}

	summary, err := co.Expenses.Summarize(c.Request.Context(), period)
	if err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// DeleteExpense deletes an expense
//
//	@Summary		Delete expense
//	@Description	Deletes one expense
//	@Tags			Expenses
//	@Produce		json
//	@Success		200	{object}	MessageResponse
//	@Failure		400	{object}	httputil.HTTPError
//	@Failure		404	{object}	httputil.HTTPError
//	@Failure		500	{object}	httputil.HTTPError
//	@Param			id	path		int	true	"ID of the expense"
//	@Security		BearerAuth
//	@Router			/expenses/{id} [delete]
func (co Controller) DeleteExpense(c *gin.Context) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		httpError(c, err)
		return
	}

	if err := co.Expenses.Delete(c.Request.Context(), id); err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Gasto eliminado"})
}
