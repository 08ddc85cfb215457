package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salonspa/backend/internal/auth"
	"github.com/salonspa/backend/internal/httputil"
	"github.com/salonspa/backend/internal/models"
)

// RegisterAuthRoutes registers the public authentication routes.
func (co Controller) RegisterAuthRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/login", httputil.OptionsPost)
	r.POST("/login", co.Login)
	r.OPTIONS("/register", httputil.OptionsPost)
	r.POST("/register", co.RegisterClient)
}

// RegisterUserRoutes registers the routes for users.
func (co Controller) RegisterUserRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGetPost)
	r.GET("", co.GetUsers)
	r.POST("", co.CreateUser)
}

// Login returns a token for valid credentials
//
//	@Summary		Login
//	@Description	Checks email and password and returns a bearer token
//	@Tags			Auth
//	@Produce		json
//	@Success		200		{object}	LoginResponse
//	@Failure		400		{object}	httputil.HTTPError
//	@Failure		401		{object}	httputil.HTTPError
//	@Param			login	body		LoginEditable	true	"Credentials"
//	@Router			/auth/login [post]
func (co Controller) Login(c *gin.Context) {
	var editable LoginEditable
	if err := httputil.BindData(c, &editable); err != nil {
		httpError(c, err)
		return
	}

	user, err := auth.Authenticate(c.Request.Context(), co.DB, editable.Email, editable.Password)
	if err != nil {
		httpError(c, err)
		return
	}

	token, err := co.Tokens.Issue(user)
	if err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, User: user})
}

// RegisterClient creates a client account
//
//	@Summary		Register
//	@Description	Creates a user with the client role
//	@Tags			Auth
//	@Produce		json
//	@Success		201			{object}	models.User
//	@Failure		400			{object}	httputil.HTTPError
//	@Failure		409			{object}	httputil.HTTPError
//	@Param			register	body		RegisterEditable	true	"New client"
//	@Router			/auth/register [post]
func (co Controller) RegisterClient(c *gin.Context) {
	var editable RegisterEditable
	if err := httputil.BindData(c, &editable); err != nil {
		httpError(c, err)
		return
	}

	co.createUser(c, editable, models.RoleClient, "")
}

// GetUsers returns all users
//
//	@Summary		Get users
//	@Description	Returns all users ordered by name
//	@Tags			Users
//	@Produce		json
//	@Success		200	{array}		models.User
//	@Failure		500	{object}	httputil.HTTPError
//	@Security		BearerAuth
//	@Router			/users [get]
func (co Controller) GetUsers(c *gin.Context) {
	users := []models.User{}
	err := co.DB.WithContext(c.Request.Context()).Order("name ASC, id ASC").Find(&users).Error
	if err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// CreateUser creates a user with any role
//
//	@Summary		Create user
//	@Description	Creates a user. Use this to add employees and treasurers.
//	@Tags			Users
//	@Produce		json
//	@Success		201		{object}	models.User
//	@Failure		400		{object}	httputil.HTTPError
//	@Failure		409		{object}	httputil.HTTPError
//	@Failure		500		{object}	httputil.HTTPError
//	@Param			user	body		UserEditable	true	"New user"
//	@Security		BearerAuth
//	@Router			/users [post]
func (co Controller) CreateUser(c *gin.Context) {
	var editable UserEditable
	if err := httputil.BindData(c, &editable); err != nil {
		httpError(c, err)
		return
	}

	co.createUser(c, editable.RegisterEditable, editable.Role, editable.Specialty)
}

func (co Controller) createUser(c *gin.Context, editable RegisterEditable, role models.Role, specialty string) {
	hash, err := auth.HashPassword(editable.Password)
	if err != nil {
		httpError(c, err)
		return
	}

	user := models.User{
		Name:         editable.Name,
		Email:        editable.Email,
		PasswordHash: hash,
		Role:         role,
		Specialty:    specialty,
	}

	if err := co.DB.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		httpError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}
