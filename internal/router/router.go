package router

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	docs "github.com/salonspa/backend/api"
	"github.com/salonspa/backend/internal/auth"
	"github.com/salonspa/backend/internal/config"
	"github.com/salonspa/backend/internal/controllers"
	"github.com/salonspa/backend/internal/httputil"
	"github.com/salonspa/backend/internal/models"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Set at build time with -ldflags "-X github.com/salonspa/backend/internal/router.version=...".
var version = "0.0.0"

var errMethodNotAllowed = errors.New("el método HTTP no está permitido para este endpoint")

// Config sets up the engine with all middlewares. The returned teardown
// function must be called when the engine is not used anymore.
func Config(cfg *config.Config) (*gin.Engine, func(), error) {
	gin.SetMode(cfg.GinMode)

	// Set up the router and middlewares
	r := gin.New()

	// Don’t process X-Forwarded-For header as we do not do anything with
	// client IPs
	r.ForwardedByClientIP = false

	// Send a HTTP 405 (Method not allowed) for all paths where there is
	// a handler, but not for the specific method used
	r.HandleMethodNotAllowed = true

	url := cfg.BaseURL()

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(URLMiddleware(url))
	r.NoMethod(func(c *gin.Context) {
		httputil.NewError(c, http.StatusMethodNotAllowed, errMethodNotAllowed)
	})
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, logger zerolog.Logger) zerolog.Logger {
			return logger.With().
				Str("request-id", requestid.Get(c)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Int("status", c.Writer.Status()).
				Int("size", c.Writer.Size()).
				Str("user-agent", c.Request.UserAgent()).
				Logger()
		})))

	if err := registerPrometheusMetrics(); err != nil {
		return nil, func() {}, err
	}
	r.Use(MetricsMiddleware())

	// CORS settings
	if len(cfg.CORSAllowOrigins) > 0 {
		log.Debug().Strs("CORS Allowed Origins", cfg.CORSAllowOrigins).Msg("Router")

		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowOrigins,
			AllowMethods:     []string{"OPTIONS", "GET", "POST", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Disposition", "X-Request-Id"},
			AllowCredentials: true,
		}))
	}

	// Disable the gin debug route printing as it clutters logs (and test logs)
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, numHandlers int) {}

	// Don’t trust any proxy. We do not process any client IPs,
	// therefore we don’t need to trust anyone here.
	_ = r.SetTrustedProxies([]string{})

	log.Debug().Str("API Base URL", url.String()).Str("Host", url.Host).Str("Path", url.Path).Msg("Router")
	log.Info().Str("version", version).Msg("Router")

	docs.SwaggerInfo.Host = url.Host
	docs.SwaggerInfo.BasePath = url.Path
	docs.SwaggerInfo.Title = "Salón & Spa"
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Description = "Backend for the salon and spa: appointments, sales, stock and treasury reports."

	teardown := func() {
		if !unregisterPrometheusMetrics() {
			log.Error().Msg("could not unregister Prometheus metrics")
		}
	}

	return r, teardown, nil
}

// AttachRoutes attaches the API routes to the router group that is passed in.
func AttachRoutes(co controllers.Controller, group *gin.RouterGroup, cfg *config.Config) {
	group.GET("", GetRoot)
	group.OPTIONS("", OptionsRoot)
	group.GET("/version", GetVersion)
	group.OPTIONS("/version", OptionsVersion)
	group.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// pprof performance profiles
	if cfg.EnablePprof {
		pprof.RouteRegister(group, "debug/pprof")
	}

	group.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	co.RegisterHealthzRoutes(group.Group("/healthz"))
	co.RegisterAuthRoutes(group.Group("/auth"))

	// Everything below needs a valid token
	authed := group.Group("", co.Tokens.Middleware())
	staff := auth.RequireRole(models.RoleAdmin, models.RoleTreasurer)

	co.RegisterExpenseRoutes(authed.Group("/expenses", staff))
	co.RegisterTreasuryRoutes(authed.Group("/treasury", staff))
	co.RegisterClientRoutes(authed.Group("/clients"))
	co.RegisterUserRoutes(authed.Group("/users", auth.RequireRole(models.RoleAdmin)))
	co.RegisterServiceRoutes(authed.Group("/services"))
	co.RegisterProductRoutes(authed.Group("/products"))
	co.RegisterSupplierRoutes(authed.Group("/suppliers"))
	co.RegisterAppointmentRoutes(authed.Group("/appointments"))
	co.RegisterSaleRoutes(authed.Group("/sales", auth.RequireRole(models.RoleAdmin, models.RoleEmployee)))
	co.RegisterPurchaseRoutes(authed.Group("/purchases", auth.RequireRole(models.RoleAdmin)))
	co.RegisterSuggestionRoutes(authed.Group("/suggestions"))
}

type RootResponse struct {
	Links RootLinks `json:"links"`
}

type RootLinks struct {
	Docs         string `json:"docs" example:"https://example.com/api/docs/index.html"`      // Swagger API documentation
	Version      string `json:"version" example:"https://example.com/api/version"`           // Endpoint returning the version of the backend
	Healthz      string `json:"healthz" example:"https://example.com/api/healthz"`           // Health of the backend
	Auth         string `json:"auth" example:"https://example.com/api/auth"`                 // Login and registration
	Expenses     string `json:"expenses" example:"https://example.com/api/expenses"`         // Fixed expenses per month
	Treasury     string `json:"treasury" example:"https://example.com/api/treasury"`         // Treasury reports
	Clients      string `json:"clients" example:"https://example.com/api/clients"`           // Client reports
	Users        string `json:"users" example:"https://example.com/api/users"`               // Users
	Services     string `json:"services" example:"https://example.com/api/services"`         // Services
	Products     string `json:"products" example:"https://example.com/api/products"`         // Products
	Suppliers    string `json:"suppliers" example:"https://example.com/api/suppliers"`       // Suppliers
	Appointments string `json:"appointments" example:"https://example.com/api/appointments"` // Appointments
	Sales        string `json:"sales" example:"https://example.com/api/sales"`               // Walk-in sales
	Purchases    string `json:"purchases" example:"https://example.com/api/purchases"`       // Supplier deliveries
	Suggestions  string `json:"suggestions" example:"https://example.com/api/suggestions"`   // Suggestions box
}

// GetRoot returns the link list for the API root
//
//	@Summary		API root
//	@Description	Entrypoint for the API, listing all endpoints
//	@Tags			General
//	@Success		200	{object}	RootResponse
//	@Router			/ [get]
func GetRoot(c *gin.Context) {
	url := httputil.BaseURL(c)

	c.JSON(http.StatusOK, RootResponse{
		Links: RootLinks{
			Docs:         url + "/docs/index.html",
			Version:      url + "/version",
			Healthz:      url + "/healthz",
			Auth:         url + "/auth",
			Expenses:     url + "/expenses",
			Treasury:     url + "/treasury",
			Clients:      url + "/clients",
			Users:        url + "/users",
			Services:     url + "/services",
			Products:     url + "/products",
			Suppliers:    url + "/suppliers",
			Appointments: url + "/appointments",
			Sales:        url + "/sales",
			Purchases:    url + "/purchases",
			Suggestions:  url + "/suggestions",
		},
	})
}

type VersionResponse struct {
	Data VersionObject `json:"data"` // Data object for the version endpoint
}

type VersionObject struct {
	Version string `json:"version" example:"1.1.0"` // the running version of the backend
}

// GetVersion returns the API version object
//
//	@Summary		API version
//	@Description	Returns the software version of the API
//	@Tags			General
//	@Success		200	{object}	VersionResponse
//	@Router			/version [get]
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, VersionResponse{
		Data: VersionObject{
			Version: version,
		},
	})
}

// OptionsRoot returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			General
//	@Success		204
//	@Router			/ [options]
func OptionsRoot(c *gin.Context) {
	httputil.OptionsGet(c)
}

// OptionsVersion returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			General
//	@Success		204
//	@Router			/version [options]
func OptionsVersion(c *gin.Context) {
	httputil.OptionsGet(c)
}
