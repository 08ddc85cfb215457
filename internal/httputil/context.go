package httputil

import "github.com/gin-gonic/gin"

// ContextURL is the context key of the public base URL of the API.
const ContextURL = "salonspa.url"

// BaseURL returns the public base URL of the API without a trailing slash.
func BaseURL(c *gin.Context) string {
	return c.GetString(ContextURL)
}
