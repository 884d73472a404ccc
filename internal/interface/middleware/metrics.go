package middleware

import (
	"expvar"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Published under /api/debug/vars.
var (
	httpRequests  = expvar.NewInt("http_requests_total")
	httpResponses = expvar.NewMap("http_responses_by_class")
	httpInFlight  = expvar.NewInt("http_requests_in_flight")
)

// Metrics counts requests and responses by status class.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		httpRequests.Add(1)
		httpInFlight.Add(1)
		defer httpInFlight.Add(-1)

		c.Next()
		httpResponses.Add(strconv.Itoa(c.Writer.Status()/100)+"xx", 1)
	}
}
