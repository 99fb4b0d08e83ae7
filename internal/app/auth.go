package app

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const metricsRealm = "merit-metrics"

// basicCredentials is the single account accepted by requireBasicAuth.
// An empty password turns the check off.
type basicCredentials struct {
	Username string
	Password string
}

func (c basicCredentials) enabled() bool { return c.Password != "" }

func (c basicCredentials) match(user, pass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(c.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(c.Password)) == 1
	return userOK && passOK
}

// requireBasicAuth guards a route with HTTP Basic auth. onReject, when
// non-nil, runs before the 401 is written.
func requireBasicAuth(realm string, creds basicCredentials, onReject func(*gin.Context)) gin.HandlerFunc {
	challenge := `Basic realm="` + realm + `", charset="UTF-8"`
	return func(c *gin.Context) {
		if !creds.enabled() {
			c.Next()
			return
		}
		if user, pass, ok := c.Request.BasicAuth(); ok && creds.match(user, pass) {
			c.Next()
			return
		}
		if onReject != nil {
			onReject(c)
		}
		c.Header("WWW-Authenticate", challenge)
		c.AbortWithStatus(http.StatusUnauthorized)
	}
}

// metricsAuth protects /metrics with MERIT_METRICS_USERNAME/PASSWORD and
// counts rejected scrapes.
func (a *Application) metricsAuth() gin.HandlerFunc {
	creds := basicCredentials{Username: a.cfg.MetricsUsername, Password: a.cfg.MetricsPassword}
	return requireBasicAuth(metricsRealm, creds, func(c *gin.Context) {
		if a.metrics != nil {
			a.metrics.RecordHTTPError("unauthorized", c.FullPath())
		}
	})
}
