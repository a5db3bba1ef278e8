package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"

	"tourbook/internal/obs"
)

// NewRelicAttributes annotates the transaction started by nrgin with the
// request id and caller identity, and reports handler errors. It is a no-op
// when the request is not instrumented, so it must run after nrgin.Middleware.
func NewRelicAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		txn := nrgin.Transaction(c)
		if txn == nil {
			c.Next()
			return
		}

		if id := obs.RequestID(c.Request.Context()); id != "" {
			txn.AddAttribute("requestId", id)
		}

		c.Next()

		if ident, ok := GetIdentity(c); ok {
			txn.AddAttribute("userId", ident.UserID)
			txn.AddAttribute("userRole", string(ident.Role))
		}
		for _, err := range c.Errors {
			txn.NoticeError(err.Err)
		}
	}
}
