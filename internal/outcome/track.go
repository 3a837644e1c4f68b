package outcome

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/josephfleury/technical-challenge/internal/logger"
)

// Observer is notified of every recorded outcome, e.g. to export metrics.
type Observer interface {
	RequestOutcome(outcome string)
}

// Track classifies every request that passes through it into l. Panics
// further down the chain are recovered, answered with 500 and counted as
// crashes. obs may be nil.
func Track(l *Ledger, obs Observer) gin.HandlerFunc {
	return func(c *gin.Context) {
		panicked := false

		defer func() {
			if rec := recover(); rec != nil {
				panicked = true
				logger.Error("panic while handling request", map[string]any{
					"path":  c.Request.URL.Path,
					"panic": fmt.Sprint(rec),
				})
				if !c.Writer.Written() {
					c.AbortWithStatus(http.StatusInternalServerError)
				}
			}

			errs := make([]error, 0, len(c.Errors))
			for _, e := range c.Errors {
				errs = append(errs, e.Err)
			}

			k := Classify(c.Writer.Status(), errs, panicked)
			l.Record(k)
			if obs != nil {
				obs.RequestOutcome(k.String())
			}
			if k == Crashed {
				logger.Error("request crashed", map[string]any{
					"method": c.Request.Method,
					"path":   c.Request.URL.Path,
				})
			}
		}()

		c.Next()
	}
}
