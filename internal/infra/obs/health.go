package obs

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandlers exposes the /livez and /readyz probes. Ready is the store
// check behind readiness: a Mongo ping when STORE=mongo, a no-op for the
// memory store, which is always ready.
type HealthHandlers struct {
	Ready func() error
}

// Livez reports process liveness only; it must stay independent of the
// store so a database outage does not get the process restarted.
func (h HealthHandlers) Livez(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (h HealthHandlers) Readyz(c *gin.Context) {
	if h.Ready != nil {
		if err := h.Ready(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
			return
		}
	}
	c.Status(http.StatusOK)
}
