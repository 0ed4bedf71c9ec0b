package violations

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/minewatch-api/api/types"
	"github.com/killallgit/minewatch-api/internal/models"
	"github.com/killallgit/minewatch-api/internal/services/violations"
)

// parseFilter reads listing filters from the query string. It sends a 400 and
// returns false on malformed input.
func parseFilter(c *gin.Context) (violations.Filter, bool) {
	f := violations.Filter{
		Type:   c.Query("type"),
		Method: c.Query("method"),
	}

	if sev := c.Query("severity"); sev != "" {
		if !models.Severity(sev).Valid() {
			types.SendBadRequest(c, "Invalid severity")
			return f, false
		}
		f.Severity = sev
	}

	if raw := c.Query("video"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			types.SendBadRequest(c, "Invalid video")
			return f, false
		}
		f.VideoID = uint(id)
	}

	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"since", &f.Since}, {"until", &f.Until}} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			types.SendBadRequest(c, "Invalid "+p.name+", expected RFC3339")
			return f, false
		}
		*p.dst = &ts
	}

	var ok bool
	if f.Limit, ok = types.QueryInt(c, "limit", violations.DefaultLimit); !ok {
		return f, false
	}
	if f.Offset, ok = types.QueryInt(c, "offset", 0); !ok {
		return f, false
	}
	return f.Normalize(), true
}
