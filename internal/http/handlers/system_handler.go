// System HTTP handlers: readiness banner and store diagnostics.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// maxDiagErrLen bounds how much of a store error /test echoes back.
const maxDiagErrLen = 80

// Diagnostics is the body of GET /test.
type Diagnostics struct {
	Backend          string   `json:"backend" example:"Running"`
	Database         string   `json:"database" example:"Connected & Working"`
	DatabaseURL      *string  `json:"database_url" example:"Set"`
	DatabaseName     *string  `json:"database_name" example:"Set"`
	ConnectionStatus string   `json:"connection_status" example:"Connected"`
	Collections      []string `json:"collections"`
}

// Root godoc
// @ID       root
// @Summary  Readiness banner
// @Tags     System
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   / [get]
func (h *Handlers) Root(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{"message": "Chat API ready"})
}

// Diagnose godoc
// @ID          diagnose
// @Summary     Store diagnostics
// @Description Reports store reachability and collections. Always answers 200;
// @Description failures are described in the body.
// @Tags        System
// @Produce     json
// @Success     200  {object}  handlers.Diagnostics
// @Router      /test [get]
func (h *Handlers) Diagnose(c *gin.Context) {
	resp := Diagnostics{
		Backend:          "Running",
		Database:         "Not Available",
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}
	if h.diag == nil {
		ok(c, http.StatusOK, resp)
		return
	}

	resp.Database = "Available"
	resp.DatabaseURL = setOrNot(h.diagEnv.DatabaseURLSet)
	resp.DatabaseName = setOrNot(h.diagEnv.DatabaseNameSet)

	ctx := c.Request.Context()
	names, err := h.diag.CollectionNames(ctx)
	if err == nil {
		err = h.diag.Ping(ctx)
	}
	if err != nil {
		resp.Database = "Connected but Error: " + truncateRunes(err.Error(), maxDiagErrLen)
		ok(c, http.StatusOK, resp)
		return
	}

	if names != nil {
		resp.Collections = names
	}
	resp.Database = "Connected & Working"
	resp.ConnectionStatus = "Connected"
	ok(c, http.StatusOK, resp)
}

func setOrNot(b bool) *string {
	s := "Not Set"
	if b {
		s = "Set"
	}
	return &s
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
