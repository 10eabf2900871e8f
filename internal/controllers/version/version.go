package version

import (
	"net/http"
	"runtime"

	"github.com/foyers/ledger/internal/httputil"
	"github.com/gin-gonic/gin"
)

type Response struct {
	Data Object `json:"data"` // Data object for the version endpoint
}

type Object struct {
	Version   string `json:"version" example:"1.1.0"`    // The running version of the ledger
	GoVersion string `json:"goVersion" example:"go1.25"` // Go version the binary was built with
}

// RegisterRoutes registers the version endpoint. version is set at build time with -ldflags.
func RegisterRoutes(r *gin.RouterGroup, version string) {
	h := handler{
		object: Object{
			Version:   version,
			GoVersion: runtime.Version(),
		},
	}

	r.GET("", h.Get)
	r.OPTIONS("", Options)
}

type handler struct {
	object Object
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/version [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		API version
// @Description	Returns the software version of the ledger
// @Tags			General
// @Success		200	{object}	Response
// @Router			/version [get]
func (h handler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Data: h.object})
}
