package http

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	handler "mangrove-addresses/internal/adapter/handler/http"
)

// RegisterRoutes sets up the routes for the address handler and common health checks.
func RegisterRoutes(r *router.Router, h *handler.AddressHandler, logger *zap.Logger) {
	logger.Info("Setting up application-specific routes...")

	r.GET("/networks", h.GetNetworks)
	r.GET("/networks/{network}/addresses", h.GetNetworkAddresses)

	r.GET("/health", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("OK")
	})

	logger.Info("All routes registered.")
}
