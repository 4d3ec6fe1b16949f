package http

import (
	"encoding/json"
	"errors"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"mangrove-addresses/internal/application/port"
	"mangrove-addresses/internal/domain"
	"mangrove-addresses/internal/domain/entity"
)

type AddressHandler struct {
	service port.AddressService
	logger  *zap.Logger
}

func NewAddressHandler(svc port.AddressService, logger *zap.Logger) *AddressHandler {
	return &AddressHandler{
		service: svc,
		logger:  logger.Named("AddressHandler"),
	}
}

// GetNetworks handles requests for the networks that have aggregated addresses
func (h *AddressHandler) GetNetworks(ctx *fasthttp.RequestCtx) {
	networks, err := h.service.ListNetworks(ctx)
	if err != nil {
		h.logger.Error("Failed to list networks", zap.Error(err))
		ctx.Error("Internal Server Error", fasthttp.StatusInternalServerError)
		return
	}
	if networks == nil {
		networks = []entity.NetworkName{}
	}
	h.writeJSON(ctx, networks)
}

// GetNetworkAddresses handles requests for the address list of one network
func (h *AddressHandler) GetNetworkAddresses(ctx *fasthttp.RequestCtx) {
	network, ok := ctx.UserValue("network").(string)
	if !ok || network == "" {
		h.logger.Error("Failed to get network from context")
		ctx.Error("Bad Request: Invalid network", fasthttp.StatusBadRequest)
		return
	}

	records, err := h.service.GetNetworkAddresses(ctx, entity.NetworkName(network))
	if err != nil {
		if errors.Is(err, domain.ErrNetworkNotFound) {
			h.logger.Debug("Network not found", zap.String("network", network))
			ctx.Error("Not Found", fasthttp.StatusNotFound)
			return
		}
		h.logger.Error("Failed to get network addresses", zap.String("network", network), zap.Error(err))
		ctx.Error("Internal Server Error", fasthttp.StatusInternalServerError)
		return
	}
	h.writeJSON(ctx, records)
}

func (h *AddressHandler) writeJSON(ctx *fasthttp.RequestCtx, v any) {
	ctx.SetContentType("application/json")
	if err := json.NewEncoder(ctx).Encode(v); err != nil {
		// Response already started, can't set error code
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}
