package commands

import "github.com/udisondev/la2go-blackmarket/internal/gameserver/admin"

// RegisterAll registers the black market commands into the handler.
func RegisterAll(h *admin.Handler, market Market) {
	h.Register(NewSpawnMarket(market))
	h.Register(NewRemoveMarket(market))
	h.Register(NewMarketStatus(market))
}
