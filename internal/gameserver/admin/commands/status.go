package commands

import "github.com/udisondev/la2go-blackmarket/internal/gameserver/admin"

// MarketStatus handles /blackmarketstatus: it reports market state and countdowns.
type MarketStatus struct {
	market Market
}

// NewMarketStatus creates the status command handler.
func NewMarketStatus(m Market) *MarketStatus {
	return &MarketStatus{market: m}
}

func (c *MarketStatus) Names() []string    { return []string{"blackmarketstatus", "bmstatus", "bm"} }
func (c *MarketStatus) Permission() string { return "blackmarketnpc.status" }

func (c *MarketStatus) Handle(caller admin.Caller, _ []string) error {
	caller.SendMessage(c.market.Messages().Status(c.market.Status()))
	return nil
}
