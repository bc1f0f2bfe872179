package commands

import (
	"github.com/udisondev/la2go-blackmarket/internal/blackmarket"
	"github.com/udisondev/la2go-blackmarket/internal/gameserver/admin"
)

// RemoveMarket handles /removeblackmarket: it closes the active market.
type RemoveMarket struct {
	market Market
}

// NewRemoveMarket creates the remove command handler.
func NewRemoveMarket(m Market) *RemoveMarket {
	return &RemoveMarket{market: m}
}

func (c *RemoveMarket) Names() []string    { return []string{"removeblackmarket", "removebm", "bmremove"} }
func (c *RemoveMarket) Permission() string { return "blackmarketnpc.remove" }

func (c *RemoveMarket) Handle(caller admin.Caller, _ []string) error {
	msgs := c.market.Messages()
	res := c.market.Remove()
	if !res.OK() {
		caller.SendMessage(msgs.Outcome(res))
		return nil
	}
	caller.SendMessage(msgs.Format(blackmarket.KeyDespawned))
	return nil
}
