package commands

import (
	"github.com/udisondev/la2go-blackmarket/internal/blackmarket"
	"github.com/udisondev/la2go-blackmarket/internal/gameserver/admin"
)

// SpawnMarket handles /spawnblackmarket: it opens a market immediately.
type SpawnMarket struct {
	market Market
}

// NewSpawnMarket creates the spawn command handler.
func NewSpawnMarket(m Market) *SpawnMarket {
	return &SpawnMarket{market: m}
}

func (c *SpawnMarket) Names() []string    { return []string{"spawnblackmarket", "spawnbm", "bmspawn"} }
func (c *SpawnMarket) Permission() string { return "blackmarketnpc.spawn" }

func (c *SpawnMarket) Handle(caller admin.Caller, _ []string) error {
	msgs := c.market.Messages()
	res := c.market.Spawn()
	if !res.OK() {
		caller.SendMessage(msgs.Outcome(res))
		return nil
	}

	loc := blackmarket.LocationText(res.Market.Location)
	caller.SendMessage(msgs.Format(blackmarket.KeySpawned, loc))
	caller.SendMessage(msgs.Format(blackmarket.KeyLocation, loc))
	return nil
}
