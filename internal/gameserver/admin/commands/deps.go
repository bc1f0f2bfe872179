package commands

import "github.com/udisondev/la2go-blackmarket/internal/blackmarket"

// Market is the black market handle the commands drive.
// Interface so commands can be tested without a world.
type Market interface {
	Spawn() blackmarket.Result
	Remove() blackmarket.Result
	Status() blackmarket.Status
	Messages() *blackmarket.Messages
}
