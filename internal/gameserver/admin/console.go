package admin

import (
	"fmt"
	"io"
	"sync"
)

// ConsoleCaller is the server console. It holds every permission.
type ConsoleCaller struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleCaller creates a console caller that prints replies to out.
func NewConsoleCaller(out io.Writer) *ConsoleCaller {
	return &ConsoleCaller{out: out}
}

func (c *ConsoleCaller) Name() string              { return "console" }
func (c *ConsoleCaller) HasPermission(string) bool { return true }

func (c *ConsoleCaller) SendMessage(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, msg)
}
