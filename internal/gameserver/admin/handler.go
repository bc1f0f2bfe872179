package admin

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Message keys used by the handler itself.
const (
	KeyNoPermission   = "command_no_permission"
	KeyUnknownCommand = "command_unknown"
)

// Caller is whoever issued a command: a connected player or the server console.
type Caller interface {
	Name() string
	HasPermission(perm string) bool
	SendMessage(msg string)
}

// Command is a chat/console command (/command).
// Each command registers one or more names and the permission it requires.
type Command interface {
	// Handle executes the command. args includes command name at [0].
	Handle(caller Caller, args []string) error
	// Names returns all registered command names (without / prefix).
	Names() []string
	// Permission returns the permission node needed to run the command.
	Permission() string
}

// Texts renders message templates.
type Texts interface {
	Format(key string, args ...any) string
}

// Handler dispatches commands by name.
// Thread-safe: commands are registered once at startup, then read-only.
type Handler struct {
	mu    sync.RWMutex
	cmds  map[string]Command // name → Command (lowercase)
	texts Texts
}

// NewHandler creates a new command handler.
func NewHandler(texts Texts) *Handler {
	return &Handler{
		cmds:  make(map[string]Command, 8),
		texts: texts,
	}
}

// Register registers a command under all its names.
// All command names are lowercased for case-insensitive lookup.
func (h *Handler) Register(cmd Command) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, name := range cmd.Names() {
		h.cmds[strings.ToLower(name)] = cmd
	}
}

// Handle processes a command line.
// Returns true if a command was found and executed.
// text is the full message WITHOUT the / prefix.
func (h *Handler) Handle(caller Caller, text string) bool {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return false
	}
	cmdName := strings.ToLower(parts[0])

	h.mu.RLock()
	cmd, ok := h.cmds[cmdName]
	h.mu.RUnlock()

	if !ok {
		caller.SendMessage(h.texts.Format(KeyUnknownCommand, cmdName))
		return false
	}

	if perm := cmd.Permission(); perm != "" && !caller.HasPermission(perm) {
		caller.SendMessage(h.texts.Format(KeyNoPermission, cmdName))
		slog.Warn("command permission denied",
			"caller", caller.Name(),
			"command", cmdName,
			"permission", perm)
		return false
	}

	slog.Info("command",
		"caller", caller.Name(),
		"command", text)

	if err := cmd.Handle(caller, parts); err != nil {
		caller.SendMessage(fmt.Sprintf("Command error: %s", err))
		slog.Error("command failed",
			"caller", caller.Name(),
			"command", text,
			"error", err)
	}

	return true
}

// CommandCount returns number of registered command names.
func (h *Handler) CommandCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.cmds)
}
