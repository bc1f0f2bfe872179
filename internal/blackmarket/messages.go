package blackmarket

import (
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/udisondev/la2go-blackmarket/internal/model"
)

// Message keys.
const (
	KeySpawned        = "blackmarket_spawned"
	KeyDespawned      = "blackmarket_despawned"
	KeyAlreadyActive  = "blackmarket_already_active"
	KeyNotActive      = "blackmarket_not_active"
	KeyStatus         = "blackmarket_status"
	KeyNext           = "blackmarket_next"
	KeyLocation       = "blackmarket_location"
	KeyNoLocation     = "blackmarket_no_location"
	KeyClosesIn       = "blackmarket_closes_in"
	KeyNotConfigured  = "blackmarket_not_configured"
	KeyUnknownAsset   = "blackmarket_unknown_asset"
	KeySpawnFailed    = "blackmarket_spawn_failed"
	KeyNoPermission   = "command_no_permission"
	KeyUnknownCommand = "command_unknown"
	KeyRateLimited    = "command_rate_limited"
	KeyJoinRejected   = "join_rejected"
	KeyJoinNameTaken  = "join_name_taken"
)

var defaultMessages = map[string]string{
	KeySpawned:        "Black Market has appeared at {0}!",
	KeyDespawned:      "Black Market has closed.",
	KeyAlreadyActive:  "Black Market is already active.",
	KeyNotActive:      "No active Black Market.",
	KeyStatus:         "Black Market is currently {0}.",
	KeyNext:           "Next Black Market in {0}.",
	KeyLocation:       "Location: {0}",
	KeyNoLocation:     "Unable to find suitable location for Black Market.",
	KeyClosesIn:       "(Closes in {0})",
	KeyNotConfigured:  "Black Market NPC is not configured.",
	KeyUnknownAsset:   "Black Market NPC is unavailable: {0}",
	KeySpawnFailed:    "Failed to spawn Black Market: {0}",
	KeyNoPermission:   "You do not have permission to use /{0}.",
	KeyUnknownCommand: "Unknown command: /{0}",
	KeyRateLimited:    "You are sending commands too fast.",
	KeyJoinRejected:   "Invalid name or password.",
	KeyJoinNameTaken:  "Name {0} is already in use.",
}

// Messages is a set of text templates with positional {N} placeholders.
type Messages struct {
	templates map[string]string
}

// NewMessages returns the default templates with overrides applied.
// Empty overrides are ignored.
func NewMessages(overrides map[string]string) *Messages {
	t := maps.Clone(defaultMessages)
	for k, v := range overrides {
		if v != "" {
			t[k] = v
		}
	}
	return &Messages{templates: t}
}

// Format renders the template for key, replacing {0}, {1}, ... with args.
// Unknown keys render as the key itself.
func (m *Messages) Format(key string, args ...any) string {
	tmpl, ok := m.templates[key]
	if !ok {
		tmpl = key
	}
	if len(args) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(args)*2)
	for i, a := range args {
		pairs = append(pairs, "{"+strconv.Itoa(i)+"}", fmt.Sprint(a))
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// Spawned is the spawn announcement for loc.
func (m *Messages) Spawned(loc model.Location) string {
	return m.Format(KeySpawned, LocationText(loc))
}

// Despawned is the despawn announcement.
func (m *Messages) Despawned() string {
	return m.Format(KeyDespawned)
}

// Outcome renders a failed result for the caller.
func (m *Messages) Outcome(r Result) string {
	switch r.Outcome {
	case OutcomeOK:
		return m.Spawned(r.Market.Location)
	case OutcomeAlreadyActive:
		return m.Format(KeyAlreadyActive)
	case OutcomeNotActive:
		return m.Format(KeyNotActive)
	case OutcomeNoLocation:
		return m.Format(KeyNoLocation)
	case OutcomeNotConfigured:
		return m.Format(KeyNotConfigured)
	case OutcomeUnknownAsset:
		return m.Format(KeyUnknownAsset, r.Err)
	default:
		return m.Format(KeySpawnFailed, r.Err)
	}
}

// Status renders a status line.
func (m *Messages) Status(st Status) string {
	state := "inactive"
	if st.Active {
		state = "active"
	}

	var b strings.Builder
	b.WriteString(m.Format(KeyStatus, state))

	switch {
	case st.Active:
		b.WriteString(" ")
		b.WriteString(m.Format(KeyLocation, LocationText(st.Market.Location)))
		if st.ClosesIn > 0 {
			b.WriteString(" ")
			b.WriteString(m.Format(KeyClosesIn, FormatDuration(st.ClosesIn)))
		}
	case st.AutoSpawn && st.NextSpawnIn > 0:
		b.WriteString(" ")
		b.WriteString(m.Format(KeyNext, FormatDuration(st.NextSpawnIn)))
	}
	return b.String()
}

// LocationText renders the horizontal position as "(X, Y)" rounded to integers.
func LocationText(loc model.Location) string {
	return fmt.Sprintf("(%.0f, %.0f)", loc.X(), loc.Y())
}

// FormatDuration renders d as HH:MM:SS when at least an hour, else MM:SS.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	h, mnt, s := total/3600, total/60%60, total%60
	if h >= 1 {
		return fmt.Sprintf("%02d:%02d:%02d", h, mnt, s)
	}
	return fmt.Sprintf("%02d:%02d", mnt, s)
}
