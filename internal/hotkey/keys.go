// Package hotkey turns raw key press/release events into debounced
// start/stop recording transitions.
package hotkey

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"voxd/internal/domain"
)

// Key is a normalized key identifier: modifiers collapsed to a
// side-independent canonical token, character keys case-folded, special keys
// mapped to canonical names ("space", "enter", ...).
type Key string

// Canonical modifier and special key tokens.
const (
	KeyCtrl  Key = "ctrl"
	KeyShift Key = "shift"
	KeyAlt   Key = "alt"
	KeyCmd   Key = "cmd"
	KeySpace Key = "space"
	KeyEnter Key = "enter"
	KeyTab   Key = "tab"
	KeyEsc   Key = "esc"
)

// aliases maps accepted spellings onto canonical tokens. Left/right modifier
// variants collapse to one token each.
var aliases = map[string]Key{
	"ctrl": KeyCtrl, "control": KeyCtrl, "ctrl_l": KeyCtrl, "ctrl_r": KeyCtrl,
	"shift": KeyShift, "shift_l": KeyShift, "shift_r": KeyShift,
	"alt": KeyAlt, "alt_l": KeyAlt, "alt_r": KeyAlt, "alt_gr": KeyAlt, "menu": KeyAlt,
	"cmd": KeyCmd, "cmd_l": KeyCmd, "cmd_r": KeyCmd,
	"command": KeyCmd, "super": KeyCmd, "win": KeyCmd, "meta": KeyCmd,
	"space": KeySpace,
	"enter": KeyEnter, "return": KeyEnter,
	"tab":       KeyTab,
	"esc":       KeyEsc,
	"escape":    KeyEsc,
	"backspace": "backspace", "delete": "delete", "insert": "insert",
	"home": "home", "end": "end", "pageup": "pageup", "pagedown": "pagedown",
	"up": "up", "down": "down", "left": "left", "right": "right",
	"capslock": "capslock",
}

// NormalizeKey maps a raw key name onto its canonical Key, applying the same
// rules to press and release events. Returns false for names that have no
// canonical form.
func NormalizeKey(name string) (Key, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	// Character keys sent literally.
	switch name {
	case " ":
		return KeySpace, true
	case "\n", "\r":
		return KeyEnter, true
	case "\t":
		return KeyTab, true
	}

	lowered := strings.ToLower(name)
	lowered = strings.TrimSuffix(strings.TrimPrefix(lowered, "<"), ">")

	if k, ok := aliases[lowered]; ok {
		return k, true
	}
	if isFunctionKey(lowered) {
		return Key(lowered), true
	}
	if len([]rune(lowered)) == 1 {
		r := []rune(lowered)[0]
		if unicode.IsGraphic(r) && !unicode.IsSpace(r) {
			return Key(lowered), true
		}
	}
	return "", false
}

func isFunctionKey(s string) bool {
	if !strings.HasPrefix(s, "f") || len(s) < 2 {
		return false
	}
	n, err := strconv.Atoi(s[1:])
	return err == nil && n >= 1 && n <= 24
}

// Combination is the set of keys that must be held simultaneously to
// trigger a transition. Immutable once parsed.
type Combination map[Key]struct{}

// ParseCombination parses a hotkey string like "ctrl+shift+space" or
// "<ctrl>+<shift>+space" into a Combination. It fails on an empty string,
// on any unrecognized token, and on a combination that normalizes to an
// empty set.
func ParseCombination(spec string) (Combination, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, fmt.Errorf("%w: hotkey cannot be empty", domain.ErrInvalidHotkey)
	}

	combo := make(Combination)
	for _, part := range strings.Split(spec, "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, ok := NormalizeKey(part)
		if !ok {
			return nil, fmt.Errorf("%w: unrecognized key %q in %q", domain.ErrInvalidHotkey, part, spec)
		}
		combo[key] = struct{}{}
	}

	if len(combo) == 0 {
		return nil, fmt.Errorf("%w: %q did not map to any keys", domain.ErrInvalidHotkey, spec)
	}
	return combo, nil
}

// Contains reports whether k is a member of the combination.
func (c Combination) Contains(k Key) bool {
	_, ok := c[k]
	return ok
}

// Keys returns the members in unspecified order.
func (c Combination) Keys() []Key {
	keys := make([]Key, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

// String renders the combination for logs and status output.
func (c Combination) String() string {
	parts := make([]string, 0, len(c))
	for _, k := range c.Keys() {
		parts = append(parts, string(k))
	}
	return strings.Join(parts, "+")
}
