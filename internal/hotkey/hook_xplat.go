//go:build !windows

package hotkey

import (
	"fmt"
	"sync"

	xhotkey "golang.design/x/hotkey"
)

// xplatHook backs the listener with golang.design/x/hotkey on Linux (X11)
// and macOS. The library reports combination-level Keydown/Keyup rather than
// per-key events, so each Keydown is fanned out as synthetic presses of the
// combination's members and each Keyup as synthetic releases. The state
// machine sees the same event shape on every platform.
type xplatHook struct {
	combo  Combination
	hk     *xhotkey.Hotkey
	events chan KeyEvent

	mu   sync.Mutex
	quit chan struct{}
}

func newPlatformHook(combo Combination) (Hook, error) {
	mods, key, err := splitForPlatform(combo)
	if err != nil {
		return nil, err
	}
	return &xplatHook{
		combo:  combo,
		hk:     xhotkey.New(mods, key),
		events: make(chan KeyEvent, 64),
	}, nil
}

// splitForPlatform separates the combination into registered-hotkey form:
// any number of modifiers plus exactly one regular key.
func splitForPlatform(combo Combination) ([]xhotkey.Modifier, xhotkey.Key, error) {
	var mods []xhotkey.Modifier
	var regular []Key

	for k := range combo {
		if mod, ok := modifierMap[k]; ok {
			mods = append(mods, mod)
			continue
		}
		regular = append(regular, k)
	}

	if len(regular) != 1 {
		return nil, 0, fmt.Errorf("hotkey %q: platform hook needs exactly one non-modifier key, got %d",
			combo.String(), len(regular))
	}
	key, ok := keyMap(regular[0])
	if !ok {
		return nil, 0, fmt.Errorf("hotkey %q: key %q not supported by the platform hook",
			combo.String(), regular[0])
	}
	return mods, key, nil
}

// keyMap resolves the single regular key to the library's key code. The
// constant names are shared across the library's platform files, so only the
// modifier masks need per-platform mapping.
func keyMap(k Key) (xhotkey.Key, bool) {
	switch k {
	case KeySpace:
		return xhotkey.KeySpace, true
	case KeyEnter:
		return xhotkey.KeyReturn, true
	case KeyEsc:
		return xhotkey.KeyEscape, true
	case "tab":
		return xhotkey.KeyTab, true
	case "delete":
		return xhotkey.KeyDelete, true
	case "up":
		return xhotkey.KeyUp, true
	case "down":
		return xhotkey.KeyDown, true
	case "left":
		return xhotkey.KeyLeft, true
	case "right":
		return xhotkey.KeyRight, true
	}

	if code, ok := namedKeys[k]; ok {
		return code, true
	}
	return 0, false
}

// namedKeys lists the regular keys the library exposes on every platform.
// Key codes are not contiguous on macOS, so each letter is mapped explicitly.
var namedKeys = map[Key]xhotkey.Key{
	"a": xhotkey.KeyA, "b": xhotkey.KeyB, "c": xhotkey.KeyC, "d": xhotkey.KeyD,
	"e": xhotkey.KeyE, "f": xhotkey.KeyF, "g": xhotkey.KeyG, "h": xhotkey.KeyH,
	"i": xhotkey.KeyI, "j": xhotkey.KeyJ, "k": xhotkey.KeyK, "l": xhotkey.KeyL,
	"m": xhotkey.KeyM, "n": xhotkey.KeyN, "o": xhotkey.KeyO, "p": xhotkey.KeyP,
	"q": xhotkey.KeyQ, "r": xhotkey.KeyR, "s": xhotkey.KeyS, "t": xhotkey.KeyT,
	"u": xhotkey.KeyU, "v": xhotkey.KeyV, "w": xhotkey.KeyW, "x": xhotkey.KeyX,
	"y": xhotkey.KeyY, "z": xhotkey.KeyZ,
	"0": xhotkey.Key0, "1": xhotkey.Key1, "2": xhotkey.Key2, "3": xhotkey.Key3,
	"4": xhotkey.Key4, "5": xhotkey.Key5, "6": xhotkey.Key6, "7": xhotkey.Key7,
	"8": xhotkey.Key8, "9": xhotkey.Key9,
	"f1": xhotkey.KeyF1, "f2": xhotkey.KeyF2, "f3": xhotkey.KeyF3,
	"f4": xhotkey.KeyF4, "f5": xhotkey.KeyF5, "f6": xhotkey.KeyF6,
	"f7": xhotkey.KeyF7, "f8": xhotkey.KeyF8, "f9": xhotkey.KeyF9,
	"f10": xhotkey.KeyF10, "f11": xhotkey.KeyF11, "f12": xhotkey.KeyF12,
}

func (h *xplatHook) Start() (<-chan KeyEvent, error) {
	if err := h.hk.Register(); err != nil {
		return nil, fmt.Errorf("register hotkey: %w", err)
	}

	h.mu.Lock()
	h.quit = make(chan struct{})
	quit := h.quit
	h.mu.Unlock()

	go func() {
		defer close(h.events)
		for {
			select {
			case <-quit:
				return
			case <-h.hk.Keydown():
				h.fanOut(true)
			case <-h.hk.Keyup():
				h.fanOut(false)
			}
		}
	}()
	return h.events, nil
}

func (h *xplatHook) fanOut(press bool) {
	for k := range h.combo {
		select {
		case h.events <- KeyEvent{Key: k, Press: press}:
		default:
		}
	}
}

func (h *xplatHook) Stop() error {
	h.mu.Lock()
	quit := h.quit
	h.quit = nil
	h.mu.Unlock()
	if quit != nil {
		close(quit)
	}
	return h.hk.Unregister()
}
