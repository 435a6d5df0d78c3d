//go:build linux

package hotkey

import xhotkey "golang.design/x/hotkey"

// modifierMap maps canonical modifier tokens to X11 modifier masks.
// Alt is Mod1 and Super/Win is Mod4 under X11.
var modifierMap = map[Key]xhotkey.Modifier{
	KeyCtrl:  xhotkey.ModCtrl,
	KeyShift: xhotkey.ModShift,
	KeyAlt:   xhotkey.Mod1,
	KeyCmd:   xhotkey.Mod4,
}
