//go:build darwin

package hotkey

import xhotkey "golang.design/x/hotkey"

// modifierMap maps canonical modifier tokens to macOS modifier masks.
var modifierMap = map[Key]xhotkey.Modifier{
	KeyCtrl:  xhotkey.ModCtrl,
	KeyShift: xhotkey.ModShift,
	KeyAlt:   xhotkey.ModOption,
	KeyCmd:   xhotkey.ModCmd,
}
