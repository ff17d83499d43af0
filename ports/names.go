// This file is part of inp2json.
//
// inp2json is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// inp2json is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with inp2json.  If not, see <https://www.gnu.org/licenses/>.

package ports

import (
	"fmt"
	"strings"
)

// ControlName derives the logical name of a control from its ioport type,
// player number and specific name. A non-empty specific name always wins.
// Otherwise the name is built from the type, prefixed with the player
// number for controls that belong to a numbered player:
//
//	ControlName("IPT_BUTTON1", 1, "")       ->  "P1 Button 1"
//	ControlName("IPT_JOYSTICK_UP", 2, "")   ->  "P2 Up"
//	ControlName("IPT_COIN1", 1, "")         ->  "Coin 1"
//	ControlName("IPT_BUTTON1", 1, "Fire")   ->  "Fire"
func ControlName(ipt string, player int, specific string) string {
	if s := strings.TrimSpace(specific); s != "" {
		return s
	}

	t, ok := strings.CutPrefix(ipt, "IPT_")
	if !ok {
		// not an ioport type name. return as-is rather than guessing
		return ipt
	}

	name := controlText(t)
	if player >= 1 && playerScoped(t) {
		return fmt.Sprintf("P%d %s", player, name)
	}
	return name
}

// controlText renders the IPT_* suffix as readable text.
func controlText(t string) string {
	// joystick types read better without the JOYSTICK prefix
	if s, ok := strings.CutPrefix(t, "JOYSTICKLEFT_"); ok {
		return "Left Stick " + titleWords(s)
	}
	if s, ok := strings.CutPrefix(t, "JOYSTICKRIGHT_"); ok {
		return "Right Stick " + titleWords(s)
	}
	if s, ok := strings.CutPrefix(t, "JOYSTICK_"); ok {
		return titleWords(s)
	}

	base, num := splitTrailingDigits(t)
	s := titleWords(base)
	if num != "" {
		s = s + " " + num
	}
	return s
}

// playerScoped reports whether a control of this type belongs to a
// numbered player, as opposed to the machine as a whole. Coin slots,
// service switches and the like are machine controls no matter which
// player value the reference data carries.
func playerScoped(t string) bool {
	// numbered start buttons are machine controls ("Start 2" selects a two
	// player game, it is not player 2's start button). the unnumbered
	// IPT_START of console-like machines is a player control
	if base, num := splitTrailingDigits(t); num != "" {
		t = base
	} else if t == "START" {
		return true
	}

	switch t {
	case "COIN", "BILL", "SERVICE", "TILT", "START",
		"POWER_ON", "POWER_OFF", "INTERLOCK", "MEMORY_RESET",
		"VOLUME_UP", "VOLUME_DOWN", "ADJUSTER",
		"DIPSWITCH", "CONFIG", "KEYBOARD", "KEYPAD",
		"INVALID", "UNUSED", "UNKNOWN", "END", "PORT",
		"OTHER", "SPECIAL", "CUSTOM", "OUTPUT", "OSD_":
		return false
	}

	if strings.HasPrefix(t, "UI_") || strings.HasPrefix(t, "OSD_") {
		return false
	}

	return true
}

// acronyms are kept upper case when prettifying
var acronyms = map[string]bool{
	"AD":  true,
	"UI":  true,
	"OSD": true,
}

// titleWords turns an underscore separated IPT_* suffix into words.
func titleWords(s string) string {
	w := strings.Split(strings.Trim(s, "_"), "_")
	for i := range w {
		if len(w[i]) == 0 || acronyms[w[i]] {
			continue
		}
		w[i] = strings.ToUpper(w[i][:1]) + strings.ToLower(w[i][1:])
	}
	return strings.Join(w, " ")
}

// splitTrailingDigits separates a trailing run of digits from a type
// suffix. A separating underscore stays with the base:
//
//	"BUTTON12"   ->  "BUTTON", "12"
//	"OSD_3"      ->  "OSD_", "3"
//	"PADDLE_V"   ->  "PADDLE_V", ""
func splitTrailingDigits(s string) (string, string) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) || i == 0 {
		return s, ""
	}
	return s[:i], s[i:]
}
