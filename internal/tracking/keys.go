package tracking

import (
	"errors"
	"fmt"
	"strings"

	hook "github.com/robotn/gohook"
)

var ErrUnknownKey = errors.New("unknown key name")

var keyAliases = map[string]string{
	"escape": "esc",
	"return": "enter",
	"del":    "delete",
}

// LookupKey resolves a key name such as "esc" or "f8" to the key code carried
// by Key.Code.
func LookupKey(name string) (uint16, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := keyAliases[normalized]; ok {
		normalized = alias
	}
	code, ok := hook.Keycode[normalized]
	if !ok {
		return 0, fmt.Errorf("%q: %w", name, ErrUnknownKey)
	}
	return code, nil
}
