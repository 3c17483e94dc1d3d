package shortcut

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/tmclane/bspwm/internal/keysym"
)

// Binding is a single grabbed key combination and the command string it is
// bound to, either a recognized internal command token or an arbitrary
// shell command line.
type Binding struct {
	Modifiers uint16
	Codes     []xproto.Keycode
	Command   string
}

// ApplyDefaultModifier prefixes every combo in table that names no modifier
// (no "-" separator, e.g. "j" rather than "Mod4-j") with the configured
// default modifier, so a shortcuts table written with bare keys resolves
// against it.
func ApplyDefaultModifier(table map[string]string, modifier string) map[string]string {
	out := make(map[string]string, len(table))
	for combo, command := range table {
		if modifier != "" && !strings.Contains(combo, "-") {
			combo = modifier + "-" + combo
		}
		out[combo] = command
	}
	return out
}

// Compile resolves every combo -> command entry of table (as loaded from
// configuration) into grabbable Bindings, using resolver for the
// combination grammar. A combo that fails to parse is reported but does
// not prevent the rest from loading.
func Compile(resolver *keysym.Resolver, table map[string]string) ([]Binding, []error) {
	var bindings []Binding
	var errs []error
	for combo, command := range table {
		b, err := resolver.Parse(combo)
		if err != nil {
			errs = append(errs, fmt.Errorf("shortcut: binding %q: %w", combo, err))
			continue
		}
		bindings = append(bindings, Binding{
			Modifiers: b.Modifiers,
			Codes:     b.Codes,
			Command:   command,
		})
	}
	return bindings, errs
}
