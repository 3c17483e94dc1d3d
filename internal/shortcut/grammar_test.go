package shortcut

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaultModifierPrefixesBareKeys(t *testing.T) {
	out := ApplyDefaultModifier(map[string]string{"j": "focus_next"}, "Mod4")
	assert.Equal(t, "focus_next", out["Mod4-j"])
	assert.NotContains(t, out, "j")
}

func TestApplyDefaultModifierLeavesExplicitModifierAlone(t *testing.T) {
	out := ApplyDefaultModifier(map[string]string{"Mod1-Shift-j": "swap_next"}, "Mod4")
	assert.Equal(t, "swap_next", out["Mod1-Shift-j"])
}

func TestApplyDefaultModifierNoopWithoutDefault(t *testing.T) {
	out := ApplyDefaultModifier(map[string]string{"j": "focus_next"}, "")
	assert.Equal(t, "focus_next", out["j"])
}
