package scenario

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validTOML = `
name = "realtime-updates"

[[step]]
action = "navigate"
url = "/"

[[step]]
action = "click"
role = "link"
name = "Poker Online"

[[step]]
action = "assert-visible"
role = "cell"
name = "Player"
timeout_ms = 10000

[[step]]
action = "assert-text-visible"
text = "Pot: "
`

func TestParse(t *testing.T) {
	sc, err := Parse([]byte(validTOML))
	require.NoError(t, err)

	assert.Equal(t, "realtime-updates", sc.Name)
	require.Len(t, sc.Steps, 4)
	assert.Equal(t, ActionNavigate, sc.Steps[0].Action)
	assert.Equal(t, "Poker Online", sc.Steps[1].Name)
	assert.Equal(t, 10000, sc.Steps[2].TimeoutMS)
	assert.Equal(t, "Pot: ", sc.Steps[3].Text)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{
			name: "unknown action",
			toml: "name = \"x\"\n[[step]]\naction = \"double-click\"\nrole = \"button\"\nname = \"Connect\"\n",
		},
		{
			name: "navigate without url",
			toml: "name = \"x\"\n[[step]]\naction = \"navigate\"\n",
		},
		{
			name: "click without name",
			toml: "name = \"x\"\n[[step]]\naction = \"click\"\nrole = \"button\"\n",
		},
		{
			name: "assert-text without text",
			toml: "name = \"x\"\n[[step]]\naction = \"assert-text-visible\"\n",
		},
		{
			name: "no steps",
			toml: "name = \"x\"\n",
		},
		{
			name: "no name",
			toml: "[[step]]\naction = \"navigate\"\nurl = \"/\"\n",
		},
		{
			name: "not toml",
			toml: "{]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.toml")
	require.NoError(t, os.WriteFile(path, []byte(validTOML), 0o644))

	sc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "realtime-updates", sc.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestStepTimeout(t *testing.T) {
	assert.Equal(t, 10*time.Second, Step{}.Timeout(0))
	assert.Equal(t, 3*time.Second, Step{}.Timeout(3*time.Second))
	assert.Equal(t, 500*time.Millisecond, Step{TimeoutMS: 500}.Timeout(3*time.Second))
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "navigate /", Step{Action: ActionNavigate, URL: "/"}.String())
	assert.Equal(t, `click {role: button, name: "Connect"}`, Step{Action: ActionClick, Role: "button", Name: "Connect"}.String())
	assert.Equal(t, `assert-text-visible "Pot: "`, Step{Action: ActionAssertText, Text: "Pot: "}.String())
}

func TestBuiltins(t *testing.T) {
	for _, name := range []string{"", "realtime-updates", "autostart-snapshot"} {
		sc, ok := Builtin(name)
		require.True(t, ok, name)
		assert.NoError(t, sc.Validate())
	}

	_, ok := Builtin("nope")
	assert.False(t, ok)
}
