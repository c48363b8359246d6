package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLevel = `{
  "enemies": [{"id": "w", "type": "wolf", "position": {"x": 100, "y": 0}, "health": 50, "attack_damage": 10}],
  "players": [],
  "hazards": [],
  "items": [],
  "game_info": {"time_remaining_s": 120, "score": 0},
  "own_player": {"id": "me", "position": {"x": 0, "y": 0}, "health": 100, "max_health": 100, "attack_damage": 10}
}`

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestBuildSchema(t *testing.T) {
	data, err := json.Marshal(buildSchema())
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, "Arena Level Data")
	for _, field := range []string{"own_player", "enemies", "game_info", "time_remaining_s"} {
		assert.Contains(t, s, field)
	}
}

func TestSchemaCommandWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.schema.json")
	execute(t, "schema", "--out", path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestDecideCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleLevel), 0o644))

	out := execute(t, "decide", path)
	assert.JSONEq(t, `["attack", {"move_to": {"x": 100, "y": 0}}]`, strings.TrimSpace(out))
}
