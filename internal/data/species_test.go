package data

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickworld/server/internal/display"
)

func TestDefaultSpeciesTable(t *testing.T) {
	tbl, err := DefaultSpeciesTable()
	require.NoError(t, err)
	assert.Equal(t, 7, tbl.Count())

	orc, ok := tbl.Get(MobOrcStrong)
	require.True(t, ok)
	assert.Equal(t, "Big Orc", orc.Name)
	assert.Equal(t, CategoryOrc, orc.Category)
	assert.Equal(t, 6, orc.Health)
	assert.Equal(t, 5, orc.Strength)
	assert.Equal(t, display.ColorGreen, orc.Appearance.FG)
	require.Len(t, orc.Parts, 2)
	assert.Equal(t, `\|`, orc.Parts[0].Frames)
	assert.Equal(t, [2]int{-1, 1}, orc.Parts[0].Offset)
	assert.Equal(t, display.LayerMobBelow, orc.Parts[1].Layer)

	snake, ok := tbl.Get(MobSnake)
	require.True(t, ok)
	require.Len(t, snake.Parts, 1)
	assert.True(t, snake.Parts[0].FollowDir)

	player, ok := tbl.Get(MobPlayer)
	require.True(t, ok)
	assert.Equal(t, display.ColorDefault, player.Appearance.FG)
}

func TestLookupUnknownSpecies(t *testing.T) {
	tbl, err := DefaultSpeciesTable()
	require.NoError(t, err)
	_, err = tbl.Lookup("dragon")
	assert.True(t, errors.Is(err, ErrUnknownSpecies))
	assert.Equal(t, MobOrcStrong, tbl.Types()[0])
}

func TestParseSpeciesTableRejectsBadEntries(t *testing.T) {
	cases := map[string]string{
		"bad color":      "species: [{type: a, appearance: {frames: x, fg: mauve}}]",
		"bad category":   "species: [{type: a, category: dragon, appearance: {frames: x}}]",
		"no frames":      "species: [{type: a}]",
		"duplicate":      "species: [{type: a, appearance: {frames: x}}, {type: a, appearance: {frames: y}}]",
		"too many parts": `species: [{type: a, appearance: {frames: x}, parts: [{frames: a}, {frames: b}, {frames: c}]}]`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSpeciesTable([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadSpeciesTableFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "species.yaml")
	doc := "species:\n  - type: slime\n    name: Slime\n    health: 2\n    appearance: {frames: s, fg: cyan}\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	tbl, err := LoadSpeciesTable(path)
	require.NoError(t, err)
	sp, ok := tbl.Get("slime")
	require.True(t, ok)
	assert.Equal(t, CategoryUnknown, sp.Category)
	assert.Equal(t, display.ColorCyan, sp.Appearance.FG)

	_, err = LoadSpeciesTable(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
