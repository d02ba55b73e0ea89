package search

import (
	"testing"

	"github.com/Another0Noob/levelsync/internal/levelindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"  Bloodbath  ":        "bloodbath",
		"Sonic   Wave [v2]":    "sonic wave v2",
		"Théory of Everything": "theory of everything",
		"ＡＢＣ１２３":               "abc123",
		"~~~":                  "",
		"":                     "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), in)
	}
}

func TestFind(t *testing.T) {
	ix := levelindex.Index{
		"Bloodbath":           10565740,
		"Bloodlust":           42584142,
		"Sonic Wave":          26681070,
		"Sonic Wave Infinity": 60000000,
		"Tartarus":            59075347,
	}

	got := Find(ix, "sonic wave", 0)
	require.Len(t, got, 2)
	assert.Equal(t, Match{Name: "Sonic Wave", ID: 26681070, MatchType: MatchExact}, got[0])
	assert.Equal(t, "Sonic Wave Infinity", got[1].Name)
	assert.Equal(t, MatchPrefix, got[1].MatchType)

	got = Find(ix, "bldbth", 0)
	require.NotEmpty(t, got)
	assert.Equal(t, "Bloodbath", got[0].Name)
	assert.Equal(t, MatchFuzzy, got[0].MatchType)

	got = Find(ix, "blood", 1)
	require.Len(t, got, 1)
	assert.Equal(t, MatchPrefix, got[0].MatchType)
}

func TestFindNoMatch(t *testing.T) {
	ix := levelindex.Index{"Tartarus": 1}
	assert.Empty(t, Find(ix, "zzz", 0))
	assert.Empty(t, Find(ix, "   ", 0))
	assert.Empty(t, Find(levelindex.Index{}, "tartarus", 0))
}

func TestFindSameNormalizedName(t *testing.T) {
	ix := levelindex.Index{"Cataclysm": 1, "CATACLYSM!": 2}
	got := Find(ix, "cataclysm", 0)
	require.Len(t, got, 2)
	assert.Equal(t, "CATACLYSM!", got[0].Name)
	assert.Equal(t, "Cataclysm", got[1].Name)
}
