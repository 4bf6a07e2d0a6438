package battlefield

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLayout(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 42, 1337} {
		rows, err := GenerateLayout(rand.New(rand.NewSource(seed)), 16, 12)
		require.NoError(t, err, "seed %d", seed)
		require.Len(t, rows, 12)

		all := strings.Join(rows, "")
		assert.Equal(t, 4, strings.Count(all, string(GlyphPlayer)), "seed %d", seed)
		assert.Equal(t, 4, strings.Count(all, string(GlyphEnemy)), "seed %d", seed)
		for _, g := range []byte{GlyphExtraction, GlyphTerminal, GlyphDefense, GlyphVIP, GlyphBoss} {
			assert.Equal(t, 1, strings.Count(all, string(g)), "seed %d glyph %q", seed, g)
		}

		l, err := ParseLayout(rows, 1)
		require.NoError(t, err, "seed %d", seed)
		assert.Equal(t, 16, l.Grid.Width)
		assert.Equal(t, 15, l.Extraction.X, "extraction on the far edge")
		for _, p := range l.PlayerSpawns {
			assert.Equal(t, 1, p.X)
		}
	}
}

func TestGenerateLayout_Deterministic(t *testing.T) {
	a, err := GenerateLayout(rand.New(rand.NewSource(9)), 14, 10)
	require.NoError(t, err)
	b, err := GenerateLayout(rand.New(rand.NewSource(9)), 14, 10)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateLayout_TooSmall(t *testing.T) {
	_, err := GenerateLayout(rand.New(rand.NewSource(1)), 8, 12)
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)

	_, err = GenerateLayout(rand.New(rand.NewSource(1)), 16, 4)
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)
}

func TestRect_Intersects(t *testing.T) {
	r1 := Rect{0, 0, 4, 4}
	assert.True(t, r1.Intersects(Rect{2, 2, 4, 4}))
	assert.True(t, r1.Intersects(Rect{4, 0, 3, 3}), "touching rects leave no passage")
	assert.False(t, r1.Intersects(Rect{6, 6, 3, 3}))

	x, y := Rect{2, 4, 4, 3}.Center()
	assert.Equal(t, 4, x)
	assert.Equal(t, 5, y)
}

func TestSkirmish_GeneratedLayoutFitsEveryMission(t *testing.T) {
	missions := []domain.MissionType{
		domain.MissionElimination,
		domain.MissionExtraction,
		domain.MissionCapture,
		domain.MissionVIPRescue,
		domain.MissionHackTerminal,
		domain.MissionDefendPosition,
		domain.MissionBossEncounter,
	}
	for _, mt := range missions {
		s, err := NewSkirmish(rand.New(rand.NewSource(5))).
			WithGeneratedLayout(18, 12).
			WithMission(mt, 8).
			Build()
		require.NoError(t, err, mt.String())

		cfg := engine.NewConfig()
		cfg.Seed = 5
		b, err := engine.NewBattle(cfg, s.Grid, s.Units, s.Setup, nil)
		require.NoError(t, err, mt.String())
		require.NoError(t, b.Start(), mt.String())
		require.NoError(t, b.CheckInvariants(), mt.String())
	}
}
