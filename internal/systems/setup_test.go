package systems

import (
	"os"
	"testing"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize the global logger before running any tests
	logger.Init()

	// Exit with the result of the tests
	os.Exit(m.Run())
}

// scriptedRand - источник случайности с заранее заданной последовательностью
type scriptedRand struct {
	floats []float64
	ints   []int
}

func (s *scriptedRand) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.99
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedRand) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scriptedRand) Shuffle(n int, swap func(i, j int)) {}

// newShooter - стрелок в (0,0), смотрит вдоль +X
func newShooter(id domain.UnitID, team domain.Team) *domain.Unit {
	u := domain.NewUnit(id, string(id), team)
	u.Accuracy = 75
	u.Damage = 0
	u.Weapon = &domain.Weapon{Name: "Rifle", MinDamage: 10, MaxDamage: 10, AccuracyModifier: 10, Range: 10}
	return u
}

func place(t *testing.T, g *domain.Grid, u *domain.Unit, x, y int) {
	t.Helper()
	u.Pos = domain.Position{X: x, Y: y}
	if err := g.Occupy(u.Pos, u.ID); err != nil {
		t.Fatalf("place %s: %v", u.ID, err)
	}
}
