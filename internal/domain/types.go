package domain

import "strings"

// UnitID - строковый идентификатор юнита (детерминированный, см. utils.GenerateDeterministicID)
type UnitID string

func (id UnitID) String() string { return string(id) }

// Team - сторона конфликта
type Team uint8

const (
	TeamPlayer Team = iota
	TeamEnemy
)

var teamToString = map[Team]string{
	TeamPlayer: "PLAYER",
	TeamEnemy:  "ENEMY",
}

func (t Team) String() string {
	if s, ok := teamToString[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// ParseTeam конвертирует строку в Team (по умолчанию - враг)
func ParseTeam(s string) Team {
	if strings.ToUpper(s) == "PLAYER" {
		return TeamPlayer
	}
	return TeamEnemy
}

// Rand - инжектируемый источник случайности.
// *math/rand.Rand удовлетворяет интерфейсу; глобальный rand в ядре не используется.
type Rand interface {
	Float64() float64
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}
