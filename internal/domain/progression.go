package domain

// ProgressionTuning - параметры роста (из конфига)
type ProgressionTuning struct {
	XPPerLevel          int `mapstructure:"xpPerLevel"`
	SkillPointsPerLevel int `mapstructure:"skillPointsPerLevel"`
	HealthPerLevel      int `mapstructure:"healthPerLevel"`
	AccuracyPerLevel    int `mapstructure:"accuracyPerLevel"`
	KillExperience      int `mapstructure:"killExperience"`
	MissionExperience   int `mapstructure:"missionExperience"`
}

func DefaultProgressionTuning() ProgressionTuning {
	return ProgressionTuning{
		XPPerLevel:          100,
		SkillPointsPerLevel: 2,
		HealthPerLevel:      5,
		AccuracyPerLevel:    2,
		KillExperience:      50,
		MissionExperience:   100,
	}
}

// Progression - опыт, уровень и очки навыков солдата
type Progression struct {
	Level       int `json:"level"`
	Experience  int `json:"experience"`
	SkillPoints int `json:"skillPoints"`
}

func NewProgression() *Progression {
	return &Progression{Level: 1}
}

// Threshold - опыт, нужный для следующего уровня
func (p *Progression) Threshold(t ProgressionTuning) int {
	return p.Level * t.XPPerLevel
}

// AddExperience копит опыт и поднимает уровни с переносом остатка.
// Возвращает число полученных уровней.
func (p *Progression) AddExperience(amount int, u *Unit, t ProgressionTuning) int {
	if amount <= 0 || t.XPPerLevel <= 0 {
		return 0
	}
	p.Experience += amount

	gained := 0
	for p.Experience >= p.Threshold(t) {
		p.Experience -= p.Threshold(t)
		p.Level++
		p.SkillPoints += t.SkillPointsPerLevel
		gained++

		if u != nil {
			u.MaxHealth += t.HealthPerLevel
			u.Health += t.HealthPerLevel
			u.Accuracy += t.AccuracyPerLevel
			if u.Dead {
				u.Health = 0
			}
		}
	}
	return gained
}
