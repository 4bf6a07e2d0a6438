package domain

import "fmt"

// StatKind - характеристика, которую меняет навык
type StatKind uint8

const (
	StatHealth StatKind = iota
	StatAccuracy
	StatDamage
	StatMovement
	StatCrit
	StatActionPoints
)

// SkillEffect - эффект узла дерева: прибавка к характеристике или новая способность
type SkillEffect struct {
	Stat    StatKind `json:"stat"`
	Amount  int      `json:"amount,omitempty"`
	Ability *Ability `json:"ability,omitempty"` // если задана - Stat/Amount игнорируются
}

func StatBonus(stat StatKind, amount int) SkillEffect {
	return SkillEffect{Stat: stat, Amount: amount}
}

func GrantsAbility(a *Ability) SkillEffect {
	return SkillEffect{Ability: a}
}

// Apply применяет эффект к юниту
func (e SkillEffect) Apply(u *Unit) {
	if e.Ability != nil {
		u.GrantAbility(e.Ability)
		return
	}
	switch e.Stat {
	case StatHealth:
		u.MaxHealth += e.Amount
		u.Health += e.Amount
	case StatAccuracy:
		u.Accuracy += e.Amount
	case StatDamage:
		u.Damage += e.Amount
	case StatMovement:
		u.MovementRange += e.Amount
	case StatCrit:
		u.CritBonus += e.Amount
	case StatActionPoints:
		u.MaxActionPoints += e.Amount
	}
}

// SkillNode - узел арены. Parent = -1 у корней.
type SkillNode struct {
	Name          string      `json:"name"`
	Parent        int         `json:"parent"`
	Prerequisites []int       `json:"prerequisites,omitempty"`
	Effect        SkillEffect `json:"effect"`
	Unlocked      bool        `json:"unlocked"`
}

// SkillTree - дерево навыков класса в виде арены узлов с индексами родителей
type SkillTree struct {
	Nodes []SkillNode `json:"nodes"`

	index map[string]int
}

func NewSkillTree() *SkillTree {
	return &SkillTree{index: make(map[string]int)}
}

func (t *SkillTree) lookup(name string) (int, bool) {
	// После десериализации индекс пуст - строим заново
	if t.index == nil || len(t.index) != len(t.Nodes) {
		t.index = make(map[string]int, len(t.Nodes))
		for i, n := range t.Nodes {
			t.index[n.Name] = i
		}
	}
	i, ok := t.index[name]
	return i, ok
}

// Add добавляет узел. parent ("" - корень) автоматически считается пререквизитом.
func (t *SkillTree) Add(name, parent string, effect SkillEffect, prereqs ...string) error {
	if _, exists := t.lookup(name); exists {
		return fmt.Errorf("%w: skill %q already defined", ErrConfigurationMissing, name)
	}
	node := SkillNode{Name: name, Parent: -1, Effect: effect}
	if parent != "" {
		p, ok := t.lookup(parent)
		if !ok {
			return fmt.Errorf("%w: parent skill %q not defined", ErrConfigurationMissing, parent)
		}
		node.Parent = p
		node.Prerequisites = append(node.Prerequisites, p)
	}
	for _, pre := range prereqs {
		p, ok := t.lookup(pre)
		if !ok {
			return fmt.Errorf("%w: prerequisite %q not defined", ErrConfigurationMissing, pre)
		}
		node.Prerequisites = append(node.Prerequisites, p)
	}
	t.Nodes = append(t.Nodes, node)
	t.index[node.Name] = len(t.Nodes) - 1
	return nil
}

// Node возвращает узел по имени
func (t *SkillTree) Node(name string) (*SkillNode, bool) {
	i, ok := t.lookup(name)
	if !ok {
		return nil, false
	}
	return &t.Nodes[i], true
}

// Path возвращает цепочку от корня до узла (итеративно по индексам родителей)
func (t *SkillTree) Path(name string) []string {
	i, ok := t.lookup(name)
	if !ok {
		return nil
	}
	var rev []string
	for i >= 0 {
		rev = append(rev, t.Nodes[i].Name)
		i = t.Nodes[i].Parent
	}
	out := make([]string, len(rev))
	for k := range rev {
		out[k] = rev[len(rev)-1-k]
	}
	return out
}

// Children возвращает прямых потомков узла
func (t *SkillTree) Children(name string) []string {
	i, ok := t.lookup(name)
	if !ok {
		return nil
	}
	var out []string
	for _, n := range t.Nodes {
		if n.Parent == i {
			out = append(out, n.Name)
		}
	}
	return out
}

// Available - узлы, которые можно открыть прямо сейчас (без учета очков)
func (t *SkillTree) Available() []string {
	var out []string
	for i := range t.Nodes {
		if !t.Nodes[i].Unlocked && t.prerequisitesMet(i) {
			out = append(out, t.Nodes[i].Name)
		}
	}
	return out
}

func (t *SkillTree) prerequisitesMet(i int) bool {
	for _, p := range t.Nodes[i].Prerequisites {
		if !t.Nodes[p].Unlocked {
			return false
		}
	}
	return true
}

// Unlock открывает навык за одно очко навыков.
// Повторное открытие - no-op (false, nil), эффект применяется ровно один раз.
func (t *SkillTree) Unlock(name string, u *Unit) (bool, error) {
	i, ok := t.lookup(name)
	if !ok {
		return false, fmt.Errorf("%w: unknown skill %q", ErrInvalidTarget, name)
	}
	node := &t.Nodes[i]
	if node.Unlocked {
		return false, nil
	}
	if !t.prerequisitesMet(i) {
		return false, fmt.Errorf("%w: prerequisites of %q are locked", ErrIllegalAction, name)
	}
	if u.Progression == nil || u.Progression.SkillPoints < 1 {
		return false, fmt.Errorf("%w: %s has no skill points", ErrIllegalAction, u.ID)
	}

	u.Progression.SkillPoints--
	node.Unlocked = true
	node.Effect.Apply(u)
	return true, nil
}
