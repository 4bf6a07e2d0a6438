package domain

import "fmt"

// EquipmentType - категория снаряжения
type EquipmentType uint8

const (
	EquipmentArmor EquipmentType = iota
	EquipmentAccessory
	EquipmentConsumable
)

var equipmentTypeToString = map[EquipmentType]string{
	EquipmentArmor:      "ARMOR",
	EquipmentAccessory:  "ACCESSORY",
	EquipmentConsumable: "CONSUMABLE",
}

func (e EquipmentType) String() string {
	if s, ok := equipmentTypeToString[e]; ok {
		return s
	}
	return "UNKNOWN"
}

// Equipment - носимое снаряжение. Броня и аксессуары дают бонусы пока надеты,
// расходники (аптечка) тратят заряды.
type Equipment struct {
	Name string        `json:"name"`
	Type EquipmentType `json:"type"`

	// Броня
	ArmorBonus       int `json:"armorBonus,omitempty"` // + к макс. здоровью
	MobilityModifier int `json:"mobilityModifier,omitempty"`

	// Аксессуары
	HealthBonus     int `json:"healthBonus,omitempty"`
	CritChanceBonus int `json:"critChanceBonus,omitempty"`
	DodgeBonus      int `json:"dodgeBonus,omitempty"`

	// Расходники
	HealAmount int `json:"healAmount,omitempty"`
	Uses       int `json:"uses,omitempty"`

	// Гранаты: урон по площади, радиус взрыва, дальность броска
	BlastDamage int     `json:"blastDamage,omitempty"`
	BlastRadius float64 `json:"blastRadius,omitempty"`
	ThrowRange  int     `json:"throwRange,omitempty"`

	Equipped bool `json:"equipped"`
}

func (e *Equipment) apply(u *Unit, sign int) {
	switch e.Type {
	case EquipmentArmor:
		u.MaxHealth += sign * e.ArmorBonus
		u.MovementRange += sign * e.MobilityModifier
	case EquipmentAccessory:
		u.MaxHealth += sign * e.HealthBonus
		u.CritBonus += sign * e.CritChanceBonus
		u.Dodge += sign * e.DodgeBonus
	}
	if u.MovementRange < 0 {
		u.MovementRange = 0
	}
	if u.MaxHealth < 1 {
		u.MaxHealth = 1
	}
	if u.Health > u.MaxHealth {
		u.Health = u.MaxHealth
	}
}

// Item ищет снаряжение по имени
func (u *Unit) Item(name string) *Equipment {
	for _, e := range u.Equipment {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Equip надевает броню/аксессуар и применяет бонусы.
// Меняется только макс. здоровье: снять и надеть заново не лечит.
func (u *Unit) Equip(name string) error {
	e := u.Item(name)
	if e == nil {
		return fmt.Errorf("%w: %s does not carry %q", ErrInvalidTarget, u.ID, name)
	}
	if e.Type == EquipmentConsumable {
		return fmt.Errorf("%w: %q is a consumable", ErrIllegalAction, name)
	}
	if e.Equipped {
		return nil
	}
	e.apply(u, 1)
	e.Equipped = true
	return nil
}

// Unequip снимает снаряжение и убирает бонусы
func (u *Unit) Unequip(name string) error {
	e := u.Item(name)
	if e == nil {
		return fmt.Errorf("%w: %s does not carry %q", ErrInvalidTarget, u.ID, name)
	}
	if !e.Equipped {
		return nil
	}
	e.apply(u, -1)
	e.Equipped = false
	return nil
}

// UseConsumable тратит AP и один заряд расходника. Возвращает вылеченное здоровье.
func (u *Unit) UseConsumable(name string) (int, error) {
	e := u.Item(name)
	if e == nil {
		return 0, fmt.Errorf("%w: %s does not carry %q", ErrInvalidTarget, u.ID, name)
	}
	if e.Type != EquipmentConsumable {
		return 0, fmt.Errorf("%w: %q is not a consumable", ErrIllegalAction, name)
	}
	if e.IsThrowable() {
		return 0, fmt.Errorf("%w: %q has to be thrown", ErrIllegalAction, name)
	}
	if e.Uses <= 0 {
		return 0, fmt.Errorf("%w: %q has no uses left", ErrIllegalAction, name)
	}
	if err := u.SpendActionPoints(APCostUseItem); err != nil {
		return 0, err
	}
	e.Uses--
	return u.Heal(e.HealAmount), nil
}

// Medkit - стандартная аптечка
func Medkit() *Equipment {
	return &Equipment{Name: "Medkit", Type: EquipmentConsumable, HealAmount: 25, Uses: 1}
}

// IsThrowable - граната, применяется через THROW
func (e *Equipment) IsThrowable() bool {
	return e.Type == EquipmentConsumable && e.BlastDamage > 0
}

// Throwable находит гранату и проверяет дальность и заряды. Ничего не тратит.
func (u *Unit) Throwable(name string, at Position) (*Equipment, error) {
	e := u.Item(name)
	if e == nil {
		return nil, fmt.Errorf("%w: %s does not carry %q", ErrInvalidTarget, u.ID, name)
	}
	if !e.IsThrowable() {
		return nil, fmt.Errorf("%w: %q cannot be thrown", ErrIllegalAction, name)
	}
	if e.Uses <= 0 {
		return nil, fmt.Errorf("%w: %q has no uses left", ErrIllegalAction, name)
	}
	if !u.HasActionPoints(APCostThrow) {
		return nil, fmt.Errorf("%w: %s has no action points to throw", ErrIllegalAction, u.ID)
	}
	if u.Pos.DistanceTo(at) > float64(e.ThrowRange) {
		return nil, fmt.Errorf("%w: %v is out of throwing range", ErrInvalidTarget, at)
	}
	return e, nil
}

// Grenade - осколочная граната
func Grenade() *Equipment {
	return &Equipment{
		Name: "Frag Grenade", Type: EquipmentConsumable, Uses: 1,
		BlastDamage: 8, BlastRadius: 1.5, ThrowRange: 6,
	}
}
