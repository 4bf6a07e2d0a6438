package domain

import "errors"

// Ошибки ядра. Все отказы оборачивают одну из них: fmt.Errorf("%w: ...").
// Отказанная операция ничего не меняет.
var (
	// ErrIllegalAction - нет AP, цель вне дальности/видимости, занятая клетка и т.д.
	ErrIllegalAction = errors.New("illegal action")
	// ErrInvalidTarget - цель мертва, не существует или из своей команды
	ErrInvalidTarget = errors.New("invalid target")
	// ErrConfigurationMissing - миссия ссылается на неназначенную точку
	ErrConfigurationMissing = errors.New("configuration missing")
)
