package domain

// Стоимость действий в очках действия (AP)
const (
	APCostMove    = 1
	APCostAttack  = 1
	APCostUseItem = 1
	APCostReload  = 1
)

// Базовые параметры юнита по умолчанию
const (
	DefaultMaxHealth       = 100
	DefaultMovementRange   = 5
	DefaultAttackRange     = 2
	DefaultActionPoints    = 2
	DefaultAccuracy        = 65
	MaxDefense             = 90
	BossHealOnPhaseDivisor = 10
)
