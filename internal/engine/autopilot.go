package engine

import (
	"fmt"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/pkg/logger"

	"github.com/sirupsen/logrus"
)

// AutoTurn отдает ход юнита игрока тому же ИИ, что управляет врагами,
// и завершает ход. Возвращает следующего активного юнита игрока ("" - ход не за игроком).
func (b *Battle) AutoTurn(id domain.UnitID) (domain.UnitID, error) {
	if b.Over() {
		return "", fmt.Errorf("%w: mission is %s", domain.ErrIllegalAction, b.Mission.Status())
	}
	actor := b.Scheduler.Active()
	if actor == nil || actor.ID != id || actor.IsAI() {
		return "", fmt.Errorf("%w: it is not %s's turn", domain.ErrIllegalAction, id)
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "autopilot",
		"unit_id":   id,
		"round":     b.Scheduler.Round(),
	}).Debug("Autopilot takes the turn.")

	b.AI.PerformTurn(actor)
	b.Mission.CheckObjectives(b)

	if !b.Over() && b.Scheduler.Active() == actor {
		if err := b.Scheduler.EndCurrentTurn(); err != nil {
			return "", err
		}
	}

	if b.Over() {
		return "", nil
	}
	if next := b.Scheduler.Active(); next != nil && !next.IsAI() {
		return next.ID, nil
	}
	return "", nil
}
