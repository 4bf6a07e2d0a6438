package agent

import (
	"context"
	"errors"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/internal/engine"
	"github.com/BastardoSenpai/BootlegXCom/internal/network"
	"github.com/BastardoSenpai/BootlegXCom/pkg/api"
	"github.com/BastardoSenpai/BootlegXCom/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Bot - автопилот отряда (Headless Agent).
// Подписывается на события боя как обычный клиент и, когда начинается ход
// солдата, отдает этот ход ИИ через сессию.
//
// Жизненный цикл:
//  1. NewBot -> регистрация в хабе, личный канал Inbox.
//  2. Run -> слушает Inbox в отдельной горутине.
//  3. TURN_STARTED юнита игрока -> Session.AutoPlay, пока ход остается за отрядом.
type Bot struct {
	ID      string
	Session *engine.Session
	Hub     *network.Broadcaster
	Inbox   chan api.ServerEvent

	log *logrus.Entry
}

func NewBot(id string, session *engine.Session, hub *network.Broadcaster) *Bot {
	return &Bot{
		ID:      id,
		Session: session,
		Hub:     hub,
		Inbox:   hub.Register(id),
		log: logger.Log.WithFields(logrus.Fields{
			"component": "autopilot",
			"client_id": id,
		}),
	}
}

// Run работает до отмены контекста или остановки сессии
func (b *Bot) Run(ctx context.Context) {
	defer b.Hub.Release(b.ID, b.Inbox)
	b.log.Info("Autopilot started.")

	// Ход мог начаться до подписки
	if st, err := b.Session.State(ctx); err == nil && st.ActiveUnitID != "" {
		if !b.play(ctx, domain.UnitID(st.ActiveUnitID)) {
			return
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-b.Inbox:
			if !ok {
				b.log.Info("Autopilot unsubscribed.")
				return
			}
			if ev.Type != domain.EventTurnStarted.String() {
				continue
			}
			if ts, ok := ev.Payload.(engine.TurnStarted); ok && ts.AI {
				continue
			}
			if !b.play(ctx, domain.UnitID(ev.UnitID)) {
				return
			}
		}
	}
}

// play ведет отряд, пока ход за игроком. false - сессия закрыта.
func (b *Bot) play(ctx context.Context, id domain.UnitID) bool {
	for id != "" {
		next, err := b.Session.AutoPlay(ctx, id)
		switch {
		case errors.Is(err, engine.ErrSessionClosed), ctx.Err() != nil:
			return false
		case errors.Is(err, domain.ErrIllegalAction):
			// Событие устарело: ход уже сыгран или бой окончен
			b.log.WithField("unit_id", id).WithError(err).Debug("Stale turn skipped.")
			return true
		case err != nil:
			b.log.WithField("unit_id", id).WithError(err).Error("Autopilot turn failed.")
			return true
		}
		id = next
	}
	return true
}
