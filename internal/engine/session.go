package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/internal/engine/handlers"
	"github.com/BastardoSenpai/BootlegXCom/pkg/api"
	"github.com/BastardoSenpai/BootlegXCom/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ErrSessionClosed - цикл сессии уже остановлен
var ErrSessionClosed = errors.New("session closed")

// Состояния запроса: ждет в очереди, взят циклом, брошен вызывающим
const (
	requestPending int32 = iota
	requestClaimed
	requestAbandoned
)

// request - работа, которую нужно выполнить в горутине боя.
// fn выполняется, только если цикл успел забрать запрос раньше отмены.
type request struct {
	fn    func(b *Battle)
	done  chan struct{}
	state atomic.Int32
}

// claim - цикл забирает запрос; false, если вызывающий уже ушел
func (r *request) claim() bool {
	return r.state.CompareAndSwap(requestPending, requestClaimed)
}

// abandon - вызывающий отказывается от запроса; false, если fn уже выполняется
func (r *request) abandon() bool {
	return r.state.CompareAndSwap(requestPending, requestAbandoned)
}

// Session владеет боем и сериализует доступ к нему: все команды
// (websocket, отладка, сохранение) выполняются в одной горутине Run.
type Session struct {
	battle      *Battle
	requests    chan *request
	stopped     chan struct{}
	turnTimeout time.Duration
}

func NewSession(b *Battle) *Session {
	return &Session{
		battle:      b,
		requests:    make(chan *request, 100),
		stopped:     make(chan struct{}),
		turnTimeout: b.Config().TurnTimeout,
	}
}

// Run запускает бой и обрабатывает запросы до отмены контекста.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.stopped)

	if err := s.battle.Start(); err != nil {
		return err
	}
	logger.Log.WithField("component", "session").Info("Session loop started")

	var (
		turnKey  string
		deadline <-chan time.Time
	)

	for {
		// Таймер хода переустанавливается при смене активного юнита
		if key := s.turnKey(); key != turnKey {
			turnKey = key
			deadline = nil
			if key != "" && s.turnTimeout > 0 {
				deadline = time.After(s.turnTimeout)
			}
		}

		select {
		case <-ctx.Done():
			logger.Log.WithField("component", "session").Info("Session loop stopped")
			return ctx.Err()

		case req := <-s.requests:
			if req.claim() {
				req.fn(s.battle)
			}
			close(req.done)

		case <-deadline:
			active := s.battle.Scheduler.Active()
			logger.Log.WithFields(logrus.Fields{
				"component": "session",
				"unit_id":   active.ID,
				"round":     s.battle.Scheduler.Round(),
			}).Warn("Turn timed out")
			s.battle.AddLog(fmt.Sprintf("%s не успевает походить.", active.Name), "INFO")
			if err := s.battle.Scheduler.EndCurrentTurn(); err != nil {
				logger.Log.WithError(err).Error("Failed to end timed out turn")
			}
			turnKey = ""
		}
	}
}

// turnKey - ход игрока, который сейчас ждет команду ("" - никто не ждет)
func (s *Session) turnKey() string {
	if s.battle.Over() {
		return ""
	}
	active := s.battle.Scheduler.Active()
	if active == nil || active.IsAI() {
		return ""
	}
	return fmt.Sprintf("%d:%s", s.battle.Scheduler.Round(), active.ID)
}

// Do выполняет fn в горутине боя и ждет завершения.
// Ошибка контекста означает, что fn не выполнялась и не будет выполнена.
// Если цикл уже взял запрос, Do дожидается fn и возвращает nil.
func (s *Session) Do(ctx context.Context, fn func(b *Battle)) error {
	req := &request{fn: fn, done: make(chan struct{})}

	select {
	case s.requests <- req:
	case <-s.stopped:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-req.done:
		return nil
	case <-s.stopped:
		return s.settle(req)
	case <-ctx.Done():
		if req.abandon() {
			return ctx.Err()
		}
		<-req.done
		return nil
	}
}

// settle - цикл остановлен: запрос либо выполнен до остановки, либо уже не будет
func (s *Session) settle(req *request) error {
	if req.abandon() {
		return ErrSessionClosed
	}
	<-req.done
	return nil
}

// Submit выполняет команду игрока
func (s *Session) Submit(ctx context.Context, cmd domain.InternalCommand) (handlers.Result, error) {
	var (
		res handlers.Result
		err error
	)
	if doErr := s.Do(ctx, func(b *Battle) { res, err = b.Execute(cmd) }); doErr != nil {
		return handlers.Result{}, doErr
	}
	return res, err
}

// ProcessCommand принимает команду от внешнего мира (WebSocket).
// Token сверяется с активным юнитом внутри боя.
func (s *Session) ProcessCommand(ctx context.Context, externalCmd api.ClientCommand) (handlers.Result, error) {
	actionType := domain.ParseAction(externalCmd.Action)
	if actionType == domain.ActionUnknown {
		return handlers.Result{}, fmt.Errorf("%w: unknown action %q", domain.ErrIllegalAction, externalCmd.Action)
	}

	return s.Submit(ctx, domain.InternalCommand{
		Action:  actionType,
		Token:   domain.UnitID(externalCmd.Token),
		Payload: externalCmd.Payload,
	})
}

// Snapshot снимает состояние боя между командами
func (s *Session) Snapshot(ctx context.Context) (BattleSnapshot, error) {
	var snap BattleSnapshot
	err := s.Do(ctx, func(b *Battle) { snap = b.Snapshot() })
	return snap, err
}

// State - снимок для клиента
func (s *Session) State(ctx context.Context) (api.ServerResponse, error) {
	var st api.ServerResponse
	err := s.Do(ctx, func(b *Battle) { st = b.State() })
	return st, err
}

// QueueDump - очередь ходов для отладки
func (s *Session) QueueDump(ctx context.Context) ([]map[string]interface{}, error) {
	var dump []map[string]interface{}
	err := s.Do(ctx, func(b *Battle) { dump = b.Scheduler.Turns().DebugDump() })
	return dump, err
}

// AutoPlay - ход юнита игрока под управлением ИИ (см. Battle.AutoTurn)
func (s *Session) AutoPlay(ctx context.Context, id domain.UnitID) (domain.UnitID, error) {
	var (
		next domain.UnitID
		err  error
	)
	if doErr := s.Do(ctx, func(b *Battle) { next, err = b.AutoTurn(id) }); doErr != nil {
		return "", doErr
	}
	return next, err
}
