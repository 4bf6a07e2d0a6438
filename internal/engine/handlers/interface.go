package handlers

import (
	"encoding/json"

	"github.com/BastardoSenpai/BootlegXCom/internal/domain"
	"github.com/BastardoSenpai/BootlegXCom/internal/systems"
)

// Context передает хендлеру состояние боя.
// Мы передаем ссылки, чтобы хендлер мог менять состояние (мутировать данные).
type Context struct {
	Finder      systems.UnitProvider
	Grid        domain.GridService
	Resolver    *systems.Resolver
	Env         *systems.Environment
	Progression domain.ProgressionTuning
	Actor       *domain.Unit // Тот, кто выполняет команду

	// EndTurn передает ход планировщику
	EndTurn func() error
	// State строит снимок боя для клиента
	State func() any
}

// Result - возвращает результат выполнения команды.
// Хендлер НЕ пишет в логи боя напрямую, он возвращает данные.
// Отказ - это error (оборачивает domain.ErrIllegalAction / ErrInvalidTarget), Result при этом пустой.
type Result struct {
	Msg     string         // Текст лога
	MsgType string         // Тип лога (INFO, COMBAT, MISSION)
	Events  []domain.Event // События для рассылки, Round проставляет движок
	State   any            // Ответ на STATE
}

// HandlerFunc - это контракт для любой команды (MOVE, ATTACK, etc).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}

// Emit - событие от имени актора
func Emit(ctx Context, t domain.EventType, payload any) []domain.Event {
	return []domain.Event{{Type: t, UnitID: ctx.Actor.ID, Payload: payload}}
}
