package handlers

import (
	"encoding/json"
	"math/rand"

	"voidreach-server/internal/domain"
	"voidreach-server/internal/systems"
)

// Context передает хендлеру состояние сессии.
// Хендлеры исполнения мутируют состояние напрямую; хендлеры валидации
// ОБЯЗАНЫ быть чистыми (спекулятивная проверка до коммита хода).
type Context struct {
	Session  *domain.Session
	Faction  *domain.Faction // Фракция, отдавшая команду
	PlayerID domain.PlayerID

	// View - туман войны фракции. Команда не может легально ссылаться
	// на сущности, о которых фракция не знает.
	View *systems.View

	// Rand - детерминированный генератор текущего хода.
	// Только для хендлеров исполнения.
	Rand *rand.Rand
}

// Result - результат исполнения команды.
// Хендлер НЕ пишет в результаты хода напрямую, он возвращает данные.
type Result struct {
	Msg     string // Текст уведомления владельцу команды
	MsgType string // INFO, COMBAT, DIPLOMACY, EVENT, ERROR

	// Broadcast - уведомление всем фракциям (объявления войны и т.п.).
	Broadcast string
}

// ValidateFunc - чистая проверка команды: принадлежность, существование
// ссылок, предусловия состояния. Возвращаемая ошибка - причина отказа,
// уходит игроку как есть.
type ValidateFunc func(ctx Context, payload json.RawMessage) error

// ExecuteFunc - исполнение команды внутри пайплайна.
type ExecuteFunc func(ctx Context, payload json.RawMessage) (Result, error)

// Handler - пара проверка/исполнение для одного вида команды.
// Валидация гоняется дважды: спекулятивно при подаче пакета и еще раз
// непосредственно перед исполнением (состояние могло уехать).
type Handler struct {
	Validate ValidateFunc
	Execute  ExecuteFunc
}

// EmptyResult - вспомогательная функция для пустого успешного ответа.
func EmptyResult() Result {
	return Result{}
}
