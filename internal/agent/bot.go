package agent

import (
	"encoding/json"
	"log"
	"math/rand"

	"voidreach-server/internal/domain"
	"voidreach-server/internal/engine"
	"voidreach-server/pkg/api"
	"voidreach-server/pkg/galaxy"
	"voidreach-server/pkg/utils"
)

// Bot представляет собой "Игрока-компьютера" (Headless Agent).
// Этот код является примером ВНЕШНЕГО клиента: бот подключается к хабу
// так же, как обычный игрок через WebSocket, получает те же персональные
// срезы (туман войны включительно) и отвечает теми же командами протокола.
//
// Жизненный цикл:
//  1. NewBot -> Регистрация в хабе сервера, получение личного канала (Inbox).
//  2. Join -> Вход в сессию по коду, выбор расы, готовность.
//  3. Run -> Запуск в отдельной горутине, слушает свой Inbox.
//  4. На каждый TURN_RESULT бот строит пакет приказов по видимой ему
//     галактике и сдает его. Точных данных о чужих флотах у него нет.
type Bot struct {
	PlayerID domain.PlayerID
	Name     string
	Service  *engine.GameService // Прямая ссылка на движок (для простоты в этом проекте)
	Inbox    chan api.ServerMessage

	rng *rand.Rand
}

func NewBot(name string, service *engine.GameService) *Bot {
	playerID := domain.PlayerID(domain.NewID())
	log.Printf("[BOT] Creating agent %s (%s)", name, playerID)
	return &Bot{
		PlayerID: playerID,
		Name:     name,
		Service:  service,
		// Бот регистрируется в хабе как обычный клиент и получает свой канал для обновлений.
		Inbox: service.Hub.Register(playerID),
		// Решения бота детерминированы его именем: реплей партии с теми же
		// ботами дает те же пакеты.
		rng: utils.NewRand(utils.StringToSeed(name)),
	}
}

// Join вводит бота в сессию по коду вступления.
func (b *Bot) Join(joinCode string) {
	b.sendCommand("JOIN_SESSION", api.JoinSessionPayload{JoinCode: joinCode, Name: b.Name})
}

// Run запускает цикл жизни бота. Должен быть запущен в горутине.
func (b *Bot) Run() {
	defer b.Service.Hub.Unregister(b.PlayerID)

	for event := range b.Inbox {
		switch event.Type {
		case "LOBBY":
			b.onLobby(event)
		case "TURN_RESULT":
			b.onTurn(event)
		}
	}
	log.Printf("[BOT] Agent %s shut down.", b.Name)
}

// onLobby двигает бота по лобби: выбрать расу, отметиться готовым.
// После старта сессии LOBBY приходит со срезом галактики - это сигнал
// сдать приказы первого хода.
func (b *Bot) onLobby(event api.ServerMessage) {
	if event.Session == nil {
		return
	}
	if event.Session.State == "RUNNING" {
		if event.Galaxy != nil {
			b.submitOrders(event.Galaxy)
		}
		return
	}
	if event.Session.State != "LOBBY" {
		return
	}

	for _, slot := range event.Session.Slots {
		if slot.PlayerID != b.PlayerID.String() {
			continue
		}
		if slot.Race == "" {
			races := galaxy.RaceNames()
			b.sendCommand("SELECT_RACE", api.SelectRacePayload{Race: races[b.rng.Intn(len(races))]})
			return // READY уйдет на следующем LOBBY-снимке
		}
		if !slot.Ready {
			b.sendCommand("READY", api.ReadyPayload{Ready: true})
		}
		return
	}
}

// onTurn реагирует на результат хода: строит и сдает новый пакет.
func (b *Bot) onTurn(event api.ServerMessage) {
	if event.Result != nil && event.Result.Winner != "" {
		return // Партия окончена
	}
	if event.Galaxy == nil {
		return
	}
	b.submitOrders(event.Galaxy)
}

// submitOrders - мозг бота. Стратегия нарочно примитивная: гонять
// стоящие флоты по соседним системам, чтобы партия двигалась. Этого
// достаточно, чтобы сессия с ботами не зависала на ожидании пакетов.
func (b *Bot) submitOrders(view *api.GalaxyView) {
	adjacency := make(map[string][]string)
	for _, sys := range view.Systems {
		if len(sys.Adjacent) > 0 {
			adjacency[sys.ID] = sys.Adjacent
		}
	}

	var orders []api.OrderEntry
	for _, fleet := range view.Fleets {
		if !fleet.Own {
			continue
		}
		neighbors := adjacency[fleet.SystemID]
		if len(neighbors) == 0 {
			continue
		}
		// Половину ходов флот стоит: боту незачем дергать каждый флот.
		if b.rng.Intn(2) == 0 {
			continue
		}
		target := neighbors[b.rng.Intn(len(neighbors))]
		payload, err := json.Marshal(api.MoveFleetPayload{FleetID: fleet.ID, TargetSystemID: target})
		if err != nil {
			continue
		}
		orders = append(orders, api.OrderEntry{Kind: "MOVE_FLEET", Payload: payload})
	}

	b.sendCommand("SUBMIT_ORDERS", api.SubmitOrdersPayload{Commands: orders})
}

func (b *Bot) sendCommand(action string, payload interface{}) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[BOT %s] Error marshalling payload: %v", b.Name, err)
		return
	}

	cmd := api.ClientCommand{
		Action:  action,
		Payload: payloadBytes,
		Token:   b.PlayerID.String(),
	}
	b.Service.ProcessCommand(b.PlayerID, cmd)
}
