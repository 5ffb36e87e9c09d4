package engine

import "time"

// Config хранит параметры запуска движка
type Config struct {
	// Seed - мастер-зерно по умолчанию для новых сессий (0 = случайное
	// на сессию). Каждая сессия дальше выводит свою случайность из
	// собственного зерна и номера хода.
	Seed int64

	// JournalDir - каталог журналов ходов ("" = журналы выключены).
	JournalDir string

	// BattleOrderWindow - сколько резолвер ждет живой приказ между
	// раундами боя, если у стороны есть подключенный игрок.
	BattleOrderWindow time.Duration
}

// NewConfig создает конфиг по умолчанию.
func NewConfig() Config {
	return Config{
		BattleOrderWindow: 15 * time.Second,
	}
}
