package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config - конфигурация сервера из переменных окружения.
// Все переменные опциональны: дефолты дают рабочий локальный сервер.
type Config struct {
	Port string `env:"VR_PORT" envDefault:"8080"`

	// Seed - мастер-зерно для новых сессий (0 = случайное на сессию).
	Seed int64 `env:"VR_SEED" envDefault:"0"`

	// JournalDir - каталог журналов ходов ("" = журналы выключены).
	JournalDir string `env:"VR_JOURNAL_DIR"`

	// BattleOrderWindow - окно ожидания живого приказа между раундами боя.
	BattleOrderWindow time.Duration `env:"VR_BATTLE_ORDER_WINDOW" envDefault:"15s"`

	// AdminToken открывает операторскую поверхность ("" = закрыта).
	AdminToken string `env:"VR_ADMIN_TOKEN"`

	// RateLimit / RateBurst - лимит входящих команд на соединение.
	RateLimit float64 `env:"VR_RATE_LIMIT" envDefault:"20"`
	RateBurst int     `env:"VR_RATE_BURST" envDefault:"40"`
}

// Load читает конфигурацию из окружения.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
