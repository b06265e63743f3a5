package config

import (
	"log"

	"github.com/caarlos0/env/v6"
)

type StoreBackend string

const (
	StoreMongo  StoreBackend = "mongo"
	StoreSQLite StoreBackend = "sqlite"
	StoreMemory StoreBackend = "memory"
)

type Config struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN,required"`

	// Storage
	StoreBackend StoreBackend `env:"STORE_BACKEND" envDefault:"mongo"`
	MongoURI     string       `env:"MONGO_URI" envDefault:"mongodb://127.0.0.1:27017"`
	SQLitePath   string       `env:"SQLITE_PATH" envDefault:"data/chatbot.db"`

	// Report rendering
	FontDir           string `env:"FONT_DIR" envDefault:"fonts"`
	TemplateImagePath string `env:"TEMPLATE_IMAGE_PATH"`

	// Menus
	Language string `env:"BOT_LANGUAGE" envDefault:"en"`
	FlatMenu string `env:"FLAT_MENU" envDefault:"finance"`

	// Ops server; empty disables it.
	OpsAddr string `env:"OPS_ADDR"`

	// Daily summary push; empty cron spec disables it.
	DailySummaryCron  string  `env:"DAILY_SUMMARY_CRON"`
	DailySummaryUsers []int64 `env:"DAILY_SUMMARY_USERS" envSeparator:":"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
