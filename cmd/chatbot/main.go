package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"expensebot/internal/config"
	"expensebot/internal/labels"
	"expensebot/internal/ops"
	"expensebot/internal/report"
	"expensebot/internal/scheduler"
	"expensebot/internal/session"
	"expensebot/internal/store"
	"expensebot/internal/telegram"
)

var (
	flagPlugin  string
	flagBotName string
	flagStore   string
)

func main() {
	root := &cobra.Command{
		Use:   "chatbot",
		Short: "Telegram expense-tracking chatbot",
		RunE:  run,
	}
	root.Flags().StringVar(&flagPlugin, "plugin", "om", "bot variant to run (om/lipok)")
	root.Flags().StringVar(&flagBotName, "bot-name", "ari",
		"user supplied chatbot name; namespaces the database so several bots can share one server")
	root.Flags().StringVar(&flagStore, "store", "", "store backend override (mongo/sqlite/memory)")

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}
	cfg := config.New()
	if flagStore != "" {
		cfg.StoreBackend = config.StoreBackend(flagStore)
	}

	ctx := context.Background()

	mgr, err := newManager(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init store backend: %w", err)
	}
	ts, err := store.NewTelegramStore(ctx, mgr)
	if err != nil {
		return fmt.Errorf("init telegram store: %w", err)
	}

	plugin := telegram.Plugin(flagPlugin)
	switch plugin {
	case telegram.PluginOM, telegram.PluginLipok:
	default:
		return fmt.Errorf("unknown plugin: %s", flagPlugin)
	}

	table, ok := labels.ByName(cfg.FlatMenu)
	if !ok {
		return fmt.Errorf("unknown flat menu table: %s", cfg.FlatMenu)
	}

	machine := session.NewMachine(ts, cfg.Language)
	renderer := &report.Renderer{
		FontDir:       cfg.FontDir,
		TemplateImage: cfg.TemplateImagePath,
	}

	bot, err := telegram.New(
		cfg.TelegramBotToken,
		plugin,
		table,
		ts,
		machine,
		renderer,
		cfg.Language,
	)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	if cfg.DailySummaryCron != "" && len(cfg.DailySummaryUsers) > 0 {
		sched := scheduler.New(cfg.DailySummaryCron)
		sched.SetPushFunction(func(ctx context.Context) error {
			for _, userID := range cfg.DailySummaryUsers {
				if err := bot.SendSummaryTo(ctx, userID); err != nil {
					log.Printf("daily summary for %d failed: %v", userID, err)
				}
			}
			return nil
		})
		if err := sched.Start(); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer sched.Stop()
	}

	if cfg.OpsAddr != "" {
		srv := ops.New(bot)
		go func() {
			if err := srv.Start(cfg.OpsAddr); err != nil {
				log.Printf("ops server stopped: %v", err)
			}
		}()
		defer func() {
			if err := srv.Shutdown(ctx); err != nil {
				log.Printf("ops server shutdown: %v", err)
			}
		}()
	}

	log.Printf("starting %s bot (db %s, store %s)", flagPlugin, store.DBName(flagBotName), cfg.StoreBackend)
	bot.Start(ctx)
	return nil
}

func newManager(ctx context.Context, cfg *config.Config) (store.Manager, error) {
	switch cfg.StoreBackend {
	case config.StoreMongo:
		return store.NewMongoManager(ctx, cfg.MongoURI, store.DBName(flagBotName))
	case config.StoreSQLite:
		return store.NewSQLiteManager(cfg.SQLitePath)
	case config.StoreMemory:
		return store.NewMemoryManager(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.StoreBackend)
	}
}
