package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"voidreach-server/internal/config"
	"voidreach-server/internal/engine"
	"voidreach-server/internal/server"
	"voidreach-server/internal/version"
	"voidreach-server/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	root := &cobra.Command{
		Use:          "voidreach-server",
		Short:        "Voidreach: turn-based 4X strategy server",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newVersionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger.Log.Info("Starting Voidreach...")
			logger.Log.Info(version.String())

			engineCfg := engine.NewConfig()
			engineCfg.Seed = cfg.Seed
			engineCfg.JournalDir = cfg.JournalDir
			engineCfg.BattleOrderWindow = cfg.BattleOrderWindow
			if seed != 0 {
				engineCfg.Seed = seed
				logger.Log.Infof("🎲 Using explicit Master Seed: %d", seed)
			}

			gameService := engine.NewService(engineCfg)

			srv := server.New(gameService, cfg.Port)
			srv.AdminToken = cfg.AdminToken
			srv.RateLimit = cfg.RateLimit
			srv.RateBurst = cfg.RateBurst

			// Graceful Shutdown
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Run()
			}()

			select {
			case err := <-errCh:
				return err
			case <-stop:
				logger.Log.Info("Shutting down...")
				return nil
			}
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "Master seed for new sessions (0 for random)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.String())
		},
	}
}
