package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"github.com/wfunc/tictactoe/config"
	"github.com/wfunc/tictactoe/logger"
	"github.com/wfunc/tictactoe/persistence"
	"github.com/wfunc/tictactoe/rpc"
	"github.com/wfunc/tictactoe/server"
	"github.com/wfunc/tictactoe/services"
)

func main() {
	cmd := &cli.Command{
		Name:  "tictactoe",
		Usage: "two-player tic-tac-toe server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: ".", Usage: "directory holding config.yaml and .env"},
		},
		Action: serve,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	// Load configuration
	cfg, err := config.LoadConfig(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	// Initialize Database
	db, err := persistence.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("open %q database: %w", cfg.Database.Driver, err)
	}
	defer db.Close()
	logger.Log.Infof("Game history stored with the %q driver", cfg.Database.Driver)

	records := services.NewRecordService(db, cfg.Database.RecordQueue)
	defer records.Close()

	gameServer := server.NewGameServer(cfg, records)
	gameServer.Monitor().PublishExpvar()

	if cfg.Server.RPCAddress != "" {
		rpcServer, err := rpc.NewServer(cfg.Server.RPCAddress, rpc.NewGameService(gameServer, records))
		if err != nil {
			return fmt.Errorf("start RPC server: %w", err)
		}
		go rpcServer.Start()
		defer rpcServer.Stop()
	}

	return gameServer.ListenAndServe(ctx)
}
