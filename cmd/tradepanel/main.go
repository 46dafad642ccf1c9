// Command tradepanel runs an interactive trading terminal for a single
// exchange. It keeps a connectivity monitor and a balance view alive in the
// background and exposes order entry, deposit and withdrawal actions.
//
// Usage:
//
//	tradepanel setup (interactive config wizard, writes config.gen.yaml)
//	tradepanel --config config.gen.yaml
//	tradepanel (uses CLI arguments)
//
// Required environment variables:
//
//	For Binance: BINANCE_API_KEY, BINANCE_API_SECRET
//	For Bybit: BYBIT_API_KEY, BYBIT_API_SECRET
//	For Hyperliquid: HYPERLIQUID_PRIVATE_KEY
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/charmbracelet/huh"
	"go.uber.org/zap"

	"github.com/cosmicb0y/tradepanel/config"
	"github.com/cosmicb0y/tradepanel/internal"
	"github.com/cosmicb0y/tradepanel/internal/clients"
	"github.com/cosmicb0y/tradepanel/internal/domain"
	"github.com/cosmicb0y/tradepanel/internal/panel"
	"github.com/cosmicb0y/tradepanel/internal/setup"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "setup" {
		if err := setup.RunTUI(); err != nil {
			log.Fatal(err)
		}
		return
	}

	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	client, err := makeClient(cfg.Platform)
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	terminal, err := internal.NewTerminal(cfg, client, panel.Toast{}, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer terminal.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := terminal.Run(ctx); err != nil && ctx.Err() == nil {
			log.Fatal(err)
		}
	}()

	if err := actionLoop(ctx, cfg, terminal); err != nil {
		log.Fatal(err)
	}
}

func makeClient(platform domain.Platform) (any, error) {
	switch platform {
	case domain.PlatformBinance:
		apiKey := os.Getenv("BINANCE_API_KEY")
		apiSecret := os.Getenv("BINANCE_API_SECRET")
		if apiKey == "" || apiSecret == "" {
			return nil, fmt.Errorf("BINANCE_API_KEY and BINANCE_API_SECRET environment variables must be set")
		}
		return clients.NewBinanceClient(apiKey, apiSecret), nil
	case domain.PlatformBybit:
		apiKey := os.Getenv("BYBIT_API_KEY")
		apiSecret := os.Getenv("BYBIT_API_SECRET")
		if apiKey == "" || apiSecret == "" {
			return nil, fmt.Errorf("BYBIT_API_KEY and BYBIT_API_SECRET environment variables must be set")
		}
		return clients.NewBybitClient(apiKey, apiSecret), nil
	case domain.PlatformHyperliquid:
		privateKey := os.Getenv("HYPERLIQUID_PRIVATE_KEY")
		if privateKey == "" {
			return nil, fmt.Errorf("HYPERLIQUID_PRIVATE_KEY environment variable must be set")
		}
		return clients.NewHyperliquidClient(privateKey, "")
	default:
		return nil, fmt.Errorf("unsupported platform %q", platform)
	}
}

const (
	actionBalances = "balances"
	actionMarket   = "market"
	actionOrder    = "order"
	actionDeposit  = "deposit"
	actionWithdraw = "withdraw"
	actionRefresh  = "refresh"
	actionRetry    = "retry"
	actionQuit     = "quit"
)

func actionLoop(ctx context.Context, cfg config.Config, terminal *internal.Terminal) error {
	for {
		fmt.Println(panel.RenderConnection(cfg.Platform, terminal.Monitor.State()))

		var action string
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Action").
					Options(
						huh.NewOption("View balances", actionBalances),
						huh.NewOption("Market summary", actionMarket),
						huh.NewOption("Place order", actionOrder),
						huh.NewOption("Deposit address", actionDeposit),
						huh.NewOption("Withdraw", actionWithdraw),
						huh.NewOption("Refresh balances", actionRefresh),
						huh.NewOption("Retry connection", actionRetry),
						huh.NewOption("Quit", actionQuit),
					).
					Value(&action),
			),
		).Run()
		if err != nil {
			return err
		}

		switch action {
		case actionBalances:
			fmt.Println(panel.RenderBalances(terminal.Balances.Snapshot()))
		case actionMarket:
			summary, err := terminal.Market.Summarize(ctx, cfg.Pair)
			if err != nil {
				fmt.Println("market summary failed:", err)
				continue
			}
			fmt.Println(panel.RenderMarket(summary))
		case actionOrder:
			req, err := panel.OrderForm(cfg.Pair, terminal.Balances.Snapshot())
			if err != nil {
				fmt.Println("order cancelled:", err)
				continue
			}
			if _, err := terminal.Orders.Place(ctx, req); err != nil {
				continue
			}
		case actionDeposit:
			addr, err := terminal.Gateway.DepositAddress(ctx, cfg.Pair.Quote)
			if err != nil {
				fmt.Println("deposit address unavailable:", err)
				continue
			}
			fmt.Printf("deposit %s to: %s\n", cfg.Pair.Quote, addr)
		case actionWithdraw:
			req, err := panel.WithdrawForm()
			if err != nil {
				fmt.Println("withdrawal cancelled:", err)
				continue
			}
			id, err := terminal.Gateway.Withdraw(ctx, req)
			if err != nil {
				fmt.Println("withdrawal failed:", err)
				continue
			}
			fmt.Println("withdrawal submitted, id:", id)
		case actionRefresh:
			terminal.Balances.Refresh(ctx)
			fmt.Println(panel.RenderBalances(terminal.Balances.Snapshot()))
		case actionRetry:
			terminal.Monitor.CheckConnection(ctx)
		case actionQuit:
			return nil
		}
	}
}
