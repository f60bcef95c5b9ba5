package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/garyjia/vending-machine/internal/application/dispatcher"
	"github.com/garyjia/vending-machine/internal/application/service"
	"github.com/garyjia/vending-machine/internal/config"
	"github.com/garyjia/vending-machine/internal/domain/event"
	"github.com/garyjia/vending-machine/pkg/utils"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// options holds the flags that are not configuration overrides
type options struct {
	configPath string
	product    string
	coins      string
}

func parseFlags(args []string) (options, *pflag.FlagSet, error) {
	var opts options
	fs := pflag.NewFlagSet("vending", pflag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "configs/config.yaml", "path to the configuration file")
	fs.StringVar(&opts.product, "product", "", "product to buy after restocking")
	fs.StringVar(&opts.coins, "coins", "", "inserted coins as comma separated face values, e.g. 10,5,2")
	config.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return options{}, nil, err
	}
	return opts, fs, nil
}

func main() {
	opts, fs, err := parseFlags(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse flags: %v\n", err)
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load(opts.configPath, fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(context.Background(), cfg, logger, os.Stdout, opts.product, opts.coins); err != nil {
		logger.Error("Run failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, out io.Writer, product, coins string) error {
	logger.Info("Starting vending machine",
		zap.String("machine_id", cfg.Machine.ID),
		zap.Ints("denominations", cfg.Machine.Denominations),
		zap.String("sell_policy", cfg.Machine.SellPolicy),
		zap.String("change_strategy", cfg.Machine.ChangeStrategy))

	m, err := cfg.NewMachine()
	if err != nil {
		return fmt.Errorf("failed to build machine: %w", err)
	}

	d := dispatcher.NewDispatcher(dispatcher.WithLogger(logger))
	defer d.Close()
	fleet := service.NewFleet(service.WithDispatcher(d), service.WithLogger(logger))
	d.SubscribeNamed(event.TypeStateChanged, "console", func(_ context.Context, evt *event.Event) error {
		_, err := fmt.Fprintf(out, "state: %s -> %s\n", evt.GetPayloadString("from"), evt.GetPayloadString("to"))
		return err
	})

	op, err := fleet.Add(cfg.Machine.ID, m)
	if err != nil {
		return err
	}

	if additions := cfg.Additions(); len(additions) > 0 {
		_, warnings, err := op.Stock(ctx, additions)
		if err != nil {
			return fmt.Errorf("failed to restock: %w", err)
		}
		for _, w := range warnings {
			fmt.Fprintf(out, "restock warning: %v\n", w)
		}
	}

	if product = utils.SanitizeString(product); product != "" {
		faces, err := utils.ParseCoinList(coins)
		if err != nil {
			return err
		}
		receipt, err := op.Purchase(ctx, product, faces)
		switch {
		case err == nil:
			fmt.Fprintf(out, "dispensed %s, paid %d, change %s\n", receipt.Product, receipt.Paid, receipt.Change)
		case errors.Is(err, service.ErrMachineEmpty):
			fmt.Fprintf(out, "machine is empty, refunded %v\n", faces)
		default:
			fmt.Fprintf(out, "rejected: %v, refunded %v\n", err, faces)
		}
	}

	fmt.Fprintf(out, "state: %s\ncash: %s\n", op.State(), op.Cash())
	for _, s := range op.Slots() {
		fmt.Fprintf(out, "  %-12s %d/%d\n", s.Product.Name, s.OnHand, s.Capacity)
	}
	return nil
}
