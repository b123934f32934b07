package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gabapcia/waveportal/internal/config"
	"github.com/gabapcia/waveportal/internal/handlers/cli"
	"github.com/gabapcia/waveportal/internal/infra/blockchain/ethereum"
	"github.com/gabapcia/waveportal/internal/infra/notify/rabbitmq"
	"github.com/gabapcia/waveportal/internal/infra/notify/redis"
	"github.com/gabapcia/waveportal/internal/pkg/logger"
	"github.com/gabapcia/waveportal/internal/pkg/resilience/retry"
	"github.com/gabapcia/waveportal/internal/pkg/telemetry"
	transporthttp "github.com/gabapcia/waveportal/internal/pkg/transport/http"
	"github.com/gabapcia/waveportal/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/waveportal/internal/portal"
	"github.com/gabapcia/waveportal/internal/subscription"
	"github.com/gabapcia/waveportal/internal/txcoord"
	"github.com/gabapcia/waveportal/internal/walletsession"
	"github.com/gabapcia/waveportal/internal/wavecontract"
	"github.com/gabapcia/waveportal/internal/wavefeed"
)

type notifier interface {
	wavefeed.Notifier
	io.Closer
}

// newNotifier returns nil when no notifier backend is configured.
func newNotifier(ctx context.Context, cfg config.Config) (notifier, error) {
	switch cfg.Notifier {
	case config.NotifierRedis:
		return redis.NewClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisDB, cfg.RedisChannel, cfg.ContractAddress)
	case config.NotifierRabbitMQ:
		return rabbitmq.NewClient(cfg.RabbitMQURL, cfg.RabbitMQExchange, cfg.RabbitMQRoutingKey, cfg.ContractAddress)
	default:
		return nil, nil
	}
}

// newBackend connects to the wallet provider. Both results are untyped nil
// when no provider is configured, which the session and the contract client
// report as an absent provider.
func newBackend(cfg config.Config) (walletsession.Provider, wavecontract.Contract, error) {
	if cfg.ProviderURL == "" {
		return nil, nil, nil
	}

	read := jsonrpc.NewClient(cfg.ProviderURL, transporthttp.NewClient(
		transporthttp.WithTimeout(cfg.ProviderTimeout),
		transporthttp.WithRetryMax(cfg.ProviderRetryMax),
		transporthttp.WithRequestLogging(cfg.LogLevel == "debug"),
	))
	write := jsonrpc.NewClient(cfg.ProviderURL, transporthttp.NewClient(
		transporthttp.WithTimeout(cfg.ProviderTimeout),
		transporthttp.WithRetryMax(0),
	))

	backend, err := ethereum.NewClient(read, write, cfg.ContractAddress,
		ethereum.WithPollInterval(cfg.PollInterval),
		ethereum.WithConfirmationPollInterval(cfg.ConfirmationPollInterval),
		ethereum.WithRetry(retry.New(retry.WithAttempts(cfg.LogFetchAttempts))),
	)
	if err != nil {
		return nil, nil, err
	}

	return backend, backend, nil
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.TelemetryEnabled {
		shutdown, err := telemetry.Init(ctx, cfg.ServiceName)
		if err != nil {
			return fmt.Errorf("starting telemetry: %w", err)
		}
		defer shutdown(context.WithoutCancel(ctx))
	}

	if err := logger.Init(logger.WithLevel(cfg.LogLevel)); err != nil {
		return fmt.Errorf("starting logger: %w", err)
	}
	defer logger.Sync()

	provider, backend, err := newBackend(cfg)
	if err != nil {
		return err
	}

	var feedOpts []wavefeed.Option
	n, err := newNotifier(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", cfg.Notifier, err)
	}
	if n != nil {
		defer n.Close()
		feedOpts = append(feedOpts, wavefeed.WithNotifier(n))
	}

	var (
		wallet   = walletsession.New(provider)
		contract = wavecontract.New(wallet, backend, wavecontract.WithGasLimit(cfg.GasLimit))
		feed     = wavefeed.New(feedOpts...)
		sub      = subscription.New(contract, feed)
		sender   = txcoord.New(wallet, contract)
	)

	return cli.Run(ctx, portal.New(wallet, contract, feed, sub, sender))
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
