package cmd

import (
	"fmt"

	"github.com/Digital-Shane/trailer-tidy/internal/config"
	"github.com/Digital-Shane/trailer-tidy/internal/core"
	applog "github.com/Digital-Shane/trailer-tidy/internal/log"
	"github.com/Digital-Shane/trailer-tidy/internal/notify"
	"github.com/Digital-Shane/trailer-tidy/internal/provider/setup"
	"github.com/hashicorp/go-hclog"
)

// providerOptions lets tests swap the upstream SDK clients.
var providerOptions setup.Options

// app holds the components shared by the subcommands.
type app struct {
	cfg        *config.Config
	logger     hclog.Logger
	aggregator *core.Aggregator
	notifier   *notify.Service
}

func loadConfig() (*config.Config, error) {
	path, err := configFilePath()
	if err != nil {
		return nil, err
	}
	return config.LoadFrom(path, envFile)
}

// newApp loads configuration and wires providers, the aggregator and the
// notification service.
func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logJSON {
		cfg.LogJSON = true
	}

	logger := applog.New("trailer-tidy", cfg.LogLevel, cfg.LogJSON)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	sources, err := setup.LoadBuiltinProviders(cfg, logger, providerOptions)
	if err != nil {
		return nil, err
	}

	aggCfg := core.AggregatorConfig{Registry: sources.Registry, Logger: logger}
	if sources.Metadata != nil {
		aggCfg.Best = sources.Metadata
	}
	aggregator := core.NewAggregator(aggCfg)

	notifyCfg := notify.Config{
		Finder: aggregator,
		From:   cfg.SenderAddress,
		Logger: logger,
	}
	if cfg.EmailEnabled() {
		notifyCfg.Mailer = notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SenderAddress, cfg.SMTPPassword)
	} else {
		logger.Debug("email delivery disabled: sender address or SMTP password missing")
	}

	return &app{
		cfg:        cfg,
		logger:     logger,
		aggregator: aggregator,
		notifier:   notify.NewService(notifyCfg),
	}, nil
}
