package cmd

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/openholdings/internal/config"
	"github.com/ginjaninja78/openholdings/internal/converter"
	"github.com/ginjaninja78/openholdings/internal/funds"
	"github.com/ginjaninja78/openholdings/internal/logger"
	"github.com/ginjaninja78/openholdings/internal/provider"
	"github.com/ginjaninja78/openholdings/internal/provider/etfmg"
	"github.com/ginjaninja78/openholdings/internal/provider/invesco"
	"github.com/ginjaninja78/openholdings/internal/provider/ishares"
	"github.com/ginjaninja78/openholdings/internal/provider/spdr"
	"github.com/ginjaninja78/openholdings/internal/provider/vaneck"
	"github.com/ginjaninja78/openholdings/pkg/staging"
)

// app holds everything a command needs once setup has run.
type app struct {
	cfg       *config.Config
	log       *logger.Log
	stager    *staging.Stager
	funds     *funds.File
	registry  *provider.Registry
	converter *converter.Converter
}

var current *app

// setup loads configuration and wires providers for the running command.
func setup() error {
	if err := config.LoadEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if outputFormat != "" {
		cfg.OutputFormat = strings.ToLower(outputFormat)
		if cfg.OutputFormat != config.FormatXML && cfg.OutputFormat != config.FormatJSON {
			return fmt.Errorf("--output must be %q or %q", config.FormatXML, config.FormatJSON)
		}
	}

	log := logger.New()
	if err := log.Configure(cfg.LogLevel, cfg.LogFormat, cfg.LogFile, cfg.LogMaxAgeDays); err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	current = wire(cfg, log)
	return nil
}

// wire builds the provider registry and pipeline from a loaded configuration.
func wire(cfg *config.Config, log *logger.Log) *app {
	stager := staging.New(staging.Options{
		Dir:               cfg.StagingDir,
		UserAgent:         cfg.UserAgent,
		Timeout:           cfg.HTTPTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	}, log.WithComponent("staging"))

	fundsFile := funds.NewFile(cfg.ISharesFundsFile)

	registry := provider.NewRegistry(
		etfmg.New(stager, cfg.URLTemplate(etfmg.Name)),
		ishares.New(stager, fundsFile, cfg.URLTemplate(ishares.Name)),
		invesco.New(stager, cfg.URLTemplate(invesco.Name)),
		spdr.New(stager, cfg.URLTemplate(spdr.Name)),
		vaneck.New(stager, cfg.URLTemplate(vaneck.Name)),
	)

	return &app{
		cfg:       cfg,
		log:       log,
		stager:    stager,
		funds:     fundsFile,
		registry:  registry,
		converter: converter.New(registry, log.WithComponent("converter")),
	}
}
