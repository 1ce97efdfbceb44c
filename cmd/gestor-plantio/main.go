package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/hoppemairon/gestor-plantio/internal/config"
	"github.com/hoppemairon/gestor-plantio/internal/dre"
	"github.com/hoppemairon/gestor-plantio/internal/registry"
	"github.com/hoppemairon/gestor-plantio/internal/report"
	"github.com/hoppemairon/gestor-plantio/internal/server"
	"github.com/hoppemairon/gestor-plantio/pkg/constants"
	"github.com/hoppemairon/gestor-plantio/pkg/output"
	"github.com/hoppemairon/gestor-plantio/pkg/validation"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to the scenario-parameter file")
	planLocation := flag.String("plan", constants.DefaultPlanFile, "path to the plan file")
	outputFormat := flag.String("output-format", constants.OutputFormatPretty, "type of output: pretty, csv")
	exportPath := flag.String("export", "", "write the full projection workbook (.xlsx) to this path")
	perCrop := flag.Bool("per-crop", false, "also print per-crop income statements")
	serve := flag.Bool("serve", false, "run the HTTP API server instead of a one-shot projection")
	address := flag.String("address", "", "listen address override for -serve")
	serverConfig := flag.String("server-config", "", "path to the server configuration file")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	params, err := config.LoadParameters(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	if *serve {
		runServer(params, *planLocation, *serverConfig, *address, *logLevel)
		return
	}

	plan, err := config.LoadPlan(*planLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load plan at %s\", \"error\": \"%v\"}\n", *planLocation, err)
		os.Exit(1)
	}

	logger, err := plan.Logging.BuildLogger(*logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := validation.ValidateOutputFormat(*outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, warning := range validation.PlanWarnings(plan) {
		logger.Warn("Plan warning: "+warning,
			zap.String("op", "main"),
		)
	}

	store := registry.NewStore(params)
	if err := store.Seed(plan); err != nil {
		logger.Fatal("failed to seed session from plan",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	bundle, err := report.Assemble(logger, store.Snapshot(), constants.HorizonYears)
	if err != nil {
		logger.Fatal("failed to compute projections",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	switch *outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(os.Stdout, bundle)
		if *perCrop {
			fmt.Println()
			output.PrettyFormatPerCrop(os.Stdout, bundle, dre.ScenarioProjected)
		}
	case constants.OutputFormatCSV:
		output.CsvFormat(os.Stdout, bundle)
	}

	if *exportPath != "" {
		if err := bundle.SaveWorkbook(logger, *exportPath); err != nil {
			logger.Fatal("failed to export workbook",
				zap.String("op", "main"),
				zap.String("path", *exportPath),
				zap.Error(err),
			)
		}
		logger.Info("exported workbook",
			zap.String("op", "main"),
			zap.String("path", *exportPath),
		)
	}
}

func runServer(params config.Parameters, planLocation, serverConfigLocation, addressOverride, logLevelOverride string) {
	cfg, err := server.LoadConfig(serverConfigLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	if addressOverride != "" {
		cfg.Address = addressOverride
	}

	logger, err := cfg.Logging.BuildLogger(logLevelOverride)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	store := registry.NewStore(params)
	if _, err := os.Stat(planLocation); err == nil {
		plan, err := config.LoadPlan(planLocation)
		if err != nil {
			logger.Fatal("failed to load plan",
				zap.String("op", "main.runServer"),
				zap.String("path", planLocation),
				zap.Error(err),
			)
		}
		if err := store.Seed(plan); err != nil {
			logger.Fatal("failed to seed session from plan",
				zap.String("op", "main.runServer"),
				zap.Error(err),
			)
		}
		logger.Info("seeded session from plan",
			zap.String("op", "main.runServer"),
			zap.String("path", planLocation),
		)
	}

	handler := server.NewHandler(logger, store, cfg.UploadSizeBytes(), version)
	logger.Info("starting HTTP server",
		zap.String("op", "main.runServer"),
		zap.String("address", cfg.Address),
	)
	if err := http.ListenAndServe(cfg.Address, handler); err != nil {
		logger.Fatal("server terminated",
			zap.String("op", "main.runServer"),
			zap.Error(err),
		)
	}
}
