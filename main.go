package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"airbnb-features/config"
	"airbnb-features/models"
	"airbnb-features/pipeline"
	"airbnb-features/services"
	"airbnb-features/storage"
	"airbnb-features/utils"
)

func main() {
	dry := flag.Bool("dry", false, "run the pipeline without writing any artifact")
	to := flag.String("to", "", "comma-separated artifacts to stop at; runs only the nodes they need")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := utils.NewLoggerWith(cfg.Environment, cfg.LogLevel, os.Stdout)
	if !cfg.EnvFileLoaded {
		logger.Warn("[config] No .env file found, falling back to system env vars")
	}

	logger.Info("=== Airbnb feature pipeline starting ===")
	logger.Info("Config: source %s | test size %.2f | random state %d | price in classification %t",
		cfg.InputSource, cfg.TestSize, cfg.RandomState, cfg.IncludePriceInClassification)

	retry := &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Logger:      logger,
	}

	graph, err := pipeline.DataProcessing(logger, pipeline.Options{
		Split: services.SplitOptions{
			TestSize:    cfg.TestSize,
			RandomState: int64(cfg.RandomState),
		},
		IncludePriceInClassification: cfg.IncludePriceInClassification,
	})
	if err != nil {
		logger.Error("Failed to build pipeline: %v", err)
		os.Exit(1)
	}
	if *to != "" {
		graph, err = graph.Narrow(strings.Split(*to, ",")...)
		if err != nil {
			logger.Error("Failed to narrow pipeline: %v", err)
			os.Exit(1)
		}
	}

	var pgStore *storage.PostgresStore
	if cfg.EnablePostgres || cfg.InputSource == "postgres" {
		pgStore, err = storage.NewPostgresStore(cfg.DSN(), retry)
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			logger.Error("Make sure Docker is running: docker compose up -d")
			os.Exit(1)
		}
		defer pgStore.Close()
	}

	var reader storage.TableReader = storage.NewCSVReader(map[string]string{
		models.ArtifactListings: cfg.ListingsPath,
		models.ArtifactCalendar: cfg.CalendarPath,
		models.ArtifactReviews:  cfg.ReviewsPath,
	})
	if cfg.InputSource == "postgres" {
		reader = pgStore
	}

	inputs, err := storage.LoadInputs(context.Background(), reader, graph.Inputs())
	if err != nil {
		logger.Error("Failed to load inputs: %v", err)
		os.Exit(1)
	}
	for _, name := range graph.Inputs() {
		logger.Info("Loaded %s: %d rows x %d cols", name, inputs[name].NumRows(), inputs[name].NumCols())
	}

	catalog, err := graph.Run(inputs)
	if err != nil {
		logger.Error("Pipeline failed: %v", err)
		os.Exit(1)
	}

	artifacts, err := produced(graph)
	if err != nil {
		logger.Error("Pipeline failed: %v", err)
		os.Exit(1)
	}

	if *dry {
		logger.Info("Dry run: %d artifacts computed, nothing written", len(artifacts))
	} else if err := persist(cfg, logger, pgStore, artifacts, catalog); err != nil {
		logger.Error("Failed to write artifacts: %v", err)
		os.Exit(1)
	}

	reportSvc := services.NewReportService(logger)
	report := reportSvc.Generate(logger.RunID(), artifacts, catalog)
	reportSvc.Print(os.Stdout, report)

	fmt.Print(doneLine(*dry, cfg.OutputDir))
}

func doneLine(dry bool, outputDir string) string {
	if dry {
		return "  Done. Dry run, nothing written.\n\n"
	}
	return fmt.Sprintf("  Done. Artifacts → %s\n\n", outputDir)
}

// produced lists every artifact the graph writes, in execution order.
func produced(g *pipeline.Graph) ([]string, error) {
	order, err := g.Order()
	if err != nil {
		return nil, err
	}
	var names []string
	for _, n := range order {
		names = append(names, n.Outputs...)
	}
	return names, nil
}

func persist(cfg *config.Config, logger *utils.Logger, pg *storage.PostgresStore, names []string, catalog pipeline.Catalog) error {
	csvWriter, err := storage.NewCSVWriter(cfg.OutputDir)
	if err != nil {
		return err
	}
	writers := []storage.TableWriter{csvWriter}
	labels := []string{"CSV " + cfg.OutputDir}

	if cfg.XLSXOutputPath != "" {
		xlsxWriter, err := storage.NewXLSXWriter(cfg.XLSXOutputPath)
		if err != nil {
			return err
		}
		writers = append(writers, xlsxWriter)
		labels = append(labels, "XLSX "+cfg.XLSXOutputPath)
	}

	for i, w := range writers {
		n, err := storage.WriteAll(w, names, catalog)
		if err != nil {
			return fmt.Errorf("%s: %w", labels[i], err)
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("%s: %w", labels[i], err)
		}
		logger.Info("Wrote %d artifacts to %s", n, labels[i])
	}

	// the postgres store is shared with the reader and closed by main
	if cfg.EnablePostgres && pg != nil {
		n, err := storage.WriteAll(pg, names, catalog)
		if err != nil {
			return fmt.Errorf("PostgreSQL: %w", err)
		}
		logger.Info("Wrote %d artifacts to PostgreSQL (database %s)", n, cfg.PostgresDB)
	}
	return nil
}
