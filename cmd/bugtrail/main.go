package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/bugtrail/internal/cli"
	"github.com/alexanderramin/bugtrail/internal/config"
	"github.com/alexanderramin/bugtrail/internal/db"
	"github.com/alexanderramin/bugtrail/internal/domain"
	"github.com/alexanderramin/bugtrail/internal/httpapi"
	"github.com/alexanderramin/bugtrail/internal/repository"
	"github.com/alexanderramin/bugtrail/internal/service"
	"github.com/alexanderramin/bugtrail/internal/sweep"
	"github.com/gin-gonic/gin"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	milestoneRepo := repository.NewSQLiteMilestoneRepo(database)
	issueRepo := repository.NewSQLiteIssueRepo(database)
	permissionRepo := repository.NewSQLitePermissionRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	observer := service.NewMultiUseCaseObserver(
		service.NewLogUseCaseObserver(logger),
		service.NewMetricsUseCaseObserver(registry),
	)

	// Wire services
	projects := service.NewProjectService(projectRepo)
	milestones := service.NewMilestoneService(milestoneRepo, issueRepo, projectRepo, permissionRepo, uow, observer)
	issues := service.NewIssueService(issueRepo)

	actor := domain.User{ID: cfg.UserID, GroupID: cfg.GroupID}

	var sweeper *sweep.Sweeper
	if cfg.SweepSpec != "" && cfg.SweepSpec != "off" {
		sweeper, err = sweep.New(milestones, cfg.SweepSpec, logger)
		if err != nil {
			return err
		}
	}

	gin.SetMode(gin.ReleaseMode)
	router := httpapi.NewRouter(httpapi.RouterDeps{
		DB:         database,
		Projects:   projects,
		Milestones: milestones,
		Actor:      actor,
		Logger:     logger,
		Registry:   registry,
		Version:    version,
	})

	app := &cli.App{
		Projects:   projects,
		Issues:     issues,
		Milestones: milestones,
		Actor:      actor,
		Plain:      !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()),
		Server: &httpapi.Server{
			Addr:    cfg.HTTPAddr,
			Handler: router,
			Sweeper: sweeper,
			Actor:   actor,
			Logger:  logger,
		},
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
