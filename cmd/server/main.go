package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/adapters/grpc/handler"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/adapters/repository/postgres"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/absence"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/assignment"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/person"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/core/project"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/platform/config"
	pg "github.com/ogurasousui/workforce-grpc-clean-arch/internal/platform/db/postgres"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/platform/logging"
	"github.com/ogurasousui/workforce-grpc-clean-arch/internal/platform/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to initialize database pool", zap.Error(err))
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool)

	personRepo := postgres.NewPersonRepository(dbPool)
	projectRepo := postgres.NewProjectRepository(dbPool)
	assignmentRepo := postgres.NewAssignmentRepository(dbPool)
	absenceRepo := postgres.NewAbsenceRepository(dbPool)

	personSvc := person.NewService(personRepo, nil, txManager)
	projectSvc := project.NewService(projectRepo, personRepo, nil, txManager)
	assignmentSvc := assignment.NewService(assignmentRepo, personRepo, projectRepo, nil, txManager)
	absenceSvc := absence.NewService(absenceRepo, assignmentSvc, nil, txManager)

	actors := handler.NewActorResolver(personRepo)

	grpcServer := server.New(cfg.Server.ListenAddr, logger)
	handler.NewPersonHandler(personSvc).Register(grpcServer.Registrar())
	handler.NewProjectHandler(projectSvc, actors).Register(grpcServer.Registrar())
	handler.NewAssignmentHandler(assignmentSvc, actors).Register(grpcServer.Registrar())
	handler.NewAbsenceHandler(absenceSvc, actors).Register(grpcServer.Registrar())

	logger.Info("gRPC server listening", zap.String("addr", cfg.Server.ListenAddr))

	if err := grpcServer.Run(ctx); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}
