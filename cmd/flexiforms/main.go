package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flexiforms/FlexiForms/internal/auth"
	"github.com/flexiforms/FlexiForms/internal/config"
	"github.com/flexiforms/FlexiForms/internal/database"
	"github.com/flexiforms/FlexiForms/internal/filestore"
	"github.com/flexiforms/FlexiForms/internal/handlers"
	"github.com/flexiforms/FlexiForms/internal/repositories"
	"github.com/flexiforms/FlexiForms/internal/router"
	"github.com/flexiforms/FlexiForms/internal/service"
	"github.com/flexiforms/FlexiForms/internal/storage"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Инициализация конфигурации
	cfg := config.NewConfig()

	var (
		formRepo service.FormRepo
		subRepo  service.SubmissionRepo
		userRepo handlers.UserRepo
	)

	if cfg.Mode == "database" {
		db, err := database.NewDB(logger)
		if err != nil {
			logger.Fatal("Ошибка подключения к БД", zap.Error(err))
		}
		defer db.Close()

		if err := db.RunMigrations(cfg.PgMigrationsPath); err != nil {
			logger.Fatal("Ошибка применения миграций", zap.Error(err))
		}

		formRepo = repositories.NewFormRepository(db)
		subRepo = repositories.NewSubmissionRepository(db)
		userRepo = repositories.NewUserRepository(db)
	} else {
		// Режим in-memory: для локальной разработки и тестов
		forms := storage.NewFormStore()
		formRepo = forms
		subRepo = storage.NewSubmissionStore(forms)
		userRepo = storage.NewUserStore()
	}

	files, err := filestore.New(cfg.UploadDir, logger)
	if err != nil {
		logger.Fatal("Ошибка инициализации каталога загрузок", zap.Error(err))
	}

	a := auth.New(cfg.JWTSecret)
	formService := service.NewFormService(formRepo, logger)
	subService := service.NewSubmissionService(subRepo, formRepo, logger)

	handler := handlers.NewHandler(formService, subService, userRepo, a, files, logger)
	r := router.NewRouter(handler, a, logger)

	server := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: r,
	}

	go func() {
		logger.Info("Сервер запущен", zap.String("address", cfg.ServerAddress))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Ошибка при запуске сервера", zap.Error(err))
		}
	}()

	// Graceful shutdown по SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Остановка сервера...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Ошибка при остановке сервера", zap.Error(err))
	}
}
