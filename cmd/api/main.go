package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/dannyaudian/payroll-indonesia-go/internal/config"
	appHTTP "github.com/dannyaudian/payroll-indonesia-go/internal/handler/http"
	"github.com/dannyaudian/payroll-indonesia-go/internal/pkg/cache"
	"github.com/dannyaudian/payroll-indonesia-go/internal/pkg/database"
	"github.com/dannyaudian/payroll-indonesia-go/internal/pkg/jwt"
	"github.com/dannyaudian/payroll-indonesia-go/internal/repository/postgresql"
	historyService "github.com/dannyaudian/payroll-indonesia-go/internal/service/history"
	taxService "github.com/dannyaudian/payroll-indonesia-go/internal/service/tax"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "payroll-indonesia"),
	)

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	var store cache.Store
	if addr := cfg.RedisAddr(); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store = cache.NewRedisStore(client, "payroll")
	} else {
		store = cache.NewMemoryStore()
	}

	if cfg.App.SeedDefaults {
		if err := postgresql.SeedTaxDefaults(context.Background(), db); err != nil {
			fmt.Println("Error seeding tax defaults:", err)
			return
		}
		logger.Info("seeded statutory tax defaults")
	}

	settingsRepo := postgresql.NewTaxSettingsRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	historyRepo := postgresql.NewAnnualHistoryRepository(db)
	slipRepo := postgresql.NewSalarySlipRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	taxSvc := taxService.NewService(settingsRepo, employeeRepo, store, logger)
	historySvc := historyService.NewService(postgresql.NewTransactor(db), historyRepo, slipRepo, logger)

	taxHandler := appHTTP.NewTaxHandler(taxSvc)
	historyHandler := appHTTP.NewHistoryHandler(historySvc)

	router := appHTTP.NewRouter(jwtService, taxHandler, historyHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
