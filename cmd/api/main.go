package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	_ "assistec/docs"
	"assistec/internal/adapter/http/routes"
	"assistec/internal/config"
	"assistec/internal/pkg/logger"
)

// @title           Assistec API
// @version         1.0
// @description     Service orders of a repair shop: intake, budgets, client approval links, notifications and payments.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting assistec",
		zap.Int("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Driver),
	)
	if err := routes.Run(cfg); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
