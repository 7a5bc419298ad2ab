package routes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"assistec/internal/adapter/http/handlers"
	"assistec/internal/adapter/http/middleware"
	"assistec/internal/config"
	"assistec/internal/domain/entities"
	"assistec/internal/domain/lifecycle"
	"assistec/internal/infrastructure/messaging"
	"assistec/internal/infrastructure/payments"
	"assistec/internal/infrastructure/scheduler"
	"assistec/internal/pkg/logger"
	"assistec/internal/pkg/worker"
	"assistec/internal/usecase"
	"assistec/internal/usecase/interfaces"
)

const shutdownGrace = 10 * time.Second

type appHandlers struct {
	orders    *handlers.OrderHandler
	approvals *handlers.ApprovalHandler
	payments  *handlers.BillingPaymentHandler
	settings  *handlers.SettingsHandler
	profiles  *handlers.ProfileHandler
}

// Run wires the service and serves HTTP until SIGINT or SIGTERM.
func Run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := newRepositories(ctx, cfg)
	if err != nil {
		return err
	}

	pool, err := worker.NewPool(ctx, "notifications", cfg.Worker.PoolSize)
	if err != nil {
		return fmt.Errorf("worker pool: %w", err)
	}
	defer pool.Shutdown()

	var messenger interfaces.IMessenger
	if twilio, err := messaging.NewTwilioMessenger(cfg.Twilio); err != nil {
		logger.Warn("whatsapp delivery disabled", zap.Error(err))
	} else {
		messenger = twilio
	}

	var gateway interfaces.IPaymentGateway
	if mp, err := payments.NewMercadoPagoGateway(cfg.MercadoPago); err != nil {
		logger.Warn("mercado pago gateway not configured", zap.Error(err))
	} else {
		gateway = mp
	}

	dispatcher := usecase.NewNotificationDispatcher(repos.outbox, repos.messages, messenger, pool, usecase.DispatcherConfig{
		BatchSize:   cfg.Outbox.BatchSize,
		MaxAttempts: cfg.Outbox.MaxAttempts,
	})
	outboxScheduler, err := scheduler.NewOutboxScheduler(ctx, cfg.Outbox.Schedule, dispatcher)
	if err != nil {
		return fmt.Errorf("outbox scheduler: %w", err)
	}
	outboxScheduler.Start()
	defer outboxScheduler.Stop()

	settingsUseCase := usecase.NewSettingsUseCase(repos.settings, entities.NotificationSettings{
		BusinessName:    cfg.Business.Name,
		BusinessAddress: cfg.Business.Address,
		BusinessHours:   cfg.Business.Hours,
		StaffWhatsApp:   cfg.Business.StaffWhatsApp,
	})
	machine := lifecycle.New()

	orderUseCase := usecase.NewOrderUseCase(usecase.OrderDeps{
		Orders:       repos.orders,
		History:      repos.history,
		Items:        repos.items,
		Messages:     repos.messages,
		Profiles:     repos.profiles,
		Settings:     settingsUseCase,
		Dispatcher:   dispatcher,
		Machine:      machine,
		PublicOrigin: cfg.Server.PublicOrigin,
	})
	approvalUseCase := usecase.NewApprovalUseCase(usecase.ApprovalDeps{
		Orders:       repos.orders,
		History:      repos.history,
		Profiles:     repos.profiles,
		Settings:     settingsUseCase,
		Dispatcher:   dispatcher,
		Machine:      machine,
		PublicOrigin: cfg.Server.PublicOrigin,
	})
	paymentUseCase := usecase.NewBillingPaymentUseCase(repos.payments, repos.orders, repos.history, gateway, usecase.PaymentOptions{
		MockMode:        cfg.MercadoPago.Mock,
		SandboxToken:    cfg.MercadoPago.Sandbox(),
		TestPayerEmail:  cfg.MercadoPago.TestPayerEmail,
		TestPayerUserID: cfg.MercadoPago.TestPayerUserID,
	})

	router := newRouter(cfg, appHandlers{
		orders:    handlers.NewOrderHandler(orderUseCase),
		approvals: handlers.NewApprovalHandler(approvalUseCase),
		payments:  handlers.NewBillingPaymentHandler(paymentUseCase, cfg.MercadoPago.Mock),
		settings:  handlers.NewSettingsHandler(settingsUseCase),
		profiles:  handlers.NewProfileHandler(usecase.NewProfileUseCase(repos.profiles)),
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func newRouter(cfg *config.Config, h appHandlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSOrigins))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addApprovalRoutes(v1, h.approvals)

	admin := v1.Group(PathAdmin, middleware.JWTAuth(cfg.Auth.JWTSecret, cfg.Auth.Issuer))
	addProfileRoutes(admin, h.profiles)
	addOrderRoutes(admin, h.orders, h.approvals)
	addBillingRoutes(admin, h.payments)
	addSettingsRoutes(admin, h.settings)

	return router
}
