package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tokopos/internal/config"
	"tokopos/internal/database"
	"tokopos/internal/events"
	"tokopos/internal/idempotency"
	"tokopos/internal/logging"
	"tokopos/internal/metrics"
	"tokopos/internal/repositories"
	"tokopos/internal/server"
	"tokopos/internal/services"
	"tokopos/pkg/kafka"
	"tokopos/pkg/rabbitmq"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config_load_failed", zap.Error(err))
	}

	log, err := logging.NewLogger(cfg.ServiceName, cfg.Env, cfg.LogFile)
	if err != nil {
		zap.NewExample().Fatal("logger_init_failed", zap.Error(err))
	}
	defer log.Sync()

	decimal.MarshalJSONWithoutQuotes = true

	// --- Database ---
	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal("database_connect_failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("database_migrate_failed", zap.Error(err))
	}

	// --- Events ---
	publisher, err := newPublisher(cfg.Events, log)
	if err != nil {
		log.Fatal("event_publisher_init_failed", zap.Error(err))
	}
	defer publisher.Close()

	// --- Idempotency ---
	var idem idempotency.Store
	if cfg.Idempotency.RedisAddr != "" {
		rdb := idempotency.NewRedisClient(cfg.Idempotency.RedisAddr)
		defer rdb.Close()
		idem = idempotency.NewRedisStore(rdb, cfg.Idempotency.TTL)
		log.Info("idempotency_enabled", zap.String("redis_addr", cfg.Idempotency.RedisAddr))
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	// --- Repositories ---
	uow := repositories.NewGORMUnitOfWork(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	paymentRepo := repositories.NewGORMPaymentRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	outletRepo := repositories.NewGORMOutletRepository(db)

	// --- Services ---
	policy := services.PaymentPolicy{RequireFullAmount: cfg.Payment.RequireFullAmount}
	taxRate := decimal.NewFromFloat(cfg.TaxRate)

	app := server.New(server.Deps{
		Auth:        services.NewAuthService(userRepo, cfg.JWTSecret),
		Products:    services.NewProductService(productRepo),
		Orders:      services.NewOrderService(uow, orderRepo, publisher, m, log),
		Payments:    services.NewPaymentService(uow, orderRepo, paymentRepo, policy, publisher, m, log),
		Bills:       services.NewBillService(orderRepo, outletRepo, taxRate, m, log),
		Idempotency: idem,
		DB:          db,
		Gatherer:    prometheus.DefaultGatherer,
		Logger:      log,
		AccessLog:   true,
	})

	// --- Start HTTP Server ---
	go func() {
		log.Info("http_server_starting", zap.String("addr", cfg.AppPort))
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatal("http_server_failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("http_server_stopping")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("http_server_shutdown_failed", zap.Error(err))
	}
	log.Info("http_server_stopped")
}

// newPublisher connects the configured broker. The RabbitMQ driver also starts
// a consumer that logs every order event it receives.
func newPublisher(cfg config.EventsConfig, log *zap.Logger) (events.Publisher, error) {
	switch cfg.Driver {
	case "rabbitmq":
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
		if err != nil {
			return nil, err
		}
		if err := client.ConsumeOrderEvents(logOrderEvent(log)); err != nil {
			log.Warn("rabbitmq_consumer_start_failed", zap.Error(err))
		}
		return events.NewRabbitMQPublisher(client), nil
	case "kafka":
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, 1024, log)
		producer.Start()
		log.Info("kafka_producer_started", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
		return events.NewKafkaPublisher(producer), nil
	default:
		log.Info("event_publishing_disabled")
		return events.NopPublisher{}, nil
	}
}

func logOrderEvent(log *zap.Logger) func(amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		var ev events.Event
		if err := json.Unmarshal(msg.Body, &ev); err != nil {
			// Malformed messages are acked and dropped.
			log.Warn("order_event_malformed", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(err))
			return nil
		}
		log.Info("order_event_received",
			zap.String("event_id", ev.ID),
			zap.String("event_type", string(ev.Type)),
			zap.String("order_id", ev.OrderID),
			zap.Time("occurred_at", ev.OccurredAt),
		)
		return nil
	}
}

