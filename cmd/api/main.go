package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func main() {
	godotenv.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal("connecting to database failed", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatal("applying schema failed", zap.Error(err))
	}
	cancel()

	// Redis is optional: without it the product catalog just skips the
	// cache.
	var redisClient *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: addr})
	}

	// 1. Repositories
	leadRepo := database.NewLeadRepository(db)
	oppRepo := database.NewOpportunityRepository(db)
	callLogRepo := database.NewCallLogRepository(db)
	productRepo := database.NewProductRepository(db, redisClient)
	userRepo := database.NewUserRepository(db)

	// 2. Queue + mail. Also optional: without a broker, won deals are
	// still recorded, only the notification side effect is skipped.
	var producer usecase.DealEventProducerInterface
	var rabbitMQ *queue.RabbitMQ
	if host := os.Getenv("RABBITMQ_HOST"); host != "" {
		rabbitMQ, err = queue.NewRabbitMQ(
			os.Getenv("RABBITMQ_USER"),
			os.Getenv("RABBITMQ_PASS"),
			host,
			os.Getenv("RABBITMQ_PORT"),
		)
		if err != nil {
			log.Fatal("connecting to RabbitMQ failed", zap.Error(err))
		}
		defer rabbitMQ.Conn.Close()
		defer rabbitMQ.Ch.Close()

		producer = queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)

		mailPort, _ := strconv.Atoi(os.Getenv("MAIL_PORT"))
		if mailPort == 0 {
			mailPort = 587
		}
		mailSender := mail.NewEmailSender(
			os.Getenv("MAIL_HOST"),
			mailPort,
			os.Getenv("MAIL_USER"),
			os.Getenv("MAIL_PASS"),
			os.Getenv("MAIL_FROM"),
		)

		worker := queue.NewWorker(rabbitMQ.Ch, leadRepo, userRepo, mailSender, log)
		go worker.Start(queue.QueueName)
	}

	// 3. Services
	leadService := usecase.NewLeadService(leadRepo, oppRepo, log)
	oppService := usecase.NewOpportunityService(oppRepo, productRepo, producer, log)
	callLogService := usecase.NewCallLogService(callLogRepo, leadRepo, oppRepo, log)
	productService := usecase.NewProductService(productRepo, log)
	dashboardService := usecase.NewDashboardService(leadRepo, oppRepo)
	importer := usecase.NewLeadImporter(leadService, log)

	// 4. Handlers
	leadHandler := handlers.NewLeadHandler(leadService)
	oppHandler := handlers.NewOpportunityHandler(oppService)
	callLogHandler := handlers.NewCallLogHandler(callLogService)
	productHandler := handlers.NewProductHandler(productService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	importHandler := handlers.NewImportHandler(importer)
	userHandler := handlers.NewUserHandler(userRepo)
	var rabbitConn *amqp091.Connection
	if rabbitMQ != nil {
		rabbitConn = rabbitMQ.Conn
	}
	healthHandler := handlers.NewHealthHandler(db, rabbitConn, redisClient)

	importLimiter := middleware.NewRateLimiter(10, time.Minute)

	// 5. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-User-ID"},
	}))
	r.Use(middleware.Identity(userRepo))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/leads", func(r chi.Router) {
			r.Post("/", leadHandler.Create)
			r.Get("/", leadHandler.List)
			r.With(importLimiter.Limit).Post("/import", importHandler.Handle)
			r.Get("/{id}", leadHandler.Get)
			r.Put("/{id}", leadHandler.Update)
			r.Delete("/{id}", leadHandler.Delete)
			r.Post("/{id}/status", leadHandler.SetStatus)
			r.Post("/{id}/convert", leadHandler.Convert)
			r.Post("/{id}/notes", leadHandler.AddNote)
			r.Get("/{id}/notes", leadHandler.ListNotes)
		})

		r.Route("/opportunities", func(r chi.Router) {
			r.Post("/", oppHandler.Create)
			r.Get("/", oppHandler.List)
			r.Get("/{id}", oppHandler.Get)
			r.Put("/{id}", oppHandler.Update)
			r.Delete("/{id}", oppHandler.Delete)
			r.Post("/{id}/stage", oppHandler.SetStage)
			r.Post("/{id}/line-items", oppHandler.AddLineItem)
			r.Put("/{id}/line-items/{index}", oppHandler.UpdateLineItem)
			r.Delete("/{id}/line-items/{index}", oppHandler.RemoveLineItem)
		})

		r.Route("/call-logs", func(r chi.Router) {
			r.Post("/", callLogHandler.Create)
			r.Get("/", callLogHandler.List)
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", productHandler.Create)
			r.Get("/", productHandler.List)
			r.Get("/{id}", productHandler.Get)
			r.Put("/{id}", productHandler.Update)
			r.Delete("/{id}", productHandler.Delete)
		})

		r.Get("/users", userHandler.List)
		r.Get("/dashboard/stats", dashboardHandler.Stats)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Info("CRM API listening", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
