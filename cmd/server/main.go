package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/carepulse/carepulse/internal/config"
	"github.com/carepulse/carepulse/internal/database"
	"github.com/carepulse/carepulse/internal/handlers"
	"github.com/carepulse/carepulse/internal/jobs"
	"github.com/carepulse/carepulse/internal/realtime"
	"github.com/carepulse/carepulse/internal/repository"
	cronjobs "github.com/carepulse/carepulse/internal/scheduler"
	"github.com/carepulse/carepulse/internal/services"
	"github.com/carepulse/carepulse/pkg/cache"
	"github.com/carepulse/carepulse/pkg/logger"
	"github.com/carepulse/carepulse/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	trendsCache := cache.NewCache(cfg.RedisAddr)
	hub := realtime.NewHub()

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	medicationRepo := repository.NewMedicationRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	symptomRepo := repository.NewSymptomRepository(db)
	feedRepo := repository.NewFeedRepository(db)
	chatRepo := repository.NewChatRepository(db)
	alertRepo := repository.NewAlertRepository(db)

	// --- Services ---
	userService := services.NewUserService(userRepo, groupRepo)
	patientService := services.NewPatientService(patientRepo, groupRepo)
	medicationService := services.NewMedicationService(medicationRepo, patientRepo)
	appointmentService := services.NewAppointmentService(appointmentRepo, patientRepo)
	symptomService := services.NewSymptomService(symptomRepo, patientRepo, trendsCache)
	feedService := services.NewFeedService(feedRepo, hub)
	chatService := services.NewChatService(chatRepo, hub)
	alertService := services.NewAlertService(alertRepo, userRepo, hub)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	patientHandler := handlers.NewPatientHandler(patientService)
	medicationHandler := handlers.NewMedicationHandler(medicationService)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	symptomHandler := handlers.NewSymptomHandler(symptomService)
	feedHandler := handlers.NewFeedHandler(feedService)
	chatHandler := handlers.NewChatHandler(chatService)
	alertHandler := handlers.NewAlertHandler(alertService)
	wsHandler := handlers.NewWSHandler(hub, userService, chatService, alertService, cfg.JWTSecret)

	// --- Background jobs ---
	reminder := jobs.NewMedicationReminder(medicationRepo, patientRepo, alertRepo, alertService)
	reconciler := jobs.NewPatientRefReconciler(patientRepo, medicationRepo, appointmentRepo, symptomRepo)
	cronjobs.StartBackgroundJobs(reminder, reconciler)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware)

	router.HandleFunc("/health", handlers.HealthHandler).Methods("GET")
	router.HandleFunc("/ws", wsHandler.ServeWS).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	auth := middleware.AuthMiddleware(cfg.JWTSecret, userService)

	// Public auth routes, rate limited against brute force
	authRoutes := api.PathPrefix("/auth").Subrouter()
	authRoutes.Use(middleware.RateLimitMiddleware(middleware.RateLimiterConfig{RequestsPerSecond: 5, Burst: 10}))
	authRoutes.HandleFunc("/register", userHandler.RegisterHandler).Methods("POST")
	authRoutes.HandleFunc("/login", userHandler.LoginHandler).Methods("POST")

	protectedAuthRoutes := api.PathPrefix("/auth").Subrouter()
	protectedAuthRoutes.Use(auth)
	protectedAuthRoutes.HandleFunc("/me", userHandler.MeHandler).Methods("GET")
	protectedAuthRoutes.HandleFunc("/me", userHandler.UpdateMeHandler).Methods("PATCH")
	protectedAuthRoutes.HandleFunc("/join-group", userHandler.JoinGroupHandler).Methods("POST")

	groupRoutes := api.PathPrefix("/groups").Subrouter()
	groupRoutes.Use(auth)
	groupRoutes.HandleFunc("", userHandler.CreateGroupHandler).Methods("POST")
	groupRoutes.HandleFunc("/mine", userHandler.MyGroupHandler).Methods("GET")

	patientRoutes := api.PathPrefix("/patients").Subrouter()
	patientRoutes.Use(auth)
	patientRoutes.HandleFunc("", patientHandler.CreatePatientHandler).Methods("POST")
	patientRoutes.HandleFunc("", patientHandler.GetPatientsHandler).Methods("GET")
	patientRoutes.HandleFunc("/{id}", patientHandler.GetPatientHandler).Methods("GET")
	patientRoutes.HandleFunc("/{id}", patientHandler.UpdatePatientHandler).Methods("PUT")
	patientRoutes.HandleFunc("/{id}", patientHandler.DeletePatientHandler).Methods("DELETE")

	medicationRoutes := api.PathPrefix("/medications").Subrouter()
	medicationRoutes.Use(auth)
	medicationRoutes.HandleFunc("", medicationHandler.CreateMedicationHandler).Methods("POST")
	medicationRoutes.HandleFunc("", medicationHandler.GetMedicationsHandler).Methods("GET")
	medicationRoutes.HandleFunc("/{id}", medicationHandler.GetMedicationHandler).Methods("GET")
	medicationRoutes.HandleFunc("/{id}", medicationHandler.UpdateMedicationHandler).Methods("PUT")
	medicationRoutes.HandleFunc("/{id}", medicationHandler.DeleteMedicationHandler).Methods("DELETE")
	medicationRoutes.HandleFunc("/{id}/dose", medicationHandler.MarkDoseHandler).Methods("POST")
	medicationRoutes.HandleFunc("/{id}/history", medicationHandler.GetHistoryHandler).Methods("GET")

	appointmentRoutes := api.PathPrefix("/appointments").Subrouter()
	appointmentRoutes.Use(auth)
	appointmentRoutes.HandleFunc("", appointmentHandler.CreateAppointmentHandler).Methods("POST")
	appointmentRoutes.HandleFunc("", appointmentHandler.GetAppointmentsHandler).Methods("GET")
	appointmentRoutes.HandleFunc("/{id}", appointmentHandler.GetAppointmentHandler).Methods("GET")
	appointmentRoutes.HandleFunc("/{id}", appointmentHandler.UpdateAppointmentHandler).Methods("PUT")
	appointmentRoutes.HandleFunc("/{id}", appointmentHandler.DeleteAppointmentHandler).Methods("DELETE")
	appointmentRoutes.HandleFunc("/{id}/checklist", appointmentHandler.CompleteChecklistHandler).Methods("POST")

	symptomRoutes := api.PathPrefix("/symptoms").Subrouter()
	symptomRoutes.Use(auth)
	symptomRoutes.HandleFunc("", symptomHandler.CreateSymptomHandler).Methods("POST")
	symptomRoutes.HandleFunc("", symptomHandler.GetSymptomsHandler).Methods("GET")
	symptomRoutes.HandleFunc("/trends/{patientId}", symptomHandler.GetTrendsHandler).Methods("GET")
	symptomRoutes.HandleFunc("/{id}", symptomHandler.GetSymptomHandler).Methods("GET")
	symptomRoutes.HandleFunc("/{id}", symptomHandler.UpdateSymptomHandler).Methods("PUT")
	symptomRoutes.HandleFunc("/{id}", symptomHandler.DeleteSymptomHandler).Methods("DELETE")

	feedRoutes := api.PathPrefix("/feed").Subrouter()
	feedRoutes.Use(auth)
	feedRoutes.HandleFunc("", feedHandler.CreateFeedItemHandler).Methods("POST")
	feedRoutes.HandleFunc("", feedHandler.GetFeedItemsHandler).Methods("GET")
	feedRoutes.HandleFunc("/{id}", feedHandler.UpdateFeedItemHandler).Methods("PUT")
	feedRoutes.HandleFunc("/{id}", feedHandler.DeleteFeedItemHandler).Methods("DELETE")
	feedRoutes.HandleFunc("/{id}/comments", feedHandler.AddCommentHandler).Methods("POST")

	chatRoutes := api.PathPrefix("/chat").Subrouter()
	chatRoutes.Use(auth)
	chatRoutes.HandleFunc("/threads", chatHandler.CreateThreadHandler).Methods("POST")
	chatRoutes.HandleFunc("/threads", chatHandler.GetThreadsHandler).Methods("GET")
	chatRoutes.HandleFunc("/threads/{id}", chatHandler.GetThreadHandler).Methods("GET")
	chatRoutes.HandleFunc("/threads/{id}/messages", chatHandler.SendMessageHandler).Methods("POST")

	alertRoutes := api.PathPrefix("/alerts").Subrouter()
	alertRoutes.Use(auth)
	alertRoutes.HandleFunc("", alertHandler.CreateAlertHandler).Methods("POST")
	alertRoutes.HandleFunc("", alertHandler.GetAlertsHandler).Methods("GET")
	alertRoutes.HandleFunc("/{id}", alertHandler.GetAlertHandler).Methods("GET")
	alertRoutes.HandleFunc("/{id}", alertHandler.UpdateAlertHandler).Methods("PUT")
	alertRoutes.HandleFunc("/{id}/acknowledge", alertHandler.AcknowledgeAlertHandler).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handler))
}
