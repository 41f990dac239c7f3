package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"masterokBack/internal/config"
	"masterokBack/internal/geo"
	"masterokBack/internal/handlers"
	"masterokBack/internal/repositories"
	"masterokBack/internal/services"
	"masterokBack/utils"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger
	db       *sql.DB

	userRepo *repositories.UserRepository

	userHandler         *handlers.UserHandler
	requestHandler      *handlers.RepairRequestHandler
	responseHandler     *handlers.ResponseHandler
	reviewHandler       *handlers.ReviewHandler
	listHandler         *handlers.UserListHandler
	notificationHandler *handlers.NotificationHandler
	geoHandler          *handlers.GeolocationHandler
	priceHandler        *handlers.PriceHandler
	photoHandler        *handlers.ProblemPhotoHandler

	notificationService *services.NotificationService
}

func initializeApp(db *sql.DB, rdb *redis.Client, cfg config.Config, errorLog, infoLog *log.Logger) *application {
	// Repositories
	userRepo := repositories.UserRepository{DB: db}
	requestRepo := repositories.RepairRequestRepository{DB: db}
	responseRepo := repositories.ResponseRepository{DB: db}
	reviewRepo := repositories.ReviewRepository{DB: db}
	listRepo := repositories.UserListRepository{DB: db}
	notificationRepo := repositories.NotificationRepository{DB: db}
	locationRepo := repositories.LocationRepository{DB: db}
	priceHistoryRepo := repositories.PriceHistoryRepository{DB: db}
	photoRepo := repositories.ProblemPhotoRepository{DB: db}
	activityRepo := repositories.ActivityRepository{DB: db}

	tokenManager, err := utils.NewManager(string(jwtSecret()))
	if err != nil {
		errorLog.Fatal(err)
	}

	dgisClient := geo.NewDGISClient(nil, cfg.DGIS.APIKey, cfg.DGIS.RegionID)
	locator := geo.NewWorkerLocator(rdb)

	// Services
	notificationService := &services.NotificationService{NotificationRepo: &notificationRepo}
	activityService := &services.ActivityService{ActivityRepo: &activityRepo, ErrorLog: errorLog}
	listService := &services.UserListService{ListRepo: &listRepo, ErrorLog: errorLog}
	requestService := &services.RepairRequestService{
		RequestRepo:  &requestRepo,
		PriceRepo:    &priceHistoryRepo,
		ResponseRepo: &responseRepo,
		Geocoder:     dgisClient,
		Lists:        listService,
		Activity:     activityService,
		ErrorLog:     errorLog,
	}
	responseService := &services.ResponseService{
		ResponseRepo:  &responseRepo,
		RequestRepo:   &requestRepo,
		UserRepo:      &userRepo,
		Notifications: notificationService,
		Lists:         listService,
		Activity:      activityService,
		ErrorLog:      errorLog,
	}
	reviewService := &services.ReviewService{
		ReviewRepo:    &reviewRepo,
		RequestRepo:   &requestRepo,
		ResponseRepo:  &responseRepo,
		UserRepo:      &userRepo,
		Notifications: notificationService,
		Activity:      activityService,
		ErrorLog:      errorLog,
	}
	geoService := &services.GeolocationService{
		LocationRepo: &locationRepo,
		UserRepo:     &userRepo,
		Geocoder:     dgisClient,
		Locator:      locator,
		ErrorLog:     errorLog,
	}
	userService := &services.UserService{
		UserRepo:     &userRepo,
		ListRepo:     &listRepo,
		TokenManager: tokenManager,
	}
	priceService := &services.PriceService{PriceRepo: &priceHistoryRepo}
	photoService := &services.ProblemPhotoService{PhotoRepo: &photoRepo, RequestRepo: &requestRepo}

	// Handlers
	userHandler := &handlers.UserHandler{Service: userService}
	requestHandler := &handlers.RepairRequestHandler{Service: requestService}
	responseHandler := &handlers.ResponseHandler{Service: responseService}
	reviewHandler := &handlers.ReviewHandler{Service: reviewService}
	listHandler := &handlers.UserListHandler{Service: listService}
	notificationHandler := &handlers.NotificationHandler{Service: notificationService}
	geoHandler := &handlers.GeolocationHandler{Service: geoService}
	priceHandler := &handlers.PriceHandler{Service: priceService}
	photoHandler := &handlers.ProblemPhotoHandler{Service: photoService}

	return &application{
		errorLog:            errorLog,
		infoLog:             infoLog,
		db:                  db,
		userRepo:            &userRepo,
		userHandler:         userHandler,
		requestHandler:      requestHandler,
		responseHandler:     responseHandler,
		reviewHandler:       reviewHandler,
		listHandler:         listHandler,
		notificationHandler: notificationHandler,
		geoHandler:          geoHandler,
		priceHandler:        priceHandler,
		photoHandler:        photoHandler,
		notificationService: notificationService,
	}
}

func jwtSecret() []byte {
	if key := os.Getenv("JWT_SECRET"); key != "" {
		return []byte(key)
	}
	return []byte("asdadsadadaadsasd")
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Printf("Failed to open DB: %v", err)
		return nil, err
	}
	if err = db.Ping(); err != nil {
		log.Printf("Failed to ping DB: %v", err)
		return nil, err
	}
	db.SetMaxIdleConns(35)
	log.Println("Successfully connected to database")
	return db, nil
}

func addSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Cross-Origin-Resource-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}
