// Package server assembles repositories, services and handlers into the HTTP
// API.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hotel/internal/config"
	"hotel/internal/events"
	"hotel/internal/middleware"
	"hotel/internal/modules/activity"
	"hotel/internal/modules/auth"
	"hotel/internal/modules/booking"
	"hotel/internal/modules/checkin"
	"hotel/internal/modules/document"
	"hotel/internal/modules/guest"
	"hotel/internal/modules/key"
	"hotel/internal/modules/notification"
	"hotel/internal/modules/payment"
	"hotel/internal/modules/room"
	"hotel/internal/obs"
	jwtsvc "hotel/internal/pkg/jwt"
	"hotel/internal/repository"
)

// External holds the adapters to systems outside the database.
type External struct {
	Publisher events.Publisher
	Documents document.Store
	Mailer    notification.Mailer
	Payments  payment.Provider
	Locks     key.LockClient
}

type App struct {
	Router   *gin.Engine
	CheckIns *checkin.Service
}

func New(cfg *config.Config, db *gorm.DB, ext External, logger *slog.Logger) *App {
	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	checkinRepo := repository.NewCheckInRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	generator := document.NewGenerator(cfg.HotelName, cfg.TaxID)
	notifier := notification.NewService(ext.Mailer, cfg.HotelName)

	authHandler := auth.NewHandler(auth.NewService(userRepo, j, logger))
	roomHandler := room.NewHandler(room.NewService(roomRepo, bookingRepo, checkinRepo, logger))
	paymentService := payment.NewService(
		bookingRepo, activityRepo, ext.Payments, cfg.PaymentRedirectBase, cfg.PaymentCurrency, logger,
	)
	paymentHandler := payment.NewHandler(paymentService)
	bookingHandler := booking.NewHandler(booking.NewService(
		bookingRepo, roomRepo, generator, ext.Documents, notifier, paymentService, ext.Publisher, logger,
	))
	activityHandler := activity.NewHandler(activity.NewService(activityRepo, paymentService, ext.Publisher, logger))
	documentHandler := document.NewHandler(document.NewService(ext.Documents, bookingRepo, generator, logger))
	checkinService := checkin.NewService(bookingRepo, checkinRepo, roomRepo, userRepo, ext.Publisher, logger)
	checkinHandler := checkin.NewHandler(checkinService)
	guestHandler := guest.NewHandler(guest.NewService(userRepo, bookingRepo, logger))
	keyHandler := key.NewHandler(key.NewService(roomRepo, checkinRepo, ext.Locks, logger))

	mw := obs.Middleware{Logger: logger}
	r := gin.New()
	r.Use(mw.RequestID(), mw.Recovery(), mw.AccessLog(), middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			roomHandler.RegisterRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			activityHandler.RegisterRoutes(protected)
			paymentHandler.RegisterRoutes(protected)
			documentHandler.RegisterRoutes(protected)
			checkinHandler.RegisterRoutes(protected)
			guestHandler.RegisterRoutes(protected)
			keyHandler.RegisterRoutes(protected)
		}
	}

	return &App{Router: r, CheckIns: checkinService}
}
