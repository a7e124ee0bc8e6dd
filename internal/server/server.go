// Package server wires the domain services into one gin engine.
package server

import (
	"net/http"
	"strings"

	"nerdsociety/internal/config"
	"nerdsociety/internal/domain/auth"
	"nerdsociety/internal/domain/booking"
	"nerdsociety/internal/domain/catalog"
	"nerdsociety/internal/domain/media"
	"nerdsociety/internal/domain/nerdcoin"
	"nerdsociety/internal/domain/notification"
	"nerdsociety/internal/domain/payment"
	"nerdsociety/internal/domain/post"
	"nerdsociety/internal/domain/realtime"
	"nerdsociety/internal/domain/setting"
	"nerdsociety/internal/domain/staff"
	"nerdsociety/internal/middleware"
	"nerdsociety/internal/pkg/jwt"
	"nerdsociety/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Models lists every table owned by the application, in migration order.
func Models() []any {
	return []any{
		&auth.User{},
		&auth.PasswordResetToken{},
		&catalog.Location{},
		&catalog.Room{},
		&catalog.Combo{},
		&booking.Booking{},
		&payment.Payment{},
		&nerdcoin.Transaction{},
		&setting.Setting{},
		&notification.EmailTemplate{},
		&post.Post{},
		&media.Media{},
	}
}

// App holds the engine and the services that outlive a single request.
type App struct {
	Engine *gin.Engine

	JWT      *jwt.Service
	Auth     *auth.Service
	Bookings *booking.Service
	Mail     *notification.Service
	Hub      *realtime.Hub
	Settings *setting.Service
}

// New builds every service against db. A nil mailer falls back to SMTP
// configured from settings and cfg.SMTP.
func New(db *gorm.DB, cfg *config.Config, mailer notification.Mailer) *App {
	jwtService := jwt.New(cfg.JWTSecret, cfg.JWTTTL)

	settingService := setting.NewService(setting.NewRepository(db))
	if mailer == nil {
		mailer = notification.NewSMTPMailer(settingService, cfg.SMTP)
	}
	mailService := notification.NewService(notification.NewTemplateRepository(db), mailer, settingService, cfg.Location, cfg.SiteURL)

	userRepo := auth.NewRepository(db)
	authService := auth.NewService(userRepo, jwtService, mailService, auth.Options{
		TokenPepper:      cfg.TokenPepper,
		PasswordResetTTL: cfg.PasswordResetTTL,
		SiteURL:          cfg.SiteURL,
	})

	bookingRepo := booking.NewRepository(db)
	catalogService := catalog.NewService(catalog.NewRepository(db), bookingRepo)
	paymentService := payment.NewService(payment.NewRepository(db), settingService, cfg.VietQR)
	coinService := nerdcoin.NewService(db, cfg.NerdCoin)
	hub := realtime.NewHub()

	bookingService := booking.NewService(db, booking.Deps{
		Repo:      bookingRepo,
		Catalog:   catalogService,
		Payments:  paymentService,
		Coins:     coinService,
		Customers: authService,
		Mail:      mailService,
		Events:    hub,
		Settings:  settingService,
		Config:    cfg.Booking,
		Location:  cfg.Location,
	})

	postService := post.NewService(post.NewRepository(db))
	mediaService := media.NewService(media.NewRepository(db), cfg.UploadDir, cfg.UploadURLBase)
	staffService := staff.NewService(userRepo, coinService)

	authHandler := auth.NewHandler(authService)
	catalogHandler := catalog.NewHandler(catalogService)
	bookingHandler := booking.NewHandler(bookingService)
	coinHandler := nerdcoin.NewHandler(coinService)
	settingHandler := setting.NewHandler(settingService)
	templateHandler := notification.NewHandler(mailService)
	postHandler := post.NewHandler(postService)
	mediaHandler := media.NewHandler(mediaService)
	staffHandler := staff.NewHandler(staffService)
	liveHandler := realtime.NewHandler(hub, jwtService, authService, cfg.CORSOrigins)

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			response.Error(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database is not reachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	if strings.HasPrefix(cfg.UploadURLBase, "/") {
		r.Static(cfg.UploadURLBase, cfg.UploadDir)
	}

	api := r.Group("/api")
	{
		// public
		authHandler.RegisterPublicRoutes(api)
		catalogHandler.RegisterPublicRoutes(api)
		bookingHandler.RegisterPublicRoutes(api, middleware.OptionalJWTAuth(jwtService))
		postHandler.RegisterPublicRoutes(api)
		liveHandler.RegisterRoutes(api)

		// signed in customers and staff
		protected := api.Group("")
		protected.Use(middleware.JWTAuth(jwtService), middleware.RequireActiveUser(authService))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterProtectedRoutes(protected)
			coinHandler.RegisterProtectedRoutes(protected)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.JWTAuth(jwtService), middleware.RequireActiveUser(authService), middleware.StaffOnly())
		{
			bookingHandler.RegisterAdminRoutes(admin)
			coinHandler.RegisterAdminRoutes(admin)
			postHandler.RegisterAdminRoutes(admin)
			mediaHandler.RegisterAdminRoutes(admin)
			staffHandler.RegisterAdminRoutes(admin)

			catalogHandler.RegisterAdminRoutes(admin.Group("", middleware.RequirePermission(auth.PermCatalogManage)))
			settingsGroup := admin.Group("", middleware.RequirePermission(auth.PermSettingsManage))
			settingHandler.RegisterAdminRoutes(settingsGroup)
			templateHandler.RegisterAdminRoutes(settingsGroup)
		}
	}

	return &App{
		Engine:   r,
		JWT:      jwtService,
		Auth:     authService,
		Bookings: bookingService,
		Mail:     mailService,
		Hub:      hub,
		Settings: settingService,
	}
}

// Shutdown disconnects live clients and waits for queued email.
func (a *App) Shutdown() {
	a.Hub.Close()
	a.Mail.Wait()
}
