package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"ams-portal/internal/controllers"
	"ams-portal/internal/repositories"
	"ams-portal/internal/services"
	"ams-portal/pkg/config"
	"ams-portal/pkg/middleware"
	"ams-portal/pkg/service"
)

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, logger *zap.Logger, cfg *config.Config) {
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)

	// repositories
	userRepo := repositories.NewUserRepository(dbConn, logger)
	partnerRepo := repositories.NewPartnerRepository(dbConn)
	projectRepo := repositories.NewProjectRepository(dbConn)
	refRepo := repositories.NewReferenceRepository(dbConn)
	ticketRepo := repositories.NewTicketRepository(dbConn, logger)
	resourceRepo := repositories.NewTicketResourceRepository(dbConn)
	historyRepo := repositories.NewTicketHistoryRepository(dbConn)
	slaRuleRepo := repositories.NewSlaRuleRepository(dbConn)
	timesheetRepo := repositories.NewTimesheetRepository(dbConn)
	notificationRepo := repositories.NewNotificationRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// services
	authService := services.NewAuthService(userRepo, jwtSvc, logger)
	userService := services.NewUserService(userRepo, partnerRepo, logger)
	partnerService := services.NewPartnerService(partnerRepo)
	projectService := services.NewProjectService(projectRepo, partnerRepo)
	refService := services.NewReferenceService(refRepo, cacheRepo, cfg.Cache.ReferenceTTL, logger)
	notificationService := services.NewNotificationService(notificationRepo, resourceRepo, logger)
	ticketService := services.NewTicketService(ticketRepo, resourceRepo, userRepo, refRepo, historyRepo, notificationService, logger)
	slaRuleService := services.NewSlaRuleService(slaRuleRepo, refService, logger)
	timesheetService := services.NewTimesheetService(timesheetRepo, userRepo, projectRepo, logger)

	// controllers
	authCtrl := controllers.NewAuthController(authService, logger)
	userCtrl := controllers.NewUserController(userService, logger)
	partnerCtrl := controllers.NewPartnerController(partnerService, logger)
	projectCtrl := controllers.NewProjectController(projectService, logger)
	refCtrl := controllers.NewReferenceController(refService, logger)
	ticketCtrl := controllers.NewTicketController(ticketService, logger)
	slaRuleCtrl := controllers.NewSlaRuleController(slaRuleService, logger)
	timesheetCtrl := controllers.NewTimesheetController(timesheetService, logger)
	notificationCtrl := controllers.NewNotificationController(notificationService, logger)

	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, secureGroup, authCtrl)
	runUserRouter(secureGroup, userCtrl)
	runPartnerRouter(secureGroup, partnerCtrl)
	runProjectRouter(secureGroup, projectCtrl)
	runReferenceRouter(secureGroup, refCtrl)
	runTicketRouter(secureGroup, ticketCtrl)
	runSlaRuleRouter(secureGroup, slaRuleCtrl)
	runTimesheetRouter(secureGroup, timesheetCtrl)
	runNotificationRouter(secureGroup, notificationCtrl)
}
