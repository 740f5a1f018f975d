package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/medsecure/medsecure-api/internal/attachment"
	"github.com/medsecure/medsecure-api/internal/config"
	"github.com/medsecure/medsecure-api/internal/gateway"
	"github.com/medsecure/medsecure-api/internal/handlers"
	"github.com/medsecure/medsecure-api/internal/middleware"
	"github.com/medsecure/medsecure-api/internal/service"
	"github.com/medsecure/medsecure-api/internal/store"
)

// Dependencies bundles everything the router wires into handlers
type Dependencies struct {
	Config           *config.Config
	Logger           *logrus.Logger
	RequestStore     *store.RequestStore
	ProfileStore     *store.ProfileStore
	Gateway          *gateway.Client
	AttachmentClient *attachment.Client
	EHRService       *service.EHRService
	StatsService     *service.StatsService
}

// SetupRouter configures all API routes
func SetupRouter(deps *Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationIDMiddleware())

	if deps.Config.CORS.Enabled {
		router.Use(middleware.CORSMiddleware(&deps.Config.CORS))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	requestHandler := handlers.NewRequestHandler(deps.RequestStore)
	onboardingHandler := handlers.NewOnboardingHandler(deps.Gateway, deps.Logger)
	ehrHandler := handlers.NewEHRHandler(deps.EHRService)
	attachmentHandler := handlers.NewAttachmentHandler(deps.AttachmentClient)
	statsHandler := handlers.NewStatsHandler(deps.StatsService)
	profileHandler := handlers.NewProfileHandler(deps.ProfileStore)

	v1 := router.Group("/api/v1")
	if deps.Config.Security.IsBasicAuthEnabled() {
		v1.Use(middleware.BasicAuthMiddleware(&deps.Config.Security))
	}
	{
		requests := v1.Group("/requests")
		{
			requests.POST("", requestHandler.CreateRequest)
			requests.GET("", requestHandler.ListRequests)
			requests.POST("/consultations", requestHandler.CreateConsultationRequest)
			requests.GET("/:requestId", requestHandler.GetRequest)
			requests.PUT("/:requestId/status", requestHandler.UpdateRequestStatus)
			requests.GET("/:requestId/ehr", requestHandler.GetConsultationEHR)
		}

		onboarding := v1.Group("/onboarding")
		{
			onboarding.GET("/patients", onboardingHandler.ListPatientRequests)
			onboarding.POST("/patients", onboardingHandler.SubmitPatientRequest)
			onboarding.GET("/health-actors", onboardingHandler.ListHealthActorRequests)
			onboarding.POST("/health-actors", onboardingHandler.SubmitHealthActorRequest)
		}

		v1.POST("/identities", onboardingHandler.RegisterIdentity)
		v1.POST("/ehrs", ehrHandler.CreateEHR)
		v1.POST("/attachments", attachmentHandler.Upload)
		v1.GET("/dashboard/stats", statsHandler.GetStats)

		profiles := v1.Group("/profiles")
		{
			profiles.PUT("/patients/:matricule", profileHandler.PutPatientProfile)
			profiles.GET("/patients/:matricule", profileHandler.GetPatientProfile)
			profiles.PUT("/actors/:actorId", profileHandler.PutActorProfile)
			profiles.GET("/actors/:actorId", profileHandler.GetActorProfile)
		}
	}

	return router
}
