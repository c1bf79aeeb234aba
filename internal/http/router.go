package api

import (
	stdhttp "net/http"

	intconfig "jobboard/internal/config"
	"jobboard/internal/domain/models"
	h "jobboard/internal/http/handlers"
	"jobboard/internal/http/middleware"
	"jobboard/internal/metrics"
	"jobboard/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewRouter wires middleware and every /api route. files may be nil, in which
// case uploads are rejected; reg may be nil to skip /metrics.
func NewRouter(env intconfig.Env, files storage.Store, reg *metrics.Registry) *gin.Engine {
	h.Configure(h.Options{
		Files:     files,
		JWTSecret: []byte(env.JWTSecret),
	})

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(logrus.StandardLogger()), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins))
	if reg != nil {
		r.Use(middleware.Metrics(reg.HTTP))
		r.GET("/metrics", gin.WrapH(reg.Handler()))
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		logrus.WithError(err).Warn("failed to set trusted proxies")
	}
	if env.MaxUploadSize > 0 {
		r.MaxMultipartMemory = env.MaxUploadSize
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"status":     stdhttp.StatusNotFound,
			"code":       "not_found",
			"message":    "route not found",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": middleware.GetRequestID(c),
		})
	})

	admin := middleware.RequireRoles(models.RoleAdmin)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleEmployer)
	member := middleware.RequireRoles(models.RoleAdmin, models.RoleEmployer, models.RoleSeeker)

	api := r.Group("/api", middleware.Auth([]byte(env.JWTSecret)))
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		api.POST("/auth/login", h.Login)

		users := api.Group("/users", admin)
		users.GET("", h.GetUsers)
		users.GET("/:id", h.GetUserByID)
		users.POST("", h.CreateUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)

		employers := api.Group("/employers")
		employers.GET("", h.GetEmployers)
		employers.GET("/:id", h.GetEmployerByID)
		employers.POST("", admin, h.CreateEmployer)
		employers.PUT("/:id", admin, h.UpdateEmployer)
		employers.DELETE("/:id", admin, h.DeleteEmployer)

		jobs := api.Group("/jobs")
		jobs.GET("", h.GetJobs)
		jobs.GET("/:id", h.GetJobByID)
		jobs.POST("", staff, h.CreateJob)
		jobs.PUT("/:id", staff, h.UpdateJob)
		jobs.DELETE("/:id", staff, h.DeleteJob)

		applications := api.Group("/applications", member)
		applications.GET("", h.GetApplications)
		applications.GET("/check", h.CheckPriorApplication)
		applications.GET("/:id", h.GetApplicationByID)
		applications.GET("/:id/receipt", h.GetApplicationReceipt)
		applications.POST("", h.CreateApplication)
		applications.PUT("/:id", staff, h.UpdateApplication)
		applications.DELETE("/:id", staff, h.DeleteApplication)

		api.GET("/provinces", h.GetProvinces)
		api.GET("/districts", h.GetDistricts)

		industries := api.Group("/industries")
		industries.GET("", h.GetIndustries)
		industries.GET("/:id", h.GetIndustryByID)
		industries.POST("", admin, h.CreateIndustry)
		industries.PUT("/:id", admin, h.UpdateIndustry)
		industries.DELETE("/:id", admin, h.DeleteIndustry)
	}

	h.SetRouter(r)
	return r
}
