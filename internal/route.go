package internal

import (
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	docs "github.com/hubtav/tavlist/docs"
	"github.com/hubtav/tavlist/internal/handler"
	"github.com/hubtav/tavlist/internal/middleware"
	"github.com/hubtav/tavlist/pkg/storage"
)

const APIPrefix = "/v1"

func Register(registerConfig *handler.RegisterConfig) *gin.Engine {
	r := gin.Default()

	// Kubernetes health check
	r.GET(APIPrefix+"/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "ok",
		})
	})

	setupCORS(r, registerConfig)
	serveLocalFiles(r, registerConfig)
	RegisterService(r, registerConfig)

	// Swagger
	docs.SwaggerInfo.BasePath = "/"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// setupCORS allows the configured origins; in debug mode it also allows
// http://localhost:TAVLIST_FE_PORT.
func setupCORS(r *gin.Engine, conf *handler.RegisterConfig) {
	origins := append([]string{}, conf.Config.CORS.AllowOrigins...)
	if gin.Mode() == gin.DebugMode {
		if fe := os.Getenv("TAVLIST_FE_PORT"); fe != "" {
			origins = append(origins, "http://localhost:"+fe)
		}
	}
	if len(origins) == 0 {
		return
	}
	corsConf := cors.DefaultConfig()
	corsConf.AllowOrigins = origins
	corsConf.AddAllowHeaders("Authorization")
	corsConf.AddExposeHeaders("Content-Disposition", "Retry-After")
	r.Use(cors.New(corsConf))
}

// serveLocalFiles exposes uploaded objects when the local store is in use.
func serveLocalFiles(r *gin.Engine, conf *handler.RegisterConfig) {
	if conf.Config.Storage.Driver != storage.DriverLocal {
		return
	}
	r.Static(storage.LocalPrefix, conf.Config.Storage.LocalDir)
}

func RegisterService(r *gin.Engine, conf *handler.RegisterConfig) {
	managers := registerManagers(conf)

	///////////////////////////////////////
	//// Public routers, no need login ////
	///////////////////////////////////////

	publicRouter := r.Group(APIPrefix)
	publicRouter.Use(middleware.RateLimit(conf.RateLimiter))

	for _, mgr := range managers {
		mgr.RegisterPublic(publicRouter.Group(mgr.GetName()))
	}

	///////////////////////////////////////
	//// Protected routers, need login ////
	///////////////////////////////////////

	protectedRouter := r.Group(APIPrefix)
	protectedRouter.Use(middleware.AuthProtected(conf.TokenMgr, conf.Accounts))

	for _, mgr := range managers {
		mgr.RegisterProtected(protectedRouter.Group(mgr.GetName()))
	}

	///////////////////////////////////////
	//// Admin routers, need admin role ///
	///////////////////////////////////////

	adminRouter := r.Group(APIPrefix + "/admin")
	adminRouter.Use(middleware.AuthProtected(conf.TokenMgr, conf.Accounts), middleware.AuthAdmin())

	for _, mgr := range managers {
		mgr.RegisterAdmin(adminRouter.Group(mgr.GetName()))
	}
}
