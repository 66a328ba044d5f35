// Package httpserver exposes the REST API over gin. Every route under the
// protected group authenticates through the identity resolver first.
package httpserver

import (
	"github.com/dmitrijs2005/assettrack/internal/logging"
	"github.com/dmitrijs2005/assettrack/internal/server/services"
	"github.com/gin-gonic/gin"
)

type Dependencies struct {
	Users          *services.UserService
	Assets         *services.AssetService
	Resolver       IdentityResolver
	Store          Pinger
	Logger         logging.Logger
	AllowedOrigins []string
}

func NewRouter(deps Dependencies) *gin.Engine {
	h := &handlers{
		users:  deps.Users,
		assets: deps.Assets,
		store:  deps.Store,
		logger: deps.Logger,
	}

	router := gin.New()
	router.Use(RequestID())
	router.Use(Logger(deps.Logger))
	router.Use(gin.Recovery())
	router.Use(CORS(deps.AllowedOrigins))

	router.GET("/", h.root)
	router.GET("/healthz", h.health)
	router.POST("/register", h.register)
	router.POST("/login", h.login)

	protected := router.Group("")
	protected.Use(Auth(deps.Resolver))
	{
		protected.GET("/users/me", h.me)

		protected.GET("/assets", h.listAssets)
		protected.POST("/assets", h.createAsset)
		protected.GET("/assets/:id", h.getAsset)
		protected.PATCH("/assets/:id/status", h.updateAssetStatus)
		protected.DELETE("/assets/:id", h.deleteAsset)

		protected.GET("/assets/:id/maintenance", h.listMaintenance)
		protected.POST("/assets/:id/maintenance", h.addMaintenance)

		protected.POST("/assets/:id/attachments", h.createAttachment)
		protected.GET("/assets/:id/attachments", h.listAttachments)
		protected.GET("/assets/:id/attachments/:attachmentID", h.getAttachment)
		protected.POST("/assets/:id/attachments/:attachmentID/uploaded", h.markUploaded)
	}

	return router
}
