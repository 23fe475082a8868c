package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"inkwell/api/internal/apperr"
	"inkwell/api/internal/config"
	"inkwell/api/internal/media"
	"inkwell/api/internal/middleware"
	"inkwell/api/internal/repository"
	"inkwell/api/internal/security"
	"inkwell/api/internal/service"
	"inkwell/api/internal/storage"
)

type HandlerSet struct {
	log            zerolog.Logger
	cfg            *config.AppConfig
	authService    *service.AuthService
	creatorService *service.CreatorService
	textService    *service.TextService
	imageService   *service.ImageService
	pageService    *service.PageService
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, store *storage.ObjectStore, pool *media.Pool, queue service.VariantQueue, cfg *config.AppConfig) HandlerSet {
	creatorRepo := repository.NewCreatorRepository(db)
	textRepo := repository.NewTextRepository(db)
	imageRepo := repository.NewImageRepository(db)
	pageRepo := repository.NewPageRepository(db)

	tokens := security.NewTokenService(cfg.Security.JWTSecret, cfg.Security.SessionTTL)

	return HandlerSet{
		log:            log,
		cfg:            cfg,
		authService:    service.NewAuthService(creatorRepo, tokens, log),
		creatorService: service.NewCreatorService(creatorRepo, log),
		textService:    service.NewTextService(textRepo, imageRepo, log),
		imageService:   service.NewImageService(imageRepo, store, pool, queue, log),
		pageService:    service.NewPageService(pageRepo, imageRepo, log),
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)

		authProtected := v1.Group("/auth")
		authProtected.Use(middleware.RequireClaims(h.authService))
		authProtected.GET("/me", h.Me)
		authProtected.POST("/change-password", h.ChangePassword)
		authProtected.POST("/change-password-other", h.ChangePasswordOther)

		creator := v1.Group("/creator")
		creator.Use(middleware.RequireClaims(h.authService))
		creator.POST("/new", h.NewCreator)
		creator.POST("/update-profile", h.UpdateProfile)
		creator.POST("/promote", h.PromoteCreator)
		creator.POST("/demote", h.DemoteCreator)
		creator.POST("/lock", h.LockCreator)
		creator.GET("", h.ListCreators)

		text := v1.Group("/text")
		text.Use(middleware.RequireClaims(h.authService))
		text.POST("/save", h.SaveText)
		text.POST("/edit", h.EditText)
		text.POST("/:id/done", h.MarkTextDone)
		text.DELETE("/:id/done", h.UnmarkTextDone)
		text.PUT("/:id/publish", h.SetTextPublishStatus)
		text.GET("/mine", h.ListOwnTexts)

		image := v1.Group("/image")
		image.Use(middleware.RequireClaims(h.authService))
		image.POST("/upload", h.UploadImage)
		image.DELETE("/:id", h.DeleteImage)

		page := v1.Group("/page")
		page.Use(middleware.RequireClaims(h.authService))
		page.POST("/save", h.SavePage)
		page.DELETE("/*path", h.DeletePage)

		// Public, read-only surface.
		public := v1.Group("")
		public.Use(middleware.OptionalClaims(h.authService))
		public.GET("/texts", h.ListPublishedTexts)
		public.GET("/texts/:id", h.GetText)
		public.GET("/images/:id", h.GetImage)
		public.GET("/pages/*path", h.GetPage)
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
}
