package routers

import (
	"Market/cache"
	"Market/events"
	"Market/handlers"
	"Market/jwt"
	"Market/logger"
	"Market/middleware"
	"Market/pages"
	"Market/store"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
)

type Dependencies struct {
	Streams     store.StreamStore
	Products    store.ProductStore
	Favorites   store.FavoriteStore
	Users       store.UserStore
	Sessions    store.SessionStore
	ProductList cache.ProductList
	Publisher   events.Publisher
	Tokens      *jwt.Manager
	Registry    *prometheus.Registry
}

func SetupRouters(deps Dependencies) *gin.Engine {
	//建立Gin路由器
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery(), middleware.RequestLogger())
	if deps.Registry != nil {
		router.Use(middleware.NewMetrics(deps.Registry).Middleware())
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
	if err := router.SetTrustedProxies(nil); err != nil {
		return nil
	}
	router.SetHTMLTemplate(pages.Templates())
	if err := handlers.RegisterValidators(); err != nil {
		logger.Error().Err(err).Msg("無法註冊驗證規則")
		return nil
	}

	//不允許的方法與不存在的路徑皆回傳JSON
	router.NoMethod(middleware.MethodNotAllowedHandler)
	router.NoRoute(middleware.NotFoundHandler)

	//解析session，未登入者仍可繼續
	router.Use(middleware.AuthMiddleware(deps.Tokens, deps.Sessions))

	////頁面
	//商品詳細頁面
	router.GET("/products/:id", func(context *gin.Context) {
		handlers.ProductPageHandler(context, deps.Products, deps.Favorites)
	})
	//使用者個人頁面
	router.GET("/users/profile/:id", func(context *gin.Context) {
		handlers.ProfilePageHandler(context, deps.Users, deps.Products)
	})
	//直播頁面
	router.GET("/streams/:id", func(context *gin.Context) {
		handlers.StreamPageHandler(context, deps.Streams)
	})

	api := router.Group("/api")
	{
		//註冊帳號
		api.POST("/users/register", func(context *gin.Context) {
			handlers.RegisterHandler(context, deps.Users)
		})
		//登入帳號
		api.POST("/users/login", func(context *gin.Context) {
			handlers.LoginHandler(context, deps.Users, deps.Sessions, deps.Tokens)
		})
	}

	////需要登入，使用中間件檢查是否登入
	loginRequired := router.Group("/api")
	loginRequired.Use(middleware.CheckLoginMiddleware())
	{
		//查詢目前使用者資料
		loginRequired.GET("/users/me", func(context *gin.Context) {
			handlers.GetMyProfileHandler(context, deps.Users)
		})
		//查詢收藏的商品
		loginRequired.GET("/users/me/favorites", func(context *gin.Context) {
			handlers.GetFavoriteListHandler(context, deps.Favorites)
		})
		//登出
		loginRequired.POST("/users/logout", func(context *gin.Context) {
			handlers.LogOutHandler(context, deps.Sessions)
		})
		//查詢使用者公開資料
		loginRequired.GET("/users/:id", func(context *gin.Context) {
			handlers.GetUserProfileHandler(context, deps.Users, deps.Products)
		})

		//查詢商品列表
		loginRequired.GET("/products", func(context *gin.Context) {
			handlers.GetProductListHandler(context, deps.Products, deps.ProductList)
		})
		//新增商品
		loginRequired.POST("/products", func(context *gin.Context) {
			handlers.CreateProductHandler(context, deps.Products, deps.ProductList, deps.Publisher)
		})
		//查詢商品詳細資料
		loginRequired.GET("/products/:id", func(context *gin.Context) {
			handlers.GetProductDataHandler(context, deps.Products, deps.Favorites)
		})
		//收藏或取消收藏商品
		loginRequired.POST("/products/:id/favorite", func(context *gin.Context) {
			handlers.ToggleFavoriteHandler(context, deps.Products, deps.Favorites, deps.ProductList, deps.Publisher)
		})

		//查詢直播列表
		loginRequired.GET("/streams", func(context *gin.Context) {
			handlers.GetStreamListHandler(context, deps.Streams)
		})
		//建立直播
		loginRequired.POST("/streams", func(context *gin.Context) {
			handlers.CreateStreamHandler(context, deps.Streams, deps.Publisher)
		})
		//查詢直播資料
		loginRequired.GET("/streams/:id", func(context *gin.Context) {
			handlers.GetStreamHandler(context, deps.Streams)
		})
		//查詢直播聊天室訊息
		loginRequired.GET("/streams/:id/messages", func(context *gin.Context) {
			handlers.GetMessageListHandler(context, deps.Streams)
		})
		//傳送直播聊天室訊息
		loginRequired.POST("/streams/:id/messages", func(context *gin.Context) {
			handlers.SendMessageHandler(context, deps.Streams, deps.Publisher)
		})
	}

	return router
}
