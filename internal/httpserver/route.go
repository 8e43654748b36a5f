package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/service"
)

type Deps struct {
	DB         *gorm.DB
	Auth       *service.AuthService
	Catalog    *service.CatalogService
	Cart       *service.CartService
	Reviews    *service.ReviewService
	Promotions *service.PromotionService
}

func Register(e *echo.Echo, d *Deps) {
	health := &HealthHTTP{DB: d.DB}
	e.GET("/health", health.Health)
	e.GET("/health/db", health.Database)

	authH := &AuthHTTP{Svc: d.Auth}
	e.POST("/auth/register", authH.Register)
	e.POST("/auth/login", authH.Login)

	requireAuth := auth.NewBearerAuth(d.Auth).RequireFreshToken

	categories := &CategoryHTTP{Svc: d.Catalog}
	category := e.Group("/category")
	category.GET("", categories.ListCategories)
	category.GET("/:id", categories.GetCategory)
	category.POST("", categories.CreateCategory, requireAuth)
	category.PUT("/:id", categories.UpdateCategory, requireAuth)
	category.DELETE("/:id", categories.DeleteCategory, requireAuth)
	category.POST("/:id/restore", categories.RestoreCategory, requireAuth)

	products := &ProductHTTP{Svc: d.Catalog}
	e.GET("/search", products.FullTextSearch)
	product := e.Group("/product")
	product.GET("", products.ListProducts)
	product.GET("/search", products.SearchProducts)
	product.GET("/category/:id", products.ListCategoryProducts)
	product.GET("/:id", products.GetProduct)
	product.POST("", products.CreateProduct, requireAuth)
	product.PUT("/:id", products.UpdateProduct, requireAuth)
	product.DELETE("/:id", products.DeleteProduct, requireAuth)
	product.POST("/:id/restore", products.RestoreProduct, requireAuth)

	carts := &CartHTTP{Svc: d.Cart}
	cart := e.Group("/cart", requireAuth)
	cart.GET("/count", carts.Count)
	cart.POST("/items", carts.AddItem)
	cart.GET("/items", carts.ListItems)
	cart.DELETE("/items", carts.Clear)
	cart.GET("/items/:id", carts.GetItem)
	cart.PUT("/items/:id", carts.UpdateItem)
	cart.DELETE("/items/:id", carts.RemoveItem)

	reviews := &ReviewHTTP{Svc: d.Reviews}
	review := e.Group("/review")
	review.GET("", reviews.ListReviews)
	review.GET("/my", reviews.ListMyReviews, requireAuth)
	review.GET("/product/:id", reviews.ListProductReviews)
	review.GET("/statistics/:id", reviews.Statistics)
	review.GET("/:id", reviews.GetReview)
	review.POST("", reviews.CreateReview, requireAuth)
	review.PUT("/:id", reviews.UpdateReview, requireAuth)
	review.DELETE("/:id", reviews.DeleteReview, requireAuth)

	promotions := &PromotionHTTP{Svc: d.Promotions}
	promotion := e.Group("/promotion")
	promotion.GET("", promotions.ListPromotions)
	promotion.GET("/active", promotions.ActivePromotions)
	promotion.GET("/product/:id", promotions.ProductPromotions)
	promotion.GET("/:id", promotions.GetPromotion)
	promotion.POST("", promotions.CreatePromotion, requireAuth)
	promotion.PUT("/:id", promotions.UpdatePromotion, requireAuth)
	promotion.DELETE("/:id", promotions.DeletePromotion, requireAuth)
	promotion.POST("/:id/products", promotions.ReplaceProducts, requireAuth)
	promotion.POST("/:id/restore", promotions.RestorePromotion, requireAuth)
}
