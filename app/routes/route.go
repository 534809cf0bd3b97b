package routes

import (
	"github.com/gorilla/mux"
	"github.com/omarwaleed/egystore/app/configs"
	"github.com/omarwaleed/egystore/app/handlers"
	"github.com/omarwaleed/egystore/app/middlewares"
	"github.com/omarwaleed/egystore/app/repositories"
	"github.com/omarwaleed/egystore/app/services"
	"github.com/redis/go-redis/v9"
	"github.com/unrolled/render"
	"gorm.io/gorm"
)

func NewRouter(db *gorm.DB, rdb *redis.Client, env configs.ENV) *mux.Router {
	rnd := render.New()

	userRepo := repositories.NewUserRepository(db)
	productRepo := repositories.NewProductRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	cartItemRepo := repositories.NewCartItemRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	orderItemRepo := repositories.NewOrderItemRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)

	mailer := services.NewMailer(services.Config{
		Host:     env.EmailHost,
		Port:     env.EmailPort,
		Username: env.EmailUsername,
		Password: env.EmailPassword,
		From:     env.EmailFrom,
	})
	cache := services.NewProductCache(rdb)
	paymob := services.NewPaymobService(env.PaymobBaseURL, env.PaymobAPIKey, env.PaymobIntegrationID, env.PaymobHMACSecret)

	cartService := services.NewCartService(userRepo, cartItemRepo, productRepo)
	orderService := services.NewOrderService(db, userRepo, productRepo, cartItemRepo, orderRepo, orderItemRepo, mailer, cache)
	reviewService := services.NewReviewService(reviewRepo, productRepo)

	authHandler := handlers.NewAuthHandler(rnd, userRepo, env)
	productHandler := handlers.NewProductHandler(rnd, productRepo, cache)
	categoryHandler := handlers.NewCategoryHandler(rnd, categoryRepo)
	cartHandler := handlers.NewCartHandler(rnd, cartService)
	orderHandler := handlers.NewOrderHandler(rnd, orderService)
	reviewHandler := handlers.NewReviewHandler(rnd, reviewService)
	paymentHandler := handlers.NewPaymentHandler(rnd, orderService, paymob)

	auth := middlewares.AuthMiddleware(rnd, env.JWTSecret)
	admin := middlewares.AdminAuthMiddleware(rnd, userRepo)

	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	api.HandleFunc("/product/", productHandler.List).Methods("GET")
	api.HandleFunc("/product/show/{id}", productHandler.Get).Methods("GET")

	productAdmin := api.PathPrefix("/product").Subrouter()
	productAdmin.Use(auth, admin)
	productAdmin.HandleFunc("/add", productHandler.Create).Methods("POST")
	productAdmin.HandleFunc("/update/{id}", productHandler.Update).Methods("PUT")
	productAdmin.HandleFunc("/delete/{id}", productHandler.Delete).Methods("DELETE")

	api.HandleFunc("/category/", categoryHandler.List).Methods("GET")
	api.HandleFunc("/category/show/{id}", categoryHandler.Get).Methods("GET")

	categoryAdmin := api.PathPrefix("/category").Subrouter()
	categoryAdmin.Use(auth, admin)
	categoryAdmin.HandleFunc("/add", categoryHandler.Create).Methods("POST")
	categoryAdmin.HandleFunc("/update/{id}", categoryHandler.Update).Methods("PUT")
	categoryAdmin.HandleFunc("/delete/{id}", categoryHandler.Delete).Methods("DELETE")
	categoryAdmin.HandleFunc("/{id}/subcategory", categoryHandler.AddSubcategory).Methods("POST")
	categoryAdmin.HandleFunc("/subcategory/{subId}", categoryHandler.DeleteSubcategory).Methods("DELETE")

	cart := api.PathPrefix("/cart").Subrouter()
	cart.Use(auth)
	cart.HandleFunc("/", cartHandler.Get).Methods("GET")
	cart.HandleFunc("/add", cartHandler.Add).Methods("POST")
	cart.HandleFunc("/update", cartHandler.UpdateQty).Methods("PUT")
	cart.HandleFunc("/remove/{productId}", cartHandler.Remove).Methods("DELETE")

	order := api.PathPrefix("/order").Subrouter()
	order.Use(auth)
	order.HandleFunc("/addOrder", orderHandler.AddOrder).Methods("POST")
	order.HandleFunc("/show/{id}", orderHandler.Show).Methods("GET")
	order.HandleFunc("/my", orderHandler.ListMine).Methods("GET")
	order.HandleFunc("/update/{id}", orderHandler.Update).Methods("PUT")
	order.HandleFunc("/delete/{id}", orderHandler.Delete).Methods("DELETE")

	orderAdmin := api.PathPrefix("/order").Subrouter()
	orderAdmin.Use(auth, admin)
	orderAdmin.HandleFunc("/", orderHandler.ListAll).Methods("GET")
	orderAdmin.HandleFunc("/updateStatus/{id}", orderHandler.UpdateStatus).Methods("PUT")

	api.HandleFunc("/review/product/{productId}", reviewHandler.ListByProduct).Methods("GET")

	review := api.PathPrefix("/review").Subrouter()
	review.Use(auth)
	review.HandleFunc("/{productId}", reviewHandler.Create).Methods("POST")
	review.HandleFunc("/{id}", reviewHandler.Update).Methods("PUT")
	review.HandleFunc("/{id}", reviewHandler.Delete).Methods("DELETE")

	payment := api.PathPrefix("/payment").Subrouter()
	paymentCheckout := payment.PathPrefix("/checkout").Subrouter()
	paymentCheckout.Use(auth)
	paymentCheckout.HandleFunc("/{orderId}", paymentHandler.Checkout).Methods("POST")

	// Webhook is authenticated by its HMAC signature, not a bearer token.
	payment.HandleFunc("/webhook", paymentHandler.Webhook).Methods("POST")

	return router
}
