package main

import (
	"database/sql"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/saraswati-stationery/stationery-backend/internal/address"
	"github.com/saraswati-stationery/stationery-backend/internal/cart"
	"github.com/saraswati-stationery/stationery-backend/internal/checkout"
	"github.com/saraswati-stationery/stationery-backend/internal/config"
	"github.com/saraswati-stationery/stationery-backend/internal/gateway"
	"github.com/saraswati-stationery/stationery-backend/internal/loyalty"
	"github.com/saraswati-stationery/stationery-backend/internal/order"
	"github.com/saraswati-stationery/stationery-backend/internal/product"
	"github.com/saraswati-stationery/stationery-backend/internal/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()

	if err := ensureSchema(db); err != nil {
		log.Fatalf("schema bootstrap failed: %v", err)
	}
	seedProducts(db)

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	userService := user.NewService(user.NewPostgresRepository(db))
	userHandler := user.NewHandler(userService)

	productRepo := product.NewPostgresRepository(db)
	productService := product.NewService(productRepo)
	productHandler := product.NewHandler(productService)

	cartRepo := cart.NewPostgresRepository(db)
	cartService := cart.NewService(cartRepo, productService)
	cartHandler := cart.NewHandler(cartService)

	loyaltyService := loyalty.NewService(db, loyalty.NewPostgresRepository(db))
	loyaltyHandler := loyalty.NewHandler(loyaltyService, func(username string) (int, error) {
		u, err := userService.GetByUsername(username)
		if err != nil {
			return 0, err
		}
		return u.ID, nil
	})

	orderRepo := order.NewPostgresRepository(db)
	orderHandler := order.NewHandler(order.NewService(orderRepo))

	gatewayClient := gateway.NewClient(cfg.GatewayBaseURL, cfg.GatewaySecretKey, nil)
	checkoutStore := checkout.NewPostgresStore(db, productRepo, cartRepo, loyaltyService, orderRepo)
	checkoutService := checkout.NewService(checkoutStore, gatewayClient, cfg.ReturnURL, cfg.WebsiteURL)
	checkoutHandler := checkout.NewHandler(checkoutService, func(userID int) (gateway.CustomerInfo, error) {
		u, err := userService.GetByID(userID)
		if err != nil {
			return gateway.CustomerInfo{}, err
		}
		return gateway.CustomerInfo{Name: u.Username, Email: u.Email}, nil
	})

	addressHandler := address.NewHandler(address.NewService(address.NewPostgresRepository(db)))

	// public routes first, then everything behind the JWT middleware
	userHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	userHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	checkoutHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)
	loyaltyHandler.RegisterProtectedRoutes(app)
	addressHandler.RegisterProtectedRoutes(app)

	productHandler.RegisterAdminRoutes(app)
	orderHandler.RegisterAdminRoutes(app)
	loyaltyHandler.RegisterAdminRoutes(app)

	log.Printf("starting server on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func mustOpenDB(dbURL string) *sql.DB {
	if dbURL == "" {
		panic("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(err)
	}

	return db
}

func ensureSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id SERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'customer',
			created_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS product (
			product_id SERIAL PRIMARY KEY,
			product_name TEXT NOT NULL,
			product_price NUMERIC NOT NULL DEFAULT 0,
			stock INT NOT NULL DEFAULT 0,
			category TEXT,
			product_desc TEXT,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS carts (
			user_id INT PRIMARY KEY,
			lines JSONB NOT NULL DEFAULT '{}',
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS loyalty_card (
			card_id SERIAL PRIMARY KEY,
			user_id INT UNIQUE NOT NULL,
			points INT NOT NULL DEFAULT 0,
			tier TEXT NOT NULL DEFAULT 'Silver'
		)`,
		`CREATE TABLE IF NOT EXISTS loyalty_transaction (
			transaction_id SERIAL PRIMARY KEY,
			user_id INT NOT NULL,
			points INT NOT NULL,
			kind TEXT NOT NULL,
			description TEXT,
			created_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS sale (
			sale_id SERIAL PRIMARY KEY,
			user_id INT NOT NULL,
			amount NUMERIC NOT NULL,
			items TEXT,
			sale_date TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			order_id SERIAL PRIMARY KEY,
			user_id INT NOT NULL,
			full_name TEXT NOT NULL,
			street TEXT NOT NULL,
			city TEXT NOT NULL,
			phone TEXT NOT NULL,
			subtotal NUMERIC NOT NULL,
			delivery_charge NUMERIC NOT NULL,
			discount NUMERIC NOT NULL,
			total NUMERIC NOT NULL,
			delivery_option TEXT NOT NULL,
			payment_method TEXT NOT NULL,
			payment_status TEXT NOT NULL,
			order_status TEXT NOT NULL,
			points_earned INT NOT NULL DEFAULT 0,
			points_redeemed INT NOT NULL DEFAULT 0,
			tracking_number TEXT,
			carrier TEXT,
			delivered_at TEXT,
			delivery_confirmed BOOLEAN NOT NULL DEFAULT FALSE,
			dispatcher_notes TEXT,
			created_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS order_item (
			line_item_id SERIAL PRIMARY KEY,
			order_id INT NOT NULL REFERENCES orders(order_id) ON DELETE CASCADE,
			product_id INT NOT NULL,
			product_name TEXT NOT NULL,
			price NUMERIC NOT NULL,
			quantity INT NOT NULL,
			subtotal NUMERIC NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pending_checkout (
			user_id INT PRIMARY KEY,
			pidx TEXT NOT NULL,
			order_ref TEXT NOT NULL,
			draft JSONB NOT NULL,
			created_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS address (
			address_id SERIAL PRIMARY KEY,
			user_id INT NOT NULL,
			label TEXT,
			full_name TEXT NOT NULL,
			street TEXT NOT NULL,
			city TEXT NOT NULL,
			phone TEXT,
			created_at TEXT,
			updated_at TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// seedProducts fills an empty catalog with a starter set so a fresh deploy
// has something on the shelves.
func seedProducts(db *sql.DB) {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM product`).Scan(&count); err != nil || count > 0 {
		return
	}

	seed := []struct {
		name     string
		price    float64
		stock    int
		category string
	}{
		{"Ballpoint Pen (blue)", 25, 200, "Pens and Pencils"},
		{"HB Pencil", 15, 300, "Pens and Pencils"},
		{"A4 Notebook 200 pages", 120, 80, "Notebooks and Diaries"},
		{"A4 Copy Paper (500 sheets)", 450, 40, "Paper Products"},
		{"Watercolor Set 12 shades", 350, 25, "Art Supplies"},
		{"Stapler No. 10", 180, 30, "Office Supplies"},
		{"Scientific Calculator", 1250, 15, "Calculators"},
	}
	for _, s := range seed {
		if _, err := db.Exec(
			`INSERT INTO product (product_name, product_price, stock, category) VALUES ($1,$2,$3,$4)`,
			s.name, s.price, s.stock, s.category,
		); err != nil {
			log.Printf("warning: could not seed product %q: %v", s.name, err)
		}
	}
}
