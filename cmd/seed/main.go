package main

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/domain"
	"storefront/internal/logger"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type seedProduct struct {
	name         string
	description  string
	price        string
	category     domain.Category
	imageURL     string
	stock        int
	rating       string
	reviewsCount int
}

var seedProducts = []seedProduct{
	{
		name:         "Premium Smartphone",
		description:  "Latest flagship smartphone with a stunning display, all-day battery and a pro-grade camera system.",
		price:        "599.99",
		category:     domain.CategoryElectronics,
		imageURL:     "https://images.example.com/products/premium-smartphone.jpg",
		stock:        25,
		rating:       "4.5",
		reviewsCount: 312,
	},
	{
		name:         "Smart Watch",
		description:  "Track workouts, sleep and notifications from your wrist with a week-long battery.",
		price:        "299.99",
		category:     domain.CategoryElectronics,
		imageURL:     "https://images.example.com/products/smart-watch.jpg",
		stock:        40,
		rating:       "4.2",
		reviewsCount: 187,
	},
	{
		name:         "Wireless Headphones",
		description:  "Over-ear noise cancelling headphones with 30 hours of playback.",
		price:        "199.99",
		category:     domain.CategoryElectronics,
		imageURL:     "https://images.example.com/products/wireless-headphones.jpg",
		stock:        60,
		rating:       "4.7",
		reviewsCount: 458,
	},
	{
		name:         "Laptop Pro",
		description:  "Thin and light 14-inch laptop with a fast processor for work and creative projects.",
		price:        "1299.99",
		category:     domain.CategoryElectronics,
		imageURL:     "https://images.example.com/products/laptop-pro.jpg",
		stock:        15,
		rating:       "4.8",
		reviewsCount: 203,
	},
	{
		name:         "Running Shoes",
		description:  "Lightweight cushioned running shoes built for daily training.",
		price:        "129.99",
		category:     domain.CategoryFashion,
		imageURL:     "https://images.example.com/products/running-shoes.jpg",
		stock:        80,
		rating:       "4.4",
		reviewsCount: 521,
	},
	{
		name:         "Travel Backpack",
		description:  "Water-resistant 35L backpack with a padded laptop sleeve and plenty of pockets.",
		price:        "89.99",
		category:     domain.CategoryFashion,
		imageURL:     "https://images.example.com/products/travel-backpack.jpg",
		stock:        50,
		rating:       "4.6",
		reviewsCount: 276,
	},
	{
		name:         "Home Blender",
		description:  "High-power blender for smoothies, soups and sauces with easy-clean jar.",
		price:        "79.99",
		category:     domain.CategoryHome,
		imageURL:     "https://images.example.com/products/home-blender.jpg",
		stock:        35,
		rating:       "4.3",
		reviewsCount: 164,
	},
	{
		name:         "Gaming Mouse",
		description:  "Ergonomic gaming mouse with adjustable DPI and programmable buttons.",
		price:        "49.99",
		category:     domain.CategoryGaming,
		imageURL:     "https://images.example.com/products/gaming-mouse.jpg",
		stock:        100,
		rating:       "4.5",
		reviewsCount: 389,
	},
	{
		name:         "Mechanical Keyboard",
		description:  "Tenkeyless mechanical keyboard with hot-swappable switches and RGB backlight.",
		price:        "149.99",
		category:     domain.CategoryGaming,
		imageURL:     "https://images.example.com/products/mechanical-keyboard.jpg",
		stock:        45,
		rating:       "4.6",
		reviewsCount: 241,
	},
	{
		name:         "Yoga Mat",
		description:  "Non-slip 6mm yoga mat with carrying strap.",
		price:        "39.99",
		category:     domain.CategorySports,
		imageURL:     "https://images.example.com/products/yoga-mat.jpg",
		stock:        120,
		rating:       "4.1",
		reviewsCount: 98,
	},
}

func main() {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	dbService, err := database.New(cfg.Database)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer dbService.Close()
	db := dbService.DB()

	if err := database.RunMigrations(db, "migrations", log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Start from a clean catalog so reseeding stays idempotent
	if _, err := db.ExecContext(ctx, "DELETE FROM products"); err != nil {
		log.Fatal("Failed to clear products", zap.Error(err))
	}

	productRepo := repository.NewProductRepository(db)
	now := time.Now()

	for _, sp := range seedProducts {
		product := &domain.Product{
			ID:           uuid.New(),
			Name:         sp.name,
			Description:  sp.description,
			Price:        decimal.RequireFromString(sp.price),
			Category:     sp.category,
			ImageURL:     sp.imageURL,
			Stock:        sp.stock,
			Rating:       decimal.RequireFromString(sp.rating),
			ReviewsCount: sp.reviewsCount,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := productRepo.Create(ctx, product); err != nil {
			log.Fatal("Failed to seed product", zap.String("name", sp.name), zap.Error(err))
		}

		log.Info("Seeded product",
			zap.String("name", product.Name),
			zap.String("category", string(product.Category)),
			zap.String("price", product.Price.String()),
		)
	}

	log.Info("Catalog seeding complete", zap.Int("products", len(seedProducts)))
}
