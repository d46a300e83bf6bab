package service

import (
	"fmt"
	"os"
)

type Config struct {
	Environment string
	Port        string
	BaseURL     string
	DBPath      string
	ShopName    string

	Catalog struct {
		// Source selects the catalog backend: "shopify" or "local"
		Source string
		// Path to the JSON catalog file when Source is "local"
		Path string
	}

	Shopify struct {
		ShopDomain       string
		StorefrontToken  string
		AdminToken       string
		APIVersion       string
	}

	Stripe struct {
		PublishableKey string
		SecretKey      string
		WebhookSecret  string
	}

	Cloudinary struct {
		CloudName string
	}
}

func LoadConfig() (*Config, error) {
	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8000"),
		DBPath:      getEnv("DB_PATH", "./db/storefront.db"),
		ShopName:    getEnv("SHOP_NAME", "Meridian Prints"),
	}

	// Catalog
	config.Catalog.Source = getEnv("CATALOG_SOURCE", "shopify")
	config.Catalog.Path = getEnv("CATALOG_PATH", "./config/catalog.json")
	if config.Catalog.Source != "shopify" && config.Catalog.Source != "local" {
		return nil, fmt.Errorf("invalid CATALOG_SOURCE %q: must be \"shopify\" or \"local\"", config.Catalog.Source)
	}

	// Shopify
	config.Shopify.ShopDomain = getEnv("SHOPIFY_SHOP_DOMAIN", "")
	config.Shopify.StorefrontToken = getEnv("SHOPIFY_STOREFRONT_TOKEN", "")
	config.Shopify.AdminToken = getEnv("SHOPIFY_ADMIN_TOKEN", "")
	config.Shopify.APIVersion = getEnv("SHOPIFY_API_VERSION", "2024-10")
	if config.Catalog.Source == "shopify" && config.Shopify.ShopDomain == "" {
		return nil, fmt.Errorf("SHOPIFY_SHOP_DOMAIN is required when CATALOG_SOURCE=shopify")
	}

	// Stripe
	config.Stripe.PublishableKey = getEnv("STRIPE_PUBLISHABLE_KEY", "")
	config.Stripe.SecretKey = getEnv("STRIPE_SECRET_KEY", "")
	config.Stripe.WebhookSecret = getEnv("STRIPE_WEBHOOK_SECRET", "")

	// Cloudinary - empty cloud name disables image transforms
	config.Cloudinary.CloudName = getEnv("CLOUDINARY_CLOUD_NAME", "")

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
