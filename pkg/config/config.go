package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type CollisionPolicy string

const (
	CollisionWarn CollisionPolicy = "warn" // later product line overwrites the earlier one
	CollisionFail CollisionPolicy = "fail" // colliding product keys abort the build
)

type Config struct {
	Debug bool
	Port  int

	PhotosDir   string // root of the category/product-line tree
	CatalogPath string // generated catalog document
	ShopPath    string // yaml prices, display names and swatches

	CollisionPolicy CollisionPolicy

	CartBackend string // memory, redis or postgres
	RedisAddr   string
	RedisDB     int
	DBString    string

	ImageBaseURL  string // empty means probing the local photos dir
	ProbeTimeout  time.Duration
	SessionCookie string

	DiscordCatalogHook string // notified after a catalog build, empty disables it
}

func NewConfig() *Config {
	return &Config{
		Debug: getBoolEnvDefault("DEBUG", false),
		Port:  getIntEnvDefault("PORT", 8080),

		PhotosDir:   getStringEnvDefault("PHOTOS_DIR", "./photos"),
		CatalogPath: getStringEnvDefault("CATALOG_PATH", "./photos/photos.json"),
		ShopPath:    getStringEnvDefault("SHOP_CONFIG", "./shop.yml"),

		CollisionPolicy: parseCollisionPolicy(getStringEnvDefault("COLLISION_POLICY", string(CollisionWarn))),

		CartBackend: strings.ToLower(getStringEnvDefault("CART_BACKEND", "memory")),
		RedisAddr:   getStringEnvDefault("REDIS_ADDR", "localhost:6379"),
		RedisDB:     getIntEnvDefault("REDIS_DB", 0),
		DBString:    getStringEnvDefault("DB_STRING", "host=localhost port=5432 user=postgres password=admin dbname=shop sslmode=disable"),

		ImageBaseURL:  getStringEnvDefault("IMAGE_BASE_URL", ""),
		ProbeTimeout:  time.Duration(getIntEnvDefault("PROBE_TIMEOUT", 5)) * time.Second,
		SessionCookie: getStringEnvDefault("SESSION_COOKIE", "cart_session"),

		DiscordCatalogHook: getStringEnvDefault("DISCORD_CATALOG_HOOK", ""),
	}
}

// parseCollisionPolicy falls back to warn for anything it does not know
func parseCollisionPolicy(s string) CollisionPolicy {
	if strings.EqualFold(strings.TrimSpace(s), string(CollisionFail)) {
		return CollisionFail
	}

	return CollisionWarn
}

func getBoolEnvDefault(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}

	fmt.Printf("Using default value for %s\n", key)
	return defaultValue
}

func getStringEnvDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	fmt.Printf("Using default value for %s\n", key)
	return defaultValue
}

func getIntEnvDefault(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}

	fmt.Printf("Using default value for %s\n", key)
	return defaultValue
}
