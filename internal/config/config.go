package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	Port string
	Env  string

	// DataDir is the app-owned root; photos, cache, exports and the store
	// all live under it.
	DataDir string

	// StoreBackend selects the persistence backend: "kv" (single-key JSON
	// document) or "sqlite".
	StoreBackend string
	StorePath    string
	DatabasePath string

	// PhotoSaveMode selects the asset variant: "file" or "gallery".
	PhotoSaveMode string
	// GalleryGranted is the stand-in for the device permission prompt.
	GalleryGranted bool
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by user) > default.
func Load() Config {
	cfg := Config{}
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("APP_ENV", "development")
	cfg.DataDir = getEnv("DATA_DIR", "./data")
	cfg.StoreBackend = getEnv("STORE_BACKEND", "kv")
	cfg.StorePath = getEnv("STORE_PATH", filepath.Join(cfg.DataDir, "store.json"))
	cfg.DatabasePath = getEnv("DATABASE_PATH", filepath.Join(cfg.DataDir, "parcelles.db"))
	cfg.PhotoSaveMode = getEnv("PHOTOS_SAVE_MODE", "file")
	cfg.GalleryGranted = ParseBool("GALLERY_PERMISSION", true)
	return cfg
}

func (c Config) PhotosDir() string  { return filepath.Join(c.DataDir, "photos") }
func (c Config) CacheDir() string   { return filepath.Join(c.DataDir, "cache") }
func (c Config) ExportsDir() string { return filepath.Join(c.DataDir, "exports") }
func (c Config) GalleryDir() string { return filepath.Join(c.DataDir, "gallery") }

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseBool reads an env var as bool with default.
func ParseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %s", key, v)
			return def
		}
		return b
	}
	return def
}
