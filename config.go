// Package triage wires the photo triage core together: configuration, the
// storage backend, the collection store, the export gate and the importer,
// built once at process start and shared by reference.
package triage

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config collects the environment knobs. The defaults make a zero-setup run
// work out of local dot-directories.
type Config struct {
	StorageBackend  string // file, sqlite, mongo or memory
	DataDir         string
	SQLitePath      string
	MongoURI        string
	MongoDB         string
	MongoCollection string
	LibraryDir      string
	ThumbDir        string
	ThumbSize       int
}

// LoadConfig reads .env if present, then the environment.
func LoadConfig() Config {
	_ = godotenv.Load()

	return Config{
		StorageBackend:  getenv("STORAGE_BACKEND", "file"),
		DataDir:         getenv("DATA_DIR", "./.data"),
		SQLitePath:      getenv("SQLITE_PATH", "./.data/photos.db"),
		MongoURI:        getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getenv("MONGO_DB", "photo_triage"),
		MongoCollection: getenv("MONGO_COLLECTION", "photos"),
		LibraryDir:      getenv("LIBRARY_DIR", "./.library"),
		ThumbDir:        getenv("THUMB_DIR", "./.thumbs"),
		ThumbSize:       getenvInt("THUMB_SIZE", 300),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
