package configuration

import (
	"os"

	"github.com/joho/godotenv"
)

type Configuration struct {
	HttpAddr          string `usage:"HTTP address"`
	Statics           string `usage:"statics directory, empty serves the embedded page"`
	Backend           string `usage:"record backend: local, mongo or rest"`
	Dir               string `usage:"data directory of the local backend"`
	MongoUri          string `usage:"MongoDB connection string"`
	MongoDatabase     string `usage:"MongoDB database name"`
	RestBase          string `usage:"base url of the rest backend"`
	Seed              bool   `usage:"fill empty collections with the sample data set"`
	Catalog           string `usage:"catalog YAML file, empty uses the embedded one"`
	VisibilityDb      string `usage:"SQLite file to persist visible columns, empty keeps them in memory"`
	DefaultPageSize   int    `usage:"page size when the catalog does not set one"`
	EnableCompression bool   `usage:"gzip responses"`
	Verbose           bool   `usage:"development logging"`
	Version           bool   `usage:"show version and exit"`
	ShowBanner        bool   `usage:"show big banner"`
	ShowConfig        bool   `usage:"print config"`
}

func Default() Configuration {
	return Configuration{
		HttpAddr:          "127.0.0.1:8080",
		Backend:           "local",
		Dir:               "data",
		MongoUri:          "mongodb://localhost:27017",
		MongoDatabase:     "clothing_store_db",
		DefaultPageSize:   5,
		EnableCompression: true,
		ShowBanner:        true,
	}
}

// LoadEnv reads a .env file when present. MONGO_URI overrides the default
// connection string so deployments can keep using the usual variable.
// goconfig runs afterwards, so flags still win.
func LoadEnv(c *Configuration, filenames ...string) {
	_ = godotenv.Load(filenames...)
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		c.MongoUri = uri
	}
}
