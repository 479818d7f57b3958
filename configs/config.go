package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

var loadEnvOnce sync.Once

// Config reads a configuration value from the environment. A .env file in the
// working directory is loaded on first use so local runs pick it up without
// exporting anything.
func Config(key string) string {
	loadEnvOnce.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("No .env file found; relying on the process environment")
		}
	})

	return os.Getenv(key)
}
