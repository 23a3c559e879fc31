package env

import (
	"log/slog"

	"github.com/joho/godotenv"
)

// LoadEnv loads .env files into the process environment. Missing files are
// fine; variables may be set directly.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		slog.Debug("no .env file found, assuming environment variables are set directly")
	}
}
