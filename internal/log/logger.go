package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. Development gets a human-readable
// console writer at debug level; production logs structured JSON at info.
func New(environment string) zerolog.Logger {
	var logger zerolog.Logger
	if environment == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(os.Stdout)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	return logger.With().
		Timestamp().
		Str("env", environment).
		Logger()
}
