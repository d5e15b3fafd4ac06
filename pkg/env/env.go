package env

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/maintdesk/maintdesk/pkg/log"
	"github.com/pkg/errors"
)

var variables = new(Environment)

// Process the environment variables set for maintdesk. A .env file
// in the working directory is loaded first, if present.
func Process() error {
	_ = godotenv.Load()

	if err := envconfig.Process("maintdesk", variables); err != nil {
		return errors.Wrap(err, "failed to process environment variables")
	}

	// set the log level
	if err := log.SetLevel(variables.LogLevel); err != nil {
		return errors.Wrap(err, "failed to set log level")
	}

	return nil
}

// Variables returns the processed environment variables.
func Variables() Environment {
	return *variables
}

// Environment defines the environment variables used
// by maintdesk.
type Environment struct {
	LogLevel     string        `default:"info"`
	Port         int           `default:"8080"`
	DatabaseType string        `default:"sqlite"`
	DatabaseDSN  string        `default:"maintdesk.db"`
	JWTSecret    string        `default:"maintdesk-dev-secret"`
	TokenTTL     time.Duration `default:"24h"`
	BcryptCost   int           `default:"10"`
}
