package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ServeConfig is the longer-lived `annoyctl serve` subcommand's process
// configuration: `.env` file loading followed by struct-tag env binding,
// grounded on 23skdu-longbow's cmd/longbow config pattern. The one-shot
// `build`/`query` subcommands stay on stdlib `flag` instead, matching the
// teacher's own bench/main.go entrypoint idiom — they take one artifact
// path and exit, with nothing that benefits from env-var/daemon config.
type ServeConfig struct {
	ArtifactPath string `envconfig:"ARTIFACT_PATH" default:"out.ann"`
	ListenAddr   string `envconfig:"LISTEN_ADDR" default:"127.0.0.1:8089"`
	Metric       string `envconfig:"METRIC" default:"euclidean"`
	Mlock        bool   `envconfig:"MLOCK" default:"false"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadServeConfig loads an optional .env file (godotenv.Load reports a
// missing file as a not-exist error, which is ignored here, matching
// 23skdu-longbow's startup sequence) and binds ANNOYCTL_-prefixed environment variables onto
// ServeConfig.
func LoadServeConfig() (ServeConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return ServeConfig{}, err
	}
	var cfg ServeConfig
	if err := envconfig.Process("ANNOYCTL", &cfg); err != nil {
		return ServeConfig{}, err
	}
	return cfg, nil
}
