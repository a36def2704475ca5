package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	ListenAddr           string        `env:"LISTEN_ADDR"             envDefault:":8000"`
	ExperimentConfigPath string        `env:"EXPERIMENT_CONFIG_PATH"  envDefault:"experiment.config.json"`
	DBPath               string        `env:"DB_PATH"                 envDefault:"feedback.sqlite"`
	ServingToken         string        `env:"SERVING_TOKEN"`
	OpenAIAPIKey         string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL        string        `env:"OPENAI_BASE_URL"`
	AuthSecret           string        `env:"AUTH_SECRET,required,notEmpty"`
	AuthAudience         string        `env:"AUTH_AUDIENCE"           envDefault:"convex"`
	AuthorizedParties    []string      `env:"AUTH_AUTHORIZED_PARTIES" envSeparator:","`
	DownstreamTimeout    time.Duration `env:"DOWNSTREAM_TIMEOUT"      envDefault:"30s"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT"        envDefault:"10s"`
}

func LoadConfig() (Config, error) {
	return env.ParseAs[Config]()
}
