package app

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

type envVars struct {
	Environment string `envconfig:"ENVIRONMENT" default:"dev"`

	ServerHost string `envconfig:"SERVER_HOST" default:"localhost"`
	ServerPort int    `envconfig:"SERVER_PORT" default:"8080"`

	DataDir    string `envconfig:"DATA_DIR"    default:"./data"`
	PoolSize   uint64 `envconfig:"POOL_SIZE"   default:"128"`
	TraceLocks bool   `envconfig:"TRACE_LOCKS" default:"false"`
}

func mustLoadEnv() envVars {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	var env envVars
	if err := envconfig.Process("", &env); err != nil {
		log.Fatalf("failed to process env config: %v", err)
	}

	return env
}
