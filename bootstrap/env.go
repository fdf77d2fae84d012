package bootstrap

import (
	"fmt"
	"slices"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	ProductionEnvironmentName  = "production"
	DevelopmentEnvironmentName = "development"
)

const (
	BrokerBackendMemory   = "memory"
	BrokerBackendRabbitMQ = "rabbitmq"
)

type Env struct {
	CassandraHosts        []string `env:"CASSANDRA_HOSTS" env-required:"true"`
	HTTPPortNumber        int      `env:"HTTP_PORT_NUMBER" env-default:"8080"`
	EnvironmentName       string   `env:"ENVIRONMENT_NAME" env-required:"true"`
	BrokerBackend         string   `env:"BROKER_BACKEND" env-default:"memory"`
	RabbitMQURL           string   `env:"RABBITMQ_URL"`
	RedisURL              string   `env:"REDIS_URL" env-required:"true"`
	RoomIDScheme          string   `env:"ROOM_ID_SCHEME" env-default:"lexicographic"`
	SendTimeoutSeconds    int      `env:"SEND_TIMEOUT_SECONDS" env-default:"5"`
	JWTSecret             string   `env:"JWT_SECRET" env-required:"true"`
	JWTExpireSeconds      int64    `env:"JWT_EXPIRE_SECONDS" env-default:"86400"`
	UIDGeneratorStartTime string   `env:"UNIQUE_ID_GENERATOR_START_TIME" env-default:"2024-06-13"`
	MachineID             uint16   `env:"MACHINE_ID" env-required:"true"`
}

func newEnv() (*Env, error) {
	var env Env
	err := cleanenv.ReadConfig(".env", &env)
	if err != nil {
		return nil, err
	}

	if !slices.Contains(
		[]string{DevelopmentEnvironmentName, ProductionEnvironmentName},
		env.EnvironmentName,
	) {
		return nil, fmt.Errorf(
			"ENVIRONMENT_NAME must be one of %s or %s",
			ProductionEnvironmentName,
			DevelopmentEnvironmentName,
		)
	}

	if !slices.Contains(
		[]string{BrokerBackendMemory, BrokerBackendRabbitMQ},
		env.BrokerBackend,
	) {
		return nil, fmt.Errorf(
			"BROKER_BACKEND must be one of %s or %s",
			BrokerBackendMemory,
			BrokerBackendRabbitMQ,
		)
	}

	if env.BrokerBackend == BrokerBackendRabbitMQ && env.RabbitMQURL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL is required when BROKER_BACKEND is %s", BrokerBackendRabbitMQ)
	}

	return &env, nil
}
