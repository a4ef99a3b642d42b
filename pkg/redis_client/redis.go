package redis_client

import (
	"context"
	"strconv"

	"github.com/adjust/rmq/v5"
	"github.com/redis/go-redis/v9"
	"github.com/travigo/poikkeusinfo/pkg/util"
)

var Client *redis.Client
var QueueConnection rmq.Connection

const defaultConnectionAddress = "localhost:6379"
const defaultConnectionPassword = ""
const defaultDatabase = 0

func Connect() error {
	address := defaultConnectionAddress
	password := defaultConnectionPassword
	database := defaultDatabase

	env := util.GetEnvironmentVariables()

	if env["POIKKEUSINFO_REDIS_ADDRESS"] != "" {
		address = env["POIKKEUSINFO_REDIS_ADDRESS"]
	}

	if env["POIKKEUSINFO_REDIS_PASSWORD"] != "" {
		password = env["POIKKEUSINFO_REDIS_PASSWORD"]
	}

	if env["POIKKEUSINFO_REDIS_DATABASE"] != "" {
		if n, err := strconv.Atoi(env["POIKKEUSINFO_REDIS_DATABASE"]); err == nil {
			database = n
		} else {
			return err
		}
	}

	return ConnectTo(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	})
}

// ConnectTo sets up the shared client and queue connection for the given options.
func ConnectTo(options *redis.Options) error {
	client := redis.NewClient(options)

	statusCmd := client.Ping(context.Background())
	err := statusCmd.Err()
	if err != nil {
		return err
	}

	queueConnection, err := rmq.OpenConnectionWithRedisClient("poikkeusinfo", client, nil)
	if err != nil {
		return err
	}

	Client = client
	QueueConnection = queueConnection

	return nil
}
