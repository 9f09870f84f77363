package tester

import (
	"github.com/ory/dockertest/v3"
	"github.com/sirupsen/logrus"
)

// SetupDocker starts the backing services used by the integration tests:
// postgres for the store and redis for the cache and index queue.
func SetupDocker() (func(), error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		logrus.Fatalf("Could not construct pool: %s", err)
	}

	// uses pool to try to connect to Docker
	err = pool.Client.Ping()
	if err != nil {
		logrus.Fatalf("Could not connect to Docker: %s", err)
	}

	// run database
	db, err := pool.Run("postgres", "16", []string{
		"POSTGRES_USER=study",
		"POSTGRES_PASSWORD=study",
		"POSTGRES_DB=study",
	})
	if err != nil {
		logrus.Fatalf("Could not start resource: %s", err)
	}

	// run redis
	redis, err := pool.Run("redis", "7", nil)
	if err != nil {
		logrus.Fatalf("Could not start resource: %s", err)
	}

	purge := func() {
		if err := pool.Purge(db); err != nil {
			logrus.Fatalf("Could not purge resource: %s", err)
		}

		if err := pool.Purge(redis); err != nil {
			logrus.Fatalf("Could not purge resource: %s", err)
		}
	}

	return purge, nil
}
