package testsuite

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

const redisImage = "redis:7-alpine"

// BaseSuite starts the containers integration tests run against.
type BaseSuite struct {
	suite.Suite
	RedisContainer *tcredis.RedisContainer
	RedisClient    *redis.Client
	Ctx            context.Context
}

// SetupInfrastructure skips the suite when no container provider is
// reachable.
func (s *BaseSuite) SetupInfrastructure() {
	testcontainers.SkipIfProviderIsNotHealthy(s.T())

	s.Ctx = context.Background()

	var err error
	s.RedisContainer, err = tcredis.Run(s.Ctx, redisImage)
	s.Require().NoError(err)

	connStr, err := s.RedisContainer.ConnectionString(s.Ctx)
	s.Require().NoError(err)

	opts, err := redis.ParseURL(connStr)
	s.Require().NoError(err)

	s.RedisClient = redis.NewClient(opts)
	s.Require().NoError(s.RedisClient.Ping(s.Ctx).Err())
}

func (s *BaseSuite) TearDownInfrastructure() {
	if s.RedisClient != nil {
		if err := s.RedisClient.Close(); err != nil {
			log.Printf("Failed to close redis client: %v", err)
		}
	}
	if s.RedisContainer != nil {
		if err := s.RedisContainer.Terminate(s.Ctx); err != nil {
			log.Printf("Failed to terminate redis container: %v", err)
		}
	}
}

func (s *BaseSuite) FlushRedis() {
	s.Require().NoError(s.RedisClient.FlushDB(s.Ctx).Err())
}
