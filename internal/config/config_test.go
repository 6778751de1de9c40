package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func (s *ConfigTestSuite) SetupTest() {
	s.T().Chdir(s.T().TempDir())
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := Load(New(), "")
	s.NoError(err)
	s.False(cfg.Verbose)
	s.Equal(":8000", cfg.Server.Addr)
	s.Equal("memory", cfg.Store.Driver)
	s.Equal("localhost:6379", cfg.Store.Redis.Addr)
	s.Equal("restmongo", cfg.Store.Redis.Prefix)
}

func (s *ConfigTestSuite) TestEnvironment() {
	s.T().Setenv("RESTMONGO_VERBOSE", "true")
	s.T().Setenv("RESTMONGO_STORE_DRIVER", "redis")
	s.T().Setenv("RESTMONGO_STORE_REDIS_DB", "3")

	cfg, err := Load(New(), "")
	s.NoError(err)
	s.True(cfg.Verbose)
	s.Equal("redis", cfg.Store.Driver)
	s.Equal(3, cfg.Store.Redis.DB)
}

func (s *ConfigTestSuite) TestFile() {
	s.NoError(os.WriteFile("restmongo.yaml", []byte("server:\n  addr: \":9000\"\nstore:\n  redis:\n    prefix: app\n"), 0o600))

	cfg, err := Load(New(), "")
	s.NoError(err)
	s.Equal(":9000", cfg.Server.Addr)
	s.Equal("app", cfg.Store.Redis.Prefix)
}

func (s *ConfigTestSuite) TestErrors() {
	_, err := Load(New(), filepath.Join(s.T().TempDir(), "missing.yaml"))
	s.Error(err)

	s.T().Setenv("RESTMONGO_STORE_DRIVER", "postgres")
	_, err = Load(New(), "")
	s.EqualError(err, `unknown store driver "postgres"`)
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}
