package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/qpfl/league-core/internal/domain/league"
	"github.com/qpfl/league-core/internal/platform/resilience"
)

var leagueValidator = validator.New(validator.WithRequiredStructEnabled())

// LoadLeagueConfig reads a league configuration JSON file. An empty path
// yields league.DefaultConfig().
func LoadLeagueConfig(path string) (league.Config, error) {
	if strings.TrimSpace(path) == "" {
		return league.DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return league.Config{}, fmt.Errorf("read league config: %w", err)
	}
	return ParseLeagueConfig(data)
}

func ParseLeagueConfig(data []byte) (league.Config, error) {
	var cfg league.Config
	if err := sonic.Unmarshal(data, &cfg); err != nil {
		return league.Config{}, fmt.Errorf("%w: decode: %v", league.ErrInvalidConfig, err)
	}
	for i, team := range cfg.Teams {
		cfg.Teams[i] = strings.ToUpper(strings.TrimSpace(team))
	}
	if err := leagueValidator.Struct(cfg); err != nil {
		return league.Config{}, fmt.Errorf("%w: %v", league.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return league.Config{}, err
	}
	return cfg, nil
}

func (c Config) CommitRetryPolicy() resilience.RetryPolicy {
	return resilience.NormalizeRetryPolicy(resilience.RetryPolicy{
		MaxAttempts: c.CommitMaxAttempts,
		Step:        c.CommitBackoffStep,
	})
}

func (c Config) StatsCircuitBreaker() resilience.CircuitBreakerConfig {
	return resilience.CircuitBreakerConfig{
		Enabled:          c.StatsCircuitEnabled,
		FailureThreshold: c.StatsCircuitFailureCount,
		OpenTimeout:      c.StatsCircuitOpenTimeout,
		HalfOpenMaxReq:   c.StatsCircuitHalfOpenMaxReq,
	}
}
