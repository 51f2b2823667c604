package config

import (
	"strings"
	"testing"
	"time"
)

type envTestConfig struct {
	Rounds int           `env:"LIARSDICE_TEST_ROUNDS" envDefault:"50"`
	Budget time.Duration `env:"LIARSDICE_TEST_BUDGET" envDefault:"200ms"`
	Agents []string      `env:"LIARSDICE_TEST_AGENTS" envDefault:"baseline,bayesian"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Rounds != 50 || cfg.Budget != 200*time.Millisecond {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if len(cfg.Agents) != 2 || cfg.Agents[0] != "baseline" {
		t.Fatalf("agents = %v", cfg.Agents)
	}
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("LIARSDICE_TEST_BUDGET", "50ms")
	t.Setenv("LIARSDICE_TEST_AGENTS", "aggressive,lua:bots/bluff.lua")

	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Budget != 50*time.Millisecond {
		t.Fatalf("budget = %v", cfg.Budget)
	}
	if len(cfg.Agents) != 2 || cfg.Agents[1] != "lua:bots/bluff.lua" {
		t.Fatalf("agents = %v", cfg.Agents)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("LIARSDICE_TEST_ROUNDS", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
