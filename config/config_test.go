package config

import (
	"flag"
	"slices"
	"testing"
	"time"

	"snakearena/game"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := cfg.FrameInterval(); got != time.Second/60 {
		t.Fatalf("frame interval %v", got)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"fps":              func(c *Config) { c.FrameRate = 0 },
		"grid too small":   func(c *Config) { c.Grid = game.MinGridSize - 1 },
		"grid not offered": func(c *Config) { c.Grid = 17 },
		"speed range":      func(c *Config) { c.SpeedMin, c.SpeedMax = 10, 5 },
		"speed outside":    func(c *Config) { c.Speed = 50 },
		"no choices":       func(c *Config) { c.GridChoices = nil },
		"max inputs":       func(c *Config) { c.MaxInputsPerTick = 0 },
		"input buffer":     func(c *Config) { c.InputBuffer = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRegisterFlags(t *testing.T) {
	cfg := DefaultConfig()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	err := fs.Parse([]string{"-grid", "25", "-speed", "4", "-grid-choices", "10, 25,40", "-db", ""})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Grid != 25 || cfg.Speed != 4 || cfg.DBPath != "" {
		t.Fatalf("cfg %+v", cfg)
	}
	if !slices.Equal(cfg.GridChoices, []int{10, 25, 40}) {
		t.Fatalf("grid choices %v", cfg.GridChoices)
	}
	if err := fs.Parse([]string{"-grid-choices", "10,x"}); err == nil {
		t.Fatal("expected error for bad grid choice")
	}
}

func TestLimitsAllow(t *testing.T) {
	l := DefaultConfig().Limits()
	tests := []struct {
		req  game.Request
		want game.Request
		ok   bool
	}{
		{game.SetGrid(25), game.SetGrid(25), true},
		{game.SetGrid(17), game.SetGrid(17), false},
		{game.SetSpeed(0), game.SetSpeed(1), true},
		{game.SetSpeed(99), game.SetSpeed(20), true},
		{game.SetSpeed(7), game.SetSpeed(7), true},
		{game.Turn(game.Up), game.Turn(game.Up), true},
	}
	for _, tt := range tests {
		got, ok := l.Allow(tt.req)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Allow(%+v) = %+v, %v; want %+v, %v", tt.req, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLimitsAreCopied(t *testing.T) {
	cfg := DefaultConfig()
	l := cfg.Limits()
	l.GridChoices[0] = 99
	if cfg.GridChoices[0] == 99 {
		t.Fatal("Limits shares the config slice")
	}
}
