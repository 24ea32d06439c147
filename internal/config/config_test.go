package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		env   map[string]string
		check func(t *testing.T, cfg Config)
	}{
		{
			name: "defaults without a file",
			check: func(t *testing.T, cfg Config) {
				if cfg.Server.Address != ":8080" || cfg.Database.Name != "golf_coach" || !cfg.Database.Transactions {
					t.Errorf("server/database defaults = %+v %+v", cfg.Server, cfg.Database)
				}
				if cfg.JWT.Expiration != time.Hour || cfg.Export.URLExpiry != 15*time.Minute {
					t.Errorf("durations = %v / %v", cfg.JWT.Expiration, cfg.Export.URLExpiry)
				}
				if cfg.Planner.DefaultScoringAverage != 78 || cfg.Planner.DefaultClubSpeed != "CS90" || cfg.Planner.HistoryDays != 7 {
					t.Errorf("planner defaults = %+v", cfg.Planner)
				}
				if !cfg.Scheduler.Enabled || cfg.Scheduler.PlanRolloverSpec == "" {
					t.Errorf("scheduler defaults = %+v", cfg.Scheduler)
				}
			},
		},
		{
			name: "file values",
			yaml: "database:\n  name: club\n  transactions: false\nplanner:\n  history_days: 14\njwt:\n  expiration: 30m\n",
			check: func(t *testing.T, cfg Config) {
				if cfg.Database.Name != "club" || cfg.Database.Transactions {
					t.Errorf("database = %+v", cfg.Database)
				}
				if cfg.Planner.HistoryDays != 14 || cfg.JWT.Expiration != 30*time.Minute {
					t.Errorf("planner/jwt = %+v %v", cfg.Planner, cfg.JWT.Expiration)
				}
			},
		},
		{
			name: "env overrides file",
			yaml: "planner:\n  default_club_speed: CS70\n",
			env:  map[string]string{"PLANNER_DEFAULT_CLUB_SPEED": "CS110", "SCHEDULER_ENABLED": "false"},
			check: func(t *testing.T, cfg Config) {
				if cfg.Planner.DefaultClubSpeed != "CS110" {
					t.Errorf("club speed = %s, want CS110", cfg.Planner.DefaultClubSpeed)
				}
				if cfg.Scheduler.Enabled {
					t.Error("scheduler should be disabled by env")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			dir := t.TempDir()
			if tt.yaml != "" {
				if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(tt.yaml), 0o600); err != nil {
					t.Fatal(err)
				}
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadConfig(dir)
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}
