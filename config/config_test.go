package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestTickerListFromCommaString(t *testing.T) {
	t.Setenv("SUPPORTED_TICKERS", "spy, qqq,iwm")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := TickerList{"SPY", "QQQ", "IWM"}
	if !reflect.DeepEqual(cfg.Trading.SupportedTickers, want) {
		t.Errorf("expected %v, got %v", want, cfg.Trading.SupportedTickers)
	}
}

func TestListSettingsStringAndListAgree(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		list  []string
		fresh func() interface{}
	}{
		{
			name:  "cors origins",
			text:  "http://a.example, http://b.example",
			list:  []string{"http://a.example", "http://b.example"},
			fresh: func() interface{} { return new(StringList) },
		},
		{
			name:  "allowed hosts",
			text:  "localhost,127.0.0.1,,",
			list:  []string{"localhost", " 127.0.0.1 "},
			fresh: func() interface{} { return new(StringList) },
		},
		{
			name:  "supported tickers",
			text:  "spy, Qqq ,IWM",
			list:  []string{"SPY", "qqq", "iwm"},
			fresh: func() interface{} { return new(TickerList) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fromString := tt.fresh()
			raw, _ := json.Marshal(tt.text)
			if err := json.Unmarshal(raw, fromString); err != nil {
				t.Fatalf("unmarshal string: %v", err)
			}

			fromList := tt.fresh()
			raw, _ = json.Marshal(tt.list)
			if err := json.Unmarshal(raw, fromList); err != nil {
				t.Fatalf("unmarshal list: %v", err)
			}

			if !reflect.DeepEqual(fromString, fromList) {
				t.Errorf("string gave %v, list gave %v", fromString, fromList)
			}
		})
	}
}

func TestNormalizeHelpersMatchParsing(t *testing.T) {
	var parsed StringList
	if err := parsed.UnmarshalText([]byte("a, b")); err != nil {
		t.Fatal(err)
	}
	if got := NormalizeList([]string{" a", "b ", ""}); !reflect.DeepEqual(got, parsed) {
		t.Errorf("expected %v, got %v", parsed, got)
	}

	var tickers TickerList
	if err := tickers.UnmarshalText([]byte(`["aapl","msft"]`)); err != nil {
		t.Fatal(err)
	}
	if got := NormalizeTickers([]string{"AAPL", "msft"}); !reflect.DeepEqual(got, tickers) {
		t.Errorf("expected %v, got %v", tickers, got)
	}
}

func TestTickersAlwaysUpperCase(t *testing.T) {
	inputs := []string{"spy", "SpY", "brk.b", "qqq,dia", `["iwm","vxx"]`}
	for _, in := range inputs {
		var l TickerList
		if err := l.UnmarshalText([]byte(in)); err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		for _, ticker := range l {
			for _, r := range ticker {
				if r >= 'a' && r <= 'z' {
					t.Errorf("%q: ticker %q not upper-cased", in, ticker)
				}
			}
		}
	}
}

func TestEnvironmentPredicates(t *testing.T) {
	tests := []struct {
		env                   string
		dev, prod, testingEnv bool
	}{
		{"development", true, false, false},
		{"production", false, true, false},
		{"testing", false, false, true},
		{"PRODUCTION", false, true, false},
		{"Testing", false, false, true},
		{"staging", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("ENVIRONMENT", tt.env)
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.IsDevelopment() != tt.dev {
				t.Errorf("IsDevelopment: expected %v", tt.dev)
			}
			if cfg.IsProduction() != tt.prod {
				t.Errorf("IsProduction: expected %v", tt.prod)
			}
			if cfg.IsTesting() != tt.testingEnv {
				t.Errorf("IsTesting: expected %v", tt.testingEnv)
			}
		})
	}
}

func TestPoolDatabaseURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgresql://u:p@db:5432/trading", "postgresql://u:p@db:5432/trading"},
		{"postgresql+psycopg2://u:p@db/trading", "postgresql://u:p@db/trading"},
		{"postgresql+asyncpg://u:p@db/trading", "postgresql://u:p@db/trading"},
		{"postgres://u@db/trading?sslmode=disable", "postgresql://u@db/trading?sslmode=disable"},
		{"sqlite+aiosqlite:///./reports.db", "sqlite:///./reports.db"},
		{"sqlite:///tmp/x.db", "sqlite:///tmp/x.db"},
	}

	for _, tt := range tests {
		cfg := &Config{Database: DatabaseConfig{URL: tt.in}}
		if got := cfg.PoolDatabaseURL(); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.in, tt.want, got)
		}
	}
}

func TestLoadDefaultsAndOverrides(t *testing.T) {
	t.Setenv("DATABASE_POOL_SIZE", "not-a-number")
	t.Setenv("DATABASE_MAX_OVERFLOW", "5")
	t.Setenv("ENABLE_LIVE_TRADING", "yes")
	t.Setenv("DATABASE_POOL_RECYCLE_SECONDS", "120")
	t.Setenv("MIN_SIGNAL_CONFIDENCE", "0.75")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Database.PoolSize != 10 {
		t.Errorf("expected default pool size 10, got %d", cfg.Database.PoolSize)
	}
	if cfg.Database.MaxOverflow != 5 {
		t.Errorf("expected overflow 5, got %d", cfg.Database.MaxOverflow)
	}
	if !cfg.Features.LiveTrading {
		t.Error("expected live trading enabled")
	}
	if cfg.Database.PoolRecycle != 2*time.Minute {
		t.Errorf("expected 2m recycle, got %v", cfg.Database.PoolRecycle)
	}
	if cfg.Trading.MinSignalConfidence != 0.75 {
		t.Errorf("expected 0.75, got %v", cfg.Trading.MinSignalConfidence)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "APP_NAME=From File\nALLOWED_HOSTS=reports.internal, api.internal\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("APP_NAME", "From Process")
	os.Unsetenv("ALLOWED_HOSTS")
	t.Cleanup(func() { os.Unsetenv("ALLOWED_HOSTS") })

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.AppName != "From Process" {
		t.Errorf("process env should win, got %q", cfg.AppName)
	}
	want := StringList{"reports.internal", "api.internal"}
	if !reflect.DeepEqual(cfg.AllowedHosts, want) {
		t.Errorf("expected %v, got %v", want, cfg.AllowedHosts)
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing env file should not fail: %v", err)
	}
}
