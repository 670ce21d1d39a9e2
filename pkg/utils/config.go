package utils

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"lpfcatalog/pkg/logger"
)

// DefaultDataDir is where the catalog JSON files live relative to the
// working directory of the tools.
const DefaultDataDir = "../data"

type Config struct {
	DataDir  string         `yaml:"data_dir"`
	Log      logger.Config  `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Rehost   RehostConfig   `yaml:"rehost"`
	YtDlp    YtDlpConfig    `yaml:"ytdlp"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // empty = database.DefaultConfig()
}

type ServerConfig struct {
	Addr     string        `yaml:"addr"`
	TCPAddr  string        `yaml:"tcp_addr"`
	GRPCAddr string        `yaml:"grpc_addr"`
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
	// WSOrigins lists browser origins allowed on /ws besides the API's own
	// host. "*" allows any origin.
	WSOrigins []string `yaml:"ws_origins"`
}

type AuthConfig struct {
	JWTSecret         string        `yaml:"jwt_secret"`
	JWTIssuer         string        `yaml:"jwt_issuer"`
	JWTDuration       time.Duration `yaml:"jwt_duration"`
	AdminPasswordHash string        `yaml:"admin_password_hash"` // bcrypt
}

type RehostConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

type YtDlpConfig struct {
	Binary string `yaml:"binary"`
}

func Defaults() Config {
	return Config{
		DataDir: DefaultDataDir,
		Log:     logger.Config{Level: "info", Format: "console"},
		Server: ServerConfig{
			Addr:     ":8080",
			TCPAddr:  ":7070",
			GRPCAddr: ":9090",
			Debounce: 500 * time.Millisecond,
		},
		Auth: AuthConfig{
			// dev default (change for demo / production)
			JWTSecret:   "dev-secret-change-me",
			JWTIssuer:   "lpfcatalog",
			JWTDuration: 24 * time.Hour,
		},
		Rehost: RehostConfig{
			Endpoint: "https://catbox.moe/user/api.php",
			Timeout:  60 * time.Second,
		},
		YtDlp: YtDlpConfig{Binary: "yt-dlp"},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty; LPF_CONFIG is used instead when set), then
// LPF_* environment variables.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path == "" {
		path = os.Getenv("LPF_CONFIG")
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file %s not found: %w", path, err)
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.DataDir, "LPF_DATA_DIR")
	setString(&cfg.Log.Level, "LPF_LOG_LEVEL")
	setString(&cfg.Log.Format, "LPF_LOG_FORMAT")
	setString(&cfg.Database.Path, "LPF_DB_PATH")
	setString(&cfg.Server.Addr, "LPF_HTTP_ADDR")
	setString(&cfg.Server.TCPAddr, "LPF_TCP_ADDR")
	setString(&cfg.Server.GRPCAddr, "LPF_GRPC_ADDR")
	if v := strings.TrimSpace(os.Getenv("LPF_WS_ORIGINS")); v != "" {
		cfg.Server.WSOrigins = splitList(v)
	}
	if v := os.Getenv("LPF_WATCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Server.Watch = b
		}
	}

	auth := LoadAuthConfigFrom(cfg.Auth)
	cfg.Auth = auth

	setString(&cfg.Rehost.Endpoint, "LPF_REHOST_URL")
	setString(&cfg.YtDlp.Binary, "LPF_YTDLP_BIN")
}

// LoadAuthConfig reads the auth settings from the environment only.
func LoadAuthConfig() AuthConfig {
	return LoadAuthConfigFrom(Defaults().Auth)
}

// LoadAuthConfigFrom overlays LPF_JWT_* and LPF_ADMIN_PASSWORD_HASH on base.
func LoadAuthConfigFrom(base AuthConfig) AuthConfig {
	cfg := base
	setString(&cfg.JWTSecret, "LPF_JWT_SECRET")
	setString(&cfg.JWTIssuer, "LPF_JWT_ISSUER")
	setString(&cfg.AdminPasswordHash, "LPF_ADMIN_PASSWORD_HASH")

	// hours; a bad value keeps the current duration
	if ttl := strings.TrimSpace(os.Getenv("LPF_JWT_TTL_HOURS")); ttl != "" {
		if h, err := strconv.Atoi(ttl); err == nil && h > 0 {
			cfg.JWTDuration = time.Duration(h) * time.Hour
		}
	}
	if cfg.JWTDuration <= 0 {
		cfg.JWTDuration = 24 * time.Hour
	}
	return cfg
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
