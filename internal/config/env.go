package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultBackendURL = "https://invenso-backend.onrender.com"

type Env struct {
	AppAddr string `yaml:"app_addr"`
	GinMode string `yaml:"gin_mode"`

	BackendURL     string        `yaml:"backend_url"`
	BackendTimeout time.Duration `yaml:"backend_timeout"`

	TokenStore    string `yaml:"token_store"`
	TokenKey      string `yaml:"token_key"`
	TokenPrefix   string `yaml:"token_prefix"`
	TokenEnvVar   string `yaml:"token_env_var"`
	TokenFile     string `yaml:"token_file"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	MemcachedAddr string `yaml:"memcached_addr"`
	SQLitePath    string `yaml:"sqlite_path"`
	MySQLDSN      string `yaml:"mysql_dsn"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	InventoryUIURL     string   `yaml:"inventory_ui_url"`
}

// LoadEnv reads the optional YAML file named by INVENSO_CONFIG, then
// applies environment variables on top. Problems with the file are
// logged by the caller through the returned error; the env-only result
// is still usable.
func LoadEnv() (Env, error) {
	env := defaults()
	var fileErr error
	if path := strings.TrimSpace(os.Getenv("INVENSO_CONFIG")); path != "" {
		fileErr = loadFile(path, &env)
	}
	applyEnv(&env)
	env.BackendURL = strings.TrimRight(env.BackendURL, "/")
	return env, fileErr
}

func defaults() Env {
	return Env{
		AppAddr:        "127.0.0.1:8080",
		BackendURL:     DefaultBackendURL,
		BackendTimeout: 15 * time.Second,
		TokenStore:     "env",
		TokenKey:       "admin_token",
		TokenPrefix:    "invenso",
		TokenEnvVar:    "ADMIN_TOKEN",
		CORSAllowedOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		},
	}
}

func loadFile(path string, env *Env) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, env); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

func applyEnv(env *Env) {
	setString(&env.AppAddr, "APP_ADDR")
	setString(&env.GinMode, "GIN_MODE")
	setString(&env.BackendURL, "INVENSO_BACKEND_URL")
	if v := strings.TrimSpace(os.Getenv("BACKEND_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			env.BackendTimeout = d
		}
	}
	setString(&env.TokenStore, "TOKEN_STORE")
	setString(&env.TokenKey, "TOKEN_KEY")
	setString(&env.TokenPrefix, "TOKEN_PREFIX")
	setString(&env.TokenEnvVar, "TOKEN_ENV_VAR")
	setString(&env.TokenFile, "TOKEN_FILE")
	setString(&env.RedisAddr, "REDIS_ADDR")
	setString(&env.RedisPassword, "REDIS_PASSWORD")
	if v := strings.TrimSpace(os.Getenv("REDIS_DB")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			env.RedisDB = n
		}
	}
	setString(&env.MemcachedAddr, "MEMCACHED_ADDR")
	setString(&env.SQLitePath, "SQLITE_PATH")
	setString(&env.MySQLDSN, "MYSQL_DSN")
	setString(&env.InventoryUIURL, "INVENTORY_UI_URL")

	if v := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); v != "" {
		origins := []string{}
		for _, o := range strings.Split(v, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				origins = append(origins, o)
			}
		}
		env.CORSAllowedOrigins = origins
	}
}

func setString(dst *string, name string) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		*dst = v
	}
}
