package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// Valores de PRODUCTION_STORAGE.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App        AppConfig
	Log        LogConfig
	DB         DBConfig
	JWT        JWTConfig
	HTTP       HTTPConfig
	Production ProductionConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// LogConfig nivel de log (trace, debug, info, warn, error).
type LogConfig struct {
	Level string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool // aplica migrations/*.sql al arrancar
}

// ConnectionString devuelve DATABASE_URL si está definido; si no, el DSN armado con los campos sueltos.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN connection string con URL encoding de usuario y contraseña.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

// JWTConfig validación de tokens emitidos por el sistema de autenticación externo.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ProductionConfig parámetros del ciclo de vida de órdenes.
type ProductionConfig struct {
	// DefaultWarehouseID almacén usado si la solicitud, la orden y el catálogo no indican uno.
	DefaultWarehouseID string
	// Storage "postgres" o "memory" (desarrollo local sin base de datos).
	Storage string
}

var defaults = map[string]any{
	"APP_ENV":                      "development",
	"APP_NAME":                     "produccion-api",
	"LOG_LEVEL":                    "info",
	"DATABASE_URL":                 "",
	"DB_HOST":                      "localhost",
	"DB_PORT":                      5432,
	"DB_USER":                      "postgres",
	"DB_PASSWORD":                  "",
	"DB_NAME":                      "produccion",
	"DB_SSLMODE":                   "disable",
	"DB_MAX_CONNS":                 25,
	"DB_MIN_CONNS":                 2,
	"DB_AUTO_MIGRATE":              false,
	"JWT_SECRET":                   "",
	"JWT_EXPIRATION_MINUTES":       60,
	"JWT_ISSUER":                   "produccion-api",
	"HTTP_HOST":                    "0.0.0.0",
	"HTTP_PORT":                    8080,
	"PRODUCTION_DEFAULT_WAREHOUSE": "GENERAL",
	"PRODUCTION_STORAGE":           StoragePostgres,
}

// Load lee la configuración: defaults, luego .env / config.env si existen, luego variables de entorno.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	for _, name := range []string{".env", "config"} {
		v.SetConfigName(name)
		_ = v.MergeInConfig() // el archivo es opcional
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for k, def := range defaults {
		v.SetDefault(k, def)
	}

	cfg := &Config{
		App: AppConfig{
			Env:  v.GetString("APP_ENV"),
			Name: v.GetString("APP_NAME"),
		},
		Log: LogConfig{Level: v.GetString("LOG_LEVEL")},
		DB: DBConfig{
			DatabaseURL: v.GetString("DATABASE_URL"),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
			MaxConns:    v.GetInt("DB_MAX_CONNS"),
			MinConns:    v.GetInt("DB_MIN_CONNS"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			Expiration: v.GetInt("JWT_EXPIRATION_MINUTES"),
			Issuer:     v.GetString("JWT_ISSUER"),
		},
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		Production: ProductionConfig{
			DefaultWarehouseID: strings.TrimSpace(v.GetString("PRODUCTION_DEFAULT_WAREHOUSE")),
			Storage:            strings.ToLower(v.GetString("PRODUCTION_STORAGE")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate revisa combinaciones que impedirían arrancar.
func (c *Config) Validate() error {
	if c.App.Env == "production" && c.JWT.Secret == "" {
		return fmt.Errorf("config: JWT_SECRET es obligatorio en production")
	}
	switch c.Production.Storage {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("config: PRODUCTION_STORAGE inválido %q (postgres | memory)", c.Production.Storage)
	}
	if c.Production.Storage == StoragePostgres && c.DB.MinConns > c.DB.MaxConns {
		return fmt.Errorf("config: DB_MIN_CONNS (%d) mayor que DB_MAX_CONNS (%d)", c.DB.MinConns, c.DB.MaxConns)
	}
	return nil
}
