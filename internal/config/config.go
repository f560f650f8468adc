package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	// Slash command tokens, an empty token disables the command
	CoffeeToken    string
	ResponderToken string
	SushiToken     string
	PhoneToken     string
	MemeToken      string
	CerinoToken    string
	CceToken       string

	// Command data
	CoffeePersistenceFile string
	MemePersistenceFile   string
	ResponderConf         string
	PhoneInputFile        string
	CceNamesFile          string
	CcePhotoURL           string

	// Snapshot backend
	LedgerBackend string
	DatabaseURL   string
	RedisAddress  string
	RedisPassword string
	RedisDB       int

	// Web Server
	WebBind            string
	CORSAllowedOrigins []string

	// Logging
	LogLevel  string
	LogFormat string
}

var defaults = map[string]any{
	"coffee_token":            "",
	"responder_token":         "",
	"sushi_token":             "",
	"phone_token":             "",
	"meme_token":              "",
	"cerino_token":            "",
	"cce_token":               "",
	"coffee_persistence_file": "persistence.json",
	"meme_persistence_file":   "memes.json",
	"responder_conf":          "conf.json",
	"phone_input_file":        "",
	"cce_names_file":          "",
	"cce_photo_url":           "https://www.iit.cnr.it/wp-content/themes/cnr/foto_personali_400/%name%.jpg",
	"ledger_backend":          BackendFile,
	"database_url":            "",
	"redis_address":           "localhost:6379",
	"redis_password":          "",
	"redis_db":                0,
	"web_bind":                "0.0.0.0:6500",
	"cors_allowed_origins":    "*",
	"log_level":               "info",
	"log_format":              "json",
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"bind":             "web_bind",
	"persistence-file": "coffee_persistence_file",
	"memes-file":       "meme_persistence_file",
	"conf":             "responder_conf",
	"input-file":       "phone_input_file",
	"names-file":       "cce_names_file",
	"log-level":        "log_level",
	"log-format":       "log_format",
}

// RegisterFlags adds the flags understood by Load to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("bind", "", "address to listen on (WEB_BIND)")
	flags.String("persistence-file", "", "coffee ledger file when LEDGER_BACKEND=file (COFFEE_PERSISTENCE_FILE)")
	flags.String("memes-file", "", "meme dictionary file when LEDGER_BACKEND=file (MEME_PERSISTENCE_FILE)")
	flags.String("conf", "", "responder rules in JSON (RESPONDER_CONF)")
	flags.String("input-file", "", "phone directory, 3 columns tab-separated (PHONE_INPUT_FILE)")
	flags.String("names-file", "", "member names, one per line (CCE_NAMES_FILE)")
	flags.String("log-level", "", "debug, info, warn or error (LOG_LEVEL)")
	flags.String("log-format", "", "json or console (LOG_FORMAT)")
}

// Load reads configuration from defaults, .env, the environment and the
// flags registered with RegisterFlags, in increasing order of precedence.
// flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	cfg := &Config{
		CoffeeToken:           v.GetString("coffee_token"),
		ResponderToken:        v.GetString("responder_token"),
		SushiToken:            v.GetString("sushi_token"),
		PhoneToken:            v.GetString("phone_token"),
		MemeToken:             v.GetString("meme_token"),
		CerinoToken:           v.GetString("cerino_token"),
		CceToken:              v.GetString("cce_token"),
		CoffeePersistenceFile: v.GetString("coffee_persistence_file"),
		MemePersistenceFile:   v.GetString("meme_persistence_file"),
		ResponderConf:         v.GetString("responder_conf"),
		PhoneInputFile:        v.GetString("phone_input_file"),
		CceNamesFile:          v.GetString("cce_names_file"),
		CcePhotoURL:           v.GetString("cce_photo_url"),
		LedgerBackend:         strings.ToLower(v.GetString("ledger_backend")),
		DatabaseURL:           v.GetString("database_url"),
		RedisAddress:          v.GetString("redis_address"),
		RedisPassword:         v.GetString("redis_password"),
		RedisDB:               v.GetInt("redis_db"),
		WebBind:               v.GetString("web_bind"),
		CORSAllowedOrigins:    splitList(v.GetString("cors_allowed_origins")),
		LogLevel:              v.GetString("log_level"),
		LogFormat:             v.GetString("log_format"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.CoffeeToken == "" && c.ResponderToken == "" && c.SushiToken == "" &&
		c.PhoneToken == "" && c.MemeToken == "" && c.CerinoToken == "" && c.CceToken == "" {
		return fmt.Errorf("at least one of COFFEE_TOKEN, RESPONDER_TOKEN, SUSHI_TOKEN, PHONE_TOKEN, MEME_TOKEN, CERINO_TOKEN, CCE_TOKEN is required")
	}

	switch c.LedgerBackend {
	case BackendFile:
	case BackendRedis:
		if c.RedisAddress == "" {
			return fmt.Errorf("REDIS_ADDRESS is required when LEDGER_BACKEND is redis")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when LEDGER_BACKEND is postgres")
		}
	default:
		return fmt.Errorf("unknown LEDGER_BACKEND %q", c.LedgerBackend)
	}

	if c.PhoneToken != "" && c.PhoneInputFile == "" {
		return fmt.Errorf("PHONE_INPUT_FILE is required when PHONE_TOKEN is set")
	}
	if c.ResponderToken != "" && c.ResponderConf == "" {
		return fmt.Errorf("RESPONDER_CONF is required when RESPONDER_TOKEN is set")
	}
	if c.CceToken != "" && c.CceNamesFile == "" {
		return fmt.Errorf("CCE_NAMES_FILE is required when CCE_TOKEN is set")
	}
	if c.WebBind == "" {
		return fmt.Errorf("WEB_BIND is required")
	}
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
