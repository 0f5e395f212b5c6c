// Package config loads the process-wide options of a bolt app.
//
// Values come, in increasing precedence, from defaults, an optional YAML config file, the environment
// (BOLTKIT_* and the usual SLACK_* names, optionally seeded from a .env file) and command line flags.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "BOLTKIT"

// ErrInvalidInput marks settings that cannot start an app.
var ErrInvalidInput = errors.New("invalid input")

const (
	DefaultPort        = 3000
	DefaultRedisAddr   = "localhost:6379"
	DefaultTapStream   = "boltkit.requests"
	DefaultTapGroup    = "boltkit"
	DefaultTapConsumer = "boltkit-1"
	DefaultServiceName = "boltkit"
)

type Settings struct {
	Token         string
	SigningSecret string
	SocketMode    bool
	AppToken      string
	Port          int

	Tap     TapSettings
	Tracing TracingSettings
}

// TapSettings configures the request tap. With Enabled and no RedisAddr the tap stays in process.
type TapSettings struct {
	Enabled   bool
	RedisAddr string
	Stream    string
	Group     string
	Consumer  string
}

type TracingSettings struct {
	// Endpoint is the OTLP/HTTP collector host:port. Tracing is off when empty.
	Endpoint    string
	Insecure    bool
	ServiceName string
}

// Validate checks the combinations an app needs to start.
func (s Settings) Validate() error {
	if s.Token == "" {
		return errors.Wrap(ErrInvalidInput, "token is required")
	}
	if s.SocketMode && s.AppToken == "" {
		return errors.Wrap(ErrInvalidInput, "socket mode requires an app token")
	}
	if !s.SocketMode && s.SigningSecret == "" {
		return errors.Wrap(ErrInvalidInput, "http mode requires a signing secret")
	}
	if !s.SocketMode && (s.Port <= 0 || s.Port > 65535) {
		return errors.Wrapf(ErrInvalidInput, "invalid port %d", s.Port)
	}
	return nil
}

// AddFlags registers the settings flags on fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.String("token", "", "Bot token (xoxb-...)")
	fs.String("signing-secret", "", "Signing secret used to verify HTTP requests")
	fs.Bool("socket-mode", false, "Receive requests over socket mode instead of HTTP")
	fs.String("app-token", "", "App-level token (xapp-...), required for socket mode")
	fs.Int("port", DefaultPort, "HTTP port")
	fs.String("config", "", "Path to a YAML config file")

	fs.Bool("tap-enabled", false, "Publish every handled request on the tap")
	fs.String("tap-redis-addr", "", "Redis address for the tap; in-process when empty")
	fs.String("tap-stream", DefaultTapStream, "Redis stream (topic) the tap publishes to")
	fs.String("tap-group", DefaultTapGroup, "Redis consumer group of the tap logger")
	fs.String("tap-consumer", DefaultTapConsumer, "Redis consumer name of the tap logger")

	fs.String("otlp-endpoint", "", "OTLP/HTTP trace collector host:port")
	fs.Bool("otlp-insecure", false, "Send traces without TLS")
	fs.String("service-name", DefaultServiceName, "Service name reported in traces")
}

var envAliases = map[string][]string{
	"token":          {"SLACK_BOT_TOKEN"},
	"signing-secret": {"SLACK_SIGNING_SECRET"},
	"app-token":      {"SLACK_APP_TOKEN"},
	"socket-mode":    {"SLACK_SOCKET_MODE"},
	"port":           {"PORT"},
	"otlp-endpoint":  {"OTEL_EXPORTER_OTLP_ENDPOINT"},
	"service-name":   {"OTEL_SERVICE_NAME"},
}

// NewViper binds fs and the environment into a fresh viper instance and reads the config file named by
// the --config flag, if any.
func NewViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, names := range envAliases {
		args := append([]string{key, EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, errors.Wrapf(err, "bind env for %s", key)
		}
	}
	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, errors.Wrap(err, "bind flags")
		}
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}
	return v, nil
}

// FromViper reads the settings out of v without validating them.
func FromViper(v *viper.Viper) Settings {
	v.SetDefault("port", DefaultPort)
	v.SetDefault("tap-stream", DefaultTapStream)
	v.SetDefault("tap-group", DefaultTapGroup)
	v.SetDefault("tap-consumer", DefaultTapConsumer)
	v.SetDefault("service-name", DefaultServiceName)

	return Settings{
		Token:         v.GetString("token"),
		SigningSecret: v.GetString("signing-secret"),
		SocketMode:    v.GetBool("socket-mode"),
		AppToken:      v.GetString("app-token"),
		Port:          v.GetInt("port"),
		Tap: TapSettings{
			Enabled:   v.GetBool("tap-enabled"),
			RedisAddr: v.GetString("tap-redis-addr"),
			Stream:    v.GetString("tap-stream"),
			Group:     v.GetString("tap-group"),
			Consumer:  v.GetString("tap-consumer"),
		},
		Tracing: TracingSettings{
			Endpoint:    v.GetString("otlp-endpoint"),
			Insecure:    v.GetBool("otlp-insecure"),
			ServiceName: v.GetString("service-name"),
		},
	}
}

// Load reads and validates the settings.
func Load(v *viper.Viper) (Settings, error) {
	s := FromViper(v)
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LoadDotEnv loads .env style files into the environment without overriding variables that are
// already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return errors.Wrapf(err, "load %s", p)
		}
	}
	return nil
}
