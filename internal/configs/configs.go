/*
Package configs is responsible for loading and validating the application's configuration settings.

Every setting has a command-line flag and a COMMONGAMES_ environment variable. Flags and
variables are resolved through a single viper instance, so an explicit flag wins over the
environment, which wins over the default.
*/
package configs

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"commongames/internal/app/steam"
	"commongames/internal/pkg/logx"
)

// EnvPrefix prefixes every environment variable, e.g. COMMONGAMES_API_KEY.
const EnvPrefix = "COMMONGAMES"

// Setting keys, shared by flags and environment variables.
const (
	KeyAPIKey       = "api-key"
	KeySteamID      = "steam-id"
	KeyFriends      = "friends"
	KeyWebAPIURL    = "webapi-url"
	KeyStoreURL     = "store-url"
	KeyTimeout      = "timeout"
	KeyStoreRate    = "store-rate"
	KeyStoreBurst   = "store-burst"
	KeyConcurrency  = "concurrency"
	KeyList         = "list"
	KeyLogFormat    = "log-format"
	KeyVerbose      = "verbose"
	KeyOtelEndpoint = "otel-endpoint"
)

// AppConfig contains all configuration parameters required for a run.
type AppConfig struct {
	// Steam account settings
	APIKey  string
	SteamID string
	Friends string

	// Endpoint settings
	WebAPIURL   string
	StoreURL    string
	Timeout     time.Duration
	StoreRate   float64
	StoreBurst  int
	Concurrency int

	// Output settings
	List      bool
	LogFormat string
	Verbose   bool

	// Tracing settings
	OtelEndpoint string
}

// NewViper returns a viper instance reading COMMONGAMES_ environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// RegisterFlags defines every setting on fs with its default.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringP(KeyAPIKey, "k", "", "Steam Web API key, prompted for when empty (env: "+envName(KeyAPIKey)+")")
	fs.StringP(KeySteamID, "s", "", "your SteamID64 or custom profile name (env: "+envName(KeySteamID)+")")
	fs.StringP(KeyFriends, "f", "", "space-separated friend numbers, prompted for when empty (env: "+envName(KeyFriends)+")")
	fs.String(KeyWebAPIURL, steam.DefaultWebAPIURL, "base URL of the Steam Web API (env: "+envName(KeyWebAPIURL)+")")
	fs.String(KeyStoreURL, steam.DefaultStoreURL, "base URL of the Steam store (env: "+envName(KeyStoreURL)+")")
	fs.Duration(KeyTimeout, 30*time.Second, "timeout for each request (env: "+envName(KeyTimeout)+")")
	fs.Float64(KeyStoreRate, 0.66, "store requests per second, 0 disables pacing (env: "+envName(KeyStoreRate)+")")
	fs.Int(KeyStoreBurst, 200, "store requests allowed in a burst (env: "+envName(KeyStoreBurst)+")")
	fs.IntP(KeyConcurrency, "c", 1, "parallel library and store requests (env: "+envName(KeyConcurrency)+")")
	fs.BoolP(KeyList, "l", false, "list every multiplayer game before the pick (env: "+envName(KeyList)+")")
	fs.String(KeyLogFormat, logx.FormatConsole, "log format, console or json (env: "+envName(KeyLogFormat)+")")
	fs.BoolP(KeyVerbose, "v", false, "log debug output to stderr (env: "+envName(KeyVerbose)+")")
	fs.String(KeyOtelEndpoint, "", "OTLP/HTTP endpoint for traces, disabled when empty (env: "+envName(KeyOtelEndpoint)+")")
}

// BindFlags binds every flag on fs into v. Environment values are copied onto
// flags the user did not set, so help output and flag reads agree with v.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

// LoadConfig reads the configuration from v and validates it.
func LoadConfig(v *viper.Viper) (*AppConfig, error) {
	cfg := &AppConfig{
		APIKey:       strings.TrimSpace(v.GetString(KeyAPIKey)),
		SteamID:      strings.TrimSpace(v.GetString(KeySteamID)),
		Friends:      strings.TrimSpace(v.GetString(KeyFriends)),
		WebAPIURL:    v.GetString(KeyWebAPIURL),
		StoreURL:     v.GetString(KeyStoreURL),
		Timeout:      v.GetDuration(KeyTimeout),
		StoreRate:    v.GetFloat64(KeyStoreRate),
		StoreBurst:   v.GetInt(KeyStoreBurst),
		Concurrency:  v.GetInt(KeyConcurrency),
		List:         v.GetBool(KeyList),
		LogFormat:    strings.ToLower(v.GetString(KeyLogFormat)),
		Verbose:      v.GetBool(KeyVerbose),
		OtelEndpoint: v.GetString(KeyOtelEndpoint),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) validate() error {
	for _, raw := range []string{c.WebAPIURL, c.StoreURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("invalid base URL %q", raw)
		}
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout (must be positive): %s", c.Timeout)
	}
	if c.StoreRate < 0 {
		return fmt.Errorf("invalid store rate (must not be negative): %g", c.StoreRate)
	}
	if c.StoreBurst < 1 {
		return fmt.Errorf("invalid store burst (must be at least 1): %d", c.StoreBurst)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("invalid concurrency (must be at least 1): %d", c.Concurrency)
	}
	if c.LogFormat != logx.FormatConsole && c.LogFormat != logx.FormatJSON {
		return fmt.Errorf("invalid log format (must be %s or %s): %q", logx.FormatConsole, logx.FormatJSON, c.LogFormat)
	}
	return nil
}
