package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cerfical/iplookup/internal/ipinfo"
	"github.com/cerfical/iplookup/internal/log"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the names of environment variables that override configuration options.
const EnvPrefix = "IPLOOKUP"

var (
	defBackendURL = ipinfo.DefaultBaseURL
	defLogLevel   = log.LevelError
	defEnvFile    = ".env"
)

// Load reads the configuration from command-line arguments, the environment and an optional configuration file.
// On failure it prints usage information and exits.
func Load(args []string) *Config {
	flags := newFlagSet(args)

	config, err := parse(flags, args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printUsage(os.Stdout, flags, args)
			os.Exit(2)
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		printUsage(os.Stderr, flags, args)
		os.Exit(1)
	}
	return config
}

// Parse is [Load] that reports failures instead of exiting.
func Parse(args []string) (*Config, error) {
	return parse(newFlagSet(args), args)
}

func parse(flags *pflag.FlagSet, args []string) (*Config, error) {
	if err := flags.Parse(args[1:]); err != nil {
		return nil, err
	}

	if err := loadEnvFile(flags.Lookup("env-file").Value.String()); err != nil {
		return nil, err
	}

	rawConfig, err := parseRawConfig(flags)
	if err != nil {
		return nil, err
	}

	// A positional argument stands in for the --ip flag
	if rawConfig.IP == "" && flags.NArg() > 0 {
		rawConfig.IP = flags.Arg(0)
	}
	if flags.NArg() > 1 {
		return nil, fmt.Errorf("expected at most 1 positional argument, but got %v", flags.NArg())
	}

	return rawConfig.ToConfig(), nil
}

func newFlagSet(args []string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(getProgramName(args), pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.SortFlags = false

	// Flags shared with options from a configuration file
	backendURL := backendURLValue(defBackendURL)
	flags.Var(&backendURL, "backend", "``origin used for lookup requests")
	flags.String("ip", "", "``address to look up once, without the interactive form")
	flags.Duration("timeout", 0, "``wait duration for a lookup, no limit if zero")

	logLevel := logLevelValue(defLogLevel)
	flags.Var(&logLevel, "log-level", "``severity level of logging messages")
	flags.String("log-file", "", "``file to append log messages to")

	flags.String("config-file", "", "``configuration file")
	flags.String("env-file", defEnvFile, "``file with environment variables to load, if it exists")

	return flags
}

func printUsage(w io.Writer, flags *pflag.FlagSet, args []string) {
	fmt.Fprintf(w, "Usage:\n")
	fmt.Fprintf(w, "  %v [options] [address]\n\n", getProgramName(args))
	fmt.Fprintf(w, "Options:\n")
	fmt.Fprint(w, flags.FlagUsages())
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}

	// Variables already present in the environment take precedence
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load environment file: %w", err)
	}
	return nil
}

func parseRawConfig(f *pflag.FlagSet) (*rawConfig, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Bind command-line flags to their corresponding values from config file
	configNames := []string{"backend", "ip", "timeout", "log.level", "log.file"}
	for _, name := range configNames {
		kebabCasedName := strings.ReplaceAll(name, ".", "-")
		if err := v.BindPFlag(name, f.Lookup(kebabCasedName)); err != nil {
			panic(fmt.Errorf("bind flag: %w", err))
		}
	}

	if configFile := f.Lookup("config-file").Value.String(); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("load configuration: %w", err)
		}
	}

	options := []viper.DecoderConfigOption{
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
		)),

		func(c *mapstructure.DecoderConfig) {
			c.IgnoreUntaggedFields = true
		},
	}

	var config rawConfig
	if err := v.UnmarshalExact(&config, options...); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	return &config, nil
}

func getProgramName(args []string) string {
	progPath := args[0]
	return strings.TrimSuffix(
		filepath.Base(progPath),
		filepath.Ext(progPath),
	)
}

// Config defines configurable application settings.
type Config struct {
	// Backend is the origin lookup requests are sent to.
	Backend url.URL

	// IP is an address to look up once instead of showing the interactive form.
	IP string

	// Timeout limits the duration of a single lookup, zero means no limit.
	Timeout time.Duration

	Log struct {
		Level log.Level
		File  string
	}
}

type rawConfig struct {
	Backend backendURLValue `mapstructure:"backend"`
	IP      string          `mapstructure:"ip"`
	Timeout time.Duration   `mapstructure:"timeout"`

	Log struct {
		Level logLevelValue `mapstructure:"level"`
		File  string        `mapstructure:"file"`
	} `mapstructure:"log"`
}

func (c *rawConfig) ToConfig() *Config {
	var config Config

	config.Backend = url.URL(c.Backend)
	config.IP = c.IP
	config.Timeout = c.Timeout
	config.Log.Level = log.Level(c.Log.Level)
	config.Log.File = c.Log.File

	return &config
}

type backendURLValue url.URL

func (v *backendURLValue) Set(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return err
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported backend scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("backend URL %q has no host", s)
	}

	*v = backendURLValue(*u)
	return nil
}

func (v *backendURLValue) UnmarshalText(text []byte) error {
	return v.Set(string(text))
}

func (v *backendURLValue) String() string {
	return (*url.URL)(v).String()
}

func (v *backendURLValue) Type() string {
	return ""
}

type logLevelValue log.Level

func (v *logLevelValue) Set(s string) error {
	return (*log.Level)(v).UnmarshalText([]byte(s))
}

func (v *logLevelValue) UnmarshalText(text []byte) error {
	return v.Set(string(text))
}

func (v *logLevelValue) String() string {
	return (*log.Level)(v).String()
}

func (v *logLevelValue) Type() string {
	return ""
}
