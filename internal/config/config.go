package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/meshdeck/meshdeck/internal/app"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envSocketPath = "MESHDECK_SOCKET"
	envStateDir   = "MESHDECK_STATE_DIR"
	envWidth      = "MESHDECK_WIDTH"
	envHeight     = "MESHDECK_HEIGHT"
	envVerbose    = "MESHDECK_VERBOSE"
	envTrace      = "MESHDECK_TRACE"
	envLogFile    = "MESHDECK_LOG_FILE"
	envConfigFile = "MESHDECK_CONFIG"
)

// fileConfig is the optional YAML config file. Values sit beneath
// environment variables and flags in precedence.
type fileConfig struct {
	Socket   string `yaml:"socket"`
	StateDir string `yaml:"state_dir"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Verbose  bool   `yaml:"verbose"`
	Trace    bool   `yaml:"trace"`
	LogFile  string `yaml:"log_file"`
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	file, err := loadFile(configFilePath(args, env))
	if err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("meshdeck", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	fs.String("config", "", "path to a YAML config file")
	socket := fs.String("socket", envOrDefault(env, envSocketPath, file.Socket), "path to the host socket")
	stateDir := fs.String("state-dir", envOrDefault(env, envStateDir, file.StateDir), "directory for persisted client state (last selection)")
	width := fs.Int("width", envOrInt(env, envWidth, file.Width), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, file.Height), "desired viewport height in rows (0 uses terminal height)")
	verbose := fs.Bool("verbose", envOrBool(env, envVerbose, file.Verbose), "print success messages for host operations")
	trace := fs.Bool("trace", envOrBool(env, envTrace, file.Trace), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, file.LogFile), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}

	cfg := Config{
		App: app.Config{
			SocketPath: *socket,
			StateDir:   *stateDir,
			Width:      *width,
			Height:     *height,
			Verbose:    *verbose,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"socket":   *socket,
			"stateDir": *stateDir,
			"width":    strconv.Itoa(*width),
			"height":   strconv.Itoa(*height),
			"verbose":  strconv.FormatBool(*verbose),
			"trace":    strconv.FormatBool(*trace),
			"logFile":  *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// configFilePath finds the -config flag or environment override ahead of
// the main flag parse, since file values feed that parse's defaults.
func configFilePath(args []string, env map[string]string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-config" || arg == "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(arg, "-config="):
			return strings.TrimPrefix(arg, "-config=")
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return env[envConfigFile]
}

func loadFile(path string) (fileConfig, error) {
	var file fileConfig
	if path == "" {
		return file, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return file, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return file, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	// Socket and state dir default at runtime; nothing mandatory yet.
	return nil
}
