package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/atomicstack/termchat/internal/app"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	File    string
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

// File is the optional YAML configuration. Unset keys fall through to the
// built-in defaults.
type File struct {
	Identity    *string `yaml:"identity"`
	Server      *string `yaml:"server"`
	LogFile     *string `yaml:"log-file"`
	Trace       *bool   `yaml:"trace"`
	Footer      *bool   `yaml:"footer"`
	OutboxSize  *int    `yaml:"outbox-size"`
	Width       *int    `yaml:"width"`
	Height      *int    `yaml:"height"`
	PromptColor *string `yaml:"prompt-color"`
}

const (
	envConfig      = "TERMCHAT_CONFIG"
	envIdentity    = "TERMCHAT_IDENTITY"
	envServer      = "TERMCHAT_SERVER"
	envLogFile     = "TERMCHAT_LOG_FILE"
	envTrace       = "TERMCHAT_TRACE"
	envShowFooter  = "TERMCHAT_FOOTER"
	envOutboxSize  = "TERMCHAT_OUTBOX_SIZE"
	envWidth       = "TERMCHAT_WIDTH"
	envHeight      = "TERMCHAT_HEIGHT"
	envPromptColor = "TERMCHAT_PROMPT_COLOR"
	envUser        = "USER"
)

const defaultOutboxSize = 64

// Register adds the client's flags to fs.
func Register(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML configuration file")
	fs.StringP("identity", "i", "", "username to chat as (defaults to $USER)")
	fs.StringP("server", "s", "", "websocket URL of the chat server (empty runs offline)")
	fs.String("log-file", "", "path to the log file")
	fs.Bool("trace", false, "enable verbose JSON trace logging")
	fs.Bool("footer", false, "enable footer hint row (disabled by default)")
	fs.Int("outbox-size", defaultOutboxSize, "number of outbound messages queued before sends fail")
	fs.Int("width", 0, "desired viewport width in cells (0 uses terminal width)")
	fs.Int("height", 0, "desired viewport height in rows (0 uses terminal height)")
	fs.String("prompt-color", "", "ANSI or hex colour for the input prompt")
}

// LoadArgs parses args with a fresh flag set.
func LoadArgs(args []string, environ []string) (Config, error) {
	fs := pflag.NewFlagSet("termchat", pflag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))
	Register(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return Resolve(fs, args, environ)
}

// Resolve builds the configuration from a parsed flag set. Precedence is
// explicit flag, then environment, then the YAML file, then defaults.
func Resolve(fs *pflag.FlagSet, args []string, environ []string) (Config, error) {
	r := resolver{fs: fs, env: parseEnv(environ)}

	path := r.lookupString("config", envConfig, nil)
	if path != "" {
		file, err := readFile(path)
		if err != nil {
			return Config{}, err
		}
		r.file = file
	}

	identity := r.lookupString("identity", envIdentity, r.file.Identity)
	if identity == "" {
		identity = r.env[envUser]
	}
	server := r.lookupString("server", envServer, r.file.Server)
	logFile := r.lookupString("log-file", envLogFile, r.file.LogFile)
	trace := r.lookupBool("trace", envTrace, r.file.Trace)
	footer := r.lookupBool("footer", envShowFooter, r.file.Footer)
	outbox := r.lookupInt("outbox-size", envOutboxSize, r.file.OutboxSize)
	width := r.lookupInt("width", envWidth, r.file.Width)
	height := r.lookupInt("height", envHeight, r.file.Height)
	promptColor := r.lookupString("prompt-color", envPromptColor, r.file.PromptColor)

	if err := errors.Join(r.errs...); err != nil {
		return Config{}, err
	}
	if width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", width)
	}
	if height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", height)
	}

	cfg := Config{
		App: app.Config{
			Identity:    strings.TrimSpace(identity),
			Server:      strings.TrimSpace(server),
			Width:       width,
			Height:      height,
			ShowFooter:  footer,
			OutboxSize:  outbox,
			PromptColor: promptColor,
		},
		Logging: Logging{
			FilePath: logFile,
			Trace:    trace,
		},
		File: path,
		Flags: map[string]string{
			"identity":    identity,
			"server":      server,
			"footer":      strconv.FormatBool(footer),
			"outboxSize":  strconv.Itoa(outbox),
			"width":       strconv.Itoa(width),
			"height":      strconv.Itoa(height),
			"promptColor": promptColor,
		},
		Args: append([]string(nil), args...),
	}
	return cfg, nil
}

func readFile(path string) (File, error) {
	var file File
	data, err := os.ReadFile(path)
	if err != nil {
		return file, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("parse config %s: %w", path, err)
	}
	return file, nil
}

// resolver looks a key up in the flag set, the environment and the file in
// that order.
type resolver struct {
	fs   *pflag.FlagSet
	env  map[string]string
	file File
	errs []error
}

func (r *resolver) envValue(key string) (string, bool) {
	v, ok := r.env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

func (r *resolver) lookupString(name, key string, file *string) string {
	if r.fs.Changed(name) {
		v, err := r.fs.GetString(name)
		r.record(err)
		return v
	}
	if v, ok := r.envValue(key); ok {
		return v
	}
	if file != nil {
		return *file
	}
	v, err := r.fs.GetString(name)
	r.record(err)
	return v
}

func (r *resolver) lookupBool(name, key string, file *bool) bool {
	if r.fs.Changed(name) {
		v, err := r.fs.GetBool(name)
		r.record(err)
		return v
	}
	if v, ok := r.envValue(key); ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	if file != nil {
		return *file
	}
	v, err := r.fs.GetBool(name)
	r.record(err)
	return v
}

func (r *resolver) lookupInt(name, key string, file *int) int {
	if r.fs.Changed(name) {
		v, err := r.fs.GetInt(name)
		r.record(err)
		return v
	}
	if v, ok := r.envValue(key); ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	if file != nil {
		return *file
	}
	v, err := r.fs.GetInt(name)
	r.record(err)
	return v
}

func (r *resolver) record(err error) {
	if err != nil {
		r.errs = append(r.errs, err)
	}
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

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	if cfg.App.Identity == "" {
		return errors.New("identity is required (set --identity, TERMCHAT_IDENTITY or USER)")
	}
	if cfg.App.OutboxSize <= 0 {
		return fmt.Errorf("outbox-size must be > 0 (got %d)", cfg.App.OutboxSize)
	}
	return nil
}
