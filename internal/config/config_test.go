package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atomicstack/termchat/internal/app"
	"github.com/google/go-cmp/cmp"
)

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, []string{"USER=alice"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := app.Config{Identity: "alice", OutboxSize: defaultOutboxSize}
	if diff := cmp.Diff(want, cfg.App); diff != "" {
		t.Fatalf("app config mismatch (-want +got):\n%s", diff)
	}
	if cfg.Logging.Trace || cfg.Logging.FilePath != "" {
		t.Fatalf("unexpected logging config %#v", cfg.Logging)
	}
}

func TestLoadArgsEnvironment(t *testing.T) {
	env := []string{
		"USER=ignored",
		envIdentity + "=bob",
		envServer + "=ws://chat.example/ws",
		envTrace + "=true",
		envShowFooter + "=1",
		envOutboxSize + "=8",
		envLogFile + "=/tmp/termchat.log",
		envWidth + "=not-a-number",
	}
	cfg, err := LoadArgs(nil, env)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := app.Config{
		Identity:   "bob",
		Server:     "ws://chat.example/ws",
		ShowFooter: true,
		OutboxSize: 8,
	}
	if diff := cmp.Diff(want, cfg.App); diff != "" {
		t.Fatalf("app config mismatch (-want +got):\n%s", diff)
	}
	if !cfg.Logging.Trace || cfg.Logging.FilePath != "/tmp/termchat.log" {
		t.Fatalf("unexpected logging config %#v", cfg.Logging)
	}
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	args := []string{"--identity", "carol", "-s", "ws://flag/ws", "--footer=false", "--outbox-size", "3"}
	env := []string{envIdentity + "=bob", envServer + "=ws://env/ws", envShowFooter + "=true"}
	cfg, err := LoadArgs(args, env)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Identity != "carol" || cfg.App.Server != "ws://flag/ws" || cfg.App.ShowFooter || cfg.App.OutboxSize != 3 {
		t.Fatalf("flags did not win: %#v", cfg.App)
	}
	if diff := cmp.Diff(args, cfg.Args); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
	if cfg.Flags["identity"] != "carol" || cfg.Flags["outboxSize"] != "3" {
		t.Fatalf("unexpected flag map %#v", cfg.Flags)
	}
}

func TestYAMLFileSitsBelowEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "termchat.yaml")
	body := strings.Join([]string{
		"identity: dave",
		"server: ws://file/ws",
		"footer: true",
		"outbox-size: 16",
		"prompt-color: \"#ff8800\"",
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadArgs([]string{"--config", path}, []string{envServer + "=ws://env/ws"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := app.Config{
		Identity:    "dave",
		Server:      "ws://env/ws",
		ShowFooter:  true,
		OutboxSize:  16,
		PromptColor: "#ff8800",
	}
	if diff := cmp.Diff(want, cfg.App); diff != "" {
		t.Fatalf("app config mismatch (-want +got):\n%s", diff)
	}
	if cfg.File != path {
		t.Fatalf("expected config path %q, got %q", path, cfg.File)
	}
}

func TestConfigFileFromEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "termchat.yaml")
	if err := os.WriteFile(path, []byte("identity: erin\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadArgs(nil, []string{envConfig + "=" + path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Identity != "erin" {
		t.Fatalf("expected identity from file, got %q", cfg.App.Identity)
	}
}

func TestLoadArgsErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("identity: [unclosed"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"--nope"}, "unknown flag"},
		{"negative width", []string{"--width", "-1"}, "width must be >= 0"},
		{"negative height", []string{"--height", "-2"}, "height must be >= 0"},
		{"missing file", []string{"--config", missing}, "read config"},
		{"bad yaml", []string{"--config", bad}, "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadArgs(tt.args, nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     app.Config
		wantErr string
	}{
		{"ok", app.Config{Identity: "alice", OutboxSize: 1}, ""},
		{"no identity", app.Config{OutboxSize: 1}, "identity is required"},
		{"blank identity", app.Config{Identity: "", OutboxSize: 1}, "identity is required"},
		{"zero outbox", app.Config{Identity: "alice"}, "outbox-size must be > 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(Config{App: tt.cfg})
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestIdentityIsTrimmed(t *testing.T) {
	cfg, err := LoadArgs([]string{"--identity", "  "}, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected whitespace identity to be rejected")
	}
}
