package ui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/atomicstack/termchat/internal/logging"
)

func TestMain(m *testing.M) {
	logging.Configure(filepath.Join(os.TempDir(), "termchat-ui-test.log"))
	code := m.Run()
	logging.Close()
	os.Exit(code)
}
