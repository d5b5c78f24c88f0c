// Package open hands files to the system's default viewer.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/cinema-cli/cinema/constant"
)

// Start opens target with the default handler without waiting for it.
func Start(target string) error {
	return StartWith(target, "")
}

// StartWith opens target with app, or with the default handler when app is empty.
func StartWith(target, app string) error {
	cmd, err := command(runtime.GOOS, target, app)
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", target, err)
	}

	// The viewer outlives us; reap it in the background.
	go func() { _ = cmd.Wait() }()
	return nil
}

func command(goos, target, app string) (*exec.Cmd, error) {
	if app != "" {
		switch goos {
		case constant.Darwin:
			return exec.Command("open", "-a", app, target), nil
		case constant.Windows:
			return exec.Command("cmd", "/C", "start", "", app, target), nil
		default:
			return exec.Command(app, target), nil
		}
	}

	switch goos {
	case constant.Windows:
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", target), nil
	case constant.Darwin:
		return exec.Command("open", target), nil
	case constant.Linux:
		return exec.Command("xdg-open", target), nil
	case constant.Android:
		return exec.Command("termux-open", target), nil
	default:
		return nil, fmt.Errorf("unsupported OS: %s", goos)
	}
}
