// Package main provides the CLI entrypoint for linetype.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/linetype/internal/config"
	"github.com/verte-zerg/linetype/internal/model"
	"github.com/verte-zerg/linetype/internal/tui"
	"github.com/verte-zerg/linetype/internal/wrap"
)

const (
	defaultWidth = wrap.DefaultWidth
	defaultBell  = true
)

// exitInterrupted is the conventional status for a SIGINT-style abort.
const exitInterrupted = 130

var (
	practiceWidth    int
	practiceBell     bool
	practiceDebugLog string
)

func main() {
	rootCmd := newRootCmd()
	if code := exitCode(rootCmd.Execute()); code != 0 {
		os.Exit(code)
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, tui.ErrInterrupted):
		return exitInterrupted
	default:
		return 1
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "linetype <file>",
		Short:         "Line-by-line typing tutor",
		Long:          "Type a text file line by line. Each line is repeated until it is typed at 50 WPM or more with at least 90% accuracy.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().IntVar(&practiceWidth, "width", defaultWidth, "wrap width in characters")
	rootCmd.Flags().BoolVar(&practiceBell, "bell", defaultBell, "ring the terminal bell on a wrong key")
	rootCmd.Flags().StringVar(&practiceDebugLog, "debug-log", "", "write debug logs to this file")

	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "width", &practiceWidth, fileCfg.Practice.Width)
	applyBoolConfig(cmd, "bell", &practiceBell, fileCfg.Practice.Bell)

	cfg := model.Config{
		Path:     args[0],
		Width:    practiceWidth,
		Bell:     practiceBell,
		DebugLog: practiceDebugLog,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("stdin is not a terminal")
	}

	file, err := os.Open(cfg.Path)
	if err != nil {
		return fmt.Errorf("failed to open text: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only text.
			_ = cerr
		}
	}()

	closeLog, err := setupLogging(cfg.DebugLog)
	if err != nil {
		return err
	}
	defer closeLog()

	// The renderer owns stdout; the bell goes to the same terminal via stderr.
	opts := tui.Options{}
	if cfg.Bell {
		opts.Bell = os.Stderr
	}
	m := tui.NewModel(wrap.New(file, cfg.Width), opts)
	program := tea.NewProgram(m)
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if fm, ok := final.(*tui.Model); ok {
		return fm.Err()
	}
	return nil
}

// setupLogging routes the standard logger to path, or discards it when path
// is empty. Stdout belongs to the TUI.
func setupLogging(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := tea.LogToFile(path, "linetype")
	if err != nil {
		return nil, fmt.Errorf("failed to open debug log: %w", err)
	}
	return func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close debug log: %v\n", cerr)
		}
	}, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		if _, err := config.LoadConfig(path); err != nil {
			return fmt.Errorf("default config template is invalid: %w", err)
		}
	}
	return nil
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# linetype configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# width = %d              # Wrap width in characters
# bell = %t             # Ring the terminal bell on a wrong key
`,
		defaultWidth,
		defaultBell,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Path == "" {
		return fmt.Errorf("text path must not be empty")
	}
	if cfg.Width <= 0 {
		return fmt.Errorf("--width must be > 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
