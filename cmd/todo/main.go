package main

import (
	"os"
	"strings"

	"todo-cli/internal/cli"
	"todo-cli/internal/model"
)

func isFilterName(s string) bool {
	_, err := model.ParseFilter(s)
	return err == nil
}

func rewriteFilterShortcutArgs(argv []string) []string {
	// Convenience: `todo unchecked` works like `todo tasks --filter unchecked`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first (`todo --base-url ... removed`), so look for the first
	// positional token rather than argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--base-url": true,
		"--timeout":  true,
		"--prefs":    true,
		"--format":   true,
		"--log-file": true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}

		// First positional token.
		if isFilterName(a) {
			out := make([]string, 0, len(argv)+2)
			out = append(out, argv[:i]...)
			out = append(out, "tasks", "--filter", a)
			out = append(out, argv[i+1:]...)
			return out
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteFilterShortcutArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
