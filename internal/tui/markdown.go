package tui

import (
	"fmt"
	"strings"
	"sync"

	"todo-cli/internal/docs"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Renderers are cached by style + wrap width. glamour.WithAutoStyle can block on
	// terminal background queries, so styles are always picked explicitly.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

var helpMarkdown = docs.MustGet(docs.TopicKeys)

func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	style := markdownStyle()
	key := fmt.Sprintf("%s:%d", style, width)

	mdRendererMu.Lock()
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		cfg := markdownStyleConfig(style)
		zero := uint(0)
		cfg.Document.Margin = &zero
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(cfg),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

func markdownStyle() string {
	if lipgloss.HasDarkBackground() {
		return styles.DarkStyle
	}
	return styles.LightStyle
}

func markdownStyleConfig(style string) ansi.StyleConfig {
	cfg := styles.DarkStyleConfig
	if style == styles.LightStyle {
		cfg = styles.LightStyleConfig
	}

	// Match the TUI palette instead of glamour's bright defaults.
	text := mdColor(colorSurfaceFg, style)
	cfg.Text.Color = text
	cfg.Heading.Color = text
	cfg.H2.Color = text
	cfg.Strong.Color = nil
	cfg.Emph.Color = nil
	cfg.Code.Color = text
	return cfg
}

func mdColor(c lipgloss.TerminalColor, style string) *string {
	ac, ok := c.(lipgloss.AdaptiveColor)
	if !ok {
		return nil
	}
	if style == styles.LightStyle {
		return &ac.Light
	}
	return &ac.Dark
}
