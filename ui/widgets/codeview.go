package widgets

import (
	"log"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/go-enry/go-enry/v2"
	"github.com/mattn/go-runewidth"

	"github.com/quadrille-tui/quadrille/theme"
	"github.com/quadrille-tui/quadrille/ui"
)

const defaultChromaStyle = "catppuccin-mocha"

// span is a run of same-colored text within a line.
type span struct {
	text string
	fg   ui.Color
}

// CodeView renders syntax-highlighted source with wheel scrolling. The
// language comes from enry's classifier when the lexer cannot be resolved
// from the filename alone, so pasted snippets without a name still
// highlight.
type CodeView struct {
	ui.BaseWidget

	lines  [][]span
	offset int

	bg     ui.Color
	gutter ui.Color
}

// NewCodeView creates an empty code view at the given bounds.
func NewCodeView(r ui.Rect) *CodeView {
	tm := theme.Get()
	return &CodeView{
		BaseWidget: ui.NewBaseWidget(r),
		bg:         tm.GetColor("bg", ui.Black),
		gutter:     tm.GetColor("muted", ui.Gray),
	}
}

// SetSource tokenizes source and replaces the view's contents. The
// filename may be empty; it only aids language detection.
func (v *CodeView) SetSource(filename, source string) {
	v.lines = highlight(filename, source)
	v.offset = 0
}

// LineCount returns the number of highlighted lines.
func (v *CodeView) LineCount() int {
	return len(v.lines)
}

func (v *CodeView) Render(s ui.Sink) {
	r := v.Bounds()
	for row := 0; row < r.H; row++ {
		s.SetCursorPosition(r.X, r.Y+row)
		idx := v.offset + row
		if idx >= len(v.lines) {
			s.Write(padLine("~", r.W), v.gutter, v.bg)
			continue
		}
		left := r.W
		for _, sp := range v.lines[idx] {
			if left <= 0 {
				break
			}
			clipped := runewidth.Truncate(sp.text, left, "")
			s.Write(clipped, sp.fg, v.bg)
			left -= runewidth.StringWidth(clipped)
		}
		if left > 0 {
			s.Write(spaces(left), v.gutter, v.bg)
		}
	}
}

// HandleScroll moves the viewport, reporting whether it actually moved.
func (v *CodeView) HandleScroll(delta int) bool {
	prev := v.offset
	v.offset += delta
	maxOffset := len(v.lines) - v.Bounds().H
	if maxOffset < 0 {
		maxOffset = 0
	}
	if v.offset > maxOffset {
		v.offset = maxOffset
	}
	if v.offset < 0 {
		v.offset = 0
	}
	return v.offset != prev
}

// highlight tokenizes the whole source as one block so the lexer keeps
// cross-line context, then splits the colored runs back into lines.
func highlight(filename, source string) [][]span {
	style := styles.Get(defaultChromaStyle)
	lexer := resolveLexer(filename, source)
	lexer = chroma.Coalesce(lexer)

	tokens, err := chroma.Tokenise(lexer, nil, source)
	if err != nil {
		log.Printf("Widgets: Tokenise failed: %v", err)
		return plainLines(source)
	}

	fallback := theme.Get().GetColor("fg", ui.White)
	var lines [][]span
	var current []span
	for _, tok := range tokens {
		if tok.Type == chroma.EOFType {
			break
		}
		fg := tokenColor(style, tok.Type, fallback)
		parts := strings.Split(tok.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, current)
				current = nil
			}
			if part != "" {
				current = append(current, span{text: part, fg: fg})
			}
		}
	}
	if len(current) > 0 {
		lines = append(lines, current)
	}
	return lines
}

// resolveLexer finds a lexer by filename, then by enry's content
// classifier, then by chroma's own analysis.
func resolveLexer(filename, source string) chroma.Lexer {
	if filename != "" {
		if l := lexers.Match(filename); l != nil {
			return l
		}
	}
	if lang := enry.GetLanguage(filename, []byte(source)); lang != "" {
		if l := lexers.Get(strings.ToLower(lang)); l != nil {
			return l
		}
	}
	if l := lexers.Analyse(source); l != nil {
		return l
	}
	return lexers.Fallback
}

func tokenColor(style *chroma.Style, t chroma.TokenType, fallback ui.Color) ui.Color {
	entry := style.Get(t)
	if !entry.Colour.IsSet() {
		return fallback
	}
	return ui.RGB(entry.Colour.Red(), entry.Colour.Green(), entry.Colour.Blue())
}

func plainLines(source string) [][]span {
	fg := theme.Get().GetColor("fg", ui.White)
	raw := strings.Split(source, "\n")
	lines := make([][]span, len(raw))
	for i, l := range raw {
		if l != "" {
			lines[i] = []span{{text: l, fg: fg}}
		}
	}
	return lines
}
