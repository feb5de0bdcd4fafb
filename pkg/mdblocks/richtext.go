package mdblocks

import (
	"github.com/jomei/notionapi"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// maxRunLength stays under Notion's 2000-character rich-text limit, matching
// the margin the delivery path always used.
const maxRunLength = 1900

// annotations carries the inline formatting state accumulated while walking
// nested emphasis/link/code nodes.
type annotations struct {
	bold   bool
	italic bool
	code   bool
	strike bool
	link   string
}

// inlineRichText extracts the styled text runs of a block-level node.
func inlineRichText(node ast.Node, source []byte) []notionapi.RichText {
	var rich []notionapi.RichText
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		rich = appendInline(rich, child, source, annotations{})
	}
	return rich
}

func appendInline(rich []notionapi.RichText, node ast.Node, source []byte, st annotations) []notionapi.RichText {
	switch n := node.(type) {
	case *ast.Text:
		content := string(n.Segment.Value(source))
		if n.SoftLineBreak() {
			content += " "
		} else if n.HardLineBreak() {
			content += "\n"
		}
		if content != "" {
			rich = append(rich, chunkRuns(content, st)...)
		}
		return rich

	case *ast.String:
		if len(n.Value) > 0 {
			rich = append(rich, chunkRuns(string(n.Value), st)...)
		}
		return rich

	case *ast.Emphasis:
		if n.Level >= 2 {
			st.bold = true
		} else {
			st.italic = true
		}

	case *ast.Link:
		st.link = string(n.Destination)

	case *ast.AutoLink:
		url := string(n.URL(source))
		st.link = url
		rich = append(rich, chunkRuns(url, st)...)
		return rich

	case *east.Strikethrough:
		st.strike = true

	case *ast.CodeSpan:
		st.code = true

	case *ast.Image:
		// Images cannot be inlined into rich text; drop them.
		return rich
	}

	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		rich = appendInline(rich, child, source, st)
	}
	return rich
}

// chunkRuns splits content into rich-text runs that respect the Notion
// per-run length limit, all carrying the same annotations.
func chunkRuns(content string, st annotations) []notionapi.RichText {
	runes := []rune(content)
	var runs []notionapi.RichText
	for len(runes) > 0 {
		n := len(runes)
		if n > maxRunLength {
			n = maxRunLength
		}
		runs = append(runs, textRun(string(runes[:n]), st))
		runes = runes[n:]
	}
	return runs
}

func textRun(content string, st annotations) notionapi.RichText {
	rt := notionapi.RichText{
		Type:      notionapi.ObjectTypeText,
		Text:      &notionapi.Text{Content: content},
		PlainText: content,
	}
	if st.link != "" {
		rt.Text.Link = &notionapi.Link{Url: st.link}
	}
	if st.bold || st.italic || st.code || st.strike {
		rt.Annotations = &notionapi.Annotations{
			Bold:          st.bold,
			Italic:        st.italic,
			Code:          st.code,
			Strikethrough: st.strike,
			Color:         notionapi.ColorDefault,
		}
	}
	return rt
}

func plainRun(content string) notionapi.RichText {
	return textRun(content, annotations{})
}

// PlainText concatenates the plain-text content of a rich-text sequence.
func PlainText(rich []notionapi.RichText) string {
	var out string
	for _, rt := range rich {
		if rt.Text != nil {
			out += rt.Text.Content
			continue
		}
		out += rt.PlainText
	}
	return out
}
