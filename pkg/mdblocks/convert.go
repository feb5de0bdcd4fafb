// Package mdblocks converts Markdown source into Notion content blocks.
package mdblocks

import (
	"strings"

	"github.com/jomei/notionapi"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Converter turns Markdown documents into a flat sequence of Notion blocks.
// The converter is stateless so a single instance can be shared across calls.
type Converter struct {
	md goldmark.Markdown
}

// NewConverter constructs a converter with GFM and autolink extensions
// enabled.
func NewConverter() *Converter {
	return &Converter{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Linkify,
			),
		),
	}
}

// Convert parses the Markdown source and maps each top-level node to a Notion
// block. Node kinds without a Notion equivalent are skipped.
func (c *Converter) Convert(markdown string) ([]notionapi.Block, error) {
	source := []byte(markdown)
	doc := c.md.Parser().Parse(text.NewReader(source))

	var blocks []notionapi.Block
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		blocks = append(blocks, convertNode(node, source)...)
	}
	return blocks, nil
}

func convertNode(node ast.Node, source []byte) []notionapi.Block {
	switch n := node.(type) {
	case *ast.Heading:
		return []notionapi.Block{headingBlock(n.Level, inlineRichText(n, source))}

	case *ast.Paragraph:
		rich := inlineRichText(n, source)
		if len(rich) == 0 {
			return nil
		}
		return []notionapi.Block{notionapi.ParagraphBlock{
			BasicBlock: basicBlock(notionapi.BlockTypeParagraph),
			Paragraph:  notionapi.Paragraph{RichText: rich},
		}}

	case *ast.Blockquote:
		rich := quoteRichText(n, source)
		if len(rich) == 0 {
			return nil
		}
		return []notionapi.Block{notionapi.QuoteBlock{
			BasicBlock: basicBlock(notionapi.BlockTypeQuote),
			Quote:      notionapi.Quote{RichText: rich},
		}}

	case *ast.List:
		return listBlocks(n, source)

	case *ast.FencedCodeBlock:
		return []notionapi.Block{codeBlock(codeText(n.BaseBlock, source), string(n.Language(source)))}

	case *ast.CodeBlock:
		return []notionapi.Block{codeBlock(codeText(n.BaseBlock, source), "")}

	case *ast.ThematicBreak:
		return []notionapi.Block{notionapi.DividerBlock{
			BasicBlock: basicBlock(notionapi.BlockTypeDivider),
			Divider:    notionapi.Divider{},
		}}
	}

	// Raw HTML and anything else goldmark produces has no block mapping.
	return nil
}

func basicBlock(t notionapi.BlockType) notionapi.BasicBlock {
	return notionapi.BasicBlock{
		Object: notionapi.ObjectTypeBlock,
		Type:   t,
	}
}

// headingBlock maps Markdown heading levels onto Notion's three heading
// kinds. Levels 4-6 collapse to heading_3.
func headingBlock(level int, rich []notionapi.RichText) notionapi.Block {
	heading := notionapi.Heading{RichText: rich}
	switch level {
	case 1:
		return notionapi.Heading1Block{
			BasicBlock: basicBlock(notionapi.BlockTypeHeading1),
			Heading1:   heading,
		}
	case 2:
		return notionapi.Heading2Block{
			BasicBlock: basicBlock(notionapi.BlockTypeHeading2),
			Heading2:   heading,
		}
	default:
		return notionapi.Heading3Block{
			BasicBlock: basicBlock(notionapi.BlockTypeHeading3),
			Heading3:   heading,
		}
	}
}

// listBlocks flattens a Markdown list into consecutive list-item blocks.
// Nested lists become further items at the same level; Notion renders the
// sequence acceptably and the API does not require tree submission.
func listBlocks(list *ast.List, source []byte) []notionapi.Block {
	var blocks []notionapi.Block
	ordered := list.IsOrdered()

	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			if nested, ok := child.(*ast.List); ok {
				blocks = append(blocks, listBlocks(nested, source)...)
				continue
			}

			rich := inlineRichText(child, source)
			if len(rich) == 0 {
				continue
			}
			li := notionapi.ListItem{RichText: rich}
			if ordered {
				blocks = append(blocks, notionapi.NumberedListItemBlock{
					BasicBlock:       basicBlock(notionapi.BlockTypeNumberedListItem),
					NumberedListItem: li,
				})
			} else {
				blocks = append(blocks, notionapi.BulletedListItemBlock{
					BasicBlock:       basicBlock(notionapi.BlockTypeBulletedListItem),
					BulletedListItem: li,
				})
			}
		}
	}
	return blocks
}

// quoteRichText joins the paragraphs of a blockquote into one rich-text run
// sequence, separating paragraphs with newlines.
func quoteRichText(quote *ast.Blockquote, source []byte) []notionapi.RichText {
	var rich []notionapi.RichText
	for child := quote.FirstChild(); child != nil; child = child.NextSibling() {
		part := inlineRichText(child, source)
		if len(part) == 0 {
			continue
		}
		if len(rich) > 0 {
			rich = append(rich, plainRun("\n"))
		}
		rich = append(rich, part...)
	}
	return rich
}

func codeText(block ast.BaseBlock, source []byte) string {
	var b strings.Builder
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return strings.TrimRight(b.String(), "\n")
}

func codeBlock(content, language string) notionapi.Block {
	if language == "" {
		language = "plain text"
	}
	return notionapi.CodeBlock{
		BasicBlock: basicBlock(notionapi.BlockTypeCode),
		Code: notionapi.Code{
			RichText: chunkRuns(content, annotations{}),
			Language: language,
		},
	}
}
