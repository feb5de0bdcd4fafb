// Package publish implements the Markdown page publisher.
package publish

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/briefbot/notion-brief/pkg/mdblocks"
)

// DefaultTitle is used when the converted document has no usable top-level
// heading.
const DefaultTitle = "New Markdown Import"

// MarkdownConverter converts Markdown source into Notion blocks.
type MarkdownConverter interface {
	Convert(markdown string) ([]notionapi.Block, error)
}

// PageCreator creates one page in the target database and returns its URL.
type PageCreator interface {
	CreatePage(ctx context.Context, title string, blocks []notionapi.Block) (string, error)
}

// Publisher converts a Markdown document and creates a single page from it.
type Publisher struct {
	Converter MarkdownConverter
	Creator   PageCreator
}

// Publish runs the full pipeline: convert, derive the title, strip the
// heading used as the title, create the page. Returns the new page's URL.
func (p *Publisher) Publish(ctx context.Context, markdown string) (string, error) {
	blocks, err := p.Converter.Convert(markdown)
	if err != nil {
		return "", fmt.Errorf("markdown conversion failed: %w", err)
	}

	title := DeriveTitle(blocks)
	submitted := StripLeadingHeading(blocks)

	url, err := p.Creator.CreatePage(ctx, title, submitted)
	if err != nil {
		return "", err
	}
	return url, nil
}

// DeriveTitle returns the concatenated plain text of the first top-level
// heading block, or DefaultTitle when there is no such block or its text is
// empty. Only the first heading_1 in the sequence is considered.
func DeriveTitle(blocks []notionapi.Block) string {
	for _, block := range blocks {
		rich, ok := heading1RichText(block)
		if !ok {
			continue
		}
		if text := mdblocks.PlainText(rich); text != "" {
			return text
		}
		return DefaultTitle
	}
	return DefaultTitle
}

// StripLeadingHeading removes the first block if and only if it is a
// top-level heading. The removal depends on position and type alone, not on
// whether the heading's text was usable as a title. Headings anywhere else
// in the sequence are never removed.
func StripLeadingHeading(blocks []notionapi.Block) []notionapi.Block {
	if len(blocks) == 0 {
		return blocks
	}
	if _, ok := heading1RichText(blocks[0]); ok {
		return blocks[1:]
	}
	return blocks
}

func heading1RichText(block notionapi.Block) ([]notionapi.RichText, bool) {
	switch b := block.(type) {
	case notionapi.Heading1Block:
		return b.Heading1.RichText, true
	case *notionapi.Heading1Block:
		return b.Heading1.RichText, true
	}
	return nil, false
}
