// Package notion wraps the Notion API for page creation and briefing
// delivery.
package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"
)

// PageAPI is the slice of the Notion SDK the client needs for creating
// pages. Narrowed to an interface so tests can substitute fakes.
type PageAPI interface {
	Create(ctx context.Context, request *notionapi.PageCreateRequest) (*notionapi.Page, error)
}

// DatabaseAPI fetches database metadata, used to discover the schema before
// delivery.
type DatabaseAPI interface {
	Get(ctx context.Context, id notionapi.DatabaseID) (*notionapi.Database, error)
}

// Client talks to a single Notion database.
type Client struct {
	Pages      PageAPI
	Databases  DatabaseAPI
	DatabaseID string
}

// NewClient builds a client from a bearer token and target database ID.
func NewClient(token, databaseID string) *Client {
	api := notionapi.NewClient(notionapi.Token(token))
	return &Client{
		Pages:      api.Page,
		Databases:  api.Database,
		DatabaseID: databaseID,
	}
}

// CreatePage creates one page in the target database with the given title
// and content blocks. The "title" property ID is valid for any database
// regardless of the title column's display name.
func (c *Client) CreatePage(ctx context.Context, title string, blocks []notionapi.Block) (string, error) {
	req := &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(c.DatabaseID),
		},
		Properties: notionapi.Properties{
			"title": notionapi.TitleProperty{
				Title: []notionapi.RichText{{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{Content: title},
				}},
			},
		},
		Children: blocks,
	}

	page, err := c.Pages.Create(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create page: %w", err)
	}
	return page.URL, nil
}
