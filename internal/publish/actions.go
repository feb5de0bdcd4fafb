package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/briefbot/notion-brief/models"
	"github.com/briefbot/notion-brief/pkg/mdblocks"
	"github.com/briefbot/notion-brief/pkg/notion"
)

// builtinExample is used when no file argument is given, or the given path
// does not exist.
const builtinExample = `# Markdown Import Example

This page was created by **notion-brief** from the built-in example document.

## What converts

- Headings (levels 1-3)
- *Italic*, **bold**, ` + "`code`" + `, and [links](https://developers.notion.com)
- Bulleted and numbered lists

> Quotes and dividers work too.

---

Run ` + "`notion-brief publish path/to/file.md`" + ` to import your own document.
`

// PublishAction converts a Markdown document and creates a page for it in
// the configured Notion database.
func PublishAction(c *cli.Context) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	newPublisher := func(creds models.Credentials) *Publisher {
		return &Publisher{
			Converter: mdblocks.NewConverter(),
			Creator:   notion.NewClient(creds.Token, creds.DatabaseID),
		}
	}

	if code := runPublish(c.Context, c.Args().First(), os.Stdout, os.Stderr, logger, newPublisher); code != 0 {
		os.Exit(code)
	}
	return nil
}

// runPublish drives the full publish flow and returns the process exit code.
// Configuration errors surface before anything touches the network: the
// publisher is only built once the credentials are known to be valid, so a
// misconfigured run never reaches conversion or page creation.
func runPublish(ctx context.Context, path string, out, errOut io.Writer, logger *slog.Logger, newPublisher func(models.Credentials) *Publisher) int {
	creds, err := models.CredentialsFromEnv()
	if err != nil {
		fmt.Fprintf(errOut, "❌ %v\n", err)
		fmt.Fprintln(errOut, "   Set NOTION_TOKEN and NOTION_DATABASE_ID (a .env file works too)")
		return 1
	}

	markdown, err := ReadMarkdownSource(path, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "❌ %v\n", err)
		return 1
	}

	publisher := newPublisher(creds)

	fmt.Fprintln(out, "🚀 Converting Markdown to Notion blocks...")
	fmt.Fprintln(out, "📤 Creating page...")

	url, err := publisher.Publish(ctx, markdown)
	if err != nil {
		logger.Error("publish failed", "error", err)
		fmt.Fprintln(errOut, PublishErrorMessage(err, creds.DatabaseID))
		return 1
	}

	fmt.Fprintf(out, "✅ Page created: %s\n", url)
	return 0
}

// ReadMarkdownSource selects the Markdown input. An empty path means the
// built-in example; a path to a missing file warns and falls back to the
// example; any other read error is fatal.
func ReadMarkdownSource(path string, warnTo io.Writer) (string, error) {
	if path == "" {
		return builtinExample, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(warnTo, "⚠️ File %s not found, using built-in example content\n", path)
		return builtinExample, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// PublishErrorMessage maps a publish failure onto the operator-facing
// diagnostic for it.
func PublishErrorMessage(err error, databaseID string) string {
	switch notion.ClassifyError(err) {
	case notion.ErrTargetNotFound:
		return fmt.Sprintf("❌ Database %q not found. Ensure the ID is correct and the database is shared with your integration.", databaseID)
	case notion.ErrUnauthorized:
		return "❌ Unauthorized. Check that NOTION_TOKEN is valid."
	case notion.ErrSchemaMismatch:
		return "❌ Property mismatch. Check that the target database has a title property."
	default:
		return fmt.Sprintf("❌ %v", err)
	}
}
