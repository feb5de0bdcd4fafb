package publish

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jomei/notionapi"

	"github.com/briefbot/notion-brief/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunPublish_MissingConfigExitsWithoutCollaboratorCalls(t *testing.T) {
	t.Setenv(models.EnvToken, "")
	t.Setenv(models.EnvDatabaseID, "")

	converter := &fakeConverter{}
	creator := &fakeCreator{}
	factoryCalls := 0
	newPublisher := func(creds models.Credentials) *Publisher {
		factoryCalls++
		return &Publisher{Converter: converter, Creator: creator}
	}

	var out, errOut bytes.Buffer
	code := runPublish(context.Background(), "", &out, &errOut, discardLogger(), newPublisher)

	if code != 1 {
		t.Errorf("runPublish() = %d, want exit code 1", code)
	}
	if factoryCalls != 0 {
		t.Errorf("publisher built %d times on a config error, want 0", factoryCalls)
	}
	if converter.calls != 0 {
		t.Errorf("Convert called %d times on a config error, want 0", converter.calls)
	}
	if creator.calls != 0 {
		t.Errorf("CreatePage called %d times on a config error, want 0", creator.calls)
	}
	if !strings.Contains(errOut.String(), models.EnvToken) {
		t.Errorf("stderr = %q, want mention of %s", errOut.String(), models.EnvToken)
	}
}

func TestRunPublish_Success(t *testing.T) {
	t.Setenv(models.EnvToken, "secret_abc")
	t.Setenv(models.EnvDatabaseID, "db123")

	converter := &fakeConverter{blocks: []notionapi.Block{heading1("Doc")}}
	creator := &fakeCreator{url: "https://notion.so/page-1"}
	newPublisher := func(creds models.Credentials) *Publisher {
		return &Publisher{Converter: converter, Creator: creator}
	}

	var out, errOut bytes.Buffer
	code := runPublish(context.Background(), "", &out, &errOut, discardLogger(), newPublisher)

	if code != 0 {
		t.Fatalf("runPublish() = %d, want 0; stderr: %s", code, errOut.String())
	}
	if creator.calls != 1 {
		t.Errorf("CreatePage calls = %d, want 1", creator.calls)
	}
	if !strings.Contains(out.String(), "https://notion.so/page-1") {
		t.Errorf("stdout = %q, want the page URL", out.String())
	}
}

func TestRunPublish_CreateFailureExitsOne(t *testing.T) {
	t.Setenv(models.EnvToken, "secret_abc")
	t.Setenv(models.EnvDatabaseID, "db123")

	converter := &fakeConverter{blocks: []notionapi.Block{heading1("Doc")}}
	creator := &fakeCreator{err: &notionapi.Error{Status: 401, Code: "unauthorized", Message: "API token is invalid"}}
	newPublisher := func(creds models.Credentials) *Publisher {
		return &Publisher{Converter: converter, Creator: creator}
	}

	var out, errOut bytes.Buffer
	code := runPublish(context.Background(), "", &out, &errOut, discardLogger(), newPublisher)

	if code != 1 {
		t.Errorf("runPublish() = %d, want 1", code)
	}
	if !strings.Contains(errOut.String(), "NOTION_TOKEN") {
		t.Errorf("stderr = %q, want the unauthorized diagnostic", errOut.String())
	}
}

func TestReadMarkdownSource_NoArgument(t *testing.T) {
	var warn bytes.Buffer
	content, err := ReadMarkdownSource("", &warn)
	if err != nil {
		t.Fatalf("ReadMarkdownSource() error = %v", err)
	}
	if content != builtinExample {
		t.Error("expected built-in example content")
	}
	if warn.Len() != 0 {
		t.Errorf("unexpected warning: %q", warn.String())
	}
}

func TestReadMarkdownSource_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	if err := os.WriteFile(path, []byte("# Hello"), 0644); err != nil {
		t.Fatal(err)
	}

	var warn bytes.Buffer
	content, err := ReadMarkdownSource(path, &warn)
	if err != nil {
		t.Fatalf("ReadMarkdownSource() error = %v", err)
	}
	if content != "# Hello" {
		t.Errorf("content = %q, want %q", content, "# Hello")
	}
}

func TestReadMarkdownSource_MissingFileFallsBack(t *testing.T) {
	var warn bytes.Buffer
	content, err := ReadMarkdownSource(filepath.Join(t.TempDir(), "nope.md"), &warn)
	if err != nil {
		t.Fatalf("ReadMarkdownSource() error = %v", err)
	}
	if content != builtinExample {
		t.Error("expected fallback to built-in example content")
	}
	if !strings.Contains(warn.String(), "not found") {
		t.Errorf("warning = %q, want mention of missing file", warn.String())
	}
}

func TestReadMarkdownSource_ReadErrorIsFatal(t *testing.T) {
	// A directory exists but cannot be read as a file; this is the
	// non-not-found error class.
	var warn bytes.Buffer
	_, err := ReadMarkdownSource(t.TempDir(), &warn)
	if err == nil {
		t.Fatal("ReadMarkdownSource() error = nil, want read error")
	}
}

func TestPublishErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "target not found names the database",
			err:  &notionapi.Error{Status: 404, Code: "object_not_found", Message: "Could not find database"},
			want: "db-123",
		},
		{
			name: "unauthorized points at the token",
			err:  &notionapi.Error{Status: 401, Code: "unauthorized", Message: "API token is invalid"},
			want: "NOTION_TOKEN",
		},
		{
			name: "schema mismatch points at the title property",
			err:  &notionapi.Error{Status: 400, Code: "validation_error", Message: "Title is not a property that exists"},
			want: "title property",
		},
		{
			name: "other errors pass the raw message through",
			err:  errors.New("connection reset"),
			want: "connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PublishErrorMessage(tt.err, "db-123")
			if !strings.Contains(got, tt.want) {
				t.Errorf("PublishErrorMessage() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}
