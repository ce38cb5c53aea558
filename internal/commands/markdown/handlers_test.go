package markdowncmd

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-academy-cms/internal/markdown"
)

type stubImporter struct {
	directories []string
	files       [][]string
	dryRuns     []bool
	result      *markdown.ImportResult
	err         error
}

func (s *stubImporter) ImportDirectory(_ context.Context, dir string, opts markdown.ImportOptions) (*markdown.ImportResult, error) {
	s.directories = append(s.directories, dir)
	s.dryRuns = append(s.dryRuns, opts.DryRun)
	return s.result, s.err
}

func (s *stubImporter) ImportFiles(_ context.Context, paths []string, opts markdown.ImportOptions) (*markdown.ImportResult, error) {
	s.files = append(s.files, paths)
	s.dryRuns = append(s.dryRuns, opts.DryRun)
	return s.result, s.err
}

type recordingRegistry struct {
	handlers []any
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}

func TestImportDirectoryHandlerDelegatesAndReports(t *testing.T) {
	stub := &stubImporter{result: &markdown.ImportResult{Created: []string{"vat"}}}
	handler := NewImportDirectoryHandler(stub, nil)

	var reported *markdown.ImportResult
	err := handler.Execute(context.Background(), ImportDirectoryCommand{
		Directory: "posts",
		DryRun:    true,
		OnResult:  func(r *markdown.ImportResult) { reported = r },
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(stub.directories) != 1 || stub.directories[0] != "posts" || !stub.dryRuns[0] {
		t.Fatalf("unexpected calls %+v", stub)
	}
	if reported == nil || reported.Created[0] != "vat" {
		t.Fatalf("expected result callback, got %+v", reported)
	}
}

func TestImportDirectoryHandlerRejectsEscapingPaths(t *testing.T) {
	stub := &stubImporter{}
	err := NewImportDirectoryHandler(stub, nil).Execute(context.Background(), ImportDirectoryCommand{Directory: "../etc"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(stub.directories) != 0 {
		t.Fatal("expected importer not to run")
	}
}

func TestImportFilesHandlerWrapsFailures(t *testing.T) {
	stub := &stubImporter{err: errors.New("disk gone")}
	handler := NewImportFilesHandler(stub, nil)

	if err := handler.Execute(context.Background(), ImportFilesCommand{}); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error for empty paths, got %v", err)
	}
	err := handler.Execute(context.Background(), ImportFilesCommand{Paths: []string{"/content/vat.md"}})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command error, got %v", err)
	}
}

func TestRegisterMarkdownCommands(t *testing.T) {
	reg := &recordingRegistry{}
	set, err := RegisterMarkdownCommands(reg, &stubImporter{}, nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if set.ImportDirectory == nil || set.ImportFiles == nil || len(reg.handlers) != 2 {
		t.Fatalf("unexpected registration %+v / %d", set, len(reg.handlers))
	}
	if _, err := RegisterMarkdownCommands(reg, nil, nil); err == nil {
		t.Fatal("expected error for nil service")
	}
}
