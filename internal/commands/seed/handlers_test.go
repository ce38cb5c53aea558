package seedcmd

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-academy-cms/internal/commands"
	"github.com/goliatone/go-academy-cms/internal/seed"
)

type stubApplier struct {
	fixtures []*seed.Fixture
	err      error
}

func (s *stubApplier) Apply(_ context.Context, fixture *seed.Fixture) (*seed.Result, error) {
	s.fixtures = append(s.fixtures, fixture)
	if s.err != nil {
		return nil, s.err
	}
	return &seed.Result{Categories: seed.Counts{Created: len(fixture.Categories)}}, nil
}

func TestApplyFixtureHandlerParsesInlineData(t *testing.T) {
	stub := &stubApplier{}
	handler := NewApplyFixtureHandler(stub, nil)

	var result *seed.Result
	err := handler.Execute(context.Background(), ApplyFixtureCommand{
		Data:     []byte("categories:\n  - name: Tax\n  - name: Audit\n"),
		Format:   seed.FormatYAML,
		OnResult: func(r *seed.Result) { result = r },
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(stub.fixtures) != 1 || len(stub.fixtures[0].Categories) != 2 {
		t.Fatalf("unexpected fixtures %+v", stub.fixtures)
	}
	if result == nil || result.Categories.Created != 2 {
		t.Fatalf("expected result callback, got %+v", result)
	}
}

func TestApplyFixtureHandlerValidation(t *testing.T) {
	handler := NewApplyFixtureHandler(&stubApplier{}, nil)
	cases := []ApplyFixtureCommand{
		{},
		{Data: []byte("{}")},
		{Path: "seed.json", Format: "xml"},
	}
	for _, msg := range cases {
		if err := handler.Execute(context.Background(), msg); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
			t.Fatalf("expected validation error for %+v, got %v", msg, err)
		}
	}
}

func TestApplyFixtureHandlerFailures(t *testing.T) {
	err := NewApplyFixtureHandler(nil, nil).Execute(context.Background(), ApplyFixtureCommand{Path: "seed.json"})
	if !errors.Is(err, commands.ErrDependencyMissing) {
		t.Fatalf("expected ErrDependencyMissing, got %v", err)
	}

	stub := &stubApplier{err: errors.New("db down")}
	err = NewApplyFixtureHandler(stub, nil).Execute(context.Background(), ApplyFixtureCommand{
		Data:   []byte(`{"pages": [{"title": "About"}]}`),
		Format: seed.FormatJSON,
	})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command error, got %v", err)
	}
}
