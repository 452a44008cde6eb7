package ai_test

import (
	"context"
	"testing"

	"github.com/iitconnect/iitconnect/internal/ai"
)

func TestLoaderReload(t *testing.T) {
	ctx := context.Background()
	sr := &fakeSchemaRepo{schemas: map[string]string{
		"mcq": `{"type":"array"}`,
	}}

	l, err := ai.NewLoader(ctx, sr)
	if err != nil {
		t.Fatalf("NewLoader: %v", err)
	}
	if _, ok := l.GetSchema("mcq"); !ok {
		t.Fatalf("expected mcq schema in cache")
	}
	if _, ok := l.GetSchema("ghost"); ok {
		t.Fatalf("did not expect ghost schema")
	}

	sr.schemas["flashcard"] = `{"type":"array"}`
	if err := l.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if _, ok := l.GetSchema("flashcard"); !ok {
		t.Fatalf("expected flashcard schema after reload")
	}
}

func TestLoaderRejectsBadSchema(t *testing.T) {
	sr := &fakeSchemaRepo{schemas: map[string]string{"broken": `{`}}
	if _, err := ai.NewLoader(context.Background(), sr); err == nil {
		t.Fatalf("expected error for malformed schema JSON")
	}
}
