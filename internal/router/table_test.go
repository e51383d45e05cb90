package router

import (
	"errors"
	"reflect"
	"testing"

	"github.com/af-corp/llm-router/internal/config"
)

func TestBuildTable_NamesAndAliases(t *testing.T) {
	providers := providersWith(
		providerSpec{name: "A", models: []config.ModelConfig{model("gpt", "gpt-4o", "g1", "g2")}},
		providerSpec{name: "B", typ: config.ProviderOllama, models: []config.ModelConfig{model("llama", "llama3")}},
	)

	table, err := BuildTable(providers)
	if err != nil {
		t.Fatalf("BuildTable failed: %v", err)
	}

	for _, name := range []string{"gpt", "g1", "g2"} {
		entry, ok := table.Lookup(name)
		if !ok {
			t.Fatalf("expected %s to be routable", name)
		}
		if entry.ProviderID != "A" || entry.ProviderModelID != "gpt-4o" || entry.CanonicalName != "gpt" {
			t.Errorf("%s resolved to %+v", name, entry)
		}
	}
	if got, want := table.Names(), []string{"g1", "g2", "gpt", "llama"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if table.Len() != 4 {
		t.Errorf("expected 4 entries, got %d", table.Len())
	}
}

func TestBuildTable_CaseSensitive(t *testing.T) {
	table, err := BuildTable(providersWith(providerSpec{name: "A", models: []config.ModelConfig{model("gpt", "gpt-4o")}}))
	if err != nil {
		t.Fatalf("BuildTable failed: %v", err)
	}
	if _, ok := table.Lookup("GPT"); ok {
		t.Error("expected lookup to be case-sensitive")
	}
}

func TestBuildTable_DuplicateAcrossProviders(t *testing.T) {
	tests := []struct {
		name      string
		providers *config.ProvidersConfig
		dup       string
	}{
		{
			name: "same model name",
			providers: providersWith(
				providerSpec{name: "A", models: []config.ModelConfig{model("gpt", "gpt-4o")}},
				providerSpec{name: "B", models: []config.ModelConfig{model("gpt", "other")}},
			),
			dup: "gpt",
		},
		{
			name: "alias collides with name",
			providers: providersWith(
				providerSpec{name: "A", models: []config.ModelConfig{model("gpt", "gpt-4o")}},
				providerSpec{name: "B", models: []config.ModelConfig{model("llama", "llama3", "gpt")}},
			),
			dup: "gpt",
		},
		{
			name: "alias collides with alias",
			providers: providersWith(
				providerSpec{name: "A", models: []config.ModelConfig{model("gpt", "gpt-4o", "fast")}},
				providerSpec{name: "B", models: []config.ModelConfig{model("llama", "llama3", "fast")}},
			),
			dup: "fast",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildTable(tt.providers)
			var dupErr *DuplicateModelNameError
			if !errors.As(err, &dupErr) {
				t.Fatalf("expected DuplicateModelNameError, got %v", err)
			}
			if dupErr.Name != tt.dup || dupErr.First != "A" || dupErr.Second != "B" {
				t.Errorf("unexpected error detail %+v", dupErr)
			}
		})
	}
}

func TestBuildTable_DuplicateWithinProvider(t *testing.T) {
	providers := providersWith(providerSpec{name: "A", models: []config.ModelConfig{
		model("gpt", "gpt-4o"),
		model("mini", "gpt-4o-mini", "gpt"),
	}})
	var dupErr *DuplicateModelNameError
	if _, err := BuildTable(providers); !errors.As(err, &dupErr) {
		t.Fatalf("expected DuplicateModelNameError, got %v", err)
	}
}

func TestBuildTable_DisabledProvidersIgnored(t *testing.T) {
	providers := providersWith(
		providerSpec{name: "A", disabled: true, models: []config.ModelConfig{model("gpt", "gpt-4o")}},
		providerSpec{name: "B", models: []config.ModelConfig{model("gpt", "llama3")}},
	)

	table, err := BuildTable(providers)
	if err != nil {
		t.Fatalf("disabled provider must not cause a duplicate: %v", err)
	}
	entry, _ := table.Lookup("gpt")
	if entry.ProviderID != "B" {
		t.Errorf("expected gpt to route to B, got %s", entry.ProviderID)
	}
}
