package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kbukum/onionkit/errors"
)

func writeDefinition(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFileLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeDefinition(t, dir, "checkout.yaml", `
name: checkout
description: checkout request flow
stages:
  - auth
  - validate
`)

	loader := NewFileLoader(dir)
	def, err := loader.Load("checkout")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if def.Name != "checkout" {
		t.Errorf("Name = %q, want checkout", def.Name)
	}
	if len(def.Stages) != 2 || def.Stages[0] != "auth" {
		t.Errorf("Stages = %v, want [auth validate]", def.Stages)
	}
}

func TestFileLoader_SearchesSubdirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "flows")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeDefinition(t, sub, "refund.yml", "name: refund\nstages: [audit]\n")

	loader := NewFileLoader(dir)
	def, err := loader.Load("refund")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if def.Name != "refund" {
		t.Errorf("Name = %q, want refund", def.Name)
	}
}

func TestFileLoader_NotFound(t *testing.T) {
	loader := NewFileLoader(t.TempDir())
	_, err := loader.Load("missing")
	if !errors.IsCode(err, errors.ErrCodePipelineNotFound) {
		t.Errorf("Load(missing) error = %v, want PIPELINE_NOT_FOUND", err)
	}
}

func TestFileLoader_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeDefinition(t, dir, "broken.yaml", "name: [unclosed\n")

	loader := NewFileLoader(dir)
	_, err := loader.Load("broken")
	if !errors.IsCode(err, errors.ErrCodeInvalidDefinition) {
		t.Errorf("Load(broken) error = %v, want INVALID_DEFINITION", err)
	}
}

func TestFileLoader_MissingStages(t *testing.T) {
	dir := t.TempDir()
	writeDefinition(t, dir, "empty.yaml", "name: empty\n")

	loader := NewFileLoader(dir)
	_, err := loader.Load("empty")
	if !errors.IsCode(err, errors.ErrCodeInvalidDefinition) {
		t.Errorf("Load(empty) error = %v, want INVALID_DEFINITION", err)
	}
}

func TestResolve_ComposesFromRegistry(t *testing.T) {
	log := &eventLog{}
	reg := NewRegistry()
	reg.MustRegister("auth", tagStage("auth", log))
	reg.MustRegister("validate", tagStage("validate", log))

	def := &Definition{Name: "checkout", Stages: []string{"auth", "validate"}}
	chain, err := Resolve(def, reg, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if chain.Name != "checkout" {
		t.Errorf("Name = %q, want checkout", chain.Name)
	}

	if err := chain.Then(nil)(nil, nil); err != nil {
		t.Fatalf("run() = %v", err)
	}
	want := []string{"auth", "validate"}
	if got := log.snapshot(); !stringSliceEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestResolve_Includes(t *testing.T) {
	dir := t.TempDir()
	writeDefinition(t, dir, "edge.yaml", "name: edge\nstages: [rid, access]\n")

	log := &eventLog{}
	reg := NewRegistry()
	reg.MustRegister("rid", tagStage("rid", log))
	reg.MustRegister("access", tagStage("access", log))
	reg.MustRegister("auth", tagStage("auth", log))

	def := &Definition{Name: "checkout", Includes: []string{"edge"}, Stages: []string{"auth"}}
	chain, err := Resolve(def, reg, NewFileLoader(dir))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if err := chain.Then(nil)(nil, nil); err != nil {
		t.Fatalf("run() = %v", err)
	}
	want := []string{"rid", "access", "auth"}
	if got := log.snapshot(); !stringSliceEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestResolve_CircularInclude(t *testing.T) {
	dir := t.TempDir()
	writeDefinition(t, dir, "a.yaml", "name: a\nincludes: [b]\nstages: [s]\n")
	writeDefinition(t, dir, "b.yaml", "name: b\nincludes: [a]\nstages: [s]\n")

	reg := NewRegistry()
	reg.MustRegister("s", tagStage("s", &eventLog{}))

	loader := NewFileLoader(dir)
	def, err := loader.Load("a")
	if err != nil {
		t.Fatalf("Load(a) error = %v", err)
	}
	_, err = Resolve(def, reg, loader)
	if !errors.IsCode(err, errors.ErrCodeInvalidDefinition) {
		t.Errorf("Resolve(circular) error = %v, want INVALID_DEFINITION", err)
	}
}

func TestResolve_UnknownLabel(t *testing.T) {
	def := &Definition{Name: "checkout", Stages: []string{"nope"}}
	_, err := Resolve(def, NewRegistry(), nil)
	if !errors.IsCode(err, errors.ErrCodeLabelNotAvailable) {
		t.Errorf("Resolve(unknown) error = %v, want LABEL_NOT_AVAILABLE", err)
	}
}
