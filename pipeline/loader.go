package pipeline

import (
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/onionkit/errors"
	"github.com/kbukum/onionkit/validation"
)

// Definition is a declarative pipeline description, usually authored in YAML.
// Stages are registry labels resolved at composition time. Includes name
// other definitions whose stages are prepended to this one's.
type Definition struct {
	Name        string   `yaml:"name" validate:"required"`
	Description string   `yaml:"description"`
	Includes    []string `yaml:"includes"`
	Stages      []string `yaml:"stages" validate:"required,min=1,dive,required"`
}

// DefinitionLoader loads pipeline definitions by name.
type DefinitionLoader interface {
	Load(name string) (*Definition, error)
}

// FileLoader loads pipeline definitions from YAML files on disk.
type FileLoader struct {
	dirs []string
}

// NewFileLoader creates a loader that searches the given directories for
// definition YAML files.
func NewFileLoader(dirs ...string) *FileLoader {
	return &FileLoader{dirs: dirs}
}

// Load searches for a definition YAML file by name across configured
// directories. It searches for {name}.yaml and {name}.yml in each directory
// and its subdirectories.
func (l *FileLoader) Load(name string) (*Definition, error) {
	for _, dir := range l.dirs {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, name+ext)
			if d, err := loadDefinitionFile(path); err == nil {
				return d, nil
			} else if errors.IsCode(err, errors.ErrCodeInvalidDefinition) {
				return nil, err
			}

			matches, _ := filepath.Glob(filepath.Join(dir, "*", name+ext))
			for _, match := range matches {
				if d, err := loadDefinitionFile(match); err == nil {
					return d, nil
				} else if errors.IsCode(err, errors.ErrCodeInvalidDefinition) {
					return nil, err
				}
			}
		}
	}
	return nil, errors.PipelineNotFound(name)
}

func loadDefinitionFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d Definition
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, errors.InvalidDefinition(filepath.Base(path), err.Error()).WithCause(err)
	}
	if err := validation.Validate(d); err != nil {
		return nil, errors.InvalidDefinition(d.Name, err.Error()).WithCause(err)
	}
	return &d, nil
}

// LoadDefinition loads a definition from explicit file paths, trying each
// until one parses.
func LoadDefinition(name string, paths ...string) (*Definition, error) {
	for _, path := range paths {
		d, err := loadDefinitionFile(path)
		if err == nil {
			return d, nil
		}
		if errors.IsCode(err, errors.ErrCodeInvalidDefinition) {
			return nil, err
		}
	}
	return nil, errors.PipelineNotFound(name)
}

// Resolve converts a definition into an executable chain. Included
// definitions are resolved first and their stages run ahead of this
// definition's own stages. Stage labels are looked up in the registry.
func Resolve(d *Definition, reg *Registry, loader DefinitionLoader) (*Chain, error) {
	stack := make(map[string]bool)
	labels, err := resolveDefinition(d, loader, stack)
	if err != nil {
		return nil, err
	}

	items := make([]any, len(labels))
	for i, label := range labels {
		items[i] = label
	}
	chain, err := reg.Compose(items...)
	if err != nil {
		return nil, err
	}
	chain.Name = d.Name
	return chain, nil
}

func resolveDefinition(d *Definition, loader DefinitionLoader, stack map[string]bool) ([]string, error) {
	if stack[d.Name] {
		return nil, errors.InvalidDefinition(d.Name, "circular include")
	}
	stack[d.Name] = true
	defer delete(stack, d.Name)

	var labels []string
	for _, includeName := range d.Includes {
		if loader == nil {
			return nil, errors.InvalidDefinition(d.Name, "includes require a loader")
		}
		sub, err := loader.Load(includeName)
		if err != nil {
			return nil, err
		}
		subLabels, err := resolveDefinition(sub, loader, stack)
		if err != nil {
			return nil, err
		}
		labels = append(labels, subLabels...)
	}
	return append(labels, d.Stages...), nil
}
