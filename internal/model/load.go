package model

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zorxCorp/guaphy/internal/errors"
)

// schemaFile is the on-disk layout of a schema definition file.
type schemaFile struct {
	Schemas []*Schema `yaml:"schemas"`
}

// UnmarshalYAML decodes "one" or "many".
func (c *Cardinality) UnmarshalYAML(value *yaml.Node) error {
	return c.UnmarshalText([]byte(value.Value))
}

// LoadSchemas decodes schema definitions from YAML.
//
//	schemas:
//	  - name: Person
//	    soft_deletes: true
//	    relations:
//	      - { name: actedInMovies, type: ACTED_IN, target: Movie }
func LoadSchemas(r io.Reader) ([]*Schema, error) {
	var file schemaFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return nil, errors.ConfigError("schema file is empty")
		}
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, errors.SeverityCritical, "failed to parse schema file")
	}
	return file.Schemas, nil
}

// LoadRegistry reads a schema file, registers its schemas and validates
// every relation target.
func LoadRegistry(path string, opts ...RegistryOption) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, errors.SeverityCritical,
			fmt.Sprintf("failed to read schema file %s", path))
	}

	schemas, err := LoadSchemas(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	reg := NewRegistry(opts...)
	if err := reg.Register(schemas...); err != nil {
		return nil, err
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return reg, nil
}
