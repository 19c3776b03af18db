package law

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// #region document
// Document is a loaded canon: the validated Spec plus the raw bytes it was
// parsed from, kept so receipts can snapshot the exact canon used.
type Document struct {
	Spec Spec
	Raw  []byte
	Path string
}

// #endregion document

// #region parse
// Parse decodes a YAML or JSON canon and validates it. Every key must be
// present and unknown keys are rejected.
func Parse(data []byte) (Spec, error) {
	var doc rawSpec
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return Spec{}, fmt.Errorf("decode law: %w", err)
	}
	if err := validate.Struct(doc); err != nil {
		return Spec{}, fmt.Errorf("incomplete law: %w", err)
	}
	spec := doc.spec()
	if err := Validate(spec); err != nil {
		return Spec{}, err
	}
	return spec, nil
}

// Validate checks a Spec against its field constraints.
func Validate(spec Spec) error {
	if err := validate.Struct(spec); err != nil {
		return fmt.Errorf("invalid law: %w", err)
	}
	return nil
}

// UnmarshalYAML decodes an embedded canon (a replay fixture's law block)
// with the same presence and key checks as Parse.
func (s *Spec) UnmarshalYAML(value *yaml.Node) error {
	data, err := yaml.Marshal(value)
	if err != nil {
		return err
	}
	spec, err := Parse(data)
	if err != nil {
		return err
	}
	*s = spec
	return nil
}

// #endregion parse

// #region file-source
// FileSource loads the canon from a file on every call.
type FileSource struct {
	Path string
}

// Load reads and validates the canon at s.Path.
func (s FileSource) Load() (Document, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return Document{}, fmt.Errorf("read law %s: %w", s.Path, err)
	}
	spec, err := Parse(data)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", s.Path, err)
	}
	return Document{Spec: spec, Raw: data, Path: s.Path}, nil
}

// #endregion file-source

// #region static-source
// StaticSource serves a fixed, already-validated canon. Used by replays.
type StaticSource struct {
	Doc Document
}

// Load returns the fixed document.
func (s StaticSource) Load() (Document, error) {
	return s.Doc, nil
}

// #endregion static-source
