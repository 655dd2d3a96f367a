package jsonstore

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Makepad-fr/tada/internal/model"
)

// SchemaVersion is the only file layout this package reads and writes.
const SchemaVersion = 1

const schemaURL = "todos.schema.json"

//go:embed todos.schema.json
var schemaJSON []byte

var fileSchema = compileSchema()

func compileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	c.AssertFormat = true
	if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("jsonstore: add schema: %v", err))
	}
	return c.MustCompile(schemaURL)
}

// file is the on-disk envelope.
type file struct {
	SchemaVersion int          `json:"schema_version"`
	ToDos         []model.ToDo `json:"todos"`
}

// ValidationError locates a schema violation in a decoded file.
type ValidationError struct {
	Path string // e.g. todos[2].id
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Encode serializes the whole collection with 2-space indentation and a
// trailing newline.
func Encode(todos []model.ToDo) ([]byte, error) {
	if todos == nil {
		todos = []model.ToDo{}
	}
	b, err := json.MarshalIndent(file{SchemaVersion: SchemaVersion, ToDos: todos}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return append(b, '\n'), nil
}

// Decode parses and validates a file produced by Encode.
func Decode(data []byte) ([]model.ToDo, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if err := fileSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema: %w", schemaErrors(err))
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if f.ToDos == nil {
		f.ToDos = []model.ToDo{}
	}
	return f.ToDos, nil
}

func schemaErrors(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	var errs []error
	collectSchemaErrors(&errs, ve)
	return errors.Join(errs...)
}

func collectSchemaErrors(errs *[]error, ve *jsonschema.ValidationError) {
	if len(ve.Causes) == 0 {
		*errs = append(*errs, &ValidationError{
			Path: pointerToPath(ve.InstanceLocation),
			Err:  errors.New(ve.Message),
		})
		return
	}
	for _, cause := range ve.Causes {
		collectSchemaErrors(errs, cause)
	}
}

// pointerToPath turns "/todos/2/id" into "todos[2].id".
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		if part == "" {
			continue
		}
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
