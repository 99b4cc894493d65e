package schema

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// TableFile is the YAML layout of a column table:
//
//	procedure: {package: fnd_user_pkg, create: CreateUser, update: UpdateUser}
//	sentinels: {char: FND_USER_PKG.null_char, number: ..., date: ..., now: sysdate}
//	columns:
//	  - {name: user_name, body: "x_user_name => {0}", type: string}
type TableFile struct {
	Procedure Procedure    `yaml:"procedure"`
	Sentinels Sentinels    `yaml:"sentinels"`
	Columns   []ColumnFile `yaml:"columns"`
}

// ColumnFile is one column entry. An empty body defaults to "x_<name> => {0}".
type ColumnFile struct {
	Name string    `yaml:"name"`
	Body string    `yaml:"body"`
	Type ValueType `yaml:"type"`
}

// LoadTable decodes a YAML table definition.
func LoadTable(r io.Reader) (*Table, error) {
	var f TableFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("schema: decode table: %w", err)
	}
	if f.Procedure.Package == "" && f.Procedure.Create == "" && f.Procedure.Update == "" {
		f.Procedure = DefaultProcedure()
	}
	cols := make([]ColumnTemplate, len(f.Columns))
	for i, c := range f.Columns {
		body := c.Body
		if body == "" {
			body = "x_" + c.Name + " => " + Placeholder
		}
		cols[i] = ColumnTemplate{Name: c.Name, Body: body, Type: c.Type}
	}
	return NewTable(f.Procedure, f.Sentinels, cols...)
}

// LoadTableFile reads a table definition from path.
func LoadTableFile(path string) (*Table, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("schema: open table: %w", err)
	}
	defer fh.Close()
	return LoadTable(fh)
}
