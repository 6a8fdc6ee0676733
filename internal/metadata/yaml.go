package metadata

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"sqlgen/internal/domain"
)

// document is the on-disk YAML shape.
type document struct {
	Tables  []domain.TableDescriptor  `yaml:"tables"`
	Columns []domain.ColumnDescriptor `yaml:"columns"`
}

// Decode reads a YAML metadata document. Unknown keys are rejected.
func Decode(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.ErrValidation("metadata document is empty")
		}
		return nil, domain.ErrValidation("decode metadata: %v", err)
	}
	return NewCatalog(doc.Tables, doc.Columns)
}

// Encode writes c as a YAML metadata document.
func Encode(w io.Writer, c *Catalog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document{Tables: c.Tables(), Columns: c.AllColumns()}); err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	return enc.Close()
}

// Template returns a starter catalog with one table per name, each with a
// mandatory id column, ready to be edited by hand.
func Template(catalogName, schemaName string, tables ...string) (*Catalog, error) {
	if catalogName == "" {
		catalogName = "my_catalog"
	}
	if schemaName == "" {
		schemaName = "my_schema"
	}
	var tds []domain.TableDescriptor
	var cds []domain.ColumnDescriptor
	for _, name := range tables {
		tds = append(tds, domain.TableDescriptor{TableName: name, CatalogName: catalogName, SchemaName: schemaName})
		cds = append(cds,
			domain.ColumnDescriptor{TableName: name, ColumnName: "id", DataType: "INTEGER", IsMandatory: true},
			domain.ColumnDescriptor{TableName: name, ColumnName: "name", DataType: "VARCHAR"},
		)
	}
	return NewCatalog(tds, cds)
}
