package domain

// TableDescriptor identifies the fully qualified destination of generated statements.
// TableName is unique within a catalog of descriptors.
type TableDescriptor struct {
	TableName   string `json:"table_name" yaml:"table_name"`
	CatalogName string `json:"catalog_name" yaml:"catalog_name"`
	SchemaName  string `json:"schema_name" yaml:"schema_name"`
}

// ColumnDescriptor describes one column of a table. DataType is informational
// and never enforced.
type ColumnDescriptor struct {
	TableName   string `json:"table_name" yaml:"table_name"`
	ColumnName  string `json:"column_name" yaml:"column_name"`
	DataType    string `json:"data_type,omitempty" yaml:"data_type,omitempty"`
	IsMandatory bool   `json:"is_mandatory" yaml:"is_mandatory"`
}

// FieldAssignment is a caller-supplied (column, value) pair for one build call.
type FieldAssignment struct {
	Column string `json:"column" yaml:"column"`
	Value  string `json:"value" yaml:"value"`
}
