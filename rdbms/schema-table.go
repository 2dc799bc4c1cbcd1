package rdbms

// SchemaTable names a warehouse table within a schema.
type SchemaTable struct {
	Schema string
	Table  string `errorTxt:"table" mandatory:"yes"`
}

func NewSchemaTable(schema string, table string) SchemaTable {
	return SchemaTable{Schema: schema, Table: table}
}

func (st SchemaTable) GetSchema() string {
	return st.Schema
}

func (st SchemaTable) GetTable() string {
	return st.Table
}

func (st SchemaTable) String() string {
	if st.Schema == "" {
		return st.Table
	}
	return st.Schema + "." + st.Table
}
