package warehouse

import "fmt"

const queryErrorPrefix = "Error querying Databricks Warehouse: "

// CreateCatalogStatement builds the DDL for create_catalog. The name is
// interpolated verbatim.
func CreateCatalogStatement(catalogName string) string {
	return "CREATE CATALOG IF NOT EXISTS " + catalogName
}

// CreateSchemaStatement builds the DDL for create_schema. Both names are
// interpolated verbatim.
func CreateSchemaStatement(catalogName, schemaName string) string {
	return fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s.%s", catalogName, schemaName)
}

// QueryError renders a warehouse failure as the text returned to callers.
func QueryError(err error) string {
	return queryErrorPrefix + err.Error()
}
