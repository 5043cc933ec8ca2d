package db

import (
	"fmt"
	"strings"

	"github.com/gridkit/olympic-data-apis/config"
	"github.com/gridkit/olympic-data-apis/types"
)

// TableName is the Cassandra table backing the collection
const TableName = "olympic_winners"

const (
	columnID           = "id"
	columnCreationTime = "creation_time"
	columnApplied      = "[applied]"
)

func selectAllQuery(keyspace string) string {
	return fmt.Sprintf(`SELECT * FROM "%s"."%s"`, keyspace, TableName)
}

func insertQuery(keyspace string, columns []string) string {
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = "?"
	}

	return fmt.Sprintf(`INSERT INTO "%s"."%s" (%s) VALUES (%s)`,
		keyspace, TableName, quotedList(columns), strings.Join(placeholders, ", "))
}

func updateQuery(keyspace string, columns []string) string {
	var setClause strings.Builder
	for i, column := range columns {
		if i > 0 {
			setClause.WriteString(", ")
		}
		setClause.WriteString(fmt.Sprintf(`"%s" = ?`, column))
	}

	return fmt.Sprintf(`UPDATE "%s"."%s" SET %s WHERE "%s" = ? IF EXISTS`,
		keyspace, TableName, setClause.String(), columnID)
}

func createTableQuery(keyspace string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s"."%s" (`+
		`"id" timeuuid PRIMARY KEY, "creation_time" timestamp, "athlete" text, "age" double, `+
		`"country" text, "year" int, "date" text, "sport" text, `+
		`"gold" int, "silver" int, "bronze" int, "total" int)`, keyspace, TableName)
}

func quotedList(columns []string) string {
	quoted := make([]string, len(columns))
	for i, column := range columns {
		quoted[i] = fmt.Sprintf(`"%s"`, column)
	}
	return strings.Join(quoted, ", ")
}

// insertColumns returns the columns and values of the supplied fields, skipping unset optional ones
func insertColumns(naming config.NamingConvention, fields types.RowFields) ([]string, []interface{}) {
	patch := types.RowPatch{
		Athlete: &fields.Athlete,
		Age:     &fields.Age,
		Country: &fields.Country,
		Year:    fields.Year,
		Date:    fields.Date,
		Sport:   &fields.Sport,
		Gold:    fields.Gold,
		Silver:  fields.Silver,
		Bronze:  fields.Bronze,
		Total:   fields.Total,
	}
	return patchColumns(naming, patch)
}

func patchColumns(naming config.NamingConvention, patch types.RowPatch) ([]string, []interface{}) {
	fields := patch.Fields()
	columns := make([]string, 0, len(fields))
	values := make([]interface{}, 0, len(fields))
	for _, field := range fields {
		value, _ := patch.Value(field)
		columns = append(columns, naming.ToStoreColumn(field))
		values = append(values, value)
	}
	return columns, values
}
