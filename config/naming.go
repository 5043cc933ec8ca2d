package config

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// NamingConventionFn creates the naming convention used by a component.
type NamingConventionFn func() NamingConvention

// NamingConvention maps the field names exposed to clients to the column names used by the
// backing store. Fields with a leading underscore are assigned by the store.
type NamingConvention interface {
	ToStoreColumn(field string) string
	ToField(column string) string
	ToGraphQLType(name string) string
}

var systemColumns = map[string]bool{
	"id":            true,
	"creation_time": true,
}

type defaultNaming struct {
}

func NewDefaultNaming() NamingConvention {
	return &defaultNaming{}
}

func (n *defaultNaming) ToStoreColumn(field string) string {
	return strcase.ToSnake(strings.TrimPrefix(field, "_"))
}

func (n *defaultNaming) ToField(column string) string {
	field := strcase.ToLowerCamel(column)
	if systemColumns[column] {
		return "_" + field
	}
	return field
}

func (n *defaultNaming) ToGraphQLType(name string) string {
	return strcase.ToCamel(name)
}
