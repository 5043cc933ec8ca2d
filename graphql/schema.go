package graphql

import (
	"fmt"

	"github.com/graphql-go/graphql"
	"github.com/gridkit/olympic-data-apis/config"
	"github.com/gridkit/olympic-data-apis/db"
	"github.com/gridkit/olympic-data-apis/log"
	"github.com/gridkit/olympic-data-apis/metrics"
	"github.com/gridkit/olympic-data-apis/types"
)

const (
	createPrefix     = "create"
	bulkInsertPrefix = "bulkInsert"
	updatePrefix     = "update"
	itemsArg         = "items"
	idArg            = "id"
)

type SchemaGenerator struct {
	store   db.Store
	naming  config.NamingConvention
	logger  log.Logger
	metrics *metrics.Metrics
}

func NewSchemaGenerator(store db.Store, cfg config.Config, m *metrics.Metrics) *SchemaGenerator {
	return &SchemaGenerator{
		store:   store,
		naming:  cfg.Naming()(),
		logger:  cfg.Logger(),
		metrics: m,
	}
}

// BuildSchema builds the schema of the collection, only the mutations of the supported
// operations are included
func (sg *SchemaGenerator) BuildSchema(ops config.EditOperations) (graphql.Schema, error) {
	// OlympicWinners -> OlympicWinner
	collectionType := sg.naming.ToGraphQLType(db.TableName)
	typeName := collectionType[:len(collectionType)-1]

	rowType := graphql.NewObject(graphql.ObjectConfig{
		Name:   typeName,
		Fields: sg.buildRowFields(),
	})

	schemaConfig := graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name: "Query",
			Fields: graphql.Fields{
				db.CollectionName: &graphql.Field{
					Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(rowType))),
					Resolve: sg.listResolver(),
				},
			},
		}),
	}

	mutations := sg.buildMutationFields(typeName, collectionType, ops)
	if len(mutations) > 0 {
		schemaConfig.Mutation = graphql.NewObject(graphql.ObjectConfig{
			Name:   "Mutation",
			Fields: mutations,
		})
	}

	schema, err := graphql.NewSchema(schemaConfig)
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("unable to build graphql schema: %s", err)
	}
	return schema, nil
}

func (sg *SchemaGenerator) buildRowFields() graphql.Fields {
	fields := graphql.Fields{
		sg.naming.ToField("id"):            &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		sg.naming.ToField("creation_time"): &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
	}

	for _, field := range types.MutableFields {
		fieldType := fieldOutputType(field)
		if types.IsRequiredField(field) {
			fieldType = graphql.NewNonNull(fieldType)
		}
		fields[field] = &graphql.Field{Type: fieldType}
	}
	return fields
}

func (sg *SchemaGenerator) buildMutationFields(
	typeName string,
	collectionType string,
	ops config.EditOperations,
) graphql.Fields {
	fields := graphql.Fields{}

	if ops.IsSupported(config.RowInsert) {
		fields[createPrefix+typeName] = &graphql.Field{
			Type:    graphql.NewNonNull(graphql.ID),
			Args:    buildInsertArgs(),
			Resolve: sg.createResolver(),
		}

		inputFields := graphql.InputObjectConfigFieldMap{}
		for name, arg := range buildInsertArgs() {
			inputFields[name] = &graphql.InputObjectFieldConfig{Type: arg.Type}
		}
		fields[bulkInsertPrefix+collectionType] = &graphql.Field{
			Type: graphql.Boolean,
			Args: graphql.FieldConfigArgument{
				itemsArg: &graphql.ArgumentConfig{
					Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.NewInputObject(
						graphql.InputObjectConfig{
							Name:   typeName + "Input",
							Fields: inputFields,
						})))),
				},
			},
			Resolve: sg.bulkInsertResolver(),
		}
	}

	if ops.IsSupported(config.RowUpdate) {
		args := graphql.FieldConfigArgument{
			idArg: &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
		}
		for _, field := range types.MutableFields {
			args[field] = &graphql.ArgumentConfig{Type: fieldInputType(field)}
		}

		fields[updatePrefix+typeName] = &graphql.Field{
			Type:    graphql.Boolean,
			Args:    args,
			Resolve: sg.updateResolver(),
		}
	}

	return fields
}

func buildInsertArgs() graphql.FieldConfigArgument {
	args := graphql.FieldConfigArgument{}
	for _, field := range types.MutableFields {
		var argType graphql.Input = fieldInputType(field)
		if types.IsRequiredField(field) {
			argType = graphql.NewNonNull(argType)
		}
		args[field] = &graphql.ArgumentConfig{Type: argType}
	}
	return args
}

func fieldOutputType(field string) graphql.Output {
	return fieldInputType(field)
}

func fieldInputType(field string) *graphql.Scalar {
	switch {
	case field == types.FieldAge:
		return graphql.Float
	case types.IsNumericField(field):
		return graphql.Int
	default:
		return graphql.String
	}
}
