package graphql

import (
	"github.com/graphql-go/graphql"
	"github.com/gridkit/olympic-data-apis/metrics"
	"github.com/gridkit/olympic-data-apis/types"
	"github.com/mitchellh/mapstructure"
)

func (sg *SchemaGenerator) listResolver() graphql.FieldResolveFn {
	return func(params graphql.ResolveParams) (interface{}, error) {
		rows, err := sg.store.ListAll(params.Context)
		if err != nil {
			return nil, err
		}

		result := make([]map[string]interface{}, 0, len(rows))
		for _, row := range rows {
			result = append(result, sg.rowToMap(row))
		}
		return result, nil
	}
}

func (sg *SchemaGenerator) createResolver() graphql.FieldResolveFn {
	return func(params graphql.ResolveParams) (interface{}, error) {
		var fields types.RowFields
		if err := mapstructure.Decode(params.Args, &fields); err != nil {
			return nil, err
		}

		id, err := sg.store.InsertOne(params.Context, fields)
		sg.metrics.RecordEdit(metrics.EditInsert, err == nil)
		if err != nil {
			return nil, err
		}
		return id, nil
	}
}

func (sg *SchemaGenerator) bulkInsertResolver() graphql.FieldResolveFn {
	return func(params graphql.ResolveParams) (interface{}, error) {
		var items []types.RowFields
		if err := mapstructure.Decode(params.Args[itemsArg], &items); err != nil {
			return nil, err
		}

		err := sg.store.InsertMany(params.Context, items)
		sg.metrics.RecordEdit(metrics.EditInsert, err == nil)
		if err != nil {
			return nil, err
		}
		return true, nil
	}
}

func (sg *SchemaGenerator) updateResolver() graphql.FieldResolveFn {
	return func(params graphql.ResolveParams) (interface{}, error) {
		id, _ := params.Args[idArg].(string)

		values := make(map[string]interface{}, len(params.Args))
		for key, value := range params.Args {
			if key != idArg {
				values[key] = value
			}
		}

		var patch types.RowPatch
		if err := mapstructure.Decode(values, &patch); err != nil {
			return nil, err
		}

		err := sg.store.Patch(params.Context, id, patch)
		sg.metrics.RecordEdit(metrics.EditPatch, err == nil)
		if err != nil {
			return nil, err
		}
		return true, nil
	}
}

func (sg *SchemaGenerator) rowToMap(row types.Row) map[string]interface{} {
	result := map[string]interface{}{
		sg.naming.ToField("id"):            row.ID,
		sg.naming.ToField("creation_time"): float64(row.CreationTime),
		types.FieldAthlete:                 row.Athlete,
		types.FieldAge:                     row.Age,
		types.FieldCountry:                 row.Country,
		types.FieldSport:                   row.Sport,
	}

	for field, value := range map[string]*int{
		types.FieldYear:   row.Year,
		types.FieldGold:   row.Gold,
		types.FieldSilver: row.Silver,
		types.FieldBronze: row.Bronze,
		types.FieldTotal:  row.Total,
	} {
		if value != nil {
			result[field] = *value
		} else {
			result[field] = nil
		}
	}

	if row.Date != nil {
		result[types.FieldDate] = *row.Date
	} else {
		result[types.FieldDate] = nil
	}

	return result
}
