package graphql

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/gridkit/olympic-data-apis/config"
	"github.com/gridkit/olympic-data-apis/db"
	"github.com/gridkit/olympic-data-apis/log"
	"github.com/gridkit/olympic-data-apis/metrics"
	"github.com/gridkit/olympic-data-apis/types"
)

type executeQueryFunc func(body RequestBody, ctx context.Context) *graphql.Result

type RouteGenerator struct {
	logger    log.Logger
	schemaGen *SchemaGenerator
}

type RequestBody struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

func NewRouteGenerator(store db.Store, cfg config.Config, m *metrics.Metrics) *RouteGenerator {
	return &RouteGenerator{
		logger:    cfg.Logger(),
		schemaGen: NewSchemaGenerator(store, cfg, m),
	}
}

func (rg *RouteGenerator) Routes(pattern string, ops config.EditOperations) ([]types.Route, error) {
	schema, err := rg.schemaGen.BuildSchema(ops)
	if err != nil {
		return nil, err
	}

	return routesForSchema(pattern, func(body RequestBody, ctx context.Context) *graphql.Result {
		return rg.executeQuery(body, ctx, schema)
	}), nil
}

func routesForSchema(pattern string, execute executeQueryFunc) []types.Route {
	return []types.Route{
		{
			Method:  http.MethodGet,
			Pattern: pattern,
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body := RequestBody{
					Query:         r.URL.Query().Get("query"),
					OperationName: r.URL.Query().Get("operationName"),
				}

				if variables := r.URL.Query().Get("variables"); variables != "" {
					if err := json.Unmarshal([]byte(variables), &body.Variables); err != nil {
						http.Error(w, "Variables are invalid", http.StatusBadRequest)
						return
					}
				}

				writeResult(w, execute(body, r.Context()))
			}),
		},
		{
			Method:  http.MethodPost,
			Pattern: pattern,
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Body == nil {
					http.Error(w, "No request body", http.StatusBadRequest)
					return
				}

				var body RequestBody
				err := json.NewDecoder(r.Body).Decode(&body)
				if err != nil {
					http.Error(w, "Request body is invalid", http.StatusBadRequest)
					return
				}

				writeResult(w, execute(body, r.Context()))
			}),
		},
	}
}

func writeResult(w http.ResponseWriter, result *graphql.Result) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(result)
	if err != nil {
		http.Error(w, "response could not be encoded: "+err.Error(), http.StatusInternalServerError)
	}
}

func (rg *RouteGenerator) executeQuery(body RequestBody, ctx context.Context, schema graphql.Schema) *graphql.Result {
	result := graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  body.Query,
		OperationName:  body.OperationName,
		VariableValues: body.Variables,
		Context:        ctx,
	})
	if len(result.Errors) > 0 {
		rg.logger.Error("unexpected errors processing graphql query", "errors", result.Errors)
	}
	return result
}
