package schemas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"runtime"

	"github.com/gridkit/olympic-data-apis/graphql"
	"github.com/gridkit/olympic-data-apis/internal/testutil"
	"github.com/gridkit/olympic-data-apis/types"
	. "github.com/onsi/gomega"
)

type ResponseBody struct {
	Data   map[string]interface{} `json:"data"`
	Errors []ErrorEntry           `json:"errors"`
}

type ErrorEntry struct {
	Message   string   `json:"message"`
	Path      []string `json:"path"`
	Locations []struct {
		Line   int `json:"line"`
		Column int `json:"column"`
	} `json:"locations"`
}

const postIndex = 1

// SeedFilePath is the path of the seed file of the given schema
func SeedFilePath(name string) string {
	_, currentFile, _, _ := runtime.Caller(0)
	return path.Join(path.Dir(currentFile), name, "seed.yaml")
}

func DecodeResponse(buffer *bytes.Buffer) ResponseBody {
	var response ResponseBody
	err := json.NewDecoder(buffer).Decode(&response)
	Expect(err).ToNot(HaveOccurred())
	return response
}

func DecodeData(buffer *bytes.Buffer, key string) interface{} {
	response := DecodeResponse(buffer)
	Expect(response.Errors).To(HaveLen(0))
	value, found := response.Data[key]
	if !found {
		panic(fmt.Sprintf("%s key not in response: %v", key, response))
	}
	return value
}

func DecodeDataAsSliceOfMaps(buffer *bytes.Buffer, key string) []map[string]interface{} {
	arr := DecodeData(buffer, key).([]interface{})
	result := make([]map[string]interface{}, 0, len(arr))
	for _, item := range arr {
		result = append(result, item.(map[string]interface{}))
	}
	return result
}

func ExecutePost(routes []types.Route, target string, body string) *bytes.Buffer {
	return ExecutePostWithVariables(routes, target, body, nil)
}

func ExecutePostWithVariables(routes []types.Route, target string, body string, variables map[string]interface{}) *bytes.Buffer {
	b, err := json.Marshal(graphql.RequestBody{Query: body, Variables: variables})
	Expect(err).ToNot(HaveOccurred())
	targetUrl := fmt.Sprintf("http://%s", path.Join(testutil.Host, target))
	r := httptest.NewRequest(http.MethodPost, targetUrl, bytes.NewReader(b))
	w := httptest.NewRecorder()
	routes[postIndex].Handler.ServeHTTP(w, r)
	Expect(w.Code).To(Equal(http.StatusOK))
	return w.Body
}

func ExpectQueryToReturnError(routes []types.Route, query string, expectedMessage string) {
	response := DecodeResponse(ExecutePost(routes, "/graphql", query))
	// GraphQL spec defines the error as a field and HTTP status code should still be 200
	// http://spec.graphql.org/June2018/#sec-Errors
	ExpectError(response, expectedMessage)
}

func ExpectError(response ResponseBody, expectedMessage string) {
	Expect(response.Errors).To(HaveLen(1))
	Expect(response.Errors[0].Message).To(ContainSubstring(expectedMessage))
}
