//go:build integration
// +build integration

package endpoint

import (
	"fmt"
	"net/http"
	"testing"

	. "github.com/gridkit/olympic-data-apis/internal/testutil"
	"github.com/gridkit/olympic-data-apis/internal/testutil/rest"
	"github.com/gridkit/olympic-data-apis/internal/testutil/schemas"
	"github.com/gridkit/olympic-data-apis/internal/testutil/schemas/olympic"
	e "github.com/gridkit/olympic-data-apis/rest/endpoint/v1"
	"github.com/gridkit/olympic-data-apis/rest/models"
	"github.com/gridkit/olympic-data-apis/types"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("DataEndpoint", func() {
	EnsureCcmCluster(func() {
		CreateSchema("olympic")
	})

	storeURL := fmt.Sprintf("cassandra://%s/olympic", Host)
	var endpoint *DataEndpoint

	BeforeEach(func() {
		var err error
		endpoint, err = NewEndpointConfigWithLogger(TestLogger(), storeURL).
			WithServerDelay(0).
			WithSeedFile(schemas.SeedFilePath("olympic")).
			NewEndpoint()
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		Expect(endpoint.Close()).To(Succeed())
	})

	Describe("RoutesRest()", func() {
		It("Should serve windows of the stored rows", func() {
			routes := endpoint.RoutesRest(rest.Prefix)

			var session models.Session
			Expect(rest.ExecutePost(routes, e.SessionsPathFormat, "", &session)).To(Equal(http.StatusCreated))
			Expect(session.RowCount).To(BeNumerically(">=", 4))

			var window models.Rows
			code := rest.ExecutePost(routes, e.SessionRowsPathFormat, `{"startRow":0,"endRow":2}`, &window,
				session.SessionID)
			Expect(code).To(Equal(http.StatusOK))
			Expect(window.RowData).To(HaveLen(2))
			Expect(window.RowCount).To(Equal(session.RowCount))
		})

		It("Should increment the counters of the selection", func() {
			routes := endpoint.RoutesRest(rest.Prefix)

			var session models.Session
			rest.ExecutePost(routes, e.SessionsPathFormat, "", &session)

			var window models.Rows
			rest.ExecutePost(routes, e.SessionRowsPathFormat, `{"startRow":0,"endRow":2}`, &window, session.SessionID)
			first, second := window.RowData[0], window.RowData[1]

			var result models.EditResult
			body := fmt.Sprintf(`{"rowIds":["%s","%s"],"field":"bronze","delta":2}`, first.ID, second.ID)
			code := rest.ExecutePost(routes, e.SessionIncrementPathFormat, body, &result, session.SessionID)
			Expect(code).To(Equal(http.StatusOK))
			Expect(result.Rows).To(HaveLen(2))

			var stored []types.Row
			rest.ExecuteGet(routes, e.WinnersPathFormat, &stored)
			bronze := map[string]int{}
			for _, row := range stored {
				bronze[row.ID] = row.Counter(types.FieldBronze)
			}
			Expect(bronze[first.ID]).To(Equal(first.Counter(types.FieldBronze) + 2))
			Expect(bronze[second.ID]).To(Equal(second.Counter(types.FieldBronze) + 2))
		})
	})

	Describe("RoutesGraphQL()", func() {
		It("Should create and list winners", func() {
			routes, err := endpoint.RoutesGraphQL("/graphql")
			Expect(err).ToNot(HaveOccurred())

			id := schemas.DecodeData(schemas.ExecutePost(routes, "/graphql",
				olympic.CreateMutation("Ian Thorpe", "Australia", "Swimming")), "createOlympicWinner")

			winners := schemas.DecodeDataAsSliceOfMaps(schemas.ExecutePost(routes, "/graphql", olympic.SelectAllQuery),
				"olympicWinners")
			ids := make([]interface{}, 0, len(winners))
			for _, winner := range winners {
				ids = append(ids, winner["_id"])
			}
			Expect(ids).To(ContainElement(id))
		})
	})
})

func TestEndpointIntegration(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Endpoint integration test suite")
}
