package endpoint

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/datastax/data-views/config"
	"github.com/datastax/data-views/internal/testutil"
	"github.com/datastax/data-views/internal/testutil/rest"
	e "github.com/datastax/data-views/rest/endpoint/v1"
	"github.com/datastax/data-views/rest/models"
	"github.com/datastax/data-views/source"
	"github.com/datastax/data-views/types"
)

func staticSources(config.SourceConfig) (source.Source, error) {
	return source.NewStaticSource(testutil.Products()), nil
}

func newConfig() *DataEndpointConfig {
	return NewEndpointConfigWithLogger(testutil.TestLogger(), testutil.ProductsConfig()).
		WithSourceFactory(staticSources).
		WithDataUpdateInterval(time.Hour)
}

func allOperations() config.Operations {
	ops, err := config.Ops(config.AllOperations...)
	Expect(err).ToNot(HaveOccurred())
	return ops
}

var _ = Describe("DataEndpointConfig", func() {
	Describe("NewEndpoint()", func() {
		It("Should load every dataset before serving", func() {
			endpoint, err := newConfig().NewEndpoint()
			Expect(err).ToNot(HaveOccurred())
			defer endpoint.Close()

			ds, err := endpoint.Registry().Get(testutil.ProductsDataset)
			Expect(err).ToNot(HaveOccurred())
			Expect(ds.Version()).To(Equal(uint64(1)))
			Expect(endpoint.Store().Len()).To(Equal(0))
		})

		It("Should reject invalid page sizes", func() {
			_, err := newConfig().WithDefaultPageSize(0).NewEndpoint()
			Expect(err).To(HaveOccurred())

			_, err = newConfig().WithDefaultPageSize(50).WithMaxPageSize(20).NewEndpoint()
			Expect(err).To(MatchError(ContainSubstring("lower than the default page size")))
		})

		It("Should reject invalid intervals", func() {
			_, err := newConfig().WithViewExpireInterval(0).NewEndpoint()
			Expect(err).To(MatchError(ContainSubstring("must be positive")))
		})

		It("Should fail when a dataset can't be loaded", func() {
			sourceMock := source.NewSourceMock()
			sourceMock.On("Load").Return(nil, errors.New("connection refused"))
			sourceMock.On("Close").Return(nil)

			_, err := newConfig().
				WithSourceFactory(func(config.SourceConfig) (source.Source, error) { return sourceMock, nil }).
				NewEndpoint()
			Expect(err).To(MatchError(ContainSubstring("connection refused")))
			sourceMock.AssertCalled(GinkgoT(), "Close")
		})

		It("Should fail when a source can't be created", func() {
			cfg := testutil.ProductsConfig()
			cfg.Source = config.SourceConfig{Type: "ftp"}
			_, err := NewEndpointConfigWithLogger(testutil.TestLogger(), cfg).NewEndpoint()
			Expect(err).To(MatchError(ContainSubstring("unsupported source type 'ftp'")))
		})
	})
})

var _ = Describe("DataEndpoint", func() {
	var endpoint *DataEndpoint

	BeforeEach(func() {
		var err error
		endpoint, err = newConfig().NewEndpoint()
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		endpoint.Close()
	})

	Describe("RoutesRest()", func() {
		var routes []types.Route

		BeforeEach(func() {
			routes = endpoint.RoutesRest(rest.Prefix, allOperations())
		})

		Describe("GET /v1/datasets", func() {
			It("Should list the datasets", func() {
				var response []models.DatasetSummary
				code := rest.ExecuteGet(routes, e.DatasetsPathFormat, &response)
				Expect(code).To(Equal(http.StatusOK))
				Expect(response).To(ConsistOf(models.DatasetSummary{Name: "products", Count: 7, Version: 1}))
			})
		})

		Describe("GET /v1/datasets/:dataset", func() {
			It("Should describe the dataset", func() {
				var response models.Dataset
				rest.ExecuteGet(routes, e.DatasetSinglePathFormat, &response, "products")
				Expect(response.Fields).To(Equal([]string{"category", "id", "name", "price"}))
				Expect(response.PageSize).To(Equal(2))
				Expect(response.Source).To(Equal("static"))
			})

			It("Should return not found for unknown datasets", func() {
				var response models.ModelError
				code := rest.ExecuteGet(routes, e.DatasetSinglePathFormat, &response, "orders")
				Expect(code).To(Equal(http.StatusNotFound))
				Expect(response.Description).To(Equal("dataset 'orders' not found"))
			})
		})

		Describe("POST /v1/datasets/:dataset/query", func() {
			It("Should return the requested page", func() {
				var response types.SnapshotResult
				body := `{"search": "plan", "orderBy": {"field": "price", "direction": "desc"}, "page": 2}`
				code := rest.ExecutePost(routes, e.QueryPathFormat, body, &response, "products")
				Expect(code).To(Equal(http.StatusOK))
				Expect(response.TotalMatches).To(Equal(4))
				Expect(response.TotalPages).To(Equal(2))
				Expect(response.CurrentPage).To(Equal(2))
				Expect(testutil.IDs(response.Records)).To(Equal([]int{2, 1}))
			})

			It("Should reject fields that aren't sortable", func() {
				var response models.ModelError
				body := `{"orderBy": {"field": "category"}}`
				code := rest.ExecutePost(routes, e.QueryPathFormat, body, &response, "products")
				Expect(code).To(Equal(http.StatusBadRequest))
				Expect(response.Description).To(Equal("field 'category' is not sortable"))
			})
		})

		Describe("Views", func() {
			It("Should keep the state between requests", func() {
				var view models.View
				code := rest.ExecutePost(routes, e.ViewsPathFormat, `{"pageSize": 1}`, &view, "products")
				Expect(code).To(Equal(http.StatusCreated))
				Expect(view.Snapshot.TotalPages).To(Equal(7))
				Expect(endpoint.Store().Len()).To(Equal(1))

				rest.ExecutePut(routes, e.ViewPagePathFormat, `{"page": 3}`, &view, view.ID)
				Expect(view.Snapshot.CurrentPage).To(Equal(3))

				rest.ExecutePut(routes, e.ViewFilterPathFormat, `{"value": "premium"}`, &view, view.ID, "category")
				Expect(view.Filters).To(HaveKeyWithValue("category", "premium"))
				Expect(view.Snapshot.CurrentPage).To(Equal(1))
				Expect(view.Snapshot.TotalMatches).To(Equal(2))

				recorder := rest.ExecuteGetRaw(routes, e.ViewExportPathFormat, view.ID)
				Expect(recorder.Code).To(Equal(http.StatusOK))
				Expect(recorder.Header().Get("Content-Type")).To(ContainSubstring("text/csv"))
				Expect(recorder.Body.String()).To(HavePrefix("category,id,name,price\n"))
				Expect(recorder.Body.String()).To(ContainSubstring("premium,5,Enterprise,50"))

				var resetView models.View
				rest.ExecutePost(routes, e.ViewResetPathFormat, "", &resetView, view.ID)
				Expect(resetView.Filters).To(BeEmpty())
				Expect(resetView.Snapshot.TotalMatches).To(Equal(7))

				code = rest.ExecuteDelete(routes, e.ViewSinglePathFormat, view.ID)
				Expect(code).To(Equal(http.StatusNoContent))

				var response models.ModelError
				code = rest.ExecuteGet(routes, e.ViewSinglePathFormat, &response, view.ID)
				Expect(code).To(Equal(http.StatusNotFound))
			})
		})
	})

	Describe("RoutesGraphQL()", func() {
		It("Should query the datasets", func() {
			routes, err := endpoint.RoutesGraphQL("/graphql", allOperations())
			Expect(err).ToNot(HaveOccurred())
			Expect(routes).To(HaveLen(2))

			body := `{"query": "{ products(filters: [{field: \"category\", value: \"basic\"}]) { totalMatches } }"}`
			request := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
			recorder := httptest.NewRecorder()
			routes[1].Handler.ServeHTTP(recorder, request)
			Expect(recorder.Code).To(Equal(http.StatusOK))

			var response struct {
				Data struct {
					Products struct {
						TotalMatches int `json:"totalMatches"`
					} `json:"products"`
				} `json:"data"`
			}
			Expect(json.Unmarshal(recorder.Body.Bytes(), &response)).To(Succeed())
			Expect(response.Data.Products.TotalMatches).To(Equal(3))
		})
	})
})

var _ = Describe("File datasets", func() {
	var (
		file     *os.File
		endpoint *DataEndpoint
	)

	BeforeEach(func() {
		var err error
		file, err = os.CreateTemp("", "records-*.json")
		Expect(err).ToNot(HaveOccurred())
		_, err = file.WriteString(`[{"id": 1, "name": "Laptop"}, {"id": 2, "name": "Desk"}]`)
		Expect(err).ToNot(HaveOccurred())
		Expect(file.Close()).To(Succeed())

		cfg := config.DatasetConfig{
			Name:   "inventory",
			Source: config.SourceConfig{Type: config.SourceFile, Path: file.Name()},
		}
		endpoint, err = NewEndpointConfigWithLogger(testutil.TestLogger(), cfg).
			WithDataUpdateInterval(time.Hour).
			NewEndpoint()
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		endpoint.Close()
		Expect(os.Remove(file.Name())).To(Succeed())
	})

	It("Should publish new records and sync the views on reload", func() {
		routes := endpoint.RoutesRest(rest.Prefix, allOperations())

		var view models.View
		rest.ExecutePost(routes, e.ViewsPathFormat, "", &view, "inventory")
		Expect(view.Snapshot.TotalMatches).To(Equal(2))

		Expect(os.WriteFile(file.Name(), []byte(`[{"id": 3, "name": "Chair"}]`), 0644)).To(Succeed())
		Expect(endpoint.Registry().ReloadAll(context.Background())).To(Succeed())

		rest.ExecuteGet(routes, e.ViewSinglePathFormat, &view, view.ID)
		Expect(view.Snapshot.TotalMatches).To(Equal(1))
		Expect(testutil.IDs(view.Snapshot.Records)).To(Equal([]int{3}))

		var datasets []models.DatasetSummary
		rest.ExecuteGet(routes, e.DatasetsPathFormat, &datasets)
		Expect(datasets).To(ConsistOf(models.DatasetSummary{Name: "inventory", Count: 1, Version: 2}))
	})
})
