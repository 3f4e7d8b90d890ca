package endpoint

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datastax/data-views/config"
	"github.com/datastax/data-views/dataset"
	"github.com/datastax/data-views/internal/testutil"
	m "github.com/datastax/data-views/rest/models"
	"github.com/datastax/data-views/session"
	"github.com/datastax/data-views/source"
	"github.com/datastax/data-views/types"
)

type fixture struct {
	router   *httprouter.Router
	registry *dataset.Registry
	store    *session.Store
}

func newFixture(t *testing.T, ops config.Operations) *fixture {
	registry := dataset.NewRegistry(testutil.TestLogger())
	ds, err := dataset.New(testutil.ProductsConfig(), source.NewStaticSource(testutil.Products()), testutil.TestLogger())
	require.NoError(t, err)
	_, err = ds.Reload(context.Background())
	require.NoError(t, err)
	require.NoError(t, registry.Add(ds))

	store := session.NewStore(time.Minute, testutil.TestLogger())
	router := httprouter.New()
	for _, route := range Routes("/rest", ops, config.NewConfigMock().Default(), registry, store) {
		router.Handler(route.Method, route.Pattern, route.Handler)
	}
	return &fixture{router: router, registry: registry, store: store}
}

func (f *fixture) execute(method string, target string, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, request)
	return recorder
}

func (f *fixture) createView(t *testing.T, body string) m.View {
	response := f.execute(http.MethodPost, "/rest/v1/datasets/products/views", body)
	require.Equal(t, http.StatusCreated, response.Code, response.Body.String())
	var view m.View
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &view))
	return view
}

func decodeView(t *testing.T, response *httptest.ResponseRecorder) m.View {
	require.Equal(t, http.StatusOK, response.Code, response.Body.String())
	var view m.View
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &view))
	return view
}

func allOps() config.Operations {
	ops, _ := config.Ops(config.AllOperations...)
	return ops
}

func TestRoutesDependOnOperations(t *testing.T) {
	cfg := config.NewConfigMock().Default()
	registry := dataset.NewRegistry(testutil.TestLogger())
	store := session.NewStore(time.Minute, testutil.TestLogger())

	assert.Len(t, Routes("/", 0, cfg, registry, store), 2)
	assert.Len(t, Routes("/", config.DatasetQuery|config.DatasetFacets, cfg, registry, store), 4)
	assert.Len(t, Routes("/", config.ViewManage, cfg, registry, store), 13)
	assert.Len(t, Routes("/", allOps(), cfg, registry, store), 16)
	assert.Equal(t, "/api/v1/datasets", Routes("/api", 0, cfg, registry, store)[0].Pattern)
}

func TestGetDatasets(t *testing.T) {
	f := newFixture(t, allOps())

	response := f.execute(http.MethodGet, "/rest/v1/datasets", "")
	assert.Equal(t, http.StatusOK, response.Code)
	assert.JSONEq(t, `[{"name":"products","count":7,"version":1}]`, response.Body.String())

	response = f.execute(http.MethodGet, "/rest/v1/datasets/products", "")
	require.Equal(t, http.StatusOK, response.Code)
	var description m.Dataset
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &description))
	assert.Equal(t, []string{"category", "id", "name", "price"}, description.Fields)
	assert.Equal(t, 2, description.PageSize)
	assert.Equal(t, "static", description.Source)

	response = f.execute(http.MethodGet, "/rest/v1/datasets/unknown", "")
	assert.Equal(t, http.StatusNotFound, response.Code)
	assert.JSONEq(t, `{"description":"dataset 'unknown' not found"}`, response.Body.String())
}

func TestGetFacets(t *testing.T) {
	f := newFixture(t, allOps())
	response := f.execute(http.MethodGet, "/rest/v1/datasets/products/facets/category", "")
	assert.Equal(t, http.StatusOK, response.Code)
	assert.JSONEq(t, `{"field":"category","values":["basic","premium","trial"]}`, response.Body.String())
}

func TestQuery(t *testing.T) {
	f := newFixture(t, allOps())

	tests := []struct {
		name string
		body string
		code int
		ids  []int
		want string
	}{
		{
			name: "Search with ordering",
			body: `{"search":"plan","orderBy":{"field":"price","direction":"desc"},"pageSize":3}`,
			code: http.StatusOK,
			ids:  []int{4, 3, 2},
		},
		{
			name: "Lenient range bounds",
			body: `{"ranges":[{"field":"price","min":"-","max":"25"}],"pageSize":10}`,
			code: http.StatusOK,
			ids:  []int{1, 2, 3, 7},
		},
		{
			name: "No matches",
			body: `{"filters":[{"field":"category","value":"gold"}]}`,
			code: http.StatusOK,
			ids:  []int{},
		},
		{
			name: "Invalid direction",
			body: `{"orderBy":{"field":"price","direction":"up"}}`,
			code: http.StatusBadRequest,
			want: `{"description":"Direction must be asc or desc"}`,
		},
		{
			name: "Missing filter field",
			body: `{"filters":[{"value":"basic"}]}`,
			code: http.StatusBadRequest,
			want: `{"description":"Field is a required field"}`,
		},
		{
			name: "Not sortable",
			body: `{"orderBy":{"field":"category"}}`,
			code: http.StatusBadRequest,
			want: `{"description":"field 'category' is not sortable"}`,
		},
		{
			name: "Malformed payload",
			body: `{"search":`,
			code: http.StatusBadRequest,
			want: `{"description":"unable to parse payload"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := f.execute(http.MethodPost, "/rest/v1/datasets/products/query", tt.body)
			assert.Equal(t, tt.code, response.Code, response.Body.String())
			if tt.want != "" {
				assert.JSONEq(t, tt.want, response.Body.String())
				return
			}
			var result types.SnapshotResult
			require.NoError(t, json.Unmarshal(response.Body.Bytes(), &result))
			assert.Equal(t, tt.ids, testutil.IDs(result.Records))
			assert.Equal(t, len(tt.ids) == 0, result.Empty)
		})
	}
}

func TestViewLifecycle(t *testing.T) {
	f := newFixture(t, allOps())

	view := f.createView(t, "")
	assert.NotEmpty(t, view.ID)
	assert.Equal(t, "products", view.Dataset)
	assert.Equal(t, 2, view.PageSize)
	assert.Equal(t, 4, view.Snapshot.TotalPages)
	viewPath := "/rest/v1/views/" + view.ID

	view = decodeView(t, f.execute(http.MethodPut, viewPath+"/page", `{"page":3}`))
	assert.Equal(t, 3, view.Snapshot.CurrentPage)

	// Sorting keeps the page
	view = decodeView(t, f.execute(http.MethodPut, viewPath+"/sort", `{"field":"price","direction":"desc"}`))
	assert.Equal(t, 3, view.Snapshot.CurrentPage)
	assert.Equal(t, &m.OrderBy{Field: "price", Direction: "desc"}, view.OrderBy)

	// Filtering goes back to the first page
	view = decodeView(t, f.execute(http.MethodPut, viewPath+"/filters/category", `{"value":"basic"}`))
	assert.Equal(t, 1, view.Snapshot.CurrentPage)
	assert.Equal(t, 3, view.Snapshot.TotalMatches)
	assert.Equal(t, []int{6, 3}, testutil.IDs(view.Snapshot.Records))
	assert.Equal(t, map[string]string{"category": "basic"}, view.Filters)

	view = decodeView(t, f.execute(http.MethodPut, viewPath+"/ranges/price", `{"min":20,"max":"abc"}`))
	assert.Equal(t, 2, view.Snapshot.TotalMatches)
	require.Contains(t, view.Ranges, "price")
	assert.Equal(t, 20.0, *view.Ranges["price"].Min)
	assert.Nil(t, view.Ranges["price"].Max)

	view = decodeView(t, f.execute(http.MethodDelete, viewPath+"/ranges/price", ""))
	assert.Equal(t, 3, view.Snapshot.TotalMatches)

	view = decodeView(t, f.execute(http.MethodPut, viewPath+"/search", `{"term":"annual"}`))
	assert.Equal(t, []int{6}, testutil.IDs(view.Snapshot.Records))

	view = decodeView(t, f.execute(http.MethodDelete, viewPath+"/sort", ""))
	assert.Nil(t, view.OrderBy)

	view = decodeView(t, f.execute(http.MethodPost, viewPath+"/reset", ""))
	assert.Equal(t, 7, view.Snapshot.TotalMatches)
	assert.Empty(t, view.Filters)
	assert.Equal(t, "", view.Search)

	view = decodeView(t, f.execute(http.MethodGet, viewPath, ""))
	assert.Equal(t, 7, view.Snapshot.TotalMatches)

	response := f.execute(http.MethodDelete, viewPath, "")
	assert.Equal(t, http.StatusNoContent, response.Code)

	response = f.execute(http.MethodGet, viewPath, "")
	assert.Equal(t, http.StatusNotFound, response.Code)
}

func TestCreateViewWithQuery(t *testing.T) {
	f := newFixture(t, allOps())

	view := f.createView(t, `{"filters":[{"field":"category","value":"premium"}],"orderBy":{"field":"id","direction":"desc"},"pageSize":1,"page":2}`)
	assert.Equal(t, 1, view.PageSize)
	assert.Equal(t, 2, view.Snapshot.CurrentPage)
	assert.Equal(t, []int{4}, testutil.IDs(view.Snapshot.Records))

	response := f.execute(http.MethodPost, "/rest/v1/datasets/products/views", `{"pageSize":1000}`)
	assert.Equal(t, http.StatusBadRequest, response.Code)
	assert.JSONEq(t, `{"description":"page size must be at most 100"}`, response.Body.String())
	assert.Equal(t, 1, f.store.Len())
}

func TestViewErrors(t *testing.T) {
	f := newFixture(t, allOps())
	view := f.createView(t, "")
	viewPath := "/rest/v1/views/" + view.ID

	response := f.execute(http.MethodPut, viewPath+"/sort", `{"field":"category"}`)
	assert.Equal(t, http.StatusBadRequest, response.Code)

	response = f.execute(http.MethodPut, viewPath+"/sort", `{}`)
	assert.Equal(t, http.StatusBadRequest, response.Code)

	response = f.execute(http.MethodPut, viewPath+"/page", `{"page":-1}`)
	assert.Equal(t, http.StatusBadRequest, response.Code)

	response = f.execute(http.MethodPut, "/rest/v1/views/missing/search", `{"term":"x"}`)
	assert.Equal(t, http.StatusNotFound, response.Code)
	assert.JSONEq(t, `{"description":"view 'missing' not found"}`, response.Body.String())

	response = f.execute(http.MethodPost, "/rest/v1/datasets/unknown/views", "")
	assert.Equal(t, http.StatusNotFound, response.Code)
}

func TestViewSeesReloadedRecords(t *testing.T) {
	f := newFixture(t, allOps())
	view := f.createView(t, "")
	viewPath := "/rest/v1/views/" + view.ID

	view = decodeView(t, f.execute(http.MethodPut, viewPath+"/page", `{"page":2}`))
	assert.Equal(t, 2, view.Snapshot.CurrentPage)

	ds, err := f.registry.Get(testutil.ProductsDataset)
	require.NoError(t, err)
	ds.SetRecords(testutil.Products()[:3])

	view = decodeView(t, f.execute(http.MethodGet, viewPath, ""))
	assert.Equal(t, 1, view.Snapshot.CurrentPage)
	assert.Equal(t, 3, view.Snapshot.TotalMatches)
}

func TestExportView(t *testing.T) {
	f := newFixture(t, allOps())
	view := f.createView(t, `{"filters":[{"field":"category","value":"trial"}]}`)

	response := f.execute(http.MethodGet, "/rest/v1/views/"+view.ID+"/export", "")
	assert.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "text/csv; charset=UTF-8", response.Header().Get("Content-Type"))
	assert.Equal(t, "category,id,name,price\ntrial,1,Trial Plan,0\ntrial,7,Student,\n", response.Body.String())
}

func TestOperationNotExposed(t *testing.T) {
	f := newFixture(t, config.DatasetQuery)
	response := f.execute(http.MethodPost, "/rest/v1/datasets/products/views", "")
	assert.Equal(t, http.StatusNotFound, response.Code)
}
