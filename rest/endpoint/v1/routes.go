package endpoint

import (
	"fmt"
	"net/http"
	"path"

	"github.com/julienschmidt/httprouter"

	"github.com/datastax/data-views/config"
	"github.com/datastax/data-views/dataset"
	"github.com/datastax/data-views/log"
	"github.com/datastax/data-views/session"
	"github.com/datastax/data-views/types"
)

// Path formats of the routes relative to the prefix, parameters are replaced in order
const (
	DatasetsPathFormat      = "/v1/datasets"
	DatasetSinglePathFormat = "/v1/datasets/%s"
	FacetsPathFormat        = "/v1/datasets/%s/facets/%s"
	QueryPathFormat         = "/v1/datasets/%s/query"
	ViewsPathFormat         = "/v1/datasets/%s/views"
	ViewSinglePathFormat    = "/v1/views/%s"
	ViewSearchPathFormat    = "/v1/views/%s/search"
	ViewFilterPathFormat    = "/v1/views/%s/filters/%s"
	ViewRangePathFormat     = "/v1/views/%s/ranges/%s"
	ViewSortPathFormat      = "/v1/views/%s/sort"
	ViewPagePathFormat      = "/v1/views/%s/page"
	ViewResetPathFormat     = "/v1/views/%s/reset"
	ViewExportPathFormat    = "/v1/views/%s/export"
)

type routeList struct {
	registry        *dataset.Registry
	store           *session.Store
	defaultPageSize int
	maxPageSize     int
	logger          log.Logger
	params          func(*http.Request, string) string
}

// Routes returns the REST routes under the prefix. Listing and describing datasets is always
// exposed, the remaining routes depend on the supported operations.
func Routes(
	prefix string,
	operations config.Operations,
	cfg config.Config,
	registry *dataset.Registry,
	store *session.Store,
) []types.Route {
	rl := routeList{
		registry:        registry,
		store:           store,
		defaultPageSize: cfg.DefaultPageSize(),
		maxPageSize:     cfg.MaxPageSize(),
		logger:          cfg.Logger(),
		params:          httprouterParams,
	}

	routes := []types.Route{
		{
			Method:  http.MethodGet,
			Pattern: DatasetsPathFormat,
			Handler: http.HandlerFunc(rl.GetDatasets),
		},
		{
			Method:  http.MethodGet,
			Pattern: fmt.Sprintf(DatasetSinglePathFormat, ":dataset"),
			Handler: http.HandlerFunc(rl.GetDataset),
		},
	}

	if operations.IsSupported(config.DatasetFacets) {
		routes = append(routes, types.Route{
			Method:  http.MethodGet,
			Pattern: fmt.Sprintf(FacetsPathFormat, ":dataset", ":field"),
			Handler: http.HandlerFunc(rl.GetFacets),
		})
	}

	if operations.IsSupported(config.DatasetQuery) {
		routes = append(routes, types.Route{
			Method:  http.MethodPost,
			Pattern: fmt.Sprintf(QueryPathFormat, ":dataset"),
			Handler: http.HandlerFunc(rl.Query),
		})
	}

	if operations.IsSupported(config.ViewManage) {
		routes = append(routes, []types.Route{
			{
				Method:  http.MethodPost,
				Pattern: fmt.Sprintf(ViewsPathFormat, ":dataset"),
				Handler: http.HandlerFunc(rl.CreateView),
			},
			{
				Method:  http.MethodGet,
				Pattern: fmt.Sprintf(ViewSinglePathFormat, ":id"),
				Handler: http.HandlerFunc(rl.GetView),
			},
			{
				Method:  http.MethodDelete,
				Pattern: fmt.Sprintf(ViewSinglePathFormat, ":id"),
				Handler: http.HandlerFunc(rl.DeleteView),
			},
			{
				Method:  http.MethodPut,
				Pattern: fmt.Sprintf(ViewSearchPathFormat, ":id"),
				Handler: http.HandlerFunc(rl.UpdateSearch),
			},
			{
				Method:  http.MethodPut,
				Pattern: fmt.Sprintf(ViewFilterPathFormat, ":id", ":field"),
				Handler: http.HandlerFunc(rl.UpdateFilter),
			},
			{
				Method:  http.MethodPut,
				Pattern: fmt.Sprintf(ViewRangePathFormat, ":id", ":field"),
				Handler: http.HandlerFunc(rl.UpdateRange),
			},
			{
				Method:  http.MethodDelete,
				Pattern: fmt.Sprintf(ViewRangePathFormat, ":id", ":field"),
				Handler: http.HandlerFunc(rl.DeleteRange),
			},
			{
				Method:  http.MethodPut,
				Pattern: fmt.Sprintf(ViewSortPathFormat, ":id"),
				Handler: http.HandlerFunc(rl.UpdateSort),
			},
			{
				Method:  http.MethodDelete,
				Pattern: fmt.Sprintf(ViewSortPathFormat, ":id"),
				Handler: http.HandlerFunc(rl.DeleteSort),
			},
			{
				Method:  http.MethodPut,
				Pattern: fmt.Sprintf(ViewPagePathFormat, ":id"),
				Handler: http.HandlerFunc(rl.UpdatePage),
			},
			{
				Method:  http.MethodPost,
				Pattern: fmt.Sprintf(ViewResetPathFormat, ":id"),
				Handler: http.HandlerFunc(rl.ResetView),
			},
		}...)

		if operations.IsSupported(config.ViewExport) {
			routes = append(routes, types.Route{
				Method:  http.MethodGet,
				Pattern: fmt.Sprintf(ViewExportPathFormat, ":id"),
				Handler: http.HandlerFunc(rl.ExportView),
			})
		}
	}

	for i := range routes {
		routes[i].Pattern = path.Join(prefix, routes[i].Pattern)
	}

	return routes
}

func httprouterParams(r *http.Request, name string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(name)
}
