package endpoint

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/datastax/data-views/dataset"
	"github.com/datastax/data-views/pipeline"
	"github.com/datastax/data-views/rest/contextutils"
	e "github.com/datastax/data-views/rest/errors"
	m "github.com/datastax/data-views/rest/models"
	t "github.com/datastax/data-views/rest/translator"
	"github.com/datastax/data-views/types"
)

var (
	inputValidator *validator.Validate
	trans          ut.Translator
)

func init() {
	inputValidator = validator.New()

	uni := ut.New(en.New(), en.New())
	trans, _ = uni.GetTranslator("en")

	_ = enTranslations.RegisterDefaultTranslations(inputValidator, trans)

	_ = inputValidator.RegisterTranslation("required", trans, func(ut ut.Translator) error {
		return ut.Add("required", "{0} is a required field", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		translator, _ := ut.T("required", fe.Field())
		return translator
	})

	_ = inputValidator.RegisterTranslation("oneof", trans, func(ut ut.Translator) error {
		return ut.Add("Direction.oneof", "{0} must be asc or desc", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		translator, _ := ut.T("Direction.oneof", fe.Field())
		return translator
	})
}

func (s *routeList) GetDatasets(w http.ResponseWriter, r *http.Request) {
	datasets := s.registry.Datasets()
	result := make([]m.DatasetSummary, len(datasets))
	for i, ds := range datasets {
		result[i] = summary(ds)
	}
	RespondJSONObjectWithCode(w, http.StatusOK, result)
}

func (s *routeList) GetDataset(w http.ResponseWriter, r *http.Request) {
	ds, err := s.registry.Get(s.params(r, "dataset"))
	if err != nil {
		s.respondWithServiceError(w, r, err, "unable to describe dataset")
		return
	}

	cfg := ds.Config()
	RespondJSONObjectWithCode(w, http.StatusOK, m.Dataset{
		DatasetSummary:   summary(ds),
		Source:           ds.Source().Name(),
		Fields:           ds.Fields(),
		SortableFields:   cfg.SortableFields,
		FilterableFields: cfg.FilterableFields,
		PageSize:         ds.PageSize(s.defaultPageSize),
		UpdatedAt:        ds.UpdatedAt(),
	})
}

func (s *routeList) GetFacets(w http.ResponseWriter, r *http.Request) {
	field := s.params(r, "field")
	ds, err := s.registry.Get(s.params(r, "dataset"))
	if err == nil {
		var values []string
		if values, err = ds.Facets(field); err == nil {
			RespondJSONObjectWithCode(w, http.StatusOK, m.Facets{Field: field, Values: values})
			return
		}
	}
	s.respondWithServiceError(w, r, err, "unable to retrieve facets")
}

func (s *routeList) Query(w http.ResponseWriter, r *http.Request) {
	ds, err := s.registry.Get(s.params(r, "dataset"))
	if err != nil {
		s.respondWithServiceError(w, r, err, "unable to query dataset")
		return
	}

	var query m.Query
	if err := parseAndValidatePayload(&query, r); err != nil {
		RespondWithError(w, err, http.StatusBadRequest)
		return
	}

	result, err := ds.Query(t.ToQueryOptions(query), s.defaultPageSize, s.maxPageSize)
	if err != nil {
		s.respondWithServiceError(w, r, err, "unable to query dataset")
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, t.FromResult(result))
}

func (s *routeList) CreateView(w http.ResponseWriter, r *http.Request) {
	ds, err := s.registry.Get(s.params(r, "dataset"))
	if err != nil {
		s.respondWithServiceError(w, r, err, "unable to create view")
		return
	}

	var query m.Query
	if err := parseAndValidateOptionalPayload(&query, r); err != nil {
		RespondWithError(w, err, http.StatusBadRequest)
		return
	}

	options := t.ToQueryOptions(query)
	// Reject invalid fields before a view is stored
	if _, err := ds.Criteria(options); err != nil {
		s.respondWithServiceError(w, r, err, "unable to create view")
		return
	}
	spec, err := ds.SortSpec(options.OrderBy)
	if err != nil {
		s.respondWithServiceError(w, r, err, "unable to create view")
		return
	}
	pageSize, err := ds.CheckPageSize(options.PageSize, s.defaultPageSize, s.maxPageSize)
	if err != nil {
		s.respondWithServiceError(w, r, err, "unable to create view")
		return
	}

	id, _ := s.store.Create(ds, pageSize)

	var result m.View
	err = s.store.Do(id, func(ds *dataset.Dataset, view *pipeline.View[types.Record]) error {
		applyOptions(view, options, spec)
		result = t.ToView(id, ds.Name(), view)
		return nil
	})
	if err != nil {
		s.respondWithServiceError(w, r, err, "unable to create view")
		return
	}

	RespondJSONObjectWithCode(w, http.StatusCreated, result)
}

func (s *routeList) GetView(w http.ResponseWriter, r *http.Request) {
	s.updateView(w, r, func(*dataset.Dataset, *pipeline.View[types.Record]) error {
		return nil
	})
}

func (s *routeList) DeleteView(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(s.params(r, "id")); err != nil {
		s.respondWithServiceError(w, r, err, "unable to delete view")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *routeList) UpdateSearch(w http.ResponseWriter, r *http.Request) {
	var update m.SearchUpdate
	if err := parseAndValidatePayload(&update, r); err != nil {
		RespondWithError(w, err, http.StatusBadRequest)
		return
	}

	s.updateView(w, r, func(_ *dataset.Dataset, view *pipeline.View[types.Record]) error {
		view.SetSearchTerm(update.Term)
		return nil
	})
}

func (s *routeList) UpdateFilter(w http.ResponseWriter, r *http.Request) {
	field := s.params(r, "field")

	var update m.FilterUpdate
	if err := parseAndValidatePayload(&update, r); err != nil {
		RespondWithError(w, err, http.StatusBadRequest)
		return
	}

	s.updateView(w, r, func(ds *dataset.Dataset, view *pipeline.View[types.Record]) error {
		if err := ds.CheckFilterable(field); err != nil {
			return err
		}
		view.SetDiscreteFilter(field, update.Value)
		return nil
	})
}

func (s *routeList) UpdateRange(w http.ResponseWriter, r *http.Request) {
	field := s.params(r, "field")

	var update m.RangeUpdate
	if err := parseAndValidatePayload(&update, r); err != nil {
		RespondWithError(w, err, http.StatusBadRequest)
		return
	}

	s.updateView(w, r, func(ds *dataset.Dataset, view *pipeline.View[types.Record]) error {
		if err := ds.CheckFilterable(field); err != nil {
			return err
		}
		view.SetRangeInput(field, update.Min, update.Max)
		return nil
	})
}

func (s *routeList) DeleteRange(w http.ResponseWriter, r *http.Request) {
	field := s.params(r, "field")
	s.updateView(w, r, func(_ *dataset.Dataset, view *pipeline.View[types.Record]) error {
		view.ClearRangeFilter(field)
		return nil
	})
}

func (s *routeList) UpdateSort(w http.ResponseWriter, r *http.Request) {
	var update m.SortUpdate
	if err := parseAndValidatePayload(&update, r); err != nil {
		RespondWithError(w, err, http.StatusBadRequest)
		return
	}

	s.updateView(w, r, func(ds *dataset.Dataset, view *pipeline.View[types.Record]) error {
		if err := ds.CheckSortable(update.Field); err != nil {
			return err
		}
		view.SetSort(update.Field, pipeline.ParseDirection(update.Direction))
		return nil
	})
}

func (s *routeList) DeleteSort(w http.ResponseWriter, r *http.Request) {
	s.updateView(w, r, func(_ *dataset.Dataset, view *pipeline.View[types.Record]) error {
		view.ClearSort()
		return nil
	})
}

func (s *routeList) UpdatePage(w http.ResponseWriter, r *http.Request) {
	var update m.PageUpdate
	if err := parseAndValidatePayload(&update, r); err != nil {
		RespondWithError(w, err, http.StatusBadRequest)
		return
	}

	s.updateView(w, r, func(ds *dataset.Dataset, view *pipeline.View[types.Record]) error {
		if update.PageSize > 0 {
			if _, err := ds.CheckPageSize(update.PageSize, s.defaultPageSize, s.maxPageSize); err != nil {
				return err
			}
			view.SetPageSize(update.PageSize)
		}
		if update.Page > 0 {
			view.SetPage(update.Page)
		}
		return nil
	})
}

func (s *routeList) ResetView(w http.ResponseWriter, r *http.Request) {
	s.updateView(w, r, func(_ *dataset.Dataset, view *pipeline.View[types.Record]) error {
		view.ResetFilters()
		return nil
	})
}

func (s *routeList) ExportView(w http.ResponseWriter, r *http.Request) {
	var (
		fields  []string
		matched []types.Record
	)
	err := s.store.Do(s.params(r, "id"), func(ds *dataset.Dataset, view *pipeline.View[types.Record]) error {
		fields = ds.Fields()
		matched = view.Matched()
		return nil
	})
	if err != nil {
		s.respondWithServiceError(w, r, err, "unable to export view")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=UTF-8")
	w.WriteHeader(http.StatusOK)
	if err := t.WriteCSV(w, fields, matched); err != nil {
		s.logger.Error("unable to write csv export", "error", err)
	}
}

// updateView runs the intent on the view and responds with the resulting state
func (s *routeList) updateView(
	w http.ResponseWriter,
	r *http.Request,
	intent func(*dataset.Dataset, *pipeline.View[types.Record]) error,
) {
	id := s.params(r, "id")

	var result m.View
	err := s.store.Do(id, func(ds *dataset.Dataset, view *pipeline.View[types.Record]) error {
		if err := intent(ds, view); err != nil {
			return err
		}
		result = t.ToView(id, ds.Name(), view)
		return nil
	})
	if err != nil {
		s.respondWithServiceError(w, r, err, "unable to update view")
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, result)
}

func (s *routeList) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	code := StatusCode(err)
	if code == http.StatusInternalServerError {
		s.logger.Error(msg, "error", err, "requestId", contextutils.GetContextRequestID(r.Context()))
		RespondWithError(w, errors.New(msg), code)
		return
	}
	RespondWithError(w, err, code)
}

func applyOptions(view *pipeline.View[types.Record], options types.QueryOptions, spec *pipeline.SortSpec) {
	view.SetSearchTerm(options.Search)
	for _, f := range options.Filters {
		view.SetDiscreteFilter(f.Field, f.Value)
	}
	for _, r := range options.Ranges {
		view.SetRangeInput(r.Field, r.Min, r.Max)
	}
	if spec != nil {
		view.SetSort(spec.Field, spec.Direction)
	}
	if options.Page > 0 {
		view.SetPage(options.Page)
	}
}

func summary(ds *dataset.Dataset) m.DatasetSummary {
	records, version := ds.Records()
	return m.DatasetSummary{Name: ds.Name(), Count: len(records), Version: version}
}

func parseAndValidatePayload(obj interface{}, r *http.Request) error {
	if r.Body == nil {
		return e.NewBadRequestError("unable to parse payload")
	}
	if err := json.NewDecoder(r.Body).Decode(obj); err != nil {
		return e.NewBadRequestError("unable to parse payload")
	}

	if err := inputValidator.Struct(obj); err != nil {
		return e.TranslateValidatorError(err, trans)
	}

	return nil
}

// parseAndValidateOptionalPayload accepts an empty body
func parseAndValidateOptionalPayload(obj interface{}, r *http.Request) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(obj); err != nil && err != io.EOF {
		return e.NewBadRequestError("unable to parse payload")
	}

	if err := inputValidator.Struct(obj); err != nil {
		return e.TranslateValidatorError(err, trans)
	}

	return nil
}
