package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"golang.org/x/text/language"

	"github.com/datastax/data-views/pipeline"
)

const (
	SourceFile      = "file"
	SourceCassandra = "cassandra"
	SourceSQL       = "sql"
)

// SourceConfig describes where the records of a dataset come from
type SourceConfig struct {
	Type string `mapstructure:"type" validate:"required,oneof=file cassandra sql"`

	// file
	Path string `mapstructure:"path"`

	// cassandra
	Hosts       []string `mapstructure:"hosts"`
	Keyspace    string   `mapstructure:"keyspace"`
	Table       string   `mapstructure:"table"`
	Username    string   `mapstructure:"username"`
	Password    string   `mapstructure:"password"`
	Consistency string   `mapstructure:"consistency"`

	// sql
	Driver string `mapstructure:"driver" validate:"omitempty,oneof=mysql sqlite"`
	DSN    string `mapstructure:"dsn"`
	Query  string `mapstructure:"query"`
}

// DatasetConfig declares a named dataset and how its pipeline matches and orders records
type DatasetConfig struct {
	Name                  string            `mapstructure:"name" validate:"required"`
	Source                SourceConfig      `mapstructure:"source"`
	SearchFields          []string          `mapstructure:"searchFields"`
	CoercedSearchFields   []string          `mapstructure:"coercedSearchFields"`
	TextMatchFields       map[string]string `mapstructure:"textMatchFields"`
	MissingNumeric        float64           `mapstructure:"missingNumeric"`
	ExcludeMissingNumeric bool              `mapstructure:"excludeMissingNumeric"`
	SortableFields        []string          `mapstructure:"sortableFields"`
	FilterableFields      []string          `mapstructure:"filterableFields"`
	PageSize              int               `mapstructure:"pageSize" validate:"gte=0"`
	Language              string            `mapstructure:"language"`
}

// MatcherConfig returns the pipeline matcher settings of the dataset
func (d DatasetConfig) MatcherConfig() pipeline.MatcherConfig {
	return pipeline.MatcherConfig{
		SearchFields:          d.SearchFields,
		CoercedSearchFields:   d.CoercedSearchFields,
		TextMatchFields:       d.TextMatchFields,
		MissingNumeric:        d.MissingNumeric,
		ExcludeMissingNumeric: d.ExcludeMissingNumeric,
	}
}

// LanguageTag returns the collation language, English when unset
func (d DatasetConfig) LanguageTag() (language.Tag, error) {
	if d.Language == "" {
		return language.English, nil
	}
	return language.Parse(d.Language)
}

// IsSortable reports whether a field may be used for ordering. No declared fields means any.
func (d DatasetConfig) IsSortable(field string) bool {
	return permitted(field, d.SortableFields)
}

// IsFilterable reports whether a field may be filtered. No declared fields means any.
func (d DatasetConfig) IsFilterable(field string) bool {
	return permitted(field, d.FilterableFields)
}

func permitted(value string, safelist []string) bool {
	if len(safelist) == 0 {
		return true
	}
	for _, v := range safelist {
		if v == value {
			return true
		}
	}
	return false
}

var datasetValidator = validator.New()

// DecodeDatasets converts the raw "datasets" setting into validated dataset configs
func DecodeDatasets(raw interface{}) ([]DatasetConfig, error) {
	var datasets []DatasetConfig
	if raw == nil {
		return datasets, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &datasets,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("unable to decode datasets: %w", err)
	}

	seen := make(map[string]bool, len(datasets))
	for i, d := range datasets {
		if err := ValidateDataset(d); err != nil {
			return nil, fmt.Errorf("invalid dataset at position %d: %w", i, err)
		}
		if seen[d.Name] {
			return nil, fmt.Errorf("duplicate dataset name '%s'", d.Name)
		}
		seen[d.Name] = true
	}

	return datasets, nil
}

// ValidateDataset checks the struct tags plus the source specific requirements
func ValidateDataset(d DatasetConfig) error {
	if err := datasetValidator.Struct(d); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			messages := make([]string, 0, len(validationErrors))
			for _, fe := range validationErrors {
				messages = append(messages, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
			}
			return errors.New(strings.Join(messages, ", "))
		}
		return err
	}

	switch d.Source.Type {
	case SourceFile:
		if d.Source.Path == "" {
			return errors.New("file sources require a path")
		}
	case SourceCassandra:
		if len(d.Source.Hosts) == 0 || d.Source.Keyspace == "" || d.Source.Table == "" {
			return errors.New("cassandra sources require hosts, keyspace and table")
		}
	case SourceSQL:
		if d.Source.Driver == "" || d.Source.DSN == "" || d.Source.Query == "" {
			return errors.New("sql sources require driver, dsn and query")
		}
	}

	if _, err := d.LanguageTag(); err != nil {
		return fmt.Errorf("invalid language '%s': %w", d.Language, err)
	}

	return nil
}
