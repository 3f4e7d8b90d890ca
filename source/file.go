package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/datastax/data-views/types"
)

// FileSource reads records from a JSON array or a YAML list of objects
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string {
	return "file:" + s.path
}

func (s *FileSource) Load(ctx context.Context) ([]types.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("unable to read records file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		return decodeYAML(data)
	default:
		return decodeJSON(data)
	}
}

func (s *FileSource) Close() error {
	return nil
}

func decodeJSON(data []byte) ([]types.Record, error) {
	var records []types.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unable to parse records: %w", err)
	}
	return records, nil
}

func decodeYAML(data []byte) ([]types.Record, error) {
	var items []map[interface{}]interface{}
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unable to parse records: %w", err)
	}

	records := make([]types.Record, len(items))
	for i, item := range items {
		record := make(types.Record, len(item))
		for k, v := range item {
			record[fmt.Sprint(k)] = yamlValue(v)
		}
		records[i] = record
	}
	return records, nil
}

// yamlValue converts nested yaml maps into string keyed maps so records encode as JSON
func yamlValue(value interface{}) interface{} {
	switch value := value.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(value))
		for k, v := range value {
			m[fmt.Sprint(k)] = yamlValue(v)
		}
		return m
	case []interface{}:
		items := make([]interface{}, len(value))
		for i, v := range value {
			items[i] = yamlValue(v)
		}
		return items
	default:
		return value
	}
}
