// Package dataset holds the named record sets served by the endpoints along with their pipelines
package dataset

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/datastax/data-views/config"
	"github.com/datastax/data-views/log"
	"github.com/datastax/data-views/pipeline"
	"github.com/datastax/data-views/source"
	"github.com/datastax/data-views/types"
)

// Dataset is a named set of records loaded from a source. The published records are replaced
// as a whole on reload and must be treated as read-only.
type Dataset struct {
	cfg      config.DatasetConfig
	src      source.Source
	pipeline *pipeline.Pipeline[types.Record]
	logger   log.Logger

	mutex     sync.RWMutex
	records   []types.Record
	updatedAt time.Time
	version   atomic.Uint64
}

func New(cfg config.DatasetConfig, src source.Source, logger log.Logger) (*Dataset, error) {
	lang, err := cfg.LanguageTag()
	if err != nil {
		return nil, fmt.Errorf("invalid language for dataset '%s': %w", cfg.Name, err)
	}

	return &Dataset{
		cfg:      cfg,
		src:      src,
		pipeline: pipeline.New[types.Record](pipeline.MapAccessor{}, cfg.MatcherConfig(), lang),
		logger:   logger.With("dataset", cfg.Name),
		records:  []types.Record{},
	}, nil
}

func (d *Dataset) Name() string {
	return d.cfg.Name
}

func (d *Dataset) Config() config.DatasetConfig {
	return d.cfg
}

func (d *Dataset) Pipeline() *pipeline.Pipeline[types.Record] {
	return d.pipeline
}

func (d *Dataset) Source() source.Source {
	return d.src
}

// Records returns the published records and their version
func (d *Dataset) Records() ([]types.Record, uint64) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	return d.records, d.version.Load()
}

// Version starts at zero and increases every time different records are published
func (d *Dataset) Version() uint64 {
	return d.version.Load()
}

func (d *Dataset) UpdatedAt() time.Time {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	return d.updatedAt
}

// Fields returns the sorted union of the field names of every record
func (d *Dataset) Fields() []string {
	records, _ := d.Records()
	accessor := d.pipeline.Accessor()
	seen := make(map[string]bool)
	fields := make([]string, 0)
	for _, record := range records {
		for _, field := range accessor.Fields(record) {
			if !seen[field] {
				seen[field] = true
				fields = append(fields, field)
			}
		}
	}
	sort.Strings(fields)
	return fields
}

// PageSize returns the dataset page size or the provided default
func (d *Dataset) PageSize(defaultSize int) int {
	if d.cfg.PageSize > 0 {
		return d.cfg.PageSize
	}
	return defaultSize
}

// Reload loads the records from the source and publishes them when they differ from the
// current ones. On failure the current records stay published.
func (d *Dataset) Reload(ctx context.Context) (bool, error) {
	records, err := d.src.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("unable to load dataset '%s' from %s: %w", d.cfg.Name, d.src.Name(), err)
	}
	if records == nil {
		records = []types.Record{}
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.updatedAt = time.Now()
	if d.version.Load() > 0 && reflect.DeepEqual(d.records, records) {
		return false, nil
	}

	d.records = records
	version := d.version.Inc()
	d.logger.Info("published dataset records", "version", version, "records", len(records))
	return true, nil
}

// SetRecords publishes records directly, bypassing the source
func (d *Dataset) SetRecords(records []types.Record) uint64 {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.records = records
	d.updatedAt = time.Now()
	return d.version.Inc()
}

func (d *Dataset) Close() error {
	if d.src == nil {
		return nil
	}
	return d.src.Close()
}
