// Package session keeps the interactive views created through the REST API
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/datastax/data-views/dataset"
	"github.com/datastax/data-views/log"
	"github.com/datastax/data-views/pipeline"
	e "github.com/datastax/data-views/rest/errors"
	"github.com/datastax/data-views/types"
)

// Intent changes a view. It runs with exclusive access to the view.
type Intent func(ds *dataset.Dataset, view *pipeline.View[types.Record]) error

type entry struct {
	mutex      sync.Mutex
	dataset    *dataset.Dataset
	view       *pipeline.View[types.Record]
	version    uint64
	lastAccess atomic.Int64
}

// Store holds views by id and removes the ones that are idle for longer than the expire interval
type Store struct {
	ctx            context.Context
	cancel         context.CancelFunc
	done           chan struct{}
	mutex          sync.RWMutex
	views          map[string]*entry
	expireInterval time.Duration
	logger         log.Logger
	now            func() time.Time
	created        atomic.Uint64
	expired        atomic.Uint64
}

func NewStore(expireInterval time.Duration, logger log.Logger) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		ctx:            ctx,
		cancel:         cancel,
		done:           make(chan struct{}),
		views:          make(map[string]*entry),
		expireInterval: expireInterval,
		logger:         logger,
		now:            time.Now,
	}
}

// Create adds a view over the current records of the dataset
func (s *Store) Create(ds *dataset.Dataset, pageSize int) (string, pipeline.Snapshot[types.Record]) {
	view, version := ds.NewView(pageSize)
	item := &entry{dataset: ds, view: view, version: version}
	item.lastAccess.Store(s.now().UnixNano())

	id := uuid.NewString()
	s.mutex.Lock()
	s.views[id] = item
	s.mutex.Unlock()

	s.created.Inc()
	s.logger.Debug("created view", "id", id, "dataset", ds.Name())
	return id, view.Snapshot()
}

// Do runs the intent on the view. The view first picks up records published since its last
// access, which moves it back to the first page.
func (s *Store) Do(id string, intent Intent) error {
	item, err := s.get(id)
	if err != nil {
		return err
	}

	item.mutex.Lock()
	defer item.mutex.Unlock()

	item.lastAccess.Store(s.now().UnixNano())
	if records, version := item.dataset.Records(); version != item.version {
		item.view.SetRecords(records)
		item.version = version
	}

	return intent(item.dataset, item.view)
}

// Delete removes the view
func (s *Store) Delete(id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, found := s.views[id]; !found {
		return notFound(id)
	}
	delete(s.views, id)
	return nil
}

func (s *Store) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.views)
}

// Stats returns the number of views created and expired since the store started
func (s *Store) Stats() (created uint64, expired uint64) {
	return s.created.Load(), s.expired.Load()
}

func (s *Store) get(id string) (*entry, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	item, found := s.views[id]
	if !found {
		return nil, notFound(id)
	}
	return item, nil
}

// Start blocks, removing expired views until Stop is called
func (s *Store) Start() {
	defer close(s.done)
	for {
		if !s.sleep() {
			return
		}
		if removed := s.expire(); removed > 0 {
			s.logger.Info("removed expired views", "count", removed)
		}
	}
}

func (s *Store) Stop() {
	s.cancel()
}

// Done is closed once Start returns
func (s *Store) Done() <-chan struct{} {
	return s.done
}

func (s *Store) expire() int {
	deadline := s.now().Add(-s.expireInterval).UnixNano()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	removed := 0
	for id, item := range s.views {
		if item.lastAccess.Load() < deadline {
			delete(s.views, id)
			removed++
		}
	}
	s.expired.Add(uint64(removed))
	return removed
}

func (s *Store) sleep() bool {
	select {
	case <-time.After(s.checkInterval()):
		return true
	case <-s.ctx.Done():
		return false
	}
}

func (s *Store) checkInterval() time.Duration {
	interval := s.expireInterval / 2
	if interval < time.Millisecond {
		interval = time.Millisecond
	}
	return interval
}

func notFound(id string) error {
	return e.NewNotFoundError(fmt.Sprintf("view '%s' not found", id))
}
