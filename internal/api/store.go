package api

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/forma3d/forma/pkg/container/glyph"
	"github.com/forma3d/forma/pkg/container/model"
)

// containerRecord caches one decoded container. The codecs themselves never
// cache; holding onto decoded results is a caller concern and this store is
// that caller.
type containerRecord struct {
	Summary ContainerSummary
	Model   *model.File
	Glyph   *glyph.File
}

type ContainerStore struct {
	mu      sync.Mutex
	records map[string]*containerRecord
	clock   func() time.Time
}

func NewContainerStore() *ContainerStore {
	return &ContainerStore{
		records: make(map[string]*containerRecord),
		clock:   time.Now,
	}
}

func (s *ContainerStore) AddModel(path string, f *model.File) ContainerSummary {
	summary := ContainerSummary{
		ID:         newContainerID(),
		Path:       path,
		Format:     FormatModel,
		ScaleCode:  f.Header.ScaleCode,
		EntryCount: f.Header.EntryCount,
		TableBytes: f.Header.TableBytes,
		BlockBytes: f.Header.BlockBytes,
		CreatedAt:  s.clock().Unix(),
	}
	for _, b := range f.Blocks {
		summary.Vertices += len(b.Vertices)
		summary.Indices += len(b.Indices)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[summary.ID] = &containerRecord{Summary: summary, Model: f}
	return summary
}

func (s *ContainerStore) AddGlyph(path string, f *glyph.File) ContainerSummary {
	summary := ContainerSummary{
		ID:         newContainerID(),
		Path:       path,
		Format:     FormatGlyph,
		ScaleCode:  f.Header.Oversample,
		EntryCount: f.Header.EntryCount,
		TableBytes: f.Header.TableBytes,
		BlockBytes: f.Header.BlockBytes,
		CreatedAt:  s.clock().Unix(),
	}
	for _, b := range f.Blocks {
		summary.Pixels += len(b.Pixels)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[summary.ID] = &containerRecord{Summary: summary, Glyph: f}
	return summary
}

func (s *ContainerStore) Get(id string) (*containerRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	return rec, ok
}

func (s *ContainerStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return false
	}
	delete(s.records, id)
	return true
}

func (s *ContainerStore) List() []ContainerSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ContainerSummary, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func newContainerID() string {
	return "cont_" + uuid.NewString()
}
