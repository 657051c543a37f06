package retrieve

import (
	"bitbucket.org/turnlab/cubar/structure"
)

// Cache is an explicit fixed-capacity cache in front of a Source.
// Unlike a collector-driven weak-reference cache, eviction is
// deterministic: when the capacity is reached, the oldest inserted
// entry is dropped. Errors are never cached.
type Cache struct {
	src      Source
	capacity int
	store    *BoltStore

	sequences  *boundedMap
	structures *boundedMap
	domains    *boundedMap
}

// NewCache creates a cache holding at most capacity entries per data
// kind; a capacity of zero or less disables eviction and the cache
// grows without bound. store may be nil; when set, sequences and
// structures are additionally persisted across runs.
func NewCache(src Source, capacity int, store *BoltStore) *Cache {
	return &Cache{
		src:        src,
		capacity:   capacity,
		store:      store,
		sequences:  newBoundedMap(capacity),
		structures: newBoundedMap(capacity),
		domains:    newBoundedMap(capacity),
	}
}

// Sequence implements Source.
func (c *Cache) Sequence(id string) (string, error) {
	if v, ok := c.sequences.get(id); ok {
		return v.(string), nil
	}
	if c.store != nil {
		var seq string
		if ok, err := c.store.Load(kindSequence, id, &seq); err == nil && ok {
			c.sequences.put(id, seq)
			return seq, nil
		}
	}
	seq, err := c.src.Sequence(id)
	if err != nil {
		return "", err
	}
	c.sequences.put(id, seq)
	if c.store != nil {
		if err := c.store.Save(kindSequence, id, seq); err != nil {
			log.Error("error persisting sequence: ", err)
		}
	}
	return seq, nil
}

// Structure implements Source.
func (c *Cache) Structure(id string) (*structure.Structure, error) {
	if v, ok := c.structures.get(id); ok {
		return v.(*structure.Structure), nil
	}
	if c.store != nil {
		st := &structure.Structure{}
		if ok, err := c.store.Load(kindStructure, id, st); err == nil && ok {
			c.structures.put(id, st)
			return st, nil
		}
	}
	st, err := c.src.Structure(id)
	if err != nil {
		return nil, err
	}
	c.structures.put(id, st)
	if c.store != nil {
		if err := c.store.Save(kindStructure, id, st); err != nil {
			log.Error("error persisting structure: ", err)
		}
	}
	return st, nil
}

// Domains implements Source.
func (c *Cache) Domains(id string) ([]structure.Domain, error) {
	if v, ok := c.domains.get(id); ok {
		return v.([]structure.Domain), nil
	}
	ds, err := c.src.Domains(id)
	if err != nil {
		return nil, err
	}
	c.domains.put(id, ds)
	return ds, nil
}

// SecondaryStructure implements Source; assignments are cheap to
// recompute and are not cached.
func (c *Cache) SecondaryStructure(s *structure.Structure) (map[int]structure.SecStrucType, error) {
	return c.src.SecondaryStructure(s)
}

// boundedMap is a map with a fixed capacity and insertion-order
// eviction. A capacity of zero or less means unlimited.
type boundedMap struct {
	capacity int
	entries  map[string]interface{}
	order    []string
}

func newBoundedMap(capacity int) *boundedMap {
	return &boundedMap{
		capacity: capacity,
		entries:  make(map[string]interface{}, capacity),
	}
}

func (m *boundedMap) get(key string) (interface{}, bool) {
	v, ok := m.entries[key]
	return v, ok
}

func (m *boundedMap) put(key string, value interface{}) {
	if _, ok := m.entries[key]; ok {
		m.entries[key] = value
		return
	}
	if len(m.entries) >= m.capacity && m.capacity > 0 {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.entries, oldest)
	}
	m.entries[key] = value
	m.order = append(m.order, key)
}

func (m *boundedMap) len() int {
	return len(m.entries)
}
