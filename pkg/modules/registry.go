package modules

import (
	"sort"
	"sync"
)

// registry implements the ModuleRegistry interface
type registry struct {
	modules map[string]*ModuleRecord // Map of resolved path -> module record
	mutex   sync.Mutex               // Protects modules and stats
	stats   RegistryStats
	config  *LoaderConfig
}

// NewRegistry creates a new module registry
func NewRegistry(config *LoaderConfig) ModuleRegistry {
	if config == nil {
		config = DefaultLoaderConfig()
	}

	return &registry{
		modules: make(map[string]*ModuleRecord),
		config:  config,
	}
}

// Get retrieves a module record by resolved path
func (r *registry) Get(path string) *ModuleRecord {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	record := r.modules[path]
	if record != nil {
		r.stats.CacheHits++
	} else {
		r.stats.CacheMisses++
	}
	return record
}

// Set stores a module record
func (r *registry) Set(path string, record *ModuleRecord) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if old := r.modules[path]; old != nil {
		r.forget(old)
	} else if r.config.CacheSize > 0 && len(r.modules) >= r.config.CacheSize {
		r.evictOldest()
	}

	r.stats.TotalModules++
	switch record.State {
	case ModuleChecked:
		r.stats.LoadedModules++
	case ModuleError:
		r.stats.FailedModules++
	}
	r.modules[path] = record
}

// Remove removes a module from the cache
func (r *registry) Remove(path string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if record := r.modules[path]; record != nil {
		delete(r.modules, path)
		r.forget(record)
	}
}

// forget undoes the stats of a record leaving the cache (called with lock held)
func (r *registry) forget(record *ModuleRecord) {
	r.stats.TotalModules--
	switch record.State {
	case ModuleChecked:
		r.stats.LoadedModules--
	case ModuleError:
		r.stats.FailedModules--
	}
}

// Clear clears all cached modules
func (r *registry) Clear() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.modules = make(map[string]*ModuleRecord)
	r.stats = RegistryStats{}
}

// List returns all cached module paths, sorted
func (r *registry) List() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	paths := make([]string, 0, len(r.modules))
	for path := range r.modules {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Size returns the number of cached modules
func (r *registry) Size() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return len(r.modules)
}

// GetStats returns current registry statistics
func (r *registry) GetStats() RegistryStats {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	// Calculate approximate memory usage
	memoryUsage := int64(len(r.modules) * 1000) // Rough estimate per module
	for _, record := range r.modules {
		if record.Source != nil {
			memoryUsage += int64(len(record.Source.Content))
		}
	}

	stats := r.stats
	stats.MemoryUsage = memoryUsage
	return stats
}

// evictOldest removes the oldest module from the cache (called with lock held)
func (r *registry) evictOldest() {
	var oldestPath string
	var oldest *ModuleRecord

	for path, record := range r.modules {
		if oldest == nil || record.LoadTime.Before(oldest.LoadTime) {
			oldestPath = path
			oldest = record
		}
	}

	if oldest != nil {
		delete(r.modules, oldestPath)
		r.forget(oldest)
	}
}
