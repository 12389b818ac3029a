package modules

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// Extensions tried, in order, when a specifier names no existing file.
var defaultExtensions = []string{".ts", ".tsx", ".d.ts", ".js", ".jsx"}

// Index files tried when a specifier names a directory.
var defaultIndexFiles = []string{"index.ts", "index.tsx", "index.d.ts", "index.js", "index.jsx"}

// MemoryResolver resolves modules from an in-memory store
type MemoryResolver struct {
	name     string                   // Human-readable name
	modules  map[string]*MemoryModule // Map of module path -> module
	mutex    sync.RWMutex             // Protects concurrent access
	priority int                      // Resolution priority
}

// MemoryModule represents a module stored in memory
type MemoryModule struct {
	Path     string    // Module path
	Content  string    // Module source content
	Modified time.Time // When the module was last modified
}

// NewMemoryResolver creates a new memory-based module resolver
func NewMemoryResolver(name string) *MemoryResolver {
	if name == "" {
		name = "Memory"
	}

	return &MemoryResolver{
		name:     name,
		modules:  make(map[string]*MemoryModule),
		priority: 50, // Higher priority than file system for testing
	}
}

// Name returns the resolver name
func (r *MemoryResolver) Name() string {
	return r.name
}

// CanResolve returns true for relative and absolute specifiers and for bare
// specifiers naming a stored module
func (r *MemoryResolver) CanResolve(specifier string) bool {
	if isRelative(specifier) || strings.HasPrefix(specifier, "/") {
		return true
	}
	_, _, err := r.findModule(specifier, "")
	return err == nil
}

// Priority returns the resolver priority
func (r *MemoryResolver) Priority() int {
	return r.priority
}

// SetPriority sets the resolver priority
func (r *MemoryResolver) SetPriority(priority int) {
	r.priority = priority
}

// Resolve resolves a module specifier to a concrete module
func (r *MemoryResolver) Resolve(specifier string, fromPath string) (*ResolvedModule, error) {
	resolvedPath, module, err := r.findModule(specifier, fromPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", specifier, err)
	}

	return &ResolvedModule{
		Specifier:    specifier,
		ResolvedPath: resolvedPath,
		Source:       io.NopCloser(strings.NewReader(module.Content)),
		FS:           &memoryFS{resolver: r},
		Resolver:     r.name,
	}, nil
}

// findModule finds a module by specifier with various resolution strategies
func (r *MemoryResolver) findModule(specifier string, fromPath string) (string, *MemoryModule, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	target, err := joinSpecifier(specifier, fromPath)
	if err != nil {
		return "", nil, err
	}

	for _, candidate := range candidatePaths(target, defaultExtensions, defaultIndexFiles) {
		if module, exists := r.modules[candidate]; exists {
			return candidate, module, nil
		}
	}
	return "", nil, fmt.Errorf("module not found: %s", target)
}

// AddModule adds or replaces a module in the memory store
func (r *MemoryResolver) AddModule(modulePath string, content string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	modulePath = path.Clean(strings.TrimPrefix(modulePath, "./"))
	r.modules[modulePath] = &MemoryModule{
		Path:     modulePath,
		Content:  content,
		Modified: time.Now(),
	}
}

// RemoveModule removes a module from the memory store
func (r *MemoryResolver) RemoveModule(modulePath string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.modules, path.Clean(modulePath))
}

// ListModules returns all module paths in the store, sorted
func (r *MemoryResolver) ListModules() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	paths := make([]string, 0, len(r.modules))
	for p := range r.modules {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// GetModule returns a module by path (for testing/debugging)
func (r *MemoryResolver) GetModule(modulePath string) *MemoryModule {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.modules[path.Clean(modulePath)]
}

// memoryFS implements ModuleFS for memory resolver
type memoryFS struct {
	resolver *MemoryResolver
}

func (mfs *memoryFS) Open(name string) (fs.File, error) {
	data, err := mfs.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return &memoryFile{name: name, Reader: strings.NewReader(string(data)), size: int64(len(data))}, nil
}

func (mfs *memoryFS) ReadFile(name string) ([]byte, error) {
	mfs.resolver.mutex.RLock()
	defer mfs.resolver.mutex.RUnlock()

	module, exists := mfs.resolver.modules[name]
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return []byte(module.Content), nil
}

// memoryFile implements fs.File for memory modules
type memoryFile struct {
	*strings.Reader
	name string
	size int64
}

func (mf *memoryFile) Stat() (fs.FileInfo, error) { return memoryFileInfo{mf}, nil }
func (mf *memoryFile) Close() error               { return nil }

type memoryFileInfo struct{ f *memoryFile }

func (i memoryFileInfo) Name() string       { return path.Base(i.f.name) }
func (i memoryFileInfo) Size() int64        { return i.f.size }
func (i memoryFileInfo) Mode() fs.FileMode  { return 0o444 }
func (i memoryFileInfo) ModTime() time.Time { return time.Time{} }
func (i memoryFileInfo) IsDir() bool        { return false }
func (i memoryFileInfo) Sys() any           { return nil }

func isRelative(specifier string) bool {
	return specifier == "." || specifier == ".." ||
		strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

// joinSpecifier makes a relative specifier relative to the importing
// module's directory. Absolute specifiers are rooted at the store.
func joinSpecifier(specifier, fromPath string) (string, error) {
	switch {
	case isRelative(specifier):
		if fromPath == "" {
			if strings.HasPrefix(specifier, "./") {
				return path.Clean(strings.TrimPrefix(specifier, "./")), nil
			}
			return "", fmt.Errorf("relative import %s requires fromPath", specifier)
		}
		return path.Join(path.Dir(fromPath), specifier), nil
	case strings.HasPrefix(specifier, "/"):
		return path.Clean(strings.TrimPrefix(specifier, "/")), nil
	}
	return path.Clean(specifier), nil
}

// candidatePaths lists the paths tried for target: the exact path, .js
// mapped to .ts/.tsx, each extension, then each index file.
func candidatePaths(target string, extensions, indexFiles []string) []string {
	out := []string{target}
	if base, ok := strings.CutSuffix(target, ".js"); ok {
		out = append(out, base+".ts", base+".tsx")
	}
	for _, ext := range extensions {
		out = append(out, target+ext)
	}
	for _, index := range indexFiles {
		out = append(out, path.Join(target, index))
	}
	return out
}
