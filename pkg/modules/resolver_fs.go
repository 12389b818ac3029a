package modules

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// PathMapping redirects bare specifiers matching Pattern to Targets, like
// tsconfig `paths`. A single `*` in Pattern is substituted into each target.
type PathMapping struct {
	Pattern string
	Targets []string
}

func (m PathMapping) match(specifier string) (string, bool) {
	prefix, suffix, wild := strings.Cut(m.Pattern, "*")
	if !wild {
		return "", specifier == m.Pattern
	}
	if len(specifier) < len(prefix)+len(suffix) ||
		!strings.HasPrefix(specifier, prefix) || !strings.HasSuffix(specifier, suffix) {
		return "", false
	}
	return specifier[len(prefix) : len(specifier)-len(suffix)], true
}

// FileSystemResolver resolves modules from the file system
type FileSystemResolver struct {
	name     string   // Human-readable name
	fs       ModuleFS // File system to resolve from
	priority int      // Resolution priority

	// Configuration
	extensions []string // File extensions to try (e.g., ".ts", ".js", ".d.ts")
	indexFiles []string // Index file names to try (e.g., "index.ts", "index.js")
	paths      []PathMapping
}

// NewFileSystemResolver creates a new file system resolver. Resolved paths
// are slash-separated and relative to the root of filesystem.
func NewFileSystemResolver(filesystem fs.FS) *FileSystemResolver {
	var moduleFS ModuleFS

	// Wrap the fs.FS to implement ModuleFS if needed
	if mfs, ok := filesystem.(ModuleFS); ok {
		moduleFS = mfs
	} else {
		moduleFS = &fsWrapper{filesystem}
	}

	return &FileSystemResolver{
		name:       "FileSystem",
		fs:         moduleFS,
		priority:   100, // Lower priority than specialized resolvers
		extensions: defaultExtensions,
		indexFiles: defaultIndexFiles,
	}
}

// NewOSFileSystemResolver creates a resolver rooted at a directory of the
// OS file system
func NewOSFileSystemResolver(baseDir string) *FileSystemResolver {
	absBaseDir, err := filepath.Abs(baseDir)
	if err != nil {
		absBaseDir = baseDir
	}
	r := NewFileSystemResolver(os.DirFS(absBaseDir))
	r.name = "OSFileSystem"
	return r
}

// Name returns the resolver name
func (r *FileSystemResolver) Name() string {
	return r.name
}

// CanResolve returns true for relative and absolute specifiers and for
// specifiers covered by a path mapping
func (r *FileSystemResolver) CanResolve(specifier string) bool {
	if isRelative(specifier) || strings.HasPrefix(specifier, "/") {
		return true
	}
	for _, m := range r.paths {
		if _, ok := m.match(specifier); ok {
			return true
		}
	}
	return false
}

// Priority returns the resolver priority
func (r *FileSystemResolver) Priority() int {
	return r.priority
}

// SetPriority sets the resolver priority
func (r *FileSystemResolver) SetPriority(priority int) {
	r.priority = priority
}

// SetExtensions sets the file extensions to try during resolution
func (r *FileSystemResolver) SetExtensions(extensions []string) {
	r.extensions = extensions
}

// SetPaths installs path mappings. Longer literal prefixes are tried first.
func (r *FileSystemResolver) SetPaths(mappings []PathMapping) {
	r.paths = append([]PathMapping(nil), mappings...)
	sort.SliceStable(r.paths, func(i, j int) bool {
		pi, _, _ := strings.Cut(r.paths[i].Pattern, "*")
		pj, _, _ := strings.Cut(r.paths[j].Pattern, "*")
		return len(pi) > len(pj)
	})
}

// Resolve resolves a module specifier to a concrete module
func (r *FileSystemResolver) Resolve(specifier string, fromPath string) (*ResolvedModule, error) {
	targets, err := r.targetPaths(specifier, fromPath)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate target path: %w", err)
	}

	for _, target := range targets {
		resolvedPath, ok := r.tryResolve(target)
		if !ok {
			continue
		}
		source, err := r.fs.Open(resolvedPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open file %s: %w", resolvedPath, err)
		}
		return &ResolvedModule{
			Specifier:    specifier,
			ResolvedPath: resolvedPath,
			Source:       source,
			FS:           r.fs,
			Resolver:     r.name,
		}, nil
	}
	return nil, fmt.Errorf("failed to resolve %s: module not found", specifier)
}

// targetPaths calculates the candidate base paths of a specifier
func (r *FileSystemResolver) targetPaths(specifier string, fromPath string) ([]string, error) {
	if isRelative(specifier) || strings.HasPrefix(specifier, "/") {
		target, err := joinSpecifier(specifier, fromPath)
		if err != nil {
			return nil, err
		}
		return []string{target}, nil
	}
	for _, m := range r.paths {
		star, ok := m.match(specifier)
		if !ok {
			continue
		}
		out := make([]string, 0, len(m.Targets))
		for _, t := range m.Targets {
			out = append(out, path.Clean(strings.Replace(t, "*", star, 1)))
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported specifier format: %s", specifier)
}

// tryResolve attempts to resolve a path with various strategies
func (r *FileSystemResolver) tryResolve(targetPath string) (string, bool) {
	for _, candidate := range candidatePaths(targetPath, r.extensions, r.indexFiles) {
		if r.isFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// isFile checks if a path exists and is a file (not a directory)
func (r *FileSystemResolver) isFile(name string) bool {
	if !fs.ValidPath(name) {
		return false
	}
	info, err := fs.Stat(r.fs, name)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// fsWrapper wraps a generic fs.FS to implement ModuleFS
type fsWrapper struct {
	fs.FS
}

func (w *fsWrapper) ReadFile(name string) ([]byte, error) {
	if rfs, ok := w.FS.(fs.ReadFileFS); ok {
		return rfs.ReadFile(name)
	}

	// Fallback implementation
	file, err := w.FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}
