package modules

import (
	"testing"
	"time"
)

func TestRegistryBasicOperations(t *testing.T) {
	registry := NewRegistry(DefaultLoaderConfig())

	// Test initial state
	if registry.Size() != 0 {
		t.Errorf("Expected empty registry, got size %d", registry.Size())
	}

	record := &ModuleRecord{
		Specifier:    "./test",
		ResolvedPath: "src/test.ts",
		State:        ModuleChecked,
		LoadTime:     time.Now(),
	}
	registry.Set("src/test.ts", record)

	if registry.Size() != 1 {
		t.Errorf("Expected registry size 1, got %d", registry.Size())
	}
	if got := registry.Get("src/test.ts"); got != record {
		t.Errorf("Expected stored record, got %v", got)
	}
	if registry.Get("src/nonexistent.ts") != nil {
		t.Error("Expected nil for non-existent module, got record")
	}

	stats := registry.GetStats()
	if stats.CacheHits != 1 || stats.CacheMisses != 1 {
		t.Errorf("Expected 1 hit and 1 miss, got %d/%d", stats.CacheHits, stats.CacheMisses)
	}
	if stats.LoadedModules != 1 || stats.TotalModules != 1 {
		t.Errorf("Unexpected stats %+v", stats)
	}

	registry.Remove("src/test.ts")
	if registry.Size() != 0 {
		t.Errorf("Expected empty registry after remove, got %d", registry.Size())
	}
	if stats := registry.GetStats(); stats.TotalModules != 0 || stats.LoadedModules != 0 {
		t.Errorf("Stats not updated on remove: %+v", stats)
	}
}

func TestRegistryReplaceAndList(t *testing.T) {
	registry := NewRegistry(nil)
	registry.Set("b.ts", &ModuleRecord{State: ModuleError})
	registry.Set("a.ts", &ModuleRecord{State: ModuleChecked})
	registry.Set("b.ts", &ModuleRecord{State: ModuleChecked})

	list := registry.List()
	if len(list) != 2 || list[0] != "a.ts" || list[1] != "b.ts" {
		t.Errorf("Expected sorted [a.ts b.ts], got %v", list)
	}
	stats := registry.GetStats()
	if stats.TotalModules != 2 || stats.LoadedModules != 2 || stats.FailedModules != 0 {
		t.Errorf("Unexpected stats after replace: %+v", stats)
	}

	registry.Clear()
	if registry.Size() != 0 {
		t.Errorf("Expected empty registry after clear, got %d", registry.Size())
	}
}

func TestRegistryEviction(t *testing.T) {
	registry := NewRegistry(&LoaderConfig{CacheSize: 2})
	base := time.Now()
	registry.Set("old.ts", &ModuleRecord{LoadTime: base})
	registry.Set("mid.ts", &ModuleRecord{LoadTime: base.Add(time.Second)})
	registry.Set("new.ts", &ModuleRecord{LoadTime: base.Add(2 * time.Second)})

	if registry.Size() != 2 {
		t.Fatalf("Expected size 2, got %d", registry.Size())
	}
	if registry.Get("old.ts") != nil {
		t.Error("Expected oldest module to be evicted")
	}
	if registry.Get("new.ts") == nil || registry.Get("mid.ts") == nil {
		t.Error("Expected newer modules to remain")
	}
}
