package modules

import (
	"io"
	"testing"
)

func TestMemoryResolverBasic(t *testing.T) {
	resolver := NewMemoryResolver("TestMemory")

	if resolver.Name() != "TestMemory" {
		t.Errorf("Expected name 'TestMemory', got '%s'", resolver.Name())
	}

	if resolver.Priority() != 50 {
		t.Errorf("Expected priority 50, got %d", resolver.Priority())
	}

	resolver.AddModule("./greet.ts", "export function greet(name: string): string { return name; }")
	modules := resolver.ListModules()
	if len(modules) != 1 || modules[0] != "greet.ts" {
		t.Errorf("Expected [greet.ts], got %v", modules)
	}
	if resolver.GetModule("greet.ts") == nil {
		t.Error("Expected to find module, got nil")
	}
}

func TestMemoryResolverResolve(t *testing.T) {
	resolver := NewMemoryResolver("")
	resolver.AddModule("src/main.ts", "")
	resolver.AddModule("src/util.ts", "export const u = 1;")
	resolver.AddModule("src/lib/index.ts", "export const l = 1;")
	resolver.AddModule("src/legacy.js", "module.exports = {};")
	resolver.AddModule("src/types.d.ts", "export interface T {}")
	resolver.AddModule("shared/consts.ts", "export const c = 1;")

	tests := []struct {
		specifier string
		from      string
		want      string
	}{
		{"./util", "src/main.ts", "src/util.ts"},
		{"./util.ts", "src/main.ts", "src/util.ts"},
		{"./util.js", "src/main.ts", "src/util.ts"},
		{"./lib", "src/main.ts", "src/lib/index.ts"},
		{"./legacy", "src/main.ts", "src/legacy.js"},
		{"./types", "src/main.ts", "src/types.d.ts"},
		{"../shared/consts", "src/main.ts", "shared/consts.ts"},
		{"/shared/consts", "src/main.ts", "shared/consts.ts"},
		{"./src/util", "", "src/util.ts"},
	}

	for _, tt := range tests {
		resolved, err := resolver.Resolve(tt.specifier, tt.from)
		if err != nil {
			t.Errorf("Resolve(%q, %q): unexpected error %v", tt.specifier, tt.from, err)
			continue
		}
		if resolved.ResolvedPath != tt.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tt.specifier, tt.from, resolved.ResolvedPath, tt.want)
		}
		content, _ := io.ReadAll(resolved.Source)
		resolved.Source.Close()
		if want := resolver.GetModule(tt.want).Content; string(content) != want {
			t.Errorf("Resolve(%q): content %q, want %q", tt.specifier, content, want)
		}
	}
}

func TestMemoryResolverErrors(t *testing.T) {
	resolver := NewMemoryResolver("")
	resolver.AddModule("a.ts", "")

	if _, err := resolver.Resolve("./missing", "a.ts"); err == nil {
		t.Error("Expected error for missing module")
	}
	if _, err := resolver.Resolve("../up", ""); err == nil {
		t.Error("Expected error for parent-relative import without fromPath")
	}
	if resolver.CanResolve("lodash") {
		t.Error("Bare specifiers without a stored module should not be resolvable")
	}
	resolver.AddModule("lodash/index.ts", "")
	if !resolver.CanResolve("lodash") {
		t.Error("Expected bare specifier to resolve to stored index module")
	}
	resolver.RemoveModule("lodash/index.ts")
	if resolver.CanResolve("lodash") {
		t.Error("Removed module should no longer resolve")
	}
}
