package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewAssetResolver(t *testing.T) {
	t.Parallel()

	t.Run("empty path uses embedded only", func(t *testing.T) {
		t.Parallel()

		resolver, err := NewAssetResolver("")
		if err != nil {
			t.Fatalf("NewAssetResolver(\"\") error = %v", err)
		}
		if resolver == nil {
			t.Fatal("NewAssetResolver() returned nil")
		}
		if resolver.HasCustomLoader() {
			t.Error("expected no custom loader for empty path")
		}
	})

	t.Run("valid custom path", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()

		resolver, err := NewAssetResolver(tmpDir)
		if err != nil {
			t.Fatalf("NewAssetResolver() error = %v", err)
		}
		if !resolver.HasCustomLoader() {
			t.Error("expected custom loader for valid path")
		}
	})

	t.Run("invalid custom path returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewAssetResolver("/nonexistent/path/abc123xyz")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewAssetResolver() error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestAssetResolver_LoadStyle_EmbeddedOnly(t *testing.T) {
	t.Parallel()

	resolver, err := NewAssetResolver("")
	if err != nil {
		t.Fatalf("NewAssetResolver() error = %v", err)
	}

	t.Run("loads embedded style", func(t *testing.T) {
		t.Parallel()

		got, err := resolver.LoadStyle("academic")
		if err != nil {
			t.Fatalf("LoadStyle() error = %v", err)
		}
		if got == "" {
			t.Error("LoadStyle() returned empty content")
		}
	})

	t.Run("returns error for nonexistent", func(t *testing.T) {
		t.Parallel()

		_, err := resolver.LoadStyle("nonexistent-xyz")
		if !errors.Is(err, ErrStyleNotFound) {
			t.Errorf("LoadStyle() error = %v, want ErrStyleNotFound", err)
		}
	})
}

func TestAssetResolver_LoadStyle_CustomWithFallback(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	stylesDir := filepath.Join(tmpDir, "styles")
	if err := os.MkdirAll(stylesDir, 0755); err != nil {
		t.Fatalf("failed to create styles dir: %v", err)
	}

	// Create a custom style
	customCSS := "/* custom style */"
	if err := os.WriteFile(filepath.Join(stylesDir, "mystyle.css"), []byte(customCSS), 0644); err != nil {
		t.Fatalf("failed to write CSS file: %v", err)
	}

	resolver, err := NewAssetResolver(tmpDir)
	if err != nil {
		t.Fatalf("NewAssetResolver() error = %v", err)
	}

	t.Run("loads custom style when available", func(t *testing.T) {
		t.Parallel()

		got, err := resolver.LoadStyle("mystyle")
		if err != nil {
			t.Fatalf("LoadStyle() error = %v", err)
		}
		if got != customCSS {
			t.Errorf("LoadStyle() = %q, want %q", got, customCSS)
		}
	})

	t.Run("falls back to embedded when custom not found", func(t *testing.T) {
		t.Parallel()

		got, err := resolver.LoadStyle("academic")
		if err != nil {
			t.Fatalf("LoadStyle() error = %v", err)
		}
		if got == "" {
			t.Error("LoadStyle() returned empty content from fallback")
		}
	})

	t.Run("returns error when neither has style", func(t *testing.T) {
		t.Parallel()

		_, err := resolver.LoadStyle("nonexistent-xyz")
		if !errors.Is(err, ErrStyleNotFound) {
			t.Errorf("LoadStyle() error = %v, want ErrStyleNotFound", err)
		}
	})
}

func TestAssetResolver_LoadStyle_CustomOverridesEmbedded(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	stylesDir := filepath.Join(tmpDir, "styles")
	if err := os.MkdirAll(stylesDir, 0755); err != nil {
		t.Fatalf("failed to create styles dir: %v", err)
	}

	// Create a custom style with the same name as an embedded one
	customCSS := "/* CUSTOM OVERRIDE of academic */"
	if err := os.WriteFile(filepath.Join(stylesDir, "academic.css"), []byte(customCSS), 0644); err != nil {
		t.Fatalf("failed to write CSS file: %v", err)
	}

	resolver, err := NewAssetResolver(tmpDir)
	if err != nil {
		t.Fatalf("NewAssetResolver() error = %v", err)
	}

	got, err := resolver.LoadStyle("academic")
	if err != nil {
		t.Fatalf("LoadStyle() error = %v", err)
	}
	if got != customCSS {
		t.Errorf("LoadStyle() = %q, want custom override %q", got, customCSS)
	}
}

func TestAssetResolver_ValidationErrorsNotFallenBack(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	resolver, err := NewAssetResolver(tmpDir)
	if err != nil {
		t.Fatalf("NewAssetResolver() error = %v", err)
	}

	t.Run("style validation error not fallen back", func(t *testing.T) {
		t.Parallel()

		_, err := resolver.LoadStyle("../secret")
		if !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("LoadStyle() error = %v, want ErrInvalidAssetName (no fallback)", err)
		}
	})
}

func TestAssetResolver_HasCustomLoader(t *testing.T) {
	t.Parallel()

	t.Run("false when no custom path", func(t *testing.T) {
		t.Parallel()

		resolver, _ := NewAssetResolver("")
		if resolver.HasCustomLoader() {
			t.Error("HasCustomLoader() = true, want false")
		}
	})

	t.Run("true when custom path set", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		resolver, _ := NewAssetResolver(tmpDir)
		if !resolver.HasCustomLoader() {
			t.Error("HasCustomLoader() = false, want true")
		}
	})
}

func TestAssetResolver_ImplementsAssetLoader(t *testing.T) {
	t.Parallel()

	var _ AssetLoader = (*AssetResolver)(nil)
}
