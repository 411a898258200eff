// Package assets provides the CSS styles applied on the page output path.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in styles compiled into the binary
//	    ├── FilesystemLoader  - styles from a custom directory on disk
//	    └── AssetResolver     - custom first, embedded fallback
//
// The built-in styles are "default" (sans-serif, screen friendly) and
// "academic" (serif, paper oriented). Both style the formula classes emitted by
// the renderer: .math-display, .math-inline and .math-fallback.
//
// # Directory Structure
//
//	{basePath}/
//	└── styles/
//	    └── {name}.css
//
// # Security
//
// Style names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within basePath.
package assets
