package assets

// Built-in style names.
const (
	DefaultStyleName  = "default"
	AcademicStyleName = "academic"
)

// AssetLoader loads CSS styles by name.
// Implementations may load from embedded assets, filesystem, S3, database, etc.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)
}

var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a built-in style using the embedded loader.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}
