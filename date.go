package mathdoc

import (
	"time"

	"github.com/alnah/go-mathdoc/internal/dateutil"
)

// ResolveDate expands "auto" and "auto:FORMAT" footer dates against t.
// Presets (iso, european, us, long, academic) are accepted after "auto:". Any other
// value is returned unchanged.
func ResolveDate(value string, t time.Time) (string, error) {
	return dateutil.ResolveDate(value, t)
}
