package acorn

import (
	"fmt"
	"strings"

	"go.trai.ch/zerr"
)

var (
	// ErrConfiguration is raised when a validation graph is wired incorrectly:
	// a flag with two producers, a dependency cycle, or a node added while the
	// graph is validating. It always panics.
	ErrConfiguration = zerr.New("validation graph misconfigured")

	// ErrKeyNotFound is returned by Cache.RefInc when the key is not cached.
	ErrKeyNotFound = zerr.New("cache key not found")

	// ErrUnbalanced is raised when RefDec is called on an entry with no
	// outstanding references. It always panics.
	ErrUnbalanced = zerr.New("refInc / refDec pairs are unbalanced")

	// ErrAlreadyDisposed is raised when a single-shot resource such as a
	// CachedGroup is disposed twice. It always panics.
	ErrAlreadyDisposed = zerr.New("already disposed")

	// ErrAssetType is returned when a cached asset has a different type than
	// the loader expects.
	ErrAssetType = zerr.New("cached asset has unexpected type")

	// ErrInvalidConfig is returned when a decoded Config fails validation.
	ErrInvalidConfig = zerr.New("invalid configuration")
)

// InvalidConfig returns ErrInvalidConfig annotated with key=value pairs
// naming the offending fields.
func InvalidConfig(kv ...any) error {
	return annotate(ErrInvalidConfig, kv...)
}

// annotate wraps err with key=value detail pairs, keeping err reachable
// through errors.Is.
func annotate(err error, kv ...any) error {
	if len(kv) < 2 {
		return err
	}
	var b strings.Builder
	for i := 0; i+1 < len(kv); i += 2 {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%v=%v", kv[i], kv[i+1])
	}
	return fmt.Errorf("%w (%s)", err, b.String())
}

// fail panics with annotate(err, kv...). The panic value is an error so
// recover() callers can test it with errors.Is.
func fail(err error, kv ...any) {
	panic(annotate(err, kv...))
}
