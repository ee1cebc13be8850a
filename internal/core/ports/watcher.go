package ports

import "context"

// Watcher defines the interface for watching component files for changes.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Watch observes the given directories until ctx is cancelled, calling
	// onChange with each debounced batch of changed file paths.
	Watch(ctx context.Context, dirs []string, onChange func(paths []string)) error
}
