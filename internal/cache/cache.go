package cache

// Cache defines a generic cache interface
type Cache[T any] interface {
	// Get retrieves a value from the cache
	Get(key string) (T, bool)

	// Set stores a value in the cache
	Set(key string, data T)

	// Delete removes a key from the cache
	Delete(key string)

	// Purge drops every entry
	Purge()

	// Size returns the current number of items in the cache
	Size() int
}

// Disabled is a Cache that never holds anything.
type Disabled[T any] struct{}

func (Disabled[T]) Get(string) (T, bool) {
	var zero T
	return zero, false
}
func (Disabled[T]) Set(string, T) {}
func (Disabled[T]) Delete(string) {}
func (Disabled[T]) Purge() {}
func (Disabled[T]) Size() int { return 0 }
