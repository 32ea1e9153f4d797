package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// DictionaryState reports the morphological dictionary loader state.
type DictionaryState interface {
	State() (string, error)
}
