package repository

import (
	"context"
	"errors"
)

// ErrStopIteration ends a ForEachName scan early. The scan then returns nil.
var ErrStopIteration = errors.New("repository: stop iteration")

// NameRepository is the authoritative set of claimed names. Names are unique
// by exact byte equality.
type NameRepository interface {
	// ForEachName calls fn once per stored name, in no particular order.
	// Each call starts a fresh scan. A non-nil error from fn stops the scan
	// and is returned, except ErrStopIteration which yields nil.
	ForEachName(ctx context.Context, fn func(name string) error) error

	// InsertIfAbsent stores name unless it is already present and reports
	// whether a row was written.
	InsertIfAbsent(ctx context.Context, name string) (bool, error)

	// InsertManyIfAbsent is the bulk form of InsertIfAbsent and returns the
	// number of rows written.
	InsertManyIfAbsent(ctx context.Context, names []string) (int, error)

	// CountNames returns how many names are stored.
	CountNames(ctx context.Context) (int64, error)
}

// stopped maps ErrStopIteration to a clean end of scan.
func stopped(err error) error {
	if errors.Is(err, ErrStopIteration) {
		return nil
	}
	return err
}
