package catalog

import "fmt"

// DeleteError reports the first physical path that could not be removed
// while deleting an item. Later paths are attempted best-effort, but the
// first failure aborts the delete so the catalog row is kept and the
// operation can be retried.
type DeleteError struct {
	Path string
	Err  error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("deleting %s: %v", e.Path, e.Err)
}

func (e *DeleteError) Unwrap() error {
	return e.Err
}
