// Package watch re-runs analysis when CQL files change on disk.
//
// A FileWatcher follows a single file or a directory tree. Bursts of
// events for the same file, such as an editor's truncate-then-write save,
// are collapsed by a per-file Debouncer into one callback.
//
//	w, err := watch.NewFileWatcher(&watch.Config{Path: "measures"}, logger)
//	if err != nil {
//		return err
//	}
//	defer w.Stop()
//	return w.Watch(ctx, func(path string) error {
//		return lint(path)
//	})
package watch
