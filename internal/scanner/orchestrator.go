package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"media-catalog/internal/catalog"
	"media-catalog/internal/images"
	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"
)

// Progress is split between the recursive validation and the post-scan
// tasks that run after it.
const (
	progressScanShare = 96.0
	progressTaskShare = 4.0
)

// ValidateLibrary runs a full validation of the physical root: a
// shallow refresh of the collection folders, a recursive walk of their
// contents, and the post-scan tasks. Only one validation runs at a
// time; a second call while one is in flight is a no-op. Cancellation
// aborts the run and propagates; any other per-folder failure is
// logged and the run continues.
func (m *Manager) ValidateLibrary(ctx context.Context) error {
	m.mu.Lock()
	if m.scanning {
		m.mu.Unlock()
		logging.Info("Library validation already running, skipping")
		return nil
	}
	m.scanning = true
	m.mu.Unlock()

	metrics.ScanRunsTotal.Inc()
	metrics.ScanRunning.Set(1)
	defer func() {
		m.mu.Lock()
		m.scanning = false
		m.mu.Unlock()
		metrics.ScanRunning.Set(0)
	}()

	if m.monitor != nil {
		m.monitor.Suspend()
		defer m.monitor.Resume()
	}

	start := time.Now()
	logging.Info("Starting library validation of %s", m.root)
	m.reportProgress(0)

	err := m.validate(ctx)

	elapsed := time.Since(start)
	metrics.ScanLastRunTimestamp.Set(float64(time.Now().Unix()))
	metrics.ScanLastRunDuration.Set(elapsed.Seconds())

	if err != nil {
		logging.Warn("Library validation aborted after %s: %v", elapsed.Round(time.Millisecond), err)
		return err
	}
	m.reportProgress(100)
	logging.Info("Library validation completed in %s", elapsed.Round(time.Millisecond))
	return nil
}

func (m *Manager) validate(ctx context.Context) error {
	rootEntry, err := m.fs.GetDirectoryInfo(m.root)
	if err != nil {
		return fmt.Errorf("library root %s: %w", m.root, err)
	}

	rootItem := &catalog.Item{
		Kind: catalog.KindFolder,
		Name: rootEntry.Name,
		Path: rootEntry.Path,
	}
	m.setInitialValues(rootItem, rootEntry, nil)

	entries, err := m.enumerate(m.root, levelRoot)
	if errors.Is(err, errRootUnavailable) {
		// Keep the stored catalog rather than treating every item as
		// vanished because the root happens to be unreachable.
		logging.Warn("Library root %s unavailable, keeping existing catalog", m.root)
		return nil
	}
	if err != nil {
		return err
	}
	if hasIgnoreSentinel(entries) {
		logging.Info("Library root %s carries %s, validating as empty", m.root, IgnoreSentinel)
		entries = nil
	}

	// Shallow refresh of the top level before descending, so the
	// collection folders exist even if the deep walk is cancelled.
	resolved := m.ResolveChildren(ctx, rootItem, entries)
	if err := m.applyDiff(ctx, rootItem, resolved); err != nil {
		return err
	}

	var topFolders []*catalog.Item
	for _, item := range resolved {
		if item.IsFolder() {
			topFolders = append(topFolders, item)
		}
	}

	if err := m.validateTopFolders(ctx, topFolders); err != nil {
		return err
	}
	return m.runPostScanTasks(ctx)
}

// validateTopFolders walks every collection folder's subtree and drives
// the scan share of the progress gauge. Finished folders count whole;
// the folder currently being walked contributes the fraction of its
// direct children already done.
func (m *Manager) validateTopFolders(ctx context.Context, folders []*catalog.Item) error {
	if len(folders) == 0 {
		m.reportProgress(progressScanShare)
		return nil
	}
	total := float64(len(folders))

	var mu sync.Mutex
	completed := 0.0
	fracs := make(map[string]float64, len(folders))

	// Held across the report so concurrent walkers cannot deliver a
	// later percentage before an earlier one.
	publish := func() {
		mu.Lock()
		defer mu.Unlock()
		sum := completed
		for _, f := range fracs {
			sum += f
		}
		m.reportProgress(progressScanShare * sum / total)
	}

	return m.runFolders(ctx, folders, func(f *catalog.Item) error {
		err := m.validateFolder(ctx, f, func(frac float64) {
			mu.Lock()
			fracs[f.ID] = frac
			mu.Unlock()
			publish()
		})
		mu.Lock()
		delete(fracs, f.ID)
		completed++
		mu.Unlock()
		publish()
		return err
	})
}

// validateFolder refreshes one folder's children against the
// filesystem, then recurses into its child folders. progress, when
// set, receives the fraction of direct child folders whose subtrees
// have finished.
func (m *Manager) validateFolder(ctx context.Context, folder *catalog.Item, progress func(frac float64)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	metrics.ScanFoldersValidated.Inc()

	entries, err := m.enumerate(folder.Path, levelForItem(folder))
	if err != nil {
		return err
	}
	if hasIgnoreSentinel(entries) {
		logging.Info("%s carries %s, dropping its children", folder.Path, IgnoreSentinel)
		entries = nil
	}

	resolved := m.ResolveChildren(ctx, folder, entries)
	metrics.ScanItemsValidated.Add(float64(len(resolved)))

	if err := m.applyDiff(ctx, folder, resolved); err != nil {
		return err
	}

	var folders []*catalog.Item
	for _, item := range resolved {
		if item.IsFolder() {
			folders = append(folders, item)
		}
	}

	run := func(f *catalog.Item) error {
		return m.validateFolder(ctx, f, nil)
	}
	if progress != nil && len(folders) > 0 {
		childTotal := float64(len(folders))
		var done int64
		run = func(f *catalog.Item) error {
			err := m.validateFolder(ctx, f, nil)
			progress(float64(atomic.AddInt64(&done, 1)) / childTotal)
			return err
		}
	}
	return m.runFolders(ctx, folders, run)
}

// runFolders runs one function per folder with bounded parallelism.
// When the worker pool is saturated the calling goroutine recurses
// inline instead of blocking on a slot, so nested validation can never
// deadlock the pool. Non-cancellation failures are logged and counted;
// the first cancellation is returned after every folder has been
// attempted.
func (m *Manager) runFolders(ctx context.Context, folders []*catalog.Item, run func(*catalog.Item) error) error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var cancelErr error

	record := func(folder *catalog.Item, err error) {
		if err == nil {
			return
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			mu.Lock()
			if cancelErr == nil {
				cancelErr = err
			}
			mu.Unlock()
			return
		}
		logging.Warn("Validating %s failed: %v", folder.Path, err)
		metrics.ScanErrors.Inc()
	}

	for _, folder := range folders {
		select {
		case m.sem <- struct{}{}:
			wg.Add(1)
			go func(f *catalog.Item) {
				defer wg.Done()
				defer func() { <-m.sem }()
				record(f, run(f))
			}(folder)
		default:
			record(folder, run(folder))
		}
	}

	wg.Wait()
	mu.Lock()
	defer mu.Unlock()
	return cancelErr
}

// applyDiff reconciles a folder's resolved children with the
// repository: new items are saved, queued for refresh, and announced;
// changed items are updated; items no longer on disk are removed with
// their descendants. The folder itself is saved last with its child
// list rebuilt.
func (m *Manager) applyDiff(ctx context.Context, folder *catalog.Item, resolved []*catalog.Item) error {
	existing, err := m.repo.Query(ctx, catalog.Filter{ParentID: folder.ID, IncludeVirtual: true})
	if err != nil {
		return fmt.Errorf("querying children of %s: %w", folder.Path, err)
	}

	existingByID := make(map[string]*catalog.Item, len(existing))
	for _, it := range existing {
		existingByID[it.ID] = it
	}

	resolvedByID := make(map[string]*catalog.Item, len(resolved))
	folder.ChildIDs = nil
	var toSave []*catalog.Item

	for _, item := range resolved {
		resolvedByID[item.ID] = item
		if item.ExtraKind == "" {
			folder.AddChild(item.ID)
		}

		prev := existingByID[item.ID]
		switch {
		case prev == nil:
			toSave = append(toSave, item)
			m.cache.Register(item)
			m.notifyAdded(item)
			m.queueRefresh(item)
		case m.itemChanged(item, prev):
			item.DateCreated = prev.DateCreated
			toSave = append(toSave, item)
			m.cache.Register(item)
			m.notifyUpdated(item)
		default:
			item.DateCreated = prev.DateCreated
			m.cache.Register(item)
		}
	}

	for _, prev := range existing {
		if _, ok := resolvedByID[prev.ID]; ok {
			continue
		}
		if err := m.RemoveItem(ctx, prev); err != nil {
			logging.Warn("Removing vanished %s: %v", prev.Path, err)
			metrics.ScanErrors.Inc()
		}
	}

	toSave = append(toSave, folder)
	if err := m.repo.SaveItems(ctx, toSave); err != nil {
		return fmt.Errorf("saving children of %s: %w", folder.Path, err)
	}
	m.cache.Register(folder)
	return nil
}

// itemChanged reports whether a freshly resolved item differs from its
// stored counterpart enough to warrant a save.
func (m *Manager) itemChanged(item, prev *catalog.Item) bool {
	return item.Kind != prev.Kind ||
		item.Name != prev.Name ||
		item.Size != prev.Size ||
		!item.DateModified.Equal(prev.DateModified) ||
		len(item.Images) != len(prev.Images) ||
		len(item.PartPaths) != len(prev.PartPaths) ||
		len(item.AlternatePaths) != len(prev.AlternatePaths)
}

// queueRefresh enqueues newly discovered media for provider refresh.
// Plain folders and extras are skipped.
func (m *Manager) queueRefresh(item *catalog.Item) {
	if m.refresh == nil || item.ExtraKind != "" {
		return
	}
	priority := catalog.RefreshNormal
	switch item.Kind {
	case catalog.KindSeries:
		priority = catalog.RefreshHigh
	case catalog.KindMovie, catalog.KindSeason, catalog.KindEpisode, catalog.KindAudio, catalog.KindVideo:
	default:
		return
	}
	m.refresh.QueueRefresh(item.ID, catalog.RefreshOptions{
		MetadataRefresh: catalog.RefreshDefault,
		ImageRefresh:    catalog.RefreshDefault,
	}, priority)
}

// runPostScanTasks runs the tasks that follow the recursive walk. Each
// task advances progress by an equal slice of the post-scan share.
func (m *Manager) runPostScanTasks(ctx context.Context) error {
	tasks := []struct {
		name string
		run  func(context.Context) error
	}{
		{"inherited values", m.taskInheritedValues},
		{"artwork dimensions", m.taskProbeArtwork},
		{"refresh queue", m.taskLogRefreshQueue},
	}

	for i, task := range tasks {
		if err := task.run(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			logging.Warn("Post-scan task %q failed: %v", task.name, err)
			metrics.ScanErrors.Inc()
		}
		m.reportProgress(progressScanShare + progressTaskShare*float64(i+1)/float64(len(tasks)))
	}
	return nil
}

func (m *Manager) taskInheritedValues(ctx context.Context) error {
	return m.repo.UpdateInheritedValues(ctx)
}

// taskProbeArtwork fills in dimensions for artwork discovered during
// the walk. Probe failures leave the image in place with no dimensions.
func (m *Manager) taskProbeArtwork(ctx context.Context) error {
	kinds := []catalog.Kind{
		catalog.KindCollection, catalog.KindFolder, catalog.KindSeries,
		catalog.KindSeason, catalog.KindMovie, catalog.KindEpisode,
		catalog.KindVideo,
	}
	items, err := m.repo.Query(ctx, catalog.Filter{Kinds: kinds})
	if err != nil {
		return fmt.Errorf("querying items for artwork probe: %w", err)
	}

	var changed []*catalog.Item
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		dirty := false
		for i := range item.Images {
			img := &item.Images[i]
			if img.Width > 0 || img.Path == "" {
				continue
			}
			w, h, err := images.ProbeDimensions(img.Path)
			if err != nil {
				logging.Debug("Probing %s: %v", img.Path, err)
				continue
			}
			img.Width, img.Height = w, h
			dirty = true
		}
		if dirty {
			changed = append(changed, item)
		}
	}

	if len(changed) == 0 {
		return nil
	}
	logging.Info("Probed artwork dimensions for %d items", len(changed))
	return m.repo.SaveItems(ctx, changed)
}

func (m *Manager) taskLogRefreshQueue(_ context.Context) error {
	if m.refresh == nil {
		return nil
	}
	if n := len(m.refresh.RefreshQueue()); n > 0 {
		logging.Info("%d items queued for provider refresh", n)
	}
	return nil
}

// levelForItem mirrors levelFor for an already-resolved folder item.
func levelForItem(item *catalog.Item) enumLevel {
	switch {
	case item.ParentID == "":
		return levelRoot
	case item.Kind == catalog.KindCollection:
		return levelCollection
	default:
		return levelPlain
	}
}

func (m *Manager) reportProgress(percent float64) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	metrics.ScanProgress.Set(percent)
	if m.progress != nil {
		m.progress(percent)
	}
}
