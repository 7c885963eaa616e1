package platform

import (
	"context"

	"github.com/Masterminds/semver/v3"
	"github.com/zxqfox/enb/internal/enberr"
	"github.com/zxqfox/enb/internal/version"
)

// makeNamespace is the reserved cache namespace for the platform's own
// bookkeeping.
const makeNamespace = ":make"

// LoadCache loads the storage from disk and drops it if mode, tool
// version, or any tracked makefile mtime has changed since the last
// save.
func (p *Platform) LoadCache(ctx context.Context) error {
	if err := p.requireNotDestructed(); err != nil {
		return err
	}
	if err := p.cacheStorage.Load(ctx); err != nil {
		return enberr.New(err, enberr.ConfigDirNotFound, map[string]any{"op": "loadCache"})
	}

	if p.cacheInvalid(ctx) {
		p.deps.Metrics.IncCacheDrop()
		return p.cacheStorage.Drop(ctx)
	}
	return nil
}

func (p *Platform) cacheInvalid(ctx context.Context) bool {
	storedMode, ok, err := p.cacheStorage.Get(ctx, makeNamespace, "mode")
	if err != nil || !ok || storedMode != p.mode {
		return true
	}
	storedVersion, ok, err := p.cacheStorage.Get(ctx, makeNamespace, "version")
	if err != nil || !ok || !versionsEqual(storedVersion, version.Current) {
		return true
	}
	storedFiles, ok, err := p.cacheStorage.Get(ctx, makeNamespace, "makefiles")
	if err != nil || !ok {
		return true
	}
	storedMap, ok := toInt64Map(storedFiles)
	if !ok {
		return true
	}
	// Only iterate over currently existing makefiles: a deleted rule file
	// is silently dropped from the tracked set rather than forcing a
	// rebuild (spec.md §9 open question, resolved literally).
	current := p.makefileMTimes()
	for path, mtime := range current {
		if storedMap[path] != mtime {
			return true
		}
	}
	return false
}

// versionsEqual compares the stored cache version against the running
// tool version as semver when both parse cleanly, falling back to a raw
// string comparison for non-semver version strings (e.g. "dev" builds),
// so a cache saved by "1.2.3" and loaded by "1.2.3+build.4" is still
// considered current.
func versionsEqual(stored any, current string) bool {
	storedStr, ok := stored.(string)
	if !ok {
		return false
	}
	if storedStr == current {
		return true
	}
	storedVer, err1 := semver.NewVersion(storedStr)
	currentVer, err2 := semver.NewVersion(current)
	if err1 != nil || err2 != nil {
		return false
	}
	return storedVer.Equal(currentVer)
}

// toInt64Map normalizes the value returned from cache storage (which may
// have round-tripped through JSON as float64) into map[string]int64.
func toInt64Map(v any) (map[string]int64, bool) {
	switch m := v.(type) {
	case map[string]int64:
		return m, true
	case map[string]any:
		result := make(map[string]int64, len(m))
		for k, raw := range m {
			switch n := raw.(type) {
			case int64:
				result[k] = n
			case float64:
				result[k] = int64(n)
			default:
				return nil, false
			}
		}
		return result, true
	default:
		return nil, false
	}
}

// SaveCache writes mode, tool version, and makefile mtimes into the
// reserved namespace, then persists the storage.
func (p *Platform) SaveCache(ctx context.Context) error {
	if err := p.requireNotDestructed(); err != nil {
		return err
	}
	if err := p.cacheStorage.Set(ctx, makeNamespace, "mode", p.mode); err != nil {
		return err
	}
	if err := p.cacheStorage.Set(ctx, makeNamespace, "version", version.Current); err != nil {
		return err
	}
	if err := p.cacheStorage.Set(ctx, makeNamespace, "makefiles", p.makefileMTimes()); err != nil {
		return err
	}
	return p.cacheStorage.Save(ctx)
}

// DropCache wipes the storage unconditionally.
func (p *Platform) DropCache(ctx context.Context) error {
	if err := p.requireNotDestructed(); err != nil {
		return err
	}
	return p.cacheStorage.Drop(ctx)
}
