package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/funcspot/internal/contract"
	"github.com/huangsam/funcspot/schema"
)

// currentCacheVersion defines the version of the cached per-file walks.
// Bump it whenever span extraction or correlation semantics change.
const currentCacheVersion = 1

// cacheMaxAge bounds how long a cached file walk stays valid.
const cacheMaxAge = 7 * 24 * time.Hour

// cachedCorrelateFile wraps correlateFile with the activity cache. The
// key pins the ref and the file's newest commit under it, so new
// commits to the file or a different ref bound miss naturally. The
// second return reports a hit.
func cachedCorrelateFile(ctx context.Context, cfg *contract.Config, client contract.GitClient, parser contract.FuncParser, mgr contract.CacheManager, path, ref string) (schema.FileFuncResult, bool) {
	activity := mgr.GetActivityStore()
	if activity == nil {
		// Fallback to direct computation
		return correlateFile(ctx, client, parser, cfg.RepoPath, path, ref), false
	}

	shas, err := client.FileCommitHistory(ctx, cfg.RepoPath, path, ref)
	if err != nil {
		return schema.FileFuncResult{Path: path, Err: err}, false
	}
	if len(shas) == 0 {
		return schema.FileFuncResult{Path: path}, false
	}

	key := fileCacheKey(cfg.RepoPath, path, ref, shas[0])

	// Check for cache hit
	if result := checkCacheHit(activity, key); result != nil {
		return *result, true
	}

	// Cache miss: compute and store
	result := correlateCommits(ctx, client, parser, cfg.RepoPath, path, shas)
	if result.Err == nil {
		storeFileResult(activity, key, &result)
	}
	return result, false
}

// checkCacheHit attempts to retrieve and validate a cached result
func checkCacheHit(activity contract.CacheStore, key string) *schema.FileFuncResult {
	data, version, ts, err := activity.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version == currentCacheVersion {
		entryTimestamp := time.Unix(ts, 0)
		if time.Since(entryTimestamp) <= cacheMaxAge {
			var result schema.FileFuncResult
			if err := json.Unmarshal(data, &result); err == nil {
				return &result // Cache hit
			}
		}
	}

	return nil // Cache miss (stale or version mismatch)
}

// storeFileResult persists a freshly computed walk. Failures are
// ignored: the cache is an accelerator, never a source of truth.
func storeFileResult(activity contract.CacheStore, key string, result *schema.FileFuncResult) {
	if data, err := json.Marshal(result); err == nil {
		_ = activity.Set(key, data, currentCacheVersion, time.Now().Unix())
	}
}

// fileCacheKey derives a unique key for one file walk from the repo
// path, the file path, the ref bounding the walk and the newest commit
// touching the file. The ref matters on its own: two refs can share the
// file's newest touching commit yet bound different merged-in history.
func fileCacheKey(repoPath, path, ref, tipSha string) string {
	key := fmt.Sprintf("%s:%s:%s:%s:%d", repoPath, path, ref, tipSha, currentCacheVersion)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
