package core

import (
	"context"
	"sort"

	"github.com/huangsam/funcspot/internal/contract"
	"github.com/huangsam/funcspot/internal/diffscan"
	"github.com/huangsam/funcspot/schema"
)

// correlateFile walks one file's commit history bounded by ref and
// aggregates per-function touch counts.
func correlateFile(ctx context.Context, client contract.GitClient, parser contract.FuncParser, repoPath, path, ref string) schema.FileFuncResult {
	shas, err := client.FileCommitHistory(ctx, repoPath, path, ref)
	if err != nil {
		return schema.FileFuncResult{Path: path, Err: err}
	}
	return correlateCommits(ctx, client, parser, repoPath, path, shas)
}

// correlateCommits maps each commit's changed lines onto the function
// spans of the revisions it touched. Commits arrive newest first, so the
// first sighting of a function pins its reported line to the newest
// revision. A commit may credit a function at most once, no matter how
// many hunks or blob sides hit it.
func correlateCommits(ctx context.Context, client contract.GitClient, parser contract.FuncParser, repoPath, path string, shas []string) schema.FileFuncResult {
	result := schema.FileFuncResult{Path: path}
	touches := make(map[string]int)
	lines := make(map[string]int)

	for _, sha := range shas {
		if ctx.Err() != nil {
			result.Err = ctx.Err()
			return result
		}

		raw, err := client.FileDiffInCommit(ctx, repoPath, sha, path)
		if err != nil {
			result.CommitsSkipped++
			continue
		}
		change, err := diffscan.Interpret(raw)
		if err != nil {
			result.CommitsSkipped++
			continue
		}
		result.CommitsWalked++
		if change.Empty() {
			continue
		}

		// The new-blob pass runs first so a modification seen by both
		// passes settles on the new-blob attribution. A deletion has no
		// new revision and a creation no parent, so the pass that would
		// read the missing blob is skipped outright.
		seen := make(map[string]struct{})
		if len(change.Added) > 0 && !change.Deleted {
			if touchPass(ctx, client, parser, repoPath, sha, path, change.Added, seen, lines) {
				result.DegradedParses++
			}
		}
		if len(change.Removed) > 0 && !change.Created {
			if touchPass(ctx, client, parser, repoPath, sha+"^", path, change.Removed, seen, lines) {
				result.DegradedParses++
			}
		}
		for name := range seen {
			touches[name]++
		}
	}

	result.Funcs = assembleRecords(path, parser.Language(), touches, lines)
	return result
}

// touchPass resolves one side of a commit's change set against the spans
// of the blob at rev. A blob that cannot be read skips just this pass;
// the other side of the commit still proceeds. The return reports a
// degraded parse.
func touchPass(ctx context.Context, client contract.GitClient, parser contract.FuncParser, repoPath, rev, path string, changed map[int]struct{}, seen map[string]struct{}, lines map[string]int) bool {
	blob, err := client.BlobAtCommit(ctx, repoPath, rev, path)
	if err != nil {
		return false
	}

	spans, degraded := parser.Extract(ctx, blob)
	for line := range changed {
		span, ok := innermostSpan(spans, line)
		if !ok {
			continue // file-level churn, outside every function
		}
		seen[span.Name] = struct{}{}
		if _, pinned := lines[span.Name]; !pinned {
			lines[span.Name] = span.StartLine
		}
	}
	return degraded
}

// innermostSpan picks the most specific span containing the line. Under
// the disjoint-or-nested invariant that is the span with the greatest
// start line, smallest end line on ties.
func innermostSpan(spans []schema.FunctionSpan, line int) (schema.FunctionSpan, bool) {
	var best schema.FunctionSpan
	found := false
	for _, span := range spans {
		if !span.Contains(line) {
			continue
		}
		if !found || span.StartLine > best.StartLine ||
			(span.StartLine == best.StartLine && span.EndLine < best.EndLine) {
			best = span
			found = true
		}
	}
	return best, found
}

// assembleRecords freezes the per-function counts into records sorted by
// name, keeping per-file output and cache bytes deterministic.
func assembleRecords(path string, language schema.Language, touches map[string]int, lines map[string]int) []schema.FuncRecord {
	records := make([]schema.FuncRecord, 0, len(touches))
	for name, count := range touches {
		records = append(records, schema.FuncRecord{
			Path:     path,
			Name:     name,
			Line:     lines[name],
			Language: language,
			Commits:  count,
		})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})
	return records
}
