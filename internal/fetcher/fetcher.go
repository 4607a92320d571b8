// Package fetcher resolves a discovered Candidate's branch, fetches its
// instruction file, and — for SKILL.md candidates — its sibling scripts/
// and references/ directories.
package fetcher

import (
	"context"
	"path"
	"strings"

	"github.com/skillcatalog/indexer/internal/formats"
	"github.com/skillcatalog/indexer/internal/ghclient"
	"github.com/skillcatalog/indexer/internal/models"
)

// scriptExtensions are the sibling script file extensions fetched for a
// SKILL.md candidate's scripts/ directory.
var scriptExtensions = map[string]bool{
	".sh": true, ".bash": true, ".py": true, ".js": true, ".ts": true, ".rb": true, ".ps1": true,
}

// referenceExtensions are the sibling reference file extensions fetched
// for a SKILL.md candidate's references/ directory.
var referenceExtensions = map[string]bool{
	".md": true, ".txt": true, ".json": true, ".yaml": true, ".yml": true, ".xml": true, ".html": true, ".css": true,
}

// maxSiblingFileSize is the per-file size cap (bytes) applied to
// references/ files (size cap 100 KB per file).
const maxSiblingFileSize = 100 * 1024

// Fetched is the raw result of fetching one candidate: the instruction
// file body plus any sibling files found.
type Fetched struct {
	Candidate   models.Candidate
	RawContent  string
	CachedFiles []models.CachedFile
}

// Fetcher resolves and fetches candidates via a code-host client.
type Fetcher struct {
	Client *ghclient.Client
}

func New(client *ghclient.Client) *Fetcher {
	return &Fetcher{Client: client}
}

// Fetch resolves the candidate's branch (if empty, from repo metadata),
// fetches its instruction file, and for skill.md candidates lists and
// fetches scripts/ and references/ siblings.
//
// Failure semantics: file not found on a non-default branch, or the repo
// itself gone, returns (nil, nil) so the caller skips the candidate
// silently rather than failing the whole run. A sibling file that fails
// to fetch is simply omitted; the candidate still proceeds.
func (f *Fetcher) Fetch(ctx context.Context, c models.Candidate) (*Fetched, error) {
	branch := c.Branch
	if branch == "" {
		meta, err := f.Client.GetRepository(ctx, c.Owner, c.Repo)
		if err != nil {
			if ghclient.IsNotFound(err) {
				return nil, nil
			}
			return nil, err
		}
		branch = meta.DefaultBranch
	}

	filePath := resolveFilePath(c)

	content, err := f.Client.GetFileContent(ctx, c.Owner, c.Repo, filePath, branch)
	if err != nil {
		if ghclient.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	result := &Fetched{
		Candidate:  withResolvedBranch(c, branch),
		RawContent: content,
	}

	if c.SourceFormat == formats.SkillMD {
		result.CachedFiles = f.fetchSiblings(ctx, c.Owner, c.Repo, c.Path, branch)
	}

	return result, nil
}

func withResolvedBranch(c models.Candidate, branch string) models.Candidate {
	c.Branch = branch
	return c
}

// resolveFilePath computes the file path for a candidate from its format
// and base directory: SKILL.md/AGENTS.md live under
// path/, .cursorrules/.windsurfrules live at root, copilot-instructions.md
// lives under .github/.
func resolveFilePath(c models.Candidate) string {
	spec, ok := formats.ByFormat(c.SourceFormat)
	if !ok {
		return path.Join(c.Path, string(c.SourceFormat))
	}
	if spec.IsRootOnly() {
		return spec.Filename
	}
	if c.Path == "" || c.Path == "." {
		return spec.Filename
	}
	return path.Join(c.Path, spec.Filename)
}

func (f *Fetcher) fetchSiblings(ctx context.Context, owner, repo, basePath, branch string) []models.CachedFile {
	var files []models.CachedFile
	files = append(files, f.fetchDir(ctx, owner, repo, path.Join(basePath, "scripts"), branch, "scripts", scriptExtensions, 0)...)
	files = append(files, f.fetchDir(ctx, owner, repo, path.Join(basePath, "references"), branch, "references", referenceExtensions, maxSiblingFileSize)...)
	return files
}

func (f *Fetcher) fetchDir(ctx context.Context, owner, repo, dirPath, branch, dirType string, allowedExt map[string]bool, sizeCap int64) []models.CachedFile {
	entries, err := f.Client.ListDirectory(ctx, owner, repo, dirPath, branch)
	if err != nil {
		return nil
	}

	var out []models.CachedFile
	for _, e := range entries {
		ext := extOf(e.Path)
		if !allowedExt[ext] {
			continue
		}
		content, err := f.Client.GetFileContent(ctx, owner, repo, e.Path, branch)
		if err != nil {
			continue // sibling fetch failure tolerated; candidate proceeds
		}
		if sizeCap > 0 && int64(len(content)) > sizeCap {
			continue
		}
		out = append(out, models.CachedFile{
			DirType: dirType,
			Path:    e.Path,
			Content: content,
			Size:    int64(len(content)),
		})
	}
	return out
}

func extOf(p string) string {
	idx := strings.LastIndex(p, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(p[idx:])
}
