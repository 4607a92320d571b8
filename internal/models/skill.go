// Package models defines the core data structures for the indexer.
package models

import (
	"crypto/md5"
	"encoding/hex"
	"time"

	"gorm.io/gorm"

	"github.com/skillcatalog/indexer/internal/formats"
)

// SecurityStatus is the security review outcome for a skill record.
type SecurityStatus string

const (
	SecurityPass    SecurityStatus = "pass"
	SecurityWarning SecurityStatus = "warning"
	SecurityFail    SecurityStatus = "fail"
)

// SkillType classifies a repository's relationship to the skills it hosts.
type SkillType string

const (
	SkillTypeStandalone   SkillType = "standalone"
	SkillTypeCollection   SkillType = "collection"
	SkillTypeAggregator   SkillType = "aggregator"
	SkillTypeProjectBound SkillType = "project-bound"
)

// Surfaceable reports whether this skill type is exposed to external
// browse/search queries (only standalone and collection are).
func (t SkillType) Surfaceable() bool {
	return t == SkillTypeStandalone || t == SkillTypeCollection
}

// Compatibility is the set of target agent platforms a skill declares
// compatibility with.
type Compatibility struct {
	Platforms []string `json:"platforms"`
}

// Triggers describes the signals that should cause an agent to consider
// loading a skill.
type Triggers struct {
	FilePatterns []string `json:"file_patterns,omitempty"`
	Keywords     []string `json:"keywords,omitempty"`
	Languages    []string `json:"languages,omitempty"`
}

// QualityDetails is the sub-score breakdown behind a skill's overall
// quality_score (see internal/quality).
type QualityDetails struct {
	Documentation float64 `json:"documentation"`
	Maintenance   float64 `json:"maintenance"`
	Popularity    float64 `json:"popularity"`
	Security      float64 `json:"security"`
	Validation    float64 `json:"validation"`
}

// CachedFile is a structured snapshot of one sibling script/reference file
// stored alongside the skill record.
type CachedFile struct {
	DirType string `json:"dir_type"` // "scripts" or "references"
	Path    string `json:"path"`
	Content string `json:"content"`
	Size    int64  `json:"size"`
}

// Skill is the persistent catalog entity keyed by id
// `owner/repo/<skill-name>[~<format-tag>]`.
type Skill struct {
	ID string `gorm:"primaryKey;size:400" json:"id"`

	Name        string `gorm:"size:100;index" json:"name"`
	Description string `gorm:"size:2000" json:"description"`

	Owner string `gorm:"size:255;index" json:"owner"`
	Repo  string `gorm:"size:255;index" json:"repo"`

	SkillPath    string         `gorm:"size:500" json:"skill_path"`
	Branch       string         `gorm:"size:255" json:"branch"`
	SourceFormat formats.Format `gorm:"size:30;index" json:"source_format"`

	Version  string `gorm:"size:50" json:"version"`
	License  string `gorm:"size:100" json:"license"`
	Author   string `gorm:"size:255;index" json:"author"`
	Homepage string `gorm:"size:500" json:"homepage"`

	Compatibility Compatibility `gorm:"serializer:json" json:"compatibility"`
	Triggers      Triggers      `gorm:"serializer:json" json:"triggers"`

	GitHubStars  int       `gorm:"default:0;index" json:"github_stars"`
	GitHubForks  int       `gorm:"default:0" json:"github_forks"`
	Topics       []string  `gorm:"serializer:json" json:"topics"`
	RepoPushedAt time.Time `json:"repo_pushed_at"`

	SecurityScore  int            `gorm:"default:0" json:"security_score"`
	SecurityStatus SecurityStatus `gorm:"size:10;index" json:"security_status"`

	QualityScore   int            `gorm:"default:0;index" json:"quality_score"`
	QualityDetails QualityDetails `gorm:"serializer:json" json:"quality_details"`

	ContentHash string       `gorm:"size:32;index" json:"content_hash"`
	RawContent  string       `gorm:"type:text" json:"raw_content"`
	CachedFiles []CachedFile `gorm:"serializer:json" json:"cached_files"`

	SkillType      SkillType `gorm:"size:20;index" json:"skill_type"`
	RepoSkillCount int       `gorm:"default:0" json:"repo_skill_count"`

	IsDuplicate      bool    `gorm:"default:false;index" json:"is_duplicate"`
	CanonicalSkillID *string `gorm:"size:400;index" json:"canonical_skill_id"`

	IsBlocked  bool `gorm:"default:false;index" json:"is_blocked"`
	IsVerified bool `gorm:"default:false" json:"is_verified"`
	IsFeatured bool `gorm:"default:false;index" json:"is_featured"`

	IndexedAt time.Time `json:"indexed_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedAt time.Time `json:"created_at"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM.
func (Skill) TableName() string { return "skills" }

// ComputeContentHash returns md5(raw_content) per the dedup fingerprint
// invariant; the hash changes iff content changes.
func (s *Skill) ComputeContentHash() string {
	sum := md5.Sum([]byte(s.RawContent))
	return hex.EncodeToString(sum[:])
}

// BuildID constructs the skill id from owner, repo, name, and format,
// applying the `~<format-tag>` suffix rule.
func BuildID(owner, repo, name string, format formats.Format) string {
	id := owner + "/" + repo + "/" + name
	if tag := formats.FileTag(format); tag != "" {
		id += "~" + tag
	}
	return id
}
