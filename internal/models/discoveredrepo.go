package models

import "time"

// DiscoveredRepo is a repository the discovery engine has seen, feeding
// the deep-tree scan. Lifecycle: inserted by discovery strategies (b)
// topic search and (c) popular-repo sweep and (d) recent-commit sweep;
// scanned later by strategy (e); never deleted.
type DiscoveredRepo struct {
	Owner         string     `gorm:"primaryKey;size:255" json:"owner"`
	Repo          string     `gorm:"primaryKey;size:255" json:"repo"`
	DiscoveredVia string     `gorm:"size:50;index" json:"discovered_via"` // strategy name
	HasSkillMD    bool       `gorm:"default:false" json:"has_skill_md"`
	LastScanned   *time.Time `json:"last_scanned"`
	DefaultBranch string     `gorm:"size:255" json:"default_branch"`
	IsArchived    bool       `gorm:"default:false" json:"is_archived"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (DiscoveredRepo) TableName() string { return "discovered_repos" }

// FullName returns "owner/repo".
func (d DiscoveredRepo) FullName() string { return d.Owner + "/" + d.Repo }

// Discovery strategy names, recorded in DiscoveredVia.
const (
	ViaSegmentedCodeSearch = "segmented-code-search"
	ViaTopicSearch         = "topic-description-search"
	ViaPopularSweep        = "popular-repo-sweep"
	ViaRecentCommitSweep   = "recent-commit-sweep"
	ViaSeed                = "seed"
	ViaAddRequest          = "add-request"
)
