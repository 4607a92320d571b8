package jobqueue

import "github.com/skillcatalog/indexer/internal/models"

// IndexSkillPayload is the argument for an index-skill job: one candidate
// discovered by a crawl, to be fetched, parsed, scanned, scored and
// upserted into the catalog.
type IndexSkillPayload struct {
	Candidate models.Candidate `json:"candidate"`
}

// DeepScanPayload is the argument for a deep-scan job: walk a single
// repository's tree looking for instruction files the discovery strategies
// that only list root-level paths would miss.
type DeepScanPayload struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

// FullCrawlPayload carries no arguments: a full crawl always runs every
// discovery strategy against the whole of GitHub.
type FullCrawlPayload struct{}

// IncrementalCrawlPayload carries no arguments: an incremental crawl always
// runs the narrower strategy set over a recent window.
type IncrementalCrawlPayload struct{}

// ScoreBatchPayload carries no arguments: a score-batch job re-scores every
// skill whose quality score predates the last factor-weight change.
type ScoreBatchPayload struct{}
