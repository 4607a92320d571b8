// Package pipeline wires discovery, fetcher, parser, security, quality,
// classify and catalog into the job-kind handlers internal/jobqueue
// dispatches: full-crawl, incremental-crawl, deep-scan, index-skill and
// score-batch. Each handler is a thin orchestrator — all of the actual
// work stays in its owning package.
package pipeline

import (
	"github.com/skillcatalog/indexer/internal/catalog"
	"github.com/skillcatalog/indexer/internal/fetcher"
	"github.com/skillcatalog/indexer/internal/ghclient"
	"github.com/skillcatalog/indexer/internal/jobqueue"
	"github.com/skillcatalog/indexer/internal/models"
	"github.com/skillcatalog/indexer/internal/notifier"
	"github.com/skillcatalog/indexer/internal/parser"
	"github.com/skillcatalog/indexer/internal/security"
)

// Pipeline holds every collaborator the job handlers need.
type Pipeline struct {
	Queue    *jobqueue.Queue
	Catalog  *catalog.Store
	Client   *ghclient.Client
	Fetcher  *fetcher.Fetcher
	Parser   *parser.Parser
	Scanner  *security.Scanner
	Notifier notifier.Sender
	MinStars int
}

// New builds a Pipeline. notify may be notifier.NoOp{} when RESEND_API_KEY
// is unset.
func New(queue *jobqueue.Queue, store *catalog.Store, client *ghclient.Client, notify notifier.Sender, minStars int) *Pipeline {
	return &Pipeline{
		Queue:    queue,
		Catalog:  store,
		Client:   client,
		Fetcher:  fetcher.New(client),
		Parser:   parser.New(),
		Scanner:  security.NewScanner(),
		Notifier: notify,
		MinStars: minStars,
	}
}

// Register attaches every job-kind handler to w.
func (p *Pipeline) Register(w *jobqueue.Worker) {
	w.Handle(models.JobFullCrawl, p.handleFullCrawl)
	w.Handle(models.JobIncrementalCrawl, p.handleIncrementalCrawl)
	w.Handle(models.JobDeepScan, p.handleDeepScan)
	w.Handle(models.JobIndexSkill, p.handleIndexSkill)
	w.Handle(models.JobScoreBatch, p.handleScoreBatch)
}
