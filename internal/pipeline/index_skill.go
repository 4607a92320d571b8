package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/skillcatalog/indexer/internal/catalog"
	"github.com/skillcatalog/indexer/internal/ghclient"
	"github.com/skillcatalog/indexer/internal/jobqueue"
	"github.com/skillcatalog/indexer/internal/log"
	"github.com/skillcatalog/indexer/internal/models"
	"github.com/skillcatalog/indexer/internal/notifier"
	"github.com/skillcatalog/indexer/internal/parser"
	"github.com/skillcatalog/indexer/internal/quality"
)

// handleIndexSkill runs one candidate through fetch, parse, security scan,
// quality score, and catalog upsert. File-not-found, a below-threshold
// repository, and a blocked catalog record are all treated as a silent
// skip rather than a failure; a parse failure is permanent; anything else
// (a transient fetch error) bubbles up for the queue's retry policy.
func (p *Pipeline) handleIndexSkill(ctx context.Context, job *models.Job) error {
	payload, err := jobqueue.DecodePayload[jobqueue.IndexSkillPayload](job)
	if err != nil {
		return jobqueue.Permanent(err)
	}
	c := payload.Candidate

	repoMeta, err := p.Client.GetRepository(ctx, c.Owner, c.Repo)
	if err != nil {
		if ghclient.IsNotFound(err) {
			return nil
		}
		return err
	}
	if repoMeta.IsArchived || repoMeta.Stars < p.MinStars {
		return nil
	}

	fetched, err := p.Fetcher.Fetch(ctx, c)
	if err != nil {
		return err
	}
	if fetched == nil {
		return nil
	}

	parsed := p.Parser.Parse(parser.Input{
		Owner:        c.Owner,
		Repo:         c.Repo,
		RepoDesc:     repoMeta.Description,
		RawContent:   fetched.RawContent,
		SourceFormat: c.SourceFormat,
	})
	if !parsed.IsValid {
		return jobqueue.Permanent(fmt.Errorf("pipeline: parse %s: %s", c.Key(), parsed.InvalidReason))
	}

	skill := parsed.Skill
	skill.ID = models.BuildID(c.Owner, c.Repo, skill.Name, c.SourceFormat)
	skill.Owner = c.Owner
	skill.Repo = c.Repo
	skill.SkillPath = c.Path
	skill.Branch = fetched.Candidate.Branch
	skill.GitHubStars = repoMeta.Stars
	skill.GitHubForks = repoMeta.Forks
	skill.Topics = repoMeta.Topics
	skill.RepoPushedAt = repoMeta.PushedAt
	skill.CachedFiles = fetched.CachedFiles
	skill.ContentHash = skill.ComputeContentHash()

	if skill.License == "" {
		if detected, err := p.Client.DetectLicense(ctx, c.Owner, c.Repo, fetched.Candidate.Branch); err == nil && detected != nil {
			skill.License = detected.SPDXID
		}
	}

	scanResult := p.Scanner.ScanSkill(&skill)
	skill.SecurityScore = scanResult.Score
	skill.SecurityStatus = scanResult.Status

	qualityInput := quality.NewInput(skill.RawContent, parsed.IsValid, len(parsed.Warnings))
	skill.QualityScore, skill.QualityDetails = quality.Score(&skill, qualityInput)

	if err := p.Catalog.Upsert(ctx, &skill, false); err != nil {
		if errors.Is(err, catalog.ErrBlocked) || errors.Is(err, catalog.ErrVersionRegression) {
			return nil
		}
		return err
	}

	p.notifyClaimant(ctx, &skill)
	return nil
}

// notifyClaimant tells the submitter of an approved add-request the first
// time their repository's skill appears in the catalog. Notification
// failure is logged, not propagated: it must never roll back or retry an
// otherwise-successful index.
func (p *Pipeline) notifyClaimant(ctx context.Context, skill *models.Skill) {
	req, err := p.Catalog.FindUnprocessedApprovedAddRequest(ctx, skill.Owner, skill.Repo)
	if err != nil {
		log.Errorf("pipeline: find approved add-request for %s/%s: %v", skill.Owner, skill.Repo, err)
		return
	}
	if req == nil {
		return
	}

	event := notifier.ClaimIndexedEvent{
		RecipientEmail: req.UserEmail,
		SkillID:        skill.ID,
		SkillName:      skill.Name,
		Owner:          skill.Owner,
		Repo:           skill.Repo,
	}
	if err := p.Notifier.NotifyClaimIndexed(ctx, event); err != nil {
		log.Errorf("pipeline: notify claimant for %s: %v", skill.ID, err)
		return
	}
	if err := p.Catalog.MarkAddRequestProcessed(ctx, req.ID); err != nil {
		log.Errorf("pipeline: mark add-request %d processed: %v", req.ID, err)
	}
}
