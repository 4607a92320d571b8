// Package parser turns fetched raw content into a structured skill
// record: YAML-frontmatter parsing for SKILL.md, metadata synthesis for
// the other recognized formats.
package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	gmparser "github.com/yuin/goldmark/parser"

	"github.com/skillcatalog/indexer/internal/formats"
	"github.com/skillcatalog/indexer/internal/models"
)

// namePattern is the required shape of a SKILL.md frontmatter name.
var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// resourceReferencePattern finds body references to scripts/<name> or
// references/<name>.
var resourceReferencePattern = regexp.MustCompile(`\b(scripts|references)/[\w.\-]+`)

// minDescriptionLength is the recommended minimum description length;
// shorter is a warning, not a validation failure.
const minDescriptionLength = 20

// Parsed is the parser's output: the populated skill plus validation
// diagnostics. IsValid false means the caller must not upsert this
// candidate.
type Parsed struct {
	Skill               models.Skill
	ResourceReferences  []string
	Warnings            []string
	IsValid             bool
	InvalidReason       string
}

// Input carries everything the parser needs about one fetched candidate.
type Input struct {
	Owner         string
	Repo          string
	RepoDesc      string
	RawContent    string
	SourceFormat  formats.Format
}

// Parser converts raw content into a Parsed skill record.
type Parser struct {
	md goldmark.Markdown
}

// New builds a Parser with YAML frontmatter + GFM extension support.
func New() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, meta.Meta),
		goldmark.WithParserOptions(gmparser.WithAutoHeadingID()),
	)
	return &Parser{md: md}
}

// Parse dispatches to the SKILL.md frontmatter parser or the generic
// metadata-synthesis path based on the candidate's source format.
func (p *Parser) Parse(in Input) Parsed {
	if strings.TrimSpace(in.RawContent) == "" {
		return Parsed{IsValid: false, InvalidReason: "empty body"}
	}

	frontmatter, body := p.extractFrontmatter(in.RawContent)

	if in.SourceFormat == formats.SkillMD {
		return p.parseSkillMD(in, frontmatter, body)
	}
	return p.parseGeneric(in, frontmatter, body)
}

func (p *Parser) extractFrontmatter(content string) (map[string]interface{}, string) {
	var buf bytes.Buffer
	ctx := gmparser.NewContext()
	if err := p.md.Convert([]byte(content), &buf, gmparser.WithContext(ctx)); err != nil {
		return nil, content
	}
	fm := meta.Get(ctx)
	return normalizeFrontmatter(fm), bodyAfterFrontmatter(content)
}

// normalizeFrontmatter flattens the map[interface{}]interface{} shape
// YAML decoding sometimes yields into map[string]interface{}.
func normalizeFrontmatter(raw map[string]interface{}) map[string]interface{} {
	if raw == nil {
		return map[string]interface{}{}
	}
	return raw
}

func bodyAfterFrontmatter(content string) string {
	trimmed := strings.TrimLeft(content, "\n")
	if !strings.HasPrefix(trimmed, "---") {
		return content
	}
	lines := strings.Split(trimmed, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.Join(lines[i+1:], "\n")
		}
	}
	return content
}

func (p *Parser) parseSkillMD(in Input, fm map[string]interface{}, body string) Parsed {
	name, _ := fm["name"].(string)
	name = strings.TrimSpace(name)
	description, _ := fm["description"].(string)
	description = strings.TrimSpace(description)

	var warnings []string
	if name == "" {
		return Parsed{IsValid: false, InvalidReason: "missing name"}
	}
	if !namePattern.MatchString(name) {
		return Parsed{IsValid: false, InvalidReason: fmt.Sprintf("name %q does not match required pattern", name)}
	}
	if description == "" {
		return Parsed{IsValid: false, InvalidReason: "missing description"}
	}
	if len(description) <= minDescriptionLength {
		warnings = append(warnings, "description shorter than recommended 20 characters")
	}
	if strings.TrimSpace(body) == "" {
		return Parsed{IsValid: false, InvalidReason: "empty body"}
	}

	skill := models.Skill{
		Name:          name,
		Description:   description,
		SourceFormat:  formats.SkillMD,
		Version:       stringField(fm, "version"),
		License:       stringField(fm, "license"),
		Author:        stringField(fm, "author"),
		Homepage:      stringField(fm, "homepage"),
		Compatibility: models.Compatibility{Platforms: platformsOf(fm, formats.SkillMD)},
		Triggers:      triggersOf(fm),
		RawContent:    in.RawContent,
	}

	return Parsed{
		Skill:              skill,
		ResourceReferences: extractResourceReferences(body),
		Warnings:           warnings,
		IsValid:            true,
	}
}

func (p *Parser) parseGeneric(in Input, fm map[string]interface{}, body string) Parsed {
	name := sanitizeName(in.Repo)

	description := stringField(fm, "description")
	if description == "" {
		description = in.RepoDesc
	}
	if description == "" {
		description = firstParagraphAtLeast(body, minDescriptionLength)
	}
	if description == "" {
		description = fmt.Sprintf("%s from %s/%s", formatLabel(in.SourceFormat), in.Owner, in.Repo)
	}

	if n := stringField(fm, "name"); n != "" {
		name = sanitizeName(n)
	}

	author := stringField(fm, "author")
	if author == "" {
		author = in.Owner
	}

	if strings.TrimSpace(in.RawContent) == "" {
		return Parsed{IsValid: false, InvalidReason: "empty body"}
	}

	skill := models.Skill{
		Name:          name,
		Description:   description,
		SourceFormat:  in.SourceFormat,
		Version:       stringField(fm, "version"),
		License:       stringField(fm, "license"),
		Author:        author,
		Homepage:      stringField(fm, "homepage"),
		Compatibility: models.Compatibility{Platforms: platformsOf(fm, in.SourceFormat)},
		Triggers:      triggersOf(fm),
		RawContent:    in.RawContent,
	}

	return Parsed{
		Skill:              skill,
		ResourceReferences: extractResourceReferences(body),
		IsValid:            true,
	}
}

func stringField(fm map[string]interface{}, key string) string {
	v, _ := fm[key].(string)
	return strings.TrimSpace(v)
}

func stringSliceField(fm map[string]interface{}, path ...string) []string {
	cur := interface{}(fm)
	for _, p := range path {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur = m[p]
	}
	switch v := cur.(type) {
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	}
	return nil
}

func triggersOf(fm map[string]interface{}) models.Triggers {
	return models.Triggers{
		FilePatterns: stringSliceField(fm, "triggers", "filePatterns"),
		Keywords:     stringSliceField(fm, "triggers", "keywords"),
		Languages:    stringSliceField(fm, "triggers", "languages"),
	}
}

func platformsOf(fm map[string]interface{}, format formats.Format) []string {
	declared := stringSliceField(fm, "compatibility", "platforms")
	spec, ok := formats.ByFormat(format)
	if !ok {
		return declared
	}
	for _, p := range declared {
		if p == spec.Platform {
			return declared
		}
	}
	return append([]string{spec.Platform}, declared...)
}

func formatLabel(f formats.Format) string {
	spec, ok := formats.ByFormat(f)
	if !ok {
		return string(f)
	}
	return spec.Filename
}

// sanitizeName lowercases and replaces any run of characters outside
// [a-z0-9_-] with a single hyphen, collapsing repeats.
func sanitizeName(s string) string {
	lower := strings.ToLower(s)
	replaced := regexp.MustCompile(`[^a-z0-9_-]+`).ReplaceAllString(lower, "-")
	collapsed := regexp.MustCompile(`-+`).ReplaceAllString(replaced, "-")
	return strings.Trim(collapsed, "-")
}

func firstParagraphAtLeast(body string, minLen int) string {
	for _, para := range strings.Split(body, "\n\n") {
		trimmed := strings.TrimSpace(para)
		if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "```") {
			continue
		}
		if len(trimmed) >= minLen {
			return trimmed
		}
	}
	return ""
}

func extractResourceReferences(body string) []string {
	matches := resourceReferencePattern.FindAllString(body, -1)
	seen := make(map[string]bool, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}
