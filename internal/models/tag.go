package models

// Category is a keyword-taxonomy categorization of a skill, looked up
// statically (never by ML/semantic means, per the core's non-goals).
type Category struct {
	ID   string `gorm:"primaryKey;size:100" json:"id"`
	Name string `gorm:"size:100;uniqueIndex" json:"name"`
	Slug string `gorm:"size:100;uniqueIndex" json:"slug"`
	Kind string `gorm:"size:50;index" json:"kind"` // language, framework, tool, concept, domain
}

// TableName specifies the table name for GORM.
func (Category) TableName() string { return "categories" }

// SkillCategory is the join table linking skills to categories.
type SkillCategory struct {
	SkillID    string `gorm:"primaryKey;size:400" json:"skill_id"`
	CategoryID string `gorm:"primaryKey;size:100" json:"category_id"`
}

// TableName specifies the table name for GORM.
func (SkillCategory) TableName() string { return "skill_categories" }

// CategoryKind enumerates the taxonomy's top-level kinds.
type CategoryKind string

const (
	CategoryLanguage  CategoryKind = "language"
	CategoryFramework CategoryKind = "framework"
	CategoryTool      CategoryKind = "tool"
	CategoryConcept   CategoryKind = "concept"
	CategoryDomain    CategoryKind = "domain"
)

// CategoryKeywords is the static keyword taxonomy used to categorize a
// skill by scanning its name, description, and triggers for substring
// matches — no ML/semantic categorization.
var CategoryKeywords = map[CategoryKind][]string{
	CategoryLanguage: {
		"python", "javascript", "typescript", "go", "rust", "java",
		"csharp", "cpp", "ruby", "php", "swift", "kotlin", "scala",
		"bash", "sql", "yaml", "markdown", "lua",
	},
	CategoryFramework: {
		"react", "vue", "angular", "svelte", "nextjs", "django", "fastapi",
		"flask", "express", "nestjs", "spring", "rails", "laravel",
		"langchain", "llamaindex", "crewai", "autogen",
		"tailwind", "prisma", "drizzle", "shadcn", "htmx", "pydantic",
	},
	CategoryTool: {
		"docker", "kubernetes", "terraform", "git", "aws", "gcp", "azure",
		"postgresql", "mongodb", "redis", "elasticsearch", "grafana",
		"claude", "openai", "ollama", "gemini",
		"pinecone", "chroma", "weaviate",
		"vscode", "cursor", "bun", "pnpm", "vite",
		"mysql", "sqlite", "supabase", "firebase",
		"vercel", "netlify",
	},
	CategoryConcept: {
		"testing", "security", "performance", "accessibility", "documentation",
		"code-review", "refactoring", "debugging", "ci-cd", "monitoring",
		"prompts", "agents", "rag", "embeddings", "fine-tuning",
		"chain-of-thought", "few-shot", "tool-use", "function-calling",
		"context-window", "system-prompts", "mcp",
	},
	CategoryDomain: {
		"web", "mobile", "backend", "frontend", "devops", "ml", "ai",
		"data", "security", "cloud", "embedded", "game-dev",
		"llm", "nlp", "chatbot", "automation", "workflows",
	},
}

// AllCategoryKinds returns all taxonomy kinds in a stable order.
func AllCategoryKinds() []CategoryKind {
	return []CategoryKind{
		CategoryLanguage,
		CategoryFramework,
		CategoryTool,
		CategoryConcept,
		CategoryDomain,
	}
}
