package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/resumeiq/internal/domain"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// JobMarket holds the offline listing tables of one country.
type JobMarket struct {
	Currency  string   `yaml:"currency"`
	Country   string   `yaml:"country"`
	Locations []string `yaml:"locations"`
	Companies []string `yaml:"companies"`
	Salaries  []string `yaml:"salaries"`
}

// JobTemplate describes one offline posting.
type JobTemplate struct {
	Title       string `yaml:"title"`
	SalaryFrom  int    `yaml:"salary_from"`
	SalaryTo    int    `yaml:"salary_to"`
	Experience  string `yaml:"experience"`
	PostedAt    string `yaml:"posted_at"`
	Description string `yaml:"description"`
}

// Catalog is the static data the analysis runs against. It is loaded once
// at startup and must not be mutated afterwards.
type Catalog struct {
	SkillKeywords []string             `yaml:"skill_keywords"`
	MarketSkills  []domain.SkillInfo   `yaml:"market_skills"`
	JobMarkets    map[string]JobMarket `yaml:"job_markets"`
	JobTemplates  []JobTemplate        `yaml:"job_templates"`
}

// MockJobCount is the number of offline postings per market.
const MockJobCount = 5

// LoadCatalog reads the catalog from path, or the embedded default when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	content := defaultCatalog
	if path != "" {
		// #nosec G304 -- catalog path comes from operator configuration
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("op=config.LoadCatalog: read %s: %w", path, err)
		}
		content = b
	}
	return ParseCatalog(content)
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// ParseCatalog decodes and validates catalog YAML.
func ParseCatalog(content []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(content, &c); err != nil {
		return nil, fmt.Errorf("op=config.ParseCatalog: failed to parse YAML: %w", err)
	}
	for i := range c.SkillKeywords {
		c.SkillKeywords[i] = strings.ToLower(strings.TrimSpace(c.SkillKeywords[i]))
	}
	for i := range c.MarketSkills {
		c.MarketSkills[i].Name = strings.ToLower(strings.TrimSpace(c.MarketSkills[i].Name))
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("op=config.ParseCatalog: %w", err)
	}
	return &c, nil
}

// Validate checks the invariants the scorer and recommender rely on.
func (c *Catalog) Validate() error {
	if len(c.SkillKeywords) == 0 {
		return fmt.Errorf("%w: skill_keywords is empty", domain.ErrInvalidArgument)
	}
	seen := make(map[string]struct{}, len(c.SkillKeywords))
	for _, k := range c.SkillKeywords {
		if k == "" {
			return fmt.Errorf("%w: blank skill keyword", domain.ErrInvalidArgument)
		}
		if _, dup := seen[k]; dup {
			return fmt.Errorf("%w: duplicate skill keyword %q", domain.ErrInvalidArgument, k)
		}
		seen[k] = struct{}{}
	}

	if len(c.MarketSkills) == 0 {
		return fmt.Errorf("%w: market_skills is empty", domain.ErrInvalidArgument)
	}
	seen = make(map[string]struct{}, len(c.MarketSkills))
	for _, s := range c.MarketSkills {
		if s.Name == "" || s.Category == "" {
			return fmt.Errorf("%w: market skill needs name and category", domain.ErrInvalidArgument)
		}
		if s.Weight < 1 || s.Weight > 10 {
			return fmt.Errorf("%w: weight of %q must be in [1,10]", domain.ErrInvalidArgument, s.Name)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("%w: duplicate market skill %q", domain.ErrInvalidArgument, s.Name)
		}
		seen[s.Name] = struct{}{}
	}

	for _, code := range []string{domain.CountryIndia, domain.CountryUS} {
		m, ok := c.JobMarkets[code]
		if !ok {
			return fmt.Errorf("%w: job market %q missing", domain.ErrInvalidArgument, code)
		}
		if len(m.Locations) != MockJobCount || len(m.Companies) != MockJobCount || len(m.Salaries) != MockJobCount {
			return fmt.Errorf("%w: job market %q needs %d locations, companies and salaries", domain.ErrInvalidArgument, code, MockJobCount)
		}
	}

	if len(c.JobTemplates) != MockJobCount {
		return fmt.Errorf("%w: expected %d job templates, got %d", domain.ErrInvalidArgument, MockJobCount, len(c.JobTemplates))
	}
	for i, t := range c.JobTemplates {
		if t.SalaryFrom < 0 || t.SalaryFrom >= MockJobCount || t.SalaryTo < 0 || t.SalaryTo >= MockJobCount {
			return fmt.Errorf("%w: job template %d salary index out of range", domain.ErrInvalidArgument, i)
		}
	}
	return nil
}
