// Package curriculum holds the static topic graph and the next-topic
// recommendation logic. The graph is built once at load time and read-only
// thereafter; no locking is needed.
package curriculum

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mkoreshkov/veritrain/internal/model"
)

// domainFile is the on-disk shape of one domain definition
type domainFile struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
	Modules     []struct {
		ID            string   `yaml:"id"`
		Title         string   `yaml:"title"`
		Tier          string   `yaml:"tier"`
		ModuleType    string   `yaml:"module_type"`
		Objectives    []string `yaml:"objectives"`
		KeyTerms      []string `yaml:"key_terms"`
		PromptHints   string   `yaml:"prompt_hints"`
		CompetencyIDs []string `yaml:"competency_ids"`
		Prerequisites []string `yaml:"prerequisites"`
	} `yaml:"modules"`
}

// Graph is the loaded curriculum: all topics plus derived indices. Immutable
// after construction.
type Graph struct {
	topics   []model.TopicDescriptor
	byID     map[string]int
	byDomain map[string][]int
	domains  []string
	warnings []string
}

// Load reads every YAML domain file in dir and builds the graph. Duplicate
// topic ids fail the load; dangling prerequisite references are dropped with
// a diagnostic.
func Load(dir string, log *zap.Logger) (*Graph, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read curriculum dir: %w", err)
	}

	var topics []model.TopicDescriptor
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read domain file %s: %w", name, err)
		}

		var df domainFile
		if err := yaml.Unmarshal(data, &df); err != nil {
			return nil, fmt.Errorf("parse domain file %s: %w", name, err)
		}
		if df.Name == "" {
			return nil, fmt.Errorf("domain file %s: missing domain name", name)
		}

		for _, m := range df.Modules {
			if m.ID == "" {
				return nil, fmt.Errorf("domain file %s: module with empty id", name)
			}
			topics = append(topics, model.TopicDescriptor{
				ID:            m.ID,
				Title:         m.Title,
				Objectives:    m.Objectives,
				KeyTerms:      m.KeyTerms,
				PromptHints:   m.PromptHints,
				Domain:        df.Name,
				Tier:          model.Tier(strings.ToLower(m.Tier)),
				ModuleType:    model.ModuleType(strings.ToLower(m.ModuleType)),
				CompetencyIDs: m.CompetencyIDs,
				Prerequisites: m.Prerequisites,
			})
		}
	}

	return New(topics, log)
}

// New builds a graph from topic descriptors. Used directly by tests with
// synthetic curricula.
func New(topics []model.TopicDescriptor, log *zap.Logger) (*Graph, error) {
	if log == nil {
		log = zap.NewNop()
	}

	g := &Graph{
		byID:     make(map[string]int, len(topics)),
		byDomain: make(map[string][]int),
	}

	for _, t := range topics {
		if _, dup := g.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate topic id: %s", t.ID)
		}
		g.byID[t.ID] = len(g.topics)
		g.topics = append(g.topics, t)
	}

	// Prune prerequisite references that do not resolve within the graph.
	// Non-fatal: the reference is dropped and the gap logged.
	for i := range g.topics {
		t := &g.topics[i]
		kept := t.Prerequisites[:0]
		for _, p := range t.Prerequisites {
			if _, ok := g.byID[p]; ok {
				kept = append(kept, p)
				continue
			}
			warning := fmt.Sprintf("topic %s: dropping unknown prerequisite %q", t.ID, p)
			g.warnings = append(g.warnings, warning)
			log.Warn("dangling prerequisite dropped",
				zap.String("topic", t.ID),
				zap.String("prerequisite", p))
		}
		t.Prerequisites = kept
	}

	for i, t := range g.topics {
		g.byDomain[t.Domain] = append(g.byDomain[t.Domain], i)
	}
	for d := range g.byDomain {
		g.domains = append(g.domains, d)
	}
	sort.Strings(g.domains)

	return g, nil
}

// TopicByID looks up a topic
func (g *Graph) TopicByID(id string) (model.TopicDescriptor, bool) {
	i, ok := g.byID[id]
	if !ok {
		return model.TopicDescriptor{}, false
	}
	return g.topics[i], true
}

// AllTopics returns a copy of every topic in load order
func (g *Graph) AllTopics() []model.TopicDescriptor {
	out := make([]model.TopicDescriptor, len(g.topics))
	copy(out, g.topics)
	return out
}

// Len returns the number of topics
func (g *Graph) Len() int {
	return len(g.topics)
}

// Domains returns the sorted domain names
func (g *Graph) Domains() []string {
	out := make([]string, len(g.domains))
	copy(out, g.domains)
	return out
}

// TopicsInDomain returns the topics of one domain in load order
func (g *Graph) TopicsInDomain(domain string) []model.TopicDescriptor {
	var out []model.TopicDescriptor
	for _, i := range g.byDomain[domain] {
		out = append(out, g.topics[i])
	}
	return out
}

// Warnings returns the load-time diagnostics (dangling prerequisites)
func (g *Graph) Warnings() []string {
	out := make([]string, len(g.warnings))
	copy(out, g.warnings)
	return out
}

// MissingPrerequisites returns the prerequisite ids of a topic that are not
// in the completed set. An unknown topic id has no prerequisites.
func (g *Graph) MissingPrerequisites(id string, completed map[string]struct{}) []string {
	t, ok := g.TopicByID(id)
	if !ok {
		return nil
	}
	var missing []string
	for _, p := range t.Prerequisites {
		if _, done := completed[p]; !done {
			missing = append(missing, p)
		}
	}
	return missing
}
