// Package core has core logic for evidence collection, scoring and grading.
package core

import (
	"fmt"
	"sort"

	"github.com/gradekit/gradekit/internal/contract"
	"github.com/gradekit/gradekit/schema"
	"github.com/spf13/viper"
)

// FolderSetSentinel marks an expected-files entry that is satisfied by
// project structure rather than a concrete file: at least two of the
// milestone's folders must exist.
const FolderSetSentinel = "all folders created"

// Catalog is the fixed, ordered table of milestone definitions for one run.
// It is loaded once at startup and never mutated.
type Catalog struct {
	defs       map[int]schema.MilestoneDefinition
	ids        []int
	categories []schema.Category
}

// NewCatalog validates the definitions and builds an immutable catalog.
func NewCatalog(defs []schema.MilestoneDefinition, categories []schema.Category) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("catalog has no milestones")
	}
	byID := make(map[int]schema.MilestoneDefinition, len(defs))
	ids := make([]int, 0, len(defs))
	for _, def := range defs {
		if def.ID <= 0 {
			return nil, fmt.Errorf("milestone %q has non-positive id %d", def.Desc, def.ID)
		}
		if def.Weight < 0 {
			return nil, fmt.Errorf("milestone %d has negative weight %d", def.ID, def.Weight)
		}
		if _, dup := byID[def.ID]; dup {
			return nil, fmt.Errorf("duplicate milestone id %d", def.ID)
		}
		byID[def.ID] = def
		ids = append(ids, def.ID)
	}
	sort.Ints(ids)
	return &Catalog{defs: byID, ids: ids, categories: categories}, nil
}

// Get returns the definition for a milestone id.
func (c *Catalog) Get(id int) (schema.MilestoneDefinition, bool) {
	def, ok := c.defs[id]
	return def, ok
}

// IDs returns all milestone ids in ascending order.
func (c *Catalog) IDs() []int {
	return c.ids
}

// Len returns the number of milestones in the catalog.
func (c *Catalog) Len() int {
	return len(c.ids)
}

// Definitions returns all definitions in id order.
func (c *Catalog) Definitions() []schema.MilestoneDefinition {
	defs := make([]schema.MilestoneDefinition, 0, len(c.ids))
	for _, id := range c.ids {
		defs = append(defs, c.defs[id])
	}
	return defs
}

// TotalWeight is the maximum achievable raw score for this catalog.
// It is not necessarily 100; see the rescale policy option.
func (c *Catalog) TotalWeight() int {
	var total int
	for _, def := range c.defs {
		total += def.Weight
	}
	return total
}

// Categories returns the display groupings for report breakdowns.
func (c *Catalog) Categories() []schema.Category {
	return c.categories
}

// ResolveCatalog returns the configured catalog file if set, otherwise the
// built-in default table.
func ResolveCatalog(cfg *contract.Config) (*Catalog, error) {
	if cfg.CatalogFile == "" {
		return DefaultCatalog(), nil
	}
	return LoadCatalog(cfg.CatalogFile)
}

// Raw shapes for catalog files. A scoped viper instance unmarshals into
// these so catalog files get the same YAML handling as the main config.
type (
	milestoneRaw struct {
		ID          int        `mapstructure:"id"`
		Desc        string     `mapstructure:"desc"`
		Files       []string   `mapstructure:"files"`
		Weight      int        `mapstructure:"weight"`
		Criteria    []string   `mapstructure:"criteria"`
		ProbeFiles  []string   `mapstructure:"probe_files"`
		KeywordGrps [][]string `mapstructure:"keyword_groups"`
		Folders     []string   `mapstructure:"folders"`
	}

	categoryRaw struct {
		Name string `mapstructure:"name"`
		IDs  []int  `mapstructure:"ids"`
	}

	catalogRaw struct {
		Milestones []milestoneRaw `mapstructure:"milestones"`
		Categories []categoryRaw  `mapstructure:"categories"`
	}
)

// LoadCatalog reads a milestone catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading catalog file: %w", err)
	}

	var raw catalogRaw
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("unable to unmarshal catalog: %w", err)
	}

	defs := make([]schema.MilestoneDefinition, 0, len(raw.Milestones))
	for _, m := range raw.Milestones {
		defs = append(defs, schema.MilestoneDefinition{
			ID:          m.ID,
			Desc:        m.Desc,
			Files:       m.Files,
			Weight:      m.Weight,
			Criteria:    m.Criteria,
			ProbeFiles:  m.ProbeFiles,
			KeywordGrps: m.KeywordGrps,
			Folders:     m.Folders,
		})
	}
	categories := make([]schema.Category, 0, len(raw.Categories))
	for _, c := range raw.Categories {
		categories = append(categories, schema.Category{Name: c.Name, IDs: c.IDs})
	}
	return NewCatalog(defs, categories)
}
