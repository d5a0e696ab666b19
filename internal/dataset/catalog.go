package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Species describes one tracked species dataset
type Species struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ScientificName string `json:"scientific_name"`
	MovebankID     int64  `json:"movebank_id,omitempty"`
}

// Catalog is the set of species datasets the server knows about
type Catalog struct {
	species []Species
	byID    map[string]Species
}

type catalogFile struct {
	Datasets []Species `json:"datasets"`
}

// NewCatalog builds a catalog, rejecting blank or duplicate ids
func NewCatalog(species []Species) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]Species, len(species))}
	for i, s := range species {
		if s.ID == "" {
			return nil, fmt.Errorf("catalog entry %d has no id", i)
		}
		if _, exists := c.byID[s.ID]; exists {
			return nil, fmt.Errorf("duplicate catalog id %q", s.ID)
		}
		c.byID[s.ID] = s
		c.species = append(c.species, s)
	}
	sort.Slice(c.species, func(i, j int) bool { return c.species[i].ID < c.species[j].ID })
	return c, nil
}

// LoadCatalog reads a catalog JSON file
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}

	return NewCatalog(file.Datasets)
}

// Lookup returns the species with the given id
func (c *Catalog) Lookup(id string) (Species, error) {
	s, ok := c.byID[id]
	if !ok {
		return Species{}, fmt.Errorf("species %q: %w", id, ErrNotFound)
	}
	return s, nil
}

// Species returns every catalog entry ordered by id
func (c *Catalog) Species() []Species {
	out := make([]Species, len(c.species))
	copy(out, c.species)
	return out
}

// IDs returns every species id in order
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.species))
	for i, s := range c.species {
		ids[i] = s.ID
	}
	return ids
}
