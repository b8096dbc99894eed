// Package curriculum loads and indexes the static catalog of target
// phrases. The catalog is read once at startup; the index is immutable
// afterwards.
package curriculum

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/phrazzld/parla-api/internal/domain"
)

//go:embed catalog.json
var defaultCatalog []byte

// catalogFile is the on-disk JSON shape of the curriculum catalog.
type catalogFile struct {
	Tracks map[string][]catalogEntry `json:"tracks"`
}

type catalogEntry struct {
	ID       string   `json:"id"`
	Age      string   `json:"age"` // inclusive band, e.g. "5-6"
	Target   string   `json:"target"`
	Patterns []string `json:"patterns"`
}

// Index answers which curriculum items fit a track and age band.
type Index struct {
	items []domain.CurriculumItem
}

// Load reads and validates a catalog from the given path. An empty path
// loads the catalog embedded in the binary. Malformed content is a fatal
// startup error, never a runtime one.
func Load(path string) (*Index, error) {
	data := defaultCatalog
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read curriculum catalog: %w", err)
		}
	}
	return Parse(data)
}

// Parse builds an index from raw catalog JSON.
func Parse(data []byte) (*Index, error) {
	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse curriculum catalog: %w", err)
	}

	// Track iteration order over a JSON object is not stable in Go, but
	// catalog order within a track must be: it breaks scheduling ties.
	// Sort tracks by name so the full item sequence is deterministic.
	trackNames := make([]string, 0, len(file.Tracks))
	for name := range file.Tracks {
		trackNames = append(trackNames, name)
	}
	sort.Strings(trackNames)

	var items []domain.CurriculumItem
	for _, track := range trackNames {
		for _, entry := range file.Tracks[track] {
			band, err := domain.ParseAgeBand(entry.Age)
			if err != nil {
				return nil, fmt.Errorf("curriculum item %s/%s: %w", track, entry.ID, err)
			}

			item := domain.CurriculumItem{
				Track:        track,
				ItemID:       entry.ID,
				MinAge:       band.Min,
				MaxAge:       band.Max,
				TargetPhrase: entry.Target,
				Patterns:     entry.Patterns,
			}
			if err := item.Validate(); err != nil {
				return nil, err
			}
			items = append(items, item)
		}
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%w: curriculum catalog contains no items", domain.ErrValidation)
	}

	return &Index{items: items}, nil
}

// ItemsFor returns the items matching the track whose age range overlaps
// the band, in catalog order.
func (x *Index) ItemsFor(track string, band domain.AgeBand) []domain.CurriculumItem {
	var matched []domain.CurriculumItem
	for _, item := range x.items {
		if item.Track == track && band.Overlaps(item.MinAge, item.MaxAge) {
			matched = append(matched, item)
		}
	}
	return matched
}

// AllItems returns every item in the catalog, in catalog order.
func (x *Index) AllItems() []domain.CurriculumItem {
	out := make([]domain.CurriculumItem, len(x.items))
	copy(out, x.items)
	return out
}

// Tracks returns the sorted set of track names present in the catalog.
func (x *Index) Tracks() []string {
	seen := make(map[string]struct{})
	var tracks []string
	for _, item := range x.items {
		if _, ok := seen[item.Track]; ok {
			continue
		}
		seen[item.Track] = struct{}{}
		tracks = append(tracks, item.Track)
	}
	sort.Strings(tracks)
	return tracks
}
