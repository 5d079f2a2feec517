// Package jsonio reads and writes card lists as JSON.
//
// A card file is an array of objects. Every object needs a "name"; its other
// fields become the card's Value as a map. A leading object without a name
// holds fields shared by every card in the file:
//
//	[
//	  {"deck": "minions", "cost": 1},
//	  {"name": "goblin", "attack": 2},
//	  {"name": "orc", "attack": 3, "cost": 2, "player_counts": [2, 4]}
//	]
//
// A "player_counts" list expands its card into one copy per entry, each with
// a "player_count" field, so the same file can describe packs for several
// table sizes.
package jsonio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/phanxgames/cardtable"
)

const (
	nameKey         = "name"
	playerCountsKey = "player_counts"
	playerCountKey  = "player_count"
)

// ErrNoName is returned for a card object without a name that is not the
// leading shared-fields object.
var ErrNoName = errors.New("jsonio: card has no name")

// Fields is the Value of every card read by this package.
type Fields map[string]any

// ReadCards decodes a card file from r. Cards get fresh ids from ids.
func ReadCards(r io.Reader, ids *cardtable.IDAllocator) (*cardtable.CardSet, error) {
	var objs []map[string]any
	if err := json.NewDecoder(r).Decode(&objs); err != nil {
		return nil, fmt.Errorf("read cards: %w", err)
	}
	set := cardtable.NewCardSet()
	if len(objs) == 0 {
		return set, nil
	}

	var shared map[string]any
	if _, ok := objs[0][nameKey]; !ok {
		shared, objs = objs[0], objs[1:]
	}

	var extra []map[string]any
	for i, obj := range objs {
		name, ok := obj[nameKey].(string)
		if !ok {
			return nil, fmt.Errorf("read cards: object %d: %w", i, ErrNoName)
		}
		copies, err := expand(obj)
		if err != nil {
			return nil, fmt.Errorf("read cards: %s: %w", name, err)
		}
		set.Append(newCard(ids, name, shared, copies[0]))
		extra = append(extra, copies[1:]...)
	}
	// Expanded copies go after the listed cards.
	for _, obj := range extra {
		set.Append(newCard(ids, obj[nameKey].(string), shared, obj))
	}
	return set, nil
}

// expand splits obj on its player_counts list.
func expand(obj map[string]any) ([]map[string]any, error) {
	raw, ok := obj[playerCountsKey]
	if !ok {
		return []map[string]any{obj}, nil
	}
	counts, ok := raw.([]any)
	if !ok || len(counts) == 0 {
		return nil, fmt.Errorf("%s must be a non-empty list", playerCountsKey)
	}
	out := make([]map[string]any, len(counts))
	for i, n := range counts {
		c := maps.Clone(obj)
		delete(c, playerCountsKey)
		c[playerCountKey] = n
		out[i] = c
	}
	return out, nil
}

func newCard(ids *cardtable.IDAllocator, name string, shared, own map[string]any) *cardtable.Card {
	fields := make(Fields, len(shared)+len(own))
	maps.Copy(fields, shared)
	maps.Copy(fields, own)
	delete(fields, nameKey)
	return ids.NewCard(name, fields)
}

// ReadFile reads a single card file.
func ReadFile(path string, ids *cardtable.IDAllocator) (*cardtable.CardSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read cards %s: %w", path, err)
	}
	defer f.Close()
	set, err := ReadCards(f, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// ReadDir reads every .json file under dir, in lexical path order, and
// joins the results.
func ReadDir(dir string, ids *cardtable.IDAllocator, logger *log.Logger) (*cardtable.CardSet, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".json" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read cards %s: %w", dir, err)
	}
	slices.Sort(paths)

	sets := make([]*cardtable.CardSet, 0, len(paths))
	for _, p := range paths {
		set, err := ReadFile(p, ids)
		if err != nil {
			return nil, err
		}
		if logger != nil {
			logger.Debug("loaded cards", "file", p, "cards", set.Len())
		}
		sets = append(sets, set)
	}
	return cardtable.JoinSets(sets...), nil
}

// WriteCards encodes cards as a card file. Map values (Fields or
// map[string]any) are written inline; any other non-nil Value is written
// under "value". Ids are not written.
func WriteCards(w io.Writer, cards []*cardtable.Card) error {
	objs := make([]map[string]any, len(cards))
	for i, c := range cards {
		obj := map[string]any{}
		switch v := c.Value.(type) {
		case nil:
		case Fields:
			maps.Copy(obj, v)
		case map[string]any:
			maps.Copy(obj, v)
		default:
			obj["value"] = v
		}
		obj[nameKey] = c.Name
		objs[i] = obj
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(objs); err != nil {
		return fmt.Errorf("write cards: %w", err)
	}
	return nil
}
