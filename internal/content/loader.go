package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/solace/internal/game/combatant"
	"github.com/cory-johannsen/solace/internal/game/status"
)

// Catalog file names.
const (
	StatusesFile  = "statuses.yaml"
	MovesFile     = "moves.yaml"
	ItemsFile     = "items.yaml"
	OpponentsFile = "opponents.yaml"
	MemoriesFile  = "memories.yaml"
	PlayerFile    = "player.yaml"
)

//go:embed defaults/*.yaml
var embedded embed.FS

// Defaults returns the built-in catalog files.
func Defaults() fs.FS {
	sub, err := fs.Sub(embedded, "defaults")
	if err != nil {
		panic(fmt.Sprintf("content: embedded defaults: %v", err))
	}
	return sub
}

// Load reads the catalog from dir. A file missing from dir falls back to the
// built-in default of the same name; an empty dir loads the defaults only.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a validated Catalog or an error naming the failing file.
func Load(dir string, logger *zap.Logger) (*Catalog, error) {
	if dir == "" {
		return LoadFS(Defaults(), logger)
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("content dir %q: %w", dir, err)
	}
	return LoadFS(overlay{primary: os.DirFS(dir), fallback: Defaults()}, logger)
}

// LoadFS reads every catalog file from fsys.
//
// Precondition: logger must be non-nil.
func LoadFS(fsys fs.FS, logger *zap.Logger) (*Catalog, error) {
	c := &Catalog{
		statuses:  status.NewRegistry(),
		moves:     make(map[string]combatant.Move),
		opponents: make(map[string]*combatant.Template),
		logger:    logger,
	}

	data, err := fs.ReadFile(fsys, StatusesFile)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", StatusesFile, err)
	}
	defs, err := status.ParseDefs(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", StatusesFile, err)
	}
	for _, d := range defs {
		if _, dup := c.statuses.Get(d.Kind); dup {
			return nil, fmt.Errorf("loading %s: duplicate status %q", StatusesFile, d.Kind)
		}
		c.statuses.Register(d)
	}

	var moves []combatant.Move
	if err := decodeFile(fsys, MovesFile, &moves); err != nil {
		return nil, err
	}
	for i := range moves {
		mv := moves[i]
		if err := mv.Validate(); err != nil {
			return nil, fmt.Errorf("loading %s: %w", MovesFile, err)
		}
		if _, dup := c.moves[mv.ID]; dup {
			return nil, fmt.Errorf("loading %s: duplicate move %q", MovesFile, mv.ID)
		}
		c.moves[mv.ID] = mv
	}

	if err := decodeFile(fsys, ItemsFile, &c.items); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(c.items))
	for i := range c.items {
		if err := c.items[i].Validate(); err != nil {
			return nil, fmt.Errorf("loading %s: %w", ItemsFile, err)
		}
		if seen[c.items[i].ID] {
			return nil, fmt.Errorf("loading %s: duplicate item %q", ItemsFile, c.items[i].ID)
		}
		seen[c.items[i].ID] = true
	}

	var templates []*combatant.Template
	if err := decodeFile(fsys, OpponentsFile, &templates); err != nil {
		return nil, err
	}
	for i, t := range templates {
		if t == nil {
			return nil, fmt.Errorf("loading %s: entry %d is empty", OpponentsFile, i)
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("loading %s: %w", OpponentsFile, err)
		}
		if _, dup := c.opponents[t.ID]; dup {
			return nil, fmt.Errorf("loading %s: duplicate opponent %q", OpponentsFile, t.ID)
		}
		c.opponents[t.ID] = t
	}

	if err := decodeFile(fsys, MemoriesFile, &c.memories); err != nil {
		return nil, err
	}
	seen = make(map[string]bool, len(c.memories))
	for i, m := range c.memories {
		if m.ID == "" || m.Title == "" {
			return nil, fmt.Errorf("loading %s: entry %d needs id and title", MemoriesFile, i)
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("loading %s: duplicate memory %q", MemoriesFile, m.ID)
		}
		seen[m.ID] = true
	}

	if err := decodeFile(fsys, PlayerFile, &c.player); err != nil {
		return nil, err
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("validating catalog: %w", err)
	}
	logger.Info("content loaded",
		zap.Int("statuses", c.statuses.Len()),
		zap.Int("moves", len(c.moves)),
		zap.Int("items", len(c.items)),
		zap.Int("opponents", len(c.opponents)),
		zap.Int("memories", len(c.memories)),
	)
	return c, nil
}

// decodeFile strictly decodes the YAML file name of fsys into out.
func decodeFile(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

// overlay serves files from primary, falling back to fallback for names
// primary does not have.
type overlay struct {
	primary  fs.FS
	fallback fs.FS
}

func (o overlay) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return o.fallback.Open(name)
	}
	return f, err
}
