package loam

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/pulsegraph/pkg/domain"
)

// Loader adapts a Loam repository of module documents to ports.GraphLoader.
type Loader struct {
	Repo *loam.TypedRepository[ModuleMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[ModuleMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initialises a read-only Loam repository at dir and wraps it.
//
// Strict mode makes every format (Markdown frontmatter, YAML, JSON) decode
// numbers the same way. Read-only mode keeps Loam from creating its working
// sandbox: the graph is never written.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[ModuleMetadata](repo)), nil
}

type entry struct {
	order int
	spec  domain.ModuleSpec
}

// LoadModules lists every document and returns the module definitions sorted
// by order, then name.
func (l *Loader) LoadModules(ctx context.Context) ([]domain.ModuleSpec, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	entries := make([]entry, 0, len(docs))
	for _, doc := range docs {
		meta := doc.Data

		name := meta.Name
		if name == "" {
			name = path.Base(trimExtension(doc.ID))
		}
		if meta.Kind == "" && name != domain.BroadcasterName {
			continue
		}

		kind := domain.KindBroadcaster
		if meta.Kind != "" {
			if kind, err = domain.ParseKind(meta.Kind); err != nil {
				return nil, fmt.Errorf("document %s: %w", doc.ID, err)
			}
		}

		if existing, ok := seen[name]; ok {
			return nil, fmt.Errorf("module %q is defined in both '%s' and '%s': %w", name, existing, doc.ID, domain.ErrDuplicateModule)
		}
		seen[name] = doc.ID

		entries = append(entries, entry{
			order: meta.Order,
			spec:  domain.ModuleSpec{Name: name, Kind: kind, Outputs: meta.Outputs},
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].order != entries[j].order {
			return entries[i].order < entries[j].order
		}
		return entries[i].spec.Name < entries[j].spec.Name
	})

	specs := make([]domain.ModuleSpec, len(entries))
	for i, e := range entries {
		specs[i] = e.spec
	}
	return specs, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
