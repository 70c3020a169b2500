package index

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tasteline/tasteline/internal/embed"
	"github.com/tasteline/tasteline/internal/recipe"
	"github.com/tasteline/tasteline/internal/vector"
)

// RecordsProvider supplies corpus snapshots to index builds.
type RecordsProvider interface {
	ListAll(ctx context.Context) ([]recipe.Recipe, error)
}

// CoordinatorConfig contains configuration for the Coordinator.
type CoordinatorConfig struct {
	// LexicalPath is the lexical index directory.
	LexicalPath string

	// EmbeddingsPath is the embedding store blob path.
	EmbeddingsPath string

	// LockDir is where the cross-process build lock lives.
	LockDir string

	// Records supplies the corpus snapshot.
	Records RecordsProvider

	// Embedder builds the embedding store. May be nil when semantic
	// search is disabled; the embedding artifact is then skipped.
	Embedder embed.Embedder
}

// Coordinator decides at startup which search artifacts exist and
// triggers builds only for the missing ones. It does not detect corpus
// drift: an index that exists but no longer matches the corpus is
// treated as valid, and rebuilding is an explicit caller-invoked
// operation.
type Coordinator struct {
	config CoordinatorConfig
	mu     sync.Mutex
}

// NewCoordinator creates a new index coordinator.
func NewCoordinator(config CoordinatorConfig) *Coordinator {
	return &Coordinator{config: config}
}

// EnsureReady checks each artifact independently and builds whichever
// is missing. Idempotent; meant to be called once at process start.
// An embedding build failure is logged and swallowed so lexical and
// literal search stay usable without a model.
func (c *Coordinator) EnsureReady(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	needLexical := !Exists(c.config.LexicalPath)
	needEmbeddings := c.config.Embedder != nil && !vector.Exists(c.config.EmbeddingsPath)

	if !needLexical && !needEmbeddings {
		slog.Debug("indexes_ready",
			slog.String("lexical", c.config.LexicalPath),
			slog.String("embeddings", c.config.EmbeddingsPath))
		return nil
	}

	return c.build(ctx, needLexical, needEmbeddings, true)
}

// Rebuild unconditionally rebuilds both artifacts from the current
// corpus snapshot.
func (c *Coordinator) Rebuild(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.build(ctx, true, c.config.Embedder != nil, false)
}

func (c *Coordinator) build(ctx context.Context, lexical, embeddings, recheck bool) error {
	// Serialize against other processes racing to publish the same
	// artifact paths.
	lock := embed.NewBuildLock(c.config.LockDir)
	if err := lock.Lock(); err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	// Another process may have finished the build while we waited on
	// the lock.
	if recheck {
		lexical = lexical && !Exists(c.config.LexicalPath)
		embeddings = embeddings && !vector.Exists(c.config.EmbeddingsPath)
		if !lexical && !embeddings {
			return nil
		}
	}

	records, err := c.config.Records.ListAll(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	if lexical {
		g.Go(func() error {
			return Build(gctx, records, c.config.LexicalPath)
		})
	}

	if embeddings {
		g.Go(func() error {
			if _, err := vector.Build(gctx, records, c.config.Embedder, c.config.EmbeddingsPath); err != nil {
				// Semantic search is optional; other methods remain usable.
				slog.Warn("embedding_build_failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	return g.Wait()
}
