// Package docs is the similarity lookup over indexed reference documents,
// backed by the chromem-go embedded vector store.
package docs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	chromem "github.com/philippgille/chromem-go"
	"github.com/sirupsen/logrus"

	"conversation-insights-go/internal/types"
)

const collectionName = "reference-documents"

var ErrNoEmbedding = errors.New("no embedding function configured")

// StoreConfig holds vector store settings.
type StoreConfig struct {
	VectorStorePath string // empty for in-memory
	TopK            int
	MinScore        float32 // results below this similarity are dropped; 0 keeps all
}

// Store indexes markdown content and answers nearest-neighbor queries.
// Queries are read-only; (re)indexing is an explicit warm-up step.
type Store struct {
	col      *chromem.Collection
	topK     int
	minScore float32
	log      *logrus.Entry
}

// NewStore opens (or creates) the vector store. The embedding function is
// injected so tests can run without a network-backed embedder.
func NewStore(cfg StoreConfig, embed chromem.EmbeddingFunc, log *logrus.Entry) (*Store, error) {
	if embed == nil {
		return nil, ErrNoEmbedding
	}

	var db *chromem.DB
	var err error
	if cfg.VectorStorePath != "" {
		db, err = chromem.NewPersistentDB(cfg.VectorStorePath, false)
		if err != nil {
			return nil, fmt.Errorf("open vector store: %w", err)
		}
	} else {
		db = chromem.NewDB()
	}

	col := db.GetCollection(collectionName, embed)
	if col == nil {
		col, err = db.CreateCollection(collectionName, nil, embed)
		if err != nil {
			return nil, fmt.Errorf("create collection: %w", err)
		}
	}

	topK := cfg.TopK
	if topK <= 0 {
		topK = 2
	}
	return &Store{col: col, topK: topK, minScore: cfg.MinScore, log: log}, nil
}

var (
	collapseNewlines = regexp.MustCompile(`\n{3,}`)
	collapseSpaces   = regexp.MustCompile(` {2,}`)
)

// IndexDir loads every markdown file under dir, cleans it up, splits it into
// overlapping chunks and adds the chunks to the collection. Re-adding a chunk
// with the same ID overwrites it, so re-running is a refresh.
func (s *Store) IndexDir(ctx context.Context, dir string) (int, error) {
	chunks := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		content := collapseNewlines.ReplaceAllString(string(raw), "\n")
		content = collapseSpaces.ReplaceAllString(content, " ")

		for i, chunk := range splitChunks(content, 1200, 60) {
			doc := chromem.Document{
				ID:       fmt.Sprintf("%s#%d", path, i),
				Content:  chunk,
				Metadata: map[string]string{"source": path},
			}
			if err := s.col.AddDocument(ctx, doc); err != nil {
				return fmt.Errorf("index %s: %w", path, err)
			}
			chunks++
		}
		return nil
	})
	if err != nil {
		return chunks, err
	}
	s.log.WithFields(logrus.Fields{"dir": dir, "chunks": chunks}).Info("content indexed")
	return chunks, nil
}

// Search returns up to topK chunks relevant to query, most similar first.
// An empty collection or an all-filtered result set is not an error.
func (s *Store) Search(ctx context.Context, query string) ([]types.Document, error) {
	k := s.topK
	if n := s.col.Count(); n < k {
		k = n
	}
	if k == 0 {
		return nil, nil
	}

	results, err := s.col.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}

	var out []types.Document
	for _, r := range results {
		if r.Similarity < s.minScore {
			continue
		}
		out = append(out, types.Document{
			Text:   r.Content,
			Score:  r.Similarity,
			Source: r.Metadata["source"],
		})
	}
	return out, nil
}

// splitChunks cuts text into pieces of at most size runes, preferring
// paragraph boundaries and carrying overlap runes between hard cuts.
func splitChunks(text string, size, overlap int) []string {
	var chunks []string
	var current strings.Builder

	flush := func() {
		if c := strings.TrimSpace(current.String()); c != "" {
			chunks = append(chunks, c)
		}
		current.Reset()
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+len(para) > size {
			flush()
		}
		// Hard cuts happen on rune boundaries so a chunk never ends inside
		// a multi-byte character.
		if runes := []rune(para); len(runes) > size {
			for len(runes) > size {
				chunks = append(chunks, strings.TrimSpace(string(runes[:size])))
				runes = runes[size-overlap:]
			}
			para = string(runes)
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}
	flush()
	return chunks
}
