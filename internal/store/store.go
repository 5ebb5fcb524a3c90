package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/colmak/collsim/internal/collide"
	"github.com/colmak/collsim/internal/world"
)

// Store persists scan runs under a base directory: metadata, the
// candidate pair list as CSV, and every model as a YAML archive.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string    `json:"id"`
	Engine    string    `json:"engine"`
	Timestamp time.Time `json:"timestamp"`
	Models    int       `json:"models"`
	Shapes    int       `json:"shapes"`
	Pairs     int       `json:"pairs"`
}

// SaveScan writes one run directory and returns its id.
func (s *Store) SaveScan(engine string, w *world.World, pairs []world.Pair) (string, error) {
	runID := fmt.Sprintf("scan_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(filepath.Join(runDir, "models"), 0755); err != nil {
		return "", err
	}

	shapes := 0
	for i := 0; i < w.NumModels(); i++ {
		shapes += w.ModelAt(i).NumShapes()
	}

	meta := RunMetadata{
		ID:        runID,
		Engine:    engine,
		Timestamp: time.Now(),
		Models:    w.NumModels(),
		Shapes:    shapes,
		Pairs:     len(pairs),
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := s.writePairs(runDir, w, pairs); err != nil {
		return "", err
	}

	for i := 0; i < w.NumModels(); i++ {
		m := w.ModelAt(i)
		name := fmt.Sprintf("%03d_%s.yaml", i, bodyLabel(m))
		f, err := os.Create(filepath.Join(runDir, "models", name))
		if err != nil {
			return "", err
		}
		err = collide.WriteModel(f, m)
		f.Close()
		if err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) writePairs(runDir string, w *world.World, pairs []world.Pair) error {
	f, err := os.Create(filepath.Join(runDir, "pairs.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if err := cw.Write([]string{"a", "a_label", "b", "b_label"}); err != nil {
		return err
	}
	for _, p := range pairs {
		row := []string{
			strconv.Itoa(p.A), bodyLabel(w.ModelAt(p.A)),
			strconv.Itoa(p.B), bodyLabel(w.ModelAt(p.B)),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func bodyLabel(m *collide.Model) string {
	if c := m.Contactable(); c != nil {
		return c.Label()
	}
	return "unnamed"
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadPairs reads back the candidate pair rows of a stored run.
func (s *Store) LoadPairs(runID string) ([]world.Pair, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "pairs.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}

	pairs := make([]world.Pair, 0)
	for i := 1; i < len(records); i++ {
		if len(records[i]) < 4 {
			continue
		}
		a, err := strconv.Atoi(records[i][0])
		if err != nil {
			continue
		}
		b, err := strconv.Atoi(records[i][2])
		if err != nil {
			continue
		}
		pairs = append(pairs, world.Pair{A: a, B: b})
	}
	return pairs, nil
}
