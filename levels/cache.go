package levels

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/neoneye/SwiftSnakeEngine-sub000/game"
)

// Cache stores inter-cluster distances as <dir>/<checksum>.json.
type Cache struct {
	dir string
}

func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

type cacheFile struct {
	Checksum  string      `json:"checksum"`
	LevelID   string      `json:"level_id"`
	Distances []cacheEdge `json:"distances"`
}

type cacheEdge struct {
	A    int32 `json:"a"`
	B    int32 `json:"b"`
	Hops int32 `json:"hops"`
}

func (c *Cache) path(checksum string) string {
	return filepath.Join(c.dir, checksum+".json")
}

// Load returns the cached distances for checksum. A missing file is not an error.
func (c *Cache) Load(checksum string) (map[game.ClusterPair]int32, bool, error) {
	data, err := os.ReadFile(c.path(checksum))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var f cacheFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", c.path(checksum), err)
	}
	if f.Checksum != checksum {
		return nil, false, nil
	}
	out := make(map[game.ClusterPair]int32, len(f.Distances))
	for _, e := range f.Distances {
		out[game.NewClusterPair(e.A, e.B)] = e.Hops
	}
	return out, true, nil
}

// Store writes the distances through a temporary file and a rename so a
// concurrent reader never sees a partial file.
func (c *Cache) Store(checksum, levelID string, d map[game.ClusterPair]int32) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	f := cacheFile{Checksum: checksum, LevelID: levelID, Distances: make([]cacheEdge, 0, len(d))}
	for k, v := range d {
		f.Distances = append(f.Distances, cacheEdge{A: k.A, B: k.B, Hops: v})
	}
	sort.Slice(f.Distances, func(i, j int) bool {
		if f.Distances[i].A != f.Distances[j].A {
			return f.Distances[i].A < f.Distances[j].A
		}
		return f.Distances[i].B < f.Distances[j].B
	})
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(c.dir, checksum+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), c.path(checksum))
}
