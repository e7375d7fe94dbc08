package library

import (
	"fmt"
	"sync"
	"time"

	"github.com/jscyril/wavejukebox/api"
	playerrors "github.com/jscyril/wavejukebox/pkg/errors"
)

// Catalog holds the results of the most recent scan. Entries are addressed
// by 1-based ids in listing order.
type Catalog struct {
	files       []api.FileInfo
	root        string
	pattern     string
	lastScanned time.Time

	mu sync.RWMutex
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Replace swaps in the results of a new scan.
func (c *Catalog) Replace(root, pattern string, files []api.FileInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.files = append([]api.FileInfo(nil), files...)
	c.root = root
	c.pattern = pattern
	c.lastScanned = time.Now()
}

// Len returns the number of files
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.files)
}

// Get returns the file with the given 1-based id.
func (c *Catalog) Get(id int) (api.FileInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if id < 1 || id > len(c.files) {
		return api.FileInfo{}, fmt.Errorf("%w: id %d (have %d files)", playerrors.ErrIndexOutOfRange, id, len(c.files))
	}
	return c.files[id-1], nil
}

// All returns a copy of the files in listing order
func (c *Catalog) All() []api.FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]api.FileInfo(nil), c.files...)
}

// Root returns the directory and pattern of the last scan
func (c *Catalog) Root() (string, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.root, c.pattern
}

// LastScanned returns when Replace was last called
func (c *Catalog) LastScanned() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastScanned
}
