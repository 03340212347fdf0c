package xsd

import (
	"log/slog"
	"sync"
)

// FileCache reads each file once and shares its contents between Loaders.
// Concurrent reads of one file wait for the first; reads of different files
// do not block each other. Failed reads are not cached.
type FileCache struct {
	read  func(name string) ([]byte, error)
	files map[string]*cachedFile
	mu    sync.Mutex
}

type cachedFile struct {
	data []byte
	mu   sync.Mutex
	done bool
}

// NewFileCache creates a [FileCache] around read, e.g. [os.ReadFile].
func NewFileCache(read func(name string) ([]byte, error)) *FileCache {
	return &FileCache{
		read:  read,
		files: map[string]*cachedFile{},
	}
}

// Loader returns a [Loader] that reads through the cache.
func (c *FileCache) Loader() *Loader {
	return &Loader{ReadFile: c.ReadFile}
}

func (c *FileCache) entry(name string) *cachedFile {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, ok := c.files[name]
	if !ok {
		f = &cachedFile{}
		c.files[name] = f
	}

	return f
}

// ReadFile returns the contents of name, reading it on first use.
func (c *FileCache) ReadFile(name string) ([]byte, error) {
	f := c.entry(name)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.done {
		slog.Debug("schema cache hit", slog.String("file", name))

		return f.data, nil
	}

	data, err := c.read(name)
	if err != nil {
		return nil, err
	}

	f.data = data
	f.done = true

	return data, nil
}
