package assembly

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/arm-software/astcenc-bridge/astc"
)

var errLengthMismatch = errors.New("length does not match data")

// Texture is an in-memory ASTC texture ready for upload.
type Texture struct {
	Width  int32
	Height int32
	Format astc.Format
	Data   []byte
}

// MemoryConsumer keeps every texture it creates. It is safe for concurrent use.
type MemoryConsumer struct {
	mu       sync.Mutex
	textures []*Texture
}

func (c *MemoryConsumer) CreateTexture(width, height int32, format astc.Format, raw []byte, length int32) (*Texture, error) {
	if int(length) != len(raw) {
		return nil, fmt.Errorf("%w: %d vs %d", errLengthMismatch, length, len(raw))
	}
	tex := &Texture{Width: width, Height: height, Format: format, Data: raw}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.textures = append(c.textures, tex)
	return tex, nil
}

// Created returns the number of textures created so far.
func (c *MemoryConsumer) Created() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.textures)
}

// Textures returns the created textures in creation order.
func (c *MemoryConsumer) Textures() []*Texture {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Texture(nil), c.textures...)
}

// FileConsumer writes each texture to Path as an .astc file and returns the
// path. The file is written to a temporary name first and renamed into place.
type FileConsumer struct {
	Path string
}

func (c FileConsumer) CreateTexture(width, height int32, format astc.Format, raw []byte, length int32) (string, error) {
	if int(length) != len(raw) {
		return "", fmt.Errorf("%w: %d vs %d", errLengthMismatch, length, len(raw))
	}
	fp, ok := format.Footprint()
	if !ok {
		return "", fmt.Errorf("unsupported format %v", format)
	}
	h, err := astc.NewHeader(fp, int(width), int(height))
	if err != nil {
		return "", err
	}
	hdr, err := astc.MarshalHeader(h)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(c.Path)+".*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(hdr[:]); err != nil {
		tmp.Close()
		cleanup()
		return "", fmt.Errorf("write header: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		cleanup()
		return "", fmt.Errorf("write blocks: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, c.Path); err != nil {
		cleanup()
		return "", fmt.Errorf("rename into place: %w", err)
	}
	return c.Path, nil
}

var (
	_ Consumer[*Texture] = (*MemoryConsumer)(nil)
	_ Consumer[string]   = FileConsumer{}
)
