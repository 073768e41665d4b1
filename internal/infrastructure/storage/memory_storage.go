package storage

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
)

// MemoryImageStorage keeps uploaded images in memory. It serves the memory
// store driver, where no bucket is configured.
type MemoryImageStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemoryImageStorage() *MemoryImageStorage {
	return &MemoryImageStorage{objects: make(map[string][]byte)}
}

func (m *MemoryImageStorage) UploadImage(ctx context.Context, file io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	name := fmt.Sprintf("%s/%s%s", listingImageFolder, uuid.New().String(), extensionFor(contentType))

	m.mu.Lock()
	m.objects[name] = data
	m.mu.Unlock()

	return "memory://" + name, nil
}

// Len returns the number of stored objects.
func (m *MemoryImageStorage) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
