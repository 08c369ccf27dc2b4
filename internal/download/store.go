package download

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ocrdesk/internal/redis"
)

var ErrNotFound = errors.New("download not found")

// Blob is a stored download.
type Blob struct {
	Filename string
	Data     []byte
}

// Store keeps blobs until they are taken once.
type Store interface {
	Put(ctx context.Context, blob Blob) (string, error)
	Take(ctx context.Context, id string) (*Blob, error)
}

// Link points the desk page at a stored download.
type Link struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// StoreDownloader puts downloads into a Store and remembers links for the page.
type StoreDownloader struct {
	store    Store
	basePath string

	mu    sync.Mutex
	links []Link
}

func NewStoreDownloader(store Store, basePath string) *StoreDownloader {
	return &StoreDownloader{store: store, basePath: strings.TrimRight(basePath, "/") + "/"}
}

func (d *StoreDownloader) TriggerDownload(ctx context.Context, data []byte, filename string) error {
	id, err := d.store.Put(ctx, Blob{Filename: filename, Data: data})
	if err != nil {
		return fmt.Errorf("store %s: %w", filename, err)
	}
	d.mu.Lock()
	d.links = append(d.links, Link{ID: id, Filename: filename, URL: d.basePath + id})
	d.mu.Unlock()
	return nil
}

// DrainLinks returns pending links and forgets them.
func (d *StoreDownloader) DrainLinks() []Link {
	d.mu.Lock()
	defer d.mu.Unlock()
	links := d.links
	d.links = nil
	if links == nil {
		return make([]Link, 0)
	}
	return links
}

type memoryEntry struct {
	blob      Blob
	expiresAt time.Time
}

// MemoryStore is an in-process Store with a TTL per blob.
type MemoryStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	blobs map[string]memoryEntry
	now   func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &MemoryStore{ttl: ttl, blobs: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Put(ctx context.Context, blob Blob) (string, error) {
	id := uuid.NewString()
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, entry := range s.blobs {
		if now.After(entry.expiresAt) {
			delete(s.blobs, key)
		}
	}
	s.blobs[id] = memoryEntry{blob: blob, expiresAt: now.Add(s.ttl)}
	return id, nil
}

func (s *MemoryStore) Take(ctx context.Context, id string) (*Blob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.blobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.blobs, id)
	if s.now().After(entry.expiresAt) {
		return nil, ErrNotFound
	}
	return &entry.blob, nil
}

// RedisStore keeps blobs in redis hashes that expire after ttl.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(id string) string {
	return "ocrdesk:download:" + id
}

func (s *RedisStore) Put(ctx context.Context, blob Blob) (string, error) {
	id := uuid.NewString()
	fields := map[string]interface{}{
		"filename": blob.Filename,
		"data":     blob.Data,
	}
	if err := s.client.PutHash(ctx, redisKey(id), fields, s.ttl); err != nil {
		return "", err
	}
	return id, nil
}

func (s *RedisStore) Take(ctx context.Context, id string) (*Blob, error) {
	values, err := s.client.TakeHash(ctx, redisKey(id))
	if err != nil {
		if errors.Is(err, redis.ErrCacheMiss) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &Blob{Filename: values["filename"], Data: []byte(values["data"])}, nil
}
