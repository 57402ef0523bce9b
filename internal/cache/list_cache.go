package cache

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultListTTL   = 5 * time.Minute
	minListCacheSize = 4 * 1024 * 1024

	// freecache refuses entries bigger than a quarter of a segment (cache size / 1024),
	// header and key included. Chunks take a sixteenth of a segment so that the chunks of
	// one payload hashing to the same segment do not evict each other.
	freecacheSegments    = 256
	chunksPerSegment     = 16
	freecacheEntryHeader = 24
	chunkKeySlack        = 128
	maxListKeyLen        = 96

	listHeaderSize = 20
)

// ListCache holds pre-rendered list responses keyed by name. Entries expire after the
// configured TTL and are dropped on Clear, which mutating handlers call.
//
// A payload is stored as a header entry plus numbered chunk entries, each small enough
// for freecache. Chunk keys carry the generation of their Set, so a reader never
// stitches together chunks of two different payloads.
type ListCache struct {
	cache      *freecache.Cache
	ttlSeconds int
	chunkSize  int
	generation atomic.Uint64
}

func NewListCache(sizeBytes int, ttl time.Duration) *ListCache {
	if sizeBytes < minListCacheSize {
		sizeBytes = minListCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultListTTL
	}
	return &ListCache{
		cache:      freecache.NewCache(sizeBytes),
		ttlSeconds: int(ttl.Seconds()),
		chunkSize:  sizeBytes/freecacheSegments/chunksPerSegment - freecacheEntryHeader - chunkKeySlack,
	}
}

func chunkKey(key string, generation uint64, i int) []byte {
	return []byte(key + "#" + strconv.FormatUint(generation, 10) + "#" + strconv.Itoa(i))
}

func (c *ListCache) Get(key string) ([]byte, bool) {
	header, err := c.cache.Get([]byte(key))
	if err != nil {
		if !errors.Is(err, freecache.ErrNotFound) {
			log.Errorf("list cache get [%s]: %s", key, err)
		}
		return nil, false
	}
	if len(header) != listHeaderSize {
		log.Errorf("list cache get [%s]: malformed header", key)
		return nil, false
	}

	generation := binary.BigEndian.Uint64(header[0:8])
	chunks := int(binary.BigEndian.Uint32(header[8:12]))
	size := binary.BigEndian.Uint64(header[12:20])

	payload := make([]byte, 0, size)
	for i := 0; i < chunks; i++ {
		chunk, err := c.cache.Get(chunkKey(key, generation, i))
		if err != nil {
			// a chunk was evicted before its header
			return nil, false
		}
		payload = append(payload, chunk...)
	}
	if uint64(len(payload)) != size {
		return nil, false
	}
	return payload, true
}

func (c *ListCache) Set(key string, payload []byte) {
	if len(key) > maxListKeyLen {
		log.Errorf("list cache set [%s]: key too long", key)
		return
	}

	generation := c.generation.Add(1)
	chunks := 0
	for offset := 0; offset < len(payload); offset += c.chunkSize {
		end := min(offset+c.chunkSize, len(payload))
		if err := c.cache.Set(chunkKey(key, generation, chunks), payload[offset:end], c.ttlSeconds); err != nil {
			log.Errorf("list cache set [%s] chunk %d: %s", key, chunks, err)
			c.cache.Del([]byte(key))
			return
		}
		chunks++
	}

	header := make([]byte, listHeaderSize)
	binary.BigEndian.PutUint64(header[0:8], generation)
	binary.BigEndian.PutUint32(header[8:12], uint32(chunks))
	binary.BigEndian.PutUint64(header[12:20], uint64(len(payload)))
	if err := c.cache.Set([]byte(key), header, c.ttlSeconds); err != nil {
		log.Errorf("list cache set [%s]: %s", key, err)
	}
}

func (c *ListCache) Clear() {
	c.cache.Clear()
}

// EntryCount counts stored lists, not their chunks.
func (c *ListCache) EntryCount() int64 {
	var lists int64
	it := c.cache.NewIterator()
	for entry := it.Next(); entry != nil; entry = it.Next() {
		if len(entry.Value) == listHeaderSize && !bytes.ContainsRune(entry.Key, '#') {
			lists++
		}
	}
	return lists
}
