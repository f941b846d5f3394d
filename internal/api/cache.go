package api

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/patrickmn/go-cache"

	"github.com/zzenonn/go-mckp"
	"github.com/zzenonn/go-mckp/internal/metrics"
)

// resultCache memoizes optimize responses in process memory. A zero TTL
// disables it.
type resultCache struct {
	c *cache.Cache
}

func newResultCache(ttl time.Duration) *resultCache {
	if ttl <= 0 {
		return &resultCache{}
	}
	return &resultCache{c: cache.New(ttl, 2*ttl)}
}

func (rc *resultCache) get(key string) (OptimizeResponse, bool) {
	if rc.c == nil {
		return OptimizeResponse{}, false
	}
	v, ok := rc.c.Get(key)
	metrics.RecordCacheLookup(ok)
	if !ok {
		return OptimizeResponse{}, false
	}
	return v.(OptimizeResponse), true
}

func (rc *resultCache) set(key string, resp OptimizeResponse) {
	if rc.c == nil {
		return
	}
	rc.c.SetDefault(key, resp)
	metrics.SetCacheEntries(rc.c.ItemCount())
}

func (rc *resultCache) size() int {
	if rc.c == nil {
		return 0
	}
	return rc.c.ItemCount()
}

// Fingerprint hashes a dataset's content: category, item and attribute
// names, weights and values, all in order.
func Fingerprint(ds mckp.Dataset) uint64 {
	d := xxhash.New()
	var buf [8]byte
	writeFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = d.Write(buf[:])
	}
	writeString := func(s string) {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
		_, _ = d.Write(buf[:])
		_, _ = d.WriteString(s)
	}

	for _, c := range ds.Categories {
		writeString(c.Name)
		writeFloat(float64(len(c.Items)))
		for _, it := range c.Items {
			writeString(it.Name)
			writeFloat(it.Weight)
			writeFloat(float64(len(it.Attributes)))
			for _, a := range it.Attributes {
				writeString(a.Name)
				writeFloat(a.Value)
			}
		}
	}
	return d.Sum64()
}
