package scan

import "github.com/doxxscan/walletscan/internal/domain"

// metadataCache is the per-scan token metadata lookup, keyed by mint.
// It is owned by a single scan, fully populated before any classification
// reads it, and never written afterwards, so it needs no locking.
type metadataCache struct {
	byMint map[string]domain.TokenMetadata
}

func newMetadataCache(byMint map[string]domain.TokenMetadata) *metadataCache {
	if byMint == nil {
		byMint = make(map[string]domain.TokenMetadata)
	}
	return &metadataCache{byMint: byMint}
}

// get returns the metadata for a mint, nil when none is known.
func (c *metadataCache) get(mint string) *domain.TokenMetadata {
	if m, ok := c.byMint[mint]; ok {
		return &m
	}
	return nil
}

// fill adds metadata for a mint unless an entry already exists. Used to
// backfill from the asset-search price info, which is coarser than the
// market feed and must not override it.
func (c *metadataCache) fill(mint string, meta domain.TokenMetadata) {
	if _, ok := c.byMint[mint]; !ok {
		c.byMint[mint] = meta
	}
}
