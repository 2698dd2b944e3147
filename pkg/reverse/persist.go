package reverse

import (
	"context"
	"encoding/json"

	"github.com/depscope/depscope/pkg/cache"
	"github.com/depscope/depscope/pkg/errors"
)

// Save serializes the index into the given cache backend under key.
//
// The snapshot is loaded back verbatim by LoadIndex with no freshness check
// against the registry it was built from; rebuilding after a registry update
// is the operator's call.
func Save(ctx context.Context, store cache.Cache, key string, idx *Index) error {
	data, err := json.Marshal(idx.Snapshot())
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encoding reverse index")
	}
	if err := store.Set(ctx, key, data); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "saving reverse index %q", key)
	}
	return nil
}

// LoadIndex restores a previously saved index. The second return is false
// when no snapshot exists under key.
func LoadIndex(ctx context.Context, store cache.Cache, key string) (*Index, bool, error) {
	data, ok, err := store.Get(ctx, key)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeStore, err, "loading reverse index %q", key)
	}
	if !ok {
		return nil, false, nil
	}

	var snap map[string]map[string][]Ref
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeStore, err, "decoding reverse index %q", key)
	}

	idx := NewIndex()
	idx.restore(snap)
	return idx, true, nil
}
