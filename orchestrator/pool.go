package orchestrator

import (
	"strings"

	"storyreel/types"
)

// VideoPool is the ordered set of background videos available to one post.
// Each asset is handed out at most once.
type VideoPool struct {
	assets []types.Asset
}

// NewVideoPool keeps the assets whose key ends in ext, in listing order
func NewVideoPool(assets []types.Asset, ext string) *VideoPool {
	p := &VideoPool{}
	for _, a := range assets {
		if strings.HasSuffix(strings.ToLower(a.Key), strings.ToLower(ext)) {
			p.assets = append(p.assets, a)
		}
	}
	return p
}

// Pop removes and returns the next asset
func (p *VideoPool) Pop() (types.Asset, error) {
	if len(p.assets) == 0 {
		return types.Asset{}, types.ErrAssetPoolExhausted
	}
	a := p.assets[0]
	p.assets = p.assets[1:]
	return a, nil
}

// Len returns the number of assets left
func (p *VideoPool) Len() int { return len(p.assets) }
