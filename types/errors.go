package types

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks malformed data handed to segmentation or composition
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoEligiblePosts means the source yielded fewer usable posts than requested
	ErrNoEligiblePosts = errors.New("no eligible posts")
	// ErrAssetPoolExhausted means no background video is left for the next chunk
	ErrAssetPoolExhausted = errors.New("video asset pool exhausted")
	// ErrRenderTimeout means a render job did not reach a terminal status in time
	ErrRenderTimeout = errors.New("render timed out")
	// ErrRunInProgress rejects a trigger while another run is active
	ErrRunInProgress = errors.New("run already in progress")
)

// ProviderError wraps a failure returned by an external collaborator
type ProviderError struct {
	Provider string
	Op       string
	// Chunk is the zero-based chunk index, or -1 outside the chunk loop
	Chunk int
	Err   error
}

func (e *ProviderError) Error() string {
	if e.Chunk >= 0 {
		return fmt.Sprintf("%s %s (chunk %d): %v", e.Provider, e.Op, e.Chunk, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NewProviderError builds a ProviderError outside of a chunk iteration
func NewProviderError(provider, op string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Op: op, Chunk: -1, Err: err}
}

// CleanupError wraps a failed asset deletion; it is logged, never escalated
type CleanupError struct {
	Bucket string
	Key    string
	Err    error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("cleanup %s/%s: %v", e.Bucket, e.Key, e.Err)
}

func (e *CleanupError) Unwrap() error { return e.Err }
