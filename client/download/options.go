package download

import (
	"errors"
	"fmt"
	"hash"
	"os"
)

// Option defines optional settings for downloading files.
//
// WithChunkSize caps the size of each write to the destination file.
//
// WithChecksum enables checksum validation of the downloaded file.
// h is a hash.Hash instance (e.g. sha256.New()), and expected is the
// hex-encoded expected checksum string.
//
// WithProgress enables periodic download progress logging via the
// logger supplied to Handle.
//
// WithSkipExisting causes Handle to return nil immediately when
// the destination file already exists. Callers holding a request should
// check Skip before sending it.
type Option func(*options) error

type options struct {
	chunkSize    int
	checksum     *checksumVerifier
	progress     bool
	skipExisting bool
}

func newOptions(optFns []Option) (options, error) {
	opts := options{chunkSize: DefaultChunkSize}
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return options{}, fmt.Errorf("applying option: %w", err)
		}
	}

	return opts, nil
}

func (o options) skip(destPath string) bool {
	if !o.skipExisting {
		return false
	}

	_, err := os.Stat(destPath)
	return err == nil
}

func WithChunkSize(n int) Option {
	return func(opts *options) error {
		if n <= 0 {
			return errors.New("chunk size must be greater than zero")
		}

		opts.chunkSize = n
		return nil
	}
}

func WithChecksum(h hash.Hash, expected string) Option {
	return func(opts *options) error {
		if h == nil {
			return errors.New("hash must not be nil")
		}

		if expected == "" {
			return errors.New("expected checksum must not be empty")
		}

		opts.checksum = &checksumVerifier{hash: h, expected: expected}
		return nil
	}
}

func WithProgress() Option {
	return func(opts *options) error {
		opts.progress = true
		return nil
	}
}

func WithSkipExisting() Option {
	return func(opts *options) error {
		opts.skipExisting = true
		return nil
	}
}
