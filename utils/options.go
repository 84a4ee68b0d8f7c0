package utils

import (
	"github.com/adamwoolhether/teamcity/client"
)

// Option configures [New].
type Option func(*options) error
type options struct {
	clientOpts       []client.Option
	requireGuestAuth bool
}

// WithClientOptions passes options through to the underlying session.
func WithClientOptions(opts ...client.Option) Option {
	return func(o *options) error {
		o.clientOpts = append(o.clientOpts, opts...)
		return nil
	}
}

// WithRequireGuestAuth makes [New] fail when the guest login answers with
// a non-2xx status. Without it the outcome is only reported by
// [Utils.GuestAuthErr].
func WithRequireGuestAuth() Option {
	return func(o *options) error {
		o.requireGuestAuth = true
		return nil
	}
}
