package app

import (
	"context"
	"fmt"

	"github.com/adamwoolhether/teamcity/client"
	"github.com/adamwoolhether/teamcity/utils"
)

// session is a logged-in connection to the server. authErr holds the
// outcome of the login; commands still run when it failed, so the server's
// answer is what the user sees.
type session struct {
	*utils.Utils
	mode    string
	authErr error
}

func (o *GlobalOptions) clientOptions() []client.Option {
	opts := []client.Option{
		client.WithLogger(o.logger),
		client.WithUserAgent(cliName + "-cli/" + Version),
	}

	if o.cfg.Timeout > 0 {
		opts = append(opts, client.WithTimeout(o.cfg.Timeout))
	}
	if o.cfg.Insecure {
		opts = append(opts, client.WithInsecureSkipVerify())
	}
	if o.cfg.RPS > 0 {
		opts = append(opts, client.WithThrottle(o.cfg.RPS, o.cfg.ThrottleBurst()))
	}

	return opts
}

// connect builds the utility layer, which logs in as guest, then logs in
// with basic auth when a user is configured.
func (o *GlobalOptions) connect(ctx context.Context) (*session, error) {
	u, err := utils.New(ctx, o.cfg.URL, utils.WithClientOptions(o.clientOptions()...))
	if err != nil {
		return nil, err
	}

	s := session{Utils: u, mode: "guest", authErr: u.GuestAuthErr()}

	if o.cfg.User != "" {
		s.mode = "basic"

		resp, err := u.HTTPAuth(ctx, o.cfg.User, o.cfg.Password)
		if err != nil {
			return nil, fmt.Errorf("basic auth: %w", err)
		}

		s.authErr = nil
		if !success(resp.StatusCode) {
			s.authErr = client.NewStatusError(resp)
		}
	}

	if s.authErr != nil {
		o.logger.WarnContext(ctx, "authentication failed", "mode", s.mode, "error", s.authErr)
	}

	return &s, nil
}

func success(code int) bool {
	return code >= 200 && code <= 299
}
