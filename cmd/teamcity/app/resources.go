package app

import (
	"context"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/teamcity/api"
)

// resource is a read-only REST endpoint exposed as a subcommand.
type resource struct {
	use   string
	short string
	args  []string
	call  func(ctx context.Context, tc *api.API, args []string) (*http.Response, error)
}

var resources = []resource{
	{
		use:   "version",
		short: "Print the REST API version",
		call:  func(ctx context.Context, tc *api.API, _ []string) (*http.Response, error) { return tc.Version(ctx) },
	},
	{
		use:   "users",
		short: "List users",
		call:  func(ctx context.Context, tc *api.API, _ []string) (*http.Response, error) { return tc.Users(ctx) },
	},
	{
		use:   "projects",
		short: "List projects",
		call:  func(ctx context.Context, tc *api.API, _ []string) (*http.Response, error) { return tc.Projects(ctx) },
	},
	{
		use:   "project",
		short: "Show a project",
		args:  []string{"project-id"},
		call: func(ctx context.Context, tc *api.API, args []string) (*http.Response, error) {
			return tc.Project(ctx, args[0])
		},
	},
	{
		use:   "build-types",
		short: "List build configurations",
		call:  func(ctx context.Context, tc *api.API, _ []string) (*http.Response, error) { return tc.BuildTypes(ctx) },
	},
	{
		use:   "build-type",
		short: "Show a build configuration",
		args:  []string{"build-type-id"},
		call: func(ctx context.Context, tc *api.API, args []string) (*http.Response, error) {
			return tc.BuildType(ctx, args[0])
		},
	},
	{
		use:   "builds",
		short: "List builds",
		call:  func(ctx context.Context, tc *api.API, _ []string) (*http.Response, error) { return tc.Builds(ctx) },
	},
	{
		use:   "build",
		short: "Show a build; the argument is a locator such as id:42",
		args:  []string{"build-locator"},
		call: func(ctx context.Context, tc *api.API, args []string) (*http.Response, error) {
			return tc.Build(ctx, args[0])
		},
	},
	{
		use:   "tags",
		short: "List the tags of a build",
		args:  []string{"build-id"},
		call: func(ctx context.Context, tc *api.API, args []string) (*http.Response, error) {
			return tc.Tags(ctx, args[0])
		},
	},
}

func newResourceCommands(opts *GlobalOptions) []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(resources))

	for _, res := range resources {
		use := res.use
		for _, a := range res.args {
			use += " <" + a + ">"
		}

		cmds = append(cmds, &cobra.Command{
			Use:   use,
			Short: res.short,
			Args:  cobra.ExactArgs(len(res.args)),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := opts.connect(cmd.Context())
				if err != nil {
					return err
				}

				resp, err := res.call(cmd.Context(), s.API, args)
				if err != nil {
					return err
				}

				return opts.printResponse(resp)
			},
		})
	}

	return cmds
}
