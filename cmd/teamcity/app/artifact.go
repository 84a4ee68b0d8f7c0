package app

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/adamwoolhether/teamcity/client"
	"github.com/adamwoolhether/teamcity/client/download"
)

// NewArtifactCommand creates the command streaming an artifact to stdout.
func NewArtifactCommand(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "artifact <build-id> <name>",
		Short: "Print the content of a build artifact",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := s.GetArtifact(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if !success(resp.StatusCode) {
				return opts.printResponse(resp)
			}

			if _, err := download.Copy(opts.stdout, resp.Body, download.DefaultChunkSize); err != nil {
				return fmt.Errorf("copying artifact: %w", err)
			}

			return nil
		},
	}
}

// SaveOptions holds the flags of the save command.
type SaveOptions struct {
	*GlobalOptions

	out          string
	sha256       string
	progress     bool
	skipExisting bool
}

// NewSaveCommand creates the command saving an artifact to disk.
func NewSaveCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &SaveOptions{GlobalOptions: globalOpts}

	cmd := &cobra.Command{
		Use:   "save <build-id> <name>",
		Short: "Save a build artifact to a file",
		Long: `Save a build artifact to a file named after the artifact in the current
directory, or in the directory given with --out. Directories are not
created. Nothing is written unless the server answers 200.`,
		Example: `  # Save into ./dist.zip
  teamcity save 42 dist.zip

  # Save into /tmp and verify it
  teamcity save 42 dist.zip --out /tmp --sha256 9f86d0...`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(cmd, opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "destination directory")
	cmd.Flags().StringVar(&opts.sha256, "sha256", "", "expected hex SHA-256 of the artifact")
	cmd.Flags().BoolVar(&opts.progress, "progress", false, "log download progress")
	cmd.Flags().BoolVar(&opts.skipExisting, "skip-existing", false, "do nothing when the file already exists")

	return cmd
}

func runSave(cmd *cobra.Command, opts *SaveOptions, buildID, name string) error {
	s, err := opts.connect(cmd.Context())
	if err != nil {
		return err
	}

	var dlOpts []download.Option
	if opts.sha256 != "" {
		dlOpts = append(dlOpts, download.WithChecksum(sha256.New(), opts.sha256))
	}
	if opts.progress {
		dlOpts = append(dlOpts, download.WithProgress())
	}
	if opts.skipExisting {
		dlOpts = append(dlOpts, download.WithSkipExisting())
	}

	if opts.out == "" {
		err = s.SaveArtifact(cmd.Context(), buildID, name, dlOpts...)
	} else {
		err = s.SaveArtifactTo(cmd.Context(), buildID, name, filepath.Join(opts.out, name), dlOpts...)
	}

	var statusErr *client.UnexpectedStatusError
	if errors.As(err, &statusErr) {
		color.New(color.FgYellow, color.Bold).Fprintf(opts.stderr, "GET artifact %s of build %s: %d %s\n",
			name, buildID, statusErr.StatusCode, http.StatusText(statusErr.StatusCode))
		return errStatus
	}

	return err
}
