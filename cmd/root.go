package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spagettikod/vsixinstaller/config"
	"github.com/spagettikod/vsixinstaller/editor"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = newRootCmd(config.New())

func newRootCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "installer [flags] <publisher.extension>",
		Short: "Download, and optionally install, a Visual Studio Code extension from Marketplace.",
		Long: `Installer looks up the extension at Marketplace, downloads its VSIX package
to the output directory and, with the install-flag, installs it using the first
editor CLI found on the search path (code, codium or vscodium).

The extension identifier can be found on the Marketplace web page for a given
extension where it's called "Unique Identifier". The package is saved as
<extension>.vsix, an existing file is overwritten.

Metadata source
---------------
By default the Marketplace extension query API is used. With --source page the
extension web page is fetched instead and the package location is read from it.

Mirror
------
The downloaded package can also be copied to a directory or an S3 bucket with
--mirror, for example --mirror s3://extensions/vsix. S3 endpoint and credentials
are read from VSIX_S3_ENDPOINT, VSIX_S3_ACCESS_KEY, VSIX_S3_SECRET_KEY or
VSIX_S3_CREDENTIALS_FILE and VSIX_S3_PROFILE.

All flags can also be set with environment variables prefixed VSIX_, for example
VSIX_INSTALL=true or VSIX_OUTPUT=downloads.`,
		Example: `  $ installer ms-python.python
  $ installer -i golang.Go
  $ installer -i -e codium -o downloads golang.Go
  $ installer --source page --mirror s3://extensions/vsix redhat.java`,
		DisableFlagsInUseLine: true,
		SilenceUsage:          true,
		SilenceErrors:         true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd.ErrOrStderr(), v.GetBool("verbose"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := parseArgs(args)
			if err != nil {
				return err
			}
			env := environment{
				fs:       afero.NewOsFs(),
				launcher: editor.NewExecLauncher(),
				stdout:   cmd.OutOrStdout(),
				stderr:   cmd.ErrOrStderr(),
			}
			return get(cmd.Context(), config.Get(v), uid, env)
		},
	}

	flags := cmd.Flags()
	flags.BoolP("install", "i", false, "install the extension after download")
	flags.StringP("editor", "e", "", "editor CLI used for installation, default is the first of code, codium and vscodium found")
	flags.StringP("output", "o", ".", "output directory for the downloaded package")
	flags.String("source", "query", "where to read package location from, query or page")
	flags.String("mirror", "", "also copy the package to a directory or s3://bucket/prefix")
	flags.Bool("progress", true, "show download progress")
	flags.BoolP("verbose", "v", false, "verbose output")
	for _, name := range []string{"install", "editor", "output", "source", "mirror", "progress", "verbose"} {
		if err := v.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
	return cmd
}

func setupLogging(w io.Writer, verbose bool) {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// report prints err the way the command line user should see it.
func report(w io.Writer, err error) {
	if errors.Is(err, ErrUsage) {
		fmt.Fprintln(w, usageLine)
	}
	fmt.Fprintf(w, "Error: %s\n", err)
}

func Execute(version, buildDate string) {
	rootCmd.Version = fmt.Sprintf("%s (%s)", version, buildDate)
	if err := rootCmd.Execute(); err != nil {
		report(os.Stderr, err)
		os.Exit(1)
	}
}
