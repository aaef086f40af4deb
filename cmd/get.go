package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spagettikod/vsixinstaller/cli"
	"github.com/spagettikod/vsixinstaller/config"
	"github.com/spagettikod/vsixinstaller/editor"
	"github.com/spagettikod/vsixinstaller/marketplace"
	"github.com/spagettikod/vsixinstaller/storage"
	"github.com/spagettikod/vsixinstaller/vscode"
	"github.com/spf13/afero"
)

const skipInstallMessage = "Skipping installation. Use '-i' to install."

// environment is what get needs from the outside world.
type environment struct {
	fs       afero.Fs
	launcher editor.Launcher
	stdout   io.Writer
	stderr   io.Writer
}

// get runs the whole pipeline for one extension: fetch metadata, find the
// package URL, download, mirror and install.
func get(ctx context.Context, cfg config.Config, uid vscode.UniqueID, env environment) error {
	src, err := marketplace.ParseSource(cfg.Source)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	var mirror storage.Backend
	if cfg.Mirror != "" {
		if mirror, err = openMirror(cfg, env.fs); err != nil {
			return err
		}
	}

	c := marketplace.NewClient(env.fs, cfg.Timeout)
	c.QueryURL = cfg.QueryURL
	c.ItemURL = cfg.ItemURL
	c.UserAgent = cfg.UserAgent
	c.Debug = cfg.Debug
	c.Progress = func(total int64) cli.ByteProgresser {
		return cli.NewByteProgress(env.stderr, total, uid.Filename(), cfg.Progress && cli.IsTerminal(env.stderr))
	}

	if err := c.DirExists(cfg.Output); err != nil {
		return err
	}

	elog := log.With().Str("extension", uid.String()).Logger()
	elog.Info().Str("source", string(src)).Msg("fetching extension metadata from Marketplace")
	body, err := c.Fetch(ctx, src, uid)
	if err != nil {
		return err
	}
	pkg, err := marketplace.Extract(src, body)
	if err != nil {
		return err
	}
	elog.Debug().Str("url", pkg.URL).Str("via", pkg.Via).Msg("found package URL")

	dest := filepath.Join(cfg.Output, uid.Filename())
	printSummary(env.stdout, uid, pkg, dest)

	elog.Info().Str("file", dest).Msg("downloading package")
	n, err := c.Download(ctx, pkg.URL, dest)
	if err != nil {
		return err
	}
	elog.Info().Str("file", dest).Int64("bytes", n).Msg("download complete")

	if mirror != nil {
		to, err := storage.Mirror(ctx, mirror, env.fs, dest, uid)
		if err != nil {
			return err
		}
		elog.Info().Str("mirror", to).Msg("package mirrored")
	}

	if !cfg.Install {
		fmt.Fprintln(env.stdout, skipInstallMessage)
		return nil
	}
	ed, err := editor.Detect(env.launcher, cfg.Editor)
	if err != nil {
		return err
	}
	elog.Info().Str("editor", ed).Str("file", dest).Msg("installing extension")
	if err := editor.Install(ctx, env.launcher, ed, dest); err != nil {
		return err
	}
	elog.Info().Msg("installation complete")
	return nil
}

// openMirror resolves the mirror before anything is fetched so a bad
// location or S3 endpoint fails without touching the network.
func openMirror(cfg config.Config, fs afero.Fs) (storage.Backend, error) {
	loc, err := storage.ParseLocation(cfg.Mirror)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	var s3cfg storage.S3Config
	if loc.Type == storage.BackendTypeS3 {
		s3cfg, err = storage.NewS3Config(cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.AccessKey, cfg.S3.SecretKey, cfg.S3.CredentialsFile, cfg.S3.Profile)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", storage.ErrMirror, err)
		}
	}
	return storage.Open(loc, fs, s3cfg)
}

func printSummary(w io.Writer, uid vscode.UniqueID, pkg marketplace.Package, dest string) {
	header := []string{"Unique ID", "Name", "Version", "Platform", "File"}
	cli.PrintTable(w, header, [][]string{{uid.String(), orDash(pkg.DisplayName), orDash(pkg.Version), orDash(pkg.Platform), dest}})
}

// orDash fills in what the item page does not tell us.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
