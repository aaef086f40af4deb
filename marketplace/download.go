package marketplace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// fileWriter tags write errors so they can be told apart from errors
// reading the response body.
type fileWriter struct {
	w io.Writer
}

func (fw fileWriter) Write(p []byte) (int, error) {
	n, err := fw.w.Write(p)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrFile, err)
	}
	return n, err
}

// DirExists returns ErrFile unless dir is an existing directory.
func (c *Client) DirExists(dir string) error {
	exists, err := afero.DirExists(c.fs, dir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFile, err)
	}
	if !exists {
		return fmt.Errorf("%w: output directory %s: %w", ErrFile, dir, os.ErrNotExist)
	}
	return nil
}

// Download streams the package at src into dest. The destination is opened
// before the request is made and is removed again if the download fails,
// a failed download never leaves a partial file behind.
func (c *Client) Download(ctx context.Context, src, dest string) (written int64, err error) {
	dlog := log.With().Str("source", src).Str("destination", dest).Logger()

	f, err := c.fs.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFile, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrFile, cerr)
		}
		if err != nil {
			dlog.Debug().Msg("removing partial download")
			if rerr := c.fs.Remove(dest); rerr != nil {
				dlog.Warn().Err(rerr).Msg("could not remove partial download")
			}
		}
	}()

	req, err := c.newRequest(ctx, http.MethodGet, src, nil)
	if err != nil {
		return 0, err
	}
	dlog.Debug().Msg("downloading")
	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return 0, err
	}

	bar := c.progress(resp.ContentLength)
	defer bar.Done()

	written, err = io.Copy(io.MultiWriter(fileWriter{w: f}, bar), resp.Body)
	if err != nil {
		if errors.Is(err, ErrFile) {
			return written, err
		}
		return written, fmt.Errorf("%w: reading package: %w", ErrNetwork, err)
	}
	dlog.Debug().Int64("bytes", written).Msg("download finished")
	return written, nil
}
