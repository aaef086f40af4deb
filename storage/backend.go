package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spagettikod/vsixinstaller/vscode"
	"github.com/spf13/afero"
)

// Backend stores a copy of downloaded packages.
type Backend interface {
	// SavePackage stores the package read from r and returns where it was saved.
	SavePackage(ctx context.Context, uid vscode.UniqueID, r io.Reader, size int64) (string, error)
}

type BackendType string

const (
	BackendTypeS3 BackendType = "s3"
	BackendTypeFS BackendType = "fs"

	packageContentType = "application/octet-stream"
)

var (
	ErrMirror              = errors.New("could not mirror package")
	ErrUnsupportedLocation = errors.New("unsupported mirror location")
)

// ExtensionPath returns the path of an extension in a mirror. For example: redhat/java.
func ExtensionPath(uid vscode.UniqueID) string {
	return path.Join(uid.Publisher, uid.Name)
}

// PackagePath returns the path of the package file in a mirror. For example: redhat/java/java.vsix.
func PackagePath(uid vscode.UniqueID) string {
	return path.Join(ExtensionPath(uid), uid.Filename())
}

// Location is a parsed mirror location, either a directory or an S3 bucket
// given as s3://bucket/prefix.
type Location struct {
	Type   BackendType
	Root   string
	Bucket string
}

func ParseLocation(loc string) (Location, error) {
	if loc == "" {
		return Location{}, fmt.Errorf("%w: empty location", ErrUnsupportedLocation)
	}
	if !strings.Contains(loc, "://") {
		return Location{Type: BackendTypeFS, Root: loc}, nil
	}
	u, err := url.Parse(loc)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %w", ErrUnsupportedLocation, err)
	}
	switch u.Scheme {
	case "file":
		return Location{Type: BackendTypeFS, Root: u.Path}, nil
	case "s3":
		if u.Host == "" {
			return Location{}, fmt.Errorf("%w: missing bucket in %s", ErrUnsupportedLocation, loc)
		}
		return Location{Type: BackendTypeS3, Bucket: u.Host, Root: strings.Trim(u.Path, "/")}, nil
	}
	return Location{}, fmt.Errorf("%w: %s", ErrUnsupportedLocation, loc)
}

// Open returns the backend for loc. Filesystem mirrors are created on fs,
// S3 mirrors use the endpoint and credentials in cfg.
func Open(loc Location, fs afero.Fs, cfg S3Config) (Backend, error) {
	switch loc.Type {
	case BackendTypeFS:
		b, err := NewFSBackend(fs, loc.Root)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMirror, err)
		}
		return b, nil
	case BackendTypeS3:
		cfg.Bucket = loc.Bucket
		cfg.Prefix = loc.Root
		b, err := NewS3Backend(cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMirror, err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedLocation, loc.Type)
}

// Mirror copies the package file on fs to the backend.
func Mirror(ctx context.Context, b Backend, fs afero.Fs, file string, uid vscode.UniqueID) (string, error) {
	f, err := fs.Open(file)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMirror, err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMirror, err)
	}
	log.Debug().Str("file", file).Int64("size", fi.Size()).Msg("mirroring package")
	dest, err := b.SavePackage(ctx, uid, f, fi.Size())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMirror, err)
	}
	return dest, nil
}
