package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/spagettikod/vsixinstaller/vscode"
	"github.com/spf13/afero"
)

type FSBackend struct {
	root string
	fs   afero.Fs
}

func NewFSBackend(base afero.Fs, root string) (*FSBackend, error) {
	if err := base.MkdirAll(root, 0750); err != nil {
		return nil, err
	}
	return &FSBackend{
		root: root,
		fs:   afero.NewBasePathFs(base, root),
	}, nil
}

func (b *FSBackend) SavePackage(ctx context.Context, uid vscode.UniqueID, r io.Reader, size int64) (string, error) {
	if err := b.fs.MkdirAll(filepath.FromSlash(ExtensionPath(uid)), 0750); err != nil {
		return "", err
	}
	fpath := filepath.FromSlash(PackagePath(uid))
	f, err := b.fs.OpenFile(fpath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return filepath.Join(b.root, fpath), nil
}
