package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/spagettikod/vsixinstaller/vscode"
	"github.com/spf13/afero"
)

var testUID = vscode.UniqueID{Publisher: "redhat", Name: "java"}

func TestExtensionPath(t *testing.T) {
	expected := "redhat/java"
	if actual := ExtensionPath(testUID); actual != expected {
		t.Fatalf("expected %s but got %s", expected, actual)
	}
}

func TestPackagePath(t *testing.T) {
	expected := "redhat/java/java.vsix"
	if actual := PackagePath(testUID); actual != expected {
		t.Fatalf("expected %s but got %s", expected, actual)
	}
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		loc      string
		expected Location
	}{
		{"mirror", Location{Type: BackendTypeFS, Root: "mirror"}},
		{"/srv/mirror", Location{Type: BackendTypeFS, Root: "/srv/mirror"}},
		{"file:///srv/mirror", Location{Type: BackendTypeFS, Root: "/srv/mirror"}},
		{"s3://exts", Location{Type: BackendTypeS3, Bucket: "exts"}},
		{"s3://exts/vsix/mirror/", Location{Type: BackendTypeS3, Bucket: "exts", Root: "vsix/mirror"}},
	}
	for _, tt := range tests {
		actual, err := ParseLocation(tt.loc)
		if err != nil {
			t.Errorf("%s: %v", tt.loc, err)
			continue
		}
		if actual != tt.expected {
			t.Errorf("%s: expected %+v but got %+v", tt.loc, tt.expected, actual)
		}
	}
	for _, loc := range []string{"", "ftp://host/dir", "s3:///prefix"} {
		if _, err := ParseLocation(loc); !errors.Is(err, ErrUnsupportedLocation) {
			t.Errorf("%q: expected ErrUnsupportedLocation but got %v", loc, err)
		}
	}
}

func TestMirrorToFS(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "java.vsix", []byte("package"), 0644)

	b, err := Open(Location{Type: BackendTypeFS, Root: "mirror"}, fs, S3Config{})
	if err != nil {
		t.Fatal(err)
	}
	dest, err := Mirror(context.Background(), b, fs, "java.vsix", testUID)
	if err != nil {
		t.Fatal(err)
	}
	expected := filepath.Join("mirror", "redhat", "java", "java.vsix")
	if dest != expected {
		t.Errorf("expected destination %s but got %s", expected, dest)
	}
	data, err := afero.ReadFile(fs, expected)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "package" {
		t.Errorf("unexpected mirrored content %q", data)
	}
}

func TestMirrorMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	b, err := NewFSBackend(fs, "mirror")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Mirror(context.Background(), b, fs, "java.vsix", testUID); !errors.Is(err, ErrMirror) {
		t.Fatalf("expected ErrMirror but got %v", err)
	}
}

func TestOpenS3WithoutEndpoint(t *testing.T) {
	if _, err := Open(Location{Type: BackendTypeS3, Bucket: "exts"}, afero.NewMemMapFs(), S3Config{}); !errors.Is(err, ErrMirror) {
		t.Fatalf("expected ErrMirror but got %v", err)
	}
}

func TestNewS3Config(t *testing.T) {
	cfg, err := NewS3Config("https://s3.example.com:9000", "eu-north-1", "", "", "/creds", "default")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Endpoint != "s3.example.com:9000" || !cfg.useSSL || cfg.Region != "eu-north-1" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if _, err := NewS3Config("s3.example.com", "", "", "", "", ""); err == nil {
		t.Fatal("expected endpoint without scheme to be rejected")
	}
}

func TestMirrorToS3(t *testing.T) {
	var method, path string
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg, err := NewS3Config(srv.URL, "us-east-1", "minioadmin", "minioadmin", "", "")
	if err != nil {
		t.Fatal(err)
	}
	loc, err := ParseLocation("s3://exts/mirror")
	if err != nil {
		t.Fatal(err)
	}
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "java.vsix", []byte("package"), 0644)
	b, err := Open(loc, fs, cfg)
	if err != nil {
		t.Fatal(err)
	}
	dest, err := Mirror(context.Background(), b, fs, "java.vsix", testUID)
	if err != nil {
		t.Fatal(err)
	}
	if dest != "s3://exts/mirror/redhat/java/java.vsix" {
		t.Errorf("unexpected destination %s", dest)
	}
	if method != http.MethodPut {
		t.Errorf("expected %s but got %s", http.MethodPut, method)
	}
	if path != "/exts/mirror/redhat/java/java.vsix" {
		t.Errorf("unexpected object path %s", path)
	}
	if len(body) == 0 {
		t.Error("expected object data to be uploaded")
	}
}
