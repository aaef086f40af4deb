package marketplace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"regexp"
	"slices"

	"github.com/spagettikod/vsixinstaller/vscode"
	"golang.org/x/net/html"
)

// Where in the response the package location was found.
const (
	ViaAssetURI         = "assetUri"
	ViaFallbackAssetURI = "fallbackAssetUri"
	ViaEmbeddedJSON     = "embedded JSON"
)

var (
	assetURIPattern         = regexp.MustCompile(`"assetUri"\s*:\s*"([^"]+)"`)
	fallbackAssetURIPattern = regexp.MustCompile(`"fallbackAssetUri"\s*:\s*"([^"]+)"`)
)

// Package is a downloadable VSIX package resolved from Marketplace metadata.
// Only URL and Via are known when resolved from the item page.
type Package struct {
	DisplayName string
	Version     string
	Platform    string
	URL         string
	Via         string
}

// Extract resolves the package URL from a response returned by Fetch.
func Extract(src Source, body []byte) (Package, error) {
	switch src {
	case SourceQuery:
		return FromQuery(body)
	case SourcePage:
		return FromPage(body)
	}
	return Package{}, fmt.Errorf("%w: %s", ErrUnknownSource, src)
}

// FromQuery decodes an extension query response. Among the versions of the
// first extension found the first assetUri is used, fallbackAssetUri is
// only considered when no version has an assetUri.
func FromQuery(body []byte) (Package, error) {
	results := vscode.Results{}
	if err := json.Unmarshal(body, &results); err != nil {
		return Package{}, fmt.Errorf("%w: malformed query response: %w", ErrExtraction, err)
	}
	ext, found := results.First()
	if !found {
		return Package{}, fmt.Errorf("%w: %w", ErrExtraction, ErrExtensionNotFound)
	}

	candidates := []struct {
		via string
		uri func(vscode.Version) string
	}{
		{ViaAssetURI, func(v vscode.Version) string { return v.AssetURI }},
		{ViaFallbackAssetURI, func(v vscode.Version) string { return v.FallbackAssetURI }},
	}
	for _, c := range candidates {
		for _, v := range ext.Versions {
			if uri := c.uri(v); uri != "" {
				return Package{
					DisplayName: ext.DisplayName,
					Version:     v.Version,
					Platform:    v.Platform(),
					URL:         vscode.PackageURL(uri),
					Via:         c.via,
				}, nil
			}
		}
	}
	return Package{}, fmt.Errorf("%w: no assetUri or fallbackAssetUri for %s", ErrExtraction, ext.UniqueID())
}

// FromPage searches the item page text for an asset location. If neither
// marker is present the JSON blocks embedded in the page are searched for
// the VSIX package file.
func FromPage(body []byte) (Package, error) {
	if m := assetURIPattern.FindSubmatch(body); m != nil {
		return Package{URL: vscode.PackageURL(string(m[1])), Via: ViaAssetURI}, nil
	}
	if m := fallbackAssetURIPattern.FindSubmatch(body); m != nil {
		return Package{URL: vscode.PackageURL(string(m[1])), Via: ViaFallbackAssetURI}, nil
	}
	if src, found := embeddedPackageSource(body); found {
		return Package{URL: src, Via: ViaEmbeddedJSON}, nil
	}
	return Package{}, fmt.Errorf("%w: no assetUri, fallbackAssetUri or embedded package source in page", ErrExtraction)
}

func embeddedPackageSource(body []byte) (string, bool) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return "", false
	}
	for _, script := range jsonScripts(doc) {
		var v any
		if err := json.Unmarshal([]byte(script), &v); err != nil {
			continue
		}
		if src, found := packageSource(v); found {
			return src, true
		}
	}
	return "", false
}

// jsonScripts returns the content of all <script type="application/json"> elements in document order.
func jsonScripts(n *html.Node) []string {
	scripts := []string{}
	if n.Type == html.ElementNode && n.Data == "script" && attr(n, "type") == "application/json" {
		if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
			scripts = append(scripts, n.FirstChild.Data)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		scripts = append(scripts, jsonScripts(c)...)
	}
	return scripts
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// packageSource walks decoded JSON looking for a file entry of the VSIX
// package type. Object keys are visited in sorted order to keep the result
// stable.
func packageSource(v any) (string, bool) {
	switch t := v.(type) {
	case map[string]any:
		if at, _ := t["assetType"].(string); at == string(vscode.VSIXPackage) {
			if src, _ := t["source"].(string); src != "" {
				return src, true
			}
		}
		for _, k := range slices.Sorted(maps.Keys(t)) {
			if src, found := packageSource(t[k]); found {
				return src, true
			}
		}
	case []any:
		for _, item := range t {
			if src, found := packageSource(item); found {
				return src, true
			}
		}
	}
	return "", false
}
