package marketplace

import (
	"errors"
	"testing"
)

const packageSuffix = "/Microsoft.VisualStudio.Services.VSIXPackage"

func TestFromQuery(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		expectedURL string
		expectedVia string
	}{
		{
			name:        "asset uri",
			body:        `{"results":[{"extensions":[{"extensionName":"python","displayName":"Python","publisher":{"publisherName":"ms-python"},"versions":[{"version":"2024.1.0","assetUri":"https://example/ASSET","fallbackAssetUri":"https://fallback/ASSET"}]}]}]}`,
			expectedURL: "https://example/ASSET" + packageSuffix,
			expectedVia: ViaAssetURI,
		},
		{
			name:        "fallback only",
			body:        `{"results":[{"extensions":[{"extensionName":"python","versions":[{"version":"1.0.0","fallbackAssetUri":"https://fallback/ASSET"}]}]}]}`,
			expectedURL: "https://fallback/ASSET" + packageSuffix,
			expectedVia: ViaFallbackAssetURI,
		},
		{
			name:        "asset uri on later version wins over earlier fallback",
			body:        `{"results":[{"extensions":[{"extensionName":"python","versions":[{"version":"2.0.0","fallbackAssetUri":"https://fallback/NEW"},{"version":"1.0.0","assetUri":"https://example/OLD"}]}]}]}`,
			expectedURL: "https://example/OLD" + packageSuffix,
			expectedVia: ViaAssetURI,
		},
		{
			name:        "first version wins",
			body:        `{"results":[{"extensions":[{"extensionName":"python","versions":[{"version":"2.0.0","assetUri":"https://example/2"},{"version":"1.0.0","assetUri":"https://example/1"}]}]}]}`,
			expectedURL: "https://example/2" + packageSuffix,
			expectedVia: ViaAssetURI,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, err := FromQuery([]byte(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			if pkg.URL != tt.expectedURL {
				t.Errorf("expected URL %s but got %s", tt.expectedURL, pkg.URL)
			}
			if pkg.Via != tt.expectedVia {
				t.Errorf("expected via %s but got %s", tt.expectedVia, pkg.Via)
			}
		})
	}
}

func TestFromQueryDetails(t *testing.T) {
	body := `{"results":[{"extensions":[{"extensionName":"python","displayName":"Python","versions":[{"version":"2024.1.0","targetPlatform":"linux-x64","assetUri":"https://example/ASSET"}]}]}]}`
	pkg, err := FromQuery([]byte(body))
	if err != nil {
		t.Fatal(err)
	}
	if pkg.DisplayName != "Python" || pkg.Version != "2024.1.0" || pkg.Platform != "linux-x64" {
		t.Fatalf("unexpected package details: %+v", pkg)
	}
}

func TestFromQueryErrors(t *testing.T) {
	tests := map[string]string{
		"not json":      `<html>"assetUri":"https://example/ASSET"</html>`,
		"no results":    `{"results":[]}`,
		"no extensions": `{"results":[{"extensions":[]}]}`,
		"no versions":   `{"results":[{"extensions":[{"extensionName":"python"}]}]}`,
		"no markers":    `{"results":[{"extensions":[{"extensionName":"python","versions":[{"version":"1.0.0","files":[{"assetType":"Microsoft.VisualStudio.Services.VSIXPackage","source":"https://example/x"}]}]}]}]}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromQuery([]byte(body))
			if !errors.Is(err, ErrExtraction) {
				t.Fatalf("expected ErrExtraction but got %v", err)
			}
		})
	}
}

func TestFromPage(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		expectedURL string
		expectedVia string
	}{
		{
			name:        "asset uri",
			body:        `<script>{"assetUri":"https://example/ASSET"}</script>`,
			expectedURL: "https://example/ASSET" + packageSuffix,
			expectedVia: ViaAssetURI,
		},
		{
			name:        "asset uri with whitespace",
			body:        `{"assetUri" :  "https://example/ASSET"}`,
			expectedURL: "https://example/ASSET" + packageSuffix,
			expectedVia: ViaAssetURI,
		},
		{
			name:        "asset uri preferred over earlier fallback",
			body:        `{"fallbackAssetUri":"https://fallback/ASSET","assetUri":"https://example/ASSET"}`,
			expectedURL: "https://example/ASSET" + packageSuffix,
			expectedVia: ViaAssetURI,
		},
		{
			name:        "fallback",
			body:        `{"fallbackAssetUri":"https://fallback/ASSET"}`,
			expectedURL: "https://fallback/ASSET" + packageSuffix,
			expectedVia: ViaFallbackAssetURI,
		},
		{
			name: "embedded json",
			body: `<html><body>
<script type="application/json">{"ignored":true}</script>
<script class="jiContribution" type="application/json">{"Resources":{"files":[{"assetType":"Microsoft.VisualStudio.Services.Icons.Default","source":"https://example/icon"},{"assetType":"Microsoft.VisualStudio.Services.VSIXPackage","source":"https://example/package.vsix"}]}}</script>
</body></html>`,
			expectedURL: "https://example/package.vsix",
			expectedVia: ViaEmbeddedJSON,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, err := FromPage([]byte(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			if pkg.URL != tt.expectedURL {
				t.Errorf("expected URL %s but got %s", tt.expectedURL, pkg.URL)
			}
			if pkg.Via != tt.expectedVia {
				t.Errorf("expected via %s but got %s", tt.expectedVia, pkg.Via)
			}
		})
	}
}

func TestFromPageWithoutMarkers(t *testing.T) {
	bodies := []string{
		``,
		`<html><body>nothing to see</body></html>`,
		`{"assetUri":""}`,
		`<script type="application/json">not json</script>`,
		`<script type="text/javascript">{"assetType":"Microsoft.VisualStudio.Services.VSIXPackage","source":"https://example/x"}</script>`,
	}
	for _, body := range bodies {
		if _, err := FromPage([]byte(body)); !errors.Is(err, ErrExtraction) {
			t.Errorf("%q: expected ErrExtraction but got %v", body, err)
		}
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	inputs := map[Source]string{
		SourceQuery: `{"results":[{"extensions":[{"extensionName":"python","versions":[{"version":"1.0.0","assetUri":"https://example/ASSET"}]}]}]}`,
		SourcePage:  `<script type="application/json">{"b":{"assetType":"Microsoft.VisualStudio.Services.VSIXPackage","source":"https://example/b"},"a":{"assetType":"Microsoft.VisualStudio.Services.VSIXPackage","source":"https://example/a"}}</script>`,
	}
	for src, body := range inputs {
		first, err := Extract(src, []byte(body))
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 20; i++ {
			pkg, err := Extract(src, []byte(body))
			if err != nil {
				t.Fatal(err)
			}
			if pkg != first {
				t.Fatalf("%s: expected %+v but got %+v", src, first, pkg)
			}
		}
	}
}

func TestExtractUnknownSource(t *testing.T) {
	if _, err := Extract(Source("ftp"), nil); !errors.Is(err, ErrUnknownSource) {
		t.Fatalf("expected ErrUnknownSource but got %v", err)
	}
}
