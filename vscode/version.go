package vscode

type Version struct {
	Version          string     `json:"version"`
	TargetPlatform   string     `json:"targetPlatform"`
	Flags            string     `json:"flags"`
	Files            []Asset    `json:"files"`
	Properties       []Property `json:"properties"`
	AssetURI         string     `json:"assetUri"`
	FallbackAssetURI string     `json:"fallbackAssetUri"`
}

type Property struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Platform returns the target platform, universal versions have none set.
func (v Version) Platform() string {
	if v.TargetPlatform == "" {
		return "universal"
	}
	return v.TargetPlatform
}
