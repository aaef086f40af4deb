package vscode

// Results is the response envelope of a Marketplace extension query.
type Results struct {
	Results []Result `json:"results"`
}

type Result struct {
	Extensions []Extension `json:"extensions"`
}

// First returns the first extension of the first result.
func (r Results) First() (Extension, bool) {
	if len(r.Results) == 0 || len(r.Results[0].Extensions) == 0 {
		return Extension{}, false
	}
	return r.Results[0].Extensions[0], true
}
