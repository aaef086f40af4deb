package vscode

type Extension struct {
	Publisher        Publisher `json:"publisher"`
	ID               string    `json:"extensionId"`
	Name             string    `json:"extensionName"`
	DisplayName      string    `json:"displayName"`
	ShortDescription string    `json:"shortDescription"`
	Versions         []Version `json:"versions,omitempty"`
}

type Publisher struct {
	ID          string `json:"publisherId"`
	Name        string `json:"publisherName"`
	DisplayName string `json:"displayName"`
}

func (e Extension) UniqueID() UniqueID {
	return UniqueID{Publisher: e.Publisher.Name, Name: e.Name}
}
