package vscode

import (
	"strings"
)

const packageExt = ".vsix"

// UniqueID is the Marketplace identifier of an extension, on the
// form publisher.extension.
type UniqueID struct {
	Publisher string
	Name      string
}

func (uid UniqueID) String() string {
	return uid.Publisher + "." + uid.Name
}

// Filename is the name the package is saved as, the publisher is not part of it.
func (uid UniqueID) Filename() string {
	return uid.Name + packageExt
}

// Parse splits id on the first dot. Only the presence of a dot is checked,
// publisher or name may still be empty.
func Parse(id string) (UniqueID, bool) {
	publisher, name, found := strings.Cut(id, ".")
	if !found {
		return UniqueID{}, false
	}
	return UniqueID{Publisher: publisher, Name: name}, true
}
