package storage

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNameTaken is returned when every candidate name for a photo is in use.
var ErrNameTaken = errors.New("photo name already taken")

// maxRenames bounds how many suffixed variants are tried after name itself.
const maxRenames = 3

// candidateNames lists name followed by variants with a random suffix before
// the extension, e.g. "ana.jpg", "ana-1a2b3c4d.jpg".
func candidateNames(name string) []string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	names := make([]string, 0, maxRenames+1)
	names = append(names, name)
	for range maxRenames {
		names = append(names, stem+"-"+uuid.NewString()[:8]+ext)
	}
	return names
}
