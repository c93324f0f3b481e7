package mpris

import (
	"os"
	"path/filepath"
	"strings"
)

var coverNames = []string{
	"cover.jpg", "cover.png", "cover.jpeg",
	"folder.jpg", "folder.png", "folder.jpeg",
	"front.jpg", "front.png",
}

// FindAlbumArt looks for artwork next to the song: first an image named like
// the song itself, then the usual folder cover names. Returns "" if none.
func FindAlbumArt(songPath string) string {
	dir := filepath.Dir(songPath)
	stem := strings.TrimSuffix(filepath.Base(songPath), filepath.Ext(songPath))

	candidates := []string{stem + ".jpg", stem + ".png"}
	candidates = append(candidates, coverNames...)
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
