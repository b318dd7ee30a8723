package engine

import (
	"path/filepath"
	"strings"

	"github.com/DevOpsVX/volxo-backend/internal/models"
)

var (
	tabularExts = map[string]struct{}{".csv": {}, ".xlsx": {}}
	imageExts   = map[string]struct{}{".png": {}, ".jpg": {}, ".jpeg": {}, ".webp": {}}
)

// Classify buckets an uploaded artifact by its filename suffix. It never
// fails: anything unrecognized, including an empty name, is KindUnknown and
// the caller records it as a note instead of an error.
func Classify(name string) models.FileKind {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(name)))
	if _, ok := tabularExts[ext]; ok {
		return models.KindTabular
	}
	if _, ok := imageExts[ext]; ok {
		return models.KindImage
	}
	return models.KindUnknown
}
