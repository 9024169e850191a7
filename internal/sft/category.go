package sft

import (
	"path/filepath"
	"strings"

	"sft-go/internal/model"
)

var audioExtensions = map[string]bool{
	".mp3": true, ".wav": true, ".flac": true, ".aac": true,
	".ogg": true, ".m4a": true, ".wma": true,
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".tiff": true, ".svg": true, ".webp": true,
}

var textExtensions = map[string]bool{
	".txt": true, ".md": true, ".pdf": true, ".doc": true, ".docx": true,
	".rtf": true, ".odt": true, ".csv": true, ".json": true, ".xml": true,
	".html": true, ".css": true, ".js": true, ".py": true, ".go": true,
	".java": true, ".cpp": true, ".c": true, ".h": true, ".sql": true,
}

var blobExtensions = map[string]bool{
	".zip": true, ".tar": true, ".gz": true, ".bz2": true, ".xz": true,
	".7z": true, ".rar": true, ".iso": true, ".img": true, ".bin": true,
	".exe": true, ".dmg": true, ".db": true, ".sqlite": true,
}

// CategoryForFilename derives the category from a filename's extension.
// Unrecognized extensions (and files without one) classify as UNKNOWN;
// the stored category stays honest about what the classifier could tell,
// while Subtree maps UNKNOWN into the BLOBS directory on disk.
func CategoryForFilename(name string) model.Category {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case audioExtensions[ext]:
		return model.CategoryAudio
	case imageExtensions[ext]:
		return model.CategoryImages
	case textExtensions[ext]:
		return model.CategoryText
	case blobExtensions[ext]:
		return model.CategoryBlobs
	default:
		return model.CategoryUnknown
	}
}
