package analyze

import (
	"github.com/dtnitsch/paperstats/models"
)

type Job struct {
	TarPath string
}

// Result holds the outcome of a processed archive.
type Result struct {
	TarPath string
	Report  *models.ArchiveReport
	Error   error
}

// Outcome counts how the archives of a run ended.
type Outcome struct {
	Processed int
	Failed    int
	Cancelled int
}
