package tools

import (
	"github.com/usestring/harcheck/internal/app"
	"github.com/usestring/harcheck/internal/config"
)

// MimeJSON is the MIME type of JSON resource contents.
const MimeJSON = "application/json"

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	App    *app.App
	Config *config.Config
}
