package mcpsrv

import (
	"github.com/usestring/harcheck/internal/app"
	"github.com/usestring/harcheck/internal/config"
)

// Deps contains all dependencies available to custom tools.
// This gives custom tools access to the same validation pipeline as builtin tools.
type Deps struct {
	App    *app.App
	Config *config.Config
}
