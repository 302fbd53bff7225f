package viewmodel

import (
	"github.com/sadopc/spectalocks/internal/derive"
	"github.com/sadopc/spectalocks/internal/observable"
)

// Main lists the top-level tabs the remote config allows.
type Main struct {
	Options observable.Value[[]derive.MainOption]

	app AppInfo
	loc derive.Localizer
}

func NewMain(app AppInfo, loc derive.Localizer) *Main {
	return &Main{app: app, loc: loc}
}

func (m *Main) Ready() {
	m.Options.Set(derive.MainOptions(m.app.Features(), m.loc))
}
