// path: controllers/controllers.go
package controllers

import (
	"github.com/PaoloBrandonE/Denuncia-app/auth"
	"github.com/PaoloBrandonE/Denuncia-app/media"
	"github.com/PaoloBrandonE/Denuncia-app/stats"
	"github.com/PaoloBrandonE/Denuncia-app/store"
)

var (
	reportsStore store.Reports
	authService  *auth.Service
	transitioner *stats.Transitioner
	imageHoster  *media.Hoster // nil when object storage is not configured
)

// Setup injects the shared collaborators before routes are registered.
func Setup(r store.Reports, a *auth.Service, t *stats.Transitioner, h *media.Hoster) {
	reportsStore = r
	authService = a
	transitioner = t
	imageHoster = h
}
