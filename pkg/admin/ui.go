// Embedded admin page assets.

package admin

import (
	"embed"
	"net/http"
)

//go:embed ui
var uiFS embed.FS

// uiAssets whitelists the embedded files servable under /ng-admin/.
var uiAssets = map[string]string{
	"ng-admin.js": "application/javascript; charset=utf-8",
}

// handleAdminPage handles GET /ng-admin.
func (a *API) handleAdminPage(w http.ResponseWriter, r *http.Request) {
	a.serveAsset(w, "ui/ng-admin.html", "text/html; charset=utf-8")
}

// handleLoginPage handles GET /login.
func (a *API) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	a.serveAsset(w, "ui/login.html", "text/html; charset=utf-8")
}

// handleAdminAsset handles GET /ng-admin/{asset}.
func (a *API) handleAdminAsset(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("asset")
	contentType, ok := uiAssets[name]
	if !ok {
		http.NotFound(w, r)
		return
	}
	a.serveAsset(w, "ui/"+name, contentType)
}

func (a *API) serveAsset(w http.ResponseWriter, path, contentType string) {
	data, err := uiFS.ReadFile(path)
	if err != nil {
		a.log.Error("missing embedded asset", "path", path, "error", err)
		http.Error(w, "asset not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
