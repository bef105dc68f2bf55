package misc

import (
	"encoding/json"
	"net/http"

	"github.com/odensebartech/dashboard/internal/login"
	"github.com/odensebartech/dashboard/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const dashboardPath = "/dashboard"

type Handler struct {
	versionInfo string
}

func NewHandler(versionInfo string) *Handler {
	return &Handler{
		versionInfo: versionInfo,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET").Name("root")
	mainRouter.HandleFunc("/ping", handler.handlePing).Methods("GET").Name("ping")
	mainRouter.HandleFunc(dashboardPath, handler.handleDashboard).Methods("GET").Name("dashboard")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")
}

func (handler *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, dashboardPath, http.StatusFound)
}

func (handler *Handler) handlePing(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK")
}

func (handler *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, login.DefaultLandingPath, http.StatusFound)
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	versionBytes, err := json.Marshal(map[string]string{"version": handler.versionInfo})
	if err != nil {
		log.Errorf("marshal version info: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(versionBytes))
}
