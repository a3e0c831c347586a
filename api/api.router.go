package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/itsatony/sensorhub/api/middleware"
	"github.com/itsatony/sensorhub/api/resources"
	_ "github.com/itsatony/sensorhub/docs"
	"github.com/itsatony/sensorhub/internal/auth"
	"github.com/itsatony/sensorhub/internal/service"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router    *mux.Router
	auth      *middleware.AuthMiddleware
	resources *resources.Resources
}

func NewRouter(svc *service.Service, opts resources.Options) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		auth:      middleware.NewAuthMiddleware(svc.Gate()),
		resources: resources.NewResources(svc, opts),
	}

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	// API version prefix
	api := r.router.PathPrefix("/api/v1").Subrouter()

	user := r.auth.RequireLevel(auth.LevelUser)
	superuser := r.auth.RequireLevel(auth.LevelSuperuser)

	// Utils
	utils := r.resources.Utils
	api.HandleFunc("/health", utils.Health).Methods(http.MethodGet)
	api.HandleFunc("/utils/health-check/", utils.HealthCheck).Methods(http.MethodGet)
	api.Handle("/utils/events", superuser(http.HandlerFunc(utils.Events))).Methods(http.MethodGet)

	// Login
	login := r.resources.Login
	api.HandleFunc("/login/access-token", login.AccessToken).Methods(http.MethodPost)
	api.Handle("/login/test-token", user(http.HandlerFunc(login.TestToken))).Methods(http.MethodPost)
	api.Handle("/logout", user(http.HandlerFunc(login.Logout))).Methods(http.MethodPost)
	api.HandleFunc("/password-recovery/{email}", login.RecoverPassword).Methods(http.MethodPost)
	api.HandleFunc("/reset-password/", login.ResetPassword).Methods(http.MethodPost)

	// Users
	users := api.PathPrefix("/users").Subrouter()
	uh := r.resources.Users
	users.Handle("/", superuser(http.HandlerFunc(uh.ListUsers))).Methods(http.MethodGet)
	users.Handle("/", superuser(http.HandlerFunc(uh.CreateUser))).Methods(http.MethodPost)
	users.HandleFunc("/signup", uh.Register).Methods(http.MethodPost)
	users.Handle("/me", user(http.HandlerFunc(uh.GetMe))).Methods(http.MethodGet)
	users.Handle("/me", user(http.HandlerFunc(uh.UpdateMe))).Methods(http.MethodPatch)
	users.Handle("/me", user(http.HandlerFunc(uh.DeleteMe))).Methods(http.MethodDelete)
	users.Handle("/me/password", user(http.HandlerFunc(uh.UpdatePassword))).Methods(http.MethodPatch)
	users.Handle("/{id}", user(http.HandlerFunc(uh.GetUser))).Methods(http.MethodGet)
	users.Handle("/{id}", superuser(http.HandlerFunc(uh.UpdateUser))).Methods(http.MethodPatch)
	users.Handle("/{id}", superuser(http.HandlerFunc(uh.DeleteUser))).Methods(http.MethodDelete)

	// Sensor data
	sensorData := api.PathPrefix("/sensor-data").Subrouter()
	sd := r.resources.SensorData
	sensorData.HandleFunc("/", sd.ListSensorData).Methods(http.MethodGet)
	sensorData.Handle("/", user(http.HandlerFunc(sd.CreateSensorData))).Methods(http.MethodPost)
	sensorData.HandleFunc("/options/equipment", sd.EquipmentOptions).Methods(http.MethodGet)
	sensorData.HandleFunc("/equipment/{equipment_id}", sd.ListByEquipment).Methods(http.MethodGet)
	sensorData.Handle("/dashboard/line-chart", user(http.HandlerFunc(sd.LineChart))).Methods(http.MethodPost)
	sensorData.Handle("/dashboard/bar-chart", user(http.HandlerFunc(sd.BarChart))).Methods(http.MethodPost)
	sensorData.Handle("/csv", superuser(http.HandlerFunc(sd.ImportCSV))).Methods(http.MethodPost)
	sensorData.HandleFunc("/{id}", sd.GetSensorData).Methods(http.MethodGet)
	sensorData.Handle("/{id}", user(http.HandlerFunc(sd.UpdateSensorData))).Methods(http.MethodPut)
	sensorData.Handle("/{id}", user(http.HandlerFunc(sd.DeleteSensorData))).Methods(http.MethodDelete)

	// API docs
	r.router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
