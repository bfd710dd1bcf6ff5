package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerGameRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/games/{gameID}/watch", handler.WatchGame)
	mux.HandleFunc("DELETE /v1/games/{gameID}/watch", handler.UnwatchGame)
	mux.HandleFunc("GET /v1/games/{gameID}/dashboard", handler.GetDashboard)
	mux.HandleFunc("GET /v1/games/{gameID}/dashboard/stream", handler.StreamDashboard)
	mux.HandleFunc("POST /v1/games/{gameID}/refresh", handler.RefreshDashboard)
	mux.HandleFunc("POST /v1/games/{gameID}/counters/adjust", handler.AdjustCounter)
	mux.HandleFunc("POST /v1/games/{gameID}/spray-chart", handler.BuildSprayChart)
	mux.HandleFunc("POST /v1/games/{gameID}/events", handler.CreateGameEvent)
	mux.HandleFunc("PATCH /v1/games/{gameID}/events/{eventID}", handler.UpdateGameEvent)
	mux.HandleFunc("DELETE /v1/games/{gameID}/events/{eventID}", handler.DeleteGameEvent)
	mux.HandleFunc("GET /v1/games/{gameID}/archive/latest", handler.GetLatestArchive)
}

func registerVideoRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/videos/parse", handler.ParseVideo)
}
