package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/seasons/{seasonID}/matches", handler.ListMatchesBySeason)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/calendar/conflicts", handler.GetCalendarConflicts)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/handicaps", handler.ListHandicapChart)
	mux.HandleFunc("GET /v1/handicaps/{difference}", handler.GetHandicapThresholds)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/matches/{matchID}/lineups/{teamID}", RequireAuth(verifier, http.HandlerFunc(handler.GetLineup)))
	mux.Handle("PUT /v1/matches/{matchID}/lineups/{teamID}", RequireAuth(verifier, http.HandlerFunc(handler.SaveLineupSelection)))
	mux.Handle("POST /v1/lineups/{lineupID}/lock", RequireAuth(verifier, http.HandlerFunc(handler.LockLineup)))
	mux.Handle("POST /v1/lineups/{lineupID}/unlock", RequireAuth(verifier, http.HandlerFunc(handler.UnlockLineup)))
	mux.Handle("POST /v1/lineups/{lineupID}/double-duty", RequireAuth(verifier, http.HandlerFunc(handler.ResolveDoubleDuty)))
	mux.Handle("POST /v1/matches/{matchID}/verify", RequireAuth(verifier, http.HandlerFunc(handler.VerifyMatch)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/seasons/{seasonID}/schedule/generate", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.GenerateSchedule)))
	mux.Handle("DELETE /v1/seasons/{seasonID}/schedule", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ClearSchedule)))
}
