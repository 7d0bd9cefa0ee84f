package paprikatest

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("paprikatest: json encode failed", slog.String("error", err.Error()))
	}
}

type envelope struct {
	Result any `json:"result"`
}

func result(v any) envelope {
	return envelope{Result: v}
}

type errResponse struct {
	Error errDetail `json:"error"`
}

type errDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: errDetail{Message: msg}}
}

// recipeHead is the part of a stored recipe the fake needs to index it.
type recipeHead struct {
	UID  string `json:"uid"`
	Hash string `json:"hash"`
}
