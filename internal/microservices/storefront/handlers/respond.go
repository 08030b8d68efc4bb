package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
)

// maxBody - лимит тела запроса, корзина и заказ сильно меньше.
const maxBody = 1 << 20

// writeJSON - отдаёт JSON с нужным статусом
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeProblem - Problem+JSON (type/title/status/detail) и поле error с
// сообщением для клиента.
func writeProblem(w http.ResponseWriter, code int, typ, message string, err error) {
	detail := message
	if err != nil {
		detail = err.Error()
	}
	resp := map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
		"error":  message,
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}

// decode читает JSON-тело; неизвестные поля игнорируются.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return nil
}

func isMaxBytes(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

func badJSON(w http.ResponseWriter, err error) {
	if isMaxBytes(err) {
		writeProblem(w, http.StatusRequestEntityTooLarge, "body_too_large", "Request body too large", err)
		return
	}
	writeProblem(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body", err)
}

// param - достаёт {key} из маршрута
func param(r *http.Request, key string) string {
	return r.PathValue(key)
}
