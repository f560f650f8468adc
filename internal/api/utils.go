package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/susu3304/slashbot/internal/slash"
)

const maxBodyBytes = 64 << 10

var errBodyTooLarge = errors.New("request body too large")

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// decodeRequest reads a slash command from a JSON or form encoded body.
// Bodies that declare no usable content type are sniffed.
func decodeRequest(w http.ResponseWriter, r *http.Request) (slash.Request, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return slash.Request{}, errBodyTooLarge
		}
		return slash.Request{}, fmt.Errorf("failed to read body: %w", err)
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case mediaType == "application/json":
		return slash.ParseJSON(body)
	case mediaType == "application/x-www-form-urlencoded":
		return slash.ParseForm(string(body)), nil
	case bytes.HasPrefix(bytes.TrimSpace(body), []byte("{")):
		return slash.ParseJSON(body)
	default:
		return slash.ParseForm(string(body)), nil
	}
}
