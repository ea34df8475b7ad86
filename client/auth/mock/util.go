package mock

import (
	"encoding/json"
	"net/http"
)

type fieldErrors map[string][]string

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail, code string) {
	payload := map[string]string{"detail": detail}
	if code != "" {
		payload["code"] = code
	}
	writeJSON(w, status, payload)
}

func decode(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeDetail(w, http.StatusBadRequest, "JSON parse error - "+err.Error(), "parse_error")
		return false
	}
	return true
}

// required reports blank fields keyed by name.
func required(fields map[string]string) fieldErrors {
	ret := fieldErrors{}
	for name, value := range fields {
		if value == "" {
			ret[name] = []string{"This field may not be blank."}
		}
	}
	return ret
}
