package server

import (
	"encoding/json"
	"net/http"

	"ciphera/internal/domain"
)

// PreKeyPolicy says what a key fetch does to the served pre-key.
type PreKeyPolicy string

const (
	// PreKeyRetain serves the same pre-key on every fetch.
	PreKeyRetain PreKeyPolicy = "retain"
	// PreKeyConsume clears the pre-key once it has been served.
	PreKeyConsume PreKeyPolicy = "consume"
)

// Valid reports whether p is a known policy.
func (p PreKeyPolicy) Valid() bool { return p == PreKeyRetain || p == PreKeyConsume }

func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	identity := domain.Identity(r.PathValue("identity"))

	var (
		info domain.UserInfo
		ok   bool
	)
	if s.opts.PreKeyPolicy == PreKeyConsume {
		info, ok = s.keys.Consume(identity)
	} else {
		info, ok = s.keys.Get(identity)
	}
	if !ok {
		s.log.Info("no key bundle", "identity", identity.String())
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	s.log.Info("serving key bundle", "identity", identity.String())
	body := []byte(info.Raw)
	if len(body) == 0 {
		var err error
		if body, err = json.Marshal(info); err != nil {
			s.log.Error("encode key bundle", "identity", identity.String(), "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}
	// Published records go out byte for byte as they came in.
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(body); err != nil {
		s.log.Warn("write key bundle", "identity", identity.String(), "err", err)
	}
}
