/*
Copyright (c) csclocks authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package clockstats

import (
	"encoding/json"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// JSONHandler serves a Tracker's current Snapshot as JSON on every
// request.
type JSONHandler struct {
	tracker *Tracker
}

// NewJSONHandler wraps tracker for http.Handler use.
func NewJSONHandler(tracker *Tracker) *JSONHandler {
	return &JSONHandler{tracker: tracker}
}

// ServeHTTP implements http.Handler.
func (h *JSONHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	js, err := json.Marshal(h.tracker.Snapshot())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(js); err != nil {
		log.WithError(err).Error("clockstats: failed to write json response")
	}
}

// ListenAndServe starts an HTTP server exposing tracker's snapshot at
// "/" on port. Blocks until the server exits.
func ListenAndServe(port int, tracker *Tracker) error {
	mux := http.NewServeMux()
	mux.Handle("/", NewJSONHandler(tracker))
	addr := fmt.Sprintf(":%d", port)
	log.WithField("addr", addr).Info("clockstats: starting json stats server")
	return http.ListenAndServe(addr, mux)
}
