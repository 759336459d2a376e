package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/schema"
)

// Set a Decoder instance as a package global, because it caches
// meta-data about structs, and an instance can be shared safely.
var decoder = schema.NewDecoder()

// CredentialServer exposes a CredentialSupplier over HTTP.
type CredentialServer struct {
	Supplier CredentialSupplier
}

type authRequest struct {
	Image string `schema:"image,required"`
}

func handleError(err error, w http.ResponseWriter) {
	switch {
	case errors.Is(err, ErrMalformedRegistryHost), errors.Is(err, ErrTokenRequestRejected):
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
	case errors.Is(err, ErrTokenFetchFailed), errors.Is(err, ErrUnexpectedAuthorizationData):
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
	default:
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// AuthHandler serves authentication for a single image reference passed in
// the "image" query parameter. It responds with 404 when the image's registry
// is not handled by the supplier.
func (s CredentialServer) AuthHandler(w http.ResponseWriter, r *http.Request) {
	var req authRequest

	err := decoder.Decode(&req, r.URL.Query())
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	registryAuth, err := s.Supplier.AuthFor(r.Context(), req.Image)
	if err != nil {
		handleError(err, w)
		return
	}

	if !registryAuth.HasValue() {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	writeJSON(w, registryAuth.Value())
}

// SwarmAuthHandler serves authentication for swarm configuration.
// It responds with 404 when no credentials are available.
func (s CredentialServer) SwarmAuthHandler(w http.ResponseWriter, r *http.Request) {
	registryAuth := s.Supplier.AuthForSwarm(r.Context())

	if !registryAuth.HasValue() {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}

	writeJSON(w, registryAuth.Value())
}

// BuildAuthHandler serves the per-registry authentication map for builds.
// An empty map is a valid response.
func (s CredentialServer) BuildAuthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Supplier.AuthForBuild(r.Context()))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
