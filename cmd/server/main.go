package main

import (
	"context"
	"flag"
	"net/http"
	"os"

	"github.com/gofrs/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/distribution-auth/ecr-supplier/auth"
	"github.com/distribution-auth/ecr-supplier/config"
)

func main() {
	var (
		configFile string
		addr       string
		debug      bool

		cert    string
		certKey string
	)

	flag.StringVar(&configFile, "config", "config.yaml", "Configuration file")
	flag.StringVar(&addr, "addr", "localhost:8080", "Address to listen on")
	flag.BoolVar(&debug, "debug", false, "Debug mode")

	flag.StringVar(&cert, "tlscert", "", "Certificate file for TLS")
	flag.StringVar(&certKey, "tlskey", "", "Certificate key for TLS")

	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}

	if debug {
		logger, err = zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
	}

	file, err := os.ReadFile(configFile)
	if err != nil {
		logger.Sugar().Fatalf("Error reading config file %s: %v", configFile, err)
	}

	var conf config.Config

	if err := yaml.Unmarshal(file, &conf); err != nil {
		logger.Sugar().Fatalf("Error parsing config file %s: %v", configFile, err)
	}

	if err := conf.Validate(); err != nil {
		logger.Sugar().Fatalf("Invalid configuration: %v", err)
	}

	if conf.Server.Addr != "" {
		addr = conf.Server.Addr
	}

	if cert == "" {
		cert = conf.Server.TLSCertFile
		certKey = conf.Server.TLSKeyFile
	}

	supplier, err := conf.Supplier.Config.CreateSupplier(context.Background(), logger)
	if err != nil {
		logger.Sugar().Fatalf("Error creating credential supplier: %v", err)
	}

	server := auth.CredentialServer{
		Supplier: supplier,
	}

	router := mux.NewRouter()
	router.Use(requestLogger(logger))
	router.Path("/auth").Methods("GET").HandlerFunc(server.AuthHandler)
	router.Path("/auth/swarm").Methods("GET").HandlerFunc(server.SwarmAuthHandler)
	router.Path("/auth/build").Methods("GET").HandlerFunc(server.BuildAuthHandler)

	if cert == "" {
		err = http.ListenAndServe(addr, router)
	} else if certKey == "" {
		logger.Sugar().Fatalf("Must provide certficate (-tlscert) and key (-tlskey)")
	} else {
		err = http.ListenAndServeTLS(addr, cert, certKey, router)
	}

	if err != nil {
		logger.Sugar().Infof("Error serving: %v", err)
	}
}

// requestLogger tags every request with an ID and logs it.
func requestLogger(logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID, err := uuid.NewV4()
			if err == nil {
				w.Header().Set("X-Request-Id", requestID.String())
			}

			logger.Debug("handling request",
				zap.String("requestId", requestID.String()),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)

			next.ServeHTTP(w, r)
		})
	}
}
