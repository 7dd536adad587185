// Package main runs oidauthd, a demonstration content server that
// authorizes every request through the Authorization Engine before
// serving from the filesystem tree rooted at its mount point.
package main

import (
	"context"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sufield/oidauth/internal/adapters/outbound/filestore"
	"github.com/sufield/oidauth/internal/adapters/outbound/pathmatch"
	"github.com/sufield/oidauth/internal/adapters/outbound/repostore"
	"github.com/sufield/oidauth/internal/adapters/outbound/x509cert"
	"github.com/sufield/oidauth/internal/authz"
	"github.com/sufield/oidauth/internal/config"
	"github.com/sufield/oidauth/internal/domain"
	"github.com/sufield/oidauth/internal/observability"
	"github.com/sufield/oidauth/internal/ports"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := observability.Component("oidauthd")

	configPath := os.Getenv("OIDAUTHD_CONFIG")
	if configPath == "" {
		configPath = "/etc/oidauth/oidauth.yaml"
	}
	cfg, err := config.New().Load(ctx, configPath)
	if err != nil {
		log.Error("failed to load configuration", "path", configPath, "error", err)
		os.Exit(1)
	}

	trust := filestore.New(cfg.Repos.GlobalCertLocation, cfg.Repos.RepoCertLocation)
	repos := repostore.New(cfg.Server.MountPoint)
	if cfg.Repos.ProtectedRepoListingFile != "" {
		if err := repos.LoadListingFile(cfg.Repos.ProtectedRepoListingFile); err != nil {
			log.Error("failed to load repository listing", "error", err)
			os.Exit(1)
		}
		if err := repos.HydrateConsumerCertData(ctx, trust); err != nil {
			log.Error("failed to load per-repository CA bundles", "error", err)
			os.Exit(1)
		}
	}

	engine := authz.New(trust, x509cert.NewVerifier(), pathmatch.New(), repos)
	engine.SetPolicy(loadPolicy(ctx, trust, log))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(authMiddleware(engine))
	r.Handle("/*", http.FileServer(http.Dir(cfg.Server.MountPoint)))

	srv := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: r,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("oidauthd listening", "addr", cfg.Server.ListenAddr, "mount", cfg.Server.MountPoint)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// loadPolicy reads the current global-auth toggle from the Trust
// Store at startup: global auth is enabled when a global CA bundle is
// present. oidauthctl changes the trust store files only and never
// calls Engine.SetPolicy, so this process picks up a changed toggle on
// its next restart.
func loadPolicy(ctx context.Context, trust *filestore.TrustStore, log observability.Logger) *domain.PolicyState {
	globalCA, err := trust.GetGlobal(ctx)
	if err != nil {
		log.Warn("failed to read global trust bundle at startup, starting with global auth disabled", "error", err)
		return domain.Disabled()
	}
	return domain.NewPolicyState(globalCA != nil, globalCA)
}

// authMiddleware extracts the two fields the Authorization Engine
// needs from the incoming HTTP request and denies with 403 before the
// file server ever sees a request it shouldn't.
func authMiddleware(engine *authz.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var certPEM []byte
			if r.TLS != nil && len(r.TLS.PeerCertificates) > 0 {
				certPEM = encodePeerChain(r.TLS.PeerCertificates)
			}

			req := ports.Request{ClientCertPEM: certPEM, RequestURI: r.URL.RequestURI()}
			if !engine.Authenticate(r.Context(), req) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// encodePeerChain re-PEM-encodes the TLS-verified peer certificate
// chain so it can be handed to ports.CertificateVerifier.Parse the
// same way a file-based client credential would be.
func encodePeerChain(chain []*x509.Certificate) []byte {
	var out []byte
	for _, cert := range chain {
		out = append(out, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})...)
	}
	return out
}
