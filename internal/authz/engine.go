// Package authz implements the Authorization Engine: the component
// that composes the Trust Store, Certificate Parser & Verifier, URL
// Matcher, and Repository Resolver into one permit/deny decision per
// request.
package authz

import (
	"context"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/sufield/oidauth/internal/assert"
	"github.com/sufield/oidauth/internal/domain"
	"github.com/sufield/oidauth/internal/observability"
	"github.com/sufield/oidauth/internal/ports"
)

// Engine implements ports.Authorizer. It is stateless per request; the
// only state it carries is the policy snapshot, published behind an
// atomic.Pointer so concurrent administrative updates never tear an
// in-flight decision.
type Engine struct {
	trust    ports.TrustStore
	verifier ports.CertificateVerifier
	matcher  ports.URLMatcher
	resolver ports.RepositoryResolver

	policy atomic.Pointer[domain.PolicyState]
	log    observability.Logger
}

// New constructs an Engine wired to its four collaborators. The
// initial policy state is "global disabled"; call SetPolicy to
// install a different snapshot (e.g. after reading prior admin state
// at startup).
func New(trust ports.TrustStore, verifier ports.CertificateVerifier, matcher ports.URLMatcher, resolver ports.RepositoryResolver) *Engine {
	e := &Engine{
		trust:    trust,
		verifier: verifier,
		matcher:  matcher,
		resolver: resolver,
		log:      observability.Component("authz"),
	}
	e.policy.Store(domain.Disabled())
	return e
}

// SetPolicy atomically replaces the published policy snapshot. Callers
// making an administrative change construct the new snapshot and pass
// it here; in-flight Authenticate calls that already loaded the prior
// snapshot run to completion against it.
func (e *Engine) SetPolicy(state *domain.PolicyState) {
	if state == nil {
		state = domain.Disabled()
	}
	assert.Invariant(state != nil, "published policy snapshot must never be nil")
	e.policy.Store(state)
}

type tier struct {
	name string
	ca   *domain.CABundle
}

// Authenticate decides whether request is entitled to its target URL.
// Any internal error is treated as deny (fail-closed); nothing escapes
// this call as an exception.
func (e *Engine) Authenticate(ctx context.Context, request ports.Request) bool {
	path := decodePath(request.RequestURI)

	repo, err := e.resolver.Resolve(ctx, path)
	if err != nil {
		e.log.Error("repository resolver unavailable, denying", "path", path, "error", err)
		return false
	}

	tiers, err := e.activeTiers(ctx, repo)
	if err != nil {
		e.log.Error("trust store unavailable, denying", "path", path, "error", err)
		return false
	}

	if len(tiers) == 0 {
		return true
	}

	if len(request.ClientCertPEM) == 0 {
		e.log.Info("no client certificate presented for an active tier, denying", "path", path)
		return false
	}

	cred, err := e.verifier.Parse(request.ClientCertPEM)
	if err != nil {
		e.log.Warn("client certificate parse failed, denying", "path", path, "error", err)
		return false
	}

	for _, t := range tiers {
		if t.ca == nil || !e.verifier.VerifySignedBy(cred, t.ca.CACert) {
			e.log.Info("chain verification failed, denying", "path", path, "tier", t.name, "issuer", cred.IssuerSubject())
			return false
		}
	}

	relPath := e.resolver.RelativePath(path)
	for _, template := range cred.Entitlements.Templates() {
		if e.matcher.Match(template, relPath) {
			return true
		}
	}
	e.log.Info("no entitlement matched request path, denying", "path", path, "issuer", cred.IssuerSubject())
	return false
}

// activeTiers returns the trust tiers that apply to this request:
// the global tier if enabled, and the repository tier if the resolved
// repository carries its own CA bundle.
//
// A tier whose CA file is missing or unreadable is not an error here: it
// comes back as a tier with a nil ca, which Authenticate denies on
// without calling VerifySignedBy; a CA file with corrupt contents comes
// back non-nil and fails in VerifySignedBy instead. Returning an error from this method is reserved for the
// store itself being unreachable (ports.TrustStore's Get* error
// contract), which is the one case Authenticate logs at ERROR and
// denies every active tier for, per spec.md §7's ConfigurationError /
// ResolverError policy.
func (e *Engine) activeTiers(ctx context.Context, repo *domain.Repository) ([]tier, error) {
	policy := e.policy.Load()

	var tiers []tier
	if policy.GlobalEnabled {
		globalCA, err := e.trust.GetGlobal(ctx)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, tier{name: "global", ca: globalCA})
	}

	if repo != nil && repo.HasPerRepoAuth() {
		repoCA, err := e.trust.GetRepo(ctx, repo.ID)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, tier{name: "repo:" + repo.ID, ca: repoCA})
	}

	return tiers, nil
}

// decodePath extracts and percent-decodes the path component of a
// request URI. A malformed URI degrades to using the raw string as-is
// rather than failing the whole request — the URL Matcher's own
// normalization handles the rest.
func decodePath(requestURI string) string {
	if u, err := url.ParseRequestURI(requestURI); err == nil {
		return u.Path
	}
	// Not a full URI (e.g. already just a path): percent-decode directly.
	if decoded, err := url.PathUnescape(requestURI); err == nil {
		return decoded
	}
	return strings.TrimSpace(requestURI)
}

var _ ports.Authorizer = (*Engine)(nil)
