package main

import (
	"os"

	"github.com/sufield/oidauth/internal/adapters/outbound/filestore"
)

const (
	defaultGlobalCertLocation = "/etc/pki/oidauth/global"
	defaultRepoCertLocation   = "/etc/pki/oidauth/repos"
)

// openTrustStore builds the Trust Store adapter from the
// OIDAUTHCTL_GLOBAL_CERT_LOCATION and OIDAUTHCTL_REPO_CERT_LOCATION
// environment variables, falling back to the defaults above. oidauthd
// takes its locations from its YAML configuration file instead; this
// tool does not read that file.
func openTrustStore() *filestore.TrustStore {
	global := os.Getenv("OIDAUTHCTL_GLOBAL_CERT_LOCATION")
	if global == "" {
		global = defaultGlobalCertLocation
	}
	repo := os.Getenv("OIDAUTHCTL_REPO_CERT_LOCATION")
	if repo == "" {
		repo = defaultRepoCertLocation
	}
	return filestore.New(global, repo)
}
