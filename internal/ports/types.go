package ports

// Request is a transport object crossing the hex boundary: the two
// fields the authorization engine consumes from the host's request
// environment. No behavior here — decoding/normalization belong to the
// adapters that build it.
type Request struct {
	ClientCertPEM []byte
	RequestURI    string
}

// Config is runtime configuration, loaded by a ConfigLoader.
type Config struct {
	Repos       ReposConfig  `yaml:"repos"`
	CRLLocation string       `yaml:"crl_location"` // reserved for future CRL support; ignored today
	Server      ServerConfig `yaml:"server"`
}

// ReposConfig carries the three filesystem locations the Trust Store
// and Repository Resolver are bootstrapped from.
type ReposConfig struct {
	ProtectedRepoListingFile string `yaml:"protected_repo_listing_file"`
	GlobalCertLocation       string `yaml:"global_cert_location"`
	RepoCertLocation         string `yaml:"repo_cert_location"`
}

// ServerConfig configures the demonstration HTTP front end. Not
// consulted by the authorization engine itself.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	MountPoint string `yaml:"mount_point"`
}
