package drive

import (
	"sort"

	"golang.org/x/oauth2"

	"github.com/uniworkhq/uniwork/internal/app"
)

// Supported drive provider names.
const (
	ProviderGoogle   = "google"
	ProviderDropbox  = "dropbox"
	ProviderOneDrive = "onedrive"
)

// Provider describes one cloud drive OAuth provider. All three share the same
// refresh request shape and differ only in endpoints and credentials.
type Provider struct {
	Name         string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	FilesURL     string
	Scopes       []string
}

// Configured reports whether credentials are present for the provider.
func (p Provider) Configured() bool {
	return p.ClientID != "" && p.ClientSecret != ""
}

// OAuthConfig builds the oauth2 configuration used for the link (authorization
// code) flow. Token refresh goes through the explicit exchange in services.
func (p Provider) OAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     p.ClientID,
		ClientSecret: p.ClientSecret,
		RedirectURL:  p.RedirectURL,
		Scopes:       p.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  p.AuthURL,
			TokenURL: p.TokenURL,
		},
	}
}

// Registry holds the configured drive providers keyed by name.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry builds a Registry from application configuration. Providers
// without credentials are still listed so callers can report "not configured"
// rather than "unknown".
func NewRegistry(cfg app.DriveConfig) *Registry {
	r := &Registry{providers: make(map[string]Provider, 3)}

	r.providers[ProviderGoogle] = fromConfig(ProviderGoogle, cfg.Google,
		[]string{"https://www.googleapis.com/auth/drive.readonly"})
	r.providers[ProviderDropbox] = fromConfig(ProviderDropbox, cfg.Dropbox,
		[]string{"files.metadata.read"})
	r.providers[ProviderOneDrive] = fromConfig(ProviderOneDrive, cfg.OneDrive,
		[]string{"Files.Read", "offline_access"})

	return r
}

// Get returns the named provider.
func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// Names returns the provider names in stable order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func fromConfig(name string, cfg app.DriveProviderConfig, scopes []string) Provider {
	return Provider{
		Name:         name,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		AuthURL:      cfg.AuthURL,
		TokenURL:     cfg.TokenURL,
		FilesURL:     cfg.FilesURL,
		Scopes:       scopes,
	}
}
