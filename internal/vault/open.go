package vault

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Provider names accepted in KEYVAULT_PROVIDER.
const (
	ProviderAuto      = "auto"
	ProviderAzure     = "azure"
	ProviderHashiCorp = "hashicorp"
)

// azureSuffixes are the Key Vault DNS suffixes of the public and sovereign
// clouds.
var azureSuffixes = []string{
	".vault.azure.net",
	".vault.azure.cn",
	".vault.usgovcloudapi.net",
	".vault.microsoftazure.de",
}

// Options selects and tunes the backend.
type Options struct {
	URL      string
	Provider string
	Mount    string
	Field    string
	Timeout  time.Duration
}

// Open builds the backend named by o and wraps it in a caching Client.  For
// HashiCorp Vault the token renewal loop runs until ctx ends.
func Open(ctx context.Context, o Options, log *zap.SugaredLogger) (*Client, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	provider, err := providerFor(o)
	if err != nil {
		return nil, err
	}

	var b Backend
	switch provider {
	case ProviderAzure:
		az, err := NewAzure(o.URL)
		if err != nil {
			return nil, err
		}
		b = az
	case ProviderHashiCorp:
		hc, err := NewHashiCorp(o.URL, o.Mount, o.Field)
		if err != nil {
			return nil, err
		}
		go hc.Renew(ctx, log)
		b = hc
	}

	log.Infow("vault client ready", "provider", provider, "url", o.URL)
	return NewClient(b, WithLogger(log), WithTimeout(o.Timeout)), nil
}

// providerFor resolves "auto" from the vault host name.
func providerFor(o Options) (string, error) {
	switch o.Provider {
	case ProviderAzure, ProviderHashiCorp:
		return o.Provider, nil
	case "", ProviderAuto:
	default:
		return "", fmt.Errorf("vault: unknown provider %q", o.Provider)
	}

	u, err := url.Parse(o.URL)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("vault: invalid url %q", o.URL)
	}
	host := strings.ToLower(u.Hostname())
	for _, suffix := range azureSuffixes {
		if strings.HasSuffix(host, suffix) {
			return ProviderAzure, nil
		}
	}
	return ProviderHashiCorp, nil
}
