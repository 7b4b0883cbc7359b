package config

import "fmt"

// Overrides carries the CLI-level settings that take precedence over the
// config file. Zero values mean "not given".
type Overrides struct {
	Provider string
	Model    string
	APIKey   string
	MaxSteps int
}

// Apply resolves the CLI overrides into cfg. Model and credential overrides
// apply only to the settings of the selected provider; the credential
// additionally falls back to the provider's fixed environment variable. A
// provider identifier with no settings entry is an error.
func (c *Config) Apply(o Overrides) error {
	provider := DefaultProviderName
	if p := Resolve(Opt(o.Provider), Opt(c.DefaultProvider)); p != nil {
		provider = *p
	}
	c.DefaultProvider = provider

	settings, ok := c.Providers[provider]
	if !ok {
		return fmt.Errorf("provider %q has no settings entry", provider)
	}

	if m := Resolve(Opt(o.Model), Opt(settings.Model)); m != nil {
		settings.Model = *m
	}

	if k := Resolve(Opt(o.APIKey), Opt(settings.APIKey), EnvOpt(CredentialEnvVar(provider))); k != nil {
		settings.APIKey = *k
	}

	if s := Resolve(OptInt(o.MaxSteps), OptInt(c.MaxSteps)); s != nil {
		c.MaxSteps = *s
	} else {
		c.MaxSteps = DefaultMaxSteps
	}

	return c.Validate()
}
