package storage

// Capability describes what a provider's configuration allows.
type Capability struct {
	// ClientUsable is true when public identifiers are present,
	// enough to build public URLs.
	ClientUsable bool `json:"client_usable" yaml:"client_usable"`
	// ServerUsable is true when secrets are present as well,
	// enough for put, copy, list, delete and presign.
	ServerUsable bool `json:"server_usable" yaml:"server_usable"`
}

// Capabilities is the result of resolving a configuration source.
type Capabilities struct {
	Providers         map[ProviderID]Capability `json:"providers" yaml:"providers"`
	Active            ProviderID                `json:"active" yaml:"active"`
	Override          bool                      `json:"override" yaml:"override"`
	MultipleAvailable bool                      `json:"multiple_available" yaml:"multiple_available"`
}

// Resolve derives provider capabilities and the active provider from src.
// It performs no I/O and returns the same result for the same input.
//
// A configured preference is returned as the active provider verbatim,
// even when that provider is not usable; operations on it fail later.
// Without a preference the first client-usable provider in priority order
// wins, falling back to DefaultProvider.
func Resolve(src Source) Capabilities {
	return LoadSettings(src).Capabilities()
}

// Capabilities resolves capabilities from already loaded settings.
func (s Settings) Capabilities() Capabilities {
	caps := Capabilities{
		Providers: map[ProviderID]Capability{
			ProviderR2:   {ClientUsable: s.R2.clientUsable(), ServerUsable: s.R2.serverUsable()},
			ProviderS3:   {ClientUsable: s.S3.clientUsable(), ServerUsable: s.S3.serverUsable()},
			ProviderOSS:  {ClientUsable: s.OSS.clientUsable(), ServerUsable: s.OSS.serverUsable()},
			ProviderBlob: {ClientUsable: s.Blob.clientUsable(), ServerUsable: s.Blob.serverUsable()},
		},
		Active: DefaultProvider,
	}

	servers := 0
	for _, c := range caps.Providers {
		if c.ServerUsable {
			servers++
		}
	}
	caps.MultipleAvailable = servers > 1

	if s.Preference != "" {
		caps.Active = ProviderID(s.Preference)
		caps.Override = true
		return caps
	}

	for _, id := range priority {
		if caps.Providers[id].ClientUsable {
			caps.Active = id
			break
		}
	}

	return caps
}

// Provider returns the capability of id. Unknown ids are not usable.
func (c Capabilities) Provider(id ProviderID) Capability {
	return c.Providers[id]
}

// ServerUsable returns the server-usable providers in priority order.
func (c Capabilities) ServerUsable() []ProviderID {
	var out []ProviderID
	for _, id := range priority {
		if c.Providers[id].ServerUsable {
			out = append(out, id)
		}
	}
	return out
}

// HasStorageProvider reports whether any provider can perform authenticated operations.
func (c Capabilities) HasStorageProvider() bool {
	return len(c.ServerUsable()) > 0
}

// PublicConfig is the client-safe view of the storage configuration.
// It never carries secrets.
type PublicConfig struct {
	Active            ProviderID            `json:"active" yaml:"active"`
	ActiveLabel       string                `json:"active_label" yaml:"active_label"`
	Override          bool                  `json:"override" yaml:"override"`
	MultipleAvailable bool                  `json:"multiple_available" yaml:"multiple_available"`
	Ready             bool                  `json:"ready" yaml:"ready"`
	Providers         []PublicProviderState `json:"providers" yaml:"providers"`
}

// PublicProviderState describes one provider in PublicConfig.
type PublicProviderState struct {
	ID           ProviderID `json:"id" yaml:"id"`
	Label        string     `json:"label" yaml:"label"`
	BaseURL      string     `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	ClientUsable bool       `json:"client_usable" yaml:"client_usable"`
	ServerUsable bool       `json:"server_usable" yaml:"server_usable"`
}

// Public builds the client-safe view of c using base URLs from s.
func (c Capabilities) Public(s Settings) PublicConfig {
	out := PublicConfig{
		Active:            c.Active,
		ActiveLabel:       c.Active.Label(),
		Override:          c.Override,
		MultipleAvailable: c.MultipleAvailable,
		Ready:             c.Provider(c.Active).ServerUsable,
		Providers:         make([]PublicProviderState, 0, len(priority)),
	}

	for _, id := range priority {
		pc := c.Providers[id]
		state := PublicProviderState{
			ID:           id,
			Label:        id.Label(),
			ClientUsable: pc.ClientUsable,
			ServerUsable: pc.ServerUsable,
		}
		if pc.ClientUsable {
			state.BaseURL = s.BaseURL(id)
		}
		out.Providers = append(out.Providers, state)
	}

	return out
}
