package domain

// ManifestRepository edits the scoped registries of a package manifest.
type ManifestRepository interface {
	Path() string

	CheckPresence(registries []Registry) map[string]bool

	AddRegistries(registries []Registry) error
}

// CredentialRepository edits the per-user registry credential file.
type CredentialRepository interface {
	Path() string

	IsRegistryPresent(registryURL, token string) bool

	AddRegistry(registryURL, token string) error
}
