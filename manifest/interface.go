package manifest

// Parser parses raw manifest bytes into a Manifest.
type Parser interface {
	// Parse unmarshals manifest bytes into a Manifest struct.
	Parse(data []byte) (*Manifest, error)
}

// VersionResolver converts a version constraint to an exact version from the
// available options.
type VersionResolver interface {
	Resolve(constraint string, available []string) (string, error)
}
