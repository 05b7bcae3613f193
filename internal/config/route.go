package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Route represents one raw route definition prior to normalization.
type Route struct {
	// Path is the registration key handed to the prefix index. Required,
	// non-empty.
	Path string `yaml:"path" json:"path"`

	// Metadata is an opaque value returned verbatim on a successful match.
	// Required; never interpreted by the core.
	Metadata any `yaml:"metadata" json:"metadata"`

	// Method restricts the route to a set of HTTP methods. Accepts a single
	// scalar or a sequence in YAML. Empty means any method.
	Method StringList `yaml:"method,omitempty" json:"method,omitempty"`

	// Host restricts the route to an exact host, or to a wildcard suffix
	// when the value starts with "*" (e.g. "*.example.com").
	Host string `yaml:"host,omitempty" json:"host,omitempty"`

	// RemoteAddr restricts the route to clients within an address range,
	// given as "ip" or "ip/prefixLen" (IPv4 or IPv6).
	RemoteAddr string `yaml:"remoteAddr,omitempty" json:"remoteAddr,omitempty"`
}

// RoutesFile is the document root of a route definition file.
type RoutesFile struct {
	Routes []Route `yaml:"routes" json:"routes"`
}

// StringList unmarshals from either a single YAML scalar or a sequence of
// scalars.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	case yaml.SequenceNode:
		var ss []string
		if err := value.Decode(&ss); err != nil {
			return err
		}
		*l = StringList(ss)
		return nil
	default:
		return fmt.Errorf("method must be a string or a list of strings, got %s node", kindName(value.Kind))
	}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	default:
		return "unknown"
	}
}
