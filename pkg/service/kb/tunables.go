package kb

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

// Profile bounds one context selection: how many sections may be picked, the
// total character budget across their rendered chunks, and the hard cap on
// the combined list after topic-override sections are prepended.
type Profile struct {
	MaxSections      int `yaml:"max_sections"`
	MaxSectionsCivic int `yaml:"max_sections_civic"`
	MaxChars         int `yaml:"max_chars"`
	CombinedCap      int `yaml:"combined_cap"`
}

// Override bounds the topic-based force-include path.
type Override struct {
	SourcePattern string `yaml:"source_pattern"`
	MaxSections   int    `yaml:"max_sections"`
	MaxChunkChars int    `yaml:"max_chunk_chars"`
}

// Tunables holds the scoring constants and selection profiles. The defaults
// are tuned values carried over from production use, not specified behavior;
// they can be overridden from a YAML file.
type Tunables struct {
	TitleBoost      float64 `yaml:"title_boost"`
	LengthPenaltyAt int     `yaml:"length_penalty_at"`

	Standard Profile  `yaml:"standard"`
	Deep     Profile  `yaml:"deep"`
	Override Override `yaml:"override"`
}

// DefaultTunables returns the tuned production defaults.
func DefaultTunables() Tunables {
	return Tunables{
		TitleBoost:      0.5,
		LengthPenaltyAt: 1200,
		Standard: Profile{
			MaxSections:      3,
			MaxSectionsCivic: 4,
			MaxChars:         16000,
			CombinedCap:      4,
		},
		Deep: Profile{
			MaxSections:      5,
			MaxSectionsCivic: 5,
			MaxChars:         22000,
			CombinedCap:      6,
		},
		Override: Override{
			SourcePattern: `churchandstate|christianliving`,
			MaxSections:   2,
			MaxChunkChars: 6000,
		},
	}
}

// LoadTunables reads a YAML override file on top of the defaults. An empty
// path returns the defaults unchanged.
func LoadTunables(path string) (Tunables, error) {
	tun := DefaultTunables()
	if path == "" {
		return tun, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return tun, goerr.Wrap(err, "failed to read kb tunables file", goerr.V("path", path))
	}
	if err := yaml.Unmarshal(data, &tun); err != nil {
		return tun, goerr.Wrap(err, "failed to parse kb tunables file", goerr.V("path", path))
	}
	return tun, nil
}
