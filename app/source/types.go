package source

// Descriptor is the static per-publisher configuration, loaded from a YAML
// file at process start. It is never stored; the pipeline treats it as
// immutable input.
type Descriptor struct {
	Name     string   `yaml:"name"`     // Display name, e.g. "Le Mauricien"
	Homepage string   `yaml:"homepage"` // Homepage URL used for link discovery
	FeedURL  string   `yaml:"feed_url"` // Optional RSS/Atom feed URL
	Priority int      `yaml:"priority"` // Lower runs first; ties keep file order
	Enabled  bool     `yaml:"enabled"`
	Settings Settings `yaml:"settings"`
}

type Settings struct {
	MaxCandidates int `yaml:"max_candidates"` // Cap on candidate links per run
}
