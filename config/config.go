package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Category string

const (
	CategoryProfile Category = "profile"
	CategorySocial  Category = "social"
)

// Source is one named remote page contributing a profile section, or a
// static social link. Sources are fixed at startup.
type Source struct {
	Name     string   `yaml:"name"`
	URL      string   `yaml:"url"`
	Category Category `yaml:"category"`
	Strategy string   `yaml:"strategy,omitempty"`
}

type Config struct {
	ServerMode   string
	HTTPAddr     string
	SourcesPath  string
	CacheTTL     time.Duration
	HTTPTimeout  time.Duration
	SnippetWidth int
	UserAgent    string
	Sources      []Source
}

func Load() (*Config, error) {
	cacheTTL, err := getDuration("CACHE_TTL", 60*time.Minute)
	if err != nil {
		return nil, err
	}
	httpTimeout, err := getDuration("HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	snippetWidth, err := getInt("SNIPPET_WIDTH", 150)
	if err != nil {
		return nil, err
	}
	if snippetWidth <= 0 {
		return nil, fmt.Errorf("SNIPPET_WIDTH must be positive, got %d", snippetWidth)
	}

	cfg := &Config{
		ServerMode:   getEnv("SERVER_MODE", "stdio"),
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		SourcesPath:  os.Getenv("SOURCES_PATH"),
		CacheTTL:     cacheTTL,
		HTTPTimeout:  httpTimeout,
		SnippetWidth: snippetWidth,
		UserAgent:    getEnv("USER_AGENT", "profilemcp/1.0"),
	}

	if cfg.SourcesPath != "" {
		sources, err := LoadSources(cfg.SourcesPath)
		if err != nil {
			return nil, err
		}
		cfg.Sources = sources
	} else {
		cfg.Sources = DefaultSources()
	}

	return cfg, nil
}

// LoadSources reads the source list from a YAML file.
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sources file: %w", err)
	}

	var doc struct {
		Sources []Source `yaml:"sources"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing sources file: %w", err)
	}
	if err := validateSources(doc.Sources); err != nil {
		return nil, err
	}
	return doc.Sources, nil
}

func validateSources(sources []Source) error {
	if len(sources) == 0 {
		return fmt.Errorf("no sources defined")
	}
	seen := make(map[string]struct{}, len(sources))
	for _, s := range sources {
		if s.Name == "" {
			return fmt.Errorf("source with empty name")
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("duplicate source name %q", s.Name)
		}
		seen[s.Name] = struct{}{}
		if s.URL == "" {
			return fmt.Errorf("source %q has no URL", s.Name)
		}
		switch s.Category {
		case CategoryProfile, CategorySocial:
		default:
			return fmt.Errorf("source %q has unknown category %q", s.Name, s.Category)
		}
	}
	return nil
}

// DefaultSources is the built-in profile, used when SOURCES_PATH is unset.
func DefaultSources() []Source {
	return []Source{
		{Name: "overview", URL: "https://sites.google.com/view/haris-gulzar/home", Category: CategoryProfile},
		{Name: "experience", URL: "https://sites.google.com/view/haris-gulzar/experience", Category: CategoryProfile},
		{Name: "publications", URL: "https://sites.google.com/view/haris-gulzar/publications", Category: CategoryProfile},
		{Name: "career_timeline", URL: "https://sites.google.com/view/haris-gulzar/career-timeline", Category: CategoryProfile},
		{Name: "linkedin", URL: "https://www.linkedin.com/in/haris-gulzar/", Category: CategorySocial},
		{Name: "instagram", URL: "https://www.instagram.com/japanviaharis/", Category: CategorySocial},
		{Name: "facebook", URL: "https://www.facebook.com/mharisgulzar/", Category: CategorySocial},
		{Name: "youtube", URL: "https://www.youtube.com/@japanviaharis", Category: CategorySocial},
	}
}

// ProfileSources returns the scrapeable sources in configured order.
func (c *Config) ProfileSources() []Source {
	var out []Source
	for _, s := range c.Sources {
		if s.Category == CategoryProfile {
			out = append(out, s)
		}
	}
	return out
}

// SocialSources returns the static link sources in configured order.
func (c *Config) SocialSources() []Source {
	var out []Source
	for _, s := range c.Sources {
		if s.Category == CategorySocial {
			out = append(out, s)
		}
	}
	return out
}

func (c *Config) Source(name string) (Source, bool) {
	for _, s := range c.Sources {
		if s.Name == name {
			return s, true
		}
	}
	return Source{}, false
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
