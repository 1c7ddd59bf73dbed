package publishers

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// Publisher types accepted in the publishers file.
const (
	TypeHTTP   = "http"
	TypeSQS    = "sqs"
	TypeSNS    = "sns"
	TypePubSub = "pubsub"
)

const defaultHTTPTimeoutSeconds = 5

// PublisherConfig is one entry of the publishers file.
type PublisherConfig struct {
	ID      string `mapstructure:"id"`
	Type    string `mapstructure:"type"`
	Enabled *bool  `mapstructure:"enabled"`
	// Regions limits the publisher to stage changes of these regions.
	// Empty means every watched region.
	Regions []string `mapstructure:"regions"`

	HTTP   *HTTPPublisherConfig   `mapstructure:"http"`
	SQS    *SQSPublisherConfig    `mapstructure:"sqs"`
	SNS    *SNSPublisherConfig    `mapstructure:"sns"`
	PubSub *PubSubPublisherConfig `mapstructure:"pubsub"`
}

// HTTPPublisherConfig posts events to a webhook. Header names are
// case-insensitive and may be lower-cased when read from a file.
type HTTPPublisherConfig struct {
	URL            string            `mapstructure:"url"`
	Method         string            `mapstructure:"method"`
	Headers        map[string]string `mapstructure:"headers"`
	TimeoutSeconds int               `mapstructure:"timeout_seconds"`
}

// AWSCredentials pins static credentials instead of the default chain.
type AWSCredentials struct {
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	SessionToken    string `mapstructure:"session_token"`
}

// SQSPublisherConfig sends events to a queue.
type SQSPublisherConfig struct {
	QueueURL    string          `mapstructure:"uri"`
	Region      string          `mapstructure:"region"`
	Credentials *AWSCredentials `mapstructure:"credentials"`
}

// SNSPublisherConfig publishes events to a topic.
type SNSPublisherConfig struct {
	TopicARN    string          `mapstructure:"topic_arn"`
	Region      string          `mapstructure:"region"`
	Credentials *AWSCredentials `mapstructure:"credentials"`
}

// PubSubPublisherConfig publishes events to a Google Cloud Pub/Sub topic.
type PubSubPublisherConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	Topic           string `mapstructure:"topic"`
	CredentialsFile string `mapstructure:"credentials_file"`
	Endpoint        string `mapstructure:"endpoint"`
}

// IsEnabled defaults to true when the entry does not say.
func (c PublisherConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// sink returns the block matching Type, or nil when it is missing.
func (c PublisherConfig) sink() (interface{ check() error }, error) {
	switch c.Type {
	case TypeHTTP:
		if c.HTTP != nil {
			return c.HTTP, nil
		}
	case TypeSQS:
		if c.SQS != nil {
			return c.SQS, nil
		}
	case TypeSNS:
		if c.SNS != nil {
			return c.SNS, nil
		}
	case TypePubSub:
		if c.PubSub != nil {
			return c.PubSub, nil
		}
	case "":
		return nil, errors.New("type is required")
	default:
		return nil, fmt.Errorf("unsupported type %q", c.Type)
	}
	return nil, fmt.Errorf("%s block is required", c.Type)
}

func (c *PublisherConfig) normalize() {
	c.ID = strings.TrimSpace(c.ID)
	c.Type = strings.ToLower(strings.TrimSpace(c.Type))
	c.Regions = lowerAll(c.Regions)
	if c.HTTP != nil {
		h := *c.HTTP
		h.URL = strings.TrimSpace(h.URL)
		h.Method = strings.ToUpper(strings.TrimSpace(h.Method))
		if h.Method == "" {
			h.Method = http.MethodPost
		}
		if h.TimeoutSeconds <= 0 {
			h.TimeoutSeconds = defaultHTTPTimeoutSeconds
		}
		c.HTTP = &h
	}
	if c.SQS != nil {
		q := *c.SQS
		q.QueueURL, q.Region = strings.TrimSpace(q.QueueURL), strings.TrimSpace(q.Region)
		c.SQS = &q
	}
	if c.SNS != nil {
		s := *c.SNS
		s.TopicARN, s.Region = strings.TrimSpace(s.TopicARN), strings.TrimSpace(s.Region)
		c.SNS = &s
	}
	if c.PubSub != nil {
		p := *c.PubSub
		p.ProjectID, p.Topic = strings.TrimSpace(p.ProjectID), strings.TrimSpace(p.Topic)
		c.PubSub = &p
	}
}

func (c *HTTPPublisherConfig) check() error {
	if c.URL == "" {
		return errors.New("http.url is required")
	}
	return nil
}

func (c *SQSPublisherConfig) check() error {
	if c.QueueURL == "" || c.Region == "" {
		return errors.New("sqs.uri and sqs.region are required")
	}
	return nil
}

func (c *SNSPublisherConfig) check() error {
	if c.TopicARN == "" || c.Region == "" {
		return errors.New("sns.topic_arn and sns.region are required")
	}
	return nil
}

func (c *PubSubPublisherConfig) check() error {
	if c.ProjectID == "" || c.Topic == "" {
		return errors.New("pubsub.project_id and pubsub.topic are required")
	}
	return nil
}

// Set is the validated content of a publishers file, in file order.
type Set struct {
	configs []PublisherConfig
}

// LoadFile reads a YAML or JSON publishers file.
func LoadFile(path string) (*Set, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("publishers file path is empty")
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}
	return Decode(v)
}

// Decode builds a Set from the "publishers" key of v.
func Decode(v *viper.Viper) (*Set, error) {
	var cfgs []PublisherConfig
	if err := v.UnmarshalKey("publishers", &cfgs); err != nil {
		return nil, fmt.Errorf("decode publishers: %w", err)
	}
	return NewSet(cfgs)
}

// NewSet normalizes and validates cfgs. Ids must be unique.
func NewSet(cfgs []PublisherConfig) (*Set, error) {
	if len(cfgs) == 0 {
		return nil, errors.New("no publishers declared")
	}
	seen := make(map[string]struct{}, len(cfgs))
	out := make([]PublisherConfig, 0, len(cfgs))
	for i, cfg := range cfgs {
		cfg.normalize()
		if cfg.ID == "" {
			return nil, fmt.Errorf("publishers[%d]: id is required", i)
		}
		sink, err := cfg.sink()
		if err == nil {
			err = sink.check()
		}
		if err != nil {
			return nil, fmt.Errorf("publisher %q: %w", cfg.ID, err)
		}
		if _, dup := seen[cfg.ID]; dup {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		seen[cfg.ID] = struct{}{}
		out = append(out, cfg)
	}
	return &Set{configs: out}, nil
}

// Lookup returns the publisher declared under id.
func (s *Set) Lookup(id string) (PublisherConfig, bool) {
	for _, cfg := range s.configs {
		if cfg.ID == id {
			return cfg, true
		}
	}
	return PublisherConfig{}, false
}

// Enabled returns the enabled publishers.
func (s *Set) Enabled() []PublisherConfig {
	var out []PublisherConfig
	for _, cfg := range s.configs {
		if cfg.IsEnabled() {
			out = append(out, cfg)
		}
	}
	return out
}

// CheckRegions fails when an enabled publisher filters on a region outside
// watched, since it would never receive an event. An empty watched list
// follows every region and accepts any filter.
func (s *Set) CheckRegions(watched []string) error {
	if len(watched) == 0 {
		return nil
	}
	known := make(map[string]struct{}, len(watched))
	for _, r := range lowerAll(watched) {
		known[r] = struct{}{}
	}
	var errs []error
	for _, cfg := range s.Enabled() {
		var unknown []string
		for _, r := range cfg.Regions {
			if _, ok := known[r]; !ok {
				unknown = append(unknown, r)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			errs = append(errs, fmt.Errorf("publisher %q filters on unwatched regions %v", cfg.ID, unknown))
		}
	}
	return errors.Join(errs...)
}

func lowerAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
