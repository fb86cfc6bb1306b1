package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/memodom/internal/errors"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "memodom.json"

	// DefaultAddr is the default listen address of memodom serve.
	DefaultAddr = ":8080"

	DefaultReadTimeout  = "60s"
	DefaultWriteTimeout = "10s"

	// DefaultBufferSize sizes websocket read and write buffers.
	DefaultBufferSize = 4096

	// DefaultJournalCapacity is the number of batches a journal retains.
	DefaultJournalCapacity = 256

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	DefaultNamespace = "memodom"
)

// FileNames lists the config file names Load looks for, in order.
var FileNames = []string{ConfigFileName, "memodom.yaml", "memodom.yml"}

// Config represents a memodom.json or memodom.yaml file.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig configures the websocket server of memodom serve.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`

	// ReadTimeout is the idle bound on peer frames (e.g., "60s").
	ReadTimeout string `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty"`

	// WriteTimeout bounds each frame write (e.g., "10s").
	WriteTimeout string `json:"writeTimeout,omitempty" yaml:"writeTimeout,omitempty"`

	ReadBufferSize  int `json:"readBufferSize,omitempty" yaml:"readBufferSize,omitempty"`
	WriteBufferSize int `json:"writeBufferSize,omitempty" yaml:"writeBufferSize,omitempty"`

	// AllowedOrigins lists the Origin hosts accepted on upgrade. Empty
	// accepts same-origin requests only; "*" accepts any origin.
	AllowedOrigins []string `json:"allowedOrigins,omitempty" yaml:"allowedOrigins,omitempty"`
}

// JournalConfig configures the batch journal and its archive.
type JournalConfig struct {
	// Capacity is the number of batches kept in memory.
	Capacity int `json:"capacity,omitempty" yaml:"capacity,omitempty"`

	// Bucket is the S3 bucket journals are archived to. Empty disables
	// archiving.
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`

	// Prefix is prepended to archive object keys.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`

	// Region overrides the AWS region of the archive client.
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// MetricsConfig configures prometheus collectors.
type MetricsConfig struct {
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ReadBufferSize:  DefaultBufferSize,
			WriteBufferSize: DefaultBufferSize,
		},
		Journal: JournalConfig{
			Capacity: DefaultJournalCapacity,
			Prefix:   "journals/",
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
	}
}

// Load reads configuration from the specified directory, trying each of
// FileNames in turn.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("M040").
		WithDetail("No memodom.json, memodom.yaml or memodom.yml found in " + dir).
		WithSuggestion("Run 'memodom config init' to write a default memodom.json")
}

// LoadFile reads configuration from the specified file path. Files ending
// in .yaml or .yml are parsed as YAML, everything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("M040").
				WithDetail("No config file at " + path)
		}
		return nil, errors.New("M041").Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = decodeYAML(data, cfg)
	} else {
		err = decodeJSON(data, cfg)
	}
	if err != nil {
		return nil, parseError(path, data, err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func decodeJSON(data []byte, cfg *Config) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return err
	}
	return nil
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

// parseError converts a decode error into M041 pointing at the offending
// line when the decoder reports one.
func parseError(path string, data []byte, err error) error {
	e := errors.New("M041").Wrap(err)
	if isYAML(path) {
		e.WithSuggestion("Check that " + filepath.Base(path) + " is valid YAML with known keys")
		if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
			line, _ := strconv.Atoi(m[1])
			e.WithLocation(path, line, 0)
		}
		return e
	}

	e.WithSuggestion("Check that " + filepath.Base(path) + " is valid JSON with known keys")
	var offset int64 = -1
	var syntax *json.SyntaxError
	var typ *json.UnmarshalTypeError
	switch {
	case stderrors.As(err, &syntax):
		offset = syntax.Offset
	case stderrors.As(err, &typ):
		offset = typ.Offset
	}
	if offset >= 0 {
		line, col := position(data, offset)
		e.WithLocation(path, line, col)
	}
	return e
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	offset = min(offset, int64(len(data)))
	before := data[:offset]
	line = bytes.Count(before, []byte("\n")) + 1
	col = int(offset) - bytes.LastIndexByte(before, '\n')
	return line, max(col-1, 1)
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path, as YAML when the
// path ends in .yaml or .yml.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("M043").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("M043").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.ReadBufferSize == 0 {
		c.Server.ReadBufferSize = DefaultBufferSize
	}
	if c.Server.WriteBufferSize == 0 {
		c.Server.WriteBufferSize = DefaultBufferSize
	}

	if c.Journal.Capacity == 0 {
		c.Journal.Capacity = DefaultJournalCapacity
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	for _, d := range []struct{ key, value string }{
		{"server.readTimeout", c.Server.ReadTimeout},
		{"server.writeTimeout", c.Server.WriteTimeout},
	} {
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return invalid(d.key+" is not a duration: "+d.value).
				WithExample(`"` + d.key[strings.IndexByte(d.key, '.')+1:] + `": "30s"`)
		}
		if v < 0 {
			return invalid(d.key + " must not be negative")
		}
	}
	if c.Server.ReadBufferSize < 0 || c.Server.WriteBufferSize < 0 {
		return invalid("server buffer sizes must not be negative")
	}
	if c.Journal.Capacity < 1 {
		return invalid(fmt.Sprintf("journal.capacity must be positive, got %d", c.Journal.Capacity))
	}
	if _, err := c.LogLevel(); err != nil {
		return invalid("log.level must be one of debug, info, warn, error").Wrap(err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return invalid("log.format must be text or json, got " + c.Log.Format)
	}
	return nil
}

func invalid(detail string) *errors.MemoError {
	return errors.New("M042").WithDetail(detail)
}

// ReadTimeout returns the parsed server read timeout. Invalid values fall
// back to the default; Validate reports them.
func (c *Config) ReadTimeout() time.Duration {
	return durationOr(c.Server.ReadTimeout, DefaultReadTimeout)
}

// WriteTimeout returns the parsed server write timeout.
func (c *Config) WriteTimeout() time.Duration {
	return durationOr(c.Server.WriteTimeout, DefaultWriteTimeout)
}

func durationOr(value, fallback string) time.Duration {
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	d, _ := time.ParseDuration(fallback)
	return d
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.Log.Level))
	return level, err
}

// Logger builds a slog logger writing to w in the configured format.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.LogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// OriginAllowed reports whether an upgrade request from origin is accepted.
// host is the Host header of the request.
func (c *Config) OriginAllowed(origin, host string) bool {
	if origin == "" {
		return true
	}
	originHost := origin
	if i := strings.Index(originHost, "://"); i >= 0 {
		originHost = originHost[i+3:]
	}
	if strings.EqualFold(originHost, host) {
		return true
	}
	for _, allowed := range c.Server.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, originHost) {
			return true
		}
	}
	return false
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range FileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the directory holding a
// config file.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("M040").
				WithDetail("No memodom config found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or its closest parent holding a config file.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
