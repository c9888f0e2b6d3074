package lsp

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"didls/internal/source"
)

// ServiceSnippetStyle selects how service method completion snippets are
// phrased at the call site.
type ServiceSnippetStyle uint8

const (
	SnippetStyleCall ServiceSnippetStyle = iota
	SnippetStyleAwait
	SnippetStyleAsync
	SnippetStyleAwaitLet
)

func (s ServiceSnippetStyle) String() string {
	switch s {
	case SnippetStyleAwait:
		return "await"
	case SnippetStyleAsync:
		return "async"
	case SnippetStyleAwaitLet:
		return "await-let"
	}
	return "call"
}

func parseServiceSnippetStyle(raw string) (ServiceSnippetStyle, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "call":
		return SnippetStyleCall, true
	case "await":
		return SnippetStyleAwait, true
	case "async":
		return SnippetStyleAsync, true
	case "awaitlet", "await-let", "await_let", "asynclet", "async-let", "async_let":
		return SnippetStyleAwaitLet, true
	}
	return SnippetStyleCall, false
}

// CompletionMode selects between the full and the lightweight completion
// engine; auto decides per document from its size.
type CompletionMode uint8

const (
	CompletionModeAuto CompletionMode = iota
	CompletionModeFull
	CompletionModeLightweight
)

func (m CompletionMode) String() string {
	switch m {
	case CompletionModeFull:
		return "full"
	case CompletionModeLightweight:
		return "lightweight"
	}
	return "auto"
}

func parseCompletionMode(raw string) (CompletionMode, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "auto":
		return CompletionModeAuto, true
	case "full", "standard":
		return CompletionModeFull, true
	case "light", "lightweight", "fast":
		return CompletionModeLightweight, true
	}
	return CompletionModeAuto, false
}

const (
	defaultAutoLineLimit = 2000
	defaultAutoCharLimit = 120000
)

// CompletionConfig holds the completion engine selection and the document
// size thresholds the auto mode switches on.
type CompletionConfig struct {
	Mode          CompletionMode
	AutoLineLimit uint32
	AutoCharLimit uint32
}

func defaultCompletionConfig() CompletionConfig {
	return CompletionConfig{
		Mode:          CompletionModeAuto,
		AutoLineLimit: defaultAutoLineLimit,
		AutoCharLimit: defaultAutoCharLimit,
	}
}

// Lightweight reports whether completion for this document should use the
// reduced engine.
func (c CompletionConfig) Lightweight(file *source.File) bool {
	switch c.Mode {
	case CompletionModeFull:
		return false
	case CompletionModeLightweight:
		return true
	}
	if file == nil {
		return false
	}
	return file.LineCount() > c.AutoLineLimit || file.RuneLen() > c.AutoCharLimit
}

func (c *CompletionConfig) applySection(value any) {
	switch v := value.(type) {
	case string:
		c.applyModeString(v)
	case map[string]any:
		if mode, ok := settingString(v, "mode"); ok {
			c.applyModeString(mode)
		} else if mode, ok := settingString(v, "completionMode"); ok {
			c.applyModeString(mode)
		}
		if auto, ok := settingValue(v, "auto"); ok {
			if section, ok := auto.(map[string]any); ok {
				if limit, ok := settingUint(section, "lineLimit"); ok {
					c.AutoLineLimit = sanitizeLimit(limit, c.AutoLineLimit)
				}
				if limit, ok := settingUint(section, "charLimit"); ok {
					c.AutoCharLimit = sanitizeLimit(limit, c.AutoCharLimit)
				}
			}
		}
	}
}

func (c *CompletionConfig) applyModeString(raw string) {
	if mode, ok := parseCompletionMode(raw); ok {
		c.Mode = mode
	}
}

// sanitizeLimit keeps the previous limit when a client sends zero, so a
// misconfigured editor cannot force lightweight mode onto every document.
func sanitizeLimit(value uint64, fallback uint32) uint32 {
	if value == 0 || value > uint64(maxUint32) {
		return fallback
	}
	return uint32(value)
}

// settingsSection is the key clients nest our settings under in workspace
// configuration payloads.
const settingsSection = "didls"

// ServerConfig is the complete tunable state of the server. It is a plain
// value: readers take a copy under the config lock and work from that.
type ServerConfig struct {
	SnippetStyle ServiceSnippetStyle
	Completion   CompletionConfig
}

func defaultServerConfig() ServerConfig {
	return ServerConfig{
		SnippetStyle: SnippetStyleCall,
		Completion:   defaultCompletionConfig(),
	}
}

// ApplySettings folds one settings payload from the client into the config.
// Unknown keys and malformed values are ignored; settings may appear at the
// top level or nested under the "didls" section, with camelCase, snake_case
// or kebab-case key spellings.
func (c *ServerConfig) ApplySettings(raw json.RawMessage) {
	if len(raw) == 0 {
		return
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return
	}
	c.applySettingsValue(value)
}

func (c *ServerConfig) applySettingsValue(value any) {
	if style, ok := extractServiceSnippetStyle(value); ok {
		c.SnippetStyle = style
	}
	if section, ok := completionSection(value); ok {
		c.Completion.applySection(section)
	} else if mode, ok := completionModeFromValue(value); ok {
		c.Completion.Mode = mode
	}
}

func extractServiceSnippetStyle(value any) (ServiceSnippetStyle, bool) {
	if obj, ok := value.(map[string]any); ok {
		if snippets, ok := settingValue(obj, "serviceSnippets"); ok {
			if style, ok := extractServiceSnippetStyle(snippets); ok {
				return style, true
			}
		}
		for _, key := range []string{"serviceSnippetStyle", "snippetStyle", "snippet", "style"} {
			if raw, ok := settingString(obj, key); ok {
				if style, ok := parseServiceSnippetStyle(raw); ok {
					return style, true
				}
			}
		}
		if section, ok := obj[settingsSection]; ok {
			return extractServiceSnippetStyle(section)
		}
		return SnippetStyleCall, false
	}
	if raw, ok := value.(string); ok {
		return parseServiceSnippetStyle(raw)
	}
	return SnippetStyleCall, false
}

func completionSection(value any) (any, bool) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, false
	}
	if section, ok := obj["completion"]; ok {
		return section, true
	}
	if root, ok := obj[settingsSection]; ok {
		return completionSection(root)
	}
	return nil, false
}

func completionModeFromValue(value any) (CompletionMode, bool) {
	if raw, ok := value.(string); ok {
		return parseCompletionMode(raw)
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return CompletionModeAuto, false
	}
	if raw, ok := settingString(obj, "completionMode"); ok {
		if mode, ok := parseCompletionMode(raw); ok {
			return mode, true
		}
	}
	if root, ok := obj[settingsSection]; ok {
		return completionModeFromValue(root)
	}
	return CompletionModeAuto, false
}

// settingValue looks a key up under its exact, snake_case and kebab-case
// spellings, in that order.
func settingValue(obj map[string]any, key string) (any, bool) {
	if v, ok := obj[key]; ok {
		return v, true
	}
	if v, ok := obj[toSnakeCase(key)]; ok {
		return v, true
	}
	if v, ok := obj[toKebabCase(key)]; ok {
		return v, true
	}
	return nil, false
}

func settingString(obj map[string]any, key string) (string, bool) {
	v, ok := settingValue(obj, key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func settingUint(obj map[string]any, key string) (uint64, bool) {
	v, ok := settingValue(obj, key)
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	if !ok || f < 0 {
		return 0, false
	}
	return uint64(f), true
}

func toSnakeCase(key string) string {
	return caseWithSeparator(key, '_')
}

func toKebabCase(key string) string {
	return caseWithSeparator(key, '-')
}

func caseWithSeparator(key string, sep byte) string {
	var sb strings.Builder
	sb.Grow(len(key) + 4)
	for idx, ch := range key {
		if ch >= 'A' && ch <= 'Z' {
			if idx > 0 {
				sb.WriteByte(sep)
			}
			sb.WriteByte(byte(ch) + ('a' - 'A'))
		} else {
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}

// workspaceConfigFile is the project-level configuration read from the
// workspace root during initialize.
const workspaceConfigFile = "didls.toml"

type workspaceConfig struct {
	ServiceSnippetStyle string                    `toml:"service_snippet_style"`
	Completion          workspaceCompletionConfig `toml:"completion"`
}

type workspaceCompletionConfig struct {
	Mode string              `toml:"mode"`
	Auto workspaceAutoConfig `toml:"auto"`
}

type workspaceAutoConfig struct {
	LineLimit uint64 `toml:"line_limit"`
	CharLimit uint64 `toml:"char_limit"`
}

// loadWorkspaceConfig reads didls.toml from the workspace root and folds it
// into the config. A missing file is not an error; a malformed one is
// reported and otherwise ignored.
func (c *ServerConfig) loadWorkspaceConfig(rootPath string) error {
	if rootPath == "" {
		return nil
	}
	path := filepath.Join(rootPath, workspaceConfigFile)
	// #nosec G304 -- path comes from the client's workspace root
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var parsed workspaceConfig
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return err
	}
	if style, ok := parseServiceSnippetStyle(parsed.ServiceSnippetStyle); ok && parsed.ServiceSnippetStyle != "" {
		c.SnippetStyle = style
	}
	if parsed.Completion.Mode != "" {
		c.Completion.applyModeString(parsed.Completion.Mode)
	}
	if parsed.Completion.Auto.LineLimit != 0 {
		c.Completion.AutoLineLimit = sanitizeLimit(parsed.Completion.Auto.LineLimit, c.Completion.AutoLineLimit)
	}
	if parsed.Completion.Auto.CharLimit != 0 {
		c.Completion.AutoCharLimit = sanitizeLimit(parsed.Completion.Auto.CharLimit, c.Completion.AutoCharLimit)
	}
	return nil
}

// configStore guards the live ServerConfig. The lock is never held across
// analysis or I/O: readers snapshot the value and release it.
type configStore struct {
	mu  sync.Mutex
	cfg ServerConfig
}

func newConfigStore() *configStore {
	return &configStore{cfg: defaultServerConfig()}
}

func (s *configStore) snapshot() ServerConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func (s *configStore) update(fn func(*ServerConfig)) {
	s.mu.Lock()
	fn(&s.cfg)
	s.mu.Unlock()
}
