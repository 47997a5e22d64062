package promptcatalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Prompt represents one prompt exposed through MCP prompt endpoints.
type Prompt struct {
	Name        string
	Title       string
	Description string
	Arguments   []PromptArgument
	Template    string
	SourcePath  string
}

// PromptArgument describes one named template argument.
type PromptArgument struct {
	Name     string
	Required bool
}

// Registry stores built-in prompts plus prompts discovered from SKILL.md
// files. Built-ins survive every reload; a file prompt with the same name
// replaces the built-in.
type Registry struct {
	enabled  bool
	builtins []Prompt

	mu         sync.RWMutex
	prompts    map[string]Prompt
	loadErrors []string
}

// NewRegistry creates a registry seeded with the given built-in prompts.
func NewRegistry(enabled bool, builtins ...Prompt) *Registry {
	r := &Registry{
		enabled: enabled,
		prompts: make(map[string]Prompt),
	}
	for _, prompt := range builtins {
		prompt = normalizePrompt(prompt)
		if promptKey(prompt.Name) == "" {
			continue
		}
		r.builtins = append(r.builtins, prompt)
	}
	if enabled {
		r.prompts = r.baseline()
	}
	return r
}

func (r *Registry) baseline() map[string]Prompt {
	out := make(map[string]Prompt, len(r.builtins))
	for _, prompt := range r.builtins {
		out[promptKey(prompt.Name)] = prompt
	}
	return out
}

// Enabled reports whether prompt features are enabled.
func (r *Registry) Enabled() bool {
	return r != nil && r.enabled
}

// PromptCount returns the number of registered prompts.
func (r *Registry) PromptCount() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.prompts)
}

// ListPrompts returns prompt definitions sorted by name.
func (r *Registry) ListPrompts() []Prompt {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Prompt, 0, len(r.prompts))
	for _, prompt := range r.prompts {
		out = append(out, prompt)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// GetPrompt returns one prompt by name, case-insensitively.
func (r *Registry) GetPrompt(name string) (Prompt, bool) {
	if r == nil {
		return Prompt{}, false
	}

	key := promptKey(name)
	if key == "" {
		return Prompt{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	prompt, ok := r.prompts[key]
	return prompt, ok
}

// LoadErrors returns non-fatal errors seen during the last load.
func (r *Registry) LoadErrors() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.loadErrors))
	copy(out, r.loadErrors)
	return out
}

// LoadFromPathsWithAllowedRoots replaces the file-backed prompts with the
// SKILL.md files found under paths. Files outside allowedRoots (or outside
// paths when allowedRoots is empty) are skipped and reported.
func (r *Registry) LoadFromPathsWithAllowedRoots(paths []string, allowedRoots []string) error {
	if !r.Enabled() {
		return nil
	}

	files, loadErrors := discoverSkillFilesWithPolicy(paths, allowedRoots)
	nextPrompts := r.baseline()
	fromFiles := make(map[string]struct{}, len(files))

	for _, filePath := range files {
		prompt, err := PromptFromSkillFile(filePath)
		if err != nil {
			loadErrors = append(loadErrors, err.Error())
			continue
		}
		key := promptKey(prompt.Name)
		if key == "" {
			loadErrors = append(loadErrors, "invalid prompt name")
			continue
		}
		if _, ok := fromFiles[key]; ok {
			loadErrors = append(loadErrors, fmt.Sprintf("duplicate prompt name %q", prompt.Name))
			continue
		}
		fromFiles[key] = struct{}{}
		nextPrompts[key] = normalizePrompt(prompt)
	}

	r.mu.Lock()
	r.prompts = nextPrompts
	r.loadErrors = append([]string(nil), loadErrors...)
	r.mu.Unlock()

	if len(loadErrors) == 0 {
		return nil
	}
	return errors.New(strings.Join(loadErrors, "; "))
}

// ReloadResult summarizes one reload.
type ReloadResult struct {
	Changed     bool
	PromptCount int
	LoadErrors  []string
	Disabled    bool
}

// Status is "disabled", "ok" or "warning".
func (res ReloadResult) Status() string {
	switch {
	case res.Disabled:
		return "disabled"
	case len(res.LoadErrors) > 0:
		return "warning"
	default:
		return "ok"
	}
}

// Summary renders the result for the reload_prompt_catalog tool.
func (res ReloadResult) Summary() map[string]any {
	out := map[string]any{
		"changed":        res.Changed,
		"promptCount":    res.PromptCount,
		"loadErrorCount": len(res.LoadErrors),
		"status":         res.Status(),
	}
	if len(res.LoadErrors) > 0 {
		out["warnings"] = summarizeLoadErrors(res.LoadErrors, 5)
	}
	return out
}

// Reload reloads from paths and reports whether the visible prompt list
// changed.
func (r *Registry) Reload(paths []string, allowedRoots []string) ReloadResult {
	if !r.Enabled() {
		return ReloadResult{Disabled: true}
	}

	before := promptListFingerprint(r.ListPrompts())
	_ = r.LoadFromPathsWithAllowedRoots(paths, allowedRoots)
	after := r.ListPrompts()

	return ReloadResult{
		Changed:     before != promptListFingerprint(after),
		PromptCount: len(after),
		LoadErrors:  r.LoadErrors(),
	}
}

func summarizeLoadErrors(loadErrors []string, limit int) []string {
	if limit <= 0 || len(loadErrors) <= limit {
		return append([]string(nil), loadErrors...)
	}
	out := append([]string(nil), loadErrors[:limit]...)
	out = append(out, fmt.Sprintf("... %d more warning(s)", len(loadErrors)-limit))
	return out
}

type listPromptDigest struct {
	Name        string           `json:"name"`
	Title       string           `json:"title,omitempty"`
	Description string           `json:"description"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
	Template    string           `json:"template"`
}

// promptListFingerprint covers everything a client can observe through
// prompts/list and prompts/get.
func promptListFingerprint(prompts []Prompt) string {
	digest := make([]listPromptDigest, 0, len(prompts))
	for _, prompt := range prompts {
		digest = append(digest, listPromptDigest{
			Name:        prompt.Name,
			Title:       prompt.Title,
			Description: prompt.Description,
			Arguments:   prompt.Arguments,
			Template:    prompt.Template,
		})
	}
	data, err := json.Marshal(digest)
	if err != nil {
		return ""
	}
	return string(data)
}

// WatchDirs returns every existing directory under paths, for watchers that
// do not recurse on their own.
func WatchDirs(paths []string) []string {
	seen := make(map[string]struct{})
	var dirs []string
	add := func(dir string) {
		dir = canonicalPathForBoundary(dir)
		if _, ok := seen[dir]; ok {
			return
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}

	for _, raw := range paths {
		path := expandUser(strings.TrimSpace(raw))
		if path == "" {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			add(filepath.Dir(path))
			continue
		}
		_ = filepath.WalkDir(path, func(current string, d os.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				add(current)
			}
			return nil
		})
	}
	sort.Strings(dirs)
	return dirs
}

func discoverSkillFilesWithPolicy(paths []string, allowedRoots []string) ([]string, []string) {
	files := make([]string, 0)
	seen := make(map[string]struct{})
	loadErrors := make([]string, 0)

	roots := normalizePolicyRoots(allowedRoots)
	if len(roots) == 0 {
		roots = normalizePolicyRoots(paths)
	}

	for _, rawPath := range paths {
		discovered, discoverErr := discoverSkillFiles(rawPath)
		if discoverErr != nil {
			loadErrors = append(loadErrors, discoverErr.Error())
		}
		for _, filePath := range discovered {
			canonicalFilePath := canonicalPathForBoundary(filePath)
			if len(roots) > 0 && !isPathWithinAllowedRoots(canonicalFilePath, roots) {
				loadErrors = append(loadErrors, fmt.Sprintf("skill file %s is outside prompt catalog allowed roots", canonicalFilePath))
				continue
			}
			if _, ok := seen[canonicalFilePath]; ok {
				continue
			}
			seen[canonicalFilePath] = struct{}{}
			files = append(files, canonicalFilePath)
		}
	}

	sort.Strings(files)
	return files, loadErrors
}

func normalizePolicyRoots(paths []string) []string {
	out := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, raw := range paths {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		canonical := canonicalPathForBoundary(expandUser(trimmed))
		if _, exists := seen[canonical]; exists {
			continue
		}
		seen[canonical] = struct{}{}
		out = append(out, canonical)
	}
	sort.Strings(out)
	return out
}

func canonicalPathForBoundary(path string) string {
	cleaned := filepath.Clean(path)
	if abs, err := filepath.Abs(cleaned); err == nil {
		cleaned = abs
	}
	if resolved, err := filepath.EvalSymlinks(cleaned); err == nil {
		cleaned = resolved
	}
	return filepath.Clean(cleaned)
}

func isPathWithinAllowedRoots(path string, roots []string) bool {
	for _, root := range roots {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			continue
		}
		if rel == "." || rel == "" {
			return true
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func discoverSkillFiles(rawPath string) ([]string, error) {
	path := strings.TrimSpace(rawPath)
	if path == "" {
		return nil, nil
	}

	path = expandUser(path)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat skill path %s: %w", filepath.Clean(path), err)
	}

	results := make([]string, 0)
	if !info.IsDir() {
		if isSkillFile(path) {
			results = append(results, filepath.Clean(path))
		}
		return results, nil
	}

	walkErr := filepath.WalkDir(path, func(current string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() && isSkillFile(current) {
			results = append(results, filepath.Clean(current))
		}
		return nil
	})
	if walkErr != nil {
		return results, fmt.Errorf("walk skill path %s: %w", filepath.Clean(path), walkErr)
	}
	return results, nil
}

func isSkillFile(path string) bool {
	return strings.EqualFold(filepath.Base(path), "SKILL.md")
}

func expandUser(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

func promptKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
