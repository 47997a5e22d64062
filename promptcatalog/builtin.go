package promptcatalog

import (
	"embed"
	"io/fs"
	"path"
	"sort"
)

//go:embed builtin
var builtinFS embed.FS

// BuiltinPrompts returns the prompts compiled into the binary, sorted by name.
func BuiltinPrompts() []Prompt {
	var prompts []Prompt
	_ = fs.WalkDir(builtinFS, "builtin", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !isSkillFile(p) {
			return err
		}
		content, err := builtinFS.ReadFile(p)
		if err != nil {
			return err
		}
		dir := path.Base(path.Dir(p))
		prompt, err := parseSkill(string(content), dir, "builtin:"+dir)
		if err != nil {
			return err
		}
		prompts = append(prompts, normalizePrompt(prompt))
		return nil
	})
	sort.Slice(prompts, func(i, j int) bool {
		return prompts[i].Name < prompts[j].Name
	})
	return prompts
}
