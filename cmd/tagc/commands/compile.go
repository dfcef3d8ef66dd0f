package commands

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/livefir/tagcompiler"
	"github.com/livefir/tagcompiler/cmd/tagc/internal/config"
)

// compileOptions are the flags of the compile command
type compileOptions struct {
	configPath string
	outputDir  string
	minify     bool
	noScope    bool
	debug      bool
	sourceMap  bool
	paths      []string
}

func parseCompileArgs(args []string) (compileOptions, error) {
	var opts compileOptions
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--config", "--out":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("%s requires a value", args[i])
			}
			if args[i] == "--config" {
				opts.configPath = args[i+1]
			} else {
				opts.outputDir = args[i+1]
			}
			i++
		case "--minify":
			opts.minify = true
		case "--no-scope":
			opts.noScope = true
		case "--debug":
			opts.debug = true
		case "--map":
			opts.sourceMap = true
		default:
			if strings.HasPrefix(args[i], "--") {
				return opts, fmt.Errorf("unknown flag: %s", args[i])
			}
			opts.paths = append(opts.paths, args[i])
		}
	}
	if len(opts.paths) == 0 {
		return opts, fmt.Errorf("at least one component file or directory required: tagc compile <path>...")
	}
	return opts, nil
}

// Compile compiles component files and directories into JSON template modules
func Compile(args []string) error {
	return compile(args, os.Stdout)
}

func compile(args []string, w io.Writer) error {
	opts, err := parseCompileArgs(args)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.outputDir != "" {
		cfg.OutputDir = opts.outputDir
	}

	compiler, err := tagcompiler.New(
		tagcompiler.WithScopedCSS(cfg.ScopedCSS && !opts.noScope),
		tagcompiler.WithMinify(cfg.Minify || opts.minify),
		tagcompiler.WithKeepWhitespace(cfg.KeepWhitespace),
		tagcompiler.WithDebug(cfg.Debug || opts.debug),
		tagcompiler.WithSelectorPrefix(cfg.SelectorPrefix),
		tagcompiler.WithEmitter(tagcompiler.JSONEmitter{Indent: cfg.Indent}),
	)
	if err != nil {
		return fmt.Errorf("invalid compiler options: %w", err)
	}

	files, err := collectFiles(opts.paths, cfg.Extension)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s files found", cfg.Extension)
	}

	var failed int
	for _, file := range files {
		target, err := compileFile(compiler, file, cfg.OutputDir, opts.sourceMap)
		if err != nil {
			failed++
			fmt.Fprintf(w, "%s %v\n", errorStyle.Render("✗"), err)
			continue
		}
		fmt.Fprintf(w, "%s %s %s\n", successStyle.Render("✓"), file, mutedStyle.Render("→ "+target))
	}

	m := compiler.Metrics().GetMetrics()
	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("Summary"))
	fmt.Fprintf(w, "  components: %d compiled, %d failed\n", m.ComponentsCompiled, m.CompileErrors)
	fmt.Fprintf(w, "  bindings:   %d each, %d if, %d tag, %d simple\n", m.EachBindings, m.IfBindings, m.TagBindings, m.SimpleBindings)
	fmt.Fprintf(w, "  styles:     %d scoped\n", m.StylesScoped)

	if failed > 0 {
		return fmt.Errorf("%d of %d components failed to compile", failed, len(files))
	}
	return nil
}

func compileFile(compiler *tagcompiler.Compiler, file, outputDir string, sourceMap bool) (string, error) {
	source, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", file, err)
	}

	out, err := compiler.Compile(string(source), file)
	if err != nil {
		return "", err
	}

	target := strings.TrimSuffix(file, filepath.Ext(file)) + ".json"
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
		target = filepath.Join(outputDir, filepath.Base(target))
	}

	if err := os.WriteFile(target, []byte(out.Code), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", target, err)
	}

	if sourceMap && out.Map != nil {
		data, err := out.Map.JSON()
		if err != nil {
			return "", fmt.Errorf("failed to encode source map: %w", err)
		}
		if err := os.WriteFile(target+".map", data, 0644); err != nil {
			return "", fmt.Errorf("failed to write %s.map: %w", target, err)
		}
	}
	return target, nil
}

// collectFiles expands directories into the component files they contain
func collectFiles(paths []string, ext string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to access %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(p) == ext {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", path, err)
		}
	}
	return files, nil
}
