package build

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/yarlson/yarc/binder"
	"github.com/yarlson/yarc/codegen"
	"github.com/yarlson/yarc/lexer"
	"github.com/yarlson/yarc/lower"
	"github.com/yarlson/yarc/parser"
)

// Config represents yarc.toml, a project's sole configuration file.
type Config struct {
	Package struct {
		Name          string `toml:"name"`
		Entry         string `toml:"entry"`
		TraceLowering bool   `toml:"trace_lowering"`
	} `toml:"package"`
}

// Builder runs the lex -> parse -> bind -> lower -> codegen pipeline
// for a single-file project and manages the on-disk IR cache.
type Builder struct {
	projectRoot string
	cache       *CacheManager
	log         *zap.Logger
}

// NewBuilder creates a Builder rooted at projectRoot, emitting structured
// build progress through log. A nil log falls back to zap's no-op logger.
func NewBuilder(projectRoot string, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}

	return &Builder{
		projectRoot: projectRoot,
		cache:       NewCacheManager(projectRoot),
		log:         log,
	}
}

// Build compiles the project's entry file to LLVM IR text, writing it
// next to the source with a `.ll` extension, and returns its path. The
// on-disk cache is consulted first; if the source hash is unchanged
// since the last build, Build skips straight to returning the cached
// output path.
func (b *Builder) Build() (string, error) {
	config, err := b.loadConfig()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Join(b.projectRoot, "build", "ir"), 0o755); err != nil {
		return "", err
	}

	sourcePath := filepath.Join(b.projectRoot, config.Package.Entry)
	irPath := strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + ".ll"

	needsRebuild, err := b.cache.NeedsRebuild(sourcePath)
	if err != nil {
		return "", err
	}

	if !needsRebuild {
		b.log.Debug("using cached IR", zap.String("path", irPath))
		return irPath, nil
	}

	lowered, err := b.compile(sourcePath, config.Package.TraceLowering)
	if err != nil {
		return "", err
	}

	gen := codegen.New()
	if err := gen.Generate(lowered); err != nil {
		return "", fmt.Errorf("codegen error in %s: %w", sourcePath, err)
	}

	if err := os.WriteFile(irPath, []byte(gen.EmitIR()), 0o644); err != nil {
		return "", err
	}

	sourceHash, err := b.cache.ComputeFileHash(sourcePath)
	if err != nil {
		return "", fmt.Errorf("failed to hash source: %w", err)
	}

	if err := b.cache.SaveCacheEntry(sourcePath, &CacheEntry{SourceHash: sourceHash}); err != nil {
		return "", err
	}

	b.log.Info("built", zap.String("source", sourcePath), zap.String("ir", irPath))

	return irPath, nil
}

// Lower runs the pipeline through the lowering pass and returns the
// flattened block, without generating code. Used by `yarc run`, which
// does not need LLVM.
func (b *Builder) Lower(sourcePath string, traceLowering bool) (*binder.BoundBlockStatement, error) {
	return b.compile(sourcePath, traceLowering)
}

func (b *Builder) compile(sourcePath string, traceLowering bool) (*binder.BoundBlockStatement, error) {
	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, err
	}

	l := lexer.New(string(source))
	p := parser.New(l)

	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, fmt.Errorf("parse errors in %s: %s", sourcePath, strings.Join(errs, "; "))
	}

	bound, err := binder.Bind(prog)
	if err != nil {
		return nil, fmt.Errorf("bind error in %s: %w", sourcePath, err)
	}

	if traceLowering {
		b.log.Debug("lowering", zap.String("source", sourcePath), zap.Int("top_level_statements", len(bound.Stmts)))
	}

	lowered := lower.Lower(bound)

	if traceLowering {
		labels := 0

		for _, s := range lowered.Stmts {
			if s.BoundKind() == binder.KindLabel {
				labels++
			}
		}

		b.log.Debug("lowered", zap.String("source", sourcePath), zap.Int("labels_allocated", labels))
	}

	return lowered, nil
}

func (b *Builder) loadConfig() (*Config, error) {
	configPath := filepath.Join(b.projectRoot, "yarc.toml")

	var config Config
	if _, err := toml.DecodeFile(configPath, &config); err != nil {
		return nil, fmt.Errorf("failed to load yarc.toml: %w", err)
	}

	return &config, nil
}
