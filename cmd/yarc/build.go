package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/yarlson/yarc/binder"
	"github.com/yarlson/yarc/build"
	"github.com/yarlson/yarc/eval"
	"github.com/yarlson/yarc/lexer"
	"github.com/yarlson/yarc/parser"
)

func handleBuild(args []string) {
	dir := projectDir(args)

	log := newLogger()
	defer func() { _ = log.Sync() }()

	builder := build.NewBuilder(dir, log)

	irPath, err := builder.Build()
	if err != nil {
		fmt.Printf("build error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("built: %s\n", irPath)
}

func handleRun(args []string) {
	dir := projectDir(args)

	log := newLogger()
	defer func() { _ = log.Sync() }()

	config, sourcePath, err := loadEntry(dir)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	builder := build.NewBuilder(dir, log)

	lowered, err := lowerRecovered(builder, sourcePath, config.Package.TraceLowering)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	values, err := eval.New().Run(lowered)
	if err != nil {
		fmt.Printf("runtime error: %v\n", err)
		os.Exit(1)
	}

	for name, value := range values {
		fmt.Printf("%s = %v\n", name, value)
	}
}

func handleCheck(args []string) {
	dir := projectDir(args)

	_, sourcePath, err := loadEntry(dir)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	source, err := os.ReadFile(sourcePath)
	if err != nil {
		fmt.Printf("error reading file: %v\n", err)
		os.Exit(1)
	}

	l := lexer.New(string(source))
	p := parser.New(l)

	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		fmt.Println("parser errors:")

		for _, e := range errs {
			fmt.Printf("  %s\n", e)
		}

		os.Exit(1)
	}

	if _, err := binder.Bind(prog); err != nil {
		fmt.Printf("type error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s type-checks successfully\n", sourcePath)
}

// lowerRecovered runs build.Builder.Lower, converting a panic from
// lower.Lower's internal precondition checks into an error instead of
// letting it crash the CLI process mid-run.
func lowerRecovered(builder *build.Builder, sourcePath string, traceLowering bool) (block *binder.BoundBlockStatement, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal lowering error: %v", r)
		}
	}()

	return builder.Lower(sourcePath, traceLowering)
}

func loadEntry(dir string) (*build.Config, string, error) {
	var config build.Config

	configPath := filepath.Join(dir, "yarc.toml")
	if _, err := toml.DecodeFile(configPath, &config); err != nil {
		return nil, "", fmt.Errorf("failed to load yarc.toml: %w", err)
	}

	return &config, filepath.Join(dir, config.Package.Entry), nil
}
