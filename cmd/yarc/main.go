package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	switch command {
	case "build":
		handleBuild(os.Args[2:])
	case "run":
		handleRun(os.Args[2:])
	case "check":
		handleCheck(os.Args[2:])
	case "init":
		if err := initCommand(os.Args[2:]); err != nil {
			fmt.Printf("init error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Printf("unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("yarc v0.1.0")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  yarc build [project-dir]    Lower and emit LLVM IR for the project's entry file")
	fmt.Println("  yarc run [project-dir]      Lower and interpret the project's entry file")
	fmt.Println("  yarc check [project-dir]    Parse and bind the entry file without lowering")
	fmt.Println("  yarc init                   Scaffold a new project in the current directory")
}

func newLogger() *zap.Logger {
	log, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}

	return log
}

func projectDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}

	return "."
}
