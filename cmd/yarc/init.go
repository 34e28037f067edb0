package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func initCommand(args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	defaultName := filepath.Base(cwd)

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("Creating new yarc project...")

	fmt.Printf("  Package name (%s): ", defaultName)

	name, _ := reader.ReadString('\n')

	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultName
	}

	fmt.Print("  Entry point (main.yarc): ")

	entry, _ := reader.ReadString('\n')

	entry = strings.TrimSpace(entry)
	if entry == "" {
		entry = "main.yarc"
	}

	config := fmt.Sprintf(`[package]
name = "%s"
entry = "%s"
`, name, entry)

	if err := os.WriteFile("yarc.toml", []byte(config), 0o644); err != nil {
		return fmt.Errorf("failed to create yarc.toml: %w", err)
	}

	fmt.Println("Created yarc.toml")

	if _, err := os.Stat(entry); os.IsNotExist(err) {
		mainContent := `var x = 0
while x < 10 {
  x = x + 1
}
`
		if err := os.WriteFile(entry, []byte(mainContent), 0o644); err != nil {
			return fmt.Errorf("failed to create %s: %w", entry, err)
		}

		fmt.Printf("Created %s\n", entry)
	}

	gitignore := `build/
`
	if _, err := os.Stat(".gitignore"); os.IsNotExist(err) {
		if err := os.WriteFile(".gitignore", []byte(gitignore), 0o644); err != nil {
			return fmt.Errorf("failed to create .gitignore: %w", err)
		}

		fmt.Println("Created .gitignore")
	}

	return nil
}
