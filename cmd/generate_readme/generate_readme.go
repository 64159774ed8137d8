package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/keshon/ftt/internal/command"
	_ "github.com/keshon/ftt/internal/command/diff"
	_ "github.com/keshon/ftt/internal/command/init"
	_ "github.com/keshon/ftt/internal/command/log"
	_ "github.com/keshon/ftt/internal/command/rewind"
	_ "github.com/keshon/ftt/internal/command/save"
	_ "github.com/keshon/ftt/internal/command/status"
	_ "github.com/keshon/ftt/internal/command/tag"
	_ "github.com/keshon/ftt/internal/command/verify"
)

func main() {
	tplBytes, err := os.ReadFile("README.md.tmpl")
	if err != nil {
		fmt.Printf("Failed to read template: %v\n", err)
		os.Exit(1)
	}

	outFile, err := os.Create("README.md")
	if err != nil {
		fmt.Printf("Failed to create README.md: %v\n", err)
		os.Exit(1)
	}
	defer outFile.Close()

	if err := render(outFile, string(tplBytes), command.AllCommands()); err != nil {
		fmt.Printf("Failed to render template: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("README.md generated successfully")
}

// render fills the template's CommandSections with one block per command.
func render(w io.Writer, tplText string, commands []command.Command) error {
	tpl, err := template.New("readme").Parse(tplText)
	if err != nil {
		return err
	}

	var sections strings.Builder
	for _, cmd := range commands {
		fmt.Fprintf(&sections, "### %s\n%s\n```\nftt %s\n\n%s\n```\n\n",
			cmd.Name(),
			cmd.Brief(),
			cmd.Usage(),
			cmd.Help(),
		)
	}

	return tpl.Execute(w, map[string]string{
		"CommandSections": sections.String(),
	})
}
