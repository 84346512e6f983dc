// Command configcheck reports which Firebase client settings are present.
// It exits 1 when any is missing.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"github.com/saaspy/saaspy/internal/config"
)

func main() {
	envFile := flag.String("env-file", ".env", "dotenv file to read before the environment")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Parse()

	if err := config.LoadDotEnv(*envFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fb, err := config.LoadFirebase()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if !report(os.Stdout, fb, !*noColor) {
		os.Exit(1)
	}
}

// report prints one row per variable and a summary line. It returns true
// when every variable is set.
func report(w io.Writer, fb config.Firebase, colors bool) bool {
	color.Enable = colors

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Variable", "Status"})
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for _, v := range fb.Variables() {
		status := color.Green.Render(v.Status())
		if !v.Set() {
			status = color.Red.Render(v.Status())
		}
		table.Append([]string{v.Name, status})
	}
	table.Render()

	project := fb.ProjectID
	if project == "" {
		project = "(unset)"
	}
	fmt.Fprintf(w, "project: %s\n", project)

	if !fb.Complete() {
		fmt.Fprintln(w, color.Yellow.Sprintf("%d of %d variables missing", len(fb.Missing()), len(fb.Variables())))
		return false
	}
	fmt.Fprintln(w, color.Green.Sprint("configuration complete"))
	return true
}
