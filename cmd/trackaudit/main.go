// Command trackaudit lists the analytics listeners each built site page would register.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"pe-collective-backend/internal/logger"
	"pe-collective-backend/internal/tracker"

	"golang.org/x/net/html"
)

func main() {
	root := flag.String("root", ".", "Site root; page paths are reported relative to it")
	verbose := flag.Bool("v", false, "List every bound element instead of per-event counts")
	flag.Parse()

	logger.Initialize("warn", "text")

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: trackaudit [-root dir] [-v] page.html...")
		os.Exit(2)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	noop := tracker.SinkFunc(func(string, map[string]string) {})
	for _, file := range flag.Args() {
		doc, err := parseFile(file)
		if err != nil {
			log.Fatalf("Failed to parse %s: %v", file, err)
		}
		pagePath := pagePathFor(*root, file)
		bindings := tracker.Init(doc, pagePath, noop).Bindings()

		if *verbose {
			for _, b := range bindings {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", pagePath, b.Event, b.On, b.Describe())
			}
			continue
		}

		counts := make(map[string]int)
		for _, b := range bindings {
			counts[b.Event]++
		}
		for _, name := range tracker.EventNames() {
			fmt.Fprintf(w, "%s\t%s\t%d\n", pagePath, name, counts[name])
		}
	}
}

func parseFile(path string) (*html.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return html.Parse(f)
}

// pagePathFor maps site/jobs/index.html to /jobs/ the way the browser reports location.pathname
func pagePathFor(root, file string) string {
	rel, err := filepath.Rel(root, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(file)
	}
	p := "/" + filepath.ToSlash(rel)
	if strings.HasSuffix(p, "/index.html") {
		return strings.TrimSuffix(p, "index.html")
	}
	return p
}
