package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/jackBcastro/powerapps-layout-api/pkg/layout"
	"github.com/jackBcastro/powerapps-layout-api/pkg/orchestrator"
	"github.com/jackBcastro/powerapps-layout-api/pkg/prompt"
	"github.com/jackBcastro/powerapps-layout-api/pkg/ruleset"
)

func main() {
	purpose := flag.String("purpose", "", "app purpose")
	features := flag.String("features", "", "comma-separated feature keywords")
	format := flag.String("format", "text", "output format: json, text or html")
	title := flag.String("title", "", "page title for html output")
	rules := flag.String("rules", "", "rule file or directory (JSON/YAML)")
	interactive := flag.Bool("interactive", false, "prompt for purpose and features")
	listRules := flag.Bool("list-rules", false, "print the rule table and exit")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	ctx := context.Background()

	planner, keywords, err := loadPlanner(*rules)
	if err != nil {
		log.Fatalf("Failed to load rules: %v", err)
	}
	if *listRules {
		printRules(os.Stdout, planner)
		return
	}

	req := layout.Request{Purpose: *purpose, Features: prompt.SplitList(*features)}
	if *interactive {
		req, err = prompt.LayoutRequest(ctx, prompt.NewSurveyDriver(os.Stdout), keywords)
		if err != nil {
			log.Fatalf("Prompt failed: %v", err)
		}
	}
	if req.Features == nil {
		req.Features = []string{}
	}

	gen := orchestrator.New(orchestrator.WithPlanner(planner))
	out, err := gen.Generate(ctx, orchestrator.Request{
		Layout:   req,
		Renderer: *format,
		Title:    *title,
	})
	if err != nil {
		log.Fatalf("Failed to generate layout: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, out, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Layout written to %s\n", *output)
		return
	}
	fmt.Print(string(out))
	if len(out) > 0 && out[len(out)-1] != '\n' {
		fmt.Println()
	}
}

// loadPlanner returns the built-in planner when path is empty, otherwise the
// planner compiled from the rule files, along with the keywords to offer in
// interactive mode.
func loadPlanner(path string) (*layout.Planner, []string, error) {
	if strings.TrimSpace(path) == "" {
		return layout.New(), layout.DefaultKeywords(), nil
	}
	set, err := ruleset.LoadPath(path)
	if err != nil {
		return nil, nil, err
	}
	if set.Empty() {
		return layout.New(), layout.DefaultKeywords(), nil
	}
	return set.Planner(), keywordsOf(set.Configs()), nil
}

func keywordsOf(configs []ruleset.RuleConfig) []string {
	seen := map[string]bool{}
	var out []string
	for _, cfg := range configs {
		for _, feature := range cfg.Features {
			key := strings.ToLower(feature)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, key)
		}
	}
	return out
}

func printRules(w io.Writer, planner *layout.Planner) {
	for i, rule := range planner.Rules() {
		fmt.Fprintf(w, "%d. %s -> %s: %s\n", i+1, rule.Name, rule.Entry.Screen, strings.Join(rule.Entry.Components, ", "))
	}
	fallback := planner.Fallback()
	fmt.Fprintf(w, "fallback -> %s: %s\n", fallback.Screen, strings.Join(fallback.Components, ", "))
}
