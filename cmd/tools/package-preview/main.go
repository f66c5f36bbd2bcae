// cmd/tools/package-preview/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"event-package-workers/internal/catalog"
	"event-package-workers/internal/common/config"
	"event-package-workers/internal/models"
	"event-package-workers/internal/recommend"

	"github.com/google/uuid"
)

type preview struct {
	RequestID string                    `json:"requestId"`
	Profile   recommend.CategoryProfile `json:"profile"`
	Packages  []models.PackageProposal  `json:"packages"`
	Outcomes  []recommend.TierOutcome   `json:"outcomes,omitempty"`
}

func main() {
	if len(os.Args) < 2 {
		help(os.Stderr)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "run":
		err = runPreview(os.Args[2:], os.Stdout)
	case "profiles":
		err = listProfiles(os.Args[2:], os.Stdout)
	default:
		help(os.Stderr)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func help(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  package-preview run -catalog products.json -event birthday -min 1000 -max 5000 -guests 30 [-config path] [-explain]")
	fmt.Fprintln(w, "  package-preview profiles [-config path]")
}

// profileTable reads extra profiles from a config file when one is given.
func profileTable(configPath string) (*recommend.ProfileTable, error) {
	if configPath == "" {
		return recommend.DefaultProfileTable(), nil
	}
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return nil, err
	}
	return cfg.Recommendation.ProfileTable()
}

func runPreview(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	catalogPath := fs.String("catalog", "", "Path to a JSON array of products")
	eventType := fs.String("event", "", "Event type (e.g., birthday)")
	budgetMin := fs.Float64("min", 0, "Minimum budget")
	budgetMax := fs.Float64("max", 0, "Maximum budget")
	guests := fs.Int("guests", 0, "Guest count")
	configPath := fs.String("config", "", "Optional config file with extra profiles")
	explain := fs.Bool("explain", false, "Include per-tier outcomes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *catalogPath == "" {
		return fmt.Errorf("-catalog is required")
	}

	products, err := readCatalog(*catalogPath)
	if err != nil {
		return err
	}
	profiles, err := profileTable(*configPath)
	if err != nil {
		return err
	}

	engine := recommend.NewEngine(profiles)
	evt := recommend.EventContext{
		EventType:  *eventType,
		BudgetMin:  *budgetMin,
		BudgetMax:  *budgetMax,
		GuestCount: *guests,
	}

	profile := engine.Profiles().Resolve(evt.EventType)
	snapshot, err := catalog.NewStaticProvider(products).Snapshot(context.Background(), profile.Categories)
	if err != nil {
		return err
	}

	result, err := engine.Recommend(evt, snapshot)
	if err != nil {
		return err
	}

	p := preview{
		RequestID: uuid.NewString(),
		Profile:   result.Profile,
		Packages:  models.NewPackageProposals(result),
	}
	if *explain {
		p.Outcomes = result.Outcomes
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

func listProfiles(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("profiles", flag.ContinueOnError)
	configPath := fs.String("config", "", "Optional config file with extra profiles")
	if err := fs.Parse(args); err != nil {
		return err
	}

	profiles, err := profileTable(*configPath)
	if err != nil {
		return err
	}

	for _, name := range profiles.Names() {
		p := profiles.Resolve(name)
		fmt.Fprintf(out, "%-12s", name)
		for _, c := range p.Categories {
			fmt.Fprintf(out, " %s=%.2f", c, p.Weights[c])
		}
		fmt.Fprintln(out)
	}
	return nil
}

func readCatalog(path string) ([]recommend.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var products []recommend.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return products, nil
}
