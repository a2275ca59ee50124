package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"armsatlas/internal/atlas"
	"armsatlas/internal/model"
)

var publishOut string

type metaFile struct {
	GeneratedAt string `json:"generated_at"`
}

// The standard site views: one overall map per activity mode.
var publishViews = []atlas.View{
	{Name: "supplied", Query: model.Query{Activity: model.ActivitySupplied}},
	{Name: "received", Query: model.Query{Activity: model.ActivityReceived}},
	{Name: "net-balance", Query: model.Query{Activity: model.ActivityNet}},
	{Name: "total-activity", Query: model.Query{Activity: model.ActivityTotal}},
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Build the standard set of map descriptions into a directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := buildService(cmd.Context())
		if err != nil {
			return err
		}

		if err := os.MkdirAll(publishOut, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}

		views := make([]atlas.View, len(publishViews))
		for i, view := range publishViews {
			view.Query.Category = model.AllCategories
			view.Query.RegionTypes = model.RegionAll
			view.Query.Unit = flagUnit
			views[i] = view
		}

		specs, err := service.RenderViews(cmd.Context(), views)
		if err != nil {
			return err
		}

		now := time.Now().UTC().Format(time.RFC3339)
		if err := writeJSON(filepath.Join(publishOut, "meta.json"), metaFile{GeneratedAt: now}); err != nil {
			return fmt.Errorf("write meta.json: %w", err)
		}
		names := make([]string, 0, len(specs))
		for name, spec := range specs {
			if err := writeJSON(filepath.Join(publishOut, name+".json"), spec); err != nil {
				return fmt.Errorf("write %s.json: %w", name, err)
			}
			names = append(names, name)
		}

		fmt.Printf("publish complete (out=%s views=%s)\n", publishOut, strings.Join(names, ","))
		return nil
	},
}

func init() {
	publishCmd.Flags().StringVar(&publishOut, "out", "site/data", "output directory")
	publishCmd.Flags().StringVar(&flagUnit, "unit", defaultUnit, "quantity column to aggregate")
}
