package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"armsatlas/internal/atlas"
	"armsatlas/internal/geo"
	"armsatlas/internal/model"
	"armsatlas/internal/register"
	"armsatlas/internal/store/sqlite"
)

var (
	flagActivity   string
	flagYear       int
	flagCategory   string
	flagRegionType string
	flagUnit       string
	flagFocus      string
	flagFromDB     bool
	flagOut        string
)

const defaultUnit = "SIPRI TIV for total order"

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one map description to JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := buildService(cmd.Context())
		if err != nil {
			return err
		}

		query, err := buildQuery()
		if err != nil {
			return err
		}

		spec, err := service.Render(cmd.Context(), query)
		if err != nil {
			return err
		}
		if err := writeJSON(flagOut, spec); err != nil {
			return fmt.Errorf("write %s: %w", flagOut, err)
		}
		fmt.Printf("render complete (out=%s title=%q)\n", flagOut, spec.Title)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&flagActivity, "activity", "supplied", "activity mode: supplied|received|net|total")
	renderCmd.Flags().IntVar(&flagYear, "year", 0, "order year filter (0 = all years)")
	renderCmd.Flags().StringVar(&flagCategory, "category", model.AllCategories, "armament category filter")
	renderCmd.Flags().StringVar(&flagRegionType, "region-type", string(model.RegionAll), "region type filter")
	renderCmd.Flags().StringVar(&flagUnit, "unit", defaultUnit, "quantity column to aggregate")
	renderCmd.Flags().StringVar(&flagFocus, "focus", "", "focus region (empty = global view)")
	renderCmd.Flags().BoolVar(&flagFromDB, "from-db", false, "load the enriched register from the sqlite store")
	renderCmd.Flags().StringVar(&flagOut, "out", "map.json", "output file")
}

func buildService(ctx context.Context) (*atlas.Service, error) {
	world, err := geo.Load(cfg.World.GeoJSON)
	if err != nil {
		return nil, err
	}

	var reg *register.Register
	if flagFromDB {
		st, err := sqlite.New(cfg.DB)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		records, err := st.ListRecords(ctx)
		if err != nil {
			return nil, fmt.Errorf("load register from store: %w", err)
		}
		if len(records) == 0 {
			return nil, fmt.Errorf("store %s holds no records (run enrich first)", cfg.DB)
		}
		reg = register.NewRegister(records)
	} else {
		reg, err = loadEnrichedRegister()
		if err != nil {
			return nil, err
		}
	}
	return atlas.New(reg, world, logger), nil
}

func buildQuery() (model.Query, error) {
	activity, err := parseActivity(flagActivity)
	if err != nil {
		return model.Query{}, err
	}
	return model.Query{
		Activity:    activity,
		Year:        flagYear,
		Category:    flagCategory,
		RegionTypes: model.RegionType(flagRegionType),
		Unit:        flagUnit,
		Focus:       flagFocus,
	}, nil
}

func parseActivity(value string) (model.ActivityMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "supplied":
		return model.ActivitySupplied, nil
	case "received":
		return model.ActivityReceived, nil
	case "net", "net balance":
		return model.ActivityNet, nil
	case "total", "total activity":
		return model.ActivityTotal, nil
	default:
		return "", fmt.Errorf("unknown activity: %s", value)
	}
}

func writeJSON(path string, value any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
