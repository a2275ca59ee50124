package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"armsatlas/internal/geo"
	"armsatlas/internal/register"
	"armsatlas/internal/store"
	"armsatlas/internal/store/sqlite"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich the trade register and optionally persist it",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadEnrichedRegister()
		if err != nil {
			return err
		}

		st, err := openStore(cfg.DB)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.UpsertRecords(cmd.Context(), reg.Records); err != nil {
			return fmt.Errorf("persist register: %w", err)
		}

		fmt.Printf("enrich complete (records=%d units=%d categories=%d unresolved=%d)\n",
			len(reg.Records), len(reg.Units()), len(reg.Categories()), len(reg.Unresolved()),
		)
		for _, name := range reg.Unresolved() {
			fmt.Printf("no map code: %s\n", name)
		}
		return nil
	},
}

// loadEnrichedRegister runs the full ingestion path: CSV register, world
// directory, classification and code assignment.
func loadEnrichedRegister() (*register.Register, error) {
	world, err := geo.Load(cfg.World.GeoJSON)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(cfg.Register.CSV)
	if err != nil {
		return nil, fmt.Errorf("open register: %w", err)
	}
	defer file.Close()

	records, err := register.Load(file, cfg.LoadOptions())
	if err != nil {
		return nil, err
	}

	enricher := register.NewEnricher(geo.NewResolver(world), cfg.Tables(), logger)
	return enricher.Enrich(records), nil
}

func openStore(path string) (store.Store, error) {
	if path == "" {
		return &store.NopStore{}, nil
	}
	return sqlite.New(path)
}
