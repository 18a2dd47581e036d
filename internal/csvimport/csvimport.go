// Package csvimport is the command line import path: it pushes a CSV file
// straight through the normalizer and the store gateway without an
// interactive mapping session. The column mapping comes from the import
// section of the config file.
package csvimport

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ledgerline/ledgerline/internal/ledgerstore"
	"github.com/ledgerline/ledgerline/internal/normalize"
	"github.com/ledgerline/ledgerline/internal/tabular"
	"github.com/ledgerline/ledgerline/pkg/config"
	"github.com/ledgerline/ledgerline/pkg/postgresutils"
)

type ImportCSVRunner struct {
	csvFile string
	log     zerolog.Logger
}

func NewImportCSVRunner(csvFile string, log zerolog.Logger) *ImportCSVRunner {
	return &ImportCSVRunner{csvFile: csvFile, log: log}
}

func (i *ImportCSVRunner) Run() error {
	importConfig := config.CurrentImportConfig()
	if importConfig.UserID == "" {
		return fmt.Errorf("import.userId must be set in the config file")
	}

	mapping, err := buildMapping(importConfig.Columns)
	if err != nil {
		return err
	}

	accountID := uuid.Nil
	if importConfig.Account != "" {
		accountID, err = uuid.Parse(importConfig.Account)
		if err != nil {
			return fmt.Errorf("invalid import.account id %q: %w", importConfig.Account, err)
		}
	}

	csvFile, err := os.Open(i.csvFile)
	if err != nil {
		return fmt.Errorf("failed to open %s csv file: %w", i.csvFile, err)
	}
	defer csvFile.Close()

	table, err := tabular.ParseCSV(csvFile)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", i.csvFile, err)
	}

	now := time.Now()
	drafts := make([]normalize.Draft, 0, len(table.Rows))
	for _, row := range table.Rows {
		drafts = append(drafts, normalize.Normalize(row, mapping, accountID, now))
	}

	db, err := postgresutils.CreatePostgresClient(config.CurrentSQLConfig().Database)
	if err != nil {
		return fmt.Errorf("error connecting to postgres: %w", err)
	}
	defer db.Close()

	store := ledgerstore.New(db)

	ctx := context.Background()
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	inserted, err := store.BulkInsert(ctx, importConfig.UserID, drafts)
	if err != nil {
		return err
	}

	i.log.Info().
		Int("transactions", len(inserted)).
		Str("file", i.csvFile).
		Msg("Imported transactions from csv")

	return nil
}

func buildMapping(columns map[string]string) (normalize.Mapping, error) {
	mapping := normalize.Mapping{}

	for field, column := range columns {
		if err := mapping.Set(field, column); err != nil {
			return normalize.Mapping{}, err
		}
	}

	return mapping, nil
}
