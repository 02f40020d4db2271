// Command drive-etl extracts and transforms the files of a Google Drive folder.
package main

import (
	"os"

	"github.com/custodia-labs/drive-etl/internal/adapters/driven/config/file"
	"github.com/custodia-labs/drive-etl/internal/adapters/driven/sink/directory"
	"github.com/custodia-labs/drive-etl/internal/adapters/driving/cli"
	"github.com/custodia-labs/drive-etl/internal/connectors/google"
	"github.com/custodia-labs/drive-etl/internal/connectors/google/drive"
	"github.com/custodia-labs/drive-etl/internal/core/ports/driven"
	"github.com/custodia-labs/drive-etl/internal/core/ports/driving"
	"github.com/custodia-labs/drive-etl/internal/core/services"
	"github.com/custodia-labs/drive-etl/internal/logger"
)

func main() {
	cli.SetServices(&cli.Services{
		OpenConfigStore: openConfigStore,
		NewExtractor:    newExtractor,
		ExportDefaults:  drive.DefaultExportMimeMap,
	})

	if err := cli.Execute(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func openConfigStore(dir string) (driven.ConfigStore, error) {
	return file.NewConfigStore(dir)
}

func newExtractor(store driven.ConfigStore, keyFile string) driving.Extractor {
	return services.NewExtractor(
		google.NewCredentialResolver(keyFile),
		drive.NewSourceFactory(drive.ParseConfig(store)),
		directory.Factory{},
	)
}
