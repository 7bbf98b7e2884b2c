package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JiriSlof/CollectEndpointData/internal/collector"
	"github.com/JiriSlof/CollectEndpointData/internal/config"
	"github.com/JiriSlof/CollectEndpointData/internal/export"
	"github.com/JiriSlof/CollectEndpointData/internal/logging"
)

var (
	version    = "dev"
	commitHash = "unknown"
	buildDate  = "unknown"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "collect-endpoint-data",
	Short: "Collect endpoint inventory and write per-host report files",
	Long: `collect-endpoint-data probes the local endpoint for identity, licensing,
and installed-software facts and writes them as report files.

The probe reads, in order: hostname, BIOS serial number, operating system
descriptor, installed Office products, licensed products, and the OEM
(OA3x) product key. A fact that cannot be read degrades to its sentinel
value and the run continues.

Under <output>/<hostname>/ it writes:

  HostInfo.csv                 hostname and serial number
  OperatingSystem.csv          OS caption, version, architecture, build
  LicensedProducts.csv         licensed products with status description
  InstalledOffice.csv          installed Office products
  OEMProductKey.csv            OA3x key, description, and lookup outcome
  EndpointData_<hostname>.json the consolidated report document

List artifacts with no rows are skipped instead of written empty.`,
	RunE:         runCollect,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("collect-endpoint-data %s (commit: %s, built: %s)\n", version, commitHash, buildDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./collect-endpoint-data.yaml)")
	rootCmd.Flags().StringP("output", "o", "", "destination root for report files (default: platform report directory)")

	rootCmd.AddCommand(versionCmd)

	// Register cobra's default --help flag up front so Find's flag
	// stripping knows it takes no value; otherwise "--help --output X"
	// consumes --output and X is misread as a subcommand.
	rootCmd.InitDefaultHelpFlag()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// CLI flag overrides.
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		cfg.OutputDir = v
	}

	log := logging.New(cfg.LogLevel, cfg.LogJSON)

	report, warnings := collector.Collect(collector.NewSystemSource())
	for _, w := range warnings {
		log.Warn().Str("fact", w.Fact).Err(w.Err).Msg("fact could not be read, sentinel substituted")
	}

	if err := export.New(log).Export(report, cfg.OutputDir); err != nil {
		return err
	}

	log.Info().
		Str("hostname", report.Host.Hostname).
		Str("run_id", report.RunID).
		Int("licensed_products", len(report.LicensedProducts)).
		Int("office_installs", len(report.InstalledOffice)).
		Int("warnings", len(warnings)).
		Str("output", cfg.OutputDir).
		Msg("endpoint report exported")

	return nil
}
