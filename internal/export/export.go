package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/JiriSlof/CollectEndpointData/internal/collector"
)

// Artifact file names written under <destinationRoot>/<hostname>/.
const (
	HostInfoFile         = "HostInfo.csv"
	OperatingSystemFile  = "OperatingSystem.csv"
	LicensedProductsFile = "LicensedProducts.csv"
	InstalledOfficeFile  = "InstalledOffice.csv"
	OEMProductKeyFile    = "OEMProductKey.csv"
)

var (
	hostInfoHeader        = []string{"Hostname", "SerialNumber"}
	operatingSystemHeader = []string{"Hostname", "SerialNumber", "OperatingSystem", "OSVersion", "OSArchitecture", "OSBuildNumber"}
	licensedHeader        = []string{"Hostname", "SerialNumber", "Name", "Description", "LicenseStatus", "LicenseStatusDescription", "PartialProductKey", "LicenseFamily", "ProductKeyChannel", "IsKeyManagementServiceMachine"}
	officeHeader          = []string{"Hostname", "SerialNumber", "DisplayName", "DisplayVersion", "Publisher", "InstallDate"}
	oemKeyHeader          = []string{"Hostname", "SerialNumber", "OA3xOriginalProductKey", "OA3xOriginalProductKeyDescription", "OA3xOriginalProductKeyResult"}
)

// Exporter writes the report artifacts for one host.
type Exporter struct {
	log zerolog.Logger
}

// New returns an Exporter logging through log.
func New(log zerolog.Logger) *Exporter {
	return &Exporter{log: log}
}

// Export writes all report artifacts under destRoot/<hostname>. Failure to
// create that directory is fatal; any single artifact failing to write is
// logged and skipped so the remaining artifacts still get written. List
// artifacts with no rows are skipped with a warning instead of producing
// empty files.
func (e *Exporter) Export(report *collector.EndpointReport, destRoot string) error {
	hostDir := filepath.Join(destRoot, report.Host.Hostname)
	if err := os.MkdirAll(hostDir, 0o755); err != nil {
		e.log.Error().Err(err).Str("dir", hostDir).Msg("cannot create host output directory")
		return fmt.Errorf("create host directory %s: %w", hostDir, err)
	}

	prefix := []string{report.Host.Hostname, report.Host.SerialNumber}

	e.writeTable(hostDir, HostInfoFile, hostInfoHeader, [][]string{prefix})

	e.writeTable(hostDir, OperatingSystemFile, operatingSystemHeader, [][]string{
		append(append([]string{}, prefix...),
			report.OperatingSystem.Caption,
			report.OperatingSystem.Version,
			report.OperatingSystem.Architecture,
			report.OperatingSystem.BuildNumber),
	})

	var licensedRows [][]string
	for _, p := range report.LicensedProducts {
		licensedRows = append(licensedRows, append(append([]string{}, prefix...),
			p.Name,
			p.Description,
			strconv.Itoa(p.LicenseStatus),
			collector.LicenseStatusDescription(p.LicenseStatus),
			p.PartialProductKey,
			p.LicenseFamily,
			p.ProductKeyChannel,
			strconv.FormatBool(p.IsKeyManagementServiceMachine)))
	}
	e.writeTable(hostDir, LicensedProductsFile, licensedHeader, licensedRows)

	var officeRows [][]string
	for _, o := range report.InstalledOffice {
		officeRows = append(officeRows, append(append([]string{}, prefix...),
			o.DisplayName, o.DisplayVersion, o.Publisher, o.InstallDate))
	}
	e.writeTable(hostDir, InstalledOfficeFile, officeHeader, officeRows)

	e.writeTable(hostDir, OEMProductKeyFile, oemKeyHeader, [][]string{
		append(append([]string{}, prefix...),
			report.OEMProductKey.Key,
			report.OEMProductKey.Description,
			report.OEMProductKey.Result),
	})

	e.writeDocument(hostDir, report)

	return nil
}

// writeTable writes one CSV artifact. No rows means the file is skipped.
func (e *Exporter) writeTable(hostDir, name string, header []string, rows [][]string) {
	if len(rows) == 0 {
		e.log.Warn().Str("artifact", name).Msg("no rows collected, skipping artifact")
		return
	}

	path := filepath.Join(hostDir, name)
	f, err := os.Create(path)
	if err != nil {
		e.log.Warn().Err(err).Str("artifact", name).Msg("cannot create artifact, skipping")
		return
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		e.log.Warn().Err(err).Str("artifact", name).Msg("cannot write artifact header")
		return
	}
	if err := w.WriteAll(rows); err != nil {
		e.log.Warn().Err(err).Str("artifact", name).Msg("cannot write artifact rows")
		return
	}

	e.log.Info().Str("artifact", name).Int("rows", len(rows)).Msg("artifact written")
}

// DocumentName returns the consolidated JSON artifact name for a host.
func DocumentName(hostname string) string {
	return "EndpointData_" + hostname + ".json"
}

// licensedProductDocument augments a licensed product with the derived
// status description for the consolidated document.
type licensedProductDocument struct {
	collector.LicensedProduct
	LicenseStatusDescription string `json:"license_status_description"`
}

type reportDocument struct {
	RunID            string                         `json:"run_id"`
	CollectedAt      string                         `json:"collected_at"`
	Host             collector.HostIdentity         `json:"host"`
	OperatingSystem  collector.OperatingSystemInfo  `json:"operating_system"`
	InstalledOffice  []collector.OfficeInstallation `json:"installed_office"`
	LicensedProducts []licensedProductDocument      `json:"licensed_products"`
	OEMProductKey    collector.OEMProductKeyInfo    `json:"oem_product_key"`
}

// writeDocument writes the consolidated hierarchical artifact. Empty lists
// serialize as [], never null.
func (e *Exporter) writeDocument(hostDir string, report *collector.EndpointReport) {
	doc := reportDocument{
		RunID:            report.RunID,
		CollectedAt:      report.CollectedAt.Format(time.RFC3339),
		Host:             report.Host,
		OperatingSystem:  report.OperatingSystem,
		InstalledOffice:  report.InstalledOffice,
		LicensedProducts: make([]licensedProductDocument, 0, len(report.LicensedProducts)),
		OEMProductKey:    report.OEMProductKey,
	}
	if doc.InstalledOffice == nil {
		doc.InstalledOffice = []collector.OfficeInstallation{}
	}
	for _, p := range report.LicensedProducts {
		doc.LicensedProducts = append(doc.LicensedProducts, licensedProductDocument{
			LicensedProduct:          p,
			LicenseStatusDescription: collector.LicenseStatusDescription(p.LicenseStatus),
		})
	}

	name := DocumentName(report.Host.Hostname)
	path := filepath.Join(hostDir, name)
	f, err := os.Create(path)
	if err != nil {
		e.log.Warn().Err(err).Str("artifact", name).Msg("cannot create artifact, skipping")
		return
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		e.log.Warn().Err(err).Str("artifact", name).Msg("cannot encode endpoint document")
		return
	}

	e.log.Info().Str("artifact", name).Msg("artifact written")
}
