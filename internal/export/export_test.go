package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JiriSlof/CollectEndpointData/internal/collector"
)

func sampleReport() *collector.EndpointReport {
	return &collector.EndpointReport{
		RunID:       "11111111-2222-3333-4444-555555555555",
		CollectedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Host:        collector.HostIdentity{Hostname: "WKS01", SerialNumber: "SN123"},
		OperatingSystem: collector.OperatingSystemInfo{
			Caption:      "Windows 11 Pro",
			Version:      "10.0.26100",
			Architecture: "64-bit",
			BuildNumber:  "26100",
		},
		InstalledOffice: []collector.OfficeInstallation{},
		LicensedProducts: []collector.LicensedProduct{
			{
				Name:              "Windows 11 Pro",
				Description:       "Windows Operating System",
				LicenseStatus:     1,
				PartialProductKey: "3V66T",
				LicenseFamily:     "Professional",
				ProductKeyChannel: "OEM:DM",
			},
		},
		OEMProductKey: collector.OEMProductKeyInfo{
			Key:         "ABCDE-FGHIJ-KLMNO-PQRST-UVWXY",
			Description: collector.NotAvailable,
			Result:      "OA3xOriginalProductKey retrieved successfully from registry (BackupProductKeyDefault)",
		},
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err, "reading %s", path)
	return string(data)
}

func TestExportEndToEnd(t *testing.T) {
	root := t.TempDir()
	e := New(zerolog.Nop())

	require.NoError(t, e.Export(sampleReport(), root))

	hostDir := filepath.Join(root, "WKS01")

	hostInfo := readFile(t, filepath.Join(hostDir, HostInfoFile))
	assert.Equal(t, "Hostname,SerialNumber\nWKS01,SN123\n", hostInfo)

	osInfo := readFile(t, filepath.Join(hostDir, OperatingSystemFile))
	assert.Contains(t, osInfo, "Windows 11 Pro")
	assert.Contains(t, osInfo, "26100")

	licensed := readFile(t, filepath.Join(hostDir, LicensedProductsFile))
	assert.Contains(t, licensed, "LicenseStatusDescription")
	assert.Contains(t, licensed, "Licensed")
	assert.Contains(t, licensed, "WKS01,SN123,Windows 11 Pro")

	// Zero Office installs: the artifact must not exist.
	_, err := os.Stat(filepath.Join(hostDir, InstalledOfficeFile))
	assert.True(t, os.IsNotExist(err), "InstalledOffice.csv should be skipped")

	oem := readFile(t, filepath.Join(hostDir, OEMProductKeyFile))
	assert.Contains(t, oem, "BackupProductKeyDefault")
	assert.Contains(t, oem, "ABCDE-FGHIJ-KLMNO-PQRST-UVWXY")

	// The consolidated document still carries an empty Office list.
	var doc map[string]any
	raw := readFile(t, filepath.Join(hostDir, DocumentName("WKS01")))
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	office, ok := doc["installed_office"].([]any)
	require.True(t, ok, "installed_office must be a JSON array, got %T", doc["installed_office"])
	assert.Empty(t, office)

	products, ok := doc["licensed_products"].([]any)
	require.True(t, ok)
	require.Len(t, products, 1)
	first := products[0].(map[string]any)
	assert.Equal(t, "Licensed", first["license_status_description"])
}

func TestExportIdempotent(t *testing.T) {
	root := t.TempDir()
	e := New(zerolog.Nop())
	report := sampleReport()

	require.NoError(t, e.Export(report, root))

	hostDir := filepath.Join(root, "WKS01")
	artifacts := []string{
		HostInfoFile, OperatingSystemFile, LicensedProductsFile,
		OEMProductKeyFile, DocumentName("WKS01"),
	}

	first := make(map[string]string, len(artifacts))
	for _, name := range artifacts {
		first[name] = readFile(t, filepath.Join(hostDir, name))
	}

	require.NoError(t, e.Export(report, root))

	for _, name := range artifacts {
		assert.Equal(t, first[name], readFile(t, filepath.Join(hostDir, name)), "artifact %s changed between identical runs", name)
	}
}

func TestExportSkipsEmptyLicensedProducts(t *testing.T) {
	root := t.TempDir()
	e := New(zerolog.Nop())
	report := sampleReport()
	report.LicensedProducts = []collector.LicensedProduct{}

	require.NoError(t, e.Export(report, root))

	hostDir := filepath.Join(root, "WKS01")
	_, err := os.Stat(filepath.Join(hostDir, LicensedProductsFile))
	assert.True(t, os.IsNotExist(err))

	var doc map[string]any
	raw := readFile(t, filepath.Join(hostDir, DocumentName("WKS01")))
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	products, ok := doc["licensed_products"].([]any)
	require.True(t, ok, "licensed_products must stay a JSON array")
	assert.Empty(t, products)
}

func TestExportArtifactFailureDoesNotStopOthers(t *testing.T) {
	root := t.TempDir()
	hostDir := filepath.Join(root, "WKS01")

	// A directory squatting on the HostInfo artifact makes its os.Create
	// fail; the remaining artifacts must still be written.
	require.NoError(t, os.MkdirAll(filepath.Join(hostDir, HostInfoFile), 0o755))

	e := New(zerolog.Nop())
	require.NoError(t, e.Export(sampleReport(), root))

	remaining := []string{
		OperatingSystemFile, LicensedProductsFile,
		OEMProductKeyFile, DocumentName("WKS01"),
	}
	for _, name := range remaining {
		info, err := os.Stat(filepath.Join(hostDir, name))
		require.NoError(t, err, "artifact %s should still be written", name)
		assert.False(t, info.IsDir())
	}
}

func TestExportDirectoryCreationFailureIsFatal(t *testing.T) {
	// A regular file in place of the destination root makes MkdirAll fail.
	root := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(root, []byte("x"), 0o644))

	e := New(zerolog.Nop())
	err := e.Export(sampleReport(), root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create host directory")
}

func TestExportHostDirectoryMatchesHostname(t *testing.T) {
	root := t.TempDir()
	e := New(zerolog.Nop())
	report := sampleReport()
	report.Host.Hostname = "SRV-APP-07"

	require.NoError(t, e.Export(report, root))

	info, err := os.Stat(filepath.Join(root, "SRV-APP-07"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
