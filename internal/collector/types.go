package collector

import "time"

// Sentinel values substituted when a fact cannot be read. Fields in an
// exported report are never empty or null, they carry one of these.
const (
	NotAvailable = "N/A"
	KeyNotFound  = "Not Found"
	KeyError     = "Error"
)

// EndpointReport holds the complete inventory of a Windows endpoint for
// one probe run.
type EndpointReport struct {
	RunID            string               `json:"run_id"`
	CollectedAt      time.Time            `json:"collected_at"`
	Host             HostIdentity         `json:"host"`
	OperatingSystem  OperatingSystemInfo  `json:"operating_system"`
	InstalledOffice  []OfficeInstallation `json:"installed_office"`
	LicensedProducts []LicensedProduct    `json:"licensed_products"`
	OEMProductKey    OEMProductKeyInfo    `json:"oem_product_key"`
}

// HostIdentity holds the hostname and BIOS serial number.
type HostIdentity struct {
	Hostname     string `json:"hostname"`
	SerialNumber string `json:"serial_number"`
}

// OperatingSystemInfo holds the OS descriptor fields.
type OperatingSystemInfo struct {
	Caption      string `json:"caption"`
	Version      string `json:"version"`
	Architecture string `json:"architecture"`
	BuildNumber  string `json:"build_number"`
}

// OfficeInstallation holds one installed Office product as recorded in
// the uninstall registry.
type OfficeInstallation struct {
	DisplayName    string `json:"display_name"`
	DisplayVersion string `json:"display_version"`
	Publisher      string `json:"publisher"`
	InstallDate    string `json:"install_date"`
}

// LicensedProduct holds one row from the software licensing service.
// The human-readable status description is derived from LicenseStatus at
// export time, it is not stored here.
type LicensedProduct struct {
	Name                          string `json:"name"`
	Description                   string `json:"description"`
	LicenseStatus                 int    `json:"license_status"`
	PartialProductKey             string `json:"partial_product_key"`
	LicenseFamily                 string `json:"license_family"`
	ProductKeyChannel             string `json:"product_key_channel"`
	IsKeyManagementServiceMachine bool   `json:"is_key_management_service_machine"`
}

// OEMProductKeyInfo holds the firmware-embedded product key lookup outcome.
// Result records which source satisfied the lookup, or why none did.
type OEMProductKeyInfo struct {
	Key         string `json:"key"`
	Description string `json:"description"`
	Result      string `json:"result"`
}

func newHostIdentity() HostIdentity {
	return HostIdentity{Hostname: NotAvailable, SerialNumber: NotAvailable}
}

func newOperatingSystemInfo() OperatingSystemInfo {
	return OperatingSystemInfo{
		Caption:      NotAvailable,
		Version:      NotAvailable,
		Architecture: NotAvailable,
		BuildNumber:  NotAvailable,
	}
}
