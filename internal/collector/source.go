package collector

// SystemFactSource reads raw inventory facts from the local host. There is
// one method per fact family so tests can substitute deterministic fixtures
// for the WMI and registry queries the real source performs.
//
// OEMProductKey is the primary product-key source (the software licensing
// service); BackupProductKey is the secondary source consulted when the
// primary yields nothing. An empty string with a nil error means the source
// answered but holds no key.
type SystemFactSource interface {
	Hostname() (string, error)
	SerialNumber() (string, error)
	OperatingSystem() (OperatingSystemInfo, error)
	OfficeInstallations() ([]OfficeInstallation, error)
	LicensedProducts() ([]LicensedProduct, error)
	OEMProductKey() (key, description string, err error)
	BackupProductKey() (string, error)
}

// NewSystemSource returns the fact source for the running platform: WMI and
// registry backed on Windows, a degraded hostname+SMBIOS source elsewhere.
func NewSystemSource() SystemFactSource {
	return newPlatformSource()
}
