//go:build windows

package collector

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/yusufpapurcu/wmi"
	"golang.org/x/sys/windows/registry"
)

// systemSource reads facts from WMI and the registry on the local host.
type systemSource struct{}

func newPlatformSource() SystemFactSource { return systemSource{} }

type win32BIOS struct {
	SerialNumber string
}

type win32OperatingSystem struct {
	Caption        string
	Version        string
	OSArchitecture string
	BuildNumber    string
}

type softwareLicensingProduct struct {
	Name                          string
	Description                   string
	LicenseStatus                 uint32
	PartialProductKey             *string
	LicenseFamily                 *string
	ProductKeyChannel             *string
	IsKeyManagementServiceMachine uint32
}

type softwareLicensingService struct {
	OA3xOriginalProductKey            *string
	OA3xOriginalProductKeyDescription *string
}

func (systemSource) Hostname() (string, error) {
	return os.Hostname()
}

// SerialNumber queries Win32_BIOS for the chassis serial number.
func (systemSource) SerialNumber() (string, error) {
	var rows []win32BIOS
	if err := wmi.Query("SELECT SerialNumber FROM Win32_BIOS", &rows); err != nil {
		return "", err
	}
	if len(rows) == 0 || strings.TrimSpace(rows[0].SerialNumber) == "" {
		return "", errors.New("Win32_BIOS returned no serial number")
	}
	return strings.TrimSpace(rows[0].SerialNumber), nil
}

// OperatingSystem queries Win32_OperatingSystem for the OS descriptor.
func (systemSource) OperatingSystem() (OperatingSystemInfo, error) {
	var rows []win32OperatingSystem
	q := "SELECT Caption, Version, OSArchitecture, BuildNumber FROM Win32_OperatingSystem"
	if err := wmi.Query(q, &rows); err != nil {
		return OperatingSystemInfo{}, err
	}
	if len(rows) == 0 {
		return OperatingSystemInfo{}, errors.New("Win32_OperatingSystem returned no rows")
	}

	info := newOperatingSystemInfo()
	if v := strings.TrimSpace(rows[0].Caption); v != "" {
		info.Caption = v
	}
	if v := strings.TrimSpace(rows[0].Version); v != "" {
		info.Version = v
	}
	if v := strings.TrimSpace(rows[0].OSArchitecture); v != "" {
		info.Architecture = v
	}
	if v := strings.TrimSpace(rows[0].BuildNumber); v != "" {
		info.BuildNumber = v
	}
	return info, nil
}

// Uninstall hives scanned for Office products. Wow6432Node covers 32-bit
// installs on 64-bit Windows.
var uninstallHives = []string{
	`SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`,
	`SOFTWARE\Wow6432Node\Microsoft\Windows\CurrentVersion\Uninstall`,
}

// OfficeInstallations enumerates the uninstall registry and keeps entries
// whose display name marks them as an Office product.
func (systemSource) OfficeInstallations() ([]OfficeInstallation, error) {
	installs := []OfficeInstallation{}
	var lastErr error

	for _, hive := range uninstallHives {
		key, err := registry.OpenKey(registry.LOCAL_MACHINE, hive, registry.READ)
		if err != nil {
			lastErr = err
			continue
		}

		names, err := key.ReadSubKeyNames(0)
		if err != nil {
			key.Close()
			lastErr = err
			continue
		}

		for _, name := range names {
			sub, err := registry.OpenKey(registry.LOCAL_MACHINE, hive+`\`+name, registry.QUERY_VALUE)
			if err != nil {
				continue
			}

			displayName, _, err := sub.GetStringValue("DisplayName")
			if err != nil || !isOfficeProduct(displayName) {
				sub.Close()
				continue
			}

			installs = append(installs, OfficeInstallation{
				DisplayName:    displayName,
				DisplayVersion: stringValueOr(sub, "DisplayVersion", NotAvailable),
				Publisher:      stringValueOr(sub, "Publisher", NotAvailable),
				InstallDate:    stringValueOr(sub, "InstallDate", NotAvailable),
			})
			sub.Close()
		}
		key.Close()
	}

	// Both hives unreadable counts as a read failure; one readable hive
	// with no matches is an honest empty result.
	if len(installs) == 0 && lastErr != nil {
		return nil, fmt.Errorf("uninstall registry: %w", lastErr)
	}
	return installs, nil
}

func isOfficeProduct(displayName string) bool {
	name := strings.ToLower(displayName)
	return strings.Contains(name, "microsoft office") ||
		strings.Contains(name, "microsoft 365")
}

func stringValueOr(k registry.Key, name, fallback string) string {
	v, _, err := k.GetStringValue(name)
	if err != nil || strings.TrimSpace(v) == "" {
		return fallback
	}
	return strings.TrimSpace(v)
}

// LicensedProducts queries SoftwareLicensingProduct for products that have
// a product key installed.
func (systemSource) LicensedProducts() ([]LicensedProduct, error) {
	var rows []softwareLicensingProduct
	q := "SELECT Name, Description, LicenseStatus, PartialProductKey, LicenseFamily, " +
		"ProductKeyChannel, IsKeyManagementServiceMachine " +
		"FROM SoftwareLicensingProduct WHERE PartialProductKey IS NOT NULL"
	if err := wmi.Query(q, &rows); err != nil {
		return nil, err
	}

	products := make([]LicensedProduct, 0, len(rows))
	for _, r := range rows {
		products = append(products, LicensedProduct{
			Name:                          stringOr(r.Name, NotAvailable),
			Description:                   stringOr(r.Description, NotAvailable),
			LicenseStatus:                 int(r.LicenseStatus),
			PartialProductKey:             derefOr(r.PartialProductKey, NotAvailable),
			LicenseFamily:                 derefOr(r.LicenseFamily, NotAvailable),
			ProductKeyChannel:             derefOr(r.ProductKeyChannel, NotAvailable),
			IsKeyManagementServiceMachine: r.IsKeyManagementServiceMachine != 0,
		})
	}
	return products, nil
}

func stringOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func derefOr(v *string, fallback string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return fallback
	}
	return *v
}

// OEMProductKey queries SoftwareLicensingService for the firmware-embedded
// OA3x product key. An empty key with a nil error means the service holds
// no OEM key on this host.
func (systemSource) OEMProductKey() (string, string, error) {
	var rows []softwareLicensingService
	q := "SELECT OA3xOriginalProductKey, OA3xOriginalProductKeyDescription FROM SoftwareLicensingService"
	if err := wmi.Query(q, &rows); err != nil {
		return "", "", err
	}
	if len(rows) == 0 {
		return "", "", nil
	}
	return derefOr(rows[0].OA3xOriginalProductKey, ""),
		derefOr(rows[0].OA3xOriginalProductKeyDescription, ""), nil
}

const softwareProtectionKey = `SOFTWARE\Microsoft\Windows NT\CurrentVersion\SoftwareProtectionPlatform`

// BackupProductKey reads BackupProductKeyDefault from the software
// protection platform registry key. A missing value is an empty result,
// not an error.
func (systemSource) BackupProductKey() (string, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, softwareProtectionKey, registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	defer key.Close()

	v, _, err := key.GetStringValue("BackupProductKeyDefault")
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(v), nil
}
