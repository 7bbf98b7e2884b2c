//go:build !windows

package collector

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/siderolabs/go-smbios/smbios"
)

// portableSource is the degraded fact source for non-Windows hosts: the
// hostname and the firmware serial number are still readable, everything
// that lives in WMI or the Windows registry is not.
type portableSource struct{}

func newPlatformSource() SystemFactSource { return portableSource{} }

var errWindowsOnly = errors.New("only available on Windows")

func (portableSource) Hostname() (string, error) {
	return os.Hostname()
}

// SerialNumber reads the system serial number from the SMBIOS tables.
func (portableSource) SerialNumber() (string, error) {
	s, err := smbios.New()
	if err != nil {
		return "", fmt.Errorf("read SMBIOS tables: %w", err)
	}
	serial := strings.TrimSpace(s.SystemInformation.SerialNumber)
	if serial == "" {
		return "", errors.New("SMBIOS system information holds no serial number")
	}
	return serial, nil
}

func (portableSource) OperatingSystem() (OperatingSystemInfo, error) {
	return OperatingSystemInfo{}, fmt.Errorf("operating system descriptor: %w", errWindowsOnly)
}

func (portableSource) OfficeInstallations() ([]OfficeInstallation, error) {
	return nil, fmt.Errorf("uninstall registry: %w", errWindowsOnly)
}

func (portableSource) LicensedProducts() ([]LicensedProduct, error) {
	return nil, fmt.Errorf("software licensing service: %w", errWindowsOnly)
}

func (portableSource) OEMProductKey() (string, string, error) {
	return "", "", fmt.Errorf("software licensing service: %w", errWindowsOnly)
}

func (portableSource) BackupProductKey() (string, error) {
	return "", fmt.Errorf("software protection registry: %w", errWindowsOnly)
}
