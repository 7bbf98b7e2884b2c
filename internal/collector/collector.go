package collector

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Warning records a fact that could not be read. The sentinel-filled record
// for that fact is still present in the report; the warning is surfaced so
// the entry point can log it.
type Warning struct {
	Fact string
	Err  error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %v", w.Fact, w.Err)
}

// Collect gathers a full endpoint report from src. It attempts every fact
// family exactly once, in a fixed order, and never fails: a fact that cannot
// be read degrades to its sentinel record and produces a warning. The
// returned report is always complete.
func Collect(src SystemFactSource) (*EndpointReport, []Warning) {
	report := &EndpointReport{
		RunID:            uuid.NewString(),
		CollectedAt:      time.Now().UTC(),
		Host:             newHostIdentity(),
		OperatingSystem:  newOperatingSystemInfo(),
		InstalledOffice:  []OfficeInstallation{},
		LicensedProducts: []LicensedProduct{},
	}

	var warnings []Warning
	warn := func(fact string, err error) {
		warnings = append(warnings, Warning{Fact: fact, Err: err})
	}

	if hostname, err := src.Hostname(); err != nil {
		warn("hostname", err)
	} else {
		report.Host.Hostname = hostname
	}

	if serial, err := src.SerialNumber(); err != nil {
		warn("serial number", err)
	} else {
		report.Host.SerialNumber = serial
	}

	if osInfo, err := src.OperatingSystem(); err != nil {
		warn("operating system", err)
	} else {
		report.OperatingSystem = osInfo
	}

	if office, err := src.OfficeInstallations(); err != nil {
		warn("installed office", err)
	} else if office != nil {
		report.InstalledOffice = office
	}

	if products, err := src.LicensedProducts(); err != nil {
		warn("licensed products", err)
	} else if products != nil {
		report.LicensedProducts = products
	}

	var oemWarn []Warning
	report.OEMProductKey, oemWarn = resolveOEMProductKey(src)
	warnings = append(warnings, oemWarn...)

	return report, warnings
}

// resolveOEMProductKey looks the OEM key up in the licensing service first
// and falls back to the backup registry value when the service yields
// nothing, including when the service call itself errors. Only when no
// source produces a key does the outcome distinguish "not found" (every
// source answered, none held a key) from "error" (a source failed).
func resolveOEMProductKey(src SystemFactSource) (OEMProductKeyInfo, []Warning) {
	var warnings []Warning

	key, description, primaryErr := src.OEMProductKey()
	if primaryErr == nil && key != "" {
		if description == "" {
			description = NotAvailable
		}
		return OEMProductKeyInfo{
			Key:         key,
			Description: description,
			Result:      "OA3xOriginalProductKey retrieved successfully from SoftwareLicensingService",
		}, nil
	}
	if primaryErr != nil {
		warnings = append(warnings, Warning{Fact: "oem product key (licensing service)", Err: primaryErr})
	}

	backupKey, backupErr := src.BackupProductKey()
	if backupErr == nil && backupKey != "" {
		return OEMProductKeyInfo{
			Key:         backupKey,
			Description: NotAvailable,
			Result:      "OA3xOriginalProductKey retrieved successfully from registry (BackupProductKeyDefault)",
		}, warnings
	}
	if backupErr != nil {
		warnings = append(warnings, Warning{Fact: "oem product key (registry backup)", Err: backupErr})
	}

	if primaryErr != nil || backupErr != nil {
		return OEMProductKeyInfo{
			Key:         KeyError,
			Description: NotAvailable,
			Result:      "Error retrieving OA3xOriginalProductKey",
		}, warnings
	}

	return OEMProductKeyInfo{
		Key:         KeyNotFound,
		Description: NotAvailable,
		Result:      "OA3xOriginalProductKey not present in SoftwareLicensingService or registry",
	}, nil
}
