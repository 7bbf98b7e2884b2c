package collector

// LicenseStatusDescription maps a software licensing status code to its
// human-readable description. Codes outside 0-6 map to "Unknown Status".
func LicenseStatusDescription(code int) string {
	switch code {
	case 0:
		return "Unlicensed"
	case 1:
		return "Licensed"
	case 2:
		return "Initial Grace Period"
	case 3:
		return "Additional Grace Period"
	case 4:
		return "Non-Genuine Grace Period"
	case 5:
		return "Notification"
	case 6:
		return "Extended Grace Period"
	default:
		return "Unknown Status"
	}
}
