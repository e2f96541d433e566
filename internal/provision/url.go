package provision

import "fmt"

// AccessURL computes the access URL for a provisioned service. The result is
// a pure function of the configured address and the service's fixed port.
func AccessURL(spec ServiceSpec) string {
	addr := spec.Address()
	switch spec.Kind {
	case KindPihole:
		return fmt.Sprintf("http://%s/admin", addr)
	case KindTrilium:
		return fmt.Sprintf("http://%s:8080", addr)
	case KindHomarr:
		return fmt.Sprintf("http://%s:7575", addr)
	case KindObservium:
		return fmt.Sprintf("http://%s", addr)
	case KindUnifi:
		return fmt.Sprintf("https://%s:8443", addr)
	case KindDocker:
		return fmt.Sprintf("https://%s:9443", addr)
	default:
		return ""
	}
}
