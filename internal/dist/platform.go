package dist

import "fmt"

// platformKey names the release asset suffix built for goos/goarch.
func platformKey(goos, goarch string) (string, error) {
	switch goos {
	case "linux":
		switch goarch {
		case "amd64":
			return "linux", nil
		case "arm64":
			return "linux_aarch64", nil
		}
	case "darwin":
		switch goarch {
		case "amd64":
			return "darwin", nil
		case "arm64":
			return "darwin_aarch64", nil
		}
	case "windows":
		if goarch == "amd64" {
			return "windows", nil
		}
	}
	return "", fmt.Errorf("no prebuilt toolchains for %s/%s", goos, goarch)
}
