// Package updater checks for new releases on GitHub and can replace the
// running binary in place. Download goes to a temp file first, then an
// atomic rename over the current binary; the user restarts the server
// afterward.
package updater

import (
	"archive/tar"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
)

const githubRepo = "HendryAvila/jira-bridge"

// For testing: allow overriding the release URL and HTTP client.
var (
	releaseEndpoint = "https://api.github.com/repos/" + githubRepo + "/releases/latest"
	httpClient      = &http.Client{Timeout: 10 * time.Second}
)

// ReleaseInfo holds the relevant fields from a GitHub release.
type ReleaseInfo struct {
	TagName string  `json:"tag_name"`
	HTMLURL string  `json:"html_url"`
	Assets  []Asset `json:"assets"`
}

// Asset represents a downloadable file in a GitHub release.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// UpdateResult is returned by CheckVersion to communicate the outcome.
type UpdateResult struct {
	CurrentVersion  string
	LatestVersion   string
	UpdateAvailable bool
	ReleaseURL      string
}

// CheckVersion queries GitHub for the latest release and compares it
// against the running version. It never returns an error — network
// failures leave UpdateAvailable false (this is a best-effort check).
func CheckVersion(currentVersion string) *UpdateResult {
	result := &UpdateResult{CurrentVersion: normalizeVersion(currentVersion)}

	release, err := fetchLatestRelease()
	if err != nil {
		return result
	}
	result.LatestVersion = normalizeVersion(release.TagName)
	result.ReleaseURL = release.HTMLURL
	result.UpdateAvailable = versionLess(result.CurrentVersion, result.LatestVersion)
	return result
}

// SelfUpdate downloads the latest release asset for this platform and
// replaces the current binary.
func SelfUpdate(currentVersion string) error {
	release, err := fetchLatestRelease()
	if err != nil {
		return fmt.Errorf("fetching latest release: %w", err)
	}
	if !versionLess(normalizeVersion(currentVersion), normalizeVersion(release.TagName)) {
		return fmt.Errorf("already at the latest version")
	}

	assetName := fmt.Sprintf("jira-bridge_%s_%s.tar.gz", runtime.GOOS, runtime.GOARCH)
	var assetURL string
	for _, asset := range release.Assets {
		if asset.Name == assetName {
			assetURL = asset.BrowserDownloadURL
			break
		}
	}
	if assetURL == "" {
		return fmt.Errorf("no release asset for %s/%s", runtime.GOOS, runtime.GOARCH)
	}

	binPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locating current binary: %w", err)
	}
	binPath, err = filepath.EvalSymlinks(binPath)
	if err != nil {
		return fmt.Errorf("resolving binary path: %w", err)
	}

	tmpPath, err := downloadBinary(assetURL, filepath.Dir(binPath))
	if err != nil {
		return err
	}
	// Rename is atomic within one filesystem; the temp file lives next
	// to the target for that reason.
	if err := os.Rename(tmpPath, binPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing binary: %w", err)
	}
	return nil
}

func fetchLatestRelease() (*ReleaseInfo, error) {
	req, err := http.NewRequest(http.MethodGet, releaseEndpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github API returned %d", resp.StatusCode)
	}
	var release ReleaseInfo
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, err
	}
	return &release, nil
}

// downloadBinary fetches a tar.gz asset and extracts the jira-bridge
// binary into dir, returning the temp file path.
func downloadBinary(assetURL, dir string) (string, error) {
	resp, err := httpClient.Get(assetURL)
	if err != nil {
		return "", fmt.Errorf("downloading release: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download returned %d", resp.StatusCode)
	}

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("opening archive: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return "", fmt.Errorf("binary not found in archive")
		}
		if err != nil {
			return "", fmt.Errorf("reading archive: %w", err)
		}
		if header.Typeflag != tar.TypeReg || filepath.Base(header.Name) != "jira-bridge" {
			continue
		}

		tmp, err := os.CreateTemp(dir, ".jira-bridge-update-*")
		if err != nil {
			return "", fmt.Errorf("creating temp file: %w", err)
		}
		if _, err := io.Copy(tmp, tr); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return "", fmt.Errorf("extracting binary: %w", err)
		}
		if err := tmp.Close(); err != nil {
			os.Remove(tmp.Name())
			return "", fmt.Errorf("closing temp file: %w", err)
		}
		if err := os.Chmod(tmp.Name(), 0o755); err != nil {
			os.Remove(tmp.Name())
			return "", fmt.Errorf("marking binary executable: %w", err)
		}
		return tmp.Name(), nil
	}
}

// normalizeVersion strips a leading "v".
func normalizeVersion(v string) string {
	return strings.TrimPrefix(strings.TrimSpace(v), "v")
}

// versionLess compares dotted numeric versions: "0.9.0" < "0.10.0".
// Non-numeric segments compare as zero; "dev" never updates to itself
// but any tagged release is newer than "dev".
func versionLess(a, b string) bool {
	if a == b || b == "" {
		return false
	}
	if a == "dev" {
		return true
	}
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		av, bv := 0, 0
		if i < len(as) {
			av, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bv, _ = strconv.Atoi(bs[i])
		}
		if av != bv {
			return av < bv
		}
	}
	return false
}
