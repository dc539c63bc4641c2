// Package update checks GitHub releases for a newer build and can replace
// the running executable in place. Downloads are pinned to GitHub hosts and
// verified against the release's checksums.txt before anything is touched.
package update

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"syscall"
	"time"
)

const (
	defaultRepo   = "appengine-ltd/craft-it"
	defaultBinary = "craft-it"
	githubAPI     = "https://api.github.com"

	maxArchiveBytes   = 200 << 20
	maxBinaryBytes    = 200 << 20
	maxChecksumsBytes = 1 << 20
)

var (
	assetHosts = map[string]struct{}{
		"api.github.com":                        {},
		"github.com":                            {},
		"objects.githubusercontent.com":         {},
		"github-releases.githubusercontent.com": {},
	}
	repoPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)
)

// Status is the outcome of a release check.
type Status struct {
	Current   string
	Latest    string
	Available bool
}

func (s Status) String() string {
	switch {
	case !s.Available && s.Current == s.Latest:
		return fmt.Sprintf("Up to date (v%s).", s.Latest)
	case !s.Available:
		return fmt.Sprintf("Latest release is v%s.", s.Latest)
	default:
		return fmt.Sprintf("Update available: v%s -> v%s.", s.Current, s.Latest)
	}
}

// Check reports whether a newer release than currentVersion exists.
func Check(currentVersion string) (Status, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	rel, err := latestRelease(ctx, defaultRepo)
	if err != nil {
		return Status{}, err
	}
	return statusFor(currentVersion, rel.TagName), nil
}

// Apply downloads the latest release, verifies it, swaps the running binary
// and restarts. On an up-to-date build it returns the status text instead.
func Apply(currentVersion string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	rel, err := latestRelease(ctx, defaultRepo)
	if err != nil {
		return "", err
	}
	status := statusFor(currentVersion, rel.TagName)
	if !status.Available {
		return status.String(), nil
	}

	assetName := archiveName(defaultBinary, rel.TagName, runtime.GOOS, runtime.GOARCH)
	archiveURL, err := findAsset(rel, assetName)
	if err != nil {
		return "", err
	}
	checksumsURL, err := findAsset(rel, "checksums.txt")
	if err != nil {
		return "", err
	}

	wantSHA, err := fetchChecksum(ctx, checksumsURL, assetName)
	if err != nil {
		return "", err
	}

	tmpDir, err := os.MkdirTemp("", "craft-it-update-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(tmpDir)

	archivePath := filepath.Join(tmpDir, assetName)
	if err := download(ctx, archiveURL, archivePath); err != nil {
		return "", err
	}
	gotSHA, err := sha256File(archivePath)
	if err != nil {
		return "", err
	}
	if !strings.EqualFold(gotSHA, wantSHA) {
		return "", fmt.Errorf("checksum mismatch for %s: got %s want %s", assetName, gotSHA, wantSHA)
	}

	newBin, err := extractBinary(tmpDir, archivePath)
	if err != nil {
		return "", err
	}
	if err := replaceSelf(newBin); err != nil {
		return "", err
	}
	return "", restart()
}

func statusFor(current, tag string) Status {
	latest := strings.TrimPrefix(tag, "v")
	cur := strings.TrimPrefix(current, "v")
	// String compare is enough while releases are linear; dev builds never
	// self-update.
	available := latest != cur && cur != "dev" && cur != ""
	return Status{Current: cur, Latest: latest, Available: available}
}

type release struct {
	TagName string  `json:"tag_name"`
	Assets  []asset `json:"assets"`
}

type asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

func httpClient() *http.Client {
	return &http.Client{Timeout: 20 * time.Second}
}

func validateRepo(repo string) error {
	if !repoPattern.MatchString(repo) {
		return fmt.Errorf("invalid repository format: %q", repo)
	}
	return nil
}

func validateHTTPSURL(raw string, allowedHosts map[string]struct{}) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if !strings.EqualFold(parsed.Scheme, "https") {
		return fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme)
	}
	if _, ok := allowedHosts[strings.ToLower(parsed.Hostname())]; !ok {
		return fmt.Errorf("unsupported URL host: %s", parsed.Hostname())
	}
	return nil
}

func latestRelease(ctx context.Context, repo string) (*release, error) {
	if err := validateRepo(repo); err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/repos/%s/releases/latest", githubAPI, repo)
	if err := validateHTTPSURL(endpoint, map[string]struct{}{"api.github.com": {}}); err != nil {
		return nil, err
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	req.Header.Set("Accept", "application/vnd.github+json")
	resp, err := httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("github latest release: %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, err
	}
	if rel.TagName == "" {
		return nil, errors.New("latest release has no tag_name")
	}
	for _, a := range rel.Assets {
		if err := validateHTTPSURL(a.BrowserDownloadURL, assetHosts); err != nil {
			return nil, fmt.Errorf("invalid asset URL for %s: %w", a.Name, err)
		}
	}
	return &rel, nil
}

func findAsset(rel *release, name string) (string, error) {
	for _, a := range rel.Assets {
		if a.Name == name {
			return a.BrowserDownloadURL, nil
		}
	}
	return "", fmt.Errorf("release asset not found: %s", name)
}

func archiveName(project, tag, goos, goarch string) string {
	ver := strings.TrimPrefix(tag, "v")
	ext := "tar.gz"
	if goos == "windows" {
		ext = "zip"
	}
	return fmt.Sprintf("%s_%s_%s_%s.%s", project, ver, goos, goarch, ext)
}

func download(ctx context.Context, rawURL, dest string) error {
	if err := validateHTTPSURL(rawURL, assetHosts); err != nil {
		return err
	}
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	resp, err := httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("download %s: %s: %s", rawURL, resp.Status, strings.TrimSpace(string(b)))
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := io.Copy(f, io.LimitReader(resp.Body, maxArchiveBytes+1))
	if err != nil {
		return err
	}
	if n > maxArchiveBytes {
		return fmt.Errorf("download exceeded max size (%d bytes)", maxArchiveBytes)
	}
	return nil
}

func fetchChecksum(ctx context.Context, checksumsURL, assetName string) (string, error) {
	if err := validateHTTPSURL(checksumsURL, assetHosts); err != nil {
		return "", err
	}
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, checksumsURL, nil)
	resp, err := httpClient().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download checksums: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxChecksumsBytes+1))
	if err != nil {
		return "", err
	}
	if len(data) > maxChecksumsBytes {
		return "", fmt.Errorf("checksums file exceeded max size (%d bytes)", maxChecksumsBytes)
	}
	return findChecksum(string(data), assetName)
}

// findChecksum parses "<sha256>  <filename>" lines.
func findChecksum(data, assetName string) (string, error) {
	for _, line := range strings.Split(data, "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) < 2 {
			continue
		}
		if fields[len(fields)-1] == assetName {
			return fields[0], nil
		}
	}
	return "", fmt.Errorf("checksum not found for %s", assetName)
}

func sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func extractBinary(tmpDir, archivePath string) (string, error) {
	if strings.HasSuffix(archivePath, ".zip") {
		return extractFromZip(tmpDir, archivePath)
	}
	return extractFromTarGz(tmpDir, archivePath)
}

func extractFromTarGz(tmpDir, archivePath string) (string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	gzr, err := gzip.NewReader(f)
	if err != nil {
		return "", err
	}
	defer gzr.Close()

	tr := tar.NewReader(gzr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if filepath.Base(hdr.Name) != defaultBinary {
			continue
		}
		if hdr.Size < 0 || hdr.Size > maxBinaryBytes {
			return "", fmt.Errorf("archive binary size out of bounds: %d", hdr.Size)
		}
		return writeBinary(filepath.Join(tmpDir, defaultBinary+".new"), tr)
	}
	return "", errors.New("binary not found in tar.gz")
}

func extractFromZip(tmpDir, archivePath string) (string, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", err
	}
	defer zr.Close()

	for _, f := range zr.File {
		base := filepath.Base(f.Name)
		if base != defaultBinary && base != defaultBinary+".exe" {
			continue
		}
		if f.UncompressedSize64 > maxBinaryBytes {
			return "", fmt.Errorf("zip binary size out of bounds: %d", f.UncompressedSize64)
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		out, err := writeBinary(filepath.Join(tmpDir, defaultBinary+".new.exe"), rc)
		closeErr := rc.Close()
		if err != nil {
			return "", err
		}
		if closeErr != nil {
			return "", closeErr
		}
		return out, nil
	}
	return "", errors.New("binary not found in zip")
}

func writeBinary(dest string, r io.Reader) (string, error) {
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o755)
	if err != nil {
		return "", err
	}
	written, err := io.Copy(out, io.LimitReader(r, maxBinaryBytes+1))
	if err != nil {
		_ = out.Close()
		return "", err
	}
	if written > maxBinaryBytes {
		_ = out.Close()
		return "", fmt.Errorf("extracted binary exceeded max size (%d bytes)", maxBinaryBytes)
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return dest, nil
}

func replaceSelf(newBinPath string) error {
	current, err := os.Executable()
	if err != nil {
		return err
	}
	current, err = filepath.EvalSymlinks(current)
	if err != nil {
		return err
	}

	tmp := filepath.Join(filepath.Dir(current), "."+defaultBinary+".tmp")
	if err := copyFile(newBinPath, tmp, 0o755); err != nil {
		return err
	}

	backup := current + ".bak"
	_ = os.Remove(backup)
	if err := os.Rename(current, backup); err != nil {
		return fmt.Errorf("backup current: %w", err)
	}
	if err := os.Rename(tmp, current); err != nil {
		_ = os.Rename(backup, current)
		return fmt.Errorf("replace current: %w", err)
	}
	_ = os.Remove(backup)
	return nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func restart() error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	if runtime.GOOS == "windows" {
		cmd := exec.Command(exe, os.Args[1:]...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		cmd.Stdin = os.Stdin
		if err := cmd.Start(); err != nil {
			return err
		}
		os.Exit(0)
		return nil
	}
	return syscall.Exec(exe, os.Args, os.Environ())
}
