package dist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"time"

	"elan/internal/notify"
)

// archiveSuffixes lists the archive formats Extract understands, in order of
// preference.
var archiveSuffixes = []string{".tar.gz", ".tar.xz", ".tgz", ".zip"}

// Asset is a downloadable release artefact.
type Asset struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Checksum string `json:"checksum,omitempty"`
}

// Release is a resolved distribution snapshot.
type Release struct {
	Repo  string `json:"repo"`
	Tag   string `json:"tag"`
	Asset Asset  `json:"asset"`
}

// Identity is the value recorded in a toolchain's update hash.
func (r Release) Identity() string {
	return r.Repo + "@" + r.Tag + "/" + r.Asset.Name
}

// Resolver turns descriptors into concrete releases through the GitHub
// releases API.
type Resolver struct {
	APIURL        string
	DefaultOrigin string
	UserAgent     string
	Client        *http.Client
	Cache         *ReleaseCache
	GOOS          string
	GOARCH        string
}

// NewResolver returns a resolver for the running platform.
func NewResolver(apiURL, origin string, cache *ReleaseCache) *Resolver {
	return &Resolver{
		APIURL:        strings.TrimRight(apiURL, "/"),
		DefaultOrigin: origin,
		UserAgent:     "elan/1.0",
		Client:        &http.Client{Timeout: 30 * time.Second},
		Cache:         cache,
		GOOS:          runtime.GOOS,
		GOARCH:        runtime.GOARCH,
	}
}

type githubReleaseAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Digest             string `json:"digest"`
}

type githubRelease struct {
	TagName    string               `json:"tag_name"`
	Prerelease bool                 `json:"prerelease"`
	Assets     []githubReleaseAsset `json:"assets"`
}

// Resolve finds the release d currently refers to. Tracking lookups are
// served from the cache while it is fresh.
func (r *Resolver) Resolve(ctx context.Context, d Descriptor, h notify.Handler) (Release, error) {
	key := d.String()
	if d.IsTracking() && r.Cache != nil {
		if cached, ok := r.Cache.Get(key); ok {
			h.Emit(notify.Notification{Kind: notify.UsingCachedRelease, Toolchain: key})
			return cached, nil
		}
	}

	repo := d.OriginOr(r.DefaultOrigin)
	if d.IsNightly() {
		repo += "-nightly"
	}

	gh, err := r.fetch(ctx, repo, d)
	if err != nil {
		return Release{}, err
	}

	platform, err := platformKey(r.GOOS, r.GOARCH)
	if err != nil {
		return Release{}, err
	}
	asset, err := selectAsset(gh.Assets, platform)
	if err != nil {
		return Release{}, fmt.Errorf("%s %s: %w", repo, gh.TagName, err)
	}

	rel := Release{Repo: repo, Tag: gh.TagName, Asset: asset}
	if d.IsTracking() && r.Cache != nil {
		r.Cache.Put(key, rel)
	}
	return rel, nil
}

func (r *Resolver) fetch(ctx context.Context, repo string, d Descriptor) (githubRelease, error) {
	base := fmt.Sprintf("%s/repos/%s/releases", r.APIURL, repo)
	switch d.Release {
	case ChannelStable, ChannelNightly:
		var rel githubRelease
		err := r.getJSON(ctx, base+"/latest", &rel)
		return rel, err
	case ChannelBeta:
		var rels []githubRelease
		if err := r.getJSON(ctx, base+"?per_page=20", &rels); err != nil {
			return githubRelease{}, err
		}
		if len(rels) == 0 {
			return githubRelease{}, fmt.Errorf("no releases published for %s", repo)
		}
		return rels[0], nil
	default:
		var rel githubRelease
		err := r.getJSON(ctx, base+"/tags/"+url.PathEscape(d.Tag()), &rel)
		return rel, err
	}
}

var errReleaseNotFound = errors.New("release not found")

func (r *Resolver) getJSON(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", r.UserAgent)

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("query %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", endpoint, errReleaseNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("query %s: unexpected status %s", endpoint, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode release metadata: %w", err)
	}
	return nil
}

func selectAsset(assets []githubReleaseAsset, platform string) (Asset, error) {
	for _, suffix := range archiveSuffixes {
		for _, a := range assets {
			stem, ok := strings.CutSuffix(a.Name, suffix)
			if !ok || !strings.HasSuffix(stem, "-"+platform) {
				continue
			}
			return Asset{
				Name:     a.Name,
				URL:      a.BrowserDownloadURL,
				Checksum: strings.TrimPrefix(a.Digest, "sha256:"),
			}, nil
		}
	}
	return Asset{}, fmt.Errorf("no asset for platform %s", platform)
}
