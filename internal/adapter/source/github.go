package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// GitHubDownloader fetches repository archives from github.com.
type GitHubDownloader struct {
	httpClient *http.Client
}

// NewGitHubDownloader creates a downloader with the given HTTP client. A nil
// client falls back to a default one.
func NewGitHubDownloader(client *http.Client) *GitHubDownloader {
	if client == nil {
		client = &http.Client{}
	}
	return &GitHubDownloader{httpClient: client}
}

// ParseRepoURL extracts owner and repo from a GitHub URL such as
// https://github.com/owner/repo or owner/repo.
func ParseRepoURL(githubURL string) (owner, repo string, err error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(githubURL), "https://github.com/")
	trimmed = strings.TrimPrefix(trimmed, "http://github.com/")
	trimmed = strings.TrimSuffix(trimmed, ".git")
	trimmed = strings.Trim(trimmed, "/")

	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid github url: %q", githubURL)
	}
	return parts[0], parts[1], nil
}

// DownloadArchive downloads the zip archive of a repository's main branch.
func (d *GitHubDownloader) DownloadArchive(ctx context.Context, owner, repo string) ([]byte, error) {
	url := fmt.Sprintf("https://github.com/%s/%s/archive/refs/heads/main.zip", owner, repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s/%s: %w", owner, repo, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github archive error (%d) for %s/%s", resp.StatusCode, owner, repo)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	return data, nil
}
