// Package extraction turns a job posting URL into a normalized JobInfo.
// Extraction is total: it degrades to placeholder values on failure and
// never aborts the pipeline.
package extraction

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jonathan/cv-agent/internal/fetch"
	"github.com/jonathan/cv-agent/internal/llm"
	"github.com/jonathan/cv-agent/internal/prompts"
	"github.com/jonathan/cv-agent/internal/types"
)

// Options configures extraction behavior.
type Options struct {
	// UseLLM enables LLM-based extraction. When false or when no client is
	// available, extraction falls back to CSS selector mode.
	UseLLM bool
	// UseBrowser enables the headless browser fallback for pages whose
	// plain-HTTP content looks JavaScript-rendered.
	UseBrowser bool
	// FetchOptions overrides the default HTTP fetch settings.
	FetchOptions *fetch.Options
}

// Extractor produces JobInfo records from posting URLs.
type Extractor struct {
	client llm.Client
	logger *slog.Logger
	opts   Options
}

// New creates an Extractor. The client may be nil, in which case only
// selector-mode extraction is used.
func New(client llm.Client, logger *slog.Logger, opts Options) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{client: client, logger: logger, opts: opts}
}

// Extract fetches the URL and extracts job information from it.
// It never returns an error: any failure produces a JobInfo carrying
// placeholder values with Err set to the failure reason.
func (e *Extractor) Extract(ctx context.Context, url string) types.JobInfo {
	html, fetchErr := e.fetchHTML(ctx, url)
	if fetchErr != nil {
		e.logger.Warn("fetch failed, using placeholder job info", "url", url, "error", fetchErr)
		return placeholderJob(url, fetchErr.Error())
	}

	platform := fetch.DetectPlatform(url)
	e.logger.Debug("detected platform", "url", url, "platform", platform)

	if e.opts.UseLLM && e.client != nil {
		if info, ok := e.extractWithLLM(ctx, url, html); ok {
			return info
		}
		e.logger.Warn("LLM extraction failed, falling back to selectors", "url", url)
	}

	return e.extractWithSelectors(url, html, platform)
}

// fetchHTML fetches the page, escalating to a headless browser when the
// plain-HTTP result looks too thin to be a real posting.
func (e *Extractor) fetchHTML(ctx context.Context, url string) (string, error) {
	result, err := fetch.URL(ctx, url, e.opts.FetchOptions)
	if err != nil {
		if !e.opts.UseBrowser {
			return "", err
		}
		e.logger.Debug("plain fetch failed, trying browser", "url", url, "error", err)
		browserResult, berr := fetch.WithBrowser(ctx, url, nil)
		if berr != nil {
			return "", err
		}
		return browserResult.HTML, nil
	}

	if e.opts.UseBrowser {
		text, terr := fetch.VisibleText(result.HTML)
		if terr == nil && fetch.ShouldUseBrowser(text) {
			e.logger.Debug("content looks JavaScript-rendered, trying browser", "url", url, "length", len(text))
			if browserResult, berr := fetch.WithBrowser(ctx, url, nil); berr == nil {
				return browserResult.HTML, nil
			}
		}
	}

	return result.HTML, nil
}

// extractWithLLM asks the model to extract fields using the sentinel
// protocol. Returns ok=false when the model call or response parsing fails.
func (e *Extractor) extractWithLLM(ctx context.Context, url, html string) (types.JobInfo, bool) {
	pageText, err := fetch.VisibleText(html)
	if err != nil || strings.TrimSpace(pageText) == "" {
		return types.JobInfo{}, false
	}

	prompt := prompts.Format(prompts.MustGet("extraction.json", "extract_job"), map[string]string{
		"URL":      url,
		"PageText": pageText,
	})

	response, err := e.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		e.logger.Warn("LLM extraction call failed", "url", url, "error", err)
		return types.JobInfo{}, false
	}

	info, ok := ParseSentinelResponse(response)
	if !ok {
		e.logger.Warn("LLM response did not match sentinel format", "url", url)
		return types.JobInfo{}, false
	}
	info.URL = url
	return info, true
}

// extractWithSelectors extracts fields using platform-specific CSS
// selectors, with heuristics on the page title as a last resort.
func (e *Extractor) extractWithSelectors(url, html string, platform fetch.Platform) types.JobInfo {
	info := types.JobInfo{URL: url}

	if title, err := fetch.SelectFirstText(html, platform.TitleSelectors()); err == nil {
		info.Title = title
	}
	if company, err := fetch.SelectFirstText(html, platform.CompanySelectors()); err == nil {
		info.Company = company
	}
	if location, err := fetch.SelectFirstText(html, platform.LocationSelectors()); err == nil {
		info.Location = location
	}

	if info.Title == "" || info.Company == "" {
		pageTitle, _ := fetch.PageTitle(html)
		title, company := SplitPageTitle(pageTitle)
		if info.Title == "" {
			info.Title = title
		}
		if info.Company == "" {
			info.Company = company
		}
	}

	description, err := fetch.ExtractMainText(html, platform.ContentSelectors(), platform.NoiseSelectors()...)
	if err == nil {
		info.Description = description
	}

	if info.Title == "" {
		info.Title = types.UnknownTitle
	}
	if info.Company == "" {
		info.Company = types.UnknownCompany
	}
	if strings.TrimSpace(info.Description) == "" {
		info.Description = types.UnknownDescription
	}

	return info
}

// SplitPageTitle applies common "Title - Company", "Title at Company" and
// "Title | Company" patterns to a page <title> to recover job title and
// company. Either return value may be empty.
func SplitPageTitle(pageTitle string) (title, company string) {
	pageTitle = strings.TrimSpace(pageTitle)
	if pageTitle == "" {
		return "", ""
	}

	for _, sep := range []string{" - ", " | ", " at ", " @ "} {
		if idx := strings.Index(pageTitle, sep); idx > 0 {
			return strings.TrimSpace(pageTitle[:idx]), strings.TrimSpace(pageTitle[idx+len(sep):])
		}
	}
	return pageTitle, ""
}

func placeholderJob(url, reason string) types.JobInfo {
	return types.JobInfo{
		URL:         url,
		Title:       types.UnknownTitle,
		Company:     types.UnknownCompany,
		Description: types.UnknownDescription,
		Err:         reason,
	}
}
