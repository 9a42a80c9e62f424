package fetch

import (
	"net/url"
	"strings"
)

// Platform identifies a known job board or careers-page host. Platform
// detection drives content selectors so extraction latches onto the posting
// body instead of navigation chrome.
type Platform string

const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformLinkedIn   Platform = "linkedin"
	PlatformIndeed     Platform = "indeed"
	PlatformGeneric    Platform = "generic"
)

// DetectPlatform inspects the URL host and returns the matching Platform.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformGeneric
	}
	host := strings.ToLower(parsed.Host)

	switch {
	case strings.Contains(host, "greenhouse.io"):
		return PlatformGreenhouse
	case strings.Contains(host, "lever.co"):
		return PlatformLever
	case strings.Contains(host, "myworkdayjobs.com") || strings.Contains(host, "workday"):
		return PlatformWorkday
	case strings.Contains(host, "linkedin.com"):
		return PlatformLinkedIn
	case strings.Contains(host, "indeed.com"):
		return PlatformIndeed
	default:
		return PlatformGeneric
	}
}

// ContentSelectors returns CSS selectors for the posting's main content,
// most specific first.
func (p Platform) ContentSelectors() []string {
	switch p {
	case PlatformGreenhouse:
		return []string{"#content", ".job__description", "#app_body", "main"}
	case PlatformLever:
		return []string{".posting", ".section-wrapper .section", "main"}
	case PlatformWorkday:
		return []string{"[data-automation-id='jobPostingDescription']", "main"}
	case PlatformLinkedIn:
		return []string{".description__text", ".show-more-less-html__markup", "main"}
	case PlatformIndeed:
		return []string{"#jobDescriptionText", ".jobsearch-JobComponent", "main"}
	default:
		return []string{"main", "article", "[role='main']", ".job-description", ".job-details", "#job-description", ".description", ".content"}
	}
}

// NoiseSelectors returns selectors for elements that should be stripped
// before text extraction.
func (p Platform) NoiseSelectors() []string {
	base := []string{".apply-button", ".share-buttons", ".similar-jobs", ".related-jobs"}
	switch p {
	case PlatformLinkedIn:
		return append(base, ".top-card-layout__cta-container", ".similar-jobs__list")
	case PlatformIndeed:
		return append(base, ".jobsearch-CompanyReview", "#mosaic-belowFullJobDescription")
	default:
		return base
	}
}

// TitleSelectors returns selectors likely to contain the job title.
func (p Platform) TitleSelectors() []string {
	switch p {
	case PlatformGreenhouse:
		return []string{".app-title", "h1.section-header", "h1"}
	case PlatformLever:
		return []string{".posting-headline h2", "h2"}
	case PlatformWorkday:
		return []string{"[data-automation-id='jobPostingHeader']", "h1"}
	case PlatformLinkedIn:
		return []string{".top-card-layout__title", "h1"}
	case PlatformIndeed:
		return []string{".jobsearch-JobInfoHeader-title", "h1"}
	default:
		return []string{"h1.job-title", ".job-title", "h1"}
	}
}

// CompanySelectors returns selectors likely to contain the company name.
func (p Platform) CompanySelectors() []string {
	switch p {
	case PlatformGreenhouse:
		return []string{".company-name", "#header .company-name"}
	case PlatformLever:
		return []string{".posting-headline .posting-categories .department", ".main-header-logo img[alt]"}
	case PlatformWorkday:
		return []string{"[data-automation-id='company']"}
	case PlatformLinkedIn:
		return []string{".topcard__org-name-link", ".top-card-layout__second-subline a"}
	case PlatformIndeed:
		return []string{"[data-company-name]", ".jobsearch-CompanyInfoContainer a"}
	default:
		return []string{".company-name", ".company", "[itemprop='hiringOrganization']"}
	}
}

// LocationSelectors returns selectors likely to contain the job location.
func (p Platform) LocationSelectors() []string {
	switch p {
	case PlatformGreenhouse:
		return []string{".location"}
	case PlatformLever:
		return []string{".posting-categories .location"}
	case PlatformWorkday:
		return []string{"[data-automation-id='locations']"}
	case PlatformLinkedIn:
		return []string{".topcard__flavor--bullet", ".top-card-layout__second-subline span"}
	case PlatformIndeed:
		return []string{"[data-testid='job-location']", ".jobsearch-JobInfoHeader-subtitle div"}
	default:
		return []string{".job-location", ".location", "[itemprop='jobLocation']"}
	}
}
