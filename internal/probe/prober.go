package probe

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/leadflowhq/leadflow/internal/extract"
)

// Outcome classifies how a probe ended. Failures are data, not errors: the
// distinction between a timeout, a refused connection, and a page with no
// contacts stays observable without ever reaching the caller as an error.
type Outcome string

// Probe outcomes.
const (
	OutcomeFound       Outcome = "found"
	OutcomeNone        Outcome = "none"
	OutcomeSkipped     Outcome = "skipped"
	OutcomeFetchFailed Outcome = "fetch_failed"
)

// Result carries whatever contact details a probe discovered. Empty Email or
// Phone means absent. Reason is only set for OutcomeFetchFailed.
type Result struct {
	Email   string
	Phone   string
	Outcome Outcome
	Reason  string
}

// Config controls probe timeouts and the contact-page fallback.
type Config struct {
	HomeTimeout    time.Duration
	ContactTimeout time.Duration
	ContactPath    string
}

// Prober mines a single website for contact details.
type Prober struct {
	fetcher Fetcher
	cfg     Config
	logger  *zap.Logger
}

// New constructs a Prober. Zero config fields fall back to the defaults the
// service ships with (10s homepage, 5s contact page, /kontakt).
func New(fetcher Fetcher, cfg Config, logger *zap.Logger) *Prober {
	if cfg.HomeTimeout <= 0 {
		cfg.HomeTimeout = 10 * time.Second
	}
	if cfg.ContactTimeout <= 0 {
		cfg.ContactTimeout = 5 * time.Second
	}
	if cfg.ContactPath == "" {
		cfg.ContactPath = "/kontakt"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prober{fetcher: fetcher, cfg: cfg, logger: logger}
}

// Probe fetches the site homepage and, when no email turns up, its contact
// page, and extracts contact details from the combined text. It never returns
// an error: every failure path degrades to an absent-contacts Result.
func (p *Prober) Probe(ctx context.Context, rawURL string) Result {
	if rawURL == "" || !strings.HasPrefix(rawURL, "http") {
		return Result{Outcome: OutcomeSkipped}
	}

	resp, err := p.fetcher.Fetch(ctx, rawURL, p.cfg.HomeTimeout)
	if err != nil {
		p.logger.Warn("site fetch failed", zap.String("url", rawURL), zap.Error(err))
		return Result{Outcome: OutcomeFetchFailed, Reason: err.Error()}
	}

	text := pageText(resp.Body)
	contacts := extract.FindContacts(text)

	if contacts.Email == "" {
		contactURL := strings.TrimRight(rawURL, "/") + p.cfg.ContactPath
		if extra, ferr := p.fetcher.Fetch(ctx, contactURL, p.cfg.ContactTimeout); ferr == nil {
			text += "\n" + pageText(extra.Body)
			contacts = extract.FindContacts(text)
		}
	}

	result := Result{Email: contacts.Email, Phone: contacts.Phone, Outcome: OutcomeFound}
	if contacts.Email == "" && contacts.Phone == "" {
		result.Outcome = OutcomeNone
	}
	return result
}

// pageText renders fetched HTML to plain text, keeping mailto/tel link targets
// which often carry the only machine-readable contact on a page. Unparseable
// bodies are scanned as-is.
func pageText(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return string(body)
	}
	doc.Find("script, style, noscript").Remove()

	var b strings.Builder
	b.WriteString(doc.Text())
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		for _, scheme := range []string{"mailto:", "tel:"} {
			if strings.HasPrefix(href, scheme) {
				b.WriteString("\n")
				b.WriteString(strings.TrimPrefix(href, scheme))
			}
		}
	})
	return b.String()
}
